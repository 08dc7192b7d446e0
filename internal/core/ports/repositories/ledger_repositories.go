package repositories

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/ledgercore/invoice_engine/internal/core/domain"
	"github.com/shopspring/decimal"
)

// JournalLineReader defines read operations for persisted journal lines.
type JournalLineReader interface {
	// FindLinesByIDs retrieves lines by identifier. Implementations return
	// every line found; the caller is responsible for detecting gaps.
	FindLinesByIDs(ctx context.Context, lineIDs []string) ([]domain.JournalLine, error)

	// FindLinesByDocumentID retrieves all lines of a document in sequence
	// order.
	FindLinesByDocumentID(ctx context.Context, documentID string) ([]domain.JournalLine, error)
}

// JournalLineWriter defines write operations for persisted journal lines.
// Writes run on the given transaction so a multi-step mutation commits or
// rolls back as a whole.
type JournalLineWriter interface {
	// SaveLine inserts or replaces a journal line.
	SaveLine(ctx context.Context, tx pgx.Tx, line domain.JournalLine) error

	// SettleLineResiduals zeroes the residual amounts of the given lines.
	SettleLineResiduals(ctx context.Context, tx pgx.Tx, lineIDs []string) error
}

// DocumentReader defines read operations for document headers.
type DocumentReader interface {
	// FindDocumentHeadersByIDs retrieves documents without their lines.
	FindDocumentHeadersByIDs(ctx context.Context, documentIDs []string) ([]domain.Document, error)
}

// DocumentWriter defines write operations for documents.
type DocumentWriter interface {
	// SaveDocument persists a document header.
	SaveDocument(ctx context.Context, tx pgx.Tx, doc domain.Document) error

	// MarkDocumentPosted transitions a document to its final state.
	MarkDocumentPosted(ctx context.Context, tx pgx.Tx, documentID string) error
}

// PartialReconcileReader defines read operations for settlement edges.
type PartialReconcileReader interface {
	// FindPartialsTouchingLines retrieves the settlement edges referencing
	// any of the given lines on either side, excluding already visited
	// edges.
	FindPartialsTouchingLines(ctx context.Context, lineIDs []string, excludePartialIDs []string) ([]domain.PartialReconcile, error)
}

// PartialReconcileWriter defines write operations for settlement edges.
type PartialReconcileWriter interface {
	// SavePartialReconcile persists a new settlement edge.
	SavePartialReconcile(ctx context.Context, tx pgx.Tx, partial domain.PartialReconcile) error
}

// FullReconcileWriter persists full-reconciliation records.
type FullReconcileWriter interface {
	SaveFullReconcile(ctx context.Context, tx pgx.Tx, full domain.FullReconcile) error
}

// CashBasisReader exposes the settlement progress needed by the cash-basis
// full-reconciliation exception.
type CashBasisReader interface {
	// MatchedPercentage returns the settled fraction (0..1) of the
	// receivable/payable side of the given document.
	MatchedPercentage(ctx context.Context, documentID string) (decimal.Decimal, error)
}

// ReconciliationRepositoryFacade combines everything the full
// reconciliation detector needs from the ledger store.
type ReconciliationRepositoryFacade interface {
	JournalLineReader
	JournalLineWriter
	DocumentReader
	DocumentWriter
	PartialReconcileReader
	PartialReconcileWriter
	FullReconcileWriter
	CashBasisReader
}

// ReconciliationRepositoryWithTx extends the facade with transaction
// capabilities so the mutations of a finalization commit together.
type ReconciliationRepositoryWithTx interface {
	ReconciliationRepositoryFacade
	TransactionManager
}
