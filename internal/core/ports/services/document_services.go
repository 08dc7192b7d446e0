package services

import (
	"context"

	"github.com/ledgercore/invoice_engine/internal/core/domain"
	"github.com/shopspring/decimal"
)

// RecomputeOptions tunes a document recompute pass.
type RecomputeOptions struct {
	// RecomputeTaxBaseOnly limits the tax line reconciliation to updating
	// the tax base amounts, leaving debit/credit untouched.
	RecomputeTaxBaseOnly bool
}

// DocumentRecomputeSvc recomputes the generated lines of a document
// snapshot: tax lines first, then the cash rounding line. The returned diff
// has already been applied to doc; callers persist it as they see fit.
type DocumentRecomputeSvc interface {
	RecomputeDocument(ctx context.Context, doc *domain.Document, opts RecomputeOptions) (domain.LineDiff, error)

	// NormalizePriceUnit converts a company-currency price into the
	// document currency, override-rate aware.
	NormalizePriceUnit(ctx context.Context, doc *domain.Document, price decimal.Decimal) (decimal.Decimal, error)

	// SetAmountTotal rewrites both lines of a plain two-line entry so their
	// magnitudes match the given total.
	SetAmountTotal(ctx context.Context, doc *domain.Document, total decimal.Decimal) (domain.LineDiff, error)

	// RecomputeBalanceFromAmountCurrency rederives a line's debit/credit
	// from its amount in document currency.
	RecomputeBalanceFromAmountCurrency(ctx context.Context, doc *domain.Document, lineID string) (domain.LineDiff, error)
}

// TaxReportSvc renders grouped tax totals for display.
type TaxReportSvc interface {
	TaxTotalsByGroup(ctx context.Context, doc *domain.Document) ([]domain.TaxGroupTotal, error)
}

// ReconcileSvcFacade exposes settlement-graph operations.
type ReconcileSvcFacade interface {
	// CheckFullReconcile walks the settlement graph from the seed lines and
	// finalizes the reconciliation when the graph nets to zero. It returns
	// nil without error when the graph is not (or not yet) fully
	// reconcilable.
	CheckFullReconcile(ctx context.Context, seedLineIDs []string) (*domain.FullReconcile, error)

	// ReconciledInfo lists the settlements against the document's
	// receivable/payable lines, amounts in document currency.
	ReconciledInfo(ctx context.Context, doc *domain.Document) ([]domain.ReconciledInfo, error)
}
