package pgsql

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/ledgercore/invoice_engine/internal/core/domain"
	portsrepo "github.com/ledgercore/invoice_engine/internal/core/ports/repositories"
	"github.com/shopspring/decimal"
)

// PgxReconcileRepository implements the ledger store: journal lines,
// document headers, settlement edges and full reconciliations.
type PgxReconcileRepository struct {
	pool *pgxpool.Pool
}

// NewPgxReconcileRepository creates a new repository for ledger and
// reconciliation data.
func NewPgxReconcileRepository(pool *pgxpool.Pool) portsrepo.ReconciliationRepositoryWithTx {
	return &PgxReconcileRepository{pool: pool}
}

// Begin starts a new database transaction.
func (r *PgxReconcileRepository) Begin(ctx context.Context) (pgx.Tx, error) {
	return r.pool.Begin(ctx)
}

// Commit commits a transaction.
func (r *PgxReconcileRepository) Commit(ctx context.Context, tx pgx.Tx) error {
	return tx.Commit(ctx)
}

// Rollback rolls back a transaction.
func (r *PgxReconcileRepository) Rollback(ctx context.Context, tx pgx.Tx) error {
	return tx.Rollback(ctx)
}

const lineColumns = `
	line_id, document_id, name, sequence, line_date,
	account_id, account_internal_type, partner_id, company_id, analytic_account_id,
	quantity, price_unit, discount,
	currency_code, amount_currency, debit, credit,
	tax_ids, tax_repartition_line_id, tax_line_id, tax_base_amount, tax_exigible, tag_ids,
	is_rounding_line, exclude_from_line_editor,
	amount_residual, amount_residual_currency,
	created_at, created_by, last_updated_at, last_updated_by`

func scanLine(row pgx.CollectableRow) (domain.JournalLine, error) {
	var line domain.JournalLine
	err := row.Scan(
		&line.LineID, &line.DocumentID, &line.Name, &line.Sequence, &line.Date,
		&line.AccountID, &line.AccountInternalType, &line.PartnerID, &line.CompanyID, &line.AnalyticAccountID,
		&line.Quantity, &line.PriceUnit, &line.Discount,
		&line.CurrencyCode, &line.AmountCurrency, &line.Debit, &line.Credit,
		&line.TaxIDs, &line.TaxRepartitionLineID, &line.TaxLineID, &line.TaxBaseAmount, &line.TaxExigible, &line.TagIDs,
		&line.IsRoundingLine, &line.ExcludeFromLineEditor,
		&line.AmountResidual, &line.AmountResidualCurrency,
		&line.CreatedAt, &line.CreatedBy, &line.LastUpdatedAt, &line.LastUpdatedBy,
	)
	return line, err
}

// FindLinesByIDs retrieves lines by identifier. Lines that do not exist are
// simply absent from the result.
func (r *PgxReconcileRepository) FindLinesByIDs(ctx context.Context, lineIDs []string) ([]domain.JournalLine, error) {
	if len(lineIDs) == 0 {
		return []domain.JournalLine{}, nil
	}
	query := `SELECT ` + lineColumns + ` FROM journal_lines WHERE line_id = ANY($1);`
	rows, err := r.pool.Query(ctx, query, lineIDs)
	if err != nil {
		return nil, fmt.Errorf("failed to query journal lines: %w", err)
	}
	defer rows.Close()

	lines, err := pgx.CollectRows(rows, scanLine)
	if err != nil {
		return nil, fmt.Errorf("failed to scan journal lines: %w", err)
	}
	return lines, nil
}

// FindLinesByDocumentID retrieves all lines of a document in sequence order.
func (r *PgxReconcileRepository) FindLinesByDocumentID(ctx context.Context, documentID string) ([]domain.JournalLine, error) {
	query := `SELECT ` + lineColumns + ` FROM journal_lines WHERE document_id = $1 ORDER BY sequence, line_id;`
	rows, err := r.pool.Query(ctx, query, documentID)
	if err != nil {
		return nil, fmt.Errorf("failed to query lines of document %s: %w", documentID, err)
	}
	defer rows.Close()

	lines, err := pgx.CollectRows(rows, scanLine)
	if err != nil {
		return nil, fmt.Errorf("failed to scan lines of document %s: %w", documentID, err)
	}
	return lines, nil
}

// SaveLine inserts or replaces a journal line.
func (r *PgxReconcileRepository) SaveLine(ctx context.Context, tx pgx.Tx, line domain.JournalLine) error {
	query := `
		INSERT INTO journal_lines (` + lineColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19, $20, $21, $22, $23, $24, $25, $26, $27, $28, $29, $30, $31)
		ON CONFLICT (line_id) DO UPDATE SET
			name = EXCLUDED.name,
			sequence = EXCLUDED.sequence,
			account_id = EXCLUDED.account_id,
			account_internal_type = EXCLUDED.account_internal_type,
			analytic_account_id = EXCLUDED.analytic_account_id,
			quantity = EXCLUDED.quantity,
			price_unit = EXCLUDED.price_unit,
			discount = EXCLUDED.discount,
			currency_code = EXCLUDED.currency_code,
			amount_currency = EXCLUDED.amount_currency,
			debit = EXCLUDED.debit,
			credit = EXCLUDED.credit,
			tax_ids = EXCLUDED.tax_ids,
			tax_repartition_line_id = EXCLUDED.tax_repartition_line_id,
			tax_line_id = EXCLUDED.tax_line_id,
			tax_base_amount = EXCLUDED.tax_base_amount,
			tax_exigible = EXCLUDED.tax_exigible,
			tag_ids = EXCLUDED.tag_ids,
			is_rounding_line = EXCLUDED.is_rounding_line,
			exclude_from_line_editor = EXCLUDED.exclude_from_line_editor,
			amount_residual = EXCLUDED.amount_residual,
			amount_residual_currency = EXCLUDED.amount_residual_currency,
			last_updated_at = EXCLUDED.last_updated_at,
			last_updated_by = EXCLUDED.last_updated_by;
	`
	_, err := tx.Exec(ctx, query,
		line.LineID, line.DocumentID, line.Name, line.Sequence, line.Date,
		line.AccountID, line.AccountInternalType, line.PartnerID, line.CompanyID, line.AnalyticAccountID,
		line.Quantity, line.PriceUnit, line.Discount,
		line.CurrencyCode, line.AmountCurrency, line.Debit, line.Credit,
		line.TaxIDs, line.TaxRepartitionLineID, line.TaxLineID, line.TaxBaseAmount, line.TaxExigible, line.TagIDs,
		line.IsRoundingLine, line.ExcludeFromLineEditor,
		line.AmountResidual, line.AmountResidualCurrency,
		line.CreatedAt, line.CreatedBy, line.LastUpdatedAt, line.LastUpdatedBy,
	)
	if err != nil {
		return fmt.Errorf("failed to save journal line %s: %w", line.LineID, err)
	}
	return nil
}

// SettleLineResiduals zeroes the residual amounts of the given lines.
func (r *PgxReconcileRepository) SettleLineResiduals(ctx context.Context, tx pgx.Tx, lineIDs []string) error {
	if len(lineIDs) == 0 {
		return nil
	}
	query := `
		UPDATE journal_lines
		SET amount_residual = 0, amount_residual_currency = 0
		WHERE line_id = ANY($1);
	`
	_, err := tx.Exec(ctx, query, lineIDs)
	if err != nil {
		return fmt.Errorf("failed to settle line residuals: %w", err)
	}
	return nil
}

const documentColumns = `
	d.document_id, d.doc_type, d.doc_date, d.reference, d.journal_name,
	d.company_id, d.partner_id, d.status, d.purchase_rate, d.cash_rounding,
	d.cash_basis_origin_partial_id,
	d.created_at, d.created_by, d.last_updated_at, d.last_updated_by,
	cc.currency_code, cc.symbol, cc.name, cc.decimal_places, cc.rounding,
	dc.currency_code, dc.symbol, dc.name, dc.decimal_places, dc.rounding`

func scanDocument(row pgx.CollectableRow) (domain.Document, error) {
	var doc domain.Document
	var cashRounding []byte
	err := row.Scan(
		&doc.DocumentID, &doc.Type, &doc.Date, &doc.Reference, &doc.JournalName,
		&doc.CompanyID, &doc.PartnerID, &doc.Status, &doc.PurchaseRate, &cashRounding,
		&doc.CashBasisOriginPartialID,
		&doc.CreatedAt, &doc.CreatedBy, &doc.LastUpdatedAt, &doc.LastUpdatedBy,
		&doc.CompanyCurrency.CurrencyCode, &doc.CompanyCurrency.Symbol, &doc.CompanyCurrency.Name, &doc.CompanyCurrency.DecimalPlaces, &doc.CompanyCurrency.Rounding,
		&doc.Currency.CurrencyCode, &doc.Currency.Symbol, &doc.Currency.Name, &doc.Currency.DecimalPlaces, &doc.Currency.Rounding,
	)
	if err != nil {
		return doc, err
	}
	if len(cashRounding) > 0 {
		var config domain.CashRoundingConfig
		if err := json.Unmarshal(cashRounding, &config); err != nil {
			return doc, fmt.Errorf("invalid cash rounding config on document %s: %w", doc.DocumentID, err)
		}
		doc.CashRounding = &config
	}
	return doc, nil
}

// FindDocumentHeadersByIDs retrieves documents without their lines, with
// both currencies hydrated from the currencies table.
func (r *PgxReconcileRepository) FindDocumentHeadersByIDs(ctx context.Context, documentIDs []string) ([]domain.Document, error) {
	if len(documentIDs) == 0 {
		return []domain.Document{}, nil
	}
	query := `
		SELECT ` + documentColumns + `
		FROM documents d
		JOIN currencies cc ON cc.currency_code = d.company_currency_code
		JOIN currencies dc ON dc.currency_code = d.currency_code
		WHERE d.document_id = ANY($1);
	`
	rows, err := r.pool.Query(ctx, query, documentIDs)
	if err != nil {
		return nil, fmt.Errorf("failed to query documents: %w", err)
	}
	defer rows.Close()

	docs, err := pgx.CollectRows(rows, scanDocument)
	if err != nil {
		return nil, fmt.Errorf("failed to scan documents: %w", err)
	}
	return docs, nil
}

// SaveDocument persists a document header.
func (r *PgxReconcileRepository) SaveDocument(ctx context.Context, tx pgx.Tx, doc domain.Document) error {
	var cashRounding []byte
	if doc.CashRounding != nil {
		encoded, err := json.Marshal(doc.CashRounding)
		if err != nil {
			return fmt.Errorf("failed to encode cash rounding config: %w", err)
		}
		cashRounding = encoded
	}
	query := `
		INSERT INTO documents (
			document_id, doc_type, doc_date, reference, journal_name,
			company_id, company_currency_code, currency_code, partner_id, status,
			purchase_rate, cash_rounding, cash_basis_origin_partial_id,
			created_at, created_by, last_updated_at, last_updated_by
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17)
		ON CONFLICT (document_id) DO UPDATE SET
			reference = EXCLUDED.reference,
			status = EXCLUDED.status,
			purchase_rate = EXCLUDED.purchase_rate,
			cash_rounding = EXCLUDED.cash_rounding,
			last_updated_at = EXCLUDED.last_updated_at,
			last_updated_by = EXCLUDED.last_updated_by;
	`
	_, err := tx.Exec(ctx, query,
		doc.DocumentID, doc.Type, doc.Date, doc.Reference, doc.JournalName,
		doc.CompanyID, doc.CompanyCurrency.CurrencyCode, doc.Currency.CurrencyCode, doc.PartnerID, doc.Status,
		doc.PurchaseRate, cashRounding, doc.CashBasisOriginPartialID,
		doc.CreatedAt, doc.CreatedBy, doc.LastUpdatedAt, doc.LastUpdatedBy,
	)
	if err != nil {
		return fmt.Errorf("failed to save document %s: %w", doc.DocumentID, err)
	}
	return nil
}

// MarkDocumentPosted transitions a document to its final state.
func (r *PgxReconcileRepository) MarkDocumentPosted(ctx context.Context, tx pgx.Tx, documentID string) error {
	query := `UPDATE documents SET status = $2 WHERE document_id = $1;`
	tag, err := tx.Exec(ctx, query, documentID, domain.Posted)
	if err != nil {
		return fmt.Errorf("failed to post document %s: %w", documentID, err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("failed to post document %s: no such document", documentID)
	}
	return nil
}

// FindPartialsTouchingLines retrieves the settlement edges referencing any
// of the given lines on either side, excluding already visited edges.
func (r *PgxReconcileRepository) FindPartialsTouchingLines(ctx context.Context, lineIDs []string, excludePartialIDs []string) ([]domain.PartialReconcile, error) {
	if len(lineIDs) == 0 {
		return []domain.PartialReconcile{}, nil
	}
	if excludePartialIDs == nil {
		excludePartialIDs = []string{}
	}
	query := `
		SELECT partial_id, debit_line_id, credit_line_id, amount, amount_currency, currency_code,
			created_at, created_by, last_updated_at, last_updated_by
		FROM partial_reconciles
		WHERE (debit_line_id = ANY($1) OR credit_line_id = ANY($1))
		  AND NOT (partial_id = ANY($2));
	`
	rows, err := r.pool.Query(ctx, query, lineIDs, excludePartialIDs)
	if err != nil {
		return nil, fmt.Errorf("failed to query settlement edges: %w", err)
	}
	defer rows.Close()

	partials, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (domain.PartialReconcile, error) {
		var partial domain.PartialReconcile
		err := row.Scan(
			&partial.PartialID, &partial.DebitLineID, &partial.CreditLineID,
			&partial.Amount, &partial.AmountCurrency, &partial.CurrencyCode,
			&partial.CreatedAt, &partial.CreatedBy, &partial.LastUpdatedAt, &partial.LastUpdatedBy,
		)
		return partial, err
	})
	if err != nil {
		return nil, fmt.Errorf("failed to scan settlement edges: %w", err)
	}
	return partials, nil
}

// SavePartialReconcile persists a new settlement edge.
func (r *PgxReconcileRepository) SavePartialReconcile(ctx context.Context, tx pgx.Tx, partial domain.PartialReconcile) error {
	query := `
		INSERT INTO partial_reconciles (
			partial_id, debit_line_id, credit_line_id, amount, amount_currency, currency_code,
			created_at, created_by, last_updated_at, last_updated_by
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10);
	`
	_, err := tx.Exec(ctx, query,
		partial.PartialID, partial.DebitLineID, partial.CreditLineID,
		partial.Amount, partial.AmountCurrency, partial.CurrencyCode,
		partial.CreatedAt, partial.CreatedBy, partial.LastUpdatedAt, partial.LastUpdatedBy,
	)
	if err != nil {
		return fmt.Errorf("failed to save settlement edge %s: %w", partial.PartialID, err)
	}
	return nil
}

// SaveFullReconcile persists a full reconciliation record and stamps it on
// the closed lines and edges.
func (r *PgxReconcileRepository) SaveFullReconcile(ctx context.Context, tx pgx.Tx, full domain.FullReconcile) error {
	query := `
		INSERT INTO full_reconciles (
			full_reconcile_id, exchange_document_id,
			created_at, created_by, last_updated_at, last_updated_by
		) VALUES ($1, $2, $3, $4, $5, $6);
	`
	_, err := tx.Exec(ctx, query,
		full.FullReconcileID, full.ExchangeDocumentID,
		full.CreatedAt, full.CreatedBy, full.LastUpdatedAt, full.LastUpdatedBy,
	)
	if err != nil {
		return fmt.Errorf("failed to save full reconciliation %s: %w", full.FullReconcileID, err)
	}

	_, err = tx.Exec(ctx, `UPDATE journal_lines SET full_reconcile_id = $1 WHERE line_id = ANY($2);`,
		full.FullReconcileID, full.LineIDs)
	if err != nil {
		return fmt.Errorf("failed to stamp lines with full reconciliation %s: %w", full.FullReconcileID, err)
	}

	_, err = tx.Exec(ctx, `UPDATE partial_reconciles SET full_reconcile_id = $1 WHERE partial_id = ANY($2);`,
		full.FullReconcileID, full.PartialIDs)
	if err != nil {
		return fmt.Errorf("failed to stamp edges with full reconciliation %s: %w", full.FullReconcileID, err)
	}
	return nil
}

// MatchedPercentage returns the settled fraction (0..1) of the
// receivable/payable side of the given document.
func (r *PgxReconcileRepository) MatchedPercentage(ctx context.Context, documentID string) (decimal.Decimal, error) {
	query := `
		SELECT
			COALESCE(SUM(ABS(debit - credit)), 0) AS total,
			COALESCE(SUM(ABS(amount_residual)), 0) AS residual
		FROM journal_lines
		WHERE document_id = $1
		  AND account_internal_type IN ($2, $3);
	`
	var total, residual decimal.Decimal
	err := r.pool.QueryRow(ctx, query, documentID, domain.Receivable, domain.Payable).Scan(&total, &residual)
	if err != nil {
		return decimal.Zero, fmt.Errorf("failed to compute matched percentage for document %s: %w", documentID, err)
	}
	if total.IsZero() {
		return decimal.NewFromInt(1), nil
	}
	return total.Sub(residual).Div(total), nil
}
