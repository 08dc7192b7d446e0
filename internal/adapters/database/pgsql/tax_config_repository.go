package pgsql

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/ledgercore/invoice_engine/internal/apperrors"
	"github.com/ledgercore/invoice_engine/internal/core/domain"
	portsrepo "github.com/ledgercore/invoice_engine/internal/core/ports/repositories"
)

// PgxTaxConfigRepository reads the tax configuration tables maintained by
// the host application.
type PgxTaxConfigRepository struct {
	pool *pgxpool.Pool
}

// NewPgxTaxConfigRepository creates a new repository for tax configuration.
func NewPgxTaxConfigRepository(pool *pgxpool.Pool) portsrepo.TaxConfigReader {
	return &PgxTaxConfigRepository{pool: pool}
}

const taxColumns = `
	t.tax_id, t.name, t.sequence, t.amount_type, t.amount, t.price_include,
	t.include_base_amount, t.exigibility, t.tax_group_id, t.tax_group_name,
	t.created_at, t.created_by, t.last_updated_at, t.last_updated_by`

func (r *PgxTaxConfigRepository) scanTax(ctx context.Context, row pgx.Row) (*domain.Tax, error) {
	var tax domain.Tax
	err := row.Scan(
		&tax.TaxID, &tax.Name, &tax.Sequence, &tax.AmountType, &tax.Amount, &tax.PriceInclude,
		&tax.IncludeBaseAmount, &tax.Exigibility, &tax.TaxGroupID, &tax.TaxGroupName,
		&tax.CreatedAt, &tax.CreatedBy, &tax.LastUpdatedAt, &tax.LastUpdatedBy,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to scan tax: %w", err)
	}

	invoice, refund, err := r.loadRepartition(ctx, tax.TaxID)
	if err != nil {
		return nil, err
	}
	tax.InvoiceRepartition = invoice
	tax.RefundRepartition = refund
	return &tax, nil
}

// loadRepartition fetches the repartition lines of a tax, split by document
// direction.
func (r *PgxTaxConfigRepository) loadRepartition(ctx context.Context, taxID string) (invoice, refund []domain.TaxRepartitionLine, err error) {
	query := `
		SELECT repartition_line_id, tax_id, repartition_type, document_direction, factor, account_id, tag_ids
		FROM tax_repartition_lines
		WHERE tax_id = $1
		ORDER BY sequence;
	`
	rows, err := r.pool.Query(ctx, query, taxID)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to query repartition lines for tax %s: %w", taxID, err)
	}
	defer rows.Close()

	for rows.Next() {
		var line domain.TaxRepartitionLine
		var direction string
		if err := rows.Scan(&line.RepartitionLineID, &line.TaxID, &line.Type, &direction, &line.Factor, &line.AccountID, &line.TagIDs); err != nil {
			return nil, nil, fmt.Errorf("failed to scan repartition line: %w", err)
		}
		if direction == "refund" {
			refund = append(refund, line)
		} else {
			invoice = append(invoice, line)
		}
	}
	if err := rows.Err(); err != nil {
		return nil, nil, fmt.Errorf("failed to read repartition lines for tax %s: %w", taxID, err)
	}
	return invoice, refund, nil
}

// FindTaxByID retrieves a tax definition with its repartition lines.
func (r *PgxTaxConfigRepository) FindTaxByID(ctx context.Context, taxID string) (*domain.Tax, error) {
	query := `SELECT ` + taxColumns + ` FROM taxes t WHERE t.tax_id = $1;`
	return r.scanTax(ctx, r.pool.QueryRow(ctx, query, taxID))
}

// FindTaxByRepartitionLineID retrieves the tax owning a repartition line.
func (r *PgxTaxConfigRepository) FindTaxByRepartitionLineID(ctx context.Context, repartitionLineID string) (*domain.Tax, error) {
	query := `
		SELECT ` + taxColumns + `
		FROM taxes t
		JOIN tax_repartition_lines rl ON rl.tax_id = t.tax_id
		WHERE rl.repartition_line_id = $1;
	`
	return r.scanTax(ctx, r.pool.QueryRow(ctx, query, repartitionLineID))
}

// FindAccountByID retrieves a chart-of-accounts entry.
func (r *PgxTaxConfigRepository) FindAccountByID(ctx context.Context, accountID string) (*domain.Account, error) {
	query := `
		SELECT account_id, code, name, account_type, internal_type, currency_code, is_active,
			created_at, created_by, last_updated_at, last_updated_by
		FROM accounts
		WHERE account_id = $1;
	`
	var account domain.Account
	err := r.pool.QueryRow(ctx, query, accountID).Scan(
		&account.AccountID, &account.Code, &account.Name, &account.AccountType, &account.InternalType,
		&account.CurrencyCode, &account.IsActive,
		&account.CreatedAt, &account.CreatedBy, &account.LastUpdatedAt, &account.LastUpdatedBy,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find account by ID %s: %w", accountID, err)
	}
	return &account, nil
}
