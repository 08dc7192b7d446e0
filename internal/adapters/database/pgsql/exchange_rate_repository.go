package pgsql

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/ledgercore/invoice_engine/internal/apperrors"
	"github.com/ledgercore/invoice_engine/internal/core/domain"
	portsrepo "github.com/ledgercore/invoice_engine/internal/core/ports/repositories"
	"github.com/shopspring/decimal"
)

// PgxExchangeRateRepository implements the exchange rate repository facade
// over the rate time series using pgxpool.
type PgxExchangeRateRepository struct {
	db *pgxpool.Pool
}

// NewExchangeRateRepository creates a new PgxExchangeRateRepository.
func NewExchangeRateRepository(db *pgxpool.Pool) *PgxExchangeRateRepository {
	return &PgxExchangeRateRepository{db: db}
}

var _ portsrepo.ExchangeRateRepositoryFacade = (*PgxExchangeRateRepository)(nil)

// SaveExchangeRate inserts a new exchange rate into the database.
func (r *PgxExchangeRateRepository) SaveExchangeRate(ctx context.Context, rate domain.ExchangeRate) error {
	query := `
		INSERT INTO exchange_rates (
			exchange_rate_id, company_id, from_currency_code, to_currency_code, rate, date_effective,
			created_at, created_by, last_updated_at, last_updated_by
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
	`
	_, err := r.db.Exec(ctx, query,
		rate.ExchangeRateID, rate.CompanyID, rate.FromCurrencyCode, rate.ToCurrencyCode, rate.Rate, rate.DateEffective,
		rate.CreatedAt, rate.CreatedBy, rate.LastUpdatedAt, rate.LastUpdatedBy,
	)
	if err != nil {
		return fmt.Errorf("error inserting exchange rate: %w", err)
	}
	return nil
}

// FindExchangeRate retrieves the latest stored rate for a currency pair.
func (r *PgxExchangeRateRepository) FindExchangeRate(ctx context.Context, fromCode, toCode string) (*domain.ExchangeRate, error) {
	query := `
		SELECT
			exchange_rate_id, company_id, from_currency_code, to_currency_code, rate, date_effective,
			created_at, created_by, last_updated_at, last_updated_by
		FROM exchange_rates
		WHERE from_currency_code = $1 AND to_currency_code = $2
		ORDER BY date_effective DESC
		LIMIT 1
	`
	rate := &domain.ExchangeRate{}
	err := r.db.QueryRow(ctx, query, fromCode, toCode).Scan(
		&rate.ExchangeRateID, &rate.CompanyID, &rate.FromCurrencyCode, &rate.ToCurrencyCode, &rate.Rate, &rate.DateEffective,
		&rate.CreatedAt, &rate.CreatedBy, &rate.LastUpdatedAt, &rate.LastUpdatedBy,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound // Use custom not found error
		}
		return nil, fmt.Errorf("error finding exchange rate: %w", err)
	}
	return rate, nil
}

// LookupRate resolves the conversion rate effective on or before asOf for
// the company. When no direct rate exists it falls back to the inverse of
// the opposite pair.
func (r *PgxExchangeRateRepository) LookupRate(ctx context.Context, fromCode, toCode, companyID string, asOf time.Time) (decimal.Decimal, error) {
	query := `
		SELECT rate
		FROM exchange_rates
		WHERE from_currency_code = $1 AND to_currency_code = $2
		  AND company_id = $3 AND date_effective <= $4
		ORDER BY date_effective DESC
		LIMIT 1
	`
	var rate decimal.Decimal
	err := r.db.QueryRow(ctx, query, fromCode, toCode, companyID, asOf).Scan(&rate)
	if err == nil {
		return rate, nil
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		return decimal.Zero, fmt.Errorf("error looking up exchange rate %s->%s: %w", fromCode, toCode, err)
	}

	// Inverse fallback.
	var inverse decimal.Decimal
	err = r.db.QueryRow(ctx, query, toCode, fromCode, companyID, asOf).Scan(&inverse)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return decimal.Zero, fmt.Errorf("%w: no exchange rate %s->%s effective on %s", apperrors.ErrNotFound, fromCode, toCode, asOf.Format("2006-01-02"))
		}
		return decimal.Zero, fmt.Errorf("error looking up exchange rate %s->%s: %w", toCode, fromCode, err)
	}
	if inverse.IsZero() {
		return decimal.Zero, fmt.Errorf("%w: zero exchange rate stored for %s->%s", apperrors.ErrValidation, toCode, fromCode)
	}
	return decimal.NewFromInt(1).Div(inverse), nil
}
