package repositories

import (
	"context"
	"time"

	"github.com/ledgercore/invoice_engine/internal/core/domain"
	"github.com/shopspring/decimal"
)

// RateLookup resolves a conversion rate from the time series: the most
// recent rate effective on or before the given date for the company.
// Implementations return apperrors.ErrNotFound when no rate exists.
type RateLookup interface {
	LookupRate(ctx context.Context, fromCurrencyCode, toCurrencyCode, companyID string, asOf time.Time) (decimal.Decimal, error)
}

// ExchangeRateReader defines read operations for exchange rate data
type ExchangeRateReader interface {
	RateLookup

	// FindExchangeRate retrieves the latest stored rate between two currencies.
	FindExchangeRate(ctx context.Context, fromCurrencyCode, toCurrencyCode string) (*domain.ExchangeRate, error)
}

// ExchangeRateWriter defines write operations for exchange rate data
type ExchangeRateWriter interface {
	// SaveExchangeRate persists a new exchange rate.
	SaveExchangeRate(ctx context.Context, rate domain.ExchangeRate) error
}

// ExchangeRateRepositoryFacade combines all exchange rate-related repository interfaces
// This is a facade for clients that need access to all operations
type ExchangeRateRepositoryFacade interface {
	ExchangeRateReader
	ExchangeRateWriter
}
