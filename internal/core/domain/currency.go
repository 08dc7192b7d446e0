package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// Currency represents a supported currency in the domain.
type Currency struct {
	CurrencyCode  string          `json:"currencyCode"`  // Primary Key (e.g., "USD")
	Symbol        string          `json:"symbol"`        // e.g., "$"
	Name          string          `json:"name"`          // e.g., "US Dollar"
	DecimalPlaces int32           `json:"decimalPlaces"` // e.g., 2
	Rounding      decimal.Decimal `json:"rounding"`      // Smallest representable increment, e.g. 0.01 or 0.05
	AuditFields
}

// RoundingIncrement returns the currency's rounding increment, falling back to
// the increment implied by DecimalPlaces when none is configured.
func (c Currency) RoundingIncrement() decimal.Decimal {
	if c.Rounding.IsPositive() {
		return c.Rounding
	}
	return decimal.New(1, -c.DecimalPlaces)
}

// Round rounds amount to the currency's rounding increment, half away from zero.
func (c Currency) Round(amount decimal.Decimal) decimal.Decimal {
	increment := c.RoundingIncrement()
	return amount.Div(increment).Round(0).Mul(increment)
}

// IsZero reports whether amount rounds to zero at the currency's precision.
func (c Currency) IsZero(amount decimal.Decimal) bool {
	return c.Round(amount).IsZero()
}

// CompareAmounts compares a and b at the currency's precision.
// Returns -1, 0 or 1.
func (c Currency) CompareAmounts(a, b decimal.Decimal) int {
	return c.Round(a).Cmp(c.Round(b))
}

// ExchangeRate stores the conversion rate between two currencies for a
// company, effective from a specific date.
type ExchangeRate struct {
	ExchangeRateID   string          `json:"exchangeRateID"`   // Primary Key (e.g., UUID)
	CompanyID        string          `json:"companyID"`        // FK -> companies.company_id
	FromCurrencyCode string          `json:"fromCurrencyCode"` // FK -> currencies.currency_code
	ToCurrencyCode   string          `json:"toCurrencyCode"`   // FK -> currencies.currency_code
	Rate             decimal.Decimal `json:"rate"`
	DateEffective    time.Time       `json:"dateEffective"`
	AuditFields
}

// Company is the legal entity owning journal entries. Its currency is the
// base currency every balance is expressed in.
type Company struct {
	CompanyID    string `json:"companyID"`
	Name         string `json:"name"`
	CurrencyCode string `json:"currencyCode"`
	AuditFields
}
