package utils

import (
	"strings"

	"github.com/ledgercore/invoice_engine/internal/core/domain"
	"github.com/shopspring/decimal"
)

// FormatWithCurrencyPrecision formats an amount with the correct precision for a given currency
// Example: amount 12.3456 with USD (2 decimal places) returns "12.35"
// Example: amount 12.3456 with JPY (0 decimal places) returns "12"
func FormatWithCurrencyPrecision(amount decimal.Decimal, currency domain.Currency) string {
	return amount.Round(currency.DecimalPlaces).StringFixed(currency.DecimalPlaces)
}

// FormatWithCurrencySymbol renders an amount for display, with the
// currency's symbol appended, e.g. "12.35 $".
func FormatWithCurrencySymbol(amount decimal.Decimal, currency domain.Currency) string {
	formatted := FormatWithCurrencyPrecision(amount, currency)
	if currency.Symbol == "" {
		return formatted
	}
	return strings.TrimSpace(formatted + " " + currency.Symbol)
}

// FormatWithPrecision formats an amount with the given precision
// This is a convenience function when you only have the precision value
func FormatWithPrecision(amount decimal.Decimal, precision int32) string {
	return amount.Round(precision).String()
}
