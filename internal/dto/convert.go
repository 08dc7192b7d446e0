package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// ConvertRequest defines a single currency conversion.
type ConvertRequest struct {
	Amount           decimal.Decimal `json:"amount" binding:"required"`
	FromCurrencyCode string          `json:"fromCurrencyCode" binding:"omitempty,len=3,uppercase"`
	ToCurrencyCode   string          `json:"toCurrencyCode" binding:"omitempty,len=3,uppercase"`
	CompanyID        string          `json:"companyID" binding:"required"`
	AsOf             time.Time       `json:"asOf" binding:"required"`
	Round            *bool           `json:"round,omitempty"` // Defaults to true
	OverrideRate     decimal.Decimal `json:"overrideRate"`    // Zero means time-series lookup
}

// DoRound returns the effective rounding flag.
func (r *ConvertRequest) DoRound() bool {
	return r.Round == nil || *r.Round
}

// ConvertResponse carries the conversion result.
type ConvertResponse struct {
	Result           decimal.Decimal `json:"result"`
	FromCurrencyCode string          `json:"fromCurrencyCode"`
	ToCurrencyCode   string          `json:"toCurrencyCode"`
	UsedOverrideRate bool            `json:"usedOverrideRate"`
}
