package domain

import (
	"github.com/shopspring/decimal"
)

// TaxAmountType defines how a tax amount is computed from its base.
type TaxAmountType string

const (
	TaxPercent TaxAmountType = "percent" // Amount is a percentage of the base
	TaxFixed   TaxAmountType = "fixed"   // Amount is a flat fee per unit
)

// TaxExigibility defines when a tax becomes due.
type TaxExigibility string

const (
	ExigibleOnInvoice TaxExigibility = "on_invoice"
	ExigibleOnPayment TaxExigibility = "on_payment"
)

// RepartitionType distinguishes base reporting lines from tax amount lines.
type RepartitionType string

const (
	RepartitionBase RepartitionType = "base"
	RepartitionTax  RepartitionType = "tax"
)

// TaxRepartitionLine distributes a share of a computed tax amount to an
// account. Factors of the tax repartition lines of one tax sum to 100.
type TaxRepartitionLine struct {
	RepartitionLineID string          `json:"repartitionLineID"` // Primary Key (e.g., UUID)
	TaxID             string          `json:"taxID"`
	Type              RepartitionType `json:"type"`
	Factor            decimal.Decimal `json:"factor"` // Percentage of the tax amount, e.g. 100
	AccountID         string          `json:"accountID"`
	TagIDs            []string        `json:"tagIDs"`
}

// Tax is a tax definition from the chart of accounts configuration.
type Tax struct {
	TaxID        string          `json:"taxID"` // Primary Key (e.g., UUID)
	Name         string          `json:"name"`
	Sequence     int             `json:"sequence"`
	AmountType   TaxAmountType   `json:"amountType"`
	Amount       decimal.Decimal `json:"amount"` // Percent value, or fixed amount per unit
	PriceInclude bool            `json:"priceInclude"`
	// IncludeBaseAmount adds the computed amount to the base of the taxes
	// that follow it in the sequence (eco-taxes, cascading levies).
	IncludeBaseAmount bool           `json:"includeBaseAmount"`
	Exigibility       TaxExigibility `json:"exigibility"`
	TaxGroupID        string         `json:"taxGroupID"`
	TaxGroupName      string         `json:"taxGroupName"`

	// Repartition of the computed amount, per document direction.
	InvoiceRepartition []TaxRepartitionLine `json:"invoiceRepartition"`
	RefundRepartition  []TaxRepartitionLine `json:"refundRepartition"`
	AuditFields
}

// RepartitionFor returns the repartition lines applicable to the document
// direction.
func (t *Tax) RepartitionFor(isRefund bool) []TaxRepartitionLine {
	if isRefund && len(t.RefundRepartition) > 0 {
		return t.RefundRepartition
	}
	return t.InvoiceRepartition
}

// IdentityRepartition builds the default repartition for a tax: the whole
// amount on a single repartition line posted to accountID.
func IdentityRepartition(taxID, repartitionLineID, accountID string) []TaxRepartitionLine {
	return []TaxRepartitionLine{
		{
			RepartitionLineID: repartitionLineID,
			TaxID:             taxID,
			Type:              RepartitionTax,
			Factor:            decimal.NewFromInt(100),
			AccountID:         accountID,
		},
	}
}

// RoundingStrategy selects where the cash rounding difference is booked.
type RoundingStrategy string

const (
	// RoundingAddInvoiceLine books the difference on a dedicated line
	// posted to a profit or loss account.
	RoundingAddInvoiceLine RoundingStrategy = "add_invoice_line"
	// RoundingBiggestTax folds the difference into the tax line with the
	// largest subtotal.
	RoundingBiggestTax RoundingStrategy = "biggest_tax"
)

// RoundingMethod selects the direction of the cash rounding.
type RoundingMethod string

const (
	RoundHalfUp RoundingMethod = "HALF-UP"
	RoundUp     RoundingMethod = "UP"
	RoundDown   RoundingMethod = "DOWN"
)

// CashRoundingConfig describes how invoice totals are rounded to the
// smallest cash denomination, e.g. 0.05 CHF.
type CashRoundingConfig struct {
	Name          string           `json:"name"`
	Strategy      RoundingStrategy `json:"strategy"`
	Rounding      decimal.Decimal  `json:"rounding"` // Coin increment, e.g. 0.05
	Method        RoundingMethod   `json:"method"`
	LossAccountID string           `json:"lossAccountID"`
	GainAccountID string           `json:"gainAccountID"`
}

// RoundToIncrement rounds amount to the configured coin increment.
func (c *CashRoundingConfig) RoundToIncrement(amount decimal.Decimal) decimal.Decimal {
	if !c.Rounding.IsPositive() {
		return amount
	}
	quotient := amount.Div(c.Rounding)
	switch c.Method {
	case RoundUp: // away from zero
		if quotient.IsNegative() {
			quotient = quotient.Floor()
		} else {
			quotient = quotient.Ceil()
		}
	case RoundDown: // towards zero
		if quotient.IsNegative() {
			quotient = quotient.Ceil()
		} else {
			quotient = quotient.Floor()
		}
	default:
		quotient = quotient.Round(0)
	}
	return quotient.Mul(c.Rounding)
}

// ComputeDifference returns the amount to add so that amount reaches the
// nearest coin increment.
func (c *CashRoundingConfig) ComputeDifference(cur Currency, amount decimal.Decimal) decimal.Decimal {
	difference := c.RoundToIncrement(amount).Sub(amount)
	return cur.Round(difference)
}
