package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// AccountInternalType classifies an account for settlement purposes.
type AccountInternalType string

const (
	Receivable AccountInternalType = "RECEIVABLE"
	Payable    AccountInternalType = "PAYABLE"
	Other      AccountInternalType = "OTHER"
)

// JournalLine is a single line of a journal entry. Base lines carry the
// invoiced quantities and taxes to apply; tax lines are generated from them
// by tax recomputation; rounding lines absorb the cash rounding difference.
type JournalLine struct {
	LineID     string `json:"lineID"` // Primary Key (e.g., UUID)
	DocumentID string `json:"documentID"`
	Name       string `json:"name"`
	Sequence   int    `json:"sequence"`
	Date       time.Time `json:"date"`

	AccountID           string              `json:"accountID"`
	AccountInternalType AccountInternalType `json:"accountInternalType"`
	PartnerID           string              `json:"partnerID"`
	CompanyID           string              `json:"companyID"`
	AnalyticAccountID   string              `json:"analyticAccountID"`

	Quantity  decimal.Decimal `json:"quantity"`
	PriceUnit decimal.Decimal `json:"priceUnit"`
	Discount  decimal.Decimal `json:"discount"` // Percentage, 0..100

	// CurrencyCode is the document currency when it differs from the company
	// currency, empty otherwise. AmountCurrency is the signed amount
	// expressed in that currency.
	CurrencyCode   string          `json:"currencyCode"`
	AmountCurrency decimal.Decimal `json:"amountCurrency"`
	Debit          decimal.Decimal `json:"debit"`
	Credit         decimal.Decimal `json:"credit"`

	// TaxIDs are the taxes to apply on a base line.
	TaxIDs []string `json:"taxIDs"`
	// TaxRepartitionLineID is set on generated tax lines only.
	TaxRepartitionLineID string `json:"taxRepartitionLineID"`
	// TaxLineID is the tax that generated this tax line.
	TaxLineID     string          `json:"taxLineID"`
	TaxBaseAmount decimal.Decimal `json:"taxBaseAmount"`
	TaxExigible   bool            `json:"taxExigible"`
	TagIDs        []string        `json:"tagIDs"`

	IsRoundingLine        bool `json:"isRoundingLine"`
	ExcludeFromLineEditor bool `json:"excludeFromLineEditor"`

	// Settlement state, maintained by the ledger store.
	AmountResidual         decimal.Decimal `json:"amountResidual"`
	AmountResidualCurrency decimal.Decimal `json:"amountResidualCurrency"`

	AuditFields
}

// Balance is the signed company-currency amount of the line.
func (l *JournalLine) Balance() decimal.Decimal {
	return l.Debit.Sub(l.Credit)
}

// IsTaxLine reports whether the line was generated by a tax repartition line.
func (l *JournalLine) IsTaxLine() bool {
	return l.TaxRepartitionLineID != ""
}

// HasResidual reports whether any part of the line remains unsettled.
func (l *JournalLine) HasResidual() bool {
	return !l.AmountResidual.IsZero() || !l.AmountResidualCurrency.IsZero()
}

// SetBalance assigns debit/credit from a signed balance: positive balances
// debit the account, negative balances credit it with the positive magnitude.
func (l *JournalLine) SetBalance(balance decimal.Decimal) {
	if balance.IsPositive() {
		l.Debit = balance
		l.Credit = decimal.Zero
	} else {
		l.Debit = decimal.Zero
		l.Credit = balance.Neg()
	}
}
