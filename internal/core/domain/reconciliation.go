package domain

import (
	"github.com/shopspring/decimal"
)

// PartialReconcile is a settlement edge matching part of a debit line
// against part of a credit line. It references lines it does not own.
type PartialReconcile struct {
	PartialID    string `json:"partialID"` // Primary Key (e.g., UUID)
	DebitLineID  string `json:"debitLineID"`
	CreditLineID string `json:"creditLineID"`

	// Amount matched, in company currency.
	Amount decimal.Decimal `json:"amount"`
	// AmountCurrency is the matched amount in CurrencyCode when the matched
	// lines share a foreign currency.
	AmountCurrency decimal.Decimal `json:"amountCurrency"`
	CurrencyCode   string          `json:"currencyCode"`
	AuditFields
}

// LineIDs returns the line identifiers referenced by the edge.
func (p *PartialReconcile) LineIDs() []string {
	ids := make([]string, 0, 2)
	if p.DebitLineID != "" {
		ids = append(ids, p.DebitLineID)
	}
	if p.CreditLineID != "" {
		ids = append(ids, p.CreditLineID)
	}
	return ids
}

// FullReconcile records that a connected settlement graph reached a zero net
// balance, closing all its lines. It owns at most one generated
// exchange-difference document.
type FullReconcile struct {
	FullReconcileID    string   `json:"fullReconcileID"` // Primary Key (e.g., UUID)
	PartialIDs         []string `json:"partialIDs"`
	LineIDs            []string `json:"lineIDs"`
	ExchangeDocumentID string   `json:"exchangeDocumentID,omitempty"`
	AuditFields
}
