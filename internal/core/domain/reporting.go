package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// TaxGroupTotal is one row of the printed tax summary: all tax lines of a
// document aggregated by tax group, with amounts rendered for display.
type TaxGroupTotal struct {
	TaxGroupID      string          `json:"taxGroupID"`
	TaxGroupName    string          `json:"taxGroupName"`
	Base            decimal.Decimal `json:"base"`
	Amount          decimal.Decimal `json:"amount"`
	FormattedBase   string          `json:"formattedBase"`
	FormattedAmount string          `json:"formattedAmount"`
}

// ReconciledInfo summarizes one settlement against a document's
// receivable/payable lines, amounts expressed in the document currency.
type ReconciledInfo struct {
	PartialID          string          `json:"partialID"`
	CounterpartLineID  string          `json:"counterpartLineID"`
	CounterpartName    string          `json:"counterpartName"`
	CounterpartDocID   string          `json:"counterpartDocID"`
	JournalName        string          `json:"journalName"`
	Reference          string          `json:"reference"`
	Amount             decimal.Decimal `json:"amount"`
	CurrencySymbol     string          `json:"currencySymbol"`
	CurrencyDecimals   int32           `json:"currencyDecimals"`
	Date               time.Time       `json:"date"`
}
