package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// DocumentType classifies a journal entry.
type DocumentType string

const (
	DocEntry          DocumentType = "entry"       // Plain ledger entry
	DocOutInvoice     DocumentType = "out_invoice" // Customer invoice
	DocOutRefund      DocumentType = "out_refund"  // Customer credit note
	DocInInvoice      DocumentType = "in_invoice"  // Vendor bill
	DocInRefund       DocumentType = "in_refund"   // Vendor credit note
	DocOutReceipt     DocumentType = "out_receipt" // Sales receipt
	DocInReceipt      DocumentType = "in_receipt"  // Purchase receipt
)

// IsInbound reports whether the document is purchase-side (vendor bill,
// vendor refund or purchase receipt).
func (t DocumentType) IsInbound() bool {
	return t == DocInInvoice || t == DocInRefund || t == DocInReceipt
}

// IsOutbound reports whether the document is sales-side.
func (t DocumentType) IsOutbound() bool {
	return t == DocOutInvoice || t == DocOutRefund || t == DocOutReceipt
}

// IsInvoice reports whether the document carries invoice semantics
// (base lines priced as quantity x unit price with discounts and taxes).
func (t DocumentType) IsInvoice(includeReceipts bool) bool {
	switch t {
	case DocOutInvoice, DocOutRefund, DocInInvoice, DocInRefund:
		return true
	case DocOutReceipt, DocInReceipt:
		return includeReceipts
	}
	return false
}

// IsRefund reports whether the document reverses an invoice.
func (t DocumentType) IsRefund() bool {
	return t == DocOutRefund || t == DocInRefund
}

// DocumentStatus indicates the lifecycle state of a document.
type DocumentStatus string

const (
	Draft  DocumentStatus = "DRAFT"
	Posted DocumentStatus = "POSTED"
)

// Document is a journal entry (invoice, refund or plain entry) owning an
// ordered set of journal lines.
type Document struct {
	DocumentID      string         `json:"documentID"` // Primary Key (e.g., UUID)
	Type            DocumentType   `json:"type"`
	Date            time.Time      `json:"date"`
	Reference       string         `json:"reference"`
	JournalName     string         `json:"journalName"`
	CompanyID       string         `json:"companyID"`
	CompanyCurrency Currency       `json:"companyCurrency"`
	Currency        Currency       `json:"currency"` // Document currency; equals company currency in single-currency mode
	PartnerID       string         `json:"partnerID"`
	Status          DocumentStatus `json:"status"`

	// PurchaseRate is the manually entered purchase exchange rate. When
	// positive on an inbound document it replaces the time-series rate
	// lookup for every conversion performed on this document.
	PurchaseRate decimal.Decimal `json:"purchaseRate"`

	// CashRounding holds the cash rounding configuration, nil when the
	// document total is not rounded to a coin increment.
	CashRounding *CashRoundingConfig `json:"cashRounding,omitempty"`

	// CashBasisOriginPartialID references the settlement edge this document
	// was generated for, when it is a cash-basis tax adjustment entry.
	CashBasisOriginPartialID string `json:"cashBasisOriginPartialID,omitempty"`

	Lines []JournalLine `json:"lines"`
	AuditFields
}

// IsMultiCurrency reports whether the document currency differs from the
// company currency.
func (d *Document) IsMultiCurrency() bool {
	return d.Currency.CurrencyCode != "" && d.Currency.CurrencyCode != d.CompanyCurrency.CurrencyCode
}

// OverrideRate returns the manual purchase rate when it applies to this
// document: any inbound document type with a positive rate. Zero otherwise.
func (d *Document) OverrideRate() decimal.Decimal {
	if d.Type.IsInbound() && d.PurchaseRate.IsPositive() {
		return d.PurchaseRate
	}
	return decimal.Zero
}

// LineByID returns a pointer to the line with the given ID, or nil.
func (d *Document) LineByID(lineID string) *JournalLine {
	for i := range d.Lines {
		if d.Lines[i].LineID == lineID {
			return &d.Lines[i]
		}
	}
	return nil
}

// TaxLines returns the lines generated by tax repartition.
func (d *Document) TaxLines() []JournalLine {
	var out []JournalLine
	for _, line := range d.Lines {
		if line.IsTaxLine() {
			out = append(out, line)
		}
	}
	return out
}

// BaseLines returns the lines that are not tax lines.
func (d *Document) BaseLines() []JournalLine {
	var out []JournalLine
	for _, line := range d.Lines {
		if !line.IsTaxLine() {
			out = append(out, line)
		}
	}
	return out
}
