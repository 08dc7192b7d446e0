package dto

import (
	"time"

	"github.com/ledgercore/invoice_engine/internal/core/domain"
	"github.com/shopspring/decimal"
)

// LinePayload mirrors a journal line for the recompute API.
type LinePayload struct {
	LineID                string          `json:"lineID"`
	Name                  string          `json:"name"`
	Sequence              int             `json:"sequence"`
	AccountID             string          `json:"accountID"`
	AccountInternalType   string          `json:"accountInternalType"`
	PartnerID             string          `json:"partnerID"`
	AnalyticAccountID     string          `json:"analyticAccountID"`
	Quantity              decimal.Decimal `json:"quantity"`
	PriceUnit             decimal.Decimal `json:"priceUnit"`
	Discount              decimal.Decimal `json:"discount"`
	CurrencyCode          string          `json:"currencyCode"`
	AmountCurrency        decimal.Decimal `json:"amountCurrency"`
	Debit                 decimal.Decimal `json:"debit"`
	Credit                decimal.Decimal `json:"credit"`
	TaxIDs                []string        `json:"taxIDs"`
	TaxRepartitionLineID  string          `json:"taxRepartitionLineID"`
	TaxLineID             string          `json:"taxLineID"`
	TaxBaseAmount         decimal.Decimal `json:"taxBaseAmount"`
	TaxExigible           bool            `json:"taxExigible"`
	TagIDs                []string        `json:"tagIDs"`
	IsRoundingLine        bool            `json:"isRoundingLine"`
	ExcludeFromLineEditor bool            `json:"excludeFromLineEditor"`
}

// CashRoundingPayload mirrors a cash rounding configuration.
type CashRoundingPayload struct {
	Name          string          `json:"name"`
	Strategy      string          `json:"strategy" binding:"required,oneof=add_invoice_line biggest_tax"`
	Rounding      decimal.Decimal `json:"rounding" binding:"required"`
	Method        string          `json:"method" binding:"omitempty,oneof=HALF-UP UP DOWN"`
	LossAccountID string          `json:"lossAccountID"`
	GainAccountID string          `json:"gainAccountID"`
}

// RecomputeDocumentRequest carries a document snapshot to recompute.
type RecomputeDocumentRequest struct {
	DocumentID           string               `json:"documentID"`
	Type                 string               `json:"type" binding:"required,oneof=entry out_invoice out_refund in_invoice in_refund out_receipt in_receipt"`
	Date                 time.Time            `json:"date" binding:"required"`
	CompanyID            string               `json:"companyID" binding:"required"`
	CompanyCurrencyCode  string               `json:"companyCurrencyCode" binding:"required,len=3,uppercase"`
	CurrencyCode         string               `json:"currencyCode" binding:"omitempty,len=3,uppercase"`
	PartnerID            string               `json:"partnerID"`
	PurchaseRate         decimal.Decimal      `json:"purchaseRate"`
	CashRounding         *CashRoundingPayload `json:"cashRounding,omitempty"`
	Lines                []LinePayload        `json:"lines" binding:"required,min=1"`
	RecomputeTaxBaseOnly bool                 `json:"recomputeTaxBaseOnly"`
}

// RecomputeDocumentResponse returns the recomputed line set and the diff
// that produced it.
type RecomputeDocumentResponse struct {
	Lines     []LinePayload          `json:"lines"`
	Created   int                    `json:"created"`
	Updated   int                    `json:"updated"`
	Deleted   int                    `json:"deleted"`
	TaxTotals []TaxGroupTotalPayload `json:"taxTotals"`
}

// TaxGroupTotalPayload is one row of the grouped tax summary.
type TaxGroupTotalPayload struct {
	TaxGroupID      string          `json:"taxGroupID"`
	TaxGroupName    string          `json:"taxGroupName"`
	Base            decimal.Decimal `json:"base"`
	Amount          decimal.Decimal `json:"amount"`
	FormattedBase   string          `json:"formattedBase"`
	FormattedAmount string          `json:"formattedAmount"`
}

// ToDomainLine converts a line payload to the domain representation.
func (p LinePayload) ToDomainLine(documentID, companyID string, date time.Time) domain.JournalLine {
	internalType := domain.Other
	switch p.AccountInternalType {
	case string(domain.Receivable):
		internalType = domain.Receivable
	case string(domain.Payable):
		internalType = domain.Payable
	}
	return domain.JournalLine{
		LineID:                p.LineID,
		DocumentID:            documentID,
		Name:                  p.Name,
		Sequence:              p.Sequence,
		Date:                  date,
		AccountID:             p.AccountID,
		AccountInternalType:   internalType,
		PartnerID:             p.PartnerID,
		CompanyID:             companyID,
		AnalyticAccountID:     p.AnalyticAccountID,
		Quantity:              p.Quantity,
		PriceUnit:             p.PriceUnit,
		Discount:              p.Discount,
		CurrencyCode:          p.CurrencyCode,
		AmountCurrency:        p.AmountCurrency,
		Debit:                 p.Debit,
		Credit:                p.Credit,
		TaxIDs:                p.TaxIDs,
		TaxRepartitionLineID:  p.TaxRepartitionLineID,
		TaxLineID:             p.TaxLineID,
		TaxBaseAmount:         p.TaxBaseAmount,
		TaxExigible:           p.TaxExigible,
		TagIDs:                p.TagIDs,
		IsRoundingLine:        p.IsRoundingLine,
		ExcludeFromLineEditor: p.ExcludeFromLineEditor,
	}
}

// FromDomainLine converts a domain line back to the API representation.
func FromDomainLine(l domain.JournalLine) LinePayload {
	return LinePayload{
		LineID:                l.LineID,
		Name:                  l.Name,
		Sequence:              l.Sequence,
		AccountID:             l.AccountID,
		AccountInternalType:   string(l.AccountInternalType),
		PartnerID:             l.PartnerID,
		AnalyticAccountID:     l.AnalyticAccountID,
		Quantity:              l.Quantity,
		PriceUnit:             l.PriceUnit,
		Discount:              l.Discount,
		CurrencyCode:          l.CurrencyCode,
		AmountCurrency:        l.AmountCurrency,
		Debit:                 l.Debit,
		Credit:                l.Credit,
		TaxIDs:                l.TaxIDs,
		TaxRepartitionLineID:  l.TaxRepartitionLineID,
		TaxLineID:             l.TaxLineID,
		TaxBaseAmount:         l.TaxBaseAmount,
		TaxExigible:           l.TaxExigible,
		TagIDs:                l.TagIDs,
		IsRoundingLine:        l.IsRoundingLine,
		ExcludeFromLineEditor: l.ExcludeFromLineEditor,
	}
}

// ToDomainCashRounding converts the payload, nil-safe.
func (p *CashRoundingPayload) ToDomainCashRounding() *domain.CashRoundingConfig {
	if p == nil {
		return nil
	}
	method := domain.RoundHalfUp
	switch p.Method {
	case string(domain.RoundUp):
		method = domain.RoundUp
	case string(domain.RoundDown):
		method = domain.RoundDown
	}
	return &domain.CashRoundingConfig{
		Name:          p.Name,
		Strategy:      domain.RoundingStrategy(p.Strategy),
		Rounding:      p.Rounding,
		Method:        method,
		LossAccountID: p.LossAccountID,
		GainAccountID: p.GainAccountID,
	}
}

// ToTaxGroupTotalPayloads converts domain report rows.
func ToTaxGroupTotalPayloads(rows []domain.TaxGroupTotal) []TaxGroupTotalPayload {
	out := make([]TaxGroupTotalPayload, len(rows))
	for i, row := range rows {
		out[i] = TaxGroupTotalPayload{
			TaxGroupID:      row.TaxGroupID,
			TaxGroupName:    row.TaxGroupName,
			Base:            row.Base,
			Amount:          row.Amount,
			FormattedBase:   row.FormattedBase,
			FormattedAmount: row.FormattedAmount,
		}
	}
	return out
}
