package services

import (
	"context"
	"fmt"

	"github.com/ledgercore/invoice_engine/internal/core/domain"
	portsrepo "github.com/ledgercore/invoice_engine/internal/core/ports/repositories"
	portssvc "github.com/ledgercore/invoice_engine/internal/core/ports/services"
	"github.com/ledgercore/invoice_engine/internal/utils"
	"github.com/shopspring/decimal"
)

// TaxReportService aggregates a document's tax lines by tax group for
// display. It is a presentation helper only; the computation services never
// depend on it.
type TaxReportService struct {
	taxConfig portsrepo.TaxConfigReader
	converter portssvc.ConverterSvc
}

// NewTaxReportService creates a new TaxReportService.
func NewTaxReportService(taxConfig portsrepo.TaxConfigReader, converter portssvc.ConverterSvc) *TaxReportService {
	return &TaxReportService{taxConfig: taxConfig, converter: converter}
}

var _ portssvc.TaxReportSvc = (*TaxReportService)(nil)

// TaxTotalsByGroup returns the document's taxes grouped by tax group, bases
// counted once per tax, amounts in the document currency. Zero-amount taxes
// contribute their base even though they generate no tax line.
func (s *TaxReportService) TaxTotalsByGroup(ctx context.Context, doc *domain.Document) ([]domain.TaxGroupTotal, error) {
	ctx = WithRateMemo(ctx)
	type groupTotals struct {
		name   string
		base   decimal.Decimal
		amount decimal.Decimal
	}
	totals := make(map[string]*groupTotals)
	var order []string

	getGroup := func(groupID, name string) *groupTotals {
		if g, ok := totals[groupID]; ok {
			return g
		}
		g := &groupTotals{name: name}
		totals[groupID] = g
		order = append(order, groupID)
		return g
	}

	// Amounts are presented in the document currency, positive for the
	// usual direction of the document.
	lineSubtotal := func(line *domain.JournalLine) decimal.Decimal {
		subtotal := line.Balance()
		if line.CurrencyCode != "" {
			subtotal = line.AmountCurrency
		}
		if doc.Type.IsInbound() {
			subtotal = subtotal.Neg()
		}
		return subtotal
	}

	doneBases := make(map[string]struct{})
	for i := range doc.Lines {
		line := &doc.Lines[i]
		if !line.IsTaxLine() {
			continue
		}
		tax, err := s.taxConfig.FindTaxByID(ctx, line.TaxLineID)
		if err != nil {
			return nil, fmt.Errorf("failed to resolve tax %s for report: %w", line.TaxLineID, err)
		}
		group := getGroup(tax.TaxGroupID, tax.TaxGroupName)
		group.amount = group.amount.Add(lineSubtotal(line))

		// The base is added once per tax, not once per repartition line.
		if _, done := doneBases[line.TaxLineID]; done {
			continue
		}
		doneBases[line.TaxLineID] = struct{}{}

		base := line.TaxBaseAmount
		if line.CurrencyCode != "" && line.CurrencyCode != doc.CompanyCurrency.CurrencyCode {
			converted, err := s.converter.Convert(ctx, base, &doc.CompanyCurrency, &doc.Currency, doc.CompanyID, doc.Date, true, doc.OverrideRate())
			if err != nil {
				return nil, err
			}
			base = converted
		}
		group.base = group.base.Add(base)
	}

	// Zero-amount taxes never generate a tax line but still report a base.
	for i := range doc.Lines {
		line := &doc.Lines[i]
		if line.IsTaxLine() || len(line.TaxIDs) == 0 {
			continue
		}
		for _, taxID := range line.TaxIDs {
			tax, err := s.taxConfig.FindTaxByID(ctx, taxID)
			if err != nil {
				return nil, fmt.Errorf("failed to resolve tax %s for report: %w", taxID, err)
			}
			if !tax.Amount.IsZero() {
				continue
			}
			group := getGroup(tax.TaxGroupID, tax.TaxGroupName)
			group.base = group.base.Add(lineSubtotal(line))
		}
	}

	rows := make([]domain.TaxGroupTotal, 0, len(order))
	for _, groupID := range order {
		g := totals[groupID]
		rows = append(rows, domain.TaxGroupTotal{
			TaxGroupID:      groupID,
			TaxGroupName:    g.name,
			Base:            g.base,
			Amount:          g.amount,
			FormattedBase:   utils.FormatWithCurrencySymbol(g.base, doc.Currency),
			FormattedAmount: utils.FormatWithCurrencySymbol(g.amount, doc.Currency),
		})
	}
	return rows, nil
}
