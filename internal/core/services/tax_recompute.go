package services

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"github.com/ledgercore/invoice_engine/internal/core/domain"
	portsrepo "github.com/ledgercore/invoice_engine/internal/core/ports/repositories"
	portssvc "github.com/ledgercore/invoice_engine/internal/core/ports/services"
	"github.com/ledgercore/invoice_engine/internal/middleware"
	"github.com/shopspring/decimal"
)

// TaxRecomputeService computes the dynamic tax lines of a document: per base
// line it runs the tax set in company currency and document currency, then
// merges the results into one persisted tax line per grouping key.
type TaxRecomputeService struct {
	taxConfig portsrepo.TaxConfigReader
	converter portssvc.ConverterSvc
}

// NewTaxRecomputeService creates a new TaxRecomputeService.
func NewTaxRecomputeService(taxConfig portsrepo.TaxConfigReader, converter portssvc.ConverterSvc) *TaxRecomputeService {
	return &TaxRecomputeService{taxConfig: taxConfig, converter: converter}
}

// taxesMapEntry accumulates the computed contributions for one grouping key.
type taxesMapEntry struct {
	key            domain.TaxGroupingKey
	taxLine        *domain.JournalLine // Existing tax line for the key, nil when absent
	balance        decimal.Decimal
	amountCurrency decimal.Decimal
	taxBaseAmount  decimal.Decimal
	tagIDs         []string
	taxIDs         []string // Taxes applied on the generated line itself
	active         bool     // True when any base line contributed to the key
}

func groupingKeyFromTaxLine(line *domain.JournalLine) domain.TaxGroupingKey {
	return domain.TaxGroupingKey{
		TaxRepartitionLineID: line.TaxRepartitionLineID,
		AccountID:            line.AccountID,
		CurrencyCode:         line.CurrencyCode,
		AnalyticAccountID:    line.AnalyticAccountID,
		TaxFingerprint:       domain.TaxFingerprint(line.TaxIDs),
	}
}

func groupingKeyFromBaseLine(line *domain.JournalLine, detail TaxDetail) domain.TaxGroupingKey {
	accountID := detail.AccountID
	if accountID == "" {
		accountID = line.AccountID
	}
	return domain.TaxGroupingKey{
		TaxRepartitionLineID: detail.RepartitionLineID,
		AccountID:            accountID,
		CurrencyCode:         line.CurrencyCode,
		AnalyticAccountID:    line.AnalyticAccountID,
		TaxFingerprint:       domain.TaxFingerprint(detail.AppliedOnTaxIDs),
	}
}

// computeBaseLineTaxes runs the tax computation for one base line, both in
// company currency (producing balances) and in document currency (producing
// amounts in currency), then merges the two passes.
func (s *TaxRecomputeService) computeBaseLineTaxes(ctx context.Context, doc *domain.Document, line *domain.JournalLine) (TaxComputation, error) {
	taxes := make([]domain.Tax, 0, len(line.TaxIDs))
	taxByID := make(map[string]*domain.Tax, len(line.TaxIDs))
	for _, taxID := range line.TaxIDs {
		tax, err := s.taxConfig.FindTaxByID(ctx, taxID)
		if err != nil {
			return TaxComputation{}, fmt.Errorf("failed to resolve tax %s: %w", taxID, err)
		}
		taxes = append(taxes, *tax)
		taxByID[tax.TaxID] = tax
	}

	isRefund := doc.Type.IsRefund()
	overrideRate := doc.OverrideRate()

	var quantity, priceForeign, priceCompany decimal.Decimal
	if doc.Type.IsInvoice(true) {
		sign := decimal.NewFromInt(1)
		if doc.Type.IsInbound() {
			sign = sign.Neg()
		}
		quantity = line.Quantity
		discounted := line.PriceUnit.Mul(decimal.NewFromInt(1).Sub(line.Discount.Div(oneHundred)))
		if line.CurrencyCode != "" {
			priceForeign = sign.Mul(discounted)
			converted, err := s.converter.Convert(ctx, priceForeign, &doc.Currency, &doc.CompanyCurrency, doc.CompanyID, doc.Date, true, overrideRate)
			if err != nil {
				return TaxComputation{}, err
			}
			priceCompany = converted
		} else {
			priceForeign = decimal.Zero
			priceCompany = sign.Mul(discounted)
		}
	} else {
		quantity = decimal.NewFromInt(1)
		priceForeign = line.AmountCurrency
		priceCompany = line.Balance()
	}

	comp, err := ComputeAllTaxes(taxes, doc.CompanyCurrency, priceCompany, quantity, isRefund)
	if err != nil {
		return TaxComputation{}, err
	}

	if line.CurrencyCode == "" {
		return comp, nil
	}

	// Multi-currency mode: run the same tax set on the document-currency
	// price and attach each amount to the matching balance result.
	currencyComp, err := ComputeAllTaxes(taxes, doc.Currency, priceForeign, quantity, isRefund)
	if err != nil {
		return TaxComputation{}, err
	}
	if len(currencyComp.Taxes) != len(comp.Taxes) {
		return TaxComputation{}, fmt.Errorf("tax pass mismatch on line %s: %d vs %d results", line.LineID, len(comp.Taxes), len(currencyComp.Taxes))
	}
	for i := range comp.Taxes {
		comp.Taxes[i].AmountCurrency = currencyComp.Taxes[i].Amount

		// A fixed-amount tax is denominated in the document currency and
		// must be brought into company currency explicitly.
		tax := taxByID[comp.Taxes[i].TaxID]
		if tax != nil && tax.AmountType == domain.TaxFixed {
			converted, err := s.converter.Convert(ctx, currencyComp.Taxes[i].Amount, &doc.Currency, &doc.CompanyCurrency, doc.CompanyID, doc.Date, true, overrideRate)
			if err != nil {
				return TaxComputation{}, err
			}
			comp.Taxes[i].Amount = converted
		}
	}
	return comp, nil
}

// RecomputeTaxLines recomputes the document's tax lines against the current
// base lines. With recomputeBaseOnly set only the tax base amounts are
// refreshed, preserving debit/credit.
func (s *TaxRecomputeService) RecomputeTaxLines(ctx context.Context, doc *domain.Document, recomputeBaseOnly bool) (domain.LineDiff, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	var diff domain.LineDiff
	entries := make(map[domain.TaxGroupingKey]*taxesMapEntry)
	var order []domain.TaxGroupingKey

	getEntry := func(key domain.TaxGroupingKey) *taxesMapEntry {
		if entry, ok := entries[key]; ok {
			return entry
		}
		entry := &taxesMapEntry{key: key}
		entries[key] = entry
		order = append(order, key)
		return entry
	}

	// Collect existing tax lines, dropping duplicates sharing a key. The
	// cash rounding line is handled by its own recompute pass.
	for i := range doc.Lines {
		line := &doc.Lines[i]
		if !line.IsTaxLine() || line.IsRoundingLine {
			continue
		}
		key := groupingKeyFromTaxLine(line)
		entry := getEntry(key)
		if entry.taxLine != nil {
			logger.Warn("duplicate tax line for grouping key, dropping extra",
				slog.String("document_id", doc.DocumentID),
				slog.String("line_id", line.LineID),
			)
			diff.Deletes = append(diff.Deletes, line.LineID)
			continue
		}
		lineCopy := *line
		entry.taxLine = &lineCopy
	}

	// Mount base lines into the map.
	for i := range doc.Lines {
		line := &doc.Lines[i]
		if line.IsTaxLine() || line.IsRoundingLine {
			continue
		}
		if len(line.TaxIDs) == 0 {
			if len(line.TagIDs) > 0 {
				cleared := *line
				cleared.TagIDs = nil
				diff.Updates = append(diff.Updates, cleared)
			}
			continue
		}

		comp, err := s.computeBaseLineTaxes(ctx, doc, line)
		if err != nil {
			return domain.LineDiff{}, err
		}

		taxExigible := true
		for _, detail := range comp.Taxes {
			if detail.ExigibleOnPayment {
				taxExigible = false
			}
			entry := getEntry(groupingKeyFromBaseLine(line, detail))
			entry.balance = entry.balance.Add(detail.Amount)
			entry.amountCurrency = entry.amountCurrency.Add(detail.AmountCurrency)
			entry.taxBaseAmount = entry.taxBaseAmount.Add(detail.Base)
			entry.tagIDs = appendUnique(entry.tagIDs, detail.TagIDs...)
			entry.taxIDs = detail.AppliedOnTaxIDs
			entry.active = true
		}

		if !stringSlicesEqual(line.TagIDs, comp.BaseTags) || line.TaxExigible != taxExigible {
			updated := *line
			updated.TagIDs = comp.BaseTags
			updated.TaxExigible = taxExigible
			diff.Updates = append(diff.Updates, updated)
		}
	}

	// Reconcile the map against the existing tax lines.
	for _, key := range order {
		entry := entries[key]

		// A key whose amounts both round to zero produces no line.
		if entry.active && doc.Currency.IsZero(entry.balance) && doc.Currency.IsZero(entry.amountCurrency) {
			entry.active = false
		}

		taxBaseAmount := entry.taxBaseAmount
		if doc.Type.IsInbound() {
			taxBaseAmount = taxBaseAmount.Neg()
		}

		switch {
		case entry.taxLine == nil && !entry.active:
			continue

		case entry.taxLine != nil && recomputeBaseOnly:
			if !entry.taxLine.TaxBaseAmount.Equal(taxBaseAmount) {
				updated := *entry.taxLine
				updated.TaxBaseAmount = taxBaseAmount
				diff.Updates = append(diff.Updates, updated)
			}

		case entry.taxLine != nil && !entry.active:
			// The tax line is no longer backed by any base line.
			diff.Deletes = append(diff.Deletes, entry.taxLine.LineID)

		case entry.taxLine != nil:
			updated := *entry.taxLine
			updated.AmountCurrency = entry.amountCurrency
			updated.SetBalance(entry.balance)
			updated.TaxBaseAmount = taxBaseAmount
			if !taxLinesEqual(entry.taxLine, &updated) {
				diff.Updates = append(diff.Updates, updated)
			}

		default:
			tax, err := s.taxConfig.FindTaxByRepartitionLineID(ctx, key.TaxRepartitionLineID)
			if err != nil {
				return domain.LineDiff{}, fmt.Errorf("failed to resolve repartition line %s: %w", key.TaxRepartitionLineID, err)
			}
			account, err := s.taxConfig.FindAccountByID(ctx, key.AccountID)
			if err != nil {
				return domain.LineDiff{}, fmt.Errorf("failed to resolve account %s: %w", key.AccountID, err)
			}
			created := domain.JournalLine{
				LineID:                uuid.NewString(),
				DocumentID:            doc.DocumentID,
				Name:                  tax.Name,
				Date:                  doc.Date,
				AccountID:             account.AccountID,
				AccountInternalType:   account.InternalType,
				PartnerID:             doc.PartnerID,
				CompanyID:             doc.CompanyID,
				AnalyticAccountID:     key.AnalyticAccountID,
				Quantity:              decimal.NewFromInt(1),
				CurrencyCode:          key.CurrencyCode,
				AmountCurrency:        entry.amountCurrency,
				TaxIDs:                entry.taxIDs,
				TaxRepartitionLineID:  key.TaxRepartitionLineID,
				TaxLineID:             tax.TaxID,
				TaxBaseAmount:         taxBaseAmount,
				TaxExigible:           tax.Exigibility == domain.ExigibleOnInvoice,
				TagIDs:                entry.tagIDs,
				ExcludeFromLineEditor: true,
			}
			created.SetBalance(entry.balance)
			diff.Creates = append(diff.Creates, created)
		}
	}

	return diff, nil
}

func taxLinesEqual(a, b *domain.JournalLine) bool {
	return a.AmountCurrency.Equal(b.AmountCurrency) &&
		a.Debit.Equal(b.Debit) &&
		a.Credit.Equal(b.Credit) &&
		a.TaxBaseAmount.Equal(b.TaxBaseAmount)
}

func stringSlicesEqual(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
