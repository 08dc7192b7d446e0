package services

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/ledgercore/invoice_engine/internal/core/domain"
	portssvc "github.com/ledgercore/invoice_engine/internal/core/ports/services"
	"github.com/shopspring/decimal"
)

// CashRoundingService maintains the cash rounding line of an invoice: the
// correction bringing the payable total to the smallest cash denomination,
// booked either on a dedicated profit/loss line or into the biggest tax
// line.
type CashRoundingService struct {
	converter portssvc.ConverterSvc
}

// NewCashRoundingService creates a new CashRoundingService.
func NewCashRoundingService(converter portssvc.ConverterSvc) *CashRoundingService {
	return &CashRoundingService{converter: converter}
}

// RecomputeCashRoundingLines recomputes the document's rounding line after
// the tax lines have stabilized.
func (s *CashRoundingService) RecomputeCashRoundingLines(ctx context.Context, doc *domain.Document) (domain.LineDiff, error) {
	var diff domain.LineDiff

	var existing *domain.JournalLine
	for i := range doc.Lines {
		if doc.Lines[i].IsRoundingLine {
			existing = &doc.Lines[i]
			break
		}
	}

	// The cash rounding has been removed.
	cfg := doc.CashRounding
	if cfg == nil {
		if existing != nil {
			diff.Deletes = append(diff.Deletes, existing.LineID)
		}
		return diff, nil
	}

	// The cash rounding strategy has changed: drop and recreate instead of
	// mutating a line whose origin no longer matches.
	if existing != nil {
		oldStrategy := domain.RoundingAddInvoiceLine
		if existing.TaxRepartitionLineID != "" {
			oldStrategy = domain.RoundingBiggestTax
		}
		if oldStrategy != cfg.Strategy {
			diff.Deletes = append(diff.Deletes, existing.LineID)
			existing = nil
		}
	}

	// Sum everything except receivable/payable lines and the rounding line
	// itself.
	totalBalance := decimal.Zero
	totalAmountCurrency := decimal.Zero
	for i := range doc.Lines {
		line := &doc.Lines[i]
		if line.IsRoundingLine {
			continue
		}
		if line.AccountInternalType == domain.Receivable || line.AccountInternalType == domain.Payable {
			continue
		}
		totalBalance = totalBalance.Add(line.Balance())
		totalAmountCurrency = totalAmountCurrency.Add(line.AmountCurrency)
	}

	var diffBalance, diffAmountCurrency decimal.Decimal
	if !doc.IsMultiCurrency() {
		diffBalance = cfg.ComputeDifference(doc.Currency, totalBalance)
		diffAmountCurrency = decimal.Zero
	} else {
		diffAmountCurrency = cfg.ComputeDifference(doc.Currency, totalAmountCurrency)
		converted, err := s.converter.Convert(ctx, diffAmountCurrency, &doc.Currency, &doc.CompanyCurrency, doc.CompanyID, doc.Date, true, doc.OverrideRate())
		if err != nil {
			return domain.LineDiff{}, fmt.Errorf("failed to convert cash rounding difference: %w", err)
		}
		diffBalance = converted
	}

	// The invoice is already rounded.
	if doc.Currency.IsZero(diffBalance) && doc.Currency.IsZero(diffAmountCurrency) {
		if existing != nil {
			diff.Deletes = append(diff.Deletes, existing.LineID)
		}
		return diff, nil
	}

	currencyCode := ""
	if doc.IsMultiCurrency() {
		currencyCode = doc.Currency.CurrencyCode
	}
	roundingLine := domain.JournalLine{
		LineID:         uuid.NewString(),
		DocumentID:     doc.DocumentID,
		Date:           doc.Date,
		PartnerID:      doc.PartnerID,
		CompanyID:      doc.CompanyID,
		Quantity:       decimal.NewFromInt(1),
		CurrencyCode:   currencyCode,
		AmountCurrency: diffAmountCurrency,
		IsRoundingLine: true,
		Sequence:       9999,
	}
	roundingLine.SetBalance(diffBalance)

	switch cfg.Strategy {
	case domain.RoundingBiggestTax:
		var biggest *domain.JournalLine
		for i := range doc.Lines {
			line := &doc.Lines[i]
			if !line.IsTaxLine() || line.IsRoundingLine {
				continue
			}
			if biggest == nil || line.Balance().Abs().GreaterThan(biggest.Balance().Abs()) {
				biggest = line
			}
		}
		if biggest == nil {
			// No tax line to attach the difference to.
			return diff, nil
		}
		roundingLine.Name = fmt.Sprintf("%s (rounding)", biggest.Name)
		roundingLine.AccountID = biggest.AccountID
		roundingLine.TaxRepartitionLineID = biggest.TaxRepartitionLineID
		roundingLine.TaxLineID = biggest.TaxLineID
		roundingLine.TaxExigible = biggest.TaxExigible
		roundingLine.ExcludeFromLineEditor = true

	case domain.RoundingAddInvoiceLine:
		if diffBalance.IsPositive() {
			roundingLine.AccountID = cfg.LossAccountID
		} else {
			roundingLine.AccountID = cfg.GainAccountID
		}
		roundingLine.Name = cfg.Name

	default:
		return domain.LineDiff{}, fmt.Errorf("unknown cash rounding strategy '%s'", cfg.Strategy)
	}

	if existing != nil {
		updated := *existing
		updated.AmountCurrency = roundingLine.AmountCurrency
		updated.Debit = roundingLine.Debit
		updated.Credit = roundingLine.Credit
		updated.AccountID = roundingLine.AccountID
		updated.TaxRepartitionLineID = roundingLine.TaxRepartitionLineID
		updated.TaxLineID = roundingLine.TaxLineID
		if !taxLinesEqual(existing, &updated) || updated.AccountID != existing.AccountID {
			diff.Updates = append(diff.Updates, updated)
		}
	} else {
		diff.Creates = append(diff.Creates, roundingLine)
	}

	return diff, nil
}
