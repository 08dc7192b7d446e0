package services

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/ledgercore/invoice_engine/internal/apperrors"
	"github.com/ledgercore/invoice_engine/internal/core/domain"
	portssvc "github.com/ledgercore/invoice_engine/internal/core/ports/services"
	"github.com/ledgercore/invoice_engine/internal/middleware"
	"github.com/shopspring/decimal"
)

// DocumentService orchestrates the recompute passes over a document
// snapshot: tax lines first, then the cash rounding line once the tax lines
// have stabilized.
type DocumentService struct {
	taxRecompute *TaxRecomputeService
	cashRounding *CashRoundingService
	converter    portssvc.ConverterSvc
}

// NewDocumentService creates a new DocumentService.
func NewDocumentService(taxRecompute *TaxRecomputeService, cashRounding *CashRoundingService, converter portssvc.ConverterSvc) *DocumentService {
	return &DocumentService{
		taxRecompute: taxRecompute,
		cashRounding: cashRounding,
		converter:    converter,
	}
}

var _ portssvc.DocumentRecomputeSvc = (*DocumentService)(nil)

// RecomputeDocument recomputes the generated lines of doc and applies the
// changes to the snapshot. The merged diff is returned so the caller can
// persist it.
func (s *DocumentService) RecomputeDocument(ctx context.Context, doc *domain.Document, opts portssvc.RecomputeOptions) (domain.LineDiff, error) {
	logger := middleware.GetLoggerFromCtx(ctx)
	ctx = WithRateMemo(ctx)

	taxDiff, err := s.taxRecompute.RecomputeTaxLines(ctx, doc, opts.RecomputeTaxBaseOnly)
	if err != nil {
		return domain.LineDiff{}, fmt.Errorf("tax recompute failed for document %s: %w", doc.DocumentID, err)
	}
	taxDiff.ApplyTo(doc)

	roundingDiff, err := s.cashRounding.RecomputeCashRoundingLines(ctx, doc)
	if err != nil {
		return domain.LineDiff{}, fmt.Errorf("cash rounding recompute failed for document %s: %w", doc.DocumentID, err)
	}
	roundingDiff.ApplyTo(doc)

	merged := taxDiff
	merged.Merge(roundingDiff)
	logger.Debug("document recomputed",
		slog.String("document_id", doc.DocumentID),
		slog.Int("created", len(merged.Creates)),
		slog.Int("updated", len(merged.Updates)),
		slog.Int("deleted", len(merged.Deletes)),
	)
	return merged, nil
}

// NormalizePriceUnit converts a company-currency price into the document
// currency, using the manual purchase rate when the document is inbound.
func (s *DocumentService) NormalizePriceUnit(ctx context.Context, doc *domain.Document, price decimal.Decimal) (decimal.Decimal, error) {
	return s.converter.Convert(ctx, price, &doc.CompanyCurrency, &doc.Currency, doc.CompanyID, doc.Date, true, doc.OverrideRate())
}

// SetAmountTotal rewrites both lines of a plain two-line entry so their
// magnitudes match total, preserving each line's direction.
func (s *DocumentService) SetAmountTotal(ctx context.Context, doc *domain.Document, total decimal.Decimal) (domain.LineDiff, error) {
	if len(doc.Lines) != 2 || doc.Type.IsInvoice(true) {
		return domain.LineDiff{}, fmt.Errorf("%w: amount total can only be set on two-line entries", apperrors.ErrValidation)
	}

	var balance, amountCurrency decimal.Decimal
	if doc.IsMultiCurrency() {
		amountCurrency = total.Abs()
		converted, err := s.converter.Convert(ctx, amountCurrency, &doc.Currency, &doc.CompanyCurrency, doc.CompanyID, doc.Date, true, doc.OverrideRate())
		if err != nil {
			return domain.LineDiff{}, err
		}
		balance = converted
	} else {
		balance = total.Abs()
		amountCurrency = decimal.Zero
	}

	var diff domain.LineDiff
	for i := range doc.Lines {
		line := &doc.Lines[i]
		if doc.Currency.CompareAmounts(line.Balance().Abs(), balance) == 0 {
			continue
		}
		updated := *line
		if line.Balance().IsPositive() {
			updated.Debit = balance
			updated.Credit = decimal.Zero
			updated.AmountCurrency = amountCurrency
		} else {
			updated.Debit = decimal.Zero
			updated.Credit = balance
			updated.AmountCurrency = amountCurrency.Neg()
		}
		diff.Updates = append(diff.Updates, updated)
	}
	diff.ApplyTo(doc)
	return diff, nil
}

// RecomputeBalanceFromAmountCurrency rederives a line's debit/credit from
// its amount in document currency.
func (s *DocumentService) RecomputeBalanceFromAmountCurrency(ctx context.Context, doc *domain.Document, lineID string) (domain.LineDiff, error) {
	line := doc.LineByID(lineID)
	if line == nil {
		return domain.LineDiff{}, fmt.Errorf("%w: line %s not on document %s", apperrors.ErrNotFound, lineID, doc.DocumentID)
	}
	if line.CurrencyCode == "" || line.CurrencyCode == doc.CompanyCurrency.CurrencyCode {
		return domain.LineDiff{}, nil
	}

	balance, err := s.converter.Convert(ctx, line.AmountCurrency, &doc.Currency, &doc.CompanyCurrency, doc.CompanyID, doc.Date, true, doc.OverrideRate())
	if err != nil {
		return domain.LineDiff{}, err
	}

	updated := *line
	updated.SetBalance(balance)

	var diff domain.LineDiff
	if !updated.Debit.Equal(line.Debit) || !updated.Credit.Equal(line.Credit) {
		diff.Updates = append(diff.Updates, updated)
		diff.ApplyTo(doc)
	}
	return diff, nil
}
