package services

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/ledgercore/invoice_engine/internal/apperrors"
	"github.com/ledgercore/invoice_engine/internal/core/domain"
	portsrepo "github.com/ledgercore/invoice_engine/internal/core/ports/repositories"
	portssvc "github.com/ledgercore/invoice_engine/internal/core/ports/services"
	"github.com/ledgercore/invoice_engine/internal/middleware"
	"github.com/shopspring/decimal"
)

// FullReconcileService decides whether a connected settlement graph is fully
// reconciled and, when foreign-currency residuals remain, books a single
// consolidated exchange-difference entry per currency before closing the
// graph.
type FullReconcileService struct {
	ledger       portsrepo.ReconciliationRepositoryWithTx
	currencyRepo portsrepo.CurrencyReader
	converter    portssvc.ConverterSvc

	// disableExchangeDifference suppresses exchange-entry creation; a graph
	// needing one is then left pending instead of being finalized.
	disableExchangeDifference bool
}

// NewFullReconcileService creates a new FullReconcileService.
func NewFullReconcileService(ledger portsrepo.ReconciliationRepositoryWithTx, currencyRepo portsrepo.CurrencyReader, converter portssvc.ConverterSvc, disableExchangeDifference bool) *FullReconcileService {
	return &FullReconcileService{
		ledger:                    ledger,
		currencyRepo:              currencyRepo,
		converter:                 converter,
		disableExchangeDifference: disableExchangeDifference,
	}
}

var _ portssvc.ReconcileSvcFacade = (*FullReconcileService)(nil)

// residualBucket collects the unsettled lines sharing one currency.
type residualBucket struct {
	currencyCode string // Empty for company-currency lines
	lines        []domain.JournalLine
	total        decimal.Decimal
}

// walkSettlementGraph expands the seed lines to the transitive closure of
// their settlement edges. Iterative breadth-first search with explicit
// visited tracking; the graph may hold thousands of edges.
func (s *FullReconcileService) walkSettlementGraph(ctx context.Context, seedLineIDs []string) (lineIDs []string, partials []domain.PartialReconcile, err error) {
	lineSet := make(map[string]struct{}, len(seedLineIDs))
	for _, id := range seedLineIDs {
		lineSet[id] = struct{}{}
		lineIDs = append(lineIDs, id)
	}
	seen := make(map[string]struct{})
	var seenIDs []string

	for {
		batch, err := s.ledger.FindPartialsTouchingLines(ctx, lineIDs, seenIDs)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to fetch settlement edges: %w", err)
		}
		progressed := false
		for _, partial := range batch {
			if _, ok := seen[partial.PartialID]; ok {
				continue
			}
			seen[partial.PartialID] = struct{}{}
			seenIDs = append(seenIDs, partial.PartialID)
			partials = append(partials, partial)
			progressed = true
			for _, lineID := range partial.LineIDs() {
				if _, ok := lineSet[lineID]; !ok {
					lineSet[lineID] = struct{}{}
					lineIDs = append(lineIDs, lineID)
				}
			}
		}
		if !progressed {
			return lineIDs, partials, nil
		}
	}
}

// CheckFullReconcile walks the settlement graph from the seed lines and
// finalizes the reconciliation when its net balance is zero. Returns nil
// without error when the graph is not fully reconciled, or when an exchange
// difference entry is required but suppressed.
func (s *FullReconcileService) CheckFullReconcile(ctx context.Context, seedLineIDs []string) (*domain.FullReconcile, error) {
	logger := middleware.GetLoggerFromCtx(ctx)
	if len(seedLineIDs) == 0 {
		return nil, nil
	}
	ctx = WithRateMemo(ctx)

	lineIDs, partials, err := s.walkSettlementGraph(ctx, seedLineIDs)
	if err != nil {
		return nil, err
	}

	lines, err := s.ledger.FindLinesByIDs(ctx, lineIDs)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch journal lines: %w", err)
	}
	if len(lines) != len(lineIDs) {
		found := make(map[string]struct{}, len(lines))
		for _, line := range lines {
			found[line.LineID] = struct{}{}
		}
		for _, id := range lineIDs {
			if _, ok := found[id]; !ok {
				return nil, fmt.Errorf("%w: settlement edge references missing line %s", apperrors.ErrDataIntegrity, id)
			}
		}
	}

	docIDs := make([]string, 0)
	docIDSet := make(map[string]struct{})
	for _, line := range lines {
		if _, ok := docIDSet[line.DocumentID]; !ok {
			docIDSet[line.DocumentID] = struct{}{}
			docIDs = append(docIDs, line.DocumentID)
		}
	}
	docs, err := s.ledger.FindDocumentHeadersByIDs(ctx, docIDs)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch documents: %w", err)
	}
	docByID := make(map[string]*domain.Document, len(docs))
	for i := range docs {
		docByID[docs[i].DocumentID] = &docs[i]
	}
	for _, id := range docIDs {
		if _, ok := docByID[id]; !ok {
			return nil, fmt.Errorf("%w: journal line references missing document %s", apperrors.ErrDataIntegrity, id)
		}
	}

	companyCurrency := docByID[lines[0].DocumentID].CompanyCurrency
	companyID := docByID[lines[0].DocumentID].CompanyID

	// Collect the distinct foreign currencies across the graph.
	currencyCodes := make(map[string]struct{})
	for _, line := range lines {
		if line.CurrencyCode != "" {
			currencyCodes[line.CurrencyCode] = struct{}{}
		}
	}
	singleCurrencyCode := ""
	multipleCurrency := len(currencyCodes) != 1
	if !multipleCurrency {
		for code := range currencyCodes {
			singleCurrencyCode = code
		}
	}

	totalDebit := decimal.Zero
	totalCredit := decimal.Zero
	totalAmountCurrency := decimal.Zero
	var maxDate time.Time
	buckets := make(map[string]*residualBucket)
	var bucketOrder []string
	cashBasisInvolved := false

	for _, line := range lines {
		doc := docByID[line.DocumentID]
		if doc.CashBasisOriginPartialID != "" {
			cashBasisInvolved = true
		}

		totalDebit = totalDebit.Add(line.Debit)
		totalCredit = totalCredit.Add(line.Credit)
		totalAmountCurrency = totalAmountCurrency.Add(line.AmountCurrency)
		if line.Date.After(maxDate) {
			maxDate = line.Date
		}

		// A line with no foreign amount in a single-currency graph forces
		// the debit/credit comparison; its balance still contributes to the
		// currency total through a conversion.
		if line.AmountCurrency.IsZero() && singleCurrencyCode != "" {
			multipleCurrency = true
			target, err := s.currencyRepo.FindCurrencyByCode(ctx, singleCurrencyCode)
			if err != nil {
				return nil, fmt.Errorf("failed to resolve currency %s: %w", singleCurrencyCode, err)
			}
			converted, err := s.converter.Convert(ctx, line.Balance(), &companyCurrency, target, companyID, line.Date, true, doc.OverrideRate())
			if err != nil {
				return nil, err
			}
			totalAmountCurrency = totalAmountCurrency.Add(converted)
		}

		if line.HasResidual() {
			bucket, ok := buckets[line.CurrencyCode]
			if !ok {
				bucket = &residualBucket{currencyCode: line.CurrencyCode}
				buckets[line.CurrencyCode] = bucket
				bucketOrder = append(bucketOrder, line.CurrencyCode)
			}
			bucket.lines = append(bucket.lines, line)
			if !line.AmountResidual.IsZero() {
				bucket.total = bucket.total.Add(line.AmountResidual)
			} else {
				bucket.total = bucket.total.Add(line.AmountResidualCurrency)
			}
		}
	}
	sort.Strings(bucketOrder)

	// Cash-basis exception: every involved document must be fully settled
	// before the graph can close.
	if cashBasisInvolved {
		for _, docID := range docIDs {
			matched, err := s.ledger.MatchedPercentage(ctx, docID)
			if err != nil {
				return nil, fmt.Errorf("failed to fetch matched percentage for document %s: %w", docID, err)
			}
			if matched.LessThan(decimal.NewFromInt(1)) {
				return nil, nil
			}
		}
	}

	isFull := false
	if singleCurrencyCode != "" && !multipleCurrency {
		singleCurrency, err := s.currencyRepo.FindCurrencyByCode(ctx, singleCurrencyCode)
		if err != nil {
			return nil, fmt.Errorf("failed to resolve currency %s: %w", singleCurrencyCode, err)
		}
		isFull = singleCurrency.IsZero(totalAmountCurrency)
	} else {
		isFull = companyCurrency.CompareAmounts(totalDebit, totalCredit) == 0
	}
	if !isFull {
		return nil, nil
	}

	needsExchange := false
	for _, code := range bucketOrder {
		if !companyCurrency.IsZero(buckets[code].total) {
			needsExchange = true
		}
	}

	partialIDs := make([]string, 0, len(partials))
	for _, partial := range partials {
		partialIDs = append(partialIDs, partial.PartialID)
	}

	if needsExchange && s.disableExchangeDifference {
		// Finalization is suppressed; the graph stays pending.
		logger.Info("full reconciliation pending, exchange difference suppressed",
			slog.Int("lines", len(lineIDs)),
		)
		return nil, nil
	}

	// Every mutation of the finalization commits or rolls back together.
	tx, err := s.ledger.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer s.ledger.Rollback(ctx, tx) // No-op once the transaction is committed

	exchangeDocID := ""
	if needsExchange {
		exchangeDoc := domain.Document{
			DocumentID:      uuid.NewString(),
			Type:            domain.DocEntry,
			Date:            maxDate,
			Reference:       "Exchange Rate Difference",
			JournalName:     "Exchange Difference",
			CompanyID:       companyID,
			CompanyCurrency: companyCurrency,
			Currency:        companyCurrency,
			Status:          domain.Draft,
		}
		if err := s.ledger.SaveDocument(ctx, tx, exchangeDoc); err != nil {
			return nil, fmt.Errorf("failed to create exchange difference document: %w", err)
		}
		exchangeDocID = exchangeDoc.DocumentID

		for _, code := range bucketOrder {
			bucket := buckets[code]
			if companyCurrency.IsZero(bucket.total) {
				// Residuals cancel out; close the lines directly.
				if err := s.settleBucket(ctx, tx, bucket.lines); err != nil {
					return nil, err
				}
				continue
			}
			newLineIDs, newPartialIDs, err := s.createExchangeRateLines(ctx, tx, bucket, exchangeDoc)
			if err != nil {
				return nil, err
			}
			lineIDs = append(lineIDs, newLineIDs...)
			partialIDs = append(partialIDs, newPartialIDs...)
		}

		if err := s.ledger.MarkDocumentPosted(ctx, tx, exchangeDocID); err != nil {
			return nil, fmt.Errorf("failed to post exchange difference document: %w", err)
		}
	}

	full := domain.FullReconcile{
		FullReconcileID:    uuid.NewString(),
		PartialIDs:         partialIDs,
		LineIDs:            lineIDs,
		ExchangeDocumentID: exchangeDocID,
	}
	if err := s.ledger.SaveFullReconcile(ctx, tx, full); err != nil {
		return nil, fmt.Errorf("failed to save full reconciliation: %w", err)
	}
	if err := s.ledger.Commit(ctx, tx); err != nil {
		return nil, fmt.Errorf("failed to commit full reconciliation: %w", err)
	}
	logger.Info("full reconciliation created",
		slog.String("full_reconcile_id", full.FullReconcileID),
		slog.Int("lines", len(full.LineIDs)),
		slog.Bool("exchange_entry", exchangeDocID != ""),
	)
	return &full, nil
}

func (s *FullReconcileService) settleBucket(ctx context.Context, tx pgx.Tx, lines []domain.JournalLine) error {
	ids := make([]string, len(lines))
	for i, line := range lines {
		ids[i] = line.LineID
	}
	if err := s.ledger.SettleLineResiduals(ctx, tx, ids); err != nil {
		return fmt.Errorf("failed to settle residuals: %w", err)
	}
	return nil
}

// createExchangeRateLines books one balancing line per residual line on the
// exchange document and settles each against its origin.
func (s *FullReconcileService) createExchangeRateLines(ctx context.Context, tx pgx.Tx, bucket *residualBucket, exchangeDoc domain.Document) ([]string, []string, error) {
	var newLineIDs, newPartialIDs []string

	for _, line := range bucket.lines {
		balancing := domain.JournalLine{
			LineID:              uuid.NewString(),
			DocumentID:          exchangeDoc.DocumentID,
			Name:                fmt.Sprintf("Currency exchange rate difference: %s", line.Name),
			Date:                exchangeDoc.Date,
			AccountID:           line.AccountID,
			AccountInternalType: line.AccountInternalType,
			PartnerID:           line.PartnerID,
			CompanyID:           exchangeDoc.CompanyID,
			Quantity:            decimal.NewFromInt(1),
			CurrencyCode:        line.CurrencyCode,
			AmountCurrency:      line.AmountResidualCurrency.Neg(),
		}
		balancing.SetBalance(line.AmountResidual.Neg())
		if err := s.ledger.SaveLine(ctx, tx, balancing); err != nil {
			return nil, nil, fmt.Errorf("failed to create exchange difference line: %w", err)
		}
		newLineIDs = append(newLineIDs, balancing.LineID)

		residualIsDebit := line.AmountResidual.IsPositive() ||
			(line.AmountResidual.IsZero() && line.AmountResidualCurrency.IsPositive())
		partial := domain.PartialReconcile{
			PartialID:      uuid.NewString(),
			Amount:         line.AmountResidual.Abs(),
			AmountCurrency: line.AmountResidualCurrency.Abs(),
			CurrencyCode:   line.CurrencyCode,
		}
		if residualIsDebit {
			partial.DebitLineID = line.LineID
			partial.CreditLineID = balancing.LineID
		} else {
			partial.DebitLineID = balancing.LineID
			partial.CreditLineID = line.LineID
		}
		if err := s.ledger.SavePartialReconcile(ctx, tx, partial); err != nil {
			return nil, nil, fmt.Errorf("failed to create settlement edge: %w", err)
		}
		newPartialIDs = append(newPartialIDs, partial.PartialID)

		if err := s.ledger.SettleLineResiduals(ctx, tx, []string{line.LineID, balancing.LineID}); err != nil {
			return nil, nil, fmt.Errorf("failed to settle residuals: %w", err)
		}
	}
	return newLineIDs, newPartialIDs, nil
}

// ReconciledInfo lists the settlements against the document's
// receivable/payable lines, amounts presented in the document currency.
func (s *FullReconcileService) ReconciledInfo(ctx context.Context, doc *domain.Document) ([]domain.ReconciledInfo, error) {
	ctx = WithRateMemo(ctx)
	var payTermLineIDs []string
	inDoc := make(map[string]struct{})
	for i := range doc.Lines {
		line := &doc.Lines[i]
		inDoc[line.LineID] = struct{}{}
		if line.AccountInternalType == domain.Receivable || line.AccountInternalType == domain.Payable {
			payTermLineIDs = append(payTermLineIDs, line.LineID)
		}
	}
	if len(payTermLineIDs) == 0 {
		return nil, nil
	}

	partials, err := s.ledger.FindPartialsTouchingLines(ctx, payTermLineIDs, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch settlement edges: %w", err)
	}

	var infos []domain.ReconciledInfo
	for _, partial := range partials {
		counterpartID := ""
		for _, lineID := range partial.LineIDs() {
			if _, ok := inDoc[lineID]; !ok {
				counterpartID = lineID
			}
		}
		if counterpartID == "" {
			continue
		}
		counterparts, err := s.ledger.FindLinesByIDs(ctx, []string{counterpartID})
		if err != nil {
			return nil, fmt.Errorf("failed to fetch counterpart line: %w", err)
		}
		if len(counterparts) == 0 {
			return nil, fmt.Errorf("%w: settlement edge %s references missing line %s", apperrors.ErrDataIntegrity, partial.PartialID, counterpartID)
		}
		counterpart := counterparts[0]

		var amount decimal.Decimal
		if doc.IsMultiCurrency() && partial.CurrencyCode == doc.Currency.CurrencyCode {
			amount = partial.AmountCurrency
		} else {
			converted, err := s.converter.Convert(ctx, partial.Amount, &doc.CompanyCurrency, &doc.Currency, doc.CompanyID, doc.Date, true, doc.OverrideRate())
			if err != nil {
				return nil, err
			}
			amount = converted
		}
		if doc.Currency.IsZero(amount) {
			continue
		}

		counterpartDocs, err := s.ledger.FindDocumentHeadersByIDs(ctx, []string{counterpart.DocumentID})
		if err != nil {
			return nil, fmt.Errorf("failed to fetch counterpart document: %w", err)
		}
		if len(counterpartDocs) == 0 {
			return nil, fmt.Errorf("%w: line %s references missing document %s", apperrors.ErrDataIntegrity, counterpart.LineID, counterpart.DocumentID)
		}
		counterpartDoc := counterpartDocs[0]

		reference := counterpartDoc.DocumentID
		if counterpartDoc.Reference != "" {
			reference = fmt.Sprintf("%s (%s)", reference, counterpartDoc.Reference)
		}
		infos = append(infos, domain.ReconciledInfo{
			PartialID:         partial.PartialID,
			CounterpartLineID: counterpart.LineID,
			CounterpartName:   counterpart.Name,
			CounterpartDocID:  counterpart.DocumentID,
			JournalName:       counterpartDoc.JournalName,
			Reference:         reference,
			Amount:            amount,
			CurrencySymbol:    doc.Currency.Symbol,
			CurrencyDecimals:  doc.Currency.DecimalPlaces,
			Date:              counterpart.Date,
		})
	}
	return infos, nil
}
