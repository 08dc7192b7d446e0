package services_test

import (
	"context"
	"testing"
	"time"

	"github.com/ledgercore/invoice_engine/internal/core/domain"
	"github.com/ledgercore/invoice_engine/internal/core/services"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/suite"
)

type CashRoundingTestSuite struct {
	suite.Suite
	service *services.CashRoundingService

	chf domain.Currency
	eur domain.Currency
	usd domain.Currency
}

func (suite *CashRoundingTestSuite) SetupTest() {
	converter := services.NewCurrencyConverter(new(MockRateLookup))
	suite.service = services.NewCashRoundingService(converter)
	suite.chf = domain.Currency{CurrencyCode: "CHF", DecimalPlaces: 2}
	suite.eur = domain.Currency{CurrencyCode: "EUR", DecimalPlaces: 2}
	suite.usd = domain.Currency{CurrencyCode: "USD", DecimalPlaces: 2}
}

func (suite *CashRoundingTestSuite) fiveCentConfig() *domain.CashRoundingConfig {
	return &domain.CashRoundingConfig{
		Name:          "Rounding to 0.05",
		Strategy:      domain.RoundingAddInvoiceLine,
		Rounding:      decimal.RequireFromString("0.05"),
		Method:        domain.RoundHalfUp,
		LossAccountID: "ACC_LOSS",
		GainAccountID: "ACC_GAIN",
	}
}

func (suite *CashRoundingTestSuite) newInvoice(cfg *domain.CashRoundingConfig) *domain.Document {
	return &domain.Document{
		DocumentID:      "D1",
		Type:            domain.DocOutInvoice,
		Date:            time.Date(2024, 3, 15, 0, 0, 0, 0, time.UTC),
		CompanyID:       "company-1",
		CompanyCurrency: suite.chf,
		Currency:        suite.chf,
		CashRounding:    cfg,
		Status:          domain.Draft,
	}
}

func creditLine(lineID string, amount string) domain.JournalLine {
	return domain.JournalLine{
		LineID:     lineID,
		DocumentID: "D1",
		AccountID:  "ACC_REV",
		Credit:     decimal.RequireFromString(amount),
	}
}

func receivableLine(lineID string, amount string) domain.JournalLine {
	return domain.JournalLine{
		LineID:              lineID,
		DocumentID:          "D1",
		AccountID:           "ACC_RECV",
		AccountInternalType: domain.Receivable,
		Debit:               decimal.RequireFromString(amount),
	}
}

// --- Test Cases ---

func (suite *CashRoundingTestSuite) TestRecompute_AddInvoiceLineLoss() {
	ctx := context.Background()
	doc := suite.newInvoice(suite.fiveCentConfig())
	doc.Lines = []domain.JournalLine{receivableLine("R1", "100.02"), creditLine("L1", "100.02")}

	diff, err := suite.service.RecomputeCashRoundingLines(ctx, doc)

	suite.Require().NoError(err)
	suite.Empty(diff.Updates)
	suite.Empty(diff.Deletes)
	suite.Require().Len(diff.Creates, 1)
	created := diff.Creates[0]
	suite.True(created.Debit.Equal(decimal.RequireFromString("0.02")), "got %s", created.Debit)
	suite.Equal("ACC_LOSS", created.AccountID)
	suite.Equal("Rounding to 0.05", created.Name)
	suite.True(created.IsRoundingLine)
	suite.Equal(9999, created.Sequence)
	suite.Empty(created.CurrencyCode)
}

func (suite *CashRoundingTestSuite) TestRecompute_AddInvoiceLineGain() {
	ctx := context.Background()
	doc := suite.newInvoice(suite.fiveCentConfig())
	doc.Lines = []domain.JournalLine{receivableLine("R1", "100.04"), creditLine("L1", "100.04")}

	diff, err := suite.service.RecomputeCashRoundingLines(ctx, doc)

	suite.Require().NoError(err)
	suite.Require().Len(diff.Creates, 1)
	created := diff.Creates[0]
	suite.True(created.Credit.Equal(decimal.RequireFromString("0.01")), "got %s", created.Credit)
	suite.Equal("ACC_GAIN", created.AccountID)
}

func (suite *CashRoundingTestSuite) TestRecompute_BiggestTaxFold() {
	ctx := context.Background()
	cfg := suite.fiveCentConfig()
	cfg.Strategy = domain.RoundingBiggestTax
	doc := suite.newInvoice(cfg)
	bigTax := creditLine("T1", "10.00")
	bigTax.Name = "VAT 10%"
	bigTax.AccountID = "ACC_VAT"
	bigTax.TaxRepartitionLineID = "rep10"
	bigTax.TaxLineID = "tax10"
	bigTax.TaxExigible = true
	smallTax := creditLine("T2", "2.14")
	smallTax.TaxRepartitionLineID = "rep2"
	smallTax.TaxLineID = "tax2"
	doc.Lines = []domain.JournalLine{creditLine("L1", "100.03"), bigTax, smallTax}

	diff, err := suite.service.RecomputeCashRoundingLines(ctx, doc)

	suite.Require().NoError(err)
	suite.Require().Len(diff.Creates, 1)
	created := diff.Creates[0]
	suite.True(created.Debit.Equal(decimal.RequireFromString("0.02")), "got %s", created.Debit)
	suite.Equal("VAT 10% (rounding)", created.Name)
	suite.Equal("ACC_VAT", created.AccountID)
	suite.Equal("rep10", created.TaxRepartitionLineID)
	suite.Equal("tax10", created.TaxLineID)
	suite.True(created.TaxExigible)
	suite.True(created.ExcludeFromLineEditor)
}

func (suite *CashRoundingTestSuite) TestRecompute_BiggestTaxWithoutTaxLines() {
	ctx := context.Background()
	cfg := suite.fiveCentConfig()
	cfg.Strategy = domain.RoundingBiggestTax
	doc := suite.newInvoice(cfg)
	doc.Lines = []domain.JournalLine{creditLine("L1", "100.02")}

	diff, err := suite.service.RecomputeCashRoundingLines(ctx, doc)

	suite.Require().NoError(err)
	suite.True(diff.IsEmpty())
}

func (suite *CashRoundingTestSuite) TestRecompute_ConfigRemoved() {
	ctx := context.Background()
	doc := suite.newInvoice(nil)
	rounding := creditLine("R1", "0.02")
	rounding.IsRoundingLine = true
	doc.Lines = []domain.JournalLine{creditLine("L1", "100.00"), rounding}

	diff, err := suite.service.RecomputeCashRoundingLines(ctx, doc)

	suite.Require().NoError(err)
	suite.Empty(diff.Creates)
	suite.Empty(diff.Updates)
	suite.Equal([]string{"R1"}, diff.Deletes)
}

func (suite *CashRoundingTestSuite) TestRecompute_AlreadyRounded() {
	ctx := context.Background()
	doc := suite.newInvoice(suite.fiveCentConfig())
	rounding := creditLine("R1", "0.02")
	rounding.IsRoundingLine = true
	doc.Lines = []domain.JournalLine{creditLine("L1", "100.00"), rounding}

	diff, err := suite.service.RecomputeCashRoundingLines(ctx, doc)

	suite.Require().NoError(err)
	suite.Empty(diff.Creates)
	suite.Equal([]string{"R1"}, diff.Deletes)
}

func (suite *CashRoundingTestSuite) TestRecompute_StrategyChangeRecreatesLine() {
	ctx := context.Background()
	doc := suite.newInvoice(suite.fiveCentConfig())
	oldRounding := creditLine("R1", "0.02")
	oldRounding.IsRoundingLine = true
	oldRounding.TaxRepartitionLineID = "rep10" // booked under the biggest_tax strategy
	doc.Lines = []domain.JournalLine{creditLine("L1", "100.02"), oldRounding}

	diff, err := suite.service.RecomputeCashRoundingLines(ctx, doc)

	suite.Require().NoError(err)
	suite.Equal([]string{"R1"}, diff.Deletes)
	suite.Require().Len(diff.Creates, 1)
	suite.Equal("ACC_LOSS", diff.Creates[0].AccountID)
	suite.Empty(diff.Creates[0].TaxRepartitionLineID)
}

func (suite *CashRoundingTestSuite) TestRecompute_MultiCurrencyUsesPurchaseRate() {
	ctx := context.Background()
	doc := suite.newInvoice(suite.fiveCentConfig())
	doc.Type = domain.DocInInvoice
	doc.CompanyCurrency = suite.eur
	doc.Currency = suite.usd
	doc.PurchaseRate = decimal.RequireFromString("0.9")
	expense := domain.JournalLine{
		LineID:         "L1",
		DocumentID:     "D1",
		AccountID:      "ACC_EXP",
		CurrencyCode:   "USD",
		AmountCurrency: decimal.RequireFromString("-100.02"),
		Credit:         decimal.RequireFromString("90.02"),
	}
	doc.Lines = []domain.JournalLine{expense}

	diff, err := suite.service.RecomputeCashRoundingLines(ctx, doc)

	suite.Require().NoError(err)
	suite.Require().Len(diff.Creates, 1)
	created := diff.Creates[0]
	suite.True(created.AmountCurrency.Equal(decimal.RequireFromString("0.02")), "got %s", created.AmountCurrency)
	suite.True(created.Debit.Equal(decimal.RequireFromString("0.02")), "got %s", created.Debit)
	suite.Equal("USD", created.CurrencyCode)
	suite.Equal("ACC_LOSS", created.AccountID)
}

// --- Run Suite ---
func TestCashRoundingService(t *testing.T) {
	suite.Run(t, new(CashRoundingTestSuite))
}
