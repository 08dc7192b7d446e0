package services_test

import (
	"context"
	"testing"
	"time"

	"github.com/ledgercore/invoice_engine/internal/apperrors"
	"github.com/ledgercore/invoice_engine/internal/core/domain"
	portssvc "github.com/ledgercore/invoice_engine/internal/core/ports/services"
	"github.com/ledgercore/invoice_engine/internal/core/services"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"
)

type DocumentServiceTestSuite struct {
	suite.Suite
	mockTaxConfig *MockTaxConfigReader
	mockRates     *MockRateLookup
	service       *services.DocumentService

	eur domain.Currency
	usd domain.Currency
}

func (suite *DocumentServiceTestSuite) SetupTest() {
	suite.mockTaxConfig = new(MockTaxConfigReader)
	suite.mockRates = new(MockRateLookup)
	converter := services.NewCurrencyConverter(suite.mockRates)
	taxRecompute := services.NewTaxRecomputeService(suite.mockTaxConfig, converter)
	cashRounding := services.NewCashRoundingService(converter)
	suite.service = services.NewDocumentService(taxRecompute, cashRounding, converter)
	suite.eur = domain.Currency{CurrencyCode: "EUR", DecimalPlaces: 2}
	suite.usd = domain.Currency{CurrencyCode: "USD", DecimalPlaces: 2}
}

func (suite *DocumentServiceTestSuite) entryDocument() *domain.Document {
	return &domain.Document{
		DocumentID:      "D1",
		Type:            domain.DocEntry,
		Date:            time.Date(2024, 3, 15, 0, 0, 0, 0, time.UTC),
		CompanyID:       "company-1",
		CompanyCurrency: suite.eur,
		Currency:        suite.eur,
		Status:          domain.Draft,
	}
}

// --- Test Cases ---

func (suite *DocumentServiceTestSuite) TestRecomputeDocument_TaxThenRounding() {
	ctx := context.Background()
	tax10 := domain.Tax{
		TaxID:              "tax10",
		Name:               "VAT 10%",
		AmountType:         domain.TaxPercent,
		Amount:             decimal.NewFromInt(10),
		Exigibility:        domain.ExigibleOnInvoice,
		InvoiceRepartition: domain.IdentityRepartition("tax10", "rep10", "ACC_TAX"),
	}
	doc := &domain.Document{
		DocumentID:      "D1",
		Type:            domain.DocOutInvoice,
		Date:            time.Date(2024, 3, 15, 0, 0, 0, 0, time.UTC),
		CompanyID:       "company-1",
		CompanyCurrency: suite.eur,
		Currency:        suite.eur,
		Status:          domain.Draft,
		CashRounding: &domain.CashRoundingConfig{
			Name:          "Rounding to 0.05",
			Strategy:      domain.RoundingAddInvoiceLine,
			Rounding:      decimal.RequireFromString("0.05"),
			Method:        domain.RoundHalfUp,
			LossAccountID: "ACC_LOSS",
			GainAccountID: "ACC_GAIN",
		},
		Lines: []domain.JournalLine{
			{
				LineID:      "L1",
				DocumentID:  "D1",
				AccountID:   "ACC_REV",
				Quantity:    decimal.NewFromInt(1),
				PriceUnit:   decimal.RequireFromString("100.01"),
				Debit:       decimal.RequireFromString("100.01"),
				TaxIDs:      []string{"tax10"},
				TaxExigible: true,
			},
		},
	}
	suite.mockTaxConfig.On("FindTaxByID", mock.Anything, "tax10").Return(&tax10, nil).Once()
	suite.mockTaxConfig.On("FindTaxByRepartitionLineID", mock.Anything, "rep10").Return(&tax10, nil).Once()
	suite.mockTaxConfig.On("FindAccountByID", mock.Anything, "ACC_TAX").Return(&domain.Account{
		AccountID:    "ACC_TAX",
		InternalType: domain.Other,
	}, nil).Once()

	diff, err := suite.service.RecomputeDocument(ctx, doc, portssvc.RecomputeOptions{})

	suite.Require().NoError(err)
	suite.Require().Len(diff.Creates, 2)
	taxLine := diff.Creates[0]
	suite.True(taxLine.Debit.Equal(decimal.NewFromInt(10)), "got %s", taxLine.Debit)
	roundingLine := diff.Creates[1]
	suite.True(roundingLine.IsRoundingLine)
	// 100.01 + 10.00 rounds down to 110.00 at the 0.05 increment.
	suite.True(roundingLine.Credit.Equal(decimal.RequireFromString("0.01")), "got %s", roundingLine.Credit)
	suite.Equal("ACC_GAIN", roundingLine.AccountID)
	suite.Len(doc.Lines, 3)
	suite.mockTaxConfig.AssertExpectations(suite.T())
}

func (suite *DocumentServiceTestSuite) TestSetAmountTotal_TwoLineEntry() {
	ctx := context.Background()
	doc := suite.entryDocument()
	doc.Lines = []domain.JournalLine{
		{LineID: "L1", DocumentID: "D1", Debit: decimal.NewFromInt(50)},
		{LineID: "L2", DocumentID: "D1", Credit: decimal.NewFromInt(50)},
	}

	diff, err := suite.service.SetAmountTotal(ctx, doc, decimal.NewFromInt(80))

	suite.Require().NoError(err)
	suite.Require().Len(diff.Updates, 2)
	suite.True(doc.LineByID("L1").Debit.Equal(decimal.NewFromInt(80)))
	suite.True(doc.LineByID("L2").Credit.Equal(decimal.NewFromInt(80)))
}

func (suite *DocumentServiceTestSuite) TestSetAmountTotal_MultiCurrencyEntry() {
	ctx := context.Background()
	doc := suite.entryDocument()
	doc.Currency = suite.usd
	doc.Lines = []domain.JournalLine{
		{LineID: "L1", DocumentID: "D1", CurrencyCode: "USD", Debit: decimal.NewFromInt(50), AmountCurrency: decimal.NewFromInt(55)},
		{LineID: "L2", DocumentID: "D1", CurrencyCode: "USD", Credit: decimal.NewFromInt(50), AmountCurrency: decimal.NewFromInt(-55)},
	}
	suite.mockRates.On("LookupRate", ctx, "USD", "EUR", "company-1", doc.Date).Return(decimal.RequireFromString("0.9"), nil).Once()

	diff, err := suite.service.SetAmountTotal(ctx, doc, decimal.NewFromInt(100))

	suite.Require().NoError(err)
	suite.Require().Len(diff.Updates, 2)
	suite.True(doc.LineByID("L1").Debit.Equal(decimal.NewFromInt(90)))
	suite.True(doc.LineByID("L1").AmountCurrency.Equal(decimal.NewFromInt(100)))
	suite.True(doc.LineByID("L2").Credit.Equal(decimal.NewFromInt(90)))
	suite.True(doc.LineByID("L2").AmountCurrency.Equal(decimal.NewFromInt(-100)))
	suite.mockRates.AssertExpectations(suite.T())
}

func (suite *DocumentServiceTestSuite) TestSetAmountTotal_RejectsInvoices() {
	ctx := context.Background()
	doc := suite.entryDocument()
	doc.Type = domain.DocOutInvoice
	doc.Lines = []domain.JournalLine{
		{LineID: "L1", DocumentID: "D1", Debit: decimal.NewFromInt(50)},
		{LineID: "L2", DocumentID: "D1", Credit: decimal.NewFromInt(50)},
	}

	_, err := suite.service.SetAmountTotal(ctx, doc, decimal.NewFromInt(80))

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrValidation)
}

func (suite *DocumentServiceTestSuite) TestSetAmountTotal_RejectsThreeLines() {
	ctx := context.Background()
	doc := suite.entryDocument()
	doc.Lines = make([]domain.JournalLine, 3)

	_, err := suite.service.SetAmountTotal(ctx, doc, decimal.NewFromInt(80))

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrValidation)
}

func (suite *DocumentServiceTestSuite) TestNormalizePriceUnit_UsesPurchaseRate() {
	ctx := context.Background()
	doc := suite.entryDocument()
	doc.Type = domain.DocInInvoice
	doc.Currency = suite.usd
	doc.PurchaseRate = decimal.NewFromInt(2)

	price, err := suite.service.NormalizePriceUnit(ctx, doc, decimal.NewFromInt(50))

	suite.Require().NoError(err)
	suite.True(price.Equal(decimal.NewFromInt(100)))
	suite.mockRates.AssertNotCalled(suite.T(), "LookupRate", ctx, "EUR", "USD", "company-1", doc.Date)
}

func (suite *DocumentServiceTestSuite) TestRecomputeBalanceFromAmountCurrency() {
	ctx := context.Background()
	doc := suite.entryDocument()
	doc.Type = domain.DocInInvoice
	doc.Currency = suite.usd
	doc.PurchaseRate = decimal.RequireFromString("0.92")
	doc.Lines = []domain.JournalLine{
		{LineID: "L1", DocumentID: "D1", CurrencyCode: "USD", AmountCurrency: decimal.NewFromInt(-100), Credit: decimal.NewFromInt(85)},
	}

	diff, err := suite.service.RecomputeBalanceFromAmountCurrency(ctx, doc, "L1")

	suite.Require().NoError(err)
	suite.Require().Len(diff.Updates, 1)
	suite.True(doc.LineByID("L1").Credit.Equal(decimal.RequireFromString("92")), "got %s", doc.LineByID("L1").Credit)
	suite.True(doc.LineByID("L1").Debit.IsZero())
}

func (suite *DocumentServiceTestSuite) TestRecomputeBalanceFromAmountCurrency_CompanyCurrencyNoop() {
	ctx := context.Background()
	doc := suite.entryDocument()
	doc.Lines = []domain.JournalLine{
		{LineID: "L1", DocumentID: "D1", Debit: decimal.NewFromInt(85)},
	}

	diff, err := suite.service.RecomputeBalanceFromAmountCurrency(ctx, doc, "L1")

	suite.Require().NoError(err)
	suite.True(diff.IsEmpty())
}

func (suite *DocumentServiceTestSuite) TestRecomputeBalanceFromAmountCurrency_LineNotFound() {
	ctx := context.Background()
	doc := suite.entryDocument()

	_, err := suite.service.RecomputeBalanceFromAmountCurrency(ctx, doc, "missing")

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrNotFound)
}

// --- Run Suite ---
func TestDocumentService(t *testing.T) {
	suite.Run(t, new(DocumentServiceTestSuite))
}
