package services_test

import (
	"context"
	"testing"
	"time"

	"github.com/ledgercore/invoice_engine/internal/core/domain"
	"github.com/ledgercore/invoice_engine/internal/core/services"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"
)

type TaxReportTestSuite struct {
	suite.Suite
	mockTaxConfig *MockTaxConfigReader
	mockRates     *MockRateLookup
	service       *services.TaxReportService

	eur domain.Currency
	usd domain.Currency
}

func (suite *TaxReportTestSuite) SetupTest() {
	suite.mockTaxConfig = new(MockTaxConfigReader)
	suite.mockRates = new(MockRateLookup)
	suite.service = services.NewTaxReportService(suite.mockTaxConfig, services.NewCurrencyConverter(suite.mockRates))
	suite.eur = domain.Currency{CurrencyCode: "EUR", Symbol: "€", DecimalPlaces: 2}
	suite.usd = domain.Currency{CurrencyCode: "USD", Symbol: "$", DecimalPlaces: 2}
}

func (suite *TaxReportTestSuite) vatTax() domain.Tax {
	return domain.Tax{
		TaxID:              "tax10",
		Name:               "VAT 10%",
		AmountType:         domain.TaxPercent,
		Amount:             decimal.NewFromInt(10),
		Exigibility:        domain.ExigibleOnInvoice,
		TaxGroupID:         "grp-vat",
		TaxGroupName:       "VAT",
		InvoiceRepartition: domain.IdentityRepartition("tax10", "rep10", "ACC_TAX"),
	}
}

// --- Test Cases ---

func (suite *TaxReportTestSuite) TestTaxTotals_SingleCurrencyInvoice() {
	ctx := context.Background()
	vat := suite.vatTax()
	doc := &domain.Document{
		DocumentID:      "D1",
		Type:            domain.DocOutInvoice,
		Date:            time.Date(2024, 3, 15, 0, 0, 0, 0, time.UTC),
		CompanyID:       "company-1",
		CompanyCurrency: suite.eur,
		Currency:        suite.eur,
		Lines: []domain.JournalLine{
			{LineID: "L1", DocumentID: "D1", Debit: decimal.NewFromInt(100), TaxIDs: []string{"tax10"}},
			{LineID: "T1", DocumentID: "D1", Debit: decimal.NewFromInt(10), TaxRepartitionLineID: "rep10", TaxLineID: "tax10", TaxBaseAmount: decimal.NewFromInt(100)},
		},
	}
	suite.mockTaxConfig.On("FindTaxByID", mock.Anything, "tax10").Return(&vat, nil).Twice()

	rows, err := suite.service.TaxTotalsByGroup(ctx, doc)

	suite.Require().NoError(err)
	suite.Require().Len(rows, 1)
	suite.Equal("grp-vat", rows[0].TaxGroupID)
	suite.Equal("VAT", rows[0].TaxGroupName)
	suite.True(rows[0].Base.Equal(decimal.NewFromInt(100)))
	suite.True(rows[0].Amount.Equal(decimal.NewFromInt(10)))
	suite.NotEmpty(rows[0].FormattedAmount)
	suite.mockTaxConfig.AssertExpectations(suite.T())
}

func (suite *TaxReportTestSuite) TestTaxTotals_ZeroRateTaxReportsBase() {
	ctx := context.Background()
	exempt := domain.Tax{
		TaxID:              "tax0",
		Name:               "VAT 0%",
		AmountType:         domain.TaxPercent,
		Amount:             decimal.Zero,
		Exigibility:        domain.ExigibleOnInvoice,
		TaxGroupID:         "grp-exempt",
		TaxGroupName:       "Exempt",
		InvoiceRepartition: domain.IdentityRepartition("tax0", "rep0", "ACC_TAX"),
	}
	doc := &domain.Document{
		DocumentID:      "D1",
		Type:            domain.DocOutInvoice,
		Date:            time.Date(2024, 3, 15, 0, 0, 0, 0, time.UTC),
		CompanyID:       "company-1",
		CompanyCurrency: suite.eur,
		Currency:        suite.eur,
		Lines: []domain.JournalLine{
			{LineID: "L1", DocumentID: "D1", Debit: decimal.NewFromInt(100), TaxIDs: []string{"tax0"}},
		},
	}
	suite.mockTaxConfig.On("FindTaxByID", mock.Anything, "tax0").Return(&exempt, nil).Once()

	rows, err := suite.service.TaxTotalsByGroup(ctx, doc)

	suite.Require().NoError(err)
	suite.Require().Len(rows, 1)
	suite.Equal("grp-exempt", rows[0].TaxGroupID)
	suite.True(rows[0].Base.Equal(decimal.NewFromInt(100)))
	suite.True(rows[0].Amount.IsZero())
	suite.mockTaxConfig.AssertExpectations(suite.T())
}

func (suite *TaxReportTestSuite) TestTaxTotals_VendorBillInDocumentCurrency() {
	ctx := context.Background()
	vat := suite.vatTax()
	doc := &domain.Document{
		DocumentID:      "D1",
		Type:            domain.DocInInvoice,
		Date:            time.Date(2024, 3, 15, 0, 0, 0, 0, time.UTC),
		CompanyID:       "company-1",
		CompanyCurrency: suite.eur,
		Currency:        suite.usd,
		Lines: []domain.JournalLine{
			{
				LineID:               "T1",
				DocumentID:           "D1",
				Credit:               decimal.RequireFromString("9.2"),
				CurrencyCode:         "USD",
				AmountCurrency:       decimal.NewFromInt(-10),
				TaxRepartitionLineID: "rep10",
				TaxLineID:            "tax10",
				TaxBaseAmount:        decimal.NewFromInt(92),
			},
		},
	}
	suite.mockTaxConfig.On("FindTaxByID", mock.Anything, "tax10").Return(&vat, nil).Once()
	suite.mockRates.On("LookupRate", mock.Anything, "EUR", "USD", "company-1", doc.Date).Return(decimal.RequireFromString("1.087"), nil).Once()

	rows, err := suite.service.TaxTotalsByGroup(ctx, doc)

	suite.Require().NoError(err)
	suite.Require().Len(rows, 1)
	suite.True(rows[0].Amount.Equal(decimal.NewFromInt(10)), "got %s", rows[0].Amount)
	suite.True(rows[0].Base.Equal(decimal.NewFromInt(100)), "got %s", rows[0].Base)
	suite.mockTaxConfig.AssertExpectations(suite.T())
	suite.mockRates.AssertExpectations(suite.T())
}

// --- Run Suite ---
func TestTaxReportService(t *testing.T) {
	suite.Run(t, new(TaxReportTestSuite))
}
