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

// --- Mock TaxConfigReader ---
type MockTaxConfigReader struct {
	mock.Mock
}

func (m *MockTaxConfigReader) FindTaxByID(ctx context.Context, taxID string) (*domain.Tax, error) {
	args := m.Called(ctx, taxID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Tax), args.Error(1)
}

func (m *MockTaxConfigReader) FindTaxByRepartitionLineID(ctx context.Context, repartitionLineID string) (*domain.Tax, error) {
	args := m.Called(ctx, repartitionLineID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Tax), args.Error(1)
}

func (m *MockTaxConfigReader) FindAccountByID(ctx context.Context, accountID string) (*domain.Account, error) {
	args := m.Called(ctx, accountID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Account), args.Error(1)
}

// --- Test Suite ---
type TaxRecomputeTestSuite struct {
	suite.Suite
	mockTaxConfig *MockTaxConfigReader
	service       *services.TaxRecomputeService

	eur   domain.Currency
	usd   domain.Currency
	tax10 domain.Tax
}

func (suite *TaxRecomputeTestSuite) SetupTest() {
	suite.mockTaxConfig = new(MockTaxConfigReader)
	converter := services.NewCurrencyConverter(new(MockRateLookup))
	suite.service = services.NewTaxRecomputeService(suite.mockTaxConfig, converter)

	suite.eur = domain.Currency{CurrencyCode: "EUR", DecimalPlaces: 2}
	suite.usd = domain.Currency{CurrencyCode: "USD", DecimalPlaces: 2}
	suite.tax10 = domain.Tax{
		TaxID:              "tax10",
		Name:               "VAT 10%",
		AmountType:         domain.TaxPercent,
		Amount:             decimal.NewFromInt(10),
		Exigibility:        domain.ExigibleOnInvoice,
		InvoiceRepartition: domain.IdentityRepartition("tax10", "rep10", "ACC_TAX"),
	}
}

func (suite *TaxRecomputeTestSuite) newInvoice(docType domain.DocumentType, currency domain.Currency) *domain.Document {
	return &domain.Document{
		DocumentID:      "D1",
		Type:            docType,
		Date:            time.Date(2024, 3, 15, 0, 0, 0, 0, time.UTC),
		CompanyID:       "company-1",
		CompanyCurrency: suite.eur,
		Currency:        currency,
		PartnerID:       "partner-1",
		Status:          domain.Draft,
	}
}

func (suite *TaxRecomputeTestSuite) baseLine(lineID, price string) domain.JournalLine {
	return domain.JournalLine{
		LineID:      lineID,
		DocumentID:  "D1",
		AccountID:   "ACC_EXP",
		CompanyID:   "company-1",
		Quantity:    decimal.NewFromInt(1),
		PriceUnit:   decimal.RequireFromString(price),
		TaxIDs:      []string{"tax10"},
		TaxExigible: true,
	}
}

func (suite *TaxRecomputeTestSuite) expectAccount(ctx context.Context, accountID string) {
	suite.mockTaxConfig.On("FindAccountByID", ctx, accountID).Return(&domain.Account{
		AccountID:    accountID,
		InternalType: domain.Other,
	}, nil).Once()
}

// --- Test Cases ---

func (suite *TaxRecomputeTestSuite) TestRecompute_VendorBillWithPurchaseRate() {
	ctx := context.Background()
	doc := suite.newInvoice(domain.DocInInvoice, suite.usd)
	doc.PurchaseRate = decimal.RequireFromString("0.92")
	line := suite.baseLine("L1", "100")
	line.CurrencyCode = "USD"
	doc.Lines = []domain.JournalLine{line}

	suite.mockTaxConfig.On("FindTaxByID", ctx, "tax10").Return(&suite.tax10, nil).Once()
	suite.mockTaxConfig.On("FindTaxByRepartitionLineID", ctx, "rep10").Return(&suite.tax10, nil).Once()
	suite.expectAccount(ctx, "ACC_TAX")

	diff, err := suite.service.RecomputeTaxLines(ctx, doc, false)

	suite.Require().NoError(err)
	suite.Empty(diff.Updates)
	suite.Empty(diff.Deletes)
	suite.Require().Len(diff.Creates, 1)
	created := diff.Creates[0]
	suite.True(created.Credit.Equal(decimal.RequireFromString("9.2")), "got %s", created.Credit)
	suite.True(created.Debit.IsZero())
	suite.True(created.AmountCurrency.Equal(decimal.NewFromInt(-10)))
	suite.True(created.TaxBaseAmount.Equal(decimal.NewFromInt(92)))
	suite.Equal("USD", created.CurrencyCode)
	suite.Equal("ACC_TAX", created.AccountID)
	suite.Equal(domain.Other, created.AccountInternalType)
	suite.Equal("rep10", created.TaxRepartitionLineID)
	suite.Equal("tax10", created.TaxLineID)
	suite.True(created.TaxExigible)
	suite.True(created.ExcludeFromLineEditor)
	suite.mockTaxConfig.AssertExpectations(suite.T())
}

func (suite *TaxRecomputeTestSuite) TestRecompute_BaseLinesMergeIntoOneTaxLine() {
	ctx := context.Background()
	doc := suite.newInvoice(domain.DocOutInvoice, suite.eur)
	doc.Lines = []domain.JournalLine{suite.baseLine("L1", "100"), suite.baseLine("L2", "200")}

	suite.mockTaxConfig.On("FindTaxByID", ctx, "tax10").Return(&suite.tax10, nil).Twice()
	suite.mockTaxConfig.On("FindTaxByRepartitionLineID", ctx, "rep10").Return(&suite.tax10, nil).Once()
	suite.expectAccount(ctx, "ACC_TAX")

	diff, err := suite.service.RecomputeTaxLines(ctx, doc, false)

	suite.Require().NoError(err)
	suite.Require().Len(diff.Creates, 1)
	created := diff.Creates[0]
	suite.True(created.Debit.Equal(decimal.NewFromInt(30)), "got %s", created.Debit)
	suite.True(created.TaxBaseAmount.Equal(decimal.NewFromInt(300)))
	suite.Empty(created.CurrencyCode)
	suite.mockTaxConfig.AssertExpectations(suite.T())
}

func (suite *TaxRecomputeTestSuite) TestRecompute_SecondPassIsIdempotent() {
	ctx := context.Background()
	doc := suite.newInvoice(domain.DocOutInvoice, suite.eur)
	doc.Lines = []domain.JournalLine{suite.baseLine("L1", "100")}

	suite.mockTaxConfig.On("FindTaxByID", ctx, "tax10").Return(&suite.tax10, nil).Twice()
	suite.mockTaxConfig.On("FindTaxByRepartitionLineID", ctx, "rep10").Return(&suite.tax10, nil).Once()
	suite.expectAccount(ctx, "ACC_TAX")

	first, err := suite.service.RecomputeTaxLines(ctx, doc, false)
	suite.Require().NoError(err)
	suite.Require().Len(first.Creates, 1)
	first.ApplyTo(doc)

	second, err := suite.service.RecomputeTaxLines(ctx, doc, false)

	suite.Require().NoError(err)
	suite.True(second.IsEmpty())
	suite.mockTaxConfig.AssertExpectations(suite.T())
}

func (suite *TaxRecomputeTestSuite) TestRecompute_StaleTaxLineDeleted() {
	ctx := context.Background()
	doc := suite.newInvoice(domain.DocOutInvoice, suite.eur)
	staleLine := domain.JournalLine{
		LineID:               "T1",
		DocumentID:           "D1",
		AccountID:            "ACC_TAX",
		TaxRepartitionLineID: "rep10",
		TaxLineID:            "tax10",
		Debit:                decimal.NewFromInt(10),
	}
	untaxed := suite.baseLine("L1", "100")
	untaxed.TaxIDs = nil
	doc.Lines = []domain.JournalLine{staleLine, untaxed}

	diff, err := suite.service.RecomputeTaxLines(ctx, doc, false)

	suite.Require().NoError(err)
	suite.Empty(diff.Creates)
	suite.Empty(diff.Updates)
	suite.Equal([]string{"T1"}, diff.Deletes)
}

func (suite *TaxRecomputeTestSuite) TestRecompute_DuplicateGroupingKeyDropped() {
	ctx := context.Background()
	doc := suite.newInvoice(domain.DocOutInvoice, suite.eur)
	taxLine := domain.JournalLine{
		LineID:               "T1",
		DocumentID:           "D1",
		AccountID:            "ACC_TAX",
		TaxRepartitionLineID: "rep10",
		TaxLineID:            "tax10",
		Debit:                decimal.NewFromInt(10),
		TaxBaseAmount:        decimal.NewFromInt(100),
	}
	duplicate := taxLine
	duplicate.LineID = "T2"
	doc.Lines = []domain.JournalLine{taxLine, duplicate, suite.baseLine("L1", "100")}

	suite.mockTaxConfig.On("FindTaxByID", ctx, "tax10").Return(&suite.tax10, nil).Once()

	diff, err := suite.service.RecomputeTaxLines(ctx, doc, false)

	suite.Require().NoError(err)
	suite.Empty(diff.Creates)
	suite.Empty(diff.Updates)
	suite.Equal([]string{"T2"}, diff.Deletes)
	suite.mockTaxConfig.AssertExpectations(suite.T())
}

func (suite *TaxRecomputeTestSuite) TestRecompute_BaseOnlyPreservesBalance() {
	ctx := context.Background()
	doc := suite.newInvoice(domain.DocOutInvoice, suite.eur)
	taxLine := domain.JournalLine{
		LineID:               "T1",
		DocumentID:           "D1",
		AccountID:            "ACC_TAX",
		TaxRepartitionLineID: "rep10",
		TaxLineID:            "tax10",
		Debit:                decimal.NewFromInt(10),
		TaxBaseAmount:        decimal.NewFromInt(999),
	}
	doc.Lines = []domain.JournalLine{taxLine, suite.baseLine("L1", "100")}

	suite.mockTaxConfig.On("FindTaxByID", ctx, "tax10").Return(&suite.tax10, nil).Once()

	diff, err := suite.service.RecomputeTaxLines(ctx, doc, true)

	suite.Require().NoError(err)
	suite.Empty(diff.Creates)
	suite.Empty(diff.Deletes)
	suite.Require().Len(diff.Updates, 1)
	suite.True(diff.Updates[0].TaxBaseAmount.Equal(decimal.NewFromInt(100)))
	suite.True(diff.Updates[0].Debit.Equal(decimal.NewFromInt(10)))
	suite.mockTaxConfig.AssertExpectations(suite.T())
}

func (suite *TaxRecomputeTestSuite) TestRecompute_UntaxedLineTagsCleared() {
	ctx := context.Background()
	doc := suite.newInvoice(domain.DocOutInvoice, suite.eur)
	line := suite.baseLine("L1", "100")
	line.TaxIDs = nil
	line.TagIDs = []string{"tag-old"}
	doc.Lines = []domain.JournalLine{line}

	diff, err := suite.service.RecomputeTaxLines(ctx, doc, false)

	suite.Require().NoError(err)
	suite.Require().Len(diff.Updates, 1)
	suite.Equal("L1", diff.Updates[0].LineID)
	suite.Empty(diff.Updates[0].TagIDs)
}

func (suite *TaxRecomputeTestSuite) TestRecompute_OnPaymentTaxNotExigible() {
	ctx := context.Background()
	cashBasisTax := suite.tax10
	cashBasisTax.TaxID = "tax10cb"
	cashBasisTax.Exigibility = domain.ExigibleOnPayment
	cashBasisTax.InvoiceRepartition = domain.IdentityRepartition("tax10cb", "rep10cb", "ACC_TAX_CB")

	doc := suite.newInvoice(domain.DocOutInvoice, suite.eur)
	line := suite.baseLine("L1", "100")
	line.TaxIDs = []string{"tax10cb"}
	line.TaxExigible = false
	doc.Lines = []domain.JournalLine{line}

	suite.mockTaxConfig.On("FindTaxByID", ctx, "tax10cb").Return(&cashBasisTax, nil).Once()
	suite.mockTaxConfig.On("FindTaxByRepartitionLineID", ctx, "rep10cb").Return(&cashBasisTax, nil).Once()
	suite.expectAccount(ctx, "ACC_TAX_CB")

	diff, err := suite.service.RecomputeTaxLines(ctx, doc, false)

	suite.Require().NoError(err)
	suite.Empty(diff.Updates)
	suite.Require().Len(diff.Creates, 1)
	suite.False(diff.Creates[0].TaxExigible)
	suite.mockTaxConfig.AssertExpectations(suite.T())
}

// A base-affecting levy makes the VAT line carry the levy's own id in
// TaxIDs. Recomputing an unchanged document must then match that line
// instead of deleting and recreating it on every pass.
func (suite *TaxRecomputeTestSuite) TestRecompute_ChainedTaxLinesStableAcrossPasses() {
	ctx := context.Background()
	eco := domain.Tax{
		TaxID:              "eco",
		Name:               "Eco levy",
		Sequence:           1,
		AmountType:         domain.TaxFixed,
		Amount:             decimal.RequireFromString("1.00"),
		IncludeBaseAmount:  true,
		Exigibility:        domain.ExigibleOnInvoice,
		InvoiceRepartition: domain.IdentityRepartition("eco", "repEco", "ACC_ECO"),
	}
	vat := suite.tax10
	vat.Sequence = 2

	doc := suite.newInvoice(domain.DocOutInvoice, suite.eur)
	line := suite.baseLine("L1", "100")
	line.TaxIDs = []string{"eco", "tax10"}
	doc.Lines = []domain.JournalLine{line}

	suite.mockTaxConfig.On("FindTaxByID", ctx, "eco").Return(&eco, nil).Twice()
	suite.mockTaxConfig.On("FindTaxByID", ctx, "tax10").Return(&vat, nil).Twice()
	suite.mockTaxConfig.On("FindTaxByRepartitionLineID", ctx, "repEco").Return(&eco, nil).Once()
	suite.mockTaxConfig.On("FindTaxByRepartitionLineID", ctx, "rep10").Return(&vat, nil).Once()
	suite.expectAccount(ctx, "ACC_ECO")
	suite.expectAccount(ctx, "ACC_TAX")

	first, err := suite.service.RecomputeTaxLines(ctx, doc, false)

	suite.Require().NoError(err)
	suite.Require().Len(first.Creates, 2)
	byTax := make(map[string]domain.JournalLine, 2)
	for _, created := range first.Creates {
		byTax[created.TaxLineID] = created
	}
	ecoLine := byTax["eco"]
	suite.True(ecoLine.Debit.Equal(decimal.RequireFromString("1.00")), "got %s", ecoLine.Debit)
	suite.Equal([]string{"tax10"}, ecoLine.TaxIDs)
	vatLine := byTax["tax10"]
	suite.True(vatLine.Debit.Equal(decimal.RequireFromString("10.10")), "got %s", vatLine.Debit)
	suite.True(vatLine.TaxBaseAmount.Equal(decimal.NewFromInt(101)))

	first.ApplyTo(doc)

	second, err := suite.service.RecomputeTaxLines(ctx, doc, false)

	suite.Require().NoError(err)
	suite.True(second.IsEmpty(), "creates=%d updates=%d deletes=%d",
		len(second.Creates), len(second.Updates), len(second.Deletes))
	suite.mockTaxConfig.AssertExpectations(suite.T())
}

// --- Run Suite ---
func TestTaxRecomputeService(t *testing.T) {
	suite.Run(t, new(TaxRecomputeTestSuite))
}
