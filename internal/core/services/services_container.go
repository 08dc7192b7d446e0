package services

import (
	portsrepo "github.com/ledgercore/invoice_engine/internal/core/ports/repositories"
	portssvc "github.com/ledgercore/invoice_engine/internal/core/ports/services"
	"github.com/ledgercore/invoice_engine/pkg/config"
)

// NewServiceContainer creates a new service container with properly initialized dependencies
func NewServiceContainer(cfg *config.Config, repos portsrepo.RepositoryProvider) *portssvc.ServiceContainer {
	container := &portssvc.ServiceContainer{}

	// Currency and rate services come first since everything downstream
	// converts through them.
	container.Currency = NewCurrencyService(repos.CurrencyRepo)
	container.ExchangeRate = NewExchangeRateService(repos.ExchangeRateRepo, container.Currency)
	container.Converter = NewCurrencyConverter(repos.ExchangeRateRepo)

	taxRecompute := NewTaxRecomputeService(repos.TaxConfigRepo, container.Converter)
	cashRounding := NewCashRoundingService(container.Converter)
	container.Document = NewDocumentService(taxRecompute, cashRounding, container.Converter)
	container.TaxReport = NewTaxReportService(repos.TaxConfigRepo, container.Converter)
	container.Reconcile = NewFullReconcileService(repos.LedgerRepo, repos.CurrencyRepo, container.Converter, cfg.DisableExchangeDifference)

	return container
}

// Helper to check interface implementations at compile time
var (
	_ portssvc.CurrencySvcFacade     = (*CurrencyService)(nil)
	_ portssvc.ExchangeRateSvcFacade = (*ExchangeRateService)(nil)
	_ portssvc.ConverterSvc          = (*CurrencyConverter)(nil)
	_ portssvc.DocumentRecomputeSvc  = (*DocumentService)(nil)
)
