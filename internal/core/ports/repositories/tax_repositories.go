package repositories

import (
	"context"

	"github.com/ledgercore/invoice_engine/internal/core/domain"
)

// TaxConfigReader defines read operations against the host's tax
// configuration (chart of accounts).
type TaxConfigReader interface {
	// FindTaxByID retrieves a tax definition.
	FindTaxByID(ctx context.Context, taxID string) (*domain.Tax, error)

	// FindTaxByRepartitionLineID retrieves the tax owning a repartition line.
	FindTaxByRepartitionLineID(ctx context.Context, repartitionLineID string) (*domain.Tax, error)

	// FindAccountByID retrieves a chart-of-accounts entry.
	FindAccountByID(ctx context.Context, accountID string) (*domain.Account, error)
}
