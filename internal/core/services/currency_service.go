package services

import (
	"context"
	"fmt"
	"time"

	"github.com/ledgercore/invoice_engine/internal/core/domain"
	portsrepo "github.com/ledgercore/invoice_engine/internal/core/ports/repositories"
	portssvc "github.com/ledgercore/invoice_engine/internal/core/ports/services"
	"github.com/ledgercore/invoice_engine/internal/dto"
	"github.com/ledgercore/invoice_engine/internal/middleware"
	"github.com/shopspring/decimal"
)

type CurrencyService struct {
	currencyRepo portsrepo.CurrencyRepositoryFacade
}

func NewCurrencyService(currencyRepo portsrepo.CurrencyRepositoryFacade) *CurrencyService {
	return &CurrencyService{currencyRepo: currencyRepo}
}

var _ portssvc.CurrencySvcFacade = (*CurrencyService)(nil)

func (s *CurrencyService) CreateCurrency(ctx context.Context, req dto.CreateCurrencyRequest, creatorUserID string) (*domain.Currency, error) {
	// Format validation (required, len=3, uppercase) handled by DTO binding.
	now := time.Now()

	rounding := req.Rounding
	if rounding.LessThanOrEqual(decimal.Zero) {
		// Default increment from the precision: 2 places -> 0.01.
		rounding = decimal.New(1, -req.DecimalPlaces)
	}

	currency := domain.Currency{
		CurrencyCode:  req.CurrencyCode,
		Symbol:        req.Symbol,
		Name:          req.Name,
		DecimalPlaces: req.DecimalPlaces,
		Rounding:      rounding,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     creatorUserID,
			LastUpdatedAt: now,
			LastUpdatedBy: creatorUserID,
		},
	}

	err := s.currencyRepo.SaveCurrency(ctx, currency)
	if err != nil {
		middleware.GetLoggerFromCtx(ctx).Error("failed to save currency", "currency_code", req.CurrencyCode, "error", err)
		return nil, fmt.Errorf("failed to create currency in service: %w", err)
	}

	return &currency, nil
}

func (s *CurrencyService) GetCurrencyByCode(ctx context.Context, currencyCode string) (*domain.Currency, error) {
	currency, err := s.currencyRepo.FindCurrencyByCode(ctx, currencyCode)
	if err != nil {
		return nil, fmt.Errorf("failed to get currency by code in service: %w", err)
	}
	return currency, nil
}

func (s *CurrencyService) ListCurrencies(ctx context.Context) ([]domain.Currency, error) {
	currencies, err := s.currencyRepo.ListCurrencies(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list currencies in service: %w", err)
	}
	// Return empty slice if no currencies found, not nil
	if currencies == nil {
		return []domain.Currency{}, nil
	}
	return currencies, nil
}
