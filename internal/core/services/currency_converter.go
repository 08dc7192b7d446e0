package services

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/ledgercore/invoice_engine/internal/apperrors"
	"github.com/ledgercore/invoice_engine/internal/core/domain"
	portsrepo "github.com/ledgercore/invoice_engine/internal/core/ports/repositories"
	portssvc "github.com/ledgercore/invoice_engine/internal/core/ports/services"
	"github.com/shopspring/decimal"
)

// CurrencyConverter converts amounts between currencies at a date. A
// positive override rate short-circuits the time-series lookup; identical
// currencies short-circuit everything.
type CurrencyConverter struct {
	rates portsrepo.RateLookup
}

// NewCurrencyConverter creates a new CurrencyConverter.
func NewCurrencyConverter(rates portsrepo.RateLookup) *CurrencyConverter {
	return &CurrencyConverter{rates: rates}
}

var _ portssvc.ConverterSvc = (*CurrencyConverter)(nil)

// Convert converts amount from one currency to another for the given company
// and date. Either currency may be nil: the other substitutes, making the
// conversion an identity. The result is rounded to the target currency's
// increment unless round is false.
func (s *CurrencyConverter) Convert(ctx context.Context, amount decimal.Decimal, from, to *domain.Currency, companyID string, asOf time.Time, round bool, overrideRate decimal.Decimal) (decimal.Decimal, error) {
	if from == nil {
		from = to
	}
	if to == nil {
		to = from
	}
	if from == nil || to == nil {
		return decimal.Zero, fmt.Errorf("%w: neither source nor target currency resolved", apperrors.ErrInvalidCurrency)
	}
	if companyID == "" {
		return decimal.Zero, fmt.Errorf("%w: company is required", apperrors.ErrMissingContext)
	}
	if asOf.IsZero() {
		return decimal.Zero, fmt.Errorf("%w: conversion date is required", apperrors.ErrMissingContext)
	}

	var result decimal.Decimal
	switch {
	case from.CurrencyCode == to.CurrencyCode:
		result = amount
	case overrideRate.IsPositive():
		result = amount.Mul(overrideRate)
	default:
		rate, err := s.lookupRate(ctx, from.CurrencyCode, to.CurrencyCode, companyID, asOf)
		if err != nil {
			return decimal.Zero, fmt.Errorf("failed to look up rate %s->%s: %w", from.CurrencyCode, to.CurrencyCode, err)
		}
		result = amount.Mul(rate)
	}

	if round {
		result = to.Round(result)
	}
	return result, nil
}

type rateCacheKey struct {
	From      string
	To        string
	CompanyID string
	Date      string // yyyy-mm-dd; time-series resolution is daily
}

// rateMemo memoizes rate lookups for the duration of one recompute pass.
// Scoping the memo to a pass keeps each (pair, company, date) lookup to a
// single store hit while freshly saved rates are still picked up by the
// next pass.
type rateMemo struct {
	mu    sync.Mutex
	rates map[rateCacheKey]decimal.Decimal
}

type rateMemoCtxKey struct{}

// WithRateMemo returns a context carrying a fresh rate memo. Conversions
// performed under the returned context resolve each (pair, company, date)
// against the store at most once.
func WithRateMemo(ctx context.Context) context.Context {
	return context.WithValue(ctx, rateMemoCtxKey{}, &rateMemo{rates: make(map[rateCacheKey]decimal.Decimal)})
}

func rateMemoFromCtx(ctx context.Context) *rateMemo {
	memo, _ := ctx.Value(rateMemoCtxKey{}).(*rateMemo)
	return memo
}

// lookupRate resolves a rate through the pass memo when the context carries
// one, hitting the store directly otherwise.
func (s *CurrencyConverter) lookupRate(ctx context.Context, fromCurrencyCode, toCurrencyCode, companyID string, asOf time.Time) (decimal.Decimal, error) {
	memo := rateMemoFromCtx(ctx)
	if memo == nil {
		return s.rates.LookupRate(ctx, fromCurrencyCode, toCurrencyCode, companyID, asOf)
	}

	key := rateCacheKey{
		From:      fromCurrencyCode,
		To:        toCurrencyCode,
		CompanyID: companyID,
		Date:      asOf.Format("2006-01-02"),
	}

	memo.mu.Lock()
	cached, ok := memo.rates[key]
	memo.mu.Unlock()
	if ok {
		return cached, nil
	}

	rate, err := s.rates.LookupRate(ctx, fromCurrencyCode, toCurrencyCode, companyID, asOf)
	if err != nil {
		return decimal.Zero, err
	}

	memo.mu.Lock()
	memo.rates[key] = rate
	memo.mu.Unlock()
	return rate, nil
}
