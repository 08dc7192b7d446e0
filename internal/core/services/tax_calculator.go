package services

import (
	"fmt"
	"sort"

	"github.com/ledgercore/invoice_engine/internal/core/domain"
	"github.com/shopspring/decimal"
)

// TaxDetail is one computed tax result: the share of one tax's amount
// assigned to one repartition line.
type TaxDetail struct {
	TaxID             string
	TaxName           string
	RepartitionLineID string
	AccountID         string
	Base              decimal.Decimal
	Amount            decimal.Decimal
	// AmountCurrency is filled by the engine when the document carries a
	// foreign currency; it is the amount of the document-currency pass.
	AmountCurrency    decimal.Decimal
	ExigibleOnPayment bool
	TagIDs            []string
	// AppliedOnTaxIDs lists the taxes whose base includes this result. Only
	// set when the tax adds its amount to the base of the taxes after it.
	AppliedOnTaxIDs []string
}

// TaxComputation is the result of computing a tax set over one price.
type TaxComputation struct {
	TotalExcluded decimal.Decimal
	TotalIncluded decimal.Decimal
	BaseTags      []string
	Taxes         []TaxDetail
}

var oneHundred = decimal.NewFromInt(100)

// ComputeAllTaxes computes the given taxes on priceUnit x quantity in cur.
// Results are ordered by tax sequence, then repartition order; amounts are
// rounded per repartition share with the remainder folded into the last
// share so the split sums exactly to the tax amount.
func ComputeAllTaxes(taxes []domain.Tax, cur domain.Currency, priceUnit, quantity decimal.Decimal, isRefund bool) (TaxComputation, error) {
	ordered := make([]domain.Tax, len(taxes))
	copy(ordered, taxes)
	sort.SliceStable(ordered, func(i, j int) bool { return ordered[i].Sequence < ordered[j].Sequence })

	rawBase := priceUnit.Mul(quantity)

	// Strip price-included taxes out of the base before computing.
	includedPct := decimal.Zero
	includedFixed := decimal.Zero
	for _, tax := range ordered {
		if !tax.PriceInclude {
			continue
		}
		switch tax.AmountType {
		case domain.TaxPercent:
			includedPct = includedPct.Add(tax.Amount)
		case domain.TaxFixed:
			includedFixed = includedFixed.Add(tax.Amount.Mul(quantity))
		}
	}
	base := rawBase.Sub(includedFixed)
	if !includedPct.IsZero() {
		base = base.Div(decimal.NewFromInt(1).Add(includedPct.Div(oneHundred)))
	}
	base = cur.Round(base)

	comp := TaxComputation{
		TotalExcluded: base,
		TotalIncluded: base,
	}

	// chainBase grows as base-affecting taxes add their amounts to the
	// base of the taxes that follow them.
	chainBase := base
	for i, tax := range ordered {
		var amount decimal.Decimal
		switch tax.AmountType {
		case domain.TaxPercent:
			amount = chainBase.Mul(tax.Amount).Div(oneHundred)
		case domain.TaxFixed:
			amount = tax.Amount.Mul(quantity)
		default:
			return TaxComputation{}, fmt.Errorf("unknown tax amount type '%s' for tax %s", tax.AmountType, tax.TaxID)
		}
		amount = cur.Round(amount)
		comp.TotalIncluded = comp.TotalIncluded.Add(amount)

		taxBase := chainBase
		var appliedOn []string
		if tax.IncludeBaseAmount {
			for _, later := range ordered[i+1:] {
				appliedOn = append(appliedOn, later.TaxID)
			}
			chainBase = chainBase.Add(amount)
		}

		repartition := tax.RepartitionFor(isRefund)
		if len(repartition) == 0 {
			return TaxComputation{}, fmt.Errorf("tax %s has no repartition lines", tax.TaxID)
		}
		for _, rep := range repartition {
			if rep.Type == domain.RepartitionBase {
				comp.BaseTags = appendUnique(comp.BaseTags, rep.TagIDs...)
			}
		}

		taxReps := make([]domain.TaxRepartitionLine, 0, len(repartition))
		for _, rep := range repartition {
			if rep.Type == domain.RepartitionTax {
				taxReps = append(taxReps, rep)
			}
		}
		if len(taxReps) == 0 {
			return TaxComputation{}, fmt.Errorf("tax %s has no tax-type repartition line", tax.TaxID)
		}

		distributed := decimal.Zero
		for i, rep := range taxReps {
			var share decimal.Decimal
			if i == len(taxReps)-1 {
				share = amount.Sub(distributed)
			} else {
				share = cur.Round(amount.Mul(rep.Factor).Div(oneHundred))
				distributed = distributed.Add(share)
			}
			comp.Taxes = append(comp.Taxes, TaxDetail{
				TaxID:             tax.TaxID,
				TaxName:           tax.Name,
				RepartitionLineID: rep.RepartitionLineID,
				AccountID:         rep.AccountID,
				Base:              taxBase,
				Amount:            share,
				ExigibleOnPayment: tax.Exigibility == domain.ExigibleOnPayment,
				TagIDs:            rep.TagIDs,
				AppliedOnTaxIDs:   appliedOn,
			})
		}
	}

	return comp, nil
}

func appendUnique(dst []string, values ...string) []string {
	for _, v := range values {
		found := false
		for _, existing := range dst {
			if existing == v {
				found = true
				break
			}
		}
		if !found {
			dst = append(dst, v)
		}
	}
	return dst
}
