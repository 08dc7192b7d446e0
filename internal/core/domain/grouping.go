package domain

import (
	"sort"
	"strings"
)

// TaxGroupingKey identifies one tax line slot. Two computed tax results with
// equal keys merge into a single persisted tax line. The key is a comparable
// struct so it can be used directly as a map key without serializing
// heterogeneous values into a string.
type TaxGroupingKey struct {
	TaxRepartitionLineID string
	AccountID            string
	CurrencyCode         string
	AnalyticAccountID    string
	// TaxFingerprint canonically encodes the set of follow-up taxes applied
	// on the generated line, empty for most taxes.
	TaxFingerprint string
}

// TaxFingerprint canonically encodes a set of tax IDs for use in grouping
// keys: order-insensitive and collision-free for UUID identifiers.
func TaxFingerprint(taxIDs []string) string {
	if len(taxIDs) == 0 {
		return ""
	}
	sorted := make([]string, len(taxIDs))
	copy(sorted, taxIDs)
	sort.Strings(sorted)
	return strings.Join(sorted, ",")
}
