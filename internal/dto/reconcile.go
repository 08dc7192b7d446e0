package dto

import (
	"github.com/ledgercore/invoice_engine/internal/core/domain"
)

// CheckReconcileRequest seeds a full-reconciliation check.
type CheckReconcileRequest struct {
	LineIDs []string `json:"lineIDs" binding:"required,min=1"`
}

// FullReconcileResponse describes a finalized reconciliation.
type FullReconcileResponse struct {
	FullReconcileID    string   `json:"fullReconcileID"`
	PartialIDs         []string `json:"partialIDs"`
	LineIDs            []string `json:"lineIDs"`
	ExchangeDocumentID string   `json:"exchangeDocumentID,omitempty"`
}

// CheckReconcileResponse is the outcome of a reconciliation check. Pending
// means the graph is not fully reconciled (or finalization was suppressed).
type CheckReconcileResponse struct {
	FullyReconciled bool                   `json:"fullyReconciled"`
	Reconciliation  *FullReconcileResponse `json:"reconciliation,omitempty"`
}

// ToFullReconcileResponse converts a domain record, nil-safe.
func ToFullReconcileResponse(full *domain.FullReconcile) *FullReconcileResponse {
	if full == nil {
		return nil
	}
	return &FullReconcileResponse{
		FullReconcileID:    full.FullReconcileID,
		PartialIDs:         full.PartialIDs,
		LineIDs:            full.LineIDs,
		ExchangeDocumentID: full.ExchangeDocumentID,
	}
}
