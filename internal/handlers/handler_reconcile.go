package handlers

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/ledgercore/invoice_engine/internal/apperrors"
	portsrepo "github.com/ledgercore/invoice_engine/internal/core/ports/repositories"
	portssvc "github.com/ledgercore/invoice_engine/internal/core/ports/services"
	"github.com/ledgercore/invoice_engine/internal/dto"
	"github.com/ledgercore/invoice_engine/internal/middleware"
)

// reconcileHandler handles settlement-graph operations.
type reconcileHandler struct {
	reconcileService portssvc.ReconcileSvcFacade
	ledger           portsrepo.ReconciliationRepositoryFacade
}

func newReconcileHandler(rs portssvc.ReconcileSvcFacade, ledger portsrepo.ReconciliationRepositoryFacade) *reconcileHandler {
	return &reconcileHandler{
		reconcileService: rs,
		ledger:           ledger,
	}
}

// registerReconcileRoutes registers routes related to reconciliation.
func registerReconcileRoutes(rg *gin.RouterGroup, rs portssvc.ReconcileSvcFacade, ledger portsrepo.ReconciliationRepositoryFacade) {
	h := newReconcileHandler(rs, ledger)

	rg.POST("/reconcile/check", h.checkFullReconcile)
	rg.GET("/documents/:documentID/reconciled-info", h.reconciledInfo)
}

// checkFullReconcile godoc
// @Summary Check a settlement graph for full reconciliation
// @Description Walks the settlement graph from the seed lines and, when every residual is zero, closes the matching as a full reconciliation with an exchange difference entry if needed
// @Tags reconcile
// @Accept  json
// @Produce  json
// @Param   seed body dto.CheckReconcileRequest true "Seed line IDs"
// @Success 200 {object} dto.CheckReconcileResponse
// @Failure 400 {object} map[string]string "Invalid input"
// @Failure 409 {object} map[string]string "Settlement graph is inconsistent"
// @Failure 500 {object} map[string]string "Failed to check full reconciliation"
// @Router /reconcile/check [post]
func (h *reconcileHandler) checkFullReconcile(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var req dto.CheckReconcileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for CheckFullReconcile", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	logger = logger.With(slog.Int("seed_lines", len(req.LineIDs)))
	logger.Info("Received request to check full reconciliation")

	full, err := h.reconcileService.CheckFullReconcile(c.Request.Context(), req.LineIDs)
	if err != nil {
		if errors.Is(err, apperrors.ErrDataIntegrity) {
			logger.Error("Settlement graph is inconsistent", slog.String("error", err.Error()))
			c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
		} else {
			logger.Error("Failed to check full reconciliation", slog.String("error", err.Error()))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to check full reconciliation"})
		}
		return
	}

	c.JSON(http.StatusOK, dto.CheckReconcileResponse{
		FullyReconciled: full != nil,
		Reconciliation:  dto.ToFullReconcileResponse(full),
	})
}

// reconciledInfo godoc
// @Summary List counterpart documents reconciled with a document
// @Description Retrieves the documents settled against the given document through partial reconciliations
// @Tags reconcile
// @Produce  json
// @Param   documentID path string true "Document ID"
// @Success 200 {object} map[string]interface{}
// @Failure 404 {object} map[string]string "Document not found"
// @Failure 409 {object} map[string]string "Settlement data is inconsistent"
// @Failure 500 {object} map[string]string "Failed to collect reconciled info"
// @Router /documents/{documentID}/reconciled-info [get]
func (h *reconcileHandler) reconciledInfo(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	documentID := c.Param("documentID")
	logger = logger.With(slog.String("document_id", documentID))

	docs, err := h.ledger.FindDocumentHeadersByIDs(c.Request.Context(), []string{documentID})
	if err != nil {
		logger.Error("Failed to fetch document", slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve document"})
		return
	}
	if len(docs) == 0 {
		c.JSON(http.StatusNotFound, gin.H{"error": "Document not found"})
		return
	}
	doc := docs[0]

	doc.Lines, err = h.ledger.FindLinesByDocumentID(c.Request.Context(), documentID)
	if err != nil {
		logger.Error("Failed to fetch document lines", slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve document lines"})
		return
	}

	infos, err := h.reconcileService.ReconciledInfo(c.Request.Context(), &doc)
	if err != nil {
		if errors.Is(err, apperrors.ErrDataIntegrity) {
			logger.Error("Settlement data is inconsistent", slog.String("error", err.Error()))
			c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
		} else {
			logger.Error("Failed to collect reconciled info", slog.String("error", err.Error()))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to collect reconciled info"})
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{"documentID": documentID, "reconciledInfo": infos})
}
