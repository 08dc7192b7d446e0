package handlers

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/ledgercore/invoice_engine/internal/apperrors"
	"github.com/ledgercore/invoice_engine/internal/core/domain"
	portssvc "github.com/ledgercore/invoice_engine/internal/core/ports/services"
	"github.com/ledgercore/invoice_engine/internal/dto"
	"github.com/ledgercore/invoice_engine/internal/middleware"
)

// documentHandler handles document recomputation requests.
type documentHandler struct {
	documentService portssvc.DocumentRecomputeSvc
	taxReport       portssvc.TaxReportSvc
	currencyService portssvc.CurrencyReaderSvc
}

func newDocumentHandler(ds portssvc.DocumentRecomputeSvc, tr portssvc.TaxReportSvc, cs portssvc.CurrencyReaderSvc) *documentHandler {
	return &documentHandler{
		documentService: ds,
		taxReport:       tr,
		currencyService: cs,
	}
}

// registerDocumentRoutes registers routes related to document recomputation.
func registerDocumentRoutes(rg *gin.RouterGroup, ds portssvc.DocumentRecomputeSvc, tr portssvc.TaxReportSvc, cs portssvc.CurrencyReaderSvc) {
	h := newDocumentHandler(ds, tr, cs)

	documents := rg.Group("/documents")
	{
		documents.POST("/recompute", h.recomputeDocument)
	}
}

// buildDocument assembles a domain document from the request snapshot,
// hydrating both currencies.
func (h *documentHandler) buildDocument(c *gin.Context, req *dto.RecomputeDocumentRequest) (*domain.Document, error) {
	companyCurrency, err := h.currencyService.GetCurrencyByCode(c.Request.Context(), req.CompanyCurrencyCode)
	if err != nil {
		return nil, err
	}
	docCurrency := companyCurrency
	if req.CurrencyCode != "" && req.CurrencyCode != req.CompanyCurrencyCode {
		docCurrency, err = h.currencyService.GetCurrencyByCode(c.Request.Context(), req.CurrencyCode)
		if err != nil {
			return nil, err
		}
	}

	documentID := req.DocumentID
	if documentID == "" {
		documentID = uuid.NewString()
	}

	doc := &domain.Document{
		DocumentID:      documentID,
		Type:            domain.DocumentType(req.Type),
		Date:            req.Date,
		CompanyID:       req.CompanyID,
		CompanyCurrency: *companyCurrency,
		Currency:        *docCurrency,
		PartnerID:       req.PartnerID,
		Status:          domain.Draft,
		PurchaseRate:    req.PurchaseRate,
		CashRounding:    req.CashRounding.ToDomainCashRounding(),
	}
	doc.Lines = make([]domain.JournalLine, 0, len(req.Lines))
	for _, payload := range req.Lines {
		line := payload.ToDomainLine(doc.DocumentID, req.CompanyID, req.Date)
		if line.LineID == "" {
			line.LineID = uuid.NewString()
		}
		doc.Lines = append(doc.Lines, line)
	}
	return doc, nil
}

// recomputeDocument godoc
// @Summary Recompute the derived lines of a document
// @Description Regenerates tax and cash rounding lines for the submitted document snapshot and returns the resulting lines with tax totals
// @Tags documents
// @Accept  json
// @Produce  json
// @Param   document body dto.RecomputeDocumentRequest true "Document snapshot"
// @Success 200 {object} dto.RecomputeDocumentResponse
// @Failure 400 {object} map[string]string "Invalid document or unknown currency"
// @Failure 500 {object} map[string]string "Failed to recompute document"
// @Router /documents/recompute [post]
func (h *documentHandler) recomputeDocument(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var req dto.RecomputeDocumentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for RecomputeDocument", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	doc, err := h.buildDocument(c, &req)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			logger.Warn("Unknown currency on document", slog.String("error", err.Error()))
			c.JSON(http.StatusBadRequest, gin.H{"error": "Unknown currency: " + err.Error()})
		} else {
			logger.Error("Failed to assemble document", slog.String("error", err.Error()))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to assemble document"})
		}
		return
	}

	logger = logger.With(slog.String("document_id", doc.DocumentID), slog.String("doc_type", string(doc.Type)))

	diff, err := h.documentService.RecomputeDocument(c.Request.Context(), doc, portssvc.RecomputeOptions{
		RecomputeTaxBaseOnly: req.RecomputeTaxBaseOnly,
	})
	if err != nil {
		h.renderRecomputeError(c, logger, err)
		return
	}

	totals, err := h.taxReport.TaxTotalsByGroup(c.Request.Context(), doc)
	if err != nil {
		logger.Error("Failed to compute tax totals", slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to compute tax totals"})
		return
	}

	resp := dto.RecomputeDocumentResponse{
		Lines:     make([]dto.LinePayload, 0, len(doc.Lines)),
		Created:   len(diff.Creates),
		Updated:   len(diff.Updates),
		Deleted:   len(diff.Deletes),
		TaxTotals: dto.ToTaxGroupTotalPayloads(totals),
	}
	for _, line := range doc.Lines {
		resp.Lines = append(resp.Lines, dto.FromDomainLine(line))
	}

	logger.Info("Document recomputed",
		slog.Int("created", resp.Created),
		slog.Int("updated", resp.Updated),
		slog.Int("deleted", resp.Deleted),
	)
	c.JSON(http.StatusOK, resp)
}

func (h *documentHandler) renderRecomputeError(c *gin.Context, logger *slog.Logger, err error) {
	switch {
	case errors.Is(err, apperrors.ErrValidation), errors.Is(err, apperrors.ErrInvalidCurrency), errors.Is(err, apperrors.ErrMissingContext):
		logger.Warn("Invalid recompute request", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, apperrors.ErrNotFound):
		logger.Warn("Missing configuration for recompute", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	default:
		logger.Error("Failed to recompute document", slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to recompute document"})
	}
}
