package handlers

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/ledgercore/invoice_engine/internal/apperrors"
	"github.com/ledgercore/invoice_engine/internal/core/domain"
	portssvc "github.com/ledgercore/invoice_engine/internal/core/ports/services"
	"github.com/ledgercore/invoice_engine/internal/dto"
	"github.com/ledgercore/invoice_engine/internal/middleware"
)

// convertHandler handles currency conversion requests.
type convertHandler struct {
	converter       portssvc.ConverterSvc
	currencyService portssvc.CurrencyReaderSvc
}

func newConvertHandler(converter portssvc.ConverterSvc, currencyService portssvc.CurrencyReaderSvc) *convertHandler {
	return &convertHandler{
		converter:       converter,
		currencyService: currencyService,
	}
}

// registerConvertRoutes registers the conversion route.
func registerConvertRoutes(rg *gin.RouterGroup, converter portssvc.ConverterSvc, currencyService portssvc.CurrencyReaderSvc) {
	h := newConvertHandler(converter, currencyService)
	rg.POST("/convert", h.convert)
}

// resolveCurrency fetches the currency for a code, or nil for an empty code
// so the converter substitutes the counterpart.
func (h *convertHandler) resolveCurrency(ctx context.Context, code string) (*domain.Currency, error) {
	if code == "" {
		return nil, nil
	}
	return h.currencyService.GetCurrencyByCode(ctx, code)
}

// convert godoc
// @Summary Convert an amount between currencies
// @Description Converts an amount using the stored rate for the given company and date, or an override rate
// @Tags convert
// @Accept  json
// @Produce  json
// @Param   conversion body dto.ConvertRequest true "Conversion details"
// @Success 200 {object} dto.ConvertResponse
// @Failure 400 {object} map[string]string "Invalid conversion request"
// @Failure 404 {object} map[string]string "Currency or rate not found"
// @Failure 500 {object} map[string]string "Failed to convert amount"
// @Router /convert [post]
func (h *convertHandler) convert(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var req dto.ConvertRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for Convert", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	from, err := h.resolveCurrency(c.Request.Context(), req.FromCurrencyCode)
	if err != nil {
		h.renderCurrencyError(c, logger, req.FromCurrencyCode, err)
		return
	}
	to, err := h.resolveCurrency(c.Request.Context(), req.ToCurrencyCode)
	if err != nil {
		h.renderCurrencyError(c, logger, req.ToCurrencyCode, err)
		return
	}

	result, err := h.converter.Convert(c.Request.Context(), req.Amount, from, to, req.CompanyID, req.AsOf, req.DoRound(), req.OverrideRate)
	if err != nil {
		switch {
		case errors.Is(err, apperrors.ErrInvalidCurrency), errors.Is(err, apperrors.ErrMissingContext), errors.Is(err, apperrors.ErrValidation):
			logger.Warn("Invalid conversion request", slog.String("error", err.Error()))
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		case errors.Is(err, apperrors.ErrNotFound):
			logger.Warn("No exchange rate for conversion", slog.String("error", err.Error()))
			c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
		default:
			logger.Error("Conversion failed", slog.String("error", err.Error()))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to convert amount"})
		}
		return
	}

	resp := dto.ConvertResponse{
		Result:           result,
		FromCurrencyCode: req.FromCurrencyCode,
		ToCurrencyCode:   req.ToCurrencyCode,
		UsedOverrideRate: req.OverrideRate.IsPositive(),
	}
	if resp.FromCurrencyCode == "" {
		resp.FromCurrencyCode = req.ToCurrencyCode
	}
	if resp.ToCurrencyCode == "" {
		resp.ToCurrencyCode = req.FromCurrencyCode
	}
	c.JSON(http.StatusOK, resp)
}

func (h *convertHandler) renderCurrencyError(c *gin.Context, logger *slog.Logger, code string, err error) {
	if errors.Is(err, apperrors.ErrNotFound) {
		logger.Warn("Currency not found for conversion", slog.String("currency_code", code))
		c.JSON(http.StatusNotFound, gin.H{"error": "Currency not found: " + code})
		return
	}
	logger.Error("Failed to resolve currency", slog.String("currency_code", code), slog.String("error", err.Error()))
	c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to resolve currency"})
}
