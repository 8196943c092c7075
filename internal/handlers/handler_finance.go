package handlers

import (
	"log/slog"
	"net/http"

	portssvc "github.com/SscSPs/tour_ledger/internal/core/ports/services"
	"github.com/SscSPs/tour_ledger/internal/dto"
	"github.com/SscSPs/tour_ledger/internal/middleware"
	"github.com/gin-gonic/gin"
)

type financeHandler struct {
	financeService      portssvc.FinanceSvcFacade
	exchangeRateService portssvc.ExchangeRateSvcFacade
}

func registerFinanceRoutes(rg *gin.RouterGroup, financeService portssvc.FinanceSvcFacade, exchangeRateService portssvc.ExchangeRateSvcFacade) {
	h := &financeHandler{financeService: financeService, exchangeRateService: exchangeRateService}

	finance := rg.Group("/finance")
	{
		finance.GET("/ledger", h.getLedger)
		finance.POST("/recurring-expenses", h.generateRecurringExpenses)
		finance.GET("/exchange-rate", h.getExchangeRate)
		finance.PUT("/exchange-rate", h.setExchangeRate)
	}
}

// getLedger godoc
// @Summary Get the reconciled finance ledger
// @Description One row per confirmation arriving in the range, with expected and actual amounts, plus holder balances.
// @Tags finance
// @Produce json
// @Param from query string false "Arrival from"
// @Param to query string false "Arrival to"
// @Success 200 {object} dto.LedgerResponse
// @Failure 400 {object} dto.ErrorResponse
// @Failure 403 {object} dto.ErrorResponse
// @Security BearerAuth
// @Router /finance/ledger [get]
func (h *financeHandler) getLedger(c *gin.Context) {
	actor, ok := actorOrAbort(c)
	if !ok {
		return
	}
	var params dto.LedgerParams
	if err := c.ShouldBindQuery(&params); err != nil {
		badRequest(c, "ledger query", err)
		return
	}

	resp, err := h.financeService.GetLedger(c.Request.Context(), actor, params)
	if err != nil {
		respondError(c, err, "Failed to build ledger")
		return
	}
	c.JSON(http.StatusOK, resp)
}

// generateRecurringExpenses godoc
// @Summary Generate the recurring expenses for an arrival range
// @Description Idempotent. Meals and driver fees already generated are left alone.
// @Tags finance
// @Produce json
// @Param from query string false "Arrival from"
// @Param to query string false "Arrival to"
// @Success 200 {object} dto.GenerateRecurringResponse
// @Failure 400 {object} dto.ErrorResponse
// @Failure 403 {object} dto.ErrorResponse
// @Security BearerAuth
// @Router /finance/recurring-expenses [post]
func (h *financeHandler) generateRecurringExpenses(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	actor, ok := actorOrAbort(c)
	if !ok {
		return
	}
	var req dto.GenerateRecurringRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		badRequest(c, "generation range", err)
		return
	}
	arrival, err := req.ToDateRange()
	if err != nil {
		badRequest(c, "generation range", err)
		return
	}

	resp, err := h.financeService.GenerateRecurringExpenses(c.Request.Context(), actor, arrival)
	if err != nil {
		respondError(c, err, "Failed to generate recurring expenses")
		return
	}
	logger.Info("Recurring expenses generated", slog.Int("planned", resp.Planned), slog.Int("inserted", resp.Inserted))
	c.JSON(http.StatusOK, resp)
}

// getExchangeRate godoc
// @Summary Get the current GEL/USD rate pair
// @Tags finance
// @Produce json
// @Success 200 {object} dto.ExchangeRateResponse
// @Security BearerAuth
// @Router /finance/exchange-rate [get]
func (h *financeHandler) getExchangeRate(c *gin.Context) {
	actor, ok := actorOrAbort(c)
	if !ok {
		return
	}
	resp, err := h.exchangeRateService.GetCurrentRate(c.Request.Context(), actor)
	if err != nil {
		respondError(c, err, "Failed to load exchange rate")
		return
	}
	c.JSON(http.StatusOK, resp)
}

// setExchangeRate godoc
// @Summary Store a new GEL/USD rate pair
// @Tags finance
// @Accept json
// @Produce json
// @Param rate body dto.SetExchangeRateRequest true "Rates"
// @Success 201 {object} dto.ExchangeRateResponse
// @Failure 400 {object} dto.ErrorResponse
// @Failure 403 {object} dto.ErrorResponse
// @Security BearerAuth
// @Router /finance/exchange-rate [put]
func (h *financeHandler) setExchangeRate(c *gin.Context) {
	actor, ok := actorOrAbort(c)
	if !ok {
		return
	}
	var req dto.SetExchangeRateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "exchange rate", err)
		return
	}
	resp, err := h.exchangeRateService.SetRate(c.Request.Context(), actor, req)
	if err != nil {
		respondError(c, err, "Failed to store exchange rate")
		return
	}
	c.JSON(http.StatusCreated, resp)
}
