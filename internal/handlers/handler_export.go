package handlers

import (
	"fmt"
	"log/slog"
	"time"

	portssvc "github.com/SscSPs/tour_ledger/internal/core/ports/services"
	"github.com/SscSPs/tour_ledger/internal/dto"
	"github.com/SscSPs/tour_ledger/internal/middleware"
	"github.com/gin-gonic/gin"
)

type exportHandler struct {
	exportService portssvc.ExportSvc
}

func registerExportRoutes(rg *gin.RouterGroup, exportService portssvc.ExportSvc, guards ...gin.HandlerFunc) {
	h := &exportHandler{exportService: exportService}

	export := rg.Group("/export", guards...)
	{
		export.GET("/transactions.csv", h.exportTransactions)
		export.GET("/confirmations.csv", h.exportConfirmations)
	}
}

func setCSVHeaders(c *gin.Context, name string) {
	c.Header("Content-Type", "text/csv; charset=utf-8")
	c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="%s-%s.csv"`, name, time.Now().UTC().Format("20060102")))
}

// exportTransactions godoc
// @Summary Download transactions as CSV
// @Tags export
// @Produce text/csv
// @Param from query string false "Date from"
// @Param to query string false "Date to"
// @Param holderId query string false "Holder"
// @Param kind query string false "Kind"
// @Success 200 {file} file
// @Failure 403 {object} dto.ErrorResponse
// @Security BearerAuth
// @Router /export/transactions.csv [get]
func (h *exportHandler) exportTransactions(c *gin.Context) {
	actor, ok := actorOrAbort(c)
	if !ok {
		return
	}
	var params dto.ListTransactionsParams
	if err := c.ShouldBindQuery(&params); err != nil {
		badRequest(c, "export query", err)
		return
	}

	// Headers only go out with the first byte, so a failure before any row still gets a JSON error.
	setCSVHeaders(c, "transactions")
	if err := h.exportService.ExportTransactionsCSV(c.Request.Context(), actor, params, c.Writer); err != nil {
		h.fail(c, err)
	}
}

// exportConfirmations godoc
// @Summary Download the reconciled ledger rows as CSV
// @Tags export
// @Produce text/csv
// @Param from query string false "Arrival from"
// @Param to query string false "Arrival to"
// @Success 200 {file} file
// @Failure 403 {object} dto.ErrorResponse
// @Security BearerAuth
// @Router /export/confirmations.csv [get]
func (h *exportHandler) exportConfirmations(c *gin.Context) {
	actor, ok := actorOrAbort(c)
	if !ok {
		return
	}
	var params dto.LedgerParams
	if err := c.ShouldBindQuery(&params); err != nil {
		badRequest(c, "export query", err)
		return
	}

	setCSVHeaders(c, "confirmations")
	if err := h.exportService.ExportConfirmationsCSV(c.Request.Context(), actor, params, c.Writer); err != nil {
		h.fail(c, err)
	}
}

func (h *exportHandler) fail(c *gin.Context, err error) {
	if c.Writer.Written() {
		// Body already streaming; all that is left is to log it.
		middleware.GetLoggerFromCtx(c.Request.Context()).Error("CSV export aborted", slog.String("error", err.Error()))
		return
	}
	c.Header("Content-Type", "")
	c.Header("Content-Disposition", "")
	respondError(c, err, "Failed to export")
}
