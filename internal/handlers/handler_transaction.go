package handlers

import (
	"log/slog"
	"net/http"

	portssvc "github.com/SscSPs/tour_ledger/internal/core/ports/services"
	"github.com/SscSPs/tour_ledger/internal/dto"
	"github.com/SscSPs/tour_ledger/internal/middleware"
	"github.com/gin-gonic/gin"
)

// transactionHandler handles HTTP requests for ledger transactions and expenses.
type transactionHandler struct {
	transactionService portssvc.TransactionSvcFacade
	expenseService     portssvc.ExpenseSvcFacade
}

func registerTransactionRoutes(rg *gin.RouterGroup, transactionService portssvc.TransactionSvcFacade, expenseService portssvc.ExpenseSvcFacade) {
	h := &transactionHandler{transactionService: transactionService, expenseService: expenseService}

	transactions := rg.Group("/transactions")
	{
		transactions.GET("", h.listTransactions)
		transactions.POST("", h.createTransaction)
		transactions.GET("/:id", h.getTransaction)
		transactions.POST("/:id/confirm", h.confirmTransaction)
		transactions.POST("/:id/unconfirm", h.unconfirmTransaction)
		transactions.DELETE("/:id", h.deleteTransaction)
	}

	expenses := rg.Group("/expenses")
	{
		expenses.GET("", h.listExpenses)
		expenses.POST("", h.createExpense)
		expenses.DELETE("/:id", h.deleteExpense)
	}
}

// listTransactions godoc
// @Summary List ledger transactions
// @Description Newest first, paginated with an opaque nextToken.
// @Tags transactions
// @Produce json
// @Param from query string false "Date from"
// @Param to query string false "Date to"
// @Param confirmationId query string false "Linked confirmation"
// @Param holderId query string false "Holder on either side"
// @Param kind query string false "in, out, transfer or exchange"
// @Param status query string false "pending or confirmed"
// @Param category query string false "Category"
// @Param limit query int false "Page size" default(50)
// @Param nextToken query string false "Token from the previous page"
// @Success 200 {object} dto.ListTransactionsResponse
// @Failure 400 {object} dto.ErrorResponse
// @Failure 403 {object} dto.ErrorResponse
// @Security BearerAuth
// @Router /transactions [get]
func (h *transactionHandler) listTransactions(c *gin.Context) {
	actor, ok := actorOrAbort(c)
	if !ok {
		return
	}
	var params dto.ListTransactionsParams
	if err := c.ShouldBindQuery(&params); err != nil {
		badRequest(c, "transaction list query", err)
		return
	}

	resp, err := h.transactionService.ListTransactions(c.Request.Context(), actor, params)
	if err != nil {
		respondError(c, err, "Failed to list transactions")
		return
	}
	c.JSON(http.StatusOK, resp)
}

// createTransaction godoc
// @Summary Record a transaction
// @Tags transactions
// @Accept json
// @Produce json
// @Param transaction body dto.CreateTransactionRequest true "Transaction"
// @Success 201 {object} domain.Transaction
// @Failure 400 {object} dto.ErrorResponse
// @Failure 403 {object} dto.ErrorResponse
// @Security BearerAuth
// @Router /transactions [post]
func (h *transactionHandler) createTransaction(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	actor, ok := actorOrAbort(c)
	if !ok {
		return
	}
	var req dto.CreateTransactionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "transaction", err)
		return
	}

	txn, err := h.transactionService.CreateTransaction(c.Request.Context(), actor, req)
	if err != nil {
		respondError(c, err, "Failed to create transaction")
		return
	}
	logger.Info("Transaction created", slog.String("transaction_id", txn.ID), slog.String("kind", string(txn.Kind)))
	c.JSON(http.StatusCreated, txn)
}

// getTransaction godoc
// @Summary Get a transaction
// @Tags transactions
// @Produce json
// @Param id path string true "Transaction ID"
// @Success 200 {object} domain.Transaction
// @Failure 404 {object} dto.ErrorResponse
// @Security BearerAuth
// @Router /transactions/{id} [get]
func (h *transactionHandler) getTransaction(c *gin.Context) {
	actor, ok := actorOrAbort(c)
	if !ok {
		return
	}
	txn, err := h.transactionService.GetTransaction(c.Request.Context(), actor, c.Param("id"))
	if err != nil {
		respondError(c, err, "Failed to retrieve transaction")
		return
	}
	c.JSON(http.StatusOK, txn)
}

// confirmTransaction godoc
// @Summary Confirm a pending transaction
// @Tags transactions
// @Accept json
// @Produce json
// @Param id path string true "Transaction ID"
// @Param body body dto.ConfirmTransactionRequest false "Responsible holder"
// @Success 200 {object} domain.Transaction
// @Failure 404 {object} dto.ErrorResponse
// @Security BearerAuth
// @Router /transactions/{id}/confirm [post]
func (h *transactionHandler) confirmTransaction(c *gin.Context) {
	actor, ok := actorOrAbort(c)
	if !ok {
		return
	}
	var req dto.ConfirmTransactionRequest
	// The body is optional.
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			badRequest(c, "confirm request", err)
			return
		}
	}

	txn, err := h.transactionService.ConfirmTransaction(c.Request.Context(), actor, c.Param("id"), req)
	if err != nil {
		respondError(c, err, "Failed to confirm transaction")
		return
	}
	c.JSON(http.StatusOK, txn)
}

// unconfirmTransaction godoc
// @Summary Move a transaction back to pending
// @Tags transactions
// @Produce json
// @Param id path string true "Transaction ID"
// @Success 200 {object} domain.Transaction
// @Failure 404 {object} dto.ErrorResponse
// @Security BearerAuth
// @Router /transactions/{id}/unconfirm [post]
func (h *transactionHandler) unconfirmTransaction(c *gin.Context) {
	actor, ok := actorOrAbort(c)
	if !ok {
		return
	}
	txn, err := h.transactionService.UnconfirmTransaction(c.Request.Context(), actor, c.Param("id"))
	if err != nil {
		respondError(c, err, "Failed to unconfirm transaction")
		return
	}
	c.JSON(http.StatusOK, txn)
}

// deleteTransaction godoc
// @Summary Delete a manual transaction
// @Description Auto-generated transactions cannot be deleted.
// @Tags transactions
// @Param id path string true "Transaction ID"
// @Success 204
// @Failure 404 {object} dto.ErrorResponse
// @Failure 409 {object} dto.ErrorResponse
// @Security BearerAuth
// @Router /transactions/{id} [delete]
func (h *transactionHandler) deleteTransaction(c *gin.Context) {
	actor, ok := actorOrAbort(c)
	if !ok {
		return
	}
	if err := h.transactionService.DeleteTransaction(c.Request.Context(), actor, c.Param("id")); err != nil {
		respondError(c, err, "Failed to delete transaction")
		return
	}
	c.Status(http.StatusNoContent)
}

// listExpenses godoc
// @Summary List expenses
// @Tags expenses
// @Produce json
// @Param confirmationId query string false "Linked confirmation"
// @Success 200 {array} domain.Expense
// @Security BearerAuth
// @Router /expenses [get]
func (h *transactionHandler) listExpenses(c *gin.Context) {
	actor, ok := actorOrAbort(c)
	if !ok {
		return
	}
	var params dto.ListExpensesParams
	if err := c.ShouldBindQuery(&params); err != nil {
		badRequest(c, "expense list query", err)
		return
	}
	expenses, err := h.expenseService.ListExpenses(c.Request.Context(), actor, params)
	if err != nil {
		respondError(c, err, "Failed to list expenses")
		return
	}
	c.JSON(http.StatusOK, expenses)
}

// createExpense godoc
// @Summary Record an expense
// @Tags expenses
// @Accept json
// @Produce json
// @Param expense body dto.CreateExpenseRequest true "Expense"
// @Success 201 {object} domain.Expense
// @Failure 400 {object} dto.ErrorResponse
// @Security BearerAuth
// @Router /expenses [post]
func (h *transactionHandler) createExpense(c *gin.Context) {
	actor, ok := actorOrAbort(c)
	if !ok {
		return
	}
	var req dto.CreateExpenseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "expense", err)
		return
	}
	expense, err := h.expenseService.CreateExpense(c.Request.Context(), actor, req)
	if err != nil {
		respondError(c, err, "Failed to create expense")
		return
	}
	c.JSON(http.StatusCreated, expense)
}

// deleteExpense godoc
// @Summary Delete a manual expense
// @Tags expenses
// @Param id path string true "Expense ID"
// @Success 204
// @Failure 409 {object} dto.ErrorResponse "Expense derived from an attachment"
// @Security BearerAuth
// @Router /expenses/{id} [delete]
func (h *transactionHandler) deleteExpense(c *gin.Context) {
	actor, ok := actorOrAbort(c)
	if !ok {
		return
	}
	if err := h.expenseService.DeleteExpense(c.Request.Context(), actor, c.Param("id")); err != nil {
		respondError(c, err, "Failed to delete expense")
		return
	}
	c.Status(http.StatusNoContent)
}
