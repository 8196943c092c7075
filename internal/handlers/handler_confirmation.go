package handlers

import (
	"log/slog"
	"net/http"

	portssvc "github.com/SscSPs/tour_ledger/internal/core/ports/services"
	"github.com/SscSPs/tour_ledger/internal/dto"
	"github.com/SscSPs/tour_ledger/internal/middleware"
	"github.com/gin-gonic/gin"
)

// confirmationHandler handles HTTP requests related to confirmations.
type confirmationHandler struct {
	confirmationService portssvc.ConfirmationSvcFacade
}

func newConfirmationHandler(cs portssvc.ConfirmationSvcFacade) *confirmationHandler {
	return &confirmationHandler{confirmationService: cs}
}

// registerConfirmationRoutes registers routes related to confirmations.
func registerConfirmationRoutes(rg *gin.RouterGroup, confirmationService portssvc.ConfirmationSvcFacade) {
	h := newConfirmationHandler(confirmationService)

	confirmations := rg.Group("/confirmations")
	{
		confirmations.GET("", h.listConfirmations)
		confirmations.GET("/:id", h.getConfirmation)
		confirmations.PATCH("/:id/notes", h.updateNotes)
		confirmations.PUT("/:id/payload", h.updatePayload)
		confirmations.POST("/:id/client-paid", h.toggleClientPaid)
		confirmations.POST("/:id/hotels-paid", h.toggleHotelsPaid)
	}
}

// listConfirmations godoc
// @Summary List confirmations
// @Description Lists confirmations whose arrival falls in the range. Arrivals that cannot be parsed are excluded while a bound is set.
// @Tags confirmations
// @Produce json
// @Param from query string false "Arrival from (DD/MM/YYYY or YYYY-MM-DD)"
// @Param to query string false "Arrival to (DD/MM/YYYY or YYYY-MM-DD)"
// @Param search query string false "Code or client name substring"
// @Param limit query int false "Maximum rows" default(200)
// @Success 200 {array} domain.Confirmation
// @Failure 400 {object} dto.ErrorResponse
// @Failure 403 {object} dto.ErrorResponse
// @Security BearerAuth
// @Router /confirmations [get]
func (h *confirmationHandler) listConfirmations(c *gin.Context) {
	actor, ok := actorOrAbort(c)
	if !ok {
		return
	}
	var params dto.ListConfirmationsParams
	if err := c.ShouldBindQuery(&params); err != nil {
		badRequest(c, "confirmation list query", err)
		return
	}

	confirmations, err := h.confirmationService.ListConfirmations(c.Request.Context(), actor, params)
	if err != nil {
		respondError(c, err, "Failed to list confirmations")
		return
	}
	c.JSON(http.StatusOK, confirmations)
}

// getConfirmation godoc
// @Summary Get a confirmation
// @Tags confirmations
// @Produce json
// @Param id path string true "Confirmation ID"
// @Success 200 {object} domain.Confirmation
// @Failure 404 {object} dto.ErrorResponse
// @Security BearerAuth
// @Router /confirmations/{id} [get]
func (h *confirmationHandler) getConfirmation(c *gin.Context) {
	actor, ok := actorOrAbort(c)
	if !ok {
		return
	}
	confirmation, err := h.confirmationService.GetConfirmation(c.Request.Context(), actor, c.Param("id"))
	if err != nil {
		respondError(c, err, "Failed to retrieve confirmation")
		return
	}
	c.JSON(http.StatusOK, confirmation)
}

// updateNotes godoc
// @Summary Replace confirmation notes
// @Tags confirmations
// @Accept json
// @Produce json
// @Param id path string true "Confirmation ID"
// @Param notes body dto.UpdateNotesRequest true "Notes"
// @Success 200 {object} domain.Confirmation
// @Failure 400 {object} dto.ErrorResponse
// @Failure 403 {object} dto.ErrorResponse
// @Failure 404 {object} dto.ErrorResponse
// @Security BearerAuth
// @Router /confirmations/{id}/notes [patch]
func (h *confirmationHandler) updateNotes(c *gin.Context) {
	actor, ok := actorOrAbort(c)
	if !ok {
		return
	}
	var req dto.UpdateNotesRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "notes update", err)
		return
	}

	confirmation, err := h.confirmationService.UpdateNotes(c.Request.Context(), actor, c.Param("id"), req)
	if err != nil {
		respondError(c, err, "Failed to update notes")
		return
	}
	c.JSON(http.StatusOK, confirmation)
}

// updatePayload godoc
// @Summary Replace the itinerary payload
// @Tags confirmations
// @Accept json
// @Produce json
// @Param id path string true "Confirmation ID"
// @Param payload body dto.UpdatePayloadRequest true "Payload"
// @Success 200 {object} domain.Confirmation
// @Failure 400 {object} dto.ErrorResponse
// @Failure 403 {object} dto.ErrorResponse
// @Failure 404 {object} dto.ErrorResponse
// @Security BearerAuth
// @Router /confirmations/{id}/payload [put]
func (h *confirmationHandler) updatePayload(c *gin.Context) {
	actor, ok := actorOrAbort(c)
	if !ok {
		return
	}
	var req dto.UpdatePayloadRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "payload update", err)
		return
	}

	confirmation, err := h.confirmationService.UpdatePayload(c.Request.Context(), actor, c.Param("id"), req)
	if err != nil {
		respondError(c, err, "Failed to update payload")
		return
	}
	c.JSON(http.StatusOK, confirmation)
}

// toggleClientPaid godoc
// @Summary Set the client-paid flag
// @Description Keeps the linked tour payment income transaction in step with the flag.
// @Tags confirmations
// @Accept json
// @Produce json
// @Param id path string true "Confirmation ID"
// @Param body body dto.ToggleClientPaidRequest true "Flag"
// @Success 200 {object} dto.ClientPaidResponse
// @Failure 400 {object} dto.ErrorResponse
// @Failure 403 {object} dto.ErrorResponse
// @Failure 404 {object} dto.ErrorResponse
// @Security BearerAuth
// @Router /confirmations/{id}/client-paid [post]
func (h *confirmationHandler) toggleClientPaid(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	actor, ok := actorOrAbort(c)
	if !ok {
		return
	}
	var req dto.ToggleClientPaidRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "client paid toggle", err)
		return
	}

	resp, err := h.confirmationService.ToggleClientPaid(c.Request.Context(), actor, c.Param("id"), req)
	if err != nil {
		respondError(c, err, "Failed to update client payment")
		return
	}
	logger.Info("Client paid flag updated", slog.String("confirmation_id", resp.Confirmation.ID), slog.Bool("client_paid", resp.Confirmation.ClientPaid))
	c.JSON(http.StatusOK, resp)
}

// toggleHotelsPaid godoc
// @Summary Set the hotels-paid flag
// @Tags confirmations
// @Accept json
// @Produce json
// @Param id path string true "Confirmation ID"
// @Param body body dto.ToggleHotelsPaidRequest true "Flag"
// @Success 200 {object} domain.Confirmation
// @Failure 400 {object} dto.ErrorResponse
// @Failure 403 {object} dto.ErrorResponse
// @Failure 404 {object} dto.ErrorResponse
// @Security BearerAuth
// @Router /confirmations/{id}/hotels-paid [post]
func (h *confirmationHandler) toggleHotelsPaid(c *gin.Context) {
	actor, ok := actorOrAbort(c)
	if !ok {
		return
	}
	var req dto.ToggleHotelsPaidRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "hotels paid toggle", err)
		return
	}

	confirmation, err := h.confirmationService.ToggleHotelsPaid(c.Request.Context(), actor, c.Param("id"), req)
	if err != nil {
		respondError(c, err, "Failed to update hotels payment")
		return
	}
	c.JSON(http.StatusOK, confirmation)
}
