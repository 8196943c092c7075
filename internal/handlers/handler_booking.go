package handlers

import (
	"log/slog"
	"net/http"

	portssvc "github.com/SscSPs/tour_ledger/internal/core/ports/services"
	"github.com/SscSPs/tour_ledger/internal/dto"
	"github.com/SscSPs/tour_ledger/internal/middleware"
	"github.com/gin-gonic/gin"
)

type bookingHandler struct {
	bookingService portssvc.BookingSvcFacade
}

func registerBookingRoutes(rg *gin.RouterGroup, bookingService portssvc.BookingSvcFacade) {
	h := &bookingHandler{bookingService: bookingService}

	rg.POST("/booking-requests", h.createBookingRequest)

	hotels := rg.Group("/saved-hotels")
	{
		hotels.GET("", h.listSavedHotels)
		hotels.POST("", h.saveHotel)
		hotels.DELETE("/:id", h.deleteSavedHotel)
	}
}

// createBookingRequest godoc
// @Summary Create a confirmation and request rooms from its hotels
// @Description If the e-mails cannot be queued the confirmation still exists and 502 is returned with it.
// @Tags booking
// @Accept json
// @Produce json
// @Param request body dto.CreateBookingRequest true "Booking request"
// @Success 201 {object} dto.BookingRequestResponse
// @Failure 400 {object} dto.ErrorResponse
// @Failure 409 {object} dto.ErrorResponse
// @Failure 502 {object} dto.ErrorResponse
// @Security BearerAuth
// @Router /booking-requests [post]
func (h *bookingHandler) createBookingRequest(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	actor, ok := actorOrAbort(c)
	if !ok {
		return
	}
	var req dto.CreateBookingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "booking request", err)
		return
	}

	resp, err := h.bookingService.CreateBookingRequest(c.Request.Context(), actor, req)
	if err != nil {
		if resp != nil {
			respondPartial(c, err, "Confirmation created but booking e-mails were not sent", resp)
			return
		}
		respondError(c, err, "Failed to create booking request")
		return
	}
	logger.Info("Booking request created",
		slog.String("confirmation_id", resp.Confirmation.ID),
		slog.Int("emails", len(resp.Emails)),
		slog.Int("missing_emails", len(resp.MissingEmails)))
	c.JSON(http.StatusCreated, resp)
}

// listSavedHotels godoc
// @Summary List saved hotel addresses
// @Tags booking
// @Produce json
// @Success 200 {array} domain.SavedHotel
// @Security BearerAuth
// @Router /saved-hotels [get]
func (h *bookingHandler) listSavedHotels(c *gin.Context) {
	actor, ok := actorOrAbort(c)
	if !ok {
		return
	}
	hotels, err := h.bookingService.ListSavedHotels(c.Request.Context(), actor)
	if err != nil {
		respondError(c, err, "Failed to list saved hotels")
		return
	}
	c.JSON(http.StatusOK, hotels)
}

// saveHotel godoc
// @Summary Save a hotel address
// @Tags booking
// @Accept json
// @Produce json
// @Param hotel body dto.SaveHotelRequest true "Hotel"
// @Success 200 {object} domain.SavedHotel
// @Failure 400 {object} dto.ErrorResponse
// @Security BearerAuth
// @Router /saved-hotels [post]
func (h *bookingHandler) saveHotel(c *gin.Context) {
	actor, ok := actorOrAbort(c)
	if !ok {
		return
	}
	var req dto.SaveHotelRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "hotel", err)
		return
	}
	hotel, err := h.bookingService.SaveHotel(c.Request.Context(), actor, req)
	if err != nil {
		respondError(c, err, "Failed to save hotel")
		return
	}
	c.JSON(http.StatusOK, hotel)
}

// deleteSavedHotel godoc
// @Summary Delete a saved hotel address
// @Tags booking
// @Param id path string true "Saved hotel ID"
// @Success 204
// @Failure 404 {object} dto.ErrorResponse
// @Security BearerAuth
// @Router /saved-hotels/{id} [delete]
func (h *bookingHandler) deleteSavedHotel(c *gin.Context) {
	actor, ok := actorOrAbort(c)
	if !ok {
		return
	}
	if err := h.bookingService.DeleteSavedHotel(c.Request.Context(), actor, c.Param("id")); err != nil {
		respondError(c, err, "Failed to delete saved hotel")
		return
	}
	c.Status(http.StatusNoContent)
}
