package handlers

import (
	"net/http"

	"github.com/SscSPs/tour_ledger/internal/core/domain"
	portssvc "github.com/SscSPs/tour_ledger/internal/core/ports/services"
	"github.com/gin-gonic/gin"
)

type profileHandler struct {
	profileService portssvc.ProfileSvcFacade
}

func registerProfileRoutes(rg *gin.RouterGroup, profileService portssvc.ProfileSvcFacade) {
	h := &profileHandler{profileService: profileService}

	me := rg.Group("/me")
	{
		me.GET("", h.getProfile)
		me.GET("/calendar-prefs", h.getCalendarPrefs)
		me.PUT("/calendar-prefs", h.saveCalendarPrefs)
	}
}

// getProfile godoc
// @Summary Get the caller's profile and effective permissions
// @Tags profile
// @Produce json
// @Success 200 {object} dto.ProfileResponse
// @Security BearerAuth
// @Router /me [get]
func (h *profileHandler) getProfile(c *gin.Context) {
	actor, ok := actorOrAbort(c)
	if !ok {
		return
	}
	resp, err := h.profileService.GetProfile(c.Request.Context(), actor)
	if err != nil {
		respondError(c, err, "Failed to load profile")
		return
	}
	c.JSON(http.StatusOK, resp)
}

// getCalendarPrefs godoc
// @Summary Get calendar preferences
// @Tags profile
// @Produce json
// @Success 200 {object} domain.CalendarPrefs
// @Security BearerAuth
// @Router /me/calendar-prefs [get]
func (h *profileHandler) getCalendarPrefs(c *gin.Context) {
	actor, ok := actorOrAbort(c)
	if !ok {
		return
	}
	prefs, err := h.profileService.GetCalendarPrefs(c.Request.Context(), actor)
	if err != nil {
		respondError(c, err, "Failed to load calendar preferences")
		return
	}
	c.JSON(http.StatusOK, prefs)
}

// saveCalendarPrefs godoc
// @Summary Save calendar preferences
// @Tags profile
// @Accept json
// @Produce json
// @Param prefs body domain.CalendarPrefs true "Preferences"
// @Success 200 {object} domain.CalendarPrefs
// @Failure 400 {object} dto.ErrorResponse
// @Security BearerAuth
// @Router /me/calendar-prefs [put]
func (h *profileHandler) saveCalendarPrefs(c *gin.Context) {
	actor, ok := actorOrAbort(c)
	if !ok {
		return
	}
	var prefs domain.CalendarPrefs
	if err := c.ShouldBindJSON(&prefs); err != nil {
		badRequest(c, "calendar preferences", err)
		return
	}
	saved, err := h.profileService.SaveCalendarPrefs(c.Request.Context(), actor, prefs)
	if err != nil {
		respondError(c, err, "Failed to save calendar preferences")
		return
	}
	c.JSON(http.StatusOK, saved)
}
