package handlers

import (
	"net/http"
	"strconv"

	portssvc "github.com/SscSPs/tour_ledger/internal/core/ports/services"
	"github.com/SscSPs/tour_ledger/internal/dto"
	"github.com/gin-gonic/gin"
)

type holderHandler struct {
	holderService portssvc.HolderSvcFacade
}

func registerHolderRoutes(rg *gin.RouterGroup, holderService portssvc.HolderSvcFacade) {
	h := &holderHandler{holderService: holderService}

	holders := rg.Group("/holders")
	{
		holders.GET("", h.listHolders)
		holders.GET("/balances", h.getBalances)
		holders.POST("", h.createHolder)
		holders.PATCH("/:id", h.updateHolder)
	}
}

// listHolders godoc
// @Summary List holders
// @Tags holders
// @Produce json
// @Param includeInactive query bool false "Include deactivated holders"
// @Success 200 {array} domain.Holder
// @Security BearerAuth
// @Router /holders [get]
func (h *holderHandler) listHolders(c *gin.Context) {
	actor, ok := actorOrAbort(c)
	if !ok {
		return
	}
	includeInactive := false
	if raw := c.Query("includeInactive"); raw != "" {
		v, err := strconv.ParseBool(raw)
		if err != nil {
			badRequest(c, "includeInactive", err)
			return
		}
		includeInactive = v
	}

	holders, err := h.holderService.ListHolders(c.Request.Context(), actor, includeInactive)
	if err != nil {
		respondError(c, err, "Failed to list holders")
		return
	}
	c.JSON(http.StatusOK, holders)
}

// getBalances godoc
// @Summary Get derived holder balances
// @Tags holders
// @Produce json
// @Success 200 {object} dto.HolderBalancesResponse
// @Failure 403 {object} dto.ErrorResponse
// @Security BearerAuth
// @Router /holders/balances [get]
func (h *holderHandler) getBalances(c *gin.Context) {
	actor, ok := actorOrAbort(c)
	if !ok {
		return
	}
	resp, err := h.holderService.GetHolderBalances(c.Request.Context(), actor)
	if err != nil {
		respondError(c, err, "Failed to compute balances")
		return
	}
	c.JSON(http.StatusOK, resp)
}

// createHolder godoc
// @Summary Create a holder
// @Tags holders
// @Accept json
// @Produce json
// @Param holder body dto.CreateHolderRequest true "Holder"
// @Success 201 {object} domain.Holder
// @Failure 400 {object} dto.ErrorResponse
// @Failure 403 {object} dto.ErrorResponse
// @Security BearerAuth
// @Router /holders [post]
func (h *holderHandler) createHolder(c *gin.Context) {
	actor, ok := actorOrAbort(c)
	if !ok {
		return
	}
	var req dto.CreateHolderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "holder", err)
		return
	}
	holder, err := h.holderService.CreateHolder(c.Request.Context(), actor, req)
	if err != nil {
		respondError(c, err, "Failed to create holder")
		return
	}
	c.JSON(http.StatusCreated, holder)
}

// updateHolder godoc
// @Summary Update a holder
// @Description Holders are deactivated rather than deleted.
// @Tags holders
// @Accept json
// @Produce json
// @Param id path string true "Holder ID"
// @Param holder body dto.UpdateHolderRequest true "Fields to change"
// @Success 200 {object} domain.Holder
// @Failure 400 {object} dto.ErrorResponse
// @Failure 404 {object} dto.ErrorResponse
// @Security BearerAuth
// @Router /holders/{id} [patch]
func (h *holderHandler) updateHolder(c *gin.Context) {
	actor, ok := actorOrAbort(c)
	if !ok {
		return
	}
	var req dto.UpdateHolderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "holder update", err)
		return
	}
	holder, err := h.holderService.UpdateHolder(c.Request.Context(), actor, c.Param("id"), req)
	if err != nil {
		respondError(c, err, "Failed to update holder")
		return
	}
	c.JSON(http.StatusOK, holder)
}
