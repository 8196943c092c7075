package handlers

import (
	"log/slog"
	"net/http"
	"time"

	portssvc "github.com/SscSPs/tour_ledger/internal/core/ports/services"
	"github.com/SscSPs/tour_ledger/internal/dto"
	"github.com/SscSPs/tour_ledger/internal/middleware"
	"github.com/gin-gonic/gin"
)

type importHandler struct {
	importService portssvc.ImportSvcFacade
}

func newImportHandler(importService portssvc.ImportSvcFacade) *importHandler {
	return &importHandler{importService: importService}
}

// registerImportTokenRoutes registers the import key management routes (JWT protected).
func registerImportTokenRoutes(rg *gin.RouterGroup, importService portssvc.ImportSvcFacade) {
	h := newImportHandler(importService)

	tokens := rg.Group("/import-tokens")
	{
		tokens.GET("", h.listTokens)
		tokens.POST("", h.createToken)
		tokens.DELETE("/:id", h.revokeToken)
	}
}

// registerImportRoutes registers the external import endpoint. It authenticates
// with x-api-key, not a user token.
func registerImportRoutes(rg *gin.RouterGroup, importService portssvc.ImportSvcFacade, guards ...gin.HandlerFunc) {
	h := newImportHandler(importService)

	imports := rg.Group("/import", guards...)
	imports.Use(middleware.ImportKeyAuth(importService))
	imports.POST("/confirmations", h.importConfirmations)
}

// createToken godoc
// @Summary Create an import key
// @Description The plaintext key is returned once and cannot be retrieved again.
// @Tags import
// @Accept json
// @Produce json
// @Param token body dto.CreateImportTokenRequest true "Key details"
// @Success 201 {object} dto.CreateImportTokenResponse
// @Failure 400 {object} dto.ErrorResponse
// @Failure 403 {object} dto.ErrorResponse
// @Security BearerAuth
// @Router /import-tokens [post]
func (h *importHandler) createToken(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	actor, ok := actorOrAbort(c)
	if !ok {
		return
	}
	var req dto.CreateImportTokenRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "import key", err)
		return
	}

	var expiresIn *time.Duration
	if req.ExpiresInDays != nil {
		d := time.Duration(*req.ExpiresInDays) * 24 * time.Hour
		expiresIn = &d
	}

	plain, token, err := h.importService.CreateToken(c.Request.Context(), actor, req.Name, expiresIn)
	if err != nil {
		respondError(c, err, "Failed to create import key")
		return
	}
	logger.Info("Import key created", slog.String("token_id", token.ID))
	c.JSON(http.StatusCreated, dto.CreateImportTokenResponse{Token: plain, Details: *token})
}

// listTokens godoc
// @Summary List active import keys
// @Tags import
// @Produce json
// @Success 200 {array} domain.ImportToken
// @Failure 403 {object} dto.ErrorResponse
// @Security BearerAuth
// @Router /import-tokens [get]
func (h *importHandler) listTokens(c *gin.Context) {
	actor, ok := actorOrAbort(c)
	if !ok {
		return
	}
	tokens, err := h.importService.ListTokens(c.Request.Context(), actor)
	if err != nil {
		respondError(c, err, "Failed to list import keys")
		return
	}
	c.JSON(http.StatusOK, tokens)
}

// revokeToken godoc
// @Summary Revoke an import key
// @Tags import
// @Param id path string true "Token ID"
// @Success 204
// @Failure 404 {object} dto.ErrorResponse
// @Security BearerAuth
// @Router /import-tokens/{id} [delete]
func (h *importHandler) revokeToken(c *gin.Context) {
	actor, ok := actorOrAbort(c)
	if !ok {
		return
	}
	if err := h.importService.RevokeToken(c.Request.Context(), actor, c.Param("id")); err != nil {
		respondError(c, err, "Failed to revoke import key")
		return
	}
	c.Status(http.StatusNoContent)
}

// importConfirmations godoc
// @Summary Import confirmations from an external system
// @Description Upserts by confirmation code. Invalid entries are reported and skipped.
// @Tags import
// @Accept json
// @Produce json
// @Param request body dto.ImportConfirmationsRequest true "Confirmations"
// @Success 200 {object} dto.ImportConfirmationsResponse
// @Failure 400 {object} dto.ErrorResponse
// @Failure 401 {object} dto.ErrorResponse
// @Security ApiKeyAuth
// @Router /import/confirmations [post]
func (h *importHandler) importConfirmations(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	token, ok := middleware.GetImportTokenFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}
	var req dto.ImportConfirmationsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "import", err)
		return
	}

	resp, err := h.importService.ImportConfirmations(c.Request.Context(), token, req)
	if err != nil {
		respondError(c, err, "Failed to import confirmations")
		return
	}
	logger.Info("Confirmations imported",
		slog.Int("created", resp.Created),
		slog.Int("updated", resp.Updated),
		slog.Int("rejected", len(resp.Rejected)))
	c.JSON(http.StatusOK, resp)
}
