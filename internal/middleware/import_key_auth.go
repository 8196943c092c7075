package middleware

import (
	"log/slog"
	"net/http"

	portssvc "github.com/SscSPs/tour_ledger/internal/core/ports/services"
	"github.com/gin-gonic/gin"
)

// ImportKeyAuth authenticates external import calls with an x-api-key header.
func ImportKeyAuth(importSvc portssvc.ImportTokenSvc) gin.HandlerFunc {
	return func(c *gin.Context) {
		key := c.GetHeader(importAPIKeyHeader)
		if key == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "x-api-key header required"})
			return
		}

		token, err := importSvc.ValidateKey(c.Request.Context(), key)
		if err != nil {
			GetLoggerFromCtx(c.Request.Context()).Warn("Import key rejected", slog.String("error", err.Error()))
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Invalid API key"})
			return
		}

		withValue(c, importTokenKey, *token)
		withValue(c, loggerCtxKey, GetLoggerFromCtx(c.Request.Context()).With(slog.String("import_token_id", token.ID)))
		c.Next()
	}
}
