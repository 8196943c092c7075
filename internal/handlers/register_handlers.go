package handlers

import (
	"net/http"

	"github.com/SscSPs/tour_ledger/cmd/docs"
	"github.com/SscSPs/tour_ledger/internal/core/domain"
	portssvc "github.com/SscSPs/tour_ledger/internal/core/ports/services"
	"github.com/SscSPs/tour_ledger/internal/middleware"
	"github.com/SscSPs/tour_ledger/internal/observability"
	"github.com/SscSPs/tour_ledger/internal/platform/config"
	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"github.com/ulule/limiter/v3"
)

// RegisterRoutes sets up all application routes, injecting dependencies using interfaces
func RegisterRoutes(
	r *gin.Engine,
	cfg *config.Config,
	services *portssvc.ServiceContainer,
	metrics *observability.Metrics,
	rateLimiter *limiter.Limiter,
) {
	// Add health check route
	r.GET("/health", func(c *gin.Context) {
		c.String(http.StatusOK, "OK")
	})
	r.GET("/metrics", gin.WrapH(metrics.Handler()))

	setupAPIV1Routes(r, cfg, services, rateLimiter)

	// Swagger routes (typically public or conditionally available)
	setupSwaggerRoutes(r, cfg)
}

// setupAPIV1Routes configures the /api/v1 group and delegates to specific entity route registrations
func setupAPIV1Routes(
	r *gin.Engine,
	cfg *config.Config,
	service *portssvc.ServiceContainer,
	rateLimiter *limiter.Limiter,
) {
	var guards []gin.HandlerFunc
	if rateLimiter != nil {
		guards = append(guards, middleware.RateLimit(rateLimiter))
	}

	// The import endpoint authenticates with an API key instead of a user token.
	registerImportRoutes(r.Group("/api/v1"), service.Import, guards...)

	// Every other route needs a user token and a back-office role.
	v1 := r.Group("/api/v1", guards...)
	v1.Use(
		middleware.AuthMiddleware(cfg.JWTSecret, cfg.JWTIssuer),
		middleware.RoleMiddleware(service.Profile),
	)

	registerProfileRoutes(v1, service.Profile)
	registerConfirmationRoutes(v1, service.Confirmation)
	registerAttachmentRoutes(v1, service.Attachment)
	registerBookingRoutes(v1, service.Booking)
	registerTransactionRoutes(v1, service.Transaction, service.Expense)
	registerHolderRoutes(v1, service.Holder)
	registerFinanceRoutes(v1, service.Finance, service.ExchangeRate)
	registerImportTokenRoutes(v1.Group("", middleware.RequirePermission(domain.PermManageImportTokens)), service.Import)
	registerExportRoutes(v1, service.Export, middleware.RequirePermission(domain.PermExport))
}

// setupSwaggerRoutes configures the swagger documentation routes
func setupSwaggerRoutes(r *gin.Engine, cfg *config.Config) {
	if cfg.IsProduction {
		//no swagger in prod
		return
	}
	docs.SwaggerInfo.BasePath = "/api/v1"
	swagger := r.Group("/swagger")
	swagger.GET("/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
}
