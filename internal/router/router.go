package router

import (
	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/zap"

	_ "juridico/docs" // registers the OpenAPI document
	"juridico/internal/config"
	"juridico/internal/domain"
	"juridico/internal/handler"
	"juridico/internal/metrics"
	"juridico/internal/middleware"
	"juridico/internal/service"
)

// Setup configures the Gin engine with all routes and middleware.
func Setup(
	cfg *config.Config,
	log *zap.Logger,
	m *metrics.Registry,
	authSvc service.AuthService,
	authH *handler.AuthHandler,
	userH *handler.UserHandler,
	catalogH *handler.CatalogHandler,
	orderH *handler.OrderHandler,
	uploadH *handler.UploadHandler,
	salesH *handler.SalesHandler,
	healthH *handler.HealthHandler,
) *gin.Engine {
	r := gin.New()
	r.MaxMultipartMemory = cfg.Upload.MaxBytes() + 1<<20

	// Global middleware
	r.Use(middleware.Recovery(log))
	r.Use(middleware.RequestID())
	r.Use(middleware.Logger(log))
	r.Use(middleware.CORS(cfg.CORS.AllowedOrigins))
	r.Use(m.Middleware())

	// Health checks and operations
	r.GET("/healthz", healthH.Liveness)
	r.GET("/readyz", healthH.Readiness)
	r.GET("/metrics", gin.WrapH(m.Handler()))
	if cfg.Server.Environment != "production" {
		r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	v1 := r.Group("/api/v1")

	// Public auth routes
	auth := v1.Group("/auth")
	auth.POST("/login", authH.Login)
	auth.POST("/refresh", authH.RefreshToken)
	auth.POST("/register", authH.Register)

	// Service templates and document requirements
	catalog := v1.Group("/catalog")
	catalog.GET("/templates", catalogH.ListTemplates)
	catalog.GET("/templates/:id", catalogH.GetTemplate)
	catalog.GET("/resolve", catalogH.Resolve)
	catalog.POST("/requirements", catalogH.Requirements)

	// Storefront checkout; guests may order, signed-in customers get the order linked
	orders := v1.Group("/orders")
	orders.Use(middleware.OptionalAuth(authSvc))
	orders.POST("", orderH.Create)
	orders.GET("/:id", orderH.GetByID)
	orders.GET("/:id/progress", orderH.Progress)
	orders.POST("/:id/checkout", orderH.Checkout)
	orders.GET("/:id/documents", uploadH.List)
	orders.POST("/:id/items/:itemId/documents", uploadH.Upload)
	orders.DELETE("/:id/items/:itemId/documents", uploadH.Remove)

	// Protected routes - require valid JWT
	protected := v1.Group("")
	protected.Use(middleware.AuthMiddleware(authSvc))
	protected.GET("/users/me", userH.Me)
	protected.GET("/users/me/orders", orderH.ListMine)

	// Back office
	admin := v1.Group("/admin")
	admin.Use(middleware.AuthMiddleware(authSvc))
	admin.Use(middleware.RequireRole(domain.RoleAdmin))
	admin.POST("/users", userH.Create)
	admin.GET("/users/:id", userH.GetByID)
	admin.GET("/orders", orderH.List)
	admin.GET("/orders/:id", orderH.Details)
	admin.PUT("/orders/:id/status", orderH.UpdateStatus)
	admin.GET("/orders/:id/items/:itemId/documents/download", uploadH.Download)
	admin.GET("/sales", salesH.Summary)
	admin.GET("/sales/export/csv", salesH.ExportCSV)
	admin.GET("/sales/export/xlsx", salesH.ExportXLSX)

	return r
}
