// Package router assembles the gin engine and registers every route.
package router

import (
	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/zap"

	"github.com/noah-isme/helpdesk-presence-api/internal/handler"
	"github.com/noah-isme/helpdesk-presence-api/internal/middleware"
	"github.com/noah-isme/helpdesk-presence-api/internal/models"
	"github.com/noah-isme/helpdesk-presence-api/internal/service"
	"github.com/noah-isme/helpdesk-presence-api/pkg/config"
	"github.com/noah-isme/helpdesk-presence-api/pkg/logger"
	corsmiddleware "github.com/noah-isme/helpdesk-presence-api/pkg/middleware/cors"
	reqidmiddleware "github.com/noah-isme/helpdesk-presence-api/pkg/middleware/requestid"
)

type tokenValidator interface {
	ValidateToken(tokenString string) (*models.JWTClaims, error)
}

// Config bundles the dependencies needed to register routes.
type Config struct {
	Env       string
	APIPrefix string
	CORS      config.CORSConfig
	Logger    *zap.Logger
	Metrics   *service.MetricsService
	Tokens    tokenValidator

	Presence      *handler.PresenceHandler
	Catalog       *handler.CatalogHandler
	Observability *handler.MetricsHandler
}

// New builds the engine with the shared middleware chain and all routes.
func New(cfg Config) *gin.Engine {
	if cfg.Logger == nil {
		cfg.Logger = zap.NewNop()
	}
	if cfg.APIPrefix == "" {
		cfg.APIPrefix = "/api/v1"
	}

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(reqidmiddleware.Middleware())
	r.Use(logger.GinMiddleware(cfg.Logger))
	r.Use(corsmiddleware.New(cfg.CORS))
	r.Use(middleware.Metrics(cfg.Metrics))

	r.GET("/health", cfg.Observability.Health)
	r.GET("/ready", cfg.Observability.Ready)
	r.GET("/metrics", cfg.Observability.Prometheus)
	if cfg.Env != config.EnvProduction {
		r.GET("/docs/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	api := r.Group(cfg.APIPrefix, middleware.JWT(cfg.Tokens))
	api.GET("/metrics/summary", middleware.RequireRoles(models.RoleAdmin, models.RoleSuperAdmin), cfg.Observability.Summary)

	presence := api.Group("/presence")
	presence.POST("/days", cfg.Presence.PlanDay)
	presence.GET("/days/:date", cfg.Presence.GetDay)
	presence.GET("/weeks/:startDate", cfg.Presence.GetWeek)
	presence.GET("/weeks/:startDate/export", cfg.Presence.ExportWeek)
	presence.GET("/current", cfg.Presence.Current)
	presence.DELETE("/segments/:id", cfg.Presence.DeleteSegment)
	presence.GET("/statuses", cfg.Presence.Statuses)
	presence.GET("/offices", cfg.Presence.Offices)

	admin := api.Group("/admin/presence", middleware.RequireRoles(models.RoleAdmin, models.RoleSuperAdmin))
	admin.GET("/statuses", cfg.Catalog.ListStatuses)
	admin.POST("/statuses", cfg.Catalog.CreateStatus)
	admin.PUT("/statuses/:id", cfg.Catalog.UpdateStatus)
	admin.PATCH("/statuses/:id/active", cfg.Catalog.SetStatusActive)
	admin.GET("/offices", cfg.Catalog.ListOffices)
	admin.POST("/offices", cfg.Catalog.CreateOffice)
	admin.PUT("/offices/:id", cfg.Catalog.UpdateOffice)
	admin.PATCH("/offices/:id/active", cfg.Catalog.SetOfficeActive)
	admin.POST("/registry/bust", cfg.Catalog.BustRegistry)

	return r
}
