// Package server assembles the HTTP routes.
package server

import (
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/orgs-directory/backend/config"
	"github.com/orgs-directory/backend/internal/activities"
	"github.com/orgs-directory/backend/internal/auth"
	"github.com/orgs-directory/backend/internal/buildings"
	"github.com/orgs-directory/backend/internal/metrics"
	"github.com/orgs-directory/backend/internal/middleware"
	"github.com/orgs-directory/backend/internal/organizations"
	"github.com/orgs-directory/backend/pkg/response"
)

// Handlers groups the endpoint handlers mounted under the API prefix.
type Handlers struct {
	Organizations *organizations.Handler
	Activities    *activities.Handler
	Buildings     *buildings.Handler
	Auth          *auth.Handler
}

// NewRouter builds the gin engine. limiter may be nil, which disables rate limiting.
func NewRouter(cfg *config.Config, h Handlers, tokens *auth.TokenService, limiter middleware.Counter, logger *zap.Logger) *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.CORS(cfg.Server.CORSAllowedOrigins))
	router.Use(middleware.Logger(logger))
	router.Use(metrics.Middleware())

	router.GET("/health", func(c *gin.Context) { response.OK(c, gin.H{"status": "ok"}) })
	router.GET("/metrics", metrics.Handler())

	api := router.Group(cfg.Server.APIPrefix)

	// Token minting needs the shared key itself, not a token.
	tokenGroup := api.Group("/auth", middleware.RequireAPIKey(cfg.Auth.APIKey))
	if limiter != nil && cfg.RateLimit.PerMinute > 0 {
		tokenGroup.Use(middleware.RateLimit(limiter, cfg.RateLimit.PerMinute, logger))
	}
	tokenGroup.POST("/token", h.Auth.Token)

	protected := api.Group("", middleware.Auth(cfg.Auth.APIKey, tokens))
	if limiter != nil && cfg.RateLimit.PerMinute > 0 {
		protected.Use(middleware.RateLimit(limiter, cfg.RateLimit.PerMinute, logger))
	}
	{
		protected.GET("/buildings", h.Buildings.List)

		protected.GET("/activities", h.Activities.List)
		protected.GET("/activities/tree", h.Activities.Tree)
		protected.GET("/activities/:id", h.Activities.GetByID)
		protected.GET("/activities/:id/descendants", h.Activities.Descendants)

		protected.GET("/organizations/search", h.Organizations.Search)
		protected.GET("/organizations/by-building/:id", h.Organizations.ByBuilding)
		protected.GET("/organizations/by-activity/:id", h.Organizations.ByActivity)
		protected.GET("/organizations/:id", h.Organizations.GetByID)
	}
	return router
}
