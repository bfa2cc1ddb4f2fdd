package api

import (
	"github.com/concave-dev/ledger/internal/api/handlers"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Configures all API routes
func (s *Server) setupRoutes(router *gin.Engine) {
	router.NoRoute(handlers.HandleNotFound())

	// Prometheus scrape endpoint, unauthenticated
	router.GET("/metrics", gin.WrapH(promhttp.HandlerFor(s.gatherer, promhttp.HandlerOpts{})))

	// API version prefix
	v1 := router.Group("/api/v1")

	v1.GET("/health", s.getHandlerHealth())

	// Account endpoints require basic auth
	protected := v1.Group("", s.basicAuthMiddleware())
	{
		protected.GET("/balance", s.getHandlerBalance())
		protected.GET("/audit/stats", s.getHandlerAuditStats())
	}
}
