package api

import (
	"net/http"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"propertydash/server/internal/observability"
)

// SetupRoutes wires the HTTP surface. CORS is deliberately permissive: the
// dashboard frontend is served from a different origin and every endpoint is
// read-only.
func SetupRoutes(router *gin.Engine, handler *Handler) {
	router.Use(cors.New(cors.Config{
		AllowAllOrigins: true,
		AllowMethods:    []string{"GET", "POST", "OPTIONS"},
		AllowHeaders: []string{
			"X-CSRF-Token", "X-Requested-With", "Accept", "Accept-Version",
			"Content-Length", "Content-MD5", "Content-Type", "Date", "X-Api-Version",
		},
		OptionsResponseStatusCode: http.StatusOK,
	}))

	router.GET("/search", handler.Search)
	router.GET("/realtime-search", handler.RealtimeSearch)
	router.GET("/geocode", handler.Geocode)
	router.GET("/registry-trades", handler.RegistryTrades)

	router.GET("/regions/provinces", handler.Provinces)
	router.GET("/regions/districts", handler.Districts)
	router.GET("/regions/dongs", handler.Dongs)

	router.GET("/export", handler.Export)
	router.GET("/metrics", gin.WrapH(observability.Handler()))
	router.GET("/health", handler.Health)
}
