package routes

import (
	"net/http"

	"library-api/controllers"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Handlers groups the controllers mounted by SetupRoutes.
type Handlers struct {
	AdminStats *controllers.AdminStatsController
}

func SetupRoutes(router *gin.Engine, h Handlers) {
	api := router.Group("/api")
	{
		// Health check
		api.GET("/health", func(c *gin.Context) {
			c.JSON(http.StatusOK, gin.H{
				"status":  "ok",
				"message": "Library API is running",
			})
		})

		// Admin. Route protection is handled in front of this service.
		admin := api.Group("/admin")
		{
			admin.GET("/stats", h.AdminStats.GetAdminStats)
		}
	}

	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	router.NoRoute(func(c *gin.Context) {
		c.JSON(http.StatusNotFound, gin.H{
			"success": false,
			"error":   "route not found",
		})
	})
}
