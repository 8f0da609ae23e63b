package controllers

import (
	"context"
	"fmt"
	"net/http"
	"runtime/debug"

	"library-api/config"
	"library-api/middleware"
	"library-api/models"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

// CacheHeader tells clients whether the statistics were served from cache.
const CacheHeader = "X-Cache"

// AdminStatsSource produces the admin statistics snapshot.
type AdminStatsSource interface {
	Snapshot(ctx context.Context) (*models.StatsSnapshot, bool, error)
}

// AdminStatsController serves GET /api/admin/stats.
type AdminStatsController struct {
	source AdminStatsSource
}

func NewAdminStatsController(source AdminStatsSource) *AdminStatsController {
	return &AdminStatsController{source: source}
}

// GetAdminStats returns catalog, subject, user and indexing statistics
func (ctrl *AdminStatsController) GetAdminStats(c *gin.Context) {
	stats, cached, err := ctrl.source.Snapshot(c.Request.Context())
	if err != nil {
		config.Log.WithFields(logrus.Fields{
			"message":    err.Error(),
			"stack":      string(debug.Stack()),
			"request_id": c.GetString(middleware.RequestIDKey),
		}).Error("Admin stats error")

		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error":   fmt.Sprintf("Failed to fetch admin statistics: %s", err.Error()),
		})
		return
	}

	if cached {
		c.Header(CacheHeader, "HIT")
	} else {
		c.Header(CacheHeader, "MISS")
	}
	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    stats,
	})
}
