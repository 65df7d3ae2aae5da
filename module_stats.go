package main

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"lg/life-dashboard-go-api/internal/activity"
	"lg/life-dashboard-go-api/internal/stats"
)

// getModuleStats returns today's progress, this month's completion and the
// current and longest streaks for one module over the last 100 days.
// GET /api/module-stats?module=food|gym|finance|water.
func (h *Handler) getModuleStats(c *gin.Context) {
	userID := c.GetInt("user_id")

	kind, err := activity.ParseKind(c.Query("module"))
	if err != nil {
		apiError(c, http.StatusBadRequest, "module must be one of: food, gym, finance, water")
		return
	}

	s, failed, err := h.app.ModuleStats(c.Request.Context(), userID, kind, h.now())
	if err != nil {
		apiError(c, http.StatusServiceUnavailable, "request cancelled")
		return
	}

	c.JSON(http.StatusOK, withDegraded(gin.H{
		"module":      c.Query("module"),
		"window_days": stats.WindowDays,
		"stats":       s,
	}, failed))
}
