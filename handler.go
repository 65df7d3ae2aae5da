package main

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"lg/life-dashboard-go-api/internal/app"
	"lg/life-dashboard-go-api/internal/dates"
	"lg/life-dashboard-go-api/internal/store"
)

// Handler holds shared dependencies (store, wired components, config) for all
// route handlers.
type Handler struct {
	app           *app.App
	db            store.Store
	openAIBaseURL string           // Base URL for OpenAI API (overridable for tests)
	now           func() time.Time // Clock (overridable for tests)
}

// newHandler builds a Handler over a.
func newHandler(a *app.App, openAIBaseURL string) *Handler {
	return &Handler{app: a, db: a.Store, openAIBaseURL: openAIBaseURL, now: time.Now}
}

/* ─── Request helpers ─────────────────────────────────────────────────── */

// apiError returns a consistent JSON error response: {"error": "message"}.
func apiError(c *gin.Context, status int, message string) {
	c.JSON(status, gin.H{"error": message})
}

// dateParam reads a YYYY-MM-DD path or query value and writes a 400 when it is
// malformed. An invalid value would otherwise silently match no documents.
func dateParam(c *gin.Context, name, value string) (string, bool) {
	if !dates.Valid(value) {
		apiError(c, http.StatusBadRequest, "invalid "+name+", expected YYYY-MM-DD")
		return "", false
	}
	return value, true
}

// storeError maps a store error to a response: 404 for ErrNotFound, 500
// with msg otherwise.
func storeError(c *gin.Context, err error, msg string) {
	if errors.Is(err, store.ErrNotFound) {
		apiError(c, http.StatusNotFound, "not found")
		return
	}
	apiError(c, http.StatusInternalServerError, msg)
}

// withDegraded adds the names of unavailable sources to a response body.
func withDegraded(body gin.H, failed []string) gin.H {
	if len(failed) > 0 {
		body["unavailable_sources"] = failed
	}
	return body
}

/* ─── Server setup ────────────────────────────────────────────────────── */

// registerRoutes registers all API routes on the router.
func (h *Handler) registerRoutes(router *gin.Engine) {
	// Public routes
	router.POST("/api/login", h.login)

	// Authenticated routes
	api := router.Group("/api", h.authMiddleware())
	api.GET("/calendar", h.getCalendar)
	api.GET("/calendar/day/:date", h.getCalendarDay)
	api.POST("/activities/toggle", h.toggleActivity)
	api.GET("/module-stats", h.getModuleStats)
	api.GET("/meal-plans/:date", h.getMealPlan)
	api.PUT("/meal-plans/:date", h.putMealPlan)
	api.GET("/scheduled-activities/:date", h.getScheduledActivities)
	api.PUT("/scheduled-activities/:date", h.putScheduledActivities)
	api.GET("/workouts", h.getWorkouts)
	api.POST("/workouts", h.createWorkout)
	api.PATCH("/workouts/:id/status", h.updateWorkoutStatus)
	api.DELETE("/workouts/:id", h.deleteWorkout)
	api.GET("/foods", h.getFoods)
	api.POST("/foods", h.upsertFood)
	api.DELETE("/foods/:id", h.deleteFood)
	api.POST("/foods/suggest", h.suggestFood)
	api.GET("/costs", h.getCosts)
	api.POST("/nutrition/validate-calories", h.validateCalories)
	api.GET("/settings", h.getSettings)
	api.PATCH("/settings", h.patchSettings)
}
