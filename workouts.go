package main

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"lg/life-dashboard-go-api/internal/models"
)

// getWorkouts returns scheduled workouts for the authenticated user within [start, end].
// GET /api/workouts?start=YYYY-MM-DD&end=YYYY-MM-DD. Both params required.
// Returns an empty array (not null) if no workouts exist in the range.
func (h *Handler) getWorkouts(c *gin.Context) {
	userID := c.GetInt("user_id")
	start := c.Query("start")
	end := c.Query("end")

	if start == "" || end == "" {
		apiError(c, http.StatusBadRequest, "start and end query params are required")
		return
	}
	if _, ok := dateParam(c, "start", start); !ok {
		return
	}
	if _, ok := dateParam(c, "end", end); !ok {
		return
	}
	if start > end {
		apiError(c, http.StatusBadRequest, "start must not be after end")
		return
	}

	workouts, err := h.db.ListScheduledWorkouts(c, userID, start, end)
	if err != nil {
		apiError(c, http.StatusInternalServerError, "failed to fetch workouts")
		return
	}
	if workouts == nil {
		workouts = []models.ScheduledWorkout{}
	}

	c.JSON(http.StatusOK, workouts)
}

// createWorkout schedules a workout on a date.
// POST /api/workouts. Body: { "scheduledDate", "name", "workoutType"?, "exercises"?, ... }.
func (h *Handler) createWorkout(c *gin.Context) {
	userID := c.GetInt("user_id")

	var body createWorkoutRequest
	if err := c.ShouldBindJSON(&body); err != nil {
		apiError(c, http.StatusBadRequest, "invalid request body")
		return
	}
	if _, ok := dateParam(c, "scheduledDate", body.ScheduledDate); !ok {
		return
	}
	if strings.TrimSpace(body.Name) == "" {
		apiError(c, http.StatusBadRequest, "name is required")
		return
	}
	if body.EstimatedDuration < 0 {
		apiError(c, http.StatusBadRequest, "estimatedDuration must not be negative")
		return
	}

	w, err := h.db.CreateScheduledWorkout(c, models.ScheduledWorkout{
		UserID:            userID,
		ScheduledDate:     body.ScheduledDate,
		Name:              strings.TrimSpace(body.Name),
		WorkoutType:       body.WorkoutType,
		Exercises:         body.Exercises,
		Status:            models.WorkoutScheduled,
		EstimatedDuration: body.EstimatedDuration,
		Notes:             body.Notes,
	})
	if err != nil {
		apiError(c, http.StatusInternalServerError, "failed to create workout")
		return
	}
	h.app.Aggregator.Invalidate()

	c.JSON(http.StatusCreated, w)
}

// updateWorkoutStatus sets a workout to scheduled, completed or skipped.
// PATCH /api/workouts/:id/status. Body: { "status" }.
func (h *Handler) updateWorkoutStatus(c *gin.Context) {
	userID := c.GetInt("user_id")
	id := c.Param("id")

	var body workoutStatusRequest
	if err := c.ShouldBindJSON(&body); err != nil {
		apiError(c, http.StatusBadRequest, "invalid request body")
		return
	}
	if !models.ValidWorkoutStatus(body.Status) {
		apiError(c, http.StatusBadRequest, "status must be one of: scheduled, completed, skipped")
		return
	}

	w, err := h.db.UpdateWorkoutStatus(c, userID, id, body.Status)
	if err != nil {
		storeError(c, err, "failed to update workout")
		return
	}
	h.app.Aggregator.Invalidate()

	c.JSON(http.StatusOK, w)
}

// deleteWorkout removes a scheduled workout. Returns 204 on success, 404 if
// the workout doesn't exist or belongs to another user.
// DELETE /api/workouts/:id.
func (h *Handler) deleteWorkout(c *gin.Context) {
	userID := c.GetInt("user_id")

	if err := h.db.DeleteScheduledWorkout(c, userID, c.Param("id")); err != nil {
		storeError(c, err, "failed to delete workout")
		return
	}
	h.app.Aggregator.Invalidate()

	c.Status(http.StatusNoContent)
}
