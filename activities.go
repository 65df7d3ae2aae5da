package main

import (
	"errors"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"lg/life-dashboard-go-api/internal/activity"
)

// toggleActivity marks an activity completed or pending for a date.
// POST /api/activities/toggle. Body: { "date", "activity", "completed" }.
// The in-memory state is updated before the write. When the write fails the
// response is 502 and the optimistic state stays until the next calendar
// read replaces it with the stored history. A saved toggle whose placeholder
// plan could not be created is still 200, with a warning.
func (h *Handler) toggleActivity(c *gin.Context) {
	userID := c.GetInt("user_id")

	var body toggleRequest
	if err := c.ShouldBindJSON(&body); err != nil {
		apiError(c, http.StatusBadRequest, "invalid request body")
		return
	}
	date, ok := dateParam(c, "date", body.Date)
	if !ok {
		return
	}
	if body.Completed == nil {
		apiError(c, http.StatusBadRequest, "completed is required")
		return
	}
	t, err := activity.Parse(body.Activity)
	if err != nil {
		apiError(c, http.StatusBadRequest, err.Error())
		return
	}

	resp := gin.H{
		"date":         date,
		"activityType": t.String(),
		"completed":    *body.Completed,
	}
	if err := h.app.Toggle(c.Request.Context(), userID, date, t, *body.Completed); err != nil {
		log.Printf("[toggleActivity] user %d: %v", userID, err)
		if !errors.Is(err, activity.ErrPlaceholderPlan) {
			apiError(c, http.StatusBadGateway, "failed to save activity")
			return
		}
		resp["warning"] = "activity saved, but the placeholder meal plan could not be created"
	}

	c.JSON(http.StatusOK, resp)
}
