package main

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"lg/life-dashboard-go-api/internal/activity"
	"lg/life-dashboard-go-api/internal/models"
)

// getScheduledActivities returns the activity types planned for a date.
// GET /api/scheduled-activities/:date. A date with no document returns an
// empty task list.
func (h *Handler) getScheduledActivities(c *gin.Context) {
	userID := c.GetInt("user_id")
	date, ok := dateParam(c, "date", c.Param("date"))
	if !ok {
		return
	}

	docs, err := h.db.ListScheduledActivities(c, userID, date, date)
	if err != nil {
		apiError(c, http.StatusInternalServerError, "failed to fetch scheduled activities")
		return
	}
	doc := models.ScheduledActivities{UserID: userID, Date: date, Tasks: []string{}}
	if len(docs) > 0 {
		doc = docs[0]
	}

	c.JSON(http.StatusOK, doc)
}

// putScheduledActivities replaces the tasks planned for a date. Every task must
// parse as an activity type; tasks are stored in canonical form, deduplicated.
// PUT /api/scheduled-activities/:date.
func (h *Handler) putScheduledActivities(c *gin.Context) {
	userID := c.GetInt("user_id")
	date, ok := dateParam(c, "date", c.Param("date"))
	if !ok {
		return
	}

	var body putScheduledActivitiesRequest
	if err := c.ShouldBindJSON(&body); err != nil {
		apiError(c, http.StatusBadRequest, "invalid request body")
		return
	}

	tasks := make([]string, 0, len(body.Tasks))
	seen := map[string]bool{}
	for _, raw := range body.Tasks {
		t, err := activity.Parse(raw)
		if err != nil {
			apiError(c, http.StatusBadRequest, "unknown task "+strings.TrimSpace(raw))
			return
		}
		if key := t.String(); !seen[key] {
			seen[key] = true
			tasks = append(tasks, key)
		}
	}

	doc, err := h.db.SaveScheduledActivities(c, models.ScheduledActivities{UserID: userID, Date: date, Tasks: tasks})
	if err != nil {
		apiError(c, http.StatusInternalServerError, "failed to save scheduled activities")
		return
	}
	h.app.Aggregator.Invalidate()

	c.JSON(http.StatusOK, doc)
}
