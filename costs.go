package main

import (
	"log"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"lg/life-dashboard-go-api/internal/cost"
	"lg/life-dashboard-go-api/internal/dates"
)

// getCosts returns per-food cost and macro totals over a window of days.
// GET /api/costs?start=&end=&sort=&order=asc|desc. end defaults to today and
// start to the configured window before end; sort defaults to name.
// Foods without a cost entry have a null cost and sort last.
func (h *Handler) getCosts(c *gin.Context) {
	userID := c.GetInt("user_id")

	w, err := h.app.CostOptions.ResolveWindow(c.Query("start"), c.Query("end"), dates.Key(h.now()))
	if err != nil {
		apiError(c, http.StatusBadRequest, err.Error())
		return
	}
	column, err := cost.ParseColumn(c.DefaultQuery("sort", string(cost.ColumnName)))
	if err != nil {
		apiError(c, http.StatusBadRequest, err.Error())
		return
	}
	var descending bool
	switch strings.ToLower(c.DefaultQuery("order", "asc")) {
	case "asc":
	case "desc":
		descending = true
	default:
		apiError(c, http.StatusBadRequest, "order must be asc or desc")
		return
	}

	report, err := h.app.Costs(c.Request.Context(), userID, w, column, descending)
	if err != nil {
		log.Printf("[getCosts] user %d: %v", userID, err)
		apiError(c, http.StatusInternalServerError, "failed to compute costs")
		return
	}

	c.JSON(http.StatusOK, report)
}
