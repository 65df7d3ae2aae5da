package main

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
)

// getCalendar returns the 42-cell month grid with each day's reconciled state.
// GET /api/calendar?year=YYYY&month=M (defaults to the current month).
// Sources that could not be read are listed in unavailable_sources and the
// grid is built without them.
func (h *Handler) getCalendar(c *gin.Context) {
	userID := c.GetInt("user_id")
	now := h.now()

	year, month := now.Year(), int(now.Month())
	if v := c.Query("year"); v != "" {
		y, err := strconv.Atoi(v)
		if err != nil || y < 1 || y > 9999 {
			apiError(c, http.StatusBadRequest, "invalid year")
			return
		}
		year = y
	}
	if v := c.Query("month"); v != "" {
		m, err := strconv.Atoi(v)
		if err != nil || m < 1 || m > 12 {
			apiError(c, http.StatusBadRequest, "month must be between 1 and 12")
			return
		}
		month = m
	}

	days, failed, err := h.app.Month(c.Request.Context(), userID, year, time.Month(month), now)
	if err != nil {
		apiError(c, http.StatusServiceUnavailable, "request cancelled")
		return
	}

	c.JSON(http.StatusOK, calendarResponse{Year: year, Month: month, Days: days, Failed: failed})
}

// getCalendarDay returns the reconciled state of one date.
// GET /api/calendar/day/:date.
func (h *Handler) getCalendarDay(c *gin.Context) {
	userID := c.GetInt("user_id")
	date, ok := dateParam(c, "date", c.Param("date"))
	if !ok {
		return
	}

	day, failed, err := h.app.Day(c.Request.Context(), userID, date, h.now())
	if err != nil {
		apiError(c, http.StatusServiceUnavailable, "request cancelled")
		return
	}

	c.JSON(http.StatusOK, withDegraded(gin.H{"day": day}, failed))
}
