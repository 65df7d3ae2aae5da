package main

import (
	"errors"
	"fmt"
	"log"
	"math"
	"net/http"
	"sort"

	"github.com/gin-gonic/gin"

	"lg/life-dashboard-go-api/internal/activity"
	"lg/life-dashboard-go-api/internal/models"
	"lg/life-dashboard-go-api/internal/nutrition"
	"lg/life-dashboard-go-api/internal/store"
)

// getMealPlan returns a day's meal plan with macros recomputed from the
// current catalog and the calories left against the user's budget.
// GET /api/meal-plans/:date. A day without a plan returns exists=false and
// empty slots rather than 404.
func (h *Handler) getMealPlan(c *gin.Context) {
	userID := c.GetInt("user_id")
	date, ok := dateParam(c, "date", c.Param("date"))
	if !ok {
		return
	}

	plan, err := h.db.GetMealPlan(c, userID, date)
	exists := err == nil
	if err != nil && !errors.Is(err, store.ErrNotFound) {
		apiError(c, http.StatusInternalServerError, "failed to fetch meal plan")
		return
	}
	if !exists {
		plan = models.MealPlan{UserID: userID, Date: date}
	}

	summary, ok := h.summarizePlan(c, plan)
	if !ok {
		return
	}
	summary.Exists = exists
	c.JSON(http.StatusOK, summary)
}

// putMealPlan replaces a day's meal plan. Slot names must be clock times and
// are stored lowercased so each one toggles as "meal-<slot>". TotalMacros is
// recomputed from the catalog before saving. Negative or non-finite amounts
// are rejected.
// PUT /api/meal-plans/:date.
func (h *Handler) putMealPlan(c *gin.Context) {
	userID := c.GetInt("user_id")
	date, ok := dateParam(c, "date", c.Param("date"))
	if !ok {
		return
	}

	var body putMealPlanRequest
	if err := c.ShouldBindJSON(&body); err != nil {
		apiError(c, http.StatusBadRequest, "invalid request body")
		return
	}
	timeslots := make(map[string]models.Timeslot, len(body.Timeslots))
	for name, ts := range body.Timeslots {
		slot, err := activity.ParseSlot(name)
		if err != nil {
			apiError(c, http.StatusBadRequest, err.Error())
			return
		}
		if _, dup := timeslots[slot]; dup {
			apiError(c, http.StatusBadRequest, fmt.Sprintf("timeslot %q given more than once", slot))
			return
		}
		timeslots[slot] = ts
		for _, sf := range ts.SelectedFoods {
			if sf.Name == "" || nutrition.SanitizeAmount(sf.Amount) != sf.Amount {
				apiError(c, http.StatusBadRequest, "each selected food needs a name and a non-negative amount")
				return
			}
		}
	}

	foods, err := h.db.ListFoods(c, userID)
	if err != nil {
		apiError(c, http.StatusInternalServerError, "failed to fetch foods")
		return
	}
	plan := models.MealPlan{UserID: userID, Date: date, Timeslots: timeslots}
	plan.TotalMacros = nutrition.PlanTotals(plan, nutrition.NewCatalog(foods))

	saved, err := h.db.SaveMealPlan(c, plan)
	if err != nil {
		apiError(c, http.StatusInternalServerError, "failed to save meal plan")
		return
	}
	h.app.Aggregator.Invalidate()

	summary, ok := h.summarizePlan(c, saved)
	if !ok {
		return
	}
	summary.Exists = true
	c.JSON(http.StatusOK, summary)
}

// summarizePlan builds the meal plan response. Writes a 500 and returns false
// when the settings cannot be read.
func (h *Handler) summarizePlan(c *gin.Context, plan models.MealPlan) (mealPlanSummary, bool) {
	userID := c.GetInt("user_id")

	foods, err := h.db.ListFoods(c, userID)
	if err != nil {
		log.Printf("[summarizePlan] food catalog unavailable for user %d: %v", userID, err)
	}
	catalog := nutrition.NewCatalog(foods)

	settings, err := h.db.GetNutritionSettings(c, userID)
	if err != nil {
		apiError(c, http.StatusInternalServerError, "failed to fetch settings")
		return mealPlanSummary{}, false
	}

	names := make([]string, 0, len(plan.Timeslots))
	for slot := range plan.Timeslots {
		names = append(names, slot)
	}
	sort.Slice(names, func(i, j int) bool {
		mi, mj := activity.SlotMinutes(names[i]), activity.SlotMinutes(names[j])
		if mi != mj {
			return mi < mj
		}
		return names[i] < names[j]
	})

	summary := mealPlanSummary{Date: plan.Date, Slots: []slotSummary{}, CalorieBudget: settings.CalorieBudget}
	for _, name := range names {
		ts := plan.Timeslots[name]
		s := slotSummary{
			Slot:              name,
			SelectedFoods:     ts.SelectedFoods,
			ExternalNutrition: ts.ExternalNutrition,
			Totals:            nutrition.TimeslotTotals(ts, catalog),
		}
		if s.SelectedFoods == nil {
			s.SelectedFoods = []models.SelectedFood{}
		}
		for _, sf := range ts.SelectedFoods {
			if catalog.Lookup(sf.Name) == nil {
				s.MissingFoods = append(s.MissingFoods, sf.Name)
			}
		}
		summary.Totals = summary.Totals.Add(s.Totals)
		summary.Slots = append(summary.Slots, s)
	}

	// Left = budget minus what the plan adds up to.
	summary.CaloriesLeft = settings.CalorieBudget - int(math.Round(summary.Totals.Calories))
	summary.ProteinPct = nutrition.MacroPercentage(nutrition.Protein, summary.Totals.Protein, summary.Totals.Calories)
	summary.FatsPct = nutrition.MacroPercentage(nutrition.Fats, summary.Totals.Fats, summary.Totals.Calories)
	summary.CarbsPct = nutrition.MacroPercentage(nutrition.Carbs, summary.Totals.Carbs, summary.Totals.Calories)
	return summary, true
}
