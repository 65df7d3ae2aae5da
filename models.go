package main

import (
	"lg/life-dashboard-go-api/internal/calendar"
	"lg/life-dashboard-go-api/internal/models"
	"lg/life-dashboard-go-api/internal/nutrition"
)

/* ─── Request bodies ─────────────────────────────────────────────────── */

// loginRequest is the request body for POST /api/login.
type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// toggleRequest is the request body for POST /api/activities/toggle.
// Activity accepts the canonical form ("meal-6pm", "gym-workout") and the
// legacy aliases ("6pm", "gym").
type toggleRequest struct {
	Date      string `json:"date"`
	Activity  string `json:"activity"`
	Completed *bool  `json:"completed"`
}

// putMealPlanRequest is the request body for PUT /api/meal-plans/:date.
// TotalMacros is recomputed server-side from the catalog.
type putMealPlanRequest struct {
	Timeslots map[string]models.Timeslot `json:"timeslots"`
}

// putScheduledActivitiesRequest is the request body for
// PUT /api/scheduled-activities/:date.
type putScheduledActivitiesRequest struct {
	Tasks []string `json:"tasks"`
}

// createWorkoutRequest is the request body for POST /api/workouts.
type createWorkoutRequest struct {
	ScheduledDate     string            `json:"scheduledDate"`
	Name              string            `json:"name"`
	WorkoutType       string            `json:"workoutType"`
	Exercises         []models.Exercise `json:"exercises"`
	EstimatedDuration int               `json:"estimatedDuration"`
	Notes             string            `json:"notes"`
}

// workoutStatusRequest is the request body for PATCH /api/workouts/:id/status.
type workoutStatusRequest struct {
	Status models.WorkoutStatus `json:"status"`
}

// upsertFoodRequest is the request body for POST /api/foods. Nutrition is per
// 100 g, or per item when isUnitFood is set.
type upsertFoodRequest struct {
	Name       string             `json:"name"`
	Nutrition  models.MacroTotals `json:"nutrition"`
	IsUnitFood bool               `json:"isUnitFood"`
	Cost       *models.FoodCost   `json:"cost"`
}

// validateCaloriesRequest is the request body for
// POST /api/nutrition/validate-calories.
type validateCaloriesRequest struct {
	Calories float64 `json:"calories"`
	Protein  float64 `json:"protein"`
	Fats     float64 `json:"fats"`
	Carbs    float64 `json:"carbs"`
}

// patchSettingsRequest is the request body for PATCH /api/settings.
// All fields are pointers: only non-nil fields are applied.
type patchSettingsRequest struct {
	CalorieBudget  *int     `json:"calorie_budget"`
	ProteinTargetG *int     `json:"protein_target_g"`
	CarbsTargetG   *int     `json:"carbs_target_g"`
	FatTargetG     *int     `json:"fat_target_g"`
	Sex            *string  `json:"sex"`
	DateOfBirth    *string  `json:"date_of_birth"` // YYYY-MM-DD
	HeightCM       *float64 `json:"height_cm"`
	WeightKG       *float64 `json:"weight_kg"`
	ActivityLevel  *string  `json:"activity_level"`
	TargetWeightKG *float64 `json:"target_weight_kg"`
	TargetDate     *string  `json:"target_date"` // YYYY-MM-DD
	BudgetAuto     *bool    `json:"budget_auto"`
	SetupComplete  *bool    `json:"setup_complete"`
}

/* ─── Responses ──────────────────────────────────────────────────────── */

// slotSummary is one timeslot of the GET /api/meal-plans/:date response.
type slotSummary struct {
	Slot              string                `json:"slot"`
	SelectedFoods     []models.SelectedFood `json:"selectedFoods"`
	ExternalNutrition models.MacroTotals    `json:"externalNutrition"`
	Totals            models.MacroTotals    `json:"totals"`
	MissingFoods      []string              `json:"missingFoods,omitempty"`
}

// mealPlanSummary is the response shape for GET/PUT /api/meal-plans/:date.
// Macros are recomputed from the current catalog, so deleted foods contribute
// nothing and are listed in MissingFoods.
type mealPlanSummary struct {
	Date          string             `json:"date"`
	Exists        bool               `json:"exists"`
	Slots         []slotSummary      `json:"slots"`
	Totals        models.MacroTotals `json:"totals"`
	CalorieBudget int                `json:"calorie_budget"`
	CaloriesLeft  int                `json:"calories_left"`
	ProteinPct    int                `json:"protein_pct"`
	FatsPct       int                `json:"fats_pct"`
	CarbsPct      int                `json:"carbs_pct"`
}

// calendarResponse is the response shape for GET /api/calendar.
type calendarResponse struct {
	Year   int                    `json:"year"`
	Month  int                    `json:"month"`
	Days   []calendar.CalendarDay `json:"days"`
	Failed []string               `json:"unavailable_sources,omitempty"`
}

// calorieCheckResponse wraps nutrition.CalorieCheck with the macro split.
type calorieCheckResponse struct {
	nutrition.CalorieCheck
	ProteinPct int `json:"protein_pct"`
	FatsPct    int `json:"fats_pct"`
	CarbsPct   int `json:"carbs_pct"`
}
