// Package models holds the document shapes persisted in the store. Date fields
// are local-calendar "YYYY-MM-DD" keys (see internal/dates).
package models

import "time"

// MacroTotals is a protein/fats/carbs/calories tuple. Calories is either given
// directly or derived from the macros (protein*4 + fats*9 + carbs*4).
type MacroTotals struct {
	Protein  float64 `json:"protein"`
	Fats     float64 `json:"fats"`
	Carbs    float64 `json:"carbs"`
	Calories float64 `json:"calories"`
}

// Add returns the element-wise sum of m and o.
func (m MacroTotals) Add(o MacroTotals) MacroTotals {
	return MacroTotals{
		Protein:  m.Protein + o.Protein,
		Fats:     m.Fats + o.Fats,
		Carbs:    m.Carbs + o.Carbs,
		Calories: m.Calories + o.Calories,
	}
}

// Scale multiplies every field by factor.
func (m MacroTotals) Scale(factor float64) MacroTotals {
	return MacroTotals{
		Protein:  m.Protein * factor,
		Fats:     m.Fats * factor,
		Carbs:    m.Carbs * factor,
		Calories: m.Calories * factor,
	}
}

// CostUnit is the reference unit of a food's cost.
type CostUnit string

const (
	CostPerKg   CostUnit = "kg"
	CostPerUnit CostUnit = "unit"
)

// FoodCost is the price of a food per kilogram (weight foods) or per item (unit foods).
type FoodCost struct {
	PerKgOrUnit float64  `json:"costPerKg"`
	Unit        CostUnit `json:"unit"`
}

// Food is one catalog entry. Nutrition is per 100 g, or per item when
// IsUnitFood is set. A nil Cost means the price is unknown, not zero.
type Food struct {
	ID         string      `json:"id"`
	UserID     int         `json:"user_id"`
	Name       string      `json:"name"`
	Nutrition  MacroTotals `json:"nutrition"`
	IsUnitFood bool        `json:"isUnitFood"`
	Cost       *FoodCost   `json:"cost,omitempty"`
}

// SelectedFood is a food placed in a timeslot. Amount is grams for weight
// foods and an item count for unit foods.
type SelectedFood struct {
	Name   string  `json:"name"`
	Amount float64 `json:"amount"`
}

// Timeslot is one named meal time within a day's plan.
type Timeslot struct {
	SelectedFoods     []SelectedFood `json:"selectedFoods"`
	ExternalNutrition MacroTotals    `json:"externalNutrition"`
}

// MealPlan is the legacy per-day meal plan document keyed by (user, date).
type MealPlan struct {
	UserID      int                 `json:"userId"`
	Date        string              `json:"date"`
	Timeslots   map[string]Timeslot `json:"timeslots"`
	TotalMacros MacroTotals         `json:"totalMacros"`
	UpdatedAt   time.Time           `json:"updatedAt"`
}

// HasFoods reports whether the given slot has at least one selected food.
func (p *MealPlan) HasFoods(slot string) bool {
	if p == nil {
		return false
	}
	ts, ok := p.Timeslots[slot]
	return ok && len(ts.SelectedFoods) > 0
}

// ScheduledActivities is the authoritative "what is planned for this day" document.
type ScheduledActivities struct {
	UserID int      `json:"userId"`
	Date   string   `json:"date"`
	Tasks  []string `json:"tasks"`
}

// WorkoutStatus is the lifecycle state of a scheduled workout.
type WorkoutStatus string

const (
	WorkoutScheduled WorkoutStatus = "scheduled"
	WorkoutCompleted WorkoutStatus = "completed"
	WorkoutSkipped   WorkoutStatus = "skipped"
)

// ValidWorkoutStatus reports whether s is one of the known statuses.
func ValidWorkoutStatus(s WorkoutStatus) bool {
	switch s {
	case WorkoutScheduled, WorkoutCompleted, WorkoutSkipped:
		return true
	}
	return false
}

// Exercise is one entry of a workout, rendered in ascending Order.
type Exercise struct {
	Order int     `json:"order"`
	Name  string  `json:"name"`
	Kg    float64 `json:"kg"`
	Sets  int     `json:"sets"`
	Reps  int     `json:"reps"`
	Rest  int     `json:"rest"`
	Notes string  `json:"notes,omitempty"`
}

// ScheduledWorkout is a workout planned for a specific date.
type ScheduledWorkout struct {
	ID                string        `json:"id"`
	UserID            int           `json:"userId"`
	ScheduledDate     string        `json:"scheduledDate"`
	Name              string        `json:"name"`
	WorkoutType       string        `json:"workoutType"`
	Exercises         []Exercise    `json:"exercises"`
	Status            WorkoutStatus `json:"status"`
	EstimatedDuration int           `json:"estimatedDuration"`
	Notes             string        `json:"notes,omitempty"`
}

// ActivityRecord is the single source of truth for whether an activity type
// was completed on a date. There is one logical record per (user, date, type).
type ActivityRecord struct {
	UserID       int       `json:"userId"`
	Date         string    `json:"date"`
	ActivityType string    `json:"activityType"`
	Completed    bool      `json:"completed"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

// User maps to the users table. AuthToken and Password are hidden from JSON responses.
type User struct {
	ID        int        `json:"id"`
	Username  string     `json:"username"`
	Email     string     `json:"email"`
	AuthToken string     `json:"-"`
	Password  string     `json:"-"`
	CreatedAt *time.Time `json:"created_at"`
}

// NutritionSettings holds one user's daily calorie budget, macro targets and
// the body-profile fields used for the TDEE-derived budget. Profile fields are
// nullable; a row with none of them still works.
type NutritionSettings struct {
	UserID         int `json:"user_id"`
	CalorieBudget  int `json:"calorie_budget"`
	ProteinTargetG int `json:"protein_target_g"`
	CarbsTargetG   int `json:"carbs_target_g"`
	FatTargetG     int `json:"fat_target_g"`

	Sex            *string  `json:"sex"`
	DateOfBirth    *string  `json:"date_of_birth"`
	HeightCM       *float64 `json:"height_cm"`
	WeightKG       *float64 `json:"weight_kg"`
	ActivityLevel  *string  `json:"activity_level"`
	TargetWeightKG *float64 `json:"target_weight_kg"`
	TargetDate     *string  `json:"target_date"`
	BudgetAuto     bool     `json:"budget_auto"`
	SetupComplete  bool     `json:"setup_complete"`

	// Computed fields, populated server-side from the profile and never stored.
	ComputedBMR    *int     `json:"computed_bmr,omitempty"`
	ComputedTDEE   *int     `json:"computed_tdee,omitempty"`
	ComputedBudget *int     `json:"computed_budget,omitempty"`
	PaceKgPerWeek  *float64 `json:"pace_kg_per_week,omitempty"`
}

// DefaultNutritionSettings is the row created alongside a new user.
func DefaultNutritionSettings(userID int) NutritionSettings {
	return NutritionSettings{
		UserID:         userID,
		CalorieBudget:  2000,
		ProteinTargetG: 150,
		CarbsTargetG:   200,
		FatTargetG:     65,
	}
}
