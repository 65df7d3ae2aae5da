package store

import (
	"encoding/json"
	"fmt"
	"time"

	"lg/life-dashboard-go-api/internal/models"
)

// Row types shared by the SQL implementations. JSON-shaped document fields
// are carried as strings: jsonb in Postgres, TEXT in SQLite.

type FoodRow struct {
	ID         string  `db:"id"`
	UserID     int     `db:"user_id"`
	Name       string  `db:"name"`
	Nutrition  string  `db:"nutrition"`
	IsUnitFood bool    `db:"is_unit_food"`
	Cost       *string `db:"cost"`
}

func (r FoodRow) Model() (models.Food, error) {
	f := models.Food{ID: r.ID, UserID: r.UserID, Name: r.Name, IsUnitFood: r.IsUnitFood}
	if err := json.Unmarshal([]byte(r.Nutrition), &f.Nutrition); err != nil {
		return f, fmt.Errorf("food %s nutrition: %w", r.ID, err)
	}
	if r.Cost != nil && *r.Cost != "" && *r.Cost != "null" {
		f.Cost = &models.FoodCost{}
		if err := json.Unmarshal([]byte(*r.Cost), f.Cost); err != nil {
			return f, fmt.Errorf("food %s cost: %w", r.ID, err)
		}
	}
	return f, nil
}

func NewFoodRow(f models.Food) (FoodRow, error) {
	nutrition, err := json.Marshal(f.Nutrition)
	if err != nil {
		return FoodRow{}, err
	}
	row := FoodRow{ID: f.ID, UserID: f.UserID, Name: f.Name, Nutrition: string(nutrition), IsUnitFood: f.IsUnitFood}
	if f.Cost != nil {
		b, err := json.Marshal(f.Cost)
		if err != nil {
			return FoodRow{}, err
		}
		s := string(b)
		row.Cost = &s
	}
	return row, nil
}

type MealPlanRow struct {
	UserID      int       `db:"user_id"`
	Date        string    `db:"date"`
	Timeslots   string    `db:"timeslots"`
	TotalMacros string    `db:"total_macros"`
	UpdatedAt   time.Time `db:"updated_at"`
}

func (r MealPlanRow) Model() (models.MealPlan, error) {
	p := models.MealPlan{UserID: r.UserID, Date: r.Date, UpdatedAt: r.UpdatedAt}
	if err := json.Unmarshal([]byte(r.Timeslots), &p.Timeslots); err != nil {
		return p, fmt.Errorf("meal plan %s timeslots: %w", r.Date, err)
	}
	if err := json.Unmarshal([]byte(r.TotalMacros), &p.TotalMacros); err != nil {
		return p, fmt.Errorf("meal plan %s totals: %w", r.Date, err)
	}
	if p.Timeslots == nil {
		p.Timeslots = map[string]models.Timeslot{}
	}
	return p, nil
}

func NewMealPlanRow(p models.MealPlan) (MealPlanRow, error) {
	slots := p.Timeslots
	if slots == nil {
		slots = map[string]models.Timeslot{}
	}
	ts, err := json.Marshal(slots)
	if err != nil {
		return MealPlanRow{}, err
	}
	totals, err := json.Marshal(p.TotalMacros)
	if err != nil {
		return MealPlanRow{}, err
	}
	return MealPlanRow{UserID: p.UserID, Date: p.Date, Timeslots: string(ts), TotalMacros: string(totals), UpdatedAt: p.UpdatedAt}, nil
}

type ScheduledActivitiesRow struct {
	UserID int    `db:"user_id"`
	Date   string `db:"date"`
	Tasks  string `db:"tasks"`
}

func (r ScheduledActivitiesRow) Model() (models.ScheduledActivities, error) {
	doc := models.ScheduledActivities{UserID: r.UserID, Date: r.Date}
	if err := json.Unmarshal([]byte(r.Tasks), &doc.Tasks); err != nil {
		return doc, fmt.Errorf("scheduled activities %s: %w", r.Date, err)
	}
	if doc.Tasks == nil {
		doc.Tasks = []string{}
	}
	return doc, nil
}

func NewScheduledActivitiesRow(doc models.ScheduledActivities) (ScheduledActivitiesRow, error) {
	tasks := doc.Tasks
	if tasks == nil {
		tasks = []string{}
	}
	b, err := json.Marshal(tasks)
	if err != nil {
		return ScheduledActivitiesRow{}, err
	}
	return ScheduledActivitiesRow{UserID: doc.UserID, Date: doc.Date, Tasks: string(b)}, nil
}

type WorkoutRow struct {
	ID                string `db:"id"`
	UserID            int    `db:"user_id"`
	ScheduledDate     string `db:"scheduled_date"`
	Name              string `db:"name"`
	WorkoutType       string `db:"workout_type"`
	Exercises         string `db:"exercises"`
	Status            string `db:"status"`
	EstimatedDuration int    `db:"estimated_duration"`
	Notes             string `db:"notes"`
}

func (r WorkoutRow) Model() (models.ScheduledWorkout, error) {
	w := models.ScheduledWorkout{
		ID:                r.ID,
		UserID:            r.UserID,
		ScheduledDate:     r.ScheduledDate,
		Name:              r.Name,
		WorkoutType:       r.WorkoutType,
		Status:            models.WorkoutStatus(r.Status),
		EstimatedDuration: r.EstimatedDuration,
		Notes:             r.Notes,
	}
	if err := json.Unmarshal([]byte(r.Exercises), &w.Exercises); err != nil {
		return w, fmt.Errorf("workout %s exercises: %w", r.ID, err)
	}
	if w.Exercises == nil {
		w.Exercises = []models.Exercise{}
	}
	return w, nil
}

func NewWorkoutRow(w models.ScheduledWorkout) (WorkoutRow, error) {
	exercises := w.Exercises
	if exercises == nil {
		exercises = []models.Exercise{}
	}
	b, err := json.Marshal(exercises)
	if err != nil {
		return WorkoutRow{}, err
	}
	return WorkoutRow{
		ID:                w.ID,
		UserID:            w.UserID,
		ScheduledDate:     w.ScheduledDate,
		Name:              w.Name,
		WorkoutType:       w.WorkoutType,
		Exercises:         string(b),
		Status:            string(w.Status),
		EstimatedDuration: w.EstimatedDuration,
		Notes:             w.Notes,
	}, nil
}

type ActivityRow struct {
	UserID       int       `db:"user_id"`
	Date         string    `db:"date"`
	ActivityType string    `db:"activity_type"`
	Completed    bool      `db:"completed"`
	UpdatedAt    time.Time `db:"updated_at"`
}

func (r ActivityRow) Model() models.ActivityRecord {
	return models.ActivityRecord(r)
}

type UserRow struct {
	ID        int        `db:"id"`
	Username  string     `db:"username"`
	Email     string     `db:"email"`
	AuthToken string     `db:"auth_token"`
	Password  string     `db:"password"`
	CreatedAt *time.Time `db:"created_at"`
}

func (r UserRow) Model() models.User {
	return models.User(r)
}

type NutritionSettingsRow struct {
	UserID         int      `db:"user_id"`
	CalorieBudget  int      `db:"calorie_budget"`
	ProteinTargetG int      `db:"protein_target_g"`
	CarbsTargetG   int      `db:"carbs_target_g"`
	FatTargetG     int      `db:"fat_target_g"`
	Sex            *string  `db:"sex"`
	DateOfBirth    *string  `db:"date_of_birth"`
	HeightCM       *float64 `db:"height_cm"`
	WeightKG       *float64 `db:"weight_kg"`
	ActivityLevel  *string  `db:"activity_level"`
	TargetWeightKG *float64 `db:"target_weight_kg"`
	TargetDate     *string  `db:"target_date"`
	BudgetAuto     bool     `db:"budget_auto"`
	SetupComplete  bool     `db:"setup_complete"`
}

func (r NutritionSettingsRow) Model() models.NutritionSettings {
	return models.NutritionSettings{
		UserID:         r.UserID,
		CalorieBudget:  r.CalorieBudget,
		ProteinTargetG: r.ProteinTargetG,
		CarbsTargetG:   r.CarbsTargetG,
		FatTargetG:     r.FatTargetG,
		Sex:            r.Sex,
		DateOfBirth:    r.DateOfBirth,
		HeightCM:       r.HeightCM,
		WeightKG:       r.WeightKG,
		ActivityLevel:  r.ActivityLevel,
		TargetWeightKG: r.TargetWeightKG,
		TargetDate:     r.TargetDate,
		BudgetAuto:     r.BudgetAuto,
		SetupComplete:  r.SetupComplete,
	}
}

func NewNutritionSettingsRow(s models.NutritionSettings) NutritionSettingsRow {
	return NutritionSettingsRow{
		UserID:         s.UserID,
		CalorieBudget:  s.CalorieBudget,
		ProteinTargetG: s.ProteinTargetG,
		CarbsTargetG:   s.CarbsTargetG,
		FatTargetG:     s.FatTargetG,
		Sex:            s.Sex,
		DateOfBirth:    s.DateOfBirth,
		HeightCM:       s.HeightCM,
		WeightKG:       s.WeightKG,
		ActivityLevel:  s.ActivityLevel,
		TargetWeightKG: s.TargetWeightKG,
		TargetDate:     s.TargetDate,
		BudgetAuto:     s.BudgetAuto,
		SetupComplete:  s.SetupComplete,
	}
}
