// Package store declares the document store the dashboard reads and writes.
// Two implementations exist: store/postgres (pgx, production) and store/sqlite
// (sqlx + modernc sqlite, local mode and tests).
package store

import (
	"context"
	"errors"

	"lg/life-dashboard-go-api/internal/models"
)

// ErrNotFound is returned when a single document lookup matches nothing.
var ErrNotFound = errors.New("not found")

// FoodStore reads and writes the food catalog.
type FoodStore interface {
	ListFoods(ctx context.Context, userID int) ([]models.Food, error)
	UpsertFood(ctx context.Context, food models.Food) (models.Food, error)
	DeleteFood(ctx context.Context, userID int, id string) error
}

// MealPlanStore reads and writes per-day meal plans.
type MealPlanStore interface {
	ListMealPlans(ctx context.Context, userID int, from, to string) ([]models.MealPlan, error)
	GetMealPlan(ctx context.Context, userID int, date string) (models.MealPlan, error)
	SaveMealPlan(ctx context.Context, plan models.MealPlan) (models.MealPlan, error)
	// CreateMealPlanIfAbsent inserts plan unless (user, date) already has one.
	// It reports whether the insert happened and never overwrites.
	CreateMealPlanIfAbsent(ctx context.Context, plan models.MealPlan) (bool, error)
}

// ScheduleStore reads and writes scheduled-activities documents.
type ScheduleStore interface {
	ListScheduledActivities(ctx context.Context, userID int, from, to string) ([]models.ScheduledActivities, error)
	SaveScheduledActivities(ctx context.Context, doc models.ScheduledActivities) (models.ScheduledActivities, error)
}

// WorkoutStore reads and writes scheduled workouts.
type WorkoutStore interface {
	ListScheduledWorkouts(ctx context.Context, userID int, from, to string) ([]models.ScheduledWorkout, error)
	CreateScheduledWorkout(ctx context.Context, w models.ScheduledWorkout) (models.ScheduledWorkout, error)
	UpdateWorkoutStatus(ctx context.Context, userID int, id string, status models.WorkoutStatus) (models.ScheduledWorkout, error)
	DeleteScheduledWorkout(ctx context.Context, userID int, id string) error
}

// ActivityStore reads and upserts activity history.
type ActivityStore interface {
	ListActivityHistory(ctx context.Context, userID int, from, to string) ([]models.ActivityRecord, error)
	UpsertActivity(ctx context.Context, rec models.ActivityRecord) (models.ActivityRecord, error)
}

// UserStore backs login, token auth and nutrition settings.
type UserStore interface {
	UserByUsername(ctx context.Context, username string) (models.User, error)
	UserIDByToken(ctx context.Context, token string) (int, error)
	CreateUser(ctx context.Context, u models.User) (models.User, error)
	GetNutritionSettings(ctx context.Context, userID int) (models.NutritionSettings, error)
	SaveNutritionSettings(ctx context.Context, s models.NutritionSettings) (models.NutritionSettings, error)
}

// Store is the full document store.
type Store interface {
	FoodStore
	MealPlanStore
	ScheduleStore
	WorkoutStore
	ActivityStore
	UserStore
	Close()
}
