// Package calendar turns the per-day source documents into calendar view
// models: one CalendarDay per date and a 42-cell month grid.
package calendar

import (
	"sort"

	"lg/life-dashboard-go-api/internal/activity"
	"lg/life-dashboard-go-api/internal/models"
	"lg/life-dashboard-go-api/internal/nutrition"
)

// DefaultTotalMeals is the number of meals a day is expected to hold when no
// meal slots are configured.
const DefaultTotalMeals = 2

// EventType groups calendar events by dashboard module.
type EventType string

const (
	EventFood    EventType = "food"
	EventGym     EventType = "gym"
	EventFinance EventType = "finance"
	EventWater   EventType = "water"
)

// WorkoutSummary is the scheduled workout attached to a gym event.
type WorkoutSummary struct {
	ID                string               `json:"id"`
	Name              string               `json:"name"`
	WorkoutType       string               `json:"workoutType"`
	Status            models.WorkoutStatus `json:"status"`
	EstimatedDuration int                  `json:"estimatedDuration"`
	Exercises         []models.Exercise    `json:"exercises"`
}

// CalendarEvent is one detected activity on a day.
type CalendarEvent struct {
	Type         EventType       `json:"type"`
	Title        string          `json:"title"`
	Completed    bool            `json:"completed"`
	ActivityType string          `json:"activityType"`
	Workout      *WorkoutSummary `json:"workout,omitempty"`
}

type FoodData struct {
	TotalMeals     int                `json:"totalMeals"`
	CompletedMeals int                `json:"completedMeals"`
	HasPlan        bool               `json:"hasPlan"`
	Macros         models.MacroTotals `json:"macros"`
}

type GymData struct {
	Completed bool `json:"completed"`
	Workouts  int  `json:"workouts"`
}

type FinanceData struct {
	Completed bool `json:"completed"`
}

type WaterData struct {
	Completed bool `json:"completed"`
}

// ModuleData holds per-module rollups. A nil entry means the module has
// nothing on that day.
type ModuleData struct {
	Food    *FoodData    `json:"food,omitempty"`
	Gym     *GymData     `json:"gym,omitempty"`
	Finance *FinanceData `json:"finance,omitempty"`
	Water   *WaterData   `json:"water,omitempty"`
}

// CalendarDay is the derived view of one date. It is rebuilt on every pass.
type CalendarDay struct {
	Date           string          `json:"date"`
	IsCurrentMonth bool            `json:"isCurrentMonth"`
	IsToday        bool            `json:"isToday"`
	Events         []CalendarEvent `json:"events"`
	ScheduledTasks []string        `json:"scheduledTasks"`
	ModuleData     ModuleData      `json:"moduleData"`
}

// Sources are the four documents that describe one day, plus the catalog used
// to total the meal plan. Any of them may be absent.
type Sources struct {
	Plan      *models.MealPlan
	Scheduled *models.ScheduledActivities
	Workouts  []models.ScheduledWorkout
	History   []models.ActivityRecord
	Catalog   nutrition.Catalog
}

// Reconciler builds CalendarDays. It holds configuration only and is safe for
// concurrent use.
type Reconciler struct {
	totalMeals int
}

// NewReconciler returns a Reconciler expecting totalMeals meals per day.
func NewReconciler(totalMeals int) *Reconciler {
	if totalMeals <= 0 {
		totalMeals = DefaultTotalMeals
	}
	return &Reconciler{totalMeals: totalMeals}
}

// Reconcile merges the sources for date into a CalendarDay. The result depends
// only on the contents of src, never on the order of its slices.
// IsCurrentMonth and IsToday are left for the caller.
func (r *Reconciler) Reconcile(date string, src Sources) CalendarDay {
	in := newScheduleInput(date, src)

	day := CalendarDay{
		Date:           date,
		Events:         []CalendarEvent{},
		ScheduledTasks: []string{},
	}
	if src.Scheduled != nil && src.Scheduled.Date == date {
		day.ScheduledTasks = append(day.ScheduledTasks, src.Scheduled.Tasks...)
	}

	// Meals, in clock order.
	meals := in.mealCandidates()
	completedMeals := 0
	for _, t := range meals {
		if _, ok := scheduledBy(t, in); !ok {
			continue
		}
		done := in.activities[t]
		if done {
			completedMeals++
		}
		day.Events = append(day.Events, CalendarEvent{
			Type:         EventFood,
			Title:        t.Slot + " Meal",
			Completed:    done,
			ActivityType: t.String(),
		})
	}
	if completedMeals > r.totalMeals {
		completedMeals = r.totalMeals
	}
	if len(meals) > 0 || src.Plan != nil {
		food := &FoodData{
			TotalMeals:     r.totalMeals,
			CompletedMeals: completedMeals,
			HasPlan:        src.Plan != nil,
		}
		if src.Plan != nil {
			food.Macros = nutrition.PlanTotals(*src.Plan, src.Catalog)
		}
		day.ModuleData.Food = food
	}

	// Gym: one event per scheduled workout, else the generic event.
	gymDone := in.activities[activity.Gym]
	workouts := workoutsOn(date, src.Workouts)
	if len(workouts) > 0 {
		for _, w := range workouts {
			title := w.Name
			if title == "" {
				title = "Workout"
			}
			day.Events = append(day.Events, CalendarEvent{
				Type:         EventGym,
				Title:        title,
				Completed:    gymDone,
				ActivityType: activity.Gym.String(),
				Workout:      summarize(w),
			})
		}
		day.ModuleData.Gym = &GymData{Completed: gymDone, Workouts: len(workouts)}
	} else if _, ok := scheduledBy(activity.Gym, in); ok {
		day.Events = append(day.Events, CalendarEvent{
			Type:         EventGym,
			Title:        "Gym Workout",
			Completed:    gymDone,
			ActivityType: activity.Gym.String(),
		})
		day.ModuleData.Gym = &GymData{Completed: gymDone}
	}

	if _, ok := scheduledBy(activity.Finance, in); ok {
		done := in.activities[activity.Finance]
		day.Events = append(day.Events, CalendarEvent{
			Type:         EventFinance,
			Title:        "Finance",
			Completed:    done,
			ActivityType: activity.Finance.String(),
		})
		day.ModuleData.Finance = &FinanceData{Completed: done}
	}

	if _, ok := scheduledBy(activity.Water, in); ok {
		done := in.activities[activity.Water]
		day.Events = append(day.Events, CalendarEvent{
			Type:         EventWater,
			Title:        "Water",
			Completed:    done,
			ActivityType: activity.Water.String(),
		})
		day.ModuleData.Water = &WaterData{Completed: done}
	}

	return day
}

func workoutsOn(date string, all []models.ScheduledWorkout) []models.ScheduledWorkout {
	var out []models.ScheduledWorkout
	for _, w := range all {
		if w.ScheduledDate == date {
			out = append(out, w)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Name != out[j].Name {
			return out[i].Name < out[j].Name
		}
		return out[i].ID < out[j].ID
	})
	return out
}

func summarize(w models.ScheduledWorkout) *WorkoutSummary {
	exercises := append([]models.Exercise(nil), w.Exercises...)
	sort.SliceStable(exercises, func(i, j int) bool { return exercises[i].Order < exercises[j].Order })
	return &WorkoutSummary{
		ID:                w.ID,
		Name:              w.Name,
		WorkoutType:       w.WorkoutType,
		Status:            w.Status,
		EstimatedDuration: w.EstimatedDuration,
		Exercises:         exercises,
	}
}
