package calendar

import (
	"context"
	"log"

	"golang.org/x/sync/errgroup"

	"lg/life-dashboard-go-api/internal/models"
)

// SourceReader is the slice of the store the month loader reads from.
type SourceReader interface {
	ListMealPlans(ctx context.Context, userID int, from, to string) ([]models.MealPlan, error)
	ListScheduledActivities(ctx context.Context, userID int, from, to string) ([]models.ScheduledActivities, error)
	ListScheduledWorkouts(ctx context.Context, userID int, from, to string) ([]models.ScheduledWorkout, error)
	ListActivityHistory(ctx context.Context, userID int, from, to string) ([]models.ActivityRecord, error)
	ListFoods(ctx context.Context, userID int) ([]models.Food, error)
}

// Source names reported by MonthLoader.Load when a fetch fails.
const (
	SourcePlans     = "meal_plans"
	SourceScheduled = "scheduled_activities"
	SourceWorkouts  = "scheduled_workouts"
	SourceHistory   = "activity_history"
	SourceFoods     = "foods"
)

// MonthLoader fetches every source for a date range concurrently.
type MonthLoader struct {
	reader SourceReader
}

func NewMonthLoader(r SourceReader) *MonthLoader {
	return &MonthLoader{reader: r}
}

// Load fetches the sources for [from, to]. A source that fails is logged,
// left empty and named in the returned list; the others are still used.
// The error is non-nil only when ctx is done.
func (l *MonthLoader) Load(ctx context.Context, userID int, from, to string) (MonthSources, []string, error) {
	var (
		src    MonthSources
		failed [5]string
		g      errgroup.Group
	)

	fetch := func(slot int, name string, fn func() error) {
		g.Go(func() error {
			if err := fn(); err != nil {
				log.Printf("[MonthLoader.Load] %s unavailable for user %d (%s..%s): %v", name, userID, from, to, err)
				failed[slot] = name
			}
			return nil
		})
	}

	fetch(0, SourcePlans, func() (err error) {
		src.Plans, err = l.reader.ListMealPlans(ctx, userID, from, to)
		return err
	})
	fetch(1, SourceScheduled, func() (err error) {
		src.Scheduled, err = l.reader.ListScheduledActivities(ctx, userID, from, to)
		return err
	})
	fetch(2, SourceWorkouts, func() (err error) {
		src.Workouts, err = l.reader.ListScheduledWorkouts(ctx, userID, from, to)
		return err
	})
	fetch(3, SourceHistory, func() (err error) {
		src.History, err = l.reader.ListActivityHistory(ctx, userID, from, to)
		return err
	})
	fetch(4, SourceFoods, func() (err error) {
		src.Foods, err = l.reader.ListFoods(ctx, userID)
		return err
	})
	_ = g.Wait()

	if err := ctx.Err(); err != nil {
		return MonthSources{}, nil, err
	}

	var names []string
	for _, name := range failed {
		if name != "" {
			names = append(names, name)
		}
	}
	return src, names, nil
}
