package calendar

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"lg/life-dashboard-go-api/internal/activity"
	"lg/life-dashboard-go-api/internal/models"
	"lg/life-dashboard-go-api/internal/nutrition"
)

const day = "2026-10-18"

var t0 = time.Date(2026, 10, 18, 9, 0, 0, 0, time.UTC)

func TestReconcileTaskWithoutHistoryIsPending(t *testing.T) {
	r := NewReconciler(2)
	src := Sources{Scheduled: &models.ScheduledActivities{Date: day, Tasks: []string{"meal-6pm"}}}

	got := r.Reconcile(day, src)
	require.Len(t, got.Events, 1)
	assert.Equal(t, CalendarEvent{Type: EventFood, Title: "6pm Meal", Completed: false, ActivityType: "meal-6pm"}, got.Events[0])
	assert.Equal(t, []string{"meal-6pm"}, got.ScheduledTasks)
	require.NotNil(t, got.ModuleData.Food)
	assert.Equal(t, 0, got.ModuleData.Food.CompletedMeals)
}

func TestReconcileAfterToggleIsCompleted(t *testing.T) {
	r := NewReconciler(2)
	cs := activity.NewCompletionStore(1, noopHistory{}, nil, activity.WithClock(func() time.Time { return t0 }))
	require.NoError(t, cs.Toggle(context.Background(), day, activity.Meal("6pm"), true))

	src := Sources{
		Scheduled: &models.ScheduledActivities{Date: day, Tasks: []string{"meal-6pm"}},
		History:   cs.Records(day, day),
	}
	got := r.Reconcile(day, src)
	require.Len(t, got.Events, 1)
	assert.True(t, got.Events[0].Completed)
	assert.Equal(t, 1, got.ModuleData.Food.CompletedMeals)
}

type noopHistory struct{}

func (noopHistory) UpsertActivity(_ context.Context, rec models.ActivityRecord) (models.ActivityRecord, error) {
	return rec, nil
}

func TestScheduledByDecisionTable(t *testing.T) {
	plan := &models.MealPlan{Date: day, Timeslots: map[string]models.Timeslot{
		"6pm":    {SelectedFoods: []models.SelectedFood{{Name: "Eggs", Amount: 2}}},
		"9:30pm": {},
	}}
	in := newScheduleInput(day, Sources{
		Plan:      plan,
		Scheduled: &models.ScheduledActivities{Date: day, Tasks: []string{"finance", "not-a-task"}},
		History: []models.ActivityRecord{
			{Date: day, ActivityType: "gym-workout", Completed: false, UpdatedAt: t0},
			{Date: day, ActivityType: "meal-6pm", Completed: true, UpdatedAt: t0},
		},
	})

	cases := []struct {
		t      activity.Type
		signal Signal
		ok     bool
	}{
		{activity.Finance, SignalTask, true},
		{activity.Meal("6pm"), SignalPlan, true},
		{activity.Gym, SignalHistory, true},
		{activity.Meal("9:30pm"), "", false},
		{activity.Water, "", false},
	}
	for _, tc := range cases {
		signal, ok := scheduledBy(tc.t, in)
		assert.Equal(t, tc.ok, ok, tc.t.String())
		assert.Equal(t, tc.signal, signal, tc.t.String())
	}
}

func TestPlanSignalOnlyAppliesToMeals(t *testing.T) {
	in := scheduleInput{
		tasks:      map[activity.Type]bool{},
		planSlots:  map[activity.Type]bool{activity.Gym: true},
		activities: map[activity.Type]bool{},
	}
	_, ok := scheduledBy(activity.Gym, in)
	assert.False(t, ok)
}

func TestReconcileOrdersEventsAndCapsMeals(t *testing.T) {
	r := NewReconciler(2)
	src := Sources{
		Scheduled: &models.ScheduledActivities{Date: day, Tasks: []string{"water", "meal-9:30pm", "gym-workout", "meal-7am", "meal-12pm"}},
		History: []models.ActivityRecord{
			{Date: day, ActivityType: "meal-7am", Completed: true, UpdatedAt: t0},
			{Date: day, ActivityType: "meal-12pm", Completed: true, UpdatedAt: t0},
			{Date: day, ActivityType: "meal-9:30pm", Completed: true, UpdatedAt: t0},
			{Date: day, ActivityType: "water", Completed: true, UpdatedAt: t0},
		},
	}
	got := r.Reconcile(day, src)

	var titles []string
	for _, e := range got.Events {
		titles = append(titles, e.Title)
	}
	assert.Equal(t, []string{"7am Meal", "12pm Meal", "9:30pm Meal", "Gym Workout", "Water"}, titles)
	assert.Equal(t, 2, got.ModuleData.Food.CompletedMeals)
	assert.Equal(t, 2, got.ModuleData.Food.TotalMeals)
	assert.False(t, got.ModuleData.Gym.Completed)
	assert.True(t, got.ModuleData.Water.Completed)
	assert.Nil(t, got.ModuleData.Finance)
}

func TestReconcileWorkoutsReplaceGenericGymEvent(t *testing.T) {
	r := NewReconciler(0)
	src := Sources{
		Scheduled: &models.ScheduledActivities{Date: day, Tasks: []string{"gym-workout"}},
		Workouts: []models.ScheduledWorkout{
			{ID: "b", ScheduledDate: day, Name: "Push", Exercises: []models.Exercise{
				{Order: 2, Name: "Dips"}, {Order: 1, Name: "Bench"},
			}},
			{ID: "a", ScheduledDate: day, Name: "Core"},
			{ID: "c", ScheduledDate: "2026-10-19", Name: "Legs"},
		},
		History: []models.ActivityRecord{{Date: day, ActivityType: "gym-workout", Completed: true, UpdatedAt: t0}},
	}
	got := r.Reconcile(day, src)

	require.Len(t, got.Events, 2)
	assert.Equal(t, "Core", got.Events[0].Title)
	assert.Equal(t, "Push", got.Events[1].Title)
	assert.True(t, got.Events[1].Completed)
	require.NotNil(t, got.Events[1].Workout)
	assert.Equal(t, "Bench", got.Events[1].Workout.Exercises[0].Name)
	assert.Equal(t, 2, got.ModuleData.Gym.Workouts)
	// Source exercises are untouched.
	assert.Equal(t, "Dips", src.Workouts[0].Exercises[0].Name)
}

func TestReconcileEmptyDay(t *testing.T) {
	got := NewReconciler(2).Reconcile(day, Sources{})
	assert.Empty(t, got.Events)
	assert.NotNil(t, got.Events)
	assert.Equal(t, []string{}, got.ScheduledTasks)
	assert.Equal(t, ModuleData{}, got.ModuleData)
}

func TestReconcileSkipsPlanSlotsThatAreNotClockTimes(t *testing.T) {
	plan := &models.MealPlan{Date: day, Timeslots: map[string]models.Timeslot{
		"Lunch": {SelectedFoods: []models.SelectedFood{{Name: "Eggs", Amount: 2}}},
		"6PM":   {SelectedFoods: []models.SelectedFood{{Name: "Eggs", Amount: 3}}},
	}}
	got := NewReconciler(2).Reconcile(day, Sources{Plan: plan})
	require.Len(t, got.Events, 1)
	assert.Equal(t, "meal-6pm", got.Events[0].ActivityType)
	for _, ev := range got.Events {
		_, err := activity.Parse(ev.ActivityType)
		assert.NoError(t, err)
	}
}

func TestReconcilePlanMacrosUseCatalog(t *testing.T) {
	catalog := nutrition.NewCatalog([]models.Food{{
		Name: "Eggs", IsUnitFood: true,
		Nutrition: models.MacroTotals{Protein: 7.5, Fats: 6.2, Carbs: 0.7, Calories: 90},
	}})
	plan := &models.MealPlan{Date: day, Timeslots: map[string]models.Timeslot{
		"6pm": {SelectedFoods: []models.SelectedFood{{Name: "Eggs", Amount: 3}}},
	}}
	got := NewReconciler(2).Reconcile(day, Sources{Plan: plan, Catalog: catalog})
	require.NotNil(t, got.ModuleData.Food)
	assert.True(t, got.ModuleData.Food.HasPlan)
	assert.InDelta(t, 270, got.ModuleData.Food.Macros.Calories, 1e-9)
	require.Len(t, got.Events, 1)
	assert.Equal(t, "6pm Meal", got.Events[0].Title)
}

func TestReconcileIsOrderIndependent(t *testing.T) {
	r := NewReconciler(2)
	history := []models.ActivityRecord{
		{Date: day, ActivityType: "meal-6pm", Completed: true, UpdatedAt: t0},
		{Date: day, ActivityType: "6pm", Completed: false, UpdatedAt: t0},
		{Date: day, ActivityType: "finance", Completed: true, UpdatedAt: t0.Add(time.Minute)},
		{Date: day, ActivityType: "finance", Completed: false, UpdatedAt: t0},
	}
	workouts := []models.ScheduledWorkout{
		{ID: "1", ScheduledDate: day, Name: "A"},
		{ID: "2", ScheduledDate: day, Name: "A"},
	}
	plan := &models.MealPlan{Date: day, Timeslots: map[string]models.Timeslot{
		"9:30pm": {SelectedFoods: []models.SelectedFood{{Name: "Rice", Amount: 100}}},
		"7am":    {SelectedFoods: []models.SelectedFood{{Name: "Oats", Amount: 50}}},
	}}

	base := r.Reconcile(day, Sources{Plan: plan, Workouts: workouts, History: history})
	perms := [][]int{{3, 2, 1, 0}, {1, 3, 0, 2}, {2, 0, 3, 1}}
	for _, p := range perms {
		h := []models.ActivityRecord{history[p[0]], history[p[1]], history[p[2]], history[p[3]]}
		w := []models.ScheduledWorkout{workouts[1], workouts[0]}
		assert.Equal(t, base, r.Reconcile(day, Sources{Plan: plan, Workouts: w, History: h}))
	}
	assert.True(t, base.Events[1].Completed, "tie resolves to completed")
}

func TestMonthGrid(t *testing.T) {
	a := NewAggregator(NewReconciler(2), 4)
	now := time.Date(2026, 10, 18, 22, 30, 0, 0, time.UTC)
	days := a.Month(2026, time.October, now, MonthSources{})

	require.Len(t, days, 42)
	assert.Equal(t, "2026-09-27", days[0].Date)
	assert.Equal(t, "2026-11-07", days[41].Date)
	assert.False(t, days[0].IsCurrentMonth)
	assert.True(t, days[4].IsCurrentMonth)

	var todays []string
	for _, d := range days {
		if d.IsToday {
			todays = append(todays, d.Date)
		}
	}
	assert.Equal(t, []string{"2026-10-18"}, todays)
}

func TestMonthIsMemoizedAndReturnsCopies(t *testing.T) {
	a := NewAggregator(NewReconciler(2), 4)
	src := MonthSources{Scheduled: []models.ScheduledActivities{{Date: day, Tasks: []string{"water"}}}}

	first := a.Month(2026, time.October, t0, src)
	assert.Len(t, a.cache, 1)
	first[21].Events[0].Title = "mutated"

	second := a.Month(2026, time.October, t0, src)
	assert.Len(t, a.cache, 1)
	assert.Equal(t, "Water", second[21].Events[0].Title)

	src.History = []models.ActivityRecord{{Date: day, ActivityType: "water", Completed: true, UpdatedAt: t0}}
	third := a.Month(2026, time.October, t0, src)
	assert.Len(t, a.cache, 2)
	assert.True(t, third[21].Events[0].Completed)
}

func TestMonthCacheIsBounded(t *testing.T) {
	a := NewAggregator(NewReconciler(2), 2)
	for m := time.January; m <= time.April; m++ {
		a.Month(2026, m, t0, MonthSources{})
	}
	assert.Len(t, a.cache, 2)
	assert.Len(t, a.order, 2)

	a.Invalidate()
	assert.Empty(t, a.cache)
}

func TestDaysCoversRange(t *testing.T) {
	a := NewAggregator(NewReconciler(2), 0)
	days, err := a.Days("2026-10-16", day, day, MonthSources{})
	require.NoError(t, err)
	require.Len(t, days, 3)
	assert.Equal(t, "2026-10-16", days[0].Date)
	assert.True(t, days[2].IsToday)
}

type fakeReader struct {
	failHistory bool
}

func (fakeReader) ListMealPlans(context.Context, int, string, string) ([]models.MealPlan, error) {
	return []models.MealPlan{{Date: day}}, nil
}

func (fakeReader) ListScheduledActivities(context.Context, int, string, string) ([]models.ScheduledActivities, error) {
	return []models.ScheduledActivities{{Date: day, Tasks: []string{"water"}}}, nil
}

func (fakeReader) ListScheduledWorkouts(context.Context, int, string, string) ([]models.ScheduledWorkout, error) {
	return nil, nil
}

func (f fakeReader) ListActivityHistory(context.Context, int, string, string) ([]models.ActivityRecord, error) {
	if f.failHistory {
		return nil, errors.New("timeout")
	}
	return []models.ActivityRecord{{Date: day, ActivityType: "water", Completed: true}}, nil
}

func (fakeReader) ListFoods(context.Context, int) ([]models.Food, error) {
	return nil, nil
}

func TestMonthLoaderDegradesFailedSource(t *testing.T) {
	src, failed, err := NewMonthLoader(fakeReader{failHistory: true}).Load(context.Background(), 1, "2026-09-27", "2026-11-07")
	require.NoError(t, err)
	assert.Equal(t, []string{SourceHistory}, failed)
	assert.Empty(t, src.History)
	assert.Len(t, src.Plans, 1)
	assert.Len(t, src.Scheduled, 1)

	got := NewReconciler(2).Reconcile(day, Sources{Scheduled: &src.Scheduled[0], History: src.History})
	require.Len(t, got.Events, 1)
	assert.False(t, got.Events[0].Completed)
}

func TestMonthLoaderCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, _, err := NewMonthLoader(fakeReader{}).Load(ctx, 1, "2026-09-27", "2026-11-07")
	assert.ErrorIs(t, err, context.Canceled)
}
