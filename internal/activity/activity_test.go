package activity

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"lg/life-dashboard-go-api/internal/models"
)

type fakeHistory struct {
	upserts []models.ActivityRecord
	err     error
}

func (f *fakeHistory) UpsertActivity(_ context.Context, rec models.ActivityRecord) (models.ActivityRecord, error) {
	if f.err != nil {
		return models.ActivityRecord{}, f.err
	}
	f.upserts = append(f.upserts, rec)
	return rec, nil
}

type fakePlans struct {
	plans map[string]models.MealPlan
	saved []models.MealPlan
	err   error
}

func (f *fakePlans) CreateMealPlanIfAbsent(_ context.Context, plan models.MealPlan) (bool, error) {
	if f.err != nil {
		return false, f.err
	}
	if _, ok := f.plans[plan.Date]; ok {
		return false, nil
	}
	if f.plans == nil {
		f.plans = map[string]models.MealPlan{}
	}
	f.plans[plan.Date] = plan
	f.saved = append(f.saved, plan)
	return true, nil
}

func fixedClock() func() time.Time {
	t := time.Date(2026, 10, 18, 12, 0, 0, 0, time.UTC)
	return func() time.Time { return t }
}

func TestParseCanonicalAndAliases(t *testing.T) {
	cases := []struct {
		raw  string
		want Type
	}{
		{"meal-6pm", Meal("6pm")},
		{"meal-9:30pm", Meal("9:30pm")},
		{"6pm", Meal("6pm")},
		{" Meal-6PM ", Meal("6pm")},
		{"gym-workout", Gym},
		{"gym", Gym},
		{"finance", Finance},
		{"water", Water},
	}
	for _, tc := range cases {
		got, err := Parse(tc.raw)
		require.NoError(t, err, tc.raw)
		assert.Equal(t, tc.want, got, tc.raw)
	}

	for _, bad := range []string{"", "meal-lunch", "yoga"} {
		_, err := Parse(bad)
		assert.Error(t, err, bad)
	}
}

func TestParseSlotAgreesWithParse(t *testing.T) {
	for _, raw := range []string{"6pm", " 9:30PM", "12:00am"} {
		slot, err := ParseSlot(raw)
		require.NoError(t, err, raw)
		got, err := Parse(Meal(slot).String())
		require.NoError(t, err, raw)
		assert.Equal(t, Meal(slot), got)
	}
	for _, bad := range []string{"", "Lunch", "25pm:", "6"} {
		_, err := ParseSlot(bad)
		assert.Error(t, err, bad)
	}
}

func TestTypeStringRoundTrips(t *testing.T) {
	for _, typ := range []Type{Meal("6pm"), Meal("9:30pm"), Gym, Finance, Water} {
		parsed, err := Parse(typ.String())
		require.NoError(t, err)
		assert.Equal(t, typ, parsed)
	}
}

func TestSlotMinutesOrdersByClock(t *testing.T) {
	assert.Less(t, SlotMinutes("6pm"), SlotMinutes("9:30pm"))
	assert.Less(t, SlotMinutes("12am"), SlotMinutes("7am"))
	assert.Equal(t, 12*60, SlotMinutes("12pm"))
	assert.Equal(t, 24*60, SlotMinutes("brunch"))
}

func TestBuildActivityMapLatestWriteWins(t *testing.T) {
	early := time.Date(2026, 10, 18, 8, 0, 0, 0, time.UTC)
	late := early.Add(time.Hour)
	records := []models.ActivityRecord{
		{Date: "2026-10-18", ActivityType: "meal-6pm", Completed: false, UpdatedAt: late},
		{Date: "2026-10-18", ActivityType: "6pm", Completed: true, UpdatedAt: early},
		{Date: "2026-10-17", ActivityType: "gym-workout", Completed: true, UpdatedAt: late},
		{Date: "2026-10-18", ActivityType: "bogus", Completed: true, UpdatedAt: late},
	}

	m := BuildActivityMap("2026-10-18", records)
	assert.Equal(t, map[Type]bool{Meal("6pm"): false}, m)

	// Reversed input gives the same answer.
	reversed := []models.ActivityRecord{records[3], records[2], records[1], records[0]}
	assert.Equal(t, m, BuildActivityMap("2026-10-18", reversed))
}

func TestToggleUpdatesOptimisticallyAndPersists(t *testing.T) {
	hist := &fakeHistory{}
	plans := &fakePlans{plans: map[string]models.MealPlan{"2026-10-18": {Date: "2026-10-18"}}}
	s := NewCompletionStore(7, hist, plans, WithClock(fixedClock()))

	require.NoError(t, s.Toggle(context.Background(), "2026-10-18", Meal("6pm"), true))

	assert.Equal(t, map[Type]bool{Meal("6pm"): true}, s.ActivityMap("2026-10-18"))
	require.Len(t, hist.upserts, 1)
	assert.Equal(t, 7, hist.upserts[0].UserID)
	assert.Equal(t, "meal-6pm", hist.upserts[0].ActivityType)
	assert.Empty(t, plans.saved, "existing plan must not be replaced")
}

func TestToggleTwiceIsIdempotent(t *testing.T) {
	s := NewCompletionStore(1, &fakeHistory{}, nil, WithClock(fixedClock()))
	ctx := context.Background()

	require.NoError(t, s.Toggle(ctx, "2026-10-18", Gym, true))
	first := s.ActivityMap("2026-10-18")
	require.NoError(t, s.Toggle(ctx, "2026-10-18", Gym, true))

	assert.Equal(t, first, s.ActivityMap("2026-10-18"))
	assert.Len(t, s.Records("2026-10-18", "2026-10-18"), 1)
}

func TestToggleIsReversible(t *testing.T) {
	s := NewCompletionStore(1, &fakeHistory{}, nil, WithClock(fixedClock()))
	ctx := context.Background()

	require.NoError(t, s.Toggle(ctx, "2026-10-18", Water, true))
	require.NoError(t, s.Toggle(ctx, "2026-10-18", Water, false))
	assert.Equal(t, map[Type]bool{Water: false}, s.ActivityMap("2026-10-18"))
}

func TestToggleFailureKeepsOptimisticEntry(t *testing.T) {
	boom := errors.New("connection reset")
	s := NewCompletionStore(1, &fakeHistory{err: boom}, nil, WithClock(fixedClock()))

	err := s.Toggle(context.Background(), "2026-10-18", Gym, true)
	require.Error(t, err)
	assert.ErrorIs(t, err, boom)
	assert.Equal(t, map[Type]bool{Gym: true}, s.ActivityMap("2026-10-18"))
}

func TestToggleMealWithoutPlanCreatesPlaceholder(t *testing.T) {
	plans := &fakePlans{}
	placeholder := models.SelectedFood{Name: "Oats", Amount: 80}
	s := NewCompletionStore(3, &fakeHistory{}, plans, WithClock(fixedClock()), WithPlaceholderFood(placeholder))

	require.NoError(t, s.Toggle(context.Background(), "2026-10-18", Meal("9:30pm"), true))

	require.Len(t, plans.saved, 1)
	plan := plans.saved[0]
	assert.Equal(t, 3, plan.UserID)
	assert.Equal(t, []models.SelectedFood{placeholder}, plan.Timeslots["9:30pm"].SelectedFoods)
}

func TestToggleMealKeepsExistingPlan(t *testing.T) {
	existing := models.MealPlan{Date: "2026-10-18", Timeslots: map[string]models.Timeslot{
		"6pm": {SelectedFoods: []models.SelectedFood{{Name: "Rice", Amount: 200}}},
	}}
	plans := &fakePlans{plans: map[string]models.MealPlan{"2026-10-18": existing}}
	s := NewCompletionStore(3, &fakeHistory{}, plans, WithClock(fixedClock()))

	require.NoError(t, s.Toggle(context.Background(), "2026-10-18", Meal("9:30pm"), true))
	assert.Empty(t, plans.saved)
	assert.Equal(t, existing, plans.plans["2026-10-18"])
}

func TestTogglePlaceholderFailureIsDistinct(t *testing.T) {
	hist := &fakeHistory{}
	boom := errors.New("disk full")
	s := NewCompletionStore(3, hist, &fakePlans{err: boom}, WithClock(fixedClock()))

	err := s.Toggle(context.Background(), "2026-10-18", Meal("6pm"), true)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrPlaceholderPlan)
	assert.ErrorIs(t, err, boom)
	assert.Len(t, hist.upserts, 1)
}

func TestToggleMealPendingDoesNotCreatePlan(t *testing.T) {
	plans := &fakePlans{}
	s := NewCompletionStore(3, &fakeHistory{}, plans, WithClock(fixedClock()))

	require.NoError(t, s.Toggle(context.Background(), "2026-10-18", Meal("6pm"), false))
	assert.Empty(t, plans.saved)
}

func TestToggleSurvivesCancelledContext(t *testing.T) {
	hist := &fakeHistory{}
	s := NewCompletionStore(1, hist, nil, WithClock(fixedClock()))
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	require.NoError(t, s.Toggle(ctx, "2026-10-18", Finance, true))
	assert.Len(t, hist.upserts, 1)
}

func TestToggleRejectsBadDate(t *testing.T) {
	s := NewCompletionStore(1, &fakeHistory{}, nil)
	assert.Error(t, s.Toggle(context.Background(), "18/10/2026", Gym, true))
}

func TestReconcileReplacesOnlyRange(t *testing.T) {
	s := NewCompletionStore(1, &fakeHistory{}, nil, WithClock(fixedClock()))
	ctx := context.Background()
	require.NoError(t, s.Toggle(ctx, "2026-09-30", Gym, true))
	require.NoError(t, s.Toggle(ctx, "2026-10-02", Gym, true))

	s.Reconcile("2026-10-01", "2026-10-31", []models.ActivityRecord{
		{Date: "2026-10-05", ActivityType: "water", Completed: true},
	})

	all := s.Records("2026-01-01", "2026-12-31")
	require.Len(t, all, 2)
	assert.Equal(t, "2026-09-30", all[0].Date)
	assert.Equal(t, "2026-10-05", all[1].Date)
}

func TestRegistryReusesStores(t *testing.T) {
	built := 0
	r := NewRegistry(func(userID int) *CompletionStore {
		built++
		return NewCompletionStore(userID, &fakeHistory{}, nil)
	})
	assert.Same(t, r.For(1), r.For(1))
	assert.NotSame(t, r.For(1), r.For(2))
	assert.Equal(t, 2, built)
}
