package cli

import (
	"bytes"
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"lg/life-dashboard-go-api/internal/app"
	"lg/life-dashboard-go-api/internal/config"
	"lg/life-dashboard-go-api/internal/cost"
	"lg/life-dashboard-go-api/internal/models"
	"lg/life-dashboard-go-api/internal/store"
	"lg/life-dashboard-go-api/internal/store/sqlite"
)

var testNow = time.Date(2026, 10, 18, 9, 0, 0, 0, time.UTC)

// testEnv wires an Env over a temp-dir SQLite store with user "lyle".
func testEnv(t *testing.T) (*Env, store.Store, int) {
	t.Helper()
	db, err := sqlite.Open(filepath.Join(t.TempDir(), "cli.db"))
	require.NoError(t, err)
	t.Cleanup(db.Close)

	u, err := db.CreateUser(context.Background(), models.User{Username: "lyle", AuthToken: "tok", Password: "x"})
	require.NoError(t, err)

	cfg := &config.Config{
		StoreDriver: config.DriverSQLite,
		MealSlots:   []string{"6pm", "9:30pm"},
		Placeholder: models.SelectedFood{Name: "Quick meal", Amount: 1},
		Cost:        cost.DefaultOptions,
	}
	env := &Env{
		App:   app.New(db, cfg),
		Now:   func() time.Time { return testNow },
		Plain: true,
	}
	return env, db, u.ID
}

// executeCmd runs a cobra command and captures stdout/stderr.
func executeCmd(t *testing.T, env *Env, args ...string) (string, error) {
	t.Helper()
	root := NewRootCmd(env)
	buf := new(bytes.Buffer)
	root.SetOut(buf)
	root.SetErr(buf)
	root.SetArgs(args)
	err := root.Execute()
	return buf.String(), err
}

func TestRootCmd_RequiresUser(t *testing.T) {
	env, _, _ := testEnv(t)

	_, err := executeCmd(t, env, "calendar")
	assert.ErrorContains(t, err, "--user")

	_, err = executeCmd(t, env, "calendar", "--user", "nobody")
	assert.ErrorContains(t, err, `no user "nobody"`)
}

func TestCalendarCmd_ListsScheduledDays(t *testing.T) {
	env, db, userID := testEnv(t)
	ctx := context.Background()
	_, err := db.SaveScheduledActivities(ctx, models.ScheduledActivities{UserID: userID, Date: "2026-10-18", Tasks: []string{"meal-6pm", "water"}})
	require.NoError(t, err)

	out, err := executeCmd(t, env, "calendar", "-u", "lyle", "--year", "2026", "--month", "10")
	require.NoError(t, err)
	assert.Contains(t, out, "2026-10-18 *")
	assert.Contains(t, out, "· 6pm Meal")
	assert.Contains(t, out, "· Water")
}

func TestCalendarCmd_EmptyMonth(t *testing.T) {
	env, _, _ := testEnv(t)

	out, err := executeCmd(t, env, "calendar", "-u", "lyle", "--year", "2026", "--month", "2")
	require.NoError(t, err)
	assert.Contains(t, out, "Nothing scheduled in 2026-02.")

	_, err = executeCmd(t, env, "calendar", "-u", "lyle", "--month", "13")
	assert.Error(t, err)
}

func TestToggleCmd_ThenDayShowsCompleted(t *testing.T) {
	env, _, _ := testEnv(t)

	out, err := executeCmd(t, env, "toggle", "-u", "lyle", "2026-10-17", "9:30pm")
	require.NoError(t, err)
	assert.Contains(t, out, "✓ meal-9:30pm")

	out, err = executeCmd(t, env, "day", "-u", "lyle", "2026-10-17")
	require.NoError(t, err)
	assert.Contains(t, out, "✓ 9:30pm Meal")
	assert.Contains(t, out, "meals 1/2")

	out, err = executeCmd(t, env, "toggle", "-u", "lyle", "2026-10-17", "meal-9:30pm", "--pending")
	require.NoError(t, err)
	assert.Contains(t, out, "· meal-9:30pm")
}

func TestToggleCmd_RejectsUnknownActivity(t *testing.T) {
	env, _, _ := testEnv(t)

	_, err := executeCmd(t, env, "toggle", "-u", "lyle", "2026-10-17", "nap")
	assert.Error(t, err)
	_, err = executeCmd(t, env, "toggle", "-u", "lyle", "17/10/2026", "gym")
	assert.Error(t, err)
}

func TestStatsCmd(t *testing.T) {
	env, db, userID := testEnv(t)
	ctx := context.Background()
	for _, date := range []string{"2026-10-17", "2026-10-18"} {
		_, err := db.SaveScheduledActivities(ctx, models.ScheduledActivities{UserID: userID, Date: date, Tasks: []string{"gym-workout"}})
		require.NoError(t, err)
		_, err = executeCmd(t, env, "toggle", "-u", "lyle", date, "gym")
		require.NoError(t, err)
	}

	out, err := executeCmd(t, env, "stats", "-u", "lyle", "gym")
	require.NoError(t, err)
	assert.Contains(t, out, "100%")
	assert.Contains(t, out, "2/2 (100%)")
	assert.Contains(t, out, "2 days")

	_, err = executeCmd(t, env, "stats", "-u", "lyle", "sleep")
	assert.Error(t, err)
}

func TestCostsCmd(t *testing.T) {
	env, db, userID := testEnv(t)
	ctx := context.Background()
	_, err := db.UpsertFood(ctx, models.Food{
		UserID:    userID,
		Name:      "Oats",
		Nutrition: models.MacroTotals{Protein: 13, Fats: 7, Carbs: 60, Calories: 370},
		Cost:      &models.FoodCost{PerKgOrUnit: 3, Unit: models.CostPerKg},
	})
	require.NoError(t, err)
	_, err = db.SaveMealPlan(ctx, models.MealPlan{UserID: userID, Date: "2026-10-10", Timeslots: map[string]models.Timeslot{
		"6pm": {SelectedFoods: []models.SelectedFood{{Name: "Oats", Amount: 100}, {Name: "Mystery", Amount: 20}}},
	}})
	require.NoError(t, err)

	out, err := executeCmd(t, env, "costs", "-u", "lyle", "--sort", "cost", "--desc")
	require.NoError(t, err)
	assert.Contains(t, out, "Oats")
	assert.Contains(t, out, "0.30 EUR")
	assert.Contains(t, out, "(1 foods without a price)")

	_, err = executeCmd(t, env, "costs", "-u", "lyle", "--sort", "price")
	assert.Error(t, err)
}

func TestPrinterTableAlignsColumns(t *testing.T) {
	p := printer{plain: true}
	out := p.table([]string{"A", "B"}, [][]string{{"long cell", "x"}, {"s", "y"}})
	assert.Equal(t, "A          B\n─────────  ─\nlong cell  x\ns          y\n", out)
}
