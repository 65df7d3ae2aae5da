package cost

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"lg/life-dashboard-go-api/internal/models"
	"lg/life-dashboard-go-api/internal/nutrition"
)

func testCatalog() nutrition.Catalog {
	return nutrition.NewCatalog([]models.Food{
		{
			Name:       "Eggs",
			Nutrition:  models.MacroTotals{Protein: 7.5, Fats: 6.2, Carbs: 0.7, Calories: 90},
			IsUnitFood: true,
			Cost:       &models.FoodCost{PerKgOrUnit: 0.20, Unit: models.CostPerUnit},
		},
		{
			Name:      "Dry rice",
			Nutrition: models.MacroTotals{Protein: 7, Fats: 0.6, Carbs: 78, Calories: 360},
			Cost:      &models.FoodCost{PerKgOrUnit: 2.40, Unit: models.CostPerKg},
		},
		{
			Name:      "olive oil",
			Nutrition: models.MacroTotals{Fats: 100, Calories: 900},
			Cost:      &models.FoodCost{PerKgOrUnit: 9, Unit: models.CostPerKg},
		},
		{
			Name:      "Garden herbs",
			Nutrition: models.MacroTotals{Protein: 3, Fats: 0.5, Carbs: 5, Calories: 40},
		},
	})
}

func TestPortionCostUnitFood(t *testing.T) {
	c := testCatalog()
	got := PortionCost(c.Lookup("Eggs"), 3)
	require.NotNil(t, got)
	assert.InDelta(t, 0.60, *got, 1e-9)
}

func TestPortionCostWeightFood(t *testing.T) {
	c := testCatalog()
	got := PortionCost(c.Lookup("Dry rice"), 250)
	require.NotNil(t, got)
	assert.InDelta(t, 0.60, *got, 1e-9)
}

func TestPortionCostUnknownIsNilNotZero(t *testing.T) {
	c := testCatalog()
	assert.Nil(t, PortionCost(c.Lookup("Garden herbs"), 100))
	assert.Nil(t, PortionCost(c.Lookup("Nope"), 100))

	free := models.Food{Name: "Tap water", Cost: &models.FoodCost{PerKgOrUnit: 0, Unit: models.CostPerKg}}
	got := PortionCost(&free, 500)
	require.NotNil(t, got)
	assert.Zero(t, *got)
}

func TestPortionCostRejectsNegativeAmounts(t *testing.T) {
	c := testCatalog()
	got := PortionCost(c.Lookup("Eggs"), -4)
	require.NotNil(t, got)
	assert.Zero(t, *got)
}

func TestAggregateGroupsByFoodWithinWindow(t *testing.T) {
	records := []ConsumptionRecord{
		{Date: "2026-10-01", Name: "Eggs", Amount: 3},
		{Date: "2026-10-02", Name: "Eggs", Amount: 2},
		{Date: "2026-10-02", Name: "Dry rice", Amount: 250},
		{Date: "2026-10-03", Name: "Garden herbs", Amount: 10},
		{Date: "2026-09-30", Name: "Eggs", Amount: 12},
		{Date: "2026-11-01", Name: "Dry rice", Amount: 1000},
	}
	r := Aggregate(records, testCatalog(), Window{From: "2026-10-01", To: "2026-10-31"})

	require.Len(t, r.Rows, 3)
	byName := map[string]Row{}
	for _, row := range r.Rows {
		byName[row.Name] = row
	}

	eggs := byName["Eggs"]
	assert.Equal(t, 2, eggs.Occurrences)
	assert.InDelta(t, 5, eggs.Quantity, 1e-9)
	require.NotNil(t, eggs.Cost)
	assert.InDelta(t, 1.0, *eggs.Cost, 1e-9)
	assert.InDelta(t, 37.5, eggs.Macros.Protein, 1e-9)
	assert.True(t, eggs.IsUnitFood)

	herbs := byName["Garden herbs"]
	assert.Nil(t, herbs.Cost)
	assert.Nil(t, herbs.CostPerProtein)

	assert.InDelta(t, 1.6, r.TotalCost, 1e-9)
	assert.Equal(t, 1, r.UnknownCostFoods)
}

func TestAggregateCostPerMacroNilWhenMacroIsZero(t *testing.T) {
	r := Aggregate([]ConsumptionRecord{{Date: "2026-10-01", Name: "olive oil", Amount: 10}},
		testCatalog(), Window{From: "2026-10-01", To: "2026-10-01"})
	require.Len(t, r.Rows, 1)
	oil := r.Rows[0]
	assert.Nil(t, oil.CostPerProtein)
	assert.Nil(t, oil.CostPerCarbs)
	require.NotNil(t, oil.CostPerFats)
	assert.InDelta(t, 0.009, *oil.CostPerFats, 1e-9)
}

func TestAggregateUnknownFoodHasZeroMacros(t *testing.T) {
	r := Aggregate([]ConsumptionRecord{{Date: "2026-10-01", Name: "Deleted", Amount: 100}},
		testCatalog(), Window{From: "2026-10-01", To: "2026-10-01"})
	require.Len(t, r.Rows, 1)
	assert.Equal(t, models.MacroTotals{}, r.Rows[0].Macros)
	assert.Nil(t, r.Rows[0].Cost)
}

func TestRecordsFromPlans(t *testing.T) {
	plans := []models.MealPlan{{
		Date: "2026-10-18",
		Timeslots: map[string]models.Timeslot{
			"9:30pm": {SelectedFoods: []models.SelectedFood{{Name: "Dry rice", Amount: 250}}},
			"6pm": {
				SelectedFoods:     []models.SelectedFood{{Name: "Eggs", Amount: 3}},
				ExternalNutrition: models.MacroTotals{Calories: 200},
			},
		},
	}}
	got := RecordsFromPlans(plans)
	assert.Equal(t, []ConsumptionRecord{
		{Date: "2026-10-18", Name: "Eggs", Amount: 3},
		{Date: "2026-10-18", Name: "Dry rice", Amount: 250},
	}, got)
}

func names(rows []Row) []string {
	out := make([]string, len(rows))
	for i, r := range rows {
		out[i] = r.Name
	}
	return out
}

func sortFixture() []Row {
	return []Row{
		{Name: "banana", Cost: floatPtr(2)},
		{Name: "Apple", Cost: nil},
		{Name: "cherry", Cost: floatPtr(1)},
		{Name: "apple", Cost: floatPtr(2)},
		{Name: "Date", Cost: nil},
	}
}

func TestSortRowsNilsLastInBothDirections(t *testing.T) {
	rows := sortFixture()
	SortRows(rows, ColumnCost, false)
	assert.Equal(t, []string{"cherry", "apple", "banana", "Apple", "Date"}, names(rows))

	rows = sortFixture()
	SortRows(rows, ColumnCost, true)
	assert.Equal(t, []string{"apple", "banana", "cherry", "Apple", "Date"}, names(rows))
}

func TestSortRowsIsDeterministicForAnyInputOrder(t *testing.T) {
	a := sortFixture()
	b := []Row{a[4], a[3], a[2], a[1], a[0]}
	SortRows(a, ColumnCost, true)
	SortRows(b, ColumnCost, true)
	assert.Equal(t, names(a), names(b))
}

func TestSortRowsByName(t *testing.T) {
	rows := sortFixture()
	SortRows(rows, ColumnName, false)
	assert.Equal(t, []string{"Apple", "apple", "banana", "cherry", "Date"}, names(rows))
}

func TestParseColumn(t *testing.T) {
	c, err := ParseColumn("cost_per_protein")
	require.NoError(t, err)
	assert.Equal(t, ColumnCostPerProtein, c)

	_, err = ParseColumn("price")
	assert.Error(t, err)
}

func TestResolveWindowDefaults(t *testing.T) {
	w, err := Options{DefaultWindowDays: 7}.ResolveWindow("", "", "2026-10-18")
	require.NoError(t, err)
	assert.Equal(t, Window{From: "2026-10-12", To: "2026-10-18"}, w)

	_, err = DefaultOptions.ResolveWindow("2026-10-20", "2026-10-18", "2026-10-18")
	assert.Error(t, err)

	_, err = DefaultOptions.ResolveWindow("bad", "", "2026-10-18")
	assert.Error(t, err)
}
