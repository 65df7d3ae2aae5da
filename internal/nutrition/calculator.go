// Package nutrition computes macros for catalog foods, validates manually
// entered calories and derives daily calorie targets.
package nutrition

import (
	"math"

	"lg/life-dashboard-go-api/internal/models"
)

// Macro names one of the three calorie-bearing macronutrients.
type Macro string

const (
	Protein Macro = "protein"
	Fats    Macro = "fats"
	Carbs   Macro = "carbs"
)

// caloriesPerGram holds the Atwater factors.
var caloriesPerGram = map[Macro]float64{
	Protein: 4,
	Fats:    9,
	Carbs:   4,
}

// calorieTolerance is the accepted relative gap between manually entered and
// macro-derived calories. Restaurant meals and other external items often
// report calories without a full macro breakdown.
const calorieTolerance = 0.10

// Catalog is a read-only, point-in-time snapshot of the food catalog keyed by name.
type Catalog struct {
	byName map[string]models.Food
}

// NewCatalog indexes foods by name. A later duplicate name replaces an earlier one.
func NewCatalog(foods []models.Food) Catalog {
	byName := make(map[string]models.Food, len(foods))
	for _, f := range foods {
		byName[f.Name] = f
	}
	return Catalog{byName: byName}
}

// Lookup returns the food with the given name, or nil when the catalog no
// longer has it.
func (c Catalog) Lookup(name string) *models.Food {
	f, ok := c.byName[name]
	if !ok {
		return nil
	}
	return &f
}

// SanitizeAmount clamps negative, NaN and infinite input to 0 so bad input
// never turns aggregate totals into NaN.
func SanitizeAmount(v float64) float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) || v < 0 {
		return 0
	}
	return v
}

// ComputeMacros returns the macros for amount of food. Unit foods treat amount
// as an item count; weight foods treat it as grams against a per-100g
// reference. A missing food yields zeros.
func ComputeMacros(food *models.Food, amount float64) models.MacroTotals {
	if food == nil {
		return models.MacroTotals{}
	}
	amount = SanitizeAmount(amount)

	multiplier := amount / 100
	if food.IsUnitFood {
		multiplier = amount
	}
	n := food.Nutrition
	per := models.MacroTotals{
		Protein:  SanitizeAmount(n.Protein),
		Fats:     SanitizeAmount(n.Fats),
		Carbs:    SanitizeAmount(n.Carbs),
		Calories: SanitizeAmount(n.Calories),
	}
	return per.Scale(multiplier)
}

// AggregateMacros sums ComputeMacros over the selected foods. Names missing
// from the catalog contribute nothing.
func AggregateMacros(selected []models.SelectedFood, catalog Catalog) models.MacroTotals {
	var total models.MacroTotals
	for _, sf := range selected {
		total = total.Add(ComputeMacros(catalog.Lookup(sf.Name), sf.Amount))
	}
	return total
}

// TimeslotTotals is the catalog-derived total of a slot plus any externally
// logged nutrition.
func TimeslotTotals(slot models.Timeslot, catalog Catalog) models.MacroTotals {
	external := models.MacroTotals{
		Protein:  SanitizeAmount(slot.ExternalNutrition.Protein),
		Fats:     SanitizeAmount(slot.ExternalNutrition.Fats),
		Carbs:    SanitizeAmount(slot.ExternalNutrition.Carbs),
		Calories: SanitizeAmount(slot.ExternalNutrition.Calories),
	}
	return AggregateMacros(slot.SelectedFoods, catalog).Add(external)
}

// PlanTotals sums TimeslotTotals over every slot of a plan.
func PlanTotals(plan models.MealPlan, catalog Catalog) models.MacroTotals {
	var total models.MacroTotals
	for _, slot := range plan.Timeslots {
		total = total.Add(TimeslotTotals(slot, catalog))
	}
	return total
}

// CaloriesFromMacros returns protein*4 + fats*9 + carbs*4 rounded to the nearest integer.
func CaloriesFromMacros(protein, fats, carbs float64) int {
	raw := SanitizeAmount(protein)*caloriesPerGram[Protein] +
		SanitizeAmount(fats)*caloriesPerGram[Fats] +
		SanitizeAmount(carbs)*caloriesPerGram[Carbs]
	return int(math.Round(raw))
}

// CalorieCheck is the result of ValidateCalories.
type CalorieCheck struct {
	Valid              bool    `json:"valid"`
	CalculatedCalories int     `json:"calculated_calories"`
	Difference         float64 `json:"difference"`
}

// ValidateCalories compares manually entered calories with the macro-derived
// value. It is valid when the relative gap is within 10%. With no macros at
// all, only zero manual calories are valid.
func ValidateCalories(manual, protein, fats, carbs float64) CalorieCheck {
	manual = SanitizeAmount(manual)
	calculated := CaloriesFromMacros(protein, fats, carbs)
	diff := manual - float64(calculated)

	check := CalorieCheck{CalculatedCalories: calculated, Difference: diff}
	if calculated == 0 {
		check.Valid = manual == 0
		return check
	}
	check.Valid = math.Abs(diff)/float64(calculated) <= calorieTolerance
	return check
}

// MacroPercentage returns the share of totalCalories contributed by grams of
// macro, rounded to a whole percent. Zero total calories yields 0.
func MacroPercentage(macro Macro, grams, totalCalories float64) int {
	perGram, ok := caloriesPerGram[macro]
	if !ok || totalCalories <= 0 || math.IsNaN(totalCalories) {
		return 0
	}
	return int(math.Round(SanitizeAmount(grams) * perGram / totalCalories * 100))
}
