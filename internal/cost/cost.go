// Package cost rolls food consumption up into per-food cost and macro totals.
package cost

import (
	"fmt"
	"math"
	"sort"

	"lg/life-dashboard-go-api/internal/dates"
	"lg/life-dashboard-go-api/internal/models"
	"lg/life-dashboard-go-api/internal/nutrition"
)

// Options configures the cost view.
type Options struct {
	Currency          string
	DefaultWindowDays int
}

// DefaultOptions is used when nothing is configured.
var DefaultOptions = Options{Currency: "EUR", DefaultWindowDays: 30}

// Window is an inclusive range of date keys.
type Window struct {
	From string `json:"start"`
	To   string `json:"end"`
}

// Contains reports whether date falls inside w.
func (w Window) Contains(date string) bool {
	return dates.InRange(date, w.From, w.To)
}

// ResolveWindow fills in missing bounds. A missing end defaults to today and a
// missing start to DefaultWindowDays before the end.
func (o Options) ResolveWindow(start, end, today string) (Window, error) {
	if end == "" {
		end = today
	}
	if !dates.Valid(end) {
		return Window{}, fmt.Errorf("invalid end date %q", end)
	}
	if start == "" {
		days := o.DefaultWindowDays
		if days <= 0 {
			days = DefaultOptions.DefaultWindowDays
		}
		from, _, err := dates.Window(end, days)
		if err != nil {
			return Window{}, err
		}
		start = from
	}
	if !dates.Valid(start) {
		return Window{}, fmt.Errorf("invalid start date %q", start)
	}
	if start > end {
		return Window{}, fmt.Errorf("start %s is after end %s", start, end)
	}
	return Window{From: start, To: end}, nil
}

// ConsumptionRecord is one food eaten on one day.
type ConsumptionRecord struct {
	Date   string
	Name   string
	Amount float64
}

// Row is the rollup for one food over a window. Cost is nil when the food has
// no cost entry. The CostPer* fields are the cost of one gram of that macro and
// are nil when the cost is unknown or the macro total is zero.
type Row struct {
	Name           string             `json:"name"`
	IsUnitFood     bool               `json:"is_unit_food"`
	Quantity       float64            `json:"quantity"`
	Cost           *float64           `json:"cost"`
	Macros         models.MacroTotals `json:"macros"`
	Occurrences    int                `json:"occurrences"`
	CostPerProtein *float64           `json:"cost_per_protein"`
	CostPerFats    *float64           `json:"cost_per_fats"`
	CostPerCarbs   *float64           `json:"cost_per_carbs"`
}

// Report is the result of Aggregate.
type Report struct {
	Window           Window  `json:"window"`
	Rows             []Row   `json:"rows"`
	TotalCost        float64 `json:"total_cost"`
	UnknownCostFoods int     `json:"unknown_cost_foods"`
	Currency         string  `json:"currency,omitempty"`
}

// PortionCost returns the cost of amount of food, or nil when the food is
// missing or has no cost entry. Unit foods cost per item; weight foods are
// priced per kilogram and amount is grams.
func PortionCost(food *models.Food, amount float64) *float64 {
	if food == nil || food.Cost == nil {
		return nil
	}
	amount = nutrition.SanitizeAmount(amount)
	price := nutrition.SanitizeAmount(food.Cost.PerKgOrUnit)

	var c float64
	if food.IsUnitFood {
		c = price * amount
	} else {
		c = price / 1000 * amount
	}
	return &c
}

// RecordsFromPlans flattens the selected foods of every plan into
// consumption records. External nutrition has no food and is skipped.
func RecordsFromPlans(plans []models.MealPlan) []ConsumptionRecord {
	var out []ConsumptionRecord
	for _, p := range plans {
		slots := make([]string, 0, len(p.Timeslots))
		for slot := range p.Timeslots {
			slots = append(slots, slot)
		}
		sort.Strings(slots)
		for _, slot := range slots {
			for _, sf := range p.Timeslots[slot].SelectedFoods {
				out = append(out, ConsumptionRecord{Date: p.Date, Name: sf.Name, Amount: sf.Amount})
			}
		}
	}
	return out
}

// Aggregate groups records inside w by food name and sums quantity, cost,
// macros and occurrences. Rows come back sorted by name.
func Aggregate(records []ConsumptionRecord, catalog nutrition.Catalog, w Window) Report {
	rows := map[string]*Row{}
	var order []string

	for _, rec := range records {
		if !w.Contains(rec.Date) {
			continue
		}
		food := catalog.Lookup(rec.Name)
		amount := nutrition.SanitizeAmount(rec.Amount)

		row, ok := rows[rec.Name]
		if !ok {
			row = &Row{Name: rec.Name}
			if food != nil {
				row.IsUnitFood = food.IsUnitFood
			}
			rows[rec.Name] = row
			order = append(order, rec.Name)
		}

		row.Quantity += amount
		row.Occurrences++
		row.Macros = row.Macros.Add(nutrition.ComputeMacros(food, amount))
		if c := PortionCost(food, amount); c != nil {
			if row.Cost == nil {
				row.Cost = new(float64)
			}
			*row.Cost += *c
		}
	}

	report := Report{Window: w, Rows: make([]Row, 0, len(order))}
	for _, name := range order {
		row := rows[name]
		if row.Cost == nil {
			report.UnknownCostFoods++
		} else {
			report.TotalCost += *row.Cost
			row.CostPerProtein = perGram(*row.Cost, row.Macros.Protein)
			row.CostPerFats = perGram(*row.Cost, row.Macros.Fats)
			row.CostPerCarbs = perGram(*row.Cost, row.Macros.Carbs)
		}
		report.Rows = append(report.Rows, *row)
	}
	SortRows(report.Rows, ColumnName, false)
	return report
}

func perGram(cost, grams float64) *float64 {
	if grams <= 0 || math.IsNaN(grams) {
		return nil
	}
	v := cost / grams
	return &v
}
