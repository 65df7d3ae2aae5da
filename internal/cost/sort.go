package cost

import (
	"fmt"
	"sort"

	"golang.org/x/text/cases"
)

// Column names a sortable field of Row.
type Column string

const (
	ColumnName           Column = "name"
	ColumnQuantity       Column = "quantity"
	ColumnCost           Column = "cost"
	ColumnOccurrences    Column = "occurrences"
	ColumnCalories       Column = "calories"
	ColumnProtein        Column = "protein"
	ColumnFats           Column = "fats"
	ColumnCarbs          Column = "carbs"
	ColumnCostPerProtein Column = "cost_per_protein"
	ColumnCostPerFats    Column = "cost_per_fats"
	ColumnCostPerCarbs   Column = "cost_per_carbs"
)

func floatPtr(v float64) *float64 { return &v }

// numeric extracts the sort key for every column except name. A nil result
// means "no value" and always sorts last.
var numeric = map[Column]func(Row) *float64{
	ColumnQuantity:       func(r Row) *float64 { return floatPtr(r.Quantity) },
	ColumnCost:           func(r Row) *float64 { return r.Cost },
	ColumnOccurrences:    func(r Row) *float64 { return floatPtr(float64(r.Occurrences)) },
	ColumnCalories:       func(r Row) *float64 { return floatPtr(r.Macros.Calories) },
	ColumnProtein:        func(r Row) *float64 { return floatPtr(r.Macros.Protein) },
	ColumnFats:           func(r Row) *float64 { return floatPtr(r.Macros.Fats) },
	ColumnCarbs:          func(r Row) *float64 { return floatPtr(r.Macros.Carbs) },
	ColumnCostPerProtein: func(r Row) *float64 { return r.CostPerProtein },
	ColumnCostPerFats:    func(r Row) *float64 { return r.CostPerFats },
	ColumnCostPerCarbs:   func(r Row) *float64 { return r.CostPerCarbs },
}

// ParseColumn validates a column name from a request.
func ParseColumn(s string) (Column, error) {
	c := Column(s)
	if c == ColumnName {
		return c, nil
	}
	if _, ok := numeric[c]; ok {
		return c, nil
	}
	return "", fmt.Errorf("unknown sort column %q", s)
}

// SortRows sorts rows in place by column. Rows without a value for the column
// go last in both directions. Equal keys fall back to the case-folded name
// ascending, then the raw name, so the output is deterministic.
func SortRows(rows []Row, column Column, descending bool) {
	fold := cases.Fold()
	keys := make(map[string]string, len(rows))
	for _, r := range rows {
		keys[r.Name] = fold.String(r.Name)
	}
	byName := func(a, b Row) bool {
		if keys[a.Name] != keys[b.Name] {
			return keys[a.Name] < keys[b.Name]
		}
		return a.Name < b.Name
	}

	get, isNumeric := numeric[column]
	sort.SliceStable(rows, func(i, j int) bool {
		a, b := rows[i], rows[j]
		if !isNumeric {
			if descending {
				return byName(b, a)
			}
			return byName(a, b)
		}

		va, vb := get(a), get(b)
		switch {
		case va == nil && vb == nil:
			return byName(a, b)
		case va == nil:
			return false
		case vb == nil:
			return true
		case *va != *vb:
			if descending {
				return *va > *vb
			}
			return *va < *vb
		}
		return byName(a, b)
	})
}
