package activity

import "lg/life-dashboard-go-api/internal/models"

// BuildActivityMap folds the history records of one date into
// activity type -> completed. Records for other dates and unknown activity
// types are skipped. When a type has several records the most recently written
// one wins; on an identical timestamp the completed record wins so the result
// never depends on input order.
func BuildActivityMap(date string, records []models.ActivityRecord) map[Type]bool {
	latest := make(map[Type]models.ActivityRecord, len(records))
	for _, r := range records {
		if r.Date != date {
			continue
		}
		t, err := Parse(r.ActivityType)
		if err != nil {
			continue
		}
		prev, seen := latest[t]
		if !seen || newer(r, prev) {
			latest[t] = r
		}
	}

	out := make(map[Type]bool, len(latest))
	for t, r := range latest {
		out[t] = r.Completed
	}
	return out
}

func newer(a, b models.ActivityRecord) bool {
	if !a.UpdatedAt.Equal(b.UpdatedAt) {
		return a.UpdatedAt.After(b.UpdatedAt)
	}
	return a.Completed && !b.Completed
}
