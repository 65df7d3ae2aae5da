// Package stats computes per-module progress, monthly completion and streaks
// over a trailing window of days.
package stats

import (
	"math"
	"sort"

	"lg/life-dashboard-go-api/internal/activity"
	"lg/life-dashboard-go-api/internal/calendar"
	"lg/life-dashboard-go-api/internal/dates"
)

// WindowDays is the length of the trailing window stats are computed over.
const WindowDays = 100

// ActivityData is one module's state on one day.
type ActivityData struct {
	Date      string `json:"date"`
	Completed bool   `json:"completed"`
	Done      int    `json:"done"`
	Total     int    `json:"total"`
}

// ModuleStats is the result of Compute.
type ModuleStats struct {
	TodayProgress     int `json:"todayProgress"`
	MonthlyCompleted  int `json:"monthlyCompleted"`
	MonthlyTotal      int `json:"monthlyTotal"`
	MonthlyPercentage int `json:"monthlyPercentage"`
	CurrentStreak     int `json:"currentStreak"`
	LongestStreak     int `json:"longestStreak"`
}

// Compute derives ModuleStats from a window of days ending on today. Days
// missing from the window count as not completed and break streaks.
func Compute(window []ActivityData, today string) ModuleStats {
	byDate := make(map[string]ActivityData, len(window))
	for _, d := range window {
		byDate[d.Date] = d
	}

	var s ModuleStats
	if d, ok := byDate[today]; ok && d.Total > 0 {
		s.TodayProgress = percent(d.Done, d.Total)
	}

	month := today[:7]
	for _, d := range byDate {
		if len(d.Date) < 7 || d.Date[:7] != month || d.Date > today || d.Total <= 0 {
			continue
		}
		s.MonthlyTotal++
		if d.Completed {
			s.MonthlyCompleted++
		}
	}
	s.MonthlyPercentage = percent(s.MonthlyCompleted, s.MonthlyTotal)

	s.CurrentStreak = currentStreak(byDate, today)
	s.LongestStreak = longestStreak(byDate)
	return s
}

func currentStreak(byDate map[string]ActivityData, today string) int {
	streak := 0
	for key := today; ; {
		d, ok := byDate[key]
		if !ok || !d.Completed {
			return streak
		}
		streak++
		prev, err := dates.AddDays(key, -1)
		if err != nil {
			return streak
		}
		key = prev
	}
}

func longestStreak(byDate map[string]ActivityData) int {
	keys := make([]string, 0, len(byDate))
	for k := range byDate {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	longest, run := 0, 0
	prev := ""
	for _, k := range keys {
		if !byDate[k].Completed {
			run = 0
			prev = k
			continue
		}
		if run > 0 {
			if next, err := dates.AddDays(prev, 1); err != nil || next != k {
				run = 0
			}
		}
		run++
		if run > longest {
			longest = run
		}
		prev = k
	}
	return longest
}

func percent(part, whole int) int {
	if whole <= 0 {
		return 0
	}
	return int(math.Round(float64(part) / float64(whole) * 100))
}

// WindowFromDays projects reconciled days onto one module. Food counts
// completed meals against the expected meal count and is completed when every
// meal is done. The other modules are 0/1 per day: total is 1 when the
// activity is scheduled, done is 1 when it is completed.
func WindowFromDays(kind activity.Kind, days []calendar.CalendarDay) []ActivityData {
	out := make([]ActivityData, 0, len(days))
	for _, day := range days {
		d := ActivityData{Date: day.Date}
		md := day.ModuleData
		switch kind {
		case activity.KindMeal:
			if md.Food != nil {
				d.Done, d.Total = md.Food.CompletedMeals, md.Food.TotalMeals
			}
		case activity.KindGym:
			if md.Gym != nil {
				d.Total = 1
				if md.Gym.Completed {
					d.Done = 1
				}
			}
		case activity.KindFinance:
			if md.Finance != nil {
				d.Total = 1
				if md.Finance.Completed {
					d.Done = 1
				}
			}
		case activity.KindWater:
			if md.Water != nil {
				d.Total = 1
				if md.Water.Completed {
					d.Done = 1
				}
			}
		}
		d.Completed = d.Total > 0 && d.Done >= d.Total
		out = append(out, d)
	}
	return out
}
