package nutrition

import (
	"math"
	"time"

	"lg/life-dashboard-go-api/internal/dates"
	"lg/life-dashboard-go-api/internal/models"
)

// ActivityMultipliers maps activity level strings to their TDEE multiplier.
// This is the single source of truth for valid activity levels; the settings
// handler validates against it too.
var ActivityMultipliers = map[string]float64{
	"sedentary":   1.2,
	"light":       1.375,
	"moderate":    1.55,
	"active":      1.725,
	"very_active": 1.9,
}

const (
	// kcalPerKgFat is the energy deficit that corresponds to one kilogram of body fat.
	kcalPerKgFat = 7700
	maxPaceKg    = 1.0
	minPaceKg    = 0.1
)

// Targets is the result of ComputeTargets.
type Targets struct {
	BMR           int
	TDEE          int
	Budget        int
	PaceKgPerWeek float64
}

// ComputeTargets computes BMR (Mifflin-St Jeor), TDEE, a suggested daily
// calorie budget and the weekly weight-loss pace from the profile fields.
// Returns ok=false when a required field is missing, the target date is not
// in the future, the activity level is unknown or the age is implausible.
func ComputeTargets(s *models.NutritionSettings, now time.Time) (Targets, bool) {
	if s.Sex == nil || s.DateOfBirth == nil || s.HeightCM == nil ||
		s.WeightKG == nil || s.ActivityLevel == nil ||
		s.TargetWeightKG == nil || s.TargetDate == nil {
		return Targets{}, false
	}

	dob, err := dates.Parse(*s.DateOfBirth, now.Location())
	if err != nil {
		return Targets{}, false
	}
	target, err := dates.Parse(*s.TargetDate, now.Location())
	if err != nil {
		return Targets{}, false
	}

	age := now.Year() - dob.Year()
	if now.Before(dob.AddDate(age, 0, 0)) {
		age--
	}
	if age < 0 || age > 130 {
		return Targets{}, false
	}

	bmrF := 10**s.WeightKG + 6.25**s.HeightCM - 5*float64(age)
	if *s.Sex == "male" {
		bmrF += 5
	} else {
		bmrF -= 161
	}

	mult, found := ActivityMultipliers[*s.ActivityLevel]
	if !found {
		return Targets{}, false
	}
	tdeeF := bmrF * mult

	weeksUntil := target.Sub(now).Hours() / 24 / 7
	if weeksUntil <= 0 {
		return Targets{}, false
	}
	pace := (*s.WeightKG - *s.TargetWeightKG) / weeksUntil
	if pace > maxPaceKg {
		pace = maxPaceKg
	}
	if pace < minPaceKg {
		pace = minPaceKg
	}

	budgetF := tdeeF - pace*kcalPerKgFat/7
	return Targets{
		BMR:           int(math.Round(bmrF)),
		TDEE:          int(math.Round(tdeeF)),
		Budget:        int(math.Round(budgetF)),
		PaceKgPerWeek: pace,
	}, true
}

// PopulateComputed fills the computed-only fields on s. No-op when the
// profile is incomplete.
func PopulateComputed(s *models.NutritionSettings, now time.Time) {
	t, ok := ComputeTargets(s, now)
	if !ok {
		return
	}
	s.ComputedBMR = &t.BMR
	s.ComputedTDEE = &t.TDEE
	s.ComputedBudget = &t.Budget
	s.PaceKgPerWeek = &t.PaceKgPerWeek
}
