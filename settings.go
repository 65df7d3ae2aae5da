package main

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"lg/life-dashboard-go-api/internal/dates"
	"lg/life-dashboard-go-api/internal/nutrition"
)

// getSettings returns the nutrition settings for the authenticated user.
// Computed fields (bmr, tdee, budget, pace) are populated when all profile
// fields are present.
// GET /api/settings.
func (h *Handler) getSettings(c *gin.Context) {
	userID := c.GetInt("user_id")

	s, err := h.db.GetNutritionSettings(c, userID)
	if err != nil {
		apiError(c, http.StatusNotFound, "settings not found")
		return
	}

	nutrition.PopulateComputed(&s, h.now())

	c.JSON(http.StatusOK, s)
}

// patchSettings updates only the provided settings fields.
// PATCH /api/settings. Pointer fields in the request body distinguish "not
// provided" from zero. When budget_auto is true after the update, the
// calorie_budget is overwritten with the TDEE-derived value if the profile is
// complete.
func (h *Handler) patchSettings(c *gin.Context) {
	userID := c.GetInt("user_id")

	var body patchSettingsRequest
	if err := c.ShouldBindJSON(&body); err != nil {
		apiError(c, http.StatusBadRequest, "invalid request body")
		return
	}

	// An unknown level would silently break every future auto-budget calculation.
	if body.ActivityLevel != nil {
		if _, ok := nutrition.ActivityMultipliers[*body.ActivityLevel]; !ok {
			apiError(c, http.StatusBadRequest, "activity_level must be one of: sedentary, light, moderate, active, very_active")
			return
		}
	}
	if body.Sex != nil && *body.Sex != "male" && *body.Sex != "female" {
		apiError(c, http.StatusBadRequest, "sex must be male or female")
		return
	}
	for name, v := range map[string]*string{"date_of_birth": body.DateOfBirth, "target_date": body.TargetDate} {
		if v != nil && !dates.Valid(*v) {
			apiError(c, http.StatusBadRequest, "invalid "+name+", expected YYYY-MM-DD")
			return
		}
	}
	for name, v := range map[string]*int{
		"calorie_budget":   body.CalorieBudget,
		"protein_target_g": body.ProteinTargetG,
		"carbs_target_g":   body.CarbsTargetG,
		"fat_target_g":     body.FatTargetG,
	} {
		if v != nil && *v < 0 {
			apiError(c, http.StatusBadRequest, name+" must not be negative")
			return
		}
	}

	s, err := h.db.GetNutritionSettings(c, userID)
	if err != nil {
		apiError(c, http.StatusNotFound, "settings not found")
		return
	}

	changed := false
	setInt := func(dst *int, v *int) {
		if v != nil {
			*dst, changed = *v, true
		}
	}
	setBool := func(dst *bool, v *bool) {
		if v != nil {
			*dst, changed = *v, true
		}
	}
	setString := func(dst **string, v *string) {
		if v != nil {
			*dst, changed = v, true
		}
	}
	setFloat := func(dst **float64, v *float64) {
		if v != nil {
			*dst, changed = v, true
		}
	}
	setInt(&s.CalorieBudget, body.CalorieBudget)
	setInt(&s.ProteinTargetG, body.ProteinTargetG)
	setInt(&s.CarbsTargetG, body.CarbsTargetG)
	setInt(&s.FatTargetG, body.FatTargetG)
	setString(&s.Sex, body.Sex)
	setString(&s.DateOfBirth, body.DateOfBirth)
	setFloat(&s.HeightCM, body.HeightCM)
	setFloat(&s.WeightKG, body.WeightKG)
	setString(&s.ActivityLevel, body.ActivityLevel)
	setFloat(&s.TargetWeightKG, body.TargetWeightKG)
	setString(&s.TargetDate, body.TargetDate)
	setBool(&s.BudgetAuto, body.BudgetAuto)
	setBool(&s.SetupComplete, body.SetupComplete)

	if !changed {
		apiError(c, http.StatusBadRequest, "no fields to update")
		return
	}

	// With budget_auto on, the TDEE-derived budget replaces the stored one.
	if s.BudgetAuto {
		if t, ok := nutrition.ComputeTargets(&s, h.now()); ok {
			s.CalorieBudget = t.Budget
		}
	}

	saved, err := h.db.SaveNutritionSettings(c, s)
	if err != nil {
		apiError(c, http.StatusInternalServerError, "failed to update settings")
		return
	}

	nutrition.PopulateComputed(&saved, h.now())

	c.JSON(http.StatusOK, saved)
}
