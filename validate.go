package main

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"lg/life-dashboard-go-api/internal/nutrition"
)

// validateCalories checks manually entered calories against the macros.
// POST /api/nutrition/validate-calories. Body: { calories, protein, fats, carbs }.
// Valid when within 10% of protein*4 + fats*9 + carbs*4.
func (h *Handler) validateCalories(c *gin.Context) {
	var body validateCaloriesRequest
	if err := c.ShouldBindJSON(&body); err != nil {
		apiError(c, http.StatusBadRequest, "invalid request body")
		return
	}

	check := nutrition.ValidateCalories(body.Calories, body.Protein, body.Fats, body.Carbs)
	total := float64(check.CalculatedCalories)
	c.JSON(http.StatusOK, calorieCheckResponse{
		CalorieCheck: check,
		ProteinPct:   nutrition.MacroPercentage(nutrition.Protein, body.Protein, total),
		FatsPct:      nutrition.MacroPercentage(nutrition.Fats, body.Fats, total),
		CarbsPct:     nutrition.MacroPercentage(nutrition.Carbs, body.Carbs, total),
	})
}
