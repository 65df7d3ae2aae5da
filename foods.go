package main

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"lg/life-dashboard-go-api/internal/models"
	"lg/life-dashboard-go-api/internal/nutrition"
)

// getFoods returns the user's food catalog ordered by name.
// GET /api/foods.
func (h *Handler) getFoods(c *gin.Context) {
	userID := c.GetInt("user_id")

	foods, err := h.db.ListFoods(c, userID)
	if err != nil {
		apiError(c, http.StatusInternalServerError, "failed to fetch foods")
		return
	}
	if foods == nil {
		foods = []models.Food{}
	}

	c.JSON(http.StatusOK, foods)
}

// upsertFood creates a catalog entry or replaces the one with the same name.
// POST /api/foods. A cost unit must match the food kind: "unit" for unit
// foods, "kg" for weight foods.
func (h *Handler) upsertFood(c *gin.Context) {
	userID := c.GetInt("user_id")

	var body upsertFoodRequest
	if err := c.ShouldBindJSON(&body); err != nil {
		apiError(c, http.StatusBadRequest, "invalid request body")
		return
	}
	name := strings.TrimSpace(body.Name)
	if name == "" {
		apiError(c, http.StatusBadRequest, "name is required")
		return
	}
	n := body.Nutrition
	for _, v := range []float64{n.Protein, n.Fats, n.Carbs, n.Calories} {
		if nutrition.SanitizeAmount(v) != v {
			apiError(c, http.StatusBadRequest, "nutrition values must be non-negative numbers")
			return
		}
	}
	if body.Cost != nil {
		want := models.CostPerKg
		if body.IsUnitFood {
			want = models.CostPerUnit
		}
		if body.Cost.Unit == "" {
			body.Cost.Unit = want
		}
		if body.Cost.Unit != want {
			apiError(c, http.StatusBadRequest, "cost unit must be "+string(want)+" for this food")
			return
		}
		if nutrition.SanitizeAmount(body.Cost.PerKgOrUnit) != body.Cost.PerKgOrUnit {
			apiError(c, http.StatusBadRequest, "cost must be a non-negative number")
			return
		}
	}

	food, err := h.db.UpsertFood(c, models.Food{
		UserID:     userID,
		Name:       name,
		Nutrition:  n,
		IsUnitFood: body.IsUnitFood,
		Cost:       body.Cost,
	})
	if err != nil {
		apiError(c, http.StatusInternalServerError, "failed to save food")
		return
	}
	h.app.Aggregator.Invalidate()

	c.JSON(http.StatusOK, food)
}

// deleteFood removes a catalog entry. Plans that reference it keep the name;
// the food then contributes zero macros and unknown cost.
// DELETE /api/foods/:id.
func (h *Handler) deleteFood(c *gin.Context) {
	userID := c.GetInt("user_id")

	if err := h.db.DeleteFood(c, userID, c.Param("id")); err != nil {
		storeError(c, err, "failed to delete food")
		return
	}
	h.app.Aggregator.Invalidate()

	c.Status(http.StatusNoContent)
}
