package api

import (
	"errors"
	"gymlog/backend/internal/service"
	"net/http"

	"github.com/gin-gonic/gin"
)

// NutritionHandler holds the nutrition lookup service dependency.
type NutritionHandler struct {
	nutritionService service.NutritionService
}

// NewNutritionHandler creates a new NutritionHandler.
func NewNutritionHandler(nutritionService service.NutritionService) *NutritionHandler {
	return &NutritionHandler{nutritionService: nutritionService}
}

// SearchFood godoc
// @Summary Search the food nutrition database
// @Description Stateless pass-through to the upstream food database; returns
// @Description at most ten hits.
// @Tags Nutrition
// @Produce json
// @Security BearerAuth
// @Param food query string true "Food name substring"
// @Success 200 {array} service.FoodNutrition
// @Failure 400 {object} gin.H "Missing food parameter"
// @Failure 502 {object} gin.H "Upstream lookup failed"
// @Router /nutrition/search [get]
func (h *NutritionHandler) SearchFood(c *gin.Context) {
	food := c.Query("food")
	if food == "" {
		abortWithError(c, http.StatusBadRequest, "Query parameter 'food' is required.")
		return
	}

	results, err := h.nutritionService.SearchFood(c.Request.Context(), food)
	if err != nil {
		if errors.Is(err, service.ErrNutritionLookupFailed) {
			abortWithError(c, http.StatusBadGateway, "Food database lookup failed.")
		} else {
			abortWithError(c, http.StatusInternalServerError, "An unexpected error occurred.")
		}
		return
	}
	c.JSON(http.StatusOK, results)
}
