package api

import (
	"errors"
	"fmt"
	"gymlog/backend/internal/domain"
	"gymlog/backend/internal/service"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// MealHandler holds the meal service dependency.
type MealHandler struct {
	mealService service.MealService
}

// NewMealHandler creates a new MealHandler.
func NewMealHandler(mealService service.MealService) *MealHandler {
	return &MealHandler{mealService: mealService}
}

// --- DTOs for API (Data Transfer Objects) ---

// MealRequest defines the expected JSON for logging or updating a meal.
type MealRequest struct {
	Date     string  `json:"date" binding:"required"`
	MealType string  `json:"mealType" binding:"required,oneof=breakfast lunch dinner snack"`
	Name     string  `json:"name" binding:"required"`
	Calories float64 `json:"calories" binding:"required,gte=0"`
	Protein  float64 `json:"protein" binding:"omitempty,gte=0"`
	Carbs    float64 `json:"carbs" binding:"omitempty,gte=0"`
	Fat      float64 `json:"fat" binding:"omitempty,gte=0"`
}

// MealResponse is the DTO for one logged meal.
type MealResponse struct {
	ID       string  `json:"id"`
	Date     string  `json:"date"`
	MealType string  `json:"mealType"`
	Name     string  `json:"name"`
	Calories float64 `json:"calories"`
	Protein  float64 `json:"protein,omitempty"`
	Carbs    float64 `json:"carbs,omitempty"`
	Fat      float64 `json:"fat,omitempty"`
}

// MapMealToResponse converts a domain.Meal to its DTO.
func MapMealToResponse(meal *domain.Meal) MealResponse {
	if meal == nil {
		return MealResponse{}
	}
	return MealResponse{
		ID:       meal.ID.Hex(),
		Date:     meal.Date,
		MealType: string(meal.MealType),
		Name:     meal.Name,
		Calories: meal.Calories,
		Protein:  meal.Protein,
		Carbs:    meal.Carbs,
		Fat:      meal.Fat,
	}
}

// MealOptionRequest defines the JSON for saving a meal preset.
type MealOptionRequest struct {
	Name     string  `json:"name" binding:"required"`
	Calories float64 `json:"calories" binding:"required,gte=0"`
	Protein  float64 `json:"protein" binding:"omitempty,gte=0"`
	Carbs    float64 `json:"carbs" binding:"omitempty,gte=0"`
	Fat      float64 `json:"fat" binding:"omitempty,gte=0"`
}

// MealOptionResponse is the DTO for one meal preset.
type MealOptionResponse struct {
	ID       string  `json:"id"`
	Name     string  `json:"name"`
	Calories float64 `json:"calories"`
	Protein  float64 `json:"protein,omitempty"`
	Carbs    float64 `json:"carbs,omitempty"`
	Fat      float64 `json:"fat,omitempty"`
}

// DailyTargetRequest defines the JSON for setting a day's goals.
type DailyTargetRequest struct {
	Date       string  `json:"date" binding:"required"`
	Calories   float64 `json:"calories" binding:"omitempty,gte=0"`
	Protein    float64 `json:"protein" binding:"omitempty,gte=0"`
	Carbs      float64 `json:"carbs" binding:"omitempty,gte=0"`
	Fat        float64 `json:"fat" binding:"omitempty,gte=0"`
	VolumeLoad float64 `json:"volumeLoad" binding:"omitempty,gte=0"`
}

// DailyTargetResponse is the DTO for one day's goals.
type DailyTargetResponse struct {
	ID         string  `json:"id"`
	Date       string  `json:"date"`
	Calories   float64 `json:"calories,omitempty"`
	Protein    float64 `json:"protein,omitempty"`
	Carbs      float64 `json:"carbs,omitempty"`
	Fat        float64 `json:"fat,omitempty"`
	VolumeLoad float64 `json:"volumeLoad,omitempty"`
}

// MapTargetToResponse converts a domain.DailyTarget to its DTO.
func MapTargetToResponse(target *domain.DailyTarget) DailyTargetResponse {
	if target == nil {
		return DailyTargetResponse{}
	}
	return DailyTargetResponse{
		ID:         target.ID.Hex(),
		Date:       target.Date,
		Calories:   target.Calories,
		Protein:    target.Protein,
		Carbs:      target.Carbs,
		Fat:        target.Fat,
		VolumeLoad: target.VolumeLoad,
	}
}

// --- Handler Methods ---

// LogMeal godoc
// @Summary Log a meal
// @Tags Meals
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param meal body MealRequest true "Meal details"
// @Success 201 {object} MealResponse
// @Failure 400 {object} gin.H "Invalid input"
// @Router /meals [post]
func (h *MealHandler) LogMeal(c *gin.Context) {
	var req MealRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, fmt.Sprintf("Validation error: %v", err))
		return
	}

	userID, err := getUserIDFromContext(c)
	if err != nil {
		abortWithError(c, http.StatusUnauthorized, "Unable to identify user from token.")
		return
	}

	meal, err := h.mealService.LogMeal(c.Request.Context(), userID, req.Date, domain.MealType(req.MealType), req.Name, req.Calories, req.Protein, req.Carbs, req.Fat)
	if err != nil {
		handleMealServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, MapMealToResponse(meal))
}

// GetMealsByDate godoc
// @Summary List meals for a day
// @Tags Meals
// @Produce json
// @Security BearerAuth
// @Param date query string true "Day in YYYY-MM-DD form"
// @Success 200 {array} MealResponse
// @Router /meals [get]
func (h *MealHandler) GetMealsByDate(c *gin.Context) {
	userID, err := getUserIDFromContext(c)
	if err != nil {
		abortWithError(c, http.StatusUnauthorized, "Unable to identify user from token.")
		return
	}

	meals, err := h.mealService.GetMealsByDate(c.Request.Context(), userID, c.Query("date"))
	if err != nil {
		handleMealServiceError(c, err)
		return
	}
	responses := make([]MealResponse, len(meals))
	for i := range meals {
		responses[i] = MapMealToResponse(&meals[i])
	}
	c.JSON(http.StatusOK, responses)
}

// UpdateMeal godoc
// @Summary Update a logged meal
// @Tags Meals
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param mealId path string true "Meal ID"
// @Param meal body MealRequest true "Updated meal details"
// @Success 200 {object} MealResponse
// @Failure 404 {object} gin.H "Meal not found"
// @Router /meals/{mealId} [put]
func (h *MealHandler) UpdateMeal(c *gin.Context) {
	var req MealRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, fmt.Sprintf("Validation error: %v", err))
		return
	}

	userID, err := getUserIDFromContext(c)
	if err != nil {
		abortWithError(c, http.StatusUnauthorized, "Unable to identify user from token.")
		return
	}
	mealID, err := primitive.ObjectIDFromHex(c.Param("mealId"))
	if err != nil {
		abortWithError(c, http.StatusBadRequest, "Invalid meal ID format.")
		return
	}

	meal, err := h.mealService.UpdateMeal(c.Request.Context(), userID, mealID, req.Date, domain.MealType(req.MealType), req.Name, req.Calories, req.Protein, req.Carbs, req.Fat)
	if err != nil {
		handleMealServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, MapMealToResponse(meal))
}

// DeleteMeal godoc
// @Summary Delete a logged meal
// @Tags Meals
// @Security BearerAuth
// @Param mealId path string true "Meal ID"
// @Success 204 "Deleted"
// @Failure 404 {object} gin.H "Meal not found"
// @Router /meals/{mealId} [delete]
func (h *MealHandler) DeleteMeal(c *gin.Context) {
	userID, err := getUserIDFromContext(c)
	if err != nil {
		abortWithError(c, http.StatusUnauthorized, "Unable to identify user from token.")
		return
	}
	mealID, err := primitive.ObjectIDFromHex(c.Param("mealId"))
	if err != nil {
		abortWithError(c, http.StatusBadRequest, "Invalid meal ID format.")
		return
	}

	if err := h.mealService.DeleteMeal(c.Request.Context(), userID, mealID); err != nil {
		handleMealServiceError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// GetMealOptions godoc
// @Summary List meal presets
// @Tags Meals
// @Produce json
// @Security BearerAuth
// @Success 200 {array} MealOptionResponse
// @Router /meal-options [get]
func (h *MealHandler) GetMealOptions(c *gin.Context) {
	userID, err := getUserIDFromContext(c)
	if err != nil {
		abortWithError(c, http.StatusUnauthorized, "Unable to identify user from token.")
		return
	}

	options, err := h.mealService.GetMealOptions(c.Request.Context(), userID)
	if err != nil {
		abortWithError(c, http.StatusInternalServerError, "Failed to retrieve meal options.")
		return
	}
	responses := make([]MealOptionResponse, len(options))
	for i, option := range options {
		responses[i] = MealOptionResponse{
			ID:       option.ID.Hex(),
			Name:     option.Name,
			Calories: option.Calories,
			Protein:  option.Protein,
			Carbs:    option.Carbs,
			Fat:      option.Fat,
		}
	}
	c.JSON(http.StatusOK, responses)
}

// AddMealOption godoc
// @Summary Save a meal preset
// @Tags Meals
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param option body MealOptionRequest true "Preset details"
// @Success 201 {object} MealOptionResponse
// @Router /meal-options [post]
func (h *MealHandler) AddMealOption(c *gin.Context) {
	var req MealOptionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, fmt.Sprintf("Validation error: %v", err))
		return
	}

	userID, err := getUserIDFromContext(c)
	if err != nil {
		abortWithError(c, http.StatusUnauthorized, "Unable to identify user from token.")
		return
	}

	option, err := h.mealService.AddMealOption(c.Request.Context(), userID, req.Name, req.Calories, req.Protein, req.Carbs, req.Fat)
	if err != nil {
		handleMealServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, MealOptionResponse{
		ID:       option.ID.Hex(),
		Name:     option.Name,
		Calories: option.Calories,
		Protein:  option.Protein,
		Carbs:    option.Carbs,
		Fat:      option.Fat,
	})
}

// DeleteMealOption godoc
// @Summary Delete a meal preset
// @Tags Meals
// @Security BearerAuth
// @Param optionId path string true "Option ID"
// @Success 204 "Deleted"
// @Router /meal-options/{optionId} [delete]
func (h *MealHandler) DeleteMealOption(c *gin.Context) {
	userID, err := getUserIDFromContext(c)
	if err != nil {
		abortWithError(c, http.StatusUnauthorized, "Unable to identify user from token.")
		return
	}
	optionID, err := primitive.ObjectIDFromHex(c.Param("optionId"))
	if err != nil {
		abortWithError(c, http.StatusBadRequest, "Invalid option ID format.")
		return
	}

	if err := h.mealService.DeleteMealOption(c.Request.Context(), userID, optionID); err != nil {
		handleMealServiceError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// SetDailyTarget godoc
// @Summary Set goals for a day
// @Tags Targets
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param target body DailyTargetRequest true "Target details"
// @Success 201 {object} DailyTargetResponse
// @Router /targets [post]
func (h *MealHandler) SetDailyTarget(c *gin.Context) {
	var req DailyTargetRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, fmt.Sprintf("Validation error: %v", err))
		return
	}

	userID, err := getUserIDFromContext(c)
	if err != nil {
		abortWithError(c, http.StatusUnauthorized, "Unable to identify user from token.")
		return
	}

	target, err := h.mealService.SetDailyTarget(c.Request.Context(), userID, req.Date, req.Calories, req.Protein, req.Carbs, req.Fat, req.VolumeLoad)
	if err != nil {
		handleMealServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, MapTargetToResponse(target))
}

// GetDailyTargets godoc
// @Summary List goals for a day or range
// @Description Returns targets for one day (date query) or a range
// @Description (startDate and endDate queries).
// @Tags Targets
// @Produce json
// @Security BearerAuth
// @Param date query string false "Single day in YYYY-MM-DD form"
// @Param startDate query string false "Range start (inclusive)"
// @Param endDate query string false "Range end (inclusive)"
// @Success 200 {array} DailyTargetResponse
// @Router /targets [get]
func (h *MealHandler) GetDailyTargets(c *gin.Context) {
	userID, err := getUserIDFromContext(c)
	if err != nil {
		abortWithError(c, http.StatusUnauthorized, "Unable to identify user from token.")
		return
	}

	var targets []domain.DailyTarget
	if date := c.Query("date"); date != "" {
		targets, err = h.mealService.GetDailyTargets(c.Request.Context(), userID, date)
	} else {
		targets, err = h.mealService.GetDailyTargetRange(c.Request.Context(), userID, c.Query("startDate"), c.Query("endDate"))
	}
	if err != nil {
		handleMealServiceError(c, err)
		return
	}

	responses := make([]DailyTargetResponse, len(targets))
	for i := range targets {
		responses[i] = MapTargetToResponse(&targets[i])
	}
	c.JSON(http.StatusOK, responses)
}

// DeleteDailyTarget godoc
// @Summary Delete a day's goals
// @Tags Targets
// @Security BearerAuth
// @Param targetId path string true "Target ID"
// @Success 204 "Deleted"
// @Failure 404 {object} gin.H "Target not found"
// @Router /targets/{targetId} [delete]
func (h *MealHandler) DeleteDailyTarget(c *gin.Context) {
	userID, err := getUserIDFromContext(c)
	if err != nil {
		abortWithError(c, http.StatusUnauthorized, "Unable to identify user from token.")
		return
	}
	targetID, err := primitive.ObjectIDFromHex(c.Param("targetId"))
	if err != nil {
		abortWithError(c, http.StatusBadRequest, "Invalid target ID format.")
		return
	}

	if err := h.mealService.DeleteDailyTarget(c.Request.Context(), userID, targetID); err != nil {
		handleMealServiceError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// handleMealServiceError maps meal service errors to HTTP responses.
func handleMealServiceError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrMealNotFound), errors.Is(err, service.ErrTargetNotFound):
		abortWithError(c, http.StatusNotFound, err.Error())
	case errors.Is(err, service.ErrValidationFailed), errors.Is(err, service.ErrInvalidDate):
		abortWithError(c, http.StatusBadRequest, err.Error())
	default:
		abortWithError(c, http.StatusInternalServerError, "An unexpected error occurred.")
	}
}
