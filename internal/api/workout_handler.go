package api

import (
	"errors"
	"fmt"
	"gymlog/backend/internal/domain"
	"gymlog/backend/internal/service"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// WorkoutHandler holds the workout service dependency.
type WorkoutHandler struct {
	workoutService service.WorkoutService
}

// NewWorkoutHandler creates a new WorkoutHandler.
func NewWorkoutHandler(workoutService service.WorkoutService) *WorkoutHandler {
	return &WorkoutHandler{workoutService: workoutService}
}

// --- DTOs for API (Data Transfer Objects) ---

// LogSetRequest defines the expected JSON for logging one exercise set.
type LogSetRequest struct {
	BodyPart string  `json:"bodyPart" binding:"required"`
	Exercise string  `json:"exercise" binding:"required"`
	Weight   float64 `json:"weight" binding:"required,gt=0"`
	Sets     int     `json:"sets" binding:"required,gt=0"`
	Reps     int     `json:"reps" binding:"required,gt=0"`
	Date     string  `json:"date" binding:"required"`
	SetTime  string  `json:"setTime" binding:"omitempty"`
}

// WorkoutLogResponse is the DTO for returning a logged set.
type WorkoutLogResponse struct {
	ID        string    `json:"id"`
	BodyPart  string    `json:"bodyPart"`
	Exercise  string    `json:"exercise"`
	Weight    float64   `json:"weight"`
	Sets      int       `json:"sets"`
	Reps      int       `json:"reps"`
	Date      string    `json:"date"`
	SetTime   string    `json:"setTime,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// MapWorkoutLogToResponse converts a domain.WorkoutLog to its DTO.
func MapWorkoutLogToResponse(log *domain.WorkoutLog) WorkoutLogResponse {
	if log == nil {
		return WorkoutLogResponse{}
	}
	return WorkoutLogResponse{
		ID:        log.ID.Hex(),
		BodyPart:  log.BodyPart,
		Exercise:  log.Exercise,
		Weight:    log.Weight,
		Sets:      log.Sets,
		Reps:      log.Reps,
		Date:      log.Date,
		SetTime:   log.SetTime,
		CreatedAt: log.CreatedAt,
		UpdatedAt: log.UpdatedAt,
	}
}

// MapWorkoutLogsToResponse converts a slice of domain.WorkoutLog to DTOs.
func MapWorkoutLogsToResponse(logs []domain.WorkoutLog) []WorkoutLogResponse {
	responses := make([]WorkoutLogResponse, len(logs))
	for i := range logs {
		responses[i] = MapWorkoutLogToResponse(&logs[i])
	}
	return responses
}

// LatestWeightResponse maps exercise keys to their rolling weight stats.
type LatestWeightResponse struct {
	Exercises map[string]domain.ExerciseStats `json:"exercises"`
}

// VolumeLoadResponse is the DTO for one derived daily volume record.
type VolumeLoadResponse struct {
	Date       string  `json:"date"`
	VolumeLoad float64 `json:"volumeLoad"`
}

// ExerciseOptionRequest defines the JSON for adding a movement preset.
type ExerciseOptionRequest struct {
	BodyPart string `json:"bodyPart" binding:"required"`
	Exercise string `json:"exercise" binding:"required"`
}

// ExerciseOptionResponse is the DTO for one movement preset.
type ExerciseOptionResponse struct {
	ID       string `json:"id"`
	BodyPart string `json:"bodyPart"`
	Exercise string `json:"exercise"`
}

// --- Handler Methods ---

// LogSet godoc
// @Summary Log an exercise set
// @Description Records one set for the authenticated user. Derived views
// @Description (latest weight, daily volume) update asynchronously.
// @Tags Workouts
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param set body LogSetRequest true "Set details"
// @Success 201 {object} WorkoutLogResponse "Set logged successfully"
// @Failure 400 {object} gin.H "Invalid input"
// @Failure 401 {object} gin.H "Unauthorized"
// @Failure 500 {object} gin.H "Internal Server Error"
// @Router /workouts/logs [post]
func (h *WorkoutHandler) LogSet(c *gin.Context) {
	var req LogSetRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, fmt.Sprintf("Validation error: %v", err))
		return
	}

	userID, err := getUserIDFromContext(c)
	if err != nil {
		abortWithError(c, http.StatusUnauthorized, "Unable to identify user from token.")
		return
	}

	log, err := h.workoutService.LogSet(c.Request.Context(), userID, req.BodyPart, req.Exercise, req.Weight, req.Sets, req.Reps, req.Date, req.SetTime)
	if err != nil {
		handleWorkoutServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, MapWorkoutLogToResponse(log))
}

// GetLogsByDate godoc
// @Summary List logged sets for a day
// @Tags Workouts
// @Produce json
// @Security BearerAuth
// @Param date query string true "Day in YYYY-MM-DD form"
// @Success 200 {array} WorkoutLogResponse
// @Failure 400 {object} gin.H "Invalid date"
// @Failure 401 {object} gin.H "Unauthorized"
// @Router /workouts/logs [get]
func (h *WorkoutHandler) GetLogsByDate(c *gin.Context) {
	userID, err := getUserIDFromContext(c)
	if err != nil {
		abortWithError(c, http.StatusUnauthorized, "Unable to identify user from token.")
		return
	}

	logs, err := h.workoutService.GetLogsByDate(c.Request.Context(), userID, c.Query("date"))
	if err != nil {
		handleWorkoutServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, MapWorkoutLogsToResponse(logs))
}

// UpdateLog godoc
// @Summary Update a logged set
// @Tags Workouts
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param logId path string true "Log ID"
// @Param set body LogSetRequest true "Updated set details"
// @Success 200 {object} WorkoutLogResponse
// @Failure 400 {object} gin.H "Invalid input"
// @Failure 404 {object} gin.H "Log not found"
// @Router /workouts/logs/{logId} [put]
func (h *WorkoutHandler) UpdateLog(c *gin.Context) {
	var req LogSetRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, fmt.Sprintf("Validation error: %v", err))
		return
	}

	userID, err := getUserIDFromContext(c)
	if err != nil {
		abortWithError(c, http.StatusUnauthorized, "Unable to identify user from token.")
		return
	}
	logID, err := primitive.ObjectIDFromHex(c.Param("logId"))
	if err != nil {
		abortWithError(c, http.StatusBadRequest, "Invalid log ID format.")
		return
	}

	log, err := h.workoutService.UpdateLog(c.Request.Context(), userID, logID, req.BodyPart, req.Exercise, req.Weight, req.Sets, req.Reps, req.Date, req.SetTime)
	if err != nil {
		handleWorkoutServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, MapWorkoutLogToResponse(log))
}

// DeleteLog godoc
// @Summary Delete a logged set
// @Tags Workouts
// @Security BearerAuth
// @Param logId path string true "Log ID"
// @Success 204 "Deleted"
// @Failure 404 {object} gin.H "Log not found"
// @Router /workouts/logs/{logId} [delete]
func (h *WorkoutHandler) DeleteLog(c *gin.Context) {
	userID, err := getUserIDFromContext(c)
	if err != nil {
		abortWithError(c, http.StatusUnauthorized, "Unable to identify user from token.")
		return
	}
	logID, err := primitive.ObjectIDFromHex(c.Param("logId"))
	if err != nil {
		abortWithError(c, http.StatusBadRequest, "Invalid log ID format.")
		return
	}

	if err := h.workoutService.DeleteLog(c.Request.Context(), userID, logID); err != nil {
		handleWorkoutServiceError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// GetLatestWeights godoc
// @Summary Get latest weights per exercise
// @Description Returns the derived latest/previous weight per exercise key.
// @Tags Workouts
// @Produce json
// @Security BearerAuth
// @Success 200 {object} LatestWeightResponse
// @Router /workouts/latest-weights [get]
func (h *WorkoutHandler) GetLatestWeights(c *gin.Context) {
	userID, err := getUserIDFromContext(c)
	if err != nil {
		abortWithError(c, http.StatusUnauthorized, "Unable to identify user from token.")
		return
	}

	record, err := h.workoutService.GetLatestWeights(c.Request.Context(), userID)
	if err != nil {
		abortWithError(c, http.StatusInternalServerError, "Failed to retrieve latest weights.")
		return
	}
	c.JSON(http.StatusOK, LatestWeightResponse{Exercises: record.Exercises})
}

// GetVolumeLoad godoc
// @Summary Get daily volume load
// @Description Returns derived volume for one day (date query) or a range
// @Description (startDate and endDate queries).
// @Tags Workouts
// @Produce json
// @Security BearerAuth
// @Param date query string false "Single day in YYYY-MM-DD form"
// @Param startDate query string false "Range start (inclusive)"
// @Param endDate query string false "Range end (inclusive)"
// @Success 200 {array} VolumeLoadResponse
// @Failure 400 {object} gin.H "Invalid date"
// @Router /workouts/volume-load [get]
func (h *WorkoutHandler) GetVolumeLoad(c *gin.Context) {
	userID, err := getUserIDFromContext(c)
	if err != nil {
		abortWithError(c, http.StatusUnauthorized, "Unable to identify user from token.")
		return
	}

	if date := c.Query("date"); date != "" {
		record, err := h.workoutService.GetVolumeLoad(c.Request.Context(), userID, date)
		if err != nil {
			handleWorkoutServiceError(c, err)
			return
		}
		responses := []VolumeLoadResponse{}
		if record != nil {
			responses = append(responses, VolumeLoadResponse{Date: record.Date, VolumeLoad: record.VolumeLoad})
		}
		c.JSON(http.StatusOK, responses)
		return
	}

	records, err := h.workoutService.GetVolumeLoadRange(c.Request.Context(), userID, c.Query("startDate"), c.Query("endDate"))
	if err != nil {
		handleWorkoutServiceError(c, err)
		return
	}
	responses := make([]VolumeLoadResponse, len(records))
	for i, record := range records {
		responses[i] = VolumeLoadResponse{Date: record.Date, VolumeLoad: record.VolumeLoad}
	}
	c.JSON(http.StatusOK, responses)
}

// GetExerciseOptions godoc
// @Summary List movement presets
// @Tags Workouts
// @Produce json
// @Security BearerAuth
// @Success 200 {array} ExerciseOptionResponse
// @Router /workouts/exercises [get]
func (h *WorkoutHandler) GetExerciseOptions(c *gin.Context) {
	userID, err := getUserIDFromContext(c)
	if err != nil {
		abortWithError(c, http.StatusUnauthorized, "Unable to identify user from token.")
		return
	}

	options, err := h.workoutService.GetExerciseOptions(c.Request.Context(), userID)
	if err != nil {
		abortWithError(c, http.StatusInternalServerError, "Failed to retrieve exercise options.")
		return
	}
	responses := make([]ExerciseOptionResponse, len(options))
	for i, option := range options {
		responses[i] = ExerciseOptionResponse{ID: option.ID.Hex(), BodyPart: option.BodyPart, Exercise: option.Exercise}
	}
	c.JSON(http.StatusOK, responses)
}

// AddExerciseOption godoc
// @Summary Add a movement preset
// @Tags Workouts
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param option body ExerciseOptionRequest true "Preset details"
// @Success 201 {object} ExerciseOptionResponse
// @Failure 400 {object} gin.H "Invalid input"
// @Router /workouts/exercises [post]
func (h *WorkoutHandler) AddExerciseOption(c *gin.Context) {
	var req ExerciseOptionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, fmt.Sprintf("Validation error: %v", err))
		return
	}

	userID, err := getUserIDFromContext(c)
	if err != nil {
		abortWithError(c, http.StatusUnauthorized, "Unable to identify user from token.")
		return
	}

	option, err := h.workoutService.AddExerciseOption(c.Request.Context(), userID, req.BodyPart, req.Exercise)
	if err != nil {
		handleWorkoutServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, ExerciseOptionResponse{ID: option.ID.Hex(), BodyPart: option.BodyPart, Exercise: option.Exercise})
}

// DeleteExerciseOption godoc
// @Summary Delete a movement preset
// @Tags Workouts
// @Security BearerAuth
// @Param optionId path string true "Option ID"
// @Success 204 "Deleted"
// @Router /workouts/exercises/{optionId} [delete]
func (h *WorkoutHandler) DeleteExerciseOption(c *gin.Context) {
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

	if err := h.workoutService.DeleteExerciseOption(c.Request.Context(), userID, optionID); err != nil {
		handleWorkoutServiceError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// handleWorkoutServiceError maps service errors to HTTP responses.
func handleWorkoutServiceError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrLogNotFound):
		abortWithError(c, http.StatusNotFound, err.Error())
	case errors.Is(err, service.ErrValidationFailed), errors.Is(err, service.ErrInvalidDate):
		abortWithError(c, http.StatusBadRequest, err.Error())
	default:
		abortWithError(c, http.StatusInternalServerError, "An unexpected error occurred.")
	}
}
