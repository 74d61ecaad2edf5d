package api

import (
	"errors"
	"fmt"
	"gymlog/backend/internal/service"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// BodyHandler holds the body service dependency.
type BodyHandler struct {
	bodyService service.BodyService
}

// NewBodyHandler creates a new BodyHandler.
func NewBodyHandler(bodyService service.BodyService) *BodyHandler {
	return &BodyHandler{bodyService: bodyService}
}

// --- DTOs for API (Data Transfer Objects) ---

// BodyInfoRequest defines the JSON for recording a measurement. The optional
// photoObjectKey must come from a prior photo upload request.
type BodyInfoRequest struct {
	Date           string  `json:"date" binding:"required"`
	Height         float64 `json:"height" binding:"omitempty,gt=0"`
	Weight         float64 `json:"weight" binding:"omitempty,gt=0"`
	BodyFat        float64 `json:"bodyFat" binding:"omitempty,gte=0,lte=100"`
	MuscleMass     float64 `json:"muscleMass" binding:"omitempty,gt=0"`
	PhotoObjectKey string  `json:"photoObjectKey" binding:"omitempty"`
}

// BodyInfoResponse is the DTO for one measurement. PhotoURL is a short-lived
// presigned download link, empty when no photo exists.
type BodyInfoResponse struct {
	ID         string    `json:"id"`
	Date       string    `json:"date"`
	Height     float64   `json:"height,omitempty"`
	Weight     float64   `json:"weight,omitempty"`
	BodyFat    float64   `json:"bodyFat,omitempty"`
	MuscleMass float64   `json:"muscleMass,omitempty"`
	PhotoURL   string    `json:"photoUrl,omitempty"`
	CreatedAt  time.Time `json:"createdAt"`
}

// PhotoUploadRequest defines the JSON for requesting a photo upload slot.
type PhotoUploadRequest struct {
	ContentType string `json:"contentType" binding:"required"`
}

// PhotoUploadResponse carries the presigned PUT URL and the object key the
// client must echo back in BodyInfoRequest.
type PhotoUploadResponse struct {
	ObjectKey string `json:"objectKey"`
	UploadURL string `json:"uploadUrl"`
}

// --- Handler Methods ---

// RecordBodyInfo godoc
// @Summary Record a body measurement
// @Tags Body
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param info body BodyInfoRequest true "Measurement details"
// @Success 201 {object} BodyInfoResponse
// @Failure 400 {object} gin.H "Invalid input"
// @Router /body [post]
func (h *BodyHandler) RecordBodyInfo(c *gin.Context) {
	var req BodyInfoRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, fmt.Sprintf("Validation error: %v", err))
		return
	}

	userID, err := getUserIDFromContext(c)
	if err != nil {
		abortWithError(c, http.StatusUnauthorized, "Unable to identify user from token.")
		return
	}

	info, err := h.bodyService.RecordBodyInfo(c.Request.Context(), userID, req.Date, req.Height, req.Weight, req.BodyFat, req.MuscleMass, req.PhotoObjectKey)
	if err != nil {
		handleBodyServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, BodyInfoResponse{
		ID:         info.ID.Hex(),
		Date:       info.Date,
		Height:     info.Height,
		Weight:     info.Weight,
		BodyFat:    info.BodyFat,
		MuscleMass: info.MuscleMass,
		CreatedAt:  info.CreatedAt,
	})
}

// GetBodyInfoHistory godoc
// @Summary List body measurements
// @Description Returns the user's measurements, newest first, with presigned
// @Description photo download URLs where photos exist.
// @Tags Body
// @Produce json
// @Security BearerAuth
// @Success 200 {array} BodyInfoResponse
// @Router /body [get]
func (h *BodyHandler) GetBodyInfoHistory(c *gin.Context) {
	userID, err := getUserIDFromContext(c)
	if err != nil {
		abortWithError(c, http.StatusUnauthorized, "Unable to identify user from token.")
		return
	}

	results, err := h.bodyService.GetBodyInfoHistory(c.Request.Context(), userID)
	if err != nil {
		abortWithError(c, http.StatusInternalServerError, "Failed to retrieve body info history.")
		return
	}

	responses := make([]BodyInfoResponse, len(results))
	for i, result := range results {
		responses[i] = BodyInfoResponse{
			ID:         result.Info.ID.Hex(),
			Date:       result.Info.Date,
			Height:     result.Info.Height,
			Weight:     result.Info.Weight,
			BodyFat:    result.Info.BodyFat,
			MuscleMass: result.Info.MuscleMass,
			PhotoURL:   result.PhotoURL,
			CreatedAt:  result.Info.CreatedAt,
		}
	}
	c.JSON(http.StatusOK, responses)
}

// UpdateBodyInfo godoc
// @Summary Update a body measurement
// @Tags Body
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param infoId path string true "Measurement ID"
// @Param info body BodyInfoRequest true "Updated measurement details"
// @Success 200 {object} BodyInfoResponse
// @Failure 404 {object} gin.H "Measurement not found"
// @Router /body/{infoId} [put]
func (h *BodyHandler) UpdateBodyInfo(c *gin.Context) {
	var req BodyInfoRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, fmt.Sprintf("Validation error: %v", err))
		return
	}

	userID, err := getUserIDFromContext(c)
	if err != nil {
		abortWithError(c, http.StatusUnauthorized, "Unable to identify user from token.")
		return
	}
	infoID, err := primitive.ObjectIDFromHex(c.Param("infoId"))
	if err != nil {
		abortWithError(c, http.StatusBadRequest, "Invalid measurement ID format.")
		return
	}

	info, err := h.bodyService.UpdateBodyInfo(c.Request.Context(), userID, infoID, req.Date, req.Height, req.Weight, req.BodyFat, req.MuscleMass)
	if err != nil {
		handleBodyServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, BodyInfoResponse{
		ID:         info.ID.Hex(),
		Date:       info.Date,
		Height:     info.Height,
		Weight:     info.Weight,
		BodyFat:    info.BodyFat,
		MuscleMass: info.MuscleMass,
		CreatedAt:  info.CreatedAt,
	})
}

// DeleteBodyInfo godoc
// @Summary Delete a body measurement
// @Tags Body
// @Security BearerAuth
// @Param infoId path string true "Measurement ID"
// @Success 204 "Deleted"
// @Failure 404 {object} gin.H "Measurement not found"
// @Router /body/{infoId} [delete]
func (h *BodyHandler) DeleteBodyInfo(c *gin.Context) {
	userID, err := getUserIDFromContext(c)
	if err != nil {
		abortWithError(c, http.StatusUnauthorized, "Unable to identify user from token.")
		return
	}
	infoID, err := primitive.ObjectIDFromHex(c.Param("infoId"))
	if err != nil {
		abortWithError(c, http.StatusBadRequest, "Invalid measurement ID format.")
		return
	}

	if err := h.bodyService.DeleteBodyInfo(c.Request.Context(), userID, infoID); err != nil {
		handleBodyServiceError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// RequestPhotoUpload godoc
// @Summary Request a progress photo upload slot
// @Description Returns a presigned PUT URL; the client uploads directly to
// @Description object storage and echoes the key back when recording the
// @Description measurement.
// @Tags Body
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param upload body PhotoUploadRequest true "Upload details"
// @Success 200 {object} PhotoUploadResponse
// @Router /body/photo-upload [post]
func (h *BodyHandler) RequestPhotoUpload(c *gin.Context) {
	var req PhotoUploadRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, fmt.Sprintf("Validation error: %v", err))
		return
	}

	userID, err := getUserIDFromContext(c)
	if err != nil {
		abortWithError(c, http.StatusUnauthorized, "Unable to identify user from token.")
		return
	}

	ticket, err := h.bodyService.RequestPhotoUpload(c.Request.Context(), userID, req.ContentType)
	if err != nil {
		handleBodyServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, PhotoUploadResponse{ObjectKey: ticket.ObjectKey, UploadURL: ticket.UploadURL})
}

// handleBodyServiceError maps body service errors to HTTP responses.
func handleBodyServiceError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrBodyInfoNotFound):
		abortWithError(c, http.StatusNotFound, err.Error())
	case errors.Is(err, service.ErrValidationFailed), errors.Is(err, service.ErrInvalidDate):
		abortWithError(c, http.StatusBadRequest, err.Error())
	default:
		abortWithError(c, http.StatusInternalServerError, "An unexpected error occurred.")
	}
}
