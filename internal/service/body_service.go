package service

import (
	"context"
	"errors"
	"fmt"
	"gymlog/backend/internal/aggregator"
	"gymlog/backend/internal/domain"
	"gymlog/backend/internal/repository"
	"gymlog/backend/internal/storage"
	"log"
	"time"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

var ErrBodyInfoNotFound = errors.New("body info not found")

// BodyInfoResult pairs a measurement with a short-lived download URL for its
// progress photo, when one exists.
type BodyInfoResult struct {
	Info     *domain.BodyInfo
	PhotoURL string
}

// PhotoUploadTicket is handed to the client so it can PUT the photo bytes
// directly to object storage.
type PhotoUploadTicket struct {
	ObjectKey string
	UploadURL string
}

// BodyService manages body-progress measurements and their photos. Photo
// bytes never pass through the API server; clients exchange object keys for
// presigned URLs.
type BodyService interface {
	RecordBodyInfo(ctx context.Context, userID primitive.ObjectID, date string, height, weight, bodyFat, muscleMass float64, photoObjectKey string) (*domain.BodyInfo, error)
	GetBodyInfoHistory(ctx context.Context, userID primitive.ObjectID) ([]BodyInfoResult, error)
	UpdateBodyInfo(ctx context.Context, userID, infoID primitive.ObjectID, date string, height, weight, bodyFat, muscleMass float64) (*domain.BodyInfo, error)
	DeleteBodyInfo(ctx context.Context, userID, infoID primitive.ObjectID) error

	// RequestPhotoUpload reserves an object key for a progress photo and
	// returns a presigned PUT URL for it. The key is bound to a measurement
	// when the client subsequently calls RecordBodyInfo with it.
	RequestPhotoUpload(ctx context.Context, userID primitive.ObjectID, contentType string) (*PhotoUploadTicket, error)
}

type bodyService struct {
	bodyInfos   repository.BodyInfoRepository
	fileStorage storage.FileStorage
}

// NewBodyService creates a new instance of bodyService.
func NewBodyService(bodyInfos repository.BodyInfoRepository, fileStorage storage.FileStorage) BodyService {
	return &bodyService{
		bodyInfos:   bodyInfos,
		fileStorage: fileStorage,
	}
}

// RecordBodyInfo saves one measurement. photoObjectKey is optional and must
// come from a prior RequestPhotoUpload for this user.
func (s *bodyService) RecordBodyInfo(ctx context.Context, userID primitive.ObjectID, date string, height, weight, bodyFat, muscleMass float64, photoObjectKey string) (*domain.BodyInfo, error) {
	if userID == primitive.NilObjectID {
		return nil, ErrValidationFailed
	}
	if !aggregator.ValidDate(date) {
		return nil, ErrInvalidDate
	}
	if photoObjectKey != "" && !ownsObjectKey(userID, photoObjectKey) {
		return nil, ErrValidationFailed
	}

	info := &domain.BodyInfo{
		UserID:         userID,
		Date:           date,
		Height:         height,
		Weight:         weight,
		BodyFat:        bodyFat,
		MuscleMass:     muscleMass,
		PhotoObjectKey: photoObjectKey,
	}
	infoID, err := s.bodyInfos.Create(ctx, info)
	if err != nil {
		return nil, err
	}
	info.ID = infoID
	return info, nil
}

// GetBodyInfoHistory returns the user's measurements, newest first, with a
// presigned download URL attached where a photo exists. A presign failure is
// logged and degrades that entry to no photo rather than failing the list.
func (s *bodyService) GetBodyInfoHistory(ctx context.Context, userID primitive.ObjectID) ([]BodyInfoResult, error) {
	infos, err := s.bodyInfos.FindByUserID(ctx, userID)
	if err != nil {
		return nil, err
	}

	results := make([]BodyInfoResult, 0, len(infos))
	for i := range infos {
		result := BodyInfoResult{Info: &infos[i]}
		if key := infos[i].PhotoObjectKey; key != "" {
			url, presignErr := s.fileStorage.GeneratePresignedDownloadURL(ctx, key, storage.DefaultPresignedURLExpiry)
			if presignErr != nil {
				log.Printf("WARN: failed to presign photo download for key %s: %v", key, presignErr)
			} else {
				result.PhotoURL = url
			}
		}
		results = append(results, result)
	}
	return results, nil
}

// UpdateBodyInfo corrects a measurement. The photo key is not changed here.
func (s *bodyService) UpdateBodyInfo(ctx context.Context, userID, infoID primitive.ObjectID, date string, height, weight, bodyFat, muscleMass float64) (*domain.BodyInfo, error) {
	if userID == primitive.NilObjectID || infoID == primitive.NilObjectID {
		return nil, ErrValidationFailed
	}
	if !aggregator.ValidDate(date) {
		return nil, ErrInvalidDate
	}

	existing, err := s.bodyInfos.GetByID(ctx, infoID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrBodyInfoNotFound
		}
		return nil, err
	}
	if existing.UserID != userID {
		return nil, ErrBodyInfoNotFound
	}

	existing.Date = date
	existing.Height = height
	existing.Weight = weight
	existing.BodyFat = bodyFat
	existing.MuscleMass = muscleMass
	if err := s.bodyInfos.Update(ctx, existing); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrBodyInfoNotFound
		}
		return nil, err
	}
	return existing, nil
}

// DeleteBodyInfo removes a measurement and, best effort, its photo object.
func (s *bodyService) DeleteBodyInfo(ctx context.Context, userID, infoID primitive.ObjectID) error {
	if userID == primitive.NilObjectID || infoID == primitive.NilObjectID {
		return ErrValidationFailed
	}

	existing, err := s.bodyInfos.GetByID(ctx, infoID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrBodyInfoNotFound
		}
		return err
	}
	if existing.UserID != userID {
		return ErrBodyInfoNotFound
	}

	if err := s.bodyInfos.Delete(ctx, infoID, userID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrBodyInfoNotFound
		}
		return err
	}

	if key := existing.PhotoObjectKey; key != "" {
		if delErr := s.fileStorage.DeleteObject(ctx, key); delErr != nil {
			log.Printf("WARN: failed to delete photo object %s: %v", key, delErr)
		}
	}
	return nil
}

// RequestPhotoUpload generates a fresh object key under the user's prefix and
// a presigned PUT URL for it.
func (s *bodyService) RequestPhotoUpload(ctx context.Context, userID primitive.ObjectID, contentType string) (*PhotoUploadTicket, error) {
	if userID == primitive.NilObjectID || contentType == "" {
		return nil, ErrValidationFailed
	}

	objectKey := fmt.Sprintf("progress-photos/%s/%s-%s", userID.Hex(), time.Now().UTC().Format("20060102"), uuid.NewString())
	uploadURL, err := s.fileStorage.GeneratePresignedUploadURL(ctx, objectKey, contentType, storage.DefaultPresignedURLExpiry)
	if err != nil {
		return nil, fmt.Errorf("failed to presign photo upload: %w", err)
	}
	return &PhotoUploadTicket{ObjectKey: objectKey, UploadURL: uploadURL}, nil
}

// ownsObjectKey checks that an object key sits under the user's photo prefix.
func ownsObjectKey(userID primitive.ObjectID, objectKey string) bool {
	prefix := fmt.Sprintf("progress-photos/%s/", userID.Hex())
	return len(objectKey) > len(prefix) && objectKey[:len(prefix)] == prefix
}
