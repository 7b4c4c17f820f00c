package doctor

import (
	"context"
	"errors"
	"io"
	"net/http"

	"telecare/database"
	"telecare/models"
	"telecare/services/availability"
	"telecare/services/storage"
	"telecare/utils"

	"go.uber.org/zap"
)

func (s *DefaultDoctorService) findByID(ctx context.Context, doctorID string) (*models.Doctor, error) {
	doc, err := s.Repo.GetByID(ctx, doctorID)
	if err != nil {
		if errors.Is(err, database.ErrNotFound) {
			return nil, utils.NotFound("Doctor not found")
		}
		return nil, utils.Internal("Server error", err)
	}
	return doc, nil
}

func (s *DefaultDoctorService) GetProfile(ctx context.Context, doctorID string) (*models.Doctor, error) {
	return s.findByID(ctx, doctorID)
}

func (s *DefaultDoctorService) ListDoctors(ctx context.Context) ([]models.DoctorSummary, error) {
	doctors, err := s.Repo.List(ctx)
	if err != nil {
		return nil, utils.Internal("Failed to fetch all doctors", err)
	}
	if doctors == nil {
		doctors = []models.DoctorSummary{}
	}
	return doctors, nil
}

// UpdateProfilePicture uploads file as the doctor's picture and stores its URL.
func (s *DefaultDoctorService) UpdateProfilePicture(ctx context.Context, doctorID string, file io.Reader) (string, error) {
	if s.Storage == nil {
		return "", utils.NewAppError(http.StatusServiceUnavailable, "Image uploads are not configured", nil)
	}
	if _, err := s.findByID(ctx, doctorID); err != nil {
		return "", err
	}

	url, err := s.Storage.UploadImage(ctx, file, storage.ProfilePictureFolder, doctorID)
	if err != nil {
		return "", utils.Internal("Failed to upload profile picture", err)
	}
	if err := s.Repo.SetProfilePicture(ctx, doctorID, url); err != nil {
		return "", utils.Internal("Server error", err)
	}

	utils.GetLogger().Info("Profile picture updated", zap.String("doctorId", doctorID))
	return url, nil
}

func (s *DefaultDoctorService) GetAvailability(ctx context.Context, doctorID string) (models.WeeklyAvailability, error) {
	doc, err := s.findByID(ctx, doctorID)
	if err != nil {
		return nil, err
	}
	if doc.Availability == nil {
		return models.WeeklyAvailability{}, nil
	}
	return doc.Availability, nil
}

func (s *DefaultDoctorService) UpdateAvailability(ctx context.Context, doctorID string, candidate any) (models.WeeklyAvailability, error) {
	week, verr := availability.Validate(candidate)
	if verr != nil {
		return nil, utils.NewAppError(http.StatusBadRequest, verr.Message, verr)
	}

	if err := s.Repo.SetAvailability(ctx, doctorID, week); err != nil {
		if errors.Is(err, database.ErrNotFound) {
			return nil, utils.NotFound("Doctor not found")
		}
		return nil, utils.Internal("Server error", err)
	}

	utils.GetLogger().Info("Availability updated", zap.String("doctorId", doctorID), zap.Int("days", len(week)))
	return week, nil
}
