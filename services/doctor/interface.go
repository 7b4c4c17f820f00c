package doctor

import (
	"context"
	"io"
	"time"

	doctorRepo "telecare/database/repository/doctor"
	"telecare/models"
	"telecare/services/storage"
	"telecare/utils"
)

// DoctorIdentity is the part of the doctor returned on login.
type DoctorIdentity struct {
	ID       string `json:"_id"`
	FullName string `json:"fullname"`
	Email    string `json:"email"`
}

// AuthResponse contains the doctor's identity and the JWT token.
type AuthResponse struct {
	Doctor DoctorIdentity `json:"doctor"`
	Token  string         `json:"token"`
}

type DoctorService interface {
	// Authentication
	Register(ctx context.Context, req models.DoctorRegistration) (string, error)
	Login(ctx context.Context, req models.DoctorLogin) (*AuthResponse, error)
	Logout(ctx context.Context, token string) error

	// Profile
	GetProfile(ctx context.Context, doctorID string) (*models.Doctor, error)
	ListDoctors(ctx context.Context) ([]models.DoctorSummary, error)
	UpdateProfilePicture(ctx context.Context, doctorID string, file io.Reader) (string, error)

	// Availability
	GetAvailability(ctx context.Context, doctorID string) (models.WeeklyAvailability, error)
	// UpdateAvailability validates a decoded JSON body and replaces the stored schedule with it.
	UpdateAvailability(ctx context.Context, doctorID string, candidate any) (models.WeeklyAvailability, error)
}

// DefaultDoctorService is the production implementation.
type DefaultDoctorService struct {
	Repo     doctorRepo.DoctorRepository
	Storage  storage.StorageService
	Revoker  utils.TokenRevoker
	TokenTTL time.Duration
}
