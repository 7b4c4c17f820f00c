package patient

import (
	"context"
	"time"

	patientRepo "telecare/database/repository/patient"
	"telecare/models"
	"telecare/services/notification"
	"telecare/utils"
)

type PatientService interface {
	// Registration
	Register(ctx context.Context, req models.PatientRegistration) (string, error)
	VerifyAccount(ctx context.Context, req models.OTPVerification) (string, error)
	ResendCode(ctx context.Context, userID string) error

	// Authentication
	Login(ctx context.Context, phoneNumber string) (string, error)
	VerifyLogin(ctx context.Context, req models.OTPVerification) (string, error)
	Logout(ctx context.Context, token string) error

	GetProfile(ctx context.Context, userID string) (*models.Patient, error)
}

// DefaultPatientService is the production implementation.
type DefaultPatientService struct {
	Repo        patientRepo.PatientRepository
	OTP         utils.OTPManager
	SMS         notification.SMSSender
	Revoker     utils.TokenRevoker
	TokenTTL    time.Duration
	CountryCode string
}
