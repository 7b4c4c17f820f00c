package patient

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"telecare/database"
	"telecare/models"
	"telecare/utils"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Register creates the patient, or refreshes the details of an unverified one with the
// same number, and texts them a verification code. It returns the patient's id.
func (s *DefaultPatientService) Register(ctx context.Context, req models.PatientRegistration) (string, error) {
	logger := utils.GetLogger()

	if strings.TrimSpace(req.FullName) == "" || strings.TrimSpace(req.PhoneNumber) == "" || req.Age <= 0 {
		return "", utils.BadRequest("Please fill all required fields")
	}
	if !utils.IsValidPhone(req.PhoneNumber) {
		return "", utils.BadRequest("Invalid Phone Number!!")
	}
	phone := utils.NormalizePhone(req.PhoneNumber, s.countryCode())

	existing, err := s.Repo.GetByPhone(ctx, phone)
	if err != nil && !errors.Is(err, database.ErrNotFound) {
		return "", utils.Internal("Server error", err)
	}

	var patient *models.Patient
	switch {
	case existing != nil && existing.IsVerified:
		return "", utils.Conflict("A verified user with this phone number already exists.")
	case existing != nil:
		existing.FullName = strings.TrimSpace(req.FullName)
		existing.Age = req.Age
		existing.Address = req.Address
		if err := s.Repo.UpdateDetails(ctx, existing); err != nil {
			return "", utils.Internal("Server error", err)
		}
		patient = existing
	default:
		patient = &models.Patient{
			ID:          uuid.New().String(),
			FullName:    strings.TrimSpace(req.FullName),
			PhoneNumber: phone,
			Age:         req.Age,
			Address:     req.Address,
		}
		if err := s.Repo.Create(ctx, patient); err != nil {
			if errors.Is(err, database.ErrDuplicate) {
				return "", utils.Conflict("A verified user with this phone number already exists.")
			}
			return "", utils.Internal("Server error", err)
		}
		logger.Info("Patient registered", zap.String("userId", patient.ID))
	}

	if err := s.sendCode(ctx, patient); err != nil {
		return "", err
	}
	return patient.ID, nil
}

// VerifyAccount checks the registration code, marks the patient verified and returns a token.
func (s *DefaultPatientService) VerifyAccount(ctx context.Context, req models.OTPVerification) (string, error) {
	if req.UserID == "" || req.VerificationCode == "" {
		return "", utils.BadRequest("User ID and verification code are required.")
	}
	patient, err := s.findByID(ctx, req.UserID)
	if err != nil {
		return "", err
	}
	if patient.IsVerified {
		return "", utils.BadRequest("Account is already verified.")
	}
	if err := s.checkCode(ctx, patient.ID, req.VerificationCode); err != nil {
		return "", err
	}
	if err := s.Repo.MarkVerified(ctx, patient.ID); err != nil {
		return "", utils.Internal("Server error", err)
	}
	return s.issueToken(patient.ID)
}

// ResendCode texts a fresh registration code to a patient who has not verified yet.
func (s *DefaultPatientService) ResendCode(ctx context.Context, userID string) error {
	if userID == "" {
		return utils.BadRequest("User ID is required.")
	}
	patient, err := s.findByID(ctx, userID)
	if err != nil {
		return err
	}
	if patient.IsVerified {
		return utils.BadRequest("Account is already verified.")
	}
	return s.sendCode(ctx, patient)
}

func (s *DefaultPatientService) GetProfile(ctx context.Context, userID string) (*models.Patient, error) {
	return s.findByID(ctx, userID)
}

func (s *DefaultPatientService) countryCode() string {
	if s.CountryCode == "" {
		return "+91"
	}
	return s.CountryCode
}

func (s *DefaultPatientService) tokenTTL() time.Duration {
	if s.TokenTTL <= 0 {
		return 7 * 24 * time.Hour
	}
	return s.TokenTTL
}

func (s *DefaultPatientService) findByID(ctx context.Context, id string) (*models.Patient, error) {
	patient, err := s.Repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, database.ErrNotFound) {
			return nil, utils.NotFound("User not found.")
		}
		return nil, utils.Internal("Server error", err)
	}
	return patient, nil
}

func (s *DefaultPatientService) sendCode(ctx context.Context, patient *models.Patient) error {
	code, err := s.OTP.Issue(ctx, patient.ID)
	if err != nil {
		return utils.Internal("Server error", err)
	}
	body := fmt.Sprintf("Your verification code is: %s. It expires shortly.", code)
	if err := s.SMS.Send(ctx, patient.PhoneNumber, body); err != nil {
		return utils.Internal("Failed to send verification code.", err)
	}
	return nil
}

func (s *DefaultPatientService) checkCode(ctx context.Context, userID, code string) error {
	ok, err := s.OTP.Verify(ctx, userID, code)
	if err != nil {
		return utils.Internal("Server error", err)
	}
	if !ok {
		return utils.BadRequest("Invalid or expired verification code.")
	}
	return nil
}

func (s *DefaultPatientService) issueToken(userID string) (string, error) {
	token, err := utils.GenerateToken(userID, utils.RolePatient, s.tokenTTL())
	if err != nil {
		return "", utils.Internal("Server error", fmt.Errorf("failed to generate auth token: %w", err))
	}
	return token, nil
}
