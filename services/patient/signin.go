package patient

import (
	"context"
	"errors"
	"strings"

	"telecare/database"
	"telecare/models"
	"telecare/utils"

	"go.uber.org/zap"
)

// Login texts a one-time code to a verified patient and returns their id.
func (s *DefaultPatientService) Login(ctx context.Context, phoneNumber string) (string, error) {
	if strings.TrimSpace(phoneNumber) == "" {
		return "", utils.BadRequest("Please provide a phone number")
	}
	phone := utils.NormalizePhone(phoneNumber, s.countryCode())

	patient, err := s.Repo.GetByPhone(ctx, phone)
	if err != nil && !errors.Is(err, database.ErrNotFound) {
		return "", utils.Internal("Server error", err)
	}
	if patient == nil || !patient.IsVerified {
		return "", utils.NotFound("No verified user found with this number. Please register first.")
	}

	if err := s.sendCode(ctx, patient); err != nil {
		return "", err
	}
	return patient.ID, nil
}

// VerifyLogin exchanges a login code for a token.
func (s *DefaultPatientService) VerifyLogin(ctx context.Context, req models.OTPVerification) (string, error) {
	if req.UserID == "" || req.VerificationCode == "" {
		return "", utils.BadRequest("User ID and verification code are required.")
	}
	patient, err := s.findByID(ctx, req.UserID)
	if err != nil {
		return "", err
	}
	if err := s.checkCode(ctx, patient.ID, req.VerificationCode); err != nil {
		return "", err
	}

	utils.GetLogger().Info("Patient logged in", zap.String("userId", patient.ID))
	return s.issueToken(patient.ID)
}

// Logout revokes token for the rest of its lifetime. Unparseable tokens are already useless.
func (s *DefaultPatientService) Logout(ctx context.Context, token string) error {
	if err := utils.RevokeToken(ctx, s.Revoker, token); err != nil {
		return utils.Internal("Server error", err)
	}
	return nil
}
