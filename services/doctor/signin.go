package doctor

import (
	"context"
	"errors"
	"strings"
	"time"

	"telecare/database"
	"telecare/models"
	"telecare/utils"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

func (s *DefaultDoctorService) tokenTTL() time.Duration {
	if s.TokenTTL <= 0 {
		return 7 * 24 * time.Hour
	}
	return s.TokenTTL
}

// Login verifies the doctor's credentials and issues a token.
func (s *DefaultDoctorService) Login(ctx context.Context, req models.DoctorLogin) (*AuthResponse, error) {
	email := strings.ToLower(strings.TrimSpace(req.Email))
	if email == "" || req.Password == "" {
		return nil, utils.BadRequest("Email and password are required")
	}

	doc, err := s.Repo.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, database.ErrNotFound) {
			return nil, utils.NotFound("Doctor not found")
		}
		return nil, utils.Internal("Server error", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(doc.PasswordHash), []byte(req.Password)); err != nil {
		return nil, utils.Unauthorized("Invalid credentials")
	}

	token, err := utils.GenerateToken(doc.ID, utils.RoleDoctor, s.tokenTTL())
	if err != nil {
		return nil, utils.Internal("Server error", err)
	}

	utils.GetLogger().Info("Doctor logged in", zap.String("doctorId", doc.ID))
	return &AuthResponse{
		Doctor: DoctorIdentity{ID: doc.ID, FullName: doc.FullName, Email: doc.Email},
		Token:  token,
	}, nil
}

func (s *DefaultDoctorService) Logout(ctx context.Context, token string) error {
	if err := utils.RevokeToken(ctx, s.Revoker, token); err != nil {
		return utils.Internal("Server error", err)
	}
	return nil
}
