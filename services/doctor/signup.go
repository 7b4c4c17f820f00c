package doctor

import (
	"context"
	"errors"
	"slices"
	"strings"

	"telecare/database"
	"telecare/models"
	"telecare/utils"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

const (
	minPasswordLength = 8
	minDoctorAge      = 20
	minExperience     = 1
)

func blank(s string) bool {
	return strings.TrimSpace(s) == ""
}

func validateRegistration(req models.DoctorRegistration) error {
	if blank(req.FullName) || blank(req.Email) || blank(req.PhoneNumber) || blank(req.Specialisation) ||
		blank(req.Hospital) || req.Password == "" || req.Age == nil || req.Experience == nil || req.ConsultationFee == nil {
		return utils.BadRequest("All fields are required")
	}
	if !utils.IsValidEmail(req.Email) {
		return utils.BadRequest("Please provide a valid email")
	}
	if len(req.Password) < minPasswordLength {
		return utils.BadRequest("Password must be at least 8 characters long")
	}
	if *req.Age < minDoctorAge {
		return utils.BadRequest("Age must be at least 20")
	}
	if *req.Experience < minExperience {
		return utils.BadRequest("Experience must be at least 1 year")
	}
	if *req.ConsultationFee < 0 {
		return utils.BadRequest("Consultation fee cannot be negative")
	}
	if !slices.Contains(models.Specialisations, req.Specialisation) {
		return utils.BadRequest("Invalid specialisation")
	}
	return nil
}

// Register validates the registration, hashes the password and stores the doctor.
// It returns the new doctor's id.
func (s *DefaultDoctorService) Register(ctx context.Context, req models.DoctorRegistration) (string, error) {
	if err := validateRegistration(req); err != nil {
		return "", err
	}
	email := strings.ToLower(strings.TrimSpace(req.Email))
	phone := strings.TrimSpace(req.PhoneNumber)

	exists, err := s.Repo.ExistsByEmailOrPhone(ctx, email, phone)
	if err != nil {
		return "", utils.Internal("Server error", err)
	}
	if exists {
		return "", utils.Conflict("Doctor with email or phone already exists")
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return "", utils.Internal("Server error", err)
	}

	doc := &models.Doctor{
		ID:              uuid.New().String(),
		FullName:        strings.TrimSpace(req.FullName),
		PhoneNumber:     phone,
		Age:             *req.Age,
		Email:           email,
		PasswordHash:    string(hashedPassword),
		Specialisation:  req.Specialisation,
		Experience:      *req.Experience,
		Hospital:        strings.TrimSpace(req.Hospital),
		Address:         req.Address,
		IsAvailable:     true,
		Reviews:         []models.Review{},
		Availability:    models.WeeklyAvailability{},
		ConsultationFee: *req.ConsultationFee,
	}
	if err := s.Repo.Create(ctx, doc); err != nil {
		if errors.Is(err, database.ErrDuplicate) {
			return "", utils.Conflict("Doctor with email or phone already exists")
		}
		return "", utils.Internal("Server error", err)
	}

	utils.GetLogger().Info("Doctor registered", zap.String("doctorId", doc.ID))
	return doc.ID, nil
}
