package doctorRepo

import (
	"context"

	"telecare/models"
)

// DoctorRepository defines methods for doctor data access.
type DoctorRepository interface {
	Create(ctx context.Context, doctor *models.Doctor) error
	GetByID(ctx context.Context, id string) (*models.Doctor, error)
	GetByEmail(ctx context.Context, email string) (*models.Doctor, error)
	// ExistsByEmailOrPhone reports whether either identifier is already registered.
	ExistsByEmailOrPhone(ctx context.Context, email, phone string) (bool, error)
	// List returns the public profile of every doctor.
	List(ctx context.Context) ([]models.DoctorSummary, error)
	// SetAvailability replaces the stored weekly schedule wholesale.
	SetAvailability(ctx context.Context, id string, week models.WeeklyAvailability) error
	SetProfilePicture(ctx context.Context, id, url string) error
	// AddReview appends review and recomputes ratingCount and averageRating.
	AddReview(ctx context.Context, id string, review models.Review) error
}
