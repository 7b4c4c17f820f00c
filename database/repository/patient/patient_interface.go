package patientRepo

import (
	"context"

	"telecare/models"
)

// PatientRepository defines methods for patient data access.
type PatientRepository interface {
	// Create inserts a new patient record.
	Create(ctx context.Context, patient *models.Patient) error
	// GetByID retrieves a patient by its unique ID.
	GetByID(ctx context.Context, id string) (*models.Patient, error)
	// GetByPhone retrieves a patient by E.164 phone number.
	GetByPhone(ctx context.Context, phone string) (*models.Patient, error)
	// UpdateDetails overwrites name, age and address of an existing patient.
	UpdateDetails(ctx context.Context, patient *models.Patient) error
	// MarkVerified flags the patient's phone number as verified.
	MarkVerified(ctx context.Context, id string) error
}
