package appointmentRepo

import (
	"context"
	"time"

	"telecare/models"
)

// StatusChange describes a conditional status transition. Empty strings leave fields untouched.
type StatusChange struct {
	From            []string
	To              string
	RejectionReason string
	Prescription    string
	ExtraAdvice     string
}

// AppointmentRepository defines methods for appointment data access.
type AppointmentRepository interface {
	Create(ctx context.Context, appt *models.Appointment) error
	GetByID(ctx context.Context, id string) (*models.Appointment, error)
	// ListByPatient and ListByDoctor return newest start first.
	ListByPatient(ctx context.Context, patientID string) ([]models.Appointment, error)
	ListByDoctor(ctx context.Context, doctorID string) ([]models.Appointment, error)
	// HasOverlap reports whether the doctor holds a Pending or Scheduled appointment intersecting [start, end).
	HasOverlap(ctx context.Context, doctorID string, start, end time.Time) (bool, error)
	// Transition applies change only while the appointment is still in one of change.From.
	// It returns database.ErrNotFound when nothing matched.
	Transition(ctx context.Context, id string, change StatusChange) (*models.Appointment, error)
	// SetFeedback records the patient's rating once, on a completed appointment.
	SetFeedback(ctx context.Context, id string, rating int, comment string) error
	// ClearFeedback removes a recorded rating so it can be submitted again.
	ClearFeedback(ctx context.Context, id string) error
}
