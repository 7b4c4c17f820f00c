package appointment

import (
	"context"
	"time"

	appointmentRepo "telecare/database/repository/appointment"
	doctorRepo "telecare/database/repository/doctor"
	patientRepo "telecare/database/repository/patient"
	"telecare/models"
	"telecare/services/notification"
)

type AppointmentService interface {
	// Booking
	Book(ctx context.Context, patientID string, req models.BookingRequest) (*models.Appointment, error)

	// Queries
	ListForPatient(ctx context.Context, patientID string) ([]models.Appointment, error)
	ListForDoctor(ctx context.Context, doctorID string) ([]models.Appointment, error)
	// Get returns the appointment when callerID is one of its parties.
	Get(ctx context.Context, appointmentID, callerID string) (*models.Appointment, error)
	// IsParticipant reports whether userID may join the video room of roomID.
	IsParticipant(ctx context.Context, roomID, userID string) bool

	// Doctor actions
	Confirm(ctx context.Context, appointmentID, doctorID string) (*models.Appointment, error)
	Reject(ctx context.Context, appointmentID, doctorID, reason string) (*models.Appointment, error)
	Start(ctx context.Context, appointmentID, doctorID string) (*models.Appointment, error)
	Complete(ctx context.Context, appointmentID, doctorID string, req models.CompleteRequest) (*models.Appointment, error)

	// Either party
	Cancel(ctx context.Context, appointmentID, callerID string) (*models.Appointment, error)

	// Patient feedback
	SubmitFeedback(ctx context.Context, appointmentID, patientID string, req models.FeedbackRequest) error
}

// DefaultAppointmentService is the production implementation.
type DefaultAppointmentService struct {
	Repo     appointmentRepo.AppointmentRepository
	Doctors  doctorRepo.DoctorRepository
	Patients patientRepo.PatientRepository
	Notifier notification.NotificationService
	// Location is the clinic time zone availability slots are expressed in.
	Location *time.Location
	Now      func() time.Time
}

func (s *DefaultAppointmentService) now() time.Time {
	if s.Now != nil {
		return s.Now()
	}
	return time.Now()
}

func (s *DefaultAppointmentService) location() *time.Location {
	if s.Location == nil {
		return time.UTC
	}
	return s.Location
}
