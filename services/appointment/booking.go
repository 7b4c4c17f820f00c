package appointment

import (
	"context"
	"errors"
	"strings"

	"telecare/database"
	"telecare/models"
	"telecare/services/availability"
	"telecare/utils"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Book creates a Pending video appointment for the patient.
func (s *DefaultAppointmentService) Book(ctx context.Context, patientID string, req models.BookingRequest) (*models.Appointment, error) {
	logger := utils.GetLogger()

	if strings.TrimSpace(req.DoctorID) == "" || req.StartTime == nil || req.StartTime.IsZero() {
		return nil, utils.BadRequest("Doctor ID and start time are required")
	}

	doc, err := s.Doctors.GetByID(ctx, req.DoctorID)
	if err != nil {
		if errors.Is(err, database.ErrNotFound) {
			return nil, utils.NotFound("Doctor not found")
		}
		return nil, utils.Internal("Server error", err)
	}

	start := req.StartTime.UTC()
	end := start.Add(models.MaxAppointmentLength)
	if req.EndTime != nil && !req.EndTime.IsZero() {
		end = req.EndTime.UTC()
	}

	if !end.After(start) {
		return nil, utils.BadRequest("End time must be after start time")
	}
	if end.Sub(start) > models.MaxAppointmentLength {
		return nil, utils.BadRequest("Appointments cannot be longer than 60 minutes")
	}
	if !start.After(s.now()) {
		return nil, utils.BadRequest("Start time must be in the future")
	}
	if !doc.IsAvailable {
		return nil, utils.BadRequest("Doctor is not accepting appointments")
	}
	if len(doc.Availability) > 0 && !availability.FitsWindow(doc.Availability, start, end, s.location()) {
		return nil, utils.BadRequest("Requested time is outside the doctor's availability")
	}

	overlap, err := s.Repo.HasOverlap(ctx, doc.ID, start, end)
	if err != nil {
		return nil, utils.Internal("Server error", err)
	}
	if overlap {
		return nil, utils.Conflict("The doctor already has an appointment at this time")
	}

	patient, err := s.Patients.GetByID(ctx, patientID)
	if err != nil {
		if errors.Is(err, database.ErrNotFound) {
			return nil, utils.Unauthorized("User authentication required to book appointment.")
		}
		return nil, utils.Internal("Server error", err)
	}

	id := uuid.New().String()
	appt := &models.Appointment{
		ID:        id,
		PatientID: patient.ID,
		DoctorID:  doc.ID,
		Patient: models.PatientSummary{
			ID:          patient.ID,
			FullName:    patient.FullName,
			PhoneNumber: patient.PhoneNumber,
		},
		Doctor: models.DoctorSummary{
			ID:              doc.ID,
			FullName:        doc.FullName,
			Specialisation:  doc.Specialisation,
			Hospital:        doc.Hospital,
			ConsultationFee: doc.ConsultationFee,
			ProfilePicture:  doc.ProfilePicture,
			IsAvailable:     doc.IsAvailable,
		},
		StartTime:     start,
		EndTime:       end,
		Status:        models.StatusPending,
		Type:          models.AppointmentTypeVideo,
		VideoProvider: models.VideoProviderInternal,
		VideoRoomID:   id,
	}
	if err := s.Repo.Create(ctx, appt); err != nil {
		return nil, utils.Internal("Server error", err)
	}

	utils.AppointmentTransitions.WithLabelValues(models.StatusPending).Inc()
	logger.Info("Appointment requested",
		zap.String("appointmentId", appt.ID),
		zap.String("doctorId", doc.ID),
		zap.Time("startTime", start))
	return appt, nil
}
