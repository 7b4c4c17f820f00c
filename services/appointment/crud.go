package appointment

import (
	"context"
	"errors"

	"telecare/database"
	"telecare/models"
	"telecare/utils"
)

func (s *DefaultAppointmentService) ListForPatient(ctx context.Context, patientID string) ([]models.Appointment, error) {
	appts, err := s.Repo.ListByPatient(ctx, patientID)
	if err != nil {
		return nil, utils.Internal("Failed to fetch user appointments", err)
	}
	if appts == nil {
		appts = []models.Appointment{}
	}
	return appts, nil
}

func (s *DefaultAppointmentService) ListForDoctor(ctx context.Context, doctorID string) ([]models.Appointment, error) {
	appts, err := s.Repo.ListByDoctor(ctx, doctorID)
	if err != nil {
		return nil, utils.Internal("Failed to fetch doctor appointments", err)
	}
	if appts == nil {
		appts = []models.Appointment{}
	}
	return appts, nil
}

func (s *DefaultAppointmentService) find(ctx context.Context, appointmentID string) (*models.Appointment, error) {
	appt, err := s.Repo.GetByID(ctx, appointmentID)
	if err != nil {
		if errors.Is(err, database.ErrNotFound) {
			return nil, utils.NotFound("Appointment not found.")
		}
		return nil, utils.Internal("Failed to fetch appointment", err)
	}
	return appt, nil
}

func (s *DefaultAppointmentService) Get(ctx context.Context, appointmentID, callerID string) (*models.Appointment, error) {
	appt, err := s.find(ctx, appointmentID)
	if err != nil {
		return nil, err
	}
	if !appt.HasParty(callerID) {
		return nil, utils.Forbidden("You are not authorized to view this appointment.")
	}
	return appt, nil
}

func (s *DefaultAppointmentService) IsParticipant(ctx context.Context, roomID, userID string) bool {
	appt, err := s.Repo.GetByID(ctx, roomID)
	if err != nil {
		return false
	}
	return appt.HasParty(userID)
}
