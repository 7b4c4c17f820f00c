package appointment

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"strings"
	"time"

	"telecare/database"
	appointmentRepo "telecare/database/repository/appointment"
	"telecare/models"
	"telecare/utils"

	"go.uber.org/zap"
)

type transition struct {
	verb string
	from []string
	to   string
}

var (
	confirmTransition  = transition{verb: "confirm", from: []string{models.StatusPending}, to: models.StatusScheduled}
	rejectTransition   = transition{verb: "reject", from: []string{models.StatusPending}, to: models.StatusRejected}
	startTransition    = transition{verb: "start", from: []string{models.StatusScheduled}, to: models.StatusOngoing}
	completeTransition = transition{verb: "complete", from: []string{models.StatusScheduled, models.StatusOngoing}, to: models.StatusCompleted}
	cancelTransition   = transition{verb: "cancel", from: []string{models.StatusPending, models.StatusScheduled}, to: models.StatusCancelled}
)

// apply checks ownership and the current status, then moves the appointment to t.to.
// The update is conditional on the status read here, so concurrent changes surface as a conflict.
func (s *DefaultAppointmentService) apply(ctx context.Context, appointmentID string, owns func(*models.Appointment) bool, t transition, change appointmentRepo.StatusChange) (*models.Appointment, error) {
	appt, err := s.find(ctx, appointmentID)
	if err != nil {
		return nil, err
	}
	if !owns(appt) {
		return nil, utils.Forbidden("You are not authorized to modify this appointment.")
	}
	if !slices.Contains(t.from, appt.Status) {
		return nil, utils.BadRequest(fmt.Sprintf("Appointment is already %s, cannot %s.", strings.ToLower(appt.Status), t.verb))
	}

	change.From = t.from
	change.To = t.to
	updated, err := s.Repo.Transition(ctx, appointmentID, change)
	if err != nil {
		if errors.Is(err, database.ErrNotFound) {
			return nil, utils.Conflict("Appointment was updated by someone else, please refresh.")
		}
		return nil, utils.Internal("Server error", err)
	}

	utils.AppointmentTransitions.WithLabelValues(updated.Status).Inc()
	utils.GetLogger().Info("Appointment status changed",
		zap.String("appointmentId", updated.ID),
		zap.String("from", appt.Status),
		zap.String("to", updated.Status))
	return updated, nil
}

func doctorOf(doctorID string) func(*models.Appointment) bool {
	return func(a *models.Appointment) bool { return a.DoctorID == doctorID }
}

// notify runs the notification steps on a detached context; the request may already be gone
// and a failed SMS never undoes a status change.
func (s *DefaultAppointmentService) notify(ctx context.Context, appt *models.Appointment, steps ...func(context.Context, *models.Appointment) error) {
	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 5*time.Second)
	defer cancel()
	for _, step := range steps {
		if err := step(ctx, appt); err != nil {
			utils.GetLogger().Error("Failed to queue appointment notification",
				zap.String("appointmentId", appt.ID), zap.Error(err))
		}
	}
}

func (s *DefaultAppointmentService) Confirm(ctx context.Context, appointmentID, doctorID string) (*models.Appointment, error) {
	appt, err := s.apply(ctx, appointmentID, doctorOf(doctorID), confirmTransition, appointmentRepo.StatusChange{})
	if err != nil {
		return nil, err
	}
	if s.Notifier != nil {
		s.notify(ctx, appt, s.Notifier.NotifyStatus, s.Notifier.ScheduleReminder)
	}
	return appt, nil
}

func (s *DefaultAppointmentService) Reject(ctx context.Context, appointmentID, doctorID, reason string) (*models.Appointment, error) {
	change := appointmentRepo.StatusChange{RejectionReason: strings.TrimSpace(reason)}
	appt, err := s.apply(ctx, appointmentID, doctorOf(doctorID), rejectTransition, change)
	if err != nil {
		return nil, err
	}
	if s.Notifier != nil {
		s.notify(ctx, appt, s.Notifier.NotifyStatus)
	}
	return appt, nil
}

func (s *DefaultAppointmentService) Start(ctx context.Context, appointmentID, doctorID string) (*models.Appointment, error) {
	return s.apply(ctx, appointmentID, doctorOf(doctorID), startTransition, appointmentRepo.StatusChange{})
}

func (s *DefaultAppointmentService) Complete(ctx context.Context, appointmentID, doctorID string, req models.CompleteRequest) (*models.Appointment, error) {
	change := appointmentRepo.StatusChange{
		Prescription: strings.TrimSpace(req.Prescription),
		ExtraAdvice:  strings.TrimSpace(req.ExtraAdvice),
	}
	appt, err := s.apply(ctx, appointmentID, doctorOf(doctorID), completeTransition, change)
	if err != nil {
		return nil, err
	}
	if s.Notifier != nil {
		s.notify(ctx, appt, s.Notifier.NotifyStatus)
	}
	return appt, nil
}

func (s *DefaultAppointmentService) Cancel(ctx context.Context, appointmentID, callerID string) (*models.Appointment, error) {
	isParty := func(a *models.Appointment) bool { return a.HasParty(callerID) }
	appt, err := s.apply(ctx, appointmentID, isParty, cancelTransition, appointmentRepo.StatusChange{})
	if err != nil {
		return nil, err
	}
	if s.Notifier != nil {
		s.notify(ctx, appt, s.Notifier.CancelReminder, s.Notifier.NotifyStatus)
	}
	return appt, nil
}

// SubmitFeedback records the patient's rating of a completed appointment and folds it into
// the doctor's reviews.
func (s *DefaultAppointmentService) SubmitFeedback(ctx context.Context, appointmentID, patientID string, req models.FeedbackRequest) error {
	if req.Rating < 1 || req.Rating > 5 {
		return utils.BadRequest("Rating must be between 1 and 5")
	}

	appt, err := s.find(ctx, appointmentID)
	if err != nil {
		return err
	}
	if appt.PatientID != patientID {
		return utils.Forbidden("You are not authorized to review this appointment.")
	}
	if appt.Status != models.StatusCompleted {
		return utils.BadRequest("Feedback can only be given for completed appointments.")
	}
	if appt.FeedbackRating != 0 {
		return utils.BadRequest("Feedback has already been submitted for this appointment.")
	}

	comment := strings.TrimSpace(req.Comment)
	if err := s.Repo.SetFeedback(ctx, appointmentID, req.Rating, comment); err != nil {
		if errors.Is(err, database.ErrNotFound) {
			return utils.BadRequest("Feedback has already been submitted for this appointment.")
		}
		return utils.Internal("Server error", err)
	}

	review := models.Review{
		PatientID:     patientID,
		AppointmentID: appointmentID,
		Rating:        req.Rating,
		Comment:       comment,
		CreatedAt:     s.now().UTC(),
	}
	if err := s.Doctors.AddReview(ctx, appt.DoctorID, review); err != nil {
		// Release the rating so the patient can retry.
		if clearErr := s.Repo.ClearFeedback(ctx, appointmentID); clearErr != nil {
			utils.GetLogger().Error("Failed to release feedback after review error",
				zap.String("appointmentId", appointmentID), zap.Error(clearErr))
		}
		return utils.Internal("Server error", err)
	}
	return nil
}
