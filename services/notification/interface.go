package notification

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"telecare/models"
	"telecare/services/tasks"
	"telecare/utils"

	"github.com/hibiken/asynq"
	"go.uber.org/zap"
)

// NotificationService tells patients about their appointments by SMS.
type NotificationService interface {
	// NotifyStatus queues a message describing the appointment's current status.
	NotifyStatus(ctx context.Context, appt *models.Appointment) error
	// ScheduleReminder queues a message to be sent shortly before the appointment starts.
	ScheduleReminder(ctx context.Context, appt *models.Appointment) error
	// CancelReminder drops a reminder that has not fired yet.
	CancelReminder(ctx context.Context, appt *models.Appointment) error
}

// Enqueuer is the part of *asynq.Client the service needs.
type Enqueuer interface {
	EnqueueContext(ctx context.Context, task *asynq.Task, opts ...asynq.Option) (*asynq.TaskInfo, error)
}

// TaskDeleter is the part of *asynq.Inspector the service needs.
type TaskDeleter interface {
	DeleteTask(queue, id string) error
}

// DefaultNotificationService queues SMS tasks on asynq.
type DefaultNotificationService struct {
	queue     Enqueuer
	inspector TaskDeleter
	lead      time.Duration
	location  *time.Location
	now       func() time.Time
}

// NewDefaultNotificationService wires the service to an asynq client. inspector may be nil,
// in which case cancelled appointments keep their reminder.
func NewDefaultNotificationService(queue Enqueuer, inspector TaskDeleter, lead time.Duration, location *time.Location) (*DefaultNotificationService, error) {
	if queue == nil {
		return nil, fmt.Errorf("notification service initialization error: queue is nil")
	}
	if location == nil {
		location = time.UTC
	}
	return &DefaultNotificationService{queue: queue, inspector: inspector, lead: lead, location: location, now: time.Now}, nil
}

func (s *DefaultNotificationService) when(appt *models.Appointment) string {
	return appt.StartTime.In(s.location).Format("Mon 02 Jan, 15:04")
}

func doctorName(appt *models.Appointment) string {
	name := strings.TrimSpace(appt.Doctor.FullName)
	if name == "" {
		return "your doctor"
	}
	if strings.HasPrefix(strings.ToLower(name), "dr") {
		return name
	}
	return "Dr. " + name
}

// StatusMessage renders the SMS body for the appointment's status.
func (s *DefaultNotificationService) StatusMessage(appt *models.Appointment) string {
	with := doctorName(appt)
	switch appt.Status {
	case models.StatusScheduled:
		return fmt.Sprintf("TeleCare: your video consultation with %s on %s is confirmed.", with, s.when(appt))
	case models.StatusRejected:
		msg := fmt.Sprintf("TeleCare: %s could not accept your appointment request for %s.", with, s.when(appt))
		if appt.RejectionReason != "" {
			msg += " Reason: " + appt.RejectionReason
		}
		return msg
	case models.StatusCancelled:
		return fmt.Sprintf("TeleCare: your appointment with %s on %s has been cancelled.", with, s.when(appt))
	case models.StatusCompleted:
		return fmt.Sprintf("TeleCare: your consultation with %s is complete. Your prescription is available in the app.", with)
	default:
		return fmt.Sprintf("TeleCare: your appointment with %s on %s is now %s.", with, s.when(appt), strings.ToLower(appt.Status))
	}
}

func (s *DefaultNotificationService) NotifyStatus(ctx context.Context, appt *models.Appointment) error {
	if appt.Patient.PhoneNumber == "" {
		return nil
	}
	task, opts, err := tasks.NewStatusTask(models.NotificationPayload{
		AppointmentID: appt.ID,
		Kind:          models.NotificationStatusChange,
		Status:        appt.Status,
		To:            appt.Patient.PhoneNumber,
		Body:          s.StatusMessage(appt),
	})
	if err != nil {
		return fmt.Errorf("failed to build status task: %w", err)
	}
	if _, err := s.queue.EnqueueContext(ctx, task, opts...); err != nil {
		return fmt.Errorf("failed to enqueue status task: %w", err)
	}
	return nil
}

func (s *DefaultNotificationService) ScheduleReminder(ctx context.Context, appt *models.Appointment) error {
	if appt.Patient.PhoneNumber == "" {
		return nil
	}
	fireAt := appt.StartTime.Add(-s.lead)
	if !fireAt.After(s.now()) {
		return nil
	}

	task, opts, err := tasks.NewReminderTask(models.NotificationPayload{
		AppointmentID: appt.ID,
		Kind:          models.NotificationReminder,
		To:            appt.Patient.PhoneNumber,
		Body: fmt.Sprintf("TeleCare reminder: your video consultation with %s starts at %s.",
			doctorName(appt), appt.StartTime.In(s.location).Format("15:04")),
	}, fireAt)
	if err != nil {
		return fmt.Errorf("failed to build reminder task: %w", err)
	}
	if _, err := s.queue.EnqueueContext(ctx, task, opts...); err != nil {
		if errors.Is(err, asynq.ErrTaskIDConflict) {
			utils.GetLogger().Debug("Reminder already queued", zap.String("appointmentId", appt.ID))
			return nil
		}
		return fmt.Errorf("failed to enqueue reminder task: %w", err)
	}
	return nil
}

func (s *DefaultNotificationService) CancelReminder(_ context.Context, appt *models.Appointment) error {
	if s.inspector == nil {
		return nil
	}
	err := s.inspector.DeleteTask(tasks.DefaultQueue, tasks.ReminderTaskID(appt.ID))
	if err == nil || errors.Is(err, asynq.ErrTaskNotFound) || errors.Is(err, asynq.ErrQueueNotFound) {
		return nil
	}
	return fmt.Errorf("failed to cancel reminder: %w", err)
}
