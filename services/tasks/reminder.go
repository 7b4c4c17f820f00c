package tasks

import (
	"encoding/json"
	"time"

	"telecare/models"

	"github.com/hibiken/asynq"
)

const (
	TypeAppointmentStatus   = "appointment:status"
	TypeAppointmentReminder = "appointment:reminder"

	DefaultQueue = "default"
)

// ReminderTaskID is the asynq task id of an appointment's reminder.
func ReminderTaskID(appointmentID string) string {
	return "reminder:" + appointmentID
}

// NewStatusTask builds an SMS task that runs as soon as a worker picks it up.
func NewStatusTask(payload models.NotificationPayload) (*asynq.Task, []asynq.Option, error) {
	b, err := json.Marshal(payload)
	if err != nil {
		return nil, nil, err
	}
	task := asynq.NewTask(TypeAppointmentStatus, b)
	opts := []asynq.Option{asynq.MaxRetry(5)}

	return task, opts, nil
}

// NewReminderTask builds an SMS task held until fireAt. The task id is derived from the
// appointment so confirming twice cannot queue two reminders.
func NewReminderTask(payload models.NotificationPayload, fireAt time.Time) (*asynq.Task, []asynq.Option, error) {
	b, err := json.Marshal(payload)
	if err != nil {
		return nil, nil, err
	}
	task := asynq.NewTask(TypeAppointmentReminder, b)
	opts := []asynq.Option{
		asynq.ProcessAt(fireAt),
		asynq.TaskID(ReminderTaskID(payload.AppointmentID)),
		asynq.MaxRetry(3),
	}

	return task, opts, nil
}
