package cron

import (
	"context"
	"errors"
	"testing"
	"time"

	"telecare/models"
	"telecare/services/tasks"

	"github.com/hibiken/asynq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingSender struct {
	to, body string
	err      error
}

func (s *recordingSender) Send(_ context.Context, to, body string) error {
	s.to, s.body = to, body
	return s.err
}

func TestHandleNotificationTask(t *testing.T) {
	sender := &recordingSender{}
	task, _, err := tasks.NewReminderTask(models.NotificationPayload{
		AppointmentID: "a-1",
		Kind:          models.NotificationReminder,
		To:            "+919876543210",
		Body:          "starts soon",
	}, time.Now().Add(time.Hour))
	require.NoError(t, err)

	require.NoError(t, HandleNotificationTask(sender)(context.Background(), task))
	assert.Equal(t, "+919876543210", sender.to)
	assert.Equal(t, "starts soon", sender.body)
}

func TestHandleNotificationTaskSendFailure(t *testing.T) {
	sender := &recordingSender{err: errors.New("twilio down")}
	task, _, _ := tasks.NewStatusTask(models.NotificationPayload{AppointmentID: "a-1", To: "+919876543210", Body: "x"})

	assert.EqualError(t, HandleNotificationTask(sender)(context.Background(), task), "twilio down")
}

func TestHandleNotificationTaskBadPayload(t *testing.T) {
	sender := &recordingSender{}
	err := HandleNotificationTask(sender)(context.Background(), asynq.NewTask(tasks.TypeAppointmentStatus, []byte("{")))

	require.Error(t, err)
	assert.ErrorIs(t, err, asynq.SkipRetry)
	assert.Empty(t, sender.to)
}
