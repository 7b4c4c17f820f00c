package notification

import (
	"context"
	"errors"
	"testing"
	"time"

	"telecare/models"
	"telecare/services/tasks"

	"github.com/hibiken/asynq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	twclient "github.com/twilio/twilio-go/client"
	openapi "github.com/twilio/twilio-go/rest/api/v2010"
)

type mockEnqueuer struct {
	mock.Mock
}

func (m *mockEnqueuer) EnqueueContext(ctx context.Context, task *asynq.Task, opts ...asynq.Option) (*asynq.TaskInfo, error) {
	args := m.Called(ctx, task, opts)
	if info := args.Get(0); info != nil {
		return info.(*asynq.TaskInfo), args.Error(1)
	}
	return nil, args.Error(1)
}

func appointmentAt(start time.Time, status string) *models.Appointment {
	return &models.Appointment{
		ID:        "a-1",
		StartTime: start,
		EndTime:   start.Add(30 * time.Minute),
		Status:    status,
		Patient:   models.PatientSummary{ID: "p-1", FullName: "Meera", PhoneNumber: "+919876543210"},
		Doctor:    models.DoctorSummary{ID: "d-1", FullName: "Asha Rao"},
	}
}

func TestNotifyStatusEnqueuesTask(t *testing.T) {
	q := new(mockEnqueuer)
	svc, err := NewDefaultNotificationService(q, nil, 15*time.Minute, time.UTC)
	require.NoError(t, err)

	appt := appointmentAt(time.Date(2026, 10, 20, 10, 0, 0, 0, time.UTC), models.StatusScheduled)
	q.On("EnqueueContext", mock.Anything, mock.MatchedBy(func(task *asynq.Task) bool {
		return task.Type() == tasks.TypeAppointmentStatus
	}), mock.Anything).Return(&asynq.TaskInfo{ID: "t-1"}, nil).Once()

	require.NoError(t, svc.NotifyStatus(context.Background(), appt))
	q.AssertExpectations(t)
}

func TestNotifyStatusSkipsMissingPhone(t *testing.T) {
	q := new(mockEnqueuer)
	svc, _ := NewDefaultNotificationService(q, nil, 15*time.Minute, time.UTC)

	appt := appointmentAt(time.Now().Add(time.Hour), models.StatusScheduled)
	appt.Patient.PhoneNumber = ""

	require.NoError(t, svc.NotifyStatus(context.Background(), appt))
	q.AssertNotCalled(t, "EnqueueContext", mock.Anything, mock.Anything, mock.Anything)
}

func TestNotifyStatusEnqueueFailure(t *testing.T) {
	q := new(mockEnqueuer)
	svc, _ := NewDefaultNotificationService(q, nil, 15*time.Minute, time.UTC)

	q.On("EnqueueContext", mock.Anything, mock.Anything, mock.Anything).Return(nil, errors.New("redis down"))

	err := svc.NotifyStatus(context.Background(), appointmentAt(time.Now().Add(time.Hour), models.StatusRejected))
	assert.ErrorContains(t, err, "redis down")
}

func TestScheduleReminder(t *testing.T) {
	q := new(mockEnqueuer)
	svc, _ := NewDefaultNotificationService(q, nil, 15*time.Minute, time.UTC)

	q.On("EnqueueContext", mock.Anything, mock.MatchedBy(func(task *asynq.Task) bool {
		return task.Type() == tasks.TypeAppointmentReminder
	}), mock.Anything).Return(&asynq.TaskInfo{ID: "reminder:a-1"}, nil).Once()

	require.NoError(t, svc.ScheduleReminder(context.Background(), appointmentAt(time.Now().Add(2*time.Hour), models.StatusScheduled)))
	q.AssertExpectations(t)
}

func TestScheduleReminderTooLate(t *testing.T) {
	q := new(mockEnqueuer)
	svc, _ := NewDefaultNotificationService(q, nil, 15*time.Minute, time.UTC)

	require.NoError(t, svc.ScheduleReminder(context.Background(), appointmentAt(time.Now().Add(5*time.Minute), models.StatusScheduled)))
	q.AssertNotCalled(t, "EnqueueContext", mock.Anything, mock.Anything, mock.Anything)
}

func TestScheduleReminderAlreadyQueued(t *testing.T) {
	q := new(mockEnqueuer)
	svc, _ := NewDefaultNotificationService(q, nil, 15*time.Minute, time.UTC)

	q.On("EnqueueContext", mock.Anything, mock.Anything, mock.Anything).Return(nil, asynq.ErrTaskIDConflict)

	assert.NoError(t, svc.ScheduleReminder(context.Background(), appointmentAt(time.Now().Add(time.Hour), models.StatusScheduled)))
}

func TestStatusMessage(t *testing.T) {
	svc, _ := NewDefaultNotificationService(new(mockEnqueuer), nil, 0, time.UTC)
	appt := appointmentAt(time.Date(2026, 10, 20, 10, 0, 0, 0, time.UTC), models.StatusRejected)
	appt.RejectionReason = "On leave"

	msg := svc.StatusMessage(appt)
	assert.Contains(t, msg, "Dr. Asha Rao")
	assert.Contains(t, msg, "Tue 20 Oct, 10:00")
	assert.Contains(t, msg, "Reason: On leave")

	appt.Status = models.StatusScheduled
	appt.Doctor.FullName = "Dr. Ravi"
	assert.Contains(t, svc.StatusMessage(appt), "with Dr. Ravi on")
}

func TestNewDefaultNotificationServiceRequiresQueue(t *testing.T) {
	_, err := NewDefaultNotificationService(nil, nil, time.Minute, nil)
	assert.Error(t, err)
}

type mockMessages struct {
	mock.Mock
}

func (m *mockMessages) CreateMessage(params *openapi.CreateMessageParams) (*openapi.ApiV2010Message, error) {
	args := m.Called(params)
	if msg := args.Get(0); msg != nil {
		return msg.(*openapi.ApiV2010Message), args.Error(1)
	}
	return nil, args.Error(1)
}

func TestTwilioSender(t *testing.T) {
	messages := new(mockMessages)
	s := &TwilioSender{From: "+15005550006", Messages: messages}

	sid := "SM123"
	messages.On("CreateMessage", mock.MatchedBy(func(p *openapi.CreateMessageParams) bool {
		return p.To != nil && *p.To == "+919876543210" &&
			p.From != nil && *p.From == "+15005550006" &&
			p.Body != nil && *p.Body == "hello"
	})).Return(&openapi.ApiV2010Message{Sid: &sid}, nil).Once()

	require.NoError(t, s.Send(context.Background(), "+919876543210", "hello"))
	messages.AssertExpectations(t)
}

func TestTwilioSenderError(t *testing.T) {
	messages := new(mockMessages)
	s := &TwilioSender{From: "+15005550006", Messages: messages}

	messages.On("CreateMessage", mock.Anything).
		Return(nil, &twclient.TwilioRestError{Code: 21211, Message: "Invalid 'To' Phone Number", Status: 400}).Once()
	err := s.Send(context.Background(), "bad", "hello")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "21211")

	messages.On("CreateMessage", mock.Anything).Return(nil, errors.New("dial tcp: timeout")).Once()
	assert.ErrorContains(t, s.Send(context.Background(), "+919876543210", "hello"), "twilio request failed")
}

func TestTwilioSenderCancelledContext(t *testing.T) {
	messages := new(mockMessages)
	s := &TwilioSender{From: "+15005550006", Messages: messages}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	assert.ErrorIs(t, s.Send(ctx, "+919876543210", "hello"), context.Canceled)
	messages.AssertNotCalled(t, "CreateMessage", mock.Anything)
}

func TestNewTwilioSenderUsesRestClient(t *testing.T) {
	s := NewTwilioSender("AC123", "secret", "+15005550006")
	assert.Equal(t, "+15005550006", s.From)
	assert.NotNil(t, s.Messages)
}

type mockDeleter struct {
	mock.Mock
}

func (m *mockDeleter) DeleteTask(queue, id string) error {
	return m.Called(queue, id).Error(0)
}

func TestCancelReminder(t *testing.T) {
	d := new(mockDeleter)
	svc, _ := NewDefaultNotificationService(new(mockEnqueuer), d, 15*time.Minute, time.UTC)
	appt := appointmentAt(time.Now().Add(time.Hour), models.StatusCancelled)

	d.On("DeleteTask", "default", "reminder:a-1").Return(nil).Once()
	require.NoError(t, svc.CancelReminder(context.Background(), appt))

	d.On("DeleteTask", "default", "reminder:a-1").Return(asynq.ErrTaskNotFound).Once()
	require.NoError(t, svc.CancelReminder(context.Background(), appt))

	d.On("DeleteTask", "default", "reminder:a-1").Return(errors.New("redis down")).Once()
	assert.Error(t, svc.CancelReminder(context.Background(), appt))
	d.AssertExpectations(t)
}

func TestCancelReminderWithoutInspector(t *testing.T) {
	svc, _ := NewDefaultNotificationService(new(mockEnqueuer), nil, 15*time.Minute, time.UTC)
	assert.NoError(t, svc.CancelReminder(context.Background(), appointmentAt(time.Now(), models.StatusCancelled)))
}
