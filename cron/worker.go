package cron

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"telecare/config"
	"telecare/models"
	"telecare/services/notification"
	"telecare/services/tasks"
	"telecare/utils"

	"github.com/hibiken/asynq"
	"go.uber.org/zap"
)

// QueueRedisOpt is the asynq connection used by both the client and the worker.
func QueueRedisOpt() asynq.RedisClientOpt {
	return asynq.RedisClientOpt{
		Addr:     config.AppConfig.RedisAddr,
		Password: config.AppConfig.RedisPassword,
		DB:       config.AppConfig.RedisQueueDB,
	}
}

// InitNotificationWorker starts the SMS worker in the background. The returned server
// should be shut down with the rest of the process.
func InitNotificationWorker(sender notification.SMSSender) *asynq.Server {
	logger := utils.GetLogger()

	srv := asynq.NewServer(
		QueueRedisOpt(),
		asynq.Config{
			Concurrency: 10,
			Queues: map[string]int{
				"default": 1,
			},
		},
	)

	mux := asynq.NewServeMux()
	handler := HandleNotificationTask(sender)
	mux.HandleFunc(tasks.TypeAppointmentStatus, handler)
	mux.HandleFunc(tasks.TypeAppointmentReminder, handler)

	go func() {
		logger.Info("Starting notification worker")
		const maxAttempts = 5

		for attempts := 1; attempts <= maxAttempts; attempts++ {
			err := srv.Run(mux)
			if err == nil {
				return
			}
			logger.Error("Notification worker failed to start",
				zap.Int("attempt", attempts), zap.Int("maxAttempts", maxAttempts), zap.Error(err))
			if attempts == maxAttempts {
				logger.Error("Notification worker gave up; appointment SMS will stay queued")
				return
			}
			time.Sleep(time.Duration(attempts*2) * time.Second)
		}
	}()

	return srv
}

// HandleNotificationTask delivers the SMS carried by a status or reminder task.
func HandleNotificationTask(sender notification.SMSSender) asynq.HandlerFunc {
	return func(ctx context.Context, task *asynq.Task) error {
		logger := utils.GetLogger()

		var p models.NotificationPayload
		if err := json.Unmarshal(task.Payload(), &p); err != nil {
			logger.Error("Invalid notification payload", zap.String("type", task.Type()), zap.Error(err))
			return fmt.Errorf("invalid payload: %v: %w", err, asynq.SkipRetry)
		}
		if p.To == "" || p.Body == "" {
			logger.Warn("Notification without recipient or body", zap.String("appointmentId", p.AppointmentID))
			return nil
		}

		if err := sender.Send(ctx, p.To, p.Body); err != nil {
			logger.Error("Failed to send SMS",
				zap.String("appointmentId", p.AppointmentID),
				zap.String("kind", p.Kind),
				zap.Error(err))
			return err
		}

		logger.Info("SMS sent", zap.String("appointmentId", p.AppointmentID), zap.String("kind", p.Kind))
		return nil
	}
}
