package cron

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"meetwise/config"
	"meetwise/models"

	"github.com/hibiken/asynq"
	"go.uber.org/zap"
)

// ReminderScheduler enqueues a reminder task for an approved booking, timed
// ahead of the meeting start.
type ReminderScheduler struct {
	client   *asynq.Client
	lead     time.Duration
	location *time.Location
	logger   *zap.Logger
}

func NewReminderScheduler(cfg config.Config, loc *time.Location, logger *zap.Logger) *ReminderScheduler {
	client := asynq.NewClient(asynq.RedisClientOpt{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
		DB:       cfg.RedisReminderQueueDB,
	})
	return &ReminderScheduler{
		client:   client,
		lead:     time.Duration(cfg.ReminderLeadMinutes) * time.Minute,
		location: loc,
		logger:   logger,
	}
}

// Schedule queues a reminder for rec. Meetings starting too soon for the
// configured lead simply get no reminder.
func (s *ReminderScheduler) Schedule(ctx context.Context, rec *models.BookingRequest) error {
	start, _, err := rec.Window(s.location)
	if err != nil {
		return fmt.Errorf("failed to compute meeting window: %w", err)
	}

	fireAt := start.Add(-s.lead)
	if !fireAt.After(time.Now()) {
		return nil
	}

	payload, err := json.Marshal(models.ReminderPayload{
		Token:    rec.ApprovalToken,
		FireDate: fireAt.Format(time.RFC3339),
	})
	if err != nil {
		return fmt.Errorf("failed to marshal reminder payload: %w", err)
	}

	task := asynq.NewTask(TypeReminderSend, payload)
	if _, err := s.client.EnqueueContext(ctx, task, asynq.ProcessAt(fireAt)); err != nil {
		return fmt.Errorf("failed to enqueue reminder: %w", err)
	}

	s.logger.Info("reminder scheduled",
		zap.String("bookingID", rec.ID),
		zap.Time("fireAt", fireAt))
	return nil
}

// Close releases the underlying queue client.
func (s *ReminderScheduler) Close() error {
	return s.client.Close()
}
