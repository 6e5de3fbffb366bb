package cron

import (
	"context"
	"encoding/json"
	"log"
	"time"

	"meetwise/config"
	bookingRepo "meetwise/database/repository/booking"
	"meetwise/models"
	"meetwise/services/notification"

	"github.com/hibiken/asynq"
)

const TypeReminderSend = "reminder:send"

// InitReminderWorker runs the async reminder worker in background.
func InitReminderWorker(repo bookingRepo.BookingRepository, notifSvc notification.NotificationService) {
	redisOpts := asynq.RedisClientOpt{
		Addr:     config.AppConfig.RedisAddr,
		Password: config.AppConfig.RedisPassword,
		DB:       config.AppConfig.RedisReminderQueueDB,
	}

	srv := asynq.NewServer(
		redisOpts,
		asynq.Config{
			Concurrency: 10,
			Queues: map[string]int{
				"default": 1,
			},
		},
	)

	mux := asynq.NewServeMux()
	mux.HandleFunc(TypeReminderSend, handleReminderTask(repo, notifSvc))

	// Start async worker with retry logic
	go func() {
		log.Println("[ReminderWorker] starting async worker...")
		const maxAttempts = 5

		for attempts := 1; attempts <= maxAttempts; attempts++ {
			if err := srv.Run(mux); err != nil {
				log.Printf("[ReminderWorker] attempt %d/%d failed to start worker: %v", attempts, maxAttempts, err)

				if attempts == maxAttempts {
					log.Fatal("[ReminderWorker] max retry attempts reached. Exiting.")
				}
				time.Sleep(time.Duration(attempts*2) * time.Second) // Exponential backoff
			} else {
				break
			}
		}
	}()
}

func handleReminderTask(repo bookingRepo.BookingRepository, notifSvc notification.NotificationService) asynq.HandlerFunc {
	return func(ctx context.Context, task *asynq.Task) error {
		var p models.ReminderPayload
		if err := json.Unmarshal(task.Payload(), &p); err != nil {
			log.Printf("[ReminderHandler] invalid payload: %v", err)
			return err
		}

		// Re-read at fire time: a booking that is no longer approved, or
		// that never had a requester email, gets no reminder.
		rec, err := repo.GetByToken(ctx, p.Token)
		if err != nil {
			log.Printf("[ReminderHandler] failed to load booking: %v", err)
			return err
		}
		if rec.Status != models.StatusApproved || rec.RequesterEmail == "" {
			return nil
		}

		if err := notifSvc.SendReminder(ctx, rec); err != nil {
			log.Printf("[ReminderHandler] failed to send reminder: %v", err)
			return err
		}
		return nil
	}
}
