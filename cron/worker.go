package cron

import (
	"context"
	"encoding/json"
	"log"
	"time"

	"github.com/kranthikiran885366/time-table-app/config"
	timetableService "github.com/kranthikiran885366/time-table-app/services/timetable"

	"github.com/hibiken/asynq"
)

const TypeScheduleRefresh = "schedule:refresh"

// scheduleRefreshPayload carries the section whose cached schedule should be
// rebuilt after a commit.
type scheduleRefreshPayload struct {
	SectionCode string `json:"sectionCode"`
}

// NewQueueClient returns an asynq client bound to the task queue Redis DB.
func NewQueueClient() *asynq.Client {
	return asynq.NewClient(asynq.RedisClientOpt{
		Addr:     config.AppConfig.RedisAddr,
		Password: config.AppConfig.RedisPassword,
		DB:       config.AppConfig.RedisQueueDB,
	})
}

// EnqueueScheduleRefresh queues a cache rebuild for one section.
func EnqueueScheduleRefresh(client *asynq.Client, sectionCode string) error {
	payload, err := json.Marshal(scheduleRefreshPayload{SectionCode: sectionCode})
	if err != nil {
		return err
	}
	_, err = client.Enqueue(asynq.NewTask(TypeScheduleRefresh, payload))
	return err
}

// InitScheduleWorker runs the async worker in background.
func InitScheduleWorker(svc timetableService.TimetableService) {
	redisOpts := asynq.RedisClientOpt{
		Addr:     config.AppConfig.RedisAddr,
		Password: config.AppConfig.RedisPassword,
		DB:       config.AppConfig.RedisQueueDB,
	}

	srv := asynq.NewServer(
		redisOpts,
		asynq.Config{
			Concurrency: 5,
			Queues: map[string]int{
				"default": 1,
			},
		},
	)

	mux := asynq.NewServeMux()
	mux.HandleFunc(TypeScheduleRefresh, handleScheduleRefresh(svc))

	go func() {
		log.Println("[ScheduleWorker] starting async worker...")
		const maxAttempts = 5

		for attempts := 1; attempts <= maxAttempts; attempts++ {
			if err := srv.Run(mux); err != nil {
				log.Printf("[ScheduleWorker] attempt %d/%d failed to start worker: %v", attempts, maxAttempts, err)

				if attempts == maxAttempts {
					log.Fatal("[ScheduleWorker] max retry attempts reached, exiting")
				}
				time.Sleep(time.Duration(attempts*2) * time.Second)
			} else {
				break
			}
		}
	}()
}

func handleScheduleRefresh(svc timetableService.TimetableService) asynq.HandlerFunc {
	return func(ctx context.Context, task *asynq.Task) error {
		var p scheduleRefreshPayload
		if err := json.Unmarshal(task.Payload(), &p); err != nil {
			log.Printf("[ScheduleWorker] invalid payload: %v", err)
			return err
		}
		if err := svc.RefreshSectionCache(ctx, p.SectionCode); err != nil {
			log.Printf("[ScheduleWorker] failed to refresh schedule cache for %s: %v", p.SectionCode, err)
			return err
		}
		return nil
	}
}
