package queue

import (
	"encoding/json"
	"time"

	"github.com/hibiken/asynq"

	"library-catalog/internal/config"
	"library-catalog/internal/domains/book/model"
	"library-catalog/internal/shared"
	"library-catalog/pkg/logger"
)

type Scheduler struct {
	scheduler    *asynq.Scheduler
	importConfig config.ImportConfig
}

func NewScheduler(redisOpt asynq.RedisClientOpt, importConfig config.ImportConfig) *Scheduler {
	scheduler := asynq.NewScheduler(
		redisOpt,
		&asynq.SchedulerOpts{
			Location: time.UTC,
			LogLevel: asynq.InfoLevel,
		},
	)

	return &Scheduler{
		scheduler:    scheduler,
		importConfig: importConfig,
	}
}

func (s *Scheduler) RegisterCleanupJobs() error {
	return s.registerCleanupImportUploadsJob()
}

// ================================================
// Cleanup Import Uploads (daily by default)
// ================================================
func (s *Scheduler) registerCleanupImportUploadsJob() error {
	payload, err := json.Marshal(model.CleanupUploadsPayload{})
	if err != nil {
		return err
	}

	task := asynq.NewTask(shared.TypeCleanupImportUploads, payload)

	_, err = s.scheduler.Register(
		s.importConfig.CleanupCron,
		task,
		taskOptions[shared.TypeCleanupImportUploads]...,
	)
	if err != nil {
		logger.Error("Failed to register CleanupImportUploads job", err)
		return err
	}

	logger.Info("Registered CleanupImportUploads", map[string]interface{}{
		"cron":      s.importConfig.CleanupCron,
		"retention": s.importConfig.UploadRetention.String(),
	})
	return nil
}

func (s *Scheduler) Start() error {
	return s.scheduler.Run()
}

func (s *Scheduler) Shutdown() {
	s.scheduler.Shutdown()
	logger.Debug("Scheduler stopped")
}
