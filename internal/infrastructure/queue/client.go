package queue

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/hibiken/asynq"

	"library-catalog/internal/shared"
	"library-catalog/pkg/logger"
)

// taskOptions holds the queue, retry and timeout settings per task type
var taskOptions = map[string][]asynq.Option{
	shared.TypeImportBooks: {
		asynq.Queue(shared.QueueCritical),
		asynq.MaxRetry(5),
		asynq.Timeout(30 * time.Minute),
		asynq.Retention(24 * time.Hour),
	},
	shared.TypeCleanupImportUploads: {
		asynq.Queue(shared.QueueLow),
		asynq.MaxRetry(2),
		asynq.Timeout(10 * time.Minute),
	},
}

// Client enqueues background tasks on asynq
type Client struct {
	client *asynq.Client
}

func NewClient(redisOpt asynq.RedisClientOpt) *Client {
	return &Client{client: asynq.NewClient(redisOpt)}
}

// Enqueue marshals payload to JSON and enqueues it with the options
// registered for taskType. Unknown types go to the default queue.
func (c *Client) Enqueue(ctx context.Context, taskType string, payload interface{}) error {
	data, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("marshal %s payload: %w", taskType, err)
	}

	opts, ok := taskOptions[taskType]
	if !ok {
		opts = []asynq.Option{asynq.Queue(shared.QueueDefault)}
	}

	info, err := c.client.EnqueueContext(ctx, asynq.NewTask(taskType, data), opts...)
	if err != nil {
		logger.Error("Failed to enqueue "+taskType, err)
		return fmt.Errorf("enqueue %s: %w", taskType, err)
	}

	logger.Info("Enqueued task", map[string]interface{}{
		"type":  taskType,
		"id":    info.ID,
		"queue": info.Queue,
	})
	return nil
}

func (c *Client) Close() error {
	return c.client.Close()
}
