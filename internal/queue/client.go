package queue

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/hibiken/asynq"

	"github.com/prateekgoyal/proposalhub/internal/config"
	"github.com/prateekgoyal/proposalhub/internal/models"
)

type Client struct {
	client *asynq.Client
}

func NewClient(cfg config.RedisConfig) *Client {
	return &Client{
		client: asynq.NewClient(asynq.RedisClientOpt{
			Addr:     cfg.Addr,
			Password: cfg.Password,
			DB:       cfg.DB,
		}),
	}
}

func (c *Client) Close() error {
	return c.client.Close()
}

func (c *Client) EnqueueAnalyticsRecord(payload AnalyticsRecordPayload) error {
	return c.enqueue(TypeAnalyticsRecord, payload, asynq.MaxRetry(3), asynq.Timeout(30*time.Second))
}

func (c *Client) EnqueueIndexRebuild(payload IndexRebuildPayload) error {
	return c.enqueue(TypeIndexRebuild, payload,
		asynq.MaxRetry(1), asynq.Timeout(10*time.Minute), asynq.Unique(10*time.Minute))
}

// Record satisfies analytics.Recorder by deferring the write to the worker.
func (c *Client) Record(ctx context.Context, rec models.SearchAnalytics) error {
	return c.EnqueueAnalyticsRecord(AnalyticsRecordPayload{
		SearchTerm:   rec.SearchTerm,
		Filters:      rec.Filters,
		UserID:       rec.UserID,
		ResultCount:  rec.ResultCount,
		SearchTimeMs: rec.SearchTimeMs,
		SearchedAt:   rec.CreatedAt,
	})
}

func (c *Client) enqueue(taskType string, payload interface{}, opts ...asynq.Option) error {
	data, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("marshal payload: %w", err)
	}
	task := asynq.NewTask(taskType, data)
	_, err = c.client.Enqueue(task, opts...)
	if err != nil {
		return fmt.Errorf("enqueue %s: %w", taskType, err)
	}
	return nil
}
