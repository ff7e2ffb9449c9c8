package workers

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/hibiken/asynq"

	"github.com/prateekgoyal/proposalhub/internal/analytics"
	"github.com/prateekgoyal/proposalhub/internal/models"
	"github.com/prateekgoyal/proposalhub/internal/queue"
)

// AnalyticsWorker drains queued search events into dms_search_analytics.
type AnalyticsWorker struct {
	recorder *analytics.SyncRecorder
}

func NewAnalyticsWorker(recorder *analytics.SyncRecorder) *AnalyticsWorker {
	return &AnalyticsWorker{recorder: recorder}
}

func (w *AnalyticsWorker) ProcessTask(ctx context.Context, t *asynq.Task) error {
	var payload queue.AnalyticsRecordPayload
	if err := json.Unmarshal(t.Payload(), &payload); err != nil {
		return fmt.Errorf("unmarshal payload: %w", err)
	}

	rec := models.SearchAnalytics{
		SearchTerm:   payload.SearchTerm,
		Filters:      payload.Filters,
		UserID:       payload.UserID,
		ResultCount:  payload.ResultCount,
		SearchTimeMs: payload.SearchTimeMs,
		CreatedAt:    payload.SearchedAt,
	}

	if err := w.recorder.Record(ctx, rec); err != nil {
		return fmt.Errorf("record search analytics: %w", err)
	}

	slog.Debug("recorded search analytics", "term", payload.SearchTerm, "results", payload.ResultCount)
	return nil
}
