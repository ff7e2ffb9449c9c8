package workers

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"

	"github.com/hibiken/asynq"

	"github.com/prateekgoyal/proposalhub/internal/queue"
	"github.com/prateekgoyal/proposalhub/internal/search"
)

// IndexWorker performs lazy index rebuilds enqueued by the search path.
type IndexWorker struct {
	builder *search.Builder
}

func NewIndexWorker(builder *search.Builder) *IndexWorker {
	return &IndexWorker{builder: builder}
}

func (w *IndexWorker) ProcessTask(ctx context.Context, t *asynq.Task) error {
	var payload queue.IndexRebuildPayload
	if err := json.Unmarshal(t.Payload(), &payload); err != nil {
		return fmt.Errorf("unmarshal payload: %w", err)
	}

	res, err := w.builder.Rebuild(ctx, payload.Force)
	if errors.Is(err, search.ErrRebuildInProgress) {
		slog.Info("skipping rebuild, already running", "reason", payload.Reason)
		return nil
	}
	if err != nil {
		return fmt.Errorf("rebuild index: %w", err)
	}

	slog.Info("background index rebuild done",
		"documents", res.DocumentCount, "elapsed", res.RebuildTime, "reason", payload.Reason)
	return nil
}
