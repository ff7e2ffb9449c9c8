package analytics

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/prateekgoyal/proposalhub/internal/models"
)

// Recorder accepts one record per executed search. The search path holds a
// Recorder so the write can be queued instead of blocking the response.
type Recorder interface {
	Record(ctx context.Context, rec models.SearchAnalytics) error
}

// SyncRecorder writes the record inline. Used by the queue worker and by
// deployments running without Redis.
type SyncRecorder struct {
	db *sqlx.DB
}

func NewSyncRecorder(db *sqlx.DB) *SyncRecorder {
	return &SyncRecorder{db: db}
}

func (r *SyncRecorder) Record(ctx context.Context, rec models.SearchAnalytics) error {
	if rec.ID == "" {
		rec.ID = uuid.NewString()
	}
	if rec.CreatedAt.IsZero() {
		rec.CreatedAt = time.Now().UTC()
	}
	if rec.Filters == "" {
		rec.Filters = "{}"
	}

	_, err := r.db.ExecContext(ctx, `
		INSERT INTO dms_search_analytics
			(id, search_term, filters, user_id, result_count, search_time_ms, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)`,
		rec.ID, rec.SearchTerm, rec.Filters, rec.UserID,
		rec.ResultCount, rec.SearchTimeMs, rec.CreatedAt)
	if err != nil {
		return fmt.Errorf("insert search analytics: %w", err)
	}
	return nil
}
