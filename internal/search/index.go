package search

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/jmoiron/sqlx"
)

var ErrRebuildInProgress = errors.New("index rebuild already in progress")

const rebuildLockKey = "dms:index:rebuild"

// AdvisoryLocker guards the rebuild across processes. The in-process mutex
// below only protects a single instance.
type AdvisoryLocker interface {
	Acquire(ctx context.Context, key string, ttl time.Duration) (bool, error)
	Release(ctx context.Context, key string) error
}

// Builder recomputes fts_content for every document and asks the FTS5
// virtual table to rebuild its index structures. All-or-nothing: any SQL
// error aborts the rebuild inside one transaction.
type Builder struct {
	db         *sqlx.DB
	locker     AdvisoryLocker
	staleAfter time.Duration

	mu sync.Mutex
}

func NewBuilder(db *sqlx.DB, locker AdvisoryLocker, staleAfter time.Duration) *Builder {
	return &Builder{db: db, locker: locker, staleAfter: staleAfter}
}

type RebuildResult struct {
	DocumentCount int           `json:"document_count"`
	RebuildTime   time.Duration `json:"-"`
	RebuildTimeMs int64         `json:"rebuild_time"`
	Forced        bool          `json:"forced"`
	Skipped       bool          `json:"skipped,omitempty"`
}

// Rebuild reindexes the whole corpus. Without force, a fresh index (every
// row indexed within the staleness window) is left alone.
func (b *Builder) Rebuild(ctx context.Context, force bool) (*RebuildResult, error) {
	if !b.mu.TryLock() {
		return nil, ErrRebuildInProgress
	}
	defer b.mu.Unlock()

	if b.locker != nil {
		ok, err := b.locker.Acquire(ctx, rebuildLockKey, 5*time.Minute)
		if err != nil {
			slog.Warn("rebuild advisory lock unavailable", "error", err)
		} else if !ok {
			return nil, ErrRebuildInProgress
		} else {
			// Release must survive the caller hanging up mid-rebuild,
			// otherwise the lock lingers until its TTL.
			defer b.locker.Release(context.WithoutCancel(ctx), rebuildLockKey)
		}
	}

	start := time.Now()

	if !force {
		fresh, err := b.indexFresh(ctx)
		if err != nil {
			return nil, err
		}
		if fresh {
			count, err := b.indexedCount(ctx)
			if err != nil {
				return nil, err
			}
			return &RebuildResult{
				DocumentCount: count,
				RebuildTime:   time.Since(start),
				RebuildTimeMs: time.Since(start).Milliseconds(),
				Forced:        false,
				Skipped:       true,
			}, nil
		}
	}

	tx, err := b.db.BeginTxx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("begin rebuild tx: %w", err)
	}
	defer tx.Rollback()

	// Concatenate the searchable surface of every row. The update trigger
	// keeps the virtual table in sync row by row; the explicit 'rebuild'
	// command below re-derives the whole index from the content table.
	res, err := tx.ExecContext(ctx, `
		UPDATE dms_documents SET
			fts_content = trim(
				title || ' ' || description || ' ' || content || ' ' ||
				replace(tags, ',', ' ') || ' ' ||
				coalesce(json_extract(metadata, '$.department'), '') || ' ' ||
				coalesce(json_extract(metadata, '$.project'), '') || ' ' ||
				coalesce(json_extract(metadata, '$.client'), '') || ' ' ||
				status || ' ' || category || ' ' || doc_type),
			fts_last_updated = datetime('now')`)
	if err != nil {
		return nil, fmt.Errorf("recompute fts_content: %w", err)
	}
	count, err := res.RowsAffected()
	if err != nil {
		return nil, fmt.Errorf("rows affected: %w", err)
	}

	if _, err := tx.ExecContext(ctx,
		`INSERT INTO dms_documents_fts(dms_documents_fts) VALUES('rebuild')`); err != nil {
		return nil, fmt.Errorf("rebuild virtual table: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("commit rebuild: %w", err)
	}

	elapsed := time.Since(start)
	slog.Info("index rebuilt", "documents", count, "elapsed", elapsed, "forced", force)

	return &RebuildResult{
		DocumentCount: int(count),
		RebuildTime:   elapsed,
		RebuildTimeMs: elapsed.Milliseconds(),
		Forced:        force,
	}, nil
}

// Stale reports whether any document is missing from the index or was
// indexed before the staleness window.
func (b *Builder) Stale(ctx context.Context) (bool, error) {
	fresh, err := b.indexFresh(ctx)
	if err != nil {
		return false, err
	}
	return !fresh, nil
}

func (b *Builder) indexFresh(ctx context.Context) (bool, error) {
	var stale int
	cutoff := time.Now().UTC().Add(-b.staleAfter).Format("2006-01-02 15:04:05")
	err := b.db.GetContext(ctx, &stale, `
		SELECT COUNT(*) FROM dms_documents
		WHERE fts_content IS NULL
		   OR fts_last_updated IS NULL
		   OR fts_last_updated < ?`, cutoff)
	if err != nil {
		return false, fmt.Errorf("check index freshness: %w", err)
	}
	return stale == 0, nil
}

func (b *Builder) indexedCount(ctx context.Context) (int, error) {
	var count int
	err := b.db.GetContext(ctx, &count,
		`SELECT COUNT(*) FROM dms_documents WHERE fts_content IS NOT NULL`)
	if err != nil {
		return 0, fmt.Errorf("count indexed documents: %w", err)
	}
	return count, nil
}
