package search

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/prateekgoyal/proposalhub/internal/analytics"
	"github.com/prateekgoyal/proposalhub/internal/auth"
	"github.com/prateekgoyal/proposalhub/internal/cache"
	"github.com/prateekgoyal/proposalhub/internal/models"
	"github.com/prateekgoyal/proposalhub/internal/queue"
)

var ErrNotFound = errors.New("document not found")

// Reindexer requests a background rebuild when a search observes a stale
// index. Nil disables lazy reindexing.
type Reindexer interface {
	EnqueueIndexRebuild(payload queue.IndexRebuildPayload) error
}

type Service struct {
	db       *sqlx.DB
	builder  *Builder
	strategy RankStrategy
	recorder analytics.Recorder
	reindex  Reindexer
	cache    *cache.Cache
	cacheTTL time.Duration
}

func NewService(db *sqlx.DB, builder *Builder, strategy RankStrategy, recorder analytics.Recorder) *Service {
	if strategy == nil {
		strategy = DefaultBlend()
	}
	return &Service{
		db:       db,
		builder:  builder,
		strategy: strategy,
		recorder: recorder,
	}
}

// WithCache enables response caching for suggestions and stats.
func (s *Service) WithCache(c *cache.Cache, ttl time.Duration) *Service {
	s.cache = c
	s.cacheTTL = ttl
	return s
}

// WithReindexer enables lazy background reindexing.
func (s *Service) WithReindexer(r Reindexer) *Service {
	s.reindex = r
	return s
}

type Pagination struct {
	Total   int  `json:"total"`
	Limit   int  `json:"limit"`
	Offset  int  `json:"offset"`
	HasNext bool `json:"hasNext"`
	HasPrev bool `json:"hasPrev"`
}

type Echo struct {
	Query     string  `json:"query"`
	Filters   Filters `json:"filters"`
	SortBy    string  `json:"sort_by"`
	SortOrder string  `json:"sort_order"`
	Highlight bool    `json:"highlight"`
}

type Timing struct {
	QueryMs int64 `json:"query_ms"`
	TotalMs int64 `json:"total_ms"`
}

type Response struct {
	Results    []Result   `json:"results"`
	Pagination Pagination `json:"pagination"`
	Search     Echo       `json:"search"`
	Timing     Timing     `json:"timing"`
}

// Search validates, executes and formats one search request. The analytics
// record is handed to the recorder, which may defer the write off the
// request path.
func (s *Service) Search(ctx context.Context, req *Request) (*Response, error) {
	start := time.Now()

	if err := req.Normalize(); err != nil {
		return nil, err
	}

	queryStart := time.Now()

	countSQL, countArgs := buildCountQuery(req)
	var total int
	if err := s.db.GetContext(ctx, &total, countSQL, countArgs...); err != nil {
		return nil, fmt.Errorf("count results: %w", err)
	}

	querySQL, queryArgs := buildSearchQuery(req, s.strategy)
	var rows []resultRow
	if err := s.db.SelectContext(ctx, &rows, querySQL, queryArgs...); err != nil {
		return nil, fmt.Errorf("execute search: %w", err)
	}

	queryElapsed := time.Since(queryStart)

	results := make([]Result, 0, len(rows))
	for _, row := range rows {
		results = append(results, formatRow(row))
	}

	resp := &Response{
		Results: results,
		Pagination: Pagination{
			Total:   total,
			Limit:   req.Limit,
			Offset:  req.Offset,
			HasNext: req.Offset+req.Limit < total,
			HasPrev: req.Offset > 0,
		},
		Search: Echo{
			Query:     req.Query,
			Filters:   req.Filters,
			SortBy:    req.SortBy,
			SortOrder: req.SortOrder,
			Highlight: req.Highlight,
		},
		Timing: Timing{
			QueryMs: queryElapsed.Milliseconds(),
			TotalMs: time.Since(start).Milliseconds(),
		},
	}

	s.recordSearch(ctx, req, total, time.Since(start))
	s.maybeReindex(ctx)

	return resp, nil
}

func (s *Service) recordSearch(ctx context.Context, req *Request, total int, elapsed time.Duration) {
	if s.recorder == nil {
		return
	}
	filters, err := json.Marshal(req.Filters)
	if err != nil {
		filters = []byte("{}")
	}
	rec := models.SearchAnalytics{
		SearchTerm:   req.Query,
		Filters:      string(filters),
		UserID:       auth.UserIDFromContext(ctx),
		ResultCount:  total,
		SearchTimeMs: elapsed.Milliseconds(),
		CreatedAt:    time.Now().UTC(),
	}
	if err := s.recorder.Record(ctx, rec); err != nil {
		slog.Warn("failed to record search analytics", "error", err)
	}
}

func (s *Service) maybeReindex(ctx context.Context) {
	if s.reindex == nil || s.builder == nil {
		return
	}
	stale, err := s.builder.Stale(ctx)
	if err != nil {
		slog.Warn("staleness check failed", "error", err)
		return
	}
	if !stale {
		return
	}
	err = s.reindex.EnqueueIndexRebuild(queue.IndexRebuildPayload{Reason: "stale index observed on search"})
	if err != nil {
		slog.Warn("failed to enqueue index rebuild", "error", err)
	}
}

// Rebuild exposes the index builder to the HTTP layer.
func (s *Service) Rebuild(ctx context.Context, force bool) (*RebuildResult, error) {
	if s.builder == nil {
		return nil, errors.New("index builder not configured")
	}
	return s.builder.Rebuild(ctx, force)
}
