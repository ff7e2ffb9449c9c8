package search

import (
	"context"
	"fmt"
	"time"
)

type CorpusStats struct {
	TotalDocuments   int            `json:"total_documents"`
	ActiveDocuments  int            `json:"active_documents"`
	IndexedDocuments int            `json:"indexed_documents"`
	TotalFileSize    int64          `json:"total_file_size"`
	AvgFileSize      float64        `json:"avg_file_size"`
	Categories       map[string]int `json:"categories"`
	DocTypes         map[string]int `json:"doc_types"`
	Statuses         map[string]int `json:"statuses"`
}

// Stats computes corpus-wide counts, optionally restricted to documents
// created inside the given range.
func (s *Service) Stats(ctx context.Context, from, to *time.Time) (*CorpusStats, error) {
	where := " WHERE 1=1"
	var args []interface{}
	if from != nil {
		where += " AND created_at >= ?"
		args = append(args, from.UTC())
	}
	if to != nil {
		where += " AND created_at <= ?"
		args = append(args, to.UTC())
	}

	cacheKey := fmt.Sprintf("dms:stats:%v:%v", from, to)
	var cached CorpusStats
	if hit, err := s.cache.Get(ctx, cacheKey, &cached); err == nil && hit {
		return &cached, nil
	}

	stats := &CorpusStats{
		Categories: map[string]int{},
		DocTypes:   map[string]int{},
		Statuses:   map[string]int{},
	}

	row := s.db.QueryRowContext(ctx, `
		SELECT COUNT(*),
		       COALESCE(SUM(status = 'active'), 0),
		       COALESCE(SUM(fts_content IS NOT NULL), 0),
		       COALESCE(SUM(file_size), 0),
		       COALESCE(AVG(file_size), 0)
		FROM dms_documents`+where, args...)
	err := row.Scan(&stats.TotalDocuments, &stats.ActiveDocuments,
		&stats.IndexedDocuments, &stats.TotalFileSize, &stats.AvgFileSize)
	if err != nil {
		return nil, fmt.Errorf("query corpus totals: %w", err)
	}

	for col, dest := range map[string]map[string]int{
		"category": stats.Categories,
		"doc_type": stats.DocTypes,
		"status":   stats.Statuses,
	} {
		if err := s.groupCount(ctx, col, where, args, dest); err != nil {
			return nil, err
		}
	}

	if err := s.cache.Set(ctx, cacheKey, stats, s.cacheTTL); err != nil {
		return stats, nil
	}
	return stats, nil
}

func (s *Service) groupCount(ctx context.Context, col, where string, args []interface{}, out map[string]int) error {
	// col is one of a fixed set above, never user input.
	rows, err := s.db.QueryContext(ctx, fmt.Sprintf(`
		SELECT %s, COUNT(*) FROM dms_documents%s GROUP BY %s`, col, where, col), args...)
	if err != nil {
		return fmt.Errorf("group by %s: %w", col, err)
	}
	defer rows.Close()

	for rows.Next() {
		var key string
		var count int
		if err := rows.Scan(&key, &count); err != nil {
			return fmt.Errorf("scan %s count: %w", col, err)
		}
		if key == "" {
			key = "uncategorized"
		}
		out[key] = count
	}
	return rows.Err()
}
