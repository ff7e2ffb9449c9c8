package analytics

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
)

// Service aggregates the append-only search log for reporting. Pure reads;
// nothing here feeds back into query execution.
type Service struct {
	db *sqlx.DB
}

func NewService(db *sqlx.DB) *Service {
	return &Service{db: db}
}

type DailyStats struct {
	Date        string  `json:"date" db:"day"`
	SearchCount int     `json:"search_count" db:"search_count"`
	AvgTimeMs   float64 `json:"avg_time_ms" db:"avg_time_ms"`
	MinTimeMs   int64   `json:"min_time_ms" db:"min_time_ms"`
	MaxTimeMs   int64   `json:"max_time_ms" db:"max_time_ms"`
	UniqueUsers int     `json:"unique_users" db:"unique_users"`
	UniqueTerms int     `json:"unique_terms" db:"unique_terms"`
}

type TermStats struct {
	Term       string  `json:"term" db:"search_term"`
	Count      int     `json:"count" db:"search_count"`
	AvgResults float64 `json:"avg_results" db:"avg_results"`
	AvgTimeMs  float64 `json:"avg_time_ms" db:"avg_time_ms"`
}

type UserStats struct {
	UserID      string  `json:"user_id" db:"user_id"`
	SearchCount int     `json:"search_count" db:"search_count"`
	AvgTimeMs   float64 `json:"avg_time_ms" db:"avg_time_ms"`
}

type Report struct {
	Daily       []DailyStats   `json:"daily"`
	TopTerms    []TermStats    `json:"top_terms"`
	Users       []UserStats    `json:"users"`
	FilterUsage map[string]int `json:"filter_usage"`
}

// Aggregate computes the report for the given range. An empty range yields
// empty slices and a zero-valued histogram, never an error.
func (s *Service) Aggregate(ctx context.Context, from, to *time.Time, limit int) (*Report, error) {
	if limit <= 0 {
		limit = 10
	}

	where, args := dateRange(from, to)

	report := &Report{
		Daily:       []DailyStats{},
		TopTerms:    []TermStats{},
		Users:       []UserStats{},
		FilterUsage: map[string]int{},
	}

	err := s.db.SelectContext(ctx, &report.Daily, `
		SELECT date(created_at) AS day,
		       COUNT(*) AS search_count,
		       AVG(search_time_ms) AS avg_time_ms,
		       MIN(search_time_ms) AS min_time_ms,
		       MAX(search_time_ms) AS max_time_ms,
		       COUNT(DISTINCT user_id) AS unique_users,
		       COUNT(DISTINCT search_term) AS unique_terms
		FROM dms_search_analytics`+where+`
		GROUP BY date(created_at)
		ORDER BY day DESC`, args...)
	if err != nil {
		return nil, fmt.Errorf("query daily stats: %w", err)
	}

	err = s.db.SelectContext(ctx, &report.TopTerms, `
		SELECT search_term,
		       COUNT(*) AS search_count,
		       AVG(result_count) AS avg_results,
		       AVG(search_time_ms) AS avg_time_ms
		FROM dms_search_analytics`+where+`
		GROUP BY search_term
		ORDER BY search_count DESC, search_term ASC
		LIMIT ?`, append(append([]interface{}{}, args...), limit)...)
	if err != nil {
		return nil, fmt.Errorf("query top terms: %w", err)
	}

	err = s.db.SelectContext(ctx, &report.Users, `
		SELECT user_id,
		       COUNT(*) AS search_count,
		       AVG(search_time_ms) AS avg_time_ms
		FROM dms_search_analytics`+where+`
		GROUP BY user_id
		ORDER BY search_count DESC, user_id ASC
		LIMIT ?`, append(append([]interface{}{}, args...), limit)...)
	if err != nil {
		return nil, fmt.Errorf("query user stats: %w", err)
	}

	if err := s.filterUsage(ctx, where, args, report.FilterUsage); err != nil {
		return nil, err
	}

	return report, nil
}

// filterUsage tallies which filter keys appear across logged searches. The
// filters column is free JSON; malformed blobs are skipped.
func (s *Service) filterUsage(ctx context.Context, where string, args []interface{}, out map[string]int) error {
	rows, err := s.db.QueryContext(ctx,
		`SELECT filters FROM dms_search_analytics`+where, args...)
	if err != nil {
		return fmt.Errorf("query filter usage: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var blob string
		if err := rows.Scan(&blob); err != nil {
			return fmt.Errorf("scan filters: %w", err)
		}
		var m map[string]interface{}
		if err := json.Unmarshal([]byte(blob), &m); err != nil {
			continue
		}
		for k, v := range m {
			if v == nil {
				continue
			}
			if str, ok := v.(string); ok && str == "" {
				continue
			}
			out[k]++
		}
	}
	return rows.Err()
}

func dateRange(from, to *time.Time) (string, []interface{}) {
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
	return where, args
}
