package models

import "time"

// SearchAnalytics is one append-only record per executed search.
type SearchAnalytics struct {
	ID           string    `json:"id" db:"id"`
	SearchTerm   string    `json:"search_term" db:"search_term"`
	Filters      string    `json:"filters" db:"filters"` // JSON blob
	UserID       string    `json:"user_id" db:"user_id"`
	ResultCount  int       `json:"result_count" db:"result_count"`
	SearchTimeMs int64     `json:"search_time_ms" db:"search_time_ms"`
	CreatedAt    time.Time `json:"created_at" db:"created_at"`
}
