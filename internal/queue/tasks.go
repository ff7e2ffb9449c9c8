package queue

import "time"

const (
	TypeAnalyticsRecord = "analytics:record"
	TypeIndexRebuild    = "index:rebuild"
)

type AnalyticsRecordPayload struct {
	SearchTerm   string    `json:"search_term"`
	Filters      string    `json:"filters"`
	UserID       string    `json:"user_id"`
	ResultCount  int       `json:"result_count"`
	SearchTimeMs int64     `json:"search_time_ms"`
	SearchedAt   time.Time `json:"searched_at"`
}

type IndexRebuildPayload struct {
	Force  bool   `json:"force"`
	Reason string `json:"reason"`
}
