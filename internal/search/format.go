package search

import (
	"database/sql"
	"encoding/json"
	"strings"
	"time"
)

// resultRow mirrors the columns produced by buildSearchQuery.
type resultRow struct {
	ID            string          `db:"id"`
	Title         string          `db:"title"`
	Description   string          `db:"description"`
	Tags          string          `db:"tags"`
	Metadata      string          `db:"metadata"`
	FilePath      string          `db:"file_path"`
	FileName      string          `db:"file_name"`
	FileExtension string          `db:"file_extension"`
	FileSize      int64           `db:"file_size"`
	MimeType      string          `db:"mime_type"`
	Category      string          `db:"category"`
	DocType       string          `db:"doc_type"`
	Status        string          `db:"status"`
	CreatedBy     string          `db:"created_by"`
	CreatedAt     time.Time       `db:"created_at"`
	UpdatedBy     string          `db:"updated_by"`
	UpdatedAt     time.Time       `db:"updated_at"`
	StoredRank    sql.NullFloat64 `db:"stored_rank"`
	EngineRank    float64         `db:"engine_rank"`
	CombinedRank  float64         `db:"combined_rank"`
	Snippet       string          `db:"snippet"`
}

// Result is one formatted search hit.
type Result struct {
	ID            string                 `json:"id"`
	Title         string                 `json:"title"`
	Description   string                 `json:"description"`
	Tags          []string               `json:"tags"`
	Metadata      map[string]interface{} `json:"metadata"`
	FileName      string                 `json:"file_name,omitempty"`
	FileExtension string                 `json:"file_extension,omitempty"`
	FileSize      int64                  `json:"file_size,omitempty"`
	MimeType      string                 `json:"mime_type,omitempty"`
	Category      string                 `json:"category"`
	DocType       string                 `json:"doc_type"`
	Status        string                 `json:"status"`
	CreatedBy     string                 `json:"created_by"`
	CreatedAt     time.Time              `json:"created_at"`
	UpdatedAt     time.Time              `json:"updated_at"`
	Snippet       string                 `json:"snippet,omitempty"`
	StoredRank    *float64               `json:"stored_rank,omitempty"`
	EngineRank    float64                `json:"engine_rank"`
	CombinedRank  float64                `json:"combined_rank"`
}

// formatRow converts a raw row into a Result. JSON parsing is defensive:
// a malformed metadata blob nulls the field rather than failing the page.
func formatRow(row resultRow) Result {
	res := Result{
		ID:            row.ID,
		Title:         row.Title,
		Description:   row.Description,
		Tags:          splitTags(row.Tags),
		Metadata:      parseJSONObject(row.Metadata),
		FileName:      row.FileName,
		FileExtension: row.FileExtension,
		FileSize:      row.FileSize,
		MimeType:      row.MimeType,
		Category:      row.Category,
		DocType:       row.DocType,
		Status:        row.Status,
		CreatedBy:     row.CreatedBy,
		CreatedAt:     row.CreatedAt,
		UpdatedAt:     row.UpdatedAt,
		Snippet:       row.Snippet,
		EngineRank:    row.EngineRank,
		CombinedRank:  row.CombinedRank,
	}
	if row.StoredRank.Valid {
		v := row.StoredRank.Float64
		res.StoredRank = &v
	}
	return res
}

func splitTags(tags string) []string {
	out := []string{}
	for _, t := range strings.Split(tags, ",") {
		t = strings.TrimSpace(t)
		if t != "" {
			out = append(out, t)
		}
	}
	return out
}

func parseJSONObject(blob string) map[string]interface{} {
	if strings.TrimSpace(blob) == "" {
		return nil
	}
	var m map[string]interface{}
	if err := json.Unmarshal([]byte(blob), &m); err != nil {
		return nil
	}
	return m
}
