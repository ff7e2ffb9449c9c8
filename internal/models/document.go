package models

import (
	"database/sql"
	"time"
)

type Document struct {
	ID            string          `json:"id" db:"id"`
	Title         string          `json:"title" db:"title"`
	Description   string          `json:"description" db:"description"`
	Content       string          `json:"content" db:"content"`
	Tags          string          `json:"tags" db:"tags"` // comma-separated
	Metadata      string          `json:"metadata" db:"metadata"` // JSON blob
	FilePath      string          `json:"file_path,omitempty" db:"file_path"`
	FileName      string          `json:"file_name,omitempty" db:"file_name"`
	FileExtension string          `json:"file_extension,omitempty" db:"file_extension"`
	FileSize      int64           `json:"file_size,omitempty" db:"file_size"`
	MimeType      string          `json:"mime_type,omitempty" db:"mime_type"`
	Category      string          `json:"category" db:"category"`
	DocType       string          `json:"doc_type" db:"doc_type"`
	Status        string          `json:"status" db:"status"`
	CreatedBy     string          `json:"created_by" db:"created_by"`
	CreatedAt     time.Time       `json:"created_at" db:"created_at"`
	UpdatedBy     string          `json:"updated_by" db:"updated_by"`
	UpdatedAt     time.Time       `json:"updated_at" db:"updated_at"`
	FTSContent    sql.NullString  `json:"-" db:"fts_content"`
	FTSRank       sql.NullFloat64 `json:"fts_rank,omitempty" db:"fts_rank"`
	FTSUpdatedAt  sql.NullTime    `json:"fts_last_updated,omitempty" db:"fts_last_updated"`
}

const (
	DocStatusActive   = "active"
	DocStatusDraft    = "draft"
	DocStatusArchived = "archived"
)
