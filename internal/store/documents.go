package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/prateekgoyal/proposalhub/internal/models"
)

var ErrNotFound = errors.New("document not found")

// Documents is the repository for dms_documents rows. Upload and proposal
// flows live in other services; this is the substrate the search core
// indexes and reads.
type Documents struct {
	db *sqlx.DB
}

func NewDocuments(db *sqlx.DB) *Documents {
	return &Documents{db: db}
}

func (s *Documents) Create(ctx context.Context, doc *models.Document) error {
	if doc.ID == "" {
		doc.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	if doc.CreatedAt.IsZero() {
		doc.CreatedAt = now
	}
	if doc.UpdatedAt.IsZero() {
		doc.UpdatedAt = now
	}
	if doc.Status == "" {
		doc.Status = models.DocStatusActive
	}
	if doc.Metadata == "" {
		doc.Metadata = "{}"
	}

	_, err := s.db.NamedExecContext(ctx, `
		INSERT INTO dms_documents (
			id, title, description, content, tags, metadata,
			file_path, file_name, file_extension, file_size, mime_type,
			category, doc_type, status,
			created_by, created_at, updated_by, updated_at,
			fts_content, fts_rank, fts_last_updated
		) VALUES (
			:id, :title, :description, :content, :tags, :metadata,
			:file_path, :file_name, :file_extension, :file_size, :mime_type,
			:category, :doc_type, :status,
			:created_by, :created_at, :updated_by, :updated_at,
			:fts_content, :fts_rank, :fts_last_updated
		)`, doc)
	if err != nil {
		return fmt.Errorf("insert document: %w", err)
	}
	return nil
}

func (s *Documents) GetByID(ctx context.Context, id string) (*models.Document, error) {
	var doc models.Document
	err := s.db.GetContext(ctx, &doc, `SELECT * FROM dms_documents WHERE id = ?`, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get document: %w", err)
	}
	return &doc, nil
}

func (s *Documents) List(ctx context.Context, limit, offset int) ([]models.Document, error) {
	if limit <= 0 {
		limit = 20
	}
	var docs []models.Document
	err := s.db.SelectContext(ctx, &docs, `
		SELECT * FROM dms_documents
		ORDER BY updated_at DESC
		LIMIT ? OFFSET ?`, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list documents: %w", err)
	}
	return docs, nil
}

func (s *Documents) Count(ctx context.Context) (int, error) {
	var count int
	err := s.db.GetContext(ctx, &count, `SELECT COUNT(*) FROM dms_documents`)
	if err != nil {
		return 0, fmt.Errorf("count documents: %w", err)
	}
	return count, nil
}

func (s *Documents) UpdateStatus(ctx context.Context, id, status, updatedBy string) error {
	res, err := s.db.ExecContext(ctx, `
		UPDATE dms_documents
		SET status = ?, updated_by = ?, updated_at = datetime('now')
		WHERE id = ?`, status, updatedBy, id)
	if err != nil {
		return fmt.Errorf("update status: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}
