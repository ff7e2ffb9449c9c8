package search

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"
)

// DocFragment is the highlight/snippet payload for a single document.
type DocFragment struct {
	ID       string `json:"id" db:"id"`
	Title    string `json:"title" db:"title"`
	Fragment string `json:"fragment" db:"fragment"`
}

type FragmentOptions struct {
	OpenTag       string
	CloseTag      string
	SnippetLength int
}

func (o *FragmentOptions) normalize() error {
	if o.OpenTag == "" {
		o.OpenTag = defaultOpenTag
	}
	if o.CloseTag == "" {
		o.CloseTag = defaultCloseTag
	}
	if o.SnippetLength == 0 {
		o.SnippetLength = defaultSnippet
	}
	if o.SnippetLength < minSnippetLen || o.SnippetLength > maxSnippetLen {
		return &ValidationError{Fields: map[string]string{
			"snippet_length": fmt.Sprintf("must be between %d and %d", minSnippetLen, maxSnippetLen)}}
	}
	return nil
}

// Highlight returns the whole indexed content of one active document with
// match tags applied.
func (s *Service) Highlight(ctx context.Context, id, query string, opts FragmentOptions) (*DocFragment, error) {
	return s.fragment(ctx, id, query, opts, true)
}

// Snippet returns a short excerpt of one active document around the match.
func (s *Service) Snippet(ctx context.Context, id, query string, opts FragmentOptions) (*DocFragment, error) {
	return s.fragment(ctx, id, query, opts, false)
}

func (s *Service) fragment(ctx context.Context, id, query string, opts FragmentOptions, whole bool) (*DocFragment, error) {
	query = strings.TrimSpace(query)
	if query == "" || utf8.RuneCountInString(query) > maxQueryLen {
		return nil, &ValidationError{Fields: map[string]string{"q": "must be between 1 and 500 characters"}}
	}
	if err := opts.normalize(); err != nil {
		return nil, err
	}

	fragmentExpr := "snippet(dms_documents_fts, 2, ?, ?, '...', ?)"
	args := []interface{}{opts.OpenTag, opts.CloseTag, snippetTokens(opts.SnippetLength)}
	if whole {
		fragmentExpr = "highlight(dms_documents_fts, 2, ?, ?)"
		args = args[:2]
	}

	args = append(args, matchExpr(query), id)

	var frag DocFragment
	err := s.db.GetContext(ctx, &frag, `
		SELECT d.id, d.title, `+fragmentExpr+` AS fragment
		FROM dms_documents_fts f
		JOIN dms_documents d ON d.rowid = f.rowid
		WHERE dms_documents_fts MATCH ?
		  AND d.id = ?
		  AND d.status = 'active'
		  AND d.fts_content IS NOT NULL`, args...)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("query document fragment: %w", err)
	}
	return &frag, nil
}
