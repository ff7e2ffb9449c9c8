package search

import (
	"fmt"
	"sort"
	"strings"
	"time"
	"unicode/utf8"
)

const (
	SortRelevance = "relevance"
	SortTitle     = "title"
	SortCreatedAt = "created_at"
	SortUpdatedAt = "updated_at"
	SortFTSRank   = "fts_rank"
	SortBM25      = "bm25_score"

	OrderAsc  = "asc"
	OrderDesc = "desc"

	maxQueryLen     = 500
	maxLimit        = 100
	maxOffset       = 1000
	minSnippetLen   = 50
	maxSnippetLen   = 500
	defaultLimit    = 20
	defaultSnippet  = 160
	defaultOpenTag  = "<mark>"
	defaultCloseTag = "</mark>"
)

var sortColumns = map[string]string{
	SortRelevance: "combined_rank",
	SortTitle:     "d.title",
	SortCreatedAt: "d.created_at",
	SortUpdatedAt: "d.updated_at",
	SortFTSRank:   "d.fts_rank",
	SortBM25:      "engine_rank",
}

// Filters narrow a search beyond the MATCH term. All present filters are
// AND-combined.
type Filters struct {
	Category      string     `json:"category,omitempty"`
	DocType       string     `json:"doc_type,omitempty"`
	Status        string     `json:"status,omitempty"`
	CreatedBy     string     `json:"created_by,omitempty"`
	FileExtension string     `json:"file_extension,omitempty"`
	MimeType      string     `json:"mime_type,omitempty"`
	DateFrom      *time.Time `json:"date_from,omitempty"`
	DateTo        *time.Time `json:"date_to,omitempty"`
	SizeMin       *int64     `json:"size_min,omitempty"`
	SizeMax       *int64     `json:"size_max,omitempty"`
}

type Request struct {
	Query         string  `json:"query"`
	Filters       Filters `json:"filters"`
	Limit         int     `json:"limit"`
	Offset        int     `json:"offset"`
	SortBy        string  `json:"sort_by"`
	SortOrder     string  `json:"sort_order"`
	Highlight     bool    `json:"highlight"`
	SnippetLength int     `json:"snippet_length"`
}

// ValidationError carries per-field messages, reported as a 400 by the
// HTTP layer before any SQL runs.
type ValidationError struct {
	Fields map[string]string
}

func (e *ValidationError) Error() string {
	keys := make([]string, 0, len(e.Fields))
	for k := range e.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, fmt.Sprintf("%s: %s", k, e.Fields[k]))
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

// Normalize applies defaults and validates ranges. It mutates the request
// in place and returns a *ValidationError when any field is out of range.
func (r *Request) Normalize() error {
	fields := map[string]string{}

	r.Query = strings.TrimSpace(r.Query)
	if r.Query == "" {
		fields["query"] = "required"
	} else if utf8.RuneCountInString(r.Query) > maxQueryLen {
		fields["query"] = fmt.Sprintf("must be at most %d characters", maxQueryLen)
	}

	if r.Limit == 0 {
		r.Limit = defaultLimit
	}
	if r.Limit < 1 || r.Limit > maxLimit {
		fields["limit"] = fmt.Sprintf("must be between 1 and %d", maxLimit)
	}

	if r.Offset < 0 || r.Offset > maxOffset {
		fields["offset"] = fmt.Sprintf("must be between 0 and %d", maxOffset)
	}

	if r.SortBy == "" {
		r.SortBy = SortRelevance
	}
	if _, ok := sortColumns[r.SortBy]; !ok {
		fields["sort_by"] = "must be one of relevance, title, created_at, updated_at, fts_rank, bm25_score"
	}

	if r.SortOrder == "" {
		if r.SortBy == SortRelevance || r.SortBy == SortBM25 {
			r.SortOrder = OrderDesc
		} else {
			r.SortOrder = OrderAsc
		}
	}
	if r.SortOrder != OrderAsc && r.SortOrder != OrderDesc {
		fields["sort_order"] = "must be asc or desc"
	}

	if r.SnippetLength == 0 {
		r.SnippetLength = defaultSnippet
	}
	if r.SnippetLength < minSnippetLen || r.SnippetLength > maxSnippetLen {
		fields["snippet_length"] = fmt.Sprintf("must be between %d and %d", minSnippetLen, maxSnippetLen)
	}

	if r.Filters.SizeMin != nil && *r.Filters.SizeMin < 0 {
		fields["filters.size_min"] = "must be non-negative"
	}
	if r.Filters.SizeMax != nil && *r.Filters.SizeMax < 0 {
		fields["filters.size_max"] = "must be non-negative"
	}
	if r.Filters.SizeMin != nil && r.Filters.SizeMax != nil && *r.Filters.SizeMin > *r.Filters.SizeMax {
		fields["filters.size_max"] = "must be greater than or equal to size_min"
	}
	if r.Filters.DateFrom != nil && r.Filters.DateTo != nil && r.Filters.DateFrom.After(*r.Filters.DateTo) {
		fields["filters.date_to"] = "must not be before date_from"
	}

	if len(fields) > 0 {
		return &ValidationError{Fields: fields}
	}
	return nil
}
