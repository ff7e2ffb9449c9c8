package search

import (
	"context"
	"fmt"
	"strings"
	"unicode/utf8"
)

type Suggestion struct {
	Suggestion    string `json:"suggestion" db:"suggestion"`
	DocumentCount int    `json:"document_count" db:"document_count"`
	SearchCount   int    `json:"search_count" db:"search_count"`
}

// Suggestions returns active document titles matching the prefix, ordered
// by how often the title has been searched for.
func (s *Service) Suggestions(ctx context.Context, prefix string, limit int) ([]Suggestion, error) {
	prefix = strings.TrimSpace(prefix)
	if prefix == "" {
		return nil, &ValidationError{Fields: map[string]string{"q": "required"}}
	}
	if utf8.RuneCountInString(prefix) > maxQueryLen {
		return nil, &ValidationError{Fields: map[string]string{
			"q": fmt.Sprintf("must be at most %d characters", maxQueryLen)}}
	}
	if limit <= 0 {
		limit = 10
	}
	if limit > 50 {
		limit = 50
	}

	cacheKey := fmt.Sprintf("dms:suggest:%s:%d", strings.ToLower(prefix), limit)
	var cached []Suggestion
	if hit, err := s.cache.Get(ctx, cacheKey, &cached); err == nil && hit {
		return cached, nil
	}

	suggestions := []Suggestion{}
	err := s.db.SelectContext(ctx, &suggestions, `
		SELECT d.title AS suggestion,
		       COUNT(*) AS document_count,
		       (SELECT COUNT(*) FROM dms_search_analytics a
		        WHERE lower(a.search_term) = lower(d.title)) AS search_count
		FROM dms_documents d
		WHERE d.status = 'active'
		  AND d.title LIKE ? ESCAPE '\'
		GROUP BY d.title
		ORDER BY search_count DESC, document_count DESC, d.title ASC
		LIMIT ?`, escapeLike(prefix)+"%", limit)
	if err != nil {
		return nil, fmt.Errorf("query suggestions: %w", err)
	}

	if err := s.cache.Set(ctx, cacheKey, suggestions, s.cacheTTL); err != nil {
		return suggestions, nil
	}
	return suggestions, nil
}

func escapeLike(s string) string {
	s = strings.ReplaceAll(s, `\`, `\\`)
	s = strings.ReplaceAll(s, `%`, `\%`)
	s = strings.ReplaceAll(s, `_`, `\_`)
	return s
}
