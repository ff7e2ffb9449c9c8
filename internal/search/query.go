package search

import (
	"fmt"
	"strings"
	"unicode"
	"unicode/utf8"
)

// matchExpr turns free text into an FTS5 MATCH expression. Tokens are
// quoted so user input cannot inject query syntax; the final token becomes
// a prefix query when it ends in a letter or digit.
func matchExpr(query string) string {
	tokens := strings.Fields(query)
	parts := make([]string, 0, len(tokens))
	for _, tok := range tokens {
		tok = strings.ReplaceAll(tok, `"`, "")
		if tok == "" {
			continue
		}
		parts = append(parts, `"`+tok+`"`)
	}
	if len(parts) == 0 {
		return `""`
	}
	last := tokens[len(tokens)-1]
	r, _ := utf8.DecodeLastRuneInString(last)
	if unicode.IsLetter(r) || unicode.IsDigit(r) {
		parts[len(parts)-1] += "*"
	}
	return strings.Join(parts, " ")
}

// snippetTokens converts a character budget into the token count the FTS5
// snippet() function takes (capped at 64 by the engine).
func snippetTokens(chars int) int {
	tokens := chars / 8
	if tokens < 8 {
		tokens = 8
	}
	if tokens > 64 {
		tokens = 64
	}
	return tokens
}

// buildSearchQuery renders one parameterized statement for the request.
// The combined rank blends the stored document rank with -bm25() using the
// strategy weights; rows without a stored rank fall back to the engine rank.
func buildSearchQuery(req *Request, strategy RankStrategy) (string, []interface{}) {
	storedW, engineW := strategy.Weights()

	openTag, closeTag := "", ""
	if req.Highlight {
		openTag, closeTag = defaultOpenTag, defaultCloseTag
	}

	var sb strings.Builder
	args := []interface{}{
		storedW, engineW,
		openTag, closeTag, snippetTokens(req.SnippetLength),
	}

	sb.WriteString(`
		SELECT d.id, d.title, d.description, d.tags, d.metadata,
		       d.file_path, d.file_name, d.file_extension, d.file_size, d.mime_type,
		       d.category, d.doc_type, d.status,
		       d.created_by, d.created_at, d.updated_by, d.updated_at,
		       d.fts_rank AS stored_rank,
		       -bm25(dms_documents_fts) AS engine_rank,
		       CASE WHEN d.fts_rank IS NOT NULL
		            THEN d.fts_rank * ? + (-bm25(dms_documents_fts)) * ?
		            ELSE -bm25(dms_documents_fts)
		       END AS combined_rank,
		       snippet(dms_documents_fts, 2, ?, ?, '...', ?) AS snippet
		FROM dms_documents_fts f
		JOIN dms_documents d ON d.rowid = f.rowid`)

	where, whereArgs := buildWhere(req)
	sb.WriteString(where)
	args = append(args, whereArgs...)

	col := sortColumns[req.SortBy]
	dir := "ASC"
	if req.SortOrder == OrderDesc {
		dir = "DESC"
	}
	sb.WriteString(fmt.Sprintf(" ORDER BY %s %s, d.id ASC", col, dir))

	sb.WriteString(" LIMIT ? OFFSET ?")
	args = append(args, req.Limit, req.Offset)

	return sb.String(), args
}

func buildCountQuery(req *Request) (string, []interface{}) {
	var sb strings.Builder
	sb.WriteString(`
		SELECT COUNT(*)
		FROM dms_documents_fts f
		JOIN dms_documents d ON d.rowid = f.rowid`)
	where, args := buildWhere(req)
	sb.WriteString(where)
	return sb.String(), args
}

// buildWhere renders the shared WHERE clause: the MATCH term, the active
// visibility guarantee, then every present filter AND-combined.
func buildWhere(req *Request) (string, []interface{}) {
	var sb strings.Builder
	args := []interface{}{matchExpr(req.Query)}

	sb.WriteString(`
		WHERE dms_documents_fts MATCH ?
		  AND d.status = 'active'
		  AND d.fts_content IS NOT NULL`)

	f := req.Filters
	if f.Category != "" {
		sb.WriteString(" AND d.category = ?")
		args = append(args, f.Category)
	}
	if f.DocType != "" {
		sb.WriteString(" AND d.doc_type = ?")
		args = append(args, f.DocType)
	}
	if f.Status != "" {
		sb.WriteString(" AND d.status = ?")
		args = append(args, f.Status)
	}
	if f.CreatedBy != "" {
		sb.WriteString(" AND d.created_by = ?")
		args = append(args, f.CreatedBy)
	}
	if f.FileExtension != "" {
		sb.WriteString(" AND d.file_extension = ?")
		args = append(args, f.FileExtension)
	}
	if f.MimeType != "" {
		sb.WriteString(" AND d.mime_type = ?")
		args = append(args, f.MimeType)
	}
	if f.DateFrom != nil {
		sb.WriteString(" AND d.created_at >= ?")
		args = append(args, *f.DateFrom)
	}
	if f.DateTo != nil {
		sb.WriteString(" AND d.created_at <= ?")
		args = append(args, *f.DateTo)
	}
	if f.SizeMin != nil {
		sb.WriteString(" AND d.file_size >= ?")
		args = append(args, *f.SizeMin)
	}
	if f.SizeMax != nil {
		sb.WriteString(" AND d.file_size <= ?")
		args = append(args, *f.SizeMax)
	}

	return sb.String(), args
}
