package search

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/prateekgoyal/proposalhub/internal/analytics"
	"github.com/prateekgoyal/proposalhub/internal/database"
	"github.com/prateekgoyal/proposalhub/internal/store"
)

func newTestDB(t *testing.T) *sqlx.DB {
	t.Helper()
	db, err := database.OpenMemory()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return db
}

// newTestService seeds the sample corpus and rebuilds the index.
func newTestService(t *testing.T) (*Service, *sqlx.DB) {
	t.Helper()
	db := newTestDB(t)

	docs := store.NewDocuments(db)
	require.NoError(t, docs.Seed(context.Background()))

	builder := NewBuilder(db, nil, time.Hour)
	_, err := builder.Rebuild(context.Background(), true)
	require.NoError(t, err)

	svc := NewService(db, builder, DefaultBlend(), analytics.NewSyncRecorder(db))
	return svc, db
}

func TestSearchMarketingScenario(t *testing.T) {
	svc, _ := newTestService(t)

	resp, err := svc.Search(context.Background(), &Request{
		Query:     "marketing",
		Highlight: true,
	})
	require.NoError(t, err)
	require.NotEmpty(t, resp.Results)

	top := resp.Results[0]
	assert.Equal(t, "Marketing Strategy 2024", top.Title)
	assert.Contains(t, top.Snippet, "<mark>")
	assert.Contains(t, strings.ToLower(top.Snippet), "marketing")
	assert.Equal(t, []string{"marketing", "strategy", "2024"}, top.Tags)
	assert.Equal(t, "marketing", top.Metadata["department"])

	for _, res := range resp.Results {
		assert.Equal(t, "active", res.Status)
	}
}

func TestSearchNoMatch(t *testing.T) {
	svc, _ := newTestService(t)

	resp, err := svc.Search(context.Background(), &Request{Query: "zzz_no_match"})
	require.NoError(t, err)

	assert.Empty(t, resp.Results)
	assert.Equal(t, 0, resp.Pagination.Total)
	assert.False(t, resp.Pagination.HasNext)
	assert.False(t, resp.Pagination.HasPrev)
}

func TestSearchExcludesInactiveDocuments(t *testing.T) {
	svc, _ := newTestService(t)

	// "historical" only appears in the archived budget review.
	resp, err := svc.Search(context.Background(), &Request{Query: "historical"})
	require.NoError(t, err)
	assert.Empty(t, resp.Results)
	assert.Equal(t, 0, resp.Pagination.Total)
}

func TestSearchPaginationInvariants(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	// "proposal" matches the sales playbook content and the marketing
	// document's doc_type.
	page1, err := svc.Search(ctx, &Request{Query: "proposal", Limit: 1})
	require.NoError(t, err)
	require.Equal(t, 2, page1.Pagination.Total)
	assert.Len(t, page1.Results, 1)
	assert.True(t, page1.Pagination.HasNext)
	assert.False(t, page1.Pagination.HasPrev)

	page2, err := svc.Search(ctx, &Request{Query: "proposal", Limit: 1, Offset: 1})
	require.NoError(t, err)
	assert.Len(t, page2.Results, 1)
	assert.False(t, page2.Pagination.HasNext)
	assert.True(t, page2.Pagination.HasPrev)

	assert.NotEqual(t, page1.Results[0].ID, page2.Results[0].ID)
}

func TestSearchRelevanceOrdering(t *testing.T) {
	svc, db := newTestService(t)

	// Give one matching document a stored rank so the blend kicks in.
	_, err := db.Exec(`UPDATE dms_documents SET fts_rank = 10.0 WHERE id = 'doc-sales-playbook'`)
	require.NoError(t, err)

	resp, err := svc.Search(context.Background(), &Request{Query: "proposal"})
	require.NoError(t, err)
	require.Len(t, resp.Results, 2)

	for i := 1; i < len(resp.Results); i++ {
		assert.GreaterOrEqual(t, resp.Results[i-1].CombinedRank, resp.Results[i].CombinedRank)
	}

	// The boosted document wins under the default 0.7/0.3 blend.
	assert.Equal(t, "doc-sales-playbook", resp.Results[0].ID)
	require.NotNil(t, resp.Results[0].StoredRank)
	assert.Equal(t, 10.0, *resp.Results[0].StoredRank)
}

func TestSearchFilters(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	resp, err := svc.Search(ctx, &Request{
		Query:   "proposal",
		Filters: Filters{Category: "operations"},
	})
	require.NoError(t, err)
	require.Len(t, resp.Results, 1)
	assert.Equal(t, "doc-sales-playbook", resp.Results[0].ID)

	resp, err = svc.Search(ctx, &Request{
		Query:   "marketing",
		Filters: Filters{CreatedBy: "user-bob"},
	})
	require.NoError(t, err)
	assert.Empty(t, resp.Results)

	size := int64(1)
	resp, err = svc.Search(ctx, &Request{
		Query:   "marketing",
		Filters: Filters{SizeMin: &size},
	})
	require.NoError(t, err)
	assert.Empty(t, resp.Results, "seeded documents carry no file payload")
}

func TestSearchSortByTitle(t *testing.T) {
	svc, _ := newTestService(t)

	resp, err := svc.Search(context.Background(), &Request{
		Query:     "proposal",
		SortBy:    SortTitle,
		SortOrder: OrderAsc,
	})
	require.NoError(t, err)
	require.Len(t, resp.Results, 2)
	assert.Equal(t, "Marketing Strategy 2024", resp.Results[0].Title)
	assert.Equal(t, "Sales Playbook", resp.Results[1].Title)
}

func TestSearchRecordsAnalytics(t *testing.T) {
	svc, db := newTestService(t)

	_, err := svc.Search(context.Background(), &Request{
		Query:   "marketing",
		Filters: Filters{Category: "strategy"},
	})
	require.NoError(t, err)

	var count int
	require.NoError(t, db.Get(&count,
		`SELECT COUNT(*) FROM dms_search_analytics WHERE search_term = 'marketing'`))
	assert.Equal(t, 1, count)

	var filters string
	require.NoError(t, db.Get(&filters,
		`SELECT filters FROM dms_search_analytics WHERE search_term = 'marketing'`))
	assert.Contains(t, filters, `"category":"strategy"`)
}

func TestSearchValidation(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	cases := []struct {
		name  string
		req   Request
		field string
	}{
		{"empty query", Request{Query: ""}, "query"},
		{"query too long", Request{Query: strings.Repeat("a", 501)}, "query"},
		{"limit too large", Request{Query: "x", Limit: 101}, "limit"},
		{"negative offset", Request{Query: "x", Offset: -1}, "offset"},
		{"offset too large", Request{Query: "x", Offset: 1001}, "offset"},
		{"bad sort key", Request{Query: "x", SortBy: "bogus"}, "sort_by"},
		{"bad sort order", Request{Query: "x", SortOrder: "sideways"}, "sort_order"},
		{"snippet too short", Request{Query: "x", SnippetLength: 10}, "snippet_length"},
		{"snippet too long", Request{Query: "x", SnippetLength: 501}, "snippet_length"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := svc.Search(ctx, &tc.req)
			var ve *ValidationError
			require.ErrorAs(t, err, &ve)
			assert.Contains(t, ve.Fields, tc.field)
		})
	}
}

func TestSearchDefaults(t *testing.T) {
	req := Request{Query: "hello"}
	require.NoError(t, req.Normalize())

	assert.Equal(t, 20, req.Limit)
	assert.Equal(t, 0, req.Offset)
	assert.Equal(t, SortRelevance, req.SortBy)
	assert.Equal(t, OrderDesc, req.SortOrder)
	assert.Equal(t, 160, req.SnippetLength)
}
