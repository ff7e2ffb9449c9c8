package search

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSplitTags(t *testing.T) {
	assert.Equal(t, []string{"a", "b", "c"}, splitTags("a, b,,c "))
	assert.Equal(t, []string{}, splitTags(""))
	assert.Equal(t, []string{}, splitTags(" , ,"))
}

func TestParseJSONObjectDefensive(t *testing.T) {
	assert.Equal(t, map[string]interface{}{"k": "v"}, parseJSONObject(`{"k":"v"}`))
	assert.Nil(t, parseJSONObject(""))
	assert.Nil(t, parseJSONObject("{broken"))
	assert.Nil(t, parseJSONObject(`["not","an","object"]`))
}

func TestFormatRowMalformedMetadata(t *testing.T) {
	// A bad metadata blob must null the field, not fail the row.
	res := formatRow(resultRow{
		ID:       "doc-1",
		Title:    "Doc",
		Tags:     "x,y",
		Metadata: "{not json",
		Snippet:  "a <mark>doc</mark>",
	})

	assert.Equal(t, "doc-1", res.ID)
	assert.Nil(t, res.Metadata)
	assert.Equal(t, []string{"x", "y"}, res.Tags)
	assert.Nil(t, res.StoredRank)
}

func TestMatchExpr(t *testing.T) {
	assert.Equal(t, `"marketing"*`, matchExpr("marketing"))
	assert.Equal(t, `"annual" "report"*`, matchExpr("annual report"))
	// Quote characters are stripped so query syntax cannot be injected.
	assert.Equal(t, `"foo" "OR" "bar"*`, matchExpr(`foo" OR "bar`))
	// Trailing punctuation suppresses the prefix star.
	assert.Equal(t, `"done."`, matchExpr("done."))
	assert.Equal(t, `""`, matchExpr(`"`))
}

func TestSnippetTokens(t *testing.T) {
	assert.Equal(t, 8, snippetTokens(50))
	assert.Equal(t, 20, snippetTokens(160))
	assert.Equal(t, 62, snippetTokens(500))
	assert.Equal(t, 64, snippetTokens(10000))
}
