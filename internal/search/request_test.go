package search

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalizeQueryLengthInRunes(t *testing.T) {
	// 300 two-byte runes: 600 bytes but well inside the 500-character limit.
	req := &Request{Query: strings.Repeat("é", 300)}
	require.NoError(t, req.Normalize())

	req = &Request{Query: strings.Repeat("é", maxQueryLen+1)}
	err := req.Normalize()
	var ve *ValidationError
	require.ErrorAs(t, err, &ve)
	assert.Contains(t, ve.Fields, "query")
}
