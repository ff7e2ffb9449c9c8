package search

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCorpusStats(t *testing.T) {
	svc, _ := newTestService(t)

	stats, err := svc.Stats(context.Background(), nil, nil)
	require.NoError(t, err)

	assert.Equal(t, 5, stats.TotalDocuments)
	assert.Equal(t, 4, stats.ActiveDocuments)
	assert.Equal(t, 5, stats.IndexedDocuments)
	assert.Equal(t, 2, stats.Categories["operations"])
	assert.Equal(t, 1, stats.Categories["strategy"])
	assert.Equal(t, 1, stats.DocTypes["proposal"])
	assert.Equal(t, 4, stats.Statuses["active"])
	assert.Equal(t, 1, stats.Statuses["archived"])
}

func TestCorpusStatsEmptyRange(t *testing.T) {
	svc, _ := newTestService(t)

	from := time.Date(1999, 1, 1, 0, 0, 0, 0, time.UTC)
	to := time.Date(1999, 12, 31, 0, 0, 0, 0, time.UTC)

	stats, err := svc.Stats(context.Background(), &from, &to)
	require.NoError(t, err)

	assert.Equal(t, 0, stats.TotalDocuments)
	assert.Equal(t, int64(0), stats.TotalFileSize)
	assert.Empty(t, stats.Categories)
	assert.Empty(t, stats.Statuses)
}
