package api

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/prateekgoyal/proposalhub/internal/config"
	"github.com/prateekgoyal/proposalhub/internal/database"
	"github.com/prateekgoyal/proposalhub/internal/store"
)

const testSecret = "test-secret"

func newTestRouter(t *testing.T) (http.Handler, *sqlx.DB) {
	t.Helper()

	db, err := database.OpenMemory()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	docs := store.NewDocuments(db)
	require.NoError(t, docs.Seed(context.Background()))

	cfg := &config.Config{
		Server: config.ServerConfig{
			CORSOrigins:    []string{"*"},
			RateLimitRPS:   100,
			RateLimitBurst: 200,
		},
		Auth: config.AuthConfig{JWTSecret: testSecret, AdminRole: "admin"},
		Search: config.SearchConfig{
			DefaultLimit:     20,
			SnippetLength:    160,
			StoredRankWeight: 0.7,
			EngineRankWeight: 0.3,
			StaleAfter:       time.Hour,
			CacheTTL:         time.Minute,
		},
		Env: "development",
	}

	return NewRouter(db, nil, cfg).Setup(), db
}

func issueToken(t *testing.T, sub, role string) string {
	t.Helper()
	claims := jwt.MapClaims{
		"sub":  sub,
		"role": role,
		"exp":  time.Now().Add(time.Hour).Unix(),
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(testSecret))
	require.NoError(t, err)
	return token
}

func doRequest(t *testing.T, h http.Handler, method, path, token string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func decodeBody(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var out map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out))
	return out
}

func TestHealthz(t *testing.T) {
	h, _ := newTestRouter(t)

	rec := doRequest(t, h, http.MethodGet, "/healthz", "", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestSearchRequiresAuth(t *testing.T) {
	h, _ := newTestRouter(t)

	rec := doRequest(t, h, http.MethodGet, "/api/dms/search?q=marketing", "", nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	body := decodeBody(t, rec)
	assert.Equal(t, false, body["success"])
}

func TestRebuildIndexRequiresAdmin(t *testing.T) {
	h, db := newTestRouter(t)

	token := issueToken(t, "user-alice", "user")
	rec := doRequest(t, h, http.MethodPost, "/api/dms/rebuild-index", token, map[string]any{"force": true})
	assert.Equal(t, http.StatusForbidden, rec.Code)

	var indexed int
	require.NoError(t, db.Get(&indexed, `SELECT COUNT(*) FROM dms_documents WHERE fts_content IS NOT NULL`))
	assert.Equal(t, 0, indexed)
}

func TestRebuildIndexAsAdmin(t *testing.T) {
	h, _ := newTestRouter(t)

	token := issueToken(t, "user-admin", "admin")
	rec := doRequest(t, h, http.MethodPost, "/api/dms/rebuild-index", token, map[string]any{"force": true})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	body := decodeBody(t, rec)
	assert.Equal(t, true, body["success"])
	assert.Equal(t, float64(5), body["document_count"])
}

func TestSearchFlow(t *testing.T) {
	h, _ := newTestRouter(t)

	admin := issueToken(t, "user-admin", "admin")
	rec := doRequest(t, h, http.MethodPost, "/api/dms/rebuild-index", admin, map[string]any{"force": true})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	token := issueToken(t, "user-alice", "user")
	rec = doRequest(t, h, http.MethodGet, "/api/dms/search?q=marketing", token, nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	body := decodeBody(t, rec)
	assert.Equal(t, true, body["success"])
	results, ok := body["results"].([]any)
	require.True(t, ok)
	require.NotEmpty(t, results)
	first := results[0].(map[string]any)
	assert.Equal(t, "doc-marketing-strategy-2024", first["id"])
}

func TestSearchValidationError(t *testing.T) {
	h, _ := newTestRouter(t)

	token := issueToken(t, "user-alice", "user")
	rec := doRequest(t, h, http.MethodPost, "/api/dms/search", token, map[string]any{"query": ""})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	body := decodeBody(t, rec)
	assert.Equal(t, false, body["success"])
	errs, ok := body["errors"].(map[string]any)
	require.True(t, ok)
	assert.Contains(t, errs, "query")
}

func TestHighlightUnknownDocument(t *testing.T) {
	h, _ := newTestRouter(t)

	admin := issueToken(t, "user-admin", "admin")
	rec := doRequest(t, h, http.MethodPost, "/api/dms/rebuild-index", admin, map[string]any{"force": true})
	require.Equal(t, http.StatusOK, rec.Code)

	token := issueToken(t, "user-alice", "user")
	rec = doRequest(t, h, http.MethodGet, "/api/dms/highlight/no-such-doc?q=marketing", token, nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestSuggestionsEndpoint(t *testing.T) {
	h, _ := newTestRouter(t)

	admin := issueToken(t, "user-admin", "admin")
	rec := doRequest(t, h, http.MethodPost, "/api/dms/rebuild-index", admin, map[string]any{"force": true})
	require.Equal(t, http.StatusOK, rec.Code)

	token := issueToken(t, "user-alice", "user")
	rec = doRequest(t, h, http.MethodGet, "/api/dms/suggestions?q=Mark", token, nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	body := decodeBody(t, rec)
	suggestions, ok := body["suggestions"].([]any)
	require.True(t, ok)
	require.NotEmpty(t, suggestions)
}
