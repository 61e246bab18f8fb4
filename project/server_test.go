package project

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func post(t *testing.T, h http.Handler, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(body))
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func TestPlaygroundHealth(t *testing.T) {
	h := NewPlaygroundHandler(DefaultConfig())
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/health", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	var body map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "ok", body["status"])
}

func TestPlaygroundParse(t *testing.T) {
	h := NewPlaygroundHandler(DefaultConfig())

	rec := post(t, h, "/api/parse", "let x = 1 + 2 * 3;")
	require.Equal(t, http.StatusOK, rec.Code)
	var resp parseResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "let x = (1 + (2 * 3));", resp.Program)
	assert.Empty(t, resp.Errors)
	assert.Contains(t, rec.Body.String(), `"errors":[]`)

	rec = post(t, h, "/api/parse", "let = 5;")
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, []string{
		"expected next token to be IDENT, got = instead",
		"no prefix parse function for = found",
	}, resp.Errors)
}

func TestPlaygroundEval(t *testing.T) {
	h := NewPlaygroundHandler(DefaultConfig())

	rec := post(t, h, "/api/eval", "let add = fn(a, b) { a + b }; add(2, 3)")
	var resp evalResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "5", resp.Result)
	assert.Empty(t, resp.Errors)

	rec = post(t, h, "/api/eval", "1 + true")
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "ERROR: type mismatch: INTEGER + BOOLEAN", resp.Result)

	rec = post(t, h, "/api/eval", "let f = fn(x) { f(x) }; f(1)")
	require.Equal(t, http.StatusOK, rec.Code)
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "ERROR: maximum call depth exceeded", resp.Result)

	rec = post(t, h, "/api/eval", "if (")
	resp = evalResponse{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Empty(t, resp.Result)
	assert.NotEmpty(t, resp.Errors)
}

func TestPlaygroundRejectsGet(t *testing.T) {
	h := NewPlaygroundHandler(DefaultConfig())
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/parse", nil))
	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
}

func TestPlaygroundServesDumps(t *testing.T) {
	root := t.TempDir()
	cfg := DefaultConfig()
	cfg.Root = root
	require.NoError(t, os.MkdirAll(filepath.Join(root, "generated"), 0755))
	require.NoError(t, os.WriteFile(filepath.Join(root, "generated", "main.yaml"), []byte("kind: Program\n"), 0644))

	rec := httptest.NewRecorder()
	NewPlaygroundHandler(cfg).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/generated/main.yaml", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "kind: Program\n", rec.Body.String())
}
