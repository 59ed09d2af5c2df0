package server

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/fsnotify/fsnotify"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/docsmith/docsmith/internal/config"
)

type stubRebuilder struct {
	calls int
	err   error
}

func (r *stubRebuilder) Rebuild(_ context.Context) error {
	r.calls++
	return r.err
}

func newTestServer(t *testing.T) (*Server, string) {
	t.Helper()
	siteDir := t.TempDir()
	cfg := &config.Config{
		SiteName: "Test Site",
		SiteDir:  siteDir,
	}
	srv, err := New(cfg, &stubRebuilder{}, nil)
	require.NoError(t, err)
	return srv, siteDir
}

func TestHandleSiteServesAndInjectsReload(t *testing.T) {
	srv, siteDir := newTestServer(t)

	page := []byte("<html><body><h1>Hello</h1></body></html>")
	require.NoError(t, os.WriteFile(filepath.Join(siteDir, "index.html"), page, 0o644))

	rec := httptest.NewRecorder()
	srv.handleSite(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "text/html; charset=utf-8", rec.Header().Get("Content-Type"))
	assert.Contains(t, rec.Body.String(), "<h1>Hello</h1>")
	assert.Contains(t, rec.Body.String(), "/api/build", "live reload script should be injected")
}

func TestHandleSiteCachesUntilRebuild(t *testing.T) {
	srv, siteDir := newTestServer(t)

	path := filepath.Join(siteDir, "index.html")
	require.NoError(t, os.WriteFile(path, []byte("<html><body>v1</body></html>"), 0o644))

	rec := httptest.NewRecorder()
	srv.handleSite(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Contains(t, rec.Body.String(), "v1")

	// Overwrite on disk; the cached copy is still served.
	require.NoError(t, os.WriteFile(path, []byte("<html><body>v2</body></html>"), 0o644))
	rec = httptest.NewRecorder()
	srv.handleSite(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Contains(t, rec.Body.String(), "v1")

	// A rebuild bumps the sequence and purges the cache.
	srv.onRebuilt(nil)
	rec = httptest.NewRecorder()
	srv.handleSite(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Contains(t, rec.Body.String(), "v2")
}

func TestHandleSiteDirectoryResolvesIndex(t *testing.T) {
	srv, siteDir := newTestServer(t)

	require.NoError(t, os.MkdirAll(filepath.Join(siteDir, "guide"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(siteDir, "guide", "index.html"),
		[]byte("<html><body>guide</body></html>"), 0o644))

	rec := httptest.NewRecorder()
	srv.handleSite(rec, httptest.NewRequest(http.MethodGet, "/guide/", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "guide")
}

func TestHandleSiteNotFound(t *testing.T) {
	srv, _ := newTestServer(t)

	rec := httptest.NewRecorder()
	srv.handleSite(rec, httptest.NewRequest(http.MethodGet, "/missing.html", nil))
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestHealthReportsLastError(t *testing.T) {
	srv, _ := newTestServer(t)

	rec := httptest.NewRecorder()
	srv.handleHealth(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	var body map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "ok", body["status"])

	srv.onRebuilt(assert.AnError)
	rec = httptest.NewRecorder()
	srv.handleHealth(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.NotEmpty(t, body["last_error"])
}

func TestBuildInfoSequence(t *testing.T) {
	srv, _ := newTestServer(t)

	rec := httptest.NewRecorder()
	srv.handleBuildInfo(rec, httptest.NewRequest(http.MethodGet, "/api/build", nil))

	var body map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, float64(0), body["build_seq"])

	srv.onRebuilt(nil)
	srv.onRebuilt(nil)
	rec = httptest.NewRecorder()
	srv.handleBuildInfo(rec, httptest.NewRequest(http.MethodGet, "/api/build", nil))
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, float64(2), body["build_seq"])
}

func TestRelevantEventFiltersNoise(t *testing.T) {
	docs := "/tmp/docs"
	cfgPath := "/tmp/project/mkdocs.yml"

	tests := []struct {
		name string
		path string
		want bool
	}{
		{"markdown in docs", "/tmp/docs/guide.md", true},
		{"hidden file", "/tmp/docs/.guide.md.swx", false},
		{"editor backup", "/tmp/docs/guide.md~", false},
		{"vim swap", "/tmp/docs/.guide.md.swp", false},
		{"config file", "/tmp/project/mkdocs.yml", true},
		{"unrelated sibling", "/tmp/project/notes.txt", false},
		{"sibling dir sharing prefix", "/tmp/docs-notes/guide.md", false},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got := relevantEvent(fsnotify.Event{Name: tc.path, Op: fsnotify.Write}, docs, cfgPath)
			assert.Equal(t, tc.want, got)
		})
	}
}
