package preview

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Konfuzian/claude-code-meta/internal/config"
)

func writeFile(t *testing.T, p, body string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(p), 0o755))
	require.NoError(t, os.WriteFile(p, []byte(body), 0o644))
}

func servedSite(t *testing.T) *Server {
	t.Helper()
	out := t.TempDir()
	writeFile(t, filepath.Join(out, "index.html"), "<p>home</p>")
	writeFile(t, filepath.Join(out, "docs", "intro", "index.html"), "<p>intro</p>")
	writeFile(t, filepath.Join(out, "img", "logo.svg"), "<svg></svg>")
	writeFile(t, filepath.Join(out, "404.html"), "<p>missing</p>")

	cfg := config.Starter("Preview")
	cfg.BaseURL = "/meta/"
	require.NoError(t, config.Prepare(cfg))
	return newServer(cfg, Options{OutputDir: out})
}

func get(t *testing.T, h http.Handler, target string) *http.Response {
	t.Helper()
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, target, nil))
	return rec.Result()
}

func body(t *testing.T, res *http.Response) string {
	t.Helper()
	defer func() { _ = res.Body.Close() }()
	b, err := io.ReadAll(res.Body)
	require.NoError(t, err)
	return string(b)
}

func TestHandler_ServesSiteUnderBaseURL(t *testing.T) {
	h := servedSite(t).Handler()

	cases := []struct {
		target string
		status int
		body   string
	}{
		{"/meta/", http.StatusOK, "<p>home</p>"},
		{"/meta/docs/intro", http.StatusOK, "<p>intro</p>"},
		{"/meta/docs/intro/", http.StatusOK, "<p>intro</p>"},
		{"/meta/img/logo.svg", http.StatusOK, "<svg></svg>"},
		{"/meta/docs/nope", http.StatusNotFound, "<p>missing</p>"},
		{"/elsewhere", http.StatusNotFound, "<p>missing</p>"},
		{"/meta/../../etc/passwd", http.StatusNotFound, "<p>missing</p>"},
	}
	for _, tc := range cases {
		t.Run(tc.target, func(t *testing.T) {
			res := get(t, h, tc.target)
			assert.Equal(t, tc.status, res.StatusCode)
			assert.Equal(t, tc.body, body(t, res))
		})
	}

	res := get(t, h, "/meta/img/logo.svg")
	assert.Equal(t, "image/svg+xml", res.Header.Get("Content-Type"))
	_ = res.Body.Close()
}

func TestHandler_RedirectsToBaseURL(t *testing.T) {
	h := servedSite(t).Handler()
	for _, target := range []string{"/", "/meta"} {
		res := get(t, h, target)
		assert.Equal(t, http.StatusFound, res.StatusCode, target)
		assert.Equal(t, "/meta/", res.Header.Get("Location"), target)
		_ = res.Body.Close()
	}
}

func TestHandler_Health(t *testing.T) {
	s := servedSite(t)
	h := s.Handler()

	res := get(t, h, "/healthz")
	assert.Equal(t, http.StatusServiceUnavailable, res.StatusCode)
	var health Health
	require.NoError(t, json.Unmarshal([]byte(body(t, res)), &health))
	assert.Equal(t, "starting", health.Status)

	s.status.setSuccess("b-1")
	res = get(t, h, "/healthz")
	assert.Equal(t, http.StatusOK, res.StatusCode)
	require.NoError(t, json.Unmarshal([]byte(body(t, res)), &health))
	assert.Equal(t, Health{Status: "ok", BuildID: "b-1", BuiltAt: health.BuiltAt, HasGoodBuild: true}, health)

	s.status.setError("b-2", assert.AnError)
	res = get(t, h, "/healthz")
	assert.Equal(t, http.StatusServiceUnavailable, res.StatusCode)
	require.NoError(t, json.Unmarshal([]byte(body(t, res)), &health))
	assert.Equal(t, "error", health.Status)
	assert.True(t, health.HasGoodBuild)
	assert.Equal(t, assert.AnError.Error(), health.LastError)
}

func TestHandler_Metrics(t *testing.T) {
	res := get(t, servedSite(t).Handler(), "/metrics")
	assert.Equal(t, http.StatusOK, res.StatusCode)
	assert.Contains(t, body(t, res), "metasite_documents")
}

func TestRebuild_BuildsAndServes(t *testing.T) {
	dir := t.TempDir()
	configPath := filepath.Join(dir, "site.yaml")
	require.NoError(t, config.Init(configPath, false, "Preview"))
	writeFile(t, filepath.Join(dir, "docs", "intro.md"), "# Introduction\n\nHello.\n")

	s, err := New(Options{ConfigPath: configPath, OutputDir: filepath.Join(dir, "build")})
	require.NoError(t, err)
	require.NoError(t, s.Rebuild(context.Background()))

	h := s.Handler()
	res := get(t, h, "/docs/intro")
	assert.Equal(t, http.StatusOK, res.StatusCode)
	assert.Contains(t, body(t, res), "Introduction")

	res = get(t, h, "/healthz")
	assert.Equal(t, http.StatusOK, res.StatusCode)
	_ = res.Body.Close()

	writeFile(t, filepath.Join(dir, "docs", "broken.md"), "# Broken\n\n[gone](/docs/gone)\n")
	require.Error(t, s.Rebuild(context.Background()))
	assert.Equal(t, "error", s.status.health().Status)

	// the previous build keeps being served
	res = get(t, h, "/docs/intro")
	assert.Equal(t, http.StatusOK, res.StatusCode)
	_ = res.Body.Close()
}

func TestWatcher_Relevant(t *testing.T) {
	dir := t.TempDir()
	configPath := filepath.Join(dir, "site.yaml")
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "docs", "guides"), 0o755))
	cfg := config.Starter("Watch")
	cfg.SetDir(dir)
	require.NoError(t, config.Prepare(cfg))

	w, err := newWatcher(cfg, configPath)
	require.NoError(t, err)
	defer func() { _ = w.Close() }()

	ev := func(name string) fsnotify.Event { return fsnotify.Event{Name: name, Op: fsnotify.Write} }
	assert.True(t, w.Relevant(ev(filepath.Join(dir, "docs", "guides", "a.md"))))
	assert.True(t, w.Relevant(ev(filepath.Join(dir, "static", "img", "logo.svg"))))
	assert.True(t, w.Relevant(ev(configPath)))
	assert.True(t, w.Relevant(ev(filepath.Join(dir, "sidebars.yaml"))))
	assert.True(t, w.Relevant(ev(filepath.Join(dir, ".env"))))
	assert.False(t, w.Relevant(ev(filepath.Join(dir, "docs", ".a.md.swp"))))
	assert.False(t, w.Relevant(ev(filepath.Join(dir, "build", "index.html"))))
	assert.False(t, w.Relevant(ev(filepath.Join(dir, "README.md"))))
}

func TestShouldIgnoreEvent(t *testing.T) {
	assert.True(t, shouldIgnoreEvent("/tmp/.hidden.md"))
	assert.True(t, shouldIgnoreEvent("/tmp/#foo#"))
	assert.True(t, shouldIgnoreEvent("/tmp/foo.swp"))
	assert.True(t, shouldIgnoreEvent("/tmp/foo.md~"))
	assert.True(t, shouldIgnoreEvent("/tmp/.DS_Store"))
	assert.False(t, shouldIgnoreEvent("/tmp/visible.md"))
}

func TestDebouncer_CoalescesBursts(t *testing.T) {
	req, trigger := newDebouncer(20 * time.Millisecond)
	for i := 0; i < 5; i++ {
		trigger()
	}

	select {
	case <-req:
	case <-time.After(time.Second):
		t.Fatal("no rebuild requested")
	}
	select {
	case <-req:
		t.Fatal("burst produced more than one rebuild")
	case <-time.After(100 * time.Millisecond):
	}
}
