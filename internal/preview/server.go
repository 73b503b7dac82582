// Package preview serves a built site locally and rebuilds it when sources change.
package preview

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"mime"
	"net/http"
	"os"
	"path"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/Konfuzian/claude-code-meta/internal/build"
	"github.com/Konfuzian/claude-code-meta/internal/config"
	"github.com/Konfuzian/claude-code-meta/internal/logfields"
	"github.com/Konfuzian/claude-code-meta/internal/metrics"
)

// DefaultDebounce is the quiet period after the last file event before a rebuild.
const DefaultDebounce = 300 * time.Millisecond

// Options configures a preview server.
type Options struct {
	ConfigPath string
	// OutputDir receives builds. Empty uses a temporary directory removed on shutdown.
	OutputDir string
	Port      int
	Debounce  time.Duration
}

// Server builds the site, serves it under its base URL and rebuilds on change.
type Server struct {
	opts      Options
	outputDir string
	tempDir   bool

	registry *prometheus.Registry
	service  *build.Service
	status   buildStatus

	mu  sync.RWMutex
	cfg *config.Config
}

// New loads the configuration and prepares the output directory.
func New(opts Options) (*Server, error) {
	cfg, err := config.Load(opts.ConfigPath)
	if err != nil {
		return nil, err
	}
	if opts.Debounce <= 0 {
		opts.Debounce = DefaultDebounce
	}

	s := newServer(cfg, opts)
	if s.outputDir == "" {
		dir, err := os.MkdirTemp("", "metasite-preview-")
		if err != nil {
			return nil, fmt.Errorf("create preview output: %w", err)
		}
		s.outputDir = filepath.Join(dir, "site")
		s.tempDir = true
	}
	return s, nil
}

func newServer(cfg *config.Config, opts Options) *Server {
	reg := prometheus.NewRegistry()
	return &Server{
		opts:      opts,
		outputDir: opts.OutputDir,
		registry:  reg,
		service:   build.NewService().WithRecorder(metrics.NewPrometheusRecorder(reg)),
		cfg:       cfg,
	}
}

func (s *Server) config() *config.Config {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.cfg
}

// Rebuild reloads the configuration and runs a full build into the output directory.
func (s *Server) Rebuild(ctx context.Context) error {
	cfg := s.config()
	if s.opts.ConfigPath != "" {
		loaded, err := config.Load(s.opts.ConfigPath)
		if err != nil {
			s.status.setError("", err)
			return err
		}
		cfg = loaded
		s.mu.Lock()
		s.cfg = loaded
		s.mu.Unlock()
	}

	res, err := s.service.Run(ctx, build.Request{Config: cfg, OutputDir: s.outputDir})
	var buildID string
	if res != nil {
		buildID = res.Report.BuildID
	}
	if err != nil {
		s.status.setError(buildID, err)
		return err
	}
	s.status.setSuccess(buildID)
	return nil
}

// Handler routes /healthz, /metrics and the site under its base URL.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()
	r.Use(chimw.RequestID)
	r.Use(chimw.Recoverer)
	r.Use(requestLogger)

	r.Get("/healthz", s.handleHealth)
	r.Handle("/metrics", metrics.HTTPHandler(s.registry))
	r.Get("/*", s.serveSite)
	r.Head("/*", s.serveSite)
	return r
}

func requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := chimw.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()
		next.ServeHTTP(ww, r)
		slog.Debug("HTTP request",
			slog.String("method", r.Method),
			logfields.Path(r.URL.Path),
			slog.Int("status", ww.Status()),
			logfields.DurationMS(float64(time.Since(start))/float64(time.Millisecond)),
			slog.String("request_id", chimw.GetReqID(r.Context())))
	})
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	h := s.status.health()
	w.Header().Set("Content-Type", "application/json")
	if h.Status != "ok" {
		w.WriteHeader(http.StatusServiceUnavailable)
	}
	_ = json.NewEncoder(w).Encode(h)
}

func (s *Server) serveSite(w http.ResponseWriter, r *http.Request) {
	base := s.config().BaseURL
	p := r.URL.Path
	if p+"/" == base || (p == "/" && base != "/") {
		http.Redirect(w, r, base, http.StatusFound)
		return
	}
	if !strings.HasPrefix(p, base) {
		s.notFound(w, r)
		return
	}

	rel := path.Clean("/" + strings.TrimPrefix(p, base))
	file := filepath.Join(s.outputDir, filepath.FromSlash(rel))
	if info, err := os.Stat(file); err == nil && info.IsDir() {
		file = filepath.Join(file, "index.html")
	}
	if !s.serveFile(w, r, file, http.StatusOK) {
		s.notFound(w, r)
	}
}

func (s *Server) notFound(w http.ResponseWriter, r *http.Request) {
	if s.serveFile(w, r, filepath.Join(s.outputDir, build.NotFoundFile), http.StatusNotFound) {
		return
	}
	http.NotFound(w, r)
}

// serveFile writes a regular file with the given status and reports whether it existed.
func (s *Server) serveFile(w http.ResponseWriter, r *http.Request, file string, status int) bool {
	data, err := os.ReadFile(file) //nolint:gosec // path is cleaned and rooted at the output directory
	if err != nil {
		return false
	}
	w.Header().Set("Content-Type", contentType(file))
	w.WriteHeader(status)
	if r.Method != http.MethodHead {
		_, _ = w.Write(data)
	}
	return true
}

func contentType(file string) string {
	if ct := mime.TypeByExtension(filepath.Ext(file)); ct != "" {
		return ct
	}
	return "application/octet-stream"
}

// Run performs the initial build, then serves and watches until ctx is done.
// A failed initial build keeps the server up so the error shows on /healthz.
func (s *Server) Run(ctx context.Context) error {
	if err := s.Rebuild(ctx); err != nil {
		slog.Error("Initial build failed", logfields.Error(err))
	}

	watcher, err := newWatcher(s.config(), s.opts.ConfigPath)
	if err != nil {
		return err
	}
	defer func() { _ = watcher.Close() }()

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", s.opts.Port),
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}
	serveErr := make(chan error, 1)
	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
		close(serveErr)
	}()
	slog.Info("Preview server listening",
		slog.Int("port", s.opts.Port),
		logfields.URL(fmt.Sprintf("http://localhost:%d%s", s.opts.Port, s.config().BaseURL)))

	rebuildReq, trigger := newDebouncer(s.opts.Debounce)
	go s.rebuildWorker(ctx, rebuildReq)

	for {
		select {
		case <-ctx.Done():
			return s.shutdown(srv)
		case err, ok := <-serveErr:
			if ok && err != nil {
				return fmt.Errorf("preview server: %w", err)
			}
			return nil
		case ev, ok := <-watcher.Events():
			if !ok {
				return s.shutdown(srv)
			}
			if watcher.Relevant(ev) {
				slog.Debug("File change detected", logfields.Path(ev.Name), slog.String("op", ev.Op.String()))
				trigger()
			}
		case err, ok := <-watcher.Errors():
			if ok {
				slog.Warn("Watcher error", logfields.Error(err))
			}
		}
	}
}

func (s *Server) rebuildWorker(ctx context.Context, rebuildReq <-chan struct{}) {
	for {
		select {
		case <-ctx.Done():
			return
		case <-rebuildReq:
			slog.Info("Change detected; rebuilding site")
			if err := s.Rebuild(ctx); err != nil {
				slog.Warn("Rebuild failed", logfields.Error(err))
			}
		}
	}
}

func (s *Server) shutdown(srv *http.Server) error {
	slog.Info("Shutting down preview server")
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		slog.Warn("HTTP server shutdown error", logfields.Error(err))
	}
	if s.tempDir {
		dir := filepath.Dir(s.outputDir)
		if err := os.RemoveAll(dir); err != nil {
			slog.Warn("Failed to remove temp output", logfields.Path(dir), logfields.Error(err))
		}
	}
	return nil
}

// newDebouncer returns a channel receiving one value per burst of trigger calls.
func newDebouncer(quiet time.Duration) (<-chan struct{}, func()) {
	var mu sync.Mutex
	var timer *time.Timer
	req := make(chan struct{}, 1)

	trigger := func() {
		mu.Lock()
		defer mu.Unlock()
		if timer != nil {
			timer.Stop()
		}
		timer = time.AfterFunc(quiet, func() {
			select {
			case req <- struct{}{}:
			default:
			}
		})
	}
	return req, trigger
}
