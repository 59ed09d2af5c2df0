// Package server provides the local preview server: it serves the built
// site, rebuilds on docs changes, and exposes health and metrics endpoints.
package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"sync/atomic"
	"time"

	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/docsmith/docsmith/internal/config"
	"github.com/docsmith/docsmith/internal/logfields"
	"github.com/docsmith/docsmith/internal/metrics"
)

// Rebuilder triggers a site rebuild; the preview loop calls it on changes.
type Rebuilder interface {
	Rebuild(ctx context.Context) error
}

// Server serves the generated site with live rebuilds.
type Server struct {
	cfg       *config.Config
	rebuilder Rebuilder
	recorder  *metrics.PrometheusRecorder

	cache      *lru.Cache[string, []byte]
	buildSeq   atomic.Int64
	lastError  atomic.Value // string
	liveReload bool

	httpServer *http.Server
}

// New constructs a preview server. recorder may be nil.
func New(cfg *config.Config, rebuilder Rebuilder, recorder *metrics.PrometheusRecorder) (*Server, error) {
	size := config.DefaultCacheSize
	liveReload := true
	if cfg.Serve != nil {
		if cfg.Serve.CacheSize > 0 {
			size = cfg.Serve.CacheSize
		}
		if cfg.Serve.LiveReload != nil {
			liveReload = *cfg.Serve.LiveReload
		}
	}
	cache, err := lru.New[string, []byte](size)
	if err != nil {
		return nil, fmt.Errorf("create page cache: %w", err)
	}

	s := &Server{
		cfg:        cfg,
		rebuilder:  rebuilder,
		recorder:   recorder,
		cache:      cache,
		liveReload: liveReload,
	}
	s.lastError.Store("")
	return s, nil
}

// Address returns the configured listen address.
func (s *Server) Address() string {
	if s.cfg.Serve != nil && s.cfg.Serve.Address != "" {
		return s.cfg.Serve.Address
	}
	return config.DefaultAddress
}

// Start serves until ctx is canceled, watching docsDir and configPath for
// changes and rebuilding through the Rebuilder.
func (s *Server) Start(ctx context.Context, docsDir, configPath string) error {
	mux := http.NewServeMux()
	mux.HandleFunc("/healthz", s.handleHealth)
	mux.HandleFunc("/api/build", s.handleBuildInfo)
	if s.recorder != nil {
		mux.Handle("/metrics", s.recorder.Handler())
	}
	mux.HandleFunc("/", s.handleSite)

	ln, err := net.Listen("tcp", s.Address())
	if err != nil {
		return fmt.Errorf("listen on %s: %w", s.Address(), err)
	}

	s.httpServer = &http.Server{
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}

	watchErr := make(chan error, 1)
	go func() {
		watchErr <- s.watchLoop(ctx, docsDir, configPath)
	}()

	serveErr := make(chan error, 1)
	go func() {
		serveErr <- s.httpServer.Serve(ln)
	}()

	slog.Info("Preview server started",
		slog.String("address", ln.Addr().String()),
		slog.String("docs_dir", docsDir))

	select {
	case <-ctx.Done():
	case err := <-watchErr:
		if err != nil && !errors.Is(err, context.Canceled) {
			slog.Error("Watcher stopped", logfields.Error(err))
		}
	case err := <-serveErr:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return s.httpServer.Shutdown(shutdownCtx)
}

// onRebuilt records a completed rebuild and invalidates the page cache.
func (s *Server) onRebuilt(err error) {
	if err != nil {
		s.lastError.Store(err.Error())
		slog.Error("Rebuild failed", logfields.Error(err))
		return
	}
	s.lastError.Store("")
	s.buildSeq.Add(1)
	s.cache.Purge()
	slog.Info("Site rebuilt", slog.Int64("build_seq", s.buildSeq.Load()))
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	status := map[string]any{"status": "ok", "build_seq": s.buildSeq.Load()}
	if msg, _ := s.lastError.Load().(string); msg != "" {
		status["status"] = "degraded"
		status["last_error"] = msg
	}
	_ = json.NewEncoder(w).Encode(status)
}

func (s *Server) handleBuildInfo(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(map[string]any{"build_seq": s.buildSeq.Load()})
}

// handleSite serves files from site_dir with an LRU cache keyed by build
// sequence, injecting the livereload script into HTML pages.
func (s *Server) handleSite(w http.ResponseWriter, r *http.Request) {
	rel := strings.TrimPrefix(r.URL.Path, "/")
	if rel == "" || strings.HasSuffix(rel, "/") {
		rel += "index.html"
	}

	full := filepath.Join(s.cfg.SiteDir, filepath.FromSlash(rel))
	if st, err := os.Stat(full); err == nil && st.IsDir() {
		rel += "/index.html"
		full = filepath.Join(full, "index.html")
	}

	key := fmt.Sprintf("%d:%s", s.buildSeq.Load(), rel)
	body, ok := s.cache.Get(key)
	if !ok {
		var err error
		body, err = os.ReadFile(full)
		if err != nil {
			http.NotFound(w, r)
			return
		}
		if s.liveReload && strings.HasSuffix(rel, ".html") {
			body = injectReloadScript(body)
		}
		s.cache.Add(key, body)
	}

	w.Header().Set("Content-Type", contentType(rel))
	_, _ = w.Write(body)
}

const reloadScript = `<script>(function(){var seq=null;setInterval(function(){fetch('/api/build').then(function(r){return r.json()}).then(function(b){if(seq===null){seq=b.build_seq;return}if(b.build_seq!==seq){location.reload()}}).catch(function(){})},1000)})();</script>`

// injectReloadScript appends the polling script before </body> so pages
// refresh when a rebuild bumps the build sequence.
func injectReloadScript(body []byte) []byte {
	idx := strings.LastIndex(string(body), "</body>")
	if idx < 0 {
		return append(body, []byte(reloadScript)...)
	}
	out := make([]byte, 0, len(body)+len(reloadScript))
	out = append(out, body[:idx]...)
	out = append(out, []byte(reloadScript)...)
	out = append(out, body[idx:]...)
	return out
}

func contentType(rel string) string {
	switch filepath.Ext(rel) {
	case ".html":
		return "text/html; charset=utf-8"
	case ".css":
		return "text/css; charset=utf-8"
	case ".js":
		return "application/javascript"
	case ".png":
		return "image/png"
	case ".svg":
		return "image/svg+xml"
	case ".ico":
		return "image/x-icon"
	case ".json":
		return "application/json"
	default:
		return "application/octet-stream"
	}
}
