package commands

import (
	"context"
	"fmt"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/docsmith/docsmith/internal/config"
	"github.com/docsmith/docsmith/internal/metrics"
	"github.com/docsmith/docsmith/internal/server"
	"github.com/docsmith/docsmith/internal/site"
	"github.com/docsmith/docsmith/internal/state"
)

// ServeCmd implements the 'serve' command: build once, serve the site,
// and rebuild on file changes.
type ServeCmd struct {
	Address string `short:"a" help:"Override the listen address"`
}

// siteRebuilder adapts the site builder to the server's rebuild hook.
type siteRebuilder struct {
	cfg   *config.Config
	store *state.Store
}

func (r *siteRebuilder) Rebuild(ctx context.Context) error {
	_, err := site.NewBuilder(r.cfg, site.Options{Store: r.store}).Build(ctx)
	return err
}

func (s *ServeCmd) Run(_ *Global, root *CLI) error {
	cfg, err := config.Load(root.Config)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	if err := config.Validate(cfg); err != nil {
		return err
	}
	if s.Address != "" {
		if cfg.Serve == nil {
			cfg.Serve = &config.ServeConfig{}
		}
		cfg.Serve.Address = s.Address
	}
	cfg.ResolvePaths(filepath.Dir(root.Config))

	store, err := openStateStore(cfg, root.Config)
	if err != nil {
		return err
	}
	defer func() { _ = store.Close() }()

	recorder := metrics.NewPrometheusRecorder(prometheus.NewRegistry())
	rebuilder := &siteRebuilder{cfg: cfg, store: store}

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	// Initial build before accepting requests.
	if err := rebuilder.Rebuild(ctx); err != nil {
		return err
	}

	srv, err := server.New(cfg, rebuilder, recorder)
	if err != nil {
		return err
	}
	fmt.Printf("Serving %q on http://%s\n", cfg.SiteDir, srv.Address())
	return srv.Start(ctx, cfg.DocsDir, root.Config)
}
