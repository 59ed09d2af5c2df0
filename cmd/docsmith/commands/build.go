package commands

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"time"

	"github.com/docsmith/docsmith/internal/config"
	"github.com/docsmith/docsmith/internal/logfields"
	"github.com/docsmith/docsmith/internal/site"
	"github.com/docsmith/docsmith/internal/state"
)

// BuildCmd implements the 'build' command.
type BuildCmd struct {
	Output string `short:"o" help:"Override the output directory"`
	Force  bool   `short:"f" help:"Render all pages even when unchanged"`
	Clean  bool   `help:"Skip the state store and rebuild from scratch"`
}

func (b *BuildCmd) Run(_ *Global, root *CLI) error {
	cfg, err := config.Load(root.Config)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	if err := config.Validate(cfg); err != nil {
		return err
	}
	if b.Output != "" {
		cfg.SiteDir = b.Output
	}
	cfg.ResolvePaths(filepath.Dir(root.Config))

	opts := site.Options{Force: b.Force}
	if !b.Clean {
		store, err := openStateStore(cfg, root.Config)
		if err != nil {
			return err
		}
		defer func() { _ = store.Close() }()
		opts.Store = store
	}

	report, err := site.NewBuilder(cfg, opts).Build(context.Background())
	if err != nil {
		return err
	}

	fmt.Printf("Built %q: %d pages rendered, %d unchanged, %d assets (in %s)\n",
		cfg.SiteDir, report.PagesRendered, report.PagesSkipped, report.AssetsCopied,
		report.Duration.Round(time.Millisecond))
	for _, name := range report.UnknownExtensions {
		slog.Warn("Unknown markdown extension ignored", logfields.Extension(name))
	}
	return nil
}

// openStateStore opens the build state store next to the configuration
// file unless the daemon section names an absolute state_dir.
func openStateStore(cfg *config.Config, configPath string) (*state.Store, error) {
	stateDir := config.DefaultStateDir
	if cfg.Daemon != nil && cfg.Daemon.StateDir != "" {
		stateDir = cfg.Daemon.StateDir
	}
	if !filepath.IsAbs(stateDir) {
		stateDir = filepath.Join(filepath.Dir(configPath), stateDir)
	}
	return state.OpenDir(stateDir)
}
