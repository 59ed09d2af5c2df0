package commands

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/docsmith/docsmith/internal/config"
	"github.com/docsmith/docsmith/internal/linkverify"
	"github.com/docsmith/docsmith/internal/logfields"
)

// VerifyCmd checks every link in a built site.
type VerifyCmd struct {
	External bool   `short:"e" help:"Also probe external links over HTTP"`
	BaseURL  string `help:"Base URL for resolving absolute internal links" default:"/"`
}

func (v *VerifyCmd) Run(_ *Global, root *CLI) error {
	cfg, err := config.Load(root.Config)
	if err != nil {
		return err
	}
	cfg.ResolvePaths(filepath.Dir(root.Config))
	if _, err := os.Stat(cfg.SiteDir); err != nil {
		return fmt.Errorf("site directory %q not found, run build first", cfg.SiteDir)
	}

	opts := linkverify.Options{CheckExternal: v.External}
	if v.External && cfg.Daemon != nil && cfg.Daemon.Events != nil && cfg.Daemon.Events.Enabled {
		cache, err := linkverify.NewNATSCache(cfg.Daemon.Events)
		if err != nil {
			slog.Warn("Link cache unavailable, probing without cache", logfields.Error(err))
		} else {
			defer func() { _ = cache.Close() }()
			opts.Cache = cache
		}
	}

	report, err := linkverify.VerifySite(context.Background(), cfg.SiteDir, v.BaseURL, opts)
	if err != nil {
		return err
	}

	fmt.Printf("Scanned %d pages, checked %d links\n", report.PagesScanned, report.LinksChecked)
	if len(report.Broken) == 0 {
		return nil
	}
	for _, broken := range report.Broken {
		fmt.Printf("  %s: %s (%s)\n", broken.Page, broken.URL, broken.Reason)
	}
	return fmt.Errorf("%d broken link(s)", len(report.Broken))
}
