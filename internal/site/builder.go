// Package site renders a documentation site from a loaded configuration:
// every nav leaf becomes an HTML page wrapped in the theme shell, and the
// referenced assets are copied alongside.
package site

import (
	"bytes"
	"context"
	"fmt"
	"html/template"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"github.com/inful/mdfp"

	"github.com/docsmith/docsmith/internal/config"
	"github.com/docsmith/docsmith/internal/errors"
	"github.com/docsmith/docsmith/internal/logfields"
	"github.com/docsmith/docsmith/internal/markdown"
	"github.com/docsmith/docsmith/internal/metrics"
	"github.com/docsmith/docsmith/internal/nav"
	"github.com/docsmith/docsmith/internal/state"
)

// Builder renders the configured site into site_dir.
type Builder struct {
	cfg      *config.Config
	renderer *markdown.Renderer
	store    *state.Store
	recorder metrics.Recorder
	force    bool
}

// Options configures optional builder collaborators.
type Options struct {
	// Store enables incremental builds and the build event log.
	Store *state.Store
	// Recorder receives build metrics; nil means no metrics.
	Recorder metrics.Recorder
	// Force renders every page even when fingerprints are unchanged.
	Force bool
}

// NewBuilder creates a builder for the given configuration.
func NewBuilder(cfg *config.Config, opts Options) *Builder {
	rec := opts.Recorder
	if rec == nil {
		rec = metrics.NoopRecorder{}
	}
	return &Builder{
		cfg:      cfg,
		renderer: markdown.NewRenderer(cfg.MarkdownExtensions),
		store:    opts.Store,
		recorder: rec,
		force:    opts.Force,
	}
}

// Report summarizes one build.
type Report struct {
	BuildID           string
	PagesRendered     int
	PagesSkipped      int
	AssetsCopied      int
	Duration          time.Duration
	UnknownExtensions []string
}

// Build renders all nav leaves and copies referenced assets.
func (b *Builder) Build(ctx context.Context) (*Report, error) {
	start := time.Now()
	report := &Report{
		BuildID:           uuid.NewString(),
		UnknownExtensions: b.renderer.Unknown,
	}

	slog.Info("Starting site build",
		logfields.BuildID(report.BuildID),
		slog.String("docs_dir", b.cfg.DocsDir),
		slog.String("site_dir", b.cfg.SiteDir))
	b.appendEvent(ctx, report.BuildID, "build.started", nil)

	if err := b.runStage(ctx, report, "prepare", b.stagePrepare); err != nil {
		return report, b.failBuild(ctx, report, err)
	}
	if err := b.runStage(ctx, report, "render", func(ctx context.Context, r *Report) error {
		return b.stageRender(ctx, r)
	}); err != nil {
		return report, b.failBuild(ctx, report, err)
	}
	if err := b.runStage(ctx, report, "assets", b.stageAssets); err != nil {
		return report, b.failBuild(ctx, report, err)
	}

	report.Duration = time.Since(start)
	b.recorder.ObserveBuildDuration(report.Duration)
	b.recorder.IncBuildOutcome("success")
	b.appendEvent(ctx, report.BuildID, "build.finished",
		[]byte(fmt.Sprintf(`{"rendered":%d,"skipped":%d}`, report.PagesRendered, report.PagesSkipped)))

	slog.Info("Site build finished",
		logfields.BuildID(report.BuildID),
		slog.Int("rendered", report.PagesRendered),
		slog.Int("skipped", report.PagesSkipped),
		logfields.DurationMS(float64(report.Duration.Milliseconds())))
	return report, nil
}

func (b *Builder) runStage(ctx context.Context, report *Report, stage string, fn func(context.Context, *Report) error) error {
	select {
	case <-ctx.Done():
		return ctx.Err()
	default:
	}

	stageStart := time.Now()
	err := fn(ctx, report)
	b.recorder.ObserveStageDuration(stage, time.Since(stageStart))
	if err != nil {
		b.recorder.IncStageResult(stage, metrics.ResultFatal)
		return errors.BuildFailed(stage, err)
	}
	b.recorder.IncStageResult(stage, metrics.ResultSuccess)
	return nil
}

func (b *Builder) failBuild(ctx context.Context, report *Report, err error) error {
	b.recorder.IncBuildOutcome("failed")
	b.appendEvent(ctx, report.BuildID, "build.failed", []byte(fmt.Sprintf("%q", err.Error())))
	return err
}

func (b *Builder) stagePrepare(_ context.Context, _ *Report) error {
	if _, err := os.Stat(b.cfg.DocsDir); err != nil {
		return fmt.Errorf("docs_dir not found: %s", b.cfg.DocsDir)
	}
	if dupes := b.cfg.Nav.DuplicateTopLabels(); len(dupes) > 0 {
		return errors.NavDuplicateLabel(dupes[0])
	}
	return os.MkdirAll(b.cfg.SiteDir, 0o755)
}

func (b *Builder) stageRender(ctx context.Context, report *Report) error {
	leaves := b.cfg.Nav.Leaves()
	if len(leaves) == 0 {
		slog.Warn("Navigation has no document entries; nothing to render")
	}

	var keep []string
	for _, leaf := range leaves {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}
		keep = append(keep, leaf.Path)

		rendered, err := b.renderPage(ctx, report.BuildID, leaf)
		if err != nil {
			return err
		}
		if rendered {
			report.PagesRendered++
		} else {
			report.PagesSkipped++
		}
	}

	b.recorder.IncPagesRendered(report.PagesRendered)
	b.recorder.IncPagesSkipped(report.PagesSkipped)
	if b.store != nil {
		if err := b.store.PruneFingerprints(ctx, keep); err != nil {
			slog.Warn("Failed to prune stale fingerprints", logfields.Error(err))
		}
	}
	return nil
}

// renderPage renders one nav leaf. It reports false when the page was
// skipped because its fingerprint is unchanged.
func (b *Builder) renderPage(ctx context.Context, buildID string, leaf nav.Leaf) (bool, error) {
	srcPath := filepath.Join(b.cfg.DocsDir, filepath.FromSlash(leaf.Path))
	source, err := os.ReadFile(srcPath)
	if err != nil {
		return false, errors.NavPathUnresolved(leaf.Label, leaf.Path)
	}

	meta, body, err := markdown.SplitFrontMatter(source)
	if err != nil {
		return false, errors.RenderFailed(leaf.Path, err)
	}

	fingerprint := mdfp.CalculateFingerprintFromParts("", string(source))
	if b.store != nil && !b.force {
		stored, err := b.store.Fingerprint(ctx, leaf.Path)
		if err != nil {
			slog.Warn("Fingerprint lookup failed", logfields.Page(leaf.Path), logfields.Error(err))
		} else if stored == fingerprint && b.outputExists(leaf.Path) {
			slog.Debug("Skipping unchanged page", logfields.Page(leaf.Path))
			return false, nil
		}
	}

	page, err := b.renderer.Render(body)
	if err != nil {
		return false, errors.RenderFailed(leaf.Path, err)
	}

	title := meta.Title
	if title == "" {
		title = leaf.Label
	}

	html, err := b.executeTemplate(leaf, title, page)
	if err != nil {
		return false, errors.RenderFailed(leaf.Path, err)
	}

	outPath := filepath.Join(b.cfg.SiteDir, filepath.FromSlash(OutputPath(leaf.Path)))
	if err := os.MkdirAll(filepath.Dir(outPath), 0o755); err != nil {
		return false, fmt.Errorf("create output directory for %s: %w", leaf.Path, err)
	}
	if err := os.WriteFile(outPath, html, 0o644); err != nil {
		return false, fmt.Errorf("write page %s: %w", leaf.Path, err)
	}

	if b.store != nil {
		if err := b.store.SetFingerprint(ctx, leaf.Path, fingerprint); err != nil {
			slog.Warn("Failed to store fingerprint", logfields.Page(leaf.Path), logfields.Error(err))
		}
	}
	b.appendEvent(ctx, buildID, "page.rendered", []byte(fmt.Sprintf("%q", leaf.Path)))
	slog.Debug("Rendered page", logfields.Page(leaf.Path), logfields.Path(outPath))
	return true, nil
}

func (b *Builder) outputExists(docPath string) bool {
	_, err := os.Stat(filepath.Join(b.cfg.SiteDir, filepath.FromSlash(OutputPath(docPath))))
	return err == nil
}

func (b *Builder) executeTemplate(leaf nav.Leaf, title string, page *markdown.Page) ([]byte, error) {
	extraCSS := make([]string, 0, len(b.cfg.ExtraCSS))
	for _, ref := range b.cfg.ExtraCSS {
		extraCSS = append(extraCSS, assetHref(ref))
	}
	extraJS := make([]string, 0, len(b.cfg.ExtraJavascript))
	for _, ref := range b.cfg.ExtraJavascript {
		extraJS = append(extraJS, assetHref(ref))
	}

	data := pageData{
		SiteName:     b.cfg.SiteName,
		Title:        title,
		Content:      template.HTML(page.HTML),
		Nav:          buildNavItems(b.cfg.Nav, leaf.Path),
		TOC:          page.TOC,
		Palettes:     b.cfg.Theme.Palette,
		Logo:         b.cfg.Theme.Logo,
		Favicon:      b.cfg.Theme.Favicon,
		RepoName:     b.cfg.RepoName,
		RepoURL:      b.cfg.RepoURL,
		AnalyticsIDs: b.cfg.GoogleAnalytics,
		ExtraCSS:     extraCSS,
		ExtraJS:      extraJS,
		Permalink:    b.renderer.Permalink(),
	}

	var buf bytes.Buffer
	if err := pageTemplate.Execute(&buf, data); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func (b *Builder) stageAssets(_ context.Context, report *Report) error {
	for _, ref := range b.assetRefs() {
		if err := copyAsset(b.cfg.DocsDir, b.cfg.SiteDir, ref); err != nil {
			return err
		}
		report.AssetsCopied++
		slog.Debug("Copied asset", logfields.Path(ref))
	}
	return nil
}

func (b *Builder) appendEvent(ctx context.Context, buildID, eventType string, payload []byte) {
	if b.store == nil {
		return
	}
	if err := b.store.AppendEvent(ctx, buildID, eventType, payload, nil); err != nil {
		slog.Warn("Failed to record build event", logfields.Error(err))
	}
}
