package site

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/docsmith/docsmith/internal/config"
	"github.com/docsmith/docsmith/internal/nav"
	"github.com/docsmith/docsmith/internal/state"
)

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
}

func testConfig(t *testing.T) *config.Config {
	t.Helper()
	dir := t.TempDir()
	docsDir := filepath.Join(dir, "docs")
	writeFile(t, filepath.Join(docsDir, "index.md"), "# Welcome\n\nHome page.\n")
	writeFile(t, filepath.Join(docsDir, "api", "guide.md"), "---\ntitle: API Guide\n---\n# Guide\n\n## Usage\n\ntext\n")
	writeFile(t, filepath.Join(docsDir, "assets", "logo.png"), "png-bytes")
	writeFile(t, filepath.Join(docsDir, "css", "custom.css"), "body{}")

	return &config.Config{
		SiteName: "Xplique",
		RepoName: "deel-ai/xplique",
		RepoURL:  "https://github.com/deel-ai/xplique",
		DocsDir:  docsDir,
		SiteDir:  filepath.Join(dir, "site"),
		Nav: nav.Tree{
			{Label: "Home", Path: "index.md"},
			{Label: "Docs", Children: []nav.Entry{{Label: "Guide", Path: "api/guide.md"}}},
		},
		Theme: config.ThemeConfig{
			Name: "material",
			Logo: "assets/logo.png",
			Palette: []config.Palette{
				{Scheme: "default", Primary: "indigo", Toggle: &config.ToggleConfig{Name: "Switch to dark mode"}},
				{Scheme: "slate", Primary: "indigo", Toggle: &config.ToggleConfig{Name: "Switch to light mode"}},
			},
		},
		GoogleAnalytics: []string{"UA-123456789-1"},
		MarkdownExtensions: config.ExtensionList{
			{Name: "toc", Options: map[string]any{"permalink": true}},
			{Name: "footnotes"},
		},
		ExtraCSS:        []string{"css/custom.css"},
		ExtraJavascript: []string{"https://polyfill.io/v3/polyfill.min.js"},
	}
}

func TestBuild_RendersAllPages(t *testing.T) {
	cfg := testConfig(t)
	builder := NewBuilder(cfg, Options{})

	report, err := builder.Build(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 2, report.PagesRendered)
	assert.Equal(t, 0, report.PagesSkipped)
	assert.NotEmpty(t, report.BuildID)
	assert.Empty(t, report.UnknownExtensions)

	home, err := os.ReadFile(filepath.Join(cfg.SiteDir, "index.html"))
	require.NoError(t, err)
	assert.Contains(t, string(home), "Xplique")
	assert.Contains(t, string(home), "Home page.")
	assert.Contains(t, string(home), "googletagmanager.com/gtag/js?id=UA-123456789-1")
	assert.Contains(t, string(home), "https://github.com/deel-ai/xplique")
	assert.Contains(t, string(home), "https://polyfill.io/v3/polyfill.min.js")

	guide, err := os.ReadFile(filepath.Join(cfg.SiteDir, "api", "guide", "index.html"))
	require.NoError(t, err)
	// Front matter title wins over the nav label.
	assert.Contains(t, string(guide), "API Guide - Xplique")
	assert.Contains(t, string(guide), `href="#usage"`)
}

func TestBuild_CopiesAssets(t *testing.T) {
	cfg := testConfig(t)
	builder := NewBuilder(cfg, Options{})

	report, err := builder.Build(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 2, report.AssetsCopied) // logo + custom.css; external JS untouched

	_, err = os.Stat(filepath.Join(cfg.SiteDir, "assets", "logo.png"))
	assert.NoError(t, err)
	_, err = os.Stat(filepath.Join(cfg.SiteDir, "css", "custom.css"))
	assert.NoError(t, err)
}

func TestBuild_MissingNavLeafFails(t *testing.T) {
	cfg := testConfig(t)
	cfg.Nav = append(cfg.Nav, nav.Entry{Label: "Ghost", Path: "missing.md"})
	builder := NewBuilder(cfg, Options{})

	_, err := builder.Build(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "build failed")
}

func TestBuild_IncrementalSkipsUnchanged(t *testing.T) {
	cfg := testConfig(t)
	store, err := state.Open(":memory:")
	require.NoError(t, err)
	defer func() { _ = store.Close() }()

	builder := NewBuilder(cfg, Options{Store: store})

	first, err := builder.Build(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 2, first.PagesRendered)

	second, err := builder.Build(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 0, second.PagesRendered)
	assert.Equal(t, 2, second.PagesSkipped)

	// Touching a page re-renders just that page.
	writeFile(t, filepath.Join(cfg.DocsDir, "index.md"), "# Welcome\n\nUpdated.\n")
	third, err := builder.Build(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, third.PagesRendered)
	assert.Equal(t, 1, third.PagesSkipped)

	events, err := store.EventsByBuildID(context.Background(), first.BuildID)
	require.NoError(t, err)
	assert.GreaterOrEqual(t, len(events), 2) // build.started + renders + build.finished
}

func TestBuild_ForceRerendersEverything(t *testing.T) {
	cfg := testConfig(t)
	store, err := state.Open(":memory:")
	require.NoError(t, err)
	defer func() { _ = store.Close() }()

	_, err = NewBuilder(cfg, Options{Store: store}).Build(context.Background())
	require.NoError(t, err)

	report, err := NewBuilder(cfg, Options{Store: store, Force: true}).Build(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 2, report.PagesRendered)
}

func TestPageURL(t *testing.T) {
	tests := []struct {
		doc  string
		want string
	}{
		{"index.md", "/"},
		{"api/guide.md", "/api/guide/"},
		{"api/index.md", "/api/"},
	}
	for _, test := range tests {
		assert.Equal(t, test.want, PageURL(test.doc), test.doc)
	}
}

func TestOutputPath(t *testing.T) {
	tests := []struct {
		doc  string
		want string
	}{
		{"index.md", "index.html"},
		{"api/guide.md", "api/guide/index.html"},
		{"api/index.md", "api/index.html"},
	}
	for _, test := range tests {
		assert.Equal(t, test.want, OutputPath(test.doc), test.doc)
	}
}

func TestIsExternalURL(t *testing.T) {
	assert.True(t, IsExternalURL("https://cdn.example.com/lib.js"))
	assert.True(t, IsExternalURL("//cdn.example.com/lib.js"))
	assert.False(t, IsExternalURL("css/custom.css"))
}
