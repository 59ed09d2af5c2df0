package lint

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/docsmith/docsmith/internal/config"
	"github.com/docsmith/docsmith/internal/nav"
)

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
}

func testContext(t *testing.T) *Context {
	t.Helper()
	docsDir := t.TempDir()
	writeFile(t, filepath.Join(docsDir, "index.md"), "# Home\n\nSee [guide](api/guide.md).\n")
	writeFile(t, filepath.Join(docsDir, "api", "guide.md"), "# Guide\n")
	writeFile(t, filepath.Join(docsDir, "assets", "logo.png"), "png")
	writeFile(t, filepath.Join(docsDir, "css", "custom.css"), "body{}")

	cfg := &config.Config{
		SiteName: "Test",
		DocsDir:  docsDir,
		Nav: nav.Tree{
			{Label: "Home", Path: "index.md"},
			{Label: "Guide", Path: "api/guide.md"},
		},
		Theme: config.ThemeConfig{
			Name: "material",
			Logo: "assets/logo.png",
		},
		Plugins: []string{"search"},
		MarkdownExtensions: config.ExtensionList{
			{Name: "footnotes"},
		},
		ExtraCSS:        []string{"css/custom.css"},
		ExtraJavascript: []string{"https://cdn.example.com/lib.js"},
	}
	return &Context{Cfg: cfg, DocsDir: docsDir}
}

func TestRunRules_CleanConfig(t *testing.T) {
	ctx := testContext(t)
	result := RunRules(ctx, DefaultRules())

	assert.False(t, result.HasErrors())
	assert.Equal(t, 0, result.WarningCount())
	assert.Equal(t, len(DefaultRules()), result.RulesRun)
	assert.Equal(t, 2, result.DocsScanned)
}

func TestNavPathsRule_MissingDocument(t *testing.T) {
	ctx := testContext(t)
	ctx.Cfg.Nav = append(ctx.Cfg.Nav, nav.Entry{Label: "Ghost", Path: "missing.md"})

	issues, err := (&NavPathsRule{}).Check(ctx)
	require.NoError(t, err)
	require.Len(t, issues, 1)
	assert.Equal(t, SeverityError, issues[0].Severity)
	assert.Equal(t, "missing.md", issues[0].Subject)
}

func TestDuplicateLabelsRule(t *testing.T) {
	ctx := testContext(t)
	ctx.Cfg.Nav = append(ctx.Cfg.Nav, nav.Entry{Label: "Home", Path: "index.md"})

	issues, err := (&DuplicateLabelsRule{}).Check(ctx)
	require.NoError(t, err)
	require.Len(t, issues, 1)
	assert.Equal(t, "Home", issues[0].Subject)
	assert.Equal(t, SeverityError, issues[0].Severity)
}

func TestAssetsRule_MissingAsset(t *testing.T) {
	ctx := testContext(t)
	ctx.Cfg.Theme.Favicon = "assets/favicon.ico"
	ctx.Cfg.ExtraCSS = append(ctx.Cfg.ExtraCSS, "css/missing.css")

	issues, err := (&AssetsRule{}).Check(ctx)
	require.NoError(t, err)
	require.Len(t, issues, 2)

	subjects := []string{issues[0].Subject, issues[1].Subject}
	assert.Contains(t, subjects, "assets/favicon.ico")
	assert.Contains(t, subjects, "css/missing.css")
}

func TestAssetsRule_ExternalURLsIgnored(t *testing.T) {
	ctx := testContext(t)
	ctx.Cfg.ExtraJavascript = []string{"https://polyfill.io/v3/polyfill.min.js", "//cdn.example.com/x.js"}

	issues, err := (&AssetsRule{}).Check(ctx)
	require.NoError(t, err)
	assert.Empty(t, issues)
}

func TestExtensionsRule_UnknownExtension(t *testing.T) {
	ctx := testContext(t)
	ctx.Cfg.MarkdownExtensions = append(ctx.Cfg.MarkdownExtensions, config.Extension{Name: "pymdownx.umlauts"})

	issues, err := (&ExtensionsRule{}).Check(ctx)
	require.NoError(t, err)
	require.Len(t, issues, 1)
	assert.Equal(t, SeverityWarning, issues[0].Severity)
	assert.Equal(t, "pymdownx.umlauts", issues[0].Subject)
}

func TestPluginsRule_UnknownPlugin(t *testing.T) {
	ctx := testContext(t)
	ctx.Cfg.Plugins = append(ctx.Cfg.Plugins, "serach")

	issues, err := (&PluginsRule{}).Check(ctx)
	require.NoError(t, err)
	require.Len(t, issues, 1)
	assert.Equal(t, "serach", issues[0].Subject)
}

func TestDocLinksRule_BrokenRelativeLink(t *testing.T) {
	ctx := testContext(t)
	writeFile(t, filepath.Join(ctx.DocsDir, "index.md"),
		"# Home\n\nSee [guide](api/guide.md) and [gone](api/gone.md).\n\nAlso [external](https://example.com) and [anchor](#here).\n")

	issues, err := (&DocLinksRule{}).Check(ctx)
	require.NoError(t, err)
	require.Len(t, issues, 1)
	assert.Contains(t, issues[0].Message, "api/gone.md")
}

func TestRoundTripRule(t *testing.T) {
	raw := []byte(`site_name: Test
nav:
  - Home: index.md
  - Docs:
      - Guide: api/guide.md
markdown_extensions:
  - toc:
      permalink: true
  - footnotes
`)
	ctx := &Context{Cfg: &config.Config{SiteName: "Test"}, Raw: raw, DocsDir: t.TempDir()}

	issues, err := (&RoundTripRule{}).Check(ctx)
	require.NoError(t, err)
	assert.Empty(t, issues)
}

func TestRun_EndToEnd(t *testing.T) {
	dir := t.TempDir()
	docsDir := filepath.Join(dir, "docs")
	writeFile(t, filepath.Join(docsDir, "index.md"), "# Home\n")
	writeFile(t, filepath.Join(dir, "mkdocs.yml"), `site_name: Test
nav:
  - Home: index.md
  - Ghost: missing.md
`)

	result, err := Run(filepath.Join(dir, "mkdocs.yml"), DefaultRules())
	require.NoError(t, err)
	assert.True(t, result.HasErrors())
	assert.Equal(t, 1, result.ErrorCount())
}

func TestTextFormatter(t *testing.T) {
	result := &Result{
		Issues: []Issue{
			{Severity: SeverityError, Rule: "nav-paths", Subject: "missing.md", Message: "nav entry does not resolve to a document", Fix: "Create the document"},
			{Severity: SeverityWarning, Rule: "plugins", Subject: "serach", Message: "unrecognized plugin name"},
		},
		RulesRun:    7,
		DocsScanned: 3,
	}

	var buf bytes.Buffer
	require.NoError(t, NewTextFormatter().Format(&buf, result, "mkdocs.yml"))

	out := buf.String()
	assert.Contains(t, out, "[ERROR] nav-paths")
	assert.Contains(t, out, "[WARNING] plugins")
	assert.Contains(t, out, "1 error (blocks build)")
	assert.Contains(t, out, "1 warning (should fix)")
}

func TestJSONFormatter(t *testing.T) {
	result := &Result{
		Issues:   []Issue{{Severity: SeverityError, Rule: "nav-paths", Message: "missing"}},
		RulesRun: 7,
	}

	var buf bytes.Buffer
	require.NoError(t, NewJSONFormatter().Format(&buf, result, "mkdocs.yml"))
	assert.Contains(t, buf.String(), `"rule": "nav-paths"`)
	assert.Contains(t, buf.String(), `"errors": 1`)
}
