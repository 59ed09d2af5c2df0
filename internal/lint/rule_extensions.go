package lint

import (
	"fmt"

	"github.com/docsmith/docsmith/internal/markdown"
)

// ExtensionsRule flags markdown extension names the render pipeline does
// not understand. Unknown names are warnings: the build proceeds, but the
// markup the extension would have handled renders as plain text.
type ExtensionsRule struct{}

// Name returns the rule identifier.
func (r *ExtensionsRule) Name() string { return "markdown-extensions" }

// Check validates extension names against the pipeline registry.
func (r *ExtensionsRule) Check(ctx *Context) ([]Issue, error) {
	var issues []Issue
	for _, ext := range ctx.Cfg.MarkdownExtensions {
		if markdown.IsKnown(ext.Name) {
			continue
		}
		issues = append(issues, Issue{
			Severity:    SeverityWarning,
			Rule:        r.Name(),
			Subject:     ext.Name,
			Message:     "unknown markdown extension",
			Explanation: fmt.Sprintf("The extension %q is not understood by the render pipeline; its markup will pass through unprocessed.", ext.Name),
			Fix:         "Remove the entry or use a supported extension",
		})
	}
	return issues, nil
}

// knownPlugins are the plugin names the toolchain recognizes. Plugins are
// recorded, not executed; recognition only guards against typos.
var knownPlugins = map[string]bool{
	"search":         true,
	"numkdoc":        true,
	"mkdocstrings":   true,
	"mkdocs-jupyter": true,
	"autorefs":       true,
	"macros":         true,
	"redirects":      true,
	"minify":         true,
}

// PluginsRule flags plugin names outside the recognized set.
type PluginsRule struct{}

// Name returns the rule identifier.
func (r *PluginsRule) Name() string { return "plugins" }

// Check validates plugin names against the recognized set.
func (r *PluginsRule) Check(ctx *Context) ([]Issue, error) {
	var issues []Issue
	for _, p := range ctx.Cfg.Plugins {
		if knownPlugins[p] {
			continue
		}
		issues = append(issues, Issue{
			Severity:    SeverityWarning,
			Rule:        r.Name(),
			Subject:     p,
			Message:     "unrecognized plugin name",
			Explanation: fmt.Sprintf("The plugin %q is not in the recognized set; check for a typo.", p),
			Fix:         "Correct the plugin name or ignore if intentional",
		})
	}
	return issues, nil
}
