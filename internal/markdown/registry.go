// Package markdown assembles a goldmark rendering pipeline from the
// ordered markdown_extensions list of a site configuration.
package markdown

import (
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
)

// extender maps a configured extension name onto a goldmark extender.
// A nil extender means the name is recognized but its behavior is either
// part of core CommonMark or handled elsewhere in the pipeline.
var extenders = map[string]goldmark.Extender{
	"tables":             extension.Table,
	"footnotes":          extension.Footnote,
	"def_list":           extension.DefinitionList,
	"smarty":             extension.Typographer,
	"linkify":            extension.Linkify,
	"pymdownx.magiclink": extension.Linkify,
	"pymdownx.tasklist":  extension.TaskList,
	"pymdownx.tilde":     extension.Strikethrough,
}

// recognized names that need no extender: core CommonMark behavior,
// parser options (toc, attr_list), or front-matter handling (meta).
// Math extensions pass through for client-side rendering via
// extra_javascript, the same way the reference sites wire MathJax.
var recognized = map[string]bool{
	"toc":                   true,
	"attr_list":             true,
	"meta":                  true,
	"admonition":            true,
	"md_in_html":            true,
	"codehilite":            true,
	"pymdownx.highlight":    true,
	"pymdownx.inlinehilite": true,
	"pymdownx.superfences":  true,
	"pymdownx.details":      true,
	"pymdownx.arithmatex":   true,
	"pymdownx.mark":         true,
	"pymdownx.caret":        true,
	"pymdownx.snippets":     true,
}

// IsKnown reports whether an extension name is understood by the pipeline.
func IsKnown(name string) bool {
	if _, ok := extenders[name]; ok {
		return true
	}
	return recognized[name]
}

// KnownNames returns every extension name the pipeline understands.
func KnownNames() []string {
	names := make([]string, 0, len(extenders)+len(recognized))
	for name := range extenders {
		names = append(names, name)
	}
	for name := range recognized {
		names = append(names, name)
	}
	return names
}
