package lint

import (
	"fmt"
	"net/url"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/docsmith/docsmith/internal/markdown"
)

// DocLinksRule checks relative markdown links inside nav documents:
// a link to another .md file must resolve under docs_dir.
type DocLinksRule struct{}

// Name returns the rule identifier.
func (r *DocLinksRule) Name() string { return "doc-links" }

// Check extracts links from every nav document and verifies relative targets.
func (r *DocLinksRule) Check(ctx *Context) ([]Issue, error) {
	var issues []Issue
	for _, leaf := range ctx.Cfg.Nav.Leaves() {
		full := filepath.Join(ctx.DocsDir, filepath.FromSlash(leaf.Path))
		source, err := os.ReadFile(full)
		if err != nil {
			// nav-paths reports missing documents; nothing to do here.
			continue
		}

		_, body, err := markdown.SplitFrontMatter(source)
		if err != nil {
			continue
		}

		for _, link := range markdown.ExtractLinks(body) {
			target, ok := relativeDocTarget(link.Destination)
			if !ok {
				continue
			}
			resolved := path.Join(path.Dir(leaf.Path), target)
			if _, err := os.Stat(filepath.Join(ctx.DocsDir, filepath.FromSlash(resolved))); err != nil {
				issues = append(issues, Issue{
					Severity: SeverityWarning,
					Rule:     r.Name(),
					Subject:  leaf.Path,
					Message:  fmt.Sprintf("broken relative link: %s", link.Destination),
					Explanation: fmt.Sprintf("Document %s links to %s, which does not exist under %s.",
						leaf.Path, resolved, ctx.DocsDir),
					Fix: "Fix the link target or add the missing document",
				})
			}
		}
	}
	return issues, nil
}

// relativeDocTarget returns the path component of a relative document or
// asset link. External links, anchors, and mailto references are skipped.
func relativeDocTarget(dest string) (string, bool) {
	if dest == "" || strings.HasPrefix(dest, "#") {
		return "", false
	}
	u, err := url.Parse(dest)
	if err != nil || u.Scheme != "" || u.Host != "" {
		return "", false
	}
	p := u.Path
	if p == "" || strings.HasPrefix(p, "/") {
		return "", false
	}
	return p, true
}
