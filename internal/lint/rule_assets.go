package lint

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/docsmith/docsmith/internal/site"
)

// AssetsRule validates that every locally referenced asset exists:
// theme logo and favicon, plus local extra_css/extra_javascript entries.
type AssetsRule struct{}

// Name returns the rule identifier.
func (r *AssetsRule) Name() string { return "asset-paths" }

// Check verifies local asset references against docs_dir.
func (r *AssetsRule) Check(ctx *Context) ([]Issue, error) {
	var issues []Issue

	check := func(kind, ref string) {
		if ref == "" || site.IsExternalURL(ref) {
			return
		}
		full := filepath.Join(ctx.DocsDir, filepath.FromSlash(ref))
		if st, err := os.Stat(full); err != nil || st.IsDir() {
			issues = append(issues, Issue{
				Severity: SeverityError,
				Rule:     r.Name(),
				Subject:  ref,
				Message:  fmt.Sprintf("%s asset not found", kind),
				Explanation: fmt.Sprintf("The %s reference %q does not resolve to a file under %s.",
					kind, ref, ctx.DocsDir),
				Fix: "Add the file or correct the reference",
			})
		}
	}

	check("logo", ctx.Cfg.Theme.Logo)
	check("favicon", ctx.Cfg.Theme.Favicon)
	for _, ref := range ctx.Cfg.ExtraCSS {
		check("extra_css", ref)
	}
	for _, ref := range ctx.Cfg.ExtraJavascript {
		check("extra_javascript", ref)
	}
	return issues, nil
}
