package lint

import (
	"fmt"
	"os"
	"path/filepath"
)

// NavPathsRule validates that every nav leaf resolves to an existing document.
type NavPathsRule struct{}

// Name returns the rule identifier.
func (r *NavPathsRule) Name() string { return "nav-paths" }

// Check verifies each leaf path under nav against docs_dir.
func (r *NavPathsRule) Check(ctx *Context) ([]Issue, error) {
	var issues []Issue
	for _, leaf := range ctx.Cfg.Nav.Leaves() {
		full := filepath.Join(ctx.DocsDir, filepath.FromSlash(leaf.Path))
		if st, err := os.Stat(full); err != nil || st.IsDir() {
			issues = append(issues, Issue{
				Severity: SeverityError,
				Rule:     r.Name(),
				Subject:  leaf.Path,
				Message:  "nav entry does not resolve to a document",
				Explanation: fmt.Sprintf("Nav entry %q points at %s, which does not exist under %s.",
					leaf.Label, leaf.Path, ctx.DocsDir),
				Fix: "Create the document or correct the path in nav",
			})
		}
	}
	return issues, nil
}

// DuplicateLabelsRule flags top-level nav labels that appear more than once.
type DuplicateLabelsRule struct{}

// Name returns the rule identifier.
func (r *DuplicateLabelsRule) Name() string { return "nav-duplicate-labels" }

// Check reports repeated top-level labels.
func (r *DuplicateLabelsRule) Check(ctx *Context) ([]Issue, error) {
	var issues []Issue
	for _, label := range ctx.Cfg.Nav.DuplicateTopLabels() {
		issues = append(issues, Issue{
			Severity:    SeverityError,
			Rule:        r.Name(),
			Subject:     label,
			Message:     "duplicate top-level nav label",
			Explanation: fmt.Sprintf("The label %q appears more than once at the top level of nav; readers cannot tell the menu entries apart.", label),
			Fix:         "Rename one of the entries",
		})
	}
	return issues, nil
}
