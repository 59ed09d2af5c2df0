package lint

import (
	"log/slog"
	"os"
	"path/filepath"

	"github.com/docsmith/docsmith/internal/config"
	"github.com/docsmith/docsmith/internal/logfields"
)

// DefaultRules returns the standard rule set in execution order.
func DefaultRules() []Rule {
	return []Rule{
		&NavPathsRule{},
		&DuplicateLabelsRule{},
		&AssetsRule{},
		&ExtensionsRule{},
		&PluginsRule{},
		&DocLinksRule{},
		&RoundTripRule{},
	}
}

// Run executes every rule against the configuration at configPath.
func Run(configPath string, rules []Rule) (*Result, error) {
	raw, err := os.ReadFile(configPath)
	if err != nil {
		return nil, err
	}
	cfg, err := config.Parse(raw)
	if err != nil {
		return nil, err
	}

	docsDir := cfg.DocsDir
	if !filepath.IsAbs(docsDir) {
		docsDir = filepath.Join(filepath.Dir(configPath), docsDir)
	}

	ctx := &Context{Cfg: cfg, Raw: raw, DocsDir: docsDir}
	return RunRules(ctx, rules), nil
}

// RunRules executes the rules against an already-loaded context.
func RunRules(ctx *Context, rules []Rule) *Result {
	result := &Result{
		RulesRun:    len(rules),
		DocsScanned: len(ctx.Cfg.Nav.Leaves()),
	}
	for _, rule := range rules {
		issues, err := rule.Check(ctx)
		if err != nil {
			slog.Warn("Lint rule failed", slog.String("rule", rule.Name()), logfields.Error(err))
			continue
		}
		result.Issues = append(result.Issues, issues...)
	}
	return result
}
