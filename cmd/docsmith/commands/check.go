package commands

import (
	"fmt"
	"os"

	"github.com/docsmith/docsmith/internal/config"
	"github.com/docsmith/docsmith/internal/lint"
)

// CheckCmd implements the 'check' command: structural validation plus the
// error-severity lint rules, suitable for CI gates.
type CheckCmd struct{}

// checkRules are the rules whose findings fail a check run.
func checkRules() []lint.Rule {
	return []lint.Rule{
		&lint.NavPathsRule{},
		&lint.DuplicateLabelsRule{},
		&lint.AssetsRule{},
		&lint.RoundTripRule{},
	}
}

func (c *CheckCmd) Run(_ *Global, root *CLI) error {
	cfg, err := config.Load(root.Config)
	if err != nil {
		return err
	}
	if err := config.Validate(cfg); err != nil {
		return err
	}

	result, err := lint.Run(root.Config, checkRules())
	if err != nil {
		return err
	}
	if result.HasErrors() {
		formatter := lint.NewTextFormatter()
		_ = formatter.Format(os.Stderr, result, root.Config)
		return fmt.Errorf("%d error(s) found in %s", result.ErrorCount(), root.Config)
	}

	fmt.Printf("%s: OK\n", root.Config)
	return nil
}
