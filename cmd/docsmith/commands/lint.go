package commands

import (
	"fmt"
	"os"

	"github.com/docsmith/docsmith/internal/lint"
)

// LintCmd implements the 'lint' command.
type LintCmd struct {
	Format string `short:"f" default:"text" help:"Output format (text or json)" enum:"text,json"`
	Quiet  bool   `short:"q" help:"Quiet mode: only show errors, suppress warnings"`
}

func (l *LintCmd) Run(_ *Global, root *CLI) error {
	result, err := lint.Run(root.Config, lint.DefaultRules())
	if err != nil {
		return err
	}

	if l.Quiet {
		errorsOnly := &lint.Result{}
		for _, issue := range result.Issues {
			if issue.Severity == lint.SeverityError {
				errorsOnly.Issues = append(errorsOnly.Issues, issue)
			}
		}
		result = errorsOnly
	}

	var formatter lint.Formatter
	switch l.Format {
	case "json":
		formatter = lint.NewJSONFormatter()
	default:
		formatter = lint.NewTextFormatter()
	}
	if err := formatter.Format(os.Stdout, result, root.Config); err != nil {
		return err
	}

	if result.HasErrors() {
		return fmt.Errorf("%d error(s) found", result.ErrorCount())
	}
	return nil
}
