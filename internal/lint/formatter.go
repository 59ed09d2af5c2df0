package lint

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
)

// Formatter formats linting results for output.
type Formatter interface {
	Format(w io.Writer, result *Result, configPath string) error
}

// TextFormatter formats results as human-readable text.
type TextFormatter struct{}

// NewTextFormatter creates a text formatter.
func NewTextFormatter() *TextFormatter {
	return &TextFormatter{}
}

// Format outputs results in human-readable text format.
func (f *TextFormatter) Format(w io.Writer, result *Result, configPath string) error {
	if _, err := fmt.Fprintf(w, "Checking configuration: %s\n", configPath); err != nil {
		return err
	}
	if _, err := fmt.Fprintln(w, strings.Repeat("━", 60)); err != nil {
		return err
	}

	for _, issue := range result.Issues {
		if _, err := fmt.Fprintf(w, "\n[%s] %s: %s\n", issue.Severity, issue.Rule, issue.Message); err != nil {
			return err
		}
		if issue.Subject != "" {
			if _, err := fmt.Fprintf(w, "  subject: %s\n", issue.Subject); err != nil {
				return err
			}
		}
		if issue.Explanation != "" {
			if _, err := fmt.Fprintf(w, "  %s\n", issue.Explanation); err != nil {
				return err
			}
		}
		if issue.Fix != "" {
			if _, err := fmt.Fprintf(w, "  fix: %s\n", issue.Fix); err != nil {
				return err
			}
		}
	}

	if _, err := fmt.Fprintf(w, "\n%s\nResults:\n", strings.Repeat("━", 60)); err != nil {
		return err
	}
	if _, err := fmt.Fprintf(w, "  %d rules run, %d documents scanned\n", result.RulesRun, result.DocsScanned); err != nil {
		return err
	}

	errorCount := result.ErrorCount()
	warningCount := result.WarningCount()
	if errorCount > 0 {
		if _, err := fmt.Fprintf(w, "  %d error%s (blocks build)\n", errorCount, pluralize(errorCount)); err != nil {
			return err
		}
	}
	if warningCount > 0 {
		if _, err := fmt.Fprintf(w, "  %d warning%s (should fix)\n", warningCount, pluralize(warningCount)); err != nil {
			return err
		}
	}
	if errorCount == 0 && warningCount == 0 {
		if _, err := fmt.Fprintln(w, "  no issues found"); err != nil {
			return err
		}
	}
	return nil
}

func pluralize(n int) string {
	if n == 1 {
		return ""
	}
	return "s"
}

// JSONFormatter formats results as JSON for tooling.
type JSONFormatter struct{}

// NewJSONFormatter creates a JSON formatter.
func NewJSONFormatter() *JSONFormatter {
	return &JSONFormatter{}
}

type jsonIssue struct {
	Severity string `json:"severity"`
	Rule     string `json:"rule"`
	Subject  string `json:"subject,omitempty"`
	Message  string `json:"message"`
	Fix      string `json:"fix,omitempty"`
}

type jsonReport struct {
	ConfigPath  string      `json:"config_path"`
	Issues      []jsonIssue `json:"issues"`
	Errors      int         `json:"errors"`
	Warnings    int         `json:"warnings"`
	RulesRun    int         `json:"rules_run"`
	DocsScanned int         `json:"docs_scanned"`
}

// Format outputs results as indented JSON.
func (f *JSONFormatter) Format(w io.Writer, result *Result, configPath string) error {
	report := jsonReport{
		ConfigPath:  configPath,
		Issues:      make([]jsonIssue, 0, len(result.Issues)),
		Errors:      result.ErrorCount(),
		Warnings:    result.WarningCount(),
		RulesRun:    result.RulesRun,
		DocsScanned: result.DocsScanned,
	}
	for _, issue := range result.Issues {
		report.Issues = append(report.Issues, jsonIssue{
			Severity: issue.Severity.String(),
			Rule:     issue.Rule,
			Subject:  issue.Subject,
			Message:  issue.Message,
			Fix:      issue.Fix,
		})
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(report)
}
