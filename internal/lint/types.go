// Package lint checks the structural integrity of a site configuration:
// nav paths that resolve, assets that exist, no duplicate labels, known
// extension and plugin names, and a stable parse/serialize round trip.
package lint

import (
	"github.com/docsmith/docsmith/internal/config"
)

// Severity indicates the importance level of a linting issue.
type Severity int

const (
	// SeverityInfo indicates informational messages.
	SeverityInfo Severity = iota
	// SeverityWarning indicates issues that should be fixed but don't block builds.
	SeverityWarning
	// SeverityError indicates issues that will prevent site builds from succeeding.
	SeverityError
)

// String returns the human-readable severity name.
func (s Severity) String() string {
	switch s {
	case SeverityInfo:
		return "INFO"
	case SeverityWarning:
		return "WARNING"
	case SeverityError:
		return "ERROR"
	default:
		return "UNKNOWN"
	}
}

// Issue represents a single linting problem found in the configuration.
type Issue struct {
	Severity    Severity // Issue severity level
	Rule        string   // Rule identifier (e.g., "nav-paths")
	Subject     string   // The config element at fault (path, label, name)
	Message     string   // Brief description of the issue
	Explanation string   // Detailed explanation with context
	Fix         string   // Suggested fix to resolve
}

// Result contains all issues found during linting.
type Result struct {
	Issues      []Issue
	RulesRun    int
	DocsScanned int
}

// HasErrors returns true if any error-level issues exist.
func (r *Result) HasErrors() bool {
	for _, issue := range r.Issues {
		if issue.Severity == SeverityError {
			return true
		}
	}
	return false
}

// ErrorCount returns the number of error-level issues.
func (r *Result) ErrorCount() int {
	count := 0
	for _, issue := range r.Issues {
		if issue.Severity == SeverityError {
			count++
		}
	}
	return count
}

// WarningCount returns the number of warning-level issues.
func (r *Result) WarningCount() int {
	count := 0
	for _, issue := range r.Issues {
		if issue.Severity == SeverityWarning {
			count++
		}
	}
	return count
}

// Context carries everything a rule needs to inspect the configuration.
type Context struct {
	Cfg *config.Config
	// Raw is the original configuration file content, for round-trip checks.
	Raw []byte
	// DocsDir is the resolved documentation directory.
	DocsDir string
}

// Rule defines one configuration check.
type Rule interface {
	// Name returns the unique identifier for this rule.
	Name() string

	// Check inspects the configuration and returns any issues found.
	Check(ctx *Context) ([]Issue, error)
}
