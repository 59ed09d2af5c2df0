package errors

import (
	stdErrors "errors"
	"fmt"
	"testing"
)

func TestSiteError_Error(t *testing.T) {
	tests := []struct {
		name     string
		err      *SiteError
		expected string
	}{
		{
			name:     "error without cause",
			err:      New(CategoryConfig, SeverityFatal, "configuration invalid"),
			expected: "config (fatal): configuration invalid",
		},
		{
			name:     "error with cause",
			err:      Wrap(fmt.Errorf("file not found"), CategoryConfig, SeverityFatal, "failed to load config"),
			expected: "config (fatal): failed to load config: file not found",
		},
		{
			name:     "nav error with cause",
			err:      Wrap(fmt.Errorf("no such file"), CategoryNav, SeverityError, "nav leaf missing"),
			expected: "nav (error): nav leaf missing: no such file",
		},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			result := test.err.Error()
			if result != test.expected {
				t.Errorf("Error() = %q, want %q", result, test.expected)
			}
		})
	}
}

func TestSiteError_WithContext(t *testing.T) {
	err := New(CategoryGit, SeverityWarning, "sync failed").
		WithContext("repository", "xplique").
		WithContext("branch", "master")

	if err.Context == nil {
		t.Fatal("Context should not be nil")
	}

	if err.Context["repository"] != "xplique" {
		t.Errorf("Context[repository] = %v, want xplique", err.Context["repository"])
	}

	if err.Context["branch"] != "master" {
		t.Errorf("Context[branch] = %v, want master", err.Context["branch"])
	}
}

func TestSiteError_Unwrap(t *testing.T) {
	cause := fmt.Errorf("underlying failure")
	err := Wrap(cause, CategoryBuild, SeverityFatal, "build failed")

	if !stdErrors.Is(err, cause) {
		t.Error("errors.Is should find the wrapped cause")
	}
}

func TestIsCategory(t *testing.T) {
	configErr := New(CategoryConfig, SeverityFatal, "config error")
	gitErr := New(CategoryGit, SeverityWarning, "git error")
	standardErr := fmt.Errorf("standard error")

	tests := []struct {
		name     string
		err      error
		category ErrorCategory
		want     bool
	}{
		{"config error matches config", configErr, CategoryConfig, true},
		{"config error does not match git", configErr, CategoryGit, false},
		{"git error matches git", gitErr, CategoryGit, true},
		{"standard error matches nothing", standardErr, CategoryConfig, false},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			if got := IsCategory(test.err, test.category); got != test.want {
				t.Errorf("IsCategory() = %v, want %v", got, test.want)
			}
		})
	}
}

func TestIsRetryable(t *testing.T) {
	retryable := WrapRetryable(fmt.Errorf("timeout"), CategoryNetwork, SeverityWarning, "fetch failed")
	if !IsRetryable(retryable) {
		t.Error("WrapRetryable should produce a retryable error")
	}

	permanent := New(CategoryValidation, SeverityFatal, "bad palette scheme")
	if IsRetryable(permanent) {
		t.Error("New should produce a non-retryable error")
	}

	if IsRetryable(fmt.Errorf("plain")) {
		t.Error("plain errors are never retryable")
	}
}

func TestGetCategory(t *testing.T) {
	if got := GetCategory(New(CategoryRender, SeverityError, "render failed")); got != CategoryRender {
		t.Errorf("GetCategory() = %v, want %v", got, CategoryRender)
	}
	if got := GetCategory(fmt.Errorf("plain")); got != CategoryInternal {
		t.Errorf("GetCategory(plain) = %v, want %v", got, CategoryInternal)
	}
}
