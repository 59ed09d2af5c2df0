package errors

import "fmt"

// Convenience constructors for common error patterns

// Config errors

func ConfigNotFound(path string) *SiteError {
	return New(CategoryConfig, SeverityFatal, "configuration file not found").
		WithContext("path", path)
}

func ConfigParseFailed(path string, cause error) *SiteError {
	return Wrap(cause, CategoryConfig, SeverityFatal, "configuration parse failed").
		WithContext("path", path)
}

func ValidationFailed(field, reason string) *SiteError {
	return New(CategoryValidation, SeverityFatal, fmt.Sprintf("%s %s", field, reason)).
		WithContext("field", field)
}

// Navigation errors

func NavPathUnresolved(label, path string) *SiteError {
	return New(CategoryNav, SeverityError, "navigation path does not resolve").
		WithContext("label", label).
		WithContext("path", path)
}

func NavDuplicateLabel(label string) *SiteError {
	return New(CategoryNav, SeverityError, "duplicate navigation label").
		WithContext("label", label)
}

// Build pipeline errors

func BuildFailed(stage string, cause error) *SiteError {
	return Wrap(cause, CategoryBuild, SeverityFatal, "build failed").
		WithContext("stage", stage)
}

func RenderFailed(page string, cause error) *SiteError {
	return Wrap(cause, CategoryRender, SeverityError, "page render failed").
		WithContext("page", page)
}

func AssetMissing(kind, path string) *SiteError {
	return New(CategoryFileSystem, SeverityError, "referenced asset not found").
		WithContext("kind", kind).
		WithContext("path", path)
}

// Git errors

func GitSyncError(repo string, cause error) *SiteError {
	return WrapRetryable(cause, CategoryGit, SeverityWarning, "git sync failed").
		WithContext("repository", repo)
}

// Daemon errors

func DaemonError(message string) *SiteError {
	return New(CategoryDaemon, SeverityError, message)
}
