package logfields

import "log/slog"

// Canonical log field name constants to avoid drift across packages.
const (
	KeyBuildID    = "build_id"
	KeyStage      = "stage"
	KeyDurationMS = "duration_ms"
	KeyPage       = "page"
	KeyPath       = "path"
	KeyLabel      = "label"
	KeyExtension  = "extension"
	KeyPlugin     = "plugin"
	KeyRepo       = "repository"
	KeyError      = "error"
)

// Simple helpers returning slog.Attr. Keeping each granular means callers can compose.
func BuildID(id string) slog.Attr      { return slog.String(KeyBuildID, id) }
func Stage(name string) slog.Attr      { return slog.String(KeyStage, name) }
func DurationMS(ms float64) slog.Attr  { return slog.Float64(KeyDurationMS, ms) }
func Page(p string) slog.Attr          { return slog.String(KeyPage, p) }
func Path(p string) slog.Attr          { return slog.String(KeyPath, p) }
func Label(l string) slog.Attr         { return slog.String(KeyLabel, l) }
func Extension(name string) slog.Attr  { return slog.String(KeyExtension, name) }
func Plugin(name string) slog.Attr     { return slog.String(KeyPlugin, name) }
func Repository(r string) slog.Attr    { return slog.String(KeyRepo, r) }
func Error(err error) slog.Attr {
	if err == nil {
		return slog.String(KeyError, "")
	}
	return slog.String(KeyError, err.Error())
}
