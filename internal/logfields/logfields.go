package logfields

import "log/slog"

// Canonical log field name constants to avoid drift across packages.
const (
	KeyTarget     = "target"
	KeyStage      = "stage"
	KeyTheme      = "theme"
	KeyRenderer   = "renderer"
	KeyPath       = "path"
	KeyFile       = "file"
	KeyBuildID    = "build_id"
	KeyDurationMS = "duration_ms"
	KeyError      = "error"
)

// Simple helpers returning slog.Attr. Keeping each granular means callers can compose.
func Target(name string) slog.Attr    { return slog.String(KeyTarget, name) }
func Stage(name string) slog.Attr     { return slog.String(KeyStage, name) }
func Theme(name string) slog.Attr     { return slog.String(KeyTheme, name) }
func Renderer(name string) slog.Attr  { return slog.String(KeyRenderer, name) }
func Path(p string) slog.Attr         { return slog.String(KeyPath, p) }
func File(f string) slog.Attr         { return slog.String(KeyFile, f) }
func BuildID(id string) slog.Attr     { return slog.String(KeyBuildID, id) }
func DurationMS(ms float64) slog.Attr { return slog.Float64(KeyDurationMS, ms) }

func Error(err error) slog.Attr {
	if err == nil {
		return slog.String(KeyError, "")
	}
	return slog.String(KeyError, err.Error())
}
