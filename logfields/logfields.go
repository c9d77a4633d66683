package logfields

import "log/slog"

// Canonical log field names shared by every package.
const (
	KeyBuildID    = "build_id"
	KeyLocale     = "locale"
	KeyPath       = "path"
	KeyPlugin     = "plugin"
	KeyTheme      = "theme"
	KeyEvent      = "event"
	KeyCount      = "count"
	KeyDurationMS = "duration_ms"
	KeyError      = "error"
)

func BuildID(id string) slog.Attr     { return slog.String(KeyBuildID, id) }
func Locale(code string) slog.Attr    { return slog.String(KeyLocale, code) }
func Path(p string) slog.Attr         { return slog.String(KeyPath, p) }
func Plugin(name string) slog.Attr    { return slog.String(KeyPlugin, name) }
func Theme(name string) slog.Attr     { return slog.String(KeyTheme, name) }
func Event(name string) slog.Attr     { return slog.String(KeyEvent, name) }
func Count(n int) slog.Attr           { return slog.Int(KeyCount, n) }
func DurationMS(ms float64) slog.Attr { return slog.Float64(KeyDurationMS, ms) }
func Error(err error) slog.Attr {
	if err == nil {
		return slog.String(KeyError, "")
	}
	return slog.String(KeyError, err.Error())
}
