package logfields

import "log/slog"

// Canonical log field name constants to avoid drift across packages.
const (
	KeyBuildID    = "build_id"
	KeyStage      = "stage"
	KeyDurationMS = "duration_ms"
	KeyDocID      = "doc_id"
	KeySidebar    = "sidebar"
	KeyPage       = "page"
	KeyLink       = "link"
	KeyPath       = "path"
	KeyFile       = "file"
	KeyURL        = "url"
	KeyCount      = "count"
	KeyError      = "error"
)

// Simple helpers returning slog.Attr. Keeping each granular means callers can compose.
func BuildID(id string) slog.Attr     { return slog.String(KeyBuildID, id) }
func Stage(name string) slog.Attr     { return slog.String(KeyStage, name) }
func DurationMS(ms float64) slog.Attr { return slog.Float64(KeyDurationMS, ms) }
func DocID(id string) slog.Attr       { return slog.String(KeyDocID, id) }
func Sidebar(id string) slog.Attr     { return slog.String(KeySidebar, id) }
func Page(route string) slog.Attr     { return slog.String(KeyPage, route) }
func Link(href string) slog.Attr      { return slog.String(KeyLink, href) }
func Path(p string) slog.Attr         { return slog.String(KeyPath, p) }
func File(f string) slog.Attr         { return slog.String(KeyFile, f) }
func URL(u string) slog.Attr          { return slog.String(KeyURL, u) }
func Count(n int) slog.Attr           { return slog.Int(KeyCount, n) }
func Error(err error) slog.Attr {
	if err == nil {
		return slog.String(KeyError, "")
	}
	return slog.String(KeyError, err.Error())
}
