package runstatus

import "strings"

// Per-file tailing states shown next to each file name.
const (
	Loading   = "Loading"
	Following = "Following"
	Truncated = "Truncated"
	Removed   = "Removed"
	Retrying  = "Retrying"
	Failed    = "Failed"
	Stopped   = "Stopped"
)

func Key(status string) string {
	return strings.ToLower(strings.TrimSpace(status))
}

// Healthy reports whether the worker for a file is delivering lines.
func Healthy(status string) bool {
	switch Key(status) {
	case Key(Loading), Key(Following), Key(Truncated):
		return true
	default:
		return false
	}
}

// Glyph is a one-cell marker for status, empty for the normal follow state.
func Glyph(status string) string {
	switch Key(status) {
	case Key(Loading):
		return "…"
	case Key(Truncated):
		return "↺"
	case Key(Removed):
		return "✗"
	case Key(Retrying):
		return "⟳"
	case Key(Failed):
		return "!"
	case Key(Stopped):
		return "■"
	default:
		return ""
	}
}
