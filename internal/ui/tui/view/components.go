package view

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"

	"logscope/internal/filter"
	"logscope/internal/parser"
	"logscope/internal/runstatus"
	"logscope/internal/ui/tui/health"
	"logscope/internal/ui/tui/render"
	"logscope/internal/ui/tui/theme"
)

const (
	entryTimeLayout  = "Jan 02 15:04:05.000"
	detailTimeLayout = "Mon Jan 02 2006 15:04:05.000000"
	levelColumnWidth = 5
)

var modes = []filter.Mode{filter.Exact, filter.Fuzzy, filter.Regex}

func RenderModeSegments(active filter.Mode) string {
	parts := make([]string, 0, len(modes))
	for _, mode := range modes {
		if mode == active {
			parts = append(parts, theme.SegmentOnStyle.Render(mode.String()))
			continue
		}
		parts = append(parts, theme.SegmentOffStyle.Render(mode.String()))
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, parts...)
}

func HealthDotStyle(kind health.Kind) (string, lipgloss.Style) {
	dot := "●"
	switch kind {
	case health.Active:
		return dot, lipgloss.NewStyle().Foreground(lipgloss.Color("10"))
	case health.Warn:
		return dot, lipgloss.NewStyle().Foreground(lipgloss.Color("226"))
	case health.Stale:
		return dot, lipgloss.NewStyle().Foreground(lipgloss.Color("214"))
	default:
		return dot, lipgloss.NewStyle().Foreground(lipgloss.Color("9"))
	}
}

func selectedStyle(focused bool) lipgloss.Style {
	if focused {
		return theme.SelectedFocused
	}
	return theme.SelectedUnfocused
}

func renderFileLine(name string, status string, row health.Row, known bool, width int, selected bool, focused bool) string {
	glyph := runstatus.Glyph(status)
	suffix := ""
	if glyph != "" {
		suffix = " " + glyph
	}
	nameWidth := max(width-2-ansi.StringWidth(suffix), 1)
	label := render.TruncateDisplayWidth(name, nameWidth) + suffix

	dot, dotStyle := HealthDotStyle(row.Kind)
	if !known {
		dot, dotStyle = "○", theme.MutedStyle
	}
	if selected {
		return selectedStyle(focused).Render(render.PadRight(dot+" "+label, width))
	}
	if status != "" && !runstatus.Healthy(status) {
		label = theme.WarnStyle.Render(label)
	}
	return dotStyle.Render(dot) + " " + label
}

func renderEntryLine(entry parser.Entry, highlights []int, width int, selected bool, focused bool) string {
	stamp := entry.Timestamp.Format(entryTimeLayout)
	levelName := fmt.Sprintf("%-*s", levelColumnWidth, entry.Level.Name())
	prefixWidth := ansi.StringWidth(stamp) + 1 + ansi.StringWidth(levelName) + 1
	headline, limit := entryHeadline(entry, max(width-prefixWidth, 0))
	highlights = clipIndices(highlights, limit)

	if selected {
		base := selectedStyle(focused)
		line := lipgloss.StyleRunes(headline, highlights, base.Bold(true).Underline(true), base)
		pad := max(width-prefixWidth-ansi.StringWidth(headline), 0)
		return base.Render(stamp+" "+levelName+" ") + line + base.Render(strings.Repeat(" ", pad))
	}
	line := headline
	if len(highlights) > 0 {
		line = lipgloss.StyleRunes(headline, highlights, theme.MatchStyle, theme.PlainStyle)
	}
	return theme.MutedStyle.Render(stamp) + " " + theme.LevelStyle(entry.Level.Name()).Render(levelName) + " " + line
}

// entryHeadline returns the first message line with its continuation count
// cut to width, and how many leading runes of it are message text. Match
// indices at or past that limit point into later lines, the count suffix or
// the ellipsis.
func entryHeadline(entry parser.Entry, width int) (string, int) {
	first := entry.Headline()
	limit := len([]rune(first))
	text := first
	if more := entry.ContinuationCount(); more > 0 {
		text += fmt.Sprintf(" (+%d)", more)
	}
	clipped := ansi.Truncate(text, width, "…")
	if clipped != text {
		limit = min(limit, max(len([]rune(clipped))-1, 0))
	}
	return clipped, limit
}

func clipIndices(indices []int, limit int) []int {
	out := indices[:0:0]
	for _, i := range indices {
		if i < limit {
			out = append(out, i)
		}
	}
	return out
}

func renderDetail(entry parser.Entry, width int) string {
	header := theme.MutedStyle.Render(entry.Timestamp.Format(detailTimeLayout)) + " " +
		theme.LevelStyle(entry.Level.Name()).Render("["+entry.Level.Name()+"]")
	body := entry.Message
	if width > 0 {
		body = ansi.Wrap(body, width, "")
	}
	return header + "\n" + body
}

// windowStart returns the first row to show so that selected stays inside a
// window of height rows, moving the previous start as little as possible.
func windowStart(start int, selected int, height int, total int) int {
	if height <= 0 || total <= height {
		return 0
	}
	if selected < start {
		start = selected
	}
	if selected >= start+height {
		start = selected - height + 1
	}
	return min(max(start, 0), total-height)
}
