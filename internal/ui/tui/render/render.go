package render

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"
)

// Frame draws a rounded border of exactly width x height cells around
// content, with title set into the top edge. Content lines are clipped and
// padded to fit.
func Frame(title string, content string, width int, height int, color lipgloss.TerminalColor) string {
	width = max(width, 2)
	height = max(height, 2)
	innerWidth := width - 2
	innerHeight := height - 2
	border := lipgloss.RoundedBorder()
	edge := lipgloss.NewStyle().Foreground(color)

	top := topEdge(border, title, innerWidth, edge)
	lines := FitLines(content, innerWidth, innerHeight)
	out := make([]string, 0, height)
	out = append(out, top)
	for _, line := range lines {
		out = append(out, edge.Render(border.Left)+line+edge.Render(border.Right))
	}
	out = append(out, edge.Render(border.BottomLeft+strings.Repeat(border.Bottom, innerWidth)+border.BottomRight))
	return strings.Join(out, "\n")
}

func topEdge(border lipgloss.Border, title string, innerWidth int, edge lipgloss.Style) string {
	if title == "" || innerWidth < 4 {
		return edge.Render(border.TopLeft + strings.Repeat(border.Top, innerWidth) + border.TopRight)
	}
	label := " " + TruncateDisplayWidth(title, innerWidth-3) + " "
	rest := max(innerWidth-1-ansi.StringWidth(label), 0)
	return edge.Render(border.TopLeft+border.Top) + label + edge.Render(strings.Repeat(border.Top, rest)+border.TopRight)
}

// FitLines returns exactly height lines of exactly width cells.
func FitLines(content string, width int, height int) []string {
	lines := strings.Split(content, "\n")
	if len(lines) > height {
		lines = lines[:height]
	}
	out := make([]string, height)
	for i := range height {
		line := ""
		if i < len(lines) {
			line = lines[i]
		}
		out[i] = PadRight(ansi.Truncate(line, width, ""), width)
	}
	return out
}

func PadRight(value string, width int) string {
	if pad := width - ansi.StringWidth(value); pad > 0 {
		return value + strings.Repeat(" ", pad)
	}
	return value
}

// Overlay draws dialog centered on top of base, which is width x height.
func Overlay(base string, dialog string, width int, height int) string {
	baseLines := strings.Split(base, "\n")
	for len(baseLines) < height {
		baseLines = append(baseLines, "")
	}
	dialogLines := strings.Split(dialog, "\n")
	dialogWidth := lipgloss.Width(dialog)
	x := max((width-dialogWidth)/2, 0)
	y := max((height-len(dialogLines))/2, 0)

	for i, line := range dialogLines {
		row := y + i
		if row >= len(baseLines) {
			break
		}
		under := baseLines[row]
		left := PadRight(ansi.Truncate(under, x, ""), x)
		right := ansi.TruncateLeft(under, x+ansi.StringWidth(line), "")
		baseLines[row] = left + line + right
	}
	return strings.Join(baseLines, "\n")
}

func TruncateDisplayWidth(value string, width int) string {
	if width <= 0 {
		return ""
	}
	if ansi.StringWidth(value) <= width {
		return value
	}
	if width == 1 {
		return "…"
	}
	limit := width - ansi.StringWidth("…")
	limit = max(limit, 0)
	var b strings.Builder
	current := 0
	for _, r := range value {
		w := ansi.StringWidth(string(r))
		if current+w > limit {
			break
		}
		b.WriteRune(r)
		current += w
	}
	return b.String() + "…"
}
