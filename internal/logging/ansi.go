package logging

import (
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
)

var forceLipglossColorOnce sync.Once

func ensureLipglossColorOutput() {
	forceLipglossColorOnce.Do(func() {
		lipgloss.SetColorProfile(termenv.TrueColor)
	})
}

func shouldPrettyPrint() bool {
	term := strings.TrimSpace(os.Getenv("TERM"))
	if term == "" || term == "dumb" {
		return false
	}
	return os.Getenv("NO_COLOR") == ""
}

// FormatEventANSI renders one diagnostics event for a terminal: time, level
// badge, message, then fields. Source paths render as a dim directory and a
// bright base name; errors render in the error color.
func FormatEventANSI(event Event) string {
	ensureLipglossColorOutput()
	clock := mutedStyle.Render(event.Time.Format("15:04:05.000"))
	label, badge := levelBadge(event.Level)
	line := lipgloss.JoinHorizontal(lipgloss.Center, clock, " ", badge.Render(label), " ", messageStyle.Render(event.Message))
	if len(event.Fields) == 0 {
		return line + "\n"
	}

	keys := orderedFieldKeys(event.Fields)
	parts := make([]string, 0, len(keys))
	for _, key := range keys {
		parts = append(parts, fieldKeyStyle.Render(key)+fieldSepStyle.Render("=")+styleFieldValue(key, event.Fields[key]))
	}
	return line + "  " + strings.Join(parts, " ") + "\n"
}

var (
	mutedStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("240"))
	messageStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("252"))
	fieldKeyStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("117"))
	fieldSepStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("238"))
	fieldValStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("255"))
	pathBaseStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("229"))
	errorValStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("203"))
)

func styleFieldValue(key string, value any) string {
	text := formatFieldValue(value)
	switch key {
	case "path":
		dir, base := filepath.Split(text)
		return mutedStyle.Render(dir) + pathBaseStyle.Render(base)
	case "error":
		return errorValStyle.Render(text)
	default:
		return fieldValStyle.Render(text)
	}
}

func levelBadge(level slog.Level) (string, lipgloss.Style) {
	base := lipgloss.NewStyle().Bold(true).Padding(0, 1)
	switch {
	case level <= slog.LevelDebug:
		return "DEBUG", base.Foreground(lipgloss.Color("255")).Background(lipgloss.Color("240"))
	case level <= slog.LevelInfo:
		return "INFO", base.Foreground(lipgloss.Color("230")).Background(lipgloss.Color("31"))
	case level <= slog.LevelWarn:
		return "WARN", base.Foreground(lipgloss.Color("234")).Background(lipgloss.Color("214"))
	default:
		return "ERROR", base.Foreground(lipgloss.Color("231")).Background(lipgloss.Color("160"))
	}
}
