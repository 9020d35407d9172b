package theme

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

var (
	TitleStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("69"))
	FocusStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("10"))
	ErrorStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("9")).Bold(true)
	WarnStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("214"))
	HelpStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("245"))
	MutedStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("240"))
	BorderColor = lipgloss.Color("240")
	FocusColor  = lipgloss.Color("39")

	// Selected rows: reversed in the focused pane, reversed and faint otherwise.
	SelectedFocused   = lipgloss.NewStyle().Reverse(true)
	SelectedUnfocused = lipgloss.NewStyle().Reverse(true).Faint(true)

	MatchStyle = lipgloss.NewStyle().Bold(true).Underline(true).Foreground(lipgloss.Color("226"))
	PlainStyle = lipgloss.NewStyle()

	SegmentBaseStyle = lipgloss.NewStyle().Padding(0, 1)
	SegmentOnStyle   = SegmentBaseStyle.Bold(true).Foreground(lipgloss.Color("0")).Background(lipgloss.Color("10"))
	SegmentOffStyle  = SegmentBaseStyle.Foreground(lipgloss.Color("245")).Background(lipgloss.Color("236"))

	ModalStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(FocusColor).
			Padding(0, 1)
)

// LevelStyle colors a level label by its conventional severity.
func LevelStyle(name string) lipgloss.Style {
	switch strings.ToUpper(strings.TrimSpace(name)) {
	case "ERROR", "ERR", "FATAL", "CRITICAL", "PANIC":
		return lipgloss.NewStyle().Foreground(lipgloss.Color("9")).Bold(true)
	case "WARN", "WARNING":
		return lipgloss.NewStyle().Foreground(lipgloss.Color("214"))
	case "INFO", "NOTICE":
		return lipgloss.NewStyle().Foreground(lipgloss.Color("10"))
	case "DEBUG":
		return lipgloss.NewStyle().Foreground(lipgloss.Color("39"))
	case "TRACE", "VERBOSE":
		return lipgloss.NewStyle().Foreground(lipgloss.Color("245"))
	default:
		return lipgloss.NewStyle().Foreground(lipgloss.Color("141"))
	}
}
