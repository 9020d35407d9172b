package view

import (
	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	"github.com/charmbracelet/lipgloss"

	"logscope/internal/filter"
	"logscope/internal/level"
	"logscope/internal/logstore"
	"logscope/internal/ui/tui/health"
	"logscope/internal/ui/tui/keyboard"
)

type Pane int

const (
	PaneFiles Pane = iota
	PaneEntries
)

type InputFocus int

const (
	Browsing InputFocus = iota
	EditingFilter
)

const (
	defaultInputCharLimit = 1024
	defaultInputWidth     = 60
	defaultDetailWidth    = 80
	defaultDetailHeight   = 5
)

type Popup struct {
	Open     bool
	Selected int
}

// State is everything the main loop knows about navigation and filtering.
// Logs are shared with the tailing workers; the rest belongs to the main
// loop alone.
type State struct {
	Logs   []*logstore.Log
	Levels *level.Registry

	File  int
	Focus Pane
	Input InputFocus
	Popup Popup

	Filter    filter.State
	filterGen uint64
	Query     textinput.Model

	HelpView help.Model
	Keys     keyboard.Map
	Detail   viewport.Model

	Width  int
	Height int

	Statuses map[string]string
	Health   map[string]health.Row
	Notice   string

	cache *viewCache
}

type viewCache struct {
	logs       map[*logstore.Log]*logView
	fileOffset int
	detailLog  *logstore.Log
	detailAt   int
}

// logView caches the filtered index list of one log for one filter
// generation. Only the last entry of a log can change after it is appended,
// so a newer snapshot is refiltered from the old last entry onward.
type logView struct {
	gen     uint64
	version uint64
	length  int
	indices []int
	offset  int
}

func NewState(logs []*logstore.Log, levels *level.Registry) State {
	if levels == nil {
		panic("view.NewState: level registry must not be nil")
	}
	query := textinput.New()
	query.CharLimit = defaultInputCharLimit
	query.Width = defaultInputWidth
	query.Prompt = "> "
	query.Placeholder = "type to filter entries"

	helpView := help.New()
	helpView.Styles.ShortKey = lipgloss.NewStyle().Foreground(lipgloss.Color("15")).Bold(true)
	helpView.Styles.FullKey = lipgloss.NewStyle().Foreground(lipgloss.Color("15")).Bold(true)
	helpView.Styles.ShortDesc = lipgloss.NewStyle().Foreground(lipgloss.Color("245"))
	helpView.Styles.FullDesc = lipgloss.NewStyle().Foreground(lipgloss.Color("245"))
	helpView.Styles.ShortSeparator = lipgloss.NewStyle().Foreground(lipgloss.Color("240"))
	helpView.Styles.FullSeparator = lipgloss.NewStyle().Foreground(lipgloss.Color("240"))
	helpView.Styles.Ellipsis = lipgloss.NewStyle().Foreground(lipgloss.Color("240"))

	return State{
		Logs:     logs,
		Levels:   levels,
		Filter:   filter.New(),
		Query:    query,
		HelpView: helpView,
		Keys:     keyboard.New(),
		Detail:   viewport.New(defaultDetailWidth, defaultDetailHeight),
		Statuses: map[string]string{},
		Health:   map[string]health.Row{},
		cache:    &viewCache{logs: map[*logstore.Log]*logView{}, detailAt: -1},
	}
}

func (s State) WithWindowSize(width int, height int) State {
	s.Width = width
	s.Height = height
	s.HelpView.Width = width
	return s
}

func (s State) WithStatus(path string, status string) State {
	s.Statuses[path] = status
	return s
}

func (s State) WithHealth(rows []health.Row) State {
	s.Health = health.ByPath(rows)
	return s
}

func (s State) WithNotice(notice string) State {
	s.Notice = notice
	return s
}
