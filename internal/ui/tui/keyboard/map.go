package keyboard

import "github.com/charmbracelet/bubbles/key"

type Map struct {
	Up         key.Binding
	Down       key.Binding
	Left       key.Binding
	Right      key.Binding
	Home       key.Binding
	End        key.Binding
	Activate   key.Binding
	Close      key.Binding
	Quit       key.Binding
	EditFilter key.Binding
	Levels     key.Binding
	NextMode   key.Binding
	PrevMode   key.Binding
	DoneEdit   key.Binding
}

func New() Map {
	return Map{
		Up: key.NewBinding(
			key.WithKeys("up"),
			key.WithHelp("↑/↓", "move"),
		),
		Down: key.NewBinding(
			key.WithKeys("down"),
		),
		Left: key.NewBinding(
			key.WithKeys("left"),
			key.WithHelp("←/→", "pane"),
		),
		Right: key.NewBinding(
			key.WithKeys("right"),
		),
		Home: key.NewBinding(
			key.WithKeys("home"),
			key.WithHelp("home/end", "first/last"),
		),
		End: key.NewBinding(
			key.WithKeys("end"),
		),
		Activate: key.NewBinding(
			key.WithKeys("enter", " "),
			key.WithHelp("enter/space", "toggle level"),
		),
		Close: key.NewBinding(
			key.WithKeys("esc", "q", "Q"),
			key.WithHelp("q/esc", "close/quit"),
		),
		Quit: key.NewBinding(
			key.WithKeys("ctrl+c"),
			key.WithHelp("ctrl+c", "quit"),
		),
		EditFilter: key.NewBinding(
			key.WithKeys("ctrl+f"),
			key.WithHelp("ctrl+f", "filter"),
		),
		Levels: key.NewBinding(
			key.WithKeys("F"),
			key.WithHelp("F", "levels"),
		),
		NextMode: key.NewBinding(
			key.WithKeys("tab"),
			key.WithHelp("tab", "mode"),
		),
		PrevMode: key.NewBinding(
			key.WithKeys("shift+tab"),
			key.WithHelp("shift+tab", "mode back"),
		),
		DoneEdit: key.NewBinding(
			key.WithKeys("esc"),
			key.WithHelp("esc", "done"),
		),
	}
}

// Browsing returns the bindings shown while navigating the panes.
func (m Map) Browsing() Help {
	return Help{
		short: []key.Binding{m.Up, m.Left, m.Home, m.EditFilter, m.Levels, m.Close},
		full: [][]key.Binding{
			{m.Up, m.Left, m.Home},
			{m.EditFilter, m.Levels, m.Activate},
			{m.Close, m.Quit},
		},
	}
}

// Editing returns the bindings shown while the filter input has focus.
func (m Map) Editing() Help {
	return Help{
		short: []key.Binding{m.NextMode, m.PrevMode, m.DoneEdit, m.Quit},
		full:  [][]key.Binding{{m.NextMode, m.PrevMode}, {m.DoneEdit, m.Quit}},
	}
}

// Help adapts a binding set to help.KeyMap.
type Help struct {
	short []key.Binding
	full  [][]key.Binding
}

func (h Help) ShortHelp() []key.Binding  { return h.short }
func (h Help) FullHelp() [][]key.Binding { return h.full }
