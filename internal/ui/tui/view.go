package tui

import (
	zone "github.com/lrstanley/bubblezone"

	"logscope/internal/ui/tui/view"
)

// View renders through the pure view package and resolves mouse zones.
func (m *model) View() string {
	return zone.Scan(view.RenderApp(&m.ui))
}
