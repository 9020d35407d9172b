package view

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	zone "github.com/lrstanley/bubblezone"
)

const (
	zoneFiles   = "pane-files"
	zoneEntries = "pane-entries"
	zoneFilter  = "filter-bar"
	zoneDetail  = "pane-detail"
)

func zonePopupLevel(index int) string {
	return fmt.Sprintf("popup-level-%d", index)
}

func inZone(id string, msg tea.MouseMsg) bool {
	info := zone.Get(id)
	return info != nil && info.InBounds(msg)
}
