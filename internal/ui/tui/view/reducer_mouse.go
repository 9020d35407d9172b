package view

import tea "github.com/charmbracelet/bubbletea"

func ReduceMouse(state State, msg tea.MouseMsg) (State, tea.Cmd) {
	switch msg.Button {
	case tea.MouseButtonLeft:
		if msg.Action != tea.MouseActionPress {
			return state, nil
		}
		return reduceClick(state, msg), nil
	case tea.MouseButtonWheelUp, tea.MouseButtonWheelDown:
		return reduceWheel(state, msg)
	}
	return state, nil
}

func reduceClick(state State, msg tea.MouseMsg) State {
	if state.Popup.Open {
		for i := range state.Levels.Len() {
			if inZone(zonePopupLevel(i), msg) {
				state.Popup.Selected = i
				return state.ToggleHighlightedLevel()
			}
		}
	}
	switch {
	case inZone(zoneFiles, msg):
		return state.EndEdit().FocusPane(PaneFiles)
	case inZone(zoneEntries, msg):
		return state.EndEdit().FocusPane(PaneEntries)
	case inZone(zoneFilter, msg):
		return state.BeginEdit()
	}
	return state
}

func reduceWheel(state State, msg tea.MouseMsg) (State, tea.Cmd) {
	up := msg.Button == tea.MouseButtonWheelUp
	if state.Input == EditingFilter {
		return state.CycleMode(!up), nil
	}
	if inZone(zoneDetail, msg) {
		var cmd tea.Cmd
		state.Detail, cmd = state.Detail.Update(msg)
		return state, cmd
	}
	if up {
		return state.MoveUp(), nil
	}
	return state.MoveDown(), nil
}
