package view

import tea "github.com/charmbracelet/bubbletea"

func ReduceInput(state State, msg tea.Msg) (State, tea.Cmd, bool) {
	if state.Input != EditingFilter {
		return state, nil, false
	}
	updated, cmd := state.Query.Update(msg)
	state.Query = updated
	return state.SyncQuery(), cmd, true
}
