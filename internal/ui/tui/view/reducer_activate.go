package view

// ReduceActivate handles enter/space while browsing. Only the level popup
// reacts to it.
func ReduceActivate(state State) State {
	if !state.Popup.Open {
		return state
	}
	return state.ToggleHighlightedLevel()
}
