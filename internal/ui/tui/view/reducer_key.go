package view

import (
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
)

type KeyEffect int

const (
	KeyEffectNone KeyEffect = iota
	KeyEffectRequestQuit
	KeyEffectEditInput
)

func ReduceKey(state State, msg tea.KeyMsg) (State, KeyEffect) {
	if key.Matches(msg, state.Keys.Quit) {
		return state, KeyEffectRequestQuit
	}

	if state.Input == EditingFilter {
		switch {
		case key.Matches(msg, state.Keys.DoneEdit):
			return state.EndEdit(), KeyEffectNone
		case key.Matches(msg, state.Keys.NextMode):
			return state.CycleMode(true), KeyEffectNone
		case key.Matches(msg, state.Keys.PrevMode):
			return state.CycleMode(false), KeyEffectNone
		default:
			return state, KeyEffectEditInput
		}
	}

	switch {
	case key.Matches(msg, state.Keys.Close):
		if state.Popup.Open {
			return state.ClosePopup(), KeyEffectNone
		}
		return state, KeyEffectRequestQuit
	case key.Matches(msg, state.Keys.EditFilter):
		return state.BeginEdit(), KeyEffectNone
	case key.Matches(msg, state.Keys.Levels):
		return state.TogglePopup(), KeyEffectNone
	case key.Matches(msg, state.Keys.Up):
		return state.MoveUp(), KeyEffectNone
	case key.Matches(msg, state.Keys.Down):
		return state.MoveDown(), KeyEffectNone
	case key.Matches(msg, state.Keys.Left):
		return state.FocusPane(PaneFiles), KeyEffectNone
	case key.Matches(msg, state.Keys.Right):
		return state.FocusPane(PaneEntries), KeyEffectNone
	case key.Matches(msg, state.Keys.Home):
		return state.MoveHome(), KeyEffectNone
	case key.Matches(msg, state.Keys.End):
		return state.MoveEnd(), KeyEffectNone
	case key.Matches(msg, state.Keys.Activate):
		return ReduceActivate(state), KeyEffectNone
	}
	return state, KeyEffectNone
}
