package view

import (
	"logscope/internal/filter"
	"logscope/internal/logstore"
)

func (s State) SelectedLog() *logstore.Log {
	if len(s.Logs) == 0 {
		return nil
	}
	return s.Logs[min(max(s.File, 0), len(s.Logs)-1)]
}

// Visible returns a snapshot of log together with the indices of its
// entries that pass the current filter.
func (s State) Visible(log *logstore.Log) (logstore.Snapshot, []int) {
	snap := log.Snapshot()
	view := s.cache.logs[log]
	if view == nil {
		view = &logView{}
		s.cache.logs[log] = view
	}
	switch {
	case view.gen != s.filterGen || snap.Len() < view.length || view.indices == nil:
		view.indices = s.Filter.Visible(snap)
	case snap.Version != view.version:
		from := max(view.length-1, 0)
		keep := len(view.indices)
		for keep > 0 && view.indices[keep-1] >= from {
			keep--
		}
		indices := view.indices[:keep:keep]
		for i := from; i < snap.Len(); i++ {
			if s.Filter.Matches(snap.At(i)) {
				indices = append(indices, i)
			}
		}
		view.indices = indices
	}
	view.gen = s.filterGen
	view.version = snap.Version
	view.length = snap.Len()
	return snap, view.indices
}

func (s State) VisibleCount(log *logstore.Log) int {
	_, indices := s.Visible(log)
	return len(indices)
}

// Refresh brings every log's filtered view up to date. A log whose
// selection sat on its last visible entry keeps following new entries.
func (s State) Refresh() State {
	for _, log := range s.Logs {
		before := -1
		if view := s.cache.logs[log]; view != nil && view.gen == s.filterGen {
			before = len(view.indices)
		}
		after := s.VisibleCount(log)
		if before > 0 && after > before && log.Selected() == before-1 {
			log.SelectLast(after)
			continue
		}
		log.ClampSelection(after)
	}
	return s
}

func (s State) withFilter(next filter.State) State {
	s.Filter = next
	s.filterGen++
	if log := s.SelectedLog(); log != nil {
		log.ClampSelection(s.VisibleCount(log))
	}
	return s
}

func (s State) MoveUp() State {
	if s.Popup.Open {
		s.Popup.Selected = max(s.Popup.Selected-1, 0)
		return s
	}
	if s.Focus == PaneFiles {
		return s.selectFile(s.File - 1)
	}
	if log := s.SelectedLog(); log != nil {
		log.SelectPrevious()
	}
	return s
}

func (s State) MoveDown() State {
	if s.Popup.Open {
		s.Popup.Selected = min(s.Popup.Selected+1, max(s.Levels.Len()-1, 0))
		return s
	}
	if s.Focus == PaneFiles {
		return s.selectFile(s.File + 1)
	}
	if log := s.SelectedLog(); log != nil {
		log.SelectNext(s.VisibleCount(log))
	}
	return s
}

func (s State) MoveHome() State {
	if s.Focus == PaneFiles {
		return s.selectFile(0)
	}
	if log := s.SelectedLog(); log != nil {
		log.SelectFirst()
	}
	return s
}

func (s State) MoveEnd() State {
	if s.Focus == PaneFiles {
		return s.selectFile(len(s.Logs) - 1)
	}
	if log := s.SelectedLog(); log != nil {
		log.SelectLast(s.VisibleCount(log))
	}
	return s
}

func (s State) selectFile(index int) State {
	if len(s.Logs) == 0 {
		s.File = 0
		return s
	}
	s.File = min(max(index, 0), len(s.Logs)-1)
	log := s.SelectedLog()
	log.ClampSelection(s.VisibleCount(log))
	return s
}

func (s State) FocusPane(pane Pane) State {
	s.Focus = pane
	return s
}

func (s State) TogglePopup() State {
	if s.Popup.Open {
		s.Popup = Popup{}
		return s
	}
	s.Popup = Popup{Open: true, Selected: 0}
	return s
}

func (s State) ClosePopup() State {
	s.Popup = Popup{}
	return s
}

// ToggleHighlightedLevel flips exclusion of the level under the popup cursor.
func (s State) ToggleHighlightedLevel() State {
	if !s.Popup.Open {
		return s
	}
	levels := s.Levels.All()
	if s.Popup.Selected < 0 || s.Popup.Selected >= len(levels) {
		return s
	}
	return s.withFilter(s.Filter.ToggleLevel(levels[s.Popup.Selected]))
}

func (s State) BeginEdit() State {
	s.Input = EditingFilter
	s.Query.Focus()
	return s
}

func (s State) EndEdit() State {
	s.Input = Browsing
	s.Query.Blur()
	return s
}

func (s State) CycleMode(forward bool) State {
	return s.withFilter(s.Filter.CycleMode(forward))
}

// SyncQuery applies the text input's value to the filter when it changed.
func (s State) SyncQuery() State {
	if s.Query.Value() == s.Filter.Query() {
		return s
	}
	return s.withFilter(s.Filter.WithQuery(s.Query.Value()))
}
