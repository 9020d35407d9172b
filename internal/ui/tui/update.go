package tui

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"logscope/internal/logging"
	"logscope/internal/ui/tui/health"
	"logscope/internal/ui/tui/view"
)

func (m *model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if m.quitting {
		if _, ok := msg.(quitNowMsg); ok {
			m.cleanup()
			return m, tea.Quit
		}
		return m, nil
	}

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.ui = m.ui.WithWindowSize(msg.Width, msg.Height)
		return m, nil
	case tickMsg:
		m.ui = m.ui.Refresh()
		if time.Since(m.lastHealthRefresh) >= health.RefreshRate {
			m.refreshHealth()
		}
		return m, tickCmd(m.tick)
	case statusMsg:
		m.ui = m.ui.WithStatus(msg.path, msg.status)
		return m, waitForStatus(m.statusCh)
	case noticeMsg:
		m.ui = m.ui.WithNotice(string(msg))
		return m, waitForNotice(m.noticeCh)
	case startResultMsg:
		if msg.err != nil {
			m.logger.Error("failed to start tailing", logging.Field("error", msg.err))
		}
		m.refreshHealth()
		return m, nil
	case rootDoneMsg:
		m.logger.Debug("root context canceled, quitting")
		return m, m.beginQuitCmd()
	case tea.MouseMsg:
		next, cmd := view.ReduceMouse(m.ui, msg)
		m.ui = next
		return m, cmd
	case tea.KeyMsg:
		return m.handleKeyMsg(msg)
	}

	next, cmd, ok := view.ReduceInput(m.ui, msg)
	if ok {
		m.ui = next
		return m, cmd
	}
	return m, nil
}

func (m *model) handleKeyMsg(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	next, effect := view.ReduceKey(m.ui, msg)
	m.ui = next
	switch effect {
	case view.KeyEffectRequestQuit:
		return m, m.beginQuitCmd()
	case view.KeyEffectEditInput:
		nextState, cmd, ok := view.ReduceInput(m.ui, msg)
		if ok {
			m.ui = nextState
			return m, cmd
		}
	}
	return m, nil
}

func (m *model) refreshHealth() {
	m.lastHealthRefresh = time.Now()
	m.ui = m.ui.WithHealth(health.Compute(m.paths, m.lastHealthRefresh))
}

func (m *model) beginQuitCmd() tea.Cmd {
	m.quitting = true
	return quitProgramCmd()
}

func quitProgramCmd() tea.Cmd {
	return tea.Sequence(func() tea.Msg {
		return tea.DisableMouse()
	}, waitForMouseDrainCmd(), func() tea.Msg {
		return quitNowMsg{}
	})
}

func waitForMouseDrainCmd() tea.Cmd {
	return func() tea.Msg {
		time.Sleep(mouseDrainDelay)
		return nil
	}
}

func (m *model) cleanup() {
	m.cleanupOnce.Do(func() {
		m.logger.Debug("tui cleanup started")

		if m.unsubscribe != nil {
			m.unsubscribe()
		}

		if m.rootCancel != nil {
			m.rootCancel()
		}

		m.runner.Shutdown()

		m.logger.Debug("tui cleanup complete")
	})
}
