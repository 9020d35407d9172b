package tui

import (
	"context"
	"path/filepath"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"logscope/internal/config"
	"logscope/internal/logging"
	"logscope/internal/runstatus"
)

func newTestModel(t *testing.T) *model {
	t.Helper()
	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)
	path := filepath.Join(t.TempDir(), "app.txt")
	m := newModel(ctx, config.Options{}, logging.NewWithWriter(false, nil, false), []string{path})
	t.Cleanup(m.cleanup)
	return m
}

func TestModelAppliesStatusAndWindowSize(t *testing.T) {
	m := newTestModel(t)
	if m.tick != config.DefaultTick {
		t.Fatalf("tick = %v, want %v", m.tick, config.DefaultTick)
	}

	_, _ = m.Update(tea.WindowSizeMsg{Width: 100, Height: 30})
	if m.ui.Width != 100 || m.ui.Height != 30 {
		t.Fatalf("window = %dx%d, want 100x30", m.ui.Width, m.ui.Height)
	}

	path := m.paths[0]
	_, cmd := m.Update(statusMsg{path: path, status: runstatus.Following})
	if cmd == nil {
		t.Fatalf("status update did not re-arm the status listener")
	}
	if got := m.ui.Statuses[path]; got != runstatus.Following {
		t.Fatalf("status = %q, want %q", got, runstatus.Following)
	}
}

func TestModelQuitFlow(t *testing.T) {
	m := newTestModel(t)

	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyCtrlC})
	if cmd == nil || !m.quitting {
		t.Fatalf("ctrl+c did not start quitting")
	}
	if _, cmd := m.Update(tea.KeyMsg{Type: tea.KeyDown}); cmd != nil {
		t.Fatalf("input while quitting produced a command")
	}
	_, cmd = m.Update(quitNowMsg{})
	if cmd == nil {
		t.Fatalf("quitNowMsg did not quit")
	}
	if m.rootCtx.Err() == nil {
		t.Fatalf("cleanup did not cancel the run context")
	}
}

func TestModelSurfacesWarnings(t *testing.T) {
	m := newTestModel(t)
	m.logger.Info("ignored")
	m.logger.Warn("file vanished", logging.Field("path", m.paths[0]))

	select {
	case line := <-m.noticeCh:
		_, _ = m.Update(noticeMsg(line))
	default:
		t.Fatalf("warning did not reach the notice channel")
	}
	if m.ui.Notice == "" {
		t.Fatalf("Notice is empty after a warning")
	}
}
