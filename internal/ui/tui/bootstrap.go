package tui

import (
	"context"
	"log/slog"
	"os"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	zone "github.com/lrstanley/bubblezone"

	"logscope/internal/config"
	"logscope/internal/level"
	"logscope/internal/logging"
	"logscope/internal/logstore"
	"logscope/internal/parser"
	"logscope/internal/runctx"
	"logscope/internal/runtime"
	"logscope/internal/tailing"
	"logscope/internal/ui/tui/view"
)

const (
	statusChannelBufferSize = 256
	noticeChannelBufferSize = 8
	mouseDrainDelay         = 120 * time.Millisecond
)

// Run follows paths in the terminal UI until the user quits or rootCtx ends.
// The returned error is a terminal setup or rendering failure.
func Run(rootCtx context.Context, opts config.Options, logger *logging.Logger, paths []string) error {
	if logger == nil {
		panic("tui.Run: logger must not be nil")
	}
	defer forceDisableMouseTracking()

	logger.SetTerminalOutputEnabled(false)
	defer logger.SetTerminalOutputEnabled(true)
	logger.Info("starting logscope", logging.Field("files", len(paths)), logging.Field("poll", opts.Poll))

	m := newModel(rootCtx, opts, logger, paths)
	zone.NewGlobal()
	program := tea.NewProgram(m, tea.WithAltScreen(), tea.WithMouseCellMotion())
	result, runErr := program.Run()
	if final, ok := result.(*model); ok && final != nil {
		final.cleanup()
	} else {
		m.cleanup()
	}
	return runErr
}

func forceDisableMouseTracking() {
	_, _ = os.Stdout.WriteString("\x1b[?1000l\x1b[?1002l\x1b[?1003l\x1b[?1006l\x1b[?1015l")
}

func newModel(rootCtx context.Context, opts config.Options, logger *logging.Logger, paths []string) *model {
	if rootCtx == nil {
		rootCtx = context.Background()
	}
	runCtx, runCancel := context.WithCancel(rootCtx)

	levels := level.NewRegistry()
	logs := make([]*logstore.Log, len(paths))
	for i, path := range paths {
		logs[i] = logstore.New(path)
	}

	m := &model{
		modelDeps: modelDeps{
			logger:     logger,
			rootCtx:    runCtx,
			rootCancel: runCancel,
		},
		modelChannels: modelChannels{
			statusCh: make(chan statusMsg, statusChannelBufferSize),
			noticeCh: make(chan string, noticeChannelBufferSize),
		},
		modelRuntime: modelRuntime{
			paths: paths,
			tick:  opts.Tick,
		},
		ui: view.NewState(logs, levels),
	}
	if m.tick <= 0 {
		m.tick = config.DefaultTick
	}

	coordinator := tailing.NewCoordinator(tailing.Options{
		Poll:   opts.Poll,
		Parser: parser.New(levels),
	}, logger, tailing.Callbacks{
		OnStatus: m.onTailStatus,
	})
	m.runner = runtime.NewSupervisor(runCtx, runtime.NewTailService(coordinator, logs), logger, runtime.DefaultShutdownGrace)

	m.unsubscribe = logger.Subscribe(func(event logging.Event) {
		if event.Level < slog.LevelWarn {
			return
		}
		runctx.SendLatest(m.noticeCh, logging.FormatStatusLine(event))
	})
	return m
}

func (m *model) Init() tea.Cmd {
	return tea.Batch(
		m.startTailingCmd(),
		waitForStatus(m.statusCh),
		waitForNotice(m.noticeCh),
		waitForRootDone(m.rootCtx),
		tickCmd(m.tick),
	)
}

func (m *model) startTailingCmd() tea.Cmd {
	return func() tea.Msg {
		err := m.runner.Start(runtime.StartHooks{})
		return startResultMsg{err: err}
	}
}

// onTailStatus runs on tailing workers. It blocks until the main loop takes
// the update so no file state is lost, unless the UI is shutting down.
func (m *model) onTailStatus(path string, status string) {
	runctx.SendOrDone(m.rootCtx, "tail status updates", m.logger, m.statusCh, statusMsg{path: path, status: status})
}

func waitForStatus(ch <-chan statusMsg) tea.Cmd {
	return func() tea.Msg {
		msg, ok := <-ch
		if !ok {
			return nil
		}
		return msg
	}
}

func waitForNotice(ch <-chan string) tea.Cmd {
	return func() tea.Msg {
		line, ok := <-ch
		if !ok {
			return nil
		}
		return noticeMsg(line)
	}
}

func waitForRootDone(ctx context.Context) tea.Cmd {
	return func() tea.Msg {
		<-ctx.Done()
		return rootDoneMsg{}
	}
}

func tickCmd(interval time.Duration) tea.Cmd {
	return tea.Tick(interval, func(time.Time) tea.Msg {
		return tickMsg{}
	})
}
