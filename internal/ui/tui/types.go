package tui

import (
	"context"
	"sync"
	"time"

	"logscope/internal/logging"
	"logscope/internal/runtime"
	"logscope/internal/ui/tui/view"
)

type tickMsg struct{}
type noticeMsg string
type rootDoneMsg struct{}
type quitNowMsg struct{}

type statusMsg struct {
	path   string
	status string
}

type startResultMsg struct {
	err error
}

type modelDeps struct {
	runner      *runtime.Supervisor
	logger      *logging.Logger
	unsubscribe func()
	rootCtx     context.Context
	rootCancel  context.CancelFunc
}

type modelChannels struct {
	statusCh chan statusMsg
	noticeCh chan string
}

type modelRuntime struct {
	paths             []string
	tick              time.Duration
	quitting          bool
	lastHealthRefresh time.Time
}

type model struct {
	modelDeps
	modelChannels
	modelRuntime
	cleanupOnce sync.Once
	ui          view.State
}
