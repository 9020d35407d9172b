package tailing

import (
	"context"
	"errors"
	"sync"
	"time"

	"logscope/internal/logging"
	"logscope/internal/parser"
)

var (
	ErrPathNotFound = errors.New("path not found")
	ErrNotReadable  = errors.New("path not readable")
	ErrNoLogFiles   = errors.New("no log files in directory")
)

// Backend registers a file for live tailing starting at a byte offset.
type Backend interface {
	Register(path string, offset int64) (Watcher, error)
}

// Watcher blocks delivering appended lines to onLine until ctx ends or the
// watch fails.
type Watcher interface {
	Watch(ctx context.Context, onLine func(string)) error
}

type StatusFunc func(path, status string)

type Coordinator struct {
	opts      Options
	backend   Backend
	parser    *parser.Parser
	logger    *logging.Logger
	callbacks Callbacks
	wg        sync.WaitGroup
}

type Options struct {
	Poll          bool
	Parser        *parser.Parser
	RescanPeriod  time.Duration
	SettlePeriod  time.Duration
	RetryInitial  time.Duration
	RetryMaxTries uint
}

type Callbacks struct {
	OnStatus func(path, status string)
	OnError  func(path string, err error)
}

// Tailer reads lines appended to Path since Offset.
type Tailer struct {
	Path   string
	Offset int64
}
