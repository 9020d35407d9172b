package runtime

import (
	"context"
	"errors"
	"sync"
	"time"

	"logscope/internal/logging"
)

// DefaultShutdownGrace bounds how long quitting waits for tailing workers.
// Workers only append to in-memory logs, so abandoning a slow one loses
// nothing that was ever written to disk.
const DefaultShutdownGrace = 500 * time.Millisecond

var ErrAlreadyStarted = errors.New("supervisor already started")

// Supervisor runs the tail service for one UI session. It starts once and
// is shut down once; Shutdown never blocks longer than the grace period.
type Supervisor struct {
	rootCtx context.Context
	service Service
	logger  *logging.Logger
	grace   time.Duration

	mu      sync.Mutex
	cancel  context.CancelFunc
	started bool
	done    chan struct{}
	exitErr error
}

type StartHooks struct {
	OnExit func(error)
}

func NewSupervisor(rootCtx context.Context, service Service, logger *logging.Logger, grace time.Duration) *Supervisor {
	if service == nil {
		panic("runtime.NewSupervisor: service must not be nil")
	}
	if logger == nil {
		panic("runtime.NewSupervisor: logger must not be nil")
	}
	if rootCtx == nil {
		rootCtx = context.Background()
	}
	if grace <= 0 {
		grace = DefaultShutdownGrace
	}
	return &Supervisor{
		rootCtx: rootCtx,
		service: service,
		logger:  logger,
		grace:   grace,
		done:    make(chan struct{}),
	}
}

func (s *Supervisor) Start(hooks StartHooks) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.started {
		return ErrAlreadyStarted
	}
	s.started = true
	ctx, cancel := context.WithCancel(s.rootCtx)
	s.cancel = cancel

	go func() {
		defer cancel()
		err := s.service.RunContext(ctx)
		switch {
		case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
			s.logger.Debug("tail service stopped", logging.Field("reason", err))
		case err != nil:
			s.logger.Warn("tail service failed", logging.Field("error", err))
		default:
			s.logger.Info("tail service finished")
		}
		s.mu.Lock()
		s.exitErr = err
		s.mu.Unlock()
		close(s.done)
		if hooks.OnExit != nil {
			hooks.OnExit(err)
		}
	}()
	return nil
}

// Shutdown cancels the workers and waits up to the grace period. It reports
// whether every worker returned in time; stragglers are left to process exit.
func (s *Supervisor) Shutdown() bool {
	s.mu.Lock()
	started, cancel := s.started, s.cancel
	s.mu.Unlock()
	if !started {
		return true
	}
	cancel()
	if s.Wait(s.grace) {
		return true
	}
	s.logger.Debug("tailing workers still busy at exit", logging.Field("grace", s.grace))
	return false
}

// Wait reports whether the service returned within timeout. A non-positive
// timeout waits indefinitely.
func (s *Supervisor) Wait(timeout time.Duration) bool {
	if timeout <= 0 {
		<-s.done
		return true
	}
	timer := time.NewTimer(timeout)
	defer timer.Stop()
	select {
	case <-s.done:
		return true
	case <-timer.C:
		return false
	}
}

func (s *Supervisor) Running() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.started {
		return false
	}
	select {
	case <-s.done:
		return false
	default:
		return true
	}
}

// Err is the service's exit error, nil while it runs.
func (s *Supervisor) Err() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.exitErr
}
