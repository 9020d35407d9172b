package runtime

import (
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"testing"
	"time"

	"logscope/internal/level"
	"logscope/internal/logging"
	"logscope/internal/logstore"
	"logscope/internal/parser"
	"logscope/internal/tailing"
)

func testLogger() *logging.Logger {
	return logging.NewWithWriter(false, io.Discard, false)
}

func TestSupervisorShutdown(t *testing.T) {
	exited := make(chan error, 1)
	s := NewSupervisor(context.Background(), ServiceFunc(func(ctx context.Context) error {
		<-ctx.Done()
		return ctx.Err()
	}), testLogger(), time.Second)

	if s.Running() {
		t.Fatalf("Running() = true before Start")
	}
	if err := s.Start(StartHooks{OnExit: func(err error) { exited <- err }}); err != nil {
		t.Fatalf("Start() error = %v", err)
	}
	if !s.Running() {
		t.Fatalf("Running() = false after Start")
	}
	if err := s.Start(StartHooks{}); !errors.Is(err, ErrAlreadyStarted) {
		t.Fatalf("second Start() error = %v, want ErrAlreadyStarted", err)
	}

	if !s.Shutdown() {
		t.Fatalf("Shutdown() timed out")
	}
	if s.Running() {
		t.Fatalf("Running() = true after Shutdown")
	}
	if err := <-exited; !errors.Is(err, context.Canceled) {
		t.Fatalf("exit error = %v, want context.Canceled", err)
	}
	if !errors.Is(s.Err(), context.Canceled) {
		t.Fatalf("Err() = %v, want context.Canceled", s.Err())
	}
}

func TestSupervisorShutdownIsBoundedByGrace(t *testing.T) {
	release := make(chan struct{})
	defer close(release)
	s := NewSupervisor(context.Background(), ServiceFunc(func(context.Context) error {
		<-release
		return nil
	}), testLogger(), 20*time.Millisecond)
	if err := s.Start(StartHooks{}); err != nil {
		t.Fatalf("Start() error = %v", err)
	}

	begin := time.Now()
	if s.Shutdown() {
		t.Fatalf("Shutdown() = true for a service ignoring cancellation")
	}
	if elapsed := time.Since(begin); elapsed > time.Second {
		t.Fatalf("Shutdown() took %v, want about the grace period", elapsed)
	}
}

func TestSupervisorShutdownBeforeStart(t *testing.T) {
	s := NewSupervisor(context.Background(), ServiceFunc(func(context.Context) error { return nil }), testLogger(), 0)
	if !s.Shutdown() {
		t.Fatalf("Shutdown() before Start = false")
	}
	if s.grace != DefaultShutdownGrace {
		t.Fatalf("grace = %v, want %v", s.grace, DefaultShutdownGrace)
	}
}

func TestTailServiceStopsWorkers(t *testing.T) {
	path := filepath.Join(t.TempDir(), "app.txt")
	if err := os.WriteFile(path, []byte("Mon Jan 15 2024 09:30:00.0 [INFO] - hello\n"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	logger := testLogger()
	coord := tailing.NewCoordinator(tailing.Options{Parser: parser.New(level.NewRegistry())}, logger, tailing.Callbacks{})
	log := logstore.New(path)

	s := NewSupervisor(context.Background(), NewTailService(coord, []*logstore.Log{log}), logger, 5*time.Second)
	if err := s.Start(StartHooks{}); err != nil {
		t.Fatalf("Start() error = %v", err)
	}
	deadline := time.Now().Add(5 * time.Second)
	for log.Len() == 0 && time.Now().Before(deadline) {
		time.Sleep(10 * time.Millisecond)
	}
	if log.Len() != 1 {
		t.Fatalf("entries = %d, want 1", log.Len())
	}
	if !s.Shutdown() {
		t.Fatalf("tail service did not stop")
	}
}
