package tailing

import (
	"context"
	"io"
	"path/filepath"
	"slices"
	"sync"
	"testing"
	"time"

	"logscope/internal/level"
	"logscope/internal/logging"
	"logscope/internal/logstore"
	"logscope/internal/parser"
	"logscope/internal/runstatus"
)

type fakeBackend struct {
	mu      sync.Mutex
	offsets map[string]int64
	lines   chan string
}

func (b *fakeBackend) Register(path string, offset int64) (Watcher, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.offsets[path] = offset
	return fakeWatcher{lines: b.lines}, nil
}

type fakeWatcher struct {
	lines chan string
}

func (w fakeWatcher) Watch(ctx context.Context, onLine func(string)) error {
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case line := <-w.lines:
			onLine(line)
		}
	}
}

type statusRecorder struct {
	mu       sync.Mutex
	statuses []string
}

func (r *statusRecorder) record(_ string, status string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.statuses = append(r.statuses, status)
}

func (r *statusRecorder) snapshot() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return slices.Clone(r.statuses)
}

func testLogger() *logging.Logger {
	return logging.NewWithWriter(false, io.Discard, false)
}

func waitFor(t *testing.T, what string, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(5 * time.Second)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(10 * time.Millisecond)
	}
	t.Fatalf("timed out waiting for %s", what)
}

func messages(log *logstore.Log) []string {
	snap := log.Snapshot()
	out := make([]string, snap.Len())
	for i := range snap.Len() {
		out[i] = snap.At(i).Message
	}
	return out
}

const (
	header1 = "Mon Jan 15 2024 09:30:00.000001 [INFO] - started"
	header2 = "Mon Jan 15 2024 09:30:01.5 [WARN] - slow"
	header3 = "Mon Jan 15 2024 09:30:02.0 [info] - done"
)

func TestCoordinatorInitialReadThenLiveLines(t *testing.T) {
	path := filepath.Join(t.TempDir(), "app.txt")
	content := "orphan before first entry\n" + header1 + "\n  detail\nMon Jan 15 2024 25:00:00.0 [INFO] - bad hour\n" + header2 + "\n"
	writeFile(t, path, content)

	backend := &fakeBackend{offsets: map[string]int64{}, lines: make(chan string)}
	recorder := &statusRecorder{}
	coord := NewCoordinator(Options{Parser: parser.New(level.NewRegistry())}, testLogger(), Callbacks{OnStatus: recorder.record}).
		WithBackend(backend)

	log := logstore.New(path)
	ctx, cancel := context.WithCancel(context.Background())
	coord.Start(ctx, []*logstore.Log{log})

	waitFor(t, "initial read", func() bool { return log.Len() == 2 })
	if got := messages(log); !slices.Equal(got, []string{"started\n  detail", "slow"}) {
		t.Fatalf("messages = %q", got)
	}
	if log.Dropped() != 2 {
		t.Fatalf("dropped = %d, want 2", log.Dropped())
	}

	backend.lines <- header3
	backend.lines <- "trailing detail"
	waitFor(t, "live lines", func() bool {
		last, ok := log.Snapshot().Last()
		return ok && last.Message == "done\ntrailing detail"
	})

	cancel()
	coord.Wait()

	backend.mu.Lock()
	offset := backend.offsets[path]
	backend.mu.Unlock()
	if offset != int64(len(content)) {
		t.Fatalf("registered offset = %d, want %d", offset, len(content))
	}
	want := []string{runstatus.Loading, runstatus.Following, runstatus.Stopped}
	if got := recorder.snapshot(); !slices.Equal(got, want) {
		t.Fatalf("statuses = %q, want %q", got, want)
	}
}

func TestCoordinatorKeepsLineWrittenAcrossStartup(t *testing.T) {
	path := filepath.Join(t.TempDir(), "app.txt")
	writeFile(t, path, header1+"\nMon Jan 15 2024 09:30:01.5 [WARN] - sl")

	backend := &fakeBackend{offsets: map[string]int64{}, lines: make(chan string)}
	coord := NewCoordinator(Options{
		Parser:       parser.New(level.NewRegistry()),
		SettlePeriod: 300 * time.Millisecond,
	}, testLogger(), Callbacks{}).WithBackend(backend)

	log := logstore.New(path)
	ctx, cancel := context.WithCancel(context.Background())
	defer func() {
		cancel()
		coord.Wait()
	}()
	coord.Start(ctx, []*logstore.Log{log})
	waitFor(t, "first entry", func() bool { return log.Len() == 1 })
	appendFile(t, path, "ow\n")

	waitFor(t, "finished line", func() bool { return log.Len() == 2 })
	if got := messages(log); !slices.Equal(got, []string{"started", "slow"}) {
		t.Fatalf("messages = %q, want [started slow]", got)
	}
}

func TestCoordinatorIngestsStalledFinalLine(t *testing.T) {
	path := filepath.Join(t.TempDir(), "app.txt")
	content := header1 + "\n" + header2
	writeFile(t, path, content)

	backend := &fakeBackend{offsets: map[string]int64{}, lines: make(chan string)}
	coord := NewCoordinator(Options{
		Parser:       parser.New(level.NewRegistry()),
		SettlePeriod: 20 * time.Millisecond,
	}, testLogger(), Callbacks{}).WithBackend(backend)

	log := logstore.New(path)
	ctx, cancel := context.WithCancel(context.Background())
	coord.Start(ctx, []*logstore.Log{log})
	waitFor(t, "stalled line", func() bool { return log.Len() == 2 })
	cancel()
	coord.Wait()

	if got := messages(log); !slices.Equal(got, []string{"started", "slow"}) {
		t.Fatalf("messages = %q", got)
	}
	backend.mu.Lock()
	offset := backend.offsets[path]
	backend.mu.Unlock()
	if offset != int64(len(content)) {
		t.Fatalf("registered offset = %d, want %d", offset, len(content))
	}
}

func TestCoordinatorReportsMissingFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "gone.txt")
	recorder := &statusRecorder{}
	var (
		mu     sync.Mutex
		failed []string
	)
	coord := NewCoordinator(Options{Parser: parser.New(level.NewRegistry())}, testLogger(), Callbacks{
		OnStatus: recorder.record,
		OnError: func(p string, err error) {
			mu.Lock()
			defer mu.Unlock()
			failed = append(failed, p)
		},
	})

	coord.Start(context.Background(), []*logstore.Log{logstore.New(path)})
	coord.Wait()

	if !slices.Equal(failed, []string{path}) {
		t.Fatalf("failed = %q", failed)
	}
	if got := recorder.snapshot(); !slices.Equal(got, []string{runstatus.Loading, runstatus.Failed}) {
		t.Fatalf("statuses = %q", got)
	}
}

func TestCoordinatorNotifyBackendFollowsAppends(t *testing.T) {
	path := filepath.Join(t.TempDir(), "live.txt")
	writeFile(t, path, header1+"\n")

	coord := NewCoordinator(Options{
		Parser:       parser.New(level.NewRegistry()),
		RescanPeriod: 20 * time.Millisecond,
	}, testLogger(), Callbacks{})

	log := logstore.New(path)
	ctx, cancel := context.WithCancel(context.Background())
	defer func() {
		cancel()
		coord.Wait()
	}()
	coord.Start(ctx, []*logstore.Log{log})
	waitFor(t, "initial entry", func() bool { return log.Len() == 1 })

	appendFile(t, path, header2+"\n  more\n")
	waitFor(t, "appended entry", func() bool {
		last, ok := log.Snapshot().Last()
		return ok && last.Message == "slow\n  more"
	})

	writeFile(t, path, header3+"\n")
	waitFor(t, "entry after truncation", func() bool {
		last, ok := log.Snapshot().Last()
		return ok && last.Message == "done"
	})
}

func TestCoordinatorPollBackendFollowsAppends(t *testing.T) {
	path := filepath.Join(t.TempDir(), "polled.txt")
	writeFile(t, path, header1+"\n")

	recorder := &statusRecorder{}
	coord := NewCoordinator(Options{
		Poll:   true,
		Parser: parser.New(level.NewRegistry()),
	}, testLogger(), Callbacks{OnStatus: recorder.record})

	log := logstore.New(path)
	ctx, cancel := context.WithCancel(context.Background())
	coord.Start(ctx, []*logstore.Log{log})
	waitFor(t, "initial entry", func() bool { return log.Len() == 1 })

	appendFile(t, path, header2+"\n  more\n")
	waitFor(t, "polled entry", func() bool {
		last, ok := log.Snapshot().Last()
		return ok && last.Message == "slow\n  more"
	})
	if got := log.Len(); got != 2 {
		t.Fatalf("Len() = %d, want 2 (initial content read twice?)", got)
	}

	cancel()
	coord.Wait()
	statuses := recorder.snapshot()
	if len(statuses) == 0 || statuses[len(statuses)-1] != runstatus.Stopped {
		t.Fatalf("statuses = %v, want trailing %q", statuses, runstatus.Stopped)
	}
}
