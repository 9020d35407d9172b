package tailing

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"github.com/cenkalti/backoff/v5"
	"github.com/fsnotify/fsnotify"

	"logscope/internal/logging"
	"logscope/internal/runstatus"
)

const (
	defaultRescanPeriod  = 2 * time.Second
	defaultRetryInitial  = 50 * time.Millisecond
	defaultRetryMax      = 2 * time.Second
	defaultRetryMaxTries = 6
)

// NotifyBackend watches each file's parent directory with fsnotify and reads
// appended lines through an offset Tailer. A periodic rescan catches writes
// the platform did not report.
type NotifyBackend struct {
	Logger        *logging.Logger
	OnStatus      StatusFunc
	RescanPeriod  time.Duration
	RetryInitial  time.Duration
	RetryMaxTries uint
}

type notifyWatcher struct {
	backend *NotifyBackend
	path    string
	tailer  *Tailer
	removed bool
}

func (b *NotifyBackend) Register(path string, offset int64) (Watcher, error) {
	if b.Logger == nil {
		panic("tailing.NotifyBackend.Register: logger must not be nil")
	}
	clean := filepath.Clean(path)
	return &notifyWatcher{
		backend: b,
		path:    clean,
		tailer:  &Tailer{Path: clean, Offset: offset},
	}, nil
}

func (w *notifyWatcher) Watch(ctx context.Context, onLine func(string)) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to initialize fsnotify watcher: %w", err)
	}
	defer watcher.Close()

	dir := filepath.Dir(w.path)
	if err := watcher.Add(dir); err != nil {
		return fmt.Errorf("failed to watch directory %s: %w", dir, err)
	}
	w.backend.Logger.Debug("watching log file", logging.Field("path", w.path), logging.Field("offset", w.tailer.Offset))

	rescan := w.backend.RescanPeriod
	if rescan <= 0 {
		rescan = defaultRescanPeriod
	}
	rescanTicker := time.NewTicker(rescan)
	defer rescanTicker.Stop()

	// Lines written between the initial read and the watch being armed.
	w.read(onLine)

	for {
		select {
		case <-ctx.Done():
			return nil
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(event.Name) != w.path {
				continue
			}
			w.handleEvent(ctx, event, onLine)
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			w.backend.Logger.Warn("watcher error", logging.Field("path", w.path), logging.Field("error", err))
		case <-rescanTicker.C:
			w.rescan(ctx, onLine)
		}
	}
}

func (w *notifyWatcher) handleEvent(ctx context.Context, event fsnotify.Event, onLine func(string)) {
	w.backend.Logger.Debugf("fsnotify event: op=%s path=%s", event.Op.String(), event.Name)
	switch {
	case event.Has(fsnotify.Remove) || event.Has(fsnotify.Rename):
		w.markRemoved()
	case event.Has(fsnotify.Create):
		w.recreated(ctx, onLine)
	case event.Has(fsnotify.Write):
		w.read(onLine)
	}
}

func (w *notifyWatcher) rescan(ctx context.Context, onLine func(string)) {
	if !w.removed {
		w.read(onLine)
		return
	}
	if _, err := os.Stat(w.path); err == nil {
		w.recreated(ctx, onLine)
	}
}

func (w *notifyWatcher) recreated(ctx context.Context, onLine func(string)) {
	w.removed = false
	w.tailer.Offset = 0
	w.backend.Logger.Info("log file recreated", logging.Field("path", w.path))
	w.readWithRetry(ctx, onLine)
}

func (w *notifyWatcher) markRemoved() {
	if w.removed {
		return
	}
	w.removed = true
	w.tailer.Offset = 0
	w.backend.Logger.Info("log file removed", logging.Field("path", w.path))
	w.status(runstatus.Removed)
}

func (w *notifyWatcher) read(onLine func(string)) {
	if err := w.readOnce(onLine); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			w.markRemoved()
			return
		}
		w.backend.Logger.Debug("failed to read appended lines", logging.Field("path", w.path), logging.Field("error", err))
	}
}

func (w *notifyWatcher) readOnce(onLine func(string)) error {
	lines, truncated, err := w.tailer.ReadNewLines()
	if truncated {
		w.backend.Logger.Info("log file truncated, rereading from start", logging.Field("path", w.path))
		w.status(runstatus.Truncated)
	}
	if err != nil {
		return err
	}
	for _, line := range lines {
		onLine(line)
	}
	return nil
}

// readWithRetry reads a freshly created file. Writers often create the file
// before it is readable, so failures are retried with exponential backoff.
func (w *notifyWatcher) readWithRetry(ctx context.Context, onLine func(string)) {
	b := backoff.NewExponentialBackOff()
	b.InitialInterval = w.backend.RetryInitial
	if b.InitialInterval <= 0 {
		b.InitialInterval = defaultRetryInitial
	}
	b.MaxInterval = defaultRetryMax
	b.Reset()

	tries := w.backend.RetryMaxTries
	if tries == 0 {
		tries = defaultRetryMaxTries
	}

	_, err := backoff.Retry(ctx, func() (struct{}, error) {
		return struct{}{}, w.readOnce(onLine)
	},
		backoff.WithBackOff(b),
		backoff.WithMaxTries(tries),
		backoff.WithNotify(func(err error, next time.Duration) {
			w.backend.Logger.Debug("retrying read of recreated log file",
				logging.Field("path", w.path),
				logging.Field("error", err),
				logging.Field("next", next),
			)
			w.status(runstatus.Retrying)
		}),
	)
	if err != nil {
		if ctx.Err() == nil {
			w.backend.Logger.Warn("failed to read recreated log file", logging.Field("path", w.path), logging.Field("error", err))
			w.status(runstatus.Failed)
		}
		return
	}
	w.status(runstatus.Following)
}

func (w *notifyWatcher) status(status string) {
	if w.backend.OnStatus != nil {
		w.backend.OnStatus(w.path, status)
	}
}
