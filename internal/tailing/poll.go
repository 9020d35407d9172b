package tailing

import (
	"context"
	"io"

	"github.com/hpcloud/tail"

	"logscope/internal/logging"
	"logscope/internal/runctx"
	"logscope/internal/runstatus"
)

// PollBackend follows files by polling with hpcloud/tail. It works on
// filesystems where change notifications are unreliable, such as network
// mounts.
type PollBackend struct {
	Logger   *logging.Logger
	OnStatus StatusFunc
}

type pollWatcher struct {
	backend *PollBackend
	path    string
	offset  int64
}

func (b *PollBackend) Register(path string, offset int64) (Watcher, error) {
	if b.Logger == nil {
		panic("tailing.PollBackend.Register: logger must not be nil")
	}
	return &pollWatcher{backend: b, path: path, offset: offset}, nil
}

func (w *pollWatcher) Watch(ctx context.Context, onLine func(string)) error {
	t, err := tail.TailFile(w.path, tail.Config{
		Location:  &tail.SeekInfo{Offset: w.offset, Whence: io.SeekStart},
		ReOpen:    true,
		MustExist: true,
		Poll:      true,
		Follow:    true,
		Logger:    tail.DiscardingLogger,
	})
	if err != nil {
		return err
	}
	defer t.Cleanup()
	defer func() {
		_ = t.Stop()
	}()

	logger := w.backend.Logger.With(logging.Field("path", w.path))
	logger.Debug("polling log file", logging.Field("offset", w.offset))
	name := "poll tail " + w.path
	for {
		line, ok := runctx.RecvOrDone[*tail.Line](ctx, name, logger, t.Lines)
		if !ok {
			if ctx.Err() != nil {
				return nil
			}
			return t.Err()
		}
		if line.Err != nil {
			logger.Warn("poll tail error", logging.Field("error", line.Err))
			w.status(runstatus.Retrying)
			continue
		}
		onLine(line.Text)
	}
}

func (w *pollWatcher) status(status string) {
	if w.backend.OnStatus != nil {
		w.backend.OnStatus(w.path, status)
	}
}
