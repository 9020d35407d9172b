package tailing

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"logscope/internal/logging"
	"logscope/internal/logstore"
	"logscope/internal/parser"
	"logscope/internal/runstatus"
)

const (
	defaultSettlePeriod = 250 * time.Millisecond
	maxSettleRounds     = 3
)

func NewCoordinator(opts Options, logger *logging.Logger, callbacks Callbacks) *Coordinator {
	if logger == nil {
		panic("tailing.NewCoordinator: logger must not be nil")
	}
	if opts.Parser == nil {
		panic("tailing.NewCoordinator: parser must not be nil")
	}
	c := &Coordinator{
		opts:      opts,
		parser:    opts.Parser,
		logger:    logger,
		callbacks: callbacks,
	}
	if opts.Poll {
		c.backend = &PollBackend{Logger: logger, OnStatus: c.report}
	} else {
		c.backend = &NotifyBackend{
			Logger:        logger,
			OnStatus:      c.report,
			RescanPeriod:  opts.RescanPeriod,
			RetryInitial:  opts.RetryInitial,
			RetryMaxTries: opts.RetryMaxTries,
		}
	}
	return c
}

// WithBackend replaces the live tailing backend. Call before Start.
func (c *Coordinator) WithBackend(backend Backend) *Coordinator {
	c.backend = backend
	return c
}

// Start spawns one worker per log and returns immediately. Each worker reads
// the file's existing content and then follows it until ctx ends.
func (c *Coordinator) Start(ctx context.Context, logs []*logstore.Log) {
	c.logger.Info("tailing log files", logging.Field("files", len(logs)), logging.Field("poll", c.opts.Poll))
	for _, log := range logs {
		c.wg.Go(func() {
			c.follow(ctx, log)
		})
	}
}

// Wait blocks until every worker started so far has returned.
func (c *Coordinator) Wait() {
	c.wg.Wait()
}

func (c *Coordinator) follow(ctx context.Context, log *logstore.Log) {
	path := log.Path()
	c.report(path, runstatus.Loading)

	initial := &Tailer{Path: path}
	lines, err := c.readInitial(ctx, log, initial)
	if errors.Is(err, context.Canceled) {
		c.report(path, runstatus.Stopped)
		return
	}
	if err != nil {
		c.fail(path, err)
		return
	}
	c.logger.Debug("initial read complete",
		logging.Field("path", path),
		logging.Field("lines", lines),
		logging.Field("entries", log.Len()),
		logging.Field("offset", initial.Offset),
	)

	watcher, err := c.backend.Register(path, initial.Offset)
	if err != nil {
		c.fail(path, err)
		return
	}
	c.report(path, runstatus.Following)
	err = watcher.Watch(ctx, func(line string) {
		c.ingest(log, line)
	})
	if err != nil && !errors.Is(err, context.Canceled) {
		c.fail(path, err)
		return
	}
	c.report(path, runstatus.Stopped)
}

// readInitial ingests the file's complete lines. An unfinished last line is
// held back until one settle period shows the file stopped growing; a writer
// caught mid-line keeps its line whole and the watcher picks it up later.
func (c *Coordinator) readInitial(ctx context.Context, log *logstore.Log, t *Tailer) (int, error) {
	count := 0
	read := func() (int, error) {
		lines, _, err := t.ReadNewLines()
		for _, line := range lines {
			c.ingest(log, line)
		}
		count += len(lines)
		return len(lines), err
	}
	if _, err := read(); err != nil {
		return count, err
	}

	settle := c.opts.SettlePeriod
	if settle <= 0 {
		settle = defaultSettlePeriod
	}
	for range maxSettleRounds {
		before, err := t.Pending()
		if err != nil || before == 0 {
			return count, err
		}
		if err := sleepOrDone(ctx, settle); err != nil {
			return count, err
		}
		grew, err := read()
		if err != nil {
			return count, err
		}
		after, err := t.Pending()
		if err != nil {
			return count, err
		}
		if grew > 0 || after != before {
			continue
		}
		partial, ok, err := t.ReadPartial()
		if err != nil {
			return count, err
		}
		if ok {
			c.ingest(log, partial)
			count++
		}
		return count, nil
	}
	return count, nil
}

func sleepOrDone(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

func (c *Coordinator) ingest(log *logstore.Log, line string) {
	_, err := log.Ingest(c.parser, line)
	if err == nil {
		return
	}
	fields := []slog.Attr{
		logging.Field("path", log.Path()),
		logging.Field("line", logging.Truncate(line)),
		logging.Field("error", err),
	}
	switch {
	case errors.Is(err, logstore.ErrOrphanContinuation):
		c.logger.Debug("skipped line before first entry", fields...)
	case errors.Is(err, parser.ErrMalformedTimestamp):
		c.logger.Warn("skipped line with malformed timestamp", fields...)
	default:
		c.logger.Warn("skipped line", fields...)
	}
}

func (c *Coordinator) fail(path string, err error) {
	c.logger.Warn("tailing stopped", logging.Field("path", path), logging.Field("error", err))
	c.report(path, runstatus.Failed)
	if c.callbacks.OnError != nil {
		c.callbacks.OnError(path, err)
	}
}

func (c *Coordinator) report(path, status string) {
	if c.callbacks.OnStatus != nil {
		c.callbacks.OnStatus(path, status)
	}
}
