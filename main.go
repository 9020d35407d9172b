package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"logscope/internal/config"
	"logscope/internal/logging"
	"logscope/internal/tailing"
	"logscope/internal/ui/tui"

	flags "github.com/jessevdk/go-flags"
)

func main() {
	rootCtx, stopSignals := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stopSignals()

	opts, err := config.ParseOptions(os.Args[1:])
	if err != nil {
		var flagErr *flags.Error
		if errors.As(err, &flagErr) && flagErr.Type == flags.ErrHelp {
			os.Exit(0)
		}
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}
	if err := config.ValidateRequired(opts); err != nil {
		fmt.Fprintln(os.Stderr, "logscope:", err)
		fmt.Fprintln(os.Stderr, "usage: logscope [OPTIONS] PATHS...")
		os.Exit(2)
	}

	logger := logging.New(opts.Debug)
	defer func() {
		_ = logger.Close()
	}()
	if opts.Diagnostics {
		path, err := logger.EnableFilePersistence("", 0)
		if err != nil {
			logger.Warn("diagnostics log disabled", logging.Field("error", err))
		} else {
			logger.Debug("diagnostics log enabled", logging.Field("path", path))
		}
	}

	paths, problems := tailing.ExpandPaths(opts.Paths(), opts.Extension)
	for _, problem := range problems {
		logger.Warn("skipping path", logging.Field("error", problem))
	}
	if len(paths) == 0 {
		fmt.Fprintln(os.Stderr, "logscope: no readable log files to follow")
		os.Exit(1)
	}

	if err := tui.Run(rootCtx, opts, logger, paths); err != nil {
		logger.Error("terminal UI failed", logging.Field("error", err))
		_ = logger.Close()
		os.Exit(1)
	}
}
