package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	flags "github.com/jessevdk/go-flags"
	"github.com/joho/godotenv"
)

const (
	DefaultExtension = "txt"
	DefaultTick      = 30 * time.Millisecond
)

var (
	ErrNoPaths         = errors.New("no paths supplied")
	ErrConflictingFlag = errors.New("conflicting flags")
)

type Options struct {
	Extension   string        `short:"e" long:"extension" env:"LOGSCOPE_EXTENSION" description:"File extension to match inside directories (default: txt)"`
	Poll        bool          `long:"poll" env:"LOGSCOPE_POLL" description:"Follow files by polling instead of filesystem notifications"`
	Tick        time.Duration `long:"tick" env:"LOGSCOPE_TICK" description:"UI refresh interval (default: 30ms)"`
	Debug       bool          `long:"debug" env:"LOGSCOPE_DEBUG" description:"Enable verbose debug output"`
	Diagnostics bool          `long:"diagnostics" env:"LOGSCOPE_DIAGNOSTICS" description:"Write logscope's own diagnostic log under the user cache directory"`

	NoPoll        bool `long:"no-poll" description:"Use filesystem notifications even if config.toml enables polling"`
	NoDebug       bool `long:"no-debug" description:"Disable debug output even if config.toml enables it"`
	NoDiagnostics bool `long:"no-diagnostics" description:"Disable the diagnostic log even if config.toml enables it"`
	ConfigFile  string        `long:"config" env:"LOGSCOPE_CONFIG" description:"TOML file with default options"`

	Args struct {
		Paths []string `positional-arg-name:"PATHS" description:"Log files or directories to follow"`
	} `positional-args:"yes"`
}

// ParseOptions reads .env, the command line and the optional TOML defaults
// file. Command-line values win over the file.
func ParseOptions(args []string) (Options, error) {
	_ = godotenv.Load()
	opts := Options{}
	if _, err := flags.NewParser(&opts, flags.Default).ParseArgs(args); err != nil {
		return Options{}, err
	}
	if err := checkNegations(opts); err != nil {
		return Options{}, err
	}

	path, explicit := opts.ConfigFile, strings.TrimSpace(opts.ConfigFile) != ""
	if !explicit {
		var err error
		if path, err = SettingsPath(); err != nil {
			return applyDefaults(opts), nil
		}
	}
	settings, err := LoadFileSettings(path)
	if err != nil {
		if explicit || !errors.Is(err, ErrSettingsNotFound) {
			return Options{}, err
		}
	}
	return applyDefaults(MergeOptionsWithSettings(opts, settings)), nil
}

func ValidateRequired(opts Options) error {
	for _, path := range opts.Args.Paths {
		if strings.TrimSpace(path) != "" {
			return nil
		}
	}
	return ErrNoPaths
}

func (o Options) Paths() []string {
	out := make([]string, 0, len(o.Args.Paths))
	for _, path := range o.Args.Paths {
		if trimmed := strings.TrimSpace(path); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}

func checkNegations(opts Options) error {
	pairs := []struct {
		name    string
		on, off bool
	}{
		{"poll", opts.Poll, opts.NoPoll},
		{"debug", opts.Debug, opts.NoDebug},
		{"diagnostics", opts.Diagnostics, opts.NoDiagnostics},
	}
	for _, pair := range pairs {
		if pair.on && pair.off {
			return fmt.Errorf("%w: --%s and --no-%s", ErrConflictingFlag, pair.name, pair.name)
		}
	}
	return nil
}

func applyDefaults(opts Options) Options {
	opts.Extension = strings.TrimPrefix(strings.TrimSpace(opts.Extension), ".")
	if opts.Extension == "" {
		opts.Extension = DefaultExtension
	}
	if opts.Tick <= 0 {
		opts.Tick = DefaultTick
	}
	return opts
}
