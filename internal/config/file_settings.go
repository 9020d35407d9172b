package config

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	toml "github.com/pelletier/go-toml/v2"
)

var ErrSettingsNotFound = errors.New("settings file not found")

// FileSettings are defaults read from config.toml. The file is never written.
//
//	extension = "log"
//	poll = false
//	tick = "50ms"
//	debug = false
//	diagnostics = false
//	paths = ["~/logs"]
type FileSettings struct {
	Extension   string
	Poll        bool
	Tick        time.Duration
	Debug       bool
	Diagnostics bool
	Paths       []string
}

func SettingsPath() (string, error) {
	root, err := os.UserConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(root, "logscope", "config.toml"), nil
}

func LoadFileSettings(path string) (FileSettings, error) {
	resolved, err := expandPath(path)
	if err != nil {
		return FileSettings{}, err
	}
	file, err := os.Open(resolved)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return FileSettings{}, fmt.Errorf("%w: %s", ErrSettingsNotFound, resolved)
		}
		return FileSettings{}, fmt.Errorf("open config: %w", err)
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		return FileSettings{}, fmt.Errorf("read config: %w", err)
	}

	var raw struct {
		Extension   string   `toml:"extension"`
		Poll        bool     `toml:"poll"`
		Tick        string   `toml:"tick"`
		Debug       bool     `toml:"debug"`
		Diagnostics bool     `toml:"diagnostics"`
		Paths       []string `toml:"paths"`
	}
	if err := toml.Unmarshal(data, &raw); err != nil {
		return FileSettings{}, fmt.Errorf("parse config %s: %w", resolved, err)
	}

	settings := FileSettings{
		Extension:   strings.TrimSpace(raw.Extension),
		Poll:        raw.Poll,
		Debug:       raw.Debug,
		Diagnostics: raw.Diagnostics,
	}
	if tick := strings.TrimSpace(raw.Tick); tick != "" {
		settings.Tick, err = time.ParseDuration(tick)
		if err != nil {
			return FileSettings{}, fmt.Errorf("parse config %s: tick: %w", resolved, err)
		}
	}
	for _, p := range raw.Paths {
		if strings.TrimSpace(p) == "" {
			continue
		}
		settings.Paths = append(settings.Paths, mustExpand(p))
	}
	return settings, nil
}

// MergeOptionsWithSettings fills options the command line left unset from
// config.toml. Booleans the file switches on are switched off again by the
// matching --no- flag.
func MergeOptionsWithSettings(cli Options, saved FileSettings) Options {
	if strings.TrimSpace(cli.Extension) == "" {
		cli.Extension = saved.Extension
	}
	if cli.Tick <= 0 {
		cli.Tick = saved.Tick
	}
	cli.Poll = mergeBool(cli.Poll, cli.NoPoll, saved.Poll)
	cli.Debug = mergeBool(cli.Debug, cli.NoDebug, saved.Debug)
	cli.Diagnostics = mergeBool(cli.Diagnostics, cli.NoDiagnostics, saved.Diagnostics)
	if len(cli.Args.Paths) == 0 {
		cli.Args.Paths = append([]string(nil), saved.Paths...)
	}
	return cli
}

func mergeBool(on bool, off bool, saved bool) bool {
	if off {
		return false
	}
	return on || saved
}

func mustExpand(path string) string {
	expanded, err := expandPath(path)
	if err != nil {
		return path
	}
	return expanded
}

func expandPath(path string) (string, error) {
	trimmed := strings.TrimSpace(path)
	if trimmed == "" {
		return "", fmt.Errorf("path is empty")
	}
	if strings.HasPrefix(trimmed, "~") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home dir: %w", err)
		}
		trimmed = filepath.Join(home, strings.TrimPrefix(trimmed, "~"))
	}
	return filepath.Abs(trimmed)
}
