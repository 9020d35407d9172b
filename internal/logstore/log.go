package logstore

import (
	"errors"
	"fmt"
	"path/filepath"
	"sync"

	"logscope/internal/parser"
)

var (
	ErrNoPriorEntry       = errors.New("log has no prior entry")
	ErrOrphanContinuation = errors.New("continuation line without a prior entry")
)

// Log is the ordered, append-only entry list of one monitored file plus its
// selection cursor. All access goes through methods that hold the lock for a
// single append or snapshot.
type Log struct {
	name string
	path string

	mu       sync.RWMutex
	entries  []parser.Entry
	selected int
	version  uint64
	dropped  int
}

func New(path string) *Log {
	return &Log{name: NameForPath(path), path: path}
}

func NameForPath(path string) string {
	name := filepath.Base(path)
	if name == "." || name == string(filepath.Separator) {
		return path
	}
	return name
}

func (l *Log) Name() string { return l.name }
func (l *Log) Path() string { return l.path }

func (l *Log) AddEntry(entry parser.Entry) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.addEntryLocked(entry)
}

func (l *Log) AppendLast(text string) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.appendLastLocked(text)
}

// Ingest parses raw and merges it into the log. Malformed headers and
// orphan continuations are counted as dropped and returned.
func (l *Log) Ingest(p *parser.Parser, raw string) (parser.LineKind, error) {
	line, parseErr := p.ParseLine(raw)

	l.mu.Lock()
	defer l.mu.Unlock()
	if parseErr != nil {
		l.dropped++
		return parser.LineEntry, parseErr
	}
	switch line.Kind {
	case parser.LineEntry:
		l.addEntryLocked(line.Entry)
		return line.Kind, nil
	default:
		if err := l.appendLastLocked(line.Text); err != nil {
			l.dropped++
			return line.Kind, fmt.Errorf("%w: %w", ErrOrphanContinuation, err)
		}
		return line.Kind, nil
	}
}

func (l *Log) addEntryLocked(entry parser.Entry) {
	l.entries = append(l.entries, entry)
	l.version++
}

func (l *Log) appendLastLocked(text string) error {
	if len(l.entries) == 0 {
		return ErrNoPriorEntry
	}
	last := &l.entries[len(l.entries)-1]
	last.Message += "\n" + text
	l.version++
	return nil
}

func (l *Log) Len() int {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return len(l.entries)
}

// Version increases on every mutation of the entry list.
func (l *Log) Version() uint64 {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.version
}

func (l *Log) Dropped() int {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.dropped
}

// Snapshot returns a consistent read-only view without copying the entry
// list. Only the last entry can still change, so it is copied by value.
func (l *Log) Snapshot() Snapshot {
	l.mu.RLock()
	defer l.mu.RUnlock()
	n := len(l.entries)
	snap := Snapshot{Version: l.version, Dropped: l.dropped}
	if n == 0 {
		return snap
	}
	snap.frozen = l.entries[: n-1 : n-1]
	snap.last = l.entries[n-1]
	snap.hasLast = true
	return snap
}

type Snapshot struct {
	Version uint64
	Dropped int

	frozen  []parser.Entry
	last    parser.Entry
	hasLast bool
}

func (s Snapshot) Len() int {
	if !s.hasLast {
		return 0
	}
	return len(s.frozen) + 1
}

func (s Snapshot) At(i int) parser.Entry {
	if i == len(s.frozen) && s.hasLast {
		return s.last
	}
	return s.frozen[i]
}

func (s Snapshot) Last() (parser.Entry, bool) {
	return s.last, s.hasLast
}

func (s Snapshot) Entries() []parser.Entry {
	out := make([]parser.Entry, 0, s.Len())
	out = append(out, s.frozen...)
	if s.hasLast {
		out = append(out, s.last)
	}
	return out
}
