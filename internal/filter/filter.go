package filter

import (
	"regexp"
	"strings"
	"unicode"

	"github.com/lithammer/fuzzysearch/fuzzy"

	"logscope/internal/level"
	"logscope/internal/parser"
)

// State is the active level exclusion set plus the text filter. It is a
// value type: every With* method returns an updated copy and never mutates
// maps shared with earlier copies.
type State struct {
	excluded   map[*level.Level]struct{}
	mode       Mode
	query      string
	pattern    *regexp.Regexp
	compileErr error
}

func New() State {
	return State{}
}

func (s State) Mode() Mode         { return s.mode }
func (s State) Query() string      { return s.query }
func (s State) ExcludedCount() int { return len(s.excluded) }

func (s State) WithQuery(query string) State {
	s.query = query
	return s.recompile()
}

func (s State) WithMode(mode Mode) State {
	s.mode = mode
	return s.recompile()
}

func (s State) CycleMode(forward bool) State {
	if forward {
		return s.WithMode(s.mode.Next())
	}
	return s.WithMode(s.mode.Prev())
}

func (s State) ToggleLevel(lvl *level.Level) State {
	if lvl == nil {
		return s
	}
	next := make(map[*level.Level]struct{}, len(s.excluded)+1)
	for existing := range s.excluded {
		next[existing] = struct{}{}
	}
	if _, ok := next[lvl]; ok {
		delete(next, lvl)
	} else {
		next[lvl] = struct{}{}
	}
	s.excluded = next
	return s
}

func (s State) IsExcluded(lvl *level.Level) bool {
	_, ok := s.excluded[lvl]
	return ok
}

// Invalid reports a regex query that does not compile. Matching stays open
// in that state.
func (s State) Invalid() bool {
	return s.mode == Regex && s.compileErr != nil
}

func (s State) CompileError() error {
	if s.mode != Regex {
		return nil
	}
	return s.compileErr
}

func (s State) Matches(entry parser.Entry) bool {
	if s.IsExcluded(entry.Level) {
		return false
	}
	if s.query == "" {
		return true
	}
	switch s.mode {
	case Fuzzy:
		return fuzzyMatch(s.query, entry.Message)
	case Regex:
		if s.pattern == nil {
			return true
		}
		return s.pattern.MatchString(entry.Message)
	default:
		return strings.Contains(entry.Message, s.query)
	}
}

type Source interface {
	Len() int
	At(i int) parser.Entry
}

// Visible returns the indices of the entries in src that pass the filter,
// in source order.
func (s State) Visible(src Source) []int {
	n := src.Len()
	out := make([]int, 0, n)
	for i := range n {
		if s.Matches(src.At(i)) {
			out = append(out, i)
		}
	}
	return out
}

func (s State) recompile() State {
	s.pattern = nil
	s.compileErr = nil
	if s.mode != Regex {
		return s
	}
	s.pattern, s.compileErr = regexp.Compile(s.query)
	return s
}

func fuzzyMatch(query string, text string) bool {
	if hasUpper(query) {
		return fuzzy.Match(query, text)
	}
	return fuzzy.MatchFold(query, text)
}

func hasUpper(text string) bool {
	for _, r := range text {
		if unicode.IsUpper(r) {
			return true
		}
	}
	return false
}
