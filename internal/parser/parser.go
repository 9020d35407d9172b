package parser

import (
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"

	"logscope/internal/level"
)

var ErrMalformedTimestamp = errors.New("malformed timestamp")

// headerPattern: "<Www> <Mmm> <DD> <YYYY> <hh>:<mm>:<ss>.<frac> [<level>] - <message>"
var headerPattern = regexp.MustCompile(`^([A-Za-z]{3}) ([A-Za-z]{3} [0-9]{2} [0-9]{4}) ([0-9]{2}:[0-9]{2}:[0-9]{2})\.([0-9]+) \[([^\]]+)\] - (.*)$`)

const (
	dateLayout        = "Jan 02 2006"
	clockLayout       = "15:04:05"
	maxFractionDigits = 9
)

type Entry struct {
	Timestamp time.Time
	Level     *level.Level
	Message   string
}

// Headline is the first line of the message.
func (e Entry) Headline() string {
	if idx := strings.IndexByte(e.Message, '\n'); idx >= 0 {
		return e.Message[:idx]
	}
	return e.Message
}

// ContinuationCount is the number of lines merged into the message after
// the header line.
func (e Entry) ContinuationCount() int {
	return strings.Count(e.Message, "\n")
}

type LineKind int

const (
	LineEntry LineKind = iota
	LineContinuation
)

func (k LineKind) String() string {
	switch k {
	case LineEntry:
		return "entry"
	case LineContinuation:
		return "continuation"
	default:
		return "unknown"
	}
}

type Line struct {
	Kind  LineKind
	Entry Entry
	Text  string
}

type Parser struct {
	levels *level.Registry
}

func New(levels *level.Registry) *Parser {
	if levels == nil {
		panic("parser.New: level registry must not be nil")
	}
	return &Parser{levels: levels}
}

func (p *Parser) Levels() *level.Registry {
	return p.levels
}

// ParseLine classifies one raw line. Lines that do not carry a header are
// continuations of the previous entry and are returned verbatim.
func (p *Parser) ParseLine(raw string) (Line, error) {
	line := NormalizeLine(raw)
	match := headerPattern.FindStringSubmatch(line)
	if match == nil {
		return Line{Kind: LineContinuation, Text: line}, nil
	}
	ts, err := parseTimestamp(match[2], match[3], match[4])
	if err != nil {
		return Line{}, err
	}
	return Line{
		Kind: LineEntry,
		Entry: Entry{
			Timestamp: ts,
			Level:     p.levels.Intern(match[5]),
			Message:   match[6],
		},
	}, nil
}

func IsHeader(line string) bool {
	return headerPattern.MatchString(NormalizeLine(line))
}

func NormalizeLine(line string) string {
	line = strings.TrimPrefix(line, "\ufeff")
	return strings.TrimRight(line, "\r")
}

func parseTimestamp(datePart string, clockPart string, fraction string) (time.Time, error) {
	date, err := time.ParseInLocation(dateLayout, datePart, time.UTC)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: date %q: %v", ErrMalformedTimestamp, datePart, err)
	}
	clock, err := time.ParseInLocation(clockLayout, clockPart, time.UTC)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: time %q: %v", ErrMalformedTimestamp, clockPart, err)
	}
	nanos, err := parseFraction(fraction)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: fraction %q: %v", ErrMalformedTimestamp, fraction, err)
	}
	combined := time.Date(date.Year(), date.Month(), date.Day(), clock.Hour(), clock.Minute(), clock.Second(), nanos, time.UTC)
	return combined.Truncate(time.Microsecond), nil
}

func parseFraction(digits string) (int, error) {
	if len(digits) > maxFractionDigits {
		return 0, fmt.Errorf("more than %d digits", maxFractionDigits)
	}
	padded := digits + strings.Repeat("0", maxFractionDigits-len(digits))
	return strconv.Atoi(padded)
}
