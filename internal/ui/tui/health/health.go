package health

import (
	"fmt"
	"os"
	"path/filepath"
	"time"
)

const RefreshRate = 30 * time.Second

const (
	warnAfter  = 10 * time.Minute
	staleAfter = time.Hour
)

type Kind int

const (
	Missing Kind = iota
	Active
	Warn
	Stale
)

type Row struct {
	Path   string
	Kind   Kind
	Reason string
}

// Compute classifies each followed file by how recently it was modified.
func Compute(paths []string, now time.Time) []Row {
	rows := make([]Row, 0, len(paths))
	for _, path := range paths {
		row := Row{Path: path, Kind: Missing, Reason: "File is missing."}
		info, err := os.Stat(path)
		if err != nil {
			if !os.IsNotExist(err) {
				row.Reason = "File is not accessible: " + err.Error()
			}
			rows = append(rows, row)
			continue
		}
		name := filepath.Base(path)
		age := max(now.Sub(info.ModTime()), 0).Round(time.Second)
		switch {
		case age <= warnAfter:
			row.Kind = Active
			row.Reason = fmt.Sprintf("%s updated %s ago.", name, age)
		case age <= staleAfter:
			row.Kind = Warn
			row.Reason = fmt.Sprintf("%s has no updates for %s.", name, age)
		default:
			row.Kind = Stale
			row.Reason = fmt.Sprintf("%s has no updates for %s.", name, age)
		}
		rows = append(rows, row)
	}
	return rows
}

// ByPath indexes rows by file path.
func ByPath(rows []Row) map[string]Row {
	out := make(map[string]Row, len(rows))
	for _, row := range rows {
		out[row.Path] = row
	}
	return out
}
