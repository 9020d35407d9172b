package tailing

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"unicode"

	"github.com/bmatcuk/doublestar/v4"
)

const DefaultExtension = "txt"

// ExpandPaths resolves command-line arguments into the files to tail.
// Files are taken as given; directories contribute every file below them
// whose extension matches ext case-insensitively, in depth-first name order.
// Each argument that cannot be used yields one error and the rest still
// resolve. Duplicates keep their first position.
func ExpandPaths(args []string, ext string) ([]string, []error) {
	pattern := extensionPattern(ext)
	var (
		paths    []string
		problems []error
		seen     = map[string]struct{}{}
	)
	add := func(path string) {
		key := path
		if abs, err := filepath.Abs(path); err == nil {
			key = abs
		}
		if _, ok := seen[key]; ok {
			return
		}
		seen[key] = struct{}{}
		paths = append(paths, path)
	}

	for _, arg := range args {
		path := filepath.Clean(arg)
		info, err := os.Stat(path)
		if err != nil {
			problems = append(problems, statError(path, err))
			continue
		}
		if err := checkReadable(path); err != nil {
			problems = append(problems, fmt.Errorf("%s: %w: %w", path, ErrNotReadable, err))
			continue
		}
		if !info.IsDir() {
			add(path)
			continue
		}

		matches, err := expandDir(path, pattern)
		if err != nil {
			problems = append(problems, fmt.Errorf("%s: %w: %w", path, ErrNotReadable, err))
			continue
		}
		if len(matches) == 0 {
			problems = append(problems, fmt.Errorf("%s: %w (*.%s)", path, ErrNoLogFiles, strings.TrimPrefix(ext, ".")))
			continue
		}
		for _, match := range matches {
			if err := checkReadable(match); err != nil {
				problems = append(problems, fmt.Errorf("%s: %w: %w", match, ErrNotReadable, err))
				continue
			}
			add(match)
		}
	}
	return paths, problems
}

func expandDir(dir, pattern string) ([]string, error) {
	matches, err := doublestar.Glob(os.DirFS(dir), pattern, doublestar.WithFilesOnly())
	if err != nil {
		return nil, err
	}
	slices.SortFunc(matches, compareWalkOrder)
	out := make([]string, len(matches))
	for i, match := range matches {
		out[i] = filepath.Join(dir, filepath.FromSlash(match))
	}
	return out, nil
}

// compareWalkOrder orders slash-separated relative paths the way a
// depth-first walk visiting names in sorted order would.
func compareWalkOrder(a, b string) int {
	return slices.Compare(strings.Split(a, "/"), strings.Split(b, "/"))
}

// extensionPattern builds a glob matching ext in any letter case, so "txt"
// becomes "**/*.[tT][xX][tT]".
func extensionPattern(ext string) string {
	ext = strings.TrimPrefix(strings.TrimSpace(ext), ".")
	if ext == "" {
		ext = DefaultExtension
	}
	var b strings.Builder
	b.WriteString("**/*.")
	for _, r := range ext {
		lower, upper := unicode.ToLower(r), unicode.ToUpper(r)
		switch {
		case lower != upper:
			b.WriteByte('[')
			b.WriteRune(lower)
			b.WriteRune(upper)
			b.WriteByte(']')
		case strings.ContainsRune(`*?[]{}\`, r):
			b.WriteByte('\\')
			b.WriteRune(r)
		default:
			b.WriteRune(r)
		}
	}
	return b.String()
}

func statError(path string, err error) error {
	if errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("%s: %w", path, ErrPathNotFound)
	}
	return fmt.Errorf("%s: %w: %w", path, ErrNotReadable, err)
}
