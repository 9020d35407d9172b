package tailing

import (
	"errors"
	"os"
	"path/filepath"
	"slices"
	"testing"
)

func TestExtensionPattern(t *testing.T) {
	tests := map[string]string{
		"txt":  "**/*.[tT][xX][tT]",
		".log": "**/*.[lL][oO][gG]",
		"":     "**/*.[tT][xX][tT]",
		"l2":   "**/*.[lL]2",
		"a*":   `**/*.[aA]\*`,
	}
	for ext, want := range tests {
		if got := extensionPattern(ext); got != want {
			t.Fatalf("extensionPattern(%q) = %q, want %q", ext, got, want)
		}
	}
}

func TestExpandPathsDirectoryDepthFirst(t *testing.T) {
	root := t.TempDir()
	for _, dir := range []string{"a", "a/deep", "b"} {
		if err := os.MkdirAll(filepath.Join(root, dir), 0o755); err != nil {
			t.Fatalf("mkdir: %v", err)
		}
	}
	for _, name := range []string{"z.txt", "a/one.TXT", "a/deep/two.txt", "a-b.txt", "b/skip.log", "b/three.Txt"} {
		writeFile(t, filepath.Join(root, name), "")
	}

	paths, problems := ExpandPaths([]string{root}, "txt")
	if len(problems) != 0 {
		t.Fatalf("problems = %v", problems)
	}
	want := []string{
		filepath.Join(root, "a", "deep", "two.txt"),
		filepath.Join(root, "a", "one.TXT"),
		filepath.Join(root, "a-b.txt"),
		filepath.Join(root, "b", "three.Txt"),
		filepath.Join(root, "z.txt"),
	}
	if !slices.Equal(paths, want) {
		t.Fatalf("paths = %q\nwant %q", paths, want)
	}
}

func TestExpandPathsReportsProblemsAndKeepsGoing(t *testing.T) {
	root := t.TempDir()
	file := filepath.Join(root, "server.log")
	writeFile(t, file, "")
	empty := filepath.Join(root, "empty")
	if err := os.Mkdir(empty, 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}

	paths, problems := ExpandPaths([]string{
		filepath.Join(root, "missing.txt"),
		file,
		empty,
		file,
	}, "txt")

	if !slices.Equal(paths, []string{file}) {
		t.Fatalf("paths = %q", paths)
	}
	if len(problems) != 2 {
		t.Fatalf("problems = %v, want 2", problems)
	}
	if !errors.Is(problems[0], ErrPathNotFound) {
		t.Fatalf("problems[0] = %v, want ErrPathNotFound", problems[0])
	}
	if !errors.Is(problems[1], ErrNoLogFiles) {
		t.Fatalf("problems[1] = %v, want ErrNoLogFiles", problems[1])
	}
}

func TestExpandPathsUnreadableFile(t *testing.T) {
	if os.Geteuid() == 0 {
		t.Skip("root can read any file")
	}
	path := filepath.Join(t.TempDir(), "secret.txt")
	writeFile(t, path, "")
	if err := os.Chmod(path, 0o000); err != nil {
		t.Fatalf("chmod: %v", err)
	}

	paths, problems := ExpandPaths([]string{path}, "txt")
	if len(paths) != 0 {
		t.Fatalf("paths = %q, want none", paths)
	}
	if len(problems) != 1 || !errors.Is(problems[0], ErrNotReadable) {
		t.Fatalf("problems = %v, want ErrNotReadable", problems)
	}
}
