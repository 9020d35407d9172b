package tailing

import (
	"bytes"
	"io"
	"os"
)

// ReadNewLines returns the complete lines appended since Offset and moves
// Offset past them. A trailing line without a newline stays unread until it
// is finished. When the file shrank below Offset it is reread from the start
// and truncated is true.
func (t *Tailer) ReadNewLines() (lines []string, truncated bool, err error) {
	data, truncated, err := t.readFromOffset()
	if err != nil {
		return nil, truncated, err
	}
	end := bytes.LastIndexByte(data, '\n')
	if end < 0 {
		return nil, truncated, nil
	}
	t.Offset += int64(end + 1)
	return splitLines(data[:end]), truncated, nil
}

// Pending reports how many bytes sit between Offset and the end of the
// file. After ReadNewLines this is the unfinished last line.
func (t *Tailer) Pending() (int64, error) {
	info, err := os.Stat(t.Path)
	if err != nil {
		return 0, err
	}
	return max(info.Size()-t.Offset, 0), nil
}

// ReadPartial consumes an unfinished last line and moves Offset to the end
// of the file. It returns false when nothing is pending or when a newline
// arrived in the meantime; ReadNewLines owns complete lines.
func (t *Tailer) ReadPartial() (string, bool, error) {
	data, _, err := t.readFromOffset()
	if err != nil {
		return "", false, err
	}
	if len(data) == 0 || bytes.IndexByte(data, '\n') >= 0 {
		return "", false, nil
	}
	t.Offset += int64(len(data))
	return string(data), true, nil
}

func (t *Tailer) readFromOffset() ([]byte, bool, error) {
	file, err := os.Open(t.Path)
	if err != nil {
		return nil, false, err
	}
	defer file.Close()

	info, err := file.Stat()
	if err != nil {
		return nil, false, err
	}
	truncated := false
	if info.Size() < t.Offset {
		t.Offset = 0
		truncated = true
	}
	if _, err := file.Seek(t.Offset, io.SeekStart); err != nil {
		return nil, truncated, err
	}
	data, err := io.ReadAll(file)
	if err != nil {
		return nil, truncated, err
	}
	return data, truncated, nil
}

func splitLines(data []byte) []string {
	parts := bytes.Split(data, []byte{'\n'})
	lines := make([]string, len(parts))
	for i, part := range parts {
		lines[i] = string(part)
	}
	return lines
}
