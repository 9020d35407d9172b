package logstore

import (
	"errors"
	"fmt"
	"strings"
	"sync"
	"testing"
	"time"

	"logscope/internal/level"
	"logscope/internal/parser"
)

const bootHeader = "Mon Jan 02 2023 13:45:07.123456 [Error] - boot failed"

func TestIngestMergesContinuation(t *testing.T) {
	p := parser.New(level.NewRegistry())
	log := New("/var/log/app.txt")

	if _, err := log.Ingest(p, bootHeader); err != nil {
		t.Fatalf("Ingest(header) error = %v", err)
	}
	kind, err := log.Ingest(p, "  at frame 3")
	if err != nil {
		t.Fatalf("Ingest(continuation) error = %v", err)
	}
	if kind != parser.LineContinuation {
		t.Fatalf("kind = %s, want continuation", kind)
	}

	snap := log.Snapshot()
	if snap.Len() != 1 {
		t.Fatalf("entry count = %d, want 1", snap.Len())
	}
	if got, want := snap.At(0).Message, "boot failed\n  at frame 3"; got != want {
		t.Fatalf("Message = %q, want %q", got, want)
	}
}

func TestIngestOrphanContinuation(t *testing.T) {
	p := parser.New(level.NewRegistry())
	log := New("app.txt")

	_, err := log.Ingest(p, "  at frame 3")
	if !errors.Is(err, ErrOrphanContinuation) {
		t.Fatalf("Ingest() error = %v, want ErrOrphanContinuation", err)
	}
	if !errors.Is(err, ErrNoPriorEntry) {
		t.Fatalf("Ingest() error = %v, want wrapped ErrNoPriorEntry", err)
	}
	if log.Len() != 0 {
		t.Fatalf("entry count = %d, want 0", log.Len())
	}
	if log.Dropped() != 1 {
		t.Fatalf("Dropped() = %d, want 1", log.Dropped())
	}
}

func TestIngestMalformedTimestampIsDropped(t *testing.T) {
	p := parser.New(level.NewRegistry())
	log := New("app.txt")

	_, err := log.Ingest(p, "Mon Jan 02 2023 25:45:07.123456 [Error] - boot failed")
	if !errors.Is(err, parser.ErrMalformedTimestamp) {
		t.Fatalf("Ingest() error = %v, want ErrMalformedTimestamp", err)
	}
	if log.Len() != 0 {
		t.Fatalf("entry count = %d, want 0", log.Len())
	}

	if _, err := log.Ingest(p, bootHeader); err != nil {
		t.Fatalf("Ingest() after malformed line error = %v", err)
	}
	if log.Len() != 1 || log.Dropped() != 1 {
		t.Fatalf("Len()=%d Dropped()=%d, want 1 and 1", log.Len(), log.Dropped())
	}
}

func TestAppendLastOnEmptyLog(t *testing.T) {
	log := New("app.txt")
	if err := log.AppendLast("tail"); !errors.Is(err, ErrNoPriorEntry) {
		t.Fatalf("AppendLast() error = %v, want ErrNoPriorEntry", err)
	}
}

func TestSnapshotIsStableAcrossLaterWrites(t *testing.T) {
	log := New("app.txt")
	log.AddEntry(parser.Entry{Message: "first"})
	log.AddEntry(parser.Entry{Message: "second"})

	snap := log.Snapshot()
	if err := log.AppendLast("more"); err != nil {
		t.Fatalf("AppendLast() error = %v", err)
	}
	log.AddEntry(parser.Entry{Message: "third"})

	if snap.Len() != 2 {
		t.Fatalf("snapshot Len() = %d, want 2", snap.Len())
	}
	if got := snap.At(1).Message; got != "second" {
		t.Fatalf("snapshot last message = %q, want %q", got, "second")
	}
	if snap.Version >= log.Version() {
		t.Fatalf("version did not advance: snapshot %d, log %d", snap.Version, log.Version())
	}
	entries := log.Snapshot().Entries()
	if len(entries) != 3 || entries[1].Message != "second\nmore" {
		t.Fatalf("entries = %#v", entries)
	}
}

func TestEmptySnapshot(t *testing.T) {
	snap := New("app.txt").Snapshot()
	if snap.Len() != 0 {
		t.Fatalf("Len() = %d", snap.Len())
	}
	if _, ok := snap.Last(); ok {
		t.Fatalf("Last() reported an entry on an empty log")
	}
	if len(snap.Entries()) != 0 {
		t.Fatalf("Entries() not empty")
	}
}

func TestNameForPath(t *testing.T) {
	if got := New("/var/log/service/app.txt").Name(); got != "app.txt" {
		t.Fatalf("Name() = %q", got)
	}
}

func TestConcurrentWritersKeepFilesIndependent(t *testing.T) {
	levels := level.NewRegistry()
	p := parser.New(levels)
	logs := []*Log{New("a.txt"), New("b.txt")}
	const headers = 500
	const continuationsPerEntry = 2

	var wg sync.WaitGroup
	for idx, log := range logs {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range headers {
				ts := time.Date(2023, 1, 2, 13, 0, 0, 0, time.UTC).Add(time.Duration(i) * time.Second)
				header := fmt.Sprintf("%s [Info] - file%d-entry%d", ts.Format("Mon Jan 02 2006 15:04:05.000000"), idx, i)
				if _, err := log.Ingest(p, header); err != nil {
					t.Errorf("Ingest(%q) error = %v", header, err)
					return
				}
				for c := range continuationsPerEntry {
					if _, err := log.Ingest(p, fmt.Sprintf("  file%d-entry%d-cont%d", idx, i, c)); err != nil {
						t.Errorf("Ingest(continuation) error = %v", err)
						return
					}
				}
			}
		}()
	}
	wg.Wait()

	for idx, log := range logs {
		snap := log.Snapshot()
		if snap.Len() != headers {
			t.Fatalf("file %d entry count = %d, want %d", idx, snap.Len(), headers)
		}
		for i := range snap.Len() {
			msg := snap.At(i).Message
			want := fmt.Sprintf("file%d-entry%d\n  file%d-entry%d-cont0\n  file%d-entry%d-cont1", idx, i, idx, i, idx, i)
			if msg != want {
				t.Fatalf("file %d entry %d = %q, want %q", idx, i, msg, want)
			}
			other := fmt.Sprintf("file%d-", 1-idx)
			if strings.Contains(msg, other) {
				t.Fatalf("file %d entry %d contains text from the other file: %q", idx, i, msg)
			}
		}
	}
	if levels.Len() != 1 {
		t.Fatalf("levels Len() = %d, want 1", levels.Len())
	}
}
