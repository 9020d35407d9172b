package runctx

import (
	"context"
	"testing"

	"logscope/internal/logging"
)

func TestRecvOrDone(t *testing.T) {
	logger := logging.NewWithWriter(false, nil, false)
	in := make(chan int, 1)
	in <- 7
	if v, ok := RecvOrDone(context.Background(), "test", logger, in); !ok || v != 7 {
		t.Fatalf("RecvOrDone() = %d, %v", v, ok)
	}

	close(in)
	if _, ok := RecvOrDone(context.Background(), "test", logger, in); ok {
		t.Fatalf("RecvOrDone() on closed channel reported ok")
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, ok := RecvOrDone(ctx, "test", logger, make(chan int)); ok {
		t.Fatalf("RecvOrDone() with canceled context reported ok")
	}
}

func TestSendOrDone(t *testing.T) {
	logger := logging.NewWithWriter(false, nil, false)
	out := make(chan string, 1)
	if !SendOrDone(context.Background(), "test", logger, out, "a") {
		t.Fatalf("SendOrDone() = false with buffer space")
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if SendOrDone(ctx, "test", logger, out, "b") {
		t.Fatalf("SendOrDone() = true on full channel with canceled context")
	}
}

func TestSendLatestDropsOldest(t *testing.T) {
	out := make(chan int, 2)
	for i := range 5 {
		SendLatest(out, i)
	}
	if got := <-out; got != 3 {
		t.Fatalf("first = %d, want 3", got)
	}
	if got := <-out; got != 4 {
		t.Fatalf("second = %d, want 4", got)
	}
}
