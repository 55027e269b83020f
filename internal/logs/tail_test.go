package logs_test

import (
	"context"
	"os"
	"path/filepath"
	"reflect"
	"testing"
	"time"

	"memekiosk/internal/logs"
)

func writeLog(t *testing.T, lines string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "memekiosk.log")
	if err := os.WriteFile(path, []byte(lines), 0o644); err != nil {
		t.Fatalf("write log: %v", err)
	}
	return path
}

func TestTailEmitsTrailingLines(t *testing.T) {
	path := writeLog(t, "one\ntwo\nthree\nfour\n")

	var got []string
	err := logs.Tail(context.Background(), path, logs.TailOptions{Lines: 2}, func(line string) {
		got = append(got, line)
	})
	if err != nil {
		t.Fatalf("Tail: %v", err)
	}
	want := []string{"three", "four"}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("lines = %v, want %v", got, want)
	}
}

func TestTailLimitLargerThanFile(t *testing.T) {
	path := writeLog(t, "only\n")

	var got []string
	err := logs.Tail(context.Background(), path, logs.TailOptions{Lines: 10}, func(line string) {
		got = append(got, line)
	})
	if err != nil {
		t.Fatalf("Tail: %v", err)
	}
	if !reflect.DeepEqual(got, []string{"only"}) {
		t.Fatalf("lines = %v, want [only]", got)
	}
}

func TestTailMissingFileIsNotAnError(t *testing.T) {
	path := filepath.Join(t.TempDir(), "absent.log")

	err := logs.Tail(context.Background(), path, logs.TailOptions{Lines: 5}, func(string) {
		t.Fatal("no lines expected")
	})
	if err != nil {
		t.Fatalf("Tail: %v", err)
	}
}

func TestTailFollowPicksUpAppendedLines(t *testing.T) {
	path := writeLog(t, "first\n")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	lines := make(chan string, 8)
	done := make(chan error, 1)
	go func() {
		done <- logs.Tail(ctx, path, logs.TailOptions{Lines: 1, Follow: true, Poll: 10 * time.Millisecond}, func(line string) {
			lines <- line
		})
	}()

	waitLine := func(want string) {
		t.Helper()
		select {
		case line := <-lines:
			if line != want {
				t.Fatalf("line = %q, want %q", line, want)
			}
		case <-time.After(5 * time.Second):
			t.Fatalf("timed out waiting for %q", want)
		}
	}

	waitLine("first")

	f, err := os.OpenFile(path, os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		t.Fatalf("open log: %v", err)
	}
	if _, err := f.WriteString("second\n"); err != nil {
		t.Fatalf("append log: %v", err)
	}
	f.Close()

	waitLine("second")

	cancel()
	if err := <-done; err != context.Canceled {
		t.Fatalf("Tail returned %v, want context.Canceled", err)
	}
}

func TestTailFollowHandlesTruncation(t *testing.T) {
	path := writeLog(t, "old one\nold two\n")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	lines := make(chan string, 8)
	go func() {
		_ = logs.Tail(ctx, path, logs.TailOptions{Follow: true, Poll: 10 * time.Millisecond}, func(line string) {
			lines <- line
		})
	}()

	// Give the tail a beat to record the current end of file.
	time.Sleep(50 * time.Millisecond)

	if err := os.WriteFile(path, []byte("fresh\n"), 0o644); err != nil {
		t.Fatalf("truncate log: %v", err)
	}

	select {
	case line := <-lines:
		if line != "fresh" {
			t.Fatalf("line = %q, want %q", line, "fresh")
		}
	case <-time.After(5 * time.Second):
		t.Fatal("timed out waiting for line after truncation")
	}
}
