package logs

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"time"
)

const defaultPollInterval = 250 * time.Millisecond

// TailOptions controls how much history Tail emits and whether it keeps
// watching the file for new lines.
type TailOptions struct {
	Lines  int
	Follow bool
	Poll   time.Duration
}

// Tail emits the last opts.Lines lines of the daemon log through emit. With
// Follow set it then polls the file and emits new lines until the context is
// cancelled. A missing file is not an error; when following, Tail waits for
// it to appear.
func Tail(ctx context.Context, path string, opts TailOptions, emit func(string)) error {
	if emit == nil {
		return errors.New("emit callback is required")
	}
	poll := opts.Poll
	if poll <= 0 {
		poll = defaultPollInterval
	}

	offset, err := emitTrailing(path, opts.Lines, emit)
	if err != nil {
		return err
	}
	if !opts.Follow {
		return nil
	}

	ticker := time.NewTicker(poll)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
		}

		offset, err = emitFrom(path, offset, emit)
		if err != nil {
			return err
		}
	}
}

// emitTrailing sends the last limit lines of the file and returns the offset
// of its current end.
func emitTrailing(path string, limit int, emit func(string)) (int64, error) {
	file, err := os.Open(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return 0, nil
		}
		return 0, fmt.Errorf("open log file: %w", err)
	}
	defer file.Close()

	scanner := newLineScanner(file)
	var ring []string
	count := 0
	for scanner.Scan() {
		if limit <= 0 {
			continue
		}
		if len(ring) < limit {
			ring = append(ring, scanner.Text())
		} else {
			ring[count%limit] = scanner.Text()
		}
		count++
	}
	if err := scanner.Err(); err != nil {
		return 0, fmt.Errorf("read log file: %w", err)
	}

	if count > limit {
		for i := 0; i < limit; i++ {
			emit(ring[(count+i)%limit])
		}
	} else {
		for _, line := range ring {
			emit(line)
		}
	}

	end, err := file.Seek(0, io.SeekEnd)
	if err != nil {
		return 0, fmt.Errorf("seek log file: %w", err)
	}
	return end, nil
}

// emitFrom sends every complete line past offset and returns the new offset.
// A truncated or rotated file restarts from the beginning.
func emitFrom(path string, offset int64, emit func(string)) (int64, error) {
	file, err := os.Open(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return 0, nil
		}
		return offset, fmt.Errorf("open log file: %w", err)
	}
	defer file.Close()

	info, err := file.Stat()
	if err != nil {
		return offset, fmt.Errorf("stat log file: %w", err)
	}
	if info.Size() < offset {
		offset = 0
	}

	if _, err := file.Seek(offset, io.SeekStart); err != nil {
		return offset, fmt.Errorf("seek log file: %w", err)
	}

	scanner := newLineScanner(file)
	for scanner.Scan() {
		emit(scanner.Text())
	}
	if err := scanner.Err(); err != nil {
		return offset, fmt.Errorf("read log file: %w", err)
	}

	end, err := file.Seek(0, io.SeekCurrent)
	if err != nil {
		return offset, fmt.Errorf("seek log file: %w", err)
	}
	return end, nil
}

func newLineScanner(r io.Reader) *bufio.Scanner {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	return scanner
}
