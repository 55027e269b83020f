package scheduler

import (
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"time"

	"memekiosk/internal/logging"
	"memekiosk/internal/rotation"
)

// Display is the playback surface the watcher drives.
type Display interface {
	ShowMeme(ctx context.Context, item rotation.Item) error
	ShowCommercial(ctx context.Context, path string) error
	KillCommercial()
}

// Watcher runs the display loop: rescan the source directories, pick what to
// put on screen, advance the tick counter, sleep, repeat.
type Watcher struct {
	mediaDir         string
	commercialDir    string
	interval         time.Duration
	commercialPeriod int

	memes       *rotation.Queue
	commercials *rotation.Queue
	display     Display
	logger      *slog.Logger

	mu             sync.Mutex
	tick           int
	wantCommercial bool
}

// Options carries the directories and cadence for a watcher.
type Options struct {
	MediaDir         string
	CommercialDir    string
	Interval         time.Duration
	CommercialPeriod int
}

// NewWatcher constructs a watcher. The commercials queue may be nil when no
// commercial directory is configured.
func NewWatcher(opts Options, memes, commercials *rotation.Queue, display Display, logger *slog.Logger) *Watcher {
	if logger == nil {
		logger = logging.NewNop()
	}
	return &Watcher{
		mediaDir:         opts.MediaDir,
		commercialDir:    opts.CommercialDir,
		interval:         opts.Interval,
		commercialPeriod: opts.CommercialPeriod,
		memes:            memes,
		commercials:      commercials,
		display:          display,
		logger:           logger,
		tick:             1,
	}
}

// RequestCommercial schedules a commercial for the next tick. Repeated
// requests before that tick collapse into one.
func (w *Watcher) RequestCommercial() {
	w.mu.Lock()
	w.wantCommercial = true
	w.mu.Unlock()
}

// KillCommercial stops any in-flight commercial playback.
func (w *Watcher) KillCommercial() {
	w.display.KillCommercial()
}

// Run scans the source directories and then ticks until ctx is cancelled.
// The interval is suspension between ticks, not a fixed cadence: playback
// blocks for as long as it blocks, and the full interval elapses after each
// tick so whatever is on screen stays there at least that long.
func (w *Watcher) Run(ctx context.Context) error {
	w.scan(true)
	w.logger.Info("display loop started",
		logging.Int("memes", w.memes.Len()),
		logging.String("interval", w.interval.String()))

	for {
		w.Tick(ctx)

		timer := time.NewTimer(w.interval)
		select {
		case <-ctx.Done():
			timer.Stop()
			return ctx.Err()
		case <-timer.C:
		}
	}
}

// Tick performs one scheduling round: rescan, pick, display, advance.
func (w *Watcher) Tick(ctx context.Context) {
	w.scan(false)

	onDemand, periodic, tick := w.decide()
	switch {
	case onDemand:
		w.logger.Info("commercial requested", logging.Int(logging.FieldTick, tick))
		w.showCommercial(ctx)
	case periodic:
		w.logger.Info("commercial break", logging.Int(logging.FieldTick, tick))
		w.showCommercial(ctx)
	default:
		item, ok := w.memes.Next()
		if !ok {
			w.logger.Debug("nothing to display", logging.Int(logging.FieldTick, tick))
			break
		}
		w.logger.Info("showing meme",
			logging.Int(logging.FieldTick, tick),
			logging.String(logging.FieldPath, item.Path),
			logging.Bool("first_display", item.WasNew))
		if err := w.display.ShowMeme(ctx, item); err != nil {
			w.logger.Warn("meme display failed",
				logging.String(logging.FieldPath, item.Path),
				logging.Error(err))
		}
	}

	w.mu.Lock()
	w.tick++
	w.mu.Unlock()
}

// decide consumes the on-demand flag and evaluates the periodic trigger for
// the current tick. An on-demand commercial restarts the periodic countdown.
func (w *Watcher) decide() (onDemand, periodic bool, tick int) {
	w.mu.Lock()
	defer w.mu.Unlock()

	tick = w.tick
	enabled := w.commercials != nil
	if w.wantCommercial && enabled {
		w.wantCommercial = false
		w.tick = 0
		return true, false, tick
	}
	periodic = enabled && w.commercialPeriod > 0 && tick > 0 && tick%w.commercialPeriod == 0
	return false, periodic, tick
}

func (w *Watcher) showCommercial(ctx context.Context) {
	item, ok := w.commercials.Next()
	if !ok {
		w.logger.Warn("no commercial available")
		return
	}
	if err := w.display.ShowCommercial(ctx, item.Path); err != nil {
		w.logger.Warn("commercial playback failed",
			logging.String(logging.FieldPath, item.Path),
			logging.Error(err))
	}
}

// scan enqueues every regular file found in the source directories. Listing
// failures are logged and the previous queue contents stay in rotation.
func (w *Watcher) scan(initial bool) {
	w.scanDir(w.mediaDir, w.memes, initial)
	if w.commercials != nil {
		w.scanDir(w.commercialDir, w.commercials, initial)
	}
}

func (w *Watcher) scanDir(dir string, queue *rotation.Queue, initial bool) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		w.logger.Warn("scan failed",
			logging.String(logging.FieldPath, dir),
			logging.Error(err))
		return
	}
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		queue.Enqueue(filepath.Join(dir, entry.Name()), initial)
	}
}
