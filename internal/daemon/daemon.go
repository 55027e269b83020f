package daemon

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/gofrs/flock"

	"memekiosk/internal/config"
	"memekiosk/internal/logging"
	"memekiosk/internal/rotation"
	"memekiosk/internal/scheduler"
	"memekiosk/internal/statestore"
)

// Daemon coordinates the display loop and control surfaces and enforces
// single-instance execution.
type Daemon struct {
	cfg     *config.Config
	logger  *slog.Logger
	memes   *rotation.Queue
	ads     *rotation.Queue
	stores  map[*rotation.Queue]*statestore.Store
	watcher *scheduler.Watcher
	api     *apiServer

	lockPath string
	lock     *flock.Flock

	running atomic.Bool
	ctx     context.Context
	cancel  context.CancelFunc
	wg      sync.WaitGroup
}

// Options collects the daemon's collaborators. Commercials and the stores
// are optional; a nil store disables persistence for its queue.
type Options struct {
	Config          *config.Config
	Memes           *rotation.Queue
	Commercials     *rotation.Queue
	MemeStore       *statestore.Store
	CommercialStore *statestore.Store
	Watcher         *scheduler.Watcher
	Logger          *slog.Logger
}

// Status represents daemon runtime information.
type Status struct {
	Running            bool
	PID                int
	LockFilePath       string
	MemeCount          int
	BlockedMemes       int
	DisplayedMemes     int
	CommercialsEnabled bool
	CommercialCount    int
	LastMeme           *rotation.Item
}

// New constructs a daemon with initialized dependencies.
func New(opts Options) (*Daemon, error) {
	if opts.Config == nil || opts.Memes == nil || opts.Watcher == nil {
		return nil, errors.New("daemon requires config, meme queue, and watcher")
	}
	logger := opts.Logger
	if logger == nil {
		logger = logging.NewNop()
	}

	stores := make(map[*rotation.Queue]*statestore.Store)
	if opts.MemeStore != nil {
		stores[opts.Memes] = opts.MemeStore
	}
	if opts.Commercials != nil && opts.CommercialStore != nil {
		stores[opts.Commercials] = opts.CommercialStore
	}

	lockPath := opts.Config.LockPath()
	return &Daemon{
		cfg:      opts.Config,
		logger:   logger,
		memes:    opts.Memes,
		ads:      opts.Commercials,
		stores:   stores,
		watcher:  opts.Watcher,
		lockPath: lockPath,
		lock:     flock.New(lockPath),
	}, nil
}

// Start acquires the daemon lock and launches the display loop and the HTTP
// control surface.
func (d *Daemon) Start(ctx context.Context) error {
	if d.running.Load() {
		return errors.New("daemon already running")
	}

	ok, err := d.lock.TryLock()
	if err != nil {
		return fmt.Errorf("acquire lock: %w", err)
	}
	if !ok {
		return errors.New("another memekiosk daemon instance is already running")
	}

	d.ctx, d.cancel = context.WithCancel(ctx)

	api, err := newAPIServer(d.cfg, d, d.logger)
	if err != nil {
		d.releaseStart()
		return err
	}
	if api != nil {
		if err := api.start(d.ctx); err != nil {
			d.releaseStart()
			return err
		}
	}
	d.api = api

	d.wg.Add(1)
	go func() {
		defer d.wg.Done()
		_ = d.watcher.Run(d.ctx)
	}()

	d.running.Store(true)
	d.logger.Info("memekiosk daemon started", logging.String("lock", d.lockPath))
	return nil
}

func (d *Daemon) releaseStart() {
	_ = d.lock.Unlock()
	if d.cancel != nil {
		d.cancel()
	}
	d.ctx = nil
	d.cancel = nil
}

// Stop halts the display loop, persists queue statuses, and releases the
// lock. The swap makes concurrent callers (IPC stop racing a signal-path
// Close) run the shutdown exactly once.
func (d *Daemon) Stop() {
	if !d.running.CompareAndSwap(true, false) {
		return
	}

	if d.cancel != nil {
		d.cancel()
		d.cancel = nil
	}
	d.watcher.KillCommercial()
	d.wg.Wait()
	if d.api != nil {
		d.api.stop()
		d.api = nil
	}

	d.persistStatuses()

	if err := d.lock.Unlock(); err != nil {
		d.logger.Warn("failed to release daemon lock", logging.Error(err))
	}
	d.ctx = nil
	d.logger.Info("memekiosk daemon stopped")
}

// persistStatuses dumps each queue's path-to-status mapping. Failures cost
// the dump, never the shutdown.
func (d *Daemon) persistStatuses() {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	for queue, store := range d.stores {
		snapshot := queue.Snapshot()
		if err := store.Replace(ctx, snapshot); err != nil {
			d.logger.Warn("status dump failed",
				logging.String(logging.FieldPath, store.Path()),
				logging.Error(err))
			continue
		}
		d.logger.Info("statuses persisted",
			logging.String(logging.FieldPath, store.Path()),
			logging.Int("items", len(snapshot)))
	}
}

// Close stops the daemon and closes the status databases.
func (d *Daemon) Close() error {
	d.Stop()
	var errs []error
	for _, store := range d.stores {
		if err := store.Close(); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// Running reports whether the daemon has been started.
func (d *Daemon) Running() bool {
	return d.running.Load()
}

// Status reports runtime information for the control surfaces.
func (d *Daemon) Status() Status {
	status := Status{
		Running:        d.running.Load(),
		PID:            os.Getpid(),
		LockFilePath:   d.lockPath,
		MemeCount:      d.memes.Len(),
		BlockedMemes:   d.memes.Blocked(),
		DisplayedMemes: d.memes.Displayed(),
	}
	if d.ads != nil {
		status.CommercialsEnabled = true
		status.CommercialCount = d.ads.Len()
	}
	if last, ok := d.LastMeme(); ok {
		status.LastMeme = &last
	}
	return status
}

// RecentMemes returns the last n displayed memes, most recent last.
func (d *Daemon) RecentMemes(n int) []rotation.Item {
	return d.memes.RecentHistory(n)
}

// LastMeme returns the most recently displayed meme.
func (d *Daemon) LastMeme() (rotation.Item, bool) {
	recent := d.memes.RecentHistory(1)
	if len(recent) == 0 {
		return rotation.Item{}, false
	}
	return recent[0], true
}

// BlockMeme blocks a meme by file name. A name the rotation does not track
// is a no-op, not a failure: reporters race rescans and deletions.
func (d *Daemon) BlockMeme(name string) error {
	path, err := d.MemeFilePath(name)
	if err != nil {
		return err
	}
	if !d.memes.Block(path) {
		d.logger.Debug("block request for untracked meme", logging.String("name", name))
	}
	return nil
}

// MemeFilePath resolves a meme file name to its path under the watched
// directory. Names that would escape the directory are rejected.
func (d *Daemon) MemeFilePath(name string) (string, error) {
	cleaned := strings.TrimSpace(name)
	if cleaned == "" {
		return "", errors.New("meme name required")
	}
	if cleaned != filepath.Base(cleaned) || cleaned == "." || cleaned == ".." {
		return "", fmt.Errorf("invalid meme name %q", name)
	}
	return filepath.Join(d.cfg.Paths.MediaDir, cleaned), nil
}

// RequestCommercial schedules a commercial for the next display tick.
func (d *Daemon) RequestCommercial() {
	d.watcher.RequestCommercial()
}

// KillCommercial stops an in-flight commercial.
func (d *Daemon) KillCommercial() {
	d.watcher.KillCommercial()
}

// Registry lists every tracked item per queue, blocked entries included.
func (d *Daemon) Registry() (memes, commercials []rotation.Item) {
	memes = d.memes.Items()
	if d.ads != nil {
		commercials = d.ads.Items()
	}
	return memes, commercials
}
