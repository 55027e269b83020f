// Package daemonrun wires the daemon process together: logging, state
// databases, queues, display loop, IPC, and signal handling.
package daemonrun

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"strconv"
	"syscall"

	"github.com/google/uuid"
	"github.com/natefinch/atomic"

	"memekiosk/internal/config"
	"memekiosk/internal/daemon"
	"memekiosk/internal/deps"
	"memekiosk/internal/display"
	"memekiosk/internal/ipc"
	"memekiosk/internal/logging"
	"memekiosk/internal/rotation"
	"memekiosk/internal/scheduler"
	"memekiosk/internal/statestore"
)

// Options configures daemon process runtime behavior.
type Options struct {
	LogLevel string
}

// Run starts the memekiosk daemon runtime loop and blocks until a signal or
// context cancellation shuts it down.
func Run(cmdCtx context.Context, cfg *config.Config, opts Options) error {
	if cfg == nil {
		return fmt.Errorf("config is required")
	}
	if err := cfg.EnsureDirectories(); err != nil {
		return err
	}

	signalCtx, cancel := signal.NotifyContext(cmdCtx, syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	level := opts.LogLevel
	if level == "" {
		level = cfg.Logging.Level
	}
	logger, err := logging.New(logging.Options{
		Level:       level,
		Format:      cfg.Logging.Format,
		OutputPaths: []string{"stdout", cfg.LogPath()},
	})
	if err != nil {
		return fmt.Errorf("init logger: %w", err)
	}

	sessionID := uuid.NewString()
	logger = logger.With(logging.String(logging.FieldSessionID, sessionID))
	logDependencySnapshot(logger, cfg)

	pidPath := cfg.PIDPath()
	if err := writePIDFile(pidPath); err != nil {
		return fmt.Errorf("write pid file: %w", err)
	}
	defer os.Remove(pidPath)

	memeStore := openStore(cfg.MemeStorePath(), logger)
	defer memeStore.Close()
	memes := rotation.New("memes", loadStatuses(memeStore, logger), logger)

	var (
		commercials     *rotation.Queue
		commercialStore *statestore.Store
	)
	if cfg.CommercialsEnabled() {
		commercialStore = openStore(cfg.CommercialStorePath(), logger)
		defer commercialStore.Close()
		commercials = rotation.New("commercials", loadStatuses(commercialStore, logger), logger)
	}

	player := display.New(cfg, logger)
	watcher := scheduler.NewWatcher(scheduler.Options{
		MediaDir:         cfg.Paths.MediaDir,
		CommercialDir:    cfg.Paths.CommercialDir,
		Interval:         cfg.DisplayInterval(),
		CommercialPeriod: cfg.Playback.CommercialPeriod,
	}, memes, commercials, player, logger)

	d, err := daemon.New(daemon.Options{
		Config:          cfg,
		Memes:           memes,
		Commercials:     commercials,
		MemeStore:       memeStore,
		CommercialStore: commercialStore,
		Watcher:         watcher,
		Logger:          logger,
	})
	if err != nil {
		return fmt.Errorf("create daemon: %w", err)
	}
	defer d.Close()

	ipcServer, err := ipc.NewServer(signalCtx, cfg.SocketPath(), d, logger)
	if err != nil {
		return fmt.Errorf("start IPC server: %w", err)
	}
	defer ipcServer.Close()
	ipcServer.Serve()

	if err := d.Start(signalCtx); err != nil {
		return fmt.Errorf("start daemon: %w", err)
	}

	<-signalCtx.Done()
	logger.Info("memekiosk daemon shutting down")
	return nil
}

// openStore never fails the daemon: a store that cannot be opened at all
// simply disables persistence for that queue.
func openStore(path string, logger *slog.Logger) *statestore.Store {
	store, err := statestore.Open(path, logger)
	if err != nil {
		logger.Warn("status database unavailable, persistence disabled",
			logging.String(logging.FieldPath, path),
			logging.Error(err))
		return nil
	}
	return store
}

func loadStatuses(store *statestore.Store, logger *slog.Logger) map[string]rotation.Status {
	if store == nil {
		return nil
	}
	statuses, err := store.Load(context.Background())
	if err != nil {
		logger.Warn("loading persisted statuses failed",
			logging.String(logging.FieldPath, store.Path()),
			logging.Error(err))
		return nil
	}
	return statuses
}

func writePIDFile(path string) error {
	if path == "" {
		return nil
	}
	value := strconv.Itoa(os.Getpid()) + "\n"
	return atomic.WriteFile(path, bytes.NewReader([]byte(value)))
}

func logDependencySnapshot(logger *slog.Logger, cfg *config.Config) {
	statuses := deps.CheckBinaries(deps.Requirements(cfg))
	for _, status := range statuses {
		logger.Info("dependency snapshot",
			logging.String("name", status.Name),
			logging.String("command", status.Command),
			logging.Bool("available", status.Available),
			logging.Bool("optional", status.Optional),
			logging.String("detail", status.Detail))
	}
}
