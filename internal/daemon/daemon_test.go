package daemon_test

import (
	"context"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"memekiosk/internal/config"
	"memekiosk/internal/daemon"
	"memekiosk/internal/rotation"
	"memekiosk/internal/scheduler"
	"memekiosk/internal/statestore"
)

type noopDisplay struct{}

func (noopDisplay) ShowMeme(context.Context, rotation.Item) error { return nil }
func (noopDisplay) ShowCommercial(context.Context, string) error  { return nil }
func (noopDisplay) KillCommercial()                               {}

func testConfig(t *testing.T) *config.Config {
	t.Helper()
	cfg := config.Default()
	cfg.Paths.MediaDir = t.TempDir()
	cfg.Paths.StateDir = t.TempDir()
	cfg.Paths.APIBind = "127.0.0.1:0"
	return &cfg
}

func writeMeme(t *testing.T, cfg *config.Config, name string) string {
	t.Helper()
	path := filepath.Join(cfg.Paths.MediaDir, name)
	if err := os.WriteFile(path, []byte("media"), 0o644); err != nil {
		t.Fatalf("write %s: %v", name, err)
	}
	return path
}

func newDaemon(t *testing.T, cfg *config.Config, memes *rotation.Queue, store *statestore.Store) *daemon.Daemon {
	t.Helper()
	watcher := scheduler.NewWatcher(scheduler.Options{
		MediaDir: cfg.Paths.MediaDir,
		Interval: time.Hour,
	}, memes, nil, noopDisplay{}, nil)

	d, err := daemon.New(daemon.Options{
		Config:    cfg,
		Memes:     memes,
		MemeStore: store,
		Watcher:   watcher,
	})
	if err != nil {
		t.Fatalf("daemon.New: %v", err)
	}
	t.Cleanup(func() {
		_ = d.Close()
	})
	return d
}

func TestDaemonStartStop(t *testing.T) {
	cfg := testConfig(t)
	memes := rotation.New("memes", nil, nil)
	d := newDaemon(t, cfg, memes, nil)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if err := d.Start(ctx); err != nil {
		t.Fatalf("Start failed: %v", err)
	}
	if !d.Status().Running {
		t.Fatal("expected daemon to report running")
	}

	// Second start should fail
	if err := d.Start(ctx); err == nil {
		t.Fatal("expected second start to fail")
	}

	d.Stop()
	if d.Status().Running {
		t.Fatal("expected daemon to be stopped")
	}
}

func TestDaemonStopRunsShutdownOnce(t *testing.T) {
	cfg := testConfig(t)
	memes := rotation.New("memes", nil, nil)
	d := newDaemon(t, cfg, memes, nil)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if err := d.Start(ctx); err != nil {
		t.Fatalf("Start failed: %v", err)
	}

	var wg sync.WaitGroup
	for i := 0; i < 4; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			d.Stop()
		}()
	}
	wg.Wait()

	if d.Running() {
		t.Fatal("expected daemon to be stopped")
	}
	if err := d.Close(); err != nil {
		t.Fatalf("Close after concurrent stops: %v", err)
	}
}

func TestDaemonPersistsStatusesOnStop(t *testing.T) {
	cfg := testConfig(t)
	memePath := writeMeme(t, cfg, "cat.jpg")

	store, err := statestore.Open(cfg.MemeStorePath(), nil)
	if err != nil {
		t.Fatalf("statestore.Open: %v", err)
	}

	memes := rotation.New("memes", nil, nil)
	memes.Enqueue(memePath, true)
	d := newDaemon(t, cfg, memes, store)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if err := d.Start(ctx); err != nil {
		t.Fatalf("Start failed: %v", err)
	}
	if err := d.BlockMeme("cat.jpg"); err != nil {
		t.Fatalf("BlockMeme failed: %v", err)
	}
	if err := d.Close(); err != nil {
		t.Fatalf("Close failed: %v", err)
	}

	reopened, err := statestore.Open(cfg.MemeStorePath(), nil)
	if err != nil {
		t.Fatalf("reopen store: %v", err)
	}
	defer reopened.Close()

	statuses, err := reopened.Load(context.Background())
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if statuses[memePath] != rotation.StatusPending {
		t.Fatalf("expected blocked status persisted, got %v", statuses)
	}
}

func TestBlockMemeRejectsEscapingNames(t *testing.T) {
	cfg := testConfig(t)
	memes := rotation.New("memes", nil, nil)
	d := newDaemon(t, cfg, memes, nil)

	for _, name := range []string{"", "..", "../etc/passwd", "sub/dir.jpg"} {
		if err := d.BlockMeme(name); err == nil {
			t.Fatalf("expected error for name %q", name)
		}
	}
}

func TestBlockMemeUnknownNameIsNoOp(t *testing.T) {
	cfg := testConfig(t)
	memePath := writeMeme(t, cfg, "cat.jpg")

	memes := rotation.New("memes", nil, nil)
	memes.Enqueue(memePath, true)
	d := newDaemon(t, cfg, memes, nil)

	if err := d.BlockMeme("nope.jpg"); err != nil {
		t.Fatalf("expected untracked name to be a no-op, got %v", err)
	}
	snapshot := memes.Snapshot()
	if len(snapshot) != 1 || snapshot[memePath] != rotation.StatusNormal {
		t.Fatalf("expected rotation untouched, got %v", snapshot)
	}
}

func TestRegistryListsQueues(t *testing.T) {
	cfg := testConfig(t)
	memePath := writeMeme(t, cfg, "cat.jpg")

	memes := rotation.New("memes", nil, nil)
	memes.Enqueue(memePath, true)
	d := newDaemon(t, cfg, memes, nil)

	items, commercials := d.Registry()
	if len(items) != 1 || items[0].Name() != "cat.jpg" {
		t.Fatalf("unexpected meme registry: %v", items)
	}
	if commercials != nil {
		t.Fatalf("expected no commercial registry, got %v", commercials)
	}
}
