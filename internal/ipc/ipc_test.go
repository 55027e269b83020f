package ipc_test

import (
	"context"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"memekiosk/internal/daemon"
	"memekiosk/internal/ipc"
	"memekiosk/internal/rotation"
	"memekiosk/internal/scheduler"
	"memekiosk/internal/testsupport"
)

type noopDisplay struct{}

func (noopDisplay) ShowMeme(context.Context, rotation.Item) error { return nil }
func (noopDisplay) ShowCommercial(context.Context, string) error  { return nil }
func (noopDisplay) KillCommercial()                               {}

func TestIPCServerClient(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	paths := testsupport.WriteMedia(t, cfg, "cat.jpg", "dog.jpg")

	memes := rotation.New("memes", nil, nil)
	for _, path := range paths {
		memes.Enqueue(path, true)
	}
	watcher := scheduler.NewWatcher(scheduler.Options{
		MediaDir: cfg.Paths.MediaDir,
		Interval: time.Hour,
	}, memes, nil, noopDisplay{}, nil)

	d, err := daemon.New(daemon.Options{Config: cfg, Memes: memes, Watcher: watcher})
	if err != nil {
		t.Fatalf("daemon.New: %v", err)
	}
	t.Cleanup(func() {
		_ = d.Close()
	})

	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)

	if err := d.Start(ctx); err != nil {
		t.Fatalf("daemon.Start: %v", err)
	}

	socket := filepath.Join(cfg.Paths.StateDir, "memekiosk.sock")
	srv, err := ipc.NewServer(ctx, socket, d, nil)
	if err != nil {
		if strings.Contains(err.Error(), "operation not permitted") {
			t.Skipf("skipping IPC server test: %v", err)
		}
		t.Fatalf("ipc.NewServer: %v", err)
	}
	srv.Serve()
	t.Cleanup(func() {
		srv.Close()
	})

	time.Sleep(50 * time.Millisecond)

	client, err := ipc.Dial(socket)
	if err != nil {
		t.Fatalf("ipc.Dial: %v", err)
	}
	t.Cleanup(func() {
		client.Close()
	})

	status, err := client.Status()
	if err != nil {
		t.Fatalf("Status RPC failed: %v", err)
	}
	if !status.Running {
		t.Fatal("expected daemon to be running")
	}
	if status.MemeCount != 2 {
		t.Fatalf("expected 2 memes, got %d", status.MemeCount)
	}

	last, err := client.LastMeme()
	if err != nil {
		t.Fatalf("LastMeme RPC failed: %v", err)
	}
	if last.Found {
		t.Fatalf("expected no meme shown yet, got %+v", last.Meme)
	}

	memes.Next()
	recent, err := client.Recent(5)
	if err != nil {
		t.Fatalf("Recent RPC failed: %v", err)
	}
	if len(recent.Memes) != 1 {
		t.Fatalf("expected 1 recent meme, got %d", len(recent.Memes))
	}

	block, err := client.Block("cat.jpg")
	if err != nil {
		t.Fatalf("Block RPC failed: %v", err)
	}
	if !block.Blocked {
		t.Fatalf("expected block to succeed: %s", block.Message)
	}

	block, err = client.Block("nope.jpg")
	if err != nil {
		t.Fatalf("Block RPC failed: %v", err)
	}
	if !block.Blocked {
		t.Fatalf("expected untracked name to be acknowledged: %s", block.Message)
	}

	block, err = client.Block("../escape.jpg")
	if err != nil {
		t.Fatalf("Block RPC failed: %v", err)
	}
	if block.Blocked {
		t.Fatal("expected block to fail for an escaping name")
	}

	if _, err := client.AskCommercial(); err != nil {
		t.Fatalf("AskCommercial RPC failed: %v", err)
	}
	if _, err := client.KillCommercial(); err != nil {
		t.Fatalf("KillCommercial RPC failed: %v", err)
	}

	registry, err := client.Registry()
	if err != nil {
		t.Fatalf("Registry RPC failed: %v", err)
	}
	if len(registry.Memes) != 2 {
		t.Fatalf("expected 2 registry entries, got %d", len(registry.Memes))
	}
	blocked := 0
	for _, view := range registry.Memes {
		if view.Status == string(rotation.StatusPending) {
			blocked++
		}
	}
	if blocked != 1 {
		t.Fatalf("expected 1 blocked registry entry, got %d", blocked)
	}

	stop, err := client.Stop()
	if err != nil {
		t.Fatalf("Stop RPC failed: %v", err)
	}
	if !stop.Stopped {
		t.Fatal("expected stop to be acknowledged")
	}
	status, err = client.Status()
	if err != nil {
		t.Fatalf("Status RPC failed: %v", err)
	}
	if status.Running {
		t.Fatal("expected daemon to be stopped")
	}
}
