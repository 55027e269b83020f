package main

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"memekiosk/internal/config"
	"memekiosk/internal/daemon"
	"memekiosk/internal/ipc"
	"memekiosk/internal/logging"
	"memekiosk/internal/rotation"
	"memekiosk/internal/scheduler"
	"memekiosk/internal/testsupport"
)

type noopDisplay struct{}

func (noopDisplay) ShowMeme(context.Context, rotation.Item) error { return nil }

func (noopDisplay) ShowCommercial(context.Context, string) error { return nil }

func (noopDisplay) KillCommercial() {}

type cliTestEnv struct {
	cfg        *config.Config
	memes      *rotation.Queue
	daemon     *daemon.Daemon
	server     *ipc.Server
	socketPath string
	configPath string
}

func setupCLITestEnv(t *testing.T) *cliTestEnv {
	t.Helper()

	homeDir := filepath.Join(t.TempDir(), "home")
	if err := os.MkdirAll(homeDir, 0o755); err != nil {
		t.Fatalf("mkdir home: %v", err)
	}
	t.Setenv("HOME", homeDir)

	cfg := testsupport.NewConfig(t)
	testsupport.WriteMedia(t, cfg, "cat.jpg", "dog.png")

	configPath := filepath.Join(homeDir, ".config", "memekiosk", "config.toml")
	if err := os.MkdirAll(filepath.Dir(configPath), 0o755); err != nil {
		t.Fatalf("mkdir config dir: %v", err)
	}
	writeTestConfig(t, configPath, cfg)

	logger := logging.NewNop()
	memes := rotation.New("memes", nil, logger)
	watcher := scheduler.NewWatcher(scheduler.Options{
		MediaDir: cfg.Paths.MediaDir,
		Interval: time.Hour,
	}, memes, nil, noopDisplay{}, logger)

	d, err := daemon.New(daemon.Options{
		Config:  cfg,
		Memes:   memes,
		Watcher: watcher,
		Logger:  logger,
	})
	if err != nil {
		t.Fatalf("daemon.New: %v", err)
	}
	if err := d.Start(context.Background()); err != nil {
		t.Fatalf("daemon.Start: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	socketPath := cfg.SocketPath()
	srv, err := ipc.NewServer(ctx, socketPath, d, logger)
	if err != nil {
		cancel()
		d.Close()
		if strings.Contains(err.Error(), "operation not permitted") {
			t.Skipf("unix sockets unavailable: %v", err)
		}
		t.Fatalf("ipc.NewServer: %v", err)
	}
	srv.Serve()

	// The watcher displays one meme on its startup tick. Wait for it so
	// tests observe a settled rotation.
	deadline := time.Now().Add(5 * time.Second)
	for {
		if _, ok := d.LastMeme(); ok {
			break
		}
		if time.Now().After(deadline) {
			t.Fatal("timed out waiting for startup tick")
		}
		time.Sleep(10 * time.Millisecond)
	}

	env := &cliTestEnv{
		cfg:        cfg,
		memes:      memes,
		daemon:     d,
		server:     srv,
		socketPath: socketPath,
		configPath: configPath,
	}

	t.Cleanup(func() {
		cancel()
		srv.Close()
		d.Close()
	})

	return env
}

func runCLI(t *testing.T, args []string, socket, configPath string) (string, string, error) {
	t.Helper()
	cmd := newRootCommand()
	var stdout, stderr bytes.Buffer
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	flags := []string{"--socket", socket}
	if configPath != "" {
		flags = append(flags, "--config", configPath)
	}
	cmd.SetArgs(append(flags, args...))
	err := cmd.Execute()
	return stdout.String(), stderr.String(), err
}

func writeTestConfig(t *testing.T, path string, cfg *config.Config) {
	t.Helper()
	var content strings.Builder
	content.WriteString("[paths]\n")
	writeTOMLString(&content, "media_dir", cfg.Paths.MediaDir)
	writeTOMLString(&content, "state_dir", cfg.Paths.StateDir)
	writeTOMLString(&content, "api_bind", cfg.Paths.APIBind)
	if err := os.WriteFile(path, []byte(content.String()), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
}

func writeTOMLString(b *strings.Builder, key, value string) {
	b.WriteString(key)
	b.WriteString(" = \"")
	b.WriteString(value)
	b.WriteString("\"\n")
}

func requireContains(t *testing.T, output, substr string) {
	t.Helper()
	if !strings.Contains(output, substr) {
		t.Fatalf("expected %q to contain %q", output, substr)
	}
}
