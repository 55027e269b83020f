package config_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/pelletier/go-toml/v2"

	"memekiosk/internal/config"
)

func TestLoadDefaultsExpandPaths(t *testing.T) {
	tempHome := t.TempDir()
	t.Setenv("HOME", tempHome)

	configDir := filepath.Join(tempHome, ".config", "memekiosk")
	if err := os.MkdirAll(configDir, 0o755); err != nil {
		t.Fatalf("mkdir config dir: %v", err)
	}
	body := "[paths]\nmedia_dir = \"~/memes\"\n"
	if err := os.WriteFile(filepath.Join(configDir, "config.toml"), []byte(body), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	cfg, resolved, exists, err := config.Load("")
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if !exists {
		t.Fatal("expected config file to be found")
	}
	if resolved != filepath.Join(configDir, "config.toml") {
		t.Fatalf("unexpected resolved path: %q", resolved)
	}
	if cfg.Paths.MediaDir != filepath.Join(tempHome, "memes") {
		t.Fatalf("unexpected media dir: %q", cfg.Paths.MediaDir)
	}
	if cfg.Paths.StateDir != filepath.Join(tempHome, ".local", "share", "memekiosk") {
		t.Fatalf("unexpected state dir: %q", cfg.Paths.StateDir)
	}
	if cfg.Paths.APIBind != "0.0.0.0:8080" {
		t.Fatalf("unexpected api bind: %q", cfg.Paths.APIBind)
	}
	if cfg.Playback.DisplaySeconds != 5 {
		t.Fatalf("unexpected display seconds: %d", cfg.Playback.DisplaySeconds)
	}
	if cfg.CommercialsEnabled() {
		t.Fatal("expected commercials disabled by default")
	}
	if cfg.Playback.Viewer != "feh" || cfg.Playback.Player != "cvlc" {
		t.Fatalf("unexpected playback binaries: %q %q", cfg.Playback.Viewer, cfg.Playback.Player)
	}
	if cfg.Logging.Format != "console" || cfg.Logging.Level != "info" {
		t.Fatalf("unexpected logging defaults: %q %q", cfg.Logging.Format, cfg.Logging.Level)
	}
	if err := cfg.EnsureDirectories(); err != nil {
		t.Fatalf("EnsureDirectories failed: %v", err)
	}
	info, err := os.Stat(cfg.Paths.StateDir)
	if err != nil {
		t.Fatalf("expected state dir to exist: %v", err)
	}
	if !info.IsDir() {
		t.Fatalf("expected %q to be directory", cfg.Paths.StateDir)
	}
}

func TestLoadMissingMediaDirFails(t *testing.T) {
	tempHome := t.TempDir()
	t.Setenv("HOME", tempHome)

	_, _, _, err := config.Load("")
	if err == nil {
		t.Fatal("expected error when media_dir is unset")
	}
	if !strings.Contains(err.Error(), "paths.media_dir") {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestLoadCustomPath(t *testing.T) {
	tempDir := t.TempDir()
	configPath := filepath.Join(tempDir, "memekiosk.toml")

	custom := config.Default()
	custom.Paths.MediaDir = filepath.Join(tempDir, "memes")
	custom.Paths.CommercialDir = filepath.Join(tempDir, "ads")
	custom.Playback.CommercialPeriod = 4
	custom.Playback.DisplaySeconds = 2
	custom.Logging.Format = "json"

	encoded, err := toml.Marshal(custom)
	if err != nil {
		t.Fatalf("marshal config: %v", err)
	}
	if err := os.WriteFile(configPath, encoded, 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	cfg, resolved, exists, err := config.Load(configPath)
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if !exists {
		t.Fatal("expected config file to exist")
	}
	if resolved != configPath {
		t.Fatalf("unexpected resolved path: %q", resolved)
	}
	if cfg.Paths.CommercialDir != custom.Paths.CommercialDir {
		t.Fatalf("unexpected commercial dir: %q", cfg.Paths.CommercialDir)
	}
	if !cfg.CommercialsEnabled() {
		t.Fatal("expected commercials enabled")
	}
	if cfg.Playback.CommercialPeriod != 4 {
		t.Fatalf("unexpected commercial period: %d", cfg.Playback.CommercialPeriod)
	}
	if cfg.DisplayInterval().Seconds() != 2 {
		t.Fatalf("unexpected display interval: %s", cfg.DisplayInterval())
	}
	if cfg.Logging.Format != "json" {
		t.Fatalf("unexpected log format: %q", cfg.Logging.Format)
	}

	wantStore := filepath.Join(cfg.Paths.StateDir, "memes.db")
	if cfg.MemeStorePath() != wantStore {
		t.Fatalf("unexpected meme store path: %q", cfg.MemeStorePath())
	}
	if filepath.Base(cfg.CommercialStorePath()) != "commercials.db" {
		t.Fatalf("unexpected commercial store path: %q", cfg.CommercialStorePath())
	}
	if filepath.Base(cfg.SocketPath()) != "memekiosk.sock" {
		t.Fatalf("unexpected socket path: %q", cfg.SocketPath())
	}
}

func TestValidateRejectsBadPlayback(t *testing.T) {
	base := func() config.Config {
		cfg := config.Default()
		cfg.Paths.MediaDir = "/srv/memes"
		return cfg
	}

	cases := []struct {
		name    string
		mutate  func(*config.Config)
		wantErr string
	}{
		{
			name:    "zero display seconds",
			mutate:  func(c *config.Config) { c.Playback.DisplaySeconds = -1 },
			wantErr: "display_seconds",
		},
		{
			name: "commercials without period",
			mutate: func(c *config.Config) {
				c.Paths.CommercialDir = "/srv/ads"
				c.Playback.CommercialPeriod = 0
			},
			wantErr: "commercial_period",
		},
		{
			name:    "missing viewer",
			mutate:  func(c *config.Config) { c.Playback.Viewer = " " },
			wantErr: "viewer",
		},
		{
			name:    "missing player",
			mutate:  func(c *config.Config) { c.Playback.Player = "" },
			wantErr: "player",
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			cfg := base()
			tc.mutate(&cfg)
			err := cfg.Validate()
			if err == nil {
				t.Fatal("expected validation error")
			}
			if !strings.Contains(err.Error(), tc.wantErr) {
				t.Fatalf("unexpected error: %v", err)
			}
		})
	}
}

func TestCreateSampleWritesParsableConfig(t *testing.T) {
	tempDir := t.TempDir()
	path := filepath.Join(tempDir, "nested", "config.toml")

	if err := config.CreateSample(path); err != nil {
		t.Fatalf("CreateSample failed: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read sample: %v", err)
	}
	var cfg config.Config
	if err := toml.Unmarshal(data, &cfg); err != nil {
		t.Fatalf("sample config does not parse: %v", err)
	}
	if cfg.Paths.MediaDir == "" {
		t.Fatal("expected sample to set media_dir")
	}
}

func TestExpandPathTilde(t *testing.T) {
	tempHome := t.TempDir()
	t.Setenv("HOME", tempHome)

	got, err := config.ExpandPath("~/media")
	if err != nil {
		t.Fatalf("ExpandPath returned error: %v", err)
	}
	if got != filepath.Join(tempHome, "media") {
		t.Fatalf("unexpected expansion: %q", got)
	}
}
