package config

import (
	"bytes"
	_ "embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/natefinch/atomic"
	"github.com/pelletier/go-toml/v2"
)

//go:embed sample_config.toml
var sampleConfig string

// Paths contains directory and bind address configuration.
type Paths struct {
	MediaDir      string `toml:"media_dir"`
	CommercialDir string `toml:"commercial_dir"`
	StateDir      string `toml:"state_dir"`
	APIBind       string `toml:"api_bind"`
}

// Playback contains display timing and external player configuration.
type Playback struct {
	DisplaySeconds   int    `toml:"display_seconds"`
	CommercialPeriod int    `toml:"commercial_period"`
	Viewer           string `toml:"viewer"`
	Player           string `toml:"player"`
	AlertSound       string `toml:"alert_sound"`
}

// Logging contains configuration for log output.
type Logging struct {
	Format string `toml:"format"`
	Level  string `toml:"level"`
}

// Config encapsulates all configuration values for the kiosk.
//
// Sections by subsystem:
//   - Paths: watched media directories, state directory, API bind address
//   - Playback: tick interval, commercial cadence, external player binaries
//   - Logging: log format and level
type Config struct {
	Paths    Paths    `toml:"paths"`
	Playback Playback `toml:"playback"`
	Logging  Logging  `toml:"logging"`
}

// DefaultConfigPath returns the absolute path to the default configuration file location.
func DefaultConfigPath() (string, error) {
	return expandPath("~/.config/memekiosk/config.toml")
}

// Load locates, parses, and validates a configuration file. The returned
// config has all path fields expanded and normalized.
func Load(path string) (*Config, string, bool, error) {
	cfg := Default()

	resolvedPath, exists, err := resolveConfigPath(path)
	if err != nil {
		return nil, "", false, err
	}

	if exists {
		file, err := os.Open(resolvedPath)
		if err != nil {
			return nil, "", false, fmt.Errorf("open config: %w", err)
		}
		defer file.Close()

		decoder := toml.NewDecoder(file)
		if err := decoder.Decode(&cfg); err != nil {
			return nil, "", false, fmt.Errorf("parse config: %w", err)
		}
	}

	if err := cfg.normalize(); err != nil {
		return nil, "", false, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, "", false, err
	}

	return &cfg, resolvedPath, exists, nil
}

func resolveConfigPath(path string) (string, bool, error) {
	if path != "" {
		expanded, err := expandPath(path)
		if err != nil {
			return "", false, err
		}
		_, err = os.Stat(expanded)
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				return expanded, false, nil
			}
			return "", false, fmt.Errorf("stat config: %w", err)
		}
		return expanded, true, nil
	}

	defaultPath, err := DefaultConfigPath()
	if err != nil {
		return "", false, err
	}

	projectPath, err := filepath.Abs("memekiosk.toml")
	if err != nil {
		return "", false, err
	}

	if info, err := os.Stat(defaultPath); err == nil && !info.IsDir() {
		return defaultPath, true, nil
	}
	if info, err := os.Stat(projectPath); err == nil && !info.IsDir() {
		return projectPath, true, nil
	}

	return defaultPath, false, nil
}

func (c *Config) normalize() error {
	var err error
	if c.Paths.MediaDir, err = expandPath(strings.TrimSpace(c.Paths.MediaDir)); err != nil {
		return fmt.Errorf("paths.media_dir: %w", err)
	}
	if c.Paths.CommercialDir, err = expandPath(strings.TrimSpace(c.Paths.CommercialDir)); err != nil {
		return fmt.Errorf("paths.commercial_dir: %w", err)
	}
	if strings.TrimSpace(c.Paths.StateDir) == "" {
		c.Paths.StateDir = defaultStateDir
	}
	if c.Paths.StateDir, err = expandPath(c.Paths.StateDir); err != nil {
		return fmt.Errorf("paths.state_dir: %w", err)
	}
	c.Paths.APIBind = strings.TrimSpace(c.Paths.APIBind)
	if c.Paths.APIBind == "" {
		c.Paths.APIBind = defaultAPIBind
	}

	c.Playback.Viewer = strings.TrimSpace(c.Playback.Viewer)
	if c.Playback.Viewer == "" {
		c.Playback.Viewer = defaultViewer
	}
	c.Playback.Player = strings.TrimSpace(c.Playback.Player)
	if c.Playback.Player == "" {
		c.Playback.Player = defaultPlayer
	}
	if c.Playback.AlertSound != "" {
		if c.Playback.AlertSound, err = expandPath(strings.TrimSpace(c.Playback.AlertSound)); err != nil {
			return fmt.Errorf("playback.alert_sound: %w", err)
		}
	}
	if c.Playback.DisplaySeconds == 0 {
		c.Playback.DisplaySeconds = defaultDisplaySeconds
	}

	c.Logging.Format = strings.ToLower(strings.TrimSpace(c.Logging.Format))
	if c.Logging.Format == "" {
		c.Logging.Format = defaultLogFormat
	}
	c.Logging.Level = strings.ToLower(strings.TrimSpace(c.Logging.Level))
	if c.Logging.Level == "" {
		c.Logging.Level = defaultLogLevel
	}
	return nil
}

// EnsureDirectories creates directories required for daemon operation.
func (c *Config) EnsureDirectories() error {
	if err := os.MkdirAll(c.Paths.StateDir, 0o755); err != nil {
		return fmt.Errorf("create directory %q: %w", c.Paths.StateDir, err)
	}
	return nil
}

// CommercialsEnabled reports whether a commercial source directory is configured.
func (c *Config) CommercialsEnabled() bool {
	return strings.TrimSpace(c.Paths.CommercialDir) != ""
}

// DisplayInterval returns the tick interval as a duration.
func (c *Config) DisplayInterval() time.Duration {
	return time.Duration(c.Playback.DisplaySeconds) * time.Second
}

// MemeStorePath returns the meme queue's status database location.
func (c *Config) MemeStorePath() string {
	return filepath.Join(c.Paths.StateDir, "memes.db")
}

// CommercialStorePath returns the commercial queue's status database location.
func (c *Config) CommercialStorePath() string {
	return filepath.Join(c.Paths.StateDir, "commercials.db")
}

// SocketPath returns the IPC socket location.
func (c *Config) SocketPath() string {
	return filepath.Join(c.Paths.StateDir, "memekiosk.sock")
}

// LockPath returns the daemon single-instance lock file location.
func (c *Config) LockPath() string {
	return filepath.Join(c.Paths.StateDir, "memekiosk.lock")
}

// PIDPath returns the daemon pid file location.
func (c *Config) PIDPath() string {
	return filepath.Join(c.Paths.StateDir, "memekiosk.pid")
}

// LogPath returns the daemon log file location.
func (c *Config) LogPath() string {
	return filepath.Join(c.Paths.StateDir, "memekiosk.log")
}

func expandPath(pathValue string) (string, error) {
	if pathValue == "" {
		return pathValue, nil
	}
	if strings.HasPrefix(pathValue, "~") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home directory: %w", err)
		}
		if pathValue == "~" {
			pathValue = home
		} else if len(pathValue) > 1 && (pathValue[1] == '/' || pathValue[1] == '\\') {
			pathValue = filepath.Join(home, pathValue[2:])
		}
	}
	cleaned := filepath.Clean(pathValue)
	absolute, err := filepath.Abs(cleaned)
	if err != nil {
		return "", fmt.Errorf("resolve absolute path for %q: %w", cleaned, err)
	}
	return absolute, nil
}

// ExpandPath exposes the repository path expansion rules for other packages.
func ExpandPath(pathValue string) (string, error) {
	return expandPath(pathValue)
}

// CreateSample writes a sample configuration file to the specified location.
func CreateSample(path string) error {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create config directory: %w", err)
		}
	}
	if err := atomic.WriteFile(path, bytes.NewReader([]byte(sampleConfig))); err != nil {
		return fmt.Errorf("write sample config: %w", err)
	}
	return nil
}
