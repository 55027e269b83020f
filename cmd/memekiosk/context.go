package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"syscall"

	"github.com/spf13/cobra"

	"memekiosk/internal/config"
	"memekiosk/internal/ipc"
)

const skipConfigAnnotation = "memekiosk_skip_config"

// commandContext carries the lazily loaded configuration and the flag
// values shared by every subcommand.
type commandContext struct {
	socketFlag *string
	configFlag *string

	loadOnce sync.Once
	cfg      *config.Config
	cfgPath  string
	loadErr  error
}

func newCommandContext(socketFlag, configFlag *string) *commandContext {
	return &commandContext{socketFlag: socketFlag, configFlag: configFlag}
}

func (c *commandContext) ensureConfig() (*config.Config, error) {
	c.loadOnce.Do(func() {
		cfg, path, _, err := config.Load(c.configPath())
		if err != nil {
			c.loadErr = err
			return
		}
		if err := cfg.EnsureDirectories(); err != nil {
			c.loadErr = fmt.Errorf("prepare directories: %w", err)
			return
		}
		c.cfg = cfg
		c.cfgPath = path
	})
	return c.cfg, c.loadErr
}

func (c *commandContext) configPath() string {
	if c.configFlag != nil {
		return *c.configFlag
	}
	return ""
}

// socketPath resolves the daemon socket without requiring a valid
// configuration so control commands still work against a running daemon.
func (c *commandContext) socketPath() string {
	if c.socketFlag != nil && *c.socketFlag != "" {
		return *c.socketFlag
	}
	if cfg, err := c.ensureConfig(); err == nil && cfg != nil {
		return cfg.SocketPath()
	}
	if home, err := os.UserHomeDir(); err == nil {
		return filepath.Join(home, ".local", "share", "memekiosk", "memekiosk.sock")
	}
	return filepath.Join(os.TempDir(), "memekiosk.sock")
}

func (c *commandContext) withClient(fn func(*ipc.Client) error) error {
	client, err := c.dialClient()
	if err != nil {
		return err
	}
	defer client.Close()
	return fn(client)
}

func (c *commandContext) dialClient() (*ipc.Client, error) {
	socket := c.socketPath()
	client, err := ipc.Dial(socket)
	if err != nil {
		return nil, wrapDialError(socket, err)
	}
	return client, nil
}

func wrapDialError(socket string, err error) error {
	if errors.Is(err, os.ErrNotExist) || errors.Is(err, syscall.ENOENT) {
		return fmt.Errorf("daemon is not running (no socket at %s). Start it with 'memekiosk start'", socket)
	}
	if errors.Is(err, syscall.ECONNREFUSED) {
		return fmt.Errorf("daemon is not responding on %s. Remove the stale socket or restart with 'memekiosk start'", socket)
	}
	return fmt.Errorf("connect to daemon: %w", err)
}

func shouldSkipConfig(cmd *cobra.Command) bool {
	for c := cmd; c != nil; c = c.Parent() {
		if c.Annotations[skipConfigAnnotation] == "true" {
			return true
		}
	}
	return false
}

func yesNo(v bool) string {
	if v {
		return "yes"
	}
	return "no"
}
