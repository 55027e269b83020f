package config

import (
	"errors"
	"fmt"
	"strings"
)

// Validate ensures the configuration is usable.
func (c *Config) Validate() error {
	if err := c.validatePaths(); err != nil {
		return err
	}
	if err := c.validatePlayback(); err != nil {
		return err
	}
	return nil
}

func (c *Config) validatePaths() error {
	if strings.TrimSpace(c.Paths.MediaDir) == "" {
		defaultPath, err := DefaultConfigPath()
		if err != nil {
			defaultPath = "~/.config/memekiosk/config.toml"
		}
		return fmt.Errorf("paths.media_dir is required. Edit %s (create with 'memekiosk config init')", defaultPath)
	}
	if c.Paths.APIBind == "" {
		return errors.New("paths.api_bind must be set")
	}
	return nil
}

func (c *Config) validatePlayback() error {
	if c.Playback.DisplaySeconds <= 0 {
		return errors.New("playback.display_seconds must be positive")
	}
	if c.CommercialsEnabled() && c.Playback.CommercialPeriod <= 0 {
		return errors.New("playback.commercial_period must be positive when paths.commercial_dir is set")
	}
	if strings.TrimSpace(c.Playback.Viewer) == "" {
		return errors.New("playback.viewer must be set")
	}
	if strings.TrimSpace(c.Playback.Player) == "" {
		return errors.New("playback.player must be set")
	}
	return nil
}
