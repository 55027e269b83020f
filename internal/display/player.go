package display

import (
	"context"
	"fmt"
	"log/slog"
	"os/exec"
	"sync"

	"memekiosk/internal/config"
	"memekiosk/internal/logging"
	"memekiosk/internal/rotation"
)

var commandContext = exec.CommandContext

// Player drives the external viewer and media player binaries.
//
// Memes are rendered by handing the file to the viewer, which sets it as the
// desktop background and exits. Commercials run in the media player until the
// clip ends or KillCommercial stops it early.
type Player struct {
	viewer     string
	player     string
	alertSound string
	logger     *slog.Logger

	mu         sync.Mutex
	commercial *exec.Cmd
}

// New constructs a Player from playback configuration.
func New(cfg *config.Config, logger *slog.Logger) *Player {
	if logger == nil {
		logger = logging.NewNop()
	}
	return &Player{
		viewer:     cfg.Playback.Viewer,
		player:     cfg.Playback.Player,
		alertSound: cfg.Playback.AlertSound,
		logger:     logger,
	}
}

// ShowMeme renders one meme and, when the item is on its first display,
// plays the alert sound to completion before returning.
func (p *Player) ShowMeme(ctx context.Context, item rotation.Item) error {
	cmd := commandContext(ctx, p.viewer, item.Path, "--bg-max") //nolint:gosec
	if err := cmd.Run(); err != nil {
		return fmt.Errorf("render %s: %w", item.Name(), err)
	}
	if item.WasNew && p.alertSound != "" {
		alert := commandContext(ctx, p.player, p.alertSound, "--play-and-exit") //nolint:gosec
		if err := alert.Run(); err != nil {
			p.logger.Warn("alert sound failed",
				logging.String(logging.FieldPath, p.alertSound),
				logging.Error(err))
		}
	}
	return nil
}

// ShowCommercial plays one clip and blocks until it finishes or is killed.
// A kill is a normal outcome, not an error.
func (p *Player) ShowCommercial(ctx context.Context, path string) error {
	if path == "" {
		return nil
	}

	cmd := commandContext(ctx, p.player, "--video-wallpaper", "--play-and-exit", path) //nolint:gosec
	if err := cmd.Start(); err != nil {
		return fmt.Errorf("start commercial %s: %w", path, err)
	}

	p.mu.Lock()
	p.commercial = cmd
	p.mu.Unlock()

	err := cmd.Wait()

	p.mu.Lock()
	killed := p.commercial == nil
	p.commercial = nil
	p.mu.Unlock()

	if err != nil && !killed {
		return fmt.Errorf("commercial %s: %w", path, err)
	}
	return nil
}

// KillCommercial stops the running commercial, if any. It is safe to call
// at any time, including when nothing is playing.
func (p *Player) KillCommercial() {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.commercial == nil || p.commercial.Process == nil {
		return
	}
	if err := p.commercial.Process.Kill(); err != nil {
		p.logger.Warn("kill commercial failed", logging.Error(err))
	}
	p.commercial = nil
}
