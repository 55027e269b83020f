package main

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"memekiosk/internal/daemonctl"
	"memekiosk/internal/deps"
	"memekiosk/internal/ipc"
)

const (
	daemonStartTimeout = 10 * time.Second
	daemonStopTimeout  = 5 * time.Second
)

func newDaemonCommands(ctx *commandContext) []*cobra.Command {
	return []*cobra.Command{
		newStartCommand(ctx),
		newStopCommand(ctx),
		newStatusCommand(ctx),
	}
}

func newStartCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "start",
		Short: "Start the kiosk daemon",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			executable, err := daemonExecutable()
			if err != nil {
				return err
			}
			opts := daemonctl.LaunchOptions{
				SocketPath: ctx.socketPath(),
				ConfigPath: ctx.configPath(),
			}
			result, err := daemonctl.EnsureStarted(ctx.socketPath(), executable, opts, daemonStartTimeout)
			if err != nil {
				return err
			}
			switch result.State {
			case daemonctl.StartStateAlreadyRunning:
				cmd.Println("Daemon is already running")
			default:
				cmd.Println("Daemon started")
			}
			return nil
		},
	}
}

func newStopCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "stop",
		Short: "Stop the kiosk daemon",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			if err := daemonctl.Stop(ctx.socketPath(), cfg.PIDPath(), daemonStopTimeout); err != nil {
				if errors.Is(err, daemonctl.ErrDaemonNotRunning) {
					cmd.Println("Daemon is not running")
					return nil
				}
				return err
			}
			cmd.Println("Daemon stopped")
			return nil
		},
	}
}

func newStatusCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show daemon and rotation status",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			status, err := fetchStatus(ctx)
			if err != nil {
				return err
			}
			renderStatus(cmd, ctx, status)
			return nil
		},
	}
}

func fetchStatus(ctx *commandContext) (*ipc.StatusResponse, error) {
	client, err := ctx.dialClient()
	if err != nil {
		// A missing daemon is still a reportable status.
		return nil, nil
	}
	defer client.Close()
	return client.Status()
}

func renderStatus(cmd *cobra.Command, ctx *commandContext, status *ipc.StatusResponse) {
	colorize := shouldColorize(cmd.OutOrStdout())

	renderSectionHeader(cmd, "Daemon", colorize)
	if status == nil || !status.Running {
		renderStatusLine(cmd, "Running", "no", statusBad, colorize)
	} else {
		renderStatusLine(cmd, "Running", "yes", statusGood, colorize)
		renderStatusLine(cmd, "PID", fmt.Sprintf("%d", status.PID), statusNeutral, colorize)
		renderStatusLine(cmd, "Lock file", status.LockFilePath, statusNeutral, colorize)
	}

	if status != nil && status.Running {
		renderSectionHeader(cmd, "Rotation", colorize)
		renderStatusLine(cmd, "Memes", fmt.Sprintf("%d", status.MemeCount), statusNeutral, colorize)
		renderStatusLine(cmd, "Blocked", fmt.Sprintf("%d", status.BlockedMemes), statusNeutral, colorize)
		renderStatusLine(cmd, "Displayed", fmt.Sprintf("%d", status.DisplayedMemes), statusNeutral, colorize)
		renderStatusLine(cmd, "Commercials", yesNo(status.CommercialsEnabled), statusNeutral, colorize)
		if status.CommercialsEnabled {
			renderStatusLine(cmd, "Commercial clips", fmt.Sprintf("%d", status.CommercialCount), statusNeutral, colorize)
		}
		if status.LastMeme != nil {
			renderStatusLine(cmd, "Last meme", status.LastMeme.Name, statusNeutral, colorize)
		}
	}

	if cfg, err := ctx.ensureConfig(); err == nil && cfg != nil {
		renderSectionHeader(cmd, "Dependencies", colorize)
		for _, dep := range deps.CheckBinaries(deps.Requirements(cfg)) {
			kind := statusGood
			value := "available"
			if !dep.Available {
				value = dep.Detail
				kind = statusBad
				if dep.Optional {
					kind = statusWarn
				}
			}
			renderStatusLine(cmd, dep.Name, value, kind, colorize)
		}
	}
}

func daemonExecutable() (string, error) {
	executable, err := os.Executable()
	if err != nil {
		return "", fmt.Errorf("locate memekiosk executable: %w", err)
	}
	return executable, nil
}
