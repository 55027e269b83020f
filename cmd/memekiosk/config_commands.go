package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"memekiosk/internal/config"
)

func newConfigCommand(ctx *commandContext) *cobra.Command {
	cmd := &cobra.Command{
		Use:         "config",
		Short:       "Manage kiosk configuration",
		Annotations: map[string]string{skipConfigAnnotation: "true"},
	}

	cmd.AddCommand(newConfigInitCommand())
	cmd.AddCommand(newConfigShowCommand(ctx))
	cmd.AddCommand(newConfigValidateCommand(ctx))

	return cmd
}

func newConfigInitCommand() *cobra.Command {
	var targetPath string
	var overwrite bool

	cmd := &cobra.Command{
		Use:   "init",
		Short: "Write a sample configuration file",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			path := targetPath
			if path == "" {
				defaultPath, err := config.DefaultConfigPath()
				if err != nil {
					return err
				}
				path = defaultPath
			}
			expanded, err := config.ExpandPath(path)
			if err != nil {
				return err
			}
			if _, err := os.Stat(expanded); err == nil && !overwrite {
				return fmt.Errorf("config file already exists at %s (use --overwrite to replace it)", expanded)
			}
			if err := config.CreateSample(expanded); err != nil {
				return err
			}
			cmd.Printf("Wrote sample configuration to %s\n", expanded)
			return nil
		},
	}

	cmd.Flags().StringVarP(&targetPath, "path", "p", "", "Destination for the sample configuration")
	cmd.Flags().BoolVar(&overwrite, "overwrite", false, "Replace an existing configuration file")

	return cmd
}

func newConfigShowCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Print the resolved configuration",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, path, exists, err := config.Load(ctx.configPath())
			if err != nil {
				return err
			}
			if exists {
				cmd.Printf("Configuration file: %s\n", path)
			} else {
				cmd.Printf("Configuration file: %s (not found, using defaults)\n", path)
			}
			cmd.Println()
			cmd.Printf("Media directory:    %s\n", cfg.Paths.MediaDir)
			cmd.Printf("Commercial dir:     %s\n", valueOrNone(cfg.Paths.CommercialDir))
			cmd.Printf("State directory:    %s\n", cfg.Paths.StateDir)
			cmd.Printf("API bind:           %s\n", cfg.Paths.APIBind)
			cmd.Printf("Display seconds:    %d\n", cfg.Playback.DisplaySeconds)
			cmd.Printf("Commercial period:  %d\n", cfg.Playback.CommercialPeriod)
			cmd.Printf("Viewer:             %s\n", cfg.Playback.Viewer)
			cmd.Printf("Player:             %s\n", cfg.Playback.Player)
			cmd.Printf("Alert sound:        %s\n", valueOrNone(cfg.Playback.AlertSound))
			cmd.Printf("Log format:         %s\n", cfg.Logging.Format)
			cmd.Printf("Log level:          %s\n", cfg.Logging.Level)
			return nil
		},
	}
}

func newConfigValidateCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "validate",
		Short: "Check that the configuration is usable",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, path, exists, err := config.Load(ctx.configPath())
			if err != nil {
				return err
			}
			if !exists {
				cmd.Printf("No configuration file at %s, defaults are valid\n", path)
				return nil
			}
			cmd.Printf("Configuration at %s is valid\n", path)
			cmd.Printf("Media directory: %s\n", cfg.Paths.MediaDir)
			return nil
		},
	}
}

func valueOrNone(v string) string {
	if v == "" {
		return "(none)"
	}
	return v
}
