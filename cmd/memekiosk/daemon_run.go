package main

import (
	"github.com/spf13/cobra"

	"memekiosk/internal/daemonrun"
)

// newDaemonRunCommand is the hidden entrypoint launched by 'memekiosk start'.
// It runs the daemon in the foreground until signalled.
func newDaemonRunCommand(ctx *commandContext) *cobra.Command {
	var logLevel string

	cmd := &cobra.Command{
		Use:         "daemon",
		Short:       "Run the kiosk daemon in the foreground",
		Hidden:      true,
		Args:        cobra.NoArgs,
		Annotations: map[string]string{skipConfigAnnotation: "true"},
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			return daemonrun.Run(cmd.Context(), cfg, daemonrun.Options{LogLevel: logLevel})
		},
	}

	cmd.Flags().StringVar(&logLevel, "log-level", "", "Override the configured log level")

	return cmd
}
