package main

import (
	"github.com/spf13/cobra"

	"memekiosk/internal/logs"
)

func newLogsCommand(ctx *commandContext) *cobra.Command {
	var lines int
	var follow bool

	cmd := &cobra.Command{
		Use:   "logs",
		Short: "Show the daemon log",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			return logs.Tail(cmd.Context(), cfg.LogPath(), logs.TailOptions{
				Lines:  lines,
				Follow: follow,
			}, func(line string) {
				cmd.Println(line)
			})
		},
	}

	cmd.Flags().IntVarP(&lines, "lines", "n", 50, "Number of trailing lines to show")
	cmd.Flags().BoolVarP(&follow, "follow", "f", false, "Keep watching the log for new lines")

	return cmd
}
