package main

import (
	"github.com/spf13/cobra"

	"memekiosk/internal/ipc"
)

func newCommercialCommand(ctx *commandContext) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "commercial",
		Short: "Control commercial playback",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "ask",
		Short: "Request a commercial on the next rotation tick",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withClient(func(client *ipc.Client) error {
				if _, err := client.AskCommercial(); err != nil {
					return err
				}
				cmd.Println("Commercial requested")
				return nil
			})
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "kill",
		Short: "Stop the currently playing commercial",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withClient(func(client *ipc.Client) error {
				if _, err := client.KillCommercial(); err != nil {
					return err
				}
				cmd.Println("Commercial stopped")
				return nil
			})
		},
	})

	return cmd
}
