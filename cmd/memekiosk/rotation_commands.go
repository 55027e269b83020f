package main

import (
	"time"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"

	"memekiosk/internal/api"
	"memekiosk/internal/ipc"
)

const defaultRecentCount = 10

func newRecentCommand(ctx *commandContext) *cobra.Command {
	var count int

	cmd := &cobra.Command{
		Use:   "recent",
		Short: "List recently displayed memes",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withClient(func(client *ipc.Client) error {
				resp, err := client.Recent(count)
				if err != nil {
					return err
				}
				if len(resp.Memes) == 0 {
					cmd.Println("No memes displayed yet")
					return nil
				}
				renderMemeTable(cmd, resp.Memes, true)
				return nil
			})
		},
	}

	cmd.Flags().IntVarP(&count, "count", "n", defaultRecentCount, "Number of memes to list")

	return cmd
}

func newLastCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "last",
		Short: "Show the most recently displayed meme",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withClient(func(client *ipc.Client) error {
				resp, err := client.LastMeme()
				if err != nil {
					return err
				}
				if !resp.Found {
					cmd.Println("No meme has been displayed yet")
					return nil
				}
				cmd.Println(resp.Meme.Name)
				return nil
			})
		},
	}
}

func newBlockCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "block NAME",
		Short: "Block a meme from the rotation",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withClient(func(client *ipc.Client) error {
				resp, err := client.Block(args[0])
				if err != nil {
					return err
				}
				if !resp.Blocked {
					cmd.Printf("Could not block %s: %s\n", args[0], resp.Message)
					return nil
				}
				cmd.Printf("Blocked %s\n", args[0])
				return nil
			})
		},
	}
}

func newRegistryCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "registry",
		Short: "List every tracked meme and commercial",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withClient(func(client *ipc.Client) error {
				resp, err := client.Registry()
				if err != nil {
					return err
				}
				if len(resp.Memes) == 0 && len(resp.Commercials) == 0 {
					cmd.Println("Registry is empty")
					return nil
				}
				if len(resp.Memes) > 0 {
					cmd.Println("Memes:")
					renderMemeTable(cmd, resp.Memes, false)
				}
				if len(resp.Commercials) > 0 {
					cmd.Println("Commercials:")
					renderMemeTable(cmd, resp.Commercials, false)
				}
				return nil
			})
		},
	}
}

func renderMemeTable(cmd *cobra.Command, memes []api.MemeView, withShownAt bool) {
	header := table.Row{"Name", "Title", "Status"}
	if withShownAt {
		header = append(header, "Shown")
	}
	rows := make([]table.Row, 0, len(memes))
	for _, meme := range memes {
		row := table.Row{meme.Name, meme.Title, meme.Status}
		if withShownAt {
			row = append(row, formatShownAt(meme.ShownAt))
		}
		rows = append(rows, row)
	}
	renderTable(cmd, header, rows)
}

func formatShownAt(shown time.Time) string {
	if shown.IsZero() {
		return "never"
	}
	return shown.Local().Format("2006-01-02 15:04:05")
}
