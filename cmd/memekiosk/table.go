package main

import (
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
	"github.com/spf13/cobra"
)

func renderTable(cmd *cobra.Command, header table.Row, rows []table.Row) {
	writer := table.NewWriter()
	writer.SetOutputMirror(cmd.OutOrStdout())
	writer.SetStyle(table.StyleRounded)
	writer.AppendHeader(header)
	writer.AppendRows(rows)
	writer.SetColumnConfigs(columnAlignment(len(header)))
	writer.Render()
}

func columnAlignment(columns int) []table.ColumnConfig {
	configs := make([]table.ColumnConfig, 0, columns)
	for i := 1; i <= columns; i++ {
		configs = append(configs, table.ColumnConfig{Number: i, Align: text.AlignLeft})
	}
	return configs
}
