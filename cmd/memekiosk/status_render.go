package main

import (
	"io"
	"os"

	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"
)

type statusKind int

const (
	statusNeutral statusKind = iota
	statusGood
	statusWarn
	statusBad
)

const (
	ansiReset  = "\x1b[0m"
	ansiBold   = "\x1b[1m"
	ansiGreen  = "\x1b[32m"
	ansiYellow = "\x1b[33m"
	ansiRed    = "\x1b[31m"
)

func renderSectionHeader(cmd *cobra.Command, title string, colorize bool) {
	if colorize {
		cmd.Printf("\n%s%s%s\n", ansiBold, title, ansiReset)
		return
	}
	cmd.Printf("\n%s\n", title)
}

func renderStatusLine(cmd *cobra.Command, label, value string, kind statusKind, colorize bool) {
	if colorize {
		if color := statusColor(kind); color != "" {
			cmd.Printf("  %-18s %s%s%s\n", label, color, value, ansiReset)
			return
		}
	}
	cmd.Printf("  %-18s %s\n", label, value)
}

func statusColor(kind statusKind) string {
	switch kind {
	case statusGood:
		return ansiGreen
	case statusWarn:
		return ansiYellow
	case statusBad:
		return ansiRed
	default:
		return ""
	}
}

func shouldColorize(out io.Writer) bool {
	if os.Getenv("NO_COLOR") != "" {
		return false
	}
	file, ok := out.(*os.File)
	if !ok {
		return false
	}
	return isatty.IsTerminal(file.Fd()) || isatty.IsCygwinTerminal(file.Fd())
}
