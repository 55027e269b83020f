// Package logs reads the daemon log file for the CLI, emitting trailing
// history and optionally following the file for new lines.
package logs
