// Package logging assembles the structured slog loggers used across the
// kiosk daemon and CLI.
//
// It owns the console and JSON handlers, level and output plumbing, the
// standardized attribute keys, and a no-op logger for tests and wiring code
// that cannot fail. Prefer these constructors over hand-rolled slog setup so
// every component emits lines with the same shape.
package logging
