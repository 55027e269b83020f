// Package main hosts the memekiosk CLI entrypoint and command graph.
//
// The Cobra-based command tree translates terminal invocations into IPC calls
// against the kiosk daemon: rotation queries, blocklisting, commercial
// control, daemon lifecycle, and configuration scaffolding. It centralizes
// configuration resolution and socket discovery so subcommands can focus on
// user experience instead of wiring.
package main
