package main

import (
	"testing"
)

func TestRecentAndLastAfterDisplay(t *testing.T) {
	env := setupCLITestEnv(t)

	shown, ok := env.memes.Next()
	if !ok {
		t.Fatal("expected a meme in rotation")
	}

	out, _, err := runCLI(t, []string{"recent"}, env.socketPath, env.configPath)
	if err != nil {
		t.Fatalf("recent: %v", err)
	}
	requireContains(t, out, shown.Name())

	out, _, err = runCLI(t, []string{"last"}, env.socketPath, env.configPath)
	if err != nil {
		t.Fatalf("last: %v", err)
	}
	requireContains(t, out, shown.Name())
}

func TestBlockCommand(t *testing.T) {
	env := setupCLITestEnv(t)

	out, _, err := runCLI(t, []string{"block", "cat.jpg"}, env.socketPath, env.configPath)
	if err != nil {
		t.Fatalf("block: %v", err)
	}
	requireContains(t, out, "Blocked cat.jpg")

	// An untracked name is acknowledged, not rejected.
	out, _, err = runCLI(t, []string{"block", "nope.jpg"}, env.socketPath, env.configPath)
	if err != nil {
		t.Fatalf("block unknown: %v", err)
	}
	requireContains(t, out, "Blocked nope.jpg")

	out, _, err = runCLI(t, []string{"block", "../escape.jpg"}, env.socketPath, env.configPath)
	if err != nil {
		t.Fatalf("block escaping: %v", err)
	}
	requireContains(t, out, "Could not block ../escape.jpg")
}

func TestCommercialCommands(t *testing.T) {
	env := setupCLITestEnv(t)

	out, _, err := runCLI(t, []string{"commercial", "ask"}, env.socketPath, env.configPath)
	if err != nil {
		t.Fatalf("commercial ask: %v", err)
	}
	requireContains(t, out, "Commercial requested")

	out, _, err = runCLI(t, []string{"commercial", "kill"}, env.socketPath, env.configPath)
	if err != nil {
		t.Fatalf("commercial kill: %v", err)
	}
	requireContains(t, out, "Commercial stopped")
}

func TestRegistryCommand(t *testing.T) {
	env := setupCLITestEnv(t)

	out, _, err := runCLI(t, []string{"registry"}, env.socketPath, env.configPath)
	if err != nil {
		t.Fatalf("registry: %v", err)
	}
	requireContains(t, out, "Memes:")
	requireContains(t, out, "cat.jpg")
	requireContains(t, out, "dog.png")
}
