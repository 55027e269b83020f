// Package rotation implements the status-aware rotating queue at the heart
// of the kiosk.
//
// A Queue pairs a registry of media items (keyed by filesystem path) with an
// explicit ring realizing fair round-robin traversal: new discoveries enter
// at the show-soon end, each displayed item re-enters at the show-last end,
// and blocked or vanished entries are pruned lazily at dequeue time. The
// meme and commercial collections are two independent instances of the same
// type.
//
// Treat this package as the single source of truth for rotation semantics;
// persistence of statuses across runs lives in internal/statestore.
package rotation
