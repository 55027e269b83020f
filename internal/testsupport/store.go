package testsupport

import (
	"testing"

	"memekiosk/internal/statestore"
)

// MustOpenStore opens a statestore for tests and registers cleanup.
func MustOpenStore(t testing.TB, path string) *statestore.Store {
	t.Helper()

	store, err := statestore.Open(path, nil)
	if err != nil {
		t.Fatalf("statestore.Open: %v", err)
	}
	t.Cleanup(func() {
		store.Close()
	})
	return store
}
