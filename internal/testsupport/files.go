package testsupport

import (
	"os"
	"path/filepath"
	"testing"

	"memekiosk/internal/config"
)

// WriteMedia drops small placeholder media files into the configured media
// directory and returns their paths in name order.
func WriteMedia(t testing.TB, cfg *config.Config, names ...string) []string {
	return writeAll(t, cfg.Paths.MediaDir, names)
}

// WriteCommercials drops placeholder clips into the commercial directory.
func WriteCommercials(t testing.TB, cfg *config.Config, names ...string) []string {
	return writeAll(t, cfg.Paths.CommercialDir, names)
}

func writeAll(t testing.TB, dir string, names []string) []string {
	t.Helper()

	if dir == "" {
		t.Fatal("target directory not configured")
	}
	paths := make([]string, 0, len(names))
	for _, name := range names {
		path := filepath.Join(dir, name)
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			t.Fatalf("mkdir for %s: %v", path, err)
		}
		if err := os.WriteFile(path, []byte("media"), 0o644); err != nil {
			t.Fatalf("write %s: %v", path, err)
		}
		paths = append(paths, path)
	}
	return paths
}
