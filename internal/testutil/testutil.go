// Package testutil provides fixture helpers shared by archive tests.
package testutil

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/zarlib/zar/internal/container"
)

// WriteTree materializes files (logical path to content) under dir,
// creating parent directories as needed.
func WriteTree(t *testing.T, dir string, files map[string][]byte) {
	t.Helper()
	for path, content := range files {
		full := filepath.Join(dir, filepath.FromSlash(path))
		if err := os.MkdirAll(filepath.Dir(full), 0o755); err != nil {
			t.Fatalf("create fixture directory: %v", err)
		}
		if err := os.WriteFile(full, content, 0o644); err != nil {
			t.Fatalf("write fixture file %s: %v", path, err)
		}
	}
}

// PackTree packs files into a fresh container in a temp directory and
// returns the container path.
func PackTree(t *testing.T, files map[string][]byte, opts ...container.PackOption) string {
	t.Helper()
	src := t.TempDir()
	WriteTree(t, src, files)
	out := filepath.Join(t.TempDir(), "fixture.zarc")
	if err := container.Pack(context.Background(), src, out, opts...); err != nil {
		t.Fatalf("pack fixture container: %v", err)
	}
	return out
}
