package zar

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"path/filepath"

	"golang.org/x/sync/errgroup"
)

// extractConfig holds configuration for batch extraction.
type extractConfig struct {
	workers int
}

// ExtractOption configures ExtractAll.
type ExtractOption func(*extractConfig)

// ExtractWithWorkers sets the number of files extracted concurrently.
// The default is 1 (sequential). Extraction remains fail-fast either
// way: the first failure aborts the batch.
func ExtractWithWorkers(n int) ExtractOption {
	return func(cfg *extractConfig) {
		cfg.workers = n
	}
}

// Extract writes the file at path to dest. If dest is an existing
// directory the file lands at dest/<archive path>; otherwise dest is the
// literal output path. Missing parent directories are created. Existing
// files are overwritten, so extracting twice produces identical output.
func (a *Archive) Extract(path, dest string) error {
	if info, err := os.Stat(dest); err == nil && info.IsDir() {
		dest = filepath.Join(dest, filepath.FromSlash(path))
	}
	content, err := a.ReadFile(path)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(dest), 0o755); err != nil {
		return fmt.Errorf("extract %q: %w", path, err)
	}
	if err := writeFileAtomic(dest, content); err != nil {
		return fmt.Errorf("extract %q: %w", path, err)
	}
	a.log().Debug("extracted file", "path", path, "dest", dest, "bytes", len(content))
	return nil
}

// ExtractAll writes every file in the archive under destDir, creating
// directories as needed. The first failure aborts the whole extraction;
// files already written are left in place.
func (a *Archive) ExtractAll(destDir string, opts ...ExtractOption) error {
	cfg := extractConfig{workers: 1}
	for _, opt := range opts {
		opt(&cfg)
	}

	if info, err := os.Stat(destDir); err == nil && !info.IsDir() {
		return fmt.Errorf("extract to %s: destination is not a directory", destDir)
	}

	files, err := a.Files()
	if err != nil {
		return err
	}
	a.log().Debug("extracting archive", "dest", destDir, "files", len(files), "workers", cfg.workers)

	if cfg.workers <= 1 {
		for _, path := range files {
			if err := a.Extract(path, filepath.Join(destDir, filepath.FromSlash(path))); err != nil {
				return err
			}
		}
		return nil
	}

	g, ctx := errgroup.WithContext(context.Background())
	g.SetLimit(cfg.workers)
	for _, path := range files {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			return a.Extract(path, filepath.Join(destDir, filepath.FromSlash(path)))
		})
	}
	return g.Wait()
}

// writeFileAtomic writes content through a buffered temp file in the
// destination directory, then renames it into place. A crash mid-write
// never leaves a half-written file at dest.
func writeFileAtomic(dest string, content []byte) error {
	dir := filepath.Dir(dest)
	tmp, err := os.CreateTemp(dir, ".zar-")
	if err != nil {
		return err
	}
	tmpPath := tmp.Name()
	success := false
	defer func() {
		if !success {
			tmp.Close()
			os.Remove(tmpPath)
		}
	}()

	w := bufio.NewWriter(tmp)
	if _, err := w.Write(content); err != nil {
		return err
	}
	if err := w.Flush(); err != nil {
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	if err := os.Rename(tmpPath, dest); err != nil {
		return err
	}
	success = true
	return nil
}
