package zar

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/zarlib/zar/internal/container"
)

// Pack options and codec tags re-exported from the default engine.
type (
	// PackOption configures Pack.
	PackOption = container.PackOption

	// Codec identifies the compression algorithm used for file frames.
	Codec = container.Codec
)

const (
	// CodecNone stores files uncompressed.
	CodecNone = container.CodecNone

	// CodecZstd compresses files with zstd (the default).
	CodecZstd = container.CodecZstd

	// CodecLZ4 compresses files with LZ4 block compression.
	CodecLZ4 = container.CodecLZ4
)

var (
	// PackWithCompression sets the frame codec.
	PackWithCompression = container.PackWithCompression

	// PackWithMinCompressSize sets the size below which files are
	// stored uncompressed.
	PackWithMinCompressSize = container.PackWithMinCompressSize

	// PackWithMaxFiles limits the number of files packed.
	PackWithMaxFiles = container.PackWithMaxFiles

	// PackWithLogger sets a logger for pack progress events.
	PackWithLogger = container.PackWithLogger

	// ParseCodec parses a codec name ("none", "zstd", "lz4").
	ParseCodec = container.ParseCodec
)

// Pack builds a fresh container at outputPath from the directory tree
// rooted at sourceDir. Packing is not incremental: an existing file at
// outputPath is removed first. The output's parent directory is created
// if missing. The context cancels a long-running pack.
//
// Pack shares no state with open archives; it requires sole ownership of
// the output path.
func Pack(ctx context.Context, sourceDir, outputPath string, opts ...PackOption) error {
	info, err := os.Stat(sourceDir)
	if err != nil {
		return fmt.Errorf("pack %s: %w", sourceDir, err)
	}
	if !info.IsDir() {
		return fmt.Errorf("pack %s: not a directory", sourceDir)
	}

	if _, err := os.Lstat(outputPath); err == nil {
		if err := os.Remove(outputPath); err != nil {
			return fmt.Errorf("pack: remove existing output: %w", err)
		}
	}
	if dir := filepath.Dir(outputPath); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("pack: create output directory: %w", err)
		}
	}

	return container.Pack(ctx, sourceDir, outputPath, opts...)
}
