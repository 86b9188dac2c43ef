package container

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/zeebo/blake3"
)

// DefaultMaxFiles is the file-count limit used when no PackWithMaxFiles
// option is set.
const DefaultMaxFiles = 200_000

// DefaultMinCompressSize is the threshold below which files are stored
// raw; compressing tiny frames costs CPU without saving space.
const DefaultMinCompressSize = 128

// packConfig holds configuration for container creation.
type packConfig struct {
	codec           Codec
	codecSet        bool
	minCompressSize int
	maxFiles        int
	logger          *slog.Logger
}

// PackOption configures container creation.
type PackOption func(*packConfig)

// PackWithCompression sets the codec used for file frames. The default
// is CodecZstd. Regardless of codec, frames that do not shrink are
// stored raw.
func PackWithCompression(c Codec) PackOption {
	return func(cfg *packConfig) {
		cfg.codec = c
		cfg.codecSet = true
	}
}

// PackWithMinCompressSize sets the size below which files are stored
// uncompressed. Zero uses DefaultMinCompressSize; negative disables the
// threshold.
func PackWithMinCompressSize(n int) PackOption {
	return func(cfg *packConfig) {
		cfg.minCompressSize = n
	}
}

// PackWithMaxFiles limits the number of files included in the container.
// Zero uses DefaultMaxFiles; negative means no limit.
func PackWithMaxFiles(n int) PackOption {
	return func(cfg *packConfig) {
		cfg.maxFiles = n
	}
}

// PackWithLogger sets a logger for pack progress events.
func PackWithLogger(logger *slog.Logger) PackOption {
	return func(cfg *packConfig) {
		cfg.logger = logger
	}
}

func (cfg *packConfig) log() *slog.Logger {
	if cfg.logger == nil {
		return slog.New(slog.DiscardHandler)
	}
	return cfg.logger
}

// Pack builds a fresh container at outputPath from the contents of dir.
//
// Files are walked in lexical order and written as one frame each.
// Empty directories are not preserved and symbolic links are not
// followed. The context cancels a long-running pack between files.
func Pack(ctx context.Context, dir, outputPath string, opts ...PackOption) error {
	cfg := packConfig{}
	for _, opt := range opts {
		opt(&cfg)
	}
	if !cfg.codecSet {
		cfg.codec = CodecZstd
	}
	if cfg.minCompressSize == 0 {
		cfg.minCompressSize = DefaultMinCompressSize
	}
	maxFiles := cfg.maxFiles
	if maxFiles == 0 {
		maxFiles = DefaultMaxFiles
	}

	root, err := os.OpenRoot(dir)
	if err != nil {
		return err
	}
	defer root.Close()

	out, err := os.Create(outputPath)
	if err != nil {
		return err
	}
	success := false
	defer func() {
		if !success {
			out.Close()
			os.Remove(outputPath)
		}
	}()

	w := bufio.NewWriter(out)
	if _, err := w.Write(header{version: formatVersion}.encode()); err != nil {
		return fmt.Errorf("write header: %w", err)
	}

	toc := tableOfContents{}
	offset := uint64(headerSize)
	err = fs.WalkDir(root.FS(), ".", func(path string, d fs.DirEntry, walkErr error) error {
		if walkErr != nil {
			return walkErr
		}
		if err := ctx.Err(); err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		info, err := d.Info()
		if err != nil {
			return err
		}
		if !info.Mode().IsRegular() {
			cfg.log().Debug("skipping irregular file", "path", path, "mode", info.Mode())
			return nil
		}
		if maxFiles > 0 && len(toc.Entries) >= maxFiles {
			return ErrTooManyFiles
		}

		te, err := writeFrame(&cfg, root, w, path, offset)
		if err != nil {
			return fmt.Errorf("pack %s: %w", path, err)
		}
		cfg.log().Debug("packed file", "path", path, "size", te.Size, "stored", te.StoredSize, "codec", te.Codec.String())
		toc.Entries = append(toc.Entries, te)
		offset += te.StoredSize
		return nil
	})
	if err != nil {
		return err
	}

	tocBuf, err := encodeTOC(&toc)
	if err != nil {
		return err
	}
	if _, err := w.Write(tocBuf); err != nil {
		return fmt.Errorf("write table of contents: %w", err)
	}
	ftr := footer{tocOffset: offset, tocSize: uint64(len(tocBuf)), tocSum: blake3.Sum256(tocBuf)}
	if _, err := w.Write(ftr.encode()); err != nil {
		return fmt.Errorf("write footer: %w", err)
	}
	if err := w.Flush(); err != nil {
		return err
	}
	if err := out.Close(); err != nil {
		return err
	}
	success = true
	cfg.log().Debug("container written", "path", outputPath, "files", len(toc.Entries), "bytes", offset+uint64(len(tocBuf))+footerSize)
	return nil
}

// writeFrame reads one source file, compresses it when worthwhile, and
// appends the frame to the output.
func writeFrame(cfg *packConfig, root *os.Root, w io.Writer, path string, offset uint64) (tocEntry, error) {
	f, err := root.Open(filepath.FromSlash(path))
	if err != nil {
		return tocEntry{}, err
	}
	defer f.Close()

	data, err := io.ReadAll(f)
	if err != nil {
		return tocEntry{}, err
	}
	sum := blake3.Sum256(data)

	codec := cfg.codec
	if codec != CodecNone && cfg.minCompressSize > 0 && len(data) < cfg.minCompressSize {
		codec = CodecNone
	}
	stored := data
	if codec != CodecNone {
		compressed, err := compressFrame(data, codec)
		switch {
		case err == errIncompressible:
			codec = CodecNone
		case err != nil:
			return tocEntry{}, err
		default:
			stored = compressed
		}
	}

	if _, err := w.Write(stored); err != nil {
		return tocEntry{}, err
	}
	return tocEntry{
		Path:       path,
		Offset:     offset,
		StoredSize: uint64(len(stored)),
		Size:       uint64(len(data)),
		Codec:      codec,
		Checksum:   sum[:],
	}, nil
}
