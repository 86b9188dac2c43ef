package container

import (
	"errors"
	"fmt"

	"github.com/klauspost/compress/zstd"
	"github.com/pierrec/lz4/v4"
)

// Codec identifies the compression algorithm used for a file frame.
// Codec tags are stored in the table of contents (1 byte each); the
// values are protocol constants.
type Codec uint8

const (
	// CodecNone stores the frame uncompressed. Used for small files and
	// for content that does not shrink under compression.
	CodecNone Codec = 0

	// CodecZstd compresses the frame with zstd at the default level.
	CodecZstd Codec = 1

	// CodecLZ4 compresses the frame with LZ4 block compression. Cheaper
	// to decode than zstd at a lower ratio.
	CodecLZ4 Codec = 2
)

// String returns the human-readable name of a codec.
func (c Codec) String() string {
	switch c {
	case CodecNone:
		return "none"
	case CodecZstd:
		return "zstd"
	case CodecLZ4:
		return "lz4"
	default:
		return fmt.Sprintf("unknown(%d)", uint8(c))
	}
}

// ParseCodec parses a codec from its string representation.
func ParseCodec(name string) (Codec, error) {
	switch name {
	case "none":
		return CodecNone, nil
	case "zstd":
		return CodecZstd, nil
	case "lz4":
		return CodecLZ4, nil
	default:
		return 0, fmt.Errorf("unknown codec: %q", name)
	}
}

// errIncompressible signals that compressed output would be no smaller
// than the input; the caller stores the frame raw instead.
var errIncompressible = errors.New("incompressible data")

// zstdEncoder and zstdDecoder are shared across calls; both are safe
// for concurrent use.
var (
	zstdEncoder *zstd.Encoder
	zstdDecoder *zstd.Decoder
)

func init() {
	var err error
	zstdEncoder, err = zstd.NewWriter(nil, zstd.WithEncoderLevel(zstd.SpeedDefault))
	if err != nil {
		panic("container: zstd encoder initialization failed: " + err.Error())
	}
	zstdDecoder, err = zstd.NewReader(nil)
	if err != nil {
		panic("container: zstd decoder initialization failed: " + err.Error())
	}
}

// compressFrame compresses data with the given codec. It returns
// errIncompressible when the output would not be smaller than the input.
// For CodecNone the input is returned unchanged (no copy).
func compressFrame(data []byte, codec Codec) ([]byte, error) {
	switch codec {
	case CodecNone:
		return data, nil

	case CodecZstd:
		compressed := zstdEncoder.EncodeAll(data, nil)
		if len(compressed) >= len(data) {
			return nil, errIncompressible
		}
		return compressed, nil

	case CodecLZ4:
		bound := lz4.CompressBlockBound(len(data))
		dst := make([]byte, bound)
		written, err := lz4.CompressBlock(data, dst, nil)
		if err != nil {
			return nil, fmt.Errorf("lz4 compress: %w", err)
		}
		// CompressBlock returns 0 when it deems the data incompressible.
		if written == 0 || written >= len(data) {
			return nil, errIncompressible
		}
		return dst[:written], nil

	default:
		return nil, fmt.Errorf("unsupported codec: %d", codec)
	}
}

// decompressFrame decompresses a stored frame. The uncompressed size is
// known from the table of contents and must match exactly; a mismatch
// means the container is corrupt.
func decompressFrame(stored []byte, codec Codec, size int) ([]byte, error) {
	switch codec {
	case CodecNone:
		if len(stored) != size {
			return nil, fmt.Errorf("%w: raw frame is %d bytes, expected %d", ErrCorrupt, len(stored), size)
		}
		return stored, nil

	case CodecZstd:
		data, err := zstdDecoder.DecodeAll(stored, make([]byte, 0, size))
		if err != nil {
			return nil, fmt.Errorf("%w: zstd decompress: %v", ErrCorrupt, err)
		}
		if len(data) != size {
			return nil, fmt.Errorf("%w: zstd frame decoded to %d bytes, expected %d", ErrCorrupt, len(data), size)
		}
		return data, nil

	case CodecLZ4:
		data := make([]byte, size)
		read, err := lz4.UncompressBlock(stored, data)
		if err != nil {
			return nil, fmt.Errorf("%w: lz4 decompress: %v", ErrCorrupt, err)
		}
		if read != size {
			return nil, fmt.Errorf("%w: lz4 frame decoded to %d bytes, expected %d", ErrCorrupt, read, size)
		}
		return data, nil

	default:
		return nil, fmt.Errorf("%w: unsupported codec %d", ErrCorrupt, codec)
	}
}
