package container

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCodecRoundTrip(t *testing.T) {
	data := bytes.Repeat([]byte("the quick brown fox jumps over the lazy dog "), 200)

	for _, codec := range []Codec{CodecZstd, CodecLZ4} {
		t.Run(codec.String(), func(t *testing.T) {
			stored, err := compressFrame(data, codec)
			require.NoError(t, err)
			require.Less(t, len(stored), len(data))

			got, err := decompressFrame(stored, codec, len(data))
			require.NoError(t, err)
			assert.Equal(t, data, got)
		})
	}
}

func TestCompressFrameIncompressible(t *testing.T) {
	// High-entropy data that neither codec can shrink.
	data := make([]byte, 4096)
	state := uint32(0x2545F491)
	for i := range data {
		state = state*1664525 + 1013904223
		data[i] = byte(state >> 24)
	}

	for _, codec := range []Codec{CodecZstd, CodecLZ4} {
		t.Run(codec.String(), func(t *testing.T) {
			_, err := compressFrame(data, codec)
			assert.ErrorIs(t, err, errIncompressible)
		})
	}
}

func TestCompressFrameNone(t *testing.T) {
	data := []byte("hello")
	stored, err := compressFrame(data, CodecNone)
	require.NoError(t, err)
	assert.Equal(t, data, stored)
}

func TestDecompressFrameSizeMismatch(t *testing.T) {
	data := bytes.Repeat([]byte("aaaa"), 1000)
	stored, err := compressFrame(data, CodecZstd)
	require.NoError(t, err)

	_, err = decompressFrame(stored, CodecZstd, len(data)-1)
	assert.ErrorIs(t, err, ErrCorrupt)

	_, err = decompressFrame([]byte("abc"), CodecNone, 5)
	assert.ErrorIs(t, err, ErrCorrupt)
}

func TestDecompressFrameGarbage(t *testing.T) {
	garbage := []byte("definitely not a zstd frame")
	_, err := decompressFrame(garbage, CodecZstd, 100)
	assert.ErrorIs(t, err, ErrCorrupt)
}

func TestParseCodec(t *testing.T) {
	tests := []struct {
		name    string
		want    Codec
		wantErr bool
	}{
		{"none", CodecNone, false},
		{"zstd", CodecZstd, false},
		{"lz4", CodecLZ4, false},
		{"gzip", 0, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseCodec(tt.name)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
			assert.Equal(t, tt.name, got.String())
		})
	}
}
