package zar

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"testing"
)

type benchReadCase struct {
	name     string
	fileSize int
	codec    Codec
}

func BenchmarkReadFile(b *testing.B) {
	cases := []benchReadCase{
		{name: "size=4k/none", fileSize: 4 << 10, codec: CodecNone},
		{name: "size=4k/zstd", fileSize: 4 << 10, codec: CodecZstd},
		{name: "size=1m/none", fileSize: 1 << 20, codec: CodecNone},
		{name: "size=1m/zstd", fileSize: 1 << 20, codec: CodecZstd},
		{name: "size=1m/lz4", fileSize: 1 << 20, codec: CodecLZ4},
	}

	for _, bc := range cases {
		b.Run(bc.name, func(b *testing.B) {
			content := bytes.Repeat([]byte("benchmark payload "), bc.fileSize/18+1)[:bc.fileSize]
			a := benchOpen(b, map[string][]byte{"data.bin": content},
				PackWithCompression(bc.codec), PackWithMinCompressSize(1))

			b.SetBytes(int64(bc.fileSize))
			b.ReportAllocs()
			b.ResetTimer()

			for b.Loop() {
				if _, err := a.ReadFile("data.bin"); err != nil {
					b.Fatal(err)
				}
			}
		})
	}
}

func BenchmarkWalk(b *testing.B) {
	files := make(map[string][]byte, 1024)
	for i := range 1024 {
		files[fmt.Sprintf("dir%02d/file%04d.bin", i%16, i)] = []byte("x")
	}
	a := benchOpen(b, files)

	b.ReportAllocs()
	b.ResetTimer()

	for b.Loop() {
		count := 0
		for _, err := range a.Walk() {
			if err != nil {
				b.Fatal(err)
			}
			count++
		}
		if count == 0 {
			b.Fatal("walk yielded nothing")
		}
	}
}

func benchOpen(b *testing.B, files map[string][]byte, opts ...PackOption) *Archive {
	b.Helper()

	src := b.TempDir()
	for path, content := range files {
		full := filepath.Join(src, filepath.FromSlash(path))
		if err := os.MkdirAll(filepath.Dir(full), 0o755); err != nil {
			b.Fatal(err)
		}
		if err := os.WriteFile(full, content, 0o644); err != nil {
			b.Fatal(err)
		}
	}

	out := filepath.Join(b.TempDir(), "bench.zarc")
	if err := Pack(context.Background(), src, out, opts...); err != nil {
		b.Fatal(err)
	}
	a, err := Open(out)
	if err != nil {
		b.Fatal(err)
	}
	b.Cleanup(func() { a.Close() })
	return a
}
