// Package container implements the zar sealed container format and the
// default archive engine built on it.
//
// A container is a single file laid out as:
//
//	header   8 bytes: magic "ZARC", format version, flags
//	data     per-file frames, back to back, optionally compressed
//	toc      CBOR-encoded table of contents describing every file
//	footer   52 bytes: TOC offset, TOC size, BLAKE3-256 TOC checksum,
//	         trailing magic "CRAZ"
//
// Each file is stored as one frame compressed with a per-file codec
// (raw, zstd, or LZ4 block mode); small or incompressible files fall
// back to raw storage. The table of contents records, for every file,
// its logical path, frame offset and stored size, uncompressed size,
// codec tag, and a BLAKE3-256 checksum of the uncompressed content.
//
// Open reads and verifies the footer and table of contents, then builds
// an in-memory node table (directories are synthesized from file paths)
// that backs the engine primitives: node lookup, directory enumeration,
// size queries, and random-access reads. Pack produces a fresh container
// from a directory tree on disk.
package container
