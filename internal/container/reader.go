package container

import (
	"bytes"
	"fmt"
	"io"
	"os"

	"github.com/zeebo/blake3"

	"github.com/zarlib/zar/engine"
	"github.com/zarlib/zar/internal/pathutil"
)

// Interface compliance.
var _ engine.Engine = (*Container)(nil)

// Container is an open container file. It implements engine.Engine.
//
// Container performs no locking of its own; the zar facade serializes
// calls per the discipline documented on engine.Engine.
type Container struct {
	f       *os.File
	entries []tocEntry
	nodes   []node
}

// Open opens and validates a container file. The footer and table of
// contents are read and checksummed eagerly; file content is read on
// demand.
func Open(path string) (*Container, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	c, err := load(f)
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("open container %s: %w", path, err)
	}
	return c, nil
}

func load(f *os.File) (*Container, error) {
	info, err := f.Stat()
	if err != nil {
		return nil, err
	}
	if info.Size() < headerSize+footerSize {
		return nil, fmt.Errorf("%w: file too small (%d bytes)", ErrCorrupt, info.Size())
	}

	headerBuf := make([]byte, headerSize)
	if _, err := f.ReadAt(headerBuf, 0); err != nil {
		return nil, fmt.Errorf("read header: %w", err)
	}
	if _, err := decodeHeader(headerBuf); err != nil {
		return nil, err
	}

	footerBuf := make([]byte, footerSize)
	if _, err := f.ReadAt(footerBuf, info.Size()-footerSize); err != nil {
		return nil, fmt.Errorf("read footer: %w", err)
	}
	ftr, err := decodeFooter(footerBuf)
	if err != nil {
		return nil, err
	}

	dataEnd := uint64(info.Size() - footerSize)
	if ftr.tocOffset < headerSize || ftr.tocOffset > dataEnd || ftr.tocSize > dataEnd-ftr.tocOffset {
		return nil, fmt.Errorf("%w: table of contents out of bounds", ErrCorrupt)
	}

	tocBuf := make([]byte, ftr.tocSize)
	if _, err := f.ReadAt(tocBuf, int64(ftr.tocOffset)); err != nil {
		return nil, fmt.Errorf("read table of contents: %w", err)
	}
	if sum := blake3.Sum256(tocBuf); sum != ftr.tocSum {
		return nil, fmt.Errorf("%w: table of contents checksum mismatch", ErrCorrupt)
	}

	toc, err := decodeTOC(tocBuf)
	if err != nil {
		return nil, err
	}
	for _, te := range toc.Entries {
		if te.Offset < headerSize || te.Offset > ftr.tocOffset || te.StoredSize > ftr.tocOffset-te.Offset {
			return nil, fmt.Errorf("%w: frame for %q out of bounds", ErrCorrupt, te.Path)
		}
		if len(te.Checksum) != checksumSize {
			return nil, fmt.Errorf("%w: bad checksum length for %q", ErrCorrupt, te.Path)
		}
		// Raw frames are stored verbatim, so the sizes must agree; a
		// mismatch would let partial reads stray into the next frame.
		if te.Codec == CodecNone && te.StoredSize != te.Size {
			return nil, fmt.Errorf("%w: raw frame for %q stores %d bytes for size %d", ErrCorrupt, te.Path, te.StoredSize, te.Size)
		}
	}

	nodes, err := buildNodes(toc)
	if err != nil {
		return nil, err
	}
	return &Container{f: f, entries: toc.Entries, nodes: nodes}, nil
}

// Close releases the underlying file handle.
func (c *Container) Close() error {
	return c.f.Close()
}

// LookUp implements engine.Engine. The empty path resolves to the root
// directory. Entries excluded by the allow flags resolve to the invalid
// sentinel, matching missing paths.
func (c *Container) LookUp(path string, allowFile, allowDirectory bool) engine.NodeHandle {
	current := uint32(0)
	if path != "" {
		for _, component := range pathutil.Split(path) {
			child, ok := findChild(c.nodes, current, component)
			if !ok {
				return engine.InvalidNode
			}
			current = child
		}
	}
	if c.nodes[current].isFile() {
		if !allowFile {
			return engine.InvalidNode
		}
	} else if !allowDirectory {
		return engine.InvalidNode
	}
	return engine.NodeHandle(current)
}

// node returns the node for a handle, or nil when the handle is out of
// range or the sentinel.
func (c *Container) node(h engine.NodeHandle) *node {
	if uint64(h) >= uint64(len(c.nodes)) {
		return nil
	}
	return &c.nodes[h]
}

// IsFile implements engine.Engine.
func (c *Container) IsFile(h engine.NodeHandle) bool {
	n := c.node(h)
	return n != nil && n.isFile()
}

// IsDirectory implements engine.Engine.
func (c *Container) IsDirectory(h engine.NodeHandle) bool {
	n := c.node(h)
	return n != nil && !n.isFile()
}

// DirEntryCount implements engine.Engine.
func (c *Container) DirEntryCount(h engine.NodeHandle) (uint32, error) {
	n := c.node(h)
	if n == nil {
		return 0, fmt.Errorf("dir entry count: invalid node %d", h)
	}
	if n.isFile() {
		return 0, fmt.Errorf("dir entry count: node %d is a file", h)
	}
	return uint32(len(n.children)), nil
}

// DirEntry implements engine.Engine. found is false when index is past
// the end of the directory.
func (c *Container) DirEntry(h engine.NodeHandle, index uint32) (engine.DirEntry, bool, error) {
	n := c.node(h)
	if n == nil {
		return engine.DirEntry{}, false, fmt.Errorf("dir entry: invalid node %d", h)
	}
	if n.isFile() {
		return engine.DirEntry{}, false, fmt.Errorf("dir entry: node %d is a file", h)
	}
	if uint64(index) >= uint64(len(n.children)) {
		return engine.DirEntry{}, false, nil
	}
	child := &c.nodes[n.children[index]]
	entry := engine.DirEntry{Name: child.name}
	if child.isFile() {
		entry.File = true
		entry.Size = c.entries[child.entry].Size
	} else {
		entry.Dir = true
	}
	return entry, true, nil
}

// FileSize implements engine.Engine.
func (c *Container) FileSize(h engine.NodeHandle) (uint64, error) {
	n := c.node(h)
	if n == nil || !n.isFile() {
		return 0, fmt.Errorf("file size: node %d is not a file", h)
	}
	return c.entries[n.entry].Size, nil
}

// ReadFromFile implements engine.Engine. Raw frames are read directly
// from disk; compressed frames are decompressed as a unit and the
// requested window copied out. Content checksums are verified whenever a
// whole frame passes through (any compressed read, and raw reads that
// cover the entire file); partial raw reads skip verification.
func (c *Container) ReadFromFile(h engine.NodeHandle, offset uint64, p []byte) (int, error) {
	n := c.node(h)
	if n == nil || !n.isFile() {
		return 0, fmt.Errorf("read: node %d is not a file", h)
	}
	te := &c.entries[n.entry]

	length := uint64(len(p))
	if length > te.Size || offset > te.Size-length {
		return 0, fmt.Errorf("read %q: window [%d, %d) exceeds size %d", te.Path, offset, offset+length, te.Size)
	}
	if length == 0 {
		return 0, nil
	}

	if te.Codec == CodecNone {
		if _, err := c.f.ReadAt(p, int64(te.Offset+offset)); err != nil {
			if err == io.EOF {
				return 0, fmt.Errorf("%w: frame for %q truncated", ErrCorrupt, te.Path)
			}
			return 0, fmt.Errorf("read %q: %w", te.Path, err)
		}
		if offset == 0 && length == te.Size {
			if err := verifyChecksum(te, p); err != nil {
				return 0, err
			}
		}
		return len(p), nil
	}

	stored := make([]byte, te.StoredSize)
	if _, err := c.f.ReadAt(stored, int64(te.Offset)); err != nil {
		if err == io.EOF {
			return 0, fmt.Errorf("%w: frame for %q truncated", ErrCorrupt, te.Path)
		}
		return 0, fmt.Errorf("read %q: %w", te.Path, err)
	}
	data, err := decompressFrame(stored, te.Codec, int(te.Size))
	if err != nil {
		return 0, err
	}
	if err := verifyChecksum(te, data); err != nil {
		return 0, err
	}
	return copy(p, data[offset:offset+length]), nil
}

func verifyChecksum(te *tocEntry, data []byte) error {
	sum := blake3.Sum256(data)
	if !bytes.Equal(sum[:], te.Checksum) {
		return fmt.Errorf("%w: content checksum mismatch for %q", ErrCorrupt, te.Path)
	}
	return nil
}
