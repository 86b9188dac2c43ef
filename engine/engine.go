// Package engine defines the primitive operations an archive engine must
// provide and the handle types shared between engines and the zar facade.
//
// An engine implements the sealed container format: on-disk layout, node
// lookup, and raw content reads. The zar package layers path validation,
// tree iteration, extraction, and locking on top of these primitives.
// The repository ships one engine, internal/container; alternative
// container formats plug in by implementing Engine.
package engine

// NodeHandle identifies a resolved file or directory node within one open
// archive. A handle is only meaningful to the engine that produced it and
// is not guaranteed to remain stable across lookups; callers re-resolve
// paths per operation instead of caching handles.
type NodeHandle uint32

// InvalidNode is the sentinel handle returned by LookUp when no entry
// matches. It never escapes the zar facade; callers above it see an
// explicit not-found error instead.
const InvalidNode NodeHandle = 0xFFFFFFFF

// DirEntry describes a single entry of a directory node as reported by
// DirEntry enumeration. Exactly one of File and Dir is set for a valid
// entry, and Size is meaningful only when File is set.
type DirEntry struct {
	Name string
	File bool
	Dir  bool
	Size uint64
}

// Engine is the set of primitives the zar facade consumes.
//
// Engines need not be safe for concurrent use. LookUp, FileSize, and
// ReadFromFile may mutate internal traversal state even though they are
// conceptually queries; callers must hold exclusive access for each such
// call. IsFile, IsDirectory, DirEntryCount, and DirEntry only inspect
// already-materialized state and tolerate concurrent invocation under
// shared access. The zar facade enforces exactly this discipline.
type Engine interface {
	// LookUp resolves a slash-separated, root-relative path ("" is the
	// root directory) to a node handle. Entries whose kind is excluded
	// by the allow flags resolve to InvalidNode, as do missing paths.
	LookUp(path string, allowFile, allowDirectory bool) NodeHandle

	// IsFile reports whether the handle refers to a file node.
	IsFile(h NodeHandle) bool

	// IsDirectory reports whether the handle refers to a directory node.
	IsDirectory(h NodeHandle) bool

	// DirEntryCount returns the number of entries in a directory node.
	DirEntryCount(h NodeHandle) (uint32, error)

	// DirEntry returns the entry at index within a directory node.
	// found is false when index is out of range.
	DirEntry(h NodeHandle, index uint32) (entry DirEntry, found bool, err error)

	// FileSize returns the uncompressed size of a file node.
	FileSize(h NodeHandle) (uint64, error)

	// ReadFromFile reads len(p) bytes of file content starting at offset.
	// It returns the number of bytes read; a count below len(p) without
	// an error indicates a broken engine or corrupt container and is
	// treated by callers as a fatal integrity violation.
	ReadFromFile(h NodeHandle, offset uint64, p []byte) (int, error)

	// Close releases the engine's resources. The engine is unusable
	// afterwards.
	Close() error
}
