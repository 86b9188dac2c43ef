// Package zar provides concurrent read access to sealed, directory-tree
// shaped container files, and packing of directory trees into them.
//
// An Archive translates slash-separated logical paths into engine node
// handles, enumerates and flattens directory trees, performs
// bounds-checked partial and whole file reads, and extracts content to
// disk. Every operation is safe for concurrent use from multiple
// goroutines even though the underlying engine is not: the archive
// serializes each engine call behind a shared/exclusive lock.
//
// Basic usage:
//
//	a, err := zar.Open("assets.zarc")
//	if err != nil {
//		return err
//	}
//	defer a.Close()
//
//	data, err := a.ReadFile("content/model/feather.bin")
//	if err != nil {
//		return err
//	}
//	for entry, err := range a.Walk() {
//		if err != nil {
//			return err
//		}
//		fmt.Println(entry.Path)
//	}
//
// Archives are created with Pack:
//
//	err := zar.Pack(ctx, "./assets", "assets.zarc")
package zar

import (
	"fmt"
	"log/slog"
	"sync"

	"github.com/zarlib/zar/engine"
	"github.com/zarlib/zar/internal/container"
	"github.com/zarlib/zar/internal/pathutil"
)

// Re-export engine types for the public API. Custom engines implement
// engine.Engine; most callers only ever see these names.
type (
	// Engine is the set of container primitives an archive drives.
	Engine = engine.Engine

	// NodeHandle identifies a resolved node within one open archive.
	NodeHandle = engine.NodeHandle

	// DirEntry is the raw enumeration record produced by an engine.
	DirEntry = engine.DirEntry
)

// InvalidNode is the engine's "not found" sentinel. It never escapes the
// archive API; lookups surface ErrNotFound instead.
const InvalidNode = engine.InvalidNode

// Entry describes a file or directory discovered while enumerating an
// archive. Unlike the engine's DirEntry, an Entry carries its full
// logical path and owns all of its data.
type Entry struct {
	// Name is the final path component.
	Name string

	// Path is the full logical path from the archive root.
	Path string

	// Dir reports whether the entry is a directory.
	Dir bool

	// Size is the uncompressed file size. It is zero for directories.
	Size uint64
}

// IsDir reports whether the entry is a directory.
func (e Entry) IsDir() bool { return e.Dir }

// Archive provides shared, concurrent access to one open container.
//
// All methods present an immutable API: none of them require the caller
// to hold a lock or to be the sole user of the value. Internally the
// archive takes exclusive access for engine calls that mutate engine
// state (lookup, size query, raw read) and shared access for pure
// directory inspection, each for the duration of that single engine
// call only.
type Archive struct {
	mu     sync.RWMutex
	eng    Engine
	closed bool
	logger *slog.Logger
}

// Option configures an Archive.
type Option func(*Archive)

// WithLogger sets a logger for operational events. Logging is disabled
// when no logger is set.
func WithLogger(logger *slog.Logger) Option {
	return func(a *Archive) {
		a.logger = logger
	}
}

// Open opens a container file with the default engine.
func Open(path string, opts ...Option) (*Archive, error) {
	c, err := container.Open(path)
	if err != nil {
		return nil, err
	}
	return NewArchive(c, opts...), nil
}

// NewArchive wraps an already-open engine. The archive assumes ownership:
// closing the archive closes the engine.
func NewArchive(eng Engine, opts ...Option) *Archive {
	a := &Archive{eng: eng}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Close releases the archive and its engine. Close is idempotent;
// operations after the first Close return ErrClosed. Callers must not
// close an archive while operations on it are still in flight.
func (a *Archive) Close() error {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.closed {
		return nil
	}
	a.closed = true
	return a.eng.Close()
}

// log returns the logger, falling back to a discard logger if nil.
func (a *Archive) log() *slog.Logger {
	if a.logger == nil {
		return slog.New(slog.DiscardHandler)
	}
	return a.logger
}

// exclusive runs one engine call that may mutate engine state. The lock
// covers exactly that call, never a whole logical operation.
func (a *Archive) exclusive(fn func(Engine) error) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.closed {
		return ErrClosed
	}
	return fn(a.eng)
}

// shared runs one engine call that only inspects materialized directory
// state; such calls proceed in parallel across goroutines.
func (a *Archive) shared(fn func(Engine) error) error {
	a.mu.RLock()
	defer a.mu.RUnlock()
	if a.closed {
		return ErrClosed
	}
	return fn(a.eng)
}

// resolve translates a logical path into a node handle. The engine's
// invalid-node sentinel is translated here: callers either get a valid
// handle or an error, never the sentinel. When the path exists but its
// kind is excluded by the allow flags, resolve reports ErrWrongKind
// rather than ErrNotFound.
func (a *Archive) resolve(path string, allowFile, allowDirectory bool) (NodeHandle, error) {
	if !pathutil.Valid(path) {
		return InvalidNode, fmt.Errorf("resolve %q: %w", path, ErrInvalidPath)
	}

	var h NodeHandle
	err := a.exclusive(func(eng Engine) error {
		h = eng.LookUp(path, allowFile, allowDirectory)
		return nil
	})
	if err != nil {
		return InvalidNode, err
	}
	if h != InvalidNode {
		return h, nil
	}

	// Distinguish a missing entry from one excluded by the kind filter.
	if !allowFile || !allowDirectory {
		var probe NodeHandle
		err := a.exclusive(func(eng Engine) error {
			probe = eng.LookUp(path, true, true)
			return nil
		})
		if err != nil {
			return InvalidNode, err
		}
		if probe != InvalidNode {
			return InvalidNode, fmt.Errorf("resolve %q: %w", path, ErrWrongKind)
		}
	}
	return InvalidNode, fmt.Errorf("resolve %q: %w", path, ErrNotFound)
}
