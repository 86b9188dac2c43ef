package zar

import (
	"errors"
	"fmt"
	"iter"

	"github.com/zarlib/zar/internal/pathutil"
)

// maxTreeDepth bounds directory nesting during traversal. The container
// format cannot express cycles, but a hostile or broken engine could;
// traversal fails instead of looping.
const maxTreeDepth = 1024

// Dir returns a lazy iterator over one directory level. Entries are
// produced in engine-reported order with their full logical paths. The
// iterator is single-consumer; restart by calling Dir again. Errors are
// yielded in place and terminate the sequence.
func (a *Archive) Dir(path string) iter.Seq2[Entry, error] {
	return func(yield func(Entry, error) bool) {
		h, err := a.resolve(path, false, true)
		if err != nil {
			yield(Entry{}, err)
			return
		}
		a.yieldDir(path, h, yield)
	}
}

// yieldDir enumerates one resolved directory, yielding entries until the
// engine reports the end of the range.
func (a *Archive) yieldDir(prefix string, h NodeHandle, yield func(Entry, error) bool) bool {
	count, err := a.dirEntryCount(prefix, h)
	if err != nil {
		return yield(Entry{}, err)
	}
	for i := uint32(0); i < count; i++ {
		de, found, err := a.dirEntryAt(prefix, h, i)
		if err != nil {
			return yield(Entry{}, err)
		}
		if !found {
			return true
		}
		if !yield(entryFrom(de, prefix), nil) {
			return false
		}
	}
	return true
}

// Walk returns a lazy depth-first iterator over the whole tree: parents
// before children, siblings in engine-reported order. Subdirectories are
// re-resolved by full path at each level; the engine does not guarantee
// handle stability, so handles are never reused across levels. The
// iterator is single-consumer; restart by calling Walk again.
func (a *Archive) Walk() iter.Seq2[Entry, error] {
	return a.walkFrom("")
}

// walkFrame tracks one directory level of an in-progress traversal.
type walkFrame struct {
	prefix string
	handle NodeHandle
	count  uint32
	index  uint32
}

func (a *Archive) walkFrom(root string) iter.Seq2[Entry, error] {
	return func(yield func(Entry, error) bool) {
		h, err := a.resolve(root, false, true)
		if err != nil {
			yield(Entry{}, err)
			return
		}
		count, err := a.dirEntryCount(root, h)
		if err != nil {
			yield(Entry{}, err)
			return
		}

		stack := []walkFrame{{prefix: root, handle: h, count: count}}
		for len(stack) > 0 {
			frame := &stack[len(stack)-1]
			if frame.index >= frame.count {
				stack = stack[:len(stack)-1]
				continue
			}

			de, found, err := a.dirEntryAt(frame.prefix, frame.handle, frame.index)
			if err != nil {
				yield(Entry{}, err)
				return
			}
			frame.index++
			if !found {
				stack = stack[:len(stack)-1]
				continue
			}

			entry := entryFrom(de, frame.prefix)
			if !yield(entry, nil) {
				return
			}
			if !de.Dir {
				continue
			}

			if len(stack) >= maxTreeDepth {
				yield(Entry{}, fmt.Errorf("walk %q: nesting exceeds %d levels: %w", entry.Path, maxTreeDepth, ErrCorrupt))
				return
			}
			child, err := a.resolve(entry.Path, false, true)
			if err != nil {
				// The engine listed the entry as a directory a moment
				// ago. Tolerate a vanished node, fail on anything else.
				if errors.Is(err, ErrNotFound) {
					continue
				}
				yield(Entry{}, err)
				return
			}
			childCount, err := a.dirEntryCount(entry.Path, child)
			if err != nil {
				yield(Entry{}, err)
				return
			}
			stack = append(stack, walkFrame{prefix: entry.Path, handle: child, count: childCount})
		}
	}
}

// Files returns the full logical paths of every file in the archive, in
// depth-first traversal order.
func (a *Archive) Files() ([]string, error) {
	var files []string
	for entry, err := range a.Walk() {
		if err != nil {
			return nil, err
		}
		if !entry.Dir {
			files = append(files, entry.Path)
		}
	}
	return files, nil
}

// dirEntryCount queries the entry count of a directory under shared
// access.
func (a *Archive) dirEntryCount(path string, h NodeHandle) (uint32, error) {
	var count uint32
	err := a.shared(func(eng Engine) error {
		var err error
		count, err = eng.DirEntryCount(h)
		return err
	})
	if err != nil {
		return 0, fmt.Errorf("list %q: %w", path, err)
	}
	return count, nil
}

// dirEntryAt fetches one directory entry under shared access.
func (a *Archive) dirEntryAt(path string, h NodeHandle, index uint32) (DirEntry, bool, error) {
	var (
		de    DirEntry
		found bool
	)
	err := a.shared(func(eng Engine) error {
		var err error
		de, found, err = eng.DirEntry(h, index)
		return err
	})
	if err != nil {
		return DirEntry{}, false, fmt.Errorf("list %q: %w", path, err)
	}
	return de, found, nil
}

// entryFrom builds a full-path Entry from an engine directory record.
func entryFrom(de DirEntry, prefix string) Entry {
	entry := Entry{
		Name: de.Name,
		Path: pathutil.Join(prefix, de.Name),
		Dir:  de.Dir,
	}
	if de.File {
		entry.Size = de.Size
	}
	return entry
}
