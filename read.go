package zar

import (
	"fmt"

	"github.com/zarlib/zar/internal/pathutil"
)

// FileSize returns the uncompressed size of the file at path.
func (a *Archive) FileSize(path string) (uint64, error) {
	h, err := a.resolve(path, true, false)
	if err != nil {
		return 0, err
	}
	return a.fileSize(path, h)
}

func (a *Archive) fileSize(path string, h NodeHandle) (uint64, error) {
	var size uint64
	err := a.exclusive(func(eng Engine) error {
		var err error
		size, err = eng.FileSize(h)
		return err
	})
	if err != nil {
		return 0, fmt.Errorf("size of %q: %w", path, err)
	}
	return size, nil
}

// Entry returns the entry at path, which may be a file or a directory.
func (a *Archive) Entry(path string) (Entry, error) {
	h, err := a.resolve(path, true, true)
	if err != nil {
		return Entry{}, err
	}

	var isFile bool
	if err := a.shared(func(eng Engine) error {
		isFile = eng.IsFile(h)
		return nil
	}); err != nil {
		return Entry{}, err
	}

	entry := Entry{Name: pathutil.Base(path), Path: path, Dir: !isFile}
	if isFile {
		if entry.Size, err = a.fileSize(path, h); err != nil {
			return Entry{}, err
		}
	}
	return entry, nil
}

// ReadFile reads the whole content of the file at path.
func (a *Archive) ReadFile(path string) ([]byte, error) {
	h, err := a.resolve(path, true, false)
	if err != nil {
		return nil, err
	}
	size, err := a.fileSize(path, h)
	if err != nil {
		return nil, err
	}
	return a.readAt(path, h, 0, size)
}

// ReadRange reads length bytes of the file at path starting at offset.
// Ranges extending past the end of the file fail with ErrRange; ReadRange
// never returns a truncated buffer.
func (a *Archive) ReadRange(path string, offset, length uint64) ([]byte, error) {
	h, err := a.resolve(path, true, false)
	if err != nil {
		return nil, err
	}
	size, err := a.fileSize(path, h)
	if err != nil {
		return nil, err
	}
	if length > size || offset > size-length {
		return nil, fmt.Errorf("read %q at [%d, %d+%d): %w (size %d)", path, offset, offset, length, ErrRange, size)
	}
	return a.readAt(path, h, offset, length)
}

// readAt requests exactly length bytes from the engine. A short count is
// a broken engine contract or a corrupt container; it surfaces as
// ErrIntegrity and no data is returned.
func (a *Archive) readAt(path string, h NodeHandle, offset, length uint64) ([]byte, error) {
	buf := make([]byte, length)
	if length == 0 {
		return buf, nil
	}
	var n int
	err := a.exclusive(func(eng Engine) error {
		var err error
		n, err = eng.ReadFromFile(h, offset, buf)
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("read %q: %w", path, err)
	}
	if uint64(n) != length {
		return nil, fmt.Errorf("read %q: engine returned %d of %d bytes: %w", path, n, length, ErrIntegrity)
	}
	return buf, nil
}

// Verify re-reads every file in the archive, forcing the engine's
// content checksum verification. It returns the first failure.
func (a *Archive) Verify() error {
	files, err := a.Files()
	if err != nil {
		return err
	}
	for _, path := range files {
		if _, err := a.ReadFile(path); err != nil {
			return err
		}
	}
	a.log().Debug("archive verified", "files", len(files))
	return nil
}
