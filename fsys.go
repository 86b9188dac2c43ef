package zar

import (
	"errors"
	"io"
	"io/fs"
	"sort"
	"time"
)

// Interface compliance.
var (
	_ fs.FS         = (*Archive)(nil)
	_ fs.StatFS     = (*Archive)(nil)
	_ fs.ReadFileFS = (*Archive)(nil)
	_ fs.ReadDirFS  = (*Archive)(nil)
)

// logicalPath maps an io/fs name to a logical archive path: fs uses "."
// for the root where the archive uses "".
func logicalPath(name string) string {
	if name == "." {
		return ""
	}
	return name
}

// fsErr converts archive sentinel errors to their io/fs equivalents and
// wraps them in a PathError for the fs surface. ErrWrongKind is kept as
// is: the entry exists, so reporting fs.ErrNotExist would mislead.
func fsErr(op, name string, err error) *fs.PathError {
	switch {
	case errors.Is(err, ErrNotFound):
		err = fs.ErrNotExist
	case errors.Is(err, ErrInvalidPath):
		err = fs.ErrInvalid
	}
	return &fs.PathError{Op: op, Path: name, Err: err}
}

// Open implements fs.FS. Directory files implement fs.ReadDirFile.
//
// File reads stream through the archive in chunks, re-resolving the path
// per chunk; content read after a concurrent repack of the underlying
// container is undefined, as it is for every other operation.
func (a *Archive) Open(name string) (fs.File, error) {
	if !fs.ValidPath(name) {
		return nil, &fs.PathError{Op: "open", Path: name, Err: fs.ErrInvalid}
	}
	entry, err := a.Entry(logicalPath(name))
	if err != nil {
		return nil, fsErr("open", name, err)
	}
	if entry.Dir {
		return &archiveDir{a: a, name: name, entry: entry}, nil
	}
	return &archiveFile{a: a, name: name, entry: entry}, nil
}

// Stat implements fs.StatFS.
func (a *Archive) Stat(name string) (fs.FileInfo, error) {
	if !fs.ValidPath(name) {
		return nil, &fs.PathError{Op: "stat", Path: name, Err: fs.ErrInvalid}
	}
	entry, err := a.Entry(logicalPath(name))
	if err != nil {
		return nil, fsErr("stat", name, err)
	}
	return fileInfo{entry: entry}, nil
}

// ReadDir implements fs.ReadDirFS. Entries are sorted by name as the fs
// contract requires, which may differ from engine-reported order.
func (a *Archive) ReadDir(name string) ([]fs.DirEntry, error) {
	if !fs.ValidPath(name) {
		return nil, &fs.PathError{Op: "readdir", Path: name, Err: fs.ErrInvalid}
	}
	entries, err := a.readDirSorted(name)
	if err != nil {
		return nil, err
	}
	return entries, nil
}

func (a *Archive) readDirSorted(name string) ([]fs.DirEntry, error) {
	var entries []fs.DirEntry
	for entry, err := range a.Dir(logicalPath(name)) {
		if err != nil {
			return nil, fsErr("readdir", name, err)
		}
		entries = append(entries, dirEntry{fileInfo{entry: entry}})
	}
	sort.Slice(entries, func(i, j int) bool { return entries[i].Name() < entries[j].Name() })
	return entries, nil
}

// fileInfo adapts an Entry to fs.FileInfo. The container format does
// not record modes or times; files report 0o444 and directories
// fs.ModeDir|0o555.
type fileInfo struct {
	entry Entry
}

func (fi fileInfo) Name() string {
	if fi.entry.Name == "" {
		return "."
	}
	return fi.entry.Name
}

func (fi fileInfo) Size() int64 { return int64(fi.entry.Size) }

func (fi fileInfo) Mode() fs.FileMode {
	if fi.entry.Dir {
		return fs.ModeDir | 0o555
	}
	return 0o444
}

func (fi fileInfo) ModTime() time.Time { return time.Time{} }
func (fi fileInfo) IsDir() bool        { return fi.entry.Dir }
func (fi fileInfo) Sys() any           { return nil }

// dirEntry adapts a fileInfo to fs.DirEntry.
type dirEntry struct {
	info fileInfo
}

func (de dirEntry) Name() string               { return de.info.Name() }
func (de dirEntry) IsDir() bool                { return de.info.IsDir() }
func (de dirEntry) Type() fs.FileMode          { return de.info.Mode().Type() }
func (de dirEntry) Info() (fs.FileInfo, error) { return de.info, nil }

// archiveFile streams a file's content through chunked range reads.
type archiveFile struct {
	a      *Archive
	name   string
	entry  Entry
	pos    uint64
	closed bool
}

// fileChunkSize bounds the bytes fetched per engine read so a streaming
// consumer does not hold the whole file in memory twice.
const fileChunkSize = 512 * 1024

func (f *archiveFile) Read(p []byte) (int, error) {
	if f.closed {
		return 0, &fs.PathError{Op: "read", Path: f.name, Err: fs.ErrClosed}
	}
	if f.pos >= f.entry.Size {
		return 0, io.EOF
	}
	n := uint64(len(p))
	if remaining := f.entry.Size - f.pos; n > remaining {
		n = remaining
	}
	if n > fileChunkSize {
		n = fileChunkSize
	}
	data, err := f.a.ReadRange(f.entry.Path, f.pos, n)
	if err != nil {
		return 0, fsErr("read", f.name, err)
	}
	copy(p, data)
	f.pos += n
	return int(n), nil
}

func (f *archiveFile) Stat() (fs.FileInfo, error) {
	return fileInfo{entry: f.entry}, nil
}

func (f *archiveFile) Close() error {
	f.closed = true
	return nil
}

// archiveDir implements fs.ReadDirFile for directories.
type archiveDir struct {
	a       *Archive
	name    string
	entry   Entry
	entries []fs.DirEntry
	offset  int
	loaded  bool
	closed  bool
}

func (d *archiveDir) Read(_ []byte) (int, error) {
	return 0, &fs.PathError{Op: "read", Path: d.name, Err: fs.ErrInvalid}
}

func (d *archiveDir) Stat() (fs.FileInfo, error) {
	return fileInfo{entry: d.entry}, nil
}

func (d *archiveDir) Close() error {
	d.closed = true
	d.entries = nil
	return nil
}

// ReadDir implements fs.ReadDirFile with the standard paging behavior:
// n <= 0 returns all remaining entries, n > 0 returns at most n and
// io.EOF once the directory is exhausted.
func (d *archiveDir) ReadDir(n int) ([]fs.DirEntry, error) {
	if d.closed {
		return nil, &fs.PathError{Op: "readdir", Path: d.name, Err: fs.ErrClosed}
	}
	if !d.loaded {
		entries, err := d.a.readDirSorted(d.name)
		if err != nil {
			return nil, err
		}
		d.entries = entries
		d.loaded = true
	}

	remaining := d.entries[d.offset:]
	if n <= 0 {
		d.offset = len(d.entries)
		return remaining, nil
	}
	if len(remaining) == 0 {
		return nil, io.EOF
	}
	if n > len(remaining) {
		n = len(remaining)
	}
	d.offset += n
	return remaining[:n], nil
}
