package zar

import (
	"errors"
	"io"
	"io/fs"
	"testing"
	"testing/fstest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFSConformance(t *testing.T) {
	a := openFixture(t)

	expected := make([]string, 0, len(fixtureFiles))
	for path := range fixtureFiles {
		expected = append(expected, path)
	}
	require.NoError(t, fstest.TestFS(a, expected...))
}

func TestFSOpenStreamsFile(t *testing.T) {
	a := openFixture(t)

	f, err := a.Open("content/pack/bootup.bin")
	require.NoError(t, err)
	defer f.Close()

	data, err := io.ReadAll(f)
	require.NoError(t, err)
	assert.Equal(t, fixtureFiles["content/pack/bootup.bin"], data)

	// Reading past the end reports EOF, not an error.
	n, err := f.Read(make([]byte, 1))
	assert.Zero(t, n)
	assert.ErrorIs(t, err, io.EOF)
}

func TestFSOpenClosedFile(t *testing.T) {
	a := openFixture(t)

	f, err := a.Open("readme.txt")
	require.NoError(t, err)
	require.NoError(t, f.Close())

	_, err = f.Read(make([]byte, 1))
	assert.ErrorIs(t, err, fs.ErrClosed)
}

func TestFSOpenErrors(t *testing.T) {
	a := openFixture(t)

	_, err := a.Open("missing.txt")
	assert.ErrorIs(t, err, fs.ErrNotExist)

	_, err = a.Open("/absolute")
	assert.ErrorIs(t, err, fs.ErrInvalid)

	var pe *fs.PathError
	_, err = a.Open("missing.txt")
	require.True(t, errors.As(err, &pe))
	assert.Equal(t, "open", pe.Op)
	assert.Equal(t, "missing.txt", pe.Path)
}

func TestFSStat(t *testing.T) {
	a := openFixture(t)

	info, err := a.Stat("readme.txt")
	require.NoError(t, err)
	assert.Equal(t, "readme.txt", info.Name())
	assert.Equal(t, int64(len(fixtureFiles["readme.txt"])), info.Size())
	assert.False(t, info.IsDir())
	assert.Equal(t, fs.FileMode(0o444), info.Mode())

	info, err = a.Stat("content/model")
	require.NoError(t, err)
	assert.Equal(t, "model", info.Name())
	assert.True(t, info.IsDir())

	info, err = a.Stat(".")
	require.NoError(t, err)
	assert.Equal(t, ".", info.Name())
	assert.True(t, info.IsDir())
}

func TestFSReadDirOnFile(t *testing.T) {
	a := openFixture(t)

	// The entry exists, so the error must not claim it does not.
	_, err := a.ReadDir("readme.txt")
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrWrongKind)
	assert.NotErrorIs(t, err, fs.ErrNotExist)

	var pe *fs.PathError
	require.True(t, errors.As(err, &pe))
	assert.Equal(t, "readdir", pe.Op)
	assert.Equal(t, "readme.txt", pe.Path)
}

func TestFSReadDirSorted(t *testing.T) {
	a := openFixture(t)

	entries, err := a.ReadDir("content")
	require.NoError(t, err)

	names := make([]string, len(entries))
	for i, e := range entries {
		names[i] = e.Name()
	}
	assert.Equal(t, []string{"actors.txt", "model", "pack"}, names)
}

func TestFSReadDirPaging(t *testing.T) {
	a := openFixture(t)

	f, err := a.Open("content")
	require.NoError(t, err)
	defer f.Close()

	dir, ok := f.(fs.ReadDirFile)
	require.True(t, ok)

	first, err := dir.ReadDir(2)
	require.NoError(t, err)
	assert.Len(t, first, 2)

	rest, err := dir.ReadDir(2)
	require.NoError(t, err)
	assert.Len(t, rest, 1)

	_, err = dir.ReadDir(1)
	assert.ErrorIs(t, err, io.EOF)
}

func TestFSWalkDir(t *testing.T) {
	a := openFixture(t)

	var files []string
	err := fs.WalkDir(a, ".", func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() {
			files = append(files, path)
		}
		return nil
	})
	require.NoError(t, err)

	expected := make([]string, 0, len(fixtureFiles))
	for path := range fixtureFiles {
		expected = append(expected, path)
	}
	assert.ElementsMatch(t, expected, files)
}

func TestFSReadFileMatchesStreaming(t *testing.T) {
	a := openFixture(t)

	direct, err := a.ReadFile("music/theme.raw")
	require.NoError(t, err)

	f, err := a.Open("music/theme.raw")
	require.NoError(t, err)
	defer f.Close()
	streamed, err := io.ReadAll(f)
	require.NoError(t, err)

	assert.Equal(t, direct, streamed)
}
