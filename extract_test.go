package zar

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExtractToLiteralPath(t *testing.T) {
	a := openFixture(t)

	dest := filepath.Join(t.TempDir(), "renamed.bin")
	require.NoError(t, a.Extract("content/pack/bootup.bin", dest))

	data, err := os.ReadFile(dest)
	require.NoError(t, err)
	assert.Equal(t, fixtureFiles["content/pack/bootup.bin"], data)
}

func TestExtractIntoExistingDirectory(t *testing.T) {
	a := openFixture(t)

	destDir := t.TempDir()
	require.NoError(t, a.Extract("content/pack/bootup.bin", destDir))

	// The file lands at its archive-relative path inside the directory.
	data, err := os.ReadFile(filepath.Join(destDir, "content", "pack", "bootup.bin"))
	require.NoError(t, err)
	assert.Equal(t, fixtureFiles["content/pack/bootup.bin"], data)
}

func TestExtractCreatesParents(t *testing.T) {
	a := openFixture(t)

	dest := filepath.Join(t.TempDir(), "deeply", "nested", "out.bin")
	require.NoError(t, a.Extract("readme.txt", dest))

	data, err := os.ReadFile(dest)
	require.NoError(t, err)
	assert.Equal(t, fixtureFiles["readme.txt"], data)
}

func TestExtractIdempotent(t *testing.T) {
	a := openFixture(t)

	dest := filepath.Join(t.TempDir(), "out.bin")
	require.NoError(t, a.Extract("music/theme.raw", dest))
	first, err := os.ReadFile(dest)
	require.NoError(t, err)

	require.NoError(t, a.Extract("music/theme.raw", dest))
	second, err := os.ReadFile(dest)
	require.NoError(t, err)

	assert.Equal(t, first, second)
}

func TestExtractErrors(t *testing.T) {
	a := openFixture(t)
	dest := t.TempDir()

	assert.ErrorIs(t, a.Extract("missing.bin", dest), ErrNotFound)
	assert.ErrorIs(t, a.Extract("content/model", dest), ErrWrongKind)
}

func TestExtractAll(t *testing.T) {
	a := openFixture(t)

	destDir := t.TempDir()
	require.NoError(t, a.ExtractAll(destDir))

	for path, content := range fixtureFiles {
		data, err := os.ReadFile(filepath.Join(destDir, filepath.FromSlash(path)))
		require.NoError(t, err, path)
		assert.Equal(t, content, data, path)
	}
}

func TestExtractAllParallel(t *testing.T) {
	a := openFixture(t)

	destDir := t.TempDir()
	require.NoError(t, a.ExtractAll(destDir, ExtractWithWorkers(4)))

	for path, content := range fixtureFiles {
		data, err := os.ReadFile(filepath.Join(destDir, filepath.FromSlash(path)))
		require.NoError(t, err, path)
		assert.Equal(t, content, data, path)
	}
}

func TestExtractAllRejectsFileDestination(t *testing.T) {
	a := openFixture(t)

	dest := filepath.Join(t.TempDir(), "a-file")
	require.NoError(t, os.WriteFile(dest, []byte("occupied"), 0o644))

	assert.Error(t, a.ExtractAll(dest))
}

func TestExtractAllEmptyArchive(t *testing.T) {
	a := openTree(t, nil)
	require.NoError(t, a.ExtractAll(t.TempDir()))
}
