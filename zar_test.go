package zar

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/zarlib/zar/internal/container"
	"github.com/zarlib/zar/internal/testutil"
)

// fixtureFiles is the standard archive layout used across tests. Every
// file starts with a distinct 4-byte magic so concurrent reads can
// detect cross-talk.
var fixtureFiles = map[string][]byte{
	"readme.txt":              []byte("RDME top-level file\n"),
	"content/pack/bootup.bin": append([]byte("SARC"), bytes.Repeat([]byte("bootup data "), 400)...),
	"content/model/feather":   append([]byte("FRES"), bytes.Repeat([]byte{0x00, 0x01, 0x02, 0x03}, 300)...),
	"content/model/sword":     append([]byte("MODL"), bytes.Repeat([]byte("edge"), 64)...),
	"content/actors.txt":      []byte("ACTR list of actors"),
	"music/theme.raw":         append([]byte("WAVE"), bytes.Repeat([]byte{0x7F, 0x80}, 1000)...),
}

// openFixture packs fixtureFiles into a container and opens it.
func openFixture(t *testing.T, opts ...container.PackOption) *Archive {
	t.Helper()
	return openTree(t, fixtureFiles, opts...)
}

func openTree(t *testing.T, files map[string][]byte, opts ...container.PackOption) *Archive {
	t.Helper()
	a, err := Open(testutil.PackTree(t, files, opts...))
	require.NoError(t, err)
	t.Cleanup(func() { a.Close() })
	return a
}
