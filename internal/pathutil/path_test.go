package pathutil

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValid(t *testing.T) {
	tests := []struct {
		name string
		path string
		want bool
	}{
		{"root", "", true},
		{"simple", "foo", true},
		{"nested", "foo/bar/baz.txt", true},
		{"unicode", "доки/файл.txt", true},
		{"leading slash", "/foo", false},
		{"trailing slash", "foo/", false},
		{"double slash", "foo//bar", false},
		{"dot component", "foo/./bar", false},
		{"dotdot component", "foo/../bar", false},
		{"bare dot", ".", false},
		{"bare dotdot", "..", false},
		{"invalid utf8", "foo/\xff\xfe", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Valid(tt.path))
		})
	}
}

func TestJoin(t *testing.T) {
	assert.Equal(t, "foo", Join("", "foo"))
	assert.Equal(t, "foo/bar", Join("foo", "bar"))
	assert.Equal(t, "a/b/c", Join("a/b", "c"))
}

func TestBase(t *testing.T) {
	assert.Equal(t, "", Base(""))
	assert.Equal(t, "foo", Base("foo"))
	assert.Equal(t, "baz.txt", Base("foo/bar/baz.txt"))
}

func TestSplit(t *testing.T) {
	assert.Equal(t, []string{"a", "b", "c"}, Split("a/b/c"))
	assert.Equal(t, []string{"a"}, Split("a"))
}
