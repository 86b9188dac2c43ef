// Package pathutil provides validation and manipulation for slash-separated
// logical archive paths. The empty string denotes the archive root.
package pathutil

import (
	"strings"
	"unicode/utf8"
)

// Valid reports whether path is a well-formed logical archive path:
// UTF-8, root-relative (no leading slash), with non-empty components and
// no "." or ".." segments. The empty string is valid and names the root.
func Valid(path string) bool {
	if path == "" {
		return true
	}
	if !utf8.ValidString(path) {
		return false
	}
	for _, component := range strings.Split(path, "/") {
		if component == "" || component == "." || component == ".." {
			return false
		}
	}
	return true
}

// Join appends name to a parent path. Root-level entries have no parent
// prefix, so joining onto the root returns name unchanged.
func Join(parent, name string) string {
	if parent == "" {
		return name
	}
	return parent + "/" + name
}

// Base returns the final component of a logical path, or "" for the root.
func Base(path string) string {
	if i := strings.LastIndexByte(path, '/'); i >= 0 {
		return path[i+1:]
	}
	return path
}

// Split breaks a non-root path into its components.
func Split(path string) []string {
	return strings.Split(path, "/")
}
