package zar

import (
	"errors"

	"github.com/zarlib/zar/internal/container"
)

// Sentinel errors for archive operations. Operations wrap these with
// the logical path involved; match with errors.Is.
var (
	// ErrInvalidPath is returned for paths that are not valid logical
	// archive paths (non-UTF-8, leading slash, empty or dot components).
	ErrInvalidPath = errors.New("zar: invalid path")

	// ErrNotFound is returned when no entry exists at a path.
	ErrNotFound = errors.New("zar: entry not found")

	// ErrWrongKind is returned when an entry exists at a path but is a
	// directory where a file was required, or vice versa.
	ErrWrongKind = errors.New("zar: wrong entry kind")

	// ErrRange is returned when a requested byte range extends past the
	// end of a file.
	ErrRange = errors.New("zar: read range out of bounds")

	// ErrIntegrity is returned when the engine delivers fewer bytes than
	// requested. It signals a corrupt container or a broken engine and
	// is not recoverable; no partial data is ever returned alongside it.
	ErrIntegrity = errors.New("zar: integrity violation")

	// ErrClosed is returned by operations on a closed archive.
	ErrClosed = errors.New("zar: archive closed")
)

// Errors re-exported from the default engine.
var (
	// ErrCorrupt is returned when a container fails structural or
	// checksum validation.
	ErrCorrupt = container.ErrCorrupt

	// ErrUnsupportedVersion is returned when a container was written by
	// a newer format revision.
	ErrUnsupportedVersion = container.ErrUnsupportedVersion

	// ErrTooManyFiles is returned by Pack when the source tree exceeds
	// the configured file limit.
	ErrTooManyFiles = container.ErrTooManyFiles
)
