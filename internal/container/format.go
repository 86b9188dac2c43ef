package container

import (
	"encoding/binary"
	"errors"
	"fmt"
)

// Sentinel errors for container parsing and packing.
var (
	// ErrCorrupt is returned when a container fails structural or
	// checksum validation. It is not recoverable.
	ErrCorrupt = errors.New("zar: corrupt container")

	// ErrUnsupportedVersion is returned when a container was written by
	// a newer format revision than this package understands.
	ErrUnsupportedVersion = errors.New("zar: unsupported container version")

	// ErrTooManyFiles is returned by Pack when the source tree exceeds
	// the configured file limit.
	ErrTooManyFiles = errors.New("zar: too many files")
)

// Format constants. These are protocol values; changing them breaks
// compatibility with existing containers.
const (
	formatVersion = 1

	headerSize = 8
	footerSize = 52

	checksumSize = 32
)

var (
	headerMagic = [4]byte{'Z', 'A', 'R', 'C'}
	footerMagic = [4]byte{'C', 'R', 'A', 'Z'}
)

// header is the fixed leading block of a container file.
type header struct {
	version uint16
	flags   uint16
}

func (h header) encode() []byte {
	buf := make([]byte, headerSize)
	copy(buf[0:4], headerMagic[:])
	binary.LittleEndian.PutUint16(buf[4:6], h.version)
	binary.LittleEndian.PutUint16(buf[6:8], h.flags)
	return buf
}

func decodeHeader(buf []byte) (header, error) {
	if len(buf) != headerSize {
		return header{}, fmt.Errorf("%w: header truncated", ErrCorrupt)
	}
	if [4]byte(buf[0:4]) != headerMagic {
		return header{}, fmt.Errorf("%w: bad header magic", ErrCorrupt)
	}
	h := header{
		version: binary.LittleEndian.Uint16(buf[4:6]),
		flags:   binary.LittleEndian.Uint16(buf[6:8]),
	}
	if h.version != formatVersion {
		return header{}, fmt.Errorf("%w: version %d", ErrUnsupportedVersion, h.version)
	}
	return h, nil
}

// footer is the fixed trailing block that locates and authenticates the
// table of contents.
type footer struct {
	tocOffset uint64
	tocSize   uint64
	tocSum    [checksumSize]byte
}

func (f footer) encode() []byte {
	buf := make([]byte, footerSize)
	binary.LittleEndian.PutUint64(buf[0:8], f.tocOffset)
	binary.LittleEndian.PutUint64(buf[8:16], f.tocSize)
	copy(buf[16:48], f.tocSum[:])
	copy(buf[48:52], footerMagic[:])
	return buf
}

func decodeFooter(buf []byte) (footer, error) {
	if len(buf) != footerSize {
		return footer{}, fmt.Errorf("%w: footer truncated", ErrCorrupt)
	}
	if [4]byte(buf[48:52]) != footerMagic {
		return footer{}, fmt.Errorf("%w: bad footer magic", ErrCorrupt)
	}
	f := footer{
		tocOffset: binary.LittleEndian.Uint64(buf[0:8]),
		tocSize:   binary.LittleEndian.Uint64(buf[8:16]),
	}
	copy(f.tocSum[:], buf[16:48])
	return f, nil
}
