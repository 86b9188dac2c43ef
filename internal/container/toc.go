package container

import (
	"fmt"

	"github.com/fxamacker/cbor/v2"
)

// encMode is the CBOR encoder configured with Core Deterministic
// Encoding (RFC 8949 §4.2): the same table of contents always produces
// identical bytes, so the footer checksum is reproducible.
var encMode cbor.EncMode

// decMode is the CBOR decoder configured to accept standard CBOR.
// Unknown fields are ignored for forward compatibility.
var decMode cbor.DecMode

func init() {
	var err error
	encMode, err = cbor.CoreDetEncOptions().EncMode()
	if err != nil {
		panic("container: CBOR encoder initialization failed: " + err.Error())
	}
	decMode, err = cbor.DecOptions{}.DecMode()
	if err != nil {
		panic("container: CBOR decoder initialization failed: " + err.Error())
	}
}

// tocEntry describes one file frame. Integer keys keep the encoded
// table compact; key values are protocol constants.
type tocEntry struct {
	Path       string `cbor:"1,keyasint"`
	Offset     uint64 `cbor:"2,keyasint"`
	StoredSize uint64 `cbor:"3,keyasint"`
	Size       uint64 `cbor:"4,keyasint"`
	Codec      Codec  `cbor:"5,keyasint"`
	Checksum   []byte `cbor:"6,keyasint"`
}

// tableOfContents lists every file frame in the container, in the order
// the frames were written (lexical path order).
type tableOfContents struct {
	Entries []tocEntry `cbor:"1,keyasint"`
}

func encodeTOC(toc *tableOfContents) ([]byte, error) {
	data, err := encMode.Marshal(toc)
	if err != nil {
		return nil, fmt.Errorf("encode table of contents: %w", err)
	}
	return data, nil
}

func decodeTOC(data []byte) (*tableOfContents, error) {
	var toc tableOfContents
	if err := decMode.Unmarshal(data, &toc); err != nil {
		return nil, fmt.Errorf("%w: table of contents: %v", ErrCorrupt, err)
	}
	return &toc, nil
}
