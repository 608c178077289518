// Package passfile stores the node records that cross a pass boundary.
//
// A pass file is a 6-byte header followed by concatenated graphnode
// encodings, optionally inside a snappy framed stream:
//
//	magic       4 bytes  "PRNF"
//	version     1 byte   1
//	compression 1 byte   0 none, 1 snappy
//	records     ...
//
// Records carry no length prefix. The node codec is self-delimiting, so a
// reader walks the body record by record.
package passfile

import (
	"errors"
	"fmt"
)

// Compression selects how the record body is stored.
type Compression uint8

const (
	None   Compression = 0
	Snappy Compression = 1
)

const (
	version    = 1
	headerSize = 6
)

var magic = [4]byte{'P', 'R', 'N', 'F'}

// Errors returned when opening a stream.
var (
	ErrBadMagic           = errors.New("not a pass file")
	ErrUnsupportedVersion = errors.New("unsupported pass file version")
	ErrUnknownCompression = errors.New("unknown compression")
	ErrClosed             = errors.New("pass file writer is closed")
)

func (c Compression) String() string {
	switch c {
	case None:
		return "none"
	case Snappy:
		return "snappy"
	default:
		return fmt.Sprintf("compression(%d)", uint8(c))
	}
}

// ParseCompression maps a configuration value to a Compression.
func ParseCompression(s string) (Compression, error) {
	switch s {
	case "", "none":
		return None, nil
	case "snappy":
		return Snappy, nil
	default:
		return 0, fmt.Errorf("%w: %q", ErrUnknownCompression, s)
	}
}
