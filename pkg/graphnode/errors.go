package graphnode

import (
	"errors"
	"fmt"
)

// Sentinel errors
var (
	ErrInvalidVariant  = errors.New("invalid node variant")
	ErrFieldNotCarried = errors.New("field not carried by variant")
)

// DecodeError reports a record that could not be decoded. When the tag
// byte itself was unrecognized Tag holds it and nothing after it was read.
type DecodeError struct {
	Tag   byte   // Tag byte read, 0 if none
	Field string // Field being read when decoding stopped
	Cause error  // Underlying error
}

func (e *DecodeError) Error() string {
	if e.Field == "" {
		return fmt.Sprintf("decode node: %v", e.Cause)
	}
	return fmt.Sprintf("decode node (tag %d, field %s): %v", e.Tag, e.Field, e.Cause)
}

// Unwrap returns the underlying cause for error chain support.
func (e *DecodeError) Unwrap() error {
	return e.Cause
}

// IsDecodeError reports whether err came from decoding a node record.
func IsDecodeError(err error) bool {
	var de *DecodeError
	return errors.As(err, &de)
}
