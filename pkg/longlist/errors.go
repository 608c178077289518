package longlist

import (
	"errors"
	"fmt"
)

// Sentinel errors
var (
	ErrIndexOutOfBounds = errors.New("index out of bounds")
	ErrRange            = errors.New("invalid range")
)

// DecodeError reports a malformed or truncated list encoding.
type DecodeError struct {
	Declared int   // Element count announced by the header, -1 if unread
	Read     int   // Elements read before failure
	Cause    error // Underlying error
}

func (e *DecodeError) Error() string {
	if e.Declared < 0 {
		return fmt.Sprintf("decode long list: reading count: %v", e.Cause)
	}
	return fmt.Sprintf("decode long list: read %d of %d elements: %v", e.Read, e.Declared, e.Cause)
}

// Unwrap returns the underlying cause for error chain support.
func (e *DecodeError) Unwrap() error {
	return e.Cause
}

func indexError(op string, i, n int) error {
	return fmt.Errorf("%s: index %d with length %d: %w", op, i, n, ErrIndexOutOfBounds)
}
