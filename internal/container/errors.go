package container

import (
	"errors"
	"fmt"
)

// ErrUnsupportedFormat is returned when no engine claims a file.
var ErrUnsupportedFormat = errors.New("unsupported format")

// DecodeError reports a structurally invalid container: a bad signature, a
// declared length overrunning the input, or an empty/inverted audio span.
// Decoding is deterministic over a fixed buffer, so a DecodeError is never
// retried; the file is reported and the rest of the batch continues.
type DecodeError struct {
	Format Format
	Offset int
	Reason string
}

func (e *DecodeError) Error() string {
	if e.Offset > 0 {
		return fmt.Sprintf("%s: decode error at offset %d: %s", e.Format, e.Offset, e.Reason)
	}
	return fmt.Sprintf("%s: decode error: %s", e.Format, e.Reason)
}

// NewDecodeError builds a DecodeError for format f at byte offset off.
func NewDecodeError(f Format, off int, reason string) *DecodeError {
	return &DecodeError{Format: f, Offset: off, Reason: reason}
}
