// SPDX-License-Identifier: EPL-2.0

package audio

import (
	"errors"
	"fmt"
)

var (
	ErrInvalidDstSize = errors.New("dst size must be multiple of channels")
	ErrUnknownFormat  = errors.New("no decoder registered for format")
	ErrUnsupported    = errors.New("unsupported audio format")
)

// FormatError reports a stream that was recognised but cannot be decoded
// or used. It matches ErrUnsupported with errors.Is.
type FormatError struct {
	Format Format
	Reason string
}

func (e *FormatError) Error() string {
	return fmt.Sprintf("%s: %s (%s)", ErrUnsupported, e.Reason, e.Format)
}

func (e *FormatError) Unwrap() error { return ErrUnsupported }
