// SPDX-License-Identifier: EPL-2.0

package material

import "errors"

var (
	ErrFileNotFound      = errors.New("file not found")
	ErrUnsupportedFormat = errors.New("unsupported audio format")
	ErrEmptyBuffer       = errors.New("audio buffer is empty")
	ErrInvalidTempo      = errors.New("source tempo must be positive")
)
