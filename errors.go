// SPDX-License-Identifier: EPL-2.0

package beatstretch

import "errors"

var (
	ErrInvalidTempo  = errors.New("target tempo must be a positive number")
	ErrTempoRatio    = errors.New("tempo ratio out of range")
	ErrInvalidBlock  = errors.New("block size must be positive")
	ErrNothingToPlay = errors.New("session has nothing to play")
)
