package wav

import "errors"

var (
	ErrNotWavFile       = errors.New("not a WAV file")
	ErrMissingDataChunk = errors.New("WAV data chunk not found")
)
