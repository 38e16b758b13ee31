// SPDX-License-Identifier: EPL-2.0

// Package wav decodes and encodes RIFF/WAVE files using github.com/go-audio/wav.
//
// # Decoding
//
// Decoder walks the RIFF chunk list, so files with LIST, fact or other
// chunks ahead of the data chunk are accepted. Linear PCM at 8, 16, 24 and
// 32 bits decodes to float32 in [-1, 1]; other encodings (IEEE float,
// extensible, compressed) are rejected with an *audio.FormatError carrying
// the parameters found in the fmt chunk:
//
//	src, err := wav.Decoder{}.Decode(file)
//	var fe *audio.FormatError
//	if errors.As(err, &fe) {
//	    log.Printf("cannot use %s", fe.Format)
//	}
//
// The returned source implements audio.FormatReporter.
//
// # Encoding
//
// WriteWAV16 writes mono 16-bit PCM. It needs an io.WriteSeeker because the
// RIFF and data chunk sizes are patched once all samples are written.
package wav
