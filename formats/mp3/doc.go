// SPDX-License-Identifier: EPL-2.0

// Package mp3 decodes MP3 files using github.com/hajimehoshi/go-mp3.
//
// go-mp3 always produces interleaved stereo, so sources from this package
// report two channels and an mp3 encoding. The material loader only accepts
// them when downmixing is enabled.
package mp3
