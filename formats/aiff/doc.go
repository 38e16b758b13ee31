// SPDX-License-Identifier: EPL-2.0

// Package aiff decodes 16-bit PCM AIFF files using github.com/go-audio/aiff.
//
// Input that is not an io.ReadSeeker is buffered in memory first, since
// go-audio seeks while locating the COMM and SSND chunks.
package aiff
