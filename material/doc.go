// SPDX-License-Identifier: EPL-2.0

// Package material loads the two inputs of a stretch session: a mono
// sample buffer decoded from an audio file and the transient map read from
// its paired annotation file.
//
// Both are immutable once loaded. A Material bundles them so a new pair is
// always handed to the engine as a whole.
//
// Annotation files are plain text, one sample offset per line:
//
//	# sample_rate 48000
//	# tempo 120
//	0
//	22050
//
// Unknown comment lines and blank lines are ignored. A same-stem .json file
// with "sample_rate", "tempo" and "onsets" keys is accepted as well.
package material
