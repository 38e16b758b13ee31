// SPDX-License-Identifier: EPL-2.0

// Package stretch changes the tempo of a recording one segment at a time.
//
// Every transient starts a segment. The first part of a segment (the
// attack) is copied unchanged so onsets keep their timbre; the rest is
// filled by looping the second half of the segment under a raised-cosine
// window until the segment's slot in the output timeline is used up.
//
// A Session holds the playback state and produces one sample per Step. An
// Engine owns the session the audio callback plays and lets another
// goroutine replace it with a single atomic store.
package stretch
