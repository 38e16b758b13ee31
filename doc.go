// SPDX-License-Identifier: EPL-2.0

// Package beatstretch plays recordings at a new tempo without touching
// their transients.
//
// A recording is an audio file plus an annotation file with the same stem
// and an .ana extension that lists the sample offset of every transient and
// the tempo it was played at. Each transient keeps its attack at the
// original speed; the space up to the next transient is filled or trimmed
// by looping the segment's tail. See package stretch for the algorithm.
//
// # Supported Formats
//
// By default only mono 16-bit PCM is accepted, from:
//   - WAV via formats/wav
//   - AIFF via formats/aiff
//
// With material.LoadOptions.Downmix, multi-channel files and the
// compressed formats are mixed down to mono:
//   - MP3 via formats/mp3
//   - Ogg Vorbis via formats/vorbis
//
// # Playing
//
// A Player loads files and publishes sessions to a stretch.Engine, whose
// Process method an audio callback calls once per block:
//
//	engine := stretch.NewEngine(events)
//	player := beatstretch.NewPlayer(engine, events, material.LoadOptions{})
//	if _, err := player.Play(ctx, "drums.wav", 140); err != nil {
//		// an error or error_wav event has been emitted
//	}
//
//	// audio goroutine
//	engine.Process(block)
//
// # Rendering
//
// Render runs a session to completion offline:
//
//	m, _ := material.Load("drums.wav", material.LoadOptions{})
//	out, _ := beatstretch.Render(ctx, m, 140, stretch.DefaultSettings(), 256, nil)
//
// The cmd/beatstretch command wraps both: "render" writes a WAV file and
// "serve" plays through a websocket monitor.
package beatstretch
