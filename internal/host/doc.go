// Package host runs a stretch.Engine in real time: a ticker stands in for
// the audio device and pulls one block per period.
package host
