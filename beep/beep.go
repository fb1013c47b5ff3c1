// Package beep plays short audible cues when recording starts, a note is
// committed, or a recording is cancelled.
package beep

import (
	"math"
	"sync/atomic"
)

// Cue selects which sound to play.
type Cue int

const (
	CueStart Cue = iota
	CueCommit
	CueCancel
)

const sampleRate = 44100

type tone struct {
	freq     float64
	duration float64 // seconds per pulse
	volume   float64
	decay    float64
	pulses   int
	gap      float64 // seconds of silence between pulses
}

var tones = map[Cue]tone{
	// high, short tick
	CueStart: {freq: 1200, duration: 0.2, volume: 0.5, decay: 60, pulses: 1},
	// slightly lower tick
	CueCommit: {freq: 900, duration: 0.2, volume: 0.5, decay: 40, pulses: 1},
	// low double beep
	CueCancel: {freq: 350, duration: 0.08, volume: 0.6, decay: 30, pulses: 2, gap: 0.05},
}

var disabled atomic.Bool

func Disable() { disabled.Store(true) }

// Play starts the cue asynchronously. Playback errors are swallowed: a
// missing sound server must never affect note taking.
func Play(c Cue) {
	if disabled.Load() {
		return
	}
	t, ok := tones[c]
	if !ok {
		return
	}
	go play(synth(t))
}

// synth renders t as mono signed 16-bit samples.
func synth(t tone) []int16 {
	n := int(float64(sampleRate) * t.duration)
	gap := int(float64(sampleRate) * t.gap)
	out := make([]int16, 0, t.pulses*n+(t.pulses-1)*gap)
	for p := 0; p < t.pulses; p++ {
		if p > 0 {
			out = append(out, make([]int16, gap)...)
		}
		for i := 0; i < n; i++ {
			x := float64(i) / float64(sampleRate)
			envelope := math.Exp(-x * t.decay)
			out = append(out, int16(math.Sin(2*math.Pi*t.freq*x)*32767*t.volume*envelope))
		}
	}
	return out
}
