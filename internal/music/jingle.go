package music

import (
	"math"
	"time"

	"github.com/faiface/beep"
)

const jingleSampleRate = beep.SampleRate(44100)

// Opening of "Jingle Bells" as (frequency Hz, beats). Zero frequency rests.
var jingleNotes = [][2]float64{
	{659.25, 1}, {659.25, 1}, {659.25, 2},
	{659.25, 1}, {659.25, 1}, {659.25, 2},
	{659.25, 1}, {783.99, 1}, {523.25, 1.5}, {587.33, 0.5}, {659.25, 4},
	{698.46, 1}, {698.46, 1}, {698.46, 1.5}, {698.46, 0.5},
	{698.46, 1}, {659.25, 1}, {659.25, 1}, {659.25, 0.5}, {659.25, 0.5},
	{659.25, 1}, {587.33, 1}, {587.33, 1}, {659.25, 1}, {587.33, 2}, {783.99, 2},
	{0, 2},
}

// jingleGenerator plays jingleNotes forever with a bell-like envelope.
type jingleGenerator struct {
	sr      beep.SampleRate
	beat    int
	note    int
	notePos int
}

func newJingleGenerator(sr beep.SampleRate, tempo time.Duration) *jingleGenerator {
	return &jingleGenerator{sr: sr, beat: sr.N(tempo)}
}

func (g *jingleGenerator) noteLen(i int) int {
	return int(jingleNotes[i][1] * float64(g.beat))
}

func (g *jingleGenerator) Stream(samples [][2]float64) (n int, ok bool) {
	for i := range samples {
		freq := jingleNotes[g.note][0]
		var v float64
		if freq > 0 {
			t := float64(g.notePos) / float64(g.sr)
			// Fundamental plus an inharmonic partial, decaying like a struck bell.
			env := math.Exp(-4 * t)
			v = 0.18 * env * (math.Sin(2*math.Pi*freq*t) + 0.35*math.Sin(2*math.Pi*freq*2.76*t))
		}
		samples[i][0] = v
		samples[i][1] = v

		g.notePos++
		if g.notePos >= g.noteLen(g.note) {
			g.notePos = 0
			g.note = (g.note + 1) % len(jingleNotes)
		}
	}
	return len(samples), true
}

func (g *jingleGenerator) Err() error { return nil }
