package scene

import (
	"math/rand/v2"

	ebimath "github.com/edwinsyarief/ebi-math"
)

const (
	FlakeCount = 150
	StarCount  = 100

	// Stars only appear in the upper part of the sky.
	starBand   = 0.7
	minTwinkle = 0.2
)

type Flake struct {
	Pos    ebimath.Vector
	Radius float64
	Speed  float64
	Wind   float64
}

type Star struct {
	Pos     ebimath.Vector
	Size    float64
	Opacity float64
	Twinkle float64
}

// Snowfall is the falling snow and twinkling stars behind the scene.
type Snowfall struct {
	Flakes []Flake
	Stars  []Star

	width, height float64
	rng           *rand.Rand
}

func NewSnowfall(rng *rand.Rand) *Snowfall {
	if rng == nil {
		rng = rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
	}
	return &Snowfall{rng: rng}
}

// Resize scatters a fresh set of flakes and stars over a w×h sky.
func (s *Snowfall) Resize(w, h int) {
	s.width, s.height = float64(w), float64(h)
	s.Flakes = s.Flakes[:0]
	s.Stars = s.Stars[:0]
	if w <= 0 || h <= 0 {
		return
	}
	for i := 0; i < FlakeCount; i++ {
		s.Flakes = append(s.Flakes, Flake{
			Pos:    ebimath.V(s.rng.Float64()*s.width, s.rng.Float64()*s.height),
			Radius: s.rng.Float64()*3 + 1,
			Speed:  s.rng.Float64() + 0.5,
			Wind:   s.rng.Float64()*0.5 - 0.25,
		})
	}
	for i := 0; i < StarCount; i++ {
		s.Stars = append(s.Stars, Star{
			Pos:     ebimath.V(s.rng.Float64()*s.width, s.rng.Float64()*s.height*starBand),
			Size:    s.rng.Float64()*1.5 + 0.5,
			Opacity: s.rng.Float64(),
			Twinkle: s.rng.Float64()*0.02 + 0.005,
		})
	}
}

func (s *Snowfall) Size() (int, int) { return int(s.width), int(s.height) }

// Step advances one frame. Flakes falling off the bottom re-enter above the
// top at a random column; flakes drifting off a side wrap to the other.
func (s *Snowfall) Step() {
	for i := range s.Stars {
		st := &s.Stars[i]
		st.Opacity += st.Twinkle
		if (st.Opacity > 1 && st.Twinkle > 0) || (st.Opacity < minTwinkle && st.Twinkle < 0) {
			st.Twinkle = -st.Twinkle
		}
	}
	for i := range s.Flakes {
		f := &s.Flakes[i]
		f.Pos.Y += f.Speed
		f.Pos.X += f.Wind
		if f.Pos.Y > s.height {
			f.Pos.Y = -10
			f.Pos.X = s.rng.Float64() * s.width
		}
		if f.Pos.X > s.width {
			f.Pos.X = 0
		}
		if f.Pos.X < 0 {
			f.Pos.X = s.width
		}
	}
}

// Alpha is the star's current opacity clamped to [0,1].
func (st Star) Alpha() float64 {
	switch {
	case st.Opacity < 0:
		return 0
	case st.Opacity > 1:
		return 1
	}
	return st.Opacity
}
