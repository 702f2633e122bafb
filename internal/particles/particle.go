package particles

import (
	"image/color"
	"math"

	ebimath "github.com/edwinsyarief/ebi-math"
)

// Particle is one drawn point of the field.
type Particle struct {
	Pos    ebimath.Vector
	Target ebimath.Vector
	Vel    ebimath.Vector

	// Color is the colour of the sample point this particle is assigned to.
	Color color.RGBA

	EaseRate float64
	Size     float64

	// Age counts ticks since the particle was spawned.
	Age int
}

// Point is one sample of a silhouette.
type Point struct {
	X, Y  float64
	Color color.RGBA
}

// Speed returns the magnitude of the particle's velocity.
func (p *Particle) Speed() float64 {
	return math.Hypot(p.Vel.X, p.Vel.Y)
}

// DisplayColor is the colour the particle should be painted with. Freshly
// spawned particles start neutral and fade into their assigned colour.
func (p *Particle) DisplayColor() color.RGBA {
	if p.Age >= FadeInTicks {
		return p.Color
	}
	t := float64(p.Age) / FadeInTicks
	return color.RGBA{
		R: lerp8(NeutralColor.R, p.Color.R, t),
		G: lerp8(NeutralColor.G, p.Color.G, t),
		B: lerp8(NeutralColor.B, p.Color.B, t),
		A: 255,
	}
}

func lerp8(a, b uint8, t float64) uint8 {
	return uint8(math.Round(float64(a) + (float64(b)-float64(a))*t))
}
