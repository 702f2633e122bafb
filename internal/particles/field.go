package particles

import (
	"fmt"
	"math"
	"math/rand/v2"

	ebimath "github.com/edwinsyarief/ebi-math"
)

// Silhouette names a target shape for the field.
type Silhouette int

const (
	Tree Silhouette = iota
	Text
)

func (s Silhouette) String() string {
	switch s {
	case Tree:
		return "tree"
	case Text:
		return "text"
	default:
		return fmt.Sprintf("silhouette(%d)", int(s))
	}
}

// ParseSilhouette maps "tree" and "text" to their Silhouette.
func ParseSilhouette(s string) (Silhouette, error) {
	switch s {
	case "tree":
		return Tree, nil
	case "text":
		return Text, nil
	}
	return Tree, fmt.Errorf("unknown silhouette %q", s)
}

// Sampler turns a silhouette into ordered sample points for a w x h area.
type Sampler interface {
	Sample(kind Silhouette, w, h int) []Point
}

// pointerAway is the pointer cell value while no pointer is over the field.
const pointerAway = -1 << 20

// Field animates a set of particles toward the sample points of the active
// silhouette. A Field is driven from a single goroutine (the frame loop) and
// shares nothing with other fields.
type Field struct {
	sampler Sampler
	rng     *rand.Rand

	width, height int
	kind          Silhouette
	particles     []Particle
	pointer       ebimath.Vector
	stopped       bool
}

// NewField creates a field with the tree silhouette selected. Nothing is
// sampled until Initialize sees a non-zero size.
func NewField(sampler Sampler, rng *rand.Rand) *Field {
	if rng == nil {
		rng = rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
	}
	return &Field{
		sampler: sampler,
		rng:     rng,
		kind:    Tree,
		pointer: ebimath.V(pointerAway, pointerAway),
	}
}

// Initialize sizes the field and regenerates targets for the active
// silhouette. On a resize existing positions are scaled to the new size.
func (f *Field) Initialize(width, height int) {
	if width <= 0 || height <= 0 {
		return
	}
	if f.width > 0 && f.height > 0 && (width != f.width || height != f.height) {
		sx := float64(width) / float64(f.width)
		sy := float64(height) / float64(f.height)
		for i := range f.particles {
			p := &f.particles[i]
			p.Pos = ebimath.V(p.Pos.X*sx, p.Pos.Y*sy)
		}
	}
	f.width, f.height = width, height
	f.retarget()
}

// SetSilhouette switches the target shape. Positions are left alone; the
// morph happens over the following ticks.
func (f *Field) SetSilhouette(kind Silhouette) {
	f.kind = kind
	f.retarget()
}

// Silhouette reports the active silhouette.
func (f *Field) Silhouette() Silhouette { return f.kind }

// Size reports the field dimensions set by the last non-zero Initialize.
func (f *Field) Size() (int, int) { return f.width, f.height }

// Particles exposes the particle slice for drawing. Callers must not keep it
// across a retarget.
func (f *Field) Particles() []Particle { return f.particles }

// PointerMove records the pointer in field-local coordinates.
func (f *Field) PointerMove(x, y float64) {
	f.pointer = ebimath.V(x, y)
}

// PointerLeave parks the pointer far outside the field.
func (f *Field) PointerLeave() {
	f.pointer = ebimath.V(pointerAway, pointerAway)
}

// Stop marks the field as torn down; Tick becomes a no-op.
func (f *Field) Stop() { f.stopped = true }

// Running reports whether the frame loop should keep ticking the field.
func (f *Field) Running() bool { return !f.stopped }

// Tick advances every particle by one frame.
func (f *Field) Tick() {
	if f.stopped {
		return
	}
	for i := range f.particles {
		f.step(&f.particles[i])
	}
}

func (f *Field) step(p *Particle) {
	ax := (p.Target.X - p.Pos.X) * p.EaseRate
	ay := (p.Target.Y - p.Pos.Y) * p.EaseRate

	rx, ry := repulsion(p.Pos, f.pointer)

	vx := (p.Vel.X + ax + rx) * Friction
	vy := (p.Vel.Y + ay + ry) * Friction
	p.Vel = ebimath.V(vx, vy)
	p.Pos = ebimath.V(p.Pos.X+vx, p.Pos.Y+vy)
	if p.Age < FadeInTicks {
		p.Age++
	}
}

// repulsion returns the push a pointer at ptr applies to a particle at pos.
func repulsion(pos, ptr ebimath.Vector) (float64, float64) {
	dx := pos.X - ptr.X
	dy := pos.Y - ptr.Y
	d := math.Hypot(dx, dy)
	if d >= RepulsionRadius || d == 0 {
		return 0, 0
	}
	force := (RepulsionRadius - d) / RepulsionRadius * RepulsionForce
	return dx / d * force, dy / d * force
}

func (f *Field) retarget() {
	if f.width <= 0 || f.height <= 0 || f.sampler == nil {
		return
	}
	points := f.sampler.Sample(f.kind, f.width, f.height)

	if len(points) < len(f.particles) {
		f.particles = f.particles[:len(points)]
	}
	for i, pt := range points {
		if i >= len(f.particles) {
			f.particles = append(f.particles, f.spawn())
		}
		p := &f.particles[i]
		p.Target = ebimath.V(pt.X, pt.Y)
		p.Color = pt.Color
	}
}

func (f *Field) spawn() Particle {
	return Particle{
		Pos:      ebimath.V(f.rng.Float64()*float64(f.width), f.rng.Float64()*float64(f.height)),
		Color:    NeutralColor,
		EaseRate: MinEaseRate + f.rng.Float64()*(MaxEaseRate-MinEaseRate),
		Size:     MinSize + f.rng.Float64()*(MaxSize-MinSize),
	}
}
