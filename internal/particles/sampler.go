package particles

import (
	"image/color"
	"math"
	"math/rand/v2"
)

// SampleText keeps every stride-th pixel of g whose opacity exceeds the
// threshold, translated by (offX, offY).
func SampleText(g Grid, offX, offY float64, stride int) []Point {
	if stride <= 0 {
		stride = SampleStride
	}
	var pts []Point
	for y := 0; y < g.Height; y += stride {
		for x := 0; x < g.Width; x += stride {
			a, c := g.At(x, y)
			if a <= OpacityThreshold {
				continue
			}
			pts = append(pts, Point{X: offX + float64(x), Y: offY + float64(y), Color: c})
		}
	}
	return pts
}

// ShapeSampler produces the tree and text silhouettes.
type ShapeSampler struct {
	Raster Rasterizer
	Rand   *rand.Rand
	Stride int
	// Message overrides CelebrationText when set.
	Message string
}

// NewShapeSampler returns a sampler with the default stride.
func NewShapeSampler(r Rasterizer, rng *rand.Rand) *ShapeSampler {
	if rng == nil {
		rng = rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
	}
	return &ShapeSampler{Raster: r, Rand: rng, Stride: SampleStride}
}

func (s *ShapeSampler) stride() int {
	if s.Stride <= 0 {
		return SampleStride
	}
	return s.Stride
}

func (s *ShapeSampler) Sample(kind Silhouette, w, h int) []Point {
	if w <= 0 || h <= 0 {
		return nil
	}
	switch kind {
	case Text:
		return s.text(w, h)
	default:
		return s.tree(w, h)
	}
}

func (s *ShapeSampler) text(w, h int) []Point {
	if s.Raster == nil {
		return nil
	}
	msg := s.Message
	if msg == "" {
		msg = CelebrationText
	}

	// Start from a size relative to the height and shrink until it fits 90% of
	// the width.
	size := math.Max(8, float64(h)*0.3)
	if adv := s.Raster.Measure(msg, size); adv > float64(w)*0.9 {
		size *= float64(w) * 0.9 / adv
	}
	g := s.Raster.RasterizeText(msg, size, TextColor)
	offX := (float64(w) - float64(g.Width)) / 2
	offY := (float64(h) - float64(g.Height)) / 2
	return SampleText(g, offX, offY, s.stride())
}

type tier struct {
	top, height float64
	topHalf     float64
	baseHalf    float64
}

func (s *ShapeSampler) tree(w, h int) []Point {
	stride := float64(s.stride())
	cx := float64(w) / 2

	treeH := math.Min(float64(h)*0.78, float64(w)*1.1)
	starH := treeH * 0.12
	top := (float64(h)-treeH)/2 + starH
	bodyH := treeH - starH
	tierH := bodyH * 0.3
	trunkH := bodyH - 3*tierH*0.85

	// Tiers overlap by 15% of their height and widen toward the bottom.
	tiers := [3]tier{
		{top: top, height: tierH, topHalf: 0, baseHalf: bodyH * 0.2},
		{top: top + tierH*0.85, height: tierH, topHalf: bodyH * 0.06, baseHalf: bodyH * 0.28},
		{top: top + 2*tierH*0.85, height: tierH, topHalf: bodyH * 0.1, baseHalf: bodyH * 0.38},
	}

	var pts []Point
	for _, t := range tiers {
		for y := 0.0; y <= t.height; y += stride {
			progress := y / t.height
			half := t.topHalf + (t.baseHalf-t.topHalf)*progress
			for x := -half; x <= half; x += stride {
				// Leave gaps so the fill sparkles instead of looking solid.
				if s.Rand.Float64() < 0.12 {
					continue
				}
				pts = append(pts, Point{X: cx + x, Y: t.top + y, Color: s.treeColor()})
			}
		}
	}

	trunkTop := tiers[2].top + tierH
	trunkHalf := bodyH * 0.05
	for y := 0.0; y < trunkH; y += stride {
		for x := -trunkHalf; x <= trunkHalf; x += stride {
			pts = append(pts, Point{X: cx + x, Y: trunkTop + y, Color: TrunkBrown})
		}
	}

	return append(s.star(cx, top, starH*1.6), pts...)
}

func (s *ShapeSampler) treeColor() color.RGBA {
	r := s.Rand.Float64()
	switch {
	case r < 0.03:
		return Red
	case r < 0.06:
		return Blue
	case r < 0.14:
		return Gold
	case r < 0.57:
		return GreenDark
	default:
		return GreenLight
	}
}

// star samples the star glyph and centres it on the tree's peak at (cx, peakY).
func (s *ShapeSampler) star(cx, peakY, size float64) []Point {
	if s.Raster == nil || size <= 0 {
		return nil
	}
	g := s.Raster.RasterizeText(starGlyph, size, Gold)
	if g.Width == 0 || g.Height == 0 {
		return nil
	}
	pts := SampleText(g, 0, 0, s.stride())
	if len(pts) == 0 {
		return nil
	}

	minX, minY := math.Inf(1), math.Inf(1)
	maxX, maxY := math.Inf(-1), math.Inf(-1)
	for _, p := range pts {
		minX, maxX = math.Min(minX, p.X), math.Max(maxX, p.X)
		minY, maxY = math.Min(minY, p.Y), math.Max(maxY, p.Y)
	}
	dx := cx - (minX+maxX)/2
	dy := peakY - (minY+maxY)/2
	for i := range pts {
		pts[i].X += dx
		pts[i].Y += dy
	}
	return pts
}
