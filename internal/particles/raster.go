package particles

import (
	"fmt"
	"image"
	"image/color"
	"math"
	"sync"

	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/gobold"
	"golang.org/x/image/font/opentype"
	"golang.org/x/image/math/fixed"
)

// Grid is a rasterised string: one opacity per pixel, painted in a single
// fill colour.
type Grid struct {
	Width, Height int
	Opacity       []uint8
	Fill          color.RGBA
}

// At returns the opacity and colour of pixel (x, y). Out of range reads are
// fully transparent.
func (g Grid) At(x, y int) (uint8, color.RGBA) {
	if x < 0 || y < 0 || x >= g.Width || y >= g.Height {
		return 0, color.RGBA{}
	}
	return g.Opacity[y*g.Width+x], g.Fill
}

// Rasterizer renders text to an offscreen buffer.
type Rasterizer interface {
	RasterizeText(s string, size float64, c color.RGBA) Grid
	// Measure returns the advance width of s at the given size.
	Measure(s string, size float64) float64
}

// GlyphRasterizer rasterises text with an OpenType font. Faces are cached per
// size.
type GlyphRasterizer struct {
	font *opentype.Font

	mu    sync.Mutex
	faces map[float64]font.Face
}

const maxFaces = 8

// NewGlyphRasterizer parses ttf, or Go Bold when ttf is empty.
func NewGlyphRasterizer(ttf []byte) (*GlyphRasterizer, error) {
	if len(ttf) == 0 {
		ttf = gobold.TTF
	}
	f, err := opentype.Parse(ttf)
	if err != nil {
		return nil, fmt.Errorf("parse font: %w", err)
	}
	return &GlyphRasterizer{font: f, faces: make(map[float64]font.Face)}, nil
}

// face returns a cached face for size rounded down to whole pixels. Sizes follow
// the window, so the cache is dropped once it holds maxFaces entries.
func (r *GlyphRasterizer) face(size float64) font.Face {
	size = math.Max(1, math.Floor(size))
	r.mu.Lock()
	defer r.mu.Unlock()
	if f, ok := r.faces[size]; ok {
		return f
	}
	if len(r.faces) >= maxFaces {
		clear(r.faces)
	}
	f, err := opentype.NewFace(r.font, &opentype.FaceOptions{
		Size:    size,
		DPI:     72,
		Hinting: font.HintingNone,
	})
	if err != nil {
		// Only invalid sizes fail here; callers always pass positive sizes.
		panic(fmt.Sprintf("particles: new face %.1f: %v", size, err))
	}
	r.faces[size] = f
	return f
}

func (r *GlyphRasterizer) Measure(s string, size float64) float64 {
	if size <= 0 {
		return 0
	}
	return float64(font.MeasureString(r.face(size), s)) / 64
}

// RasterizeText draws s centred in a buffer just large enough to hold it.
func (r *GlyphRasterizer) RasterizeText(s string, size float64, c color.RGBA) Grid {
	if s == "" || size <= 0 {
		return Grid{Fill: c}
	}
	face := r.face(size)
	m := face.Metrics()
	ascent := m.Ascent.Ceil()
	height := ascent + m.Descent.Ceil()
	width := int(math.Ceil(r.Measure(s, size)))
	if width <= 0 || height <= 0 {
		return Grid{Fill: c}
	}

	mask := image.NewAlpha(image.Rect(0, 0, width, height))
	d := font.Drawer{
		Dst:  mask,
		Src:  image.Opaque,
		Face: face,
		Dot:  fixed.P(0, ascent),
	}
	d.DrawString(s)

	// A single-colour fill means every covered pixel carries the fill colour
	// once unpremultiplied, so only coverage is kept.
	return Grid{Width: width, Height: height, Opacity: mask.Pix, Fill: c}
}
