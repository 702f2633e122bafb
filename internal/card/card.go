package card

import (
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"image/png"
	"math/rand/v2"
	"os"
	"strings"
	"unicode"

	"github.com/google/uuid"
	"github.com/lucasb-eyer/go-colorful"
	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/gobold"
	"golang.org/x/image/font/gofont/goitalic"
	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/image/font/opentype"
	"golang.org/x/image/math/fixed"
	"golang.org/x/image/vector"
)

const (
	Width  = 1200
	Height = 630

	BorderWidth  = 20
	BorderInset  = 10
	SnowDots     = 200
	MaxLineWidth = 800
	LineHeight   = 45

	titleSize   = 80
	nameSize    = 60
	messageSize = 32
	footerSize  = 24

	titleY   = 150
	nameY    = 250
	messageY = 350
	footerY  = 550
)

var (
	gradientStart = colorful.Color{R: 0x7f / 255.0, G: 0x1d / 255.0, B: 0x1d / 255.0}
	gradientEnd   = colorful.Color{R: 0x45 / 255.0, G: 0x0a / 255.0, B: 0x0a / 255.0}

	yellow    = color.RGBA{R: 0xfd, G: 0xe0, B: 0x47, A: 0xff}
	white     = color.RGBA{R: 0xff, G: 0xff, B: 0xff, A: 0xff}
	snowColor = color.NRGBA{R: 0xff, G: 0xff, B: 0xff, A: 26}
)

// Renderer paints gift cards. It is not safe for concurrent use.
type Renderer struct {
	title   font.Face
	name    font.Face
	message font.Face
	footer  font.Face
	rng     *rand.Rand
}

// NewRenderer loads the Go fonts at the card's sizes. rng drives the snow
// dots; nil seeds one randomly.
func NewRenderer(rng *rand.Rand) (*Renderer, error) {
	if rng == nil {
		rng = rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
	}
	title, err := newFace(gobold.TTF, titleSize)
	if err != nil {
		return nil, err
	}
	name, err := newFace(gobold.TTF, nameSize)
	if err != nil {
		return nil, err
	}
	msg, err := newFace(goregular.TTF, messageSize)
	if err != nil {
		return nil, err
	}
	footer, err := newFace(goitalic.TTF, footerSize)
	if err != nil {
		return nil, err
	}
	return &Renderer{title: title, name: name, message: msg, footer: footer, rng: rng}, nil
}

func newFace(ttf []byte, size float64) (font.Face, error) {
	f, err := opentype.Parse(ttf)
	if err != nil {
		return nil, fmt.Errorf("parse font: %w", err)
	}
	face, err := opentype.NewFace(f, &opentype.FaceOptions{Size: size, DPI: 72, Hinting: font.HintingFull})
	if err != nil {
		return nil, fmt.Errorf("new face %.0fpx: %w", size, err)
	}
	return face, nil
}

// MeasureMessage returns the width of s in the message font.
func (r *Renderer) MeasureMessage(s string) float64 {
	return measure(r.message, s)
}

// Lines returns message wrapped the way Render lays it out.
func (r *Renderer) Lines(message string) []string {
	return Wrap(r.MeasureMessage, message, MaxLineWidth)
}

// Render paints the card for name with the given message.
func (r *Renderer) Render(name, message string, year int) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, Width, Height))

	paintGradient(img)
	paintBorder(img)
	r.paintSnow(img)

	drawCentered(img, r.title, yellow, fmt.Sprintf("Merry Christmas %d", year), titleY)
	drawCentered(img, r.name, white, "Dearest "+strings.TrimSpace(name), nameY)

	y := messageY
	for _, line := range r.Lines(message) {
		drawCentered(img, r.message, white, line, y)
		y += LineHeight
	}

	drawCentered(img, r.footer, yellow, fmt.Sprintf("Sent with love from Christmas %d Magic", year), footerY)
	return img
}

// paintGradient fills img along the top-left to bottom-right diagonal.
func paintGradient(img *image.RGBA) {
	var lut [256]color.RGBA
	for i := range lut {
		r, g, b := gradientStart.BlendRgb(gradientEnd, float64(i)/255).RGB255()
		lut[i] = color.RGBA{R: r, G: g, B: b, A: 0xff}
	}

	const denom = Width*Width + Height*Height
	for y := 0; y < Height; y++ {
		for x := 0; x < Width; x++ {
			t := (x*Width + y*Height) * 255 / denom
			img.SetRGBA(x, y, lut[t])
		}
	}
}

func paintBorder(img *image.RGBA) {
	src := image.NewUniform(yellow)
	outer := image.Rect(BorderInset-BorderWidth/2, BorderInset-BorderWidth/2, Width-BorderInset+BorderWidth/2, Height-BorderInset+BorderWidth/2)
	inner := outer.Inset(BorderWidth)
	for _, r := range []image.Rectangle{
		image.Rect(outer.Min.X, outer.Min.Y, outer.Max.X, inner.Min.Y),
		image.Rect(outer.Min.X, inner.Max.Y, outer.Max.X, outer.Max.Y),
		image.Rect(outer.Min.X, inner.Min.Y, inner.Min.X, inner.Max.Y),
		image.Rect(inner.Max.X, inner.Min.Y, outer.Max.X, inner.Max.Y),
	} {
		draw.Draw(img, r, src, image.Point{}, draw.Src)
	}
}

// kappa places cubic control points so four curves approximate a circle.
const kappa = 0.5522847498

func (r *Renderer) paintSnow(img *image.RGBA) {
	src := image.NewUniform(snowColor)
	z := vector.NewRasterizer(8, 8)
	for i := 0; i < SnowDots; i++ {
		cx := r.rng.Float64() * Width
		cy := r.rng.Float64() * Height
		rad := float32(r.rng.Float64() * 3)
		if rad < 0.25 {
			continue
		}

		ox, oy := int(cx)-4, int(cy)-4
		if ox < 0 || oy < 0 || ox+8 > Width || oy+8 > Height {
			continue
		}
		lx, ly := float32(cx)-float32(ox), float32(cy)-float32(oy)
		k := rad * kappa

		z.Reset(8, 8)
		z.MoveTo(lx+rad, ly)
		z.CubeTo(lx+rad, ly+k, lx+k, ly+rad, lx, ly+rad)
		z.CubeTo(lx-k, ly+rad, lx-rad, ly+k, lx-rad, ly)
		z.CubeTo(lx-rad, ly-k, lx-k, ly-rad, lx, ly-rad)
		z.CubeTo(lx+k, ly-rad, lx+rad, ly-k, lx+rad, ly)
		z.ClosePath()
		z.DrawOp = draw.Over
		z.Draw(img, image.Rect(ox, oy, ox+8, oy+8), src, image.Point{})
	}
}

func measure(face font.Face, s string) float64 {
	return float64(font.MeasureString(face, s)) / 64
}

// drawCentered draws s horizontally centred on the card with its baseline at y.
func drawCentered(img draw.Image, face font.Face, c color.Color, s string, y int) {
	w := measure(face, s)
	d := font.Drawer{
		Dst:  img,
		Src:  image.NewUniform(c),
		Face: face,
		Dot:  fixed.Point26_6{X: fixed.Int26_6((Width/2 - w/2) * 64), Y: fixed.I(y)},
	}
	d.DrawString(s)
}

// FileName is the download name for a card: Christmas_<year>_Gift_Card_<name>
// with an optional short id suffix.
func FileName(name string, year int, id string) string {
	base := fmt.Sprintf("Christmas_%d_Gift_Card_%s", year, sanitize(name))
	if id != "" {
		base += "_" + sanitize(id)
	}
	return base + ".png"
}

func sanitize(s string) string {
	var b strings.Builder
	for _, r := range strings.TrimSpace(s) {
		switch {
		case unicode.IsLetter(r) || unicode.IsDigit(r) || r == '-' || r == '_':
			b.WriteRune(r)
		case unicode.IsSpace(r):
			b.WriteRune('_')
		}
	}
	if b.Len() == 0 {
		return "Friend"
	}
	return b.String()
}

// NewID returns a short random identifier for file names.
func NewID() string {
	return uuid.New().String()[:8]
}

// Save encodes img as PNG at path.
func Save(img image.Image, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create card file: %w", err)
	}
	if err := png.Encode(f, img); err != nil {
		_ = f.Close()
		return fmt.Errorf("encode card: %w", err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("close card file: %w", err)
	}
	return nil
}
