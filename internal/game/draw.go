package game

import (
	"bytes"
	"fmt"
	"image/color"
	"math"
	"strings"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/text/v2"
	"github.com/hajimehoshi/ebiten/v2/vector"
	"github.com/lucasb-eyer/go-colorful"
	"golang.org/x/image/font/gofont/gobold"
	"golang.org/x/image/font/gofont/goitalic"
	"golang.org/x/image/font/gofont/goregular"

	"github.com/iburimskiy/festive-greeting/internal/card"
	"github.com/iburimskiy/festive-greeting/internal/config"
	"github.com/iburimskiy/festive-greeting/internal/particles"
	"github.com/iburimskiy/festive-greeting/internal/scene"
	"github.com/iburimskiy/festive-greeting/internal/share"
)

var (
	gold      = color.RGBA{R: 0xfd, G: 0xe0, B: 0x47, A: 0xff}
	titleRed  = color.RGBA{R: 0xdc, G: 0x26, B: 0x26, A: 0xff}
	boxFill   = color.RGBA{R: 0x7f, G: 0x1d, B: 0x1d, A: 0x66}
	boxEdge   = color.RGBA{R: 0xea, G: 0xb3, B: 0x08, A: 0x4d}
	quoteBlue = color.RGBA{R: 0xef, G: 0xf6, B: 0xff, A: 0xff}
	dimWhite  = color.RGBA{R: 0xff, G: 0xff, B: 0xff, A: 0xb3}
	faint     = color.RGBA{R: 0xff, G: 0xff, B: 0xff, A: 0x4d}
	overlayBg = color.RGBA{R: 0x02, G: 0x06, B: 0x17, A: 0xe6}
	snowWhite = color.RGBA{R: 0xff, G: 0xff, B: 0xff, A: 0xcc}
)

// platformColors tint the share buttons.
var platformColors = map[share.Platform]color.RGBA{
	share.WhatsApp:  {R: 0x25, G: 0xd3, B: 0x66, A: 0xff},
	share.Facebook:  {R: 0x18, G: 0x77, B: 0xf2, A: 0xff},
	share.Instagram: {R: 0xee, G: 0x2a, B: 0x7b, A: 0xff},
	share.Twitter:   {R: 0x1d, G: 0xa1, B: 0xf2, A: 0xff},
	share.Native:    {R: 0x40, G: 0x40, B: 0x50, A: 0xff},
}

// artwork holds fonts and cached images.
type artwork struct {
	regular, bold, italic *text.GoTextFaceSource

	skyTop, skyBottom colorful.Color
	sky               *ebiten.Image
	pixel             *ebiten.Image
}

func newArtwork(cfg *config.Config) (*artwork, error) {
	a := &artwork{}
	var err error
	if a.regular, err = text.NewGoTextFaceSource(bytes.NewReader(goregular.TTF)); err != nil {
		return nil, fmt.Errorf("load regular font: %w", err)
	}
	if a.bold, err = text.NewGoTextFaceSource(bytes.NewReader(gobold.TTF)); err != nil {
		return nil, fmt.Errorf("load bold font: %w", err)
	}
	if a.italic, err = text.NewGoTextFaceSource(bytes.NewReader(goitalic.TTF)); err != nil {
		return nil, fmt.Errorf("load italic font: %w", err)
	}
	if err := a.setSky(cfg); err != nil {
		return nil, err
	}
	return a, nil
}

func (a *artwork) setSky(cfg *config.Config) error {
	top, bottom, err := cfg.SkyColors()
	if err != nil {
		return err
	}
	a.skyTop, a.skyBottom = top, bottom
	a.invalidate()
	return nil
}

// invalidate drops images that depend on the screen size.
func (a *artwork) invalidate() {
	if a.sky != nil {
		a.sky.Deallocate()
		a.sky = nil
	}
}

// skyImage is a 1×h vertical gradient, stretched horizontally when drawn.
func (a *artwork) skyImage(h int) *ebiten.Image {
	if a.sky != nil && a.sky.Bounds().Dy() == h {
		return a.sky
	}
	a.invalidate()
	pix := make([]byte, 4*h)
	for y := 0; y < h; y++ {
		r, g, b := a.skyTop.BlendRgb(a.skyBottom, float64(y)/float64(max(h-1, 1))).RGB255()
		pix[4*y], pix[4*y+1], pix[4*y+2], pix[4*y+3] = r, g, b, 0xff
	}
	a.sky = ebiten.NewImage(1, h)
	a.sky.WritePixels(pix)
	return a.sky
}

func (a *artwork) pixelImage() *ebiten.Image {
	if a.pixel == nil {
		a.pixel = ebiten.NewImage(1, 1)
		a.pixel.Fill(color.White)
	}
	return a.pixel
}

func (g *Game) Draw(screen *ebiten.Image) {
	level := 0.0
	if g.player != nil {
		level = g.player.Level()
	}

	g.drawSky(screen)
	g.drawSnow(screen, level)

	if g.christmas {
		g.drawCelebration(screen)
	} else {
		g.drawCountdown(screen)
		g.drawQuote(screen)
	}
	g.drawField(screen)
	g.drawButtons(screen, level)
	g.drawFooter(screen)

	if g.overlay {
		g.drawOverlay(screen)
	}
	g.drawToast(screen)
	g.drawStatus(screen)
}

func (g *Game) drawSky(screen *ebiten.Image) {
	if g.height <= 0 {
		return
	}
	op := &ebiten.DrawImageOptions{}
	op.GeoM.Scale(float64(g.width), 1)
	screen.DrawImage(g.art.skyImage(g.height), op)
}

func (g *Game) drawSnow(screen *ebiten.Image, level float64) {
	s := float32(g.scale)
	// Stars glow a little brighter with the music.
	boost := level * 0.3
	for _, st := range g.snow.Stars {
		a := clamp01(st.Alpha() + boost)
		c := color.RGBA{R: uint8(255 * a), G: uint8(255 * a), B: uint8(255 * a), A: uint8(255 * a)}
		vector.DrawFilledCircle(screen, float32(st.Pos.X), float32(st.Pos.Y), float32(st.Size)*s, c, true)
	}
	for _, f := range g.snow.Flakes {
		vector.DrawFilledCircle(screen, float32(f.Pos.X), float32(f.Pos.Y), float32(f.Radius)*s, snowWhite, true)
	}
}

// drawField paints each particle as a small square of its current colour.
func (g *Game) drawField(screen *ebiten.Image) {
	px := g.art.pixelImage()
	origin := g.layout.Field
	op := &ebiten.DrawImageOptions{}
	for i := range g.field.Particles() {
		p := &g.field.Particles()[i]
		size := p.Size * g.scale
		op.GeoM.Reset()
		op.GeoM.Scale(size, size)
		op.GeoM.Translate(origin.X+p.Pos.X-size/2, origin.Y+p.Pos.Y-size/2)
		op.ColorScale.Reset()
		op.ColorScale.ScaleWithColor(p.DisplayColor())
		screen.DrawImage(px, op)
	}
}

func (g *Game) drawCountdown(screen *ebiten.Image) {
	year := g.clock.Year()
	g.drawText(screen, fmt.Sprintf("Merry Christmas %d", year), g.art.bold, 56, g.width2(), g.layout.TitleY, titleRed)
	g.drawText(screen, "A WINTER WONDERLAND EXPERIENCE", g.art.bold, 16, g.width2(), g.layout.SubtitleY, gold)

	rem := g.clock.Remaining()
	values := [4]int{rem.Days, rem.Hours, rem.Minutes, rem.Seconds}
	labels := [4]string{"DAYS", "HOURS", "MINS", "SECS"}
	s := float32(g.scale)
	for i, r := range g.layout.Countdown {
		vector.DrawFilledRect(screen, float32(r.X), float32(r.Y), float32(r.W), float32(r.H), boxFill, true)
		vector.StrokeRect(screen, float32(r.X), float32(r.Y), float32(r.W), float32(r.H), 1.5*s, boxEdge, true)
		cx, cy := r.Center()
		g.drawText(screen, pad2(values[i]), g.art.bold, 30, cx, cy, gold)
		g.drawText(screen, labels[i], g.art.bold, 11, cx, r.Y+r.H+12*g.scale, dimWhite)
	}
}

func (g *Game) drawQuote(screen *ebiten.Image) {
	quote, alpha := g.quotes.At(g.now())
	if quote == "" {
		return
	}
	face := &text.GoTextFace{Source: g.art.italic, Size: 20 * g.scale}
	measure := func(s string) float64 { return text.Advance(s, face) }
	lines := card.Wrap(measure, "“"+quote+"”", math.Max(g.layout.Field.W, float64(g.width)*0.6))

	lineH := 26 * g.scale
	// Fading quotes also drift down a little.
	y := g.layout.QuoteY - float64(len(lines)-1)*lineH + (1-alpha)*12*g.scale
	for _, l := range lines {
		g.drawTextAlpha(screen, l, face, g.width2(), y, quoteBlue, alpha)
		y += lineH
	}
}

func (g *Game) drawCelebration(screen *ebiten.Image) {
	// The title pulses between gold and white over three seconds.
	t := float64(g.frame) / float64(ebiten.TPS())
	k := (1 - math.Cos(t*2*math.Pi/3)) / 2
	glow := lerpColor(gold, color.RGBA{R: 0xff, G: 0xff, B: 0xff, A: 0xff}, k)
	g.drawText(screen, "It's Christmas Time", g.art.bold, 64, g.width2(), g.layout.TitleY, glow)
	g.drawText(screen, "THE MAGIC HAS ARRIVED", g.art.bold, 18, g.width2(), g.layout.SubtitleY, gold)
}

func (g *Game) drawButtons(screen *ebiten.Image, level float64) {
	cx, cy, _ := g.pointer()
	hover, hovered := g.layout.Hit(cx, cy)
	s := float32(g.scale)

	for i, b := range g.layout.Buttons {
		r := b.Rect
		bg := color.RGBA{R: 0x99, G: 0x1b, B: 0x1b, A: 0xff}
		if b.Action == scene.ActionShare {
			bg = platformColors[b.Platform]
		}
		switch {
		case g.pressed == i:
			bg = darken(bg, 0.7)
		case hovered && hover.Rect == r && !g.overlay:
			bg = darken(bg, 1.2)
		}
		vector.DrawFilledRect(screen, float32(r.X), float32(r.Y), float32(r.W), float32(r.H), bg, true)
		vector.StrokeRect(screen, float32(r.X), float32(r.Y), float32(r.W), float32(r.H), 2*s, faint, true)

		// The music button's border pulses with the level.
		if b.Action == scene.ActionMusic && g.player != nil && g.player.Playing() {
			lvl := float32(level)
			vector.StrokeRect(screen, float32(r.X), float32(r.Y), float32(r.W), float32(r.H), (2+4*lvl)*s, gold, true)
		}
		bx, by := r.Center()
		g.drawText(screen, g.buttonLabel(b), g.art.bold, 14, bx, by, color.White)
	}
}

func (g *Game) buttonLabel(b scene.Button) string {
	switch b.Action {
	case scene.ActionMusic:
		if g.player != nil && g.player.Playing() {
			return "Music: On"
		}
		return "Music: Off"
	case scene.ActionMorph:
		if g.field.Silhouette() == particles.Tree {
			return "Show Text"
		}
		return "Show Tree"
	case scene.ActionGiftCard:
		if g.jobs.Busy() {
			return "Working..."
		}
		if g.christmas {
			return "Share The Joy"
		}
	case scene.ActionSetName:
		if g.shareName != "" {
			return "From: " + g.shareName
		}
	}
	return b.Label
}

func (g *Game) drawFooter(screen *ebiten.Image) {
	sender := g.cfg.Share.Sender
	if g.sender != "" {
		sender = g.sender
	}
	line := fmt.Sprintf("DESIGNED BY %s FOR A MAGICAL %d", strings.ToUpper(sender), g.clock.Year())
	if g.christmas {
		line = fmt.Sprintf("MAGICAL CHRISTMAS %d • DESIGNED BY %s", g.clock.Year(), strings.ToUpper(sender))
	}
	g.drawText(screen, line, g.art.bold, 10, g.width2(), float64(g.height)-8*g.scale, faint)
}

func (g *Game) drawOverlay(screen *ebiten.Image) {
	vector.DrawFilledRect(screen, 0, 0, float32(g.width), float32(g.height), overlayBg, false)
	h := float64(g.height)
	g.drawText(screen, "A Magical Message", g.art.bold, 64, g.width2(), h*0.35, gold)
	g.drawText(screen, "Waiting for you, from "+g.sender, g.art.italic, 30, g.width2(), h*0.47, quoteBlue)

	b := g.layout.Overlay.Rect
	vector.DrawFilledRect(screen, float32(b.X), float32(b.Y), float32(b.W), float32(b.H), titleRed, true)
	bx, by := b.Center()
	g.drawText(screen, g.layout.Overlay.Label, g.art.bold, 20, bx, by, color.White)
}

func (g *Game) drawToast(screen *ebiten.Image) {
	msg, ok := g.toast.Current()
	if !ok {
		return
	}
	face := &text.GoTextFace{Source: g.art.bold, Size: 18 * g.scale}
	w := text.Advance(msg, face) + 48*g.scale
	h := 44 * g.scale
	x, y := g.width2()-w/2, 24*g.scale
	vector.DrawFilledRect(screen, float32(x), float32(y), float32(w), float32(h), color.RGBA{R: 0xea, G: 0xb3, B: 0x08, A: 0xff}, true)
	g.drawTextAlpha(screen, msg, face, g.width2(), y+h/2, color.Black, 1)
}

func (g *Game) drawStatus(screen *ebiten.Image) {
	status := "Space: music  -/=: volume  T: morph  G: gift card  N: name  C: copy link  Esc/Q: quit"
	if g.player != nil {
		status += fmt.Sprintf("  |  Volume %d%%", int(math.Round(g.player.Volume()*100)))
	}
	if g.status != "" {
		status += "  |  " + g.status
	}
	ebitenutil.DebugPrintAt(screen, status, 12, 12)
}

func (g *Game) width2() float64 { return float64(g.width) / 2 }

// drawText draws s centred on (x, y) at a size in unscaled pixels.
func (g *Game) drawText(dst *ebiten.Image, s string, src *text.GoTextFaceSource, size, x, y float64, c color.Color) {
	g.drawTextAlpha(dst, s, &text.GoTextFace{Source: src, Size: size * g.scale}, x, y, c, 1)
}

func (g *Game) drawTextAlpha(dst *ebiten.Image, s string, face text.Face, x, y float64, c color.Color, alpha float64) {
	op := &text.DrawOptions{}
	op.GeoM.Translate(x, y)
	op.ColorScale.ScaleWithColor(c)
	op.ColorScale.ScaleAlpha(float32(clamp01(alpha)))
	op.PrimaryAlign = text.AlignCenter
	op.SecondaryAlign = text.AlignCenter
	text.Draw(dst, s, face, op)
}
