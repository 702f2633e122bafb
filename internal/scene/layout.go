package scene

import (
	"math"

	"github.com/iburimskiy/festive-greeting/internal/share"
)

type Rect struct {
	X, Y, W, H float64
}

func (r Rect) Contains(x, y float64) bool {
	return x >= r.X && x <= r.X+r.W && y >= r.Y && y <= r.Y+r.H
}

func (r Rect) Center() (float64, float64) {
	return r.X + r.W/2, r.Y + r.H/2
}

// Action is what a button does when clicked.
type Action int

const (
	ActionMusic Action = iota
	ActionVolumeDown
	ActionVolumeUp
	ActionMorph
	ActionGiftCard
	ActionSetName
	ActionShare
	ActionOpenWish
)

type Button struct {
	Action   Action
	Platform share.Platform
	Label    string
	Rect     Rect
}

// Layout positions every element for one screen size.
type Layout struct {
	Width, Height float64
	Scale         float64

	TitleY    float64
	SubtitleY float64
	Countdown []Rect
	Field     Rect
	QuoteY    float64
	Buttons   []Button

	// Overlay is the dismiss button of the entry overlay.
	Overlay Button
}

// Base sizes in unscaled pixels.
const (
	buttonW   = 120
	buttonH   = 36
	buttonGap = 10
	boxSize   = 72
	boxGap    = 16
	margin    = 20
)

// Arrange lays out a w×h screen. scale is the device scale factor; christmas
// selects the celebration layout.
func Arrange(w, h int, scale float64, christmas bool) Layout {
	if scale <= 0 {
		scale = 1
	}
	W, H := float64(w), float64(h)
	l := Layout{Width: W, Height: H, Scale: scale}

	bw, bh, gap := buttonW*scale, buttonH*scale, buttonGap*scale
	controls := []Button{
		{Action: ActionMusic, Label: "Music"},
		{Action: ActionVolumeDown, Label: "Vol -"},
		{Action: ActionVolumeUp, Label: "Vol +"},
		{Action: ActionMorph, Label: "Morph"},
		{Action: ActionGiftCard, Label: "Gift Card"},
		{Action: ActionSetName, Label: "Set Name"},
	}
	shares := share.Platforms
	if christmas {
		shares = []share.Platform{share.WhatsApp, share.Instagram}
	}
	var targets []Button
	for _, p := range shares {
		targets = append(targets, Button{Action: ActionShare, Platform: p, Label: p.Label()})
	}

	shareY := H - margin*scale - bh
	controlY := shareY - gap - bh
	l.Buttons = append(l.Buttons, row(controls, W, controlY, bw, bh, gap)...)
	l.Buttons = append(l.Buttons, row(targets, W, shareY, bw, bh, gap)...)

	l.TitleY = H * 0.08
	l.SubtitleY = l.TitleY + 48*scale
	l.QuoteY = controlY - 40*scale

	top := l.SubtitleY + 32*scale
	if !christmas {
		size, bgap := boxSize*scale, boxGap*scale
		x := W/2 - (4*size+3*bgap)/2
		for i := 0; i < 4; i++ {
			l.Countdown = append(l.Countdown, Rect{X: x + float64(i)*(size+bgap), Y: top, W: size, H: size})
		}
		top += size + 24*scale
	}

	bottom := l.QuoteY - 40*scale
	fw := math.Min(W*0.6, 560*scale)
	if christmas {
		fw = W * 0.9
	}
	l.Field = Rect{X: W/2 - fw/2, Y: top, W: fw, H: math.Max(0, bottom-top)}

	ow, oh := 320*scale, 56*scale
	l.Overlay = Button{Action: ActionOpenWish, Label: "Open Your Magic Wish", Rect: Rect{X: W/2 - ow/2, Y: H*0.65 - oh/2, W: ow, H: oh}}
	return l
}

// row centres buttons horizontally at y.
func row(buttons []Button, width, y, bw, bh, gap float64) []Button {
	total := float64(len(buttons))*bw + float64(len(buttons)-1)*gap
	x := width/2 - total/2
	for i := range buttons {
		buttons[i].Rect = Rect{X: x + float64(i)*(bw+gap), Y: y, W: bw, H: bh}
	}
	return buttons
}

// Hit returns the button under (x, y).
func (l Layout) Hit(x, y float64) (Button, bool) {
	for _, b := range l.Buttons {
		if b.Rect.Contains(x, y) {
			return b, true
		}
	}
	return Button{}, false
}

// FieldPoint converts screen coordinates into the field's local space. ok is
// false when the point is outside the field.
func (l Layout) FieldPoint(x, y float64) (fx, fy float64, ok bool) {
	if !l.Field.Contains(x, y) {
		return 0, 0, false
	}
	return x - l.Field.X, y - l.Field.Y, true
}
