package game

import (
	"fmt"
	"image/color"

	"github.com/lucasb-eyer/go-colorful"
)

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

// pad2 formats a countdown value with at least two digits.
func pad2(n int) string {
	if n < 0 {
		n = 0
	}
	return fmt.Sprintf("%02d", n)
}

// lerpColor blends a toward b in RGB; t is clamped to [0,1].
func lerpColor(a, b color.RGBA, t float64) color.RGBA {
	ca, _ := colorful.MakeColor(a)
	cb, _ := colorful.MakeColor(b)
	r, g, bl := ca.BlendRgb(cb, clamp01(t)).Clamped().RGB255()
	return color.RGBA{R: r, G: g, B: bl, A: 0xff}
}

// darken scales the colour's brightness by k; k above 1 lightens.
func darken(c color.RGBA, k float64) color.RGBA {
	cc, _ := colorful.MakeColor(color.RGBA{R: c.R, G: c.G, B: c.B, A: 0xff})
	h, s, v := cc.Hsv()
	r, g, b := colorful.Hsv(h, s, clamp01(v*k)).RGB255()
	return color.RGBA{R: r, G: g, B: b, A: c.A}
}
