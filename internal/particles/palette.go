package particles

import "image/color"

const (
	// SampleStride is the grid step, in pixels, used when sampling shapes.
	SampleStride = 4
	// OpacityThreshold is the minimum alpha a rasterised cell needs to be kept.
	OpacityThreshold = 128

	RepulsionRadius = 90.0
	RepulsionForce  = 5.0
	Friction        = 0.86

	MinEaseRate = 0.02
	MaxEaseRate = 0.07
	MinSize     = 1.5
	MaxSize     = 3.5

	FadeInTicks = 30

	// CelebrationText is what the text silhouette spells.
	CelebrationText = "MERRY XMAS"
	starGlyph       = "*"
)

var (
	GreenDark  = color.RGBA{R: 0x16, G: 0x65, B: 0x34, A: 0xff}
	GreenLight = color.RGBA{R: 0x15, G: 0x80, B: 0x3d, A: 0xff}
	Gold       = color.RGBA{R: 0xfd, G: 0xe0, B: 0x47, A: 0xff}
	Red        = color.RGBA{R: 0xef, G: 0x44, B: 0x44, A: 0xff}
	Blue       = color.RGBA{R: 0x3b, G: 0x82, B: 0xf6, A: 0xff}
	TrunkBrown = color.RGBA{R: 0x78, G: 0x35, B: 0x0f, A: 0xff}

	// TextColor fills the celebratory text silhouette.
	TextColor = Gold
	// NeutralColor is what newly spawned particles look like before fading in.
	NeutralColor = color.RGBA{R: 0xff, G: 0xff, B: 0xff, A: 0xff}
)

// TreePalette lists every colour the tree silhouette may assign.
var TreePalette = []color.RGBA{GreenDark, GreenLight, Gold, Red, Blue, TrunkBrown}
