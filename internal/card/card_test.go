package card

import (
	"image/png"
	"math/rand/v2"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// monospace measures every rune as 10 units wide.
func monospace(s string) float64 { return float64(len([]rune(s))) * 10 }

func TestWrapGreedy(t *testing.T) {
	tests := []struct {
		name  string
		msg   string
		width float64
		want  []string
	}{
		{"fits", "merry christmas", 200, []string{"merry christmas"}},
		{"greedy", "the quick brown fox jumps over the lazy dog", 100,
			[]string{"the quick", "brown fox", "jumps over", "the lazy", "dog"}},
		{"collapses spaces", "  joy   to\tthe\nworld ", 70, []string{"joy to", "the", "world"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if diff := cmp.Diff(tt.want, Wrap(monospace, tt.msg, tt.width)); diff != "" {
				t.Errorf("Wrap() mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestWrapNeverSplitsWords(t *testing.T) {
	msg := "a supercalifragilisticexpialidocious wish for you"
	lines := Wrap(monospace, msg, 80)

	assert.Equal(t, strings.Fields(msg), strings.Fields(strings.Join(lines, " ")))
	for _, l := range lines {
		if len(strings.Fields(l)) > 1 {
			assert.LessOrEqual(t, monospace(l), 80.0, l)
		}
	}
	assert.Contains(t, lines, "supercalifragilisticexpialidocious")
}

func TestWrapEmpty(t *testing.T) {
	assert.Empty(t, Wrap(monospace, "   ", 100))
}

func TestRendererWrapsWithinMaxWidth(t *testing.T) {
	r, err := NewRenderer(rand.New(rand.NewPCG(1, 2)))
	require.NoError(t, err)

	msg := "May the quiet glow of winter evenings fill your home with laughter, your table with friends, and your heart with a calm and lasting joy."
	require.Greater(t, r.MeasureMessage(msg), float64(MaxLineWidth))

	lines := r.Lines(msg)
	require.Greater(t, len(lines), 1)
	for _, l := range lines {
		assert.LessOrEqual(t, r.MeasureMessage(l), float64(MaxLineWidth), l)
	}
	assert.Equal(t, strings.Fields(msg), strings.Fields(strings.Join(lines, " ")))
}

func TestRenderLayout(t *testing.T) {
	r, err := NewRenderer(rand.New(rand.NewPCG(3, 4)))
	require.NoError(t, err)

	img := r.Render("Ada", "Wishing you warmth and wonder this season.", 2025)
	require.Equal(t, Width, img.Bounds().Dx())
	require.Equal(t, Height, img.Bounds().Dy())

	// Border corners are gold.
	assert.Equal(t, yellow, img.RGBAAt(0, 0))
	assert.Equal(t, yellow, img.RGBAAt(0, Height-1))
	assert.Equal(t, yellow, img.RGBAAt(Width/2, 0))

	// Inside the border the gradient darkens toward the bottom right.
	tl := img.RGBAAt(30, 30)
	br := img.RGBAAt(Width-30, Height-30)
	assert.Greater(t, tl.R, br.R)

	// The title row has gold text pixels somewhere near the centre.
	found := false
	for x := 300; x < 900 && !found; x++ {
		for y := 90; y < 150; y++ {
			if img.RGBAAt(x, y) == yellow {
				found = true
				break
			}
		}
	}
	assert.True(t, found, "title not drawn")
}

func TestFileName(t *testing.T) {
	assert.Equal(t, "Christmas_2025_Gift_Card_Ada.png", FileName("Ada", 2025, ""))
	assert.Equal(t, "Christmas_2025_Gift_Card_Ada_Lovelace_ab12cd34.png", FileName(" Ada Lovelace ", 2025, "ab12cd34"))
	assert.Equal(t, "Christmas_2026_Gift_Card_Friend.png", FileName("../", 2026, ""))
	assert.Len(t, NewID(), 8)
}

func TestSave(t *testing.T) {
	r, err := NewRenderer(nil)
	require.NoError(t, err)

	path := filepath.Join(t.TempDir(), FileName("Ada", 2025, NewID()))
	require.NoError(t, Save(r.Render("Ada", "Joy.", 2025), path))

	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close()
	cfg, err := png.DecodeConfig(f)
	require.NoError(t, err)
	assert.Equal(t, Width, cfg.Width)
	assert.Equal(t, Height, cfg.Height)

	assert.Error(t, Save(r.Render("Ada", "Joy.", 2025), filepath.Join(t.TempDir(), "missing", "x.png")))
}
