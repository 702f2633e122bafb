package scene

import (
	"context"
	"errors"
	"image"
	"math/rand/v2"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"github.com/iburimskiy/festive-greeting/internal/share"
)

func TestSnowfallResizeAndStep(t *testing.T) {
	s := NewSnowfall(rand.New(rand.NewPCG(1, 2)))
	s.Resize(800, 600)
	require.Len(t, s.Flakes, FlakeCount)
	require.Len(t, s.Stars, StarCount)

	for _, st := range s.Stars {
		assert.Less(t, st.Pos.Y, 600*starBand)
	}

	for i := 0; i < 2000; i++ {
		s.Step()
	}
	for _, f := range s.Flakes {
		assert.GreaterOrEqual(t, f.Pos.X, 0.0)
		assert.LessOrEqual(t, f.Pos.X, 800.0)
		assert.LessOrEqual(t, f.Pos.Y, 600.0)
		assert.GreaterOrEqual(t, f.Pos.Y, -10.0)
	}
	for _, st := range s.Stars {
		assert.GreaterOrEqual(t, st.Alpha(), minTwinkle-0.03)
		assert.LessOrEqual(t, st.Alpha(), 1.0)
	}

	s.Resize(0, 0)
	assert.Empty(t, s.Flakes)
	s.Step()
}

func TestRotator(t *testing.T) {
	start := time.Date(2025, 12, 1, 0, 0, 0, 0, time.UTC)
	r := NewRotator([]string{"a", "b", "c"}, 6*time.Second, 500*time.Millisecond, start)

	at := func(d time.Duration) (string, float64) { return r.At(start.Add(d)) }

	q, a := at(0)
	assert.Equal(t, "a", q)
	assert.Equal(t, 1.0, a)

	q, a = at(6*time.Second + 250*time.Millisecond)
	assert.Equal(t, "a", q)
	assert.InDelta(t, 0.5, a, 1e-9)

	q, a = at(6*time.Second + 750*time.Millisecond)
	assert.Equal(t, "b", q)
	assert.InDelta(t, 0.5, a, 1e-9)

	q, a = at(8 * time.Second)
	assert.Equal(t, "b", q)
	assert.Equal(t, 1.0, a)

	q, _ = at(19 * time.Second)
	assert.Equal(t, "a", q)

	r.SetQuotes(nil)
	q, a = at(time.Second)
	assert.Empty(t, q)
	assert.Zero(t, a)
}

func TestArrange(t *testing.T) {
	l := Arrange(1024, 720, 1, false)
	require.Len(t, l.Countdown, 4)
	assert.Len(t, l.Buttons, 6+len(share.Platforms))
	assert.Greater(t, l.Field.W, 0.0)
	assert.Greater(t, l.Field.H, 0.0)

	for _, b := range l.Buttons {
		assert.False(t, rectsOverlap(b.Rect, l.Field), b.Label)
		assert.LessOrEqual(t, b.Rect.Y+b.Rect.H, 720.0)
	}

	b, ok := l.Hit(l.Buttons[3].Rect.Center())
	require.True(t, ok)
	assert.Equal(t, ActionMorph, b.Action)

	_, ok = l.Hit(0, 0)
	assert.False(t, ok)

	c := Arrange(1024, 720, 1, true)
	assert.Empty(t, c.Countdown)
	assert.Greater(t, c.Field.W, l.Field.W)
	var platforms []share.Platform
	for _, b := range c.Buttons {
		if b.Action == ActionShare {
			platforms = append(platforms, b.Platform)
		}
	}
	assert.Equal(t, []share.Platform{share.WhatsApp, share.Instagram}, platforms)

	hi := Arrange(2048, 1440, 2, false)
	assert.InDelta(t, 2*l.Buttons[0].Rect.W, hi.Buttons[0].Rect.W, 1e-9)
}

func rectsOverlap(a, b Rect) bool {
	return a.X < b.X+b.W && b.X < a.X+a.W && a.Y < b.Y+b.H && b.Y < a.Y+a.H
}

func TestFieldPoint(t *testing.T) {
	l := Arrange(1024, 720, 1, false)
	cx, cy := l.Field.Center()
	x, y, ok := l.FieldPoint(cx, cy)
	require.True(t, ok)
	assert.InDelta(t, l.Field.W/2, x, 1e-9)
	assert.InDelta(t, l.Field.H/2, y, 1e-9)

	_, _, ok = l.FieldPoint(1, 1)
	assert.False(t, ok)
}

type fakeDialogs struct {
	name     string
	nameOK   bool
	nameErr  error
	savePath string
	saveOK   bool
	saveErr  error
	asked    int
}

func (d *fakeDialogs) AskName(title, prompt, initial string) (string, bool, error) {
	d.asked++
	return d.name, d.nameOK, d.nameErr
}

func (d *fakeDialogs) SaveLocation(title, filename string) (string, bool, error) {
	if d.savePath == "" {
		return "", d.saveOK, d.saveErr
	}
	return d.savePath, d.saveOK, d.saveErr
}

type fixedGreeter string

func (g fixedGreeter) Generate(ctx context.Context, name string) string {
	return string(g) + " " + name
}

type blankRenderer struct{ calls int }

func (r *blankRenderer) Render(name, message string, year int) *image.RGBA {
	r.calls++
	return image.NewRGBA(image.Rect(0, 0, 4, 4))
}

func TestGiftCardAsksAndSaves(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "chosen.png")
	d := &fakeDialogs{name: " Ada ", nameOK: true, savePath: path, saveOK: true}
	r := &blankRenderer{}
	gc := &GiftCard{Dialogs: d, Greeter: fixedGreeter("Joy to"), Renderer: r, Year: 2025, OutputDir: dir}

	res := gc.Run(context.Background(), "")
	require.NoError(t, res.Err)
	assert.False(t, res.Canceled)
	assert.Equal(t, "Ada", res.Name)
	assert.Equal(t, "Joy to Ada", res.Message)
	assert.Equal(t, path, res.Path)
	assert.FileExists(t, path)
	assert.Equal(t, 1, r.calls)
}

func TestGiftCardCancel(t *testing.T) {
	r := &blankRenderer{}
	gc := &GiftCard{Dialogs: &fakeDialogs{}, Greeter: fixedGreeter("x"), Renderer: r, Year: 2025, OutputDir: t.TempDir()}
	res := gc.Run(context.Background(), "")
	assert.True(t, res.Canceled)
	assert.Zero(t, r.calls)

	gc.Dialogs = &fakeDialogs{saveOK: false}
	res = gc.Run(context.Background(), "Ada")
	assert.True(t, res.Canceled)
	assert.Empty(t, res.Path)
	assert.Equal(t, 1, r.calls)
}

func TestGiftCardWithoutDialogsUsesOutputDir(t *testing.T) {
	dir := t.TempDir()
	gc := &GiftCard{Greeter: fixedGreeter("Joy to"), Renderer: &blankRenderer{}, Year: 2025, OutputDir: dir, UniqueIDs: true}

	res := gc.Run(context.Background(), "Ada")
	require.NoError(t, res.Err)
	assert.Equal(t, dir, filepath.Dir(res.Path))
	assert.Regexp(t, `^Christmas_2025_Gift_Card_Ada_[0-9a-f]{8}\.png$`, filepath.Base(res.Path))
	_, err := os.Stat(res.Path)
	assert.NoError(t, err)

	res = gc.Run(context.Background(), "  ")
	assert.True(t, res.Canceled)
}

func TestGiftCardSaveDialogErrorFallsBack(t *testing.T) {
	dir := t.TempDir()
	d := &fakeDialogs{saveErr: errors.New("no display")}
	gc := &GiftCard{Dialogs: d, Greeter: fixedGreeter("x"), Renderer: &blankRenderer{}, Year: 2025, OutputDir: dir}

	res := gc.Run(context.Background(), "Ada")
	require.NoError(t, res.Err)
	assert.Equal(t, filepath.Join(dir, "Christmas_2025_Gift_Card_Ada.png"), res.Path)
	assert.Zero(t, d.asked)
}

func TestAskName(t *testing.T) {
	res := AskName(&fakeDialogs{name: " Bob ", nameOK: true}, "")
	assert.Equal(t, JobName, res.Kind)
	assert.Equal(t, "Bob", res.Name)

	assert.True(t, AskName(&fakeDialogs{}, "").Canceled)
	assert.Error(t, AskName(&fakeDialogs{nameErr: errors.New("boom")}, "").Err)
	assert.Error(t, AskName(nil, "").Err)
}

func TestJobsRunOneAtATime(t *testing.T) {
	defer goleak.VerifyNone(t)

	j := NewJobs()
	release := make(chan struct{})
	started := j.Start(context.Background(), func(context.Context) Result {
		<-release
		return Result{Kind: JobName, Name: "Ada"}
	})
	require.True(t, started)
	assert.True(t, j.Busy())
	assert.False(t, j.Start(context.Background(), func(context.Context) Result { return Result{} }))

	_, ok := j.Poll()
	assert.False(t, ok)

	close(release)
	j.Wait()

	res, ok := j.Poll()
	require.True(t, ok)
	assert.Equal(t, "Ada", res.Name)
	assert.False(t, j.Busy())
}

func TestBatch(t *testing.T) {
	defer goleak.VerifyNone(t)

	dir := t.TempDir()
	newCard := func() (*GiftCard, error) {
		return &GiftCard{Greeter: fixedGreeter("Joy to"), Renderer: &blankRenderer{}, Year: 2025, OutputDir: dir}, nil
	}

	res, err := Batch(context.Background(), []string{"Ada", "Bob", "Cy"}, 2, newCard)
	require.NoError(t, err)
	require.Len(t, res, 3)
	for i, name := range []string{"Ada", "Bob", "Cy"} {
		assert.Equal(t, name, res[i].Name)
		assert.Equal(t, "Joy to "+name, res[i].Message)
		assert.FileExists(t, res[i].Path)
	}
}

func TestBatchKeepsCollidingNamesApart(t *testing.T) {
	defer goleak.VerifyNone(t)

	dir := t.TempDir()
	newCard := func() (*GiftCard, error) {
		return &GiftCard{Greeter: fixedGreeter("Joy to"), Renderer: &blankRenderer{}, Year: 2025, OutputDir: dir}, nil
	}

	names := []string{"Mary Ann", "Mary_Ann", "Ada", "Ada!", "Ada"}
	res, err := Batch(context.Background(), names, 3, newCard)
	require.NoError(t, err)
	require.Len(t, res, len(names))

	paths := make(map[string]bool)
	for i, r := range res {
		require.NoError(t, r.Err, names[i])
		assert.FileExists(t, r.Path)
		assert.False(t, paths[r.Path], "path reused: %s", r.Path)
		paths[r.Path] = true
	}
	assert.Equal(t, filepath.Join(dir, "Christmas_2025_Gift_Card_Mary_Ann.png"), res[0].Path)
	assert.Equal(t, filepath.Join(dir, "Christmas_2025_Gift_Card_Ada.png"), res[2].Path)
	assert.Regexp(t, `^Christmas_2025_Gift_Card_Mary_Ann_[0-9a-f]{8}\.png$`, filepath.Base(res[1].Path))

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Len(t, entries, len(names))
}

func TestGiftCardFixedID(t *testing.T) {
	dir := t.TempDir()
	gc := &GiftCard{Greeter: fixedGreeter("x"), Renderer: &blankRenderer{}, Year: 2025, OutputDir: dir, UniqueIDs: true, ID: "abc"}
	res := gc.Run(context.Background(), "Ada")
	require.NoError(t, res.Err)
	assert.Equal(t, filepath.Join(dir, "Christmas_2025_Gift_Card_Ada_abc.png"), res.Path)
}

func TestBatchFailsWhenCardCannotBeBuilt(t *testing.T) {
	_, err := Batch(context.Background(), []string{"Ada"}, 0, func() (*GiftCard, error) {
		return nil, errors.New("no fonts")
	})
	assert.EqualError(t, err, "no fonts")
}
