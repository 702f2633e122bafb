package tui

import (
	"context"
	"math/rand/v2"
	"strings"
	"testing"
	"time"

	"github.com/gdamore/tcell/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

func newScreen(t *testing.T) tcell.SimulationScreen {
	t.Helper()
	s := tcell.NewSimulationScreen("UTF-8")
	require.NoError(t, s.Init())
	s.SetSize(80, 24)
	return s
}

func contents(s tcell.SimulationScreen) string {
	cells, w, _ := s.GetContents()
	var b strings.Builder
	for i, c := range cells {
		if len(c.Runes) > 0 {
			b.WriteRune(c.Runes[0])
		} else {
			b.WriteByte(' ')
		}
		if (i+1)%w == 0 {
			b.WriteByte('\n')
		}
	}
	return b.String()
}

func fixedNow() time.Time { return time.Date(2025, 12, 24, 22, 0, 0, 0, time.UTC) }

func TestDrawCountdown(t *testing.T) {
	s := newScreen(t)
	defer s.Fini()

	target := time.Date(2025, 12, 25, 0, 0, 0, 0, time.UTC)
	v := New(s, target, []string{"Peace on earth"}, rand.New(rand.NewPCG(1, 2)), fixedNow, nil)
	v.Draw()

	out := contents(s)
	assert.Contains(t, out, "Merry Christmas 2025")
	assert.Contains(t, out, "0d 02h 00m 00s")
	assert.Contains(t, out, "Peace on earth")
	assert.Contains(t, out, "q / Esc to quit")
}

func TestDrawCelebration(t *testing.T) {
	s := newScreen(t)
	defer s.Fini()

	target := time.Date(2025, 12, 24, 0, 0, 0, 0, time.UTC)
	v := New(s, target, nil, rand.New(rand.NewPCG(1, 2)), fixedNow, nil)
	v.Draw()

	assert.True(t, v.clock.Done())
	assert.Contains(t, contents(s), "It's Christmas Time")
}

func TestRunQuitsOnKey(t *testing.T) {
	defer goleak.VerifyNone(t)

	for _, key := range []struct {
		k tcell.Key
		r rune
	}{
		{tcell.KeyRune, 'q'},
		{tcell.KeyEscape, 0},
		{tcell.KeyCtrlC, 0},
	} {
		s := newScreen(t)
		v := New(s, fixedNow().Add(time.Hour), nil, nil, fixedNow, nil)

		errc := make(chan error, 1)
		go func() { errc <- v.Run(context.Background()) }()
		s.InjectKey(key.k, key.r, tcell.ModNone)

		select {
		case err := <-errc:
			assert.NoError(t, err)
		case <-time.After(5 * time.Second):
			t.Fatalf("view did not quit on %v", key.k)
		}
		s.Fini()
	}
}

func TestRunStopsOnCancel(t *testing.T) {
	defer goleak.VerifyNone(t)

	s := newScreen(t)
	defer s.Fini()
	v := New(s, fixedNow().Add(time.Hour), nil, nil, fixedNow, nil)

	ctx, cancel := context.WithCancel(context.Background())
	errc := make(chan error, 1)
	go func() { errc <- v.Run(ctx) }()

	s.InjectKey(tcell.KeyRune, 'x', tcell.ModNone)
	time.Sleep(3 * tickInterval)
	cancel()

	select {
	case err := <-errc:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("view did not stop")
	}
}
