package tui

import (
	"context"
	"fmt"
	"math/rand/v2"
	"time"

	"github.com/gdamore/tcell/v2"
	"go.uber.org/zap"

	"github.com/iburimskiy/festive-greeting/internal/config"
	"github.com/iburimskiy/festive-greeting/internal/countdown"
	"github.com/iburimskiy/festive-greeting/internal/logging"
	"github.com/iburimskiy/festive-greeting/internal/scene"
)

const tickInterval = 120 * time.Millisecond

var (
	styleTitle = tcell.StyleDefault.Foreground(tcell.NewRGBColor(0xdc, 0x26, 0x26)).Bold(true)
	styleGold  = tcell.StyleDefault.Foreground(tcell.NewRGBColor(0xfd, 0xe0, 0x47)).Bold(true)
	styleQuote = tcell.StyleDefault.Foreground(tcell.NewRGBColor(0xef, 0xf6, 0xff)).Italic(true)
	styleSnow  = tcell.StyleDefault.Foreground(tcell.ColorWhite)
	styleStar  = tcell.StyleDefault.Foreground(tcell.ColorSilver)
	styleHint  = tcell.StyleDefault.Foreground(tcell.ColorGray)
)

// View is a terminal countdown with falling snow.
type View struct {
	screen tcell.Screen
	clock  *countdown.Countdown
	snow   *scene.Snowfall
	quotes *scene.Rotator
	now    func() time.Time
	log    *zap.Logger
}

// New creates a view on an initialised screen. The caller owns the screen.
func New(screen tcell.Screen, target time.Time, quotes []string, rng *rand.Rand, now func() time.Time, log *zap.Logger) *View {
	if now == nil {
		now = time.Now
	}
	v := &View{
		screen: screen,
		snow:   scene.NewSnowfall(rng),
		quotes: scene.NewRotator(quotes, config.QuoteInterval, 0, now()),
		now:    now,
		log:    logging.OrNop(log),
	}
	v.clock = countdown.New(target, func() {
		v.log.Info("countdown complete")
	})
	v.resize()
	return v
}

func (v *View) resize() {
	w, h := v.screen.Size()
	v.snow.Resize(w, h)
	// Terminal cells are tall; keep flakes slow.
	for i := range v.snow.Flakes {
		v.snow.Flakes[i].Speed *= 0.5
		v.snow.Flakes[i].Wind *= 0.5
	}
}

// Run draws until a quit key, ctx cancellation or the screen finishing.
// Quit keys are q, Esc and Ctrl-C.
func (v *View) Run(ctx context.Context) error {
	events := make(chan tcell.Event, 16)
	quit := make(chan struct{})
	done := make(chan struct{})
	go func() {
		defer close(done)
		v.screen.ChannelEvents(events, quit)
	}()
	defer func() {
		close(quit)
		<-done
	}()

	ticker := time.NewTicker(tickInterval)
	defer ticker.Stop()

	v.Draw()
	for {
		select {
		case <-ctx.Done():
			return nil
		case ev, ok := <-events:
			if !ok {
				return nil
			}
			if !v.handle(ev) {
				return nil
			}
		case <-ticker.C:
			v.snow.Step()
			v.Draw()
		}
	}
}

// handle reacts to one event and reports whether to keep running.
func (v *View) handle(ev tcell.Event) bool {
	switch ev := ev.(type) {
	case *tcell.EventKey:
		switch {
		case ev.Key() == tcell.KeyEscape, ev.Key() == tcell.KeyCtrlC:
			return false
		case ev.Key() == tcell.KeyRune && (ev.Rune() == 'q' || ev.Rune() == 'Q'):
			return false
		}
	case *tcell.EventResize:
		v.screen.Sync()
		v.resize()
		v.Draw()
	}
	return true
}

// Draw renders one frame.
func (v *View) Draw() {
	s := v.screen
	now := v.now()
	rem := v.clock.Update(now)
	w, h := s.Size()

	s.Clear()
	for _, st := range v.snow.Stars {
		if st.Alpha() > 0.6 {
			s.SetContent(int(st.Pos.X), int(st.Pos.Y), '·', nil, styleStar)
		}
	}
	for _, f := range v.snow.Flakes {
		r := '.'
		if f.Radius > 2.5 {
			r = '*'
		}
		s.SetContent(int(f.Pos.X), int(f.Pos.Y), r, nil, styleSnow)
	}

	mid := h / 2
	year := v.clock.Year()
	if v.clock.Done() {
		center(s, w, mid-2, "It's Christmas Time", styleGold)
		center(s, w, mid, "THE MAGIC HAS ARRIVED", styleTitle)
	} else {
		center(s, w, mid-2, fmt.Sprintf("Merry Christmas %d", year), styleTitle)
		center(s, w, mid, rem.String(), styleGold)
	}
	if q, _ := v.quotes.At(now); q != "" {
		center(s, w, mid+2, q, styleQuote)
	}
	center(s, w, h-1, "q / Esc to quit", styleHint)
	s.Show()
}

// center writes text centred on row y, clipped to the screen.
func center(s tcell.Screen, w, y int, text string, style tcell.Style) {
	runes := []rune(text)
	x := (w - len(runes)) / 2
	if x < 0 {
		x = 0
	}
	for i, r := range runes {
		if x+i >= w {
			break
		}
		s.SetContent(x+i, y, r, nil, style)
	}
}
