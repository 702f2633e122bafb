package scene

import "time"

// Rotator cycles through quotes. Every interval the current quote fades out
// over fade, the next one replaces it and fades back in over fade.
type Rotator struct {
	quotes   []string
	interval time.Duration
	fade     time.Duration
	start    time.Time
}

func NewRotator(quotes []string, interval, fade time.Duration, start time.Time) *Rotator {
	if interval <= 0 {
		interval = 6 * time.Second
	}
	if fade < 0 || 2*fade > interval {
		fade = 0
	}
	return &Rotator{quotes: quotes, interval: interval, fade: fade, start: start}
}

// SetQuotes swaps the quote list without restarting the cycle.
func (r *Rotator) SetQuotes(quotes []string) { r.quotes = quotes }

// At returns the quote shown at now and its opacity.
func (r *Rotator) At(now time.Time) (string, float64) {
	if len(r.quotes) == 0 {
		return "", 0
	}
	elapsed := now.Sub(r.start)
	if elapsed < 0 {
		elapsed = 0
	}
	n := int(elapsed / r.interval)
	phase := elapsed % r.interval

	idx, alpha := n, 1.0
	switch {
	case n == 0 || r.fade == 0:
	case phase < r.fade:
		idx = n - 1
		alpha = 1 - float64(phase)/float64(r.fade)
	case phase < 2*r.fade:
		alpha = float64(phase-r.fade) / float64(r.fade)
	}
	return r.quotes[idx%len(r.quotes)], alpha
}
