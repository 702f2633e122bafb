package countdown

import (
	"fmt"
	"time"
)

// Remaining is the time left split into display units.
type Remaining struct {
	Days    int
	Hours   int
	Minutes int
	Seconds int
}

// Zero reports whether no time is left.
func (r Remaining) Zero() bool {
	return r == Remaining{}
}

func (r Remaining) String() string {
	return fmt.Sprintf("%dd %02dh %02dm %02ds", r.Days, r.Hours, r.Minutes, r.Seconds)
}

// Between splits target-now into days, hours, minutes and seconds, rounding
// each unit down. A non-positive difference yields the zero value.
func Between(now, target time.Time) Remaining {
	diff := target.Sub(now)
	if diff <= 0 {
		return Remaining{}
	}
	secs := int64(diff / time.Second)
	return Remaining{
		Days:    int(secs / 86400),
		Hours:   int(secs / 3600 % 24),
		Minutes: int(secs / 60 % 60),
		Seconds: int(secs % 60),
	}
}

// Countdown tracks a fixed target and signals completion once.
type Countdown struct {
	target     time.Time
	onComplete func()
	done       bool
	last       Remaining
}

// New creates a countdown to target. onComplete may be nil.
func New(target time.Time, onComplete func()) *Countdown {
	return &Countdown{target: target, onComplete: onComplete}
}

// Update recomputes the remaining time for now. The first call at or past the
// target fires onComplete; later calls never fire it again.
func (c *Countdown) Update(now time.Time) Remaining {
	c.last = Between(now, c.target)
	if !c.done && !now.Before(c.target) {
		c.done = true
		if c.onComplete != nil {
			c.onComplete()
		}
	}
	return c.last
}

// Remaining returns the value computed by the last Update.
func (c *Countdown) Remaining() Remaining { return c.last }

// Done reports whether the target has been reached.
func (c *Countdown) Done() bool { return c.done }

// Target returns the countdown's target time.
func (c *Countdown) Target() time.Time { return c.target }

// Year is the calendar year of the target.
func (c *Countdown) Year() int { return c.target.Year() }

// NextChristmas returns midnight on December 25 in now's location: this
// year's, or next year's once that day has started.
func NextChristmas(now time.Time) time.Time {
	t := time.Date(now.Year(), time.December, 25, 0, 0, 0, 0, now.Location())
	if !now.Before(t) {
		t = t.AddDate(1, 0, 0)
	}
	return t
}
