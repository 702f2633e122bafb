package share

import (
	"sync"
	"time"
)

// ToastDuration is how long a confirmation stays on screen.
const ToastDuration = 3 * time.Second

// Toast is a transient on-screen confirmation. It is safe to Show from a
// background goroutine while the frame loop reads it.
type Toast struct {
	mu    sync.Mutex
	now   func() time.Time
	text  string
	until time.Time
}

// NewToast creates a toast using now as its clock; nil means time.Now.
func NewToast(now func() time.Time) *Toast {
	if now == nil {
		now = time.Now
	}
	return &Toast{now: now}
}

// Show displays text for ToastDuration, replacing any current message.
func (t *Toast) Show(text string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.text = text
	t.until = t.now().Add(ToastDuration)
}

// Current returns the visible message, or false once it has expired.
func (t *Toast) Current() (string, bool) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.text == "" || !t.now().Before(t.until) {
		return "", false
	}
	return t.text, true
}
