package desktop

import (
	"fmt"
	"sync"

	"github.com/pkg/browser"
	"golang.design/x/clipboard"
)

// BrowserOpener opens intent URLs in the default browser.
type BrowserOpener struct{}

func (BrowserOpener) OpenURL(u string) error {
	return browser.OpenURL(u)
}

// SystemClipboard writes to the OS clipboard. The clipboard is initialised on
// first use.
type SystemClipboard struct {
	once    sync.Once
	initErr error
}

func (c *SystemClipboard) WriteText(s string) error {
	c.once.Do(func() {
		c.initErr = clipboard.Init()
	})
	if c.initErr != nil {
		return fmt.Errorf("clipboard unavailable: %w", c.initErr)
	}
	clipboard.Write(clipboard.FmtText, []byte(s))
	return nil
}
