package share

import (
	"fmt"
	"net/url"
	"strings"

	"go.uber.org/zap"

	"github.com/iburimskiy/festive-greeting/internal/logging"
)

// Platform is a share target with a known web-intent URL.
type Platform string

const (
	Native    Platform = ""
	WhatsApp  Platform = "whatsapp"
	Twitter   Platform = "twitter"
	Facebook  Platform = "facebook"
	Instagram Platform = "instagram"
)

// Platforms lists the targets offered in the UI, in display order.
var Platforms = []Platform{WhatsApp, Facebook, Instagram, Twitter, Native}

func (p Platform) Label() string {
	switch p {
	case WhatsApp:
		return "WhatsApp"
	case Twitter:
		return "Twitter"
	case Facebook:
		return "Facebook"
	case Instagram:
		return "Instagram"
	default:
		return "Copy Link"
	}
}

// ParsePlatform maps a name such as "whatsapp" or "copy" to a Platform.
func ParsePlatform(s string) (Platform, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "native", "copy", "link":
		return Native, nil
	case "x":
		return Twitter, nil
	}
	for _, p := range Platforms {
		if strings.EqualFold(s, string(p)) {
			return p, nil
		}
	}
	return Native, fmt.Errorf("unknown share platform %q", s)
}

// URL builds the canonical share link: base without query or fragment, plus
// a name parameter when name is not blank.
func URL(base, name string) (string, error) {
	u, err := url.Parse(base)
	if err != nil {
		return "", fmt.Errorf("parse share base %q: %w", base, err)
	}
	u.RawQuery = ""
	u.Fragment = ""
	if n := strings.TrimSpace(name); n != "" {
		u.RawQuery = url.Values{"name": {n}}.Encode()
	}
	return u.String(), nil
}

// ParseName extracts the name parameter from a share link.
func ParseName(raw string) string {
	u, err := url.Parse(raw)
	if err != nil {
		return ""
	}
	return strings.TrimSpace(u.Query().Get("name"))
}

// Text is the message that accompanies a shared link. fallbackSender is used
// once Christmas has arrived and no name was given.
func Text(name string, christmas bool, year int, fallbackSender string) string {
	name = strings.TrimSpace(name)
	if christmas {
		from := name
		if from == "" {
			from = fallbackSender
		}
		return fmt.Sprintf("It's Christmas Time! 🎄 Celebrate with a magical wish from %s", from)
	}
	if name != "" {
		return fmt.Sprintf("Experience the magic of Christmas %d! Check out this special wish from %s 🎄✨", year, name)
	}
	return fmt.Sprintf("Experience the magic of Christmas %d! Check out this special wish 🎄✨", year)
}

// IntentURL returns the web-intent URL for platform, or false when the
// platform has none.
func IntentURL(p Platform, text, link string) (string, bool) {
	switch p {
	case WhatsApp:
		return "https://wa.me/?text=" + escape(text+" "+link), true
	case Twitter:
		return "https://twitter.com/intent/tweet?text=" + escape(text) + "&url=" + escape(link), true
	case Facebook:
		return "https://www.facebook.com/sharer/sharer.php?u=" + escape(link), true
	default:
		return "", false
	}
}

// escape encodes s for use as a query value, with spaces as %20.
func escape(s string) string {
	return strings.ReplaceAll(url.QueryEscape(s), "+", "%20")
}

// Opener opens a URL in the user's browser.
type Opener interface {
	OpenURL(u string) error
}

// Clipboard holds text for pasting.
type Clipboard interface {
	WriteText(s string) error
}

// NativeSharer hands a share off to the platform's share sheet.
type NativeSharer interface {
	Share(title, text, link string) error
}

// Request describes one share action.
type Request struct {
	Platform  Platform
	Name      string
	Christmas bool
	Year      int
}

// Dispatcher routes share requests. Failures are logged and degrade to the
// clipboard and toast; they are never returned.
type Dispatcher struct {
	Base   string
	Sender string
	Opener Opener
	Clip   Clipboard
	Native NativeSharer
	Toast  *Toast
	Log    *zap.Logger
}

// Share performs r and returns the link that was shared.
func (d *Dispatcher) Share(r Request) string {
	log := logging.OrNop(d.Log)

	link, err := URL(d.Base, r.Name)
	if err != nil {
		log.Warn("share link", zap.Error(err))
		link = d.Base
	}
	text := Text(r.Name, r.Christmas, r.Year, d.Sender)

	if intent, ok := IntentURL(r.Platform, text, link); ok && d.Opener != nil {
		err := d.Opener.OpenURL(intent)
		if err == nil {
			log.Debug("opened share intent", zap.String("platform", string(r.Platform)))
			return link
		}
		log.Warn("open share intent", zap.String("platform", string(r.Platform)), zap.Error(err))
	}

	if d.Native != nil {
		title := fmt.Sprintf("Christmas %d Magic", r.Year)
		err := d.Native.Share(title, text, link)
		if err == nil {
			return link
		}
		log.Warn("native share", zap.Error(err))
	}

	if d.Clip != nil {
		if err := d.Clip.WriteText(text + " " + link); err != nil {
			log.Warn("copy share link", zap.Error(err))
		}
	}
	if d.Toast != nil {
		d.Toast.Show("Magic Link Copied!")
	}
	return link
}
