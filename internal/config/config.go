package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/lucasb-eyer/go-colorful"
	"gopkg.in/yaml.v3"

	"github.com/iburimskiy/festive-greeting/internal/countdown"
)

const (
	WindowWidth  = 1024
	WindowHeight = 720

	// Button dimensions
	ButtonWidth  = 120
	ButtonHeight = 36
	ButtonGap    = 10

	// Scene parameters
	SnowflakeCount   = 150
	StarCount        = 100
	QuoteInterval    = 6 * time.Second
	QuoteFade        = 500 * time.Millisecond
	VolumeStep       = 0.1
	DefaultShareBase = "https://christmas.example.com/"
	DefaultSender    = "George"
)

// DefaultQuotes rotate under the countdown.
var DefaultQuotes = []string{
	"The spirit of Christmas is the spirit of love and of generosity and of goodness.",
	"Christmas isn't just a season. It's a feeling that lives in our hearts.",
	"The best gifts are the ones we share with the people we love.",
	"Christmas waves a magic wand over the world, making everything softer and more beautiful.",
	"May the miracle of Christmas fill your heart with warmth and love.",
	"Gifts of time and love are the basic ingredients of a truly merry Christmas.",
	"Peace on earth will come to stay, when we live Christmas every day.",
	"Every snowflake is a kiss from heaven during this magical season.",
}

// Config is the YAML configuration file.
type Config struct {
	Window    WindowConfig    `yaml:"window"`
	Countdown CountdownConfig `yaml:"countdown"`
	Music     MusicConfig     `yaml:"music"`
	Share     ShareConfig     `yaml:"share"`
	Greeting  GreetingConfig  `yaml:"greeting"`
	Card      CardConfig      `yaml:"card"`
	Theme     ThemeConfig     `yaml:"theme"`
	Quotes    []string        `yaml:"quotes"`
	Logging   LoggingConfig   `yaml:"logging"`
}

type WindowConfig struct {
	Width  int    `yaml:"width"`
	Height int    `yaml:"height"`
	Title  string `yaml:"title"`
}

// CountdownConfig sets the target. An empty target means the next
// December 25 at local midnight.
type CountdownConfig struct {
	Target string `yaml:"target"` // RFC 3339, or "2006-01-02T15:04:05" in local time
}

type MusicConfig struct {
	Tracks   []string `yaml:"tracks"` // tried in order; wav, mp3 or flac
	Volume   float64  `yaml:"volume"`
	Autoplay bool     `yaml:"autoplay"`
}

type ShareConfig struct {
	BaseURL string `yaml:"base_url"`
	Sender  string `yaml:"sender"` // used in celebration copy when no name is set
}

type GreetingConfig struct {
	APIKey  string `yaml:"api_key"`
	Model   string `yaml:"model"`
	Timeout string `yaml:"timeout"`
}

type CardConfig struct {
	OutputDir string `yaml:"output_dir"` // used when no save dialog is available
	UniqueIDs bool   `yaml:"unique_ids"` // append a short id to file names
}

// ThemeConfig holds the background gradient as hex colours.
type ThemeConfig struct {
	SkyTop    string `yaml:"sky_top"`
	SkyBottom string `yaml:"sky_bottom"`
}

type LoggingConfig struct {
	Level       string `yaml:"level"`
	Development bool   `yaml:"development"`
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		Window: WindowConfig{Width: WindowWidth, Height: WindowHeight, Title: "Merry Christmas"},
		Music: MusicConfig{
			Tracks: []string{"Merry-Christmas.mp3"},
			Volume: 0.4,
		},
		Share:    ShareConfig{BaseURL: DefaultShareBase, Sender: DefaultSender},
		Greeting: GreetingConfig{Model: "gemini-3-flash-preview", Timeout: "20s"},
		Theme:    ThemeConfig{SkyTop: "#020617", SkyBottom: "#1e1b4b"},
		Quotes:   append([]string(nil), DefaultQuotes...),
		Logging:  LoggingConfig{Level: "info"},
	}
}

// Load reads path over the defaults and applies environment overrides. A
// missing file is not an error when path is empty.
func Load(path string) (*Config, error) {
	cfg := Default()
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read config: %w", err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config: %w", err)
		}
	}
	cfg.applyEnvOverrides()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) applyEnvOverrides() {
	if key := os.Getenv("GEMINI_API_KEY"); key != "" {
		c.Greeting.APIKey = key
	} else if key := os.Getenv("API_KEY"); key != "" && c.Greeting.APIKey == "" {
		c.Greeting.APIKey = key
	}
	if lvl := os.Getenv("GREETING_LOG_LEVEL"); lvl != "" {
		c.Logging.Level = lvl
	}
}

// Validate checks values that would otherwise fail later at runtime.
func (c *Config) Validate() error {
	var errs []error
	if c.Window.Width <= 0 || c.Window.Height <= 0 {
		errs = append(errs, fmt.Errorf("window size must be positive, got %dx%d", c.Window.Width, c.Window.Height))
	}
	if c.Music.Volume < 0 || c.Music.Volume > 1 {
		errs = append(errs, fmt.Errorf("music.volume must be in [0,1], got %v", c.Music.Volume))
	}
	if _, err := c.TargetTime(time.Now()); err != nil {
		errs = append(errs, err)
	}
	if _, err := c.GreetingTimeout(); err != nil {
		errs = append(errs, err)
	}
	if _, _, err := c.SkyColors(); err != nil {
		errs = append(errs, err)
	}
	if strings.TrimSpace(c.Share.BaseURL) == "" {
		errs = append(errs, errors.New("share.base_url is required"))
	}
	return errors.Join(errs...)
}

// TargetTime resolves the countdown target relative to now.
func (c *Config) TargetTime(now time.Time) (time.Time, error) {
	s := strings.TrimSpace(c.Countdown.Target)
	if s == "" {
		return countdown.NextChristmas(now), nil
	}
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t, nil
	}
	t, err := time.ParseInLocation("2006-01-02T15:04:05", s, now.Location())
	if err != nil {
		return time.Time{}, fmt.Errorf("countdown.target %q: %w", s, err)
	}
	return t, nil
}

// GreetingTimeout parses greeting.timeout; empty means zero.
func (c *Config) GreetingTimeout() (time.Duration, error) {
	if c.Greeting.Timeout == "" {
		return 0, nil
	}
	d, err := time.ParseDuration(c.Greeting.Timeout)
	if err != nil {
		return 0, fmt.Errorf("greeting.timeout %q: %w", c.Greeting.Timeout, err)
	}
	return d, nil
}

// SkyColors parses the background gradient colours.
func (c *Config) SkyColors() (colorful.Color, colorful.Color, error) {
	top, err := colorful.Hex(c.Theme.SkyTop)
	if err != nil {
		return colorful.Color{}, colorful.Color{}, fmt.Errorf("theme.sky_top: %w", err)
	}
	bottom, err := colorful.Hex(c.Theme.SkyBottom)
	if err != nil {
		return colorful.Color{}, colorful.Color{}, fmt.Errorf("theme.sky_bottom: %w", err)
	}
	return top, bottom, nil
}
