package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

func writeFile(t *testing.T, dir, body string) string {
	t.Helper()
	path := filepath.Join(dir, "greeting.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func clearEnv(t *testing.T) {
	t.Setenv("GEMINI_API_KEY", "")
	t.Setenv("API_KEY", "")
	t.Setenv("GREETING_LOG_LEVEL", "")
}

func TestLoadDefaults(t *testing.T) {
	clearEnv(t)
	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, WindowWidth, cfg.Window.Width)
	assert.Equal(t, 0.4, cfg.Music.Volume)
	assert.Equal(t, DefaultShareBase, cfg.Share.BaseURL)
	assert.Equal(t, DefaultSender, cfg.Share.Sender)
	assert.Len(t, cfg.Quotes, 8)
	assert.Equal(t, "info", cfg.Logging.Level)
}

func TestLoadFileOverridesDefaults(t *testing.T) {
	clearEnv(t)
	path := writeFile(t, t.TempDir(), `
window:
  width: 800
  height: 600
countdown:
  target: "2030-12-25T00:00:00Z"
music:
  volume: 0.7
  autoplay: true
greeting:
  api_key: from-file
  timeout: 5s
`)
	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, 800, cfg.Window.Width)
	assert.Equal(t, "Merry Christmas", cfg.Window.Title)
	assert.Equal(t, 0.7, cfg.Music.Volume)
	assert.True(t, cfg.Music.Autoplay)
	assert.Equal(t, "from-file", cfg.Greeting.APIKey)

	target, err := cfg.TargetTime(time.Now())
	require.NoError(t, err)
	assert.Equal(t, time.Date(2030, 12, 25, 0, 0, 0, 0, time.UTC), target)

	d, err := cfg.GreetingTimeout()
	require.NoError(t, err)
	assert.Equal(t, 5*time.Second, d)
}

func TestEnvOverrides(t *testing.T) {
	clearEnv(t)
	path := writeFile(t, t.TempDir(), "greeting:\n  api_key: from-file\n")

	t.Setenv("API_KEY", "secondary")
	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "from-file", cfg.Greeting.APIKey)

	t.Setenv("GEMINI_API_KEY", "primary")
	t.Setenv("GREETING_LOG_LEVEL", "debug")
	cfg, err = Load(path)
	require.NoError(t, err)
	assert.Equal(t, "primary", cfg.Greeting.APIKey)
	assert.Equal(t, "debug", cfg.Logging.Level)

	t.Setenv("GEMINI_API_KEY", "")
	cfg, err = Load("")
	require.NoError(t, err)
	assert.Equal(t, "secondary", cfg.Greeting.APIKey)
}

func TestLoadRejectsInvalid(t *testing.T) {
	clearEnv(t)
	dir := t.TempDir()

	_, err := Load(filepath.Join(dir, "missing.yaml"))
	assert.Error(t, err)

	_, err = Load(writeFile(t, dir, "window: [1, 2"))
	assert.Error(t, err)

	_, err = Load(writeFile(t, dir, `
music:
  volume: 1.5
countdown:
  target: christmas
theme:
  sky_top: nope
`))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "music.volume")
	assert.Contains(t, err.Error(), "countdown.target")
	assert.Contains(t, err.Error(), "theme.sky_top")
}

func TestTargetTimeDefaultsToNextChristmas(t *testing.T) {
	cfg := Default()
	loc := time.UTC

	got, err := cfg.TargetTime(time.Date(2025, 6, 1, 0, 0, 0, 0, loc))
	require.NoError(t, err)
	assert.Equal(t, time.Date(2025, 12, 25, 0, 0, 0, 0, loc), got)

	got, err = cfg.TargetTime(time.Date(2025, 12, 25, 0, 0, 0, 0, loc))
	require.NoError(t, err)
	assert.Equal(t, time.Date(2026, 12, 25, 0, 0, 0, 0, loc), got)

	cfg.Countdown.Target = "2025-12-24T18:00:00"
	got, err = cfg.TargetTime(time.Date(2025, 1, 1, 0, 0, 0, 0, loc))
	require.NoError(t, err)
	assert.Equal(t, time.Date(2025, 12, 24, 18, 0, 0, 0, loc), got)
}

func TestSkyColors(t *testing.T) {
	top, bottom, err := Default().SkyColors()
	require.NoError(t, err)
	r, g, b := top.RGB255()
	assert.Equal(t, [3]uint8{0x02, 0x06, 0x17}, [3]uint8{r, g, b})
	r, g, b = bottom.RGB255()
	assert.Equal(t, [3]uint8{0x1e, 0x1b, 0x4b}, [3]uint8{r, g, b})
}

func TestWatchReloads(t *testing.T) {
	defer goleak.VerifyNone(t)
	clearEnv(t)

	dir := t.TempDir()
	path := writeFile(t, dir, "music:\n  volume: 0.2\n")

	w, err := Watch(path)
	require.NoError(t, err)
	defer w.Close()

	require.NoError(t, os.WriteFile(path, []byte("music:\n  volume: 0.9\n"), 0o644))

	select {
	case cfg := <-w.Updates:
		assert.Equal(t, 0.9, cfg.Music.Volume)
	case err := <-w.Errors:
		t.Fatalf("watch error: %v", err)
	case <-time.After(5 * time.Second):
		t.Fatal("no reload")
	}

	require.NoError(t, w.Close())
	_, ok := <-w.Updates
	assert.False(t, ok)
}

func TestWatchIgnoresOtherFiles(t *testing.T) {
	defer goleak.VerifyNone(t)
	clearEnv(t)

	dir := t.TempDir()
	path := writeFile(t, dir, "music:\n  volume: 0.2\n")
	w, err := Watch(path)
	require.NoError(t, err)

	require.NoError(t, os.WriteFile(filepath.Join(dir, "other.yaml"), []byte("x: 1"), 0o644))
	select {
	case cfg := <-w.Updates:
		t.Fatalf("unexpected reload: %+v", cfg)
	case <-time.After(300 * time.Millisecond):
	}
	require.NoError(t, w.Close())
}
