package music

import (
	"errors"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/faiface/beep"
	"github.com/faiface/beep/effects"
	"github.com/faiface/beep/flac"
	"github.com/faiface/beep/mp3"
	"github.com/faiface/beep/speaker"
	"github.com/faiface/beep/wav"
	"go.uber.org/zap"

	"github.com/iburimskiy/festive-greeting/internal/logging"
)

const (
	levelRingSize   = 4096
	levelWindow     = 1024
	smoothingFactor = 0.6

	DefaultVolume = 0.4
)

// Sink is where decoded audio goes. The speaker package satisfies it through
// SpeakerSink.
type Sink interface {
	Init(sr beep.SampleRate, bufferSize int) error
	Play(s ...beep.Streamer)
	Lock()
	Unlock()
}

// SpeakerSink plays through the system audio device.
type SpeakerSink struct{}

func (SpeakerSink) Init(sr beep.SampleRate, bufferSize int) error {
	return speaker.Init(sr, bufferSize)
}
func (SpeakerSink) Play(s ...beep.Streamer) { speaker.Play(s...) }
func (SpeakerSink) Lock()                   { speaker.Lock() }
func (SpeakerSink) Unlock()                 { speaker.Unlock() }

// Player is the background-music toggle. The first play lazily opens the
// first track that decodes, or the built-in jingle when none does.
type Player struct {
	sink   Sink
	tracks []string
	log    *zap.Logger

	ctrl   *beep.Ctrl
	volume *effects.Volume
	tap    *levelTap
	source beep.StreamSeekCloser
	file   *os.File

	playing bool
	vol     float64
	level   float64
}

// New creates a paused player. Nothing touches the audio device until the
// first SetPlaying(true).
func New(sink Sink, tracks []string, volume float64, log *zap.Logger) *Player {
	if sink == nil {
		sink = SpeakerSink{}
	}
	return &Player{
		sink:   sink,
		tracks: tracks,
		log:    logging.OrNop(log),
		vol:    clamp01(volume),
	}
}

// Playing reports whether music is currently playing.
func (p *Player) Playing() bool { return p.playing }

// Volume returns the current volume in [0,1].
func (p *Player) Volume() float64 { return p.vol }

// Toggle flips play/pause and returns the resulting state.
func (p *Player) Toggle() bool {
	return p.SetPlaying(!p.playing)
}

// SetPlaying starts or pauses playback. Starting is best effort: when the
// device or every source fails the player stays paused and a warning is
// logged. It returns the resulting state.
func (p *Player) SetPlaying(on bool) bool {
	if on && p.ctrl == nil {
		if err := p.start(); err != nil {
			p.log.Warn("music playback prevented", zap.Error(err))
			p.playing = false
			return false
		}
	}
	if p.ctrl != nil {
		p.sink.Lock()
		p.ctrl.Paused = !on
		p.sink.Unlock()
	}
	p.playing = on
	return p.playing
}

// SetVolume sets the volume, clamped to [0,1].
func (p *Player) SetVolume(v float64) {
	p.vol = clamp01(v)
	if p.volume == nil {
		return
	}
	p.sink.Lock()
	applyVolume(p.volume, p.vol)
	p.sink.Unlock()
}

// Advance folds the loudness of what was played recently into the smoothed
// level. The frame loop calls it once per tick.
func (p *Player) Advance() float64 {
	var mag float64
	if p.playing && p.tap != nil {
		mag = rms(p.tap.snapshot(levelWindow)) * p.vol
	}
	p.level = smoothingFactor*p.level + (1-smoothingFactor)*mag
	return p.level
}

// Level returns the smoothed loudness in [0,1] as of the last Advance.
func (p *Player) Level() float64 { return p.level }

// Close pauses playback and releases the open track.
func (p *Player) Close() error {
	if p.ctrl != nil {
		p.sink.Lock()
		p.ctrl.Paused = true
		p.sink.Unlock()
	}
	p.playing = false

	var err error
	if p.source != nil {
		err = p.source.Close()
		p.source = nil
	}
	if p.file != nil {
		_ = p.file.Close()
		p.file = nil
	}
	return err
}

func (p *Player) start() error {
	stream, format := p.openFirstTrack()
	if stream == nil {
		p.log.Info("no music track available, using built-in jingle")
		stream = newJingleGenerator(jingleSampleRate, 220*time.Millisecond)
		format = beep.Format{SampleRate: jingleSampleRate, NumChannels: 2, Precision: 2}
	}

	tap := newLevelTap(stream, levelRingSize)
	vol := &effects.Volume{Streamer: tap, Base: 2}
	applyVolume(vol, p.vol)
	ctrl := &beep.Ctrl{Streamer: vol, Paused: true}

	if err := p.sink.Init(format.SampleRate, format.SampleRate.N(time.Second/20)); err != nil {
		_ = p.Close()
		return fmt.Errorf("init audio device: %w", err)
	}
	p.sink.Play(ctrl)

	p.tap = tap
	p.volume = vol
	p.ctrl = ctrl
	return nil
}

// openFirstTrack returns a looping stream for the first track that decodes.
func (p *Player) openFirstTrack() (beep.Streamer, beep.Format) {
	for _, path := range p.tracks {
		f, s, format, err := decodeFile(path)
		if err != nil {
			p.log.Warn("music track unavailable", zap.String("path", path), zap.Error(err))
			continue
		}
		p.file = f
		p.source = s
		p.log.Info("music track loaded", zap.String("path", path))
		return beep.Loop(-1, s), format
	}
	return nil, beep.Format{}
}

func decodeFile(path string) (*os.File, beep.StreamSeekCloser, beep.Format, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, nil, beep.Format{}, err
	}

	var (
		streamer beep.StreamSeekCloser
		format   beep.Format
	)
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".wav":
		streamer, format, err = wav.Decode(f)
	case ".mp3":
		streamer, format, err = mp3.Decode(f)
	case ".flac":
		streamer, format, err = flac.Decode(f)
	default:
		_ = f.Close()
		return nil, nil, beep.Format{}, errors.New("unsupported file type: " + ext)
	}
	if err != nil {
		_ = f.Close()
		return nil, nil, beep.Format{}, fmt.Errorf("decode %s: %w", path, err)
	}
	return f, streamer, format, nil
}

func applyVolume(v *effects.Volume, level float64) {
	v.Silent = level <= 0
	if !v.Silent {
		v.Volume = math.Log2(level)
	}
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
