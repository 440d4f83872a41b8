package notify

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"math"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/gopxl/beep"
	"github.com/gopxl/beep/effects"
	"github.com/gopxl/beep/generators"
	"github.com/gopxl/beep/speaker"
	"github.com/gopxl/beep/wav"

	"github.com/DiNaSoR/Veil/pkg/hud"
)

const sampleRate = beep.SampleRate(44100)

var (
	// ErrSoundDisabled is returned once audio failed to start or was turned off.
	ErrSoundDisabled = errors.New("sound disabled")
	// ErrUnknownSound is returned for a sound that is neither a tone nor a wav asset.
	ErrUnknownSound = errors.New("unknown sound")
)

type note struct {
	freq float64
	dur  time.Duration
}

// tones are the built-in named sounds. A zero frequency is a rest.
var tones = map[string][]note{
	"chime": {{880, 90 * time.Millisecond}, {1320, 140 * time.Millisecond}},
	"alert": {{660, 80 * time.Millisecond}, {0, 40 * time.Millisecond}, {660, 80 * time.Millisecond}, {0, 40 * time.Millisecond}, {660, 80 * time.Millisecond}},
	"ping":  {{1760, 50 * time.Millisecond}},
	"error": {{220, 200 * time.Millisecond}},
}

// Tones lists the built-in sound names.
func Tones() []string {
	return []string{"alert", "chime", "error", "ping"}
}

// BeepPlayer plays tones and wav assets on the default audio device. The
// speaker is opened on first use; if that fails, every later Play returns
// ErrSoundDisabled.
type BeepPlayer struct {
	assets hud.AssetSource
	volume float64
	logger *slog.Logger

	initSpeaker func(beep.SampleRate, int) error
	play        func(beep.Streamer)

	mu       sync.Mutex
	started  bool
	disabled bool
}

// PlayerOption configures a BeepPlayer.
type PlayerOption func(*BeepPlayer)

// WithVolume scales output; 1 is unchanged, 0 is silent.
func WithVolume(v float64) PlayerOption { return func(p *BeepPlayer) { p.volume = v } }

// WithPlayerLogger sets the player's logger.
func WithPlayerLogger(l *slog.Logger) PlayerOption {
	return func(p *BeepPlayer) {
		if l != nil {
			p.logger = l
		}
	}
}

// NewBeepPlayer creates a player resolving wav sounds through assets.
func NewBeepPlayer(assets hud.AssetSource, opts ...PlayerOption) *BeepPlayer {
	p := &BeepPlayer{
		assets:      assets,
		volume:      1,
		logger:      slog.New(slog.NewTextHandler(io.Discard, nil)),
		initSpeaker: speaker.Init,
		play:        func(s beep.Streamer) { speaker.Play(s) },
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Disable turns sound off for the rest of the session.
func (p *BeepPlayer) Disable() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.disabled = true
}

// Enabled reports whether sounds will still be attempted.
func (p *BeepPlayer) Enabled() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return !p.disabled
}

func (p *BeepPlayer) start() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.disabled {
		return ErrSoundDisabled
	}
	if p.started {
		return nil
	}
	if err := p.initSpeaker(sampleRate, sampleRate.N(100*time.Millisecond)); err != nil {
		p.disabled = true
		p.logger.Warn("audio unavailable, sound disabled", "error", err)
		return fmt.Errorf("%w: %v", ErrSoundDisabled, err)
	}
	p.started = true
	return nil
}

// Play plays a named tone, or a .wav file relative to the adapter folder.
func (p *BeepPlayer) Play(adapterID, sound string) error {
	s, err := p.streamer(adapterID, sound)
	if err != nil {
		return err
	}
	if err := p.start(); err != nil {
		return err
	}
	p.play(p.withVolume(s))
	return nil
}

func (p *BeepPlayer) streamer(adapterID, sound string) (beep.Streamer, error) {
	if seq, ok := tones[strings.ToLower(sound)]; ok {
		return toneStreamer(seq)
	}
	if !strings.EqualFold(filepath.Ext(sound), ".wav") || p.assets == nil {
		return nil, fmt.Errorf("%q: %w", sound, ErrUnknownSound)
	}
	data, err := p.assets.Load(adapterID, sound)
	if err != nil {
		return nil, err
	}
	s, format, err := wav.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("decode %s: %w", sound, err)
	}
	if format.SampleRate != sampleRate {
		return beep.Resample(4, format.SampleRate, sampleRate, s), nil
	}
	return s, nil
}

func toneStreamer(seq []note) (beep.Streamer, error) {
	parts := make([]beep.Streamer, 0, len(seq))
	for _, n := range seq {
		samples := sampleRate.N(n.dur)
		if n.freq == 0 {
			parts = append(parts, beep.Silence(samples))
			continue
		}
		sine, err := generators.SineTone(sampleRate, n.freq)
		if err != nil {
			return nil, err
		}
		parts = append(parts, beep.Take(samples, sine))
	}
	return beep.Seq(parts...), nil
}

// withVolume follows beep's log2 volume scale; math.Log2(0) is -Inf.
func (p *BeepPlayer) withVolume(s beep.Streamer) beep.Streamer {
	if p.volume == 1 {
		return s
	}
	if p.volume <= 0 {
		return &effects.Volume{Streamer: s, Base: 2, Silent: true}
	}
	return &effects.Volume{Streamer: s, Base: 2, Volume: math.Log2(p.volume)}
}
