package audio

import (
	"fmt"
	"math"
	"sync"
	"time"

	"github.com/gopxl/beep"
	"github.com/gopxl/beep/effects"
	"github.com/gopxl/beep/generators"
	"github.com/gopxl/beep/speaker"

	"soul-battle/internal/game"
)

// DefaultSampleRate is used when none is configured.
const DefaultSampleRate = 44100

// Synth plays cues as sine tones on the local sound device.
type Synth struct {
	mu          sync.Mutex
	sr          beep.SampleRate
	mixer       *beep.Mixer
	volume      *effects.Volume
	initialized bool
}

// NewSynth creates a synthesizer. volume is linear in [0, 1]; 0 mutes.
func NewSynth(sampleRate int, volume float64) *Synth {
	if sampleRate <= 0 {
		sampleRate = DefaultSampleRate
	}
	mixer := &beep.Mixer{}
	return &Synth{
		sr:     beep.SampleRate(sampleRate),
		mixer:  mixer,
		volume: masterVolume(mixer, volume),
	}
}

// masterVolume maps a linear gain onto beep's exponential volume control.
func masterVolume(s beep.Streamer, gain float64) *effects.Volume {
	v := &effects.Volume{Streamer: s, Base: 2}
	if gain <= 0 {
		v.Silent = true
		return v
	}
	v.Volume = math.Log2(math.Min(gain, 1))
	return v
}

// Initialize opens the sound device. Calling it again is a no-op.
func (s *Synth) Initialize() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.initialized {
		return nil
	}
	if err := speaker.Init(s.sr, s.sr.N(time.Second/10)); err != nil {
		return fmt.Errorf("speaker init: %w", err)
	}
	speaker.Play(s.volume)
	s.initialized = true
	return nil
}

// Play schedules the cue on the mixer. Before Initialize, or for a tone
// the sample rate cannot carry, it does nothing.
func (s *Synth) Play(c game.Cue) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.initialized {
		return
	}
	st, err := s.cueStreamer(c)
	if err != nil {
		return
	}
	speaker.Lock()
	s.mixer.Add(st)
	speaker.Unlock()
}

// cueStreamer renders a cue as its delay in silence followed by the tone.
func (s *Synth) cueStreamer(c game.Cue) (beep.Streamer, error) {
	sine, err := generators.SineTone(s.sr, c.Freq)
	if err != nil {
		return nil, fmt.Errorf("tone %vHz: %w", c.Freq, err)
	}
	return beep.Seq(
		beep.Silence(s.sr.N(c.Delay)),
		beep.Take(s.sr.N(c.Duration), sine),
	), nil
}

// Close silences the mixer and releases the sound device.
func (s *Synth) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.initialized {
		return
	}
	speaker.Clear()
	speaker.Close()
	s.mixer.Clear()
	s.initialized = false
}
