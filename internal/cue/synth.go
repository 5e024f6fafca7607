package cue

import (
	"math"
	"sync"
	"time"

	"github.com/gopxl/beep"
	"github.com/gopxl/beep/speaker"
	"go.uber.org/zap"
)

const synthSampleRate = beep.SampleRate(44100)

// Synth is an AudioSink that synthesizes clips as short enveloped tones on
// the system speaker. If the speaker cannot initialize (no audio device,
// headless CI) it drops into silent mode instead of failing the host.
type Synth struct {
	mu     sync.Mutex
	mixer  *beep.Mixer
	volume float64
	silent bool
	log    *zap.Logger
}

type toneSpec struct {
	freq    float64
	dur     time.Duration
	attack  time.Duration
	release time.Duration
}

// Rough quadruped vocal range; pitch picks the clip apart, the envelope
// keeps it from clicking.
var clipTones = map[Clip]toneSpec{
	ClipBark:  {freq: 330, dur: 140 * time.Millisecond, attack: 5 * time.Millisecond, release: 60 * time.Millisecond},
	ClipPant:  {freq: 180, dur: 220 * time.Millisecond, attack: 40 * time.Millisecond, release: 100 * time.Millisecond},
	ClipWhine: {freq: 520, dur: 400 * time.Millisecond, attack: 120 * time.Millisecond, release: 180 * time.Millisecond},
	ClipYip:   {freq: 660, dur: 90 * time.Millisecond, attack: 3 * time.Millisecond, release: 40 * time.Millisecond},
	ClipChirp: {freq: 880, dur: 120 * time.Millisecond, attack: 8 * time.Millisecond, release: 50 * time.Millisecond},
}

// NewSynth initializes the speaker and starts the mixer.
func NewSynth(volume float64, log *zap.Logger) *Synth {
	s := &Synth{
		mixer:  &beep.Mixer{},
		volume: volume,
		log:    log,
	}
	if err := speaker.Init(synthSampleRate, synthSampleRate.N(100*time.Millisecond)); err != nil {
		log.Warn("audio unavailable, running silent", zap.Error(err))
		s.silent = true
		return s
	}
	speaker.Play(s.mixer)
	return s
}

func (s *Synth) PlayOneShot(c Clip) {
	if s.silent {
		return
	}
	spec, ok := clipTones[c]
	if !ok {
		s.log.Debug("unknown clip", zap.String("clip", string(c)))
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	speaker.Lock()
	s.mixer.Add(newTone(spec, s.volume))
	speaker.Unlock()
}

// Close stops all playing tones.
func (s *Synth) Close() {
	if s.silent {
		return
	}
	speaker.Lock()
	s.mixer.Clear()
	speaker.Unlock()
}

// tone is a sine oscillator with a linear attack/release envelope.
type tone struct {
	freq    float64
	phase   float64
	pos     int
	total   int
	attack  int
	release int
	volume  float64
}

func newTone(spec toneSpec, volume float64) beep.Streamer {
	return &tone{
		freq:    spec.freq,
		total:   synthSampleRate.N(spec.dur),
		attack:  synthSampleRate.N(spec.attack),
		release: synthSampleRate.N(spec.release),
		volume:  volume,
	}
}

func (t *tone) Stream(samples [][2]float64) (n int, ok bool) {
	for i := range samples {
		if t.pos >= t.total {
			return i, false
		}
		v := math.Sin(2*math.Pi*t.phase) * t.volume * t.envelope()
		samples[i][0] = v
		samples[i][1] = v
		t.phase += t.freq / float64(synthSampleRate)
		if t.phase >= 1 {
			t.phase -= 1
		}
		t.pos++
	}
	return len(samples), true
}

func (t *tone) Err() error { return nil }

func (t *tone) envelope() float64 {
	if t.attack > 0 && t.pos < t.attack {
		return float64(t.pos) / float64(t.attack)
	}
	if rel := t.total - t.pos; t.release > 0 && rel < t.release {
		return float64(rel) / float64(t.release)
	}
	return 1
}
