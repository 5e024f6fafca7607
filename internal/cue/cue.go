// Package cue carries the symbolic animation and audio commands the behavior
// core emits. Sinks are pure actuators: they never feed back into behavior
// decisions.
package cue

import "go.uber.org/zap"

// Cue is a symbolic animation trigger.
type Cue string

const (
	CueSit     Cue = "sit"
	CueWag     Cue = "wag_tail"
	CuePerk    Cue = "perk_ears"
	CueSniff   Cue = "sniff"
	CuePickup  Cue = "pickup"
	CueDrop    Cue = "drop"
	CueNuzzle  Cue = "nuzzle"
	CueStretch Cue = "stretch"
)

// Clip is a symbolic one-shot audio trigger.
type Clip string

const (
	ClipBark  Clip = "bark"
	ClipPant  Clip = "pant"
	ClipWhine Clip = "whine"
	ClipYip   Clip = "yip"
	ClipChirp Clip = "chirp"
)

// AnimationSink receives movement-speed, emotion, and trigger cues.
type AnimationSink interface {
	SetSpeed(unitsPerSec float64)
	SetHappy(happy bool)
	Play(c Cue)
}

// AudioSink plays one-shot clips.
type AudioSink interface {
	PlayOneShot(c Clip)
}

// LogSink is the headless sink: it records cues to the logger. Used in
// tests and whenever no real animation/audio backend is wired.
type LogSink struct {
	log *zap.Logger

	speed float64
	happy bool
}

func NewLogSink(log *zap.Logger) *LogSink {
	return &LogSink{log: log}
}

func (s *LogSink) SetSpeed(unitsPerSec float64) {
	if unitsPerSec == s.speed {
		return
	}
	s.speed = unitsPerSec
	s.log.Debug("anim speed", zap.Float64("units_per_sec", unitsPerSec))
}

func (s *LogSink) SetHappy(happy bool) {
	if happy == s.happy {
		return
	}
	s.happy = happy
	s.log.Debug("anim emotion", zap.Bool("happy", happy))
}

func (s *LogSink) Play(c Cue) {
	s.log.Debug("anim cue", zap.String("cue", string(c)))
}

func (s *LogSink) PlayOneShot(c Clip) {
	s.log.Debug("audio clip", zap.String("clip", string(c)))
}
