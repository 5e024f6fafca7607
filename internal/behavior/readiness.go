package behavior

import "time"

// readiness gates the machine out of Initializing without ever blocking a
// tick: wait for the scan signal, let the freshly baked surface settle for a
// moment, then keep validating the agent's pose until it lands on navigable
// geometry. Every stage is re-checked per tick; none can wedge.
type readyPhase int

const (
	readyWaitingScan readyPhase = iota
	readyStabilizing
	readyValidating
	readyDone
)

type readiness struct {
	phase     readyPhase
	stabilize time.Duration // countdown, armed when the scan completes
}

func newReadiness(stabilize time.Duration) *readiness {
	return &readiness{phase: readyWaitingScan, stabilize: stabilize}
}

// tick advances the gate and reports whether initialization may finish.
// scanDone latches externally (one-shot signal); onSurface is re-queried
// every validating tick.
func (r *readiness) tick(dt time.Duration, scanDone bool, onSurface func() bool) bool {
	switch r.phase {
	case readyWaitingScan:
		if scanDone {
			r.phase = readyStabilizing
		}
	case readyStabilizing:
		r.stabilize -= dt
		if r.stabilize <= 0 {
			r.phase = readyValidating
		}
	case readyValidating:
		if onSurface() {
			r.phase = readyDone
		}
	}
	return r.phase == readyDone
}
