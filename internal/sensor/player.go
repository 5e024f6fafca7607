package sensor

import (
	"time"

	"github.com/kurolab/kuro/internal/geom"
)

// PlayerTracker exposes the tracked player's world position. ok=false when
// tracking is lost (headset removed, player left the play area); the
// behavior core degrades to a hold-position tick in that case.
type PlayerTracker interface {
	Position() (geom.Vec3, bool)
}

// PlayerReading is one per-tick sample of player state.
type PlayerReading struct {
	Pos        geom.Vec3
	OK         bool
	Delta      float64       // distance moved since the previous sample
	Moved      bool          // Delta >= epsilon
	SinceMoved time.Duration // time since the last Moved sample
}

// PlayerMonitor derives "recently moved" from raw position samples.
type PlayerMonitor struct {
	tracker PlayerTracker
	epsilon float64

	hasPrev    bool
	prev       geom.Vec3
	sinceMoved time.Duration
}

func NewPlayerMonitor(tracker PlayerTracker, epsilon float64) *PlayerMonitor {
	return &PlayerMonitor{tracker: tracker, epsilon: epsilon}
}

// Sample polls the tracker and updates movement bookkeeping. A lost-tracking
// sample does not count as movement and does not reset the movement clock.
func (m *PlayerMonitor) Sample(dt time.Duration) PlayerReading {
	pos, ok := m.tracker.Position()
	if !ok {
		m.sinceMoved += dt
		return PlayerReading{OK: false, SinceMoved: m.sinceMoved}
	}

	r := PlayerReading{Pos: pos, OK: true}
	if m.hasPrev {
		r.Delta = m.prev.Dist(pos)
	}
	m.prev = pos
	m.hasPrev = true

	if r.Delta >= m.epsilon {
		m.sinceMoved = 0
		r.Moved = true
	} else {
		m.sinceMoved += dt
	}
	r.SinceMoved = m.sinceMoved
	return r
}
