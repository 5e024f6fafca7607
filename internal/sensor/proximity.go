package sensor

import (
	"time"

	"go.uber.org/zap"

	"github.com/kurolab/kuro/internal/core/event"
	"github.com/kurolab/kuro/internal/geom"
)

// HandTracker exposes up to two tracked hand positions. A nil entry means
// that hand is currently untracked.
type HandTracker interface {
	HandPositions() (left, right *geom.Vec3)
}

// HandReading is one per-tick debounced sample of hand state.
type HandReading struct {
	Near bool // some hand within the detection radius
	Pet  bool // petting landed this sample (pet radius + cooldown elapsed)
}

// Proximity converts raw hand samples into the two debounced signals the
// behavior machine consumes. The detection/pet radius pair plus the pet
// cooldown act as hysteresis: a hand hovering at the boundary cannot spam
// pet cues. Enter/leave edges of the detection radius are published on the
// bus because they gate (pause/resume) the movement state machine.
type Proximity struct {
	tracker  HandTracker
	bus      *event.Bus
	log      *zap.Logger
	detectR  float64
	petR     float64
	cooldown time.Duration

	near     bool
	sincePet time.Duration
}

func NewProximity(tracker HandTracker, bus *event.Bus, detectRadius, petRadius float64, cooldown time.Duration, log *zap.Logger) *Proximity {
	return &Proximity{
		tracker:  tracker,
		bus:      bus,
		log:      log,
		detectR:  detectRadius,
		petR:     petRadius,
		cooldown: cooldown,
		sincePet: cooldown, // first pet is never cooldown-gated
	}
}

// Sample polls the tracker against the agent's position.
func (p *Proximity) Sample(dt time.Duration, agentPos geom.Vec3) HandReading {
	p.sincePet += dt

	dist, tracked := p.nearestHand(agentPos)

	near := tracked && dist <= p.detectR
	if near != p.near {
		p.near = near
		event.Emit(p.bus, event.HandProximity{Entered: near})
		p.log.Debug("hand proximity edge", zap.Bool("entered", near))
	}

	r := HandReading{Near: near}
	if near && dist <= p.petR && p.sincePet >= p.cooldown {
		p.sincePet = 0
		r.Pet = true
		event.Emit(p.bus, event.Petted{})
	}
	return r
}

// Near reports the current debounced detection state.
func (p *Proximity) Near() bool { return p.near }

func (p *Proximity) nearestHand(agentPos geom.Vec3) (float64, bool) {
	left, right := p.tracker.HandPositions()
	best := 0.0
	found := false
	for _, h := range []*geom.Vec3{left, right} {
		if h == nil {
			continue
		}
		d := agentPos.Dist(*h)
		if !found || d < best {
			best = d
			found = true
		}
	}
	return best, found
}
