package event

import (
	"time"

	coresys "github.com/kurolab/kuro/internal/core/system"
)

// DispatchSystem rotates the bus buffers and delivers last tick's events.
// Register it first so every other sense-phase system observes a stable
// event set.
type DispatchSystem struct {
	bus *Bus
}

func NewDispatchSystem(bus *Bus) *DispatchSystem {
	return &DispatchSystem{bus: bus}
}

func (s *DispatchSystem) Phase() coresys.Phase { return coresys.PhaseSense }

func (s *DispatchSystem) Update(_ time.Duration) {
	s.bus.SwapBuffers()
	s.bus.DispatchAll()
}
