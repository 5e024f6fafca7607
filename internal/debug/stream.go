package debug

import (
	"time"

	coresys "github.com/kurolab/kuro/internal/core/system"
)

// StreamSystem broadcasts a snapshot every N ticks. Runs in Phase 3
// (Output). The snapshot closure keeps this package ignorant of the sim
// and behavior wiring.
type StreamSystem struct {
	server *Server
	every  int
	build  func(tick uint64) Snapshot

	tick uint64
}

func NewStreamSystem(server *Server, every int, build func(tick uint64) Snapshot) *StreamSystem {
	if every < 1 {
		every = 1
	}
	return &StreamSystem{server: server, every: every, build: build}
}

func (s *StreamSystem) Phase() coresys.Phase { return coresys.PhaseOutput }

func (s *StreamSystem) Update(_ time.Duration) {
	s.tick++
	if s.tick%uint64(s.every) != 0 {
		return
	}
	s.server.Broadcast(s.build(s.tick))
}
