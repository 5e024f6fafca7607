package system

import "time"

// Phase defines execution ordering within a single behavior tick.
type Phase int

const (
	PhaseSense   Phase = iota // 0: poll trackers, advance scripted drivers
	PhaseDecide               // 1: behavior state machine
	PhaseAct                  // 2: navigation steering + physics step
	PhaseOutput               // 3: debug stream, cue flush
	PhaseCleanup              // 4: destroy expired entities
)

// System is the interface every tick system implements.
type System interface {
	Phase() Phase
	Update(dt time.Duration)
}
