package sim

import (
	"time"

	"go.uber.org/zap"

	"github.com/kurolab/kuro/internal/behavior"
	"github.com/kurolab/kuro/internal/core/event"
	coresys "github.com/kurolab/kuro/internal/core/system"
	"github.com/kurolab/kuro/internal/nav"
	"github.com/kurolab/kuro/internal/room"
	"github.com/kurolab/kuro/internal/sensor"
)

// SenseSystem advances the scripted environment drivers and fires the
// room-scan readiness signal after the configured delay. Runs in Phase 0
// (Sense), after event dispatch.
type SenseSystem struct {
	player  *ScriptedPlayer
	hand    *HandDriver
	watcher *room.Watcher
	world   *World

	scanDelay  time.Duration
	scanned    time.Duration
	throwEvery time.Duration
	sinceThrow time.Duration
}

func NewSenseSystem(player *ScriptedPlayer, hand *HandDriver, watcher *room.Watcher, world *World, scanDelay, throwEvery time.Duration) *SenseSystem {
	return &SenseSystem{
		player:     player,
		hand:       hand,
		watcher:    watcher,
		world:      world,
		scanDelay:  scanDelay,
		throwEvery: throwEvery,
	}
}

func (s *SenseSystem) Phase() coresys.Phase { return coresys.PhaseSense }

func (s *SenseSystem) Update(dt time.Duration) {
	if !s.watcher.Done() {
		s.scanned += dt
		if s.scanned >= s.scanDelay {
			s.watcher.Complete()
		}
		return // nothing moves until the room exists
	}

	s.player.Advance(dt)
	s.hand.Advance(dt)

	if s.throwEvery > 0 {
		s.sinceThrow += dt
		if s.sinceThrow >= s.throwEvery {
			s.sinceThrow = 0
			if pos, ok := s.player.Position(); ok {
				s.world.ThrowBall(pos)
			}
		}
	}
}

// BehaviorSystem assembles the per-tick sensor snapshot and runs the
// companion machine. Runs in Phase 1 (Decide).
type BehaviorSystem struct {
	machine   *behavior.Machine
	playerMon *sensor.PlayerMonitor
	proximity *sensor.Proximity
	grid      *nav.Grid
	agentID   nav.AgentID
}

func NewBehaviorSystem(machine *behavior.Machine, playerMon *sensor.PlayerMonitor, proximity *sensor.Proximity, grid *nav.Grid, agentID nav.AgentID, bus *event.Bus, world *World) *BehaviorSystem {
	s := &BehaviorSystem{
		machine:   machine,
		playerMon: playerMon,
		proximity: proximity,
		grid:      grid,
		agentID:   agentID,
	}
	// Thrown-ball notifications arrive via the bus one tick after launch;
	// the machine's own guards decide acceptance. Petting bursts into
	// excitement once the hand withdraws (the machine stays paused while
	// it is near).
	event.Subscribe(bus, func(event.ObjectThrown) {
		s.machine.OnObjectThrown(world.Ball())
	})
	event.Subscribe(bus, func(event.Petted) {
		s.machine.TriggerExcited()
	})
	return s
}

func (s *BehaviorSystem) Phase() coresys.Phase { return coresys.PhaseDecide }

func (s *BehaviorSystem) Update(dt time.Duration) {
	in := behavior.Inputs{
		Player: s.playerMon.Sample(dt),
		Hand:   s.proximity.Sample(dt, s.grid.Position(s.agentID)),
	}
	s.machine.Tick(dt, in)
}

// ActSystem advances navigation steering and ball physics. Runs in Phase 2
// (Act), after the machine has issued this tick's commands.
type ActSystem struct {
	world *World
	log   *zap.Logger
}

func NewActSystem(world *World, log *zap.Logger) *ActSystem {
	return &ActSystem{world: world, log: log}
}

func (s *ActSystem) Phase() coresys.Phase { return coresys.PhaseAct }

func (s *ActSystem) Update(dt time.Duration) {
	s.world.Grid.Step(dt)
	s.world.Space.Step(dt.Seconds())

	// A free ball that escapes the scanned area is gone for good; the
	// machine observes the destroyed target and abandons the fetch.
	ball := s.world.Ball()
	if ball.Live() && !ball.Held() {
		if pos, ok := ball.Position(); ok && !s.world.Grid.OnNavigableSurface(pos) {
			if _, snapOK := s.world.Grid.Snap(pos, 0.5); !snapOK {
				s.log.Debug("ball left the scanned area, despawning")
				ball.Destroy()
			}
		}
	}
}
