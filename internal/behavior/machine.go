package behavior

import (
	"math/rand"
	"time"

	"go.uber.org/zap"

	"github.com/kurolab/kuro/internal/config"
	"github.com/kurolab/kuro/internal/core/event"
	"github.com/kurolab/kuro/internal/cue"
	"github.com/kurolab/kuro/internal/geom"
	"github.com/kurolab/kuro/internal/nav"
)

// Machine is the companion behavior state machine. One instance per agent.
// All methods run on the tick goroutine; nothing here is safe for
// concurrent use and nothing needs to be.
//
// The machine owns currentState, the commanded destination, and fetch-target
// ownership. It reads the agent pose from the pathfinding provider and never
// writes positions directly — movement happens exclusively through
// destination commands.
type Machine struct {
	id    nav.AgentID
	nav   nav.Provider
	anim  cue.AnimationSink
	audio cue.AudioSink
	hooks Hooks
	bus   *event.Bus
	rng   *rand.Rand
	log   *zap.Logger

	agent config.AgentConfig
	cfg   config.BehaviorConfig

	state       State
	sinceChange time.Duration
	idleCheck   time.Duration // time since the last exploration draw

	dest    geom.Vec3
	hasDest bool

	target FetchTarget // non-nil iff state ∈ {Fetching, Carrying}
	held   bool        // target attached to the hold point

	scanDone    bool
	ready       *readiness
	initialized bool

	suspended bool // hand inside detection radius; timers and movement pause

	// log-once latches for degraded dependencies, cleared on recovery
	warnedOffSurface bool
	warnedNoPlayer   bool
}

// NewMachine wires a machine to its collaborators. The rng drives
// exploration draws and must be seeded by the caller (fixed seed in tests).
// The scan readiness signal is consumed from the bus; the machine tolerates
// it firing zero or more times and initializes at most once.
func NewMachine(
	id nav.AgentID,
	provider nav.Provider,
	anim cue.AnimationSink,
	audio cue.AudioSink,
	bus *event.Bus,
	hooks Hooks,
	rng *rand.Rand,
	agent config.AgentConfig,
	cfg config.BehaviorConfig,
	log *zap.Logger,
) *Machine {
	m := &Machine{
		id:    id,
		nav:   provider,
		anim:  anim,
		audio: audio,
		hooks: hooks,
		bus:   bus,
		rng:   rng,
		log:   log,
		agent: agent,
		cfg:   cfg,
		state: StateInitializing,
		ready: newReadiness(cfg.StabilizeDelay),
	}
	event.Subscribe(bus, func(event.ScanCompleted) { m.scanDone = true })
	return m
}

// CurrentState is a pure query, no side effects.
func (m *Machine) CurrentState() State { return m.state }

// IsInitialized reports whether the machine has left Initializing at least
// once. No movement command is ever issued before this is true.
func (m *Machine) IsInitialized() bool { return m.initialized }

// HeldObject returns the tracked fetch target, nil outside a fetch cycle.
func (m *Machine) HeldObject() FetchTarget {
	if !m.state.holdsTarget() {
		return nil
	}
	return m.target
}

// Destination reports the last commanded goal point.
func (m *Machine) Destination() (geom.Vec3, bool) { return m.dest, m.hasDest }

// Suspended reports whether hand proximity currently pauses the machine.
func (m *Machine) Suspended() bool { return m.suspended }

// ========================================================================
//  External triggers
// ========================================================================

// OnObjectThrown requests a fetch cycle. Accepted only while Following or
// Idle: an agent already fetching, carrying, excited, or initializing
// ignores the throw (first-thrown-wins). Calling it again mid-fetch leaves
// the tracked target unchanged.
func (m *Machine) OnObjectThrown(target FetchTarget) {
	if target == nil {
		return
	}
	if m.state != StateFollowing && m.state != StateIdle {
		m.log.Debug("throw ignored", zap.Stringer("state", m.state))
		return
	}
	m.target = target
	m.held = false
	m.setState(StateFetching)
	m.anim.Play(cue.CuePerk)
	m.audio.PlayOneShot(cue.ClipYip)
}

// TriggerExcited forces the excited burst from any state except
// Initializing. A fetch cycle in progress is abandoned cleanly: a carried
// object is dropped where the agent stands, physics re-enabled.
func (m *Machine) TriggerExcited() {
	if m.state == StateInitializing {
		return
	}
	if m.state == StateExcited {
		m.sinceChange = 0 // retrigger extends the burst
		return
	}
	m.dropTarget()
	m.setState(StateExcited)
	m.enterExcited()
}

// ========================================================================
//  Tick
// ========================================================================

// Tick advances the machine by dt using the host-assembled sensor snapshot.
// It issues at most one destination command and never blocks.
func (m *Machine) Tick(dt time.Duration, in Inputs) {
	// Petting works even while movement is paused: cue, emotion, hook.
	// The cooldown lives in the proximity sensor, so Pet arrives at most
	// once per window.
	if in.Hand.Pet {
		m.anim.Play(cue.CueNuzzle)
		m.audio.PlayOneShot(cue.ClipPant)
		if m.hooks != nil {
			m.hooks.Petted()
		}
	}

	// Hand proximity gates the whole movement machine: pause on enter,
	// resume on leave. Paused means no timer advance and no commands, not
	// a reset — the state survives the interaction.
	if in.Hand.Near != m.suspended {
		m.suspended = in.Hand.Near
		if m.suspended {
			m.stopMovement()
		}
	}
	if m.suspended {
		return
	}

	if m.state == StateInitializing {
		m.tickInitializing(dt)
		return
	}

	m.sinceChange += dt

	// Off-surface is recoverable, never fatal: hold position, keep state,
	// re-check every tick.
	pos := m.nav.Position(m.id)
	if !m.nav.OnNavigableSurface(pos) {
		if !m.warnedOffSurface {
			m.warnedOffSurface = true
			m.log.Warn("agent off navigable surface, holding position")
		}
		return
	}
	if m.warnedOffSurface {
		m.warnedOffSurface = false
		m.log.Info("agent back on navigable surface")
	}

	switch m.state {
	case StateFollowing:
		m.tickFollowing(pos, in)
	case StateIdle:
		m.tickIdle(dt, pos, in)
	case StateExploring:
		m.tickExploring(pos, in)
	case StateReturning:
		m.tickReturning(pos, in)
	case StateExcited:
		m.tickExcited()
	case StateFetching:
		m.tickFetching(pos)
	case StateCarrying:
		m.tickCarrying(pos, in)
	}
}

func (m *Machine) tickInitializing(dt time.Duration) {
	ok := m.ready.tick(dt, m.scanDone, func() bool {
		return m.nav.OnNavigableSurface(m.nav.Position(m.id))
	})
	if !ok {
		return
	}
	m.initialized = true
	m.setState(StateIdle)
	m.enterIdle()
	m.log.Info("companion initialized", zap.String("name", m.agent.Name))
}

// ========================================================================
//  Per-state ticks (transition table §follow family)
// ========================================================================

func (m *Machine) tickFollowing(pos geom.Vec3, in Inputs) {
	if !m.playerAvailable(in) {
		return
	}
	dist := pos.DistXZ(in.Player.Pos)

	// Settle: player stationary and close enough.
	if in.Player.Delta < m.cfg.PlayerMoveEpsilon && dist <= m.cfg.FollowDistance {
		m.setState(StateIdle)
		m.enterIdle()
		return
	}

	// Re-aim every tick: a point short of the player along the agent→player
	// line, clamped onto walkable surface.
	offset := m.cfg.FollowDistance * 0.5
	dest := in.Player.Pos.Toward(pos, offset)
	dest, ok := m.clampNavigable(dest, offset)
	if !ok {
		return // skip this tick's destination update
	}
	speed := m.agent.WalkSpeed
	if dist > m.cfg.MaxFollowDistance {
		speed = m.agent.RunSpeed
	}
	m.command(dest, speed)
}

func (m *Machine) tickIdle(dt time.Duration, pos geom.Vec3, in Inputs) {
	if !m.playerAvailable(in) {
		return
	}
	dist := pos.DistXZ(in.Player.Pos)

	if in.Player.Moved || dist > m.cfg.FollowDistance {
		m.setState(StateFollowing)
		return
	}

	// One exploration draw per idle interval, not per tick.
	m.idleCheck += dt
	if m.idleCheck < m.cfg.IdleCheckInterval {
		return
	}
	m.idleCheck = 0
	if m.rng.Float64() >= m.cfg.ExplorationChance {
		return
	}
	dest, ok := m.nav.SampleNear(m.rng, pos, m.cfg.ExploreRadius)
	if !ok {
		// Sampling budget exhausted: stay idle, try again next interval.
		m.log.Debug("exploration sample failed, staying idle")
		return
	}
	m.setState(StateExploring)
	m.anim.Play(cue.CueSniff)
	m.command(dest, m.agent.WalkSpeed*0.6)
}

func (m *Machine) tickExploring(pos geom.Vec3, in Inputs) {
	if in.Player.OK {
		dist := pos.DistXZ(in.Player.Pos)
		if dist > m.cfg.MaxFollowDistance {
			m.setState(StateReturning)
			return
		}
	}
	if m.sinceChange > m.cfg.ExplorationTimeout {
		m.setState(StateReturning)
		return
	}
	// Reached the current sniff point (or lost it): pick another nearby.
	if m.nav.RemainingDistance(m.id) < m.cfg.RepickDistance {
		dest, ok := m.nav.SampleNear(m.rng, pos, m.cfg.ExploreRadius)
		if !ok {
			return // skip; timeout will eventually route us back
		}
		m.anim.Play(cue.CueSniff)
		m.command(dest, m.agent.WalkSpeed*0.6)
	}
}

func (m *Machine) tickReturning(pos geom.Vec3, in Inputs) {
	if !m.playerAvailable(in) {
		return
	}
	dist := pos.DistXZ(in.Player.Pos)
	if dist <= m.cfg.FollowDistance {
		m.setState(StateIdle)
		m.enterIdle()
		return
	}
	dest, ok := m.clampNavigable(in.Player.Pos.Toward(pos, m.cfg.FollowDistance*0.5), m.cfg.FollowDistance)
	if !ok {
		return
	}
	m.command(dest, m.agent.RunSpeed)
}

func (m *Machine) tickExcited() {
	if m.sinceChange > m.cfg.ExcitedDuration {
		m.anim.SetHappy(false)
		m.setState(StateFollowing)
	}
}

// ========================================================================
//  Per-state ticks (fetch family)
// ========================================================================

func (m *Machine) tickFetching(pos geom.Vec3) {
	targetPos, ok := m.targetPosition()
	if !ok {
		// Destroyed mid-flight, or the reference desynced: abandon cleanly.
		m.dropTarget()
		m.setState(StateFollowing)
		return
	}
	if pos.DistXZ(targetPos) <= m.cfg.PickupDistance {
		m.target.AttachTo(m.id)
		m.target.SetPhysicsEnabled(false)
		m.held = true
		m.stopMovement()
		m.setState(StateCarrying)
		m.anim.Play(cue.CuePickup)
		m.audio.PlayOneShot(cue.ClipChirp)
		return
	}
	m.command(targetPos, m.agent.RunSpeed)
}

func (m *Machine) tickCarrying(pos geom.Vec3, in Inputs) {
	if _, ok := m.targetPosition(); !ok {
		m.dropTarget()
		m.setState(StateFollowing)
		return
	}
	if !m.playerAvailable(in) {
		return
	}
	// Boundary counts as arrived: dist == stopDistance satisfies the drop.
	if pos.DistXZ(in.Player.Pos) <= m.cfg.StopDistance {
		m.dropTarget()
		m.setState(StateIdle)
		m.enterIdle()
		m.anim.Play(cue.CueDrop)
		m.audio.PlayOneShot(cue.ClipBark)
		if m.hooks != nil {
			m.hooks.FetchDelivered()
		}
		return
	}
	m.command(in.Player.Pos, m.agent.RunSpeed)
}

// ========================================================================
//  Entry actions and shared plumbing
// ========================================================================

func (m *Machine) setState(to State) {
	if to == m.state {
		return
	}
	from := m.state
	m.state = to
	m.sinceChange = 0
	m.idleCheck = 0
	m.log.Debug("state change", zap.Stringer("from", from), zap.Stringer("to", to))
	event.Emit(m.bus, event.StateChanged{From: from.String(), To: to.String()})
	if m.hooks != nil {
		m.hooks.StateChanged(from, to)
	}
}

func (m *Machine) enterIdle() {
	m.stopMovement()
	m.anim.Play(cue.CueSit)
}

func (m *Machine) enterExcited() {
	m.stopMovement()
	m.anim.SetHappy(true)
	m.anim.Play(cue.CueWag)
	m.audio.PlayOneShot(cue.ClipYip)
}

// command issues the tick's single destination command.
func (m *Machine) command(dest geom.Vec3, speed float64) {
	m.dest = dest
	m.hasDest = true
	m.nav.SetSpeed(m.id, speed)
	m.nav.SetDestination(m.id, dest)
	m.anim.SetSpeed(speed)
}

func (m *Machine) stopMovement() {
	m.hasDest = false
	m.nav.ClearDestination(m.id)
	m.anim.SetSpeed(0)
}

// clampNavigable keeps a computed destination on walkable surface, drawing a
// nearby valid point when the direct one is off-mesh. ok=false means skip
// the update this tick (bounded sampling failed).
func (m *Machine) clampNavigable(dest geom.Vec3, radius float64) (geom.Vec3, bool) {
	if m.nav.OnNavigableSurface(dest) {
		return dest, true
	}
	return m.nav.SampleNear(m.rng, dest, radius)
}

func (m *Machine) targetPosition() (geom.Vec3, bool) {
	if m.target == nil {
		return geom.Vec3{}, false
	}
	return m.target.Position()
}

// dropTarget ends the fetch cycle from any point, delivery or abandonment:
// a carried object is unparented at the agent's position with physics
// re-enabled, and ownership clears exactly once per cycle.
func (m *Machine) dropTarget() {
	if m.target == nil {
		return
	}
	if m.held {
		m.target.Detach()
		m.target.SetPhysicsEnabled(true)
	}
	m.target = nil
	m.held = false
	m.stopMovement()
}

// playerAvailable degrades to a hold-position tick while tracking is lost:
// no movement commands, state kept, retried every tick, logged once.
func (m *Machine) playerAvailable(in Inputs) bool {
	if in.Player.OK {
		if m.warnedNoPlayer {
			m.warnedNoPlayer = false
			m.log.Info("player tracking recovered")
		}
		return true
	}
	if !m.warnedNoPlayer {
		m.warnedNoPlayer = true
		m.log.Warn("player tracking unavailable, holding position")
	}
	return false
}
