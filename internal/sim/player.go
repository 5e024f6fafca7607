package sim

import (
	"time"

	"github.com/kurolab/kuro/internal/geom"
	"github.com/kurolab/kuro/internal/nav"
)

// ScriptedPlayer walks a waypoint loop with a dwell pause at each stop, so
// the companion gets both "player moving" and "player settled" phases. It
// implements sensor.PlayerTracker.
type ScriptedPlayer struct {
	route []geom.Vec3
	dwell time.Duration
	speed float64

	pos      geom.Vec3
	idx      int
	resting  time.Duration
	tracking bool
}

func NewScriptedPlayer(route []geom.Vec3, speed float64, dwell time.Duration) *ScriptedPlayer {
	p := &ScriptedPlayer{
		route:    route,
		dwell:    dwell,
		speed:    speed,
		tracking: true,
	}
	if len(route) > 0 {
		p.pos = route[0]
		p.idx = 1 % len(route)
	}
	return p
}

// Advance moves the player along the route.
func (p *ScriptedPlayer) Advance(dt time.Duration) {
	if len(p.route) < 2 {
		return
	}
	if p.resting > 0 {
		p.resting -= dt
		return
	}
	goal := p.route[p.idx]
	step := p.speed * dt.Seconds()
	if p.pos.DistXZ(goal) <= step {
		p.pos = goal
		p.idx = (p.idx + 1) % len(p.route)
		p.resting = p.dwell
		return
	}
	p.pos = p.pos.Toward(goal, step)
}

// SetTracking simulates losing and regaining headset tracking.
func (p *ScriptedPlayer) SetTracking(ok bool) { p.tracking = ok }

func (p *ScriptedPlayer) Position() (geom.Vec3, bool) {
	return p.pos, p.tracking
}

// HandDriver simulates one tracked hand that periodically reaches toward
// the companion, lingers inside the petting radius, and withdraws. It
// implements sensor.HandTracker (left hand only; the right stays
// untracked).
type HandDriver struct {
	grid    *nav.Grid
	agentID nav.AgentID

	interval time.Duration // time between reach gestures; 0 disables
	sinceUse time.Duration
	phase    handPhase
	progress time.Duration
	hand     geom.Vec3
}

type handPhase int

const (
	handAway handPhase = iota
	handApproach
	handPetting
	handWithdraw
)

const (
	handApproachTime = 1200 * time.Millisecond
	handPetTime      = 1500 * time.Millisecond
	handWithdrawTime = 800 * time.Millisecond
	handStartDist    = 1.2
	handPetDist      = 0.15
)

func NewHandDriver(grid *nav.Grid, agentID nav.AgentID, interval time.Duration) *HandDriver {
	return &HandDriver{grid: grid, agentID: agentID, interval: interval}
}

// Advance runs the reach gesture schedule.
func (h *HandDriver) Advance(dt time.Duration) {
	if h.interval <= 0 {
		return
	}
	agent := h.grid.Position(h.agentID)

	switch h.phase {
	case handAway:
		h.sinceUse += dt
		if h.sinceUse >= h.interval {
			h.sinceUse = 0
			h.phase = handApproach
			h.progress = 0
		}
	case handApproach:
		h.progress += dt
		t := float64(h.progress) / float64(handApproachTime)
		if t >= 1 {
			t = 1
			h.phase = handPetting
			h.progress = 0
		}
		dist := handStartDist + (handPetDist-handStartDist)*t
		h.hand = geom.Vec3{X: agent.X + dist, Y: agent.Y + 0.3, Z: agent.Z}
	case handPetting:
		h.progress += dt
		h.hand = geom.Vec3{X: agent.X + handPetDist, Y: agent.Y + 0.3, Z: agent.Z}
		if h.progress >= handPetTime {
			h.phase = handWithdraw
			h.progress = 0
		}
	case handWithdraw:
		h.progress += dt
		t := float64(h.progress) / float64(handWithdrawTime)
		if t >= 1 {
			h.phase = handAway
			return
		}
		dist := handPetDist + (handStartDist-handPetDist)*t
		h.hand = geom.Vec3{X: agent.X + dist, Y: agent.Y + 0.3, Z: agent.Z}
	}
}

func (h *HandDriver) HandPositions() (left, right *geom.Vec3) {
	if h.phase == handAway {
		return nil, nil
	}
	p := h.hand
	return &p, nil
}
