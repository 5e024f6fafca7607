package sim

import (
	"github.com/jakecoffman/cp"
	"go.uber.org/zap"

	"github.com/kurolab/kuro/internal/geom"
	"github.com/kurolab/kuro/internal/nav"
)

const (
	ballRadius     = 0.1
	ballMass       = 0.2
	ballElasticity = 0.6
	ballFriction   = 0.7
)

// Ball is the thrown fetch target, simulated as a chipmunk circle body in
// the room's floor plane (world X/Z map to physics X/Y). Transform ownership
// is exclusive: while attached to a holder the body leaves the space and the
// ball rides the holder's pose; detaching re-seats it in free physics at the
// drop point.
type Ball struct {
	space *cp.Space
	body  *cp.Body
	shape *cp.Shape
	grid  *nav.Grid
	log   *zap.Logger

	live    bool
	inSpace bool
	held    bool
	holder  nav.AgentID
	floorY  float64
	restPos geom.Vec3 // pose while physics is disabled but not held
}

func NewBall(space *cp.Space, grid *nav.Grid, floorY float64, log *zap.Logger) *Ball {
	body := cp.NewBody(ballMass, cp.MomentForCircle(ballMass, 0, ballRadius, cp.Vector{}))
	shape := cp.NewCircle(body, ballRadius, cp.Vector{})
	shape.SetElasticity(ballElasticity)
	shape.SetFriction(ballFriction)
	return &Ball{
		space:  space,
		body:   body,
		shape:  shape,
		grid:   grid,
		log:    log,
		floorY: floorY,
	}
}

// Launch places the ball at from and gives it the thrown velocity. Reuses
// the single body; only one live ball exists at a time.
func (b *Ball) Launch(from geom.Vec3, velocity geom.Vec3) {
	if b.held {
		return // first-thrown-wins; a carried ball cannot be re-thrown
	}
	b.body.SetPosition(cp.Vector{X: from.X, Y: from.Z})
	b.body.SetVelocityVector(cp.Vector{X: velocity.X, Y: velocity.Z})
	if !b.inSpace {
		b.space.AddBody(b.body)
		b.space.AddShape(b.shape)
		b.inSpace = true
	}
	b.live = true
	b.log.Debug("ball launched",
		zap.Float64("x", from.X), zap.Float64("z", from.Z))
}

// Destroy removes the ball from play entirely (host cleanup, e.g. it rolled
// out of the scanned area). Position reports ok=false afterwards.
func (b *Ball) Destroy() {
	if b.inSpace {
		b.space.RemoveShape(b.shape)
		b.space.RemoveBody(b.body)
		b.inSpace = false
	}
	b.live = false
	b.held = false
}

func (b *Ball) Live() bool { return b.live }

func (b *Ball) Held() bool { return b.held }

// ── behavior.FetchTarget ──────────────────────────────────────────

func (b *Ball) Position() (geom.Vec3, bool) {
	if !b.live {
		return geom.Vec3{}, false
	}
	if b.held {
		p := b.grid.Position(b.holder)
		p.Y += holdPointHeight
		return p, true
	}
	if !b.inSpace {
		return b.restPos, true
	}
	p := b.body.Position()
	return geom.Vec3{X: p.X, Y: b.floorY + ballRadius, Z: p.Y}, true
}

func (b *Ball) AttachTo(holder nav.AgentID) {
	if b.held {
		return
	}
	b.held = true
	b.holder = holder
	if b.inSpace {
		b.space.RemoveShape(b.shape)
		b.space.RemoveBody(b.body)
		b.inSpace = false
	}
}

func (b *Ball) Detach() {
	if !b.held {
		return
	}
	drop := b.grid.Position(b.holder)
	b.held = false
	b.restPos = geom.Vec3{X: drop.X, Y: b.floorY + ballRadius, Z: drop.Z}
	b.body.SetPosition(cp.Vector{X: drop.X, Y: drop.Z})
	b.body.SetVelocityVector(cp.Vector{})
}

func (b *Ball) SetPhysicsEnabled(enabled bool) {
	if enabled == b.inSpace || b.held {
		return
	}
	if enabled {
		b.space.AddBody(b.body)
		b.space.AddShape(b.shape)
		b.inSpace = true
		return
	}
	p := b.body.Position()
	b.restPos = geom.Vec3{X: p.X, Y: b.floorY + ballRadius, Z: p.Y}
	b.space.RemoveShape(b.shape)
	b.space.RemoveBody(b.body)
	b.inSpace = false
}

// holdPointHeight is the carry offset above the agent's pose — the "mouth"
// attachment frame.
const holdPointHeight = 0.25
