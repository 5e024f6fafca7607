package nav

import (
	"math/rand"

	"github.com/kurolab/kuro/internal/geom"
)

// AgentID identifies one steered agent on a Provider.
type AgentID int32

// Provider is the pathfinding surface the behavior core consumes. It owns
// agent positions: the state machine only reads poses and issues destination
// commands, never writes positions directly. Implementations advance agents
// in Step, called by the host once per tick after the decide phase.
type Provider interface {
	// OnNavigableSurface reports whether p lies on validated walkable
	// geometry. The behavior core suspends all destination commands while
	// its agent is off-surface and re-checks every tick.
	OnNavigableSurface(p geom.Vec3) bool

	// SampleNear draws a random navigable point within radius of p, using
	// the caller's rng so exploration stays seedable. ok=false after a
	// bounded number of rejected candidates; callers must treat that as
	// "skip this cycle", never retry unboundedly.
	SampleNear(rng *rand.Rand, p geom.Vec3, radius float64) (pt geom.Vec3, ok bool)

	// SetDestination commands the agent toward dest at its current speed.
	SetDestination(id AgentID, dest geom.Vec3)

	// ClearDestination stops the agent in place.
	ClearDestination(id AgentID)

	// SetSpeed sets the agent's movement speed in units/sec.
	SetSpeed(id AgentID, unitsPerSec float64)

	// RemainingDistance reports straight-line distance to the current
	// destination, 0 when the agent has none.
	RemainingDistance(id AgentID) float64

	// Velocity reports the agent's displacement over the last Step.
	Velocity(id AgentID) geom.Vec3

	// Position reports the agent's current pose.
	Position(id AgentID) geom.Vec3
}
