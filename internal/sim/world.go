package sim

import (
	"math/rand"

	"github.com/jakecoffman/cp"
	"go.uber.org/zap"

	"github.com/kurolab/kuro/internal/core/event"
	"github.com/kurolab/kuro/internal/geom"
	"github.com/kurolab/kuro/internal/nav"
	"github.com/kurolab/kuro/internal/room"
)

const (
	wallRadius   = 0.02
	spaceDamping = 0.35 // aggressive damping ≈ rolling friction on carpet
)

// World is the simulated host environment: the scanned room rebuilt as a
// top-down chipmunk space (walls + obstacle footprints), the single ball,
// and the shared navigation grid. It stands in for the game engine the
// behavior module normally lives inside.
type World struct {
	Space *cp.Space
	Grid  *nav.Grid
	Scan  *room.Scan
	ball  *Ball

	bus *event.Bus
	rng *rand.Rand
	log *zap.Logger

	floorY float64
}

func NewWorld(scan *room.Scan, grid *nav.Grid, bus *event.Bus, rng *rand.Rand, log *zap.Logger) *World {
	space := cp.NewSpace()
	space.Iterations = 10
	space.SetDamping(spaceDamping)
	// Top-down plane: no gravity, the floor is the plane itself.

	w := &World{
		Space: space,
		Grid:  grid,
		Scan:  scan,
		bus:   bus,
		rng:   rng,
		log:   log,
	}

	minX, maxX, minZ, maxZ := scan.Bounds()
	w.addWalls(minX, maxX, minZ, maxZ)
	for _, ob := range scan.Obstacles {
		w.addObstacle(ob)
	}
	if len(scan.Surfaces) > 0 {
		w.floorY = scan.Surfaces[0].Y
	}

	w.ball = NewBall(space, grid, w.floorY, log)
	return w
}

func (w *World) Ball() *Ball { return w.ball }

// ThrowBall launches the ball from the player's position toward a random
// open spot and announces it on the bus. The behavior machine decides
// whether to care.
func (w *World) ThrowBall(from geom.Vec3) {
	target, ok := w.Grid.SampleNear(w.rng, from, 3.0)
	if !ok {
		w.log.Debug("throw skipped, no open spot")
		return
	}
	dir := target.Sub(from).Normalized()
	speed := 2.0 + w.rng.Float64()*2.0
	w.ball.Launch(from, dir.Scale(speed))
	event.Emit(w.bus, event.ObjectThrown{Origin: from})
}

func (w *World) addWalls(minX, maxX, minZ, maxZ float64) {
	corners := []cp.Vector{
		{X: minX, Y: minZ},
		{X: maxX, Y: minZ},
		{X: maxX, Y: maxZ},
		{X: minX, Y: maxZ},
	}
	for i := range corners {
		a := corners[i]
		b := corners[(i+1)%len(corners)]
		seg := cp.NewSegment(w.Space.StaticBody, a, b, wallRadius)
		seg.SetElasticity(0.5)
		seg.SetFriction(0.8)
		w.Space.AddShape(seg)
	}
}

func (w *World) addObstacle(ob room.Obstacle) {
	corners := []cp.Vector{
		{X: ob.MinX, Y: ob.MinZ},
		{X: ob.MaxX, Y: ob.MinZ},
		{X: ob.MaxX, Y: ob.MaxZ},
		{X: ob.MinX, Y: ob.MaxZ},
	}
	for i := range corners {
		a := corners[i]
		b := corners[(i+1)%len(corners)]
		seg := cp.NewSegment(w.Space.StaticBody, a, b, wallRadius)
		seg.SetElasticity(0.4)
		seg.SetFriction(0.9)
		w.Space.AddShape(seg)
	}
}
