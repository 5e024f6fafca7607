package nav

import (
	"math"
	"math/rand"
	"time"

	"go.uber.org/zap"

	"github.com/kurolab/kuro/internal/geom"
	"github.com/kurolab/kuro/internal/room"
)

const defaultSampleAttempts = 8

// Grid is a cell-based Provider baked from a room scan. Walkability is
// resolved per cell center: inside a walkable surface, outside every
// obstacle footprint. Agents steer one collision-checked segment per Step
// toward their destination, sliding along the blocked axis when the direct
// step fails.
type Grid struct {
	cell   float64
	minX   float64
	minZ   float64
	width  int
	height int
	cells  []gridCell // [cx*height + cz], row-major by X
	agents map[AgentID]*gridAgent
	log    *zap.Logger

	sampleAttempts int
}

type gridCell struct {
	walkable bool
	y        float64 // surface height at this cell
}

type gridAgent struct {
	pos     geom.Vec3
	dest    geom.Vec3
	hasDest bool
	speed   float64
	vel     geom.Vec3
}

// BuildGrid bakes a scanned room into a navigation grid.
func BuildGrid(scan *room.Scan, log *zap.Logger) *Grid {
	minX, maxX, minZ, maxZ := scan.Bounds()
	cell := scan.CellSize
	w := int(math.Ceil((maxX-minX)/cell)) + 1
	h := int(math.Ceil((maxZ-minZ)/cell)) + 1

	g := &Grid{
		cell:           cell,
		minX:           minX,
		minZ:           minZ,
		width:          w,
		height:         h,
		cells:          make([]gridCell, w*h),
		agents:         make(map[AgentID]*gridAgent),
		log:            log,
		sampleAttempts: defaultSampleAttempts,
	}

	walkable := 0
	for cx := 0; cx < w; cx++ {
		for cz := 0; cz < h; cz++ {
			x := minX + (float64(cx)+0.5)*cell
			z := minZ + (float64(cz)+0.5)*cell
			c := &g.cells[cx*h+cz]
			for _, sf := range scan.Surfaces {
				if !sf.Walkable {
					continue
				}
				if x >= sf.MinX && x <= sf.MaxX && z >= sf.MinZ && z <= sf.MaxZ {
					c.walkable = true
					c.y = sf.Y
					break
				}
			}
			if !c.walkable {
				continue
			}
			for _, ob := range scan.Obstacles {
				if x >= ob.MinX && x <= ob.MaxX && z >= ob.MinZ && z <= ob.MaxZ {
					c.walkable = false
					break
				}
			}
			if c.walkable {
				walkable++
			}
		}
	}
	log.Info("navigation grid baked",
		zap.String("room", scan.Name),
		zap.Int("cells", w*h),
		zap.Int("walkable", walkable),
		zap.Float64("cell_size", cell))
	return g
}

func (g *Grid) cellAt(x, z float64) (gridCell, bool) {
	// Floor, not truncate: points below the min edge must land at -1 and be
	// rejected, not collapse onto column/row 0.
	cx := int(math.Floor((x - g.minX) / g.cell))
	cz := int(math.Floor((z - g.minZ) / g.cell))
	if cx < 0 || cx >= g.width || cz < 0 || cz >= g.height {
		return gridCell{}, false
	}
	return g.cells[cx*g.height+cz], true
}

func (g *Grid) OnNavigableSurface(p geom.Vec3) bool {
	c, ok := g.cellAt(p.X, p.Z)
	return ok && c.walkable
}

// SurfaceY reports the walkable height at p, falling back to p.Y off-grid.
func (g *Grid) SurfaceY(p geom.Vec3) float64 {
	if c, ok := g.cellAt(p.X, p.Z); ok && c.walkable {
		return c.y
	}
	return p.Y
}

// Snap clamps p onto the nearest sampled walkable point, searching outward
// in rings of one cell. ok=false when nothing walkable lies within radius.
func (g *Grid) Snap(p geom.Vec3, radius float64) (geom.Vec3, bool) {
	if g.OnNavigableSurface(p) {
		return geom.Vec3{X: p.X, Y: g.SurfaceY(p), Z: p.Z}, true
	}
	for r := g.cell; r <= radius; r += g.cell {
		for _, d := range []geom.Vec3{{X: r}, {X: -r}, {Z: r}, {Z: -r}, {X: r, Z: r}, {X: -r, Z: r}, {X: r, Z: -r}, {X: -r, Z: -r}} {
			q := p.Add(d)
			if g.OnNavigableSurface(q) {
				return geom.Vec3{X: q.X, Y: g.SurfaceY(q), Z: q.Z}, true
			}
		}
	}
	return geom.Vec3{}, false
}

// SetSampleRetries overrides the bounded random-sampling attempt count.
func (g *Grid) SetSampleRetries(n int) {
	if n > 0 {
		g.sampleAttempts = n
	}
}

func (g *Grid) SampleNear(rng *rand.Rand, p geom.Vec3, radius float64) (geom.Vec3, bool) {
	for i := 0; i < g.sampleAttempts; i++ {
		ang := rng.Float64() * 2 * math.Pi
		dist := rng.Float64() * radius
		q := geom.Vec3{
			X: p.X + math.Cos(ang)*dist,
			Z: p.Z + math.Sin(ang)*dist,
		}
		if g.OnNavigableSurface(q) {
			q.Y = g.SurfaceY(q)
			return q, true
		}
	}
	return geom.Vec3{}, false
}

// AddAgent registers an agent at pos. Position is clamped onto the grid
// height when the cell is walkable; an off-surface spawn stays where it is
// until the caller recovers it (behavior treats that as a retried, non-fatal
// condition).
func (g *Grid) AddAgent(id AgentID, pos geom.Vec3, speed float64) {
	if c, ok := g.cellAt(pos.X, pos.Z); ok && c.walkable {
		pos.Y = c.y
	}
	g.agents[id] = &gridAgent{pos: pos, speed: speed}
}

func (g *Grid) SetDestination(id AgentID, dest geom.Vec3) {
	if a := g.agents[id]; a != nil {
		a.dest = dest
		a.hasDest = true
	}
}

func (g *Grid) ClearDestination(id AgentID) {
	if a := g.agents[id]; a != nil {
		a.hasDest = false
		a.vel = geom.Vec3{}
	}
}

func (g *Grid) SetSpeed(id AgentID, unitsPerSec float64) {
	if a := g.agents[id]; a != nil {
		a.speed = unitsPerSec
	}
}

func (g *Grid) RemainingDistance(id AgentID) float64 {
	a := g.agents[id]
	if a == nil || !a.hasDest {
		return 0
	}
	return a.pos.DistXZ(a.dest)
}

func (g *Grid) Velocity(id AgentID) geom.Vec3 {
	if a := g.agents[id]; a != nil {
		return a.vel
	}
	return geom.Vec3{}
}

func (g *Grid) Position(id AgentID) geom.Vec3 {
	if a := g.agents[id]; a != nil {
		return a.pos
	}
	return geom.Vec3{}
}

// Step advances every agent one steering segment toward its destination.
// The direct step is tried first, then the step collapsed onto each axis,
// mirroring how a quadruped slides along furniture instead of stopping dead.
func (g *Grid) Step(dt time.Duration) {
	step := dt.Seconds()
	for _, a := range g.agents {
		if !a.hasDest || a.speed <= 0 {
			a.vel = geom.Vec3{}
			continue
		}
		dir := geom.Vec3{X: a.dest.X - a.pos.X, Z: a.dest.Z - a.pos.Z}
		dist := dir.LenXZ()
		if dist < arriveEpsilon {
			a.pos = geom.Vec3{X: a.dest.X, Y: g.SurfaceY(a.dest), Z: a.dest.Z}
			a.hasDest = false
			a.vel = geom.Vec3{}
			continue
		}
		move := a.speed * step
		if move > dist {
			move = dist
		}
		unit := dir.Scale(1 / dist)
		full := unit.Scale(move)

		candidates := [3]geom.Vec3{
			full,
			{X: full.X}, // slide along X
			{Z: full.Z}, // slide along Z
		}
		moved := false
		for _, c := range candidates {
			if c.LenXZ() < 1e-9 {
				continue
			}
			next := a.pos.Add(c)
			if !g.OnNavigableSurface(next) {
				continue
			}
			next.Y = g.SurfaceY(next)
			a.vel = next.Sub(a.pos).Scale(1 / step)
			a.pos = next
			moved = true
			break
		}
		if !moved {
			// Boxed in this step; hold position, keep the destination so a
			// moving blocker can free the path next tick.
			a.vel = geom.Vec3{}
		}
	}
}

const arriveEpsilon = 0.05
