package behavior

import (
	"github.com/kurolab/kuro/internal/geom"
	"github.com/kurolab/kuro/internal/nav"
	"github.com/kurolab/kuro/internal/sensor"
)

// FetchTarget is a thrown object the companion can retrieve. Ownership of
// its transform is transferred, never shared: while attached the holder
// positions it, otherwise free physics does. Position reports ok=false once
// the object is destroyed; the machine treats that as a cancelled fetch.
type FetchTarget interface {
	Position() (geom.Vec3, bool)
	AttachTo(holder nav.AgentID)
	Detach()
	SetPhysicsEnabled(enabled bool)
}

// Hooks receives behavior events for the scripting layer. All methods are
// called synchronously on the tick goroutine; a nil Hooks is valid.
type Hooks interface {
	StateChanged(from, to State)
	Petted()
	FetchDelivered()
}

// Inputs is the per-tick sensor snapshot the machine consumes. The host
// assembles it during the sense phase; the machine never polls sensors
// itself.
type Inputs struct {
	Player sensor.PlayerReading
	Hand   sensor.HandReading
}
