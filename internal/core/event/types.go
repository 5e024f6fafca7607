package event

import "github.com/kurolab/kuro/internal/geom"

// ScanCompleted fires once when the room scan finishes and the navigation
// surface is baked. The behavior machine leaves Initializing only after
// seeing it.
type ScanCompleted struct {
	Room string
}

// ObjectThrown announces a new fetch candidate. The behavior machine applies
// its own guards; an agent already fetching ignores it.
type ObjectThrown struct {
	Origin geom.Vec3
}

// StateChanged is emitted by the behavior machine on every transition,
// mainly for the debug stream and scripting hooks.
type StateChanged struct {
	From, To string
}

// HandProximity marks the hand entering (Entered=true) or leaving the
// detection radius.
type HandProximity struct {
	Entered bool
}

// Petted fires when a petting interaction lands (inside the pet radius with
// the cooldown elapsed).
type Petted struct{}
