package behavior

// State is the companion's current behavior. Exactly one is active; all
// transitions go through the machine's transition logic — the only external
// entry points are OnObjectThrown and TriggerExcited, and both only request
// a transition subject to guards.
type State int

const (
	StateInitializing State = iota // waiting for the room scan + a valid navigable pose
	StateFollowing                 // trailing the player at follow distance
	StateIdle                      // player settled nearby; sit and wait
	StateExploring                 // sniffing around a random nearby point
	StateReturning                 // wandered too far; heading back
	StateExcited                   // short burst of joy (petting, greeting)
	StateFetching                  // running toward a thrown object
	StateCarrying                  // bringing the object back to the player
)

var stateNames = [...]string{
	"initializing",
	"following",
	"idle",
	"exploring",
	"returning",
	"excited",
	"fetching",
	"carrying",
}

func (s State) String() string {
	if s < 0 || int(s) >= len(stateNames) {
		return "unknown"
	}
	return stateNames[s]
}

// holdsTarget reports whether a fetch target reference is legal in s.
func (s State) holdsTarget() bool {
	return s == StateFetching || s == StateCarrying
}
