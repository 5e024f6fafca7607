package room

import (
	"github.com/kurolab/kuro/internal/core/event"
)

// Watcher is the explicit one-shot readiness signal for the room scan.
// The scan pipeline calls Complete when surface generation finishes; the
// first call emits ScanCompleted on the bus, later calls are no-ops. The
// behavior machine never blocks on it — it polls Done each tick while in
// Initializing.
type Watcher struct {
	bus  *event.Bus
	room string
	done bool
}

func NewWatcher(bus *event.Bus, room string) *Watcher {
	return &Watcher{bus: bus, room: room}
}

// Complete latches readiness. Safe to call more than once; only the first
// call has any effect. Must be called from the tick goroutine.
func (w *Watcher) Complete() {
	if w.done {
		return
	}
	w.done = true
	event.Emit(w.bus, event.ScanCompleted{Room: w.room})
}

// Done reports whether the scan has completed.
func (w *Watcher) Done() bool { return w.done }
