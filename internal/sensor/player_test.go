package sensor

import (
	"testing"

	"github.com/kurolab/kuro/internal/geom"
)

type fakePlayer struct {
	pos geom.Vec3
	ok  bool
}

func (f *fakePlayer) Position() (geom.Vec3, bool) { return f.pos, f.ok }

func TestPlayerMonitorDetectsMovement(t *testing.T) {
	p := &fakePlayer{ok: true}
	m := NewPlayerMonitor(p, 0.05)

	// First sample has no previous: delta 0, not moved.
	r := m.Sample(sampleDT)
	if r.Moved || r.Delta != 0 {
		t.Fatalf("first sample: moved=%v delta=%v, want calm", r.Moved, r.Delta)
	}

	p.pos = geom.Vec3{X: 0.2}
	r = m.Sample(sampleDT)
	if !r.Moved || r.Delta < 0.19 {
		t.Fatalf("step of 0.2: moved=%v delta=%v", r.Moved, r.Delta)
	}
	if r.SinceMoved != 0 {
		t.Fatalf("SinceMoved = %v after movement, want 0", r.SinceMoved)
	}

	// Sub-epsilon jitter does not count.
	p.pos = geom.Vec3{X: 0.21}
	r = m.Sample(sampleDT)
	if r.Moved {
		t.Fatal("jitter of 0.01 counted as movement")
	}
	if r.SinceMoved != sampleDT {
		t.Fatalf("SinceMoved = %v, want %v", r.SinceMoved, sampleDT)
	}
}

func TestPlayerMonitorLostTracking(t *testing.T) {
	p := &fakePlayer{ok: true}
	m := NewPlayerMonitor(p, 0.05)
	m.Sample(sampleDT)

	p.ok = false
	r := m.Sample(sampleDT)
	if r.OK {
		t.Fatal("OK=true while tracking lost")
	}
	if r.Moved {
		t.Fatal("lost-tracking sample counted as movement")
	}

	// Recovery: a big jump after regaining tracking still reads as movement
	// against the last good position.
	p.ok = true
	p.pos = geom.Vec3{X: 1}
	r = m.Sample(sampleDT)
	if !r.OK || !r.Moved {
		t.Fatalf("recovery sample: ok=%v moved=%v", r.OK, r.Moved)
	}
}
