package geom

import (
	"math"
	"testing"
)

func almost(a, b float64) bool { return math.Abs(a-b) < 1e-9 }

func TestDistIgnoresNothingDistXZIgnoresHeight(t *testing.T) {
	a := Vec3{X: 1, Y: 2, Z: 1}
	b := Vec3{X: 1, Y: 0, Z: 1}
	if !almost(a.Dist(b), 2) {
		t.Errorf("Dist = %v, want 2", a.Dist(b))
	}
	if !almost(a.DistXZ(b), 0) {
		t.Errorf("DistXZ = %v, want 0", a.DistXZ(b))
	}
}

func TestNormalized(t *testing.T) {
	v := Vec3{X: 3, Z: 4}.Normalized()
	if !almost(v.Len(), 1) {
		t.Errorf("len = %v, want 1", v.Len())
	}
	if z := (Vec3{}).Normalized(); z != (Vec3{}) {
		t.Errorf("zero vector normalized to %v", z)
	}
}

func TestToward(t *testing.T) {
	a := Vec3{}
	b := Vec3{X: 10}

	p := a.Toward(b, 3)
	if !almost(p.X, 3) || p.Y != 0 || p.Z != 0 {
		t.Errorf("Toward = %v, want (3,0,0)", p)
	}

	// Overshoot clamps to the target.
	if p := a.Toward(b, 20); p != b {
		t.Errorf("overshoot = %v, want %v", p, b)
	}
	// Degenerate separation returns the target.
	if p := a.Toward(a, 5); p != a {
		t.Errorf("self = %v, want %v", p, a)
	}
}
