package geom

import "math"

// Vec3 is a point or direction in world space. Y is up; room surfaces are
// roughly horizontal, so most distance checks use the full 3D distance while
// steering happens in the XZ plane.
type Vec3 struct {
	X, Y, Z float64
}

func (v Vec3) Add(o Vec3) Vec3 { return Vec3{v.X + o.X, v.Y + o.Y, v.Z + o.Z} }

func (v Vec3) Sub(o Vec3) Vec3 { return Vec3{v.X - o.X, v.Y - o.Y, v.Z - o.Z} }

func (v Vec3) Scale(s float64) Vec3 { return Vec3{v.X * s, v.Y * s, v.Z * s} }

func (v Vec3) Len() float64 {
	return math.Sqrt(v.X*v.X + v.Y*v.Y + v.Z*v.Z)
}

// LenXZ is the horizontal length, ignoring height.
func (v Vec3) LenXZ() float64 {
	return math.Hypot(v.X, v.Z)
}

func (v Vec3) Dist(o Vec3) float64 { return o.Sub(v).Len() }

// DistXZ is the horizontal distance, ignoring height difference. Follow and
// pickup radii are measured in the walking plane so a ball on the floor and
// a hovering hand compare the same way.
func (v Vec3) DistXZ(o Vec3) float64 { return o.Sub(v).LenXZ() }

// Normalized returns the unit vector, or the zero vector for near-zero input.
func (v Vec3) Normalized() Vec3 {
	l := v.Len()
	if l < 1e-9 {
		return Vec3{}
	}
	return v.Scale(1 / l)
}

// Toward returns the point at distance d from v along the v→o direction.
// If d exceeds the separation it returns o.
func (v Vec3) Toward(o Vec3, d float64) Vec3 {
	sep := o.Sub(v)
	l := sep.Len()
	if l <= d || l < 1e-9 {
		return o
	}
	return v.Add(sep.Scale(d / l))
}
