package scene

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

// Bounds is an axis-aligned bounding box.
//
// The zero value is a degenerate box at the origin, which is NOT empty.
// Use [EmptyBounds] for an accumulator that has not seen any geometry yet:
// extending an empty box replaces it rather than unioning with the origin.
type Bounds struct {
	Min mgl64.Vec3
	Max mgl64.Vec3
}

// EmptyBounds returns the empty sentinel (Min > Max on every axis).
func EmptyBounds() Bounds {
	inf := math.Inf(1)
	return Bounds{
		Min: mgl64.Vec3{inf, inf, inf},
		Max: mgl64.Vec3{-inf, -inf, -inf},
	}
}

// NewBounds returns the box spanning the two corners in any order.
func NewBounds(a, b mgl64.Vec3) Bounds {
	return Bounds{
		Min: mgl64.Vec3{math.Min(a[0], b[0]), math.Min(a[1], b[1]), math.Min(a[2], b[2])},
		Max: mgl64.Vec3{math.Max(a[0], b[0]), math.Max(a[1], b[1]), math.Max(a[2], b[2])},
	}
}

// IsEmpty reports whether b is the empty sentinel (or otherwise inverted).
func (b Bounds) IsEmpty() bool {
	return b.Min[0] > b.Max[0] || b.Min[1] > b.Max[1] || b.Min[2] > b.Max[2]
}

// Size returns the extent along each axis, zero for an empty box.
func (b Bounds) Size() mgl64.Vec3 {
	if b.IsEmpty() {
		return mgl64.Vec3{}
	}
	return b.Max.Sub(b.Min)
}

// Center returns the midpoint of the box.
func (b Bounds) Center() mgl64.Vec3 {
	if b.IsEmpty() {
		return mgl64.Vec3{}
	}
	return b.Min.Add(b.Max).Mul(0.5)
}

// Radius returns half the diagonal length, used to frame a preview camera.
func (b Bounds) Radius() float64 {
	return b.Size().Len() / 2
}

// Extend returns the union of b and o. An empty operand is ignored, so the
// first real box extended into an empty accumulator seeds it unchanged.
func (b Bounds) Extend(o Bounds) Bounds {
	switch {
	case o.IsEmpty():
		return b
	case b.IsEmpty():
		return o
	}
	return Bounds{
		Min: mgl64.Vec3{math.Min(b.Min[0], o.Min[0]), math.Min(b.Min[1], o.Min[1]), math.Min(b.Min[2], o.Min[2])},
		Max: mgl64.Vec3{math.Max(b.Max[0], o.Max[0]), math.Max(b.Max[1], o.Max[1]), math.Max(b.Max[2], o.Max[2])},
	}
}

// Contains reports whether o lies entirely inside b.
func (b Bounds) Contains(o Bounds) bool {
	if o.IsEmpty() {
		return true
	}
	if b.IsEmpty() {
		return false
	}
	for i := 0; i < 3; i++ {
		if o.Min[i] < b.Min[i] || o.Max[i] > b.Max[i] {
			return false
		}
	}
	return true
}

// Transform returns the axis-aligned box enclosing b after applying m.
func (b Bounds) Transform(m mgl64.Mat4) Bounds {
	if b.IsEmpty() {
		return b
	}
	out := EmptyBounds()
	for i := 0; i < 8; i++ {
		corner := mgl64.Vec3{b.Min[0], b.Min[1], b.Min[2]}
		if i&1 != 0 {
			corner[0] = b.Max[0]
		}
		if i&2 != 0 {
			corner[1] = b.Max[1]
		}
		if i&4 != 0 {
			corner[2] = b.Max[2]
		}
		p := m.Mul4x1(corner.Vec4(1)).Vec3()
		out = out.Extend(Bounds{Min: p, Max: p})
	}
	return out
}
