package physics

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

// Box is an axis-aligned bounding box in world space.
type Box struct {
	Min, Max mgl64.Vec3
}

// EmptyBox returns a box that contains nothing; expanding it by any point yields that point.
func EmptyBox() Box {
	inf := math.Inf(1)
	return Box{
		Min: mgl64.Vec3{inf, inf, inf},
		Max: mgl64.Vec3{-inf, -inf, -inf},
	}
}

// SphereBox returns the bounding box of a sphere.
func SphereBox(center mgl64.Vec3, radius float64) Box {
	r := mgl64.Vec3{radius, radius, radius}
	return Box{Min: center.Sub(r), Max: center.Add(r)}
}

// OrientedBox returns the world-space bounding box of a local box with the given
// half extents, centered at offset in the local frame, rotated by q and translated to origin.
func OrientedBox(origin mgl64.Vec3, q mgl64.Quat, offset, halfExtents mgl64.Vec3) Box {
	b := EmptyBox()
	for i := 0; i < 8; i++ {
		corner := mgl64.Vec3{halfExtents[0], halfExtents[1], halfExtents[2]}
		if i&1 != 0 {
			corner[0] = -corner[0]
		}
		if i&2 != 0 {
			corner[1] = -corner[1]
		}
		if i&4 != 0 {
			corner[2] = -corner[2]
		}
		b = b.Expand(origin.Add(q.Rotate(offset.Add(corner))))
	}
	return b
}

// IsEmpty reports whether the box contains no points.
func (b Box) IsEmpty() bool {
	return b.Max[0] < b.Min[0] || b.Max[1] < b.Min[1] || b.Max[2] < b.Min[2]
}

// Expand grows the box to contain p.
func (b Box) Expand(p mgl64.Vec3) Box {
	for i := 0; i < 3; i++ {
		b.Min[i] = math.Min(b.Min[i], p[i])
		b.Max[i] = math.Max(b.Max[i], p[i])
	}
	return b
}

// Union returns the smallest box containing both boxes.
func (b Box) Union(o Box) Box {
	if o.IsEmpty() {
		return b
	}
	return b.Expand(o.Min).Expand(o.Max)
}

// Intersects reports whether two boxes overlap. Touching faces count as overlap.
func (b Box) Intersects(o Box) bool {
	if b.IsEmpty() || o.IsEmpty() {
		return false
	}
	for i := 0; i < 3; i++ {
		if b.Max[i] < o.Min[i] || b.Min[i] > o.Max[i] {
			return false
		}
	}
	return true
}
