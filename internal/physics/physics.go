// Package physics provides collision detection and distance utilities.
package physics

import "github.com/go-gl/mathgl/mgl64"

// SeparationEpsilon replaces a zero center distance when resolving overlaps.
const SeparationEpsilon = 0.0001

// Distance calculates the Euclidean distance between two points.
func Distance(a, b mgl64.Vec3) float64 {
	return b.Sub(a).Len()
}

// DistanceSquared calculates the squared distance between two points.
// Use this when comparing distances to avoid the sqrt cost.
func DistanceSquared(a, b mgl64.Vec3) float64 {
	return b.Sub(a).LenSqr()
}

// PointInSphere checks if a point lies strictly inside a sphere.
func PointInSphere(p, center mgl64.Vec3, radius float64) bool {
	return DistanceSquared(p, center) < radius*radius
}

// SpheresOverlap checks if two spheres overlap.
func SpheresOverlap(c1 mgl64.Vec3, r1 float64, c2 mgl64.Vec3, r2 float64) bool {
	minDist := r1 + r2
	return DistanceSquared(c1, c2) < minDist*minDist
}

// Separate pushes two overlapping spheres apart along their center axis.
// Each center moves by half the penetration depth (plus epsilon) in opposite
// directions. Returns the corrected centers.
func Separate(c1 mgl64.Vec3, r1 float64, c2 mgl64.Vec3, r2 float64) (mgl64.Vec3, mgl64.Vec3) {
	d := c1.Sub(c2)
	dist := d.Len()
	if dist == 0 {
		dist = SeparationEpsilon
	}
	overlap := 0.5 * (r1 + r2 - dist + SeparationEpsilon)
	push := d.Mul(overlap / dist)
	return c1.Add(push), c2.Sub(push)
}

// SafeNormalize returns v scaled to unit length, or the zero vector when v has no length.
func SafeNormalize(v mgl64.Vec3) mgl64.Vec3 {
	l := v.Len()
	if l == 0 {
		return mgl64.Vec3{}
	}
	return v.Mul(1 / l)
}
