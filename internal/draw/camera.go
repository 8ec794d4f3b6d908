package draw

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

// Default lens settings.
const (
	DefaultFovY = 75 * math.Pi / 180
	DefaultNear = 0.1
	DefaultFar  = 2000
)

// Camera is a perspective camera projecting world points to canvas pixels.
type Camera struct {
	Eye    mgl64.Vec3
	Target mgl64.Vec3
	Up     mgl64.Vec3
	FovY   float64 // Vertical field of view (radians)
	Near   float64
	Far    float64

	width, height float64
	focal         float64 // Pixels per world unit at depth 1
	viewProj      mgl64.Mat4
}

// NewCamera returns a camera at eye looking at target with the default lens.
func NewCamera(eye, target, up mgl64.Vec3) *Camera {
	return &Camera{
		Eye:    eye,
		Target: target,
		Up:     up,
		FovY:   DefaultFovY,
		Near:   DefaultNear,
		Far:    DefaultFar,
	}
}

// Chase places the camera offsetZ units behind a body at pos with
// orientation q, looking at pos shifted lookAhead units along world Z.
func (c *Camera) Chase(pos mgl64.Vec3, q mgl64.Quat, offsetZ, lookAhead float64) {
	c.Eye = pos.Add(q.Rotate(mgl64.Vec3{0, 0, offsetZ}))
	c.Target = pos.Add(mgl64.Vec3{0, 0, lookAhead})
	c.Up = q.Rotate(mgl64.Vec3{0, 1, 0})
}

// Setup recomputes the projection for a viewport of width x height pixels.
// Call it after moving the camera and before projecting.
func (c *Camera) Setup(width, height int) {
	c.width = float64(width)
	c.height = float64(height)
	aspect := 1.0
	if height > 0 {
		aspect = c.width / c.height
	}
	c.focal = c.height / 2 / math.Tan(c.FovY/2)

	view := mgl64.LookAtV(c.Eye, c.Target, c.Up)
	proj := mgl64.Perspective(c.FovY, aspect, c.Near, c.Far)
	c.viewProj = proj.Mul4(view)
}

// Project maps a world point to canvas pixels. depth is the distance along
// the view axis; ok is false for points behind the near plane or past the far plane.
func (c *Camera) Project(p mgl64.Vec3) (pt Point, depth float64, ok bool) {
	clip := c.viewProj.Mul4x1(p.Vec4(1))
	w := clip.W()
	if w < c.Near || w > c.Far {
		return Point{}, w, false
	}
	x := clip.X() / w
	y := clip.Y() / w
	return Point{
		X: (x + 1) / 2 * c.width,
		Y: (1 - y) / 2 * c.height,
	}, w, true
}

// ScreenRadius returns the on-screen size in pixels of a world length at depth.
func (c *Camera) ScreenRadius(radius, depth float64) float64 {
	if depth <= 0 {
		return 0
	}
	return radius * c.focal / depth
}

// Visible reports whether a projected disc overlaps the viewport.
func (c *Camera) Visible(pt Point, radius float64) bool {
	return pt.X+radius >= 0 && pt.X-radius < c.width &&
		pt.Y+radius >= 0 && pt.Y-radius < c.height
}
