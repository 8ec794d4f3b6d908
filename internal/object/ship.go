package object

import (
	"time"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/tomz197/asteroids3d/internal/physics"
)

// Axes of the ship's local frame. The ship looks down -Z.
var (
	AxisX   = mgl64.Vec3{1, 0, 0}
	AxisY   = mgl64.Vec3{0, 1, 0}
	AxisZ   = mgl64.Vec3{0, 0, 1}
	Forward = mgl64.Vec3{0, 0, -1}
)

// HullPart is one box of the ship's body in the ship's local frame.
type HullPart struct {
	Offset      mgl64.Vec3 // Center of the part relative to the ship origin
	HalfExtents mgl64.Vec3
}

// DefaultHull is the five-box fighter used for collision volumes.
var DefaultHull = []HullPart{
	{Offset: mgl64.Vec3{0, 0, 0}, HalfExtents: mgl64.Vec3{0.1, 0.25, 0.1}},      // Vertical body
	{Offset: mgl64.Vec3{-0.2, 0.3, 0}, HalfExtents: mgl64.Vec3{0.15, 0.1, 0.3}}, // Horizontal body
	{Offset: mgl64.Vec3{0, 0.7, 0}, HalfExtents: mgl64.Vec3{0.1, 0.1, 0.1}},     // Nose
	{Offset: mgl64.Vec3{0, -0.3, 0}, HalfExtents: mgl64.Vec3{0.05, 0.05, 0.2}},  // Tail
	{Offset: mgl64.Vec3{0.5, 0.5, 0}, HalfExtents: mgl64.Vec3{0.2, 0.1, 0.05}},  // Wing
}

// Tilt is the cosmetic banking applied on top of the flight orientation.
// It never influences movement or aiming.
type Tilt struct {
	Roll  float64 // Bank from strafing (radians)
	Pitch float64 // Nose dip from thrust (radians)
	Kick  float64 // Transient roll from look movement, decays every tick
}

// Ship is the player-controlled spacecraft.
type Ship struct {
	Position mgl64.Vec3
	Velocity mgl64.Vec3 // Per-tick velocity before the speed multiplier
	Yaw      float64    // Rotation about Y (radians)
	Pitch    float64    // Rotation about X (radians), clamped to [-pi/2, pi/2]
	Tilt     Tilt

	Lives             int
	Invulnerable      bool
	InvulnerableSince time.Time
	InvulnerableUntil time.Time
}

// NewShip creates a ship at the origin with the given number of lives.
func NewShip(lives int) *Ship {
	return &Ship{Lives: lives}
}

// Orientation returns the flight orientation (yaw then pitch, YXZ order).
func (s *Ship) Orientation() mgl64.Quat {
	return eulerYXZ(s.Yaw, s.Pitch, 0)
}

// VisualOrientation returns the orientation a renderer should draw,
// including cosmetic tilt.
func (s *Ship) VisualOrientation() mgl64.Quat {
	return eulerYXZ(s.Yaw, s.Pitch+s.Tilt.Pitch, s.Tilt.Roll+s.Tilt.Kick)
}

// Forward returns the unit vector the ship's nose points along.
func (s *Ship) Forward() mgl64.Vec3 {
	return s.Orientation().Rotate(Forward)
}

// PartBounds returns the world-space box of every hull part, each shrunk by scale.
func (s *Ship) PartBounds(hull []HullPart, scale float64) []physics.Box {
	q := s.Orientation()
	boxes := make([]physics.Box, len(hull))
	for i, part := range hull {
		boxes[i] = physics.OrientedBox(s.Position, q, part.Offset, part.HalfExtents.Mul(scale))
	}
	return boxes
}

// Bounds returns the world-space box enclosing the whole hull.
func (s *Ship) Bounds(hull []HullPart, scale float64) physics.Box {
	b := physics.EmptyBox()
	for _, part := range s.PartBounds(hull, scale) {
		b = b.Union(part)
	}
	return b
}

func eulerYXZ(yaw, pitch, roll float64) mgl64.Quat {
	return mgl64.QuatRotate(yaw, AxisY).
		Mul(mgl64.QuatRotate(pitch, AxisX)).
		Mul(mgl64.QuatRotate(roll, AxisZ))
}
