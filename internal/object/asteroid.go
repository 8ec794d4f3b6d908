package object

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/tomz197/asteroids3d/internal/physics"
)

// icosahedronExtent is the per-axis half-extent of an unrotated icosahedron
// with unit circumradius.
var icosahedronExtent = math.Phi / math.Sqrt(1+math.Phi*math.Phi)

// Asteroid is a drifting rock. Velocity is applied once per tick.
type Asteroid struct {
	ID        ID
	Position  mgl64.Vec3
	Velocity  mgl64.Vec3
	Radius    float64 // Collision radius, always > 0
	Shape     Shape
	Destroyed bool // Marked for removal during the current pass
}

// NewAsteroid creates an asteroid.
func NewAsteroid(id ID, pos, vel mgl64.Vec3, radius float64, shape Shape) *Asteroid {
	return &Asteroid{
		ID:       id,
		Position: pos,
		Velocity: vel,
		Radius:   radius,
		Shape:    shape,
	}
}

// Move advances the asteroid by one tick of velocity.
func (a *Asteroid) Move() {
	a.Position = a.Position.Add(a.Velocity)
}

// Speed returns the magnitude of the asteroid's velocity.
func (a *Asteroid) Speed() float64 {
	return a.Velocity.Len()
}

// MarkDestroyed marks the asteroid for removal.
func (a *Asteroid) MarkDestroyed() {
	a.Destroyed = true
}

// IsDestroyed returns true if the asteroid is marked for removal.
func (a *Asteroid) IsDestroyed() bool {
	return a.Destroyed
}

// HalfExtent returns the half-width of the asteroid's axis-aligned bounds.
// Cuboids are as wide as their radius, polyhedra have their vertices on it.
func (a *Asteroid) HalfExtent() float64 {
	switch a.Shape {
	case ShapeCuboid:
		return a.Radius / 2
	case ShapePolyhedron:
		return a.Radius * icosahedronExtent
	default:
		return a.Radius
	}
}

// Bounds returns the asteroid's axis-aligned bounding box. Asteroids never rotate.
func (a *Asteroid) Bounds() physics.Box {
	return physics.SphereBox(a.Position, a.HalfExtent())
}
