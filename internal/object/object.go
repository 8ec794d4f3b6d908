// Package object defines the entities that populate the simulated space:
// asteroids, projectiles, background stars and the player's ship.
package object

// ID identifies an entity for its whole lifetime. Renderers key their
// visual representation on it.
type ID uint64

// Shape is the cosmetic form a renderer gives an asteroid.
type Shape int

const (
	ShapePolyhedron Shape = iota // Icosahedron-like rock
	ShapeCuboid                  // Box
	ShapeSphere                  // Low-poly sphere
)

// ShapeCount is the number of asteroid shape variants.
const ShapeCount = 3

// String returns the shape name.
func (s Shape) String() string {
	switch s {
	case ShapePolyhedron:
		return "polyhedron"
	case ShapeCuboid:
		return "cuboid"
	case ShapeSphere:
		return "sphere"
	default:
		return "unknown"
	}
}

// IDSource hands out unique entity IDs.
type IDSource struct {
	next ID
}

// Next returns a fresh ID. IDs start at 1 so the zero value means "none".
func (s *IDSource) Next() ID {
	s.next++
	return s.next
}
