package sim

import (
	"github.com/go-gl/mathgl/mgl64"
	"github.com/tomz197/asteroids3d/internal/object"
	"github.com/tomz197/asteroids3d/internal/physics"
)

// fragment queues two half-size children of a destroyed asteroid flying
// apart in opposite directions. Asteroids at or below the threshold vanish.
func (s *State) fragment(parent *object.Asteroid) {
	for _, child := range s.fragments(parent) {
		s.spawn(child)
	}
}

// fragments builds the children of parent without queueing them.
func (s *State) fragments(parent *object.Asteroid) []*object.Asteroid {
	if parent.Radius <= s.rules.FragmentThreshold() {
		return nil
	}
	radius := parent.Radius / 2
	speed := parent.Speed() * s.rules.Asteroids.FragmentSpeed
	dir := physics.SafeNormalize(mgl64.Vec3{s.uniform(), s.uniform(), s.uniform()})
	vel := dir.Mul(speed)

	return []*object.Asteroid{
		object.NewAsteroid(s.nextID(), parent.Position, vel, radius, object.ShapeSphere),
		object.NewAsteroid(s.nextID(), parent.Position, vel.Mul(-1), radius, object.ShapeSphere),
	}
}
