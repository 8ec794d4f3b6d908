package sim

import (
	"github.com/tomz197/asteroids3d/internal/physics"
)

// collideProjectiles destroys every asteroid hit by a projectile. Each
// projectile takes out at most one asteroid. Fragments are queued and join
// the pool once the pass is done.
func (s *State) collideProjectiles() {
	radius := s.rules.Weapon.ProjectileRadius
	hit := false

	for _, p := range s.Projectiles {
		for _, a := range s.Asteroids {
			if a.IsDestroyed() {
				continue
			}
			if !physics.PointInSphere(p.Position, a.Position, a.Radius+radius) {
				continue
			}
			p.MarkDestroyed()
			a.MarkDestroyed()
			hit = true

			points := s.asteroidScore(a.Radius)
			s.score += points
			s.destroyed++
			s.emit(Event{Kind: EventAsteroidDestroyed, ID: a.ID, Position: a.Position, Radius: a.Radius, Score: points})
			s.fragment(a)
			break
		}
	}

	if hit {
		s.compactProjectiles()
		s.compactAsteroids()
	}
}

// shipBounds returns the ship's collision boxes for this tick.
func (s *State) shipBounds() []physics.Box {
	scale := s.rules.Ship.HitboxScale
	if s.rules.Ship.PerPartHitbox {
		return s.Ship.PartBounds(s.hull, scale)
	}
	return []physics.Box{s.Ship.Bounds(s.hull, scale)}
}

// collideShip costs one life on the first asteroid touching the ship.
// Nothing is checked while the ship is invulnerable.
func (s *State) collideShip() {
	if s.Invulnerable() || s.gameOver {
		return
	}
	boxes := s.shipBounds()
	for _, a := range s.Asteroids {
		ab := a.Bounds()
		for _, b := range boxes {
			if b.Intersects(ab) {
				s.loseLife()
				return
			}
		}
	}
}

// collideAsteroids bounces overlapping asteroids off each other: velocities
// are swapped and the pair pushed apart along the center axis.
func (s *State) collideAsteroids() {
	for i, a := range s.Asteroids {
		for _, b := range s.Asteroids[i+1:] {
			if !physics.SpheresOverlap(a.Position, a.Radius, b.Position, b.Radius) {
				continue
			}
			a.Velocity, b.Velocity = b.Velocity, a.Velocity
			a.Position, b.Position = physics.Separate(a.Position, a.Radius, b.Position, b.Radius)
		}
	}
}
