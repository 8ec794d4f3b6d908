package sim

import (
	"github.com/tomz197/asteroids3d/internal/object"
	"github.com/tomz197/asteroids3d/internal/physics"
)

// fireProjectile launches one projectile from the muzzle along the ship's
// flight direction, inheriting the ship's velocity.
func (s *State) fireProjectile() {
	w := s.rules.Weapon
	forward := s.Ship.Forward()
	origin := s.Ship.Position.Add(forward.Mul(w.MuzzleOffset))

	p := object.NewProjectile(s.nextID(), origin, forward, w.ProjectileSpeed, s.Ship.Velocity)
	s.Projectiles = append(s.Projectiles, p)
	s.emit(Event{Kind: EventProjectileFired, ID: p.ID, Position: p.Position})
}

// moveProjectiles advances projectiles and drops those past the remove distance.
func (s *State) moveProjectiles() {
	limit := s.rules.Weapon.RemoveDistance
	ship := s.Ship.Position

	kept := s.Projectiles[:0]
	for _, p := range s.Projectiles {
		p.Move()
		if physics.Distance(p.Position, ship) > limit {
			s.emit(Event{Kind: EventProjectileExpired, ID: p.ID, Position: p.Position})
			continue
		}
		kept = append(kept, p)
	}
	clear(s.Projectiles[len(kept):])
	s.Projectiles = kept
}

func (s *State) compactProjectiles() {
	kept := s.Projectiles[:0]
	for _, p := range s.Projectiles {
		if !p.IsDestroyed() {
			kept = append(kept, p)
		}
	}
	clear(s.Projectiles[len(kept):])
	s.Projectiles = kept
}
