package object

import "github.com/go-gl/mathgl/mgl64"

// Projectile is a shot fired by the ship.
type Projectile struct {
	ID        ID
	Position  mgl64.Vec3
	Velocity  mgl64.Vec3
	destroyed bool
}

// NewProjectile creates a projectile leaving origin along dir (unit length).
// The projectile inherits the shooter's velocity plus its own speed.
func NewProjectile(id ID, origin, dir mgl64.Vec3, speed float64, shooterVel mgl64.Vec3) *Projectile {
	return &Projectile{
		ID:       id,
		Position: origin,
		Velocity: dir.Mul(speed).Add(shooterVel),
	}
}

// Move advances the projectile by one tick of velocity.
func (p *Projectile) Move() {
	p.Position = p.Position.Add(p.Velocity)
}

// MarkDestroyed marks the projectile for removal.
func (p *Projectile) MarkDestroyed() {
	p.destroyed = true
}

// IsDestroyed returns true if the projectile is marked for removal.
func (p *Projectile) IsDestroyed() bool {
	return p.destroyed
}
