package sim

import "time"

// currentCooldown is the wait before the next shot: the reload interval
// right after a full burst, the base cooldown otherwise.
func (s *State) currentCooldown() time.Duration {
	w := s.rules.Weapon
	if s.burst > 0 && s.burst%w.BurstSize == 0 {
		return w.ReloadInterval
	}
	return w.Cooldown
}

// handleFiring fires at most one projectile per tick while fire is held.
func (s *State) handleFiring(fire bool) {
	if !fire {
		return
	}
	if !s.lastShot.IsZero() && s.now.Sub(s.lastShot) < s.currentCooldown() {
		return
	}
	s.fireProjectile()
	s.lastShot = s.now
	s.burst++
	if s.burst > s.rules.Weapon.BurstSize {
		s.burst = 1
	}
}

// Burst returns the shot counter of the current burst.
func (s *State) Burst() int { return s.burst }

// Reloading reports whether the weapon is waiting out the reload interval at now.
func (s *State) Reloading(now time.Time) bool {
	w := s.rules.Weapon
	if s.burst == 0 || s.burst%w.BurstSize != 0 {
		return false
	}
	return now.Sub(s.lastShot) < w.ReloadInterval
}

// ShotsLeftInBurst returns how many shots remain before the next reload at now.
// A finished burst counts as full again once its reload has passed.
func (s *State) ShotsLeftInBurst(now time.Time) int {
	n := s.rules.Weapon.BurstSize
	if s.burst%n == 0 && !s.Reloading(now) {
		return n
	}
	return n - s.burst
}
