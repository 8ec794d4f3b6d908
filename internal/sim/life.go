package sim

import (
	"math"
	"time"
)

// Phase is the state of the life machine.
type Phase int

const (
	PhaseVulnerable Phase = iota
	PhaseInvulnerable
	PhaseGameOver
)

func (p Phase) String() string {
	switch p {
	case PhaseVulnerable:
		return "vulnerable"
	case PhaseInvulnerable:
		return "invulnerable"
	case PhaseGameOver:
		return "game_over"
	default:
		return "unknown"
	}
}

// Phase returns the current life phase.
func (s *State) Phase() Phase {
	switch {
	case s.gameOver:
		return PhaseGameOver
	case s.Invulnerable():
		return PhaseInvulnerable
	default:
		return PhaseVulnerable
	}
}

// Invulnerable reports whether hits are ignored at the last sampled time.
func (s *State) Invulnerable() bool {
	return s.Ship.Invulnerable && s.now.Before(s.Ship.InvulnerableUntil)
}

// loseLife applies one hit: either the game ends or a new invulnerability
// window starts, replacing any previous deadline.
func (s *State) loseLife() {
	if s.gameOver {
		return
	}
	ship := s.Ship
	ship.Lives--
	s.score -= s.rules.Scoring.HitPenalty
	s.emit(Event{Kind: EventLifeLost, Position: ship.Position, Lives: ship.Lives})

	if ship.Lives <= 0 {
		ship.Lives = 0
		ship.Invulnerable = false
		s.gameOver = true
		s.emit(Event{Kind: EventGameOver, Position: ship.Position, Lives: 0})
		return
	}
	ship.Invulnerable = true
	ship.InvulnerableSince = s.now
	ship.InvulnerableUntil = s.now.Add(s.rules.Life.InvulnerabilityDuration)
}

// expireInvulnerability closes the invulnerability window once its deadline passes.
func (s *State) expireInvulnerability() {
	ship := s.Ship
	if ship.Invulnerable && !s.now.Before(ship.InvulnerableUntil) {
		ship.Invulnerable = false
	}
}

// Pulse returns the ship opacity: a sine blink while invulnerable, 1 otherwise.
func (s *State) Pulse() float64 {
	return s.PulseAt(s.now)
}

// PulseAt is Pulse evaluated at an arbitrary time, for renderers running
// faster than the simulation.
func (s *State) PulseAt(now time.Time) float64 {
	ship := s.Ship
	if !ship.Invulnerable || !now.Before(ship.InvulnerableUntil) {
		return 1
	}
	elapsed := now.Sub(ship.InvulnerableSince).Seconds()
	return 0.5 + 0.5*math.Sin(elapsed*s.rules.Life.PulseFrequency)
}
