// Package sim runs the asteroid-field simulation: entity pools, flight,
// firing, collisions, fragmentation and the life state machine.
// A State is owned by a single goroutine and is not safe for concurrent use.
package sim

import (
	"fmt"
	"math/rand"
	"time"

	"github.com/tomz197/asteroids3d/internal/config"
	"github.com/tomz197/asteroids3d/internal/object"
)

// Controls is the normalized input for one tick.
type Controls struct {
	Engaged bool // Input captured; flight and combat only run while engaged

	Forward, Backward bool
	Left, Right       bool
	Up, Down          bool
	Fire              bool

	LookX float64 // Horizontal look delta, positive turns right
	LookY float64 // Vertical look delta, positive looks down
}

// Option customizes a State.
type Option func(*State)

// WithRand sets the random source used for spawning and fragmentation.
func WithRand(r *rand.Rand) Option {
	return func(s *State) { s.rng = r }
}

// WithClock sets the clock sampled at the start of every tick.
func WithClock(c Clock) Option {
	return func(s *State) { s.clock = c }
}

// WithHull replaces the ship hull used for collision bounds.
func WithHull(hull []object.HullPart) Option {
	return func(s *State) { s.hull = hull }
}

// State is one independent game instance.
type State struct {
	rules config.Ruleset
	rng   *rand.Rand
	clock Clock
	hull  []object.HullPart
	ids   object.IDSource

	Ship        *object.Ship
	Asteroids   []*object.Asteroid
	Projectiles []*object.Projectile
	Stars       []object.Star

	toSpawn []*object.Asteroid // Fragments added after the collision pass
	events  []Event

	targetYaw   float64
	targetPitch float64

	lastShot time.Time
	burst    int

	score     int
	destroyed int
	elapsed   time.Duration
	lastTick  time.Time
	now       time.Time
	gameOver  bool
}

// New validates rules and returns a freshly populated game.
func New(rules config.Ruleset, opts ...Option) (*State, error) {
	if err := rules.Validate(); err != nil {
		return nil, fmt.Errorf("new simulation: %w", err)
	}
	s := &State{
		rules: rules,
		clock: SystemClock{},
		hull:  object.DefaultHull,
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.rng == nil {
		s.rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	s.Restart()
	return s, nil
}

// Restart resets the ship, score, timers and both pools to their initial state.
// Events from the previous game are discarded.
func (s *State) Restart() {
	s.Ship = object.NewShip(s.rules.Life.InitialLives)
	s.Asteroids = s.Asteroids[:0]
	s.Projectiles = s.Projectiles[:0]
	s.Stars = s.Stars[:0]
	s.toSpawn = s.toSpawn[:0]
	s.events = s.events[:0]

	s.targetYaw, s.targetPitch = 0, 0
	s.lastShot = time.Time{}
	s.burst = 0
	s.score = 0
	s.destroyed = 0
	s.elapsed = 0
	s.lastTick = time.Time{}
	s.gameOver = false
	s.now = s.clock.Now()

	s.fillStars()
	s.maintainAsteroids()
}

// Tick advances the simulation by one frame.
func (s *State) Tick(c Controls) {
	s.now = s.clock.Now()

	s.updateStars()
	s.maintainAsteroids()
	s.expireInvulnerability()

	active := c.Engaged && !s.gameOver
	if active {
		if !s.lastTick.IsZero() {
			s.elapsed += s.now.Sub(s.lastTick)
		}
		s.lastTick = s.now

		s.steer(c)
		s.moveShip(c)
		s.moveAsteroids()
		s.moveProjectiles()
		s.collideProjectiles()
		// Fragments join the pool only after every projectile was tested,
		// so no projectile hits a fragment in the tick it was born.
		s.flushSpawned()
		s.handleFiring(c.Fire)
		s.collideShip()
		s.collideAsteroids()
	} else {
		// Time spent disengaged does not count toward survival.
		s.lastTick = time.Time{}
	}
}

// Rules returns the ruleset the game runs with.
func (s *State) Rules() config.Ruleset { return s.rules }

// Now returns the timestamp sampled by the last tick.
func (s *State) Now() time.Time { return s.now }

// Score returns the current score. It can drop when a hit penalty is set.
func (s *State) Score() int { return s.score }

// Destroyed returns the number of asteroids shot this game.
func (s *State) Destroyed() int { return s.destroyed }

// Elapsed returns the survival time: engaged ticks only, frozen at game over.
func (s *State) Elapsed() time.Duration { return s.elapsed }

// Lives returns the remaining lives.
func (s *State) Lives() int { return s.Ship.Lives }

// GameOver reports whether the ship has run out of lives.
func (s *State) GameOver() bool { return s.gameOver }

// Hull returns the ship's hull parts.
func (s *State) Hull() []object.HullPart { return s.hull }

func (s *State) nextID() object.ID { return s.ids.Next() }

// uniform returns a value in [-0.5, 0.5).
func (s *State) uniform() float64 { return s.rng.Float64() - 0.5 }
