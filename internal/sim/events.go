package sim

import (
	"github.com/go-gl/mathgl/mgl64"
	"github.com/tomz197/asteroids3d/internal/object"
)

// EventKind identifies what happened during a tick.
type EventKind int

const (
	EventAsteroidSpawned   EventKind = iota // New asteroid entered the pool
	EventAsteroidCulled                     // Asteroid left the remove radius
	EventAsteroidDestroyed                  // Asteroid hit by a projectile
	EventProjectileFired
	EventProjectileExpired // Projectile left the remove radius
	EventLifeLost
	EventGameOver
)

func (k EventKind) String() string {
	switch k {
	case EventAsteroidSpawned:
		return "asteroid_spawned"
	case EventAsteroidCulled:
		return "asteroid_culled"
	case EventAsteroidDestroyed:
		return "asteroid_destroyed"
	case EventProjectileFired:
		return "projectile_fired"
	case EventProjectileExpired:
		return "projectile_expired"
	case EventLifeLost:
		return "life_lost"
	case EventGameOver:
		return "game_over"
	default:
		return "unknown"
	}
}

// Event is a notification for renderers and session bookkeeping.
// ID refers to the asteroid or projectile involved, zero for ship events.
type Event struct {
	Kind     EventKind
	ID       object.ID
	Position mgl64.Vec3
	Radius   float64 // Asteroid radius for asteroid events
	Score    int     // Points awarded, EventAsteroidDestroyed only
	Lives    int     // Lives left, ship events only
}

func (s *State) emit(e Event) {
	s.events = append(s.events, e)
}

// DrainEvents returns the events queued since the last call and clears the queue.
func (s *State) DrainEvents() []Event {
	if len(s.events) == 0 {
		return nil
	}
	out := make([]Event, len(s.events))
	copy(out, s.events)
	s.events = s.events[:0]
	return out
}
