package sim

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/tomz197/asteroids3d/internal/object"
	"github.com/tomz197/asteroids3d/internal/physics"
)

// maintainAsteroids culls asteroids beyond the remove distance and refills
// the pool up to the target count.
func (s *State) maintainAsteroids() {
	ship := s.Ship.Position
	limit := s.rules.Asteroids.RemoveDistance

	kept := s.Asteroids[:0]
	for _, a := range s.Asteroids {
		if physics.Distance(a.Position, ship) > limit {
			s.emit(Event{Kind: EventAsteroidCulled, ID: a.ID, Position: a.Position, Radius: a.Radius})
			continue
		}
		kept = append(kept, a)
	}
	clear(s.Asteroids[len(kept):])
	s.Asteroids = kept

	for len(s.Asteroids) < s.rules.Asteroids.Count {
		s.addAsteroid(s.spawnAsteroid())
	}
}

// spawnAsteroid builds a new asteroid around the ship without adding it to the pool.
func (s *State) spawnAsteroid() *object.Asteroid {
	rules := s.rules.Asteroids
	size := s.rng.Float64()*(rules.MaxSize-rules.MinSize) + rules.MinSize
	shape := object.Shape(s.rng.Intn(object.ShapeCount))
	pos := s.placeAsteroid(size)

	spread := rules.VelocityMax - rules.VelocityMin
	vel := mgl64.Vec3{
		s.uniform()*spread + rules.VelocityMin,
		s.uniform()*spread + rules.VelocityMin,
		s.uniform()*spread + rules.VelocityMin,
	}
	return object.NewAsteroid(s.nextID(), pos, vel, size, shape)
}

// placeAsteroid samples candidate positions in the spawn cube until one is
// far enough from the ship and clear of every asteroid. After the attempt
// budget is spent the last candidate is accepted as is.
func (s *State) placeAsteroid(size float64) mgl64.Vec3 {
	rules := s.rules.Asteroids
	ship := s.Ship.Position
	width := rules.SpawnDistance * 2

	var pos mgl64.Vec3
	for try := 0; try < rules.PlacementAttempts; try++ {
		pos = ship.Add(mgl64.Vec3{s.uniform() * width, s.uniform() * width, s.uniform() * width})
		if physics.Distance(pos, ship) >= rules.RespawnDistance && s.positionFree(pos, size) {
			break
		}
	}
	return pos
}

func (s *State) positionFree(pos mgl64.Vec3, size float64) bool {
	factor := s.rules.Asteroids.SeparationFactor
	for _, a := range s.Asteroids {
		minDist := (a.Radius + size) * factor
		if physics.DistanceSquared(a.Position, pos) < minDist*minDist {
			return false
		}
	}
	return true
}

func (s *State) addAsteroid(a *object.Asteroid) {
	s.Asteroids = append(s.Asteroids, a)
	s.emit(Event{Kind: EventAsteroidSpawned, ID: a.ID, Position: a.Position, Radius: a.Radius})
}

// spawn queues an asteroid to join the pool after the current pass.
func (s *State) spawn(a *object.Asteroid) {
	s.toSpawn = append(s.toSpawn, a)
}

// flushSpawned adds every queued asteroid to the pool.
func (s *State) flushSpawned() {
	for _, a := range s.toSpawn {
		s.addAsteroid(a)
	}
	clear(s.toSpawn)
	s.toSpawn = s.toSpawn[:0]
}

func (s *State) moveAsteroids() {
	for _, a := range s.Asteroids {
		a.Move()
	}
}

// compactAsteroids drops asteroids marked destroyed during a pass.
func (s *State) compactAsteroids() {
	kept := s.Asteroids[:0]
	for _, a := range s.Asteroids {
		if !a.IsDestroyed() {
			kept = append(kept, a)
		}
	}
	clear(s.Asteroids[len(kept):])
	s.Asteroids = kept
}

// asteroidScore is the award for shooting an asteroid of the given radius.
func (s *State) asteroidScore(radius float64) int {
	return int(math.Round(s.rules.Scoring.Factor / radius))
}
