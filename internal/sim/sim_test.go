package sim

import (
	"fmt"
	"math"
	"math/rand"
	"testing"
	"time"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tomz197/asteroids3d/internal/config"
	"github.com/tomz197/asteroids3d/internal/object"
)

var epoch = time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

// quietRules is a ruleset with an empty asteroid field and a small starfield.
func quietRules() config.Ruleset {
	rules := config.DefaultRuleset()
	rules.Asteroids.Count = 0
	rules.Stars.Count = 50
	return rules
}

func newTestState(t *testing.T, rules config.Ruleset) (*State, *ManualClock) {
	t.Helper()
	clock := NewManualClock(epoch)
	s, err := New(rules, WithRand(rand.New(rand.NewSource(42))), WithClock(clock))
	require.NoError(t, err)
	return s, clock
}

func engaged() Controls { return Controls{Engaged: true} }

func countEvents(events []Event, kind EventKind) int {
	n := 0
	for _, e := range events {
		if e.Kind == kind {
			n++
		}
	}
	return n
}

func TestNewRejectsInvalidRules(t *testing.T) {
	rules := config.DefaultRuleset()
	rules.Weapon.BurstSize = 0
	_, err := New(rules)
	assert.ErrorIs(t, err, config.ErrInvalidRuleset)
}

func TestMaintenanceFillsEmptyPool(t *testing.T) {
	rules := quietRules()
	s, _ := newTestState(t, rules)
	require.Empty(t, s.Asteroids)

	s.rules.Asteroids.Count = 800
	s.maintainAsteroids()

	require.Len(t, s.Asteroids, 800)
	for _, a := range s.Asteroids {
		assert.GreaterOrEqual(t, a.Radius, 10.0)
		assert.LessOrEqual(t, a.Radius, 60.0)
	}
	assert.Equal(t, 800, countEvents(s.DrainEvents(), EventAsteroidSpawned))
}

func TestMaintenanceCullsAndRefills(t *testing.T) {
	rules := quietRules()
	rules.Asteroids.Count = 30
	s, _ := newTestState(t, rules)
	require.Len(t, s.Asteroids, 30)
	s.DrainEvents()

	far := s.Asteroids[0]
	far.Position = mgl64.Vec3{5000, 0, 0}
	s.Asteroids = s.Asteroids[:20]
	// The spawn cube reaches past the remove radius; keep the rest well inside it.
	for i, a := range s.Asteroids[1:] {
		a.Position = mgl64.Vec3{0, 0, -100 - 20*float64(i)}
	}

	s.maintainAsteroids()

	require.Len(t, s.Asteroids, 30)
	for _, a := range s.Asteroids {
		assert.NotEqual(t, far.ID, a.ID)
	}
	events := s.DrainEvents()
	assert.Equal(t, 1, countEvents(events, EventAsteroidCulled))
	assert.Equal(t, 11, countEvents(events, EventAsteroidSpawned))
}

func TestSpawnPlacementAndVelocity(t *testing.T) {
	rules := quietRules()
	rules.Asteroids.Count = 25
	s, _ := newTestState(t, rules)

	a := rules.Asteroids
	spread := a.VelocityMax - a.VelocityMin
	for _, ast := range s.Asteroids {
		assert.GreaterOrEqual(t, ast.Position.Len(), a.RespawnDistance)
		for i := 0; i < 3; i++ {
			assert.LessOrEqual(t, math.Abs(ast.Position[i]), a.SpawnDistance)
			assert.GreaterOrEqual(t, ast.Velocity[i], a.VelocityMin-spread/2)
			assert.Less(t, ast.Velocity[i], a.VelocityMin+spread/2)
		}
		assert.Less(t, int(ast.Shape), object.ShapeCount)
	}
}

func TestSpawnPlacementGivesUpWhenCrowded(t *testing.T) {
	rules := quietRules()
	rules.Asteroids.SpawnDistance = 1
	rules.Asteroids.RespawnDistance = 0
	rules.Asteroids.Count = 5
	s, _ := newTestState(t, rules)
	assert.Len(t, s.Asteroids, 5)
}

func TestStarPoolStaysFull(t *testing.T) {
	s, _ := newTestState(t, quietRules())
	require.Len(t, s.Stars, 50)

	s.Stars[0].Position = mgl64.Vec3{0, 0, 9000}
	s.Stars = s.Stars[:40]
	s.Tick(Controls{})

	require.Len(t, s.Stars, 50)
	for _, st := range s.Stars {
		assert.Less(t, st.Position.Z(), 8000.0)
	}
}

func TestStarJitterBounded(t *testing.T) {
	rules := quietRules()
	rules.Stars.FieldSize = 100
	s, _ := newTestState(t, rules)
	before := make([]mgl64.Vec3, len(s.Stars))
	for i, st := range s.Stars {
		before[i] = st.Position
	}
	s.updateStars()
	for i, st := range s.Stars {
		d := st.Position.Sub(before[i])
		for axis := 0; axis < 3; axis++ {
			assert.LessOrEqual(t, math.Abs(d[axis]), 0.025)
		}
	}
}

func TestFragmentationScenario(t *testing.T) {
	s, _ := newTestState(t, quietRules())
	p := mgl64.Vec3{0, 0, -50}
	parent := object.NewAsteroid(s.nextID(), p, mgl64.Vec3{1, 2, 2}, 40, object.ShapeCuboid)
	s.Asteroids = append(s.Asteroids, parent)
	s.Projectiles = append(s.Projectiles, object.NewProjectile(s.nextID(), p, object.Forward, 0, mgl64.Vec3{}))

	s.collideProjectiles()
	require.Empty(t, s.Projectiles)
	require.Empty(t, s.Asteroids)

	s.flushSpawned()
	require.Len(t, s.Asteroids, 2)
	a, b := s.Asteroids[0], s.Asteroids[1]
	for _, c := range s.Asteroids {
		assert.Equal(t, 20.0, c.Radius)
		assert.Equal(t, p, c.Position)
		assert.Equal(t, object.ShapeSphere, c.Shape)
		assert.InDelta(t, 3*1.4, c.Speed(), 1e-9)
	}
	assert.Equal(t, a.Velocity, b.Velocity.Mul(-1))
	assert.Equal(t, 25, s.Score())
	assert.Equal(t, 1, s.Destroyed())
}

func TestFragmentThreshold(t *testing.T) {
	s, _ := newTestState(t, quietRules())
	threshold := s.rules.FragmentThreshold()

	small := object.NewAsteroid(1, mgl64.Vec3{}, mgl64.Vec3{1, 0, 0}, threshold, object.ShapeSphere)
	assert.Empty(t, s.fragments(small))

	big := object.NewAsteroid(2, mgl64.Vec3{}, mgl64.Vec3{1, 0, 0}, threshold+0.01, object.ShapeSphere)
	children := s.fragments(big)
	require.Len(t, children, 2)
	assert.InDelta(t, big.Radius/2, children[0].Radius, 1e-12)
}

func TestProjectileDestroysOneAsteroid(t *testing.T) {
	s, _ := newTestState(t, quietRules())
	p := mgl64.Vec3{0, 0, -100}
	for i := 0; i < 3; i++ {
		s.Asteroids = append(s.Asteroids, object.NewAsteroid(s.nextID(), p, mgl64.Vec3{}, 5, object.ShapeSphere))
	}
	s.Projectiles = append(s.Projectiles, object.NewProjectile(s.nextID(), p, object.Forward, 0, mgl64.Vec3{}))

	s.collideProjectiles()
	assert.Len(t, s.Asteroids, 2)
	assert.Empty(t, s.Projectiles)
	assert.Equal(t, 200, s.Score())
}

func TestProjectileMissesJustOutside(t *testing.T) {
	s, _ := newTestState(t, quietRules())
	s.Asteroids = append(s.Asteroids, object.NewAsteroid(s.nextID(), mgl64.Vec3{}, mgl64.Vec3{}, 10, object.ShapeSphere))
	s.Projectiles = append(s.Projectiles, object.NewProjectile(s.nextID(), mgl64.Vec3{10.5, 0, 0}, object.Forward, 0, mgl64.Vec3{}))

	s.collideProjectiles()
	assert.Len(t, s.Asteroids, 1)
	assert.Len(t, s.Projectiles, 1)
}

func TestShipCollisionCostsOneLifePerTick(t *testing.T) {
	s, clock := newTestState(t, quietRules())
	for i := 0; i < 3; i++ {
		s.Asteroids = append(s.Asteroids, object.NewAsteroid(s.nextID(), mgl64.Vec3{0, 0, -3}, mgl64.Vec3{}, 5, object.ShapeSphere))
	}

	s.collideShip()
	assert.Equal(t, 4, s.Lives())
	assert.Equal(t, PhaseInvulnerable, s.Phase())

	// invulnerable: overlapping asteroids are ignored
	clock.Advance(time.Second)
	s.Tick(engaged())
	assert.Equal(t, 4, s.Lives())

	clock.Advance(time.Second)
	s.Tick(engaged())
	assert.Equal(t, 3, s.Lives())
}

func TestShipCollisionMiss(t *testing.T) {
	s, _ := newTestState(t, quietRules())
	s.Asteroids = append(s.Asteroids, object.NewAsteroid(s.nextID(), mgl64.Vec3{0, 0, -20}, mgl64.Vec3{}, 5, object.ShapeSphere))
	s.collideShip()
	assert.Equal(t, 5, s.Lives())
	assert.Equal(t, PhaseVulnerable, s.Phase())
}

func TestShipCollisionUsesShapeBounds(t *testing.T) {
	tests := []struct {
		shape object.Shape
		z     float64
		hit   bool
	}{
		{object.ShapeCuboid, -8, false},
		{object.ShapeCuboid, -5, true},
		{object.ShapePolyhedron, -9, false},
		{object.ShapePolyhedron, -8, true},
		{object.ShapeSphere, -8, true},
	}
	for _, tt := range tests {
		t.Run(fmt.Sprintf("%s at %v", tt.shape, tt.z), func(t *testing.T) {
			s, _ := newTestState(t, quietRules())
			s.Asteroids = append(s.Asteroids, object.NewAsteroid(s.nextID(), mgl64.Vec3{0, 0, tt.z}, mgl64.Vec3{}, 10, tt.shape))
			s.collideShip()
			if tt.hit {
				assert.Equal(t, 4, s.Lives())
			} else {
				assert.Equal(t, 5, s.Lives())
			}
		})
	}
}

func TestPerPartHitboxIgnoresGaps(t *testing.T) {
	rules := quietRules()
	s, _ := newTestState(t, rules)
	// Inside the union box, away from every part.
	s.Asteroids = append(s.Asteroids, object.NewAsteroid(s.nextID(), mgl64.Vec3{0.45, -0.25, 0}, mgl64.Vec3{}, 0.02, object.ShapeSphere))

	s.rules.Ship.PerPartHitbox = true
	s.collideShip()
	assert.Equal(t, 5, s.Lives())

	s.rules.Ship.PerPartHitbox = false
	s.collideShip()
	assert.Equal(t, 4, s.Lives())
}

func TestGameOverOnceAndHalts(t *testing.T) {
	rules := quietRules()
	rules.Life.InitialLives = 1
	s, clock := newTestState(t, rules)
	rock := object.NewAsteroid(s.nextID(), mgl64.Vec3{0, 0, -3}, mgl64.Vec3{}, 5, object.ShapeSphere)
	s.Asteroids = append(s.Asteroids, rock)
	s.DrainEvents()

	s.Tick(engaged())
	require.True(t, s.GameOver())
	assert.Equal(t, PhaseGameOver, s.Phase())
	assert.Equal(t, 0, s.Lives())

	rock.Velocity = mgl64.Vec3{1, 0, 0}
	shipPos := s.Ship.Position
	for i := 0; i < 5; i++ {
		clock.Advance(3 * time.Second)
		s.Tick(Controls{Engaged: true, Forward: true, Fire: true})
	}
	assert.Equal(t, shipPos, s.Ship.Position)
	assert.Equal(t, mgl64.Vec3{0, 0, -3}, rock.Position)
	assert.Empty(t, s.Projectiles)

	events := s.DrainEvents()
	assert.Equal(t, 1, countEvents(events, EventGameOver))
	assert.Equal(t, 1, countEvents(events, EventLifeLost))
}

func TestHitPenalty(t *testing.T) {
	rules := quietRules()
	rules.Scoring.HitPenalty = 50
	s, _ := newTestState(t, rules)
	s.loseLife()
	assert.Equal(t, -50, s.Score())
}

func TestPulse(t *testing.T) {
	s, clock := newTestState(t, quietRules())
	assert.Equal(t, 1.0, s.Pulse())

	s.loseLife()
	assert.InDelta(t, 0.5, s.Pulse(), 1e-12)

	at := epoch.Add(100 * time.Millisecond)
	assert.InDelta(t, 0.5+0.5*math.Sin(1), s.PulseAt(at), 1e-12)

	clock.Advance(2 * time.Second)
	s.Tick(Controls{})
	assert.Equal(t, 1.0, s.Pulse())
	assert.False(t, s.Invulnerable())
}

func TestInvulnerabilityRetriggerResetsDeadline(t *testing.T) {
	s, clock := newTestState(t, quietRules())
	s.loseLife()
	clock.Advance(time.Second)
	s.now = clock.Now()
	s.loseLife()
	assert.Equal(t, epoch.Add(3*time.Second), s.Ship.InvulnerableUntil)
}

func TestFiringCadenceAndBurst(t *testing.T) {
	rules := quietRules()
	rules.Weapon.BurstSize = 3
	rules.Weapon.Cooldown = 100 * time.Millisecond
	rules.Weapon.ReloadInterval = time.Second
	s, clock := newTestState(t, rules)
	fire := Controls{Engaged: true, Fire: true}

	s.Tick(fire)
	require.Len(t, s.Projectiles, 1)
	assert.Equal(t, 1, s.Burst())

	clock.Advance(50 * time.Millisecond)
	s.Tick(fire)
	assert.Len(t, s.Projectiles, 1, "cooldown not elapsed")

	clock.Advance(50 * time.Millisecond)
	s.Tick(fire)
	clock.Advance(100 * time.Millisecond)
	s.Tick(fire)
	require.Len(t, s.Projectiles, 3)
	assert.Equal(t, 3, s.Burst())
	assert.Equal(t, 0, s.ShotsLeftInBurst(s.Now()))

	// burst boundary: the base cooldown is not enough
	clock.Advance(100 * time.Millisecond)
	s.Tick(fire)
	assert.Len(t, s.Projectiles, 3)
	assert.True(t, s.Reloading(s.Now()))
	assert.Equal(t, 0, s.ShotsLeftInBurst(s.Now()))
	assert.Equal(t, 3, s.ShotsLeftInBurst(s.Now().Add(time.Second)), "reloaded burst is full")

	clock.Advance(900 * time.Millisecond)
	s.Tick(fire)
	require.Len(t, s.Projectiles, 4)
	assert.Equal(t, 1, s.Burst())
	assert.Equal(t, 2, s.ShotsLeftInBurst(s.Now()))
	assert.False(t, s.Reloading(s.Now()))

	// one projectile per tick however long the gap
	clock.Advance(time.Hour)
	s.Tick(fire)
	assert.Len(t, s.Projectiles, 5)
}

func TestFiringIdleWithoutTrigger(t *testing.T) {
	s, clock := newTestState(t, quietRules())
	clock.Advance(time.Second)
	s.Tick(engaged())
	assert.Empty(t, s.Projectiles)
	assert.Equal(t, s.rules.Weapon.BurstSize, s.ShotsLeftInBurst(s.Now()))
}

func TestProjectileLaunch(t *testing.T) {
	s, _ := newTestState(t, quietRules())
	s.Ship.Velocity = mgl64.Vec3{1, 0, 0}
	s.fireProjectile()
	require.Len(t, s.Projectiles, 1)
	p := s.Projectiles[0]
	assert.True(t, p.Position.ApproxEqual(mgl64.Vec3{0, 0, -2}))
	assert.True(t, p.Velocity.ApproxEqual(mgl64.Vec3{1, 0, -10}))
}

func TestProjectilesExpire(t *testing.T) {
	s, _ := newTestState(t, quietRules())
	s.Projectiles = append(s.Projectiles, object.NewProjectile(s.nextID(), mgl64.Vec3{0, 0, -795}, object.Forward, 10, mgl64.Vec3{}))
	s.moveProjectiles()
	assert.Empty(t, s.Projectiles)
	assert.Equal(t, 1, countEvents(s.DrainEvents(), EventProjectileExpired))
}

func TestFlightIntegration(t *testing.T) {
	s, _ := newTestState(t, quietRules())

	s.Tick(Controls{Engaged: true, Forward: true})
	assert.True(t, s.Ship.Velocity.ApproxEqual(mgl64.Vec3{0, 0, -0.36}))
	assert.True(t, s.Ship.Position.ApproxEqual(mgl64.Vec3{0, 0, -1.8}))

	s.Tick(engaged())
	assert.True(t, s.Ship.Velocity.ApproxEqual(mgl64.Vec3{0, 0, -0.324}))
}

func TestFlightDiagonalIsNormalized(t *testing.T) {
	s, _ := newTestState(t, quietRules())
	s.Tick(Controls{Engaged: true, Forward: true, Right: true, Up: true})
	assert.InDelta(t, 0.36, s.Ship.Velocity.Len(), 1e-12)
}

func TestFlightOpposingKeysCancel(t *testing.T) {
	s, _ := newTestState(t, quietRules())
	s.Tick(Controls{Engaged: true, Forward: true, Backward: true})
	assert.Equal(t, mgl64.Vec3{}, s.Ship.Velocity)
}

func TestLookControls(t *testing.T) {
	s, _ := newTestState(t, quietRules())
	s.Tick(Controls{Engaged: true, LookX: 100})
	assert.InDelta(t, -0.2, s.Ship.Yaw, 1e-12)

	s.Tick(Controls{Engaged: true, LookY: -1e6})
	assert.InDelta(t, math.Pi/2, s.Ship.Pitch, 1e-12)
}

func TestLookSmoothing(t *testing.T) {
	rules := quietRules()
	rules.Tilt.Smoothing = 0.5
	s, _ := newTestState(t, rules)

	s.Tick(Controls{Engaged: true, LookX: -100})
	assert.InDelta(t, 0.1, s.Ship.Yaw, 1e-12)
	s.Tick(engaged())
	assert.InDelta(t, 0.15, s.Ship.Yaw, 1e-12)
}

func TestTiltIsCosmetic(t *testing.T) {
	rules := quietRules()
	rules.Tilt.Enabled = true
	s, _ := newTestState(t, rules)

	s.Tick(Controls{Engaged: true, Left: true, LookX: 0})
	assert.Greater(t, s.Ship.Tilt.Roll, 0.0)
	assert.True(t, s.Ship.Velocity.ApproxEqual(mgl64.Vec3{-0.36, 0, 0}))

	s.Tick(Controls{Engaged: true, LookX: 10})
	kick := s.Ship.Tilt.Kick
	assert.Less(t, kick, 0.0)
	s.Tick(engaged())
	assert.InDelta(t, kick*rules.Tilt.KickFriction, s.Ship.Tilt.Kick, 1e-12)
}

func TestDisengagedTickOnlyMaintains(t *testing.T) {
	s, clock := newTestState(t, quietRules())
	rock := object.NewAsteroid(s.nextID(), mgl64.Vec3{0, 0, -100}, mgl64.Vec3{1, 0, 0}, 5, object.ShapeSphere)
	s.Asteroids = append(s.Asteroids, rock)

	clock.Advance(time.Second)
	s.Tick(Controls{Forward: true, Fire: true})
	assert.Equal(t, mgl64.Vec3{0, 0, -100}, rock.Position)
	assert.Equal(t, mgl64.Vec3{}, s.Ship.Position)
	assert.Empty(t, s.Projectiles)
	assert.Len(t, s.Stars, 50)
}

func TestElapsedCountsEngagedTimeOnly(t *testing.T) {
	s, clock := newTestState(t, quietRules())

	s.Tick(engaged())
	clock.Advance(time.Second)
	s.Tick(engaged())
	assert.Equal(t, time.Second, s.Elapsed())

	clock.Advance(5 * time.Second)
	s.Tick(Controls{})
	clock.Advance(time.Second)
	s.Tick(engaged())
	assert.Equal(t, time.Second, s.Elapsed())

	clock.Advance(time.Second)
	s.Tick(engaged())
	assert.Equal(t, 2*time.Second, s.Elapsed())
}

func TestAsteroidBounce(t *testing.T) {
	s, _ := newTestState(t, quietRules())
	a := object.NewAsteroid(1, mgl64.Vec3{0, 0, 0}, mgl64.Vec3{1, 0, 0}, 10, object.ShapeSphere)
	b := object.NewAsteroid(2, mgl64.Vec3{15, 0, 0}, mgl64.Vec3{-2, 0, 0}, 10, object.ShapeSphere)
	s.Asteroids = []*object.Asteroid{a, b}

	s.collideAsteroids()
	assert.Equal(t, mgl64.Vec3{-2, 0, 0}, a.Velocity)
	assert.Equal(t, mgl64.Vec3{1, 0, 0}, b.Velocity)
	assert.GreaterOrEqual(t, b.Position.Sub(a.Position).Len(), 20.0)
}

func TestAsteroidBounceCoincidentCenters(t *testing.T) {
	s, _ := newTestState(t, quietRules())
	a := object.NewAsteroid(1, mgl64.Vec3{3, 3, 3}, mgl64.Vec3{1, 0, 0}, 10, object.ShapeSphere)
	b := object.NewAsteroid(2, mgl64.Vec3{3, 3, 3}, mgl64.Vec3{-1, 0, 0}, 10, object.ShapeSphere)
	s.Asteroids = []*object.Asteroid{a, b}

	s.collideAsteroids()
	assert.Equal(t, mgl64.Vec3{-1, 0, 0}, a.Velocity)
	assert.False(t, math.IsNaN(a.Position.X()))
	assert.Equal(t, mgl64.Vec3{3, 3, 3}, a.Position)
}

func TestRestart(t *testing.T) {
	rules := quietRules()
	rules.Asteroids.Count = 10
	s, clock := newTestState(t, rules)

	s.Tick(Controls{Engaged: true, Forward: true, Fire: true})
	s.loseLife()
	s.score = 123
	clock.Advance(time.Second)

	s.Restart()
	assert.Equal(t, 5, s.Lives())
	assert.Zero(t, s.Score())
	assert.Zero(t, s.Elapsed())
	assert.False(t, s.GameOver())
	assert.Equal(t, mgl64.Vec3{}, s.Ship.Position)
	assert.Empty(t, s.Projectiles)
	assert.Len(t, s.Asteroids, 10)
	assert.Len(t, s.Stars, 50)
	assert.Equal(t, 0, s.Burst())
	assert.Equal(t, 10, countEvents(s.DrainEvents(), EventAsteroidSpawned))
}

func TestDrainEvents(t *testing.T) {
	s, _ := newTestState(t, quietRules())
	assert.Nil(t, s.DrainEvents())
	s.loseLife()
	events := s.DrainEvents()
	require.Len(t, events, 1)
	assert.Equal(t, EventLifeLost, events[0].Kind)
	assert.Equal(t, 4, events[0].Lives)
	assert.Nil(t, s.DrainEvents())
}

func TestDeterministicWithSeed(t *testing.T) {
	rules := quietRules()
	rules.Asteroids.Count = 20
	a, _ := newTestState(t, rules)
	b, _ := newTestState(t, rules)
	for i := range a.Asteroids {
		assert.Equal(t, a.Asteroids[i].Position, b.Asteroids[i].Position)
		assert.Equal(t, a.Asteroids[i].Velocity, b.Asteroids[i].Velocity)
	}
}
