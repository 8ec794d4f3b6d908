package config

import (
	"errors"
	"fmt"
	"math"
	"os"
	"time"

	"github.com/BurntSushi/toml"
)

// ErrInvalidRuleset is returned when a ruleset fails validation.
var ErrInvalidRuleset = errors.New("invalid ruleset")

// Ruleset holds every tunable gameplay parameter of the simulation.
// Distances are world units, speeds are world units per tick.
type Ruleset struct {
	Asteroids AsteroidRules `toml:"asteroids"`
	Stars     StarRules     `toml:"stars"`
	Ship      ShipRules     `toml:"ship"`
	Weapon    WeaponRules   `toml:"weapon"`
	Life      LifeRules     `toml:"life"`
	Tilt      TiltRules     `toml:"tilt"`
	Scoring   ScoringRules  `toml:"scoring"`
}

type AsteroidRules struct {
	Count             int     `toml:"count"`              // Target population
	MinSize           float64 `toml:"min_size"`           // Smallest spawned radius
	MaxSize           float64 `toml:"max_size"`           // Largest spawned radius
	SpawnDistance     float64 `toml:"spawn_distance"`     // Half-width of the spawn cube around the ship
	RespawnDistance   float64 `toml:"respawn_distance"`   // Minimum spawn distance from the ship
	RemoveDistance    float64 `toml:"remove_distance"`    // Cull distance from the ship
	VelocityMin       float64 `toml:"velocity_min"`       // Per-axis velocity offset
	VelocityMax       float64 `toml:"velocity_max"`       // Per-axis velocity spread is max-min
	SeparationFactor  float64 `toml:"separation_factor"`  // Spawn spacing multiplier on summed radii
	PlacementAttempts int     `toml:"placement_attempts"` // Candidate positions tried before giving up
	FragmentSpeed     float64 `toml:"fragment_speed"`     // Child speed as a multiple of parent speed
	FragmentDivisor   float64 `toml:"fragment_divisor"`   // Fragments only above MinSize/FragmentDivisor
}

type StarRules struct {
	Count          int     `toml:"count"`
	FieldSize      float64 `toml:"field_size"` // Full width of the spawn cube
	RemoveDistance float64 `toml:"remove_distance"`
	Jitter         float64 `toml:"jitter"` // Max per-axis drift per tick
}

type ShipRules struct {
	Speed               float64 `toml:"speed"`        // Position advance multiplier
	Acceleration        float64 `toml:"acceleration"` // Velocity added per tick of input
	Friction            float64 `toml:"friction"`     // Velocity multiplier per tick, < 1
	RotationSensitivity float64 `toml:"rotation_sensitivity"`
	HitboxScale         float64 `toml:"hitbox_scale"`    // Shrinks each hull part for collisions
	PerPartHitbox       bool    `toml:"per_part_hitbox"` // Test parts individually instead of the whole hull
}

type WeaponRules struct {
	Cooldown         time.Duration `toml:"cooldown"`
	BurstSize        int           `toml:"burst_size"`
	ReloadInterval   time.Duration `toml:"reload_interval"`
	ProjectileSpeed  float64       `toml:"projectile_speed"`
	ProjectileRadius float64       `toml:"projectile_radius"`
	MuzzleOffset     float64       `toml:"muzzle_offset"`
	RemoveDistance   float64       `toml:"remove_distance"`
}

type LifeRules struct {
	InitialLives            int           `toml:"initial_lives"`
	InvulnerabilityDuration time.Duration `toml:"invulnerability_duration"`
	PulseFrequency          float64       `toml:"pulse_frequency"` // Radians per second of the opacity pulse
}

// TiltRules control orientation smoothing and the cosmetic banking effect.
// A zero Smoothing disables smoothing; Enabled=false disables banking.
type TiltRules struct {
	Enabled      bool    `toml:"enabled"`
	Smoothing    float64 `toml:"smoothing"`     // Exponential gain toward the look target, (0,1]
	StrafeRoll   float64 `toml:"strafe_roll"`   // Roll target while strafing
	ThrustPitch  float64 `toml:"thrust_pitch"`  // Pitch tilt target while thrusting
	MouseKick    float64 `toml:"mouse_kick"`    // Kick per unit of horizontal look delta
	KickFriction float64 `toml:"kick_friction"` // Kick decay per tick
}

type ScoringRules struct {
	Factor     float64 `toml:"factor"`      // Score for an asteroid is Factor/radius
	HitPenalty int     `toml:"hit_penalty"` // Subtracted on every life lost
}

// DefaultRuleset returns the stock gameplay parameters.
func DefaultRuleset() Ruleset {
	return Ruleset{
		Asteroids: AsteroidRules{
			Count:             1200,
			MinSize:           10,
			MaxSize:           60,
			SpawnDistance:     700,
			RespawnDistance:   200,
			RemoveDistance:    800,
			VelocityMin:       0.1,
			VelocityMax:       5,
			SeparationFactor:  1.2,
			PlacementAttempts: 50,
			FragmentSpeed:     1.4,
			FragmentDivisor:   16,
		},
		Stars: StarRules{
			Count:          8500,
			FieldSize:      2000,
			RemoveDistance: 1000,
			Jitter:         0.025,
		},
		Ship: ShipRules{
			Speed:               5,
			Acceleration:        0.4,
			Friction:            0.9,
			RotationSensitivity: 0.002,
			HitboxScale:         1,
		},
		Weapon: WeaponRules{
			Cooldown:         490 * time.Millisecond,
			BurstSize:        20,
			ReloadInterval:   4 * time.Second,
			ProjectileSpeed:  10,
			ProjectileRadius: 0.5,
			MuzzleOffset:     2,
			RemoveDistance:   800,
		},
		Life: LifeRules{
			InitialLives:            5,
			InvulnerabilityDuration: 2 * time.Second,
			PulseFrequency:          10,
		},
		Tilt: TiltRules{
			Smoothing:    0,
			StrafeRoll:   0.35,
			ThrustPitch:  0.15,
			MouseKick:    0.004,
			KickFriction: 0.9,
		},
		Scoring: ScoringRules{
			Factor: 1000,
		},
	}
}

// LoadRuleset reads a TOML ruleset from path on top of the defaults.
// Keys missing from the file keep their default values.
func LoadRuleset(path string) (Ruleset, error) {
	rules := DefaultRuleset()
	data, err := os.ReadFile(path)
	if err != nil {
		return rules, fmt.Errorf("read ruleset %s: %w", path, err)
	}
	if err := toml.Unmarshal(data, &rules); err != nil {
		return rules, fmt.Errorf("parse ruleset %s: %w", path, err)
	}
	if err := rules.Validate(); err != nil {
		return rules, fmt.Errorf("ruleset %s: %w", path, err)
	}
	return rules, nil
}

// RulesetFromPath loads the ruleset at path, or returns the defaults when
// path is empty.
func RulesetFromPath(path string) (Ruleset, error) {
	if path == "" {
		return DefaultRuleset(), nil
	}
	return LoadRuleset(path)
}

// Validate checks the ruleset for values the simulation cannot run with.
func (r Ruleset) Validate() error {
	a := r.Asteroids
	switch {
	case a.Count < 0:
		return fmt.Errorf("%w: asteroids.count must be >= 0", ErrInvalidRuleset)
	case a.MinSize <= 0 || a.MaxSize < a.MinSize:
		return fmt.Errorf("%w: asteroid sizes must satisfy 0 < min_size <= max_size", ErrInvalidRuleset)
	case a.SpawnDistance <= 0 || a.RemoveDistance <= 0:
		return fmt.Errorf("%w: asteroid spawn and remove distances must be > 0", ErrInvalidRuleset)
	case a.PlacementAttempts < 1:
		return fmt.Errorf("%w: asteroids.placement_attempts must be >= 1", ErrInvalidRuleset)
	case a.FragmentDivisor <= 0:
		return fmt.Errorf("%w: asteroids.fragment_divisor must be > 0", ErrInvalidRuleset)
	case r.Stars.Count < 0 || r.Stars.FieldSize <= 0:
		return fmt.Errorf("%w: stars need count >= 0 and field_size > 0", ErrInvalidRuleset)
	case r.Ship.Friction < 0 || r.Ship.Friction >= 1:
		return fmt.Errorf("%w: ship.friction must be in [0, 1)", ErrInvalidRuleset)
	case r.Ship.HitboxScale <= 0:
		return fmt.Errorf("%w: ship.hitbox_scale must be > 0", ErrInvalidRuleset)
	case r.Weapon.BurstSize < 1:
		return fmt.Errorf("%w: weapon.burst_size must be >= 1", ErrInvalidRuleset)
	case r.Weapon.Cooldown < 0 || r.Weapon.ReloadInterval < 0:
		return fmt.Errorf("%w: weapon intervals must be >= 0", ErrInvalidRuleset)
	case r.Life.InitialLives < 1:
		return fmt.Errorf("%w: life.initial_lives must be >= 1", ErrInvalidRuleset)
	case r.Tilt.Smoothing < 0 || r.Tilt.Smoothing > 1:
		return fmt.Errorf("%w: tilt.smoothing must be in [0, 1]", ErrInvalidRuleset)
	case r.Scoring.Factor < 0 || math.IsNaN(r.Scoring.Factor):
		return fmt.Errorf("%w: scoring.factor must be >= 0", ErrInvalidRuleset)
	}
	return nil
}

// FragmentThreshold is the radius an asteroid must exceed to split when destroyed.
func (r Ruleset) FragmentThreshold() float64 {
	return r.Asteroids.MinSize / r.Asteroids.FragmentDivisor
}
