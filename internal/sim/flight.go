package sim

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/tomz197/asteroids3d/internal/object"
	"github.com/tomz197/asteroids3d/internal/physics"
)

// steer applies the look deltas to the orientation target and eases the
// ship toward it, then updates the cosmetic tilt.
func (s *State) steer(c Controls) {
	sens := s.rules.Ship.RotationSensitivity
	s.targetYaw -= c.LookX * sens
	s.targetPitch -= c.LookY * sens
	s.targetPitch = mgl64.Clamp(s.targetPitch, -math.Pi/2, math.Pi/2)

	ship := s.Ship
	if gain := s.rules.Tilt.Smoothing; gain > 0 {
		ship.Yaw += (s.targetYaw - ship.Yaw) * gain
		ship.Pitch += (s.targetPitch - ship.Pitch) * gain
	} else {
		ship.Yaw = s.targetYaw
		ship.Pitch = s.targetPitch
	}

	s.updateTilt(c)
}

// updateTilt eases the visual-only bank toward the input-driven targets.
// The flight direction never reads it.
func (s *State) updateTilt(c Controls) {
	t := s.rules.Tilt
	tilt := &s.Ship.Tilt
	if !t.Enabled {
		*tilt = object.Tilt{}
		return
	}

	var roll, pitch float64
	if c.Left && !c.Right {
		roll = t.StrafeRoll
	} else if c.Right && !c.Left {
		roll = -t.StrafeRoll
	}
	if c.Forward && !c.Backward {
		pitch = -t.ThrustPitch
	} else if c.Backward && !c.Forward {
		pitch = t.ThrustPitch
	}

	gain := t.Smoothing
	if gain <= 0 {
		gain = 1
	}
	tilt.Roll += (roll - tilt.Roll) * gain
	tilt.Pitch += (pitch - tilt.Pitch) * gain
	tilt.Kick = tilt.Kick*t.KickFriction - c.LookX*t.MouseKick
}

// inputDirection is the unit ship-local direction of the held movement keys.
func inputDirection(c Controls) mgl64.Vec3 {
	var dir mgl64.Vec3
	if c.Forward {
		dir[2]--
	}
	if c.Backward {
		dir[2]++
	}
	if c.Left {
		dir[0]--
	}
	if c.Right {
		dir[0]++
	}
	if c.Up {
		dir[1]++
	}
	if c.Down {
		dir[1]--
	}
	return physics.SafeNormalize(dir)
}

// moveShip integrates thrust, applies friction and advances the ship.
func (s *State) moveShip(c Controls) {
	ship := s.Ship
	rules := s.rules.Ship

	dir := ship.Orientation().Rotate(inputDirection(c))
	ship.Velocity = ship.Velocity.Add(dir.Mul(rules.Acceleration)).Mul(rules.Friction)
	ship.Position = ship.Position.Add(ship.Velocity.Mul(rules.Speed))
}
