package client

import (
	"github.com/tomz197/asteroids3d/internal/input"
	"github.com/tomz197/asteroids3d/internal/loop/config"
	"github.com/tomz197/asteroids3d/internal/sim"
)

// controlsFor maps terminal key state to simulation controls. Held look
// keys stand in for pointer movement, LookStep units per frame.
func controlsFor(in input.Input, engaged bool) sim.Controls {
	c := sim.Controls{
		Engaged:  engaged,
		Forward:  in.Forward,
		Backward: in.Backward,
		Left:     in.Left,
		Right:    in.Right,
		Up:       in.Up,
		Down:     in.Down,
		Fire:     in.Fire,
	}
	if in.LookRight {
		c.LookX += config.LookStep
	}
	if in.LookLeft {
		c.LookX -= config.LookStep
	}
	if in.LookDown {
		c.LookY += config.LookStep
	}
	if in.LookUp {
		c.LookY -= config.LookStep
	}
	return c
}
