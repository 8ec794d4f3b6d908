package object

import "github.com/go-gl/mathgl/mgl64"

// Star is a background point. Stars do not move physically; they only
// receive a small random drift each tick.
type Star struct {
	Position mgl64.Vec3
}
