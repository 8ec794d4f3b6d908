// Package config centralizes the session and presentation parameters.
// Gameplay tuning lives in the ruleset (internal/config).
package config

import "time"

// Render area limits. Larger terminals get a centered, bordered viewport.
const (
	MaxTermWidth  = 160
	MaxTermHeight = 50
)

// Camera
const (
	CameraOffsetZ = 5.0   // Distance of the chase camera behind the ship
	LookAtOffset  = 0.8   // World-Z shift of the camera target
	FogDistance   = 400.0 // Asteroids fade to the dimmest level at this depth
)

// Controls
const (
	// LookStep is the look delta produced per frame by a held look key,
	// in the same units as pointer movement.
	LookStep = 12.0
)

// Player
const (
	MaxUsernameLength = 16 // Maximum display length for player usernames
	LeaderboardSize   = 10
)

// Shutdown
const (
	ShutdownDisplaySeconds = 10.0 // Seconds to show shutdown message before auto-disconnect
	ShutdownTimeout        = 15 * time.Second
)

// Inactivity
const (
	InactivityWarnUser       = 90  // Seconds
	InactivityDisconnectUser = 120 // Seconds
)

// Client rendering
const (
	ClientTargetFPS       = 60
	ClientTargetFrameTime = time.Second / ClientTargetFPS
)
