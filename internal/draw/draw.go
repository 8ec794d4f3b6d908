// Package draw renders to ANSI terminals: a half-block canvas, a chunked
// text writer and a perspective camera that projects world points onto it.
package draw

// Point represents a 2D coordinate in canvas pixels.
type Point struct {
	X, Y float64
}

// Block characters for drawing.
const (
	BlockFull      = '█'
	BlockUpperHalf = '▀'
	BlockLowerHalf = '▄'
	Heart          = '♥'
)

// ANSI attributes for text overlays.
const (
	ColorReset = "\033[0m"
	ColorBold  = "\033[1m"
	ColorDim   = "\033[2m"
	ColorRed   = "\033[31m"
	ColorAmber = "\033[33m"
)

// Level converts an intensity in [0, 1] to a non-empty canvas level.
func Level(intensity float64) uint8 {
	if intensity <= 0 {
		return 1
	}
	if intensity >= 1 {
		return MaxLevel
	}
	return uint8(1 + intensity*float64(MaxLevel-1))
}

// FogLevel dims a pixel with distance: full brightness up close, fading
// linearly to the dimmest level at fogDistance and beyond.
func FogLevel(depth, fogDistance float64, intensity float64) uint8 {
	if fogDistance <= 0 {
		return Level(intensity)
	}
	fade := 1 - depth/fogDistance
	if fade < 0.15 {
		fade = 0.15
	}
	return Level(intensity * fade)
}
