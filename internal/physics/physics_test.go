package physics

import (
	"math"
	"testing"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/stretchr/testify/assert"
)

func TestDistance(t *testing.T) {
	a := mgl64.Vec3{1, 2, 3}
	b := mgl64.Vec3{4, 6, 3}
	assert.InDelta(t, 5.0, Distance(a, b), 1e-12)
	assert.InDelta(t, 25.0, DistanceSquared(a, b), 1e-12)
}

func TestSpheresOverlap(t *testing.T) {
	tests := []struct {
		name string
		c2   mgl64.Vec3
		want bool
	}{
		{"overlapping", mgl64.Vec3{2, 0, 0}, true},
		{"touching", mgl64.Vec3{3, 0, 0}, false},
		{"apart", mgl64.Vec3{0, 4, 0}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, SpheresOverlap(mgl64.Vec3{}, 1, tt.c2, 2))
		})
	}
}

func TestPointInSphere(t *testing.T) {
	assert.True(t, PointInSphere(mgl64.Vec3{0.5, 0, 0}, mgl64.Vec3{}, 1))
	assert.False(t, PointInSphere(mgl64.Vec3{1, 0, 0}, mgl64.Vec3{}, 1))
}

func TestSeparate(t *testing.T) {
	c1, c2 := Separate(mgl64.Vec3{1, 0, 0}, 2, mgl64.Vec3{-1, 0, 0}, 2)

	// Penetration is 2, each center moves by about 1.
	assert.InDelta(t, 2.0, c1.X(), 1e-3)
	assert.InDelta(t, -2.0, c2.X(), 1e-3)
	assert.GreaterOrEqual(t, Distance(c1, c2), 4.0)
}

func TestSeparateCoincidentCenters(t *testing.T) {
	c1, c2 := Separate(mgl64.Vec3{5, 5, 5}, 1, mgl64.Vec3{5, 5, 5}, 1)
	for i := 0; i < 3; i++ {
		assert.False(t, math.IsNaN(c1[i]))
		assert.False(t, math.IsNaN(c2[i]))
	}
}

func TestSafeNormalize(t *testing.T) {
	assert.Equal(t, mgl64.Vec3{}, SafeNormalize(mgl64.Vec3{}))
	assert.InDelta(t, 1.0, SafeNormalize(mgl64.Vec3{3, 4, 0}).Len(), 1e-12)
}
