package client

import (
	"github.com/go-gl/mathgl/mgl64"

	"github.com/tomz197/asteroids3d/internal/draw"
	"github.com/tomz197/asteroids3d/internal/loop/config"
	"github.com/tomz197/asteroids3d/internal/object"
)

// Asteroids smaller than this many pixels on screen are drawn as a point.
const minMeshPixels = 1.5

// drawScene projects the field through the chase camera onto the canvas.
func (c *Client) drawScene() {
	ship := c.game.Ship
	c.camera.Chase(ship.Position, ship.Orientation(), config.CameraOffsetZ, config.LookAtOffset)
	c.camera.Setup(c.canvas.Width(), c.canvas.Height())

	c.drawStars()
	c.drawAsteroids()
	c.drawProjectiles()
	c.drawShip()
}

func (c *Client) drawStars() {
	for _, s := range c.game.Stars {
		pt, _, ok := c.camera.Project(s.Position)
		if !ok {
			continue
		}
		c.canvas.SetPoint(pt, 3)
	}
}

func (c *Client) drawAsteroids() {
	for _, a := range c.game.Asteroids {
		pt, depth, ok := c.camera.Project(a.Position)
		if !ok {
			continue
		}
		r := c.camera.ScreenRadius(a.Radius, depth)
		if !c.camera.Visible(pt, r) {
			continue
		}
		level := draw.FogLevel(depth, config.FogDistance, 0.85)
		if r < minMeshPixels {
			c.canvas.SetPoint(pt, level)
			continue
		}

		// Rocks are drawn unrotated so the wireframe matches their bounds.
		q := mgl64.QuatIdent()
		switch a.Shape {
		case object.ShapeSphere:
			c.canvas.FillCircle(pt, r, level/2+1)
			c.camera.DrawMesh(c.canvas, draw.Icosahedron, a.Position, q, vec3(a.Radius), level)
		case object.ShapeCuboid:
			c.camera.DrawMesh(c.canvas, draw.Cube, a.Position, q, vec3(a.HalfExtent()), level)
		default:
			c.camera.DrawMesh(c.canvas, draw.Icosahedron, a.Position, q, vec3(a.Radius), level)
		}
	}
}

func (c *Client) drawProjectiles() {
	radius := c.game.Rules().Weapon.ProjectileRadius
	for _, p := range c.game.Projectiles {
		pt, depth, ok := c.camera.Project(p.Position)
		if !ok {
			continue
		}
		r := max(c.camera.ScreenRadius(radius, depth), 0.5)
		c.canvas.FillCircle(pt, r, draw.MaxLevel)
	}
}

// drawShip draws the hull boxes with the cosmetic tilt, fading with the
// invulnerability pulse.
func (c *Client) drawShip() {
	ship := c.game.Ship
	q := ship.VisualOrientation()
	level := draw.Level(0.3 + 0.7*c.game.Pulse())
	for _, part := range c.game.Hull() {
		center := ship.Position.Add(q.Rotate(part.Offset))
		c.camera.DrawMesh(c.canvas, draw.Cube, center, q, part.HalfExtents, level)
	}
}

func vec3(v float64) mgl64.Vec3 {
	return mgl64.Vec3{v, v, v}
}
