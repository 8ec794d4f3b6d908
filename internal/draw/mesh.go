package draw

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

// Mesh is a wireframe: vertices around the origin and the edges between them.
type Mesh struct {
	Vertices []mgl64.Vec3
	Edges    [][2]int
}

// Cube is an axis-aligned cube with half-extent 1.
var Cube = Mesh{
	Vertices: []mgl64.Vec3{
		{-1, -1, -1}, {1, -1, -1}, {1, 1, -1}, {-1, 1, -1},
		{-1, -1, 1}, {1, -1, 1}, {1, 1, 1}, {-1, 1, 1},
	},
	Edges: [][2]int{
		{0, 1}, {1, 2}, {2, 3}, {3, 0},
		{4, 5}, {5, 6}, {6, 7}, {7, 4},
		{0, 4}, {1, 5}, {2, 6}, {3, 7},
	},
}

// Icosahedron is a regular icosahedron with circumradius 1.
var Icosahedron = newIcosahedron()

func newIcosahedron() Mesh {
	phi := (1 + math.Sqrt(5)) / 2
	raw := []mgl64.Vec3{
		{-1, phi, 0}, {1, phi, 0}, {-1, -phi, 0}, {1, -phi, 0},
		{0, -1, phi}, {0, 1, phi}, {0, -1, -phi}, {0, 1, -phi},
		{phi, 0, -1}, {phi, 0, 1}, {-phi, 0, -1}, {-phi, 0, 1},
	}
	verts := make([]mgl64.Vec3, len(raw))
	for i, v := range raw {
		verts[i] = v.Normalize()
	}

	// Neighbours sit exactly one edge length apart.
	edgeLen := raw[0].Sub(raw[1]).Len()
	var edges [][2]int
	for i := range raw {
		for j := i + 1; j < len(raw); j++ {
			if math.Abs(raw[i].Sub(raw[j]).Len()-edgeLen) < 1e-9 {
				edges = append(edges, [2]int{i, j})
			}
		}
	}
	return Mesh{Vertices: verts, Edges: edges}
}

// DrawMesh projects mesh, scaled per axis by scale and rotated by q around
// center, and draws every edge with both ends in front of the camera.
func (c *Camera) DrawMesh(canvas *Canvas, mesh Mesh, center mgl64.Vec3, q mgl64.Quat, scale mgl64.Vec3, level uint8) {
	pts := canvas.BorrowPoints(len(mesh.Vertices))
	var visible uint64
	for i, v := range mesh.Vertices {
		world := center.Add(q.Rotate(mgl64.Vec3{v[0] * scale[0], v[1] * scale[1], v[2] * scale[2]}))
		pt, _, ok := c.Project(world)
		if ok {
			pts[i] = pt
			visible |= 1 << uint(i)
		}
	}
	for _, e := range mesh.Edges {
		if visible&(1<<uint(e[0])) != 0 && visible&(1<<uint(e[1])) != 0 {
			canvas.DrawLine(pts[e[0]], pts[e[1]], level)
		}
	}
}
