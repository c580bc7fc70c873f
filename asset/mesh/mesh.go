package mesh

import "github.com/achilleasa/bvh4/types"

// A triangle primitive.
type Triangle struct {
	Vertices [3]types.Vec3

	bbox   types.AABB
	center types.Vec3
}

// Create a triangle and precalculate its AABB and centroid.
func NewTriangle(v0, v1, v2 types.Vec3) *Triangle {
	return &Triangle{
		Vertices: [3]types.Vec3{v0, v1, v2},
		bbox:     types.EmptyAABB().Extend(v0).Extend(v1).Extend(v2),
		center:   v0.Add(v1).Add(v2).Mul(1.0 / 3.0),
	}
}

// Get the triangle AABB.
func (tri *Triangle) BBox() types.AABB {
	return tri.bbox
}

// Get the triangle centroid.
func (tri *Triangle) Center() types.Vec3 {
	return tri.center
}

// A mesh is a flat list of triangles.
type Mesh struct {
	Name      string
	Triangles []*Triangle
}

// Get the mesh AABB.
func (m *Mesh) BBox() types.AABB {
	box := types.EmptyAABB()
	for _, tri := range m.Triangles {
		box = box.Union(tri.bbox)
	}
	return box
}
