// Package tracer answers closest-hit ray queries against BVH2 and BVH4
// buffers. It is used to check that a collapsed tree returns the same hits as
// its source tree.
package tracer

import (
	"math"

	"github.com/achilleasa/bvh4/asset/bvh"
	"github.com/achilleasa/bvh4/asset/mesh"
	"github.com/go-gl/mathgl/mgl32"
)

const (
	// Primitive index reported when a ray misses all primitives.
	NoHit = -1

	// Direction components with a smaller magnitude are treated as parallel
	// to the corresponding slab.
	parallelEpsilon float32 = 1e-8

	// Substitute for the inverse of a zero direction component.
	largeInvDir float32 = 1e30
)

var missDist = float32(math.Inf(1))

// A ray with an origin and a (not necessarily normalized) direction.
type Ray struct {
	Origin mgl32.Vec3
	Dir    mgl32.Vec3
}

// A triangle referenced by leaf payloads.
type Triangle [3]mgl32.Vec3

// The result of a ray query.
type Hit struct {
	// Index of the closest intersected primitive or NoHit.
	Primitive int

	// Ray distance to the intersection; +Inf for misses.
	T float32

	// Traversal counters.
	Visited   int
	LeafTests int
}

type stackEntry struct {
	node uint32
	dist float32
}

// Convert mesh triangles into the tracer representation.
func FromMesh(m *mesh.Mesh) []Triangle {
	tris := make([]Triangle, len(m.Triangles))
	for index, tri := range m.Triangles {
		tris[index] = Triangle{
			mgl32.Vec3(tri.Vertices[0]),
			mgl32.Vec3(tri.Vertices[1]),
			mgl32.Vec3(tri.Vertices[2]),
		}
	}
	return tris
}

// Find the closest primitive hit by ray in a BVH2 buffer.
func Trace2(tree bvh.Bvh2, tris []Triangle, ray Ray) Hit {
	hit := Hit{Primitive: NoHit, T: missDist}
	nodeCount := tree.NodeCount()
	if nodeCount == 0 {
		return hit
	}

	invDir := invert(ray.Dir)
	stack := []stackEntry{{0, intersectAABB(ray.Origin, invDir, tree.Bounds(0))}}
	var candidates [2]stackEntry
	for len(stack) > 0 {
		entry := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		hit.Visited++

		if entry.node >= nodeCount || entry.dist >= hit.T {
			continue
		}

		if tree.IsLeaf(entry.node) {
			hit.intersect(tris, bvh.LeafPayload(tree.Meta(entry.node)), ray)
			continue
		}

		left, right := tree.Children(entry.node)
		count := 0
		for _, child := range [2]uint32{left, right} {
			if child >= nodeCount {
				continue
			}
			candidates[count] = stackEntry{child, intersectAABB(ray.Origin, invDir, tree.Bounds(child))}
			count++
		}
		stack = pushNearFirst(stack, candidates[:count], hit.T)
	}

	return hit
}

// Find the closest primitive hit by ray in a BVH4 buffer.
func Trace4(tree bvh.Bvh4, tris []Triangle, ray Ray) Hit {
	hit := Hit{Primitive: NoHit, T: missDist}
	nodeCount := tree.NodeCount()
	if nodeCount == 0 {
		return hit
	}

	invDir := invert(ray.Dir)
	stack := []stackEntry{{0, intersectAABB(ray.Origin, invDir, tree.Bounds(0))}}
	var candidates [4]stackEntry
	for len(stack) > 0 {
		entry := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		hit.Visited++

		if entry.node >= nodeCount || entry.dist >= hit.T {
			continue
		}

		if tree.IsLeaf(entry.node) {
			hit.intersect(tris, bvh.LeafPayload(tree.Meta(entry.node)), ray)
			continue
		}

		count := 0
		for _, child := range tree.Children(entry.node) {
			if child == bvh.Invalid {
				break
			}
			if child >= nodeCount {
				continue
			}
			candidates[count] = stackEntry{child, intersectAABB(ray.Origin, invDir, tree.Bounds(child))}
			count++
		}
		stack = pushNearFirst(stack, candidates[:count], hit.T)
	}

	return hit
}

// Test the primitive referenced by a leaf and record it if it is closer
// than the current hit.
func (h *Hit) intersect(tris []Triangle, primitive uint32, ray Ray) {
	h.LeafTests++
	if int(primitive) >= len(tris) {
		return
	}

	if t := intersectTriangle(ray, tris[primitive]); t < h.T {
		h.T = t
		h.Primitive = int(primitive)
	}
}

// Push the candidates that may still beat closest so that the nearest one
// ends up on top of the stack.
func pushNearFirst(stack []stackEntry, candidates []stackEntry, closest float32) []stackEntry {
	// insertion sort by descending distance
	for i := 1; i < len(candidates); i++ {
		for j := i; j > 0 && candidates[j].dist > candidates[j-1].dist; j-- {
			candidates[j], candidates[j-1] = candidates[j-1], candidates[j]
		}
	}

	for _, c := range candidates {
		if c.dist < closest {
			stack = append(stack, c)
		}
	}
	return stack
}
