package tracer

import (
	"github.com/achilleasa/bvh4/types"
	"github.com/go-gl/mathgl/mgl32"
)

const triangleEpsilon float32 = 1e-7

func invert(dir mgl32.Vec3) mgl32.Vec3 {
	var inv mgl32.Vec3
	for axis := 0; axis < 3; axis++ {
		if mgl32.Abs(dir[axis]) > parallelEpsilon {
			inv[axis] = 1.0 / dir[axis]
		} else {
			inv[axis] = largeInvDir
		}
	}
	return inv
}

// Slab test. Returns the entry distance along the ray (negative when the
// origin lies inside the box) or +Inf when the box is missed.
func intersectAABB(origin, invDir mgl32.Vec3, box types.AABB) float32 {
	tMin := float32(-missDist)
	tMax := missDist
	for axis := 0; axis < 3; axis++ {
		t1 := (box.Min[axis] - origin[axis]) * invDir[axis]
		t2 := (box.Max[axis] - origin[axis]) * invDir[axis]
		if t1 > t2 {
			t1, t2 = t2, t1
		}
		if t1 > tMin {
			tMin = t1
		}
		if t2 < tMax {
			tMax = t2
		}
	}

	if tMax >= tMin && tMax >= 0 {
		return tMin
	}
	return missDist
}

// Moller-Trumbore ray/triangle intersection. Returns the hit distance or
// +Inf on a miss.
func intersectTriangle(ray Ray, tri Triangle) float32 {
	e1 := tri[1].Sub(tri[0])
	e2 := tri[2].Sub(tri[0])
	p := ray.Dir.Cross(e2)
	det := e1.Dot(p)
	if mgl32.Abs(det) < triangleEpsilon {
		return missDist
	}

	invDet := 1.0 / det
	s := ray.Origin.Sub(tri[0])
	u := invDet * s.Dot(p)
	if u < 0 || u > 1 {
		return missDist
	}

	q := s.Cross(e1)
	v := invDet * ray.Dir.Dot(q)
	if v < 0 || u+v > 1 {
		return missDist
	}

	t := invDet * e2.Dot(q)
	if t > triangleEpsilon {
		return t
	}
	return missDist
}
