package types

// An axis-aligned bounding box.
type AABB struct {
	Min Vec3
	Max Vec3
}

// Create an empty box that can be grown with Extend/Union. Its min extent is
// initialized to +Inf and its max extent to -Inf.
func EmptyAABB() AABB {
	return AABB{Min: PosInfVec3(), Max: NegInfVec3()}
}

// Returns true if the box has not been extended.
func (b AABB) IsEmpty() bool {
	return b.Min[0] > b.Max[0] || b.Min[1] > b.Max[1] || b.Min[2] > b.Max[2]
}

// Return the union of two boxes.
func (b AABB) Union(b2 AABB) AABB {
	return AABB{
		Min: MinVec3(b.Min, b2.Min),
		Max: MaxVec3(b.Max, b2.Max),
	}
}

// Grow box to include a point.
func (b AABB) Extend(p Vec3) AABB {
	return AABB{
		Min: MinVec3(b.Min, p),
		Max: MaxVec3(b.Max, p),
	}
}

// Returns true if b2 lies entirely inside b.
func (b AABB) Contains(b2 AABB) bool {
	for axis := 0; axis < 3; axis++ {
		if b2.Min[axis] < b.Min[axis] || b2.Max[axis] > b.Max[axis] {
			return false
		}
	}
	return true
}

// Get box center.
func (b AABB) Center() Vec3 {
	return b.Min.Add(b.Max).Mul(0.5)
}

// Get box side lengths.
func (b AABB) Extent() Vec3 {
	return b.Max.Sub(b.Min)
}

// Calculate the box surface area. Empty boxes have a zero area.
func (b AABB) SurfaceArea() float32 {
	if b.IsEmpty() {
		return 0
	}
	side := b.Extent()
	return 2 * (side[0]*side[1] + side[1]*side[2] + side[0]*side[2])
}
