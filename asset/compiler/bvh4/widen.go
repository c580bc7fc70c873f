package bvh4

import "github.com/achilleasa/bvh4/asset/bvh"

var (
	// Expand the first internal entry in scan order.
	FirstInternal = firstInternal{}

	// Expand the internal entry with the largest bounding box surface area.
	// Ties are broken by scan order.
	LargestSurfaceArea = largestSurfaceArea{}
)

// A WidenStrategy selects which entry of a working child list gets replaced
// by its two children while a node is being widened.
type WidenStrategy interface {
	// Return the index of the list entry to expand or -1 if no entry can be
	// expanded.
	SelectExpansion(tree bvh.Bvh2, list []uint32) int
}

// Widen the children of a BVH2 internal node into a list of up to 4 BVH2
// nodes. Starting from [left, right], an internal entry chosen by strategy
// is removed and its children are appended until the list holds 4 entries or
// only leaves remain. Unused entries are set to bvh.Invalid.
func Widen(tree bvh.Bvh2, left, right uint32, strategy WidenStrategy) [4]uint32 {
	var list [4]uint32
	list[0], list[1] = left, right
	count := 2

	for count < 4 {
		sel := strategy.SelectExpansion(tree, list[:count])
		if sel < 0 {
			break
		}

		l, r := tree.Children(list[sel])
		copy(list[sel:count-1], list[sel+1:count])
		list[count-1] = l
		list[count] = r
		count++
	}

	for ; count < 4; count++ {
		list[count] = bvh.Invalid
	}
	return list
}

type firstInternal struct{}

func (firstInternal) SelectExpansion(tree bvh.Bvh2, list []uint32) int {
	for index, node := range list {
		if !tree.IsLeaf(node) {
			return index
		}
	}
	return -1
}

type largestSurfaceArea struct{}

func (largestSurfaceArea) SelectExpansion(tree bvh.Bvh2, list []uint32) int {
	best := -1
	var bestArea float32
	for index, node := range list {
		if tree.IsLeaf(node) {
			continue
		}
		if area := tree.Bounds(node).SurfaceArea(); best == -1 || area > bestArea {
			best = index
			bestArea = area
		}
	}
	return best
}
