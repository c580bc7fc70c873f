package bvh4

import (
	"math/rand"

	"github.com/achilleasa/bvh4/asset/bvh"
	"github.com/achilleasa/bvh4/asset/half"
	"github.com/achilleasa/bvh4/types"
)

type testNode struct {
	box         types.AABB
	left, right uint32
	meta        uint32
}

func encodeTree(nodes []testNode) bvh.Bvh2 {
	tree := bvh.NewBvh2(uint32(len(nodes)))
	for index, n := range nodes {
		tree.WriteNode(uint32(index), half.PackAABB(n.box), n.left, n.right, n.meta)
	}
	return tree
}

func leafNode(payload uint32, min, max types.Vec3) testNode {
	return testNode{box: types.AABB{Min: min, Max: max}, meta: bvh.LeafMeta(payload)}
}

func innerNode(nodes []testNode, left, right uint32) testNode {
	return testNode{
		box:   nodes[left].box.Union(nodes[right].box),
		left:  left,
		right: right,
	}
}

// A single leaf tree.
func singleLeafTree() bvh.Bvh2 {
	return encodeTree([]testNode{leafNode(0, types.XYZ(-1, -2, -3), types.XYZ(1, 2, 3))})
}

// 0 -> (1, 2); 2 -> (3, 4).
func threeLeafTree() bvh.Bvh2 {
	nodes := make([]testNode, 5)
	nodes[1] = leafNode(10, types.XYZ(0, 0, 0), types.XYZ(1, 1, 1))
	nodes[3] = leafNode(11, types.XYZ(2, 0, 0), types.XYZ(3, 1, 1))
	nodes[4] = leafNode(12, types.XYZ(4, 0, 0), types.XYZ(5, 2, 1))
	nodes[2] = innerNode(nodes, 3, 4)
	nodes[0] = innerNode(nodes, 1, 2)
	return encodeTree(nodes)
}

// 0 -> (1, 2); 1 -> (3, 4); 2 -> (5, 6).
func balancedTree() bvh.Bvh2 {
	nodes := make([]testNode, 7)
	nodes[3] = leafNode(0, types.XYZ(0, 0, 0), types.XYZ(1, 1, 1))
	nodes[4] = leafNode(1, types.XYZ(1, 0, 0), types.XYZ(2, 1, 1))
	nodes[5] = leafNode(2, types.XYZ(0, 2, 0), types.XYZ(1, 3, 1))
	nodes[6] = leafNode(3, types.XYZ(1, 2, 0), types.XYZ(2, 3, 4))
	nodes[1] = innerNode(nodes, 3, 4)
	nodes[2] = innerNode(nodes, 5, 6)
	nodes[0] = innerNode(nodes, 1, 2)
	return encodeTree(nodes)
}

// Generate a random full binary tree with leafCount leaves. Leaf boxes use
// integer coordinates so they survive half packing unchanged. Node indices
// other than the root are shuffled.
func randomTree(rng *rand.Rand, leafCount int) bvh.Bvh2 {
	return randomTreeWithBoxes(rng, leafCount, integerBox)
}

func integerBox(rng *rand.Rand) types.AABB {
	min := types.XYZ(float32(rng.Intn(512)-256), float32(rng.Intn(512)-256), float32(rng.Intn(512)-256))
	max := min.Add(types.XYZ(float32(rng.Intn(16)), float32(rng.Intn(16)), float32(rng.Intn(16))))
	return types.AABB{Min: min, Max: max}
}

// A box whose coordinates mix fractions with values below the smallest
// normal half, which packing flushes to zero.
func fractionalBox(rng *rand.Rand) types.AABB {
	scales := []float32{1e-7, 3e-6, 5e-5, 0.01, 0.37, 3.3, 71.9}
	var box types.AABB
	for axis := 0; axis < 3; axis++ {
		scale := scales[rng.Intn(len(scales))]
		box.Min[axis] = (rng.Float32()*2 - 1) * scale
		box.Max[axis] = box.Min[axis] + rng.Float32()*scale
	}
	return box
}

func randomTreeWithBoxes(rng *rand.Rand, leafCount int, leafBox func(*rand.Rand) types.AABB) bvh.Bvh2 {
	nodes := make([]testNode, 0, 2*leafCount-1)

	var build func(lo, hi int) uint32
	build = func(lo, hi int) uint32 {
		index := uint32(len(nodes))
		nodes = append(nodes, testNode{})
		if hi-lo == 1 {
			box := leafBox(rng)
			nodes[index] = leafNode(uint32(lo), box.Min, box.Max)
			return index
		}

		mid := lo + 1 + rng.Intn(hi-lo-1)
		left := build(lo, mid)
		right := build(mid, hi)
		nodes[index] = innerNode(nodes, left, right)
		return index
	}
	build(0, leafCount)

	remap := make([]uint32, len(nodes))
	for i, p := range rng.Perm(len(nodes) - 1) {
		remap[i+1] = uint32(p + 1)
	}

	shuffled := make([]testNode, len(nodes))
	for index, n := range nodes {
		if n.meta&bvh.LeafFlag == 0 {
			n.left, n.right = remap[n.left], remap[n.right]
		}
		shuffled[remap[index]] = n
	}
	return encodeTree(shuffled)
}

// A degenerate tree where every internal node has a leaf on its left and the
// rest of the tree on its right.
func caterpillarTree(leafCount int) bvh.Bvh2 {
	nodeCount := 2*leafCount - 1
	nodes := make([]testNode, nodeCount)

	// Last node is the deepest leaf.
	last := uint32(nodeCount - 1)
	nodes[last] = leafNode(uint32(leafCount-1), types.XYZ(0, 0, 0), types.XYZ(1, 1, 1))
	for i := leafCount - 2; i >= 0; i-- {
		inner := uint32(2 * i)
		leaf := inner + 1
		x := float32(i % 1024)
		nodes[leaf] = leafNode(uint32(i), types.XYZ(x, 0, 0), types.XYZ(x+1, 1, 1))
		nodes[inner] = innerNode(nodes, leaf, inner+2)
	}
	return encodeTree(nodes)
}
