package bvh4

import (
	"testing"

	"github.com/achilleasa/bvh4/asset/bvh"
	"github.com/achilleasa/bvh4/types"
)

func TestWidenFirstInternal(t *testing.T) {
	inv := bvh.Invalid

	type spec struct {
		tree bvh.Bvh2
		exp  [4]uint32
	}
	specs := []spec{
		// Leaf + internal: the internal entry is replaced by its leaves.
		{threeLeafTree(), [4]uint32{1, 3, 4, inv}},
		// Two internal children: both get expanded.
		{balancedTree(), [4]uint32{3, 4, 5, 6}},
		// Leaf + chain: expansion continues into the appended entries.
		{caterpillarTree(6), [4]uint32{1, 3, 5, 6}},
		// Two leaves: nothing to expand.
		{caterpillarTree(2), [4]uint32{1, 2, inv, inv}},
	}

	for index, s := range specs {
		left, right := s.tree.Children(0)
		got := Widen(s.tree, left, right, FirstInternal)
		if got != s.exp {
			t.Fatalf("[spec %d] expected widened list %v; got %v", index, s.exp, got)
		}
	}
}

func TestWidenStopsAtFourEntries(t *testing.T) {
	// Both children of the root have internal children of their own; only
	// the first two expansions are applied.
	tree := caterpillarTree(8)
	left, right := tree.Children(0)
	got := Widen(tree, left, right, FirstInternal)
	for slot, child := range got {
		if child == bvh.Invalid {
			t.Fatalf("expected all 4 slots to be populated; slot %d is invalid", slot)
		}
	}
	if !tree.IsLeaf(got[0]) || !tree.IsLeaf(got[1]) || !tree.IsLeaf(got[2]) || tree.IsLeaf(got[3]) {
		t.Fatalf("expected 3 leaves followed by the unexpanded chain remainder; got %v", got)
	}
}

// 0 -> (1, 2); 1 small internal -> (3, 4); 2 large internal -> (5, 6);
// 5 internal -> (7, 8).
func lopsidedTree() bvh.Bvh2 {
	nodes := make([]testNode, 9)
	nodes[3] = leafNode(0, types.XYZ(0, 0, 0), types.XYZ(1, 1, 1))
	nodes[4] = leafNode(1, types.XYZ(1, 0, 0), types.XYZ(2, 1, 1))
	nodes[6] = leafNode(2, types.XYZ(10, 0, 0), types.XYZ(11, 1, 1))
	nodes[7] = leafNode(3, types.XYZ(20, 0, 0), types.XYZ(30, 10, 10))
	nodes[8] = leafNode(4, types.XYZ(40, 0, 0), types.XYZ(50, 10, 10))
	nodes[5] = innerNode(nodes, 7, 8)
	nodes[1] = innerNode(nodes, 3, 4)
	nodes[2] = innerNode(nodes, 5, 6)
	nodes[0] = innerNode(nodes, 1, 2)
	return encodeTree(nodes)
}

func TestWidenLargestSurfaceArea(t *testing.T) {
	tree := lopsidedTree()
	left, right := tree.Children(0)

	if got, exp := Widen(tree, left, right, FirstInternal), [4]uint32{3, 4, 5, 6}; got != exp {
		t.Fatalf("expected scan order widening %v; got %v", exp, got)
	}
	if got, exp := Widen(tree, left, right, LargestSurfaceArea), [4]uint32{1, 6, 7, 8}; got != exp {
		t.Fatalf("expected surface area widening %v; got %v", exp, got)
	}
}
