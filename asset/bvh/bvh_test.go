package bvh

import (
	"testing"

	"github.com/achilleasa/bvh4/asset/half"
	"github.com/achilleasa/bvh4/types"
)

func packBox(min, max types.Vec3) [3]uint32 {
	return half.PackAABB(types.AABB{Min: min, Max: max})
}

// Build a 3-leaf tree: 0 -> (1, 2), 2 -> (3, 4).
func threeLeafBvh2() Bvh2 {
	b := NewBvh2(5)
	b.WriteNode(0, packBox(types.XYZ(0, 0, 0), types.XYZ(3, 1, 1)), 1, 2, 0)
	b.WriteNode(1, packBox(types.XYZ(0, 0, 0), types.XYZ(1, 1, 1)), 0, 0, LeafMeta(0))
	b.WriteNode(2, packBox(types.XYZ(1, 0, 0), types.XYZ(3, 1, 1)), 3, 4, 0)
	b.WriteNode(3, packBox(types.XYZ(1, 0, 0), types.XYZ(2, 1, 1)), 0, 0, LeafMeta(1))
	b.WriteNode(4, packBox(types.XYZ(2, 0, 0), types.XYZ(3, 1, 1)), 0, 0, LeafMeta(2))
	return b
}

func TestBvh2Accessors(t *testing.T) {
	b := threeLeafBvh2()

	if exp := 1 + 5*Node2Stride; len(b) != exp {
		t.Fatalf("expected buffer to hold %d words; got %d", exp, len(b))
	}
	if b.NodeCount() != 5 {
		t.Fatalf("expected node count 5; got %d", b.NodeCount())
	}
	if b.TriangleCount() != 3 {
		t.Fatalf("expected triangle count 3; got %d", b.TriangleCount())
	}
	if off := b.Offset(2); off != 13 {
		t.Fatalf("expected node 2 offset 13; got %d", off)
	}

	type spec struct {
		node    uint32
		expLeaf bool
	}
	specs := []spec{
		{0, false},
		{1, true},
		{2, false},
		{3, true},
		{4, true},
		// Past the node count: treated as absent.
		{5, true},
		{Invalid, true},
	}
	for index, s := range specs {
		if leaf := b.IsLeaf(s.node); leaf != s.expLeaf {
			t.Fatalf("[spec %d] expected IsLeaf(%d) to be %t; got %t", index, s.node, s.expLeaf, leaf)
		}
	}

	left, right := b.Children(2)
	if left != 3 || right != 4 {
		t.Fatalf("expected node 2 children to be (3, 4); got (%d, %d)", left, right)
	}

	if payload := LeafPayload(b.Meta(4)); payload != 2 {
		t.Fatalf("expected node 4 payload 2; got %d", payload)
	}

	bounds := b.Bounds(2)
	if bounds.Min != types.XYZ(1, 0, 0) || bounds.Max != types.XYZ(3, 1, 1) {
		t.Fatalf("expected node 2 bounds (1,0,0)-(3,1,1); got %v-%v", bounds.Min, bounds.Max)
	}
}

func TestBvh4Accessors(t *testing.T) {
	b := NewBvh4(2)
	if exp := 1 + 2*Node4Stride; len(b) != exp {
		t.Fatalf("expected buffer to hold %d words; got %d", exp, len(b))
	}
	if b.NodeCount() != 0 {
		t.Fatalf("expected header to be zero before SetNodeCount; got %d", b.NodeCount())
	}
	b.SetNodeCount(2)

	bounds := packBox(types.XYZ(-1, -1, -1), types.XYZ(1, 1, 1))
	b.WriteNode(0, bounds, [4]uint32{1, Invalid, Invalid, Invalid}, 0)
	b.WriteNode(1, bounds, [4]uint32{Invalid, Invalid, Invalid, Invalid}, LeafMeta(7))

	if b.IsLeaf(0) || !b.IsLeaf(1) || !b.IsLeaf(2) {
		t.Fatal("unexpected leaf flags")
	}
	if children := b.Children(0); children != [4]uint32{1, Invalid, Invalid, Invalid} {
		t.Fatalf("unexpected node 0 children %v", children)
	}
	if b.PackedBounds(1) != bounds {
		t.Fatalf("expected node 1 packed bounds %v; got %v", bounds, b.PackedBounds(1))
	}
	if b.Meta(1) != LeafFlag|7 {
		t.Fatalf("expected node 1 meta %#x; got %#x", LeafFlag|7, b.Meta(1))
	}
}

func TestLeafMeta(t *testing.T) {
	if meta := LeafMeta(0x80000005); meta != 0x80000005 {
		t.Fatalf("expected payload high bit to be folded into the leaf flag; got %#x", meta)
	}
	if payload := LeafPayload(LeafMeta(42)); payload != 42 {
		t.Fatalf("expected payload 42; got %d", payload)
	}
}

func TestCheckSize(t *testing.T) {
	if err := threeLeafBvh2().CheckSize(); err != nil {
		t.Fatal(err)
	}
	if err := Bvh2(nil).CheckSize(); err != ErrEmptyBuffer {
		t.Fatalf("expected ErrEmptyBuffer; got %v", err)
	}

	truncated := threeLeafBvh2()[:10]
	expError := "bvh: buffer is shorter than its header declares: 5 nodes need 31 words; got 10"
	if err := truncated.CheckSize(); err == nil || err.Error() != expError {
		t.Fatalf("expected to get: %s; got %v", expError, err)
	}

	if err := NewBvh4(3).CheckSize(); err != nil {
		t.Fatalf("expected zero header to pass size check; got %v", err)
	}
}
