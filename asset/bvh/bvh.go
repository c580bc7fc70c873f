// Package bvh provides accessors for the flat word buffers that store binary
// (BVH2) and quaternary (BVH4) bounding volume hierarchies.
//
// Both buffers start with a header word holding the node count followed by
// fixed-size node records:
//
//	BVH2 (6 words): bounds[3] left right meta
//	BVH4 (8 words): bounds[3] child[4] meta
//
// Bounds are packed as half-float pairs (see package half). The high bit of
// the meta word flags a leaf; the remaining bits hold the leaf payload.
// Internal nodes store a zero meta word.
package bvh

import (
	"github.com/achilleasa/bvh4/asset/half"
	"github.com/achilleasa/bvh4/types"
)

const (
	// Number of words per BVH2 node record.
	Node2Stride = 6

	// Number of words per BVH4 node record.
	Node4Stride = 8

	// Set in the meta word of leaf nodes.
	LeafFlag uint32 = 0x80000000

	// Marks an unused BVH4 child slot.
	Invalid uint32 = 0xFFFFFFFF

	headerWords = 1
	metaWord2   = 5
	metaWord4   = 7
	childWord   = 3
)

// Build a leaf meta word for the given payload. The payload high bit is dropped.
func LeafMeta(payload uint32) uint32 {
	return LeafFlag | (payload &^ LeafFlag)
}

// Extract the payload of a leaf meta word.
func LeafPayload(meta uint32) uint32 {
	return meta &^ LeafFlag
}

// A BVH2 buffer.
type Bvh2 []uint32

// Allocate a BVH2 buffer for nodeCount nodes.
func NewBvh2(nodeCount uint32) Bvh2 {
	b := make(Bvh2, headerWords+int(nodeCount)*Node2Stride)
	b[0] = nodeCount
	return b
}

// Get the node count stored in the header.
func (b Bvh2) NodeCount() uint32 {
	if len(b) == 0 {
		return 0
	}
	return b[0]
}

// Get the number of primitives referenced by the tree. For a full binary
// tree with T leaves there are 2T-1 nodes.
func (b Bvh2) TriangleCount() uint32 {
	return (b.NodeCount() + 1) / 2
}

// Get the word offset of node n.
func (b Bvh2) Offset(n uint32) int {
	return headerWords + int(n)*Node2Stride
}

// Returns true if n is a leaf. Indices past the node count are treated as
// absent nodes and also report true.
func (b Bvh2) IsLeaf(n uint32) bool {
	if n >= b.NodeCount() {
		return true
	}
	return b[b.Offset(n)+metaWord2]&LeafFlag != 0
}

// Get the left and right child indices of node n.
func (b Bvh2) Children(n uint32) (left, right uint32) {
	off := b.Offset(n)
	return b[off+childWord], b[off+childWord+1]
}

// Get the packed bounds of node n.
func (b Bvh2) PackedBounds(n uint32) [3]uint32 {
	off := b.Offset(n)
	return [3]uint32{b[off], b[off+1], b[off+2]}
}

// Get the decoded bounds of node n.
func (b Bvh2) Bounds(n uint32) types.AABB {
	return half.UnpackAABB(b.PackedBounds(n))
}

// Get the meta word of node n.
func (b Bvh2) Meta(n uint32) uint32 {
	return b[b.Offset(n)+metaWord2]
}

// Write node n.
func (b Bvh2) WriteNode(n uint32, bounds [3]uint32, left, right, meta uint32) {
	off := b.Offset(n)
	copy(b[off:off+3], bounds[:])
	b[off+childWord] = left
	b[off+childWord+1] = right
	b[off+metaWord2] = meta
}

// A BVH4 buffer.
type Bvh4 []uint32

// Allocate a BVH4 buffer sized for exactly nodeCount node records. The header
// is left at zero until SetNodeCount is called.
func NewBvh4(nodeCount uint32) Bvh4 {
	return make(Bvh4, headerWords+int(nodeCount)*Node4Stride)
}

// Get the node count stored in the header.
func (b Bvh4) NodeCount() uint32 {
	if len(b) == 0 {
		return 0
	}
	return b[0]
}

// Update the header node count.
func (b Bvh4) SetNodeCount(count uint32) {
	b[0] = count
}

// Get the word offset of node n.
func (b Bvh4) Offset(n uint32) int {
	return headerWords + int(n)*Node4Stride
}

// Returns true if n is a leaf or lies past the node count.
func (b Bvh4) IsLeaf(n uint32) bool {
	if n >= b.NodeCount() {
		return true
	}
	return b[b.Offset(n)+metaWord4]&LeafFlag != 0
}

// Get the four child slots of node n.
func (b Bvh4) Children(n uint32) [4]uint32 {
	off := b.Offset(n) + childWord
	return [4]uint32{b[off], b[off+1], b[off+2], b[off+3]}
}

// Get the packed bounds of node n.
func (b Bvh4) PackedBounds(n uint32) [3]uint32 {
	off := b.Offset(n)
	return [3]uint32{b[off], b[off+1], b[off+2]}
}

// Get the decoded bounds of node n.
func (b Bvh4) Bounds(n uint32) types.AABB {
	return half.UnpackAABB(b.PackedBounds(n))
}

// Get the meta word of node n.
func (b Bvh4) Meta(n uint32) uint32 {
	return b[b.Offset(n)+metaWord4]
}

// Write node n.
func (b Bvh4) WriteNode(n uint32, bounds [3]uint32, children [4]uint32, meta uint32) {
	off := b.Offset(n)
	copy(b[off:off+3], bounds[:])
	copy(b[off+childWord:off+childWord+4], children[:])
	b[off+metaWord4] = meta
}
