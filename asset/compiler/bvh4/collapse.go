// Package bvh4 converts BVH2 buffers into BVH4 buffers.
//
// Collapse widens every visited internal node by flattening up to two binary
// levels into a single node with up to four children and recomputes the
// packed bounds of every internal node from the bounds of its new children.
// The traversal keeps its state in an explicit frame stack so that deep
// trees cannot exhaust the goroutine stack.
//
// The input must be a well-formed full binary tree rooted at node 0. Cyclic
// or out-of-range child references are not detected and lead to undefined
// results.
package bvh4

import (
	"time"

	"github.com/achilleasa/bvh4/asset/bvh"
	"github.com/achilleasa/bvh4/asset/half"
	"github.com/achilleasa/bvh4/log"
	"github.com/achilleasa/bvh4/types"
)

// Collapse options. Zero values select the defaults.
type Options struct {
	// The widening policy; defaults to FirstInternal.
	Strategy WidenStrategy

	// Logger for timing information; defaults to a "bvh4" module logger.
	Logger log.Logger
}

func (opts Options) withDefaults() Options {
	if opts.Strategy == nil {
		opts.Strategy = FirstInternal
	}
	if opts.Logger == nil {
		opts.Logger = log.New("bvh4")
	}
	return opts
}

type frameState uint8

const (
	unexpanded frameState = iota
	expanded
)

// A pending node conversion.
type frame struct {
	state frameState

	// Source BVH2 node and its reserved BVH4 slot.
	src uint32
	dst uint32

	// Widened BVH2 children and the BVH4 slots they were assigned.
	children    [4]uint32
	dstChildren [4]uint32

	// Stack index of the parent frame (-1 for the root) and the child slot
	// of the parent that receives dst.
	parent int
	slot   int
}

var noChildren = [4]uint32{bvh.Invalid, bvh.Invalid, bvh.Invalid, bvh.Invalid}

// Collapse a BVH2 buffer into a BVH4 buffer. The triangle count may be
// obtained from the buffer header via bvh.Bvh2.TriangleCount. The output
// buffer holds exactly 2*triangleCount-1 node records and its header is set
// to that count; nodes are written in allocation order starting with the
// root at index 0. Records that the widening leaves unused stay zeroed and
// are unreachable from the root.
//
// A zero triangle count yields a header-only buffer and a zero node count.
func Collapse(tree []uint32, triangleCount uint32, opts Options) (out []uint32, nodeCount uint32) {
	if triangleCount == 0 {
		return []uint32(bvh.NewBvh4(0)), 0
	}
	opts = opts.withDefaults()

	start := time.Now()
	src := bvh.Bvh2(tree)
	nodeCount = 2*triangleCount - 1
	dst := bvh.NewBvh4(nodeCount)

	var next uint32
	stack := make([]frame, 1, 64)
	stack[0] = frame{src: 0, parent: -1}
	for len(stack) > 0 {
		top := len(stack) - 1
		f := &stack[top]

		if f.state == expanded {
			bounds := types.EmptyAABB()
			for _, child := range f.dstChildren {
				if child != bvh.Invalid {
					bounds = bounds.Union(dst.Bounds(child))
				}
			}
			dst.WriteNode(f.dst, half.PackAABB(bounds), f.dstChildren, 0)
			stack = report(stack)
			continue
		}

		f.dst = next
		next++

		if src.IsLeaf(f.src) {
			dst.WriteNode(f.dst, src.PackedBounds(f.src), noChildren, src.Meta(f.src))
			stack = report(stack)
			continue
		}

		left, right := src.Children(f.src)
		children := Widen(src, left, right, opts.Strategy)
		f.children = children
		f.dstChildren = noChildren
		f.state = expanded

		// Push in reverse so children are visited in list order. f must
		// not be used past this point as append may move the stack.
		for slot := 3; slot >= 0; slot-- {
			if children[slot] == bvh.Invalid {
				continue
			}
			stack = append(stack, frame{src: children[slot], parent: top, slot: slot})
		}
	}

	dst.SetNodeCount(nodeCount)
	opts.Logger.Debugf("collapsed %d BVH2 nodes into %d BVH4 nodes (%d populated) in %d ms", src.NodeCount(), nodeCount, next, time.Since(start).Nanoseconds()/1e6)
	return []uint32(dst), nodeCount
}

// Pop the top frame and report its BVH4 slot to its parent.
func report(stack []frame) []frame {
	top := len(stack) - 1
	f := stack[top]
	if f.parent >= 0 {
		stack[f.parent].dstChildren[f.slot] = f.dst
	}
	return stack[:top]
}

// Promote converts a BVH2 buffer into a BVH4 buffer with the same node
// indices. Each internal node replaces every internal child by that child's
// own children; node bounds are copied unchanged. Intermediate nodes remain
// in the output but may no longer be referenced.
func Promote(tree []uint32) []uint32 {
	src := bvh.Bvh2(tree)
	nodeCount := src.NodeCount()
	dst := bvh.NewBvh4(nodeCount)
	dst.SetNodeCount(nodeCount)

	for n := uint32(0); n < nodeCount; n++ {
		meta := src.Meta(n)
		if meta&bvh.LeafFlag != 0 {
			dst.WriteNode(n, src.PackedBounds(n), noChildren, meta)
			continue
		}

		kids := noChildren
		k := 0
		left, right := src.Children(n)
		for _, child := range [2]uint32{left, right} {
			if child == bvh.Invalid {
				continue
			}
			if src.IsLeaf(child) {
				kids[k] = child
				k++
				continue
			}
			kids[k], kids[k+1] = src.Children(child)
			k += 2
		}
		dst.WriteNode(n, src.PackedBounds(n), kids, 0)
	}

	return []uint32(dst)
}
