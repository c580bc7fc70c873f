package bvh

import "fmt"

// Slack allowed when comparing parent and child bounds. Encoding flushes
// values below the smallest normal half to zero, so a parent extent may
// differ from a subnormal child extent by up to this amount.
const containSlack = 6.103515625e-05

// Check the structural invariants of a BVH4 buffer reachable from its root:
// populated child slots are contiguous and point to in-range nodes that are
// referenced exactly once, unused slots hold Invalid, internal nodes have a
// zero meta word and their bounds contain the bounds of their children.
func (b Bvh4) Verify() error {
	if err := b.CheckSize(); err != nil {
		return err
	}

	nodeCount := b.NodeCount()
	if nodeCount == 0 {
		return nil
	}

	visited := make([]bool, nodeCount)
	visited[0] = true
	stack := []uint32{0}
	for len(stack) > 0 {
		node := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		meta := b.Meta(node)
		children := b.Children(node)
		if meta&LeafFlag != 0 {
			for slot, child := range children {
				if child != Invalid {
					return fmt.Errorf("bvh: leaf %d: child slot %d is %d; expected invalid", node, slot, child)
				}
			}
			continue
		}

		if meta != 0 {
			return fmt.Errorf("bvh: internal node %d: meta is %#x; expected 0", node, meta)
		}

		bounds := b.Bounds(node)
		populated := 0
		for slot, child := range children {
			if child == Invalid {
				continue
			}
			if slot != populated {
				return fmt.Errorf("bvh: internal node %d: child slot %d populated after an invalid slot", node, slot)
			}
			populated++

			if child >= nodeCount {
				return fmt.Errorf("bvh: internal node %d: child %d out of range (%d nodes)", node, child, nodeCount)
			}
			if visited[child] {
				return fmt.Errorf("bvh: internal node %d: child %d referenced more than once", node, child)
			}
			visited[child] = true

			childBounds := b.Bounds(child)
			for axis := 0; axis < 3; axis++ {
				if childBounds.Min[axis] < bounds.Min[axis]-containSlack || childBounds.Max[axis] > bounds.Max[axis]+containSlack {
					return fmt.Errorf("bvh: internal node %d: bounds %s do not contain child %d bounds %s", node, fmtBounds(bounds), child, fmtBounds(childBounds))
				}
			}

			stack = append(stack, child)
		}

		if populated == 0 {
			return fmt.Errorf("bvh: internal node %d has no children", node)
		}
	}

	return nil
}
