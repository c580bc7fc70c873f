package bvh

import (
	"bytes"
	"fmt"

	"github.com/achilleasa/bvh4/types"
	"github.com/olekukonko/tablewriter"
)

// Summary information for a BVH buffer. Node counts only include nodes
// reachable from the root.
type Stats struct {
	Format string

	// Node count declared by the buffer header.
	HeaderNodes uint32

	Nodes     uint32
	Leaves    uint32
	Internals uint32
	MaxDepth  uint32

	// Internal node count indexed by the number of populated child slots.
	ChildOccupancy [5]uint32

	Bounds    types.AABB
	SizeBytes int
}

type depthItem struct {
	node  uint32
	depth uint32
}

// Collect stats for a BVH2 buffer.
func (b Bvh2) Stats() Stats {
	st := Stats{
		Format:      "BVH2",
		HeaderNodes: b.NodeCount(),
		Bounds:      types.EmptyAABB(),
		SizeBytes:   len(b) * 4,
	}
	if b.NodeCount() == 0 {
		return st
	}
	st.Bounds = b.Bounds(0)

	stack := []depthItem{{0, 0}}
	for len(stack) > 0 {
		it := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if it.node >= b.NodeCount() {
			continue
		}

		st.visit(it.depth)
		if b.IsLeaf(it.node) {
			st.Leaves++
			continue
		}

		st.Internals++
		st.ChildOccupancy[2]++
		left, right := b.Children(it.node)
		stack = append(stack, depthItem{right, it.depth + 1}, depthItem{left, it.depth + 1})
	}

	return st
}

// Collect stats for a BVH4 buffer.
func (b Bvh4) Stats() Stats {
	st := Stats{
		Format:      "BVH4",
		HeaderNodes: b.NodeCount(),
		Bounds:      types.EmptyAABB(),
		SizeBytes:   len(b) * 4,
	}
	if b.NodeCount() == 0 {
		return st
	}
	st.Bounds = b.Bounds(0)

	stack := []depthItem{{0, 0}}
	for len(stack) > 0 {
		it := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if it.node >= b.NodeCount() {
			continue
		}

		st.visit(it.depth)
		if b.IsLeaf(it.node) {
			st.Leaves++
			continue
		}

		st.Internals++
		populated := 0
		children := b.Children(it.node)
		for slot := 3; slot >= 0; slot-- {
			if children[slot] == Invalid {
				continue
			}
			populated++
			stack = append(stack, depthItem{children[slot], it.depth + 1})
		}
		st.ChildOccupancy[populated]++
	}

	return st
}

func (st *Stats) visit(depth uint32) {
	st.Nodes++
	if depth > st.MaxDepth {
		st.MaxDepth = depth
	}
}

// Render stats as a table.
func (st Stats) String() string {
	var buf bytes.Buffer
	table := tablewriter.NewWriter(&buf)
	table.SetAlignment(tablewriter.ALIGN_LEFT)
	table.SetAutoFormatHeaders(false)
	table.SetHeader([]string{st.Format, "Value"})
	table.Append([]string{"Header nodes", fmt.Sprint(st.HeaderNodes)})
	table.Append([]string{"Reachable nodes", fmt.Sprint(st.Nodes)})
	table.Append([]string{"Leaves", fmt.Sprint(st.Leaves)})
	table.Append([]string{"Internal nodes", fmt.Sprint(st.Internals)})
	table.Append([]string{"Max depth", fmt.Sprint(st.MaxDepth)})
	for children := 1; children < len(st.ChildOccupancy); children++ {
		if st.ChildOccupancy[children] == 0 {
			continue
		}
		table.Append([]string{fmt.Sprintf("Internal with %d children", children), fmt.Sprint(st.ChildOccupancy[children])})
	}
	if !st.Bounds.IsEmpty() {
		table.Append([]string{"Root bounds", fmtBounds(st.Bounds)})
	}
	table.SetFooter([]string{"Size", fmtSize(st.SizeBytes)})

	table.Render()
	return buf.String()
}

func fmtBounds(box types.AABB) string {
	return fmt.Sprintf("(%g, %g, %g) - (%g, %g, %g)", box.Min[0], box.Min[1], box.Min[2], box.Max[0], box.Max[1], box.Max[2])
}

// Format a byte count with the appropriate byte/kb/mb unit.
func fmtSize(totalBytes int) string {
	switch {
	case totalBytes < 1e3:
		return fmt.Sprintf("%d bytes", totalBytes)
	case totalBytes < 1e6:
		return fmt.Sprintf("%3.1f kb", float32(totalBytes)/1e3)
	default:
		return fmt.Sprintf("%3.1f mb", float32(totalBytes)/1e6)
	}
}
