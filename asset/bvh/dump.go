package bvh

import (
	"fmt"
	"io"
	"strings"

	"github.com/olekukonko/tablewriter"
)

// Write a breadth-first listing of the BVH4 nodes reachable from the root,
// expanding nodes down to maxDepth (the root is at depth 0).
func (b Bvh4) Dump(w io.Writer, maxDepth uint32) {
	table := tablewriter.NewWriter(w)
	table.SetAutoFormatHeaders(false)
	table.SetAlignment(tablewriter.ALIGN_LEFT)
	table.SetHeader([]string{"Node", "Depth", "Type", "Children", "Bounds", "Payload"})

	queue := []depthItem{{0, 0}}
	for len(queue) > 0 {
		it := queue[0]
		queue = queue[1:]
		if it.node >= b.NodeCount() {
			continue
		}

		meta := b.Meta(it.node)
		nodeType := "INTERNAL"
		payload := "-"
		if meta&LeafFlag != 0 {
			nodeType = "LEAF"
			payload = fmt.Sprint(LeafPayload(meta))
		}

		kids := make([]string, 0, 4)
		for _, child := range b.Children(it.node) {
			if child == Invalid {
				continue
			}
			kids = append(kids, fmt.Sprint(child))
			if meta&LeafFlag == 0 && it.depth < maxDepth {
				queue = append(queue, depthItem{child, it.depth + 1})
			}
		}

		table.Append([]string{
			fmt.Sprint(it.node),
			fmt.Sprint(it.depth),
			nodeType,
			strings.Join(kids, " "),
			fmtBounds(b.Bounds(it.node)),
			payload,
		})
	}

	table.Render()
}
