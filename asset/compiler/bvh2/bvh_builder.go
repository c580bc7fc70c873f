package bvh2

import (
	"math"
	"sort"
	"time"

	"github.com/achilleasa/bvh4/asset/bvh"
	"github.com/achilleasa/bvh4/asset/half"
	"github.com/achilleasa/bvh4/log"
	"github.com/achilleasa/bvh4/types"
)

type Axis uint8

const (
	XAxis Axis = iota
	YAxis
	ZAxis

	// The BVH builder will not attempt to calculate split candidates
	// if the centroid bounds along an axis are less than this threshold.
	minSideLength float32 = 1e-6

	// Number of evenly spaced split planes evaluated per axis.
	splitCandidates = 32
)

var (
	// A split scoring strategy that uses the surface area heuristic (SAH).
	SurfaceAreaHeuristic = surfaceAreaHeuristic{}
)

// The BoundedVolume interface is implemented by all primitives that can be
// partitioned by the bvh builder.
type BoundedVolume interface {
	BBox() types.AABB
	Center() types.Vec3
}

// A split scoring strategy.
type ScoreStrategy interface {
	// Calculate a score for splitting workList at splitPoint along a particular Axis.
	ScoreSplit(workList []BoundedVolume, splitAxis Axis, splitPoint float32) (leftCount, rightCount int, score float32)

	// Calculate a score for all items in workList.
	ScorePartition(workList []BoundedVolume) (score float32)
}

type splitScore struct {
	axis       Axis
	splitPoint float32

	leftCount, rightCount int
	score                 float32
}

type stats struct {
	nodes        int
	leafs        int
	medianSplits int
	maxDepth     int
}

type node struct {
	bbox        types.AABB
	left, right uint32
	meta        uint32
}

// A work item remembers the position of a volume in the caller's list.
type workItem struct {
	BoundedVolume
	index uint32
}

type builder struct {
	logger log.Logger

	// Bvh nodes stored as a contiguous list
	nodes []node

	// A channel for receiving score results.
	scoreChan chan splitScore

	// The split scoring strategy to use.
	scoreStrategy ScoreStrategy

	// Stats
	stats stats
}

// Construct a BVH2 buffer from a set of bounded volumes.
//
// Each volume ends up in its own leaf whose payload is the volume index in
// workList, so the tree is a full binary tree with 2*len(workList)-1 nodes
// and the root at index 0. Splits are scored with scoreStrategy; when no
// candidate improves on the unsplit score the builder falls back to a median
// split along the longest centroid axis.
//
// Node bounds are packed with half.PackEnclosingAABB so the packed boxes
// always contain the volumes below them.
func Build(workList []BoundedVolume, scoreStrategy ScoreStrategy) bvh.Bvh2 {
	if len(workList) == 0 {
		return bvh.NewBvh2(0)
	}

	b := &builder{
		logger:        log.New("bvh2 builder"),
		nodes:         make([]node, 0, 2*len(workList)-1),
		scoreChan:     make(chan splitScore),
		scoreStrategy: scoreStrategy,
	}

	items := make([]BoundedVolume, len(workList))
	for index, vol := range workList {
		items[index] = workItem{vol, uint32(index)}
	}

	start := time.Now()
	b.partition(items, 0)
	b.logger.Debugf(
		"BVH tree build time: %d ms, maxDepth: %d, nodes: %d, leafs: %d, median splits: %d",
		time.Since(start).Nanoseconds()/1e6,
		b.stats.maxDepth, b.stats.nodes, b.stats.leafs, b.stats.medianSplits,
	)

	out := bvh.NewBvh2(uint32(len(b.nodes)))
	for index, n := range b.nodes {
		out.WriteNode(uint32(index), half.PackEnclosingAABB(n.bbox), n.left, n.right, n.meta)
	}
	return out
}

// Partition worklist and return node index.
func (b *builder) partition(workList []BoundedVolume, depth int) uint32 {
	if depth > b.stats.maxDepth {
		b.stats.maxDepth = depth
	}

	// Calculate bounding box for node
	n := node{bbox: types.EmptyAABB()}
	centroids := types.EmptyAABB()
	for _, item := range workList {
		n.bbox = n.bbox.Union(item.BBox())
		centroids = centroids.Extend(item.Center())
	}

	if len(workList) == 1 {
		return b.createLeaf(n, workList[0].(workItem))
	}

	leftWorkList, rightWorkList := b.split(workList, centroids)

	// Add node to list
	nodeIndex := len(b.nodes)
	b.nodes = append(b.nodes, n)
	b.stats.nodes++

	// Partition children and update node indices
	leftNodeIndex := b.partition(leftWorkList, depth+1)
	rightNodeIndex := b.partition(rightWorkList, depth+1)
	b.nodes[nodeIndex].left = leftNodeIndex
	b.nodes[nodeIndex].right = rightNodeIndex

	return uint32(nodeIndex)
}

// Split the work list into two non-empty sets.
func (b *builder) split(workList []BoundedVolume, centroids types.AABB) (left, right []BoundedVolume) {
	// Calc current node score
	var bestScore float32 = b.scoreStrategy.ScorePartition(workList)
	var bestSplit *splitScore = nil

	// Run split tests in parallel
	pendingScores := 0
	side := centroids.Extent()
	for axis := XAxis; axis <= ZAxis; axis++ {
		// Skip axis if all centroids project to the same point
		if side[axis] < minSideLength {
			continue
		}

		splitStep := side[axis] / (splitCandidates + 1)
		for candidate := 1; candidate <= splitCandidates; candidate++ {
			pendingScores++
			go func(axis Axis, splitPoint float32) {
				lCount, rCount, score := b.scoreStrategy.ScoreSplit(workList, axis, splitPoint)
				b.scoreChan <- splitScore{
					axis:       axis,
					splitPoint: splitPoint,

					leftCount:  lCount,
					rightCount: rCount,
					score:      score,
				}
			}(axis, centroids.Min[axis]+splitStep*float32(candidate))
		}
	}

	// Process all scores and pick the best split. Ties are resolved by axis
	// and split point so the output does not depend on goroutine scheduling.
	for ; pendingScores > 0; pendingScores-- {
		candidate := <-b.scoreChan
		if candidate.leftCount == 0 || candidate.rightCount == 0 {
			continue
		}
		if candidate.score < bestScore || (bestSplit != nil && candidate.score == bestScore && candidate.before(bestSplit)) {
			bestScore = candidate.score
			bestSplit = &candidate
		}
	}

	if bestSplit == nil {
		return b.medianSplit(workList, centroids)
	}

	left = make([]BoundedVolume, 0, bestSplit.leftCount)
	right = make([]BoundedVolume, 0, bestSplit.rightCount)
	for _, item := range workList {
		if item.Center()[bestSplit.axis] < bestSplit.splitPoint {
			left = append(left, item)
		} else {
			right = append(right, item)
		}
	}
	return left, right
}

// Returns true if s should be preferred over other when both have the same score.
func (s *splitScore) before(other *splitScore) bool {
	if s.axis != other.axis {
		return s.axis < other.axis
	}
	return s.splitPoint < other.splitPoint
}

// Split the work list in two halves after sorting it by centroid along the
// longest centroid axis.
func (b *builder) medianSplit(workList []BoundedVolume, centroids types.AABB) (left, right []BoundedVolume) {
	b.stats.medianSplits++
	axis := centroids.Extent().MaxAxis()

	sorted := make([]BoundedVolume, len(workList))
	copy(sorted, workList)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Center()[axis] < sorted[j].Center()[axis]
	})

	mid := len(sorted) / 2
	return sorted[:mid], sorted[mid:]
}

// Append a leaf node for the given item and return its index.
func (b *builder) createLeaf(n node, item workItem) uint32 {
	n.meta = bvh.LeafMeta(item.index)

	nodeIndex := len(b.nodes)
	b.nodes = append(b.nodes, n)

	b.stats.leafs++
	return uint32(nodeIndex)
}

// A score implementation that uses surface area heuristic for calculating split scores.
type surfaceAreaHeuristic struct{}

// Score a BVH split based on the surface area heuristic. The SAH calculates
// the split score using the formula (lower score is better):
//
// left count * left BBOX area + rightCount * right BBOX area.
//
// SAH avoids splits that generate empty partitions by assigning the worst
// possible score (MaxFloat32) when it enounters such cases.
func (h surfaceAreaHeuristic) ScoreSplit(workList []BoundedVolume, axis Axis, splitPoint float32) (leftCount, rightCount int, score float32) {
	lbox := types.EmptyAABB()
	rbox := types.EmptyAABB()

	for _, item := range workList {
		if item.Center()[axis] < splitPoint {
			leftCount++
			lbox = lbox.Union(item.BBox())
		} else {
			rightCount++
			rbox = rbox.Union(item.BBox())
		}
	}

	// Make sure that we don't generate empty partitions
	if leftCount == 0 || rightCount == 0 {
		return leftCount, rightCount, math.MaxFloat32
	}

	score = float32(leftCount)*lbox.SurfaceArea() + float32(rightCount)*rbox.SurfaceArea()
	return leftCount, rightCount, score
}

// Calculate score for a partitioned workList using formula:
// count * BBOX area
//
// If the workList is empty, then this method returns the worst possible
// score (MaxFloat32).
func (h surfaceAreaHeuristic) ScorePartition(workList []BoundedVolume) (score float32) {
	if len(workList) == 0 {
		return math.MaxFloat32
	}

	box := types.EmptyAABB()
	for _, item := range workList {
		box = box.Union(item.BBox())
	}

	return float32(len(workList)) * box.SurfaceArea()
}
