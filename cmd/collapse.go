package cmd

import (
	"errors"
	"fmt"
	"math"
	"runtime"

	"github.com/achilleasa/bvh4/asset/bvh"
	"github.com/achilleasa/bvh4/asset/compiler/bvh4"
	"github.com/urfave/cli"
	"golang.org/x/sync/errgroup"
)

const (
	modeWiden   = "widen"
	modePromote = "promote"
)

type collapseJob struct {
	in, out string
	mode    string

	// Requested triangle count; 0 derives it from the buffer header.
	triangleCount uint32
	opts          bvh4.Options
}

// Collapse BVH2 buffers into BVH4 buffers. Independent input files are
// processed concurrently.
func CollapseBvh(ctx *cli.Context) error {
	if err := setupLogging(ctx); err != nil {
		return err
	}

	if ctx.NArg() == 0 {
		return errors.New("missing BVH2 file argument")
	}
	if ctx.String("out") != "" && ctx.NArg() != 1 {
		return errors.New("the out flag can only be used with a single input file")
	}

	mode := ctx.String("mode")
	if err := checkMode(mode, ctx.IsSet("strategy"), ctx.IsSet("triangles")); err != nil {
		return err
	}

	triangleCount, err := parseTriangleCount(ctx.Int("triangles"))
	if err != nil {
		return err
	}

	strategy, err := parseStrategy(ctx.String("strategy"))
	if err != nil {
		return err
	}

	var g errgroup.Group
	g.SetLimit(runtime.NumCPU())
	for _, in := range ctx.Args() {
		job := collapseJob{
			in:            in,
			out:           ctx.String("out"),
			mode:          mode,
			triangleCount: triangleCount,
			opts: bvh4.Options{
				Strategy: strategy,
				Logger:   logger,
			},
		}
		if job.out == "" {
			job.out = outputPath(in, formatBvh4, "")
		}

		g.Go(job.run)
	}

	return g.Wait()
}

func (job collapseJob) run() error {
	words, err := bvh.Load(job.in)
	if err != nil {
		return err
	}

	tree := bvh.Bvh2(words)
	if err = tree.CheckSize(); err != nil {
		return fmt.Errorf("%s: %w", job.in, err)
	}

	var out []uint32
	switch job.mode {
	case modePromote:
		out = bvh4.Promote(tree)
	default:
		triangleCount, err := matchTriangleCount(job.triangleCount, tree.NodeCount())
		if err != nil {
			return fmt.Errorf("%s: %w", job.in, err)
		}
		out, _ = bvh4.Collapse(tree, triangleCount, job.opts)
	}

	logger.Noticef("%s -> %s BVH4 information:\n%s", job.in, job.out, bvh.Bvh4(out).Stats())
	return bvh.Save(job.out, out)
}

// Promote keeps the source node layout, so it takes neither a widening
// strategy nor a triangle count.
func checkMode(mode string, strategySet, trianglesSet bool) error {
	switch mode {
	case modeWiden:
		return nil
	case modePromote:
		if strategySet || trianglesSet {
			return fmt.Errorf("the strategy and triangles flags cannot be used with %s mode", modePromote)
		}
		return nil
	}
	return fmt.Errorf("unsupported collapse mode %q; expected %s or %s", mode, modeWiden, modePromote)
}

// Validate the triangles flag value.
func parseTriangleCount(value int) (uint32, error) {
	if value < 0 || int64(value) > math.MaxUint32 {
		return 0, fmt.Errorf("invalid triangle count %d", value)
	}
	return uint32(value), nil
}

// Check a requested triangle count against the BVH2 node count; a full
// binary tree with T leaves has exactly 2T-1 nodes. A zero request derives
// the count from the node count.
func matchTriangleCount(requested, nodeCount uint32) (uint32, error) {
	triangleCount := requested
	if triangleCount == 0 {
		triangleCount = (nodeCount + 1) / 2
	}
	if triangleCount == 0 && nodeCount == 0 {
		return 0, nil
	}

	if expNodes := 2*uint64(triangleCount) - 1; expNodes != uint64(nodeCount) {
		return 0, fmt.Errorf("%d triangles need %d BVH2 nodes; buffer holds %d", triangleCount, expNodes, nodeCount)
	}
	return triangleCount, nil
}

func parseStrategy(name string) (bvh4.WidenStrategy, error) {
	switch name {
	case "", "first":
		return bvh4.FirstInternal, nil
	case "sah":
		return bvh4.LargestSurfaceArea, nil
	}
	return nil, fmt.Errorf("unsupported widening strategy %q; expected first or sah", name)
}
