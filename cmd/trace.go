package cmd

import (
	"errors"

	"github.com/achilleasa/bvh4/asset/bvh"
	"github.com/achilleasa/bvh4/asset/mesh"
	"github.com/achilleasa/bvh4/tracer"
	"github.com/urfave/cli"
)

// Trace a single ray against a mesh and its BVH buffer and report the
// closest hit.
func TraceRay(ctx *cli.Context) error {
	if err := setupLogging(ctx); err != nil {
		return err
	}

	if ctx.NArg() != 2 {
		return errors.New("expected a mesh file and a BVH file argument")
	}
	meshFile, bvhFile := ctx.Args().Get(0), ctx.Args().Get(1)

	origin, err := parseVec3(ctx.String("origin"))
	if err != nil {
		return err
	}
	dir, err := parseVec3(ctx.String("dir"))
	if err != nil {
		return err
	}
	if dir.Len() == 0 {
		return errors.New("ray direction must be non-zero")
	}

	format, err := selectFormat(ctx.String("format"), bvhFile)
	if err != nil {
		return err
	}

	m, err := mesh.ReadMesh(meshFile)
	if err != nil {
		return err
	}

	words, err := bvh.Load(bvhFile)
	if err != nil {
		return err
	}

	tris := tracer.FromMesh(m)
	ray := tracer.Ray{Origin: origin, Dir: dir.Normalize()}

	var hit tracer.Hit
	switch format {
	case formatBvh4:
		tree := bvh.Bvh4(words)
		if err = tree.CheckSize(); err != nil {
			return err
		}
		hit = tracer.Trace4(tree, tris, ray)
	default:
		tree := bvh.Bvh2(words)
		if err = tree.CheckSize(); err != nil {
			return err
		}
		hit = tracer.Trace2(tree, tris, ray)
	}

	if hit.Primitive == tracer.NoHit {
		logger.Noticef("no hit (visited %d nodes, %d leaf tests)", hit.Visited, hit.LeafTests)
		return nil
	}

	logger.Noticef(
		"hit triangle %d at t=%g, point %v (visited %d nodes, %d leaf tests)",
		hit.Primitive, hit.T, ray.Origin.Add(ray.Dir.Mul(hit.T)), hit.Visited, hit.LeafTests,
	)
	return nil
}
