package cmd

import (
	"errors"
	"strings"

	"github.com/achilleasa/bvh4/asset/bvh"
	"github.com/achilleasa/bvh4/asset/compiler/bvh2"
	"github.com/achilleasa/bvh4/asset/mesh"
	"github.com/urfave/cli"
)

// Compile wavefront meshes into BVH2 buffers.
func CompileMesh(ctx *cli.Context) error {
	if err := setupLogging(ctx); err != nil {
		return err
	}

	if ctx.NArg() == 0 {
		return errors.New("missing mesh file argument")
	}

	ext, err := containerExt(ctx.String("container"))
	if err != nil {
		return err
	}

	for _, meshFile := range ctx.Args() {
		if !strings.HasSuffix(strings.ToLower(meshFile), ".obj") {
			logger.Warningf("skipping unsupported file %s", meshFile)
			continue
		}

		logger.Noticef("parsing and compiling mesh: %s", meshFile)
		m, err := mesh.ReadMesh(meshFile)
		if err != nil {
			return err
		}

		items := make([]bvh2.BoundedVolume, len(m.Triangles))
		for index, tri := range m.Triangles {
			items[index] = tri
		}
		tree := bvh2.Build(items, bvh2.SurfaceAreaHeuristic)

		logger.Noticef("BVH2 information:\n%s", tree.Stats())

		outFile := outputPath(meshFile, formatBvh2, ext)
		if err = bvh.Save(outFile, tree); err != nil {
			return err
		}
		logger.Noticef("wrote %s", outFile)
	}

	return nil
}
