package main

import (
	"fmt"
	"os"

	"github.com/achilleasa/bvh4/cmd"
	"github.com/urfave/cli"
)

func main() {
	cli.VersionFlag = cli.BoolFlag{
		Name:  "version",
		Usage: "print only the version",
	}

	app := cli.NewApp()
	app.Name = "bvh4"
	app.Usage = "compile, collapse and inspect flat BVH buffers"
	app.Version = "0.0.1"
	app.Flags = []cli.Flag{
		cli.BoolFlag{
			Name:  "v",
			Usage: "enable verbose logging",
		},
		cli.BoolFlag{
			Name:  "vv",
			Usage: "enable even more verbose logging",
		},
		cli.StringFlag{
			Name:  "log-level",
			Usage: "set log level (debug, info, notice, warning, error)",
		},
	}
	app.Commands = []cli.Command{
		{
			Name:  "compile",
			Usage: "build BVH2 buffers from wavefront obj meshes",
			Description: `
Parse the triangles of a wavefront obj file and build a binary BVH using the
surface area heuristic. Every triangle is stored in its own leaf.

The BVH2 buffer is written next to the mesh as mesh.bvh2.<container>.`,
			ArgsUsage: "mesh1.obj mesh2.obj ...",
			Flags: []cli.Flag{
				cli.StringFlag{
					Name:  "container, c",
					Value: "bin",
					Usage: "output container (bin, json or zip)",
				},
			},
			Action: cmd.CompileMesh,
		},
		{
			Name:  "collapse",
			Usage: "collapse BVH2 buffers into BVH4 buffers",
			Description: `
Widen each internal BVH2 node into a node with up to four children and
recompute the bounds of every internal node from its new children.

Unless --out is specified, the output of in.bvh2.bin is written to in.bvh4.bin.
The promote mode keeps the BVH2 node layout and only pulls grandchildren up
one level, so it takes neither a widening strategy nor a triangle count.

Multiple input files are processed concurrently.`,
			ArgsUsage: "in1.bvh2.bin in2.bvh2.bin ...",
			Flags: []cli.Flag{
				cli.IntFlag{
					Name:  "triangles, t",
					Usage: "triangle count; must match the BVH2 node count (2T-1) and is derived from the header when 0",
				},
				cli.StringFlag{
					Name:  "strategy, s",
					Value: "first",
					Usage: "child expansion strategy (first or sah)",
				},
				cli.StringFlag{
					Name:  "mode, m",
					Value: "widen",
					Usage: "collapse mode (widen or promote); promote rejects --strategy and --triangles",
				},
				cli.StringFlag{
					Name:  "out, o",
					Usage: "output file; only valid with a single input",
				},
			},
			Action: cmd.CollapseBvh,
		},
		{
			Name:      "info",
			Usage:     "print BVH buffer statistics",
			ArgsUsage: "bvh_file",
			Flags: []cli.Flag{
				cli.StringFlag{
					Name:  "format, f",
					Usage: "buffer format (bvh2 or bvh4); guessed from the file name if omitted",
				},
			},
			Action: cmd.ShowInfo,
		},
		{
			Name:      "dump",
			Usage:     "print the top levels of a BVH4 buffer",
			ArgsUsage: "bvh4_file",
			Flags: []cli.Flag{
				cli.IntFlag{
					Name:  "depth, d",
					Value: 3,
					Usage: "maximum node depth to print",
				},
			},
			Action: cmd.DumpBvh,
		},
		{
			Name:      "verify",
			Usage:     "check the structure of BVH4 buffers",
			ArgsUsage: "bvh4_file1 bvh4_file2 ...",
			Action:    cmd.VerifyBvh,
		},
		{
			Name:      "trace",
			Usage:     "trace a ray against a mesh and report the closest hit",
			ArgsUsage: "mesh.obj bvh_file",
			Flags: []cli.Flag{
				cli.StringFlag{
					Name:  "origin",
					Value: "0,0,0",
					Usage: "ray origin as x,y,z",
				},
				cli.StringFlag{
					Name:  "dir",
					Value: "0,0,-1",
					Usage: "ray direction as x,y,z",
				},
				cli.StringFlag{
					Name:  "format, f",
					Usage: "buffer format (bvh2 or bvh4); guessed from the file name if omitted",
				},
			},
			Action: cmd.TraceRay,
		},
	}

	if err := app.Run(os.Args); err != nil {
		fmt.Fprintf(os.Stderr, "error: %s\n", err)
		os.Exit(1)
	}
}
