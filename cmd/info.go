package cmd

import (
	"errors"
	"fmt"
	"os"

	"github.com/achilleasa/bvh4/asset/bvh"
	"github.com/urfave/cli"
)

// Display BVH buffer information.
func ShowInfo(ctx *cli.Context) error {
	if err := setupLogging(ctx); err != nil {
		return err
	}

	if ctx.NArg() != 1 {
		return errors.New("missing BVH file argument")
	}

	bvhFile := ctx.Args().First()
	format, err := selectFormat(ctx.String("format"), bvhFile)
	if err != nil {
		return err
	}

	words, err := bvh.Load(bvhFile)
	if err != nil {
		return err
	}

	var stats bvh.Stats
	switch format {
	case formatBvh4:
		tree := bvh.Bvh4(words)
		if err = tree.CheckSize(); err != nil {
			return err
		}
		stats = tree.Stats()
	default:
		tree := bvh.Bvh2(words)
		if err = tree.CheckSize(); err != nil {
			return err
		}
		stats = tree.Stats()
	}

	logger.Noticef("%s information:\n%s", bvhFile, stats)
	return nil
}

// Print a breadth-first listing of the top levels of a BVH4 buffer.
func DumpBvh(ctx *cli.Context) error {
	if err := setupLogging(ctx); err != nil {
		return err
	}

	if ctx.NArg() != 1 {
		return errors.New("missing BVH4 file argument")
	}
	if ctx.Int("depth") < 0 {
		return fmt.Errorf("invalid depth %d", ctx.Int("depth"))
	}

	words, err := bvh.Load(ctx.Args().First())
	if err != nil {
		return err
	}

	tree := bvh.Bvh4(words)
	if err = tree.CheckSize(); err != nil {
		return err
	}

	tree.Dump(os.Stdout, uint32(ctx.Int("depth")))
	return nil
}

// Check the structure of a BVH4 buffer.
func VerifyBvh(ctx *cli.Context) error {
	if err := setupLogging(ctx); err != nil {
		return err
	}

	if ctx.NArg() == 0 {
		return errors.New("missing BVH4 file argument")
	}

	for _, bvhFile := range ctx.Args() {
		words, err := bvh.Load(bvhFile)
		if err != nil {
			return err
		}

		if err = bvh.Bvh4(words).Verify(); err != nil {
			return fmt.Errorf("%s: %w", bvhFile, err)
		}
		logger.Noticef("%s: ok", bvhFile)
	}

	return nil
}
