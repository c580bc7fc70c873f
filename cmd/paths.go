package cmd

import (
	"fmt"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/achilleasa/bvh4/asset/bvh"
	"github.com/go-gl/mathgl/mgl32"
)

const (
	formatBvh2 = "bvh2"
	formatBvh4 = "bvh4"
)

// Split a path into its base (without format tag and extension), its format
// tag (bvh2/bvh4 or empty) and its extension.
//
// For example "meshes/bunny.bvh2.zip" yields ("meshes/bunny", "bvh2", ".zip").
func splitPath(path string) (base, format, ext string) {
	ext = filepath.Ext(path)
	base = strings.TrimSuffix(path, ext)
	for _, f := range []string{formatBvh2, formatBvh4} {
		if strings.HasSuffix(base, "."+f) {
			return strings.TrimSuffix(base, "."+f), f, ext
		}
	}
	return base, "", ext
}

// Build the output path for a compiled or collapsed buffer.
func outputPath(path, format, ext string) string {
	base, _, inExt := splitPath(path)
	if ext == "" {
		ext = inExt
	}
	return base + "." + format + ext
}

// Guess a buffer format from its file name. Untagged files are assumed to
// hold BVH2 data.
func guessFormat(path string) string {
	if _, format, _ := splitPath(path); format != "" {
		return format
	}
	return formatBvh2
}

// Validate a buffer format name; an empty name falls back to guessing from path.
func selectFormat(name, path string) (string, error) {
	switch strings.ToLower(name) {
	case "":
		return guessFormat(path), nil
	case formatBvh2:
		return formatBvh2, nil
	case formatBvh4:
		return formatBvh4, nil
	}
	return "", fmt.Errorf("%w: %q", bvh.ErrUnsupportedFormat, name)
}

// Map a container name (bin, json, zip) to a file extension.
func containerExt(name string) (string, error) {
	switch strings.ToLower(strings.TrimPrefix(name, ".")) {
	case "bin":
		return ".bin", nil
	case "json":
		return ".json", nil
	case "zip":
		return ".zip", nil
	}
	return "", fmt.Errorf("%w: %q", bvh.ErrUnsupportedFormat, name)
}

// Parse a "x,y,z" vector.
func parseVec3(value string) (mgl32.Vec3, error) {
	var v mgl32.Vec3

	tokens := strings.Split(value, ",")
	if len(tokens) != 3 {
		return v, fmt.Errorf("expected vector in x,y,z format; got %q", value)
	}
	for index, token := range tokens {
		f, err := strconv.ParseFloat(strings.TrimSpace(token), 32)
		if err != nil {
			return v, fmt.Errorf("invalid vector component %q: %w", token, err)
		}
		v[index] = float32(f)
	}
	return v, nil
}
