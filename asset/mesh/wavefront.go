package mesh

import (
	"bufio"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/achilleasa/bvh4/asset"
	"github.com/achilleasa/bvh4/log"
	"github.com/achilleasa/bvh4/types"
)

type wavefrontReader struct {
	logger log.Logger

	mesh       *Mesh
	vertexList []types.Vec3

	// Include frames used to annotate errors.
	errStack []string
}

// Read the triangles of a wavefront obj file from a local path or URL.
// Faces from all objects and groups are merged into a single mesh; normals,
// texture coordinates and materials are ignored.
func ReadMesh(pathToMesh string) (*Mesh, error) {
	res, err := asset.NewResource(pathToMesh, nil)
	if err != nil {
		return nil, err
	}
	defer res.Close()

	return Read(res)
}

// Read the triangles of a wavefront obj resource.
func Read(res *asset.Resource) (*Mesh, error) {
	r := &wavefrontReader{
		logger:     log.New("wavefront reader"),
		mesh:       &Mesh{Name: "default"},
		vertexList: make([]types.Vec3, 0),
		errStack:   make([]string, 0),
	}

	r.logger.Noticef(`parsing mesh from "%s"`, res.Path())
	start := time.Now()

	if err := r.parse(res); err != nil {
		return nil, err
	}

	r.logger.Noticef("parsed %d triangles in %d ms", len(r.mesh.Triangles), time.Since(start).Nanoseconds()/1e6)
	return r.mesh, nil
}

func (r *wavefrontReader) parse(res *asset.Resource) error {
	var lineNum int = 0

	// Included files use 1-based indices relative to their own vertices.
	relVertexOffset := len(r.vertexList)

	scanner := bufio.NewScanner(res)
	for scanner.Scan() {
		lineNum++
		lineTokens := strings.Fields(scanner.Text())
		if len(lineTokens) == 0 || strings.HasPrefix(lineTokens[0], "#") {
			continue
		}

		switch lineTokens[0] {
		case "call":
			if len(lineTokens) != 2 {
				return r.emitError(res.Path(), lineNum, `unsupported syntax for "call"; expected 1 argument; got %d`, len(lineTokens)-1)
			}

			r.pushFrame(fmt.Sprintf("referenced from %s:%d [call]", res.Path(), lineNum))
			incRes, err := asset.NewResource(lineTokens[1], res)
			if err != nil {
				return r.emitError(res.Path(), lineNum, "%s", err.Error())
			}
			err = r.parse(incRes)
			incRes.Close()
			if err != nil {
				return err
			}
			r.popFrame()
		case "v":
			v, err := parseVec3(lineTokens)
			if err != nil {
				return r.emitError(res.Path(), lineNum, "%s", err.Error())
			}
			r.vertexList = append(r.vertexList, v)
		case "o":
			if len(lineTokens) < 2 {
				return r.emitError(res.Path(), lineNum, `unsupported syntax for "o"; expected 1 argument for object name; got %d`, len(lineTokens)-1)
			}
			if len(r.mesh.Triangles) == 0 {
				r.mesh.Name = lineTokens[1]
			}
		case "f":
			triList, err := r.parseFace(lineTokens, relVertexOffset)
			if err != nil {
				return r.emitError(res.Path(), lineNum, "%s", err.Error())
			}
			r.mesh.Triangles = append(r.mesh.Triangles, triList...)
		}
	}

	return scanner.Err()
}

// Parse a face definition. Faces with more than 3 vertices are triangulated
// as a fan around the first vertex.
func (r *wavefrontReader) parseFace(lineTokens []string, relVertexOffset int) ([]*Triangle, error) {
	if len(lineTokens) < 4 {
		return nil, fmt.Errorf(`unsupported syntax for "f"; expected at least 3 arguments; got %d`, len(lineTokens)-1)
	}

	vertices := make([]types.Vec3, len(lineTokens)-1)
	for arg := range vertices {
		vTokens := strings.Split(lineTokens[arg+1], "/")

		// Faces must at least define a vertex coord
		if vTokens[0] == "" {
			return nil, fmt.Errorf("face argument %d does not include a vertex index", arg)
		}

		vOffset, err := selectFaceCoordIndex(vTokens[0], len(r.vertexList), relVertexOffset)
		if err != nil {
			return nil, fmt.Errorf("could not parse vertex coord for face argument %d: %s", arg, err.Error())
		}
		vertices[arg] = r.vertexList[vOffset]
	}

	triangles := make([]*Triangle, 0, len(vertices)-2)
	for i := 1; i < len(vertices)-1; i++ {
		triangles = append(triangles, NewTriangle(vertices[0], vertices[i], vertices[i+1]))
	}
	return triangles, nil
}

// Generate an error message that also includes any data in the error stack.
func (r *wavefrontReader) emitError(file string, line int, msgFormat string, args ...interface{}) error {
	msg := fmt.Sprintf(msgFormat, args...)
	return fmt.Errorf("%s", strings.Trim(
		fmt.Sprintf("[%s: %d] error: %s\n%s", file, line, msg, strings.Join(r.errStack, "\n")),
		"\n",
	))
}

// Push a frame to the error stack.
func (r *wavefrontReader) pushFrame(msg string) {
	r.errStack = append([]string{msg}, r.errStack...)
}

// Pop a frame from the error stack.
func (r *wavefrontReader) popFrame() {
	r.errStack = r.errStack[1:]
}

// Given an index for a face coord calculate the proper offset into the coord
// list. Wavefront format can also use negative indices to reference elements
// from the end of the coord list.
func selectFaceCoordIndex(indexToken string, coordListLen int, relOffset int) (int, error) {
	index, err := strconv.ParseInt(indexToken, 10, 32)
	if err != nil {
		return -1, err
	}

	var vOffset int = 0
	if index < 0 {
		vOffset = coordListLen + int(index)
	} else {
		vOffset = relOffset + int(index-1)
	}
	if vOffset < 0 || vOffset >= coordListLen {
		return -1, fmt.Errorf("index out of bounds")
	}
	return vOffset, nil
}

// Parse a Vec3 row.
func parseVec3(lineTokens []string) (types.Vec3, error) {
	if len(lineTokens) < 4 {
		return types.Vec3{}, fmt.Errorf(`unsupported syntax for "%s"; expected 3 arguments; got %d`, lineTokens[0], len(lineTokens)-1)
	}

	v := types.Vec3{}
	for tokIdx := 1; tokIdx <= 3; tokIdx++ {
		coord, err := strconv.ParseFloat(lineTokens[tokIdx], 32)
		if err != nil {
			return v, err
		}
		v[tokIdx-1] = float32(coord)
	}
	return v, nil
}
