// Package mesh loads a triangle mesh from a minimal Wavefront OBJ file:
// "v x y z" vertex records and "f i j k ..." face records, the smallest
// subset of the format that can describe an arbitrary closed surface.
// There is no OBJ reader in the engine to ground this on (its meshes
// come from procedural generation or voxel data, never a file format),
// so this package is grounded directly on the original source's own
// mesh.hpp Vertex/Mesh layout, stripped of its GPU-specific padding
// fields, with a hand-written scanner in the idiom of the rest of this
// codebase's small, allocation-light parsers (the NBT writer, the Anvil
// header reader in the tests).
package mesh

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/go-gl/mathgl/mgl32"

	"github.com/gekko3d/voxelmca/errs"
	"github.com/gekko3d/voxelmca/geom"
)

// Load reads an OBJ file from path and fan-triangulates every face
// record into one or more triangles. A file with no face records yields
// an empty, non-nil triangle slice (the empty-mesh boundary case).
func Load(path string) ([]geom.Triangle, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errs.Input(err)
	}
	defer f.Close()

	tris, err := decode(f)
	if err != nil {
		return nil, errs.Input(fmt.Errorf("%s: %w", path, err))
	}
	return tris, nil
}

func decode(r io.Reader) ([]geom.Triangle, error) {
	var verts []mgl32.Vec3
	tris := make([]geom.Triangle, 0)

	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	lineNo := 0
	for sc.Scan() {
		lineNo++
		line := strings.TrimSpace(sc.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		fields := strings.Fields(line)
		switch fields[0] {
		case "v":
			v, err := parseVertex(fields[1:])
			if err != nil {
				return nil, fmt.Errorf("line %d: %w", lineNo, err)
			}
			verts = append(verts, v)
		case "f":
			faceTris, err := parseFace(fields[1:], verts)
			if err != nil {
				return nil, fmt.Errorf("line %d: %w", lineNo, err)
			}
			tris = append(tris, faceTris...)
		}
	}
	if err := sc.Err(); err != nil {
		return nil, err
	}
	return tris, nil
}

func parseVertex(fields []string) (mgl32.Vec3, error) {
	if len(fields) < 3 {
		return mgl32.Vec3{}, fmt.Errorf("vertex record needs 3 components, got %d", len(fields))
	}
	var v mgl32.Vec3
	for i := 0; i < 3; i++ {
		x, err := strconv.ParseFloat(fields[i], 32)
		if err != nil {
			return mgl32.Vec3{}, fmt.Errorf("invalid vertex component %q: %w", fields[i], err)
		}
		v[i] = float32(x)
	}
	return v, nil
}

// parseFace fan-triangulates an n-gon (n >= 3) around its first vertex.
// Only the vertex-index slot of each face token is used ("v",
// "v/vt", "v/vt/vn", "v//vn" all resolve to the same vertex index).
func parseFace(fields []string, verts []mgl32.Vec3) ([]geom.Triangle, error) {
	if len(fields) < 3 {
		return nil, fmt.Errorf("face record needs at least 3 vertices, got %d", len(fields))
	}
	idx := make([]int, len(fields))
	for i, tok := range fields {
		vi, err := faceVertexIndex(tok)
		if err != nil {
			return nil, err
		}
		if vi < 1 || vi > len(verts) {
			return nil, fmt.Errorf("vertex index %d out of range (%d vertices so far)", vi, len(verts))
		}
		idx[i] = vi - 1
	}

	tris := make([]geom.Triangle, 0, len(idx)-2)
	for i := 1; i < len(idx)-1; i++ {
		tris = append(tris, geom.Triangle{V: [3]mgl32.Vec3{
			verts[idx[0]], verts[idx[i]], verts[idx[i+1]],
		}})
	}
	return tris, nil
}

func faceVertexIndex(tok string) (int, error) {
	slash := strings.IndexByte(tok, '/')
	if slash >= 0 {
		tok = tok[:slash]
	}
	return strconv.Atoi(tok)
}
