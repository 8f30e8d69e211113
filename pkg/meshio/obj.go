package meshio

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/chazu/burl/pkg/mesh"
)

// ImportOBJ parses a Wavefront OBJ stream into a polygon mesh. Only
// geometry is read: v lines become vertices, f lines become faces
// (polygons stay polygons). Indices are 1-based per the format;
// negative indices count back from the latest vertex. Texture and
// normal references after a slash are accepted and ignored, as are
// grouping and material statements.
func ImportOBJ(r io.Reader) (*mesh.Mesh, error) {
	var points []mesh.Vec3
	var rings [][]int

	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 4*1024*1024)
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		fields := strings.Fields(line)
		switch fields[0] {
		case "v":
			if len(fields) < 4 {
				return nil, objErr(lineNo, "vertex needs 3 coordinates, got %d", len(fields)-1)
			}
			var p mesh.Vec3
			var err error
			if p.X, err = strconv.ParseFloat(fields[1], 64); err != nil {
				return nil, objErr(lineNo, "bad X coordinate %q", fields[1])
			}
			if p.Y, err = strconv.ParseFloat(fields[2], 64); err != nil {
				return nil, objErr(lineNo, "bad Y coordinate %q", fields[2])
			}
			if p.Z, err = strconv.ParseFloat(fields[3], 64); err != nil {
				return nil, objErr(lineNo, "bad Z coordinate %q", fields[3])
			}
			points = append(points, p)
		case "f":
			if len(fields) < 4 {
				return nil, objErr(lineNo, "face needs at least 3 vertices, got %d", len(fields)-1)
			}
			ring := make([]int, 0, len(fields)-1)
			for _, tok := range fields[1:] {
				// v, v/vt, v//vn and v/vt/vn all start with the
				// vertex index.
				vtok, _, _ := strings.Cut(tok, "/")
				idx, err := strconv.Atoi(vtok)
				if err != nil {
					return nil, objErr(lineNo, "bad vertex reference %q", tok)
				}
				if idx < 0 {
					idx = len(points) + idx // -1 is the latest vertex
				} else {
					idx-- // 1-based to 0-based
				}
				if idx < 0 || idx >= len(points) {
					return nil, objErr(lineNo, "vertex reference %q out of range (have %d vertices)", tok, len(points))
				}
				ring = append(ring, idx)
			}
			rings = append(rings, ring)
		case "vn", "vt", "vp", "o", "g", "s", "mtllib", "usemtl", "l", "p":
			// Recognized but unused.
		default:
			return nil, objErr(lineNo, "unknown statement %q", fields[0])
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}

	m, err := mesh.FromGeometry(points, rings)
	if err != nil {
		return nil, objErr(0, "inconsistent geometry: %v", err)
	}
	return m, nil
}

// ExportOBJ writes the mesh as Wavefront OBJ: v lines in vertex order,
// vn lines for the aggregated vertex normals, then f lines referencing
// both. Polygon faces are written as-is, without triangulation.
func ExportOBJ(w io.Writer, m *mesh.Mesh, name string) error {
	bw := bufio.NewWriter(w)
	if name != "" {
		fmt.Fprintf(bw, "o %s\n", name)
	}

	// Face rings hold mesh ids; OBJ wants 1-based positions.
	position := make(map[int]int, m.VertexCount())
	for i, v := range m.Vertices() {
		position[v.ID] = i + 1
		fmt.Fprintf(bw, "v %g %g %g\n", v.Position.X, v.Position.Y, v.Position.Z)
	}
	for _, v := range m.Vertices() {
		fmt.Fprintf(bw, "vn %g %g %g\n", v.Normal.X, v.Normal.Y, v.Normal.Z)
	}
	for i := range m.Faces() {
		f := &m.Faces()[i]
		bw.WriteString("f")
		for _, vid := range f.Vertices {
			p := position[vid]
			fmt.Fprintf(bw, " %d//%d", p, p)
		}
		bw.WriteByte('\n')
	}
	return bw.Flush()
}
