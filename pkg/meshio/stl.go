package meshio

import (
	"bufio"
	"encoding/binary"
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"

	"github.com/chazu/burl/pkg/mesh"
)

// binary STL: 80-byte header, uint32 triangle count, then per triangle
// a normal, three vertices (all float32 LE) and a uint16 attribute.
const stlTriRecord = 4*3*4 + 2

// ImportSTL reads a binary STL stream. The triangle soup is welded so
// coincident corners become shared vertices, giving the result real
// edge adjacency instead of 3 vertices per triangle.
func ImportSTL(r io.Reader) (*mesh.Mesh, error) {
	var header struct {
		H    [80]byte
		NTri uint32
	}
	if err := binary.Read(r, binary.LittleEndian, &header); err != nil {
		return nil, stlErr(0, "short header: %v", err)
	}
	// The count field of a corrupt (or ASCII) file can be garbage;
	// don't let it size the allocation unbounded.
	capHint := int(header.NTri)
	if capHint > 1<<16 {
		capHint = 1 << 16
	}
	tris := make([]mesh.Triangle, 0, capHint)
	buf := make([]byte, stlTriRecord)
	for i := 0; i < int(header.NTri); i++ {
		if _, err := io.ReadFull(r, buf); err != nil {
			// An ASCII file fed to the binary importer dies here with a
			// nonsense triangle count; point the caller at the text
			// importer.
			if strings.HasPrefix(string(header.H[:5]), "solid") {
				return nil, stlErr(0, "header says ASCII STL; use ImportSTLText")
			}
			return nil, stlErr(0, "truncated after %d of %d triangles", i, header.NTri)
		}
		var t mesh.Triangle
		t.Normal = readVec(buf, 0)
		t.V0 = readVec(buf, 12)
		t.V1 = readVec(buf, 24)
		t.V2 = readVec(buf, 36)
		tris = append(tris, t)
	}

	m := mesh.FromTriangles(tris)
	m.RemoveDuplicateVertices(mesh.DefaultWeldTolerance)
	return m, nil
}

func readVec(buf []byte, off int) mesh.Vec3 {
	return mesh.Vec3{
		X: float64(math.Float32frombits(binary.LittleEndian.Uint32(buf[off:]))),
		Y: float64(math.Float32frombits(binary.LittleEndian.Uint32(buf[off+4:]))),
		Z: float64(math.Float32frombits(binary.LittleEndian.Uint32(buf[off+8:]))),
	}
}

// ExportSTL writes the mesh as binary STL. Polygon faces are
// fan-triangulated; the name is stored in the 80-byte header.
func ExportSTL(w io.Writer, m *mesh.Mesh, name string) error {
	var header [80]byte
	copy(header[:], name)
	if _, err := w.Write(header[:]); err != nil {
		return err
	}

	nTri := 0
	for i := range m.Faces() {
		nTri += len(m.Faces()[i].Vertices) - 2
	}
	if err := binary.Write(w, binary.LittleEndian, uint32(nTri)); err != nil {
		return err
	}

	buf := make([]byte, stlTriRecord)
	for i := range m.Faces() {
		f := &m.Faces()[i]
		for _, tri := range m.FanTriangles(f) {
			a, _ := m.Vertex(tri[0])
			b, _ := m.Vertex(tri[1])
			c, _ := m.Vertex(tri[2])
			n := b.Position.Sub(a.Position).Cross(c.Position.Sub(a.Position)).Normalized()
			writeVec(buf, 0, n)
			writeVec(buf, 12, a.Position)
			writeVec(buf, 24, b.Position)
			writeVec(buf, 36, c.Position)
			buf[48], buf[49] = 0, 0
			if _, err := w.Write(buf); err != nil {
				return err
			}
		}
	}
	return nil
}

func writeVec(buf []byte, off int, v mesh.Vec3) {
	binary.LittleEndian.PutUint32(buf[off:], math.Float32bits(float32(v.X)))
	binary.LittleEndian.PutUint32(buf[off+4:], math.Float32bits(float32(v.Y)))
	binary.LittleEndian.PutUint32(buf[off+8:], math.Float32bits(float32(v.Z)))
}

// ImportSTLText reads an ASCII STL stream (solid / facet normal /
// outer loop / vertex grammar). Vertices are welded like the binary
// importer's.
func ImportSTLText(r io.Reader) (*mesh.Mesh, error) {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 4*1024*1024)

	var tris []mesh.Triangle
	var cur mesh.Triangle
	nVerts := 0
	inSolid := false
	lineNo := 0

	for scanner.Scan() {
		lineNo++
		fields := strings.Fields(scanner.Text())
		if len(fields) == 0 {
			continue
		}
		switch fields[0] {
		case "solid":
			inSolid = true
		case "endsolid":
			inSolid = false
		case "facet":
			if !inSolid {
				return nil, stlErr(lineNo, "facet outside solid")
			}
			if len(fields) >= 5 && fields[1] == "normal" {
				n, err := parseVec(fields[2:5])
				if err != nil {
					return nil, stlErr(lineNo, "bad facet normal: %v", err)
				}
				cur.Normal = n
			}
			nVerts = 0
		case "outer", "endloop":
			// "outer loop" and its closer carry no data.
		case "vertex":
			if len(fields) < 4 {
				return nil, stlErr(lineNo, "vertex needs 3 coordinates, got %d", len(fields)-1)
			}
			p, err := parseVec(fields[1:4])
			if err != nil {
				return nil, stlErr(lineNo, "bad vertex: %v", err)
			}
			switch nVerts {
			case 0:
				cur.V0 = p
			case 1:
				cur.V1 = p
			case 2:
				cur.V2 = p
			default:
				return nil, stlErr(lineNo, "facet has more than 3 vertices")
			}
			nVerts++
		case "endfacet":
			if nVerts != 3 {
				return nil, stlErr(lineNo, "facet has %d vertices, want 3", nVerts)
			}
			tris = append(tris, cur)
			cur = mesh.Triangle{}
		default:
			return nil, stlErr(lineNo, "unknown statement %q", fields[0])
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	if inSolid {
		return nil, stlErr(lineNo, "missing endsolid")
	}

	m := mesh.FromTriangles(tris)
	m.RemoveDuplicateVertices(mesh.DefaultWeldTolerance)
	return m, nil
}

func parseVec(fields []string) (mesh.Vec3, error) {
	var v mesh.Vec3
	var err error
	if v.X, err = strconv.ParseFloat(fields[0], 64); err != nil {
		return v, err
	}
	if v.Y, err = strconv.ParseFloat(fields[1], 64); err != nil {
		return v, err
	}
	v.Z, err = strconv.ParseFloat(fields[2], 64)
	return v, err
}

// ExportSTLText writes the mesh as ASCII STL, fan-triangulating
// polygon faces.
func ExportSTLText(w io.Writer, m *mesh.Mesh, name string) error {
	bw := bufio.NewWriter(w)
	fmt.Fprintf(bw, "solid %s\n", name)
	for i := range m.Faces() {
		f := &m.Faces()[i]
		for _, tri := range m.FanTriangles(f) {
			a, _ := m.Vertex(tri[0])
			b, _ := m.Vertex(tri[1])
			c, _ := m.Vertex(tri[2])
			n := b.Position.Sub(a.Position).Cross(c.Position.Sub(a.Position)).Normalized()
			fmt.Fprintf(bw, "  facet normal %g %g %g\n", n.X, n.Y, n.Z)
			fmt.Fprintf(bw, "    outer loop\n")
			fmt.Fprintf(bw, "      vertex %g %g %g\n", a.Position.X, a.Position.Y, a.Position.Z)
			fmt.Fprintf(bw, "      vertex %g %g %g\n", b.Position.X, b.Position.Y, b.Position.Z)
			fmt.Fprintf(bw, "      vertex %g %g %g\n", c.Position.X, c.Position.Y, c.Position.Z)
			fmt.Fprintf(bw, "    endloop\n")
			fmt.Fprintf(bw, "  endfacet\n")
		}
	}
	fmt.Fprintf(bw, "endsolid %s\n", name)
	return bw.Flush()
}
