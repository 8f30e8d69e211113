package meshio

import (
	"bytes"
	"math"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/chazu/burl/pkg/primitive"
)

func TestImportOBJCube(t *testing.T) {
	const src = `# unit cube
o cube
v -0.5 -0.5 -0.5
v 0.5 -0.5 -0.5
v 0.5 0.5 -0.5
v -0.5 0.5 -0.5
v -0.5 -0.5 0.5
v 0.5 -0.5 0.5
v 0.5 0.5 0.5
v -0.5 0.5 0.5
f 1 4 3 2
f 5 6 7 8
f 1 2 6 5
f 3 4 8 7
f 1 5 8 4
f 2 3 7 6
`
	m, err := ImportOBJ(strings.NewReader(src))
	require.NoError(t, err)
	assert.Equal(t, 8, m.VertexCount())
	assert.Equal(t, 6, m.FaceCount())
	assert.Equal(t, 12, m.EdgeCount())
	assert.True(t, m.IsManifold())
	assert.InDelta(t, 1.0, m.Volume(), 1e-9)
}

func TestImportOBJSlashAndNegativeIndices(t *testing.T) {
	const src = `v 0 0 0
v 1 0 0
v 0 1 0
f 1/1/1 2//2 -1
`
	m, err := ImportOBJ(strings.NewReader(src))
	require.NoError(t, err)
	assert.Equal(t, 3, m.VertexCount())
	assert.Equal(t, 1, m.FaceCount())
}

func TestImportOBJErrors(t *testing.T) {
	tests := []struct {
		name string
		src  string
		line int
	}{
		{"bad coordinate", "v 0 zero 0\n", 1},
		{"short vertex", "v 1 2\n", 1},
		{"short face", "v 0 0 0\nv 1 0 0\nf 1 2\n", 3},
		{"out of range reference", "v 0 0 0\nv 1 0 0\nv 0 1 0\nf 1 2 9\n", 4},
		{"unknown statement", "vertex 0 0 0\n", 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ImportOBJ(strings.NewReader(tt.src))
			require.Error(t, err)
			var ferr *FormatError
			require.ErrorAs(t, err, &ferr)
			assert.Equal(t, "obj", ferr.Format)
			assert.Equal(t, tt.line, ferr.Line)
		})
	}
}

func TestOBJRoundTrip(t *testing.T) {
	orig, err := primitive.Cylinder(1, 2, 12).Mesh()
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, ExportOBJ(&buf, orig, "cyl"))

	back, err := ImportOBJ(&buf)
	require.NoError(t, err)
	assert.Equal(t, orig.VertexCount(), back.VertexCount())
	assert.Equal(t, orig.FaceCount(), back.FaceCount())
	assert.Equal(t, orig.EdgeCount(), back.EdgeCount())
	assert.InDelta(t, orig.Volume(), back.Volume(), 1e-9)

	// Polygon faces survive: the caps are still 12-gons.
	caps := 0
	for _, f := range back.Faces() {
		if len(f.Vertices) == 12 {
			caps++
		}
	}
	assert.Equal(t, 2, caps)
}

func TestSTLBinaryRoundTrip(t *testing.T) {
	orig, err := primitive.UnitBox().Mesh()
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, ExportSTL(&buf, orig, "cube"))

	// Header, count, then 12 fixed-size triangle records.
	assert.Equal(t, 80+4+12*50, buf.Len())

	back, err := ImportSTL(&buf)
	require.NoError(t, err)
	assert.Equal(t, 8, back.VertexCount())
	assert.Equal(t, 12, back.FaceCount())
	assert.True(t, back.IsManifold())
	assert.InDelta(t, 1.0, back.Volume(), 1e-6)
}

func TestSTLTextRoundTrip(t *testing.T) {
	orig, err := primitive.UnitBox().Mesh()
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, ExportSTLText(&buf, orig, "cube"))
	assert.True(t, strings.HasPrefix(buf.String(), "solid cube"))

	back, err := ImportSTLText(&buf)
	require.NoError(t, err)
	assert.Equal(t, 8, back.VertexCount())
	assert.Equal(t, 12, back.FaceCount())
	assert.InDelta(t, 1.0, back.Volume(), 1e-6)
}

func TestSTLTextErrors(t *testing.T) {
	tests := []struct {
		name string
		src  string
	}{
		{"facet outside solid", "facet normal 0 0 1\n"},
		{"short vertex", "solid s\nfacet normal 0 0 1\nouter loop\nvertex 0 0\n"},
		{"too few vertices", "solid s\nfacet normal 0 0 1\nouter loop\nvertex 0 0 0\nendloop\nendfacet\n"},
		{"missing endsolid", "solid s\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ImportSTLText(strings.NewReader(tt.src))
			require.Error(t, err)
			var ferr *FormatError
			require.ErrorAs(t, err, &ferr)
			assert.Equal(t, "stl", ferr.Format)
		})
	}
}

func TestSTLBinaryRejectsASCII(t *testing.T) {
	orig, err := primitive.UnitBox().Mesh()
	require.NoError(t, err)
	var buf bytes.Buffer
	require.NoError(t, ExportSTLText(&buf, orig, "cube"))

	_, err = ImportSTL(&buf)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "ASCII")
}

func TestSTLTruncated(t *testing.T) {
	orig, err := primitive.UnitBox().Mesh()
	require.NoError(t, err)
	var buf bytes.Buffer
	require.NoError(t, ExportSTL(&buf, orig, "cube"))

	cut := buf.Bytes()[:buf.Len()-25]
	_, err = ImportSTL(bytes.NewReader(cut))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "truncated")
}

func TestExportSTLFanTriangulates(t *testing.T) {
	m, err := primitive.Cylinder(1, 2, 8).Mesh()
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, ExportSTL(&buf, m, "cyl"))

	back, err := ImportSTL(&buf)
	require.NoError(t, err)
	// 8 side quads -> 16 tris, two 8-gon caps -> 6 tris each.
	assert.Equal(t, 28, back.FaceCount())
	volume := math.Abs(back.Volume() - m.Volume())
	assert.Less(t, volume, 1e-6)
}
