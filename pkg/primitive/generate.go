package primitive

import (
	"fmt"
	"math"

	"github.com/chazu/burl/pkg/mesh"
)

func buildBox(s Shape) (*mesh.Mesh, error) {
	if s.Max.X <= s.Min.X || s.Max.Y <= s.Min.Y || s.Max.Z <= s.Min.Z {
		return nil, fmt.Errorf("primitive: box max must exceed min on every axis")
	}
	lo, hi := s.Min, s.Max
	points := []mesh.Vec3{
		{X: lo.X, Y: lo.Y, Z: lo.Z}, // 0
		{X: hi.X, Y: lo.Y, Z: lo.Z}, // 1
		{X: hi.X, Y: hi.Y, Z: lo.Z}, // 2
		{X: lo.X, Y: hi.Y, Z: lo.Z}, // 3
		{X: lo.X, Y: lo.Y, Z: hi.Z}, // 4
		{X: hi.X, Y: lo.Y, Z: hi.Z}, // 5
		{X: hi.X, Y: hi.Y, Z: hi.Z}, // 6
		{X: lo.X, Y: hi.Y, Z: hi.Z}, // 7
	}
	rings := [][]int{
		{0, 3, 2, 1}, // bottom, -Z
		{4, 5, 6, 7}, // top, +Z
		{0, 1, 5, 4}, // front, -Y
		{2, 3, 7, 6}, // back, +Y
		{0, 4, 7, 3}, // left, -X
		{1, 2, 6, 5}, // right, +X
	}
	return mesh.FromGeometry(points, rings)
}

func buildCylinder(s Shape) (*mesh.Mesh, error) {
	if s.Radius <= 0 || s.Height <= 0 {
		return nil, fmt.Errorf("primitive: cylinder radius and height must be positive")
	}
	if err := s.validateRadial(); err != nil {
		return nil, err
	}
	segs := s.segments()
	h := s.Height / 2

	points := make([]mesh.Vec3, 0, segs*2)
	for i := 0; i < segs; i++ {
		a := 2 * math.Pi * float64(i) / float64(segs)
		x, y := s.Radius*math.Cos(a), s.Radius*math.Sin(a)
		points = append(points, mesh.Vec3{X: x, Y: y, Z: -h})
	}
	for i := 0; i < segs; i++ {
		a := 2 * math.Pi * float64(i) / float64(segs)
		x, y := s.Radius*math.Cos(a), s.Radius*math.Sin(a)
		points = append(points, mesh.Vec3{X: x, Y: y, Z: h})
	}

	var rings [][]int
	for i := 0; i < segs; i++ {
		j := (i + 1) % segs
		rings = append(rings, []int{i, j, segs + j, segs + i})
	}
	rings = append(rings, reversedRange(0, segs)) // bottom cap, -Z
	rings = append(rings, forwardRange(segs, segs)) // top cap, +Z
	return mesh.FromGeometry(points, rings)
}

func buildSphere(s Shape) (*mesh.Mesh, error) {
	if s.Radius <= 0 {
		return nil, fmt.Errorf("primitive: sphere radius must be positive")
	}
	if err := s.validateRadial(); err != nil {
		return nil, err
	}
	slices := s.segments()
	stacks := slices / 2
	if stacks < 2 {
		stacks = 2
	}
	r := s.Radius

	// Interior latitude rows plus single pole vertices.
	var points []mesh.Vec3
	points = append(points, mesh.Vec3{Z: r}) // north pole, index 0
	rowStart := make([]int, 0, stacks-1)
	for i := 1; i < stacks; i++ {
		phi := math.Pi * float64(i) / float64(stacks)
		rowStart = append(rowStart, len(points))
		for j := 0; j < slices; j++ {
			theta := 2 * math.Pi * float64(j) / float64(slices)
			points = append(points, mesh.Vec3{
				X: r * math.Sin(phi) * math.Cos(theta),
				Y: r * math.Sin(phi) * math.Sin(theta),
				Z: r * math.Cos(phi),
			})
		}
	}
	south := len(points)
	points = append(points, mesh.Vec3{Z: -r})

	var rings [][]int
	// North cap triangles.
	for j := 0; j < slices; j++ {
		k := (j + 1) % slices
		rings = append(rings, []int{0, rowStart[0] + j, rowStart[0] + k})
	}
	// Interior quads.
	for i := 0; i+1 < len(rowStart); i++ {
		for j := 0; j < slices; j++ {
			k := (j + 1) % slices
			rings = append(rings, []int{
				rowStart[i] + j, rowStart[i+1] + j, rowStart[i+1] + k, rowStart[i] + k,
			})
		}
	}
	// South cap triangles.
	last := rowStart[len(rowStart)-1]
	for j := 0; j < slices; j++ {
		k := (j + 1) % slices
		rings = append(rings, []int{south, last + k, last + j})
	}
	return mesh.FromGeometry(points, rings)
}

func buildCone(s Shape) (*mesh.Mesh, error) {
	if s.BottomRadius <= 0 || s.Height <= 0 {
		return nil, fmt.Errorf("primitive: cone bottom radius and height must be positive")
	}
	if s.TopRadius < 0 {
		return nil, fmt.Errorf("primitive: cone top radius must be non-negative")
	}
	if err := s.validateRadial(); err != nil {
		return nil, err
	}
	segs := s.segments()
	h := s.Height / 2
	pointed := s.TopRadius < 1e-12

	points := make([]mesh.Vec3, 0, segs*2+1)
	for i := 0; i < segs; i++ {
		a := 2 * math.Pi * float64(i) / float64(segs)
		points = append(points, mesh.Vec3{
			X: s.BottomRadius * math.Cos(a),
			Y: s.BottomRadius * math.Sin(a),
			Z: -h,
		})
	}

	var rings [][]int
	if pointed {
		apex := len(points)
		points = append(points, mesh.Vec3{Z: h})
		for i := 0; i < segs; i++ {
			j := (i + 1) % segs
			rings = append(rings, []int{i, j, apex})
		}
	} else {
		for i := 0; i < segs; i++ {
			a := 2 * math.Pi * float64(i) / float64(segs)
			points = append(points, mesh.Vec3{
				X: s.TopRadius * math.Cos(a),
				Y: s.TopRadius * math.Sin(a),
				Z: h,
			})
		}
		for i := 0; i < segs; i++ {
			j := (i + 1) % segs
			rings = append(rings, []int{i, j, segs + j, segs + i})
		}
		rings = append(rings, forwardRange(segs, segs)) // top cap, +Z
	}
	rings = append(rings, reversedRange(0, segs)) // bottom cap, -Z
	return mesh.FromGeometry(points, rings)
}

// forwardRange returns [start, start+1, ..., start+n-1].
func forwardRange(start, n int) []int {
	out := make([]int, n)
	for i := range out {
		out[i] = start + i
	}
	return out
}

// reversedRange returns [start+n-1, ..., start+1, start].
func reversedRange(start, n int) []int {
	out := make([]int, n)
	for i := range out {
		out[i] = start + n - 1 - i
	}
	return out
}
