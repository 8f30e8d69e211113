package csg

import (
	"github.com/chazu/burl/pkg/mesh"
)

// planeEpsilon is the thickness of a BSP splitting plane: points
// within this distance are treated as lying on the plane.
const planeEpsilon = 1e-5

// plane is an oriented plane in Hessian normal form (n·p = w).
type plane struct {
	n mesh.Vec3
	w float64
}

func planeFromPoints(a, b, c mesh.Vec3) (plane, bool) {
	n := b.Sub(a).Cross(c.Sub(a)).Normalized()
	if n == (mesh.Vec3{}) {
		return plane{}, false
	}
	return plane{n: n, w: n.Dot(a)}, true
}

func (p *plane) flip() {
	p.n = p.n.Negated()
	p.w = -p.w
}

// polygon is a convex coplanar vertex loop carried through the BSP.
type polygon struct {
	verts []mesh.Vec3
	plane plane
}

func (poly *polygon) flip() {
	for i, j := 0, len(poly.verts)-1; i < j; i, j = i+1, j-1 {
		poly.verts[i], poly.verts[j] = poly.verts[j], poly.verts[i]
	}
	poly.plane.flip()
}

func (poly *polygon) clone() polygon {
	return polygon{
		verts: append([]mesh.Vec3(nil), poly.verts...),
		plane: poly.plane,
	}
}

// Classification of a point against a plane.
const (
	coplanar = 0
	front    = 1
	back     = 2
	spanning = 3
)

// splitPolygon classifies poly against p and routes it (or its split
// halves) into the four destination lists.
func (p *plane) splitPolygon(poly polygon, coplanarFront, coplanarBack, frontList, backList *[]polygon) {
	polyType := 0
	types := make([]int, len(poly.verts))
	for i, v := range poly.verts {
		t := p.n.Dot(v) - p.w
		var vt int
		switch {
		case t < -planeEpsilon:
			vt = back
		case t > planeEpsilon:
			vt = front
		default:
			vt = coplanar
		}
		polyType |= vt
		types[i] = vt
	}

	switch polyType {
	case coplanar:
		if p.n.Dot(poly.plane.n) > 0 {
			*coplanarFront = append(*coplanarFront, poly)
		} else {
			*coplanarBack = append(*coplanarBack, poly)
		}
	case front:
		*frontList = append(*frontList, poly)
	case back:
		*backList = append(*backList, poly)
	case spanning:
		var f, b []mesh.Vec3
		n := len(poly.verts)
		for i := 0; i < n; i++ {
			j := (i + 1) % n
			ti, tj := types[i], types[j]
			vi, vj := poly.verts[i], poly.verts[j]
			if ti != back {
				f = append(f, vi)
			}
			if ti != front {
				b = append(b, vi)
			}
			if (ti | tj) == spanning {
				t := (p.w - p.n.Dot(vi)) / p.n.Dot(vj.Sub(vi))
				mid := vi.Lerp(vj, t)
				f = append(f, mid)
				b = append(b, mid)
			}
		}
		if len(f) >= 3 {
			*frontList = append(*frontList, polygon{verts: f, plane: poly.plane})
		}
		if len(b) >= 3 {
			*backList = append(*backList, polygon{verts: b, plane: poly.plane})
		}
	}
}

// node is a BSP tree node holding the polygons coplanar with its
// splitting plane.
type node struct {
	plane       *plane
	frontChild  *node
	backChild   *node
	polys       []polygon
}

func newNode(polys []polygon) *node {
	n := &node{}
	if len(polys) > 0 {
		n.build(polys)
	}
	return n
}

// invert flips solid and empty space.
func (n *node) invert() {
	for i := range n.polys {
		n.polys[i].flip()
	}
	if n.plane != nil {
		n.plane.flip()
	}
	if n.frontChild != nil {
		n.frontChild.invert()
	}
	if n.backChild != nil {
		n.backChild.invert()
	}
	n.frontChild, n.backChild = n.backChild, n.frontChild
}

// clipPolygons removes from the list everything inside this BSP's
// solid space.
func (n *node) clipPolygons(polys []polygon) []polygon {
	if n.plane == nil {
		return append([]polygon(nil), polys...)
	}
	var frontList, backList []polygon
	for _, poly := range polys {
		n.plane.splitPolygon(poly, &frontList, &backList, &frontList, &backList)
	}
	if n.frontChild != nil {
		frontList = n.frontChild.clipPolygons(frontList)
	}
	if n.backChild != nil {
		backList = n.backChild.clipPolygons(backList)
	} else {
		backList = nil
	}
	return append(frontList, backList...)
}

// clipTo removes every polygon of this tree that sits inside the other
// tree's solid space.
func (n *node) clipTo(other *node) {
	n.polys = other.clipPolygons(n.polys)
	if n.frontChild != nil {
		n.frontChild.clipTo(other)
	}
	if n.backChild != nil {
		n.backChild.clipTo(other)
	}
}

// allPolygons collects the polygons of the whole subtree.
func (n *node) allPolygons() []polygon {
	out := append([]polygon(nil), n.polys...)
	if n.frontChild != nil {
		out = append(out, n.frontChild.allPolygons()...)
	}
	if n.backChild != nil {
		out = append(out, n.backChild.allPolygons()...)
	}
	return out
}

// build inserts polygons into the subtree, creating children as
// needed. The first polygon's plane seeds an unsplit node.
func (n *node) build(polys []polygon) {
	if len(polys) == 0 {
		return
	}
	if n.plane == nil {
		p := polys[0].plane
		n.plane = &p
	}
	var frontList, backList []polygon
	for _, poly := range polys {
		n.plane.splitPolygon(poly, &n.polys, &n.polys, &frontList, &backList)
	}
	if len(frontList) > 0 {
		if n.frontChild == nil {
			n.frontChild = &node{}
		}
		n.frontChild.build(frontList)
	}
	if len(backList) > 0 {
		if n.backChild == nil {
			n.backChild = &node{}
		}
		n.backChild.build(backList)
	}
}
