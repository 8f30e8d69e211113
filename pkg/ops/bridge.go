package ops

import (
	"github.com/chazu/burl/pkg/mesh"
)

// BridgeEdgeLoops connects two edge loops of equal length with one
// quad per edge pair, forming a tube (closed loops) or a ribbon (open
// chains). Each loop is given as a set of edge ids that must chain
// into a single path; the second loop is reversed and, for closed
// loops, rotated so that paired vertices are as close as possible
// before the side faces are built.
//
// Fails without mutating when the loop lengths differ, an id is
// unknown, a loop does not chain into one path, or one loop is open
// while the other is closed.
func BridgeEdgeLoops(m *mesh.Mesh, loopA, loopB []int) error {
	const op = "bridge-edge-loops"
	ea, eb := uniqueIDs(loopA), uniqueIDs(loopB)
	if len(ea) == 0 || len(eb) == 0 {
		return paramErr(op, "empty edge loop")
	}
	if len(ea) != len(eb) {
		return paramErr(op, "loop lengths differ: %d vs %d", len(ea), len(eb))
	}
	pathA, closedA, err := chainEdges(op, m, ea)
	if err != nil {
		return err
	}
	pathB, closedB, err := chainEdges(op, m, eb)
	if err != nil {
		return err
	}
	if closedA != closedB {
		return topoErr(op, "cannot bridge an open chain to a closed loop")
	}

	pathB = alignLoops(m, pathA, pathB, closedA)

	work := m.Clone()
	n := len(pathA)
	if closedA {
		for i := 0; i < n; i++ {
			j := (i + 1) % n
			if _, err := work.AddFace(pathA[i], pathA[j], pathB[j], pathB[i]); err != nil {
				return &OpError{Op: op, Kind: KindInternal, Message: err.Error()}
			}
		}
	} else {
		for i := 0; i+1 < n; i++ {
			if _, err := work.AddFace(pathA[i], pathA[i+1], pathB[i+1], pathB[i]); err != nil {
				return &OpError{Op: op, Kind: KindInternal, Message: err.Error()}
			}
		}
	}
	work.BuildTopology()
	work.RecalculateNormals()
	return commit(op, m, work)
}

// chainEdges orders a set of edge ids into a vertex path. Returns the
// path, whether it closes on itself, or a topology error when the
// edges branch or split into several components.
func chainEdges(op string, m *mesh.Mesh, edgeIDs []int) ([]int, bool, error) {
	adj := make(map[int][]int)
	for _, eid := range edgeIDs {
		e, ok := m.Edge(eid)
		if !ok {
			return nil, false, invalidRef(op, "edge", eid)
		}
		adj[e.V1] = append(adj[e.V1], e.V2)
		adj[e.V2] = append(adj[e.V2], e.V1)
	}

	var ends []int
	for v, ns := range adj {
		switch len(ns) {
		case 1:
			ends = append(ends, v)
		case 2:
		default:
			return nil, false, topoErr(op, "edge loop branches at vertex %d", v)
		}
	}

	closed := len(ends) == 0
	var start int
	switch len(ends) {
	case 0:
		// Closed loop: start anywhere deterministic (smallest id).
		start = -1
		for v := range adj {
			if start < 0 || v < start {
				start = v
			}
		}
	case 2:
		start = ends[0]
		if ends[1] < start {
			start = ends[1]
		}
	default:
		return nil, false, topoErr(op, "edge set is not a single chain")
	}

	path := []int{start}
	prev := -1
	cur := start
	for {
		next := -1
		for _, n := range adj[cur] {
			if n != prev {
				next = n
				break
			}
		}
		if next == -1 {
			break // open chain end
		}
		if next == start {
			break // closed the loop
		}
		path = append(path, next)
		prev, cur = cur, next
		if len(path) > len(adj) {
			return nil, false, topoErr(op, "edge set is not a single chain")
		}
	}
	if len(path) != len(adj) {
		return nil, false, topoErr(op, "edge set splits into multiple chains")
	}
	return path, closed, nil
}

// alignLoops orients pathB against pathA: reversed if that shortens
// the total pairing distance, and rotated (closed loops only) so the
// nearest vertices pair up.
func alignLoops(m *mesh.Mesh, pathA, pathB []int, closed bool) []int {
	pos := func(vid int) mesh.Vec3 {
		v, _ := m.Vertex(vid)
		return v.Position
	}
	pairCost := func(b []int) float64 {
		var sum float64
		for i := range pathA {
			sum += pos(pathA[i]).Sub(pos(b[i])).Length()
		}
		return sum
	}
	reversed := make([]int, len(pathB))
	for i, v := range pathB {
		reversed[len(pathB)-1-i] = v
	}

	candidates := [][]int{pathB, reversed}
	if closed {
		// Every rotation of both orientations is a candidate.
		var all [][]int
		for _, base := range candidates {
			for r := 0; r < len(base); r++ {
				rot := make([]int, len(base))
				copy(rot, base[r:])
				copy(rot[len(base)-r:], base[:r])
				all = append(all, rot)
			}
		}
		candidates = all
	}

	best := candidates[0]
	bestCost := pairCost(best)
	for _, c := range candidates[1:] {
		if cost := pairCost(c); cost < bestCost {
			best, bestCost = c, cost
		}
	}
	return best
}
