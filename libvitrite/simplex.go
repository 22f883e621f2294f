package libvitrite

import (
	"github.com/vitrite-systems/vitrite/govitrite"
)

// EnumerateSimplices finds every node subset of g inducing the given simplex
// pattern, each reported once as an ascending node list.
//
// The patterns are induced subgraph matches: a tetrahedron is 4 mutually
// adjacent nodes, an octahedron is 3 antipodal non-adjacent pairs with all
// 12 cross-pair edges present and no others.
func EnumerateSimplices(g govitrite.GraphView, kind govitrite.SimplexKind) ([][]govitrite.NodeID, error) {
	if err := ValidateView(g); err != nil {
		return nil, err
	}
	switch kind {
	case govitrite.Triangle:
		return findTriangles(g), nil
	case govitrite.Tetrahedron:
		return findTetrahedra(g), nil
	case govitrite.Octahedron:
		return findOctahedra(g), nil
	}
	return nil, govitrite.ErrBadSimplexKind
}

// findTriangles scans each edge as the two smallest nodes of a triangle, so
// ascending common neighbors yield each triangle exactly once.
func findTriangles(g govitrite.GraphView) [][]govitrite.NodeID {
	var found [][]govitrite.NodeID
	for _, e := range g.Edges() {
		a, b := e.Nodes()
		for _, c := range g.Neighbors(a) {
			if c > b && g.HasEdge(b, c) {
				found = append(found, []govitrite.NodeID{a, b, c})
			}
		}
	}
	return found
}

func findTetrahedra(g govitrite.GraphView) [][]govitrite.NodeID {
	var found [][]govitrite.NodeID
	for _, tri := range findTriangles(g) {
		a, b, c := tri[0], tri[1], tri[2]
		for _, d := range g.Neighbors(c) {
			if d > c && g.HasEdge(a, d) && g.HasEdge(b, d) {
				found = append(found, []govitrite.NodeID{a, b, c, d})
			}
		}
	}
	return found
}

// findOctahedra anchors on the octahedron's minimal node p: its antipode q
// is the one non-neighbor, and the remaining 4 nodes form a chordless ring
// in the common neighborhood of p and q.
func findOctahedra(g govitrite.GraphView) [][]govitrite.NodeID {
	var found [][]govitrite.NodeID
	seen := NewCanonicSet()
	defer seen.Close()

	for _, p := range g.Nodes() {
		pN := g.Neighbors(p)
		if len(pN) < 4 {
			continue
		}
		for _, q := range antipodeCandidates(g, p, pN) {
			ring := commonNeighbors(g, pN, q)
			if len(ring) < 4 {
				continue
			}
			matchRings(g, p, q, ring, seen, &found)
		}
	}
	return found
}

// antipodeCandidates lists nodes two hops from p that are not adjacent to it.
func antipodeCandidates(g govitrite.GraphView, p govitrite.NodeID, pN []govitrite.NodeID) []govitrite.NodeID {
	cands := make(map[govitrite.NodeID]struct{})
	for _, n := range pN {
		for _, q := range g.Neighbors(n) {
			if q > p && q != p && !g.HasEdge(p, q) {
				cands[q] = struct{}{}
			}
		}
	}
	out := make([]govitrite.NodeID, 0, len(cands))
	for q := range cands {
		out = append(out, q)
	}
	sortNodeIDs(out)
	return out
}

func commonNeighbors(g govitrite.GraphView, pN []govitrite.NodeID, q govitrite.NodeID) []govitrite.NodeID {
	var out []govitrite.NodeID
	for _, n := range pN {
		if g.HasEdge(n, q) {
			out = append(out, n)
		}
	}
	return out
}

// matchRings finds the two remaining antipodal pairs inside ring: pairs
// (r1,r2) and (s1,s2) are each non-adjacent while all four cross edges are
// present, completing the induced octahedron around p and q.
func matchRings(
	g govitrite.GraphView,
	p, q govitrite.NodeID,
	ring []govitrite.NodeID,
	seen CanonicSet,
	found *[][]govitrite.NodeID,
) {
	n := len(ring)
	for i := 0; i < n; i++ {
		for j := i + 1; j < n; j++ {
			r1, r2 := ring[i], ring[j]
			if r1 < p || g.HasEdge(r1, r2) {
				continue
			}
			for k := 0; k < n; k++ {
				for l := k + 1; l < n; l++ {
					s1, s2 := ring[k], ring[l]
					if s1 <= r1 || s1 == r2 || s2 == r2 {
						continue
					}
					if g.HasEdge(s1, s2) {
						continue
					}
					if !g.HasEdge(r1, s1) || !g.HasEdge(r1, s2) ||
						!g.HasEdge(r2, s1) || !g.HasEdge(r2, s2) {
						continue
					}
					oct := []govitrite.NodeID{p, q, r1, r2, s1, s2}
					sortNodeIDs(oct)
					if !seen.TryAdd(govitrite.Cycle(oct)) {
						continue
					}
					*found = append(*found, oct)
				}
			}
		}
	}
}
