package libvitrite

import (
	"bytes"
	"sort"

	"github.com/emirpasic/gods/trees/redblacktree"
	"github.com/plan-systems/klog"

	"github.com/vitrite-systems/vitrite/govitrite"
)

// HullOpts specifies params for hull assembly over an enumerated cycle set.
type HullOpts struct {
	MaxHulls int // > 0 stops after this many hulls are committed
}

// BuildHulls partitions the cycles of idx into vitrite hulls: maximal face
// sets where every covered edge is shared by exactly 2 faces and no vertex
// belongs to more than 3.  Closed regions must satisfy F - E + V == 2.
//
// Edges no face set can close are left uncovered; that is a normal outcome
// reported through HullStats, not an error.  ErrHullInconsistency fires only
// when idx holds a cycle over nodes or edges the graph does not have.
func BuildHulls(g govitrite.GraphView, idx *CycleIndex, opts HullOpts) ([]govitrite.Hull, govitrite.HullStats, error) {
	var stats govitrite.HullStats

	if g == nil {
		return nil, stats, govitrite.ErrNilGraph
	}
	if err := checkIndexAgainst(g, idx); err != nil {
		return nil, stats, err
	}

	hb := &hullSearch{
		graph:     g,
		idx:       idx,
		edgeCount: make(map[govitrite.Edge]int),
		vertCount: make(map[govitrite.NodeID]int),
		selected:  make(map[govitrite.CycleID]bool),
	}

	byKey := redblacktree.NewWith(func(a, b interface{}) int {
		return bytes.Compare(a.(govitrite.CycleKey), b.(govitrite.CycleKey))
	})

	for {
		seed, ok := hb.pickSeed()
		if !ok {
			break
		}
		hull, closed := hb.growRegion(seed)
		if !closed {
			hb.failed = append(hb.failed, seed)
			continue
		}
		byKey.Put(hull.Faces[0].AppendKeyTo(nil), hull)
		if opts.MaxHulls > 0 && byKey.Size() >= opts.MaxHulls {
			break
		}
	}

	hulls := make([]govitrite.Hull, 0, byKey.Size())
	for it := byKey.Iterator(); it.Next(); {
		hulls = append(hulls, *it.Value().(*govitrite.Hull))
	}

	stats.EdgesTotal = len(g.Edges())
	for _, n := range hb.edgeCount {
		if n == 2 {
			stats.EdgesCovered++
		}
	}
	stats.HullCount = len(hulls)
	klog.V(2).Infof("hull assembly: %d hulls, %d/%d edges covered", stats.HullCount, stats.EdgesCovered, stats.EdgesTotal)
	return hulls, stats, nil
}

func checkIndexAgainst(g govitrite.GraphView, idx *CycleIndex) error {
	var bad error
	idx.ForEachCycle(func(id govitrite.CycleID, c govitrite.Cycle) bool {
		for _, n := range c {
			if !g.Contains(n) {
				bad = govitrite.ErrHullInconsistency
				return false
			}
		}
		ok := true
		c.VisitEdges(func(e govitrite.Edge) {
			a, b := e.Nodes()
			if !g.HasEdge(a, b) {
				ok = false
			}
		})
		if !ok {
			bad = govitrite.ErrHullInconsistency
			return false
		}
		return true
	})
	return bad
}

type hullSearch struct {
	graph     govitrite.GraphView
	idx       *CycleIndex
	edgeCount map[govitrite.Edge]int
	vertCount map[govitrite.NodeID]int
	selected  map[govitrite.CycleID]bool
	failed    []govitrite.Edge
}

// hullFrame is one level of the region search: an open edge plus the face
// candidates that could close it, tried in canonical key order.
type hullFrame struct {
	cands   []govitrite.CycleID
	next    int
	picked  govitrite.CycleID
	applied bool
}

// pickSeed selects the next uncovered edge to grow a region from,
// most-constrained first: fewest covering cycles, then smallest edge.
func (hb *hullSearch) pickSeed() (govitrite.Edge, bool) {
	bestN := -1
	var best govitrite.Edge
	for _, e := range hb.graph.Edges() {
		if hb.edgeCount[e] != 0 || hb.hasFailed(e) {
			continue
		}
		n := len(hb.candidatesFor(e))
		if n == 0 {
			hb.failed = append(hb.failed, e)
			continue
		}
		if bestN < 0 || n < bestN || (n == bestN && e < best) {
			bestN, best = n, e
		}
	}
	return best, bestN >= 0
}

func (hb *hullSearch) hasFailed(e govitrite.Edge) bool {
	for _, f := range hb.failed {
		if f == e {
			return true
		}
	}
	return false
}

// growRegion backtracks over face choices until every touched edge reaches
// its 2-face closure, then validates the Euler index.  On failure all
// applied faces are unwound and the seed stays uncovered.
func (hb *hullSearch) growRegion(seed govitrite.Edge) (*govitrite.Hull, bool) {
	stack := []hullFrame{{cands: hb.candidatesFor(seed)}}
	var picked []govitrite.CycleID

	for len(stack) > 0 {
		f := &stack[len(stack)-1]
		if f.applied {
			hb.unapply(f.picked)
			picked = picked[:len(picked)-1]
			f.applied = false
		}
		advanced := false
		for f.next < len(f.cands) {
			id := f.cands[f.next]
			f.next++
			if hb.canApply(id) {
				hb.apply(id)
				picked = append(picked, id)
				f.picked = id
				f.applied = true
				advanced = true
				break
			}
		}
		if !advanced {
			stack = stack[:len(stack)-1]
			continue
		}

		open, stillOpen := hb.pickOpenEdge()
		if !stillOpen {
			if hull := hb.finishHull(picked); hull != nil {
				return hull, true
			}
			continue // closed but not a polyhedron; retry from this frame
		}
		stack = append(stack, hullFrame{cands: hb.candidatesFor(open)})
	}
	return nil, false
}

// candidatesFor lists the unselected cycles that could legally cover e,
// ordered by canonical key.
func (hb *hullSearch) candidatesFor(e govitrite.Edge) []govitrite.CycleID {
	var out []govitrite.CycleID
	for _, id := range hb.idx.CyclesCoveringEdge(e) {
		if !hb.selected[id] && hb.canApply(id) {
			out = append(out, id)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		return bytes.Compare(hb.idx.Key(out[i]), hb.idx.Key(out[j])) < 0
	})
	return out
}

func (hb *hullSearch) canApply(id govitrite.CycleID) bool {
	if hb.selected[id] {
		return false
	}
	c := hb.idx.Cycle(id)
	ok := true
	c.VisitEdges(func(e govitrite.Edge) {
		if hb.edgeCount[e] >= 2 {
			ok = false
		}
	})
	if !ok {
		return false
	}
	for _, n := range c {
		if hb.vertCount[n] >= 3 {
			return false
		}
	}
	return true
}

func (hb *hullSearch) apply(id govitrite.CycleID) {
	c := hb.idx.Cycle(id)
	c.VisitEdges(func(e govitrite.Edge) {
		hb.edgeCount[e]++
	})
	for _, n := range c {
		hb.vertCount[n]++
	}
	hb.selected[id] = true
}

func (hb *hullSearch) unapply(id govitrite.CycleID) {
	c := hb.idx.Cycle(id)
	c.VisitEdges(func(e govitrite.Edge) {
		hb.edgeCount[e]--
	})
	for _, n := range c {
		hb.vertCount[n]--
	}
	delete(hb.selected, id)
}

// pickOpenEdge scans for edges with a single covering face, which the region
// must still close.  Most-constrained first, smallest edge on ties.
func (hb *hullSearch) pickOpenEdge() (govitrite.Edge, bool) {
	var open []govitrite.Edge
	for e, n := range hb.edgeCount {
		if n == 1 {
			open = append(open, e)
		}
	}
	if len(open) == 0 {
		return 0, false
	}
	sort.Slice(open, func(i, j int) bool { return open[i] < open[j] })

	best := open[0]
	bestN := len(hb.candidatesFor(best))
	for _, e := range open[1:] {
		if n := len(hb.candidatesFor(e)); n < bestN {
			best, bestN = e, n
		}
	}
	return best, true
}

// finishHull validates a closed region as a polyhedron and locks its faces
// in.  A closed region failing the Euler index is rejected back into the
// search.
func (hb *hullSearch) finishHull(picked []govitrite.CycleID) *govitrite.Hull {
	verts := make(map[govitrite.NodeID]struct{})
	edges := make(map[govitrite.Edge]struct{})
	faces := make([]govitrite.Cycle, 0, len(picked))

	for _, id := range picked {
		c := hb.idx.Cycle(id)
		faces = append(faces, c)
		for _, n := range c {
			verts[n] = struct{}{}
		}
		c.VisitEdges(func(e govitrite.Edge) {
			edges[e] = struct{}{}
		})
	}

	hull := &govitrite.Hull{
		Faces: faces,
		Verts: len(verts),
		Edges: len(edges),
	}
	if hull.EulerIndex() != 2 {
		return nil
	}
	sort.Slice(hull.Faces, func(i, j int) bool {
		ki := hull.Faces[i].AppendKeyTo(nil)
		kj := hull.Faces[j].AppendKeyTo(nil)
		return bytes.Compare(ki, kj) < 0
	})
	return hull
}
