package libvitrite

import (
	"github.com/vitrite-systems/vitrite/govitrite"
)

// DiEnumOpts specifies params for a directed cycle enumeration.
type DiEnumOpts struct {
	Size           int  // exact directed cycle size (required, >= 3)
	ZeroOffsetOnly bool // keep only cycles with zero net lattice offset
}

// EnumerateDiCycles finds every directed cycle of exactly opts.Size nodes.
//
// The search anchors each cycle at its minimal node: a DFS from head h only
// follows successors greater than h, so every directed cycle is discovered
// exactly once with no dedup pass.  Unlike the undirected enumeration there
// is no irreducibility constraint; size does all the bounding.
func EnumerateDiCycles(g govitrite.DiGraphView, opts DiEnumOpts) (*govitrite.CycleStream, error) {
	if g == nil {
		return nil, govitrite.ErrNilGraph
	}
	if opts.Size < govitrite.MinCycleSize || opts.Size > govitrite.MaxCycleSize {
		return nil, govitrite.ErrBadCycleSize
	}

	stream := govitrite.NewCycleStream()
	go func() {
		defer stream.Close()
		walk := make([]govitrite.NodeID, 0, opts.Size)
		onPath := make(map[govitrite.NodeID]struct{}, opts.Size)
		for _, head := range g.Nodes() {
			walk = append(walk[:0], head)
			onPath[head] = struct{}{}
			more := diCycleDFS(g, opts, stream, head, walk, onPath, govitrite.Offset{})
			delete(onPath, head)
			if !more {
				return
			}
		}
	}()
	return stream, nil
}

func diCycleDFS(
	g govitrite.DiGraphView,
	opts DiEnumOpts,
	stream *govitrite.CycleStream,
	head govitrite.NodeID,
	walk []govitrite.NodeID,
	onPath map[govitrite.NodeID]struct{},
	netOff govitrite.Offset,
) bool {

	last := walk[len(walk)-1]

	if len(walk) == opts.Size {
		if !g.HasArc(last, head) {
			return true
		}
		if opts.ZeroOffsetOnly && !netOff.Add(g.ArcOffset(last, head)).IsZero() {
			return true
		}
		c := make(govitrite.Cycle, len(walk))
		copy(c, walk)
		select {
		case stream.Outlet <- c:
			return true
		case <-stream.Canceled():
			return false
		}
	}

	for _, next := range g.Successors(last) {
		if next <= head {
			// anchoring at the minimal node: smaller nodes belong to
			// cycles already found from their own head
			continue
		}
		if _, dup := onPath[next]; dup {
			continue
		}
		onPath[next] = struct{}{}
		more := diCycleDFS(g, opts, stream, head, append(walk, next), onPath, netOff.Add(g.ArcOffset(last, next)))
		delete(onPath, next)
		if !more {
			return false
		}
	}
	return true
}

// OrientedCycle pairs an undirected cycle with the direction its underlying
// arcs run: Fwd[i] is true when the digraph holds the arc from node i to
// node i+1 of the canonical traversal.
type OrientedCycle struct {
	govitrite.Cycle
	Fwd []bool
}

// ArcDirections reports each cycle edge's arc direction in g.  Edges backed
// by anti-parallel arc pairs report true.
func ArcDirections(g govitrite.DiGraphView, c govitrite.Cycle) []bool {
	fwd := make([]bool, len(c))
	for i := range c {
		j := i + 1
		if j == len(c) {
			j = 0
		}
		fwd[i] = g.HasArc(c[i], c[j])
	}
	return fwd
}

// EnumerateOrientations finds the irreducible cycles of dg's undirected
// projection and annotates each with its arc directions.
func EnumerateOrientations(dg *DiGraph, opts EnumOpts) ([]OrientedCycle, error) {
	en, err := NewEnumerator(dg.AsUndirected(), opts)
	if err != nil {
		return nil, err
	}
	stream := en.EnumerateCycles()
	cycles := stream.Collect()
	if err := stream.Err(); err != nil {
		return nil, err
	}
	oriented := make([]OrientedCycle, 0, len(cycles))
	for _, c := range cycles {
		oriented = append(oriented, OrientedCycle{
			Cycle: c,
			Fwd:   ArcDirections(dg, c),
		})
	}
	return oriented, nil
}
