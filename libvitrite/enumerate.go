package libvitrite

import (
	"sync"

	"github.com/plan-systems/klog"

	"github.com/vitrite-systems/vitrite/govitrite"
)

// EnumOpts specifies params for an undirected cycle enumeration.
type EnumOpts struct {
	MaxSize      int  // largest cycle size to find (required, >= 3)
	SkipSpanning bool // drop cycles whose net lattice offset is nonzero
	CountLimit   int  // > 0 caps the number of emitted cycles (ErrEnumLimit)
	Workers      int  // closing-edge BFS fan-out; <= 1 runs in emission order
}

// Enumerator finds every irreducible cycle of a graph up to a bounded size,
// deduplicated through its CycleIndex.
//
// A cycle is irreducible iff no pair of its non-adjacent nodes is joined by
// a path shorter than the along-cycle arc between them.  Every emitted cycle
// is irreducible, and every irreducible cycle of size <= MaxSize is emitted
// exactly once.
type Enumerator struct {
	Index *CycleIndex

	graph govitrite.GraphView
	opts  EnumOpts
}

// NewEnumerator validates the graph eagerly and prepares an enumeration.
// The graph must be simple: self-loops and parallel edges fail with
// ErrSelfLoop / ErrMultiEdge, asymmetric adjacency with ErrInvalidGraph.
func NewEnumerator(g govitrite.GraphView, opts EnumOpts) (*Enumerator, error) {
	if err := ValidateView(g); err != nil {
		return nil, err
	}
	if opts.MaxSize < govitrite.MinCycleSize {
		return nil, govitrite.ErrBadCycleSize
	}
	if opts.MaxSize > govitrite.MaxCycleSize {
		opts.MaxSize = govitrite.MaxCycleSize
	}
	return &Enumerator{
		Index: NewCycleIndex(),
		graph: g,
		opts:  opts,
	}, nil
}

// EnumerateCycles starts the search, returning the stream of discovered
// cycles.  The Index fills incrementally as the stream is consumed; partial
// consumption is safe after Cancel.
func (en *Enumerator) EnumerateCycles() *govitrite.CycleStream {
	stream := govitrite.NewCycleStream()

	if en.opts.Workers > 1 {
		go en.runParallel(stream)
	} else {
		go en.runSequential(stream)
	}
	return stream
}

func (en *Enumerator) runSequential(stream *govitrite.CycleStream) {
	emitted := 0
	defer func() {
		klog.V(2).Infof("enumerated %d irreducible cycles (max size %d)", emitted, en.opts.MaxSize)
		stream.Close()
	}()

	for _, e := range en.graph.Edges() {
		done := false
		en.closingCycles(e, func(c govitrite.Cycle) bool {
			_, isNew := en.Index.TryAdd(c)
			if !isNew {
				return true
			}
			if en.opts.CountLimit > 0 && emitted >= en.opts.CountLimit {
				stream.Fail(govitrite.ErrEnumLimit)
				done = true
				return false
			}
			select {
			case stream.Outlet <- c:
				emitted++
				return true
			case <-stream.Canceled():
				done = true
				return false
			}
		})
		if done {
			return
		}
	}
}

// runParallel fans the per-closing-edge BFS out across workers.  All results
// merge through the single CycleIndex, which preserves the exactly-once
// guarantee; emission order then depends on scheduling.
func (en *Enumerator) runParallel(stream *govitrite.CycleStream) {
	edges := make(chan govitrite.Edge, en.opts.Workers)
	found := make(chan govitrite.Cycle, en.opts.Workers)

	var workers sync.WaitGroup
	for wi := 0; wi < en.opts.Workers; wi++ {
		workers.Add(1)
		go func() {
			defer workers.Done()
			for e := range edges {
				en.closingCycles(e, func(c govitrite.Cycle) bool {
					select {
					case found <- c:
						return true
					case <-stream.Canceled():
						return false
					}
				})
			}
		}()
	}

	go func() {
		defer close(edges)
		for _, e := range en.graph.Edges() {
			select {
			case edges <- e:
			case <-stream.Canceled():
				return
			}
		}
	}()

	go func() {
		workers.Wait()
		close(found)
	}()

	emitted := 0
	for c := range found {
		_, isNew := en.Index.TryAdd(c)
		if !isNew {
			continue
		}
		if en.opts.CountLimit > 0 && emitted >= en.opts.CountLimit {
			stream.Fail(govitrite.ErrEnumLimit)
			stream.Cancel()
			break
		}
		select {
		case stream.Outlet <- c:
			emitted++
		case <-stream.Canceled():
		}
	}
	for range found {
		// drain workers after cancel
	}
	klog.V(2).Infof("enumerated %d irreducible cycles (max size %d)", emitted, en.opts.MaxSize)
	stream.Close()
}

// closingCycles treats e as the cycle-closing edge: a bounded BFS with e
// removed finds every shortest path between its endpoints, and each such
// path plus e is a candidate cycle.  Candidates that survive the
// irreducibility check are canonicalized and handed to onCycle; returning
// false stops the walk.
func (en *Enumerator) closingCycles(e govitrite.Edge, onCycle func(c govitrite.Cycle) bool) {
	u, v := e.Nodes()

	dist, preds, reached := en.shortestPathWeb(v, u, e)
	if !reached || dist[u] < 2 {
		return
	}

	// expand every shortest path u <- ... <- v out of the predecessor web
	walk := make([]govitrite.NodeID, 0, dist[u]+1)
	walk = append(walk, u)
	more := true
	var expand func(n govitrite.NodeID)
	expand = func(n govitrite.NodeID) {
		if !more {
			return
		}
		if n == v {
			// walk currently reads u .. v; the closing edge v-u is implicit
			if en.isIrreducible(walk) && en.allowsOffset(walk) {
				more = onCycle(Canonize(walk))
			}
			return
		}
		for _, p := range preds[n] {
			walk = append(walk, p)
			expand(p)
			walk = walk[:len(walk)-1]
		}
	}
	expand(u)
}

// shortestPathWeb runs a BFS from src bounded to MaxSize-1 hops with the
// closing edge banned, recording every shortest-path predecessor of each
// node.  Returns once dst's BFS layer has been fully scanned.
func (en *Enumerator) shortestPathWeb(
	src, dst govitrite.NodeID,
	banned govitrite.Edge,
) (dist map[govitrite.NodeID]int, preds map[govitrite.NodeID][]govitrite.NodeID, reached bool) {

	maxDepth := en.opts.MaxSize - 1
	dist = map[govitrite.NodeID]int{src: 0}
	preds = make(map[govitrite.NodeID][]govitrite.NodeID)
	queue := []govitrite.NodeID{src}

	for len(queue) > 0 {
		n := queue[0]
		queue = queue[1:]
		d := dist[n]
		if n == dst {
			reached = true
		}
		if d == maxDepth || (reached && d >= dist[dst]) {
			continue
		}
		for _, next := range en.graph.Neighbors(n) {
			if govitrite.FormEdge(n, next) == banned {
				continue
			}
			dNext, seen := dist[next]
			if !seen {
				dist[next] = d + 1
				preds[next] = append(preds[next], n)
				queue = append(queue, next)
			} else if dNext == d+1 {
				preds[next] = append(preds[next], n)
			}
		}
	}
	return dist, preds, reached
}

// isIrreducible verifies the chord-free invariant: no two non-adjacent nodes
// of the cycle may be joined by a path shorter than their along-cycle arc.
func (en *Enumerator) isIrreducible(cyc []govitrite.NodeID) bool {
	L := len(cyc)
	for i := 0; i < L-2; i++ {
		for j := i + 2; j < L; j++ {
			arc := ShortestArcDist(L, i, j)
			if arc < 2 {
				continue
			}
			if en.boundedDist(cyc[i], cyc[j], arc) < arc {
				return false
			}
		}
	}
	return true
}

func (en *Enumerator) allowsOffset(cyc []govitrite.NodeID) bool {
	if !en.opts.SkipSpanning {
		return true
	}
	var sum govitrite.Offset
	for i := range cyc {
		j := i + 1
		if j == len(cyc) {
			j = 0
		}
		sum = sum.Add(en.graph.EdgeOffset(cyc[i], cyc[j]))
	}
	return sum.IsZero()
}

// boundedDist returns the BFS distance from a to b in the full graph, or
// bound+1 when no path of length <= bound exists.
func (en *Enumerator) boundedDist(a, b govitrite.NodeID, bound int) int {
	if a == b {
		return 0
	}
	dist := map[govitrite.NodeID]int{a: 0}
	queue := []govitrite.NodeID{a}

	for len(queue) > 0 {
		n := queue[0]
		queue = queue[1:]
		d := dist[n]
		if d == bound {
			continue
		}
		for _, next := range en.graph.Neighbors(n) {
			if next == b {
				return d + 1
			}
			if _, seen := dist[next]; !seen {
				dist[next] = d + 1
				queue = append(queue, next)
			}
		}
	}
	return bound + 1
}
