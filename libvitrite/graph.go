package libvitrite

import (
	"sort"

	"github.com/vitrite-systems/vitrite/govitrite"
)

// Graph is the concrete simple undirected graph used as input to the
// enumerator.  Self-loops and parallel edges are rejected at insertion, so a
// fully constructed Graph always satisfies the GraphView input contract.
type Graph struct {
	adj     map[govitrite.NodeID][]govitrite.NodeID
	offsets map[govitrite.Edge]govitrite.Offset

	// rebuilt on demand after mutation
	dirty bool
	nodes []govitrite.NodeID
	edges []govitrite.Edge
}

func NewGraph() *Graph {
	return &Graph{
		adj: make(map[govitrite.NodeID][]govitrite.NodeID),
	}
}

// NewGraphFromAdjacency builds a Graph from a node -> neighbor-set mapping.
// The mapping may list each edge once or twice (symmetric closure is applied).
func NewGraphFromAdjacency(adj map[govitrite.NodeID][]govitrite.NodeID) (*Graph, error) {
	g := NewGraph()
	for a, nbrs := range adj {
		g.AddNode(a)
		for _, b := range nbrs {
			err := g.AddEdge(a, b)
			if err != nil && err != govitrite.ErrMultiEdge {
				return nil, err
			}
		}
	}
	return g, nil
}

func (g *Graph) AddNode(n govitrite.NodeID) {
	if n == 0 {
		return
	}
	if _, exists := g.adj[n]; !exists {
		g.adj[n] = nil
		g.dirty = true
	}
}

// AddEdge joins a and b, failing on self-loops and parallel edges.
func (g *Graph) AddEdge(a, b govitrite.NodeID) error {
	return g.AddEdgeWithOffset(a, b, govitrite.Offset{})
}

// AddEdgeWithOffset joins a and b with a lattice offset oriented a -> b.
func (g *Graph) AddEdgeWithOffset(a, b govitrite.NodeID, offset govitrite.Offset) error {
	if a == 0 || b == 0 {
		return govitrite.ErrBadNodeID
	}
	if a == b {
		return govitrite.ErrSelfLoop
	}
	if g.hasNeighbor(a, b) {
		return govitrite.ErrMultiEdge
	}

	g.insertNeighbor(a, b)
	g.insertNeighbor(b, a)

	if !offset.IsZero() {
		if g.offsets == nil {
			g.offsets = make(map[govitrite.Edge]govitrite.Offset)
		}
		// store the offset in canonical lo -> hi orientation
		if a > b {
			offset = offset.Negate()
		}
		g.offsets[govitrite.FormEdge(a, b)] = offset
	}

	g.dirty = true
	return nil
}

func (g *Graph) hasNeighbor(a, b govitrite.NodeID) bool {
	nbrs := g.adj[a]
	i := sort.Search(len(nbrs), func(i int) bool { return nbrs[i] >= b })
	return i < len(nbrs) && nbrs[i] == b
}

func (g *Graph) insertNeighbor(a, b govitrite.NodeID) {
	nbrs := g.adj[a]
	i := sort.Search(len(nbrs), func(i int) bool { return nbrs[i] >= b })
	nbrs = append(nbrs, 0)
	copy(nbrs[i+1:], nbrs[i:])
	nbrs[i] = b
	g.adj[a] = nbrs
}

func (g *Graph) refresh() {
	if !g.dirty {
		return
	}
	g.nodes = g.nodes[:0]
	g.edges = g.edges[:0]
	for n := range g.adj {
		g.nodes = append(g.nodes, n)
	}
	sort.Slice(g.nodes, func(i, j int) bool { return g.nodes[i] < g.nodes[j] })
	for _, a := range g.nodes {
		for _, b := range g.adj[a] {
			if a < b {
				g.edges = append(g.edges, govitrite.FormEdge(a, b))
			}
		}
	}
	sort.Slice(g.edges, func(i, j int) bool { return g.edges[i] < g.edges[j] })
	g.dirty = false
}

func sortNodeIDs(ids []govitrite.NodeID) {
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
}

func (g *Graph) Nodes() []govitrite.NodeID {
	g.refresh()
	return g.nodes
}

func (g *Graph) Contains(n govitrite.NodeID) bool {
	_, exists := g.adj[n]
	return exists
}

func (g *Graph) Neighbors(n govitrite.NodeID) []govitrite.NodeID {
	return g.adj[n]
}

func (g *Graph) HasEdge(a, b govitrite.NodeID) bool {
	return g.hasNeighbor(a, b)
}

func (g *Graph) Edges() []govitrite.Edge {
	g.refresh()
	return g.edges
}

func (g *Graph) NumNodes() int {
	return len(g.adj)
}

func (g *Graph) NumEdges() int {
	g.refresh()
	return len(g.edges)
}

func (g *Graph) EdgeOffset(a, b govitrite.NodeID) govitrite.Offset {
	offset, found := g.offsets[govitrite.FormEdge(a, b)]
	if !found {
		return govitrite.Offset{}
	}
	if a > b {
		offset = offset.Negate()
	}
	return offset
}

// ValidateView checks an externally supplied GraphView against the simple
// graph input contract: no self-loops, no duplicate neighbor entries, and
// symmetric adjacency.
func ValidateView(g govitrite.GraphView) error {
	if g == nil {
		return govitrite.ErrNilGraph
	}
	for _, a := range g.Nodes() {
		var prev govitrite.NodeID
		for _, b := range g.Neighbors(a) {
			if b == a {
				return govitrite.ErrSelfLoop
			}
			if b == prev && prev != 0 {
				return govitrite.ErrMultiEdge
			}
			if !g.HasEdge(b, a) {
				return govitrite.ErrInvalidGraph
			}
			prev = b
		}
	}
	return nil
}

// DiGraph is the concrete simple directed graph consumed by the directed
// cycle enumerator.
type DiGraph struct {
	succ    map[govitrite.NodeID][]govitrite.NodeID
	offsets map[govitrite.Arc]govitrite.Offset

	dirty bool
	nodes []govitrite.NodeID
}

func NewDiGraph() *DiGraph {
	return &DiGraph{
		succ: make(map[govitrite.NodeID][]govitrite.NodeID),
	}
}

func (dg *DiGraph) AddNode(n govitrite.NodeID) {
	if n == 0 {
		return
	}
	if _, exists := dg.succ[n]; !exists {
		dg.succ[n] = nil
		dg.dirty = true
	}
}

// AddArc adds a directed edge from -> to.  Anti-parallel arcs are allowed;
// a duplicate arc or a self-loop is not.
func (dg *DiGraph) AddArc(from, to govitrite.NodeID) error {
	return dg.AddArcWithOffset(from, to, govitrite.Offset{})
}

func (dg *DiGraph) AddArcWithOffset(from, to govitrite.NodeID, offset govitrite.Offset) error {
	if from == 0 || to == 0 {
		return govitrite.ErrBadNodeID
	}
	if from == to {
		return govitrite.ErrSelfLoop
	}
	if dg.HasArc(from, to) {
		return govitrite.ErrMultiEdge
	}

	succ := dg.succ[from]
	i := sort.Search(len(succ), func(i int) bool { return succ[i] >= to })
	succ = append(succ, 0)
	copy(succ[i+1:], succ[i:])
	succ[i] = to
	dg.succ[from] = succ
	dg.AddNode(to)

	if !offset.IsZero() {
		if dg.offsets == nil {
			dg.offsets = make(map[govitrite.Arc]govitrite.Offset)
		}
		dg.offsets[govitrite.FormArc(from, to)] = offset
	}

	dg.dirty = true
	return nil
}

func (dg *DiGraph) Nodes() []govitrite.NodeID {
	if dg.dirty {
		dg.nodes = dg.nodes[:0]
		for n := range dg.succ {
			dg.nodes = append(dg.nodes, n)
		}
		sort.Slice(dg.nodes, func(i, j int) bool { return dg.nodes[i] < dg.nodes[j] })
		dg.dirty = false
	}
	return dg.nodes
}

func (dg *DiGraph) Successors(n govitrite.NodeID) []govitrite.NodeID {
	return dg.succ[n]
}

func (dg *DiGraph) HasArc(from, to govitrite.NodeID) bool {
	succ := dg.succ[from]
	i := sort.Search(len(succ), func(i int) bool { return succ[i] >= to })
	return i < len(succ) && succ[i] == to
}

func (dg *DiGraph) ArcOffset(from, to govitrite.NodeID) govitrite.Offset {
	return dg.offsets[govitrite.FormArc(from, to)]
}

// AsUndirected collapses arc direction, merging anti-parallel arc pairs into
// a single undirected edge.
func (dg *DiGraph) AsUndirected() *Graph {
	g := NewGraph()
	for _, from := range dg.Nodes() {
		g.AddNode(from)
		for _, to := range dg.succ[from] {
			err := g.AddEdgeWithOffset(from, to, dg.ArcOffset(from, to))
			if err != nil && err != govitrite.ErrMultiEdge {
				// AddArc enforces the same node ID and loop rules
				panic(err)
			}
		}
	}
	return g
}
