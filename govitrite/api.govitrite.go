package govitrite

import (
	"encoding/binary"
)

const (
	// MaxCycleSize is the largest cycle length the enumerator will ever be asked for.
	// Hydrogen-bond network rings of interest top out well below this.
	MaxCycleSize = 64

	// MinCycleSize is the smallest closed walk that forms a ring.
	MinCycleSize = 3
)

// NodeID identifies a node of a GraphView. 0 denotes nil / unassigned.
type NodeID uint32

// Edge packs an unordered node pair: (lo << 32) | hi, where lo < hi.
type Edge uint64

// FormEdge forms a canonical Edge from the given pair, in either order.
func FormEdge(a, b NodeID) Edge {
	if a > b {
		a, b = b, a
	}
	return Edge(a)<<32 | Edge(b)
}

func (e Edge) Nodes() (lo, hi NodeID) {
	return NodeID(e >> 32), NodeID(e)
}

// Arc packs an ordered node pair: (from << 32) | to.
type Arc uint64

func FormArc(from, to NodeID) Arc {
	return Arc(from)<<32 | Arc(to)
}

func (a Arc) Nodes() (from, to NodeID) {
	return NodeID(a >> 32), NodeID(a)
}

// Offset is an integer lattice translation carried by an edge of a periodic
// graph.  An edge whose endpoints sit in the same unit cell carries the zero
// Offset.
type Offset [3]int8

func (o Offset) IsZero() bool {
	return o[0] == 0 && o[1] == 0 && o[2] == 0
}

func (o Offset) Negate() Offset {
	return Offset{-o[0], -o[1], -o[2]}
}

func (o Offset) Add(other Offset) Offset {
	return Offset{o[0] + other[0], o[1] + other[1], o[2] + other[2]}
}

// GraphView is a read-only adjacency contract over an undirected simple graph.
// The core never mutates a GraphView; implementations stay immutable for the
// duration of an analysis.
type GraphView interface {

	// Nodes returns all node IDs in ascending order.
	Nodes() []NodeID

	// Contains returns whether the given node is part of this graph.
	Contains(n NodeID) bool

	// Neighbors returns the adjacent nodes of n in ascending order.
	// The returned slice is owned by the graph and must not be mutated.
	Neighbors(n NodeID) []NodeID

	// HasEdge returns whether an edge joins the given pair.
	HasEdge(a, b NodeID) bool

	// Edges returns every edge in ascending Edge order.
	Edges() []Edge

	// EdgeOffset returns the lattice offset of the edge traversed a -> b.
	// The zero Offset is returned for non-periodic graphs.
	EdgeOffset(a, b NodeID) Offset
}

// DiGraphView is the directed counterpart of GraphView.
type DiGraphView interface {

	// Nodes returns all node IDs in ascending order.
	Nodes() []NodeID

	// Successors returns the out-neighbors of n in ascending order.
	Successors(n NodeID) []NodeID

	// HasArc returns whether a directed edge runs from -> to.
	HasArc(from, to NodeID) bool

	// ArcOffset returns the lattice offset of the arc from -> to.
	ArcOffset(from, to NodeID) Offset
}

// Cycle is a closed walk of 3 or more distinct nodes, held in canonical form:
// minimal rotation starting at the smallest node, lexicographically smaller of
// the two traversal directions.  Two geometrically identical cycles compare
// equal regardless of where or which way the traversal started.
type Cycle []NodeID

// Size returns the number of nodes (equal to the number of edges).
func (c Cycle) Size() int {
	return len(c)
}

// EdgeAt returns the i'th edge of the cycle walk (closing edge included).
func (c Cycle) EdgeAt(i int) Edge {
	j := i + 1
	if j == len(c) {
		j = 0
	}
	return FormEdge(c[i], c[j])
}

// VisitEdges calls onEdge for each of the cycle's edges in traversal order.
func (c Cycle) VisitEdges(onEdge func(e Edge)) {
	for i := range c {
		onEdge(c.EdgeAt(i))
	}
}

// CycleKey is the canonical binary encoding of a Cycle: a size byte followed
// by uvarint node IDs in canonical traversal order.  Keys order first by
// cycle size, then lexicographically by node sequence.
type CycleKey []byte

// AppendKeyTo appends this cycle's CycleKey to out, returning the result.
func (c Cycle) AppendKeyTo(out []byte) CycleKey {
	var scrap [binary.MaxVarintLen64]byte
	out = append(out, byte(len(c)))
	for _, n := range c {
		sz := binary.PutUvarint(scrap[:], uint64(n))
		out = append(out, scrap[:sz]...)
	}
	return out
}

// InitFromKey assigns this Cycle from an encoding made by AppendKeyTo.
func (c *Cycle) InitFromKey(key CycleKey) error {
	if len(key) < 1 {
		return ErrUnmarshal
	}
	N := int(key[0])
	out := (*c)[:0]
	pos := 1
	for i := 0; i < N; i++ {
		n, sz := binary.Uvarint(key[pos:])
		if sz <= 0 {
			return ErrUnmarshal
		}
		pos += sz
		out = append(out, NodeID(n))
	}
	if pos != len(key) {
		return ErrUnmarshal
	}
	*c = out
	return nil
}

// NetOffset sums the lattice offsets along the cycle's traversal.
// A nonzero result means the cycle spans the periodic cell boundary.
func (c Cycle) NetOffset(g GraphView) Offset {
	var sum Offset
	for i := range c {
		j := i + 1
		if j == len(c) {
			j = 0
		}
		sum = sum.Add(g.EdgeOffset(c[i], c[j]))
	}
	return sum
}

// CycleID is issued by a CycleIndex when a cycle is first inserted.
// IDs are dense and ascend in insertion order.
type CycleID uint32

// Hull is a vitrite: a set of irreducible cycles forming a closed polyhedral
// surface in which every covered edge is shared by exactly two member cycles
// and every vertex by two or three.
type Hull struct {
	Faces []Cycle // member cycles, ordered by canonical key
	Verts int     // distinct vertices touched
	Edges int     // distinct edges covered
}

// EulerIndex returns F - E + V over the hull's faces, edges and vertices.
// 2 indicates a topological sphere.
func (h *Hull) EulerIndex() int {
	return len(h.Faces) - h.Edges + h.Verts
}

// HullStats reports how much of the graph the emitted hulls account for.
// Partial coverage is a first-class outcome, not an error.
type HullStats struct {
	EdgesTotal   int // edges in the graph
	EdgesCovered int // edges covered by emitted hulls
	HullCount    int
}

// Coverage returns the fraction of graph edges covered by emitted hulls.
func (stats *HullStats) Coverage() float64 {
	if stats.EdgesTotal == 0 {
		return 0
	}
	return float64(stats.EdgesCovered) / float64(stats.EdgesTotal)
}

// SimplexKind selects the pattern matched by EnumerateSimplices.
type SimplexKind int32

const (
	Triangle SimplexKind = iota
	Tetrahedron
	Octahedron
)

func (kind SimplexKind) String() string {
	switch kind {
	case Triangle:
		return "triangle"
	case Tetrahedron:
		return "tetrahedron"
	case Octahedron:
		return "octahedron"
	}
	return "simplex(?)"
}

// OnCycleHit is a callback channel used to return cycles meeting a set of
// selection criteria.  Ownership of each Cycle travels through the channel.
type OnCycleHit chan<- Cycle

// CatalogContext is a container for open / active Catalog instances.
type CatalogContext interface {

	// Attaches the given Catalog to this context.
	AttachCatalog(cat Catalog)

	// Detaches the given Catalog from this context.
	DetachCatalog(cat Catalog)

	// Signals all open catalogs to close, then closes.
	Close()

	// Closing signals that Close() has been called.
	Closing() <-chan struct{}

	// Signals when Close() completed and all open Catalogs have been closed.
	Done() <-chan struct{}
}

// CatalogOpts specifies params for opening a cycle Catalog.
type CatalogOpts struct {
	DbPathName string // omit for an in-memory db
	ReadOnly   bool   // open in read-only mode
}

// CycleAdder accepts cycles, dropping duplicates.
type CycleAdder interface {

	// Tries to add the given cycle.
	// If true is returned, c was not present and was added.
	TryAddCycle(c Cycle) bool
}

// Catalog wraps a database of canonical cycle encodings.
type Catalog interface {
	CycleAdder

	// Returns true if this catalog was opened for read-only access.
	IsReadOnly() bool

	// NumCycles returns the number of stored cycles of the given size.
	// An out of range size returns 0.
	NumCycles(forSize byte) int64

	// Select fires onHit with every stored cycle meeting the selection
	// criteria.  The caller closes nothing; Select returns when done.
	Select(sel CycleSelector, onHit OnCycleHit)

	Close() error
}

// CycleSelector bounds a catalog selection by cycle size.
type CycleSelector struct {
	MinSize byte // 0 denotes MinCycleSize
	MaxSize byte // 0 denotes no upper bound
}

// SelectsCycle is a convenience to see if a cycle passes the selector.
func (sel *CycleSelector) SelectsCycle(c Cycle) bool {
	N := byte(len(c))
	if sel.MinSize > 0 && N < sel.MinSize {
		return false
	}
	if sel.MaxSize > 0 && N > sel.MaxSize {
		return false
	}
	return true
}

// PrintOpts specifies what is printed for each cycle of a stream.
type PrintOpts struct {
	Label    string // prefix label
	Nodes    bool   // print the canonical node walk
	Key      bool   // print the hex canonical key
	ShowSize bool   // print the cycle size
}

var DefaultPrintOpts = PrintOpts{
	Nodes:    true,
	ShowSize: true,
}
