package libvitrite

import (
	"sort"
	"sync"

	"github.com/arcspace/go-arc-sdk/stdlib/symbol"
	"github.com/arcspace/go-arc-sdk/stdlib/symbol/memory_table"

	"github.com/vitrite-systems/vitrite/govitrite"
)

// CycleIndex is the canonical deduplicated store of enumerated cycles.
// Cycles are immutable once inserted and lookups are never invalidated, so
// the edge-cover and shared-edge tables are maintained eagerly at insert.
//
// Insert is safe for concurrent use (the enumerator fans BFS work out across
// closing edges and merges through a single index).
type CycleIndex struct {
	mu    sync.RWMutex
	keys  symbol.Table
	byID  map[govitrite.CycleID]*cycleEntry
	order []govitrite.CycleID // ascending insertion order

	edgeCover map[govitrite.Edge][]govitrite.CycleID
	shared    map[cyclePair]sharedEdges
}

type cycleEntry struct {
	cycle govitrite.Cycle
	key   govitrite.CycleKey
}

// cyclePair packs two CycleIDs with the smaller first.
type cyclePair uint64

func formCyclePair(a, b govitrite.CycleID) cyclePair {
	if a > b {
		a, b = b, a
	}
	return cyclePair(a)<<32 | cyclePair(b)
}

type sharedEdges struct {
	edge  govitrite.Edge
	count int32
}

func NewCycleIndex() *CycleIndex {
	tableOpts := memory_table.DefaultOpts()
	keys, err := tableOpts.CreateTable()
	if err != nil {
		panic(err)
	}
	return &CycleIndex{
		keys:      keys,
		byID:      make(map[govitrite.CycleID]*cycleEntry),
		edgeCover: make(map[govitrite.Edge][]govitrite.CycleID),
		shared:    make(map[cyclePair]sharedEdges),
	}
}

// TryAdd inserts a canonical cycle, returning its CycleID and whether it was
// newly added.  Inserting an already present cycle is a no-op.
func (idx *CycleIndex) TryAdd(c govitrite.Cycle) (govitrite.CycleID, bool) {
	var keyBuf [256]byte
	key := c.AppendKeyTo(keyBuf[:0])

	idx.mu.Lock()
	defer idx.mu.Unlock()

	symID := idx.keys.GetSymbolID(key, false)
	newlyIssued := symID == 0
	if newlyIssued {
		symID = idx.keys.GetSymbolID(key, true)
	}
	id := govitrite.CycleID(symID)
	if !newlyIssued {
		return id, false
	}

	entry := &cycleEntry{
		cycle: c,
		key:   append(govitrite.CycleKey{}, key...),
	}
	idx.byID[id] = entry
	idx.order = append(idx.order, id)

	c.VisitEdges(func(e govitrite.Edge) {
		for _, other := range idx.edgeCover[e] {
			pair := formCyclePair(id, other)
			info := idx.shared[pair]
			info.edge = e
			info.count++
			idx.shared[pair] = info
		}
		idx.edgeCover[e] = append(idx.edgeCover[e], id)
	})

	return id, true
}

// NumCycles returns the number of distinct cycles inserted so far.
func (idx *CycleIndex) NumCycles() int {
	idx.mu.RLock()
	defer idx.mu.RUnlock()
	return len(idx.order)
}

// Cycle returns the stored cycle for the given ID, or nil.
func (idx *CycleIndex) Cycle(id govitrite.CycleID) govitrite.Cycle {
	idx.mu.RLock()
	defer idx.mu.RUnlock()
	entry := idx.byID[id]
	if entry == nil {
		return nil
	}
	return entry.cycle
}

// Key returns the canonical key of the given cycle ID, or nil.
func (idx *CycleIndex) Key(id govitrite.CycleID) govitrite.CycleKey {
	idx.mu.RLock()
	defer idx.mu.RUnlock()
	entry := idx.byID[id]
	if entry == nil {
		return nil
	}
	return entry.key
}

// ForEachCycle visits every stored cycle in insertion order until onCycle
// returns false.
func (idx *CycleIndex) ForEachCycle(onCycle func(id govitrite.CycleID, c govitrite.Cycle) bool) {
	idx.mu.RLock()
	order := append([]govitrite.CycleID{}, idx.order...)
	idx.mu.RUnlock()

	for _, id := range order {
		if !onCycle(id, idx.Cycle(id)) {
			return
		}
	}
}

// CyclesCoveringEdge returns the IDs of all stored cycles that traverse e,
// in insertion order.  The returned slice is owned by the index.
func (idx *CycleIndex) CyclesCoveringEdge(e govitrite.Edge) []govitrite.CycleID {
	idx.mu.RLock()
	defer idx.mu.RUnlock()
	return idx.edgeCover[e]
}

// CoveredEdges returns every edge covered by at least one stored cycle, in
// ascending Edge order.
func (idx *CycleIndex) CoveredEdges() []govitrite.Edge {
	idx.mu.RLock()
	edges := make([]govitrite.Edge, 0, len(idx.edgeCover))
	for e := range idx.edgeCover {
		edges = append(edges, e)
	}
	idx.mu.RUnlock()

	sort.Slice(edges, func(i, j int) bool { return edges[i] < edges[j] })
	return edges
}

// SharedEdge returns the single edge two cycles have in common.
// found is false when the cycles share no edge or more than one (two faces
// of a polyhedral surface meet along exactly one edge).
func (idx *CycleIndex) SharedEdge(a, b govitrite.CycleID) (e govitrite.Edge, found bool) {
	if a == b {
		return 0, false
	}
	idx.mu.RLock()
	defer idx.mu.RUnlock()
	info, exists := idx.shared[formCyclePair(a, b)]
	if !exists || info.count != 1 {
		return 0, false
	}
	return info.edge, true
}
