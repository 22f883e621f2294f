package catalog

import (
	"encoding/binary"
	"runtime"
	"sync"

	"github.com/dgraph-io/badger/v3"
	"github.com/pkg/errors"

	"github.com/vitrite-systems/vitrite/govitrite"
	"github.com/vitrite-systems/vitrite/libvitrite"
)

/***

Catalog database format:

	gCatalogStateKey => CatalogState

	CycleKey (size byte, [Ni]varint)  => nil
	...

Cycle entries sort by size then canonical node walk, so a size-bounded
selection is a single contiguous iterator pass.

***/

var (
	gCatalogStateKey = []byte{0x00, 0x00, 0x01}
)

const (
	majorVers = 2026
	minorVers = 1
)

// CatalogState is the persisted header of a cycle catalog.
type CatalogState struct {
	MajorVers uint32
	MinorVers uint32
	NumCycles []uint64 // indexed by cycle size
}

func (st *CatalogState) Marshal() []byte {
	buf := make([]byte, 0, 16+binary.MaxVarintLen64*len(st.NumCycles))
	buf = binary.AppendUvarint(buf, uint64(st.MajorVers))
	buf = binary.AppendUvarint(buf, uint64(st.MinorVers))
	buf = binary.AppendUvarint(buf, uint64(len(st.NumCycles)))
	for _, n := range st.NumCycles {
		buf = binary.AppendUvarint(buf, n)
	}
	return buf
}

func (st *CatalogState) Unmarshal(buf []byte) error {
	var vals [3]uint64
	for i := range vals {
		v, n := binary.Uvarint(buf)
		if n <= 0 {
			return govitrite.ErrUnmarshal
		}
		vals[i] = v
		buf = buf[n:]
	}
	st.MajorVers = uint32(vals[0])
	st.MinorVers = uint32(vals[1])
	st.NumCycles = make([]uint64, vals[2])
	for i := range st.NumCycles {
		v, n := binary.Uvarint(buf)
		if n <= 0 {
			return govitrite.ErrUnmarshal
		}
		st.NumCycles[i] = v
		buf = buf[n:]
	}
	return nil
}

// catalog is a db wrapper for a canonical cycle catalog
type catalog struct {
	ctx        govitrite.CatalogContext
	readOnly   bool
	stateMu    sync.Mutex
	stateDirty bool
	state      CatalogState
	db         *badger.DB
}

func OpenCatalog(ctx govitrite.CatalogContext, opts govitrite.CatalogOpts) (govitrite.Catalog, error) {
	cat := &catalog{
		ctx:      ctx,
		readOnly: opts.ReadOnly,
	}

	dbOpts := badger.DefaultOptions(opts.DbPathName)
	dbOpts.ReadOnly = opts.ReadOnly
	dbOpts.DetectConflicts = false // not needed so disable for performance
	dbOpts.Logger = nil
	dbOpts.MetricsEnabled = false

	// Badger for windows currently does not support read-only mode
	if runtime.GOOS == "windows" {
		dbOpts.ReadOnly = false
	}

	if len(opts.DbPathName) == 0 {
		if opts.ReadOnly {
			return nil, errors.Wrap(govitrite.ErrBadCatalogParam, "DbPathName must be specified for read-only catalog")
		}
		dbOpts.InMemory = true
	}

	var err error
	cat.db, err = badger.Open(dbOpts)
	if err != nil {
		return nil, err
	}

	// Once the db is open, the catalog ctx blocks until the catalog closes
	ctx.AttachCatalog(cat)

	err = cat.loadState()
	if err == badger.ErrKeyNotFound {
		err = nil
		cat.stateDirty = true
		cat.state.MajorVers = majorVers
		cat.state.MinorVers = minorVers
		cat.state.NumCycles = make([]uint64, govitrite.MaxCycleSize+1)
	}

	if err == nil && (cat.state.MajorVers != majorVers || cat.state.MinorVers != minorVers) {
		err = errors.New("catalog version is incompatible")
	}

	if err != nil {
		cat.Close()
		return nil, err
	}
	return cat, nil
}

func (cat *catalog) loadState() error {
	return cat.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get(gCatalogStateKey)
		if err == nil {
			item.Value(func(val []byte) error {
				return cat.state.Unmarshal(val)
			})
		}
		return err
	})
}

func (cat *catalog) flushState() {
	if cat.stateDirty && !cat.readOnly {
		err := cat.db.Update(func(txn *badger.Txn) error {
			return txn.Set(gCatalogStateKey, cat.state.Marshal())
		})
		if err != nil {
			panic(err)
		}
		cat.stateDirty = false
	}
}

func (cat *catalog) Close() error {
	cat.stateMu.Lock()
	defer cat.stateMu.Unlock()

	cat.flushState()
	if cat.db != nil {
		cat.db.Close()
		cat.db = nil
		cat.ctx.DetachCatalog(cat)
		cat.ctx = nil
	}
	return nil
}

func (cat *catalog) IsReadOnly() bool {
	return cat.readOnly
}

func (cat *catalog) NumCycles(forSize byte) int64 {
	cat.stateMu.Lock()
	defer cat.stateMu.Unlock()
	if forSize == 0 || int(forSize) >= len(cat.state.NumCycles) {
		return 0
	}
	return int64(cat.state.NumCycles[forSize])
}

// TryAddCycle stores the canonical form of c, returning true if it was not
// already present.
func (cat *catalog) TryAddCycle(c govitrite.Cycle) bool {
	if cat.readOnly {
		return false
	}
	var keyBuf [256]byte
	key := libvitrite.Canonize(c).AppendKeyTo(keyBuf[:0])

	cat.stateMu.Lock()
	defer cat.stateMu.Unlock()

	txn := cat.db.NewTransaction(true)
	defer txn.Commit()

	added := false
	_, err := txn.Get(key)
	if err == badger.ErrKeyNotFound {
		err = txn.Set(key, nil)
		added = true
	}
	if err != nil && err != badger.ErrKeyNotFound {
		panic(err)
	}

	if added {
		cat.state.NumCycles[len(c)]++
		cat.stateDirty = true
	}
	return added
}

// Select fires onHit with every stored cycle passing the selector, in
// canonical key order.  Select returns when the iteration completes; the
// caller owns closing onHit.
func (cat *catalog) Select(sel govitrite.CycleSelector, onHit govitrite.OnCycleHit) {
	minSize := sel.MinSize
	if minSize == 0 {
		minSize = govitrite.MinCycleSize
	}
	minKey := [1]byte{minSize}

	txn := cat.db.NewTransaction(false)
	defer txn.Discard()

	it := txn.NewIterator(badger.IteratorOptions{
		PrefetchValues: false,
	})
	defer it.Close()

	for it.Seek(minKey[:]); it.Valid(); it.Next() {
		curKey := it.Item().Key()
		if len(curKey) == 0 || curKey[0] < minSize {
			continue // catalog state header
		}
		if sel.MaxSize > 0 && curKey[0] > sel.MaxSize {
			break
		}
		var c govitrite.Cycle
		if err := c.InitFromKey(curKey); err != nil {
			panic(err)
		}
		onHit <- c
	}
}
