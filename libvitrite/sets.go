package libvitrite

import (
	"github.com/dgraph-io/badger/v3"

	"github.com/vitrite-systems/vitrite/govitrite"
)

// CanonicSet allows adding canonical cycle encodings and returning if an
// equivalent cycle has already been added.
type CanonicSet interface {

	// TryAdd adds the given cycle if its canonical form is not already present.
	//
	// If the canonic form of c is already in this CanonicSet, this call has no
	// effect and TryAdd() returns false.
	// If c isn't in this set, c is added and TryAdd() returns true.
	//
	// After one or more calls to TryAdd(), call Close() for cleanup.
	TryAdd(c govitrite.Cycle) bool

	// Close removes all previously added items from this set.
	//
	// If you make subsequent calls to TryAdd(), be sure you call Close() when
	// you're done.
	Close()
}

// KeySet allows adding of canonical keys to an internal set and returning if
// a given key has already been added.
type KeySet interface {

	// TryAdd adds the given key if it is not already present.
	TryAdd(key govitrite.CycleKey) bool

	// Close removes all previously added items from this set.
	Close()
}

func NewCanonicSet() CanonicSet {
	return &canonicSet{}
}

func NewKeySet() KeySet {
	return &keySet{}
}

type canonicSet struct {
	lsmSet
}

func (cs *canonicSet) TryAdd(c govitrite.Cycle) bool {
	var buf [256]byte
	key := Canonize(c).AppendKeyTo(buf[:0])
	return cs.tryAdd(key)
}

type keySet struct {
	lsmSet
}

func (ks *keySet) TryAdd(key govitrite.CycleKey) bool {
	return ks.tryAdd(key)
}

type lsmSet struct {
	db *badger.DB
}

func (set *lsmSet) autoOpen() {
	if set.db == nil {
		dbOpts := badger.DefaultOptions("").WithInMemory(true)
		dbOpts.Logger = nil
		dbOpts.MetricsEnabled = false

		var err error
		set.db, err = badger.Open(dbOpts)
		if err != nil {
			panic(err)
		}
	}
}

func (set *lsmSet) tryAdd(key []byte) bool {
	set.autoOpen()

	txn := set.db.NewTransaction(true)
	defer txn.Commit()

	added := false
	_, err := txn.Get(key)
	if err == nil {
		// no-op since the key is already in the db
	} else if err == badger.ErrKeyNotFound {
		err = txn.Set(key, nil)
		added = true
	}

	if err != nil {
		panic(err)
	}

	return added
}

func (set *lsmSet) Close() {
	if set.db != nil {
		set.db.Close()
		set.db = nil
	}
}
