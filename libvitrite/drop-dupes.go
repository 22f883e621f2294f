package libvitrite

import (
	"bytes"
	"hash/maphash"

	"github.com/vitrite-systems/vitrite/govitrite"
)

// dropDupes is a heap-only CycleAdder for hot paths that can't afford an
// LSM-backed set: canonical keys hash into an open-addressed map with the
// key bytes packed into pooled backing buffers.
type dropDupes struct {
	hashMap   map[uint64]govitrite.CycleKey
	hasher    maphash.Hash
	bufPool   []byte
	bufPoolSz int
	opts      DropDupeOpts
}

const DefaultPoolSz = 32 * 1024

type DropDupeOpts struct {
	PoolSz int // 0 denotes DefaultPoolSz (32k)
}

func NewDropDupes(opts DropDupeOpts) govitrite.CycleAdder {
	if opts.PoolSz <= 0 {
		opts.PoolSz = DefaultPoolSz
	}
	return &dropDupes{
		hashMap: make(map[uint64]govitrite.CycleKey),
		opts:    opts,
	}
}

func (dd *dropDupes) Reset() {
	dd.bufPoolSz = 0
	for k := range dd.hashMap {
		delete(dd.hashMap, k)
	}
}

func (dd *dropDupes) Close() {
	dd.Reset()
	dd.hashMap = nil
}

func (dd *dropDupes) TryAddCycle(c govitrite.Cycle) bool {
	var keyBuf [256]byte
	key := Canonize(c).AppendKeyTo(keyBuf[:0])

	dd.hasher.Reset()
	dd.hasher.Write(key)
	hash := dd.hasher.Sum64()

	existing, found := dd.hashMap[hash]
	for found {
		if bytes.Equal(existing, key) {
			return false
		}
		hash++
		existing, found = dd.hashMap[hash]
	}

	// New entry: place a copy of the key in our backing buf.
	// If we run out of space in the pool, we start a new pool.
	pos := dd.bufPoolSz
	itemLen := len(key)
	if pos+itemLen > cap(dd.bufPool) {
		allocSz := dd.opts.PoolSz
		if itemLen > allocSz {
			allocSz = itemLen
		}
		dd.bufPool = make([]byte, allocSz)
		dd.bufPoolSz = 0
		pos = 0
	}

	dd.hashMap[hash] = append(dd.bufPool[pos:pos], key...)
	dd.bufPoolSz += itemLen
	return true
}
