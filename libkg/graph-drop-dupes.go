package libkg

import (
	"bytes"
	"hash/maphash"

	"github.com/2x3systems/gokg/gokg"
)

// graphIndex maps canonical graph keys to a position, backing each key in a pooled buffer.
type graphIndex struct {
	hashMap   map[uint64]indexEntry
	hasher    maphash.Hash
	bufPool   []byte
	bufPoolSz int
	poolSz    int
}

type indexEntry struct {
	key []byte
	pos int
}

func newGraphIndex(poolSz int) *graphIndex {
	if poolSz <= 0 {
		poolSz = DefaultPoolSz
	}
	return &graphIndex{
		hashMap: make(map[uint64]indexEntry),
		poolSz:  poolSz,
	}
}

// LookupOrAdd returns the position previously stored for key and true.
// If key is new, pos is stored for it and (pos, false) is returned.
func (idx *graphIndex) LookupOrAdd(key []byte, pos int) (int, bool) {
	idx.hasher.Reset()
	idx.hasher.Write(key)
	hash := idx.hasher.Sum64()

	existing, found := idx.hashMap[hash]
	for found {
		if bytes.Equal(existing.key, key) {
			return existing.pos, true
		}
		hash++
		existing, found = idx.hashMap[hash]
	}

	// Place a copy of the key in our backing buf; if we run out of space in our pool, we start a new pool
	at := idx.bufPoolSz
	keyLen := len(key)
	if at+keyLen > cap(idx.bufPool) {
		idx.bufPool = make([]byte, max(idx.poolSz, keyLen))
		idx.bufPoolSz = 0
		at = 0
	}

	idx.hashMap[hash] = indexEntry{
		key: append(idx.bufPool[at:at], key...),
		pos: pos,
	}
	idx.bufPoolSz += keyLen
	return pos, false
}

func (idx *graphIndex) Reset() {
	idx.bufPoolSz = 0
	for k := range idx.hashMap {
		delete(idx.hashMap, k)
	}
}

type dropDupes struct {
	index *graphIndex
	count int
}

// NewDropDupes returns a GraphAdder that accepts each canonical graph (sign included) once.
func NewDropDupes(opts DropDupeOpts) gokg.GraphAdder {
	return &dropDupes{
		index: newGraphIndex(opts.PoolSz),
	}
}

func (dd *dropDupes) TryAddGraph(X gokg.GraphState) bool {
	var keyBuf [512]byte
	key := X.AppendKey(keyBuf[:0])
	key = append(key, byte(X.Sign()+1))

	_, exists := dd.index.LookupOrAdd(key, dd.count)
	if !exists {
		dd.count++
	}
	return !exists
}

func (dd *dropDupes) Close() {
	dd.index.Reset()
}
