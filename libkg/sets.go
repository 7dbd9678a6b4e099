package libkg

import (
	"github.com/2x3systems/gokg/gokg"
	"github.com/dgraph-io/badger/v3"
)

// CanonicSet allows adding canonical graphs and returning if an equal graph has already been added.
type CanonicSet interface {

	// TryAdd adds the given graph if it is not already present.
	//
	// If X (sign included) already is in this CanonicSet, this call has no effect and TryAdd() returns false.
	// If X isn't in this set, X is added and TryAdd() returns true.
	//
	// After one or more calls to TryAdd(), call Close() for cleanup.
	TryAdd(X Graph) bool

	// Close removes all previously added items from this set.
	Close()
}

// NewCanonicSet returns a CanonicSet backed by an in-memory badger db, suited to enumerations too large for a hash map of keys.
func NewCanonicSet() CanonicSet {
	return &canonicSet{}
}

type canonicSet struct {
	lsmSet
}

func (set *canonicSet) TryAdd(X Graph) bool {
	var keyBuf [512]byte
	key := X.AppendKey(keyBuf[:0])
	key = append(key, byte(X.Sign()+1))
	return set.tryAdd(key)
}

// TryAddGraph lets a CanonicSet serve as a GraphStream AddTo() target.
func (set *canonicSet) TryAddGraph(X gokg.GraphState) bool {
	var keyBuf [512]byte
	key := X.AppendKey(keyBuf[:0])
	key = append(key, byte(X.Sign()+1))
	return set.tryAdd(key)
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

	added := false
	err := set.db.Update(func(txn *badger.Txn) error {
		_, err := txn.Get(key)
		if err == badger.ErrKeyNotFound {
			added = true
			return txn.Set(key, nil)
		}
		return err
	})
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
