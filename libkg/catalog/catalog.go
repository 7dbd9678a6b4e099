package catalog

import (
	"runtime"
	"sync"

	"github.com/2x3systems/gokg/gokg"
	"github.com/2x3systems/gokg/libkg"
	"github.com/dgraph-io/badger/v3"
	"github.com/pkg/errors"
	"github.com/plan-systems/klog"
)

/***

Catalog database format:

	gCatalogStateKey => CatalogState

	gGraphKeyPrefix, Internal (byte), External (byte), [t0a t0b t1a t1b ..] (bytes)
		=> WeightRecord (Encoding holds the graph with sign +1)
	...

Keys are the canonical unsigned graph keys, so a Select over [MinInternal, MaxInternal] is a single seek and walk.
A weight put for a graph with sign -1 is stored negated.

***/

var (
	gCatalogStateKey = []byte{0x00, 0x00, 0x01}
	gGraphKeyPrefix  = byte('g')
)

type catalog struct {
	ctx        gokg.CatalogContext
	readOnly   bool
	mu         sync.Mutex
	stateDirty bool
	state      gokg.CatalogState
	db         *badger.DB
}

// OpenCatalog opens (or creates) the weight catalog at opts.DbPathName, or an in-memory catalog if no path is given.
func OpenCatalog(ctx gokg.CatalogContext, opts gokg.CatalogOpts) (gokg.Catalog, error) {
	cat := &catalog{
		ctx:      ctx,
		readOnly: opts.ReadOnly,
	}

	dbOpts := badger.DefaultOptions(opts.DbPathName)
	dbOpts.ReadOnly = opts.ReadOnly
	dbOpts.DetectConflicts = false
	dbOpts.Logger = nil
	dbOpts.MetricsEnabled = false

	if runtime.GOOS == "windows" {
		dbOpts.ReadOnly = false
	}

	if len(opts.DbPathName) == 0 {
		if opts.ReadOnly {
			return nil, errors.Wrap(gokg.ErrBadCatalogParam, "DbPathName must be specified for read-only catalog")
		}
		dbOpts.InMemory = true
	}

	var err error
	cat.db, err = badger.Open(dbOpts)
	if err != nil {
		return nil, err
	}

	ctx.AttachCatalog(cat)

	err = cat.loadState()
	if err == badger.ErrKeyNotFound {
		err = nil
		cat.stateDirty = !cat.readOnly
		cat.state.MajorVers = gokg.CatalogMajorVers
		cat.state.MinorVers = gokg.CatalogMinorVers
		cat.state.NumGraphs = make([]uint64, gokg.MaxInternal+1)
	}

	if err == nil && (cat.state.MajorVers != gokg.CatalogMajorVers || cat.state.MinorVers != gokg.CatalogMinorVers) {
		err = errors.Wrapf(gokg.ErrBadCatalogParam, "catalog version %d.%d is incompatible", cat.state.MajorVers, cat.state.MinorVers)
	}

	if err != nil {
		cat.Close()
		return nil, err
	}

	klog.V(2).Infof("opened weight catalog %q (read only: %v)", opts.DbPathName, cat.readOnly)
	return cat, nil
}

func (cat *catalog) NumGraphs(forInternal byte) int64 {
	cat.mu.Lock()
	defer cat.mu.Unlock()
	if int(forInternal) >= len(cat.state.NumGraphs) {
		return 0
	}
	return int64(cat.state.NumGraphs[forInternal])
}

func (cat *catalog) loadState() error {
	err := cat.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get(gCatalogStateKey)
		if err == nil {
			err = item.Value(func(val []byte) error {
				return cat.state.Unmarshal(val)
			})
		}
		return err
	})
	return err
}

func (cat *catalog) flushState() error {
	cat.mu.Lock()
	defer cat.mu.Unlock()

	if !cat.stateDirty {
		return nil
	}
	err := cat.db.Update(func(txn *badger.Txn) error {
		stateBuf, err := cat.state.Marshal()
		if err != nil {
			return err
		}
		return txn.Set(gCatalogStateKey, stateBuf)
	})
	if err == nil {
		cat.stateDirty = false
	}
	return err
}

func (cat *catalog) Close() error {
	var err error
	if cat.db != nil {
		err = cat.flushState()
		cat.db.Close()
		cat.db = nil
		cat.ctx.DetachCatalog(cat)
		klog.V(2).Info("closed weight catalog")
	}
	return err
}

func (cat *catalog) IsReadOnly() bool {
	return cat.readOnly
}

func formGraphKey(key []byte, X libkg.Graph) []byte {
	key = append(key, gGraphKeyPrefix)
	return X.AppendKey(key)
}

// asGraph returns X as a canonical libkg.Graph.
func asGraph(X gokg.GraphState) (libkg.Graph, error) {
	if g, ok := X.(libkg.Graph); ok {
		return g, nil
	}
	return libkg.ParseGraph(string(X.AppendEncoding(nil)))
}

func newWeightRecord(X libkg.Graph) *gokg.WeightRecord {
	X = X.Abs()
	return &gokg.WeightRecord{
		Encoding:     X.Encoding(),
		Multiplicity: X.Multiplicity(),
		IsPrime:      X.IsPrime(),
		Internal:     int32(X.Internal()),
		External:     int32(X.External()),
	}
}

func getRecord(txn *badger.Txn, key []byte) (*gokg.WeightRecord, error) {
	item, err := txn.Get(key)
	if err != nil {
		return nil, err
	}
	rec := &gokg.WeightRecord{}
	err = item.Value(func(val []byte) error {
		return rec.Unmarshal(val)
	})
	return rec, err
}

func setRecord(txn *badger.Txn, key []byte, rec *gokg.WeightRecord) error {
	buf, err := rec.Marshal()
	if err != nil {
		return err
	}
	return txn.Set(key, buf)
}

func (cat *catalog) countAdded(internal int) {
	cat.mu.Lock()
	if internal < len(cat.state.NumGraphs) {
		cat.state.NumGraphs[internal]++
	}
	cat.stateDirty = true
	cat.mu.Unlock()
}

// TryAddGraph adds X (with an empty weight) if it is not already cataloged.
func (cat *catalog) TryAddGraph(X gokg.GraphState) bool {
	if cat.readOnly {
		return false
	}
	G, err := asGraph(X)
	if err != nil {
		klog.Warningf("not cataloging graph: %v", err)
		return false
	}

	var keyBuf [128]byte
	key := formGraphKey(keyBuf[:0], G)

	added := false
	err = cat.db.Update(func(txn *badger.Txn) error {
		_, err := txn.Get(key)
		if err != badger.ErrKeyNotFound {
			return err
		}
		added = true
		return setRecord(txn, key, newWeightRecord(G))
	})
	if err != nil {
		klog.Warningf("failed to catalog %v: %v", G, err)
		return false
	}
	if added {
		cat.countAdded(G.Internal())
	}
	return added
}

// negateWeight returns the weight expression of -X given that of X.
func negateWeight(weight string) string {
	if len(weight) == 0 {
		return weight
	}
	return "-(" + weight + ")"
}

func (cat *catalog) PutWeight(X gokg.GraphState, weight string) error {
	if cat.readOnly {
		return errors.Wrap(gokg.ErrBadCatalogParam, "catalog is read-only")
	}
	G, err := asGraph(X)
	if err != nil {
		return err
	}
	if G.Sign() == 0 {
		return errors.Wrapf(gokg.ErrBadCatalogParam, "graph %v vanishes and cannot carry a weight", G)
	}
	if G.Sign() < 0 {
		weight = negateWeight(weight)
	}

	var keyBuf [128]byte
	key := formGraphKey(keyBuf[:0], G)

	added := false
	err = cat.db.Update(func(txn *badger.Txn) error {
		rec, err := getRecord(txn, key)
		if err == badger.ErrKeyNotFound {
			added = true
			rec, err = newWeightRecord(G), nil
		}
		if err != nil {
			return err
		}
		rec.Weight = weight
		return setRecord(txn, key, rec)
	})
	if err != nil {
		return err
	}
	if added {
		cat.countAdded(G.Internal())
	}
	return nil
}

func (cat *catalog) Weight(X gokg.GraphState) (string, error) {
	G, err := asGraph(X)
	if err != nil {
		return "", err
	}

	var keyBuf [128]byte
	key := formGraphKey(keyBuf[:0], G)

	var weight string
	err = cat.db.View(func(txn *badger.Txn) error {
		rec, err := getRecord(txn, key)
		if err == badger.ErrKeyNotFound {
			return errors.Wrapf(gokg.ErrNotFound, "graph %v", G)
		}
		if err != nil {
			return err
		}
		weight = rec.Weight
		return nil
	})
	if err != nil {
		return "", err
	}
	if G.Sign() < 0 {
		weight = negateWeight(weight)
	}
	return weight, nil
}

func (cat *catalog) Select(sel gokg.GraphSelector, onHit gokg.OnWeightHit) error {
	maxInternal := sel.MaxInternal
	if maxInternal <= 0 {
		maxInternal = gokg.MaxInternal
	}
	minKey := []byte{gGraphKeyPrefix, byte(max(sel.MinInternal, 0))}

	txn := cat.db.NewTransaction(false)
	defer txn.Discard()

	it := txn.NewIterator(badger.IteratorOptions{
		PrefetchValues: true,
		PrefetchSize:   300,
		Prefix:         []byte{gGraphKeyPrefix},
	})
	defer it.Close()

	for it.Seek(minKey); it.Valid(); it.Next() {
		item := it.Item()
		if int(item.Key()[1]) > maxInternal {
			break
		}

		rec := &gokg.WeightRecord{}
		if err := item.Value(rec.Unmarshal); err != nil {
			return err
		}
		X, err := libkg.ParseGraph(rec.Encoding)
		if err != nil {
			return err
		}
		if sel.SelectsGraph(X) {
			onHit <- rec
		}
	}
	return nil
}
