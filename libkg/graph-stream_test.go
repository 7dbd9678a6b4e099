package libkg

import (
	"bytes"
	"strings"
	"testing"

	"github.com/2x3systems/gokg/gokg"
)

type bufCloser struct {
	bytes.Buffer
	closed bool
}

func (b *bufCloser) Close() error {
	b.closed = true
	return nil
}

func TestDropDupes(t *testing.T) {
	opts := GenerateOpts{
		Internal:    2,
		External:    2,
		ModuloSigns: true,
	}
	distinct := len(Graphs(opts))

	for _, ddOpts := range []DropDupeOpts{{}, {PoolSz: 64}, {UseLSM: true}} {
		graphs := EnumGraphs(opts).DropDupes(ddOpts).Collect()
		if len(graphs) != distinct {
			t.Fatalf("%+v: expected %d distinct graphs, got %d", ddOpts, distinct, len(graphs))
		}
	}

	// signs are kept apart unless generated modulo signs
	opts.ModuloSigns = false
	signed := EnumGraphs(opts).DropDupes(DropDupeOpts{}).PullAll()
	if signed <= distinct {
		t.Fatalf("expected more than %d signed graphs, got %d", distinct, signed)
	}
}

func TestStreamPipeline(t *testing.T) {
	out := &bufCloser{}
	sel := gokg.GraphSelector{PrimesOnly: true, NonZeroOnly: true}

	set := NewCanonicSet()
	adder := set.(gokg.GraphAdder)

	primes := EnumGraphs(GenerateOpts{Internal: 2, External: 2, ModuloSigns: true}).
		Select(sel).
		AddTo(adder, AddGraphOpts{}).
		Print(out, gokg.PrintOpts{Label: "p", Encoding: true, Prime: true}).
		Collect()
	set.Close()

	if len(primes) == 0 {
		t.Fatalf("expected prime graphs")
	}
	for _, X := range primes {
		if !X.IsPrime() || X.IsZero() {
			t.Fatalf("%v should not have been selected", X)
		}
	}
	if !out.closed {
		t.Fatalf("Print() should close its writer once the stream drains")
	}
	lines := strings.Split(strings.TrimSpace(out.String()), "\n")
	if len(lines) != len(primes) || !strings.HasPrefix(lines[0], "p,000001,") || !strings.HasSuffix(lines[0], "  prime") {
		t.Fatalf("unexpected output %q", out.String())
	}

	X := NewGraph(1, 2, []VertexPair{{0, 1}})
	stream := StreamGraph(X)
	got, ok := stream.PullGraph()
	if !ok || !got.Equal(X) {
		t.Fatalf("expected %v, got %v", X, got)
	}
	if _, ok = stream.PullGraph(); ok {
		t.Fatalf("expected the stream to be closed")
	}
}

func TestGraphIndex(t *testing.T) {
	idx := newGraphIndex(16)
	keys := [][]byte{
		{2, 2, 0, 1, 0, 2},
		{2, 2, 0, 1, 0, 1},
		{1, 2, 0, 1},
	}
	for i, key := range keys {
		if _, exists := idx.LookupOrAdd(key, i); exists {
			t.Fatalf("key %v should be new", key)
		}
	}
	for i, key := range keys {
		pos, exists := idx.LookupOrAdd(append([]byte(nil), key...), 99)
		if !exists || pos != i {
			t.Fatalf("key %v: expected position %d, got %d", key, i, pos)
		}
	}
	idx.Reset()
	if _, exists := idx.LookupOrAdd(keys[0], 0); exists {
		t.Fatalf("Reset() should forget every key")
	}
}
