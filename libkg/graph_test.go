package libkg

import (
	"fmt"
	"strings"
	"testing"

	"github.com/2x3systems/gokg/gokg"
	"github.com/pkg/errors"
)

func mustParseGraph(t *testing.T, encoding string) Graph {
	t.Helper()
	X, err := ParseGraph(encoding)
	if err != nil {
		t.Fatalf("ParseGraph(%q): %v", encoding, err)
	}
	return X
}

func TestCanonicalForm(t *testing.T) {
	g := NewGraph(2, 2, []VertexPair{{0, 1}, {0, 2}})
	if g.Sign() != 1 {
		t.Fatalf("expected sign 1, got %v", g)
	}
	if indeg := g.InDegrees(); !equalInts(indeg, []int{2, 1}) {
		t.Fatalf("expected in-degrees [2 1], got %v", indeg)
	}

	g2 := NewGraph(2, 2, []VertexPair{{1, 0}, {1, 0}})
	if g2.Sign() != 1 || g2.IsZero() {
		t.Fatalf("expected a non-zero graph with sign 1, got %v", g2)
	}
	if g2.Encoding() != "2 2 1 0 1 0 1" {
		t.Fatalf("unexpected canonical form %v", g2)
	}
	if g.Equal(g2) {
		t.Fatalf("%v and %v should differ", g, g2)
	}

	// a single leg swap flips the sign
	swapped := NewGraph(2, 2, []VertexPair{{1, 0}, {0, 2}})
	if swapped.Sign() != -1 || !swapped.Abs().Equal(g) {
		t.Fatalf("expected -(%v), got %v", g, swapped)
	}
}

func TestZeroGraph(t *testing.T) {
	Z := NewGraph(3, 2, []VertexPair{{3, 4}, {0, 1}, {0, 1}})
	if !Z.IsZero() || Z.Sign() != 0 {
		t.Fatalf("expected %v to vanish", Z)
	}
	if m := Z.Multiplicity(); m != 24 {
		t.Fatalf("expected multiplicity 24, got %d", m)
	}

	// a vertex with both legs on the same target is fixed by its own leg swap
	D := NewGraph(1, 2, []VertexPair{{0, 0}})
	if !D.IsZero() {
		t.Fatalf("expected %v to vanish", D)
	}
	if m := D.Multiplicity(); m != 1 {
		t.Fatalf("expected multiplicity 1, got %d", m)
	}
}

func TestRelabelInvariance(t *testing.T) {
	X := NewGraph(3, 2, []VertexPair{{0, 3}, {1, 4}, {0, 1}})

	// relabel internal vertices 2 -> 3 -> 4 -> 2
	relabel := func(v Vertex) Vertex {
		if v < 2 {
			return v
		}
		return 2 + (v-2+1)%3
	}
	src := []VertexPair{{0, 3}, {1, 4}, {0, 1}}
	dst := make([]VertexPair, 3)
	for i, tgt := range src {
		dst[relabel(Vertex(2+i))-2] = VertexPair{relabel(tgt[0]), relabel(tgt[1])}
	}
	Y := NewGraph(3, 2, dst)
	if !X.Equal(Y) {
		t.Fatalf("relabeling changed the canonical form: %v vs %v", X, Y)
	}

	// swapping the legs of one vertex negates
	dst[0][0], dst[0][1] = dst[0][1], dst[0][0]
	Yneg := NewGraph(3, 2, dst)
	if Yneg.Sign() != -X.Sign() || !Yneg.Abs().Equal(X.Abs()) {
		t.Fatalf("expected %v to be the negative of %v", Yneg, X)
	}
}

func TestNormalizeIdempotent(t *testing.T) {
	for _, X := range Graphs(GenerateOpts{Internal: 2, External: 2}) {
		Y := NewSignedGraph(X.Internal(), X.External(), X.TargetList(), X.Sign())
		if !X.Equal(Y) {
			t.Fatalf("normalizing %v gave %v", X, Y)
		}
		if !X.MirrorImage().MirrorImage().Equal(X) {
			t.Fatalf("mirror image of the mirror image of %v differs", X)
		}
		if X.Stabilizer() <= 0 || X.Multiplicity()*X.Stabilizer() != 8 {
			t.Fatalf("%v: multiplicity %d and stabilizer %d", X, X.Multiplicity(), X.Stabilizer())
		}
	}
}

func TestProductAndPrimes(t *testing.T) {
	wedge := NewGraph(1, 2, []VertexPair{{0, 1}})
	if !wedge.IsPrime() {
		t.Fatalf("%v should be prime", wedge)
	}

	sq := wedge.Product(wedge)
	if sq.IsPrime() {
		t.Fatalf("%v should not be prime", sq)
	}
	if !sq.Equal(NewGraph(2, 2, []VertexPair{{0, 1}, {0, 1}})) {
		t.Fatalf("unexpected product %v", sq)
	}
	if m := sq.Multiplicity(); m != 4 {
		t.Fatalf("expected multiplicity 4, got %d", m)
	}

	g := NewGraph(2, 2, []VertexPair{{0, 1}, {0, 2}})
	if !g.IsPrime() {
		t.Fatalf("%v should be prime", g)
	}
	if g.Product(wedge).Internal() != 3 {
		t.Fatalf("expected 3 internal vertices")
	}
	if NewGraph(0, 2, nil).IsPrime() {
		t.Fatalf("the empty graph is not prime")
	}

	defer func() {
		if recover() == nil {
			t.Fatalf("expected a panic for mismatched ground vertices")
		}
	}()
	wedge.Product(NewGraph(1, 3, []VertexPair{{0, 1}}))
}

func TestMirrorImage(t *testing.T) {
	g := NewGraph(2, 2, []VertexPair{{0, 1}, {0, 2}})
	mirror := g.MirrorImage()
	if !equalInts(mirror.InDegrees(), []int{1, 2}) {
		t.Fatalf("unexpected mirror image %v", mirror)
	}
	if !mirror.Equal(g.RelabelExternal([]int{1, 0})) {
		t.Fatalf("mirror image %v differs from swapping ground vertices", mirror)
	}
	if !mirror.PositiveDifferentialOrder() || NewGraph(1, 3, []VertexPair{{0, 1}}).PositiveDifferentialOrder() {
		t.Fatalf("PositiveDifferentialOrder() is off")
	}
}

func TestParseGraph(t *testing.T) {
	g := mustParseGraph(t, "2 2 1   0 1 0 2")
	if !g.Equal(NewGraph(2, 2, []VertexPair{{0, 1}, {0, 2}})) {
		t.Fatalf("unexpected graph %v", g)
	}
	if again := mustParseGraph(t, g.Encoding()); !again.Equal(g) {
		t.Fatalf("encoding round trip failed: %v vs %v", again, g)
	}
	if neg := mustParseGraph(t, "2 2 -1  0 1 0 2"); neg.Sign() != -1 {
		t.Fatalf("expected sign -1, got %v", neg)
	}

	bad := map[string]error{
		"2 2 1 0 1":   gokg.ErrBadEncoding,
		"2 1 1 0 5":   gokg.ErrBadVtxID,
		"2 1 7 0 1":   gokg.ErrBadEncoding,
		"two 1 1 0 1": gokg.ErrBadEncoding,
		"":            gokg.ErrBadEncoding,
	}
	for encoding, want := range bad {
		if _, err := ParseGraph(encoding); !errors.Is(err, want) {
			t.Fatalf("ParseGraph(%q): expected %v, got %v", encoding, want, err)
		}
	}

	// more internal vertices than a multiplicity can count
	tooMany := fmt.Sprintf("1 %d 1%s", gokg.MaxInternal+1, strings.Repeat(" 0 0", gokg.MaxInternal+1))
	if _, err := ParseGraph(tooMany); !errors.Is(err, gokg.ErrBadEncoding) {
		t.Fatalf("expected ErrBadEncoding, got %v", err)
	}
	expectPanic(t, gokg.ErrBadEncoding, func() {
		NewGraph(gokg.MaxInternal+1, 1, make([]VertexPair, gokg.MaxInternal+1))
	})
}

func TestWriteGraph(t *testing.T) {
	g := NewGraph(2, 2, []VertexPair{{0, 1}, {0, 2}})
	var b strings.Builder
	g.WriteAsString(&b, gokg.PrintOpts{
		Encoding:     true,
		Multiplicity: true,
		Prime:        true,
		InDegrees:    true,
	})
	if want := "2 2 1 0 1 0 2  multiplicity 8  prime  # 2 1"; b.String() != want {
		t.Fatalf("expected %q, got %q", want, b.String())
	}

	sel := gokg.GraphSelector{PrimesOnly: true, External: 2, NonZeroOnly: true}
	if !sel.SelectsGraph(g) || sel.SelectsGraph(g.Product(g)) {
		t.Fatalf("GraphSelector is off")
	}
}

func TestGraphsMultiplicity(t *testing.T) {
	for n := 1; n <= 3; n++ {
		accepted := 0
		graphs := Graphs(GenerateOpts{
			Internal:    n,
			External:    2,
			ModuloSigns: true,
			OnGraph:     func(X Graph) { accepted++ },
		})
		if accepted != len(graphs) {
			t.Fatalf("OnGraph fired %d times for %d graphs", accepted, len(graphs))
		}

		total := int64(0)
		for i, X := range graphs {
			if X.Sign() != 1 {
				t.Fatalf("expected sign 1, got %v", X)
			}
			if i > 0 && !graphs[i-1].Less(X) {
				t.Fatalf("graphs out of order")
			}
			total += X.Multiplicity()
		}

		want := int64(1)
		for i := 0; i < n; i++ {
			want *= int64(n * (n + 1))
		}
		if total != want {
			t.Fatalf("n=%d: multiplicities sum to %d, expected %d", n, total, want)
		}

		mirrored := Graphs(GenerateOpts{
			Internal:     n,
			External:     2,
			ModuloSigns:  true,
			ModuloMirror: true,
		})
		if len(mirrored) > len(graphs) || 2*len(mirrored) < len(graphs) {
			t.Fatalf("n=%d: %d graphs modulo mirror images out of %d", n, len(mirrored), len(graphs))
		}
		for _, X := range mirrored {
			mirror := X.MirrorImage()
			mirror.SetSign(1)
			if mirror.Less(X) {
				t.Fatalf("n=%d: kept %v rather than its smaller mirror image %v", n, X, mirror)
			}
		}
	}

	primes := Graphs(GenerateOpts{
		Internal:    2,
		External:    2,
		ModuloSigns: true,
		Filter:      Graph.IsPrime,
	})
	for _, X := range primes {
		if !X.IsPrime() {
			t.Fatalf("%v is not prime", X)
		}
	}
}
