package libkg

import (
	"testing"

	"github.com/2x3systems/gokg/libkg/coeff"
)

func TestWeightTable(t *testing.T) {
	tbl := NewWeightTable[coeff.Rational]()
	if tbl.MaxOrder() != 0 || tbl.Primes(1) != nil {
		t.Fatalf("expected an empty table")
	}

	wedge := NewGraph(1, 2, []VertexPair{{0, 1}})
	tbl.Put(NewGraph(1, 2, []VertexPair{{1, 0}}), coeff.R(1, 2))
	tbl.Put(NewGraph(1, 2, []VertexPair{{0, 0}}), coeff.Int(7))

	w, found := tbl.Weight(wedge)
	if !found || !w.Equal(coeff.R(-1, 2)) {
		t.Fatalf("expected weight -1/2, got %v", w)
	}
	if len(tbl.Primes(1)) != 1 || tbl.MaxOrder() != 1 {
		t.Fatalf("a vanishing graph should not be put")
	}

	g := NewGraph(2, 2, []VertexPair{{0, 1}, {0, 2}})
	tbl.Put(g, coeff.R(1, 3))
	tbl.Put(g, coeff.R(1, 4))
	if len(tbl.Primes(2)) != 1 || tbl.MaxOrder() != 2 {
		t.Fatalf("putting a weight twice should replace it")
	}
	if w, _ := tbl.Weight(g); !w.Equal(coeff.R(1, 4)) {
		t.Fatalf("expected weight 1/4, got %v", w)
	}
	if _, found := tbl.Weight(g.MirrorImage()); found {
		t.Fatalf("mirror images are not put implicitly")
	}
}

func TestStarProduct(t *testing.T) {
	weights := mustReadSeries(t, `
h^1:
2 1 1    0 1    1/2
`)
	star := StarProduct(LoadWeights(weights), 2)
	if star.Precision() != 2 {
		t.Fatalf("expected precision 2, got %d", star.Precision())
	}
	star.Reduce()

	expect := map[int]string{
		0: "2 0 1    1",
		1: "2 1 1    0 1    1",
		2: "2 2 1    0 1 0 1    1/2",
	}
	for order, src := range expect {
		if !star.At(order).Equal(mustReadSum(t, src)) {
			t.Fatalf("order %d: unexpected part %v", order, star.At(order))
		}
	}
}

func TestStarProductMirrorImages(t *testing.T) {
	tbl := NewWeightTable[coeff.Rational]()
	g := NewGraph(2, 2, []VertexPair{{0, 1}, {0, 2}})
	tbl.Put(g, coeff.R(1, 3))

	star := StarProduct(tbl, 2)
	star.Reduce()
	if _, found := star.Get(1); found {
		t.Fatalf("order 1 should be empty without order 1 primes")
	}
	want := mustReadSum(t, `
2 2 1    0 1 0 2    4/3
2 2 -1   0 1 1 2    4/3
`)
	if !star.At(2).Equal(want) {
		t.Fatalf("unexpected order 2 part %v", star.At(2))
	}

	// at odd order the mirror image carries the negated weight
	g3 := NewGraph(3, 2, []VertexPair{{0, 1}, {0, 2}, {1, 3}})
	tbl = NewWeightTable[coeff.Rational]()
	tbl.Put(g3, coeff.Int(1))
	star = StarProduct(tbl, 3)

	sixth := coeff.R(1, 6)
	want = NewGraphSum[coeff.Rational]()
	want.AddTerm(sixth.MulInt(g3.Multiplicity()), g3)
	want.AddTerm(sixth.MulInt(g3.Multiplicity()).Neg(), g3.MirrorImage())
	if !star.At(3).Equal(want) {
		t.Fatalf("unexpected order 3 part %v", star.At(3))
	}
}
