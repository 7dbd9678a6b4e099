package libkg

import (
	"fmt"
	"strings"
	"testing"

	"github.com/2x3systems/gokg/gokg"
	"github.com/2x3systems/gokg/libkg/coeff"
	"github.com/pkg/errors"
)

type ratSeries = GraphSeries[coeff.Rational]

func mustReadSeries(t *testing.T, src string) *ratSeries {
	t.Helper()
	s, err := ReadSeries(strings.NewReader(src), coeff.ParseRational)
	if err != nil {
		t.Fatalf("ReadSeries: %v", err)
	}
	return s
}

func expectPanic(t *testing.T, want error, fn func()) {
	t.Helper()
	defer func() {
		t.Helper()
		err, _ := recover().(error)
		if !errors.Is(err, want) {
			t.Fatalf("expected a panic with %v, got %v", want, err)
		}
	}()
	fn()
}

// gauge is 1 + h·t for a unary operator t with two edges on its ground vertex.
const gauge = `
h^0:
1 0 1    1
h^1:
1 2 1    0 2 0 1    1
h^3:
`

func TestSeriesPrecision(t *testing.T) {
	s := NewGraphSeries[coeff.Rational]()
	if s.Precision() != Unbounded || s.MaxOrder() != -1 {
		t.Fatalf("a new series should be empty and unbounded")
	}
	s.At(0).AddTerm(coeff.Int(1), NewGraph(0, 2, nil))
	s.At(3).AddTerm(coeff.Int(1), NewGraph(1, 2, []VertexPair{{0, 1}}))
	s.SetPrecision(2)
	if s.MaxOrder() != 0 || len(s.Orders()) != 1 {
		t.Fatalf("SetPrecision() should drop orders above 2, got %v", s.Orders())
	}

	expectPanic(t, gokg.ErrBadSeries, func() { s.At(3) })
	expectPanic(t, gokg.ErrBadSeries, func() { s.At(-1) })
	expectPanic(t, gokg.ErrBadSeries, func() { s.SetPrecision(-1) })

	if _, found := s.Get(1); found {
		t.Fatalf("order 1 should be absent")
	}

	// combining takes the smaller precision
	u := mustReadSeries(t, gauge)
	if u.Precision() != 3 {
		t.Fatalf("expected precision 3, got %d", u.Precision())
	}
	sum := u.Clone().Plus(mustReadSeries(t, "h^1:\n1 2 1    0 2 0 1    -1\n"))
	if sum.Precision() != 1 || !sum.Equal(SeriesOf(mustReadSum(t, "1 0 1    1"))) {
		t.Fatalf("unexpected sum %v", sum.Orders())
	}
}

func TestSeriesCompose(t *testing.T) {
	s := mustReadSeries(t, gauge)
	tOp := mustReadSum(t, "1 2 1    0 2 0 1    1")

	// (1 + h t)(1 + h t) = 1 + 2h t + h² t(t)
	sq := s.Compose([]*ratSeries{s}, 1)
	sq.Reduce()
	if sq.Precision() != 1 || sq.MaxOrder() != 1 {
		t.Fatalf("expected precision 1, got %d with max order %d", sq.Precision(), sq.MaxOrder())
	}
	if !sq.At(1).Equal(tOp.Clone().Scale(coeff.Int(2))) {
		t.Fatalf("unexpected order 1 part %v", sq.At(1))
	}

	full := s.Compose([]*ratSeries{s}, Unbounded)
	full.Reduce()
	if full.Precision() != 3 || !full.At(2).Equal(tOp.Compose([]*ratSum{tOp})) {
		t.Fatalf("unexpected order 2 part %v", full.At(2))
	}

	// an argument known to order 2 truncates a template known to order 5
	tmpl := mustReadSeries(t, "h^0:\n2 0 1    1\nh^1:\n2 0 1    1\nh^2:\n2 0 1    1\nh^3:\n2 0 1    1\nh^4:\n2 0 1    1\nh^5:\n2 0 1    1\n")
	arg := mustReadSeries(t, "h^0:\n1 0 1    1\nh^1:\n1 0 1    1\nh^2:\n1 0 1    1\n")
	composed := tmpl.Compose([]*ratSeries{arg, arg}, Unbounded)
	if composed.Precision() != 2 || composed.MaxOrder() != 2 {
		t.Fatalf("expected precision 2, got %d with max order %d", composed.Precision(), composed.MaxOrder())
	}
	for order, count := range []int{1, 3, 6} {
		if n := composed.At(order).Len(); n != count {
			t.Fatalf("order %d: expected %d terms, got %d", order, count, n)
		}
		if !composed.At(order).Equal(mustReadSum(t, fmt.Sprintf("2 0 1    %d", count))) {
			t.Fatalf("order %d: unexpected part %v", order, composed.At(order))
		}
	}
}

func TestSeriesInverse(t *testing.T) {
	s := mustReadSeries(t, gauge)

	inv, err := s.Inverse(Unbounded)
	if err != nil {
		t.Fatalf("Inverse: %v", err)
	}
	if inv.Precision() != 3 {
		t.Fatalf("expected precision 3, got %d", inv.Precision())
	}

	ident := SeriesOf(mustReadSum(t, "1 0 1    1"))
	if !s.Compose([]*ratSeries{inv}, Unbounded).Equal(ident) {
		t.Fatalf("s composed with its inverse should be the identity")
	}
	if !inv.At(1).Equal(mustReadSum(t, "1 2 1    0 2 0 1    -1")) {
		t.Fatalf("unexpected order 1 part of the inverse %v", inv.At(1))
	}

	unbounded := SeriesOf(mustReadSum(t, "1 0 1    1"))
	if _, err := unbounded.Inverse(Unbounded); !errors.Is(err, gokg.ErrBadSeries) {
		t.Fatalf("expected ErrBadSeries, got %v", err)
	}
	if _, err := mustReadSeries(t, "h^0:\n1 0 1    2\n").Inverse(2); !errors.Is(err, gokg.ErrBadSeries) {
		t.Fatalf("expected ErrBadSeries, got %v", err)
	}
	binary := mustReadSeries(t, "h^0:\n1 0 1    1\nh^1:\n2 1 1    0 1    1\n")
	if _, err := binary.Inverse(1); !errors.Is(err, gokg.ErrArityMismatch) {
		t.Fatalf("expected ErrArityMismatch, got %v", err)
	}
}

func TestGaugeTransform(t *testing.T) {
	weights := mustReadSeries(t, "h^1:\n2 1 1    0 1    1/2\n")
	star := StarProduct(LoadWeights(weights), 2)

	ident := mustReadSeries(t, "h^0:\n1 0 1    1\n")
	ident.SetPrecision(2)
	same, err := star.GaugeTransform(ident)
	if err != nil {
		t.Fatalf("GaugeTransform: %v", err)
	}
	if !same.Equal(star) {
		t.Fatalf("the identity gauge should leave the star product unchanged")
	}

	gauged, err := star.GaugeTransform(mustReadSeries(t, gauge))
	if err != nil {
		t.Fatalf("GaugeTransform: %v", err)
	}
	if gauged.Precision() != 2 || !gauged.At(0).Equal(star.At(0)) {
		t.Fatalf("a gauge transformation should keep the order 0 product")
	}

	if _, err := star.GaugeTransform(mustReadSeries(t, "h^0:\n1 0 1    3\n")); !errors.Is(err, gokg.ErrBadSeries) {
		t.Fatalf("expected ErrBadSeries, got %v", err)
	}
}

func TestGerstenhaberBracket(t *testing.T) {
	m := mustReadSeries(t, "h^0:\n2 0 1    1\n")
	if !GerstenhaberBracket(m, m).IsZero() {
		t.Fatalf("[m, m] should vanish for the associative product m")
	}

	// [P, P] = 2(P(P, 1) - P(1, P)) for the wedge P; one Leibniz term of each side cancels
	P := mustReadSeries(t, "h^1:\n2 1 1    0 1    1\nh^2:\n")
	want := mustReadSeries(t, `
h^2:
3 2 1    0 1 0 2    2
3 2 1    0 1 3 2    2
3 2 1    1 2 0 2    -2
3 2 1    1 2 0 3    -2
`)
	PP := GerstenhaberBracket(P, P)
	if PP.Precision() != 2 || !PP.Equal(want) {
		t.Fatalf("unexpected [P, P] order 2 part %v", PP.At(2))
	}
	if n := PP.At(2).Len(); n != 4 {
		t.Fatalf("expected 4 reduced terms, got %d", n)
	}
}

func TestReadWriteSeries(t *testing.T) {
	s := mustReadSeries(t, `
h^0:
2 0 1    1
h^1:
2 1 1    0 1    1
h^2:
2 2 1    0 1 0 1    1/2
2 2 1    0 1 0 2    1/3
2 2 1    0 3 1 2    -1/6
`)
	if s.Precision() != 2 || len(s.Orders()) != 3 {
		t.Fatalf("unexpected series")
	}

	for _, opts := range []gokg.PrintOpts{{}, {InDegrees: true}} {
		var b strings.Builder
		if err := WriteSeries(&b, s, opts); err != nil {
			t.Fatalf("WriteSeries: %v", err)
		}
		again := mustReadSeries(t, b.String())
		if again.Precision() != s.Precision() || !again.Equal(s) {
			t.Fatalf("round trip changed the series:\n%s", b.String())
		}
		if opts.InDegrees && !strings.Contains(b.String(), "# 2 1\n") {
			t.Fatalf("expected in-degree group headers:\n%s", b.String())
		}
	}

	bad := []string{
		"2 1 1    0 1    1",
		"",
		"h^x:\n2 1 1    0 1    1",
		"h^1\n2 1 1    0 1    1",
	}
	for _, src := range bad {
		if _, err := ReadSeries(strings.NewReader(src), coeff.ParseRational); !errors.Is(err, gokg.ErrBadSeries) {
			t.Fatalf("ReadSeries(%q): expected ErrBadSeries, got %v", src, err)
		}
	}
}
