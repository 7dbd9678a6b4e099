package libkg

import (
	"io"
	"math"
	"strconv"

	"github.com/2x3systems/gokg/gokg"
	"github.com/emirpasic/gods/trees/redblacktree"
	"github.com/pkg/errors"
	"github.com/plan-systems/klog"
)

// Unbounded is the precision of a GraphSeries that is not truncated.
const Unbounded = math.MaxInt32

// GraphSeries is a power series in a formal parameter h whose coefficients are GraphSums, known up to a precision.
type GraphSeries[C Coeff[C]] struct {
	orders    *redblacktree.Tree // int => *GraphSum[C]
	precision int
}

func NewGraphSeries[C Coeff[C]]() *GraphSeries[C] {
	return &GraphSeries[C]{
		orders:    redblacktree.NewWithIntComparator(),
		precision: Unbounded,
	}
}

// SeriesOf returns the series holding S at order 0.
func SeriesOf[C Coeff[C]](S *GraphSum[C]) *GraphSeries[C] {
	series := NewGraphSeries[C]()
	series.orders.Put(0, S.Clone())
	return series
}

func (s *GraphSeries[C]) Precision() int {
	return s.precision
}

// SetPrecision sets the precision of s, dropping every order above it.
func (s *GraphSeries[C]) SetPrecision(precision int) {
	if precision < 0 {
		panic(errors.Wrapf(gokg.ErrBadSeries, "negative precision %d", precision))
	}
	s.precision = precision
	for _, order := range s.Orders() {
		if order > precision {
			s.orders.Remove(order)
		}
	}
}

// At returns the GraphSum at the given order, creating an empty one if absent.
func (s *GraphSeries[C]) At(order int) *GraphSum[C] {
	if order < 0 || order > s.precision {
		panic(errors.Wrapf(gokg.ErrBadSeries, "order %d is outside of precision %d", order, s.precision))
	}
	if S, found := s.orders.Get(order); found {
		return S.(*GraphSum[C])
	}
	S := &GraphSum[C]{}
	s.orders.Put(order, S)
	return S
}

// Get returns the GraphSum at the given order, if present.
func (s *GraphSeries[C]) Get(order int) (*GraphSum[C], bool) {
	S, found := s.orders.Get(order)
	if !found {
		return nil, false
	}
	return S.(*GraphSum[C]), true
}

// Orders returns the stored orders in ascending order.
func (s *GraphSeries[C]) Orders() []int {
	keys := s.orders.Keys()
	orders := make([]int, len(keys))
	for i, k := range keys {
		orders[i] = k.(int)
	}
	return orders
}

// MaxOrder returns the largest stored order, or -1 if s is empty.
func (s *GraphSeries[C]) MaxOrder() int {
	if s.orders.Size() == 0 {
		return -1
	}
	return s.orders.Right().Key.(int)
}

func (s *GraphSeries[C]) Clone() *GraphSeries[C] {
	dup := NewGraphSeries[C]()
	dup.precision = s.precision
	it := s.orders.Iterator()
	for it.Next() {
		dup.orders.Put(it.Key(), it.Value().(*GraphSum[C]).Clone())
	}
	return dup
}

// Reduce reduces every order, dropping orders that become empty.
func (s *GraphSeries[C]) Reduce() {
	s.eachOrder(func(S *GraphSum[C]) { S.Reduce() })
}

// ReduceModSkew reduces every order modulo skew symmetry of the ground vertices, dropping orders that become empty.
func (s *GraphSeries[C]) ReduceModSkew() {
	s.eachOrder(func(S *GraphSum[C]) { S.ReduceModSkew() })
}

func (s *GraphSeries[C]) eachOrder(reduce func(S *GraphSum[C])) {
	for _, order := range s.Orders() {
		S, _ := s.Get(order)
		reduce(S)
		if S.Len() == 0 {
			s.orders.Remove(order)
		}
	}
}

// SkewSymmetrization returns the series of per-order skew symmetrizations.
func (s *GraphSeries[C]) SkewSymmetrization() *GraphSeries[C] {
	out := NewGraphSeries[C]()
	out.precision = s.precision
	it := s.orders.Iterator()
	for it.Next() {
		out.orders.Put(it.Key(), it.Value().(*GraphSum[C]).SkewSymmetrization())
	}
	return out
}

// IsZero returns true if every order reduces to the empty sum.  s is not modified.
func (s *GraphSeries[C]) IsZero() bool {
	it := s.orders.Iterator()
	for it.Next() {
		if !it.Value().(*GraphSum[C]).IsZero() {
			return false
		}
	}
	return true
}

// Equal returns true if s - t is zero up to the smaller of the two precisions.
func (s *GraphSeries[C]) Equal(t *GraphSeries[C]) bool {
	return s.Clone().Minus(t).IsZero()
}

// Plus adds t to s order by order; the precision of s becomes the smaller of the two.
func (s *GraphSeries[C]) Plus(t *GraphSeries[C]) *GraphSeries[C] {
	return s.combine(t, (*GraphSum[C]).Plus)
}

// Minus subtracts t from s order by order; the precision of s becomes the smaller of the two.
func (s *GraphSeries[C]) Minus(t *GraphSeries[C]) *GraphSeries[C] {
	return s.combine(t, (*GraphSum[C]).Minus)
}

func (s *GraphSeries[C]) combine(t *GraphSeries[C], op func(S, T *GraphSum[C]) *GraphSum[C]) *GraphSeries[C] {
	s.SetPrecision(min(s.precision, t.precision))
	it := t.orders.Iterator()
	for it.Next() {
		if order := it.Key().(int); order <= s.precision {
			op(s.At(order), it.Value().(*GraphSum[C]))
		}
	}
	return s
}

// Scale multiplies every coefficient of s by c.
func (s *GraphSeries[C]) Scale(c C) *GraphSeries[C] {
	it := s.orders.Iterator()
	for it.Next() {
		it.Value().(*GraphSum[C]).Scale(c)
	}
	return s
}

// Compose composes s with one series per ground slot.
//
// The order n part of the result is the sum, over every way of writing n = n0 + n1 + .. + nm with n0 an order of s and ni an order of args[i],
// of s[n0](args[0][n1], .., args[m-1][nm]).  The result precision is the smallest of precision, the precision of s, and that of each argument.
func (s *GraphSeries[C]) Compose(args []*GraphSeries[C], precision int) *GraphSeries[C] {
	prec := min(s.precision, precision)
	argOrders := make([][]int, len(args))
	for i, A := range args {
		prec = min(prec, A.precision)
		argOrders[i] = A.Orders()
	}

	result := NewGraphSeries[C]()
	result.precision = prec

	picked := make([]*GraphSum[C], len(args))
	for _, n0 := range s.Orders() {
		if n0 > prec {
			break
		}
		tmpl, _ := s.Get(n0)

		var walk func(i, total int)
		walk = func(i, total int) {
			if i == len(args) {
				result.At(total).Plus(tmpl.Compose(picked))
				return
			}
			for _, k := range argOrders[i] {
				if total+k > prec {
					break
				}
				picked[i], _ = args[i].Get(k)
				walk(i+1, total+k)
			}
		}
		walk(0, n0)
	}

	klog.V(2).Infof("composed series to precision %v", precisionLabel(prec))
	return result
}

// Inverse returns the compositional inverse of a series of unary operators whose order 0 part reduces to the identity 1·(0,1,{}).
// The inverse is computed up to the smaller of precision and the precision of s, which must be bounded.
func (s *GraphSeries[C]) Inverse(precision int) (*GraphSeries[C], error) {
	prec := min(s.precision, precision)
	if prec == Unbounded {
		return nil, errors.Wrap(gokg.ErrBadSeries, "the inverse of a series requires a bounded precision")
	}

	var zero C
	identity := NewGraphSum(Term[C]{Coeff: zero.FromInt(1), Graph: NewGraph(0, 1, nil)})
	if S0, found := s.Get(0); !found || !S0.Equal(identity) {
		return nil, errors.Wrap(gokg.ErrBadSeries, "order 0 of an invertible series must be the identity operator")
	}
	for _, order := range s.Orders() {
		S, _ := s.Get(order)
		for _, t := range S.terms {
			if t.Graph.External() != 1 {
				return nil, errors.Wrapf(gokg.ErrArityMismatch, "order %d holds %v which is not a unary operator", order, t.Graph)
			}
		}
	}

	inv := NewGraphSeries[C]()
	inv.precision = prec
	inv.At(0).Plus(identity)
	for n := 1; n <= prec; n++ {
		Tn := &GraphSum[C]{}
		for k := 1; k <= n; k++ {
			Sk, found := s.Get(k)
			if !found {
				continue
			}
			prev, found := inv.Get(n - k)
			if !found {
				continue
			}
			Tn.Minus(Sk.Compose([]*GraphSum[C]{prev}))
		}
		Tn.Reduce()
		if Tn.Len() > 0 {
			inv.At(n).Plus(Tn)
		}
	}
	return inv, nil
}

// GaugeTransform returns the product s transformed by the gauge series T: T⁻¹ ∘ s ∘ (T ⊗ T), reduced.
func (s *GraphSeries[C]) GaugeTransform(T *GraphSeries[C]) (*GraphSeries[C], error) {
	inner := s.Compose([]*GraphSeries[C]{T, T}, Unbounded)
	inner.Reduce()
	if inner.precision == Unbounded {
		inner.precision = max(inner.MaxOrder(), 0)
	}

	Tinv, err := T.Inverse(inner.precision)
	if err != nil {
		return nil, err
	}
	out := Tinv.Compose([]*GraphSeries[C]{inner}, Unbounded)
	out.Reduce()
	return out, nil
}

// GerstenhaberBracket returns [A, B] = A(B, 1) - A(1, B) + B(A, 1) - B(1, A) for series of bidifferential operators, reduced.
func GerstenhaberBracket[C Coeff[C]](A, B *GraphSeries[C]) *GraphSeries[C] {
	var zero C
	one := SeriesOf(NewGraphSum(Term[C]{Coeff: zero.FromInt(1), Graph: NewGraph(0, 1, nil)}))

	bracket := A.Compose([]*GraphSeries[C]{B, one}, Unbounded)
	bracket.Minus(A.Compose([]*GraphSeries[C]{one, B}, Unbounded))
	bracket.Plus(B.Compose([]*GraphSeries[C]{A, one}, Unbounded))
	bracket.Minus(B.Compose([]*GraphSeries[C]{one, A}, Unbounded))
	bracket.Reduce()
	return bracket
}

// WriteAsString writes s in the "h^n:" block format, one "<graph-encoding>    <coefficient>" line per term.
//
// If opts.InDegrees is set, each order is grouped by ascending ground in-degrees under "# d0 d1 .." comment lines.
func (s *GraphSeries[C]) WriteAsString(out io.Writer, opts gokg.PrintOpts) {
	lineOpts := opts
	lineOpts.InDegrees = false
	lineOpts.Encoding = true

	var buf []byte
	it := s.orders.Iterator()
	for it.Next() {
		buf = append(buf[:0], "h^"...)
		buf = strconv.AppendInt(buf, int64(it.Key().(int)), 10)
		buf = append(buf, ":\n"...)
		out.Write(buf)

		S := it.Value().(*GraphSum[C])
		if !opts.InDegrees {
			S.WriteAsString(out, lineOpts)
			continue
		}
		for _, indeg := range S.InDegrees(true) {
			buf = append(buf[:0], '#')
			for _, d := range indeg {
				buf = append(buf, ' ')
				buf = strconv.AppendInt(buf, int64(d), 10)
			}
			buf = append(buf, '\n')
			out.Write(buf)
			S.WithInDegrees(indeg).WriteAsString(out, lineOpts)
		}
	}
}

func precisionLabel(prec int) string {
	if prec == Unbounded {
		return "unbounded"
	}
	return strconv.Itoa(prec)
}
