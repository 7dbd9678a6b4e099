package libkg

import (
	"io"
	"sort"
	"strings"

	"github.com/2x3systems/gokg/gokg"
)

// GraphSum is a finite formal linear combination of Graphs.
//
// Terms are kept in insertion order until Reduce() (or a coarser reduction) merges them onto canonical graphs.
type GraphSum[C Coeff[C]] struct {
	terms []Term[C]
}

func NewGraphSum[C Coeff[C]](terms ...Term[C]) *GraphSum[C] {
	return &GraphSum[C]{
		terms: append([]Term[C](nil), terms...),
	}
}

// Terms returns the terms of S.  The returned slice must not be modified.
func (S *GraphSum[C]) Terms() []Term[C] {
	return S.terms
}

func (S *GraphSum[C]) Len() int {
	return len(S.terms)
}

func (S *GraphSum[C]) Clone() *GraphSum[C] {
	return NewGraphSum(S.terms...)
}

// AddTerm appends c·X to S.
func (S *GraphSum[C]) AddTerm(c C, X Graph) *GraphSum[C] {
	S.terms = append(S.terms, Term[C]{Coeff: c, Graph: X})
	return S
}

// Plus appends the terms of T to S.
func (S *GraphSum[C]) Plus(T *GraphSum[C]) *GraphSum[C] {
	S.terms = append(S.terms, T.terms...)
	return S
}

// Minus appends the negated terms of T to S.
func (S *GraphSum[C]) Minus(T *GraphSum[C]) *GraphSum[C] {
	for _, t := range T.terms {
		S.terms = append(S.terms, Term[C]{Coeff: t.Coeff.Neg(), Graph: t.Graph})
	}
	return S
}

// Scale multiplies every coefficient of S by c.
func (S *GraphSum[C]) Scale(c C) *GraphSum[C] {
	for i := range S.terms {
		S.terms[i].Coeff = S.terms[i].Coeff.Mul(c)
	}
	return S
}

// Reduce folds each graph's sign into its coefficient, merges terms with equal graphs, and drops vanishing terms.
//
// Afterwards S has at most one term per canonical unsigned graph, every graph has sign +1, and no coefficient is zero.
func (S *GraphSum[C]) Reduce() {
	var keyBuf [512]byte
	index := newGraphIndex(0)

	merged := S.terms[:0]
	for _, t := range S.terms {
		sign := t.Graph.Sign()
		if sign == 0 {
			continue
		}
		c := t.Coeff
		if sign < 0 {
			c = c.Neg()
		}
		X := t.Graph.Abs()

		key := X.AppendKey(keyBuf[:0])
		if pos, exists := index.LookupOrAdd(key, len(merged)); exists {
			merged[pos].Coeff = merged[pos].Coeff.Add(c)
			continue
		}
		merged = append(merged, Term[C]{Coeff: c, Graph: X})
	}

	S.terms = dropZeroTerms(S.terms, merged)
}

// dropZeroTerms compacts the terms of reduced (a prefix view of full) having a non-zero coefficient.
func dropZeroTerms[C Coeff[C]](full, reduced []Term[C]) []Term[C] {
	kept := reduced[:0]
	for _, t := range reduced {
		if !t.Coeff.IsZero() {
			kept = append(kept, t)
		}
	}
	for i := len(kept); i < len(full); i++ {
		full[i] = Term[C]{}
	}
	return kept
}

// IsZero returns true if S reduces to the empty sum.  S is not modified.
func (S *GraphSum[C]) IsZero() bool {
	R := S.Clone()
	R.Reduce()
	return len(R.terms) == 0
}

// Equal returns true if S - T reduces to the empty sum.
func (S *GraphSum[C]) Equal(T *GraphSum[C]) bool {
	D := S.Clone().Minus(T)
	D.Reduce()
	return len(D.terms) == 0
}

// Symmetrization returns the sum over all permutations of ground vertex labels of each relabeled term.
// The result is not reduced.
func (S *GraphSum[C]) Symmetrization() *GraphSum[C] {
	return S.symmetrize(false)
}

// SkewSymmetrization is Symmetrization() with each relabeled term multiplied by the sign of its permutation.
func (S *GraphSum[C]) SkewSymmetrization() *GraphSum[C] {
	return S.symmetrize(true)
}

func (S *GraphSum[C]) symmetrize(skew bool) *GraphSum[C] {
	out := &GraphSum[C]{}
	for _, t := range S.terms {
		perm := Identity(t.Graph.External())
		for {
			c := t.Coeff
			if skew && Parity(perm) == 1 {
				c = c.Neg()
			}
			out.terms = append(out.terms, Term[C]{Coeff: c, Graph: t.Graph.RelabelExternal(perm)})
			if !NextPermutation(perm) {
				break
			}
		}
	}
	return out
}

// ReduceModSkew merges terms whose graphs agree up to a relabeling of ground vertices, weighting each by the sign of that relabeling.
// A graph fixed by an odd relabeling (up to its own sign) drops out.
func (S *GraphSum[C]) ReduceModSkew() {
	S.reduceModExternal(true)
}

// ReduceModPermutations merges terms whose graphs agree up to a relabeling of ground vertices.
// A graph that a relabeling maps onto its own negative drops out.
func (S *GraphSum[C]) ReduceModPermutations() {
	S.reduceModExternal(false)
}

func (S *GraphSum[C]) reduceModExternal(skew bool) {
	var keyBuf [512]byte
	index := newGraphIndex(0)

	merged := S.terms[:0]
	for _, t := range S.terms {
		rep, factor := externalRepresentative(t.Graph, skew)
		if factor == 0 {
			continue
		}
		c := t.Coeff
		if factor < 0 {
			c = c.Neg()
		}

		key := rep.AppendKey(keyBuf[:0])
		if pos, exists := index.LookupOrAdd(key, len(merged)); exists {
			merged[pos].Coeff = merged[pos].Coeff.Add(c)
			continue
		}
		merged = append(merged, Term[C]{Coeff: c, Graph: rep})
	}

	S.terms = dropZeroTerms(S.terms, merged)
}

// externalRepresentative returns the smallest unsigned graph over all ground relabelings of X and the factor f with X ≡ f·rep.
// Under skew symmetry a relabeling by p contributes the sign of p.  If two relabelings reach rep with different factors, f is 0.
func externalRepresentative(X Graph, skew bool) (Graph, int) {
	if X.Sign() == 0 {
		return X, 0
	}

	var rep Graph
	repFactor := 0
	vanishes := false

	perm := Identity(X.External())
	for first := true; ; first = false {
		Y := X.RelabelExternal(perm)
		factor := Y.Sign()
		if skew && Parity(perm) == 1 {
			factor = -factor
		}
		Y = Y.Abs()

		cmp := -1
		if !first {
			cmp = Y.Compare(rep)
		}
		if cmp < 0 {
			rep = Y
			repFactor = factor
			vanishes = false
		} else if cmp == 0 && factor != repFactor {
			vanishes = true
		}

		if !NextPermutation(perm) {
			break
		}
	}

	if vanishes {
		return rep, 0
	}
	return rep, repFactor
}

// WithInDegrees returns the terms of S whose ground in-degrees equal indegrees.
func (S *GraphSum[C]) WithInDegrees(indegrees []int) *GraphSum[C] {
	out := &GraphSum[C]{}
	for _, t := range S.terms {
		if equalInts(t.Graph.InDegrees(), indegrees) {
			out.terms = append(out.terms, t)
		}
	}
	return out
}

// InDegrees returns the distinct ground in-degree vectors occurring in S, in order of first occurrence or, if ascending is set, lexicographically.
func (S *GraphSum[C]) InDegrees(ascending bool) [][]int {
	var all [][]int
	seen := make(map[string]struct{})
	for _, t := range S.terms {
		indeg := t.Graph.InDegrees()
		key := intsKey(indeg)
		if _, exists := seen[key]; exists {
			continue
		}
		seen[key] = struct{}{}
		all = append(all, indeg)
	}
	if ascending {
		sort.Slice(all, func(i, j int) bool {
			return compareInts(all[i], all[j]) < 0
		})
	}
	return all
}

// WriteAsString writes one "<graph-encoding>    <coefficient>" line per term.
func (S *GraphSum[C]) WriteAsString(out io.Writer, opts gokg.PrintOpts) {
	var buf strings.Builder
	for _, t := range S.terms {
		buf.Reset()
		t.Graph.WriteAsString(&buf, opts)
		buf.WriteString("    ")
		buf.WriteString(t.Coeff.String())
		buf.WriteByte('\n')
		io.WriteString(out, buf.String())
	}
}

func (S *GraphSum[C]) String() string {
	var buf strings.Builder
	for i, t := range S.terms {
		if i > 0 {
			buf.WriteString(" + ")
		}
		buf.WriteByte('(')
		buf.WriteString(t.Coeff.String())
		buf.WriteString(")*[")
		buf.WriteString(t.Graph.Encoding())
		buf.WriteByte(']')
	}
	return buf.String()
}

func equalInts(a, b []int) bool {
	return compareInts(a, b) == 0
}

func compareInts(a, b []int) int {
	for i := range a {
		if i >= len(b) {
			return 1
		}
		if d := a[i] - b[i]; d != 0 {
			return d
		}
	}
	if len(a) < len(b) {
		return -1
	}
	return 0
}

func intsKey(v []int) string {
	key := make([]byte, 0, 2*len(v))
	for _, d := range v {
		key = append(key, byte(d>>8), byte(d))
	}
	return string(key)
}
