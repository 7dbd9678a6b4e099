package libkg

import (
	"io"
	"strconv"

	"github.com/2x3systems/gokg/gokg"
	"github.com/pkg/errors"
)

// Graph is a Kontsevich graph in canonical form.
//
// Each internal vertex carries an ordered pair of targets (its two legs) and the graph carries a sign in {-1, 0, +1}.
// A Graph is immutable once constructed; copies share the (never mutated) target list.
type Graph struct {
	external int
	targets  []VertexPair
	sign     int
}

// NewGraph returns the canonical form of the given graph with sign +1.
func NewGraph(internal, external int, targets []VertexPair) Graph {
	return NewSignedGraph(internal, external, targets, 1)
}

// NewSignedGraph returns the canonical form of the given graph, multiplying sign by the sign picked up during canonicalization.
//
// Out of range targets or a target count other than internal is a programming error and panics.
func NewSignedGraph(internal, external int, targets []VertexPair, sign int) Graph {
	validateGraph(internal, external, targets, sign)
	X := Graph{
		external: external,
		targets:  targets,
		sign:     sign,
	}
	X.Normalize()
	return X
}

// NewNormalizedGraph returns a Graph from targets already known to be canonical, skipping the canonical labelling search.
func NewNormalizedGraph(internal, external int, targets []VertexPair, sign int) Graph {
	validateGraph(internal, external, targets, sign)
	return Graph{
		external: external,
		targets:  append([]VertexPair(nil), targets...),
		sign:     sign,
	}
}

func validateGraph(internal, external int, targets []VertexPair, sign int) {
	if internal != len(targets) {
		panic(errors.Wrapf(gokg.ErrBadEncoding, "expected %d target pairs, got %d", internal, len(targets)))
	}
	if internal < 0 || external < 0 || internal > gokg.MaxInternal || internal+external > gokg.MaxVertices {
		panic(errors.Wrapf(gokg.ErrBadEncoding, "unsupported vertex counts (internal %d, external %d)", internal, external))
	}
	if sign < -1 || sign > 1 {
		panic(errors.Wrapf(gokg.ErrBadEncoding, "bad sign %d", sign))
	}
	Nv := internal + external
	for i, t := range targets {
		if int(t[0]) >= Nv || int(t[1]) >= Nv {
			panic(errors.Wrapf(gokg.ErrBadVtxID, "vertex %d targets (%d, %d) but the graph has %d vertices", external+i, t[0], t[1], Nv))
		}
	}
}

// Normalize replaces X's targets with their canonical form and folds the sign picked up into X's sign.
func (X *Graph) Normalize() {
	form := canonize(X.external, X.targets)
	X.targets = form.targets
	X.sign *= form.sign
}

func (X Graph) Internal() int {
	return len(X.targets)
}

func (X Graph) External() int {
	return X.external
}

// Vertices returns the total number of vertices.
func (X Graph) Vertices() int {
	return X.external + len(X.targets)
}

func (X Graph) Sign() int {
	return X.sign
}

// SetSign overwrites the sign of X.
func (X *Graph) SetSign(sign int) {
	X.sign = sign
}

// Abs returns X with sign +1, the key under which GraphSum merges terms.
func (X Graph) Abs() Graph {
	X.sign = 1
	return X
}

// InternalVertices returns the labels of the internal vertices, in ascending order.
func (X Graph) InternalVertices() []Vertex {
	vtx := make([]Vertex, len(X.targets))
	for i := range vtx {
		vtx[i] = Vertex(X.external + i)
	}
	return vtx
}

// Targets returns the two leg targets of internal vertex v.
func (X Graph) Targets(v Vertex) VertexPair {
	i := int(v) - X.external
	if i < 0 || i >= len(X.targets) {
		panic(errors.Wrapf(gokg.ErrBadVtxID, "vertex %d is not internal", v))
	}
	return X.targets[i]
}

// TargetList returns a copy of the canonical target list.
func (X Graph) TargetList() []VertexPair {
	return append([]VertexPair(nil), X.targets...)
}

// IsZero returns true if some relabeling of internal vertices and legs maps X onto itself with odd leg-swap parity.
func (X Graph) IsZero() bool {
	return canonize(X.external, X.targets).sign == 0
}

// Stabilizer returns the number of (internal relabeling, leg ordering) pairs that fix X, ignoring sign.
func (X Graph) Stabilizer() int64 {
	return canonize(X.external, X.targets).stabilizer
}

// Multiplicity returns the number of labelled graphs in the isomorphism class of X: 2^n n! / |stabilizer|.
// 2^n n! fits an int64 for n <= gokg.MaxInternal.
func (X Graph) Multiplicity() int64 {
	n := len(X.targets)
	return (int64(1) << uint(n)) * Factorial(n) / X.Stabilizer()
}

// IsPrime returns true if the internal vertices form a single connected component once ground vertices are removed.
//
// Ground vertices are not traversed: the product of two graphs over the same ground is not prime.
// The empty graph (the unit of Product) is not prime.
func (X Graph) IsPrime() bool {
	n := len(X.targets)
	if n == 0 {
		return false
	}

	adj := make([][]int, n)
	for i, t := range X.targets {
		for _, v := range t {
			j := int(v) - X.external
			if j >= 0 && j != i {
				adj[i] = append(adj[i], j)
				adj[j] = append(adj[j], i)
			}
		}
	}

	visited := make([]bool, n)
	visited[0] = true
	queue := []int{0}
	count := 1
	for len(queue) > 0 {
		i := queue[0]
		queue = queue[1:]
		for _, j := range adj[i] {
			if !visited[j] {
				visited[j] = true
				count++
				queue = append(queue, j)
			}
		}
	}
	return count == n
}

// MirrorImage returns X with its ground vertices in reverse order.
func (X Graph) MirrorImage() Graph {
	m := X.external
	targets := make([]VertexPair, len(X.targets))
	for i, t := range X.targets {
		for leg, v := range t {
			if int(v) < m {
				v = Vertex(m - 1 - int(v))
			}
			targets[i][leg] = v
		}
	}
	return NewSignedGraph(len(targets), m, targets, X.sign)
}

// RelabelExternal returns X with ground vertex v relabeled perm[v].
func (X Graph) RelabelExternal(perm []int) Graph {
	m := X.external
	if len(perm) != m {
		panic(errors.Wrapf(gokg.ErrArityMismatch, "permutation of %d ground vertices applied to a graph with %d", len(perm), m))
	}
	targets := make([]VertexPair, len(X.targets))
	for i, t := range X.targets {
		for leg, v := range t {
			if int(v) < m {
				v = Vertex(perm[v])
			}
			targets[i][leg] = v
		}
	}
	return NewSignedGraph(len(targets), m, targets, X.sign)
}

// PositiveDifferentialOrder returns true if every ground vertex receives at least one edge.
func (X Graph) PositiveDifferentialOrder() bool {
	for _, d := range X.InDegrees() {
		if d == 0 {
			return false
		}
	}
	return true
}

// Product returns the juxtaposition of X and Y over their common ground vertices.
func (X Graph) Product(Y Graph) Graph {
	m := X.external
	if Y.external != m {
		panic(errors.Wrapf(gokg.ErrArityMismatch, "product of graphs over %d and %d ground vertices", m, Y.external))
	}
	nX := len(X.targets)
	targets := make([]VertexPair, 0, nX+len(Y.targets))
	targets = append(targets, X.targets...)
	for _, t := range Y.targets {
		for leg, v := range t {
			if int(v) >= m {
				t[leg] = v + Vertex(nX)
			}
		}
		targets = append(targets, t)
	}
	return NewSignedGraph(len(targets), m, targets, X.sign*Y.sign)
}

// InDegrees returns the number of edges landing on each ground vertex.
func (X Graph) InDegrees() []int {
	indeg := make([]int, X.external)
	for _, t := range X.targets {
		for _, v := range t {
			if int(v) < X.external {
				indeg[v]++
			}
		}
	}
	return indeg
}

// NeighborsIn returns the internal vertices with an edge landing on v, once per such edge.
func (X Graph) NeighborsIn(v Vertex) []Vertex {
	var nbrs []Vertex
	for i, t := range X.targets {
		for _, w := range t {
			if w == v {
				nbrs = append(nbrs, Vertex(X.external+i))
			}
		}
	}
	return nbrs
}

// Compare orders graphs by external count, internal count, canonical targets, then sign.
func (X Graph) Compare(Y Graph) int {
	if d := X.external - Y.external; d != 0 {
		return d
	}
	if d := len(X.targets) - len(Y.targets); d != 0 {
		return d
	}
	if d := comparePairs(X.targets, Y.targets); d != 0 {
		return d
	}
	return X.sign - Y.sign
}

func (X Graph) Less(Y Graph) bool {
	return X.Compare(Y) < 0
}

// Equal returns true if X and Y have the same ground, canonical targets, and sign.
func (X Graph) Equal(Y Graph) bool {
	return X.Compare(Y) == 0
}

// GraphComparator orders Graph values for use with gods containers.
func GraphComparator(a, b interface{}) int {
	return a.(Graph).Compare(b.(Graph))
}

func (X Graph) AppendKey(key []byte) []byte {
	key = append(key, byte(len(X.targets)), byte(X.external))
	for _, t := range X.targets {
		key = append(key, byte(t[0]), byte(t[1]))
	}
	return key
}

func (X Graph) AppendEncoding(out []byte) []byte {
	out = strconv.AppendInt(out, int64(X.external), 10)
	out = append(out, ' ')
	out = strconv.AppendInt(out, int64(len(X.targets)), 10)
	out = append(out, ' ')
	out = strconv.AppendInt(out, int64(X.sign), 10)
	for _, t := range X.targets {
		out = append(out, ' ')
		out = strconv.AppendInt(out, int64(t[0]), 10)
		out = append(out, ' ')
		out = strconv.AppendInt(out, int64(t[1]), 10)
	}
	return out
}

// Encoding returns the text encoding "external internal sign t0a t0b t1a t1b ..."
func (X Graph) Encoding() string {
	var buf [128]byte
	return string(X.AppendEncoding(buf[:0]))
}

func (X Graph) String() string {
	return X.Encoding()
}

func (X Graph) WriteAsString(out io.Writer, opts gokg.PrintOpts) {
	var buf [256]byte
	line := buf[:0]

	if opts.Encoding {
		line = X.AppendEncoding(line)
	}
	if opts.Multiplicity {
		line = append(line, "  multiplicity "...)
		line = strconv.AppendInt(line, X.Multiplicity(), 10)
	}
	if opts.Prime {
		if X.IsPrime() {
			line = append(line, "  prime"...)
		} else {
			line = append(line, "  composite"...)
		}
	}
	if opts.InDegrees {
		line = append(line, "  #"...)
		for _, d := range X.InDegrees() {
			line = append(line, ' ')
			line = strconv.AppendInt(line, int64(d), 10)
		}
	}
	out.Write(line)
}

var _ gokg.GraphState = Graph{}
