package libkg

import (
	"runtime"
)

// Vertex is a graph vertex label.
// Labels 0..External-1 are ground (external) vertices and External..External+Internal-1 are internal vertices.
type Vertex byte

// VertexPair holds the targets of the two legs of an internal vertex.
type VertexPair [2]Vertex

// Coeff is the coefficient ring a GraphSum is built over.
//
// The zero value of C must be the additive identity and must be usable as a receiver for FromInt.
// Quo is only ever called with a non-zero divisor.
type Coeff[C any] interface {
	Add(y C) C
	Sub(y C) C
	Mul(y C) C
	Quo(y C) C
	Neg() C
	MulInt(n int64) C
	FromInt(n int64) C
	IsZero() bool
	String() string
}

// Term is a single summand of a GraphSum.
type Term[C Coeff[C]] struct {
	Coeff C
	Graph Graph
}

// GenerateOpts specifies which graphs Graphs() and EnumGraphs() produce.
type GenerateOpts struct {
	Internal     int
	External     int
	ModuloSigns  bool              // if set, every emitted graph has sign +1
	ModuloMirror bool              // if set, a graph is dropped when its mirror image was already accepted
	Filter       func(X Graph) bool // if set, only graphs for which Filter returns true are accepted
	OnGraph      func(X Graph)      // if set, called once for each newly accepted graph, in generation order
}

// ComposeOpts tunes GraphSum composition.
type ComposeOpts struct {
	MaxWorkers int // 0 denotes runtime.GOMAXPROCS(0)
}

var DefaultComposeOpts = ComposeOpts{}

func (opts ComposeOpts) workers() int {
	if opts.MaxWorkers > 0 {
		return opts.MaxWorkers
	}
	return runtime.GOMAXPROCS(0)
}

// DropDupeOpts configures the dedupe stage of a GraphStream.
type DropDupeOpts struct {
	PoolSz int  // 0 denotes DefaultPoolSz (32k)
	UseLSM bool // if set, seen graphs are kept in an in-memory badger db instead of a hash map
}

const DefaultPoolSz = 32 * 1024
