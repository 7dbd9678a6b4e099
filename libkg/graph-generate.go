package libkg

import (
	"github.com/2x3systems/gokg/gokg"
	"github.com/emirpasic/gods/trees/redblacktree"
	"github.com/pkg/errors"
)

// Graphs returns the ordered set of graphs with opts.Internal internal and opts.External ground vertices.
//
// Candidates give every internal vertex an ordered pair of distinct targets, neither of which is the vertex itself,
// and are visited in Cartesian product order.  With opts.ModuloMirror, the smaller of a graph and its mirror image stands for both.
// opts.OnGraph fires for each graph the first time it is accepted.
func Graphs(opts GenerateOpts) []Graph {
	accepted := redblacktree.NewWith(GraphComparator)

	walkCandidates(opts.Internal, opts.External, func(X Graph) bool {
		if opts.ModuloSigns {
			X.SetSign(1)
		}
		if opts.ModuloMirror {
			mirror := X.MirrorImage()
			if opts.ModuloSigns {
				mirror.SetSign(1)
			}
			if mirror.Less(X) {
				X = mirror
			}
		}
		if opts.Filter != nil && !opts.Filter(X) {
			return true
		}
		if _, found := accepted.Get(X); !found {
			accepted.Put(X, struct{}{})
			if opts.OnGraph != nil {
				opts.OnGraph(X)
			}
		}
		return true
	})

	keys := accepted.Keys()
	graphs := make([]Graph, len(keys))
	for i, k := range keys {
		graphs[i] = k.(Graph)
	}
	return graphs
}

// walkCandidates calls onGraph with the canonical form of every candidate graph until onGraph returns false.
func walkCandidates(internal, external int, onGraph func(X Graph) bool) {
	Nv := internal + external
	if internal < 0 || external < 0 || internal > gokg.MaxInternal || Nv > gokg.MaxVertices {
		panic(errors.Wrapf(gokg.ErrBadEncoding, "cannot generate graphs with %d internal and %d ground vertices", internal, external))
	}

	radix := make([]int, 2*internal)
	for i := range radix {
		radix[i] = Nv
	}

	targets := make([]VertexPair, internal)
	choices := NewCartesianProduct(radix)
	for choices.Next() {
		d := choices.Digits()
		admissible := true
		for j := 0; j < internal && admissible; j++ {
			a, b := d[2*j], d[2*j+1]
			self := external + j
			if a == b || a == self || b == self {
				admissible = false
			}
			targets[j] = VertexPair{Vertex(a), Vertex(b)}
		}
		if !admissible {
			continue
		}
		if !onGraph(NewGraph(internal, external, targets)) {
			return
		}
	}
}
