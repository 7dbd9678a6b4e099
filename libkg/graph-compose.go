package libkg

import (
	"slices"

	"github.com/2x3systems/gokg/gokg"
	"github.com/pkg/errors"
	"github.com/plan-systems/klog"
	"golang.org/x/sync/errgroup"
)

// Compose substitutes args[i] into ground slot i of every term of S and expands by the Leibniz rule:
// each edge of a term of S that lands on slot i is redirected, in turn, to every vertex of the chosen term of args[i].
//
// The result is the sum over every choice of one term per argument and every redirection, unreduced.
// Each term of S must have exactly len(args) ground vertices.
func (S *GraphSum[C]) Compose(args []*GraphSum[C]) *GraphSum[C] {
	return S.ComposeWith(args, DefaultComposeOpts)
}

// ComposeWith is Compose() with the terms of S expanded concurrently; the output term order matches Compose().
func (S *GraphSum[C]) ComposeWith(args []*GraphSum[C], opts ComposeOpts) *GraphSum[C] {
	for _, t := range S.terms {
		if t.Graph.External() != len(args) {
			panic(errors.Wrapf(gokg.ErrArityMismatch, "graph %v has %d ground vertices but %d arguments were given", t.Graph, t.Graph.External(), len(args)))
		}
	}

	parts := make([][]Term[C], len(S.terms))
	if len(S.terms) <= 1 || opts.workers() <= 1 {
		for i, t := range S.terms {
			parts[i] = composeTerm(t, args, nil)
		}
	} else {
		var grp errgroup.Group
		grp.SetLimit(opts.workers())
		for i := range S.terms {
			i := i
			grp.Go(func() error {
				parts[i] = composeTerm(S.terms[i], args, nil)
				return nil
			})
		}
		grp.Wait()
	}

	total := 0
	for _, part := range parts {
		total += len(part)
	}
	out := &GraphSum[C]{
		terms: make([]Term[C], 0, total),
	}
	for _, part := range parts {
		out.terms = append(out.terms, part...)
	}

	klog.V(3).Infof("composed %d terms with %d arguments into %d terms", len(S.terms), len(args), total)
	return out
}

// leibnizSlot is a leg of the template that landed on a ground slot and is filled in by the Leibniz enumeration.
type leibnizSlot struct {
	pos int // index into the new target list
	leg int
	arg int // argument the leg lands on
}

// argBlock locates one chosen argument term in the new vertex numbering.
type argBlock struct {
	external      int
	externalStart int
	internalStart int // absolute label of the first internal vertex
}

func (blk *argBlock) relabel(v Vertex) Vertex {
	if int(v) < blk.external {
		return Vertex(blk.externalStart + int(v))
	}
	return Vertex(blk.internalStart + int(v) - blk.external)
}

func composeTerm[C Coeff[C]](tmpl Term[C], args []*GraphSum[C], out []Term[C]) []Term[C] {
	m := len(args)
	radix := make([]int, m)
	for i, A := range args {
		radix[i] = len(A.terms)
	}

	blocks := make([]argBlock, m)
	argVertices := make([]int, m)
	var slots []leibnizSlot
	var slotRadix []int
	var targets []VertexPair

	choices := NewCartesianProduct(radix)
	for choices.Next() {
		picked := choices.Digits()

		coeff := tmpl.Coeff
		sign := tmpl.Graph.Sign()
		totalExternal, argInternal := 0, 0
		for i, d := range picked {
			a := &args[i].terms[d]
			coeff = coeff.Mul(a.Coeff)
			sign *= a.Graph.Sign()
			blocks[i].external = a.Graph.External()
			blocks[i].externalStart = totalExternal
			argVertices[i] = a.Graph.Vertices()
			totalExternal += a.Graph.External()
			argInternal += a.Graph.Internal()
		}
		if sign == 0 {
			continue
		}

		// internal vertices: each argument's block, then the template's own
		next := totalExternal
		for i, d := range picked {
			blocks[i].internalStart = next
			next += args[i].terms[d].Graph.Internal()
		}
		tmplStart := next
		totalInternal := argInternal + tmpl.Graph.Internal()

		targets = append(targets[:0], make([]VertexPair, totalInternal)...)
		for i, d := range picked {
			blk := &blocks[i]
			base := blk.internalStart - totalExternal
			for k, t := range args[i].terms[d].Graph.targets {
				targets[base+k] = VertexPair{blk.relabel(t[0]), blk.relabel(t[1])}
			}
		}

		slots = slots[:0]
		slotRadix = slotRadix[:0]
		for k, t := range tmpl.Graph.targets {
			pos := tmplStart - totalExternal + k
			for leg, v := range t {
				if int(v) >= m {
					targets[pos][leg] = Vertex(tmplStart + int(v) - m)
				} else {
					slots = append(slots, leibnizSlot{pos: pos, leg: leg, arg: int(v)})
					slotRadix = append(slotRadix, argVertices[v])
				}
			}
		}

		leibniz := NewCartesianProduct(slotRadix)
		out = slices.Grow(out, int(leibniz.Count()))
		for leibniz.Next() {
			for s, d := range leibniz.Digits() {
				slot := slots[s]
				targets[slot.pos][slot.leg] = blocks[slot.arg].relabel(Vertex(d))
			}
			X := NewSignedGraph(totalInternal, totalExternal, targets, sign)
			out = append(out, Term[C]{Coeff: coeff, Graph: X})
		}
	}
	return out
}
