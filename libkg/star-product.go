package libkg

import (
	"github.com/2x3systems/gokg/gokg"
	"github.com/emirpasic/gods/trees/redblacktree"
	"github.com/pkg/errors"
	"github.com/plan-systems/klog"
)

// WeightTable holds prime graphs and their weights, grouped by internal vertex count.
//
// Weights are stored against the unsigned graph: putting w for a graph of sign -1 stores -w.
type WeightTable[C Coeff[C]] struct {
	primes  *redblacktree.Tree // int => []Graph
	weights map[string]C
}

func NewWeightTable[C Coeff[C]]() *WeightTable[C] {
	return &WeightTable[C]{
		primes:  redblacktree.NewWithIntComparator(),
		weights: make(map[string]C),
	}
}

// Put records the weight of X, replacing any weight already recorded.  Graphs that vanish are ignored.
func (tbl *WeightTable[C]) Put(X Graph, weight C) {
	if X.Sign() == 0 {
		return
	}
	if X.Sign() < 0 {
		weight = weight.Neg()
	}
	X = X.Abs()

	key := string(X.AppendKey(nil))
	if _, exists := tbl.weights[key]; !exists {
		n := X.Internal()
		var primes []Graph
		if existing, found := tbl.primes.Get(n); found {
			primes = existing.([]Graph)
		}
		tbl.primes.Put(n, append(primes, X))
	}
	tbl.weights[key] = weight
}

// Weight returns the weight of X (accounting for its sign).
func (tbl *WeightTable[C]) Weight(X Graph) (C, bool) {
	w, found := tbl.weights[string(X.Abs().AppendKey(nil))]
	if found && X.Sign() < 0 {
		w = w.Neg()
	}
	return w, found
}

// Primes returns the graphs with n internal vertices, in the order they were put.
func (tbl *WeightTable[C]) Primes(n int) []Graph {
	if primes, found := tbl.primes.Get(n); found {
		return primes.([]Graph)
	}
	return nil
}

// MaxOrder returns the largest internal vertex count held, or 0 if the table is empty.
func (tbl *WeightTable[C]) MaxOrder() int {
	if tbl.primes.Size() == 0 {
		return 0
	}
	return tbl.primes.Right().Key.(int)
}

// LoadWeights reads a weight table from a series whose order n holds the weighted n-vertex primes.
func LoadWeights[C Coeff[C]](series *GraphSeries[C]) *WeightTable[C] {
	tbl := NewWeightTable[C]()
	for _, order := range series.Orders() {
		S, _ := series.Get(order)
		for _, t := range S.terms {
			tbl.Put(t.Graph, t.Coeff)
		}
	}
	return tbl
}

// LoadCatalogWeights reads every graph from cat with a non-empty weight into a weight table.
func LoadCatalogWeights[C Coeff[C]](cat gokg.Catalog, parse CoeffParser[C]) (*WeightTable[C], error) {
	tbl := NewWeightTable[C]()

	onHit := make(chan *gokg.WeightRecord, 4)
	selectErr := make(chan error, 1)
	go func() {
		selectErr <- cat.Select(gokg.DefaultGraphSelector, onHit)
		close(onHit)
	}()

	var err error
	for rec := range onHit {
		if err != nil || len(rec.Weight) == 0 {
			continue
		}
		var X Graph
		if X, err = ParseGraph(rec.Encoding); err != nil {
			continue
		}
		var w C
		if w, err = parse(rec.Weight); err != nil {
			err = errors.Wrapf(gokg.ErrBadCoeff, "weight of %v: %v", X, err)
			continue
		}
		tbl.Put(X, w)
	}
	if selErr := <-selectErr; selErr != nil {
		return nil, selErr
	}
	if err != nil {
		return nil, err
	}
	return tbl, nil
}

// StarProduct assembles the star product up to the given order from weighted prime graphs over two ground vertices.
//
// The mirror image of each prime is added with the prime's weight, negated at odd order.  The order n part is 1/n! times the sum of
// each product of primes (one per part of a partition of n, non-decreasing among equal parts) weighted by its multiplicity and the product of
// the prime weights.  Order 0 is the product 1·(0,2,{}).
func StarProduct[C Coeff[C]](tbl *WeightTable[C], order int) *GraphSeries[C] {
	primes, weights := withMirrorImages(tbl, order)

	var zero C
	one := zero.FromInt(1)

	star := NewGraphSeries[C]()
	star.At(0).AddTerm(one, NewGraph(0, 2, nil))

	for n := 1; n <= order; n++ {
		major := one.Quo(one.FromInt(Factorial(n)))
		Sn := star.At(n)

		Partitions(n, func(parts []int) bool {
			if len(parts) < 2 {
				return true
			}
			radix := make([]int, len(parts))
			for i, p := range parts {
				radix[i] = len(primes[p])
			}

			decompositions := NewCartesianProduct(radix)
			for decompositions.Next() {
				d := decompositions.Digits()

				// parts are non-decreasing, so equal parts are adjacent
				accept := true
				for i := 1; i < len(parts) && accept; i++ {
					if parts[i] == parts[i-1] && d[i] < d[i-1] {
						accept = false
					}
				}
				if !accept {
					continue
				}

				composite := NewGraph(0, 2, nil)
				coeff := major
				for i, p := range parts {
					prime := primes[p][d[i]]
					composite = composite.Product(prime)
					coeff = coeff.Mul(weights[p][d[i]])
				}
				Sn.AddTerm(coeff.MulInt(composite.Multiplicity()), composite)
			}
			return true
		})

		for i, prime := range primes[n] {
			Sn.AddTerm(major.Mul(weights[n][i]).MulInt(prime.Multiplicity()), prime)
		}
		klog.V(2).Infof("star product order %d: %d terms", n, Sn.Len())
	}

	star.SetPrecision(order)
	return star
}

func withMirrorImages[C Coeff[C]](tbl *WeightTable[C], order int) (map[int][]Graph, map[int][]C) {
	primes := make(map[int][]Graph, order)
	weights := make(map[int][]C, order)
	for n := 1; n <= order; n++ {
		for _, X := range tbl.Primes(n) {
			w, _ := tbl.Weight(X)
			primes[n] = append(primes[n], X)
			weights[n] = append(weights[n], w)

			mirror := X.MirrorImage()
			if mirror.Abs().Equal(X.Abs()) {
				continue
			}
			if n%2 == 1 {
				w = w.Neg()
			}
			primes[n] = append(primes[n], mirror)
			weights[n] = append(weights[n], w)
		}
	}
	return primes, weights
}
