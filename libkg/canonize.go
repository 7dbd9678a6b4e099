package libkg

// canonicForm is the outcome of searching every relabeling of internal vertices and every leg ordering of a graph.
type canonicForm struct {
	targets    []VertexPair // lexicographically smallest target list (freshly allocated)
	sign       int          // sign picked up reaching targets from the input, or 0 if an odd automorphism exists
	stabilizer int64        // number of (relabeling, leg ordering) pairs that fix the unsigned targets
}

// canonize runs the brute force canonical labelling search.
//
// For each permutation of the internal vertices, the legs of every vertex are put in ascending order, which is the unique smallest
// leg ordering for that permutation.  The smallest resulting target list wins and the number of leg swaps used to reach it sets the sign.
// Two permutations that reach the winning list with differing swap parity compose to an odd automorphism, so the graph is zero.
// A vertex whose legs share a target is fixed by its own leg swap, which is odd, so such a graph is also zero.
func canonize(external int, targets []VertexPair) canonicForm {
	n := len(targets)

	degenerate := 0
	for _, t := range targets {
		if t[0] == t[1] {
			degenerate++
		}
	}

	perm := Identity(n) // perm[j] is the input internal index placed at position j
	inv := make([]int, n)
	scratch := make([]VertexPair, n)
	best := make([]VertexPair, n)

	relabel := func(v Vertex) Vertex {
		if int(v) < external {
			return v
		}
		return Vertex(external + inv[int(v)-external])
	}

	bestSign := 1
	automorphisms := int64(0)
	oddAutomorphism := false

	for first := true; ; first = false {
		for j, src := range perm {
			inv[src] = j
		}
		swaps := 0
		for j, src := range perm {
			a, b := relabel(targets[src][0]), relabel(targets[src][1])
			if b < a {
				a, b = b, a
				swaps++
			}
			scratch[j] = VertexPair{a, b}
		}
		sign := 1 - 2*(swaps&1)

		cmp := -1
		if !first {
			cmp = comparePairs(scratch, best)
		}
		if cmp < 0 {
			copy(best, scratch)
			bestSign = sign
			automorphisms = 1
			oddAutomorphism = false
		} else if cmp == 0 {
			automorphisms++
			if sign != bestSign {
				oddAutomorphism = true
			}
		}

		if !NextPermutation(perm) {
			break
		}
	}

	form := canonicForm{
		targets:    best,
		sign:       bestSign,
		stabilizer: automorphisms << uint(degenerate),
	}
	if oddAutomorphism || degenerate > 0 {
		form.sign = 0
	}
	return form
}

func comparePairs(A, B []VertexPair) int {
	for i := range A {
		if i >= len(B) {
			return 1
		}
		if d := int(A[i][0]) - int(B[i][0]); d != 0 {
			return d
		}
		if d := int(A[i][1]) - int(B[i][1]); d != 0 {
			return d
		}
	}
	if len(A) < len(B) {
		return -1
	}
	return 0
}
