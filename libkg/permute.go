package libkg

// NextPermutation rearranges perm into the lexicographically next permutation.
// Once perm is the last permutation, it is reset to ascending order and false is returned.
func NextPermutation(perm []int) bool {
	n := len(perm)
	i := n - 2
	for i >= 0 && perm[i] >= perm[i+1] {
		i--
	}
	if i < 0 {
		reverseInts(perm)
		return false
	}
	j := n - 1
	for perm[j] <= perm[i] {
		j--
	}
	perm[i], perm[j] = perm[j], perm[i]
	reverseInts(perm[i+1:])
	return true
}

func reverseInts(s []int) {
	for i, j := 0, len(s)-1; i < j; i, j = i+1, j-1 {
		s[i], s[j] = s[j], s[i]
	}
}

// Identity returns the permutation 0, 1, .. n-1
func Identity(n int) []int {
	perm := make([]int, n)
	for i := range perm {
		perm[i] = i
	}
	return perm
}

// Parity returns 1 if perm (a permutation of 0..len(perm)-1) is odd and 0 if it is even.
func Parity(perm []int) int {
	var seenBuf [32]bool
	var seen []bool
	if len(perm) <= len(seenBuf) {
		seen = seenBuf[:len(perm)]
	} else {
		seen = make([]bool, len(perm))
	}

	transpositions := 0
	for i := range perm {
		if seen[i] {
			continue
		}
		cycleLen := 0
		for j := i; !seen[j]; j = perm[j] {
			seen[j] = true
			cycleLen++
		}
		transpositions += cycleLen - 1
	}
	return transpositions & 1
}

// Factorial returns n!
func Factorial(n int) int64 {
	f := int64(1)
	for i := 2; i <= n; i++ {
		f *= int64(i)
	}
	return f
}

// CartesianProduct enumerates every digit vector d with 0 <= d[i] < radix[i].
// The last digit changes fastest.  If any radix is 0, there are no vectors; if there are no digits, there is exactly one (empty) vector.
type CartesianProduct struct {
	radix   []int
	digits  []int
	started bool
	done    bool
}

func NewCartesianProduct(radix []int) *CartesianProduct {
	cp := &CartesianProduct{
		radix:  radix,
		digits: make([]int, len(radix)),
	}
	for _, r := range radix {
		if r <= 0 {
			cp.done = true
		}
	}
	return cp
}

// Next advances to the next digit vector, returning false when the enumeration is exhausted.
func (cp *CartesianProduct) Next() bool {
	if cp.done {
		return false
	}
	if !cp.started {
		cp.started = true
		return true
	}
	for i := len(cp.digits) - 1; i >= 0; i-- {
		cp.digits[i]++
		if cp.digits[i] < cp.radix[i] {
			return true
		}
		cp.digits[i] = 0
	}
	cp.done = true
	return false
}

// Digits returns the current digit vector, valid until the next call to Next().
func (cp *CartesianProduct) Digits() []int {
	return cp.digits
}

// Count returns the total number of digit vectors.
func (cp *CartesianProduct) Count() int64 {
	count := int64(1)
	for _, r := range cp.radix {
		if r <= 0 {
			return 0
		}
		count *= int64(r)
	}
	return count
}

// Partitions calls visit with each partition of n into positive, non-decreasing parts, ending with the one-part partition {n}.
// The parts slice is only valid during the call.  Enumeration stops if visit returns false.
func Partitions(n int, visit func(parts []int) bool) {
	if n <= 0 {
		visit(nil)
		return
	}
	a := make([]int, n+1)
	k := 1
	y := n - 1
	for k != 0 {
		x := a[k-1] + 1
		k--
		for 2*x <= y {
			a[k] = x
			y -= x
			k++
		}
		l := k + 1
		for x <= y {
			a[k] = x
			a[l] = y
			if !visit(a[:k+2]) {
				return
			}
			x++
			y--
		}
		a[k] = x + y
		y = x + y - 1
		if !visit(a[:k+1]) {
			return
		}
	}
}
