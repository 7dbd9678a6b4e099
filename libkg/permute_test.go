package libkg

import (
	"testing"
)

func TestPermutations(t *testing.T) {
	for n := 0; n <= 5; n++ {
		perm := Identity(n)
		count := int64(1)
		odd := 0
		for NextPermutation(perm) {
			count++
			odd += Parity(perm)
		}
		if count != Factorial(n) {
			t.Fatalf("n=%d: visited %d permutations", n, count)
		}
		if n >= 2 && 2*int64(odd) != count {
			t.Fatalf("n=%d: %d odd permutations out of %d", n, odd, count)
		}
		if !equalInts(perm, Identity(n)) {
			t.Fatalf("expected the permutation to wrap around to the identity, got %v", perm)
		}
	}

	if Parity([]int{1, 0, 2}) != 1 || Parity([]int{1, 2, 0}) != 0 {
		t.Fatalf("Parity() is off")
	}
}

func TestCartesianProduct(t *testing.T) {
	radix := []int{2, 3, 4}
	cp := NewCartesianProduct(radix)
	if cp.Count() != 24 {
		t.Fatalf("expected 24 digit vectors, got %d", cp.Count())
	}

	pos := int64(0)
	var last []int
	for cp.Next() {
		digits := cp.Digits()
		// the last digit varies fastest
		if want := int(pos % 4); digits[2] != want {
			t.Fatalf("position %d: expected last digit %d, got %v", pos, want, digits)
		}
		last = append(last[:0], digits...)
		pos++
	}
	if pos != cp.Count() || !equalInts(last, []int{1, 2, 3}) {
		t.Fatalf("enumerated %d digit vectors ending with %v", pos, last)
	}

	zero := NewCartesianProduct([]int{3, 0})
	if zero.Count() != 0 || zero.Next() {
		t.Fatalf("a zero radix admits no digit vectors")
	}
	empty := NewCartesianProduct(nil)
	if !empty.Next() || empty.Next() {
		t.Fatalf("no digits admits exactly one digit vector")
	}
}

func TestPartitions(t *testing.T) {
	var all [][]int
	Partitions(5, func(parts []int) bool {
		sum := 0
		for i, p := range parts {
			if i > 0 && parts[i-1] > p {
				t.Fatalf("parts out of order: %v", parts)
			}
			sum += p
		}
		if sum != 5 {
			t.Fatalf("%v does not sum to 5", parts)
		}
		all = append(all, append([]int(nil), parts...))
		return true
	})
	if len(all) != 7 {
		t.Fatalf("expected 7 partitions of 5, got %v", all)
	}
	if last := all[len(all)-1]; !equalInts(last, []int{5}) {
		t.Fatalf("expected {5} last, got %v", last)
	}

	visited := 0
	Partitions(6, func(parts []int) bool {
		visited++
		return visited < 3
	})
	if visited != 3 {
		t.Fatalf("enumeration did not stop")
	}
}
