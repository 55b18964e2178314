package generator

import "math/bits"

// bitset is a flat, fixed-size bit array.
type bitset []uint64

func newBitset(n int) bitset {
	return make(bitset, (n+63)/64)
}

func (b bitset) test(i int) bool {
	return b[i>>6]&(1<<(uint(i)&63)) != 0
}

func (b bitset) clear(i int) {
	b[i>>6] &^= 1 << (uint(i) & 63)
}

// setFirst sets bits [0, n) and clears the rest.
func (b bitset) setFirst(n int) {
	full := n >> 6
	for i := 0; i < full; i++ {
		b[i] = ^uint64(0)
	}
	for i := full; i < len(b); i++ {
		b[i] = 0
	}
	if rem := uint(n) & 63; rem != 0 {
		b[full] = (1 << rem) - 1
	}
}

// count returns the number of set bits in [from, to). Generation tracks
// counts in possibleCounts; count backs the check that the two agree.
func (b bitset) count(from, to int) int {
	n := 0
	for i := from; i < to; {
		if i&63 == 0 && to-i >= 64 {
			n += bits.OnesCount64(b[i>>6])
			i += 64
			continue
		}
		if b.test(i) {
			n++
		}
		i++
	}
	return n
}
