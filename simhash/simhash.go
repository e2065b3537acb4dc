// Package simhash computes 64-bit locality-sensitive fingerprints used to
// decide whether a product page materially changed between audit runs. Each
// capture keeps two: one over the visible text and one over the rendered tag
// structure, since market copy can stay word-identical while the layout
// moves, and vice versa.
package simhash

import (
	"hash/fnv"
	"math/bits"
	"strings"
)

// Fingerprint hashes whitespace-separated tokens of the visible text. Tokens
// are case-folded first so cosmetic capitalisation changes ("SALE" vs
// "Sale") do not register as content drift; price and copy edits still do.
func Fingerprint(text string) uint64 {
	tokens := strings.Fields(strings.ToLower(text))
	if len(tokens) == 0 {
		return 0
	}

	var vector [64]int
	for _, tok := range tokens {
		h := fnv.New64a()
		h.Write([]byte(tok))
		sum := h.Sum64()

		for bit := 0; bit < 64; bit++ {
			if sum&(1<<uint(bit)) != 0 {
				vector[bit]++
			} else {
				vector[bit]--
			}
		}
	}

	var fp uint64
	for bit, weight := range vector {
		if weight > 0 {
			fp |= 1 << uint(bit)
		}
	}
	return fp
}

// Distance returns the Hamming distance between two fingerprints.
func Distance(a, b uint64) int {
	return bits.OnesCount64(a ^ b)
}

// Similar reports whether two fingerprints are within threshold bits of
// each other.
func Similar(a, b uint64, threshold int) bool {
	return Distance(a, b) <= threshold
}
