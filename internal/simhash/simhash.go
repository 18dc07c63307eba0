// Package simhash computes 64-bit locality-sensitive fingerprints of page
// text and maintains a bounded per-host window of recently seen fingerprints
// for near-duplicate detection.
//
// Two documents that differ only slightly hash to fingerprints a small
// Hamming distance apart. Two unrelated documents made of long tokens hash
// to fingerprints roughly 32 bits apart on average; a token shorter than
// about 13 bytes hashes below 2^64 without wrapping and never votes for the
// highest bits, so unrelated documents of short words land closer (around
// 10 bits apart for random 4-9 letter words). The window lets the content pipeline ask
// "have I already indexed something like this, from this host?" without
// keeping every document's full text in memory.
package simhash

import (
	"math/bits"
	"regexp"
	"strings"
)

var nonWord = regexp.MustCompile(`[^\p{L}\p{N}]+`)

const minTokenLen = 3

// Fingerprint computes the 64-bit SimHash of text: lowercase, strip
// non-word runs, tokenize on whitespace, drop tokens shorter than three
// bytes, weight each surviving token by its frequency, and accumulate a
// signed vote per bit across all 64 positions. Bit i of the result is 1 iff
// the accumulated vote at position i is positive.
func Fingerprint(text string) uint64 {
	freq := tokenFrequencies(text)

	var votes [64]int
	for tok, count := range freq {
		h := tokenHash(tok)
		for i := 0; i < 64; i++ {
			if h&(1<<uint(i)) != 0 {
				votes[i] += count
			} else {
				votes[i] -= count
			}
		}
	}

	var fp uint64
	for i, v := range votes {
		if v > 0 {
			fp |= 1 << uint(i)
		}
	}
	return fp
}

func tokenFrequencies(text string) map[string]int {
	cleaned := nonWord.ReplaceAllString(strings.ToLower(text), " ")
	freq := make(map[string]int)
	for _, tok := range strings.Fields(cleaned) {
		if len(tok) <= minTokenLen-1 {
			continue
		}
		freq[tok]++
	}
	return freq
}

// tokenHash hashes a token's UTF-8 bytes into a 64-bit value via the
// multiplicative rolling hash h = h*31 + byte (mod 2^64); overflow wraps
// exactly the way the modulus requires, which uint64 arithmetic does for
// free.
func tokenHash(tok string) uint64 {
	var h uint64
	for i := 0; i < len(tok); i++ {
		h = h*31 + uint64(tok[i])
	}
	return h
}

// Distance returns the Hamming distance between two fingerprints: the
// number of bit positions at which a and b differ.
func Distance(a, b uint64) int {
	return bits.OnesCount64(a ^ b)
}
