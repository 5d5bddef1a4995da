package util

import "fmt"

// Levenshtein computes the Levenshtein edit distance between two strings of
// equal length: the number of insertions, deletions, and substitutions it
// takes to transform s1 into s2, each costing one distance point.  Composite
// barcode+UMI keys always have a fixed length, so unlike sequencing-read
// comparisons there is no downstream sequence to absorb indels and the plain
// dynamic program applies.
func Levenshtein(s1, s2 string) (distance int) {
	if len(s1) != len(s2) {
		panic(fmt.Sprintf("s1 and s2 must have equal length: '%s', '%s'", s1, s2))
	}
	n := len(s2)
	prev := make([]int, n+1)
	cur := make([]int, n+1)
	for j := 0; j <= n; j++ {
		prev[j] = j
	}
	for i := 1; i <= len(s1); i++ {
		cur[0] = i
		for j := 1; j <= n; j++ {
			if s1[i-1] == s2[j-1] {
				cur[j] = prev[j-1]
				continue
			}
			min := prev[j-1] // substitution
			if prev[j] < min {
				min = prev[j] // deletion
			}
			if cur[j-1] < min {
				min = cur[j-1] // insertion
			}
			cur[j] = min + 1
		}
		prev, cur = cur, prev
	}
	return prev[n]
}

// LevenshteinWithin reports whether Levenshtein(s1, s2) <= maxDist.  For
// equal-length strings the Hamming distance is an upper bound on the edit
// distance, so most near matches are accepted without running the dynamic
// program.
func LevenshteinWithin(s1, s2 string, maxDist int) bool {
	if len(s1) != len(s2) {
		panic(fmt.Sprintf("s1 and s2 must have equal length: '%s', '%s'", s1, s2))
	}
	diff := 0
	for i := 0; i < len(s1); i++ {
		if s1[i] != s2[i] {
			diff++
		}
	}
	if diff <= maxDist {
		return true
	}
	return Levenshtein(s1, s2) <= maxDist
}
