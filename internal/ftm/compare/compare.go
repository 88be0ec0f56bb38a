// Package compare implements the low-level string and set comparers used
// by the feature matchers: disjointness, Levenshtein-based plausibility
// and similarity, phonetic-tuple comparison, and the bipartite greedy
// name-part aligner.
//
// No string-metrics library (Levenshtein, Jaro-Winkler) appears anywhere
// in the example pack, and these distances are the algorithmic heart of
// this service, so this package is a from-scratch, justified stdlib
// implementation (DESIGN.md), grounded algorithmically on
// crates/libmotiva/src/matching/comparers.rs.
package compare

import (
	"math"
	"sort"
	"strings"

	"github.com/Aman-CERP/motiva/internal/ftm/extract"
)

// IsDisjoint reports whether lhs and rhs share no common element.
func IsDisjoint(lhs, rhs []string) bool {
	if len(lhs) == 0 || len(rhs) == 0 {
		return true
	}
	small, big := lhs, rhs
	if len(small) > len(big) {
		small, big = big, small
	}
	if len(small)*len(big) <= 64 {
		for _, a := range small {
			for _, b := range big {
				if a == b {
					return false
				}
			}
		}
		return true
	}
	set := make(map[string]struct{}, len(small))
	for _, a := range small {
		set[a] = struct{}{}
	}
	for _, b := range big {
		if _, ok := set[b]; ok {
			return false
		}
	}
	return true
}

func minInt(a, b int) int {
	if a < b {
		return a
	}
	return b
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}

func effectiveMax(maxEdits, lhsLen, rhsLen int) int {
	return minInt(maxEdits, int(math.Ceil(0.2*float64(minInt(lhsLen, rhsLen)))))
}

// Levenshtein computes the edit distance between a and b.
func Levenshtein(a, b string) int {
	ra, rb := []rune(a), []rune(b)
	if len(ra) == 0 {
		return len(rb)
	}
	if len(rb) == 0 {
		return len(ra)
	}
	prev := make([]int, len(rb)+1)
	curr := make([]int, len(rb)+1)
	for j := range prev {
		prev[j] = j
	}
	for i := 1; i <= len(ra); i++ {
		curr[0] = i
		for j := 1; j <= len(rb); j++ {
			cost := 1
			if ra[i-1] == rb[j-1] {
				cost = 0
			}
			curr[j] = minInt(minInt(curr[j-1]+1, prev[j]+1), prev[j-1]+cost)
		}
		prev, curr = curr, prev
	}
	return prev[len(rb)]
}

// IsLevenshteinPlausible is true when lhs equals rhs, or their
// case-insensitive Levenshtein distance is within min(4, ceil(0.2*minLen)).
func IsLevenshteinPlausible(lhs, rhs string) bool {
	if lhs == rhs {
		return true
	}
	l, r := strings.ToLower(lhs), strings.ToLower(rhs)
	if l == r {
		return true
	}
	max := effectiveMax(4, len([]rune(l)), len([]rune(r)))
	return Levenshtein(l, r) <= max
}

// LevenshteinSimilarity returns a [0,1] similarity score: 0 for an empty
// input, 1 for equal strings, 0 when the length difference or edit
// distance exceeds effectiveMax(maxEdits, ...), else 1 - dist/maxLen.
func LevenshteinSimilarity(lhs, rhs string, maxEdits int) float64 {
	if lhs == "" || rhs == "" {
		return 0
	}
	if lhs == rhs {
		return 1
	}
	lhsLen, rhsLen := len([]rune(lhs)), len([]rune(rhs))
	eff := effectiveMax(maxEdits, lhsLen, rhsLen)
	if int(math.Abs(float64(lhsLen-rhsLen))) > eff {
		return 0
	}
	dist := Levenshtein(lhs, rhs)
	if dist > eff {
		return 0
	}
	return 1 - float64(dist)/float64(maxInt(lhsLen, rhsLen))
}

// DefaultLevenshteinSimilarity is LevenshteinSimilarity with maxEdits=4.
func DefaultLevenshteinSimilarity(lhs, rhs string) float64 {
	return LevenshteinSimilarity(lhs, rhs, 4)
}

// CompareNamePhoneticTuples compares two (token, phoneme) pairs: if
// either phoneme is absent, it falls back to an exact string comparison
// of the tokens; if both phonemes are present, it requires them to be
// equal AND the tokens to be Levenshtein-plausible.
func CompareNamePhoneticTuples(a, b extract.PhoneticTuple) bool {
	if a.Phoneme == "" || b.Phoneme == "" {
		return a.Token == b.Token
	}
	if a.Phoneme != b.Phoneme {
		return false
	}
	return IsLevenshteinPlausible(a.Token, b.Token)
}

// JaroWinkler computes the Jaro-Winkler similarity of a and b in [0,1].
func JaroWinkler(a, b string) float64 {
	ra, rb := []rune(a), []rune(b)
	la, lb := len(ra), len(rb)
	if la == 0 && lb == 0 {
		return 1
	}
	if la == 0 || lb == 0 {
		return 0
	}

	matchDist := maxInt(la, lb)/2 - 1
	if matchDist < 0 {
		matchDist = 0
	}

	aMatched := make([]bool, la)
	bMatched := make([]bool, lb)

	matches := 0
	for i := 0; i < la; i++ {
		start := maxInt(0, i-matchDist)
		end := minInt(i+matchDist+1, lb)
		for j := start; j < end; j++ {
			if bMatched[j] || ra[i] != rb[j] {
				continue
			}
			aMatched[i] = true
			bMatched[j] = true
			matches++
			break
		}
	}
	if matches == 0 {
		return 0
	}

	var transpositions int
	k := 0
	for i := 0; i < la; i++ {
		if !aMatched[i] {
			continue
		}
		for !bMatched[k] {
			k++
		}
		if ra[i] != rb[k] {
			transpositions++
		}
		k++
	}
	t := float64(transpositions) / 2

	m := float64(matches)
	jaro := (m/float64(la) + m/float64(lb) + (m-t)/m) / 3

	// Winkler prefix bonus: up to 4 matching leading characters, scale 0.1.
	prefix := 0
	for i := 0; i < minInt(4, minInt(la, lb)); i++ {
		if ra[i] != rb[i] {
			break
		}
		prefix++
	}
	return jaro + float64(prefix)*0.1*(1-jaro)
}

// pairCandidate is one (qToken, rToken) candidate for AlignNameParts.
type pairCandidate struct {
	q, r  string
	score float64
}

// AlignNameParts is a count-preserving bipartite greedy match between the
// tokens of q and r: candidate pairs with positive Jaro-Winkler similarity
// and Levenshtein plausibility are matched off in descending
// similarity order, each token consumed at most as many times as it
// occurs. If fewer pairs were matched than len(q), the alignment fails
// (score 0); otherwise the product of matched similarities is returned,
// gated by a final plausibility check on the reversed, joined token
// sequences.
func AlignNameParts(q, r []string) float64 {
	if len(q) == 0 {
		return 0
	}

	qCount := make(map[string]int)
	for _, t := range q {
		qCount[t]++
	}
	rCount := make(map[string]int)
	for _, t := range r {
		rCount[t]++
	}

	var candidates []pairCandidate
	seen := make(map[[2]string]struct{})
	for _, qt := range q {
		for _, rt := range r {
			key := [2]string{qt, rt}
			if _, ok := seen[key]; ok {
				continue
			}
			seen[key] = struct{}{}
			jw := JaroWinkler(qt, rt)
			if jw > 0 && IsLevenshteinPlausible(qt, rt) {
				candidates = append(candidates, pairCandidate{q: qt, r: rt, score: jw})
			}
		}
	}
	sort.SliceStable(candidates, func(i, j int) bool {
		return candidates[i].score > candidates[j].score
	})

	finalScore := 1.0
	var matchedQ, matchedR []string
	for _, c := range candidates {
		for qCount[c.q] > 0 && rCount[c.r] > 0 {
			qCount[c.q]--
			rCount[c.r]--
			finalScore *= c.score
			matchedQ = append(matchedQ, c.q)
			matchedR = append(matchedR, c.r)
		}
	}

	if len(matchedQ) < len(q) {
		return 0
	}

	reverse := func(s []string) []string {
		out := make([]string, len(s))
		for i, v := range s {
			out[len(s)-1-i] = v
		}
		return out
	}
	joinedQ := strings.Join(reverse(matchedQ), " ")
	joinedR := strings.Join(reverse(matchedR), " ")
	if !IsLevenshteinPlausible(joinedQ, joinedR) {
		return 0
	}
	return finalScore
}
