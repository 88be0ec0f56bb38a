package feature

import (
	"math"
	"strings"

	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/Aman-CERP/motiva/internal/ftm/compare"
	"github.com/Aman-CERP/motiva/internal/ftm/dictionary"
	"github.com/Aman-CERP/motiva/internal/ftm/extract"
	"github.com/Aman-CERP/motiva/internal/ftm/model"
)

// fingerprintCacheSize bounds the per-process memoization cache below:
// the same candidate and query names repeat heavily across a batch of
// entities scored against one query, so caching the fingerprinted form
// avoids redoing the stopword/org-type replacement pass every time.
const fingerprintCacheSize = 8192

var fingerprintCache = mustNewFingerprintCache()

func mustNewFingerprintCache() *lru.Cache[string, string] {
	c, _ := lru.New[string, string](fingerprintCacheSize)
	return c
}

func maxF(vals ...float64) float64 {
	m := 0.0
	for _, v := range vals {
		if v > m {
			m = v
		}
	}
	return m
}

// PersonNameJaroWinkler is gated to pairs where either side is a Person:
// it compares every name-part group on each side and returns the best
// score, combining a length-damped Jaro-Winkler comparison of the joined
// groups with the bipartite token alignment from package compare.
func PersonNameJaroWinkler(q *model.SearchEntity, r *model.Entity, _ *Scratch) float64 {
	if !eitherIsA(q, r, "Person") {
		return 0
	}
	qGroups := extract.NameParts(namesAndAliases(q.Properties))
	rGroups := extract.NameParts(namesAndAliases(r.Properties.Strings))

	best := 0.0
	for _, qg := range qGroups {
		joinedQ := strings.Join(qg, " ")
		for _, rg := range rGroups {
			joinedR := strings.Join(rg, " ")
			candidate := 0.0
			if compare.IsLevenshteinPlausible(joinedQ, joinedR) {
				jw := compare.JaroWinkler(joinedQ, joinedR)
				candidate = math.Pow(jw, float64(len([]rune(joinedQ))))
			}
			candidate = maxF(candidate, compare.AlignNameParts(qg, rg))
			best = maxF(best, candidate)
		}
	}
	return best
}

func phoneticGroups(names []string) [][]extract.PhoneticTuple {
	cleaned := extract.CleanNames(names)
	groups := make([][]extract.PhoneticTuple, 0, len(cleaned))
	for _, n := range cleaned {
		groups = append(groups, extract.PhoneticNamesTuples([]string{n}))
	}
	return groups
}

// PersonNamePhoneticMatch is gated to pairs where either side is a
// Person: for every query name-group, it greedily consumes matching
// tokens in every candidate name-group (via compare.CompareNamePhoneticTuples)
// and returns the best match ratio found.
func PersonNamePhoneticMatch(q *model.SearchEntity, r *model.Entity, _ *Scratch) float64 {
	if !eitherIsA(q, r, "Person") {
		return 0
	}
	qGroups := phoneticGroups(namesAndAliases(q.Properties))
	rGroups := phoneticGroups(namesAndAliases(r.Properties.Strings))

	best := 0.0
	for _, qg := range qGroups {
		if len(qg) == 0 {
			continue
		}
		for _, rg := range rGroups {
			used := make([]bool, len(rg))
			matched := 0
			for _, qt := range qg {
				for i, rt := range rg {
					if used[i] {
						continue
					}
					if compare.CompareNamePhoneticTuples(qt, rt) {
						used[i] = true
						matched++
						break
					}
				}
			}
			score := float64(matched) / float64(len(qg))
			best = maxF(best, score)
		}
	}
	return best
}

func fingerprint(name string) string {
	if cached, ok := fingerprintCache.Get(name); ok {
		return cached
	}
	out := dictionary.OrgTypes().Replace(dictionary.Stopwords().Replace(name))
	fingerprintCache.Add(name, out)
	return out
}

func stripSpaces(s string) string {
	return strings.ReplaceAll(s, " ", "")
}

// NameFingerprintLevenshtein is gated to pairs where NEITHER side is a
// Person (organizations, vessels, addresses, assets): it compares every
// cleaned-name pair directly, after fingerprinting (stopword strip then
// org-type collapse) with and without spaces, and via token alignment,
// returning the best score found.
func NameFingerprintLevenshtein(q *model.SearchEntity, r *model.Entity, _ *Scratch) float64 {
	if eitherIsA(q, r, "Person") {
		return 0
	}
	qNames := filterMinLen(extract.CleanNames(namesAndAliases(q.Properties)), 2)
	rNames := filterMinLen(extract.CleanNames(namesAndAliases(r.Properties.Strings)), 2)

	best := 0.0
	for _, qn := range qNames {
		fq := fingerprint(qn)
		for _, rn := range rNames {
			fr := fingerprint(rn)
			candidate := maxF(
				compare.DefaultLevenshteinSimilarity(qn, rn),
				compare.DefaultLevenshteinSimilarity(fq, fr),
				compare.DefaultLevenshteinSimilarity(stripSpaces(fq), stripSpaces(fr)),
				compare.AlignNameParts(strings.Fields(fq), strings.Fields(fr)),
			)
			best = maxF(best, candidate)
		}
	}
	return best
}

func filterMinLen(vals []string, minLen int) []string {
	out := vals[:0:0]
	for _, v := range vals {
		if len([]rune(v)) >= minLen {
			out = append(out, v)
		}
	}
	return out
}

// SoundexNameParts averages, over every query name part, whether its
// Soundex encoding appears among the candidate's name parts' encodings.
func SoundexNameParts(q *model.SearchEntity, r *model.Entity, _ *Scratch) float64 {
	qParts := extract.NamePartsFlat(namesAndAliases(q.Properties))
	if len(qParts) == 0 {
		return 0
	}
	rParts := extract.NamePartsFlat(namesAndAliases(r.Properties.Strings))
	rSoundex := make(map[string]struct{}, len(rParts))
	for _, p := range rParts {
		rSoundex[extract.Soundex(p)] = struct{}{}
	}
	matched := 0
	for _, p := range qParts {
		if _, ok := rSoundex[extract.Soundex(p)]; ok {
			matched++
		}
	}
	return float64(matched) / float64(len(qParts))
}

// JaroNameParts averages, over every query name part, the best
// Jaro-Winkler similarity found among the candidate's name parts: only
// scores above 0.6 count, at full value; anything at or below 0.6 counts
// as 0.
func JaroNameParts(q *model.SearchEntity, r *model.Entity, _ *Scratch) float64 {
	qParts := extract.NamePartsFlat(namesAndAliases(q.Properties))
	if len(qParts) == 0 {
		return 0
	}
	rParts := extract.NamePartsFlat(namesAndAliases(r.Properties.Strings))

	sum := 0.0
	for _, qp := range qParts {
		best := 0.0
		for _, rp := range rParts {
			best = maxF(best, compare.JaroWinkler(qp, rp))
		}
		if best > 0.6 {
			sum += best
		}
	}
	return sum / float64(len(qParts))
}
