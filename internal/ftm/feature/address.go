package feature

import (
	"strings"

	"github.com/Aman-CERP/motiva/internal/ftm/compare"
	"github.com/Aman-CERP/motiva/internal/ftm/dictionary"
	"github.com/Aman-CERP/motiva/internal/ftm/extract"
	"github.com/Aman-CERP/motiva/internal/ftm/model"
)

func addressTokenSet(full string) map[string]struct{} {
	cleaned := extract.CleanAddressParts([]string{full})
	set := make(map[string]struct{})
	for _, c := range cleaned {
		normalized := dictionary.AddressForms().Replace(dictionary.Ordinals().Replace(c))
		for _, tok := range strings.Fields(normalized) {
			set[tok] = struct{}{}
		}
	}
	return set
}

func isSubset(a, b map[string]struct{}) bool {
	for k := range a {
		if _, ok := b[k]; !ok {
			return false
		}
	}
	return true
}

// AddressEntityMatch is gated to pairs where both sides are Addresses: it
// tokenizes each "full" value (after ordinal and address-form
// normalization) and compares token sets, returning 1 for a subset
// relationship in either direction, else a proportional overlap score
// weighted by the Levenshtein similarity of the non-overlapping remainder.
func AddressEntityMatch(q *model.SearchEntity, r *model.Entity, _ *Scratch) float64 {
	if !bothAreA(q, r, "Address") {
		return 0
	}
	qFulls := q.Property("full")
	rFulls := r.Property("full")

	best := 0.0
	for _, qf := range qFulls {
		qSet := addressTokenSet(qf)
		for _, rf := range rFulls {
			rSet := addressTokenSet(rf)
			best = maxF(best, compareAddressSets(qSet, rSet))
		}
	}
	return best
}

func compareAddressSets(qSet, rSet map[string]struct{}) float64 {
	if len(qSet) == 0 || len(rSet) == 0 {
		return 0
	}
	if isSubset(qSet, rSet) || isSubset(rSet, qSet) {
		return 1
	}

	overlap := 0
	var remainderQ, remainderR []string
	for tok := range qSet {
		if _, ok := rSet[tok]; ok {
			overlap++
		} else {
			remainderQ = append(remainderQ, tok)
		}
	}
	for tok := range rSet {
		if _, ok := qSet[tok]; !ok {
			remainderR = append(remainderR, tok)
		}
	}

	remainderLen := len(remainderQ)
	if len(remainderR) > remainderLen {
		remainderLen = len(remainderR)
	}
	if remainderLen == 0 {
		// qSet == rSet; the subset check above already covers this, kept
		// as a guard against dividing by zero below.
		return 1
	}

	sim := compare.LevenshteinSimilarity(strings.Join(remainderQ, " "), strings.Join(remainderR, " "), remainderLen)
	return (float64(overlap) + float64(remainderLen)*sim) / float64(remainderLen+overlap)
}
