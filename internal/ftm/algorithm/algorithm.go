// Package algorithm implements the three scoring pipelines named in
// SPEC_FULL.md §4.G: NameBased, NameQualified, and LogicV1. Each is a
// fixed ordered list of weighted features followed by weighted
// qualifiers, combined into a single clamped [0,1] score plus a trace of
// every feature that actually fired.
//
// LogicV1's "max of weighted features, then additive qualifiers" shape
// is grounded on the reciprocal-rank-fusion combinator the teacher used
// for hybrid search result merging: both pick a single best signal out
// of many candidate signals rather than summing them, which is why
// LogicV1's weighted() step takes the max instead of a sum.
package algorithm

import (
	"github.com/Aman-CERP/motiva/internal/ftm/feature"
	"github.com/Aman-CERP/motiva/internal/ftm/model"
	"github.com/Aman-CERP/motiva/internal/ftm/schema"
)

// weighted pairs a Feature with its algorithm weight. Positive weights
// are scoring features; negative weights are qualifiers.
type weighted struct {
	name    string
	feature feature.Feature
	weight  float64
}

// Algorithm scores a query/candidate pair and returns the final clamped
// score plus the trace of every feature invoked (raw, unweighted scores).
type Algorithm struct {
	name       string
	features   []weighted
	qualifiers []weighted
	combine    func(scores []float64) float64
}

// Name returns the algorithm's query-string identifier.
func (a *Algorithm) Name() string { return a.name }

func sumCombine(scores []float64) float64 {
	sum := 0.0
	for _, s := range scores {
		sum += s
	}
	return sum
}

func maxCombine(scores []float64) float64 {
	m := 0.0
	for _, s := range scores {
		if s > m {
			m = s
		}
	}
	return m
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

// Score runs the algorithm against a query/candidate pair, gated first by
// schema compatibility (the candidate must be an instance of the query's
// schema): failing the gate returns a zero score and an empty trace.
func (a *Algorithm) Score(q *model.SearchEntity, r *model.Entity, scratch *feature.Scratch, cutoff float64) (float64, []model.FeatureScore) {
	if !schema.Default().IsA(r.Schema, q.Schema) {
		return 0, nil
	}

	var trace []model.FeatureScore
	var positiveScores []float64
	for _, w := range a.features {
		raw := w.feature(q, r, scratch)
		trace = append(trace, model.FeatureScore{Name: w.name, Score: raw})
		positiveScores = append(positiveScores, raw*w.weight)
	}

	score := a.combine(positiveScores)

	for _, w := range a.qualifiers {
		if score < cutoff {
			// Negative-weight qualifiers can only lower the score further;
			// once we're already below cutoff the candidate is dead, so
			// skip the remaining qualifier evaluations.
			break
		}
		raw := w.feature(q, r, scratch)
		trace = append(trace, model.FeatureScore{Name: w.name, Score: raw})
		score += raw * w.weight
	}

	return clamp01(score), trace
}

// NameBased is the simplest algorithm: soundex and Jaro-Winkler name-part
// overlap, summed and clamped, with no qualifiers.
var NameBased = &Algorithm{
	name: model.AlgorithmNameBased,
	features: []weighted{
		{"soundex_name_parts", feature.SoundexNameParts, 0.5},
		{"jaro_name_parts", feature.JaroNameParts, 0.5},
	},
	combine: sumCombine,
}

// NameQualified adds country/DOB/gender/org-id qualifiers on top of
// NameBased's two features.
var NameQualified = &Algorithm{
	name: model.AlgorithmNameQualified,
	features: []weighted{
		{"soundex_name_parts", feature.SoundexNameParts, 0.5},
		{"jaro_name_parts", feature.JaroNameParts, 0.5},
	},
	qualifiers: []weighted{
		{"country_disjoint", feature.CountryDisjoint, -0.1},
		{"dob_year_disjoint", feature.DOBYearDisjoint, -0.1},
		{"dob_day_disjoint", feature.DOBDayDisjoint, -0.15},
		{"gender_disjoint", feature.GenderDisjoint, -0.1},
		{"orgid_mismatch", feature.OrgIDMismatch, -0.1},
	},
	combine: sumCombine,
}

// LogicV1 is the default algorithm: the best single weighted feature
// signal, then additive qualifiers.
var LogicV1 = &Algorithm{
	name: model.AlgorithmLogicV1,
	features: []weighted{
		{"name_literal_match", feature.NameLiteralMatch, 1.0},
		{"person_name_jaro_winkler", feature.PersonNameJaroWinkler, 0.8},
		{"person_name_phonetic_match", feature.PersonNamePhoneticMatch, 0.9},
		{"name_fingerprint_levenshtein", feature.NameFingerprintLevenshtein, 0.9},
		{"address_entity_match", feature.AddressEntityMatch, 0.98},
		{"crypto_wallet_match", feature.CryptoWalletMatch, 0.98},
		{"isin_security_match", feature.ISINSecurityMatch, 0.98},
		{"lei_code_match", feature.LEICodeMatch, 0.95},
		{"ogrn_code_match", feature.OGRNCodeMatch, 0.95},
		{"vessel_imo_mmsi_match", feature.VesselIMOMMSIMatch, 0.95},
		{"inn_code_match", feature.INNCodeMatch, 0.95},
		{"bic_code_match", feature.BICCodeMatch, 0.95},
		{"identifier_match", feature.IdentifierMatchGeneric, 0.85},
		{"weak_alias_match", feature.WeakAliasMatch, 0.8},
	},
	qualifiers: []weighted{
		{"country_mismatch", feature.CountryMismatch, -0.2},
		{"last_name_mismatch", feature.LastNameMismatch, -0.2},
		{"dob_year_disjoint", feature.DOBYearDisjoint, -0.15},
		{"dob_day_disjoint", feature.DOBDayDisjoint, -0.2},
		{"gender_mismatch", feature.GenderMismatch, -0.2},
		{"orgid_mismatch", feature.OrgIDMismatch, -0.2},
		{"numbers_mismatch", feature.NumbersMismatch, -0.1},
	},
	combine: maxCombine,
}

// ByName resolves an algorithm by its query-string identifier.
func ByName(name string) (*Algorithm, bool) {
	switch name {
	case model.AlgorithmNameBased:
		return NameBased, true
	case model.AlgorithmNameQualified:
		return NameQualified, true
	case model.AlgorithmLogicV1:
		return LogicV1, true
	default:
		return nil, false
	}
}
