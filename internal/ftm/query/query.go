// Package query builds a backend-agnostic StructuredQuery out of a
// SearchEntity and its MatchParams, per SPEC_FULL.md §4.H. The shape is
// intentionally index-neutral (schema/dataset/topic filters plus a set of
// "should" relevance clauses) so any backend implementing
// internal/index's Provider interface can translate it into its own
// native query — the same Provider-behind-an-interface split the teacher
// repo uses for its BM25Index backends (internal/store/types.go).
package query

import (
	"golang.org/x/text/unicode/norm"

	"github.com/Aman-CERP/motiva/internal/ftm/extract"
	"github.com/Aman-CERP/motiva/internal/ftm/model"
	"github.com/Aman-CERP/motiva/internal/ftm/schema"
)

// ClauseKind distinguishes the three relevance-clause shapes a backend
// must be able to translate.
type ClauseKind string

const (
	// KindFuzzyMatch is a fuzzy full-text match, operator AND, fuzziness AUTO.
	KindFuzzyMatch ClauseKind = "fuzzy_match"
	// KindTerm is an exact term match against a pre-tokenized field.
	KindTerm ClauseKind = "term"
	// KindMatch is a plain analyzed-text match.
	KindMatch ClauseKind = "match"
)

// Clause is one "should" relevance clause.
type Clause struct {
	Kind  ClauseKind
	Field string
	Value string
	Boost float64
}

// StructuredQuery is the fully-built, backend-agnostic query.
type StructuredQuery struct {
	// Schemas constrains the candidate's schema to this set (the query
	// schema's matchable chain union its descendants).
	Schemas []string
	// Datasets constrains the candidate's datasets to this set. Empty
	// means unconstrained (no scope/catalog information available).
	Datasets []string
	// Topics constrains the candidate's topics to this set, when present.
	Topics []string
	// Should holds the relevance clauses; at least one must match.
	Should []Clause
	// Size is the candidate_limit passed to the backend, already clamped
	// to [20, 9999].
	Size int
}

const (
	minCandidateLimit = 20
	maxCandidateLimit = 9999
)

func clampCandidateLimit(n int) int {
	if n < minCandidateLimit {
		return minCandidateLimit
	}
	if n > maxCandidateLimit {
		return maxCandidateLimit
	}
	return n
}

// propertyFieldMap maps a query property name to the index field its
// values are matched against when no dedicated clause type handles it.
var propertyFieldMap = map[string]string{
	"address":            "addresses",
	"full":               "addresses",
	"birthDate":          "dates",
	"country":            "countries",
	"registrationNumber": "identifiers",
}

func mappedField(prop string) string {
	if f, ok := propertyFieldMap[prop]; ok {
		return f
	}
	return "text"
}

// Build assembles a StructuredQuery for q under params. scopeDatasets is
// the catalog scope's child dataset list (internal/ftm/catalog resolves
// params.Scope to this list before calling Build; an empty slice means no
// dataset constraint is applied).
func Build(q *model.SearchEntity, params model.MatchParams, scopeDatasets []string) (*StructuredQuery, error) {
	schemas, err := schema.Default().ResolveSchemas(q.Schema, true)
	if err != nil {
		return nil, err
	}

	sq := &StructuredQuery{
		Schemas:  schemas,
		Datasets: datasetFilter(params, scopeDatasets),
		Topics:   append([]string(nil), params.Topics...),
		Size:     clampCandidateLimit(params.Limit * candidateFactor(params)),
	}

	names := q.Properties["name"]
	sq.Should = append(sq.Should, nameClauses(names)...)
	sq.Should = append(sq.Should, otherPropertyClauses(q)...)

	return sq, nil
}

func candidateFactor(params model.MatchParams) int {
	if params.CandidateFactor <= 0 {
		return model.DefaultMatchParams().CandidateFactor
	}
	return params.CandidateFactor
}

func datasetFilter(params model.MatchParams, scopeDatasets []string) []string {
	scope := make(map[string]struct{}, len(scopeDatasets))
	for _, d := range scopeDatasets {
		scope[d] = struct{}{}
	}

	base := scopeDatasets
	if len(params.IncludeDataset) > 0 {
		var intersected []string
		for _, d := range params.IncludeDataset {
			if _, ok := scope[d]; ok || len(scope) == 0 {
				intersected = append(intersected, d)
			}
		}
		base = intersected
	}

	if len(params.ExcludeDataset) == 0 {
		return base
	}
	excluded := make(map[string]struct{}, len(params.ExcludeDataset))
	for _, d := range params.ExcludeDataset {
		excluded[d] = struct{}{}
	}
	out := base[:0:0]
	for _, d := range base {
		if _, ok := excluded[d]; !ok {
			out = append(out, d)
		}
	}
	return out
}

func nameClauses(names []string) []Clause {
	var clauses []Clause
	for _, n := range names {
		normalized := norm.NFC.String(n)
		if normalized == "" {
			continue
		}
		clauses = append(clauses, Clause{Kind: KindFuzzyMatch, Field: "names", Value: normalized, Boost: 3.0})
	}
	for _, k := range extract.IndexNameKeys(names) {
		clauses = append(clauses, Clause{Kind: KindTerm, Field: "name_keys", Value: k, Boost: 4.0})
	}
	for _, p := range extract.NamePartsFlat(names) {
		clauses = append(clauses, Clause{Kind: KindTerm, Field: "name_parts", Value: p, Boost: 1.0})
	}
	for _, ph := range extract.PhoneticName(names) {
		clauses = append(clauses, Clause{Kind: KindTerm, Field: "name_phonetic", Value: ph, Boost: 0.8})
	}
	return clauses
}

func otherPropertyClauses(q *model.SearchEntity) []Clause {
	props, err := schema.Default().Properties(q.Schema)
	if err != nil {
		return nil
	}
	var clauses []Clause
	for name, values := range q.Properties {
		if name == "name" {
			continue
		}
		descriptor, ok := props[name]
		if !ok || !descriptor.Matchable {
			continue
		}
		field := mappedField(name)
		for _, v := range values {
			if v == "" {
				continue
			}
			clauses = append(clauses, Clause{Kind: KindMatch, Field: field, Value: v, Boost: 1.0})
		}
	}
	return clauses
}
