// Package feature implements the pure scoring functions consumed by the
// matching algorithms: each Feature maps a query/candidate pair to a
// score in [0,1] under a stable name, per SPEC_FULL.md §4.F.
package feature

import (
	"strings"

	"github.com/Aman-CERP/motiva/internal/ftm/extract"
	"github.com/Aman-CERP/motiva/internal/ftm/model"
	"github.com/Aman-CERP/motiva/internal/ftm/schema"
)

// Scratch is the per-candidate scratch arena threaded through every
// Feature call. Features never mutate SearchEntity or Entity; Scratch is
// the only place they may stash reusable buffers. It is reset (by
// zeroing Tokens) between candidates by the dispatcher, per SPEC_FULL.md
// §5's per-task-arena rule.
type Scratch struct {
	Tokens []string
}

// Reset clears scratch for reuse against the next candidate, keeping the
// underlying slice's capacity.
func (s *Scratch) Reset() {
	s.Tokens = s.Tokens[:0]
}

// Feature is a pure function over a query, a candidate, and a scratch
// arena, returning a score in [0,1].
type Feature func(q *model.SearchEntity, r *model.Entity, scratch *Scratch) float64

func isA(schemaName, other string) bool {
	return schema.Default().IsA(schemaName, other)
}

func eitherIsA(q *model.SearchEntity, r *model.Entity, other string) bool {
	return isA(q.Schema, other) || isA(r.Schema, other)
}

func bothAreA(q *model.SearchEntity, r *model.Entity, other string) bool {
	return isA(q.Schema, other) && isA(r.Schema, other)
}

func namesAndAliases(props map[string][]string) []string {
	out := append([]string(nil), props["name"]...)
	out = append(out, props["alias"]...)
	return out
}

// NameLiteralMatch is 1 if the clean literal forms of either side's
// name+alias set intersect, else 0.
func NameLiteralMatch(q *model.SearchEntity, r *model.Entity, _ *Scratch) float64 {
	lhs := extract.CleanLiteralNames(namesAndAliases(q.Properties))
	rhs := extract.CleanLiteralNames(namesAndAliases(r.Properties.Strings))
	for _, l := range lhs {
		for _, rr := range rhs {
			if l == rr {
				return 1
			}
		}
	}
	return 0
}

// WeakAliasMatch compares the query's name group against the candidate's
// weak aliases.
func WeakAliasMatch(q *model.SearchEntity, r *model.Entity, _ *Scratch) float64 {
	lhs := extract.CleanLiteralNames(namesAndAliases(q.Properties))
	rhs := extract.CleanLiteralNames(r.Properties.Strings["weakAlias"])
	for _, l := range lhs {
		for _, rr := range rhs {
			if l == rr {
				return 1
			}
		}
	}
	return 0
}

// CryptoWalletMatch is 1 if both sides are CryptoWallets and share an
// equal publicKey value longer than 10 characters.
func CryptoWalletMatch(q *model.SearchEntity, r *model.Entity, _ *Scratch) float64 {
	if !bothAreA(q, r, "CryptoWallet") {
		return 0
	}
	for _, l := range q.Property("publicKey") {
		if len(l) <= 10 {
			continue
		}
		for _, rr := range r.Property("publicKey") {
			if l == rr {
				return 1
			}
		}
	}
	return 0
}

// Extractor pulls a comparison set of strings out of a property bag.
type Extractor func(props map[string][]string) []string

func propExtractor(name string) Extractor {
	return func(props map[string][]string) []string { return props[name] }
}

// SimpleMatch is 1 if extractor(q), extractor(r) are both non-empty and
// not disjoint.
func SimpleMatch(name string, extractor Extractor) Feature {
	return func(q *model.SearchEntity, r *model.Entity, _ *Scratch) float64 {
		lhs := extractor(q.Properties)
		rhs := extractor(r.Properties.Strings)
		if len(lhs) == 0 || len(rhs) == 0 {
			return 0
		}
		for _, l := range lhs {
			for _, rr := range rhs {
				if strings.EqualFold(l, rr) {
					return 1
				}
			}
		}
		return 0
	}
}

// SimpleMismatch is a qualifier: 0 if either side is empty, else 1 when
// the extracted sets are disjoint.
func SimpleMismatch(name string, extractor Extractor) Feature {
	return func(q *model.SearchEntity, r *model.Entity, _ *Scratch) float64 {
		lhs := extractor(q.Properties)
		rhs := extractor(r.Properties.Strings)
		if len(lhs) == 0 || len(rhs) == 0 {
			return 0
		}
		if disjointFold(lhs, rhs) {
			return 1
		}
		return 0
	}
}

func disjointFold(lhs, rhs []string) bool {
	for _, l := range lhs {
		for _, r := range rhs {
			if strings.EqualFold(l, r) {
				return false
			}
		}
	}
	return true
}

// CountryMismatch and GenderMismatch are both SimpleMismatch instances
// over the corresponding raw property.
var (
	CountryDisjoint = SimpleMismatch("country", propExtractor("country"))
	CountryMismatch = CountryDisjoint
	GenderDisjoint  = SimpleMismatch("gender", propExtractor("gender"))
	GenderMismatch  = GenderDisjoint
)
