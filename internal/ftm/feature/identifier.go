package feature

import (
	"github.com/Aman-CERP/motiva/internal/ftm/compare"
	"github.com/Aman-CERP/motiva/internal/ftm/model"
	"github.com/Aman-CERP/motiva/internal/ftm/schema"
	"github.com/Aman-CERP/motiva/internal/ftm/validate"
)

// gatherRaw concatenates the named properties' raw values, with no
// normalization: identifier matching compares exact values, since
// normalization would blur the distinction the validator is there to draw.
func gatherRaw(props map[string][]string, names []string) []string {
	var out []string
	for _, n := range names {
		out = append(out, props[n]...)
	}
	return out
}

func filterValid(vals []string, validator func(string) bool) []string {
	if validator == nil {
		return vals
	}
	out := vals[:0:0]
	for _, v := range vals {
		if validator(v) {
			out = append(out, v)
		}
	}
	return out
}

func allValid(vals []string, validator func(string) bool) bool {
	if validator == nil {
		return true
	}
	for _, v := range vals {
		if !validator(v) {
			return false
		}
	}
	return true
}

// matchProperty checks one side of an identifier comparison: lhsRaw's raw
// values of property must be non-empty and (if validator is set) all pass
// validation; the property's FTM type is then looked up against
// schemaName, every sibling property of that same type is gathered from
// rhsRaw (filtered through validator), and the two sets are compared for a
// non-disjoint overlap. schemaName drives which side's schema decides the
// type family, so calling this twice with lhs/rhs swapped lets either
// side's schema resolve the property's type.
func matchProperty(schemaName string, lhsRaw, rhsRaw map[string][]string, property string, validator func(string) bool) bool {
	lhsValues := lhsRaw[property]
	if len(lhsValues) == 0 {
		return false
	}
	if !allValid(lhsValues, validator) {
		return false
	}

	typ, ok := schema.Default().PropertyType(schemaName, property)
	if !ok {
		return false
	}
	rhsProps := schema.Default().PropertiesOfType(schemaName, typ)
	rhsValues := filterValid(gatherRaw(rhsRaw, rhsProps), validator)

	return !compare.IsDisjoint(lhsValues, rhsValues)
}

// IdentifierMatch builds a schema-aware identifier-comparison feature: for
// each name in properties, it checks both orientations (the query's raw
// value of that property against every candidate property of the same FTM
// type per the query's own schema, and the symmetric check driven by the
// candidate's schema), returning 1 as soon as either orientation finds a
// non-disjoint, validator-passing overlap.
func IdentifierMatch(properties []string, validator func(string) bool) Feature {
	return func(q *model.SearchEntity, r *model.Entity, _ *Scratch) float64 {
		for _, property := range properties {
			if matchProperty(q.Schema, q.Properties, r.Properties.Strings, property, validator) {
				return 1
			}
			if matchProperty(r.Schema, r.Properties.Strings, q.Properties, property, validator) {
				return 1
			}
		}
		return 0
	}
}

// simpleMatch is the plain (non-schema-aware) identifier comparison used
// for identifier_match: gather the same fixed property list on both sides
// and check for any overlap, with no per-property type resolution.
func simpleMatch(properties []string) Feature {
	return func(q *model.SearchEntity, r *model.Entity, _ *Scratch) float64 {
		lhs := gatherRaw(q.Properties, properties)
		rhs := gatherRaw(r.Properties.Strings, properties)
		if len(lhs) == 0 || len(rhs) == 0 {
			return 0
		}
		if compare.IsDisjoint(lhs, rhs) {
			return 0
		}
		return 1
	}
}

var (
	// IdentifierMatchGeneric is the catch-all identifier_match feature: it
	// gathers the full spread of registration/tax/LEI/INN/BIC/OGRN/vessel
	// identifiers on both sides and checks for any raw overlap, with no
	// schema-type resolution and no validator.
	IdentifierMatchGeneric = simpleMatch([]string{
		"registrationNumber", "taxNumber", "leiCode", "innCode", "bicCode", "ogrnCode", "imoNumber", "mmsi",
	})
	// ISINSecurityMatch compares ISIN securities codes.
	ISINSecurityMatch = IdentifierMatch([]string{"isin"}, validate.ISIN)
	// LEICodeMatch compares LEI entity codes.
	LEICodeMatch = IdentifierMatch([]string{"leiCode"}, validate.LEI)
	// OGRNCodeMatch compares Russian OGRN codes.
	OGRNCodeMatch = IdentifierMatch([]string{"ogrnCode"}, validate.OGRN)
	// INNCodeMatch compares Russian INN codes.
	INNCodeMatch = IdentifierMatch([]string{"innCode"}, validate.INN)
	// BICCodeMatch compares SWIFT BIC codes.
	BICCodeMatch = IdentifierMatch([]string{"bicCode"}, validate.BIC)
	// VesselIMOMMSIMatch compares IMO and MMSI vessel identifiers together,
	// since datasets routinely carry one or the other for the same ship.
	VesselIMOMMSIMatch = IdentifierMatch(
		[]string{"imoNumber", "mmsi"},
		func(v string) bool { return validate.IMO(v) || validate.MMSI(v) },
	)
)
