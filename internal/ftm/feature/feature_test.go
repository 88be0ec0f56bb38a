package feature

import (
	"testing"

	"github.com/Aman-CERP/motiva/internal/ftm/model"
)

func searchEntity(schemaName string, props map[string][]string) *model.SearchEntity {
	return &model.SearchEntity{Schema: schemaName, Properties: props}
}

func entity(schemaName string, props map[string][]string) *model.Entity {
	return &model.Entity{Schema: schemaName, Properties: model.Properties{Strings: props}}
}

func TestNameLiteralMatch(t *testing.T) {
	q := searchEntity("Company", map[string][]string{"name": {"Acme Trading Ltd"}})
	r := entity("Company", map[string][]string{"name": {"ACME TRADING LTD"}})
	if got := NameLiteralMatch(q, r, &Scratch{}); got != 1 {
		t.Errorf("NameLiteralMatch = %v, want 1", got)
	}
	r2 := entity("Company", map[string][]string{"name": {"Globex Corp"}})
	if got := NameLiteralMatch(q, r2, &Scratch{}); got != 0 {
		t.Errorf("NameLiteralMatch for unrelated names = %v, want 0", got)
	}
}

func TestWeakAliasMatch(t *testing.T) {
	q := searchEntity("Company", map[string][]string{"name": {"IBM"}})
	r := entity("Company", map[string][]string{"weakAlias": {"ibm"}})
	if got := WeakAliasMatch(q, r, &Scratch{}); got != 1 {
		t.Errorf("WeakAliasMatch = %v, want 1", got)
	}
}

func TestCryptoWalletMatch(t *testing.T) {
	q := searchEntity("CryptoWallet", map[string][]string{"publicKey": {"1A1zP1eP5QGefi2DMPTfTL5SLmv7DivfNa"}})
	r := entity("CryptoWallet", map[string][]string{"publicKey": {"1A1zP1eP5QGefi2DMPTfTL5SLmv7DivfNa"}})
	if got := CryptoWalletMatch(q, r, &Scratch{}); got != 1 {
		t.Errorf("CryptoWalletMatch = %v, want 1", got)
	}
	other := entity("Company", map[string][]string{"publicKey": {"1A1zP1eP5QGefi2DMPTfTL5SLmv7DivfNa"}})
	if got := CryptoWalletMatch(q, other, &Scratch{}); got != 0 {
		t.Errorf("CryptoWalletMatch across schemas = %v, want 0 (gated)", got)
	}
}

// OGRNCodeMatch itself carries no spelling asymmetry: the ogrnCode/orgnCode
// typo is an orgid_mismatch concern (see TestOrgIDMismatchSkipsOnTypoSpelling
// below), not an identifier_match one. A candidate that only carries the
// typo spelling must NOT match.
func TestOGRNCodeMatchHasNoTypoAsymmetry(t *testing.T) {
	q := searchEntity("Organization", map[string][]string{"ogrnCode": {"1027700132194"}})
	rTypo := entity("Organization", map[string][]string{"orgnCode": {"1027700132194"}})
	if got := OGRNCodeMatch(q, rTypo, &Scratch{}); got != 0 {
		t.Errorf("OGRNCodeMatch against only the orgnCode typo spelling = %v, want 0", got)
	}
	rCorrect := entity("Organization", map[string][]string{"ogrnCode": {"1027700132194"}})
	if got := OGRNCodeMatch(q, rCorrect, &Scratch{}); got != 1 {
		t.Errorf("OGRNCodeMatch with matching spelling on both sides = %v, want 1", got)
	}
}

func TestIdentifierMatchRejectsInvalidValues(t *testing.T) {
	q := searchEntity("Organization", map[string][]string{"ogrnCode": {"not-a-valid-ogrn"}})
	r := entity("Organization", map[string][]string{"ogrnCode": {"not-a-valid-ogrn"}})
	if got := OGRNCodeMatch(q, r, &Scratch{}); got != 0 {
		t.Errorf("OGRNCodeMatch with invalid OGRN values = %v, want 0", got)
	}
}

// TestIdentifierMatchGathersAcrossPropertyType pins the spec §8 scenario 3
// fix directly: a candidate carrying the query's identifier value under a
// different property of the same FTM type (innCode instead of leiCode) must
// still match, because matchProperty gathers by schema-resolved type across
// the candidate's parent chain rather than by a fixed property name.
func TestIdentifierMatchGathersAcrossPropertyType(t *testing.T) {
	alwaysValid := func(string) bool { return true }
	feat := IdentifierMatch([]string{"leiCode"}, alwaysValid)

	q := searchEntity("Company", map[string][]string{"leiCode": {"529900T8BM49AURSDO55"}})
	r := entity("Company", map[string][]string{"innCode": {"529900T8BM49AURSDO55"}})
	if got := feat(q, r, &Scratch{}); got != 1 {
		t.Errorf("IdentifierMatch across leiCode (query) / innCode (candidate), same identifier type = %v, want 1", got)
	}

	rUnrelated := entity("Company", map[string][]string{"innCode": {"000000000000000000A1"}})
	if got := feat(q, rUnrelated, &Scratch{}); got != 0 {
		t.Errorf("IdentifierMatch across disjoint values of the same type = %v, want 0", got)
	}
}

// TestIdentifierMatchGenericPropertyList pins the full spread of properties
// the catch-all identifier_match feature must gather, per logic_v1.rs.
func TestIdentifierMatchGenericPropertyList(t *testing.T) {
	cases := []string{"registrationNumber", "taxNumber", "leiCode", "innCode", "bicCode", "ogrnCode", "imoNumber", "mmsi"}
	for _, prop := range cases {
		q := searchEntity("Company", map[string][]string{prop: {"SHARED-VALUE-1"}})
		r := entity("Company", map[string][]string{prop: {"SHARED-VALUE-1"}})
		if got := IdentifierMatchGeneric(q, r, &Scratch{}); got != 1 {
			t.Errorf("IdentifierMatchGeneric via property %q = %v, want 1", prop, got)
		}
	}
	q := searchEntity("Company", map[string][]string{"idNumber": {"SHARED-VALUE-1"}})
	r := entity("Company", map[string][]string{"idNumber": {"SHARED-VALUE-1"}})
	if got := IdentifierMatchGeneric(q, r, &Scratch{}); got != 0 {
		t.Errorf("IdentifierMatchGeneric via idNumber (not in the generic list) = %v, want 0", got)
	}
}

// TestOrgIDMismatchSkipsOnTypoSpelling pins the required ogrnCode(lhs)/
// orgnCode(rhs) spelling asymmetry: a candidate whose OGRN is stored under
// the typo spelling is not penalized (the values still line up once
// gathered), and a candidate that stores it under the correct spelling
// instead gathers nothing on that property and is also not penalized,
// matching the reference's short-circuit on an empty rhs gather.
func TestOrgIDMismatchSkipsOnTypoSpelling(t *testing.T) {
	q := searchEntity("Organization", map[string][]string{"ogrnCode": {"1027700132195"}})

	rTypo := entity("Organization", map[string][]string{"orgnCode": {"1027700132195"}})
	if got := OrgIDMismatch(q, rTypo, &Scratch{}); got != 0 {
		t.Errorf("OrgIDMismatch against the matching typo spelling = %v, want 0", got)
	}

	rCorrectSpellingDifferentValue := entity("Organization", map[string][]string{"ogrnCode": {"9999999999999"}})
	if got := OrgIDMismatch(q, rCorrectSpellingDifferentValue, &Scratch{}); got != 0 {
		t.Errorf("OrgIDMismatch against a candidate storing OGRN under the correct (non-typo) spelling = %v, want 0 (empty rhs gather)", got)
	}
}

// TestOrgIDMismatchUsesBICCodeProperty pins the swiftBic -> bicCode rename.
func TestOrgIDMismatchUsesBICCodeProperty(t *testing.T) {
	q := searchEntity("Organization", map[string][]string{"bicCode": {"DEUTDEFF"}})
	r := entity("Organization", map[string][]string{"bicCode": {"DEUTDEFF"}})
	if got := OrgIDMismatch(q, r, &Scratch{}); got != 0 {
		t.Errorf("OrgIDMismatch with matching bicCode values = %v, want 0", got)
	}
}

// TestOrgIDMismatchRawLevenshteinRatio pins the raw (uncapped) similarity
// ratio orgid_mismatch.rs uses: two 20-character ids differing in their
// last 3 characters have a raw ratio of 1 - 3/20 = 0.85, which clears the
// 0.7 threshold and must yield a partial (not full) penalty.
func TestOrgIDMismatchRawLevenshteinRatio(t *testing.T) {
	q := searchEntity("Organization", map[string][]string{"leiCode": {"529900T8BM49AURSDO55"}})
	r := entity("Organization", map[string][]string{"leiCode": {"529900T8BM49AURSDX99"}})
	got := OrgIDMismatch(q, r, &Scratch{})
	if got <= 0 || got >= 1 {
		t.Errorf("OrgIDMismatch for a near-miss identifier pair = %v, want a partial penalty in (0,1)", got)
	}
}

func TestSoundexNameParts(t *testing.T) {
	q := searchEntity("Person", map[string][]string{"name": {"Robert Smith"}})
	r := entity("Person", map[string][]string{"name": {"Rupert Smyth"}})
	got := SoundexNameParts(q, r, &Scratch{})
	if got <= 0 {
		t.Errorf("SoundexNameParts for phonetically similar names = %v, want > 0", got)
	}
}

func TestJaroNameParts(t *testing.T) {
	q := searchEntity("Person", map[string][]string{"name": {"Katherine"}})
	r := entity("Person", map[string][]string{"name": {"Katherine"}})
	if got := JaroNameParts(q, r, &Scratch{}); got != 1 {
		t.Errorf("JaroNameParts for identical tokens = %v, want 1", got)
	}
}

func TestAddressEntityMatchGatedBySchema(t *testing.T) {
	q := searchEntity("Address", map[string][]string{"full": {"1 Main Street, Springfield"}})
	r := entity("Address", map[string][]string{"full": {"1 Main St, Springfield"}})
	got := AddressEntityMatch(q, r, &Scratch{})
	if got < 0.5 {
		t.Errorf("AddressEntityMatch for near-identical addresses = %v, want >= 0.5", got)
	}
	notAddress := entity("Company", map[string][]string{"full": {"1 Main St, Springfield"}})
	if got := AddressEntityMatch(q, notAddress, &Scratch{}); got != 0 {
		t.Errorf("AddressEntityMatch against a non-Address candidate = %v, want 0 (gated)", got)
	}
}

func TestDOBYearDisjointNoSignalWithoutDates(t *testing.T) {
	q := searchEntity("Person", map[string][]string{"name": {"John Smith"}})
	r := entity("Person", map[string][]string{"name": {"John Smith"}})
	if got := DOBYearDisjoint(q, r, &Scratch{}); got != 0 {
		t.Errorf("DOBYearDisjoint with no dates on either side = %v, want 0", got)
	}
}

func TestDOBYearDisjointDetectsMismatch(t *testing.T) {
	q := searchEntity("Person", map[string][]string{"birthDate": {"1980-01-02"}})
	r := entity("Person", map[string][]string{"birthDate": {"1990-01-02"}})
	if got := DOBYearDisjoint(q, r, &Scratch{}); got != 1 {
		t.Errorf("DOBYearDisjoint across differing years = %v, want 1", got)
	}
}

func TestDOBDayDisjointFlippedDayMonth(t *testing.T) {
	q := searchEntity("Person", map[string][]string{"birthDate": {"1980-02-03"}})
	r := entity("Person", map[string][]string{"birthDate": {"1980-03-02"}})
	if got := DOBDayDisjoint(q, r, &Scratch{}); got != 0.5 {
		t.Errorf("DOBDayDisjoint for a day/month transposition = %v, want 0.5", got)
	}
}

func TestOrgIDMismatchRequiresBothOrganizations(t *testing.T) {
	q := searchEntity("Person", map[string][]string{"registrationNumber": {"123"}})
	r := entity("Person", map[string][]string{"registrationNumber": {"456"}})
	if got := OrgIDMismatch(q, r, &Scratch{}); got != 0 {
		t.Errorf("OrgIDMismatch for non-Organization schemas = %v, want 0 (gated)", got)
	}
}

func TestNumbersMismatch(t *testing.T) {
	q := searchEntity("Company", map[string][]string{"name": {"Acme 123"}})
	r := entity("Company", map[string][]string{"name": {"Acme 999"}})
	if got := NumbersMismatch(q, r, &Scratch{}); got != 1 {
		t.Errorf("NumbersMismatch across disjoint numbers = %v, want 1", got)
	}
}
