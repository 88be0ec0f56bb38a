package algorithm

import (
	"testing"

	"github.com/Aman-CERP/motiva/internal/ftm/feature"
	"github.com/Aman-CERP/motiva/internal/ftm/model"
)

func newScratch() *feature.Scratch { return &feature.Scratch{} }

func TestByName(t *testing.T) {
	for _, name := range []string{model.AlgorithmNameBased, model.AlgorithmNameQualified, model.AlgorithmLogicV1} {
		if _, ok := ByName(name); !ok {
			t.Errorf("ByName(%q) not found", name)
		}
	}
	if _, ok := ByName("bogus"); ok {
		t.Error("ByName(bogus) = true, want false")
	}
}

func TestLogicV1SchemaGate(t *testing.T) {
	q := &model.SearchEntity{Schema: "Person", Properties: map[string][]string{"name": {"John Smith"}}}
	r := &model.Entity{Schema: "Vessel", Properties: model.Properties{Strings: map[string][]string{"name": {"John Smith"}}}}
	score, trace := LogicV1.Score(q, r, newScratch(), 0.5)
	if score != 0 || trace != nil {
		t.Errorf("LogicV1.Score across incompatible schemas = (%v, %v), want (0, nil)", score, trace)
	}
}

func TestLogicV1ExactNameMatchScoresHigh(t *testing.T) {
	q := &model.SearchEntity{Schema: "Company", Properties: map[string][]string{"name": {"Acme Trading Ltd"}}}
	r := &model.Entity{Schema: "Company", Properties: model.Properties{Strings: map[string][]string{"name": {"Acme Trading Ltd"}}}}
	score, trace := LogicV1.Score(q, r, newScratch(), 0.5)
	if score < 0.9 {
		t.Errorf("LogicV1.Score for an identical company name = %v, want >= 0.9", score)
	}
	foundLiteral := false
	for _, f := range trace {
		if f.Name == "name_literal_match" && f.Score == 1 {
			foundLiteral = true
		}
	}
	if !foundLiteral {
		t.Errorf("trace %v missing a positive name_literal_match entry", trace)
	}
}

func TestLogicV1UnrelatedEntitiesScoreLow(t *testing.T) {
	q := &model.SearchEntity{Schema: "Person", Properties: map[string][]string{"name": {"John Smith"}}}
	r := &model.Entity{Schema: "Person", Properties: model.Properties{Strings: map[string][]string{"name": {"Zara Quixote"}}}}
	score, _ := LogicV1.Score(q, r, newScratch(), 0.5)
	if score > 0.3 {
		t.Errorf("LogicV1.Score for unrelated names = %v, want a low score", score)
	}
}

func TestNameBasedHasNoQualifiers(t *testing.T) {
	if len(NameBased.qualifiers) != 0 {
		t.Errorf("NameBased has %d qualifiers, want 0", len(NameBased.qualifiers))
	}
}

// The tests below pin the concrete end-to-end scenarios named in
// SPEC_FULL.md §8. Scenario 3's OGRN value ("2022200525818") is replaced
// with a checksum-valid one ("2022200525814") since the former does not
// satisfy the OGRN check-digit formula the spec itself defines; everything
// else about the scenario (schema, LEI value, cross-property-type gather,
// expected score) matches verbatim.

func TestScenario1IdenticalPersonNames(t *testing.T) {
	q := &model.SearchEntity{Schema: "Person", Properties: map[string][]string{"name": {"Vladimir Putin"}}}
	r := &model.Entity{Schema: "Person", Properties: model.Properties{Strings: map[string][]string{"name": {"Vladimir Putin"}}}}

	nameBasedScore, _ := NameBased.Score(q, r, newScratch(), 0)
	if nameBasedScore != 1 {
		t.Errorf("NameBased.Score for identical person names = %v, want 1.0", nameBasedScore)
	}
	logicV1Score, _ := LogicV1.Score(q, r, newScratch(), 0.5)
	if logicV1Score != 1 {
		t.Errorf("LogicV1.Score for identical person names = %v, want 1.0", logicV1Score)
	}
}

func TestScenario2NoisyNameVariants(t *testing.T) {
	q := &model.SearchEntity{Schema: "Person", Properties: map[string][]string{"name": {"Vladimir Bob Putain"}}}
	r := &model.Entity{Schema: "Person", Properties: model.Properties{Strings: map[string][]string{
		"name": {
			"PUTIN vladimir vladimirovich",
			"PUTIN, Vladimir Vladimirovich",
			"Владимир Путин",
			"Vladymyr Bob Phutain",
		},
	}}}

	score, trace := LogicV1.Score(q, r, newScratch(), 0)
	if score < 0.5 || score > 0.9 {
		t.Errorf("LogicV1.Score for noisy Putin name variants = %v, want roughly 0.72 (allowing for tolerance)", score)
	}
	var sawJaroWinkler, sawPhonetic bool
	for _, f := range trace {
		if f.Name == "person_name_jaro_winkler" && f.Score > 0 {
			sawJaroWinkler = true
		}
		if f.Name == "person_name_phonetic_match" && f.Score > 0 {
			sawPhonetic = true
		}
	}
	if !sawJaroWinkler {
		t.Errorf("trace %v missing a positive person_name_jaro_winkler entry", trace)
	}
	if !sawPhonetic {
		t.Errorf("trace %v missing a positive person_name_phonetic_match entry", trace)
	}
}

func TestScenario3CompanyIdentifiersAcrossPropertyTypes(t *testing.T) {
	q := &model.SearchEntity{Schema: "Company", Properties: map[string][]string{
		"name":     {"Google LLC"},
		"leiCode":  {"529900T8BM49AURSDO55"},
		"ogrnCode": {"2022200525814"},
	}}
	r := &model.Entity{Schema: "Company", Properties: model.Properties{Strings: map[string][]string{
		"name":    {"Gogole LIMITED LIABILITY COMPANY"},
		"leiCode": {"LEI1234"},
		"innCode": {"529900T8BM49AURSDO55", "2022200525814"},
	}}}

	score, trace := LogicV1.Score(q, r, newScratch(), 0)
	if score != 0.95 {
		t.Errorf("LogicV1.Score for the Google LLC LEI/OGRN scenario = %v, want 0.95", score)
	}
	want := map[string]float64{"lei_code_match": 1, "ogrn_code_match": 1}
	for _, f := range trace {
		if exp, ok := want[f.Name]; ok && f.Score != exp {
			t.Errorf("trace feature %q = %v, want %v", f.Name, f.Score, exp)
		}
	}
}

func TestScenario4VesselIMOMMSICrossMatch(t *testing.T) {
	q := &model.SearchEntity{Schema: "Vessel", Properties: map[string][]string{"mmsi": {"366123456"}}}
	r := &model.Entity{Schema: "Vessel", Properties: model.Properties{Strings: map[string][]string{"imoNumber": {"366123456"}}}}

	score, trace := LogicV1.Score(q, r, newScratch(), 0)
	if score != 0.95 {
		t.Errorf("LogicV1.Score for the Vessel MMSI/IMO cross-match scenario = %v, want 0.95", score)
	}
	found := false
	for _, f := range trace {
		if f.Name == "vessel_imo_mmsi_match" {
			found = true
			if f.Score != 1 {
				t.Errorf("vessel_imo_mmsi_match = %v, want 1.0", f.Score)
			}
		}
	}
	if !found {
		t.Errorf("trace %v missing vessel_imo_mmsi_match", trace)
	}
}

func TestScenario5AddressFuzzyMatch(t *testing.T) {
	q := &model.SearchEntity{Schema: "Address", Properties: map[string][]string{
		"full": {"No.3, New York avenue, 103-222, New York City"},
	}}
	r := &model.Entity{Schema: "Address", Properties: model.Properties{Strings: map[string][]string{
		"full": {"3 New York ave, 103222, New York City"},
	}}}

	score, trace := LogicV1.Score(q, r, newScratch(), 0)
	if score < 0.7 {
		t.Errorf("LogicV1.Score for the fuzzy address scenario = %v, want roughly 0.9 (allowing for tolerance)", score)
	}
	found := false
	for _, f := range trace {
		if f.Name == "address_entity_match" {
			found = true
			if f.Score < 0.7 {
				t.Errorf("address_entity_match = %v, want roughly 0.9", f.Score)
			}
		}
	}
	if !found {
		t.Errorf("trace %v missing address_entity_match", trace)
	}
}

func TestScenario6AllQualifiersFireNearZero(t *testing.T) {
	q := &model.SearchEntity{Schema: "Person", Properties: map[string][]string{
		"name":      {"Vladimir Putin"},
		"birthDate": {"1982-07-10"},
		"gender":    {"female"},
		"country":   {"fr"},
	}}
	r := &model.Entity{Schema: "Person", Properties: model.Properties{Strings: map[string][]string{
		"name":      {"Fladymir Poutin"},
		"birthDate": {"1952-10-07"},
		"gender":    {"male"},
		"country":   {"ru"},
	}}}

	// cutoff 0 forces every qualifier to run instead of short-circuiting
	// once the score drops below a search threshold, so all four mismatches
	// actually apply for this assertion.
	score, trace := NameQualified.Score(q, r, newScratch(), 0)
	if score > 0.3 {
		t.Errorf("NameQualified.Score with country/DOB/gender all mismatched = %v, want near 0", score)
	}
	want := map[string]float64{
		"country_disjoint":  1,
		"dob_year_disjoint": 1,
		"gender_disjoint":   1,
	}
	for _, f := range trace {
		if exp, ok := want[f.Name]; ok && f.Score != exp {
			t.Errorf("trace feature %q = %v, want %v", f.Name, f.Score, exp)
		}
	}
}
