package schema

import "testing"

func TestResolveSchemasThing(t *testing.T) {
	r := Default()
	chain, err := r.ResolveSchemas("Thing", true)
	if err != nil {
		t.Fatalf("ResolveSchemas(Thing) error: %v", err)
	}
	found := false
	for _, n := range chain {
		if n == "Thing" {
			found = true
		}
	}
	if !found {
		t.Errorf("ResolveSchemas(Thing) = %v, want it to contain Thing", chain)
	}
}

func TestResolveSchemasPersonMatchableChain(t *testing.T) {
	r := Default()
	s, err := r.Get("Person")
	if err != nil {
		t.Fatalf("Get(Person) error: %v", err)
	}
	want := map[string]bool{"Person": false, "LegalEntity": false, "Thing": false}
	for _, n := range s.MatchableChain {
		if _, ok := want[n]; ok {
			want[n] = true
		}
	}
	for n, ok := range want {
		if !ok {
			t.Errorf("Person.MatchableChain = %v, missing %q", s.MatchableChain, n)
		}
	}
}

func TestResolveSchemasRejectsNonMatchableRoot(t *testing.T) {
	r := Default()
	if _, err := r.ResolveSchemas("Interval", true); err == nil {
		t.Error("ResolveSchemas(Interval, true) = nil error, want ErrInvalidSchema (Interval is not matchable)")
	}
	if _, err := r.ResolveSchemas("Interval", false); err != nil {
		t.Errorf("ResolveSchemas(Interval, false) error = %v, want nil", err)
	}
}

func TestResolveSchemasUnknownName(t *testing.T) {
	r := Default()
	if _, err := r.ResolveSchemas("Nonexistent", true); err == nil {
		t.Error("ResolveSchemas(Nonexistent) = nil error, want ErrInvalidSchema")
	}
}

func TestIsA(t *testing.T) {
	r := Default()
	if !r.IsA("Person", "LegalEntity") {
		t.Error("IsA(Person, LegalEntity) = false, want true")
	}
	if !r.IsA("Person", "Person") {
		t.Error("IsA(Person, Person) = false, want true (self is always an ancestor)")
	}
	if r.IsA("Person", "Vessel") {
		t.Error("IsA(Person, Vessel) = true, want false")
	}
}

func TestPropertiesInheritsFromAncestors(t *testing.T) {
	r := Default()
	props, err := r.Properties("Company")
	if err != nil {
		t.Fatalf("Properties(Company) error: %v", err)
	}
	for _, want := range []string{"name", "jurisdiction", "registrationNumber"} {
		if _, ok := props[want]; !ok {
			t.Errorf("Properties(Company) missing inherited/own property %q", want)
		}
	}
}

func TestDescendantsIncludeTransitiveChildren(t *testing.T) {
	r := Default()
	s, err := r.Get("Thing")
	if err != nil {
		t.Fatalf("Get(Thing) error: %v", err)
	}
	foundCompany, foundPerson := false, false
	for _, d := range s.Descendants {
		switch d {
		case "Company":
			foundCompany = true
		case "Person":
			foundPerson = true
		}
	}
	if !foundCompany || !foundPerson {
		t.Errorf("Thing.Descendants = %v, want to include both Company and Person", s.Descendants)
	}
}
