package extract

import "testing"

func TestCleanNamesDedupesAndLatinizes(t *testing.T) {
	got := CleanNames([]string{"José García", "jose garcia", "  Acme, Inc.  "})
	want := []string{"jose garcia", "acme inc"}
	if len(got) != len(want) {
		t.Fatalf("CleanNames() = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("CleanNames()[%d] = %q, want %q", i, got[i], want[i])
		}
	}
}

func TestCleanLiteralNamesIsIdempotent(t *testing.T) {
	once := CleanLiteralNames([]string{"Ivan Ivanov, LLC"})
	twice := CleanLiteralNames(once)
	if len(once) != len(twice) || once[0] != twice[0] {
		t.Fatalf("CleanLiteralNames not idempotent: %v vs %v", once, twice)
	}
}

func TestNormalizeIdentifiersUppercaseAlnum(t *testing.T) {
	got := NormalizeIdentifiers([]string{"1234-5678", "ab", "x"})
	if len(got) != 2 {
		t.Fatalf("expected single-char id dropped, got %v", got)
	}
	for _, id := range got {
		for _, r := range id {
			if !(r >= 'A' && r <= 'Z') && !(r >= '0' && r <= '9') {
				t.Errorf("NormalizeIdentifiers produced non-alnum-upper rune %q in %q", r, id)
			}
		}
	}
}

func TestFlipDateIsSelfInverse(t *testing.T) {
	d := "19850312"
	flipped := FlipDate(d)
	if flipped == d {
		t.Fatalf("FlipDate did not change %q", d)
	}
	if FlipDate(flipped) != d {
		t.Fatalf("FlipDate(FlipDate(%q)) = %q, want %q", d, FlipDate(flipped), d)
	}
	short := "1985"
	if FlipDate(short) != short {
		t.Errorf("FlipDate should be a no-op under 5 runes, got %q", FlipDate(short))
	}
}

func TestExtractNumbers(t *testing.T) {
	got := ExtractNumbers([]string{"IMO 9319466", "flag: none", "MMSI:123456789"})
	want := []string{"9319466", "123456789"}
	if len(got) != len(want) || got[0] != want[0] || got[1] != want[1] {
		t.Fatalf("ExtractNumbers() = %v, want %v", got, want)
	}
}

func TestIndexNameKeysMinLength(t *testing.T) {
	got := IndexNameKeys([]string{"Al Qaeda"})
	if len(got) != 1 {
		t.Fatalf("expected one key over 5 chars, got %v", got)
	}
	short := IndexNameKeys([]string{"Al Ba"})
	if len(short) != 0 {
		t.Fatalf("expected keys <=5 chars dropped, got %v", short)
	}
}

func TestNamePartsFlatDropsSingleCharTokens(t *testing.T) {
	got := NamePartsFlat([]string{"J R Smith"})
	for _, p := range got {
		if len([]rune(p)) <= 1 {
			t.Errorf("NamePartsFlat kept single-char token %q", p)
		}
	}
}

func TestPhoneticNameFiltersShortAndNonModern(t *testing.T) {
	got := PhoneticName([]string{"Smith", "Al", "北京"})
	if len(got) != 1 {
		t.Fatalf("expected exactly one phonetic token from a 3+ char modern-alphabet word, got %v", got)
	}
}

func TestMetaphoneKnownPairs(t *testing.T) {
	if Metaphone("Smith") != Metaphone("Smyth") {
		t.Errorf("Metaphone(Smith) = %q, Metaphone(Smyth) = %q, want equal", Metaphone("Smith"), Metaphone("Smyth"))
	}
	if Metaphone("") != "" {
		t.Errorf("Metaphone(\"\") = %q, want empty", Metaphone(""))
	}
}

func TestIsModernAlphabet(t *testing.T) {
	cases := map[string]bool{
		"Smith":  true,
		"Смит":   true,
		"Σμιθ":   true,
		"北京":     false,
		"":       true,
		"12345":  true,
	}
	for in, want := range cases {
		if got := IsModernAlphabet(in); got != want {
			t.Errorf("IsModernAlphabet(%q) = %v, want %v", in, got, want)
		}
	}
}
