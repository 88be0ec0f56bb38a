package symbols

import "testing"

func TestCategoryBoost(t *testing.T) {
	cases := []struct {
		cat   Category
		want  float64
		boost bool
	}{
		{CategoryNumeric, 1.4, true},
		{CategoryLocation, 1.1, true},
		{CategoryOrgClass, 0.7, true},
		{CategorySymbol, 0.8, true},
		{CategoryName, 0, false},
		{CategoryNick, 0, false},
	}
	for _, c := range cases {
		got, ok := c.cat.Boost()
		if ok != c.boost || got != c.want {
			t.Errorf("%s.Boost() = (%v, %v), want (%v, %v)", c.cat, got, ok, c.want, c.boost)
		}
	}
}

func TestTaggerTagsOrgClassOnTokenBoundary(t *testing.T) {
	tagger := OrgTagger()
	tokens := tagger.Tag("Acme Trading Ltd")

	found := false
	for _, tok := range tokens {
		if tok.Symbol != nil && tok.Symbol.Category == CategoryOrgClass {
			found = true
		}
	}
	if !found {
		t.Error("Tag(\"Acme Trading Ltd\") produced no ORGCLS symbol, want one for \"ltd\"")
	}
}

func TestTaggerIgnoresPartialWordMatch(t *testing.T) {
	tagger := OrgTagger()
	tokens := tagger.Tag("Saul Enterprises")

	for _, tok := range tokens {
		if tok.Symbol != nil && tok.Symbol.Category == CategoryOrgClass && tok.Text == "sa" {
			t.Errorf("Tag matched org-class pattern %q inside %q, want boundary-safe match only", tok.Text, "Saul")
		}
	}
}

func TestPersonTaggerTagsNicknameAndGivenName(t *testing.T) {
	tagger := PersonTagger()
	tokens := tagger.Tag("Bobby Ahmed")

	var sawNick, sawName bool
	for _, tok := range tokens {
		if tok.Symbol == nil {
			continue
		}
		switch tok.Symbol.Category {
		case CategoryNick:
			sawNick = true
		case CategoryName:
			sawName = true
		}
	}
	if !sawNick {
		t.Error("Tag(\"Bobby Ahmed\") produced no NICK symbol, want one for \"bobby\"")
	}
	if !sawName {
		t.Error("Tag(\"Bobby Ahmed\") produced no NAME symbol, want one for \"ahmed\"")
	}
}

func TestTagEmptyTextReturnsNil(t *testing.T) {
	tagger := PersonTagger()
	if got := tagger.Tag(""); got != nil {
		t.Errorf("Tag(\"\") = %v, want nil", got)
	}
}
