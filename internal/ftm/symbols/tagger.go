package symbols

import (
	"strings"
	"unicode"

	"github.com/Aman-CERP/motiva/internal/ftm/dictionary"
	"github.com/Aman-CERP/motiva/internal/ftm/extract"
)

// TaggedToken is one token produced by Tag: every input token is returned
// once with Symbol == nil, and again with Symbol set for each dictionary
// match whose span covers it.
type TaggedToken struct {
	Text   string
	Symbol *Symbol
}

// Tagger recognizes dictionary terms (person names, nicknames, org legal
// forms, and marker symbols) inside free text via a single
// multi-pattern automaton, matching only on whitespace-bounded spans.
type Tagger struct {
	automaton *dictionary.Automaton
	symbols   [][]Symbol
}

// NewTagger builds a Tagger from a pattern -> symbols mapping. Patterns
// that map to multiple symbols (e.g. a name that is both a given name and
// a nickname root) tag every symbol in the mapping's order.
func NewTagger(mapping map[string][]Symbol) *Tagger {
	patterns := make([]string, 0, len(mapping))
	symbolSets := make([][]Symbol, 0, len(mapping))
	for pattern, syms := range mapping {
		if pattern == "" {
			continue
		}
		patterns = append(patterns, pattern)
		symbolSets = append(symbolSets, syms)
	}
	return &Tagger{
		automaton: dictionary.NewAutomaton(patterns),
		symbols:   symbolSets,
	}
}

// Tag tokenizes text and returns every token, interleaved with a second
// entry per token for each dictionary symbol whose match spans exactly
// that token's whitespace-bounded extent.
func (t *Tagger) Tag(text string) []TaggedToken {
	tokens := extract.TokenizeNames([]string{text})
	if len(tokens) == 0 {
		return nil
	}

	var results []TaggedToken
	for _, tok := range tokens {
		results = append(results, TaggedToken{Text: extract.Latinize(tok)})
	}

	normalized := extract.Latinize(strings.Join(tokens, " "))

	for _, m := range t.automaton.FindAll(normalized) {
		matchedText := normalized[m.Start:m.End]
		if !isTokenBoundary(normalized, m.Start, m.End) {
			continue
		}
		for _, sym := range t.symbols[m.PatternID] {
			sym := sym
			results = append(results, TaggedToken{Text: matchedText, Symbol: &sym})
		}
	}

	return results
}

func isTokenBoundary(text string, start, end int) bool {
	startOK := start == 0 || unicode.IsSpace(lastRuneBefore(text, start))
	endOK := end == len(text) || unicode.IsSpace(firstRuneAt(text, end))
	return startOK && endOK
}

func lastRuneBefore(s string, idx int) rune {
	r := []rune(s[:idx])
	if len(r) == 0 {
		return ' '
	}
	return r[len(r)-1]
}

func firstRuneAt(s string, idx int) rune {
	r := []rune(s[idx:])
	if len(r) == 0 {
		return ' '
	}
	return r[0]
}
