package extract

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// latinizer strips nonspacing marks after NFKD decomposition, the same
// "Any-Latin; NFKD; [:Nonspacing Mark:] Remove; ...; Latin-ASCII" shape the
// reference pipeline uses (SPEC_FULL.md §4.C), minus the full ICU
// Any-Latin script transliteration step: this Go port relies on NFKD
// decomposing precomposed Latin-script letters (á, ü, ş, …) into a base
// Latin letter plus combining marks, which covers the accented-Latin case
// exactly. Non-Latin scripts (Cyrillic, Greek, Armenian, …) are left as-is
// by this reduced pipeline; phonetic_name and friends gate those through
// IsModernAlphabet instead of relying on latinization to romanize them.
var latinizer = transform.Chain(norm.NFKD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)

// Latinize returns value unchanged if it is pure ASCII, otherwise applies
// NFKD decomposition and strips nonspacing marks.
func Latinize(value string) string {
	if isASCII(value) {
		return value
	}
	out, _, err := transform.String(latinizer, value)
	if err != nil {
		return value
	}
	return out
}

func isASCII(s string) bool {
	for i := 0; i < len(s); i++ {
		if s[i] >= utf8RuneSelf {
			return false
		}
	}
	return true
}

const utf8RuneSelf = 0x80

// IsModernAlphabet reports whether s is composed of Latin, Greek,
// Armenian, or Cyrillic code points (ignoring non-letters). A string with
// no recognized letters at all is treated as modern, per SPEC_FULL.md §4.C
// ("undetectable ⇒ modern").
func IsModernAlphabet(s string) bool {
	for _, r := range s {
		if !unicode.IsLetter(r) {
			continue
		}
		switch {
		case unicode.Is(unicode.Latin, r),
			unicode.Is(unicode.Greek, r),
			unicode.Is(unicode.Armenian, r),
			unicode.Is(unicode.Cyrillic, r):
			continue
		default:
			return false
		}
	}
	return true
}

// normalizeToken lowercases a token, latinizing it first when it is a
// modern-alphabet token (the "latinize-lower if modern alphabet else
// lower" rule used by index_name_keys and index_name_parts).
func normalizeToken(tok string) string {
	if IsModernAlphabet(tok) {
		return strings.ToLower(Latinize(tok))
	}
	return strings.ToLower(tok)
}
