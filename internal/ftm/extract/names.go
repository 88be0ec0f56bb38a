// Package extract implements the text-normalization pipeline shared by the
// query builder, comparers, and feature matchers: tokenizing names and
// addresses, latinizing and cleaning them, deriving phonetic and identifier
// keys, and pulling structured fragments (numbers, dates) out of free text.
package extract

import (
	"regexp"
	"sort"
	"strings"
	"unicode"
)

var wordSplitRe = regexp.MustCompile(`[\s\-]+`)

// TokenizeNames splits each name on whitespace or hyphen runs.
func TokenizeNames(names []string) []string {
	var out []string
	for _, n := range names {
		for _, tok := range wordSplitRe.Split(n, -1) {
			if tok != "" {
				out = append(out, tok)
			}
		}
	}
	return out
}

func isAlnumOrSpace(r rune) bool {
	return unicode.IsLetter(r) || unicode.IsDigit(r) || unicode.IsSpace(r)
}

func keepAlnumSpace(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		if isAlnumOrSpace(r) {
			b.WriteRune(r)
		}
	}
	return b.String()
}

func keepAlnum(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			b.WriteRune(r)
		}
	}
	return b.String()
}

func collapseSpace(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

func dedupe(vals []string) []string {
	seen := make(map[string]struct{}, len(vals))
	out := make([]string, 0, len(vals))
	for _, v := range vals {
		if v == "" {
			continue
		}
		if _, ok := seen[v]; ok {
			continue
		}
		seen[v] = struct{}{}
		out = append(out, v)
	}
	return out
}

// CleanNames latinizes, lowercases, splits on whitespace/hyphen, strips
// everything but alphanumerics and whitespace, collapses runs of
// whitespace, and dedupes.
func CleanNames(names []string) []string {
	out := make([]string, 0, len(names))
	for _, n := range names {
		cleaned := collapseSpace(keepAlnumSpace(strings.ReplaceAll(strings.ToLower(Latinize(n)), "-", " ")))
		if cleaned != "" {
			out = append(out, cleaned)
		}
	}
	return dedupe(out)
}

// NormalizeIdentifiers latinizes, keeps only alphanumerics, uppercases,
// drops anything shorter than two characters, and dedupes. Used for
// registration numbers, IMO/MMSI codes, and similar identifiers.
func NormalizeIdentifiers(ids []string) []string {
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		cleaned := strings.ToUpper(keepAlnum(Latinize(id)))
		if len([]rune(cleaned)) >= 2 {
			out = append(out, cleaned)
		}
	}
	return dedupe(out)
}

// CleanLiteralNames lowercases and keeps alphanumerics and whitespace,
// without latinizing — used where accidental cross-script coincidences
// should not be treated as the same literal name.
func CleanLiteralNames(names []string) []string {
	out := make([]string, 0, len(names))
	for _, n := range names {
		cleaned := collapseSpace(keepAlnumSpace(strings.ToLower(n)))
		if cleaned != "" {
			out = append(out, cleaned)
		}
	}
	return dedupe(out)
}

func nonAlnumToSpace(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			b.WriteRune(r)
		} else {
			b.WriteRune(' ')
		}
	}
	return b.String()
}

// CleanAddressParts latinizes, lowercases, turns non-alphanumeric runs
// into spaces, collapses whitespace, and dedupes.
func CleanAddressParts(names []string) []string {
	out := make([]string, 0, len(names))
	for _, n := range names {
		cleaned := collapseSpace(nonAlnumToSpace(strings.ToLower(Latinize(n))))
		if cleaned != "" {
			out = append(out, cleaned)
		}
	}
	return dedupe(out)
}

// TokenizeCleanNames tokenizes on whitespace, then latinizes, lowercases,
// and strips non-alphanumerics from each token, keeping tokens with
// length >= 2, and dedupes.
func TokenizeCleanNames(names []string) []string {
	var out []string
	for _, tok := range TokenizeNames(names) {
		cleaned := keepAlnum(strings.ToLower(Latinize(tok)))
		if len([]rune(cleaned)) >= 2 {
			out = append(out, cleaned)
		}
	}
	return dedupe(out)
}

// IndexNameKeys tokenizes names, normalizes each token (latinize-lower if
// modern alphabet, else plain lower), sorts the tokens of each name
// alphabetically, concatenates them without a separator, and keeps keys
// longer than five characters.
func IndexNameKeys(names []string) []string {
	var out []string
	for _, n := range names {
		toks := wordSplitRe.Split(n, -1)
		normalized := make([]string, 0, len(toks))
		for _, t := range toks {
			if t == "" {
				continue
			}
			normalized = append(normalized, normalizeToken(t))
		}
		sort.Strings(normalized)
		key := strings.Join(normalized, "")
		if len([]rune(key)) > 5 {
			out = append(out, key)
		}
	}
	return dedupe(out)
}

// IndexNameParts tokenizes names, keeps tokens with more than one code
// point, latinizes and lowercases modern-alphabet tokens, and dedupes.
func IndexNameParts(names []string) []string {
	var out []string
	for _, tok := range TokenizeNames(names) {
		if len([]rune(tok)) <= 1 {
			continue
		}
		out = append(out, normalizeToken(tok))
	}
	return dedupe(out)
}

// NamePartsFlat tokenizes names, keeps tokens with more than one code
// point, latinizes and lowercases them, strips non-alphanumeric
// characters (besides whitespace, which tokenizing has already removed),
// and dedupes across all names.
func NamePartsFlat(names []string) []string {
	var out []string
	for _, tok := range TokenizeNames(names) {
		if len([]rune(tok)) <= 1 {
			continue
		}
		cleaned := keepAlnumSpace(normalizeToken(tok))
		if cleaned != "" {
			out = append(out, cleaned)
		}
	}
	return dedupe(out)
}

// NameParts is NamePartsFlat but grouped per source name instead of
// flattened across all of them, with duplicate groups removed.
func NameParts(names []string) [][]string {
	var groups [][]string
	seen := make(map[string]struct{})
	for _, n := range names {
		var group []string
		for _, tok := range wordSplitRe.Split(n, -1) {
			if len([]rune(tok)) <= 1 {
				continue
			}
			cleaned := keepAlnumSpace(normalizeToken(tok))
			if cleaned != "" {
				group = append(group, cleaned)
			}
		}
		if len(group) == 0 {
			continue
		}
		key := strings.Join(group, "\x00")
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}
		groups = append(groups, group)
	}
	return groups
}

var numberRe = regexp.MustCompile(`\d+`)

// ExtractNumbers pulls every maximal run of digits out of values.
func ExtractNumbers(values []string) []string {
	var out []string
	for _, v := range values {
		out = append(out, numberRe.FindAllString(v, -1)...)
	}
	return out
}

// FlipDate swaps the first two characters with the fourth and fifth
// characters of a canonical YYYY-MM-DD-shaped digit string, turning an
// MM/DD mixup into a tolerant DD/MM comparison target. Inputs shorter
// than 5 runes are returned unchanged. FlipDate is self-inverse.
func FlipDate(chars string) string {
	r := []rune(chars)
	if len(r) < 5 {
		return chars
	}
	r[0], r[3] = r[3], r[0]
	r[1], r[4] = r[4], r[1]
	return string(r)
}
