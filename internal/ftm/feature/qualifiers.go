package feature

import (
	"github.com/Aman-CERP/motiva/internal/ftm/compare"
	"github.com/Aman-CERP/motiva/internal/ftm/extract"
	"github.com/Aman-CERP/motiva/internal/ftm/model"
)

func yearOf(date string) string {
	if len(date) < 4 {
		return ""
	}
	return date[:4]
}

// monthDay extracts the month-day fragment of a YYYY-MM-DD date (the
// substring from index 5 with its index-2 separator removed, i.e. "MM-DD"
// with the dash dropped down to "MMDD"), for a tolerant day/month
// comparison independent of the year.
func monthDay(date string) string {
	if len(date) < 10 {
		return ""
	}
	sub := date[5:10]
	if len(sub) < 3 {
		return sub
	}
	return sub[:2] + sub[3:]
}

func collectDates(props map[string][]string) []string {
	return props["birthDate"]
}

// DOBYearDisjoint is 1 if the birth-year sets of both sides are disjoint.
// Absent dates on either side are treated as no signal (0).
func DOBYearDisjoint(q *model.SearchEntity, r *model.Entity, _ *Scratch) float64 {
	qDates := collectDates(q.Properties)
	rDates := collectDates(r.Properties.Strings)
	if len(qDates) == 0 || len(rDates) == 0 {
		return 0
	}
	qYears := mapStrings(qDates, yearOf)
	rYears := mapStrings(rDates, yearOf)
	if compare.IsDisjoint(qYears, rYears) {
		return 1
	}
	return 0
}

// DOBDayDisjoint layers a month-day comparison on top of the year check:
// disjoint years already signal a mismatch (1); overlapping month-day
// fragments mean a plausible same-day match (0); a DD/MM transposition of
// the query's fragment that does line up with the candidate's is a
// softer signal (0.5); otherwise the fragments genuinely disagree (1).
func DOBDayDisjoint(q *model.SearchEntity, r *model.Entity, scratch *Scratch) float64 {
	qDates := collectDates(q.Properties)
	rDates := collectDates(r.Properties.Strings)
	if len(qDates) == 0 || len(rDates) == 0 {
		return 0
	}
	if DOBYearDisjoint(q, r, scratch) == 1 {
		return 1
	}

	qMD := mapStrings(qDates, monthDay)
	rMD := mapStrings(rDates, monthDay)
	if !compare.IsDisjoint(qMD, rMD) {
		return 0
	}
	flipped := mapStrings(qDates, func(date string) string {
		if len(date) < 10 {
			return ""
		}
		f := extract.FlipDate(date[5:10])
		return f[:2] + f[3:]
	})
	if !compare.IsDisjoint(flipped, rMD) {
		return 0.5
	}
	return 1
}

func mapStrings(vals []string, f func(string) string) []string {
	out := make([]string, 0, len(vals))
	for _, v := range vals {
		if mapped := f(v); mapped != "" {
			out = append(out, mapped)
		}
	}
	return out
}

// NumbersMismatch extracts digit runs from "full" when either side is an
// Address, else from the name+alias group, and returns the number of
// query-side numbers that do not appear on the candidate side divided by
// the smaller side's count of distinct numbers (at least 1), so the result
// can exceed 1.
func NumbersMismatch(q *model.SearchEntity, r *model.Entity, _ *Scratch) float64 {
	var qVals, rVals []string
	if isA(q.Schema, "Address") {
		qVals = q.Property("full")
	} else {
		qVals = namesAndAliases(q.Properties)
	}
	if isA(r.Schema, "Address") {
		rVals = r.Property("full")
	} else {
		rVals = namesAndAliases(r.Properties.Strings)
	}

	qNums := extract.ExtractNumbers(qVals)
	rNums := extract.ExtractNumbers(rVals)
	if len(qNums) == 0 {
		return 0
	}

	rSet := make(map[string]struct{}, len(rNums))
	for _, n := range rNums {
		rSet[n] = struct{}{}
	}
	qSet := make(map[string]struct{}, len(qNums))
	missing := 0
	for _, n := range qNums {
		if _, ok := qSet[n]; ok {
			continue
		}
		qSet[n] = struct{}{}
		if _, ok := rSet[n]; !ok {
			missing++
		}
	}

	denom := len(qSet)
	if len(rSet) < denom {
		denom = len(rSet)
	}
	if denom < 1 {
		denom = 1
	}
	return float64(missing) / float64(denom)
}

// orgIDPropsLHS and orgIDPropsRHS preserve a required spelling asymmetry:
// some datasets carry the Russian OGRN code under the misspelled
// "orgnCode" rather than "ogrnCode". The query side only ever looks for
// the correct spelling; the candidate side looks for the typo, so an
// entity that actually carries "ogrnCode" on the candidate side gathers
// nothing for this qualifier and the mismatch check is skipped entirely,
// matching the reference's short-circuit on an empty rhs gather.
var (
	orgIDPropsLHS = []string{"registrationNumber", "taxNumber", "leiCode", "innCode", "bicCode", "ogrnCode"}
	orgIDPropsRHS = []string{"registrationNumber", "taxNumber", "leiCode", "innCode", "bicCode", "orgnCode"}
)

// orgIDLevenshteinRatio is the raw (uncapped) similarity ratio
// orgid_mismatch.rs uses: 1 - dist/max(len), with no minimum-edit-distance
// gating, thresholded only by the >0.7 check in OrgIDMismatch itself. This
// deliberately does not reuse compare.DefaultLevenshteinSimilarity, whose
// effectiveMax gating returns 0 outright for longer, more-different ids
// instead of the smaller-but-nonzero penalty the reference computes.
func orgIDLevenshteinRatio(lhs, rhs string) float64 {
	maxLen := len([]rune(lhs))
	if rl := len([]rune(rhs)); rl > maxLen {
		maxLen = rl
	}
	if maxLen == 0 {
		return 0
	}
	return 1 - float64(compare.Levenshtein(lhs, rhs))/float64(maxLen)
}

// OrgIDMismatch is gated to pairs where both sides are Organizations: it
// gathers every registration/tax/LEI/INN/BIC/OGRN identifier (with the
// orgnCode/ogrnCode asymmetry above), cleans both sides the same way the
// name comparers do, and when the two sets are disjoint, looks for a
// near-miss (similarity ratio above 0.7) that would explain the
// disjointness as a transcription variant rather than a genuine mismatch.
func OrgIDMismatch(q *model.SearchEntity, r *model.Entity, _ *Scratch) float64 {
	if !bothAreA(q, r, "Organization") {
		return 0
	}
	lhs := gatherRaw(q.Properties, orgIDPropsLHS)
	if len(lhs) == 0 {
		return 0
	}
	rhs := gatherRaw(r.Properties.Strings, orgIDPropsRHS)
	if len(rhs) == 0 {
		return 0
	}

	lhs = extract.CleanNames(lhs)
	rhs = extract.CleanNames(rhs)
	if len(lhs) == 0 || len(rhs) == 0 {
		return 0
	}
	if !compare.IsDisjoint(lhs, rhs) {
		return 0
	}

	maxRatio := 0.0
	for _, l := range lhs {
		for _, rr := range rhs {
			ratio := orgIDLevenshteinRatio(l, rr)
			if ratio > 0.7 && ratio > maxRatio {
				maxRatio = ratio
			}
		}
	}
	return 1 - maxRatio
}

// LastNameMismatch is a qualifier over the explicit "lastName" property
// (a structured Person field, not derived from tokenizing free-text
// names): 0 if either side has no lastName at all, else 1 when the two
// sets are disjoint. Organizations and any entity with no lastName
// recorded never trigger this qualifier.
var LastNameMismatch = SimpleMismatch("last_name_mismatch", propExtractor("lastName"))
