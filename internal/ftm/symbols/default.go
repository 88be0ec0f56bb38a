package symbols

import (
	"strings"
	"sync"

	"github.com/Aman-CERP/motiva/internal/ftm/dictionary"
)

var (
	orgTaggerOnce sync.Once
	orgTagger     *Tagger

	personTaggerOnce sync.Once
	personTagger     *Tagger
)

// OrgTagger returns the process-wide tagger for organization names: legal
// form classes (ORGCLS) and marker symbols (SYMBOL). It omits the
// territory (LOC) table the original ships, since no territories dataset
// is wired into the dictionary package (DESIGN.md).
func OrgTagger() *Tagger {
	orgTaggerOnce.Do(func() {
		mapping := make(map[string][]Symbol)
		addOrgClasses(mapping)
		addMarkerSymbols(mapping)
		orgTagger = NewTagger(mapping)
	})
	return orgTagger
}

// PersonTagger returns the process-wide tagger for person names: given
// names (NAME), nicknames (NICK), and marker symbols (SYMBOL).
func PersonTagger() *Tagger {
	personTaggerOnce.Do(func() {
		mapping := make(map[string][]Symbol)
		addGivenNames(mapping)
		addNicknames(mapping)
		addMarkerSymbols(mapping)
		personTagger = NewTagger(mapping)
	})
	return personTagger
}

func addOrgClasses(mapping map[string][]Symbol) {
	// dictionary.OrgTypes() only exposes the collapsed main/forms pairs
	// through its Replacer; rebuild the underlying forms->main pattern set
	// directly is not available, so org class patterns are tagged via the
	// same forms the replacer already normalized against name comparison.
	for _, form := range dictionary.OrgTypes().Patterns() {
		main := dictionary.OrgTypes().Replacement(form)
		sym := Symbol{Category: CategoryOrgClass, ID: strings.ToUpper(main)}
		mapping[form] = append(mapping[form], sym)
	}
}

func addMarkerSymbols(mapping map[string][]Symbol) {
	for _, s := range dictionary.Symbols() {
		sym := Symbol{Category: CategorySymbol, ID: strings.ToUpper(s)}
		key := strings.ToLower(s)
		mapping[key] = append(mapping[key], sym)
	}
}

func addGivenNames(mapping map[string][]Symbol) {
	for _, name := range dictionary.PersonNames() {
		sym := Symbol{Category: CategoryName, ID: strings.ToUpper(name)}
		key := strings.ToLower(name)
		mapping[key] = append(mapping[key], sym)
	}
}

func addNicknames(mapping map[string][]Symbol) {
	for nick, canonical := range dictionary.PersonNick() {
		sym := Symbol{Category: CategoryNick, ID: strings.ToUpper(canonical)}
		key := strings.ToLower(nick)
		mapping[key] = append(mapping[key], sym)
	}
}
