package dictionary

import (
	"embed"
	"fmt"
	"strings"
	"sync"

	"gopkg.in/yaml.v3"
)

//go:embed assets/*.yaml
var assetsFS embed.FS

type orgTypeEntry struct {
	Main  string   `yaml:"main"`
	Forms []string `yaml:"forms"`
}

type orgTypeDoc struct {
	Types []orgTypeEntry `yaml:"types"`
}

type ordinalEntry struct {
	Pattern     string `yaml:"pattern"`
	Replacement string `yaml:"replacement"`
}

type ordinalsDoc struct {
	Ordinals []ordinalEntry `yaml:"ORDINALS"`
}

var (
	orgTypesOnce     sync.Once
	orgTypesReplacer *Replacer

	stopwordsOnce     sync.Once
	stopwordsReplacer *Replacer

	addressFormsOnce     sync.Once
	addressFormsReplacer *Replacer

	ordinalsOnce     sync.Once
	ordinalsReplacer *Replacer

	symbolsOnce sync.Once
	symbolsList []string

	personNamesOnce sync.Once
	personNamesList []string

	personNickOnce sync.Once
	personNickMap  map[string]string
)

func mustReadAsset(name string) []byte {
	data, err := assetsFS.ReadFile("assets/" + name)
	if err != nil {
		panic(fmt.Sprintf("dictionary: missing embedded asset %s: %v", name, err))
	}
	return data
}

// OrgTypes returns the process-wide org-type replacer: generic legal-form
// aliases (e.g. "limited", "ltd.") collapsed to a canonical short form.
func OrgTypes() *Replacer {
	orgTypesOnce.Do(func() {
		var doc orgTypeDoc
		if err := yaml.Unmarshal(mustReadAsset("org_types.yaml"), &doc); err != nil {
			panic(fmt.Sprintf("dictionary: parsing org_types.yaml: %v", err))
		}
		var patterns, replacements []string
		for _, entry := range doc.Types {
			for _, form := range entry.Forms {
				patterns = append(patterns, strings.ToLower(form))
				replacements = append(replacements, strings.ToLower(entry.Main))
			}
		}
		orgTypesReplacer = NewReplacer(patterns, replacements)
	})
	return orgTypesReplacer
}

// Stopwords returns the process-wide person-name-prefix stripper (titles
// and particles like "mr", "von", "de" are replaced with the empty string).
func Stopwords() *Replacer {
	stopwordsOnce.Do(func() {
		var doc map[string][]string
		if err := yaml.Unmarshal(mustReadAsset("stopwords.yaml"), &doc); err != nil {
			panic(fmt.Sprintf("dictionary: parsing stopwords.yaml: %v", err))
		}
		prefixes := doc["PERSON_NAME_PREFIXES"]
		replacements := make([]string, len(prefixes))
		stopwordsReplacer = NewReplacer(prefixes, replacements)
	})
	return stopwordsReplacer
}

// AddressForms returns the process-wide address-token collapser (street
// suffixes like "street"/"st" are replaced with a single space).
func AddressForms() *Replacer {
	addressFormsOnce.Do(func() {
		var doc map[string][]string
		if err := yaml.Unmarshal(mustReadAsset("address_forms.yaml"), &doc); err != nil {
			panic(fmt.Sprintf("dictionary: parsing address_forms.yaml: %v", err))
		}
		forms := doc["ADDRESS_FORMS"]
		replacements := make([]string, len(forms))
		for i := range replacements {
			replacements[i] = " "
		}
		addressFormsReplacer = NewReplacer(forms, replacements)
	})
	return addressFormsReplacer
}

// Ordinals returns the process-wide ordinal collapser (Roman numerals and
// word forms like "third"/"3rd" are replaced with the canonical digit).
func Ordinals() *Replacer {
	ordinalsOnce.Do(func() {
		var doc ordinalsDoc
		if err := yaml.Unmarshal(mustReadAsset("ordinals.yaml"), &doc); err != nil {
			panic(fmt.Sprintf("dictionary: parsing ordinals.yaml: %v", err))
		}
		patterns := make([]string, len(doc.Ordinals))
		replacements := make([]string, len(doc.Ordinals))
		for i, e := range doc.Ordinals {
			patterns[i] = e.Pattern
			replacements[i] = e.Replacement
		}
		ordinalsReplacer = NewReplacer(patterns, replacements)
	})
	return ordinalsReplacer
}

// Symbols returns the fingerprinting symbol table used by the name
// tagger's symbols.CategorySymbol classification.
func Symbols() []string {
	symbolsOnce.Do(func() {
		var doc map[string][]string
		if err := yaml.Unmarshal(mustReadAsset("symbols.yaml"), &doc); err != nil {
			panic(fmt.Sprintf("dictionary: parsing symbols.yaml: %v", err))
		}
		symbolsList = doc["SYMBOLS"]
	})
	return symbolsList
}

// PersonNames returns the given-name table used by the name tagger's
// symbols.CategoryName classification.
func PersonNames() []string {
	personNamesOnce.Do(func() {
		var doc map[string][]string
		if err := yaml.Unmarshal(mustReadAsset("person_names.yaml"), &doc); err != nil {
			panic(fmt.Sprintf("dictionary: parsing person_names.yaml: %v", err))
		}
		personNamesList = doc["PERSON_NAMES"]
	})
	return personNamesList
}

// PersonNick returns the nickname -> canonical-given-name table used by
// the name tagger's symbols.CategoryNick classification.
func PersonNick() map[string]string {
	personNickOnce.Do(func() {
		var doc map[string]string
		if err := yaml.Unmarshal(mustReadAsset("person_nick.yaml"), &doc); err != nil {
			panic(fmt.Sprintf("dictionary: parsing person_nick.yaml: %v", err))
		}
		personNickMap = doc
	})
	return personNickMap
}
