// Package model defines the FollowTheMoney-shaped entity types shared by
// every other ftm package: the schema-qualified query (SearchEntity), the
// indexed record returned by a search backend (Entity), and the parameters
// that govern a match request.
package model

import (
	"sync"

	"github.com/Aman-CERP/motiva/internal/ftm/extract"
)

// SearchEntity is the query shape submitted for matching.
type SearchEntity struct {
	Schema     string              `json:"schema" yaml:"schema"`
	Properties map[string][]string `json:"properties" yaml:"properties"`

	// NamePartsSet is derived from Properties["name"] by Precompute and must
	// be recomputed whenever Properties["name"] changes.
	NamePartsSet map[string]struct{} `json:"-" yaml:"-"`
}

// Precompute derives NamePartsSet from the "name" property. Call it once
// after constructing or mutating a SearchEntity and before scoring.
func (s *SearchEntity) Precompute() {
	names := s.Properties["name"]
	groups := extract.NamePartsFlat(names)
	s.NamePartsSet = make(map[string]struct{}, len(groups))
	for _, p := range groups {
		s.NamePartsSet[p] = struct{}{}
	}
}

// Property returns the values for a property name, or nil if absent.
func (s *SearchEntity) Property(name string) []string {
	return s.Properties[name]
}

// EntityRef is a shared, thread-safe handle to a materialized Entity used
// while building the nested-entity graph: many parents may hold a
// reference to the same association, and nested expansion appends to its
// properties.Entities map from a single goroutine per request, guarded by
// a per-entity mutex so a future concurrent expansion strategy stays safe.
type EntityRef struct {
	mu sync.Mutex
	E  *Entity
}

// NewEntityRef wraps e in a shared handle.
func NewEntityRef(e *Entity) *EntityRef {
	return &EntityRef{E: e}
}

// AddRelated appends child under property name on the wrapped entity.
func (r *EntityRef) AddRelated(property string, child *EntityRef) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.E.Properties.Entities == nil {
		r.E.Properties.Entities = make(map[string][]*EntityRef)
	}
	r.E.Properties.Entities[property] = append(r.E.Properties.Entities[property], child)
}

// Properties holds an Entity's string-valued and entity-valued properties.
type Properties struct {
	Strings  map[string][]string   `json:"strings" yaml:"strings"`
	Entities map[string][]*EntityRef `json:"-" yaml:"-"`
}

// Entity is an indexed record returned by a search backend.
type Entity struct {
	ID         string     `json:"id" yaml:"id"`
	Caption    string     `json:"caption" yaml:"caption"`
	Schema     string     `json:"schema" yaml:"schema"`
	Datasets   []string   `json:"datasets" yaml:"datasets"`
	Referents  []string   `json:"referents,omitempty" yaml:"referents,omitempty"`
	Target     bool       `json:"target" yaml:"target"`
	FirstSeen  string     `json:"first_seen,omitempty" yaml:"first_seen,omitempty"`
	LastSeen   string     `json:"last_seen,omitempty" yaml:"last_seen,omitempty"`
	LastChange string     `json:"last_change,omitempty" yaml:"last_change,omitempty"`
	Properties Properties `json:"properties" yaml:"properties"`

	// Features holds the ordered feature-name/score trace attached by an
	// algorithm during scoring. It is never populated by the index.
	Features []FeatureScore `json:"features,omitempty" yaml:"-"`
}

// FeatureScore is one entry of a scoring trace.
type FeatureScore struct {
	Name  string  `json:"name"`
	Score float64 `json:"score"`
}

// Property returns the string values for a property name, or nil if absent.
func (e *Entity) Property(name string) []string {
	return e.Properties.Strings[name]
}

// Clone returns a deep-enough copy of e safe to mutate (in particular its
// Features slice and Properties.Strings map) without racing a concurrent
// user of the original, per SPEC_FULL.md §5's per-task cloning rule.
func (e *Entity) Clone() *Entity {
	c := *e
	c.Datasets = append([]string(nil), e.Datasets...)
	c.Referents = append([]string(nil), e.Referents...)
	c.Features = nil

	c.Properties.Strings = make(map[string][]string, len(e.Properties.Strings))
	for k, v := range e.Properties.Strings {
		c.Properties.Strings[k] = append([]string(nil), v...)
	}
	// Entities map is shared read-mostly state assembled once by nested
	// expansion; it is not cloned per task.
	c.Properties.Entities = e.Properties.Entities
	return &c
}

// MatchParams governs a single match request.
type MatchParams struct {
	Scope           string   `json:"scope" yaml:"scope"`
	Limit           int      `json:"limit" yaml:"limit"`
	Threshold       float64  `json:"threshold" yaml:"threshold"`
	Cutoff          float64  `json:"cutoff" yaml:"cutoff"`
	Algorithm       string   `json:"algorithm" yaml:"algorithm"`
	Topics          []string `json:"topics,omitempty" yaml:"topics,omitempty"`
	IncludeDataset  []string `json:"include_dataset,omitempty" yaml:"include_dataset,omitempty"`
	ExcludeDataset  []string `json:"exclude_dataset,omitempty" yaml:"exclude_dataset,omitempty"`
	ExcludeEntityIDs []string `json:"exclude_entity_ids,omitempty" yaml:"exclude_entity_ids,omitempty"`
	CandidateFactor int      `json:"candidate_factor" yaml:"candidate_factor"`
}

// Algorithm name constants, matching the query-string "algorithm" values.
const (
	AlgorithmNameBased     = "name-based"
	AlgorithmNameQualified = "name-qualified"
	AlgorithmLogicV1       = "logic-v1"
	AlgorithmBest          = AlgorithmLogicV1
)

// DefaultMatchParams returns the hardcoded defaults from SPEC_FULL.md §3.
func DefaultMatchParams() MatchParams {
	return MatchParams{
		Limit:           5,
		Threshold:       0.7,
		Cutoff:          0.5,
		Algorithm:       AlgorithmLogicV1,
		CandidateFactor: 10,
	}
}
