// Package mock implements an in-memory index provider for tests and local
// development: no bleve segment files, no network calls, just a map of
// entities scored by naive term overlap. It satisfies the same structural
// contracts (query.Build's consumer in dispatch, nested.Provider, and
// catalog.IndexLister) that internal/index/bleve.Index satisfies against a
// real backend.
package mock

import (
	"context"
	"sort"
	"strings"
	"sync"

	"github.com/Aman-CERP/motiva/internal/ftm/catalog"
	"github.com/Aman-CERP/motiva/internal/ftm/model"
	"github.com/Aman-CERP/motiva/internal/ftm/query"
)

// Index is a thread-safe in-memory entity store.
type Index struct {
	mu        sync.RWMutex
	entities  map[string]*model.Entity
	referents map[string]string // referent id -> canonical entity id
	versions  map[string]string
}

// New returns an empty Index.
func New() *Index {
	return &Index{
		entities:  make(map[string]*model.Entity),
		referents: make(map[string]string),
		versions:  make(map[string]string),
	}
}

// Put inserts or replaces entities by id, and records every entry of its
// Referents list so GetEntity can resolve a referent id back to the
// canonical entity.
func (idx *Index) Put(entities ...*model.Entity) {
	idx.mu.Lock()
	defer idx.mu.Unlock()
	for _, e := range entities {
		idx.entities[e.ID] = e
		for _, r := range e.Referents {
			idx.referents[r] = e.ID
		}
	}
}

// SetVersion records the dataset version reported by ListIndices.
func (idx *Index) SetVersion(dataset, version string) {
	idx.mu.Lock()
	defer idx.mu.Unlock()
	idx.versions[dataset] = version
}

// Search filters entities by schema/dataset membership, then ranks by the
// summed boost of the query clauses whose value appears (case-insensitively,
// as a substring in either direction) in the candidate's own property
// values — a crude stand-in for the
// bleve-backed provider's real full-text relevance scoring, good enough to
// exercise query.Build's output and dispatch's scoring pipeline in tests.
func (idx *Index) Search(_ context.Context, sq *query.StructuredQuery) ([]*model.Entity, error) {
	idx.mu.RLock()
	defer idx.mu.RUnlock()

	schemaSet := make(map[string]struct{}, len(sq.Schemas))
	for _, s := range sq.Schemas {
		schemaSet[s] = struct{}{}
	}
	datasetSet := make(map[string]struct{}, len(sq.Datasets))
	for _, d := range sq.Datasets {
		datasetSet[d] = struct{}{}
	}

	type scored struct {
		e     *model.Entity
		score float64
	}
	var hits []scored

	for _, e := range idx.entities {
		if len(schemaSet) > 0 {
			if _, ok := schemaSet[e.Schema]; !ok {
				continue
			}
		}
		if len(datasetSet) > 0 && !anyDatasetMatches(e.Datasets, datasetSet) {
			continue
		}

		score := clauseOverlapScore(sq.Should, e)
		if score <= 0 {
			continue
		}
		hits = append(hits, scored{e: e, score: score})
	}

	sort.Slice(hits, func(i, j int) bool {
		if hits[i].score != hits[j].score {
			return hits[i].score > hits[j].score
		}
		return hits[i].e.ID < hits[j].e.ID
	})

	size := sq.Size
	if size > 0 && size < len(hits) {
		hits = hits[:size]
	}

	out := make([]*model.Entity, len(hits))
	for i, h := range hits {
		out[i] = h.e
	}
	return out, nil
}

func anyDatasetMatches(have []string, want map[string]struct{}) bool {
	for _, d := range have {
		if _, ok := want[d]; ok {
			return true
		}
	}
	return false
}

func clauseOverlapScore(clauses []query.Clause, e *model.Entity) float64 {
	var total float64
	for _, c := range clauses {
		field := fieldToProperty(c.Field)
		for _, v := range e.Properties.Strings[field] {
			if strings.Contains(strings.ToLower(v), strings.ToLower(c.Value)) ||
				strings.Contains(strings.ToLower(c.Value), strings.ToLower(v)) {
				total += c.Boost
				break
			}
		}
	}
	return total
}

// fieldToProperty maps a StructuredQuery field back to a property name
// this mock stores candidates under; real backends index these as
// separate derived fields instead of property names, but the mock keeps
// entities in their original property shape for simplicity.
func fieldToProperty(field string) string {
	switch field {
	case "names", "name_keys", "name_parts", "name_phonetic":
		return "name"
	default:
		return field
	}
}

// GetRelatedEntities returns every stored entity whose id is in ids (the
// nested.Provider contract); constrainToRoot and seen are accepted for
// interface compatibility but unused since this mock never needs to
// distinguish an iteration-0 root-only fetch from a later one.
func (idx *Index) GetRelatedEntities(_ context.Context, ids []string, _ string, _ bool, _ map[string]struct{}) ([]*model.Entity, error) {
	idx.mu.RLock()
	defer idx.mu.RUnlock()
	var out []*model.Entity
	for _, id := range ids {
		if e, ok := idx.entities[id]; ok {
			out = append(out, e)
		}
	}
	return out, nil
}

// GetEntity returns one entity by id. If id names a referent rather than
// a canonical entity, the canonical entity is returned instead; callers
// compare the returned entity's ID against the requested id to detect
// this and issue a redirect. Returns (nil, nil) if id is unknown.
func (idx *Index) GetEntity(_ context.Context, id string) (*model.Entity, error) {
	idx.mu.RLock()
	defer idx.mu.RUnlock()
	if e, ok := idx.entities[id]; ok {
		return e, nil
	}
	if canonical, ok := idx.referents[id]; ok {
		return idx.entities[canonical], nil
	}
	return nil, nil
}

// Health always reports healthy: there is no backing connection to lose.
func (idx *Index) Health(_ context.Context) error {
	return nil
}

// ListIndices implements catalog.IndexLister.
func (idx *Index) ListIndices(_ context.Context) ([]catalog.IndexVersion, error) {
	idx.mu.RLock()
	defer idx.mu.RUnlock()
	out := make([]catalog.IndexVersion, 0, len(idx.versions))
	for name, version := range idx.versions {
		out = append(out, catalog.IndexVersion{Name: name, Version: version})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}
