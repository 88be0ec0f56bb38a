// Package bleve is the reference, on-disk index provider backend: it
// stores every candidate entity as a bleve document (derived text fields
// for the mapped fields query.Build emits, plus the entity's own JSON as
// a stored, unanalyzed payload) and executes a StructuredQuery as a
// boosted bleve disjunction query, grounded on the teacher's
// internal/store/bm25.go Bleve-backed BM25Index.
package bleve

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/blevesearch/bleve/v2"
	bquery "github.com/blevesearch/bleve/v2/search/query"

	"github.com/Aman-CERP/motiva/internal/ftm/catalog"
	"github.com/Aman-CERP/motiva/internal/ftm/extract"
	"github.com/Aman-CERP/motiva/internal/ftm/model"
	"github.com/Aman-CERP/motiva/internal/ftm/query"
)

const payloadField = "payload"

// Index wraps a single bleve.Index holding every dataset this process
// serves; dataset scoping happens at query time via a term clause, the
// same way query.Build's dataset filter works against the catalog.
type Index struct {
	mu        sync.RWMutex
	idx       bleve.Index
	path      string
	versions  map[string]string
	referents map[string]string // referent id -> canonical entity id
	vmu       sync.RWMutex
}

// Open opens the on-disk bleve index at path, creating it if absent; an
// empty path gives a memory-only index instead.
func Open(path string) (*Index, error) {
	mapping := bleve.NewIndexMapping()

	var idx bleve.Index
	var err error
	if path == "" {
		idx, err = bleve.NewMemOnly(mapping)
	} else {
		if mkErr := os.MkdirAll(filepath.Dir(path), 0o755); mkErr != nil {
			return nil, fmt.Errorf("create index directory: %w", mkErr)
		}
		idx, err = bleve.Open(path)
		if err == bleve.ErrorIndexPathDoesNotExist {
			idx, err = bleve.New(path, mapping)
		}
	}
	if err != nil {
		return nil, fmt.Errorf("open bleve index at %s: %w", path, err)
	}

	return &Index{idx: idx, path: path, versions: make(map[string]string), referents: make(map[string]string)}, nil
}

// document is the indexed shape of one entity: the mapped text fields
// query.Build's clauses target, plus dataset/schema filter fields and the
// entity's own JSON as an unanalyzed stored payload.
type document struct {
	Schema      string   `json:"schema"`
	Datasets    []string `json:"datasets"`
	Names       string   `json:"names"`
	NameKeys    string   `json:"name_keys"`
	NameParts   string   `json:"name_parts"`
	Phonetic    string   `json:"name_phonetic"`
	Addresses   string   `json:"addresses"`
	Dates       string   `json:"dates"`
	Countries   string   `json:"countries"`
	Identifiers string   `json:"identifiers"`
	Text        string   `json:"text"`
	Payload     string   `json:"payload"`
}

func toDocument(e *model.Entity) document {
	names := e.Properties.Strings["name"]
	payload, _ := json.Marshal(e)
	return document{
		Schema:      e.Schema,
		Datasets:    e.Datasets,
		Names:       strings.Join(names, " "),
		NameKeys:    strings.Join(extract.IndexNameKeys(names), " "),
		NameParts:   strings.Join(extract.NamePartsFlat(names), " "),
		Phonetic:    strings.Join(extract.PhoneticName(names), " "),
		Addresses:   strings.Join(e.Properties.Strings["address"], " "),
		Dates:       strings.Join(e.Properties.Strings["birthDate"], " "),
		Countries:   strings.Join(e.Properties.Strings["country"], " "),
		Identifiers: strings.Join(extract.NormalizeIdentifiers(e.Properties.Strings["registrationNumber"]), " "),
		Text:        allOtherPropertyText(e),
		Payload:     string(payload),
	}
}

func allOtherPropertyText(e *model.Entity) string {
	var b strings.Builder
	for name, values := range e.Properties.Strings {
		switch name {
		case "name", "address", "birthDate", "country", "registrationNumber":
			continue
		}
		for _, v := range values {
			b.WriteString(v)
			b.WriteByte(' ')
		}
	}
	return b.String()
}

// Index upserts entities into the backing bleve index and records every
// entry of each entity's Referents list so GetEntity can resolve a
// referent id back to the canonical entity.
func (x *Index) Index(_ context.Context, entities []*model.Entity) error {
	x.mu.Lock()
	defer x.mu.Unlock()

	batch := x.idx.NewBatch()
	for _, e := range entities {
		if err := batch.Index(e.ID, toDocument(e)); err != nil {
			return fmt.Errorf("index entity %s: %w", e.ID, err)
		}
	}
	if err := x.idx.Batch(batch); err != nil {
		return err
	}

	x.vmu.Lock()
	for _, e := range entities {
		for _, r := range e.Referents {
			x.referents[r] = e.ID
		}
	}
	x.vmu.Unlock()
	return nil
}

// Delete removes entities by id.
func (x *Index) Delete(_ context.Context, ids []string) error {
	x.mu.Lock()
	defer x.mu.Unlock()

	batch := x.idx.NewBatch()
	for _, id := range ids {
		batch.Delete(id)
	}
	return x.idx.Batch(batch)
}

// Search executes sq as a boosted disjunction query and decodes each
// hit's stored payload back into a model.Entity.
func (x *Index) Search(ctx context.Context, sq *query.StructuredQuery) ([]*model.Entity, error) {
	x.mu.RLock()
	defer x.mu.RUnlock()

	bq := buildBleveQuery(sq)
	req := bleve.NewSearchRequest(bq)
	req.Size = sq.Size
	req.Fields = []string{payloadField}

	result, err := x.idx.SearchInContext(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("bleve search: %w", err)
	}

	out := make([]*model.Entity, 0, len(result.Hits))
	for _, hit := range result.Hits {
		raw, ok := hit.Fields[payloadField].(string)
		if !ok {
			continue
		}
		var e model.Entity
		if err := json.Unmarshal([]byte(raw), &e); err != nil {
			continue
		}
		out = append(out, &e)
	}
	return out, nil
}

// buildBleveQuery translates a StructuredQuery's schema/dataset filters
// and Should clauses into a bleve conjunction-of-filters wrapping a
// disjunction-of-boosted-relevance-clauses, the bleve equivalent of the
// reference's filtered-bool/should query shape.
func buildBleveQuery(sq *query.StructuredQuery) bquery.Query {
	var filters []bquery.Query
	if len(sq.Schemas) > 0 {
		schemaClause := bquery.NewDisjunctionQuery(nil)
		for _, s := range sq.Schemas {
			tq := bquery.NewTermQuery(s)
			tq.SetField("schema")
			schemaClause.AddQuery(tq)
		}
		filters = append(filters, schemaClause)
	}
	if len(sq.Datasets) > 0 {
		datasetClause := bquery.NewDisjunctionQuery(nil)
		for _, d := range sq.Datasets {
			tq := bquery.NewTermQuery(d)
			tq.SetField("datasets")
			datasetClause.AddQuery(tq)
		}
		filters = append(filters, datasetClause)
	}

	should := bquery.NewDisjunctionQuery(nil)
	for _, c := range sq.Should {
		should.AddQuery(clauseQuery(c))
	}

	conj := bquery.NewConjunctionQuery(filters)
	conj.AddQuery(should)
	return conj
}

func clauseQuery(c query.Clause) bquery.Query {
	switch c.Kind {
	case query.KindFuzzyMatch:
		mq := bquery.NewMatchQuery(c.Value)
		mq.SetField(c.Field)
		mq.SetFuzziness(2)
		mq.SetBoost(c.Boost)
		return mq
	case query.KindTerm:
		tq := bquery.NewTermQuery(c.Value)
		tq.SetField(c.Field)
		tq.SetBoost(c.Boost)
		return tq
	default: // query.KindMatch
		mq := bquery.NewMatchQuery(c.Value)
		mq.SetField(c.Field)
		mq.SetBoost(c.Boost)
		return mq
	}
}

// GetRelatedEntities implements nested.Provider by fetching the given ids
// directly; constrainToRoot and seen don't change the fetch since bleve
// holds no graph structure of its own to filter by.
func (x *Index) GetRelatedEntities(ctx context.Context, ids []string, _ string, _ bool, _ map[string]struct{}) ([]*model.Entity, error) {
	x.mu.RLock()
	defer x.mu.RUnlock()

	var out []*model.Entity
	for _, id := range ids {
		e, err := x.getByID(ctx, id)
		if err != nil || e == nil {
			continue
		}
		out = append(out, e)
	}
	return out, nil
}

func (x *Index) getByID(ctx context.Context, id string) (*model.Entity, error) {
	tq := bquery.NewDocIDQuery([]string{id})
	req := bleve.NewSearchRequest(tq)
	req.Size = 1
	req.Fields = []string{payloadField}

	result, err := x.idx.SearchInContext(ctx, req)
	if err != nil || len(result.Hits) == 0 {
		return nil, err
	}
	raw, ok := result.Hits[0].Fields[payloadField].(string)
	if !ok {
		return nil, nil
	}
	var e model.Entity
	if err := json.Unmarshal([]byte(raw), &e); err != nil {
		return nil, err
	}
	return &e, nil
}

// GetEntity returns one entity by id. If id names a referent rather than
// a canonical entity, the canonical entity is returned instead; callers
// compare the returned entity's ID against the requested id to detect
// this and issue a redirect. Returns (nil, nil) if id is unknown.
func (x *Index) GetEntity(ctx context.Context, id string) (*model.Entity, error) {
	x.mu.RLock()
	defer x.mu.RUnlock()

	e, err := x.getByID(ctx, id)
	if err != nil || e != nil {
		return e, err
	}

	x.vmu.RLock()
	canonical, ok := x.referents[id]
	x.vmu.RUnlock()
	if !ok {
		return nil, nil
	}
	return x.getByID(ctx, canonical)
}

// Health reports whether the underlying bleve index is reachable.
func (x *Index) Health(_ context.Context) error {
	x.mu.RLock()
	defer x.mu.RUnlock()
	_, err := x.idx.DocCount()
	return err
}

// RecordVersion sets the version the index reports for dataset in
// ListIndices, normally called once per successful bulk load.
func (x *Index) RecordVersion(dataset, version string) {
	x.vmu.Lock()
	defer x.vmu.Unlock()
	x.versions[dataset] = version
}

// ListIndices implements catalog.IndexLister.
func (x *Index) ListIndices(_ context.Context) ([]catalog.IndexVersion, error) {
	x.vmu.RLock()
	defer x.vmu.RUnlock()
	out := make([]catalog.IndexVersion, 0, len(x.versions))
	for name, version := range x.versions {
		out = append(out, catalog.IndexVersion{Name: name, Version: version})
	}
	return out, nil
}

// Close releases the underlying bleve index.
func (x *Index) Close() error {
	return x.idx.Close()
}
