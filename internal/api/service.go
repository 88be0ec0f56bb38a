// Package api is the thin HTTP layer around the core matching engine,
// grounded on SPEC_FULL.md §12's recovery of crates/motiva/src/api/*:
// a chi router, route-scoped auth/timeout middleware, and handlers that
// do nothing but decode, delegate to the core ftm packages, and encode.
package api

import (
	"context"
	"fmt"

	"github.com/Aman-CERP/motiva/internal/errors"
	"github.com/Aman-CERP/motiva/internal/ftm/algorithm"
	"github.com/Aman-CERP/motiva/internal/ftm/catalog"
	"github.com/Aman-CERP/motiva/internal/ftm/dispatch"
	"github.com/Aman-CERP/motiva/internal/ftm/model"
	"github.com/Aman-CERP/motiva/internal/ftm/nested"
	"github.com/Aman-CERP/motiva/internal/index"
)

// Service wires the HTTP layer to the core engine: an index provider
// (normally an *index.Resilient wrapping the bleve or mock backend) and
// the catalog store used to resolve a match scope into its dataset list.
type Service struct {
	Provider index.Provider
	Catalog  *catalog.Store
}

// NewService builds a Service over provider and catalogStore.
func NewService(provider index.Provider, catalogStore *catalog.Store) *Service {
	return &Service{Provider: provider, Catalog: catalogStore}
}

// Match runs every named query in the batch concurrently against the
// scope's resolved dataset list and returns one response per query name.
func (s *Service) Match(ctx context.Context, scope string, queries map[string]*model.SearchEntity, params model.MatchParams) (*matchResponse, error) {
	algo, ok := algorithm.ByName(params.Algorithm)
	if !ok {
		return nil, errors.New(errors.ErrCodeInvalidQuery, fmt.Sprintf("unknown algorithm %q", params.Algorithm), nil)
	}

	scopeDatasets := s.Catalog.Get().Children(scope)

	results := dispatch.Dispatch(ctx, queries, params, algo, scopeDatasets, s.Provider)

	resp := &matchResponse{Responses: make(map[string]queryResponse, len(results)), Limit: params.Limit}
	for name, r := range results {
		entities := make([]resultEntity, 0, len(r.Results))
		for _, c := range r.Results {
			entities = append(entities, toResultEntity(c))
		}
		qr := queryResponse{Status: r.Status, Results: entities, Total: r.Total}
		if r.Err != nil {
			qr.Error = r.Err.Error()
		}
		resp.Responses[name] = qr
	}
	return resp, nil
}

// entityOutcome is the GetEntity behavior recovered from
// crates/libmotiva/src/motiva.rs::Motiva::get_entity: the entity exists
// under the exact id requested (Nominal), exists but only under a
// referent id (Referent, redirect to Canonical), or does not exist.
type entityOutcome struct {
	Entity    *model.Entity
	Canonical string
	Referent  bool
}

// GetEntity fetches id, expanding its related-entity graph when nested
// is true.
func (s *Service) GetEntity(ctx context.Context, id string, nestedExpand bool) (*entityOutcome, map[string]*model.EntityRef, error) {
	e, err := s.Provider.GetEntity(ctx, id)
	if err != nil {
		return nil, nil, errors.New(errors.ErrCodeIndexQueryFailed, "index lookup failed", err)
	}
	if e == nil {
		return nil, nil, errors.New(errors.ErrCodeEntityNotFound, fmt.Sprintf("entity %q not found", id), nil)
	}
	if e.ID != id {
		return &entityOutcome{Entity: e, Canonical: e.ID, Referent: true}, nil, nil
	}

	if !nestedExpand {
		return &entityOutcome{Entity: e}, nil, nil
	}

	graph, err := nested.Expand(ctx, e, s.Provider)
	if err != nil {
		return nil, nil, errors.New(errors.ErrCodeIndexQueryFailed, "related-entity expansion failed", err)
	}
	return &entityOutcome{Entity: e}, graph, nil
}

// GetCatalog returns the current merged catalog, forcing a synchronous
// refresh first when forceRefresh is set.
func (s *Service) GetCatalog(ctx context.Context, forceRefresh bool) (*catalog.Catalog, error) {
	if forceRefresh {
		if err := s.Catalog.Refresh(ctx); err != nil {
			return nil, errors.New(errors.ErrCodeIndexUnavailable, "catalog refresh failed", err)
		}
	}
	return s.Catalog.Get(), nil
}

// Algorithms lists the statically-known algorithm names.
func Algorithms() algorithmsResponse {
	return algorithmsResponse{
		Algorithms: []algorithmEntry{
			{Name: model.AlgorithmNameBased},
			{Name: model.AlgorithmNameQualified},
			{Name: model.AlgorithmLogicV1},
		},
		Best:    model.AlgorithmBest,
		Default: model.AlgorithmLogicV1,
	}
}
