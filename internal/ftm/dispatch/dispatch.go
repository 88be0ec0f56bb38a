// Package dispatch fans a batch match request out into one concurrent
// task per named query, scores every candidate the index returns, and
// assembles the per-query result set, per SPEC_FULL.md §4.J. Fan-out uses
// golang.org/x/sync/errgroup, the same pattern the teacher and SPEC_FULL.md
// §13 use for every other concurrent task set in this service.
package dispatch

import (
	"context"
	"sort"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/Aman-CERP/motiva/internal/errors"
	"github.com/Aman-CERP/motiva/internal/ftm/algorithm"
	"github.com/Aman-CERP/motiva/internal/ftm/feature"
	"github.com/Aman-CERP/motiva/internal/ftm/model"
	"github.com/Aman-CERP/motiva/internal/ftm/query"
)

// IndexProvider is the subset of the index contract the dispatcher needs:
// resolving a StructuredQuery into candidate entities.
type IndexProvider interface {
	Search(ctx context.Context, sq *query.StructuredQuery) ([]*model.Entity, error)
}

// Total mirrors the response's total-count block.
type Total struct {
	Relation string `json:"relation"`
	Value    int    `json:"value"`
}

// Candidate is one scored, surviving result.
type Candidate struct {
	Entity   *model.Entity
	Score    float64
	Match    bool
	Features []model.FeatureScore
}

// QueryResult is one named query's outcome within the batch.
type QueryResult struct {
	Status  int
	Results []Candidate
	Total   Total
	Err     error
}

// Dispatch scores every named query concurrently against provider and
// returns one QueryResult per name. A per-query index or schema failure
// only affects that query's QueryResult (Status 500 or 400); the call
// itself never fails the whole batch.
func Dispatch(ctx context.Context, queries map[string]*model.SearchEntity, params model.MatchParams, algo *algorithm.Algorithm, scopeDatasets []string, provider IndexProvider) map[string]*QueryResult {
	results := make(map[string]*QueryResult, len(queries))
	var mu sync.Mutex

	g, gctx := errgroup.WithContext(ctx)
	for name, q := range queries {
		name, q := name, q
		g.Go(func() error {
			r := runQuery(gctx, q, params, algo, scopeDatasets, provider)
			mu.Lock()
			results[name] = r
			mu.Unlock()
			return nil
		})
	}
	// Errors are captured per-query in QueryResult, never propagated to
	// fail the batch; Wait only blocks until every task has finished.
	_ = g.Wait()

	return results
}

func runQuery(ctx context.Context, q *model.SearchEntity, params model.MatchParams, algo *algorithm.Algorithm, scopeDatasets []string, provider IndexProvider) *QueryResult {
	q.Precompute()

	sq, err := query.Build(q, params, scopeDatasets)
	if err != nil {
		return &QueryResult{Status: 400, Err: errors.New(errors.ErrCodeUnknownSchema, "invalid query schema", err)}
	}

	hits, err := provider.Search(ctx, sq)
	if err != nil {
		return &QueryResult{Status: 500, Err: errors.New(errors.ErrCodeIndexQueryFailed, "index search failed", err)}
	}

	scratch := &feature.Scratch{}
	candidates := make([]Candidate, 0, len(hits))
	for _, hit := range hits {
		candidate := hit.Clone()
		scratch.Reset()
		score, trace := algo.Score(q, candidate, scratch, params.Cutoff)
		if score <= params.Cutoff {
			continue
		}
		candidates = append(candidates, Candidate{
			Entity:   candidate,
			Score:    score,
			Match:    score > params.Threshold,
			Features: positiveFeatures(trace),
		})
	}

	sort.Slice(candidates, func(i, j int) bool {
		if candidates[i].Score != candidates[j].Score {
			return candidates[i].Score > candidates[j].Score
		}
		return candidates[i].Entity.ID < candidates[j].Entity.ID
	})

	total := Total{Relation: "eq", Value: countAtThreshold(candidates, params.Threshold)}

	limit := params.Limit
	if limit > 0 && limit < len(candidates) {
		candidates = candidates[:limit]
	}

	return &QueryResult{Status: 200, Results: candidates, Total: total}
}

// countAtThreshold counts pre-truncation candidates with score >=
// threshold, deliberately using >= where Match uses > per SPEC_FULL.md
// §4.J: a candidate can count toward total.value without being tagged a
// match when its score equals threshold exactly.
func countAtThreshold(candidates []Candidate, threshold float64) int {
	n := 0
	for _, c := range candidates {
		if c.Score >= threshold {
			n++
		}
	}
	return n
}

func positiveFeatures(trace []model.FeatureScore) []model.FeatureScore {
	out := make([]model.FeatureScore, 0, len(trace))
	for _, f := range trace {
		if f.Score > 0 {
			out = append(out, f)
		}
	}
	return out
}
