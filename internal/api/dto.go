package api

import (
	"github.com/Aman-CERP/motiva/internal/ftm/dispatch"
	"github.com/Aman-CERP/motiva/internal/ftm/model"
)

// matchRequestBody is POST /match/{scope}'s JSON body.
type matchRequestBody struct {
	Queries map[string]*model.SearchEntity `json:"queries"`
	Params  *matchBodyParams               `json:"params,omitempty"`
}

// matchBodyParams is the body's optional params block, distinct from the
// query-string params (limit, threshold, cutoff, algorithm, topics,
// include_dataset, exclude_dataset) per SPEC_FULL.md §12.
type matchBodyParams struct {
	IncludeDatasets  []string `json:"include_datasets,omitempty"`
	ExcludeDatasets  []string `json:"exclude_datasets,omitempty"`
	ExcludeEntityIDs []string `json:"exclude_entity_ids,omitempty"`
}

// matchResponse is POST /match/{scope}'s JSON response.
type matchResponse struct {
	Responses map[string]queryResponse `json:"responses"`
	Limit     int                      `json:"limit"`
}

type queryResponse struct {
	Status  int            `json:"status"`
	Results []resultEntity `json:"results"`
	Total   dispatch.Total `json:"total"`
	Error   string         `json:"error,omitempty"`
}

// resultEntity flattens an entity's own fields alongside the match
// verdict, score, and per-feature trace, per SPEC_FULL.md §6's response
// shape "{…entity fields…, match, score, features: {name: score}}".
type resultEntity struct {
	ID         string              `json:"id"`
	Caption    string              `json:"caption"`
	Schema     string              `json:"schema"`
	Datasets   []string            `json:"datasets,omitempty"`
	Referents  []string            `json:"referents,omitempty"`
	Target     bool                `json:"target"`
	FirstSeen  string              `json:"first_seen,omitempty"`
	LastSeen   string              `json:"last_seen,omitempty"`
	LastChange string              `json:"last_change,omitempty"`
	Properties map[string][]string `json:"properties"`
	Match      bool                `json:"match"`
	Score      float64             `json:"score"`
	Features   map[string]float64  `json:"features"`
}

func toResultEntity(c dispatch.Candidate) resultEntity {
	features := make(map[string]float64, len(c.Features))
	for _, f := range c.Features {
		features[f.Name] = f.Score
	}
	return resultEntity{
		ID:         c.Entity.ID,
		Caption:    c.Entity.Caption,
		Schema:     c.Entity.Schema,
		Datasets:   c.Entity.Datasets,
		Referents:  c.Entity.Referents,
		Target:     c.Entity.Target,
		FirstSeen:  c.Entity.FirstSeen,
		LastSeen:   c.Entity.LastSeen,
		LastChange: c.Entity.LastChange,
		Properties: c.Entity.Properties.Strings,
		Match:      c.Match,
		Score:      c.Score,
		Features:   features,
	}
}

// algorithmsResponse is GET /algorithms's JSON response.
type algorithmsResponse struct {
	Algorithms []algorithmEntry `json:"algorithms"`
	Best       string           `json:"best"`
	Default    string           `json:"default"`
}

type algorithmEntry struct {
	Name string `json:"name"`
}
