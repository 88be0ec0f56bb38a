package api

import (
	"net/url"
	"strconv"
	"strings"

	"github.com/Aman-CERP/motiva/internal/ftm/model"
)

// mergeParams builds a MatchParams from the hardcoded defaults, overridden
// by the match route's query string (limit, threshold, cutoff, algorithm,
// topics, include_dataset, exclude_dataset), then extended by the body's
// optional params block (include_datasets, exclude_datasets,
// exclude_entity_ids), per SPEC_FULL.md §12/§6.
func mergeParams(scope string, q url.Values, body *matchBodyParams) model.MatchParams {
	p := model.DefaultMatchParams()
	p.Scope = scope

	if v := q.Get("limit"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			p.Limit = n
		}
	}
	if v := q.Get("threshold"); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			p.Threshold = f
		}
	}
	if v := q.Get("cutoff"); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			p.Cutoff = f
		}
	}
	if v := q.Get("algorithm"); v != "" {
		p.Algorithm = v
	}
	p.Topics = multiValue(q, "topics")
	p.IncludeDataset = multiValue(q, "include_dataset")
	p.ExcludeDataset = multiValue(q, "exclude_dataset")

	if body != nil {
		p.IncludeDataset = append(p.IncludeDataset, body.IncludeDatasets...)
		p.ExcludeDataset = append(p.ExcludeDataset, body.ExcludeDatasets...)
		p.ExcludeEntityIDs = append(p.ExcludeEntityIDs, body.ExcludeEntityIDs...)
	}

	return p
}

// multiValue reads key from q, accepting either repeated query
// parameters (?topics=a&topics=b) or a single comma-separated value
// (?topics=a,b).
func multiValue(q url.Values, key string) []string {
	vals := q[key]
	if len(vals) == 0 {
		return nil
	}
	if len(vals) == 1 && strings.Contains(vals[0], ",") {
		parts := strings.Split(vals[0], ",")
		out := make([]string, 0, len(parts))
		for _, p := range parts {
			if p = strings.TrimSpace(p); p != "" {
				out = append(out, p)
			}
		}
		return out
	}
	return vals
}
