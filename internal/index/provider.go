// Package index defines the backend-agnostic contract the rest of the
// service drives a search index through: internal/index/bleve and
// internal/index/mock are its two implementations, mirroring the
// teacher's internal/store.BM25Index interface-and-dual-backend split
// (SQLite vs. Bleve) adapted to this service's domain.
package index

import (
	"context"

	"github.com/Aman-CERP/motiva/internal/ftm/catalog"
	"github.com/Aman-CERP/motiva/internal/ftm/model"
	"github.com/Aman-CERP/motiva/internal/ftm/query"
)

// Provider is the full contract a search backend must satisfy: scoring
// candidates for a structured query (dispatch), walking an entity's
// related-entity graph (nested), fetching one entity directly, reporting
// per-dataset index versions (catalog), and a liveness check.
type Provider interface {
	Search(ctx context.Context, sq *query.StructuredQuery) ([]*model.Entity, error)
	GetRelatedEntities(ctx context.Context, ids []string, rootID string, constrainToRoot bool, seen map[string]struct{}) ([]*model.Entity, error)
	GetEntity(ctx context.Context, id string) (*model.Entity, error)
	ListIndices(ctx context.Context) ([]catalog.IndexVersion, error)
	Health(ctx context.Context) error
}
