package index

import (
	"context"

	aerrors "github.com/Aman-CERP/motiva/internal/errors"
	"github.com/Aman-CERP/motiva/internal/ftm/catalog"
	"github.com/Aman-CERP/motiva/internal/ftm/model"
	"github.com/Aman-CERP/motiva/internal/ftm/query"
)

// Resilient wraps a Provider with the teacher's retry/circuit-breaker
// machinery (internal/errors), the one genuinely flaky external
// dependency in this service: a remote or on-disk index that can time
// out, get corrupted, or otherwise misbehave independently of request
// correctness.
type Resilient struct {
	inner   Provider
	breaker *aerrors.CircuitBreaker
	retry   aerrors.RetryConfig
}

// NewResilient wraps inner with a circuit breaker (named "index") and the
// given retry policy.
func NewResilient(inner Provider, retry aerrors.RetryConfig) *Resilient {
	return &Resilient{
		inner:   inner,
		breaker: aerrors.NewCircuitBreaker("index"),
		retry:   retry,
	}
}

func (r *Resilient) call(ctx context.Context, fn func() error) error {
	return r.breaker.Execute(func() error {
		return aerrors.Retry(ctx, r.retry, fn)
	})
}

// Search retries and circuit-breaks Search against the wrapped provider.
func (r *Resilient) Search(ctx context.Context, sq *query.StructuredQuery) ([]*model.Entity, error) {
	var out []*model.Entity
	err := r.call(ctx, func() error {
		hits, err := r.inner.Search(ctx, sq)
		if err != nil {
			return err
		}
		out = hits
		return nil
	})
	return out, err
}

// GetRelatedEntities retries and circuit-breaks a nested-expansion fetch.
func (r *Resilient) GetRelatedEntities(ctx context.Context, ids []string, rootID string, constrainToRoot bool, seen map[string]struct{}) ([]*model.Entity, error) {
	var out []*model.Entity
	err := r.call(ctx, func() error {
		hits, err := r.inner.GetRelatedEntities(ctx, ids, rootID, constrainToRoot, seen)
		if err != nil {
			return err
		}
		out = hits
		return nil
	})
	return out, err
}

// GetEntity retries and circuit-breaks a single-entity fetch.
func (r *Resilient) GetEntity(ctx context.Context, id string) (*model.Entity, error) {
	var out *model.Entity
	err := r.call(ctx, func() error {
		e, err := r.inner.GetEntity(ctx, id)
		if err != nil {
			return err
		}
		out = e
		return nil
	})
	return out, err
}

// ListIndices is not retried: it backs catalog refresh, which already
// runs on its own timer and tolerates a skipped cycle.
func (r *Resilient) ListIndices(ctx context.Context) ([]catalog.IndexVersion, error) {
	return r.inner.ListIndices(ctx)
}

// Health bypasses the circuit breaker: readiness checks must reflect the
// provider's live state, not a tripped breaker's cached failure.
func (r *Resilient) Health(ctx context.Context) error {
	return r.inner.Health(ctx)
}
