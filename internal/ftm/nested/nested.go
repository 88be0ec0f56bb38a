// Package nested expands an entity's graph of related entities, per
// SPEC_FULL.md §4.I: an iterative, seen-set-bounded breadth-first walk
// that materializes each association once (as a model.EntityRef shared
// pointer) and links it under both its owning property and any reverse
// property named by the schema.
package nested

import (
	"context"

	"github.com/Aman-CERP/motiva/internal/ftm/model"
	"github.com/Aman-CERP/motiva/internal/ftm/schema"
)

// MaxIterations bounds the breadth-first walk, per SPEC_FULL.md §4.I.
const MaxIterations = 3

// Provider is the subset of the index contract nested expansion needs.
// constrainToRoot is only meaningful (and only set true) on iteration 0:
// it asks the provider to prefer associations whose own entity-typed
// properties reference rootID, matching SPEC_FULL.md §4.I step 1.
type Provider interface {
	GetRelatedEntities(ctx context.Context, ids []string, rootID string, constrainToRoot bool, seen map[string]struct{}) ([]*model.Entity, error)
}

// Expand walks root's entity-typed properties outward up to MaxIterations
// hops and returns every materialized entity (root included) keyed by id.
func Expand(ctx context.Context, root *model.Entity, provider Provider) (map[string]*model.EntityRef, error) {
	all := map[string]*model.EntityRef{root.ID: model.NewEntityRef(root)}
	order := []string{root.ID}
	seen := map[string]struct{}{root.ID: {}}

	queue := entityValuedIDs(root, seen)

	for iteration := 0; iteration < MaxIterations; iteration++ {
		// Past iteration 0, only a non-empty queue (populated by edge
		// schemas during the previous pass) can produce further hits: the
		// provider's root-referencing constraint only applies to iteration 0.
		if iteration > 0 && len(queue) == 0 {
			break
		}
		fetched, err := provider.GetRelatedEntities(ctx, queue, root.ID, iteration == 0, seen)
		if err != nil {
			return nil, err
		}

		var next []string
		for _, assoc := range fetched {
			if _, ok := seen[assoc.ID]; ok {
				continue
			}
			ref := model.NewEntityRef(assoc)
			all[assoc.ID] = ref
			order = append(order, assoc.ID)
			seen[assoc.ID] = struct{}{}

			attachToParent(all, order, assoc, ref)
			applyReverseLinks(all, assoc, ref)

			if iteration == 0 || schema.Default().IsEdge(assoc.Schema) {
				next = append(next, entityValuedIDs(assoc, seen)...)
			}
		}
		queue = dedupeIDs(next)
	}

	return all, nil
}

// entityProperties returns the subset of schemaName's properties whose
// type is "entity" (those whose values are other entities' ids).
func entityProperties(schemaName string) map[string]schema.Property {
	props, err := schema.Default().Properties(schemaName)
	if err != nil {
		return nil
	}
	out := make(map[string]schema.Property)
	for name, p := range props {
		if p.Type == "entity" {
			out[name] = p
		}
	}
	return out
}

func entityValuedIDs(e *model.Entity, seen map[string]struct{}) []string {
	var out []string
	for name := range entityProperties(e.Schema) {
		for _, v := range e.Properties.Strings[name] {
			if _, ok := seen[v]; !ok {
				out = append(out, v)
			}
		}
	}
	return out
}

func dedupeIDs(ids []string) []string {
	seen := make(map[string]struct{}, len(ids))
	out := ids[:0:0]
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}

// findOwningProperty reports the entity-typed property of e (if any)
// whose values include childID.
func findOwningProperty(e *model.Entity, childID string) (string, bool) {
	for name := range entityProperties(e.Schema) {
		for _, v := range e.Properties.Strings[name] {
			if v == childID {
				return name, true
			}
		}
	}
	return "", false
}

// attachToParent implements SPEC_FULL.md §4.I step 3: the association is
// attached under the first already-materialized entity (root first, then
// in discovery order) whose entity-typed property references it.
func attachToParent(all map[string]*model.EntityRef, order []string, assoc *model.Entity, ref *model.EntityRef) {
	for _, id := range order {
		if id == assoc.ID {
			continue
		}
		parent := all[id]
		if p, ok := findOwningProperty(parent.E, assoc.ID); ok {
			parent.AddRelated(p, ref)
			return
		}
	}
}

// applyReverseLinks implements SPEC_FULL.md §4.I step 4: for every
// entity-typed, reverse-named property on assoc, every value that names
// an already-materialized entity gets assoc attached under that entity's
// reverse property.
func applyReverseLinks(all map[string]*model.EntityRef, assoc *model.Entity, ref *model.EntityRef) {
	for name, desc := range entityProperties(assoc.Schema) {
		if desc.Reverse == nil {
			continue
		}
		for _, v := range assoc.Properties.Strings[name] {
			if target, ok := all[v]; ok {
				target.AddRelated(desc.Reverse.Name, ref)
			}
		}
	}
}
