package api

import "github.com/Aman-CERP/motiva/internal/ftm/model"

// renderEntity flattens an EntityRef's nested-expansion graph (built by
// internal/ftm/nested) into a plain JSON tree: entity-valued properties
// become arrays of nested entity objects instead of bare ids. path guards
// against the reverse-link step (nested.applyReverseLinks) having created
// a cycle: an entity already on the current render path is emitted as a
// bare {"id": ...} stub instead of being re-expanded.
func renderEntity(ref *model.EntityRef, path map[string]bool) map[string]any {
	e := ref.E
	path[e.ID] = true
	defer delete(path, e.ID)

	props := make(map[string]any, len(e.Properties.Strings)+len(e.Properties.Entities))
	for name, values := range e.Properties.Strings {
		props[name] = values
	}
	for name, children := range e.Properties.Entities {
		nested := make([]any, 0, len(children))
		for _, child := range children {
			if path[child.E.ID] {
				nested = append(nested, map[string]any{"id": child.E.ID})
				continue
			}
			nested = append(nested, renderEntity(child, path))
		}
		props[name] = nested
	}

	return map[string]any{
		"id":          e.ID,
		"caption":     e.Caption,
		"schema":      e.Schema,
		"datasets":    e.Datasets,
		"referents":   e.Referents,
		"target":      e.Target,
		"first_seen":  e.FirstSeen,
		"last_seen":   e.LastSeen,
		"last_change": e.LastChange,
		"properties":  props,
	}
}
