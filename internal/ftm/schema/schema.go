// Package schema loads the embedded FollowTheMoney schema descriptions and
// answers inheritance questions against them: is-a checks, the transitive
// property map, and the matchable/descendant chains the query builder and
// feature matchers rely on.
//
// The schema set embedded under assets/ is a working subset of the real
// FollowTheMoney ontology (Thing, LegalEntity, Person, Company, Vessel,
// Address, CryptoWallet, and friends) authored for this service rather than
// vendored from upstream, since the reference implementation's assets
// directory is not part of the example pack (see DESIGN.md).
package schema

import (
	"embed"
	"fmt"
	"sort"
	"sync"

	"gopkg.in/yaml.v3"
)

//go:embed assets/*.yaml
var assetsFS embed.FS

// Property describes one property descriptor of a Schema.
type Property struct {
	Type      string        `yaml:"type"`
	Matchable bool          `yaml:"matchable"`
	Reverse   *ReverseField `yaml:"reverse,omitempty"`
}

// ReverseField names the property that points back from the property's
// target schema.
type ReverseField struct {
	Name string `yaml:"name"`
}

// rawProperty lets "matchable" default to true when absent, matching
// the reference schema format (a property descriptor with no "matchable"
// key is matchable).
type rawProperty struct {
	Type      string        `yaml:"type"`
	Matchable *bool         `yaml:"matchable"`
	Reverse   *ReverseField `yaml:"reverse,omitempty"`
}

type rawSchema struct {
	Extends    []string               `yaml:"extends"`
	Matchable  bool                   `yaml:"matchable"`
	Edge       bool                   `yaml:"edge"`
	Caption    []string               `yaml:"caption"`
	Properties map[string]rawProperty `yaml:"properties"`
}

// Schema is a named type in the FollowTheMoney inheritance DAG.
type Schema struct {
	Name      string
	Extends   []string
	Matchable bool
	// Edge marks a relationship schema (e.g. Associate, Ownership) whose
	// entity-typed properties connect two other entities rather than
	// describing attributes of a single one. Nested expansion only
	// continues traversing past edge schemas (per SPEC_FULL.md §4.I).
	Edge       bool
	Caption    []string
	Properties map[string]Property

	// Parents is self followed by a DFS of Extends, first-seen order, deduped.
	Parents []string
	// MatchableChain is the same traversal restricted to matchable nodes
	// (plus "Thing", which is always included).
	MatchableChain []string
	// Descendants is the transitive inverse of Extends.
	Descendants []string
}

// ErrInvalidSchema is returned when a schema name is unknown, or (when
// root-matchable is required) exists but is not matchable.
type ErrInvalidSchema struct {
	Name string
}

func (e *ErrInvalidSchema) Error() string {
	return fmt.Sprintf("invalid schema: %q", e.Name)
}

// Registry is the process-wide, immutable-after-init schema set.
type Registry struct {
	schemas map[string]*Schema
}

var (
	once     sync.Once
	registry *Registry
	initErr  error
)

// Default returns the process-wide registry, parsing the embedded schema
// YAMLs on first call.
func Default() *Registry {
	once.Do(func() {
		registry, initErr = load(assetsFS)
		if initErr != nil {
			panic(fmt.Sprintf("schema: failed to load embedded schemas: %v", initErr))
		}
	})
	return registry
}

func load(fsys embed.FS) (*Registry, error) {
	entries, err := fsys.ReadDir("assets")
	if err != nil {
		return nil, fmt.Errorf("reading assets: %w", err)
	}

	raw := make(map[string]rawSchema, len(entries))
	for _, entry := range entries {
		data, err := fsys.ReadFile("assets/" + entry.Name())
		if err != nil {
			return nil, fmt.Errorf("reading %s: %w", entry.Name(), err)
		}
		var doc map[string]rawSchema
		if err := yaml.Unmarshal(data, &doc); err != nil {
			return nil, fmt.Errorf("parsing %s: %w", entry.Name(), err)
		}
		for name, s := range doc {
			raw[name] = s
		}
	}

	schemas := make(map[string]*Schema, len(raw))
	for name, rs := range raw {
		props := make(map[string]Property, len(rs.Properties))
		for pname, rp := range rs.Properties {
			matchable := true
			if rp.Matchable != nil {
				matchable = *rp.Matchable
			}
			props[pname] = Property{Type: rp.Type, Matchable: matchable, Reverse: rp.Reverse}
		}
		schemas[name] = &Schema{
			Name:       name,
			Extends:    rs.Extends,
			Matchable:  rs.Matchable,
			Edge:       rs.Edge,
			Caption:    rs.Caption,
			Properties: props,
		}
	}

	for name, s := range schemas {
		chain, err := resolveSchemas(schemas, name, true)
		if err == nil {
			s.MatchableChain = chain
		}
		parents, err := resolveSchemas(schemas, name, false)
		if err != nil {
			return nil, fmt.Errorf("schema %s: %w", name, err)
		}
		s.Parents = parents
	}

	children := make(map[string][]string, len(schemas))
	for name, s := range schemas {
		for _, parent := range s.Extends {
			children[parent] = append(children[parent], name)
		}
	}

	for name := range schemas {
		seen := make(map[string]struct{})
		var stack []string
		stack = append(stack, children[name]...)
		for len(stack) > 0 {
			node := stack[len(stack)-1]
			stack = stack[:len(stack)-1]
			if _, ok := seen[node]; ok {
				continue
			}
			seen[node] = struct{}{}
			stack = append(stack, children[node]...)
		}
		out := make([]string, 0, len(seen))
		for n := range seen {
			out = append(out, n)
		}
		sort.Strings(out)
		schemas[name].Descendants = out
	}

	return &Registry{schemas: schemas}, nil
}

// resolveSchemas ports crates/libmotiva/src/schemas.rs::resolve_schemas: a
// DFS over extends, collecting self then every ancestor. When ifMatchable
// is set, the root must be matchable (or "Thing"), and ancestors are kept
// only if they are matchable or "Thing".
func resolveSchemas(schemas map[string]*Schema, name string, ifMatchable bool) ([]string, error) {
	def, ok := schemas[name]
	if !ok {
		return nil, &ErrInvalidSchema{Name: name}
	}
	if ifMatchable && name != "Thing" && !def.Matchable {
		return nil, &ErrInvalidSchema{Name: name}
	}

	out := make([]string, 0, 8)
	if !ifMatchable || def.Matchable || name == "Thing" {
		out = append(out, name)
	}
	for _, parent := range def.Extends {
		rest, err := resolveSchemas(schemas, parent, false)
		if err != nil {
			return nil, err
		}
		for _, n := range rest {
			if !ifMatchable || n == "Thing" || schemas[n].Matchable {
				out = append(out, n)
			}
		}
	}
	return dedupePreserveOrder(out), nil
}

func dedupePreserveOrder(vals []string) []string {
	seen := make(map[string]struct{}, len(vals))
	out := make([]string, 0, len(vals))
	for _, v := range vals {
		if _, ok := seen[v]; ok {
			continue
		}
		seen[v] = struct{}{}
		out = append(out, v)
	}
	return out
}

// Get returns the named schema, or ErrInvalidSchema if it does not exist.
func (r *Registry) Get(name string) (*Schema, error) {
	s, ok := r.schemas[name]
	if !ok {
		return nil, &ErrInvalidSchema{Name: name}
	}
	return s, nil
}

// IsA reports whether other equals schema or appears in schema's ancestor
// chain through Extends.
func (r *Registry) IsA(schemaName, other string) bool {
	s, ok := r.schemas[schemaName]
	if !ok {
		return false
	}
	for _, p := range s.Parents {
		if p == other {
			return true
		}
	}
	return false
}

// IsEdge reports whether schemaName is a relationship (edge) schema.
// Unknown names report false.
func (r *Registry) IsEdge(schemaName string) bool {
	s, ok := r.schemas[schemaName]
	return ok && s.Edge
}

// Properties returns the full property map for schemaName, merged from the
// schema itself and every ancestor.
func (r *Registry) Properties(schemaName string) (map[string]Property, error) {
	s, ok := r.schemas[schemaName]
	if !ok {
		return nil, &ErrInvalidSchema{Name: schemaName}
	}
	out := make(map[string]Property)
	for _, ancestor := range s.Parents {
		a, ok := r.schemas[ancestor]
		if !ok {
			continue
		}
		for pname, p := range a.Properties {
			if _, exists := out[pname]; !exists {
				out[pname] = p
			}
		}
	}
	return out, nil
}

// PropertyType looks up the FTM type of propertyName by walking
// schemaName's parent chain in order and returning the first match, the
// same first-match-wins walk the identifier matcher uses to decide which
// type family a property like "leiCode" belongs to.
func (r *Registry) PropertyType(schemaName, propertyName string) (string, bool) {
	s, ok := r.schemas[schemaName]
	if !ok {
		return "", false
	}
	for _, ancestor := range s.Parents {
		a, ok := r.schemas[ancestor]
		if !ok {
			continue
		}
		if p, ok := a.Properties[propertyName]; ok {
			return p.Type, true
		}
	}
	return "", false
}

// PropertiesOfType returns every property name, across schemaName's parent
// chain, whose FTM type equals typ, deduped and in first-seen order. This
// is how the identifier matcher gathers the full set of sibling identifier
// properties (e.g. every "identifier"-typed property on a schema) once it
// knows which type a specific property belongs to.
func (r *Registry) PropertiesOfType(schemaName, typ string) []string {
	s, ok := r.schemas[schemaName]
	if !ok {
		return nil
	}
	var out []string
	seen := make(map[string]struct{})
	for _, ancestor := range s.Parents {
		a, ok := r.schemas[ancestor]
		if !ok {
			continue
		}
		for pname, p := range a.Properties {
			if p.Type != typ {
				continue
			}
			if _, dup := seen[pname]; dup {
				continue
			}
			seen[pname] = struct{}{}
			out = append(out, pname)
		}
	}
	return out
}

// ResolveSchemas returns the chain used to build index schema filters: the
// matchable ancestor chain of name (including name itself when matchable,
// and Thing unconditionally) unioned with name's descendants. When
// rootRequiredMatchable is true and name is neither "Thing" nor matchable,
// it fails with ErrInvalidSchema; unknown names always fail.
func (r *Registry) ResolveSchemas(name string, rootRequiredMatchable bool) ([]string, error) {
	s, ok := r.schemas[name]
	if !ok {
		return nil, &ErrInvalidSchema{Name: name}
	}
	if rootRequiredMatchable && name != "Thing" && !s.Matchable {
		return nil, &ErrInvalidSchema{Name: name}
	}
	out := append([]string(nil), s.MatchableChain...)
	out = append(out, s.Descendants...)
	return dedupePreserveOrder(out), nil
}
