// Package serializer holds the serialization contract derived for a model:
// the resolved field list, its read-only subset, and declared computed
// fields. Schemas are built once at definition time and are immutable.
package serializer

import "github.com/lazyrest/lazyrest/store"

// Computed derives a synthetic field value from a record.
type Computed func(rec store.Record) interface{}

// Schema is the serialization contract for one model.
//
// Fields and ReadOnly are resolved lists: base schemas' lists concatenated
// in base declaration order, followed by the model's own readable then
// editable fields. Duplicates are preserved; a field declared twice appears
// twice. The first base schema, if any, is the structural parent.
type Schema struct {
	model    string
	parent   *Schema
	fields   []string
	readOnly []string

	declared      map[string]Computed
	declaredOrder []string
}

// Config collects the resolved inputs for a schema.
type Config struct {
	Model    string
	Parent   *Schema
	Fields   []string
	ReadOnly []string
	Declared map[string]Computed

	// DeclaredOrder fixes the iteration order of Declared. Missing names
	// are appended in map order.
	DeclaredOrder []string
}

// New creates a schema from resolved field lists. The caller is responsible
// for the inheritance merge; New copies its inputs and performs none.
func New(cfg Config) *Schema {
	s := &Schema{
		model:    cfg.Model,
		parent:   cfg.Parent,
		fields:   append([]string(nil), cfg.Fields...),
		readOnly: append([]string(nil), cfg.ReadOnly...),
		declared: make(map[string]Computed, len(cfg.Declared)),
	}
	for _, name := range cfg.DeclaredOrder {
		if fn, ok := cfg.Declared[name]; ok {
			s.declared[name] = fn
			s.declaredOrder = append(s.declaredOrder, name)
		}
	}
	for name, fn := range cfg.Declared {
		if _, ok := s.declared[name]; !ok {
			s.declared[name] = fn
			s.declaredOrder = append(s.declaredOrder, name)
		}
	}
	return s
}

// Model returns the canonical name of the model the schema belongs to.
func (s *Schema) Model() string {
	return s.model
}

// Parent returns the structural parent schema, nil for root schemas.
func (s *Schema) Parent() *Schema {
	return s.parent
}

// Fields returns the resolved field list, duplicates included.
func (s *Schema) Fields() []string {
	out := make([]string, len(s.fields))
	copy(out, s.fields)
	return out
}

// ReadOnly returns the resolved read-only field list.
func (s *Schema) ReadOnly() []string {
	out := make([]string, len(s.readOnly))
	copy(out, s.readOnly)
	return out
}

// Declared returns the names of declared computed fields, own first, then
// the parent chain's.
func (s *Schema) Declared() []string {
	out := append([]string(nil), s.declaredOrder...)
	if s.parent != nil {
		out = append(out, s.parent.Declared()...)
	}
	return out
}

// computed resolves a computed field by name, searching the schema then its
// parent chain. Own declarations shadow inherited ones.
func (s *Schema) computed(name string) (Computed, bool) {
	if fn, ok := s.declared[name]; ok {
		return fn, true
	}
	if s.parent != nil {
		return s.parent.computed(name)
	}
	return nil, false
}

// Serialize renders a record according to the schema: every resolved field
// plus every declared computed field. Plain fields absent from the record
// render as nil.
func (s *Schema) Serialize(rec store.Record) map[string]interface{} {
	out := make(map[string]interface{}, len(s.fields)+len(s.declaredOrder))
	for _, field := range s.fields {
		if fn, ok := s.computed(field); ok {
			out[field] = fn(rec)
			continue
		}
		out[field] = rec[field]
	}
	for _, name := range s.Declared() {
		if _, done := out[name]; done {
			continue
		}
		fn, _ := s.computed(name)
		out[name] = fn(rec)
	}
	return out
}

// SerializeList renders a list of records.
func (s *Schema) SerializeList(recs []store.Record) []map[string]interface{} {
	out := make([]map[string]interface{}, len(recs))
	for i, rec := range recs {
		out[i] = s.Serialize(rec)
	}
	return out
}

// Writable returns the fields a client may supply on create or update:
// the resolved field list minus the read-only subset and computed fields,
// deduplicated.
func (s *Schema) Writable() []string {
	blocked := make(map[string]bool, len(s.readOnly))
	for _, f := range s.readOnly {
		blocked[f] = true
	}
	for _, f := range s.Declared() {
		blocked[f] = true
	}

	var out []string
	seen := make(map[string]bool)
	for _, f := range s.fields {
		if blocked[f] || seen[f] {
			continue
		}
		if _, computed := s.computed(f); computed {
			continue
		}
		seen[f] = true
		out = append(out, f)
	}
	return out
}

// Accept filters an incoming record down to its writable fields.
func (s *Schema) Accept(rec store.Record) store.Record {
	out := make(store.Record)
	for _, f := range s.Writable() {
		if v, ok := rec[f]; ok {
			out[f] = v
		}
	}
	return out
}
