package filtering

import "github.com/lazyrest/lazyrest/store"

// Predicate is a custom filter bound to a single field. It receives the
// current collection and the raw query-parameter value and returns the
// narrowed collection.
type Predicate func(q store.Queryable, value string) store.Queryable

// Entry is the filter declaration for one field: either a list of permitted
// operators or a custom predicate, never both.
type Entry struct {
	Operators []Operator
	Predicate Predicate
}

// Spec is the declarative filter block attached to a model definition. It
// maps field names to entries and preserves declaration order. The zero
// number of entries is valid and means "no filters declared".
type Spec struct {
	order   []string
	entries map[string]Entry
}

// NewSpec creates an empty filter specification.
func NewSpec() *Spec {
	return &Spec{entries: make(map[string]Entry)}
}

// Set declares the permitted operators for a field. Re-declaring a field
// replaces its entry but keeps its original position.
func (s *Spec) Set(field string, ops ...Operator) *Spec {
	s.put(field, Entry{Operators: ops})
	return s
}

// SetFunc declares a custom predicate for a field.
func (s *Spec) SetFunc(field string, p Predicate) *Spec {
	s.put(field, Entry{Predicate: p})
	return s
}

func (s *Spec) put(field string, e Entry) {
	if _, ok := s.entries[field]; !ok {
		s.order = append(s.order, field)
	}
	s.entries[field] = e
}

// Fields returns the declared field names in declaration order.
func (s *Spec) Fields() []string {
	out := make([]string, len(s.order))
	copy(out, s.order)
	return out
}

// Get returns the entry for a field.
func (s *Spec) Get(field string) (Entry, bool) {
	e, ok := s.entries[field]
	return e, ok
}

// Len returns the number of declared fields.
func (s *Spec) Len() int {
	return len(s.order)
}
