package filtering

import (
	"net/url"

	"github.com/lazyrest/lazyrest/store"
)

// FilterSet is the filter specification derived for one model. It carries
// the model's own declarations plus the filter sets of its base models as
// structural parents.
type FilterSet struct {
	model string
	bases []*FilterSet
	own   *Spec
}

// Derive builds the filter set for a model from its own specification and
// the filter sets already derived for its base models, in base declaration
// order.
func Derive(model string, spec *Spec, bases []*FilterSet) *FilterSet {
	if spec == nil {
		spec = NewSpec()
	}
	return &FilterSet{model: model, bases: bases, own: spec}
}

// Model returns the canonical name of the model the filter set belongs to.
func (fs *FilterSet) Model() string {
	return fs.model
}

// Bases returns the structural parents of the filter set.
func (fs *FilterSet) Bases() []*FilterSet {
	return fs.bases
}

// resolve flattens the parent chain into one entry per field. Bases are
// merged in declaration order with a later base overriding an earlier one
// on the same field name; the model's own entries override every base.
func (fs *FilterSet) resolve() (order []string, entries map[string]resolvedEntry) {
	entries = make(map[string]resolvedEntry)

	for _, base := range fs.bases {
		baseOrder, baseEntries := base.resolve()
		for _, field := range baseOrder {
			if _, seen := entries[field]; !seen {
				order = append(order, field)
			}
			entries[field] = baseEntries[field]
		}
	}
	for _, field := range fs.own.Fields() {
		e, _ := fs.own.Get(field)
		if _, seen := entries[field]; !seen {
			order = append(order, field)
		}
		entries[field] = resolvedEntry{owner: fs.model, entry: e}
	}
	return order, entries
}

type resolvedEntry struct {
	owner string
	entry Entry
}

// Param is one query parameter recognized by a compiled filter set.
type Param struct {
	// Name is the query-parameter name: the bare field name for exact
	// matches and custom predicates, "<field>__<lookup>" otherwise.
	Name string

	// Field is the filtered field.
	Field string

	// Method is the derived name a custom predicate is bound under, empty
	// for declarative rules.
	Method string

	apply Predicate
}

// Compiled is a filter set resolved into a flat, immutable list of query
// parameters, ready to apply at request time.
type Compiled struct {
	model  string
	params []Param
}

// Compile resolves the filter set's inheritance chain into a compiled
// filter. Declarative operator lists become one parameter per operator;
// custom predicates are bound under "filter_for_<field>".
func (fs *FilterSet) Compile() *Compiled {
	order, entries := fs.resolve()

	c := &Compiled{model: fs.model}
	for _, field := range order {
		re := entries[field]
		if re.entry.Predicate != nil {
			c.params = append(c.params, Param{
				Name:   field,
				Field:  field,
				Method: "filter_for_" + field,
				apply:  re.entry.Predicate,
			})
			continue
		}
		for _, op := range re.entry.Operators {
			c.params = append(c.params, Param{
				Name:  paramName(field, op),
				Field: field,
				apply: declarative(field, op),
			})
		}
	}
	return c
}

func paramName(field string, op Operator) string {
	if op == OpExact {
		return field
	}
	return field + "__" + op.Lookup()
}

func declarative(field string, op Operator) Predicate {
	lookup := op.Lookup()
	return func(q store.Queryable, value string) store.Queryable {
		return q.Filter(field, lookup, value)
	}
}

// Params returns the recognized query-parameter names in resolution order.
func (c *Compiled) Params() []string {
	names := make([]string, len(c.params))
	for i, p := range c.params {
		names[i] = p.Name
	}
	return names
}

// HasParam reports whether the compiled filter recognizes a parameter name.
func (c *Compiled) HasParam(name string) bool {
	for _, p := range c.params {
		if p.Name == name {
			return true
		}
	}
	return false
}

// Apply narrows q by every recognized parameter present in values,
// in resolution order. Unrecognized parameters are ignored; that is the
// concern of the surrounding framework.
func (c *Compiled) Apply(q store.Queryable, values url.Values) store.Queryable {
	for _, p := range c.params {
		if v := values.Get(p.Name); v != "" {
			q = p.apply(q, v)
		}
	}
	return q
}
