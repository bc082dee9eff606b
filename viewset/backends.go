package viewset

import (
	"net/http"
	"strings"

	"github.com/lazyrest/lazyrest/store"
)

// Query parameter names recognized by the built-in filter backends.
const (
	OrderingParam = "ordering"
	SearchParam   = "search"
)

// Backend narrows a collection from request parameters. Every viewset runs
// the ordering, search, and declarative-filter backends, in that order.
type Backend interface {
	Apply(q store.Queryable, r *http.Request) store.Queryable
}

// OrderingBackend applies the ordering query parameter: a comma-separated
// list of ordering fields, each optionally prefixed with '-' for descending
// order. Fields outside the viewset's ordering list are dropped. Without
// the parameter the viewset's default ordering applies.
type OrderingBackend struct {
	viewset *ViewSet
}

// Apply implements Backend.
func (b *OrderingBackend) Apply(q store.Queryable, r *http.Request) store.Queryable {
	raw := r.URL.Query().Get(OrderingParam)
	if raw == "" {
		if b.viewset.defaultOrdering != "" {
			return q.OrderBy(b.viewset.defaultOrdering)
		}
		return q
	}

	allowed := make(map[string]bool, len(b.viewset.orderingFields))
	for _, f := range b.viewset.orderingFields {
		allowed[f] = true
	}

	var fields []string
	for _, f := range strings.Split(raw, ",") {
		f = strings.TrimSpace(f)
		if f == "" {
			continue
		}
		if allowed[strings.TrimPrefix(f, "-")] {
			fields = append(fields, f)
		}
	}
	if len(fields) == 0 {
		if b.viewset.defaultOrdering != "" {
			return q.OrderBy(b.viewset.defaultOrdering)
		}
		return q
	}
	return q.OrderBy(fields...)
}

// SearchBackend applies the search query parameter across the viewset's
// search fields.
type SearchBackend struct {
	viewset *ViewSet
}

// Apply implements Backend.
func (b *SearchBackend) Apply(q store.Queryable, r *http.Request) store.Queryable {
	term := r.URL.Query().Get(SearchParam)
	if term == "" || len(b.viewset.searchClauses) == 0 {
		return q
	}
	return q.Search(term, b.viewset.searchClauses)
}

// FilterBackend applies the declarative filter set attached at
// registration time. A viewset registered without one filters nothing.
type FilterBackend struct {
	viewset *ViewSet
}

// Apply implements Backend.
func (b *FilterBackend) Apply(q store.Queryable, r *http.Request) store.Queryable {
	if b.viewset.filterSet == nil {
		return q
	}
	return b.viewset.filterSet.Apply(q, r.URL.Query())
}
