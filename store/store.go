// Package store defines the boundary between generated endpoints and the
// persistence layer. Implementations provide a chainable, immutable query
// surface; the rest of the library never talks to a database directly.
package store

import "context"

// Record is a single persisted row, keyed by field name.
type Record map[string]interface{}

// SearchField names a field participating in free-text search together with
// the lookup used to match it ("icontains", "istartswith" or "iexact").
type SearchField struct {
	Field  string
	Lookup string
}

// Queryable is a filterable collection of records. Every refinement method
// returns a derived query and leaves the receiver untouched, so a Queryable
// held by a viewset can be shared across requests.
//
// Lookup names follow the filtering vocabulary: exact, iexact, contains,
// icontains, startswith, istartswith, in, lt, lte, gt, gte, isnull.
type Queryable interface {
	// Filter narrows the collection to records where field matches value
	// under the given lookup.
	Filter(field, lookup string, value interface{}) Queryable

	// OrderBy sorts the collection. A leading '-' reverses a field.
	OrderBy(fields ...string) Queryable

	// Search narrows the collection to records where any of the fields
	// matches the term.
	Search(term string, fields []SearchField) Queryable

	// All materializes the collection.
	All(ctx context.Context) ([]Record, error)

	// Get returns the record with the given primary key.
	Get(ctx context.Context, id string) (Record, error)

	// Insert stores a new record and returns it with generated fields set.
	Insert(ctx context.Context, rec Record) (Record, error)

	// Update overwrites the given fields of the record with the given
	// primary key and returns the stored record.
	Update(ctx context.Context, id string, rec Record) (Record, error)

	// Delete removes the record with the given primary key.
	Delete(ctx context.Context, id string) error
}
