// Package memstore is an in-memory store.Queryable implementation. It
// backs tests and the demo application; production deployments use a real
// persistence layer such as pgstore.
package memstore

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/google/uuid"

	"github.com/lazyrest/lazyrest/store"
)

// Store is an in-memory record collection. The primary key field is "id";
// inserts without one get a generated UUID.
type Store struct {
	mu      sync.RWMutex
	records []store.Record
}

// New creates an empty store.
func New() *Store {
	return &Store{}
}

// Seed inserts records directly, generating ids where absent. For test and
// demo fixtures.
func (s *Store) Seed(recs ...store.Record) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, rec := range recs {
		s.records = append(s.records, withID(clone(rec)))
	}
}

// Query returns the base queryable collection over the store.
func (s *Store) Query() store.Queryable {
	return &query{store: s}
}

// Len returns the number of stored records.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.records)
}

func withID(rec store.Record) store.Record {
	if _, ok := rec["id"]; !ok {
		rec["id"] = uuid.NewString()
	}
	return rec
}

func clone(rec store.Record) store.Record {
	out := make(store.Record, len(rec))
	for k, v := range rec {
		out[k] = v
	}
	return out
}

type filterClause struct {
	field  string
	lookup string
	value  interface{}
}

type searchClause struct {
	term   string
	fields []store.SearchField
}

// query is an immutable view over the store; every refinement copies the
// clause lists.
type query struct {
	store    *Store
	filters  []filterClause
	searches []searchClause
	ordering []string
}

func (q *query) fork() *query {
	return &query{
		store:    q.store,
		filters:  append([]filterClause(nil), q.filters...),
		searches: append([]searchClause(nil), q.searches...),
		ordering: append([]string(nil), q.ordering...),
	}
}

// Filter implements store.Queryable.
func (q *query) Filter(field, lookup string, value interface{}) store.Queryable {
	next := q.fork()
	next.filters = append(next.filters, filterClause{field: field, lookup: lookup, value: value})
	return next
}

// OrderBy implements store.Queryable.
func (q *query) OrderBy(fields ...string) store.Queryable {
	next := q.fork()
	next.ordering = append([]string(nil), fields...)
	return next
}

// Search implements store.Queryable.
func (q *query) Search(term string, fields []store.SearchField) store.Queryable {
	next := q.fork()
	next.searches = append(next.searches, searchClause{term: term, fields: fields})
	return next
}

// All implements store.Queryable.
func (q *query) All(ctx context.Context) ([]store.Record, error) {
	q.store.mu.RLock()
	snapshot := make([]store.Record, 0, len(q.store.records))
	for _, rec := range q.store.records {
		snapshot = append(snapshot, clone(rec))
	}
	q.store.mu.RUnlock()

	var out []store.Record
	for _, rec := range snapshot {
		if q.accepts(rec) {
			out = append(out, rec)
		}
	}
	q.sortRecords(out)
	return out, nil
}

// Get implements store.Queryable.
func (q *query) Get(ctx context.Context, id string) (store.Record, error) {
	q.store.mu.RLock()
	defer q.store.mu.RUnlock()

	for _, rec := range q.store.records {
		if stringify(rec["id"]) == id {
			return clone(rec), nil
		}
	}
	return nil, store.ErrNotFound
}

// Insert implements store.Queryable.
func (q *query) Insert(ctx context.Context, rec store.Record) (store.Record, error) {
	stored := withID(clone(rec))

	q.store.mu.Lock()
	q.store.records = append(q.store.records, stored)
	q.store.mu.Unlock()

	return clone(stored), nil
}

// Update implements store.Queryable.
func (q *query) Update(ctx context.Context, id string, rec store.Record) (store.Record, error) {
	q.store.mu.Lock()
	defer q.store.mu.Unlock()

	for _, stored := range q.store.records {
		if stringify(stored["id"]) == id {
			for k, v := range rec {
				if k == "id" {
					continue
				}
				stored[k] = v
			}
			return clone(stored), nil
		}
	}
	return nil, store.ErrNotFound
}

// Delete implements store.Queryable.
func (q *query) Delete(ctx context.Context, id string) error {
	q.store.mu.Lock()
	defer q.store.mu.Unlock()

	for i, stored := range q.store.records {
		if stringify(stored["id"]) == id {
			q.store.records = append(q.store.records[:i], q.store.records[i+1:]...)
			return nil
		}
	}
	return store.ErrNotFound
}

func (q *query) accepts(rec store.Record) bool {
	for _, f := range q.filters {
		if !match(rec[f.field], f.lookup, f.value) {
			return false
		}
	}
	for _, s := range q.searches {
		if !s.matches(rec) {
			return false
		}
	}
	return true
}

func (s searchClause) matches(rec store.Record) bool {
	for _, sf := range s.fields {
		if match(rec[sf.Field], sf.Lookup, s.term) {
			return true
		}
	}
	return false
}

func (q *query) sortRecords(recs []store.Record) {
	if len(q.ordering) == 0 {
		return
	}
	sort.SliceStable(recs, func(i, j int) bool {
		for _, field := range q.ordering {
			name, desc := field, false
			if len(name) > 0 && name[0] == '-' {
				name, desc = name[1:], true
			}
			c := compare(recs[i][name], recs[j][name])
			if c == 0 {
				continue
			}
			if desc {
				return c > 0
			}
			return c < 0
		}
		return false
	})
}

func stringify(v interface{}) string {
	if v == nil {
		return ""
	}
	return fmt.Sprint(v)
}
