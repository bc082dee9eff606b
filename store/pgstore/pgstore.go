// Package pgstore is a PostgreSQL store.Queryable implementation over
// database/sql, intended for the pgx stdlib driver. Queries are built from
// the filtering lookup vocabulary with parameterized values; column names
// are validated against the configured column list before they reach SQL.
package pgstore

import (
	"context"
	"database/sql"
	"fmt"
	"sort"
	"strings"

	"github.com/lazyrest/lazyrest/store"
)

// Store is a queryable view over one table.
type Store struct {
	db      *sql.DB
	table   string
	columns map[string]bool
}

// New creates a store over the given table. The column list bounds every
// field name accepted in filters, ordering, and writes.
func New(db *sql.DB, table string, columns []string) *Store {
	set := make(map[string]bool, len(columns))
	for _, c := range columns {
		set[c] = true
	}
	return &Store{db: db, table: table, columns: set}
}

// Query returns the base queryable collection over the table.
func (s *Store) Query() store.Queryable {
	return &query{store: s}
}

// validateColumn rejects field names outside the configured column list.
func (s *Store) validateColumn(field string) error {
	if !s.columns[field] {
		return fmt.Errorf("%w: %s", store.ErrFieldNotFound, field)
	}
	return nil
}

type condition struct {
	field  string
	lookup string
	value  interface{}
}

type searchClause struct {
	term   string
	fields []store.SearchField
}

// query is an immutable chain of refinements; SQL is built when the query
// materializes.
type query struct {
	store    *Store
	conds    []condition
	searches []searchClause
	ordering []string
}

func (q *query) fork() *query {
	return &query{
		store:    q.store,
		conds:    append([]condition(nil), q.conds...),
		searches: append([]searchClause(nil), q.searches...),
		ordering: append([]string(nil), q.ordering...),
	}
}

// Filter implements store.Queryable.
func (q *query) Filter(field, lookup string, value interface{}) store.Queryable {
	next := q.fork()
	next.conds = append(next.conds, condition{field: field, lookup: lookup, value: value})
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
	where, args, err := q.buildWhere()
	if err != nil {
		return nil, err
	}
	orderBy, err := q.buildOrderBy()
	if err != nil {
		return nil, err
	}

	sqlText := fmt.Sprintf("SELECT * FROM %s%s%s", q.store.table, where, orderBy)
	rows, err := q.store.db.QueryContext(ctx, sqlText, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query records: %w", convertError(err))
	}
	defer rows.Close()

	return scanRows(rows)
}

// Get implements store.Queryable.
func (q *query) Get(ctx context.Context, id string) (store.Record, error) {
	sqlText := fmt.Sprintf("SELECT * FROM %s WHERE id = $1 LIMIT 1", q.store.table)
	rows, err := q.store.db.QueryContext(ctx, sqlText, id)
	if err != nil {
		return nil, fmt.Errorf("failed to find record by id: %w", convertError(err))
	}
	defer rows.Close()

	recs, err := scanRows(rows)
	if err != nil {
		return nil, err
	}
	if len(recs) == 0 {
		return nil, store.ErrNotFound
	}
	return recs[0], nil
}

// Insert implements store.Queryable.
func (q *query) Insert(ctx context.Context, rec store.Record) (store.Record, error) {
	columns := writableColumns(rec)
	for _, c := range columns {
		if err := q.store.validateColumn(c); err != nil {
			return nil, err
		}
	}
	if len(columns) == 0 {
		return nil, fmt.Errorf("insert into %s: no columns", q.store.table)
	}

	placeholders := make([]string, len(columns))
	args := make([]interface{}, len(columns))
	for i, c := range columns {
		placeholders[i] = fmt.Sprintf("$%d", i+1)
		args[i] = rec[c]
	}

	sqlText := fmt.Sprintf("INSERT INTO %s (%s) VALUES (%s) RETURNING *",
		q.store.table,
		strings.Join(columns, ", "),
		strings.Join(placeholders, ", "))

	rows, err := q.store.db.QueryContext(ctx, sqlText, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to insert record: %w", convertError(err))
	}
	defer rows.Close()

	recs, err := scanRows(rows)
	if err != nil {
		return nil, err
	}
	if len(recs) == 0 {
		return nil, fmt.Errorf("insert into %s returned no row", q.store.table)
	}
	return recs[0], nil
}

// Update implements store.Queryable.
func (q *query) Update(ctx context.Context, id string, rec store.Record) (store.Record, error) {
	columns := writableColumns(rec)
	for _, c := range columns {
		if err := q.store.validateColumn(c); err != nil {
			return nil, err
		}
	}
	if len(columns) == 0 {
		return q.Get(ctx, id)
	}

	sets := make([]string, len(columns))
	args := make([]interface{}, 0, len(columns)+1)
	for i, c := range columns {
		sets[i] = fmt.Sprintf("%s = $%d", c, i+1)
		args = append(args, rec[c])
	}
	args = append(args, id)

	sqlText := fmt.Sprintf("UPDATE %s SET %s WHERE id = $%d RETURNING *",
		q.store.table,
		strings.Join(sets, ", "),
		len(columns)+1)

	rows, err := q.store.db.QueryContext(ctx, sqlText, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to update record: %w", convertError(err))
	}
	defer rows.Close()

	recs, err := scanRows(rows)
	if err != nil {
		return nil, err
	}
	if len(recs) == 0 {
		return nil, store.ErrNotFound
	}
	return recs[0], nil
}

// Delete implements store.Queryable.
func (q *query) Delete(ctx context.Context, id string) error {
	sqlText := fmt.Sprintf("DELETE FROM %s WHERE id = $1", q.store.table)
	res, err := q.store.db.ExecContext(ctx, sqlText, id)
	if err != nil {
		return fmt.Errorf("failed to delete record: %w", convertError(err))
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to delete record: %w", convertError(err))
	}
	if affected == 0 {
		return store.ErrNotFound
	}
	return nil
}

// writableColumns returns the record's column names except the primary
// key, sorted for deterministic SQL.
func writableColumns(rec store.Record) []string {
	columns := make([]string, 0, len(rec))
	for c := range rec {
		if c == "id" {
			continue
		}
		columns = append(columns, c)
	}
	sort.Strings(columns)
	return columns
}
