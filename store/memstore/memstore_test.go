package memstore

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lazyrest/lazyrest/store"
)

func seeded() *Store {
	s := New()
	s.Seed(
		store.Record{"id": "u1", "name": "Ada", "age": 36, "email": "ada@example.com"},
		store.Record{"id": "u2", "name": "Alan", "age": 41, "email": "alan@example.com"},
		store.Record{"id": "u3", "name": "Grace", "age": 85, "email": nil},
	)
	return s
}

func names(t *testing.T, recs []store.Record) []string {
	t.Helper()
	out := make([]string, len(recs))
	for i, rec := range recs {
		out[i] = rec["name"].(string)
	}
	return out
}

func TestSeed_GeneratesIDs(t *testing.T) {
	s := New()
	s.Seed(store.Record{"name": "x"})

	recs, err := s.Query().All(context.Background())
	require.NoError(t, err)
	require.Len(t, recs, 1)
	assert.NotEmpty(t, recs[0]["id"])
}

func TestFilter_Lookups(t *testing.T) {
	ctx := context.Background()
	q := seeded().Query()

	tests := []struct {
		name   string
		field  string
		lookup string
		value  interface{}
		want   []string
	}{
		{"exact", "name", "exact", "Ada", []string{"Ada"}},
		{"iexact", "name", "iexact", "ada", []string{"Ada"}},
		{"contains", "email", "contains", "alan", []string{"Alan"}},
		{"icontains", "name", "icontains", "A", []string{"Ada", "Alan", "Grace"}},
		{"startswith", "name", "startswith", "A", []string{"Ada", "Alan"}},
		{"istartswith", "name", "istartswith", "gr", []string{"Grace"}},
		{"in", "name", "in", "Ada,Grace", []string{"Ada", "Grace"}},
		{"lt", "age", "lt", 41, []string{"Ada"}},
		{"lte", "age", "lte", "41", []string{"Ada", "Alan"}},
		{"gt", "age", "gt", 41, []string{"Grace"}},
		{"gte", "age", "gte", 41, []string{"Alan", "Grace"}},
		{"isnull true", "email", "isnull", "true", []string{"Grace"}},
		{"isnull false", "email", "isnull", "false", []string{"Ada", "Alan"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			recs, err := q.Filter(tt.field, tt.lookup, tt.value).All(ctx)
			require.NoError(t, err)
			assert.ElementsMatch(t, tt.want, names(t, recs))
		})
	}
}

func TestFilter_Chaining(t *testing.T) {
	ctx := context.Background()
	base := seeded().Query()

	narrowed := base.Filter("name", "startswith", "A").Filter("age", "gt", 40)
	recs, err := narrowed.All(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"Alan"}, names(t, recs))

	// The original query is unaffected by refinements.
	recs, err = base.All(ctx)
	require.NoError(t, err)
	assert.Len(t, recs, 3)
}

func TestOrderBy(t *testing.T) {
	ctx := context.Background()
	q := seeded().Query()

	recs, err := q.OrderBy("name").All(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"Ada", "Alan", "Grace"}, names(t, recs))

	recs, err = q.OrderBy("-age").All(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"Grace", "Alan", "Ada"}, names(t, recs))
}

func TestOrderBy_MultipleFields(t *testing.T) {
	s := New()
	s.Seed(
		store.Record{"id": "1", "group": "b", "name": "x"},
		store.Record{"id": "2", "group": "a", "name": "z"},
		store.Record{"id": "3", "group": "a", "name": "y"},
	)

	recs, err := s.Query().OrderBy("group", "name").All(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"y", "z", "x"}, names(t, recs))
}

func TestSearch(t *testing.T) {
	ctx := context.Background()
	q := seeded().Query()

	fields := []store.SearchField{
		{Field: "name", Lookup: "istartswith"},
		{Field: "email", Lookup: "icontains"},
	}

	recs, err := q.Search("gra", fields).All(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"Grace"}, names(t, recs))

	// Any matching field qualifies the record.
	recs, err = q.Search("example.com", fields).All(ctx)
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"Ada", "Alan"}, names(t, recs))
}

func TestGet(t *testing.T) {
	ctx := context.Background()
	q := seeded().Query()

	rec, err := q.Get(ctx, "u2")
	require.NoError(t, err)
	assert.Equal(t, "Alan", rec["name"])

	_, err = q.Get(ctx, "missing")
	assert.ErrorIs(t, err, store.ErrNotFound)
}

func TestInsert(t *testing.T) {
	ctx := context.Background()
	s := New()

	rec, err := s.Query().Insert(ctx, store.Record{"name": "Edsger"})
	require.NoError(t, err)
	assert.NotEmpty(t, rec["id"])
	assert.Equal(t, 1, s.Len())
}

func TestUpdate(t *testing.T) {
	ctx := context.Background()
	q := seeded().Query()

	rec, err := q.Update(ctx, "u1", store.Record{"name": "Ada L.", "id": "forged"})
	require.NoError(t, err)
	assert.Equal(t, "Ada L.", rec["name"])
	assert.Equal(t, "u1", rec["id"])

	_, err = q.Update(ctx, "missing", store.Record{"name": "x"})
	assert.ErrorIs(t, err, store.ErrNotFound)
}

func TestDelete(t *testing.T) {
	ctx := context.Background()
	s := seeded()
	q := s.Query()

	require.NoError(t, q.Delete(ctx, "u1"))
	assert.Equal(t, 2, s.Len())

	assert.ErrorIs(t, q.Delete(ctx, "u1"), store.ErrNotFound)
}

func TestAll_ReturnsCopies(t *testing.T) {
	ctx := context.Background()
	s := seeded()

	recs, err := s.Query().All(ctx)
	require.NoError(t, err)
	recs[0]["name"] = "mutated"

	rec, err := s.Query().Get(ctx, recs[0]["id"].(string))
	require.NoError(t, err)
	assert.NotEqual(t, "mutated", rec["name"])
}
