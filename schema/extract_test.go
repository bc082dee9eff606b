package schema

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lazyrest/lazyrest/filtering"
	"github.com/lazyrest/lazyrest/store"
)

// fakeQueryable satisfies store.Queryable for definition tests.
type fakeQueryable struct{}

func (fakeQueryable) Filter(field, lookup string, value interface{}) store.Queryable {
	return fakeQueryable{}
}
func (fakeQueryable) OrderBy(fields ...string) store.Queryable { return fakeQueryable{} }
func (fakeQueryable) Search(term string, fields []store.SearchField) store.Queryable {
	return fakeQueryable{}
}
func (fakeQueryable) All(ctx context.Context) ([]store.Record, error) { return nil, nil }
func (fakeQueryable) Get(ctx context.Context, id string) (store.Record, error) {
	return nil, store.ErrNotFound
}
func (fakeQueryable) Insert(ctx context.Context, rec store.Record) (store.Record, error) {
	return rec, nil
}
func (fakeQueryable) Update(ctx context.Context, id string, rec store.Record) (store.Record, error) {
	return rec, nil
}
func (fakeQueryable) Delete(ctx context.Context, id string) error { return nil }

func TestEnsureBlocks(t *testing.T) {
	attrs := Attrs{}
	EnsureBlocks(attrs)

	assert.IsType(t, &FieldsSpec{}, attrs[KeyAPIFields])
	assert.IsType(t, &filtering.Spec{}, attrs[KeyAPIFiltering])
	assert.IsType(t, &ViewsetSpec{}, attrs[KeyAPIViewset])
}

func TestEnsureBlocks_KeepsExisting(t *testing.T) {
	spec := &FieldsSpec{Editable: []string{"name"}}
	attrs := Attrs{KeyAPIFields: spec}
	EnsureBlocks(attrs)

	assert.Same(t, spec, attrs[KeyAPIFields])
}

func TestExtractFields_DefaultsAndRemoval(t *testing.T) {
	attrs := Attrs{KeyAPIFields: &FieldsSpec{Editable: []string{"name"}}}

	spec, err := ExtractFields(attrs)
	require.NoError(t, err)

	assert.NotContains(t, attrs, KeyAPIFields)
	assert.Equal(t, []string{"name"}, spec.Editable)
	assert.NotNil(t, spec.Readable)
	assert.NotNil(t, spec.Declared)
	assert.NotNil(t, spec.Ordering)
	assert.NotNil(t, spec.Searching)
}

func TestExtractFields_Missing(t *testing.T) {
	_, err := ExtractFields(Attrs{})
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrMissingBlock)
}

func TestExtractFields_WrongType(t *testing.T) {
	_, err := ExtractFields(Attrs{KeyAPIFields: "nope"})
	require.Error(t, err)
}

func TestExtractFiltering(t *testing.T) {
	spec := filtering.NewSpec().Set("name", filtering.OpExact)
	attrs := Attrs{KeyAPIFiltering: spec}

	got, err := ExtractFiltering(attrs)
	require.NoError(t, err)
	assert.Same(t, spec, got)
	assert.NotContains(t, attrs, KeyAPIFiltering)
}

func TestExtractViewset_Defaults(t *testing.T) {
	attrs := Attrs{KeyAPIViewset: &ViewsetSpec{ReadOnly: true}}

	spec, err := ExtractViewset(attrs)
	require.NoError(t, err)
	assert.True(t, spec.ReadOnly)
	assert.NotNil(t, spec.Actions)
	assert.NotContains(t, attrs, KeyAPIViewset)
}
