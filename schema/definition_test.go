package schema

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFinalize_Defaults(t *testing.T) {
	def, err := Finalize("BlogPost", Attrs{
		"fields": []Field{{Name: "title", Type: TypeString}},
	})
	require.NoError(t, err)

	assert.Equal(t, "blogpost", def.Name())
	assert.Equal(t, "blog_posts", def.Meta().Table)
	assert.False(t, def.Abstract())
	require.Len(t, def.Fields(), 1)
	assert.Equal(t, "title", def.Fields()[0].Name)
}

func TestFinalize_TableOverride(t *testing.T) {
	def, err := Finalize("Entry", Attrs{"table": "journal"})
	require.NoError(t, err)
	assert.Equal(t, "journal", def.Meta().Table)
}

func TestFinalize_EmptyName(t *testing.T) {
	_, err := Finalize("", Attrs{})
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrInvalidDefinition)
}

func TestFinalize_AbstractWithQuerysetRejected(t *testing.T) {
	_, err := Finalize("Base", Attrs{
		"abstract": true,
		"queryset": fakeQueryable{},
	})
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrInvalidDefinition)
}

func TestFinalize_WrongAttributeType(t *testing.T) {
	_, err := Finalize("Entry", Attrs{"abstract": "yes"})
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrInvalidDefinition)
}

func TestObjects_Abstract(t *testing.T) {
	def, err := Finalize("Base", Attrs{"abstract": true})
	require.NoError(t, err)

	_, err = def.Objects()
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrNoQueryset)
}

func TestObjects_Concrete(t *testing.T) {
	qs := fakeQueryable{}
	def, err := Finalize("Entry", Attrs{"queryset": qs})
	require.NoError(t, err)

	got, err := def.Objects()
	require.NoError(t, err)
	assert.Equal(t, qs, got)
}

func TestBases(t *testing.T) {
	base, err := Finalize("Base", Attrs{"abstract": true})
	require.NoError(t, err)

	def, err := Finalize("Child", Attrs{}, base)
	require.NoError(t, err)

	require.Len(t, def.Bases(), 1)
	assert.Same(t, base, def.Bases()[0])
}
