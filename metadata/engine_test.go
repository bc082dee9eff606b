package metadata

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lazyrest/lazyrest/filtering"
	"github.com/lazyrest/lazyrest/schema"
	"github.com/lazyrest/lazyrest/store/memstore"
	"github.com/lazyrest/lazyrest/viewset"
)

func TestDefine_SimpleModel(t *testing.T) {
	defer Reset()

	def, err := Define("test", "Record", schema.Attrs{
		"fields": []schema.Field{
			{Name: "key", Type: schema.TypeString},
			{Name: "value", Type: schema.TypeString},
		},
		"queryset": memstore.New().Query(),
		"APIFields": &schema.FieldsSpec{
			Editable:  []string{"key", "value"},
			Ordering:  []string{"key"},
			Searching: []string{"key", "^value"},
		},
	})
	require.NoError(t, err)
	assert.Equal(t, "record", def.Name())

	h, ok := Of(def)
	require.True(t, ok)

	ser, err := h.Serializer()
	require.NoError(t, err)
	assert.Equal(t, []string{"key", "value"}, ser.Fields())
	assert.Empty(t, ser.ReadOnly())

	ordering, err := h.Ordering()
	require.NoError(t, err)
	assert.Equal(t, []string{"key"}, ordering)

	searching, err := h.Searching()
	require.NoError(t, err)
	assert.Equal(t, []string{"key", "^value"}, searching)

	vs, err := h.Viewset()
	require.NoError(t, err)
	assert.Equal(t, "records", vs.URI())
	assert.Equal(t, "key", vs.DefaultOrdering())
	assert.False(t, vs.ReadOnly())
	assert.NotNil(t, vs.Queryset())
}

func TestDefine_EmptyBlocks(t *testing.T) {
	defer Reset()

	def, err := Define("test", "Thing", schema.Attrs{
		"queryset": memstore.New().Query(),
	})
	require.NoError(t, err)

	h, _ := Of(def)
	ser, err := h.Serializer()
	require.NoError(t, err)
	assert.Empty(t, ser.Fields())

	vs, err := h.Viewset()
	require.NoError(t, err)
	assert.Equal(t, "", vs.DefaultOrdering())
	assert.Empty(t, vs.SearchFields())
}

func TestDefine_Inheritance(t *testing.T) {
	defer Reset()

	base, err := Define("test", "TestBase", schema.Attrs{
		"queryset": memstore.New().Query(),
		"APIFields": &schema.FieldsSpec{
			Editable: []string{"name"},
			Readable: []string{"id"},
			Ordering: []string{"id", "name"},
		},
	})
	require.NoError(t, err)

	sub, err := Define("test", "TestSubclass", schema.Attrs{
		"queryset": memstore.New().Query(),
		"APIFields": &schema.FieldsSpec{
			Editable: []string{"value"},
		},
	}, base)
	require.NoError(t, err)

	h, _ := Of(sub)
	ser, err := h.Serializer()
	require.NoError(t, err)
	assert.Equal(t, []string{"id", "name", "value"}, ser.Fields())

	baseHolder, _ := Of(base)
	baseSchema, err := baseHolder.Serializer()
	require.NoError(t, err)
	assert.Same(t, baseSchema, ser.Parent())

	ordering, err := h.Ordering()
	require.NoError(t, err)
	assert.Equal(t, []string{"id", "name"}, ordering)

	vs, err := h.Viewset()
	require.NoError(t, err)
	assert.Equal(t, "id", vs.DefaultOrdering())
}

func TestDefine_DuplicatesPreserved(t *testing.T) {
	defer Reset()

	base, err := Define("test", "Base", schema.Attrs{
		"queryset": memstore.New().Query(),
		"APIFields": &schema.FieldsSpec{
			Editable: []string{"name"},
		},
	})
	require.NoError(t, err)

	sub, err := Define("test", "Sub", schema.Attrs{
		"queryset": memstore.New().Query(),
		"APIFields": &schema.FieldsSpec{
			Readable: []string{"name"},
		},
	}, base)
	require.NoError(t, err)

	h, _ := Of(sub)
	ser, err := h.Serializer()
	require.NoError(t, err)
	assert.Equal(t, []string{"name", "name"}, ser.Fields())
	assert.Equal(t, []string{"name"}, ser.ReadOnly())
}

func TestDefine_AbstractModel(t *testing.T) {
	defer Reset()

	def, err := Define("test", "Content", schema.Attrs{
		"abstract": true,
		"APIFields": &schema.FieldsSpec{
			Editable: []string{"title"},
		},
	})
	require.NoError(t, err)
	assert.True(t, def.Abstract())

	_, err = def.Objects()
	require.Error(t, err)
	assert.ErrorIs(t, err, schema.ErrNoQueryset)

	h, ok := Of(def)
	require.True(t, ok)
	vs, err := h.Viewset()
	require.NoError(t, err)
	assert.Nil(t, vs.Queryset())
}

func TestDefine_FilterInheritance(t *testing.T) {
	defer Reset()

	base, err := Define("test", "FilterBase", schema.Attrs{
		"queryset": memstore.New().Query(),
		"APIFiltering": filtering.NewSpec().
			Set("name", filtering.OpExact).
			Set("rank", filtering.OpGreaterThan),
	})
	require.NoError(t, err)

	sub, err := Define("test", "FilterSub", schema.Attrs{
		"queryset":     memstore.New().Query(),
		"APIFiltering": filtering.NewSpec().Set("name", filtering.OpIContains),
	}, base)
	require.NoError(t, err)

	h, _ := Of(sub)
	fs, err := h.Filtering()
	require.NoError(t, err)
	assert.Equal(t, []string{"name__icontains", "rank__gt"}, fs.Compile().Params())
}

func TestDefine_ViewsetInheritance(t *testing.T) {
	defer Reset()

	base, err := Define("test", "ROBase", schema.Attrs{
		"queryset":   memstore.New().Query(),
		"APIViewset": &schema.ViewsetSpec{ReadOnly: true},
	})
	require.NoError(t, err)

	sub, err := Define("test", "ROSub", schema.Attrs{
		"queryset": memstore.New().Query(),
	}, base)
	require.NoError(t, err)

	h, _ := Of(sub)
	vs, err := h.Viewset()
	require.NoError(t, err)
	assert.True(t, vs.ReadOnly())
}

func TestDefine_OverrideHook(t *testing.T) {
	defer Reset()

	def, err := Define("test", "Hooked", schema.Attrs{
		"queryset": memstore.New().Query(),
		"APIViewset": &schema.ViewsetSpec{
			Override: func(vs *viewset.ViewSet) {
				vs.SetReadOnly(true)
			},
		},
	})
	require.NoError(t, err)

	h, _ := Of(def)
	vs, err := h.Viewset()
	require.NoError(t, err)
	assert.True(t, vs.ReadOnly())
}

func TestDefine_InvalidAttrs(t *testing.T) {
	defer Reset()

	_, err := Define("test", "Broken", schema.Attrs{"abstract": "yes"})
	require.Error(t, err)
	assert.ErrorIs(t, err, schema.ErrInvalidDefinition)
}

func TestMustDefine_Panics(t *testing.T) {
	defer Reset()

	assert.Panics(t, func() {
		MustDefine("test", "Broken", schema.Attrs{"abstract": "yes"})
	})
}
