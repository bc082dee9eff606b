package metadata

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lazyrest/lazyrest/schema"
	"github.com/lazyrest/lazyrest/store/memstore"
)

// fakeRouter records registrations.
type fakeRouter struct {
	paths []string
}

func (r *fakeRouter) Register(path string, handler http.Handler) {
	r.paths = append(r.paths, path)
}

func TestRegisterGroup(t *testing.T) {
	defer Reset()

	_, err := Define("shop", "Product", schema.Attrs{
		"queryset": memstore.New().Query(),
	})
	require.NoError(t, err)
	_, err = Define("shop", "Order", schema.Attrs{
		"queryset": memstore.New().Query(),
	})
	require.NoError(t, err)

	r := &fakeRouter{}
	require.NoError(t, RegisterGroup("shop", r))
	assert.Equal(t, []string{"products", "orders"}, r.paths)
}

func TestRegisterGroup_SkipsUnprocessedDefinitions(t *testing.T) {
	defer Reset()

	_, err := Define("shop", "Product", schema.Attrs{
		"queryset": memstore.New().Query(),
	})
	require.NoError(t, err)

	// A definition attached to the group without going through Define has
	// no holder and is skipped.
	plain, err := schema.Finalize("Legacy", schema.Attrs{})
	require.NoError(t, err)
	Attach("shop", plain)

	require.Len(t, Group("shop"), 2)

	r := &fakeRouter{}
	require.NoError(t, RegisterGroup("shop", r))
	assert.Equal(t, []string{"products"}, r.paths)
}

func TestRegisterGroup_AttachesFilterSet(t *testing.T) {
	defer Reset()

	def, err := Define("shop", "Product", schema.Attrs{
		"queryset": memstore.New().Query(),
	})
	require.NoError(t, err)

	h, _ := Of(def)
	vs, err := h.Viewset()
	require.NoError(t, err)
	assert.Nil(t, vs.FilterSet())

	require.NoError(t, RegisterGroup("shop", &fakeRouter{}))
	assert.NotNil(t, vs.FilterSet())
}

func TestRegisterGroup_UnknownGroupIsEmpty(t *testing.T) {
	defer Reset()

	r := &fakeRouter{}
	require.NoError(t, RegisterGroup("nothing", r))
	assert.Empty(t, r.paths)
}

func TestGroups(t *testing.T) {
	defer Reset()

	_, err := Define("alpha", "One", schema.Attrs{"queryset": memstore.New().Query()})
	require.NoError(t, err)
	_, err = Define("beta", "Two", schema.Attrs{"queryset": memstore.New().Query()})
	require.NoError(t, err)

	assert.ElementsMatch(t, []string{"alpha", "beta"}, Groups())
}
