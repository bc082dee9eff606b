// Package metadata is the side-table of derived artifacts attached to
// model definitions. For every definition processed by Define it keeps a
// Holder carrying the derived serializer schema, ordering and searching
// lists, filter set, and viewset, all with write-once semantics. The
// holder is the sole integration point between a model and its generated
// endpoint.
package metadata

import (
	"net/http"

	"github.com/lazyrest/lazyrest/filtering"
	"github.com/lazyrest/lazyrest/schema"
	"github.com/lazyrest/lazyrest/serializer"
	"github.com/lazyrest/lazyrest/viewset"
)

// Router is the routing collaborator a holder registers its viewset with.
type Router interface {
	Register(path string, handler http.Handler)
}

// cell is a write-once value. Reading before the first set and setting
// twice are both usage errors.
type cell[T any] struct {
	value T
	set   bool
}

func (c *cell[T]) get() (T, bool) {
	return c.value, c.set
}

func (c *cell[T]) put(v T) bool {
	if c.set {
		return false
	}
	c.value = v
	c.set = true
	return true
}

// Holder carries the derived artifacts of one model definition. All five
// artifacts are set exactly once by the generation engine, synchronously
// at definition time, and are immutable afterwards.
type Holder struct {
	model *schema.Definition

	serializer cell[*serializer.Schema]
	ordering   cell[[]string]
	searching  cell[[]string]
	filtering  cell[*filtering.FilterSet]
	viewset    cell[*viewset.ViewSet]
}

// NewHolder creates the holder for a finalized definition.
func NewHolder(def *schema.Definition) *Holder {
	return &Holder{model: def}
}

// Model returns the model definition the holder belongs to.
func (h *Holder) Model() *schema.Definition {
	return h.model
}

// Meta returns the definition's descriptive metadata.
func (h *Holder) Meta() schema.Meta {
	return h.model.Meta()
}

// Name returns the canonical lowercase model name.
func (h *Holder) Name() string {
	return h.model.Name()
}

// Abstract reports whether the model is abstract.
func (h *Holder) Abstract() bool {
	return h.model.Abstract()
}

// Serializer returns the derived schema.
func (h *Holder) Serializer() (*serializer.Schema, error) {
	v, ok := h.serializer.get()
	if !ok {
		return nil, unsetError(h.Name(), "serializer")
	}
	return v, nil
}

// SetSerializer sets the derived schema.
func (h *Holder) SetSerializer(s *serializer.Schema) error {
	if !h.serializer.put(s) {
		return alreadySetError(h.Name(), "serializer")
	}
	return nil
}

// Ordering returns the resolved ordering field list.
func (h *Holder) Ordering() ([]string, error) {
	v, ok := h.ordering.get()
	if !ok {
		return nil, unsetError(h.Name(), "ordering")
	}
	return v, nil
}

// SetOrdering sets the resolved ordering field list.
func (h *Holder) SetOrdering(fields []string) error {
	if !h.ordering.put(fields) {
		return alreadySetError(h.Name(), "ordering")
	}
	return nil
}

// Searching returns the resolved search field list.
func (h *Holder) Searching() ([]string, error) {
	v, ok := h.searching.get()
	if !ok {
		return nil, unsetError(h.Name(), "searching")
	}
	return v, nil
}

// SetSearching sets the resolved search field list.
func (h *Holder) SetSearching(fields []string) error {
	if !h.searching.put(fields) {
		return alreadySetError(h.Name(), "searching")
	}
	return nil
}

// Filtering returns the derived filter set.
func (h *Holder) Filtering() (*filtering.FilterSet, error) {
	v, ok := h.filtering.get()
	if !ok {
		return nil, unsetError(h.Name(), "filtering")
	}
	return v, nil
}

// SetFiltering sets the derived filter set.
func (h *Holder) SetFiltering(fs *filtering.FilterSet) error {
	if !h.filtering.put(fs) {
		return alreadySetError(h.Name(), "filtering")
	}
	return nil
}

// Viewset returns the derived endpoint handler.
func (h *Holder) Viewset() (*viewset.ViewSet, error) {
	v, ok := h.viewset.get()
	if !ok {
		return nil, unsetError(h.Name(), "viewset")
	}
	return v, nil
}

// SetViewset sets the derived endpoint handler.
func (h *Holder) SetViewset(vs *viewset.ViewSet) error {
	if !h.viewset.put(vs) {
		return alreadySetError(h.Name(), "viewset")
	}
	return nil
}

// Register compiles the filter set, attaches it to the viewset, and
// registers the viewset with the router at its resource path. Compiling
// the filter set is the only derived computation deferred past definition
// time.
func (h *Holder) Register(r Router) error {
	fs, err := h.Filtering()
	if err != nil {
		return err
	}
	vs, err := h.Viewset()
	if err != nil {
		return err
	}

	vs.AttachFilterSet(fs.Compile())
	r.Register(vs.URI(), vs)
	return nil
}
