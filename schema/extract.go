package schema

import (
	"errors"
	"fmt"

	"github.com/lazyrest/lazyrest/filtering"
	"github.com/lazyrest/lazyrest/serializer"
	"github.com/lazyrest/lazyrest/viewset"
)

// ErrMissingBlock is returned when a metadata block key is absent from the
// raw attributes. Define synthesizes empty blocks before extraction, so the
// condition is an internal invariant rather than a public failure mode.
var ErrMissingBlock = errors.New("metadata block missing")

// Attrs is the raw attribute map supplied at model-definition time. The
// extraction functions remove the metadata block keys so Finalize never
// sees them.
type Attrs map[string]interface{}

// Metadata block keys.
const (
	KeyAPIFields    = "APIFields"
	KeyAPIFiltering = "APIFiltering"
	KeyAPIViewset   = "APIViewset"
)

// FieldsSpec is the field-exposure block of a model definition. Every
// attribute defaults to its zero collection when absent.
type FieldsSpec struct {
	// Editable fields may be written by clients.
	Editable []string

	// Readable fields are additionally exposed read-only.
	Readable []string

	// Declared maps synthetic field names to their derivation functions.
	Declared map[string]serializer.Computed

	// Ordering fields are sortable via the ordering query parameter.
	Ordering []string

	// Searching fields are matched by free-text search; '^' marks a field
	// as prefix-matched, '=' as exact-matched.
	Searching []string
}

// ViewsetSpec is the endpoint block of a model definition.
type ViewsetSpec struct {
	// ReadOnly restricts the endpoint to list and retrieve. Defaults to
	// false.
	ReadOnly bool

	// Actions are custom collection- or item-level routes.
	Actions []viewset.Action

	// Override runs last during viewset construction and may override any
	// derived attribute.
	Override func(*viewset.ViewSet)
}

// EnsureBlocks synthesizes empty metadata blocks for any of the three keys
// absent from the attributes.
func EnsureBlocks(attrs Attrs) {
	if _, ok := attrs[KeyAPIFields]; !ok {
		attrs[KeyAPIFields] = &FieldsSpec{}
	}
	if _, ok := attrs[KeyAPIFiltering]; !ok {
		attrs[KeyAPIFiltering] = filtering.NewSpec()
	}
	if _, ok := attrs[KeyAPIViewset]; !ok {
		attrs[KeyAPIViewset] = &ViewsetSpec{}
	}
}

// ExtractFields removes and returns the field-exposure block, filling in
// absent attributes with their defaults.
func ExtractFields(attrs Attrs) (*FieldsSpec, error) {
	v, ok := attrs[KeyAPIFields]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrMissingBlock, KeyAPIFields)
	}
	delete(attrs, KeyAPIFields)

	spec, ok := v.(*FieldsSpec)
	if !ok {
		return nil, fmt.Errorf("%s block is not *FieldsSpec", KeyAPIFields)
	}
	if spec.Editable == nil {
		spec.Editable = []string{}
	}
	if spec.Readable == nil {
		spec.Readable = []string{}
	}
	if spec.Declared == nil {
		spec.Declared = map[string]serializer.Computed{}
	}
	if spec.Ordering == nil {
		spec.Ordering = []string{}
	}
	if spec.Searching == nil {
		spec.Searching = []string{}
	}
	return spec, nil
}

// ExtractFiltering removes and returns the filtering block as-is. No
// defaults apply: an absent field simply declares no filters through this
// mechanism.
func ExtractFiltering(attrs Attrs) (*filtering.Spec, error) {
	v, ok := attrs[KeyAPIFiltering]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrMissingBlock, KeyAPIFiltering)
	}
	delete(attrs, KeyAPIFiltering)

	spec, ok := v.(*filtering.Spec)
	if !ok {
		return nil, fmt.Errorf("%s block is not *filtering.Spec", KeyAPIFiltering)
	}
	return spec, nil
}

// ExtractViewset removes and returns the endpoint block, filling in absent
// attributes with their defaults.
func ExtractViewset(attrs Attrs) (*ViewsetSpec, error) {
	v, ok := attrs[KeyAPIViewset]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrMissingBlock, KeyAPIViewset)
	}
	delete(attrs, KeyAPIViewset)

	spec, ok := v.(*ViewsetSpec)
	if !ok {
		return nil, fmt.Errorf("%s block is not *ViewsetSpec", KeyAPIViewset)
	}
	if spec.Actions == nil {
		spec.Actions = []viewset.Action{}
	}
	return spec, nil
}
