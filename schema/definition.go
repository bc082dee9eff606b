package schema

import (
	"errors"
	"fmt"
	"strings"

	utilstrings "github.com/lazyrest/lazyrest/internal/util/strings"
	"github.com/lazyrest/lazyrest/store"
)

// Definition errors
var (
	// ErrNoQueryset is returned when resolving the queryable collection of
	// an abstract model. Always a usage defect surfaced at build time.
	ErrNoQueryset = errors.New("abstract model has no queryset")

	// ErrInvalidDefinition is returned when a definition cannot be
	// finalized from its raw attributes.
	ErrInvalidDefinition = errors.New("invalid model definition")
)

// Reserved attribute keys consumed by Finalize.
const (
	KeyFields   = "fields"
	KeyAbstract = "abstract"
	KeyQueryset = "queryset"
	KeyTable    = "table"
)

// Meta is the descriptive metadata of a finalized definition.
type Meta struct {
	// Name is the canonical lowercase model name.
	Name string

	// Table is the storage collection name, <snake_case name>s unless
	// overridden via the table attribute.
	Table string

	// Abstract definitions produce no queryable collection.
	Abstract bool
}

// Definition is a finalized model definition: a record type with named
// typed attributes, zero or more base definitions, and an abstract flag.
// Definitions are immutable after Finalize.
type Definition struct {
	meta     Meta
	fields   []Field
	bases    []*Definition
	queryset store.Queryable
}

// Finalize builds a definition from the remaining raw attributes, after
// the metadata blocks have been extracted. Recognized keys: fields
// ([]Field), abstract (bool), queryset (store.Queryable), table (string).
// An abstract definition must not carry a queryset.
func Finalize(name string, attrs Attrs, bases ...*Definition) (*Definition, error) {
	if name == "" {
		return nil, fmt.Errorf("%w: empty model name", ErrInvalidDefinition)
	}

	def := &Definition{
		meta:  Meta{Name: strings.ToLower(name)},
		bases: append([]*Definition(nil), bases...),
	}

	if v, ok := attrs[KeyFields]; ok {
		fields, ok := v.([]Field)
		if !ok {
			return nil, fmt.Errorf("%w: %s attribute of model %s is not []Field", ErrInvalidDefinition, KeyFields, name)
		}
		def.fields = append([]Field(nil), fields...)
		delete(attrs, KeyFields)
	}
	if v, ok := attrs[KeyAbstract]; ok {
		abstract, ok := v.(bool)
		if !ok {
			return nil, fmt.Errorf("%w: %s attribute of model %s is not bool", ErrInvalidDefinition, KeyAbstract, name)
		}
		def.meta.Abstract = abstract
		delete(attrs, KeyAbstract)
	}
	if v, ok := attrs[KeyQueryset]; ok {
		qs, ok := v.(store.Queryable)
		if !ok {
			return nil, fmt.Errorf("%w: %s attribute of model %s is not store.Queryable", ErrInvalidDefinition, KeyQueryset, name)
		}
		def.queryset = qs
		delete(attrs, KeyQueryset)
	}
	if v, ok := attrs[KeyTable]; ok {
		table, ok := v.(string)
		if !ok {
			return nil, fmt.Errorf("%w: %s attribute of model %s is not string", ErrInvalidDefinition, KeyTable, name)
		}
		def.meta.Table = table
		delete(attrs, KeyTable)
	}

	if def.meta.Table == "" {
		def.meta.Table = utilstrings.ToSnakeCase(name) + "s"
	}
	if def.meta.Abstract && def.queryset != nil {
		return nil, fmt.Errorf("%w: abstract model %s declares a queryset", ErrInvalidDefinition, name)
	}

	return def, nil
}

// Name returns the canonical lowercase model name.
func (d *Definition) Name() string { return d.meta.Name }

// Meta returns the descriptive metadata of the definition.
func (d *Definition) Meta() Meta { return d.meta }

// Abstract reports whether the definition is abstract.
func (d *Definition) Abstract() bool { return d.meta.Abstract }

// Fields returns the definition's own typed attributes.
func (d *Definition) Fields() []Field {
	return append([]Field(nil), d.fields...)
}

// Bases returns the base definitions in declaration order.
func (d *Definition) Bases() []*Definition {
	return append([]*Definition(nil), d.bases...)
}

// Objects resolves the base queryable collection. Resolving it on an
// abstract definition is a usage error.
func (d *Definition) Objects() (store.Queryable, error) {
	if d.meta.Abstract || d.queryset == nil {
		return nil, fmt.Errorf("model %s: %w", d.meta.Name, ErrNoQueryset)
	}
	return d.queryset, nil
}
