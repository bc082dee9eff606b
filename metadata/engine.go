package metadata

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/lazyrest/lazyrest/filtering"
	"github.com/lazyrest/lazyrest/schema"
	"github.com/lazyrest/lazyrest/serializer"
	"github.com/lazyrest/lazyrest/viewset"
)

// Define is the generation entry point. It finalizes a model definition
// from its raw attributes and synthesizes the five derived artifacts,
// merging artifacts inherited from base definitions.
//
// Base definitions must have been fully defined before their subclasses;
// Define for a subclass reads the bases' derived artifacts and fails with
// an UnsetAttribute condition when one is missing. Every error out of
// Define is fatal to application startup.
func Define(group, name string, attrs schema.Attrs, bases ...*schema.Definition) (*schema.Definition, error) {
	if attrs == nil {
		attrs = schema.Attrs{}
	}
	schema.EnsureBlocks(attrs)

	fieldsSpec, err := schema.ExtractFields(attrs)
	if err != nil {
		return nil, fmt.Errorf("define %s: %w", name, err)
	}
	filterSpec, err := schema.ExtractFiltering(attrs)
	if err != nil {
		return nil, fmt.Errorf("define %s: %w", name, err)
	}
	viewsetSpec, err := schema.ExtractViewset(attrs)
	if err != nil {
		return nil, fmt.Errorf("define %s: %w", name, err)
	}

	def, err := schema.Finalize(name, attrs, bases...)
	if err != nil {
		return nil, fmt.Errorf("define %s: %w", name, err)
	}

	h := NewHolder(def)
	global.attach(group, def, h)

	ser, err := buildSerializer(def, fieldsSpec, bases)
	if err != nil {
		return nil, fmt.Errorf("define %s: %w", name, err)
	}
	if err := h.SetSerializer(ser); err != nil {
		return nil, err
	}

	ordering, err := buildFieldList(bases, fieldsSpec.Ordering, (*Holder).Ordering)
	if err != nil {
		return nil, fmt.Errorf("define %s: %w", name, err)
	}
	if err := h.SetOrdering(ordering); err != nil {
		return nil, err
	}

	searching, err := buildFieldList(bases, fieldsSpec.Searching, (*Holder).Searching)
	if err != nil {
		return nil, fmt.Errorf("define %s: %w", name, err)
	}
	if err := h.SetSearching(searching); err != nil {
		return nil, err
	}

	fs, err := buildFiltering(def, filterSpec, bases)
	if err != nil {
		return nil, fmt.Errorf("define %s: %w", name, err)
	}
	if err := h.SetFiltering(fs); err != nil {
		return nil, err
	}

	vs, err := buildViewset(def, viewsetSpec, bases, h)
	if err != nil {
		return nil, fmt.Errorf("define %s: %w", name, err)
	}
	if err := h.SetViewset(vs); err != nil {
		return nil, err
	}

	logger.Debug("model defined",
		zap.String("group", group),
		zap.String("model", def.Name()),
	)
	return def, nil
}

// MustDefine is Define, panicking on error. Model definition happens at
// startup where every failure is fatal anyway.
func MustDefine(group, name string, attrs schema.Attrs, bases ...*schema.Definition) *schema.Definition {
	def, err := Define(group, name, attrs, bases...)
	if err != nil {
		panic(err)
	}
	return def
}

// buildSerializer synthesizes the derived schema: base schemas' resolved
// field lists and read-only subsets concatenated in base order, then the
// model's own readable and editable fields, with declared computed fields
// merged in verbatim. The first base schema becomes the structural parent.
// No deduplication is performed; duplicate declarations stay visible.
func buildSerializer(def *schema.Definition, spec *schema.FieldsSpec, bases []*schema.Definition) (*serializer.Schema, error) {
	baseSchemas, err := baseArtifacts(bases, (*Holder).Serializer)
	if err != nil {
		return nil, err
	}

	var fields, readOnly []string
	for _, base := range baseSchemas {
		fields = append(fields, base.Fields()...)
		readOnly = append(readOnly, base.ReadOnly()...)
	}
	fields = append(fields, spec.Readable...)
	fields = append(fields, spec.Editable...)
	readOnly = append(readOnly, spec.Readable...)

	var parent *serializer.Schema
	if len(baseSchemas) > 0 {
		parent = baseSchemas[0]
	}

	return serializer.New(serializer.Config{
		Model:    def.Name(),
		Parent:   parent,
		Fields:   fields,
		ReadOnly: readOnly,
		Declared: spec.Declared,
	}), nil
}

// buildFieldList concatenates each base's derived list with the model's
// own, base order preserved, duplicates preserved. Bases without a holder
// are skipped; a base whose artifact is unset is an ordering defect.
func buildFieldList(bases []*schema.Definition, own []string, get func(*Holder) ([]string, error)) ([]string, error) {
	var out []string
	for _, base := range bases {
		h, ok := Of(base)
		if !ok {
			continue
		}
		inherited, err := get(h)
		if err != nil {
			return nil, err
		}
		out = append(out, inherited...)
	}
	return append(out, own...), nil
}

// buildFiltering derives the filter set with every base's derived filter
// set as a structural parent.
func buildFiltering(def *schema.Definition, spec *filtering.Spec, bases []*schema.Definition) (*filtering.FilterSet, error) {
	baseSets, err := baseArtifacts(bases, (*Holder).Filtering)
	if err != nil {
		return nil, err
	}
	return filtering.Derive(def.Name(), spec, baseSets), nil
}

// buildViewset synthesizes the endpoint handler from the artifacts already
// set on the holder, the endpoint spec, and the base viewsets.
func buildViewset(def *schema.Definition, spec *schema.ViewsetSpec, bases []*schema.Definition, h *Holder) (*viewset.ViewSet, error) {
	baseViewsets, err := baseArtifacts(bases, (*Holder).Viewset)
	if err != nil {
		return nil, err
	}

	ser, err := h.Serializer()
	if err != nil {
		return nil, err
	}
	ordering, err := h.Ordering()
	if err != nil {
		return nil, err
	}
	searching, err := h.Searching()
	if err != nil {
		return nil, err
	}

	cfg := viewset.Config{
		Model:          def.Name(),
		URI:            def.Name() + "s",
		Schema:         ser,
		OrderingFields: ordering,
		SearchFields:   searching,
		ReadOnly:       spec.ReadOnly,
		Actions:        spec.Actions,
		Override:       spec.Override,
		Bases:          baseViewsets,
	}
	if len(ordering) > 0 {
		cfg.DefaultOrdering = ordering[0]
	}
	if !def.Abstract() {
		qs, err := def.Objects()
		if err != nil {
			return nil, err
		}
		cfg.Queryset = qs
	}

	return viewset.New(cfg), nil
}

// baseArtifacts collects one derived artifact from every base definition
// that carries a holder, in base declaration order.
func baseArtifacts[T any](bases []*schema.Definition, get func(*Holder) (T, error)) ([]T, error) {
	var out []T
	for _, base := range bases {
		h, ok := Of(base)
		if !ok {
			continue
		}
		artifact, err := get(h)
		if err != nil {
			return nil, err
		}
		out = append(out, artifact)
	}
	return out, nil
}
