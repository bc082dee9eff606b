// Package viewset synthesizes the resource handler bound to one model:
// CRUD routes, filter backends, ordering and search configuration, and
// custom actions, mounted on a chi router.
package viewset

import (
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/lazyrest/lazyrest/filtering"
	"github.com/lazyrest/lazyrest/serializer"
	"github.com/lazyrest/lazyrest/store"
)

// ActionFunc is a custom endpoint action. It receives the viewset it is
// bound to along with the request context.
type ActionFunc func(vs *ViewSet, w http.ResponseWriter, r *http.Request)

// Action is a named custom route on a viewset. Detail actions mount under
// /{id}/<name>, collection actions under /<name>. Methods defaults to GET.
type Action struct {
	Name    string
	Detail  bool
	Methods []string
	Func    ActionFunc
}

// ViewSet is the synthesized endpoint handler for one model. It is built
// once at definition time and immutable afterwards, except for the filter
// set which is attached at registration time.
type ViewSet struct {
	model  string
	uri    string
	schema *serializer.Schema

	orderingFields  []string
	defaultOrdering string
	searchFields    []string
	searchClauses   []store.SearchField

	readOnly bool
	queryset store.Queryable

	actions     map[string]Action
	actionOrder []string

	backends  []Backend
	filterSet *filtering.Compiled

	mux chi.Router
}

// Config collects the derived inputs for a viewset.
type Config struct {
	// Model is the canonical lowercase model name.
	Model string

	// URI is the resource path segment, usually Model + "s".
	URI string

	// Schema is the derived serialization contract.
	Schema *serializer.Schema

	// OrderingFields are the fields sortable via the ordering parameter.
	// DefaultOrdering is applied when the parameter is absent; empty means
	// no default.
	OrderingFields  []string
	DefaultOrdering string

	// SearchFields are matched by the search parameter. A leading '^'
	// restricts a field to prefix matches, '=' to exact matches; unmarked
	// fields match case-insensitive substrings.
	SearchFields []string

	// ReadOnly restricts the route set to list and retrieve. Ignored when
	// Bases is non-empty; the flag is inherited instead.
	ReadOnly bool

	// Queryset is the base collection. Nil for abstract models; handlers
	// then answer 500, but registration of abstract models is unusual.
	Queryset store.Queryable

	// Actions are custom routes overlaid last. An action with the name of
	// an inherited one replaces it.
	Actions []Action

	// Override runs after every derived attribute is set and before routes
	// are built. It may change anything, including ReadOnly.
	Override func(*ViewSet)

	// Bases are the viewsets of the base models in declaration order. A
	// later base wins on conflicting actions and on the readonly flag.
	Bases []*ViewSet
}

// New builds a viewset, merging base viewsets and overlaying the custom
// configuration.
func New(cfg Config) *ViewSet {
	vs := &ViewSet{
		model:           cfg.Model,
		uri:             cfg.URI,
		schema:          cfg.Schema,
		orderingFields:  append([]string(nil), cfg.OrderingFields...),
		defaultOrdering: cfg.DefaultOrdering,
		searchFields:    append([]string(nil), cfg.SearchFields...),
		readOnly:        cfg.ReadOnly,
		queryset:        cfg.Queryset,
		actions:         make(map[string]Action),
	}

	// Base viewsets stand in for structural parents: the readonly flag and
	// custom actions carry over, later bases winning on conflicts.
	for _, base := range cfg.Bases {
		vs.readOnly = base.readOnly
		for _, name := range base.actionOrder {
			vs.setAction(base.actions[name])
		}
	}
	for _, a := range cfg.Actions {
		vs.setAction(a)
	}

	vs.searchClauses = parseSearchFields(vs.searchFields)
	vs.backends = []Backend{
		&OrderingBackend{viewset: vs},
		&SearchBackend{viewset: vs},
		&FilterBackend{viewset: vs},
	}

	if cfg.Override != nil {
		cfg.Override(vs)
	}
	vs.mux = vs.buildRoutes()
	return vs
}

func (vs *ViewSet) setAction(a Action) {
	if len(a.Methods) == 0 {
		a.Methods = []string{http.MethodGet}
	}
	if _, ok := vs.actions[a.Name]; !ok {
		vs.actionOrder = append(vs.actionOrder, a.Name)
	}
	vs.actions[a.Name] = a
}

// parseSearchFields resolves search markers to lookups.
func parseSearchFields(fields []string) []store.SearchField {
	out := make([]store.SearchField, 0, len(fields))
	for _, f := range fields {
		switch {
		case strings.HasPrefix(f, "^"):
			out = append(out, store.SearchField{Field: f[1:], Lookup: "istartswith"})
		case strings.HasPrefix(f, "="):
			out = append(out, store.SearchField{Field: f[1:], Lookup: "iexact"})
		default:
			out = append(out, store.SearchField{Field: f, Lookup: "icontains"})
		}
	}
	return out
}

// Model returns the canonical model name.
func (vs *ViewSet) Model() string { return vs.model }

// URI returns the resource path segment the viewset registers under.
func (vs *ViewSet) URI() string { return vs.uri }

// Schema returns the serialization contract.
func (vs *ViewSet) Schema() *serializer.Schema { return vs.schema }

// ReadOnly reports whether the viewset only serves list and retrieve.
func (vs *ViewSet) ReadOnly() bool { return vs.readOnly }

// SetReadOnly changes the route set. Only meaningful inside an Override
// hook; the routes are frozen right after it runs.
func (vs *ViewSet) SetReadOnly(readOnly bool) { vs.readOnly = readOnly }

// OrderingFields returns the fields accepted by the ordering parameter.
func (vs *ViewSet) OrderingFields() []string {
	return append([]string(nil), vs.orderingFields...)
}

// DefaultOrdering returns the ordering applied without an ordering
// parameter, empty when the resolved ordering list is empty.
func (vs *ViewSet) DefaultOrdering() string { return vs.defaultOrdering }

// SearchFields returns the raw search field list, markers included.
func (vs *ViewSet) SearchFields() []string {
	return append([]string(nil), vs.searchFields...)
}

// Queryset returns the base collection, nil for abstract models.
func (vs *ViewSet) Queryset() store.Queryable { return vs.queryset }

// SetQueryset replaces the base collection. Only meaningful inside an
// Override hook.
func (vs *ViewSet) SetQueryset(q store.Queryable) { vs.queryset = q }

// Actions returns the custom actions in resolution order.
func (vs *ViewSet) Actions() []Action {
	out := make([]Action, 0, len(vs.actionOrder))
	for _, name := range vs.actionOrder {
		out = append(out, vs.actions[name])
	}
	return out
}

// AttachFilterSet binds the compiled filter set. This is the one derived
// attribute deferred to registration time.
func (vs *ViewSet) AttachFilterSet(c *filtering.Compiled) {
	vs.filterSet = c
}

// FilterSet returns the compiled filter set, nil before registration.
func (vs *ViewSet) FilterSet() *filtering.Compiled { return vs.filterSet }

// ServeHTTP implements http.Handler.
func (vs *ViewSet) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	vs.mux.ServeHTTP(w, r)
}

// buildRoutes mounts the CRUD handlers and custom actions. Write routes
// are left out for readonly viewsets.
func (vs *ViewSet) buildRoutes() chi.Router {
	mux := chi.NewRouter()

	mux.Get("/", vs.list)
	mux.Get("/{id}", vs.retrieve)

	if !vs.readOnly {
		mux.Post("/", vs.create)
		mux.Put("/{id}", vs.update)
		mux.Patch("/{id}", vs.update)
		mux.Delete("/{id}", vs.destroy)
	}

	for _, name := range vs.actionOrder {
		action := vs.actions[name]
		pattern := "/" + action.Name
		if action.Detail {
			pattern = "/{id}/" + action.Name
		}
		fn := action.Func
		for _, method := range action.Methods {
			mux.Method(method, pattern, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				fn(vs, w, r)
			}))
		}
	}

	return mux
}
