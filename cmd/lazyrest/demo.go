package main

import (
	"encoding/json"
	"net/http"

	"github.com/lazyrest/lazyrest/filtering"
	"github.com/lazyrest/lazyrest/metadata"
	"github.com/lazyrest/lazyrest/schema"
	"github.com/lazyrest/lazyrest/serializer"
	"github.com/lazyrest/lazyrest/store"
	"github.com/lazyrest/lazyrest/viewset"
)

// demoGroup is the application group the demo models belong to.
const demoGroup = "blog"

// querysetFunc resolves the queryable collection backing one table.
type querysetFunc func(table string, columns []string) store.Queryable

// defineBlog defines the demo blog models: a standalone Author, an
// abstract Content base, and a Post inheriting Content's fields,
// ordering, and search configuration.
func defineBlog(querysets querysetFunc) error {
	_, err := metadata.Define(demoGroup, "Author", schema.Attrs{
		"fields": []schema.Field{
			{Name: "id", Type: schema.TypeUUID},
			{Name: "name", Type: schema.TypeString},
			{Name: "email", Type: schema.TypeString},
		},
		"queryset": querysets("authors", []string{"id", "name", "email"}),
		"APIFields": &schema.FieldsSpec{
			Editable:  []string{"name", "email"},
			Readable:  []string{"id"},
			Ordering:  []string{"name"},
			Searching: []string{"^name", "=email"},
		},
		"APIFiltering": filtering.NewSpec().
			Set("name", filtering.OpIContains, filtering.OpIStartsWith).
			Set("email", filtering.OpExact, filtering.OpIExact),
		// Authors are managed out of band; the API only reads them.
		"APIViewset": &schema.ViewsetSpec{ReadOnly: true},
	})
	if err != nil {
		return err
	}

	content, err := metadata.Define(demoGroup, "Content", schema.Attrs{
		"abstract": true,
		"fields": []schema.Field{
			{Name: "title", Type: schema.TypeString},
			{Name: "body", Type: schema.TypeText},
		},
		"APIFields": &schema.FieldsSpec{
			Editable:  []string{"title", "body"},
			Ordering:  []string{"title"},
			Searching: []string{"title"},
		},
	})
	if err != nil {
		return err
	}

	_, err = metadata.Define(demoGroup, "Post", schema.Attrs{
		"fields": []schema.Field{
			{Name: "id", Type: schema.TypeUUID},
			{Name: "author_id", Type: schema.TypeUUID},
			{Name: "published", Type: schema.TypeBool},
			{Name: "created_at", Type: schema.TypeTimestamp},
		},
		"queryset": querysets("posts", []string{
			"id", "title", "body", "author_id", "published", "created_at",
		}),
		"APIFields": &schema.FieldsSpec{
			Editable: []string{"author_id", "published"},
			Readable: []string{"id", "created_at"},
			Declared: map[string]serializer.Computed{
				"excerpt": postExcerpt,
			},
			Ordering:  []string{"created_at"},
			Searching: []string{"body"},
		},
		"APIFiltering": filtering.NewSpec().
			Set("author_id", filtering.OpExact, filtering.OpIn).
			SetFunc("published", publishedFilter),
		"APIViewset": &schema.ViewsetSpec{
			Actions: []viewset.Action{
				{Name: "drafts", Func: draftsAction},
			},
		},
	}, content)
	return err
}

// postExcerpt derives a short preview from the post body.
func postExcerpt(rec store.Record) interface{} {
	body, _ := rec["body"].(string)
	const limit = 80
	if len(body) <= limit {
		return body
	}
	return body[:limit] + "..."
}

// publishedFilter accepts "true"/"false" regardless of how the backing
// store represents booleans.
func publishedFilter(q store.Queryable, value string) store.Queryable {
	return q.Filter("published", "exact", value == "true" || value == "1")
}

// draftsAction lists unpublished posts at GET /posts/drafts.
func draftsAction(vs *viewset.ViewSet, w http.ResponseWriter, r *http.Request) {
	q := vs.Queryset()
	if q == nil {
		http.Error(w, `{"detail":"no queryset"}`, http.StatusInternalServerError)
		return
	}
	recs, err := q.Filter("published", "exact", false).All(r.Context())
	if err != nil {
		http.Error(w, `{"detail":"internal error"}`, http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(vs.Schema().SerializeList(recs))
}
