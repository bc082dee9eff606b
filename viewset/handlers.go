package viewset

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/lazyrest/lazyrest/store"
)

// writeJSON renders v as a JSON response.
func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if v != nil {
		json.NewEncoder(w).Encode(v)
	}
}

// writeError renders an error detail as JSON.
func writeError(w http.ResponseWriter, status int, detail string) {
	writeJSON(w, status, map[string]string{"detail": detail})
}

// collection returns the base queryset, or nil after answering the request
// with an error. A nil queryset means the viewset was built for an abstract
// model and should not have been routed to.
func (vs *ViewSet) collection(w http.ResponseWriter) store.Queryable {
	if vs.queryset == nil {
		writeError(w, http.StatusInternalServerError, "resource has no queryset")
		return nil
	}
	return vs.queryset
}

func (vs *ViewSet) list(w http.ResponseWriter, r *http.Request) {
	q := vs.collection(w)
	if q == nil {
		return
	}
	for _, backend := range vs.backends {
		q = backend.Apply(q, r)
	}

	recs, err := q.All(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, vs.schema.SerializeList(recs))
}

func (vs *ViewSet) retrieve(w http.ResponseWriter, r *http.Request) {
	q := vs.collection(w)
	if q == nil {
		return
	}

	rec, err := q.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		if store.IsNotFound(err) {
			writeError(w, http.StatusNotFound, "not found")
			return
		}
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, vs.schema.Serialize(rec))
}

func (vs *ViewSet) create(w http.ResponseWriter, r *http.Request) {
	q := vs.collection(w)
	if q == nil {
		return
	}

	body, ok := vs.decode(w, r)
	if !ok {
		return
	}

	rec, err := q.Insert(r.Context(), vs.schema.Accept(body))
	if err != nil {
		if store.IsUniqueViolation(err) {
			writeError(w, http.StatusConflict, err.Error())
			return
		}
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusCreated, vs.schema.Serialize(rec))
}

func (vs *ViewSet) update(w http.ResponseWriter, r *http.Request) {
	q := vs.collection(w)
	if q == nil {
		return
	}

	body, ok := vs.decode(w, r)
	if !ok {
		return
	}

	rec, err := q.Update(r.Context(), chi.URLParam(r, "id"), vs.schema.Accept(body))
	if err != nil {
		if store.IsNotFound(err) {
			writeError(w, http.StatusNotFound, "not found")
			return
		}
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, vs.schema.Serialize(rec))
}

func (vs *ViewSet) destroy(w http.ResponseWriter, r *http.Request) {
	q := vs.collection(w)
	if q == nil {
		return
	}

	if err := q.Delete(r.Context(), chi.URLParam(r, "id")); err != nil {
		if store.IsNotFound(err) {
			writeError(w, http.StatusNotFound, "not found")
			return
		}
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (vs *ViewSet) decode(w http.ResponseWriter, r *http.Request) (store.Record, bool) {
	var body store.Record
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return nil, false
	}
	return body, true
}
