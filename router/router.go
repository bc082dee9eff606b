// Package router is the routing collaborator: a thin wrapper over chi that
// mounts resource handlers under their path segments and keeps a route
// table for introspection.
package router

import (
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
)

// Entry describes one registered resource for introspection.
type Entry struct {
	// Path is the resource path segment, without the leading slash.
	Path string

	// Pattern is the chi mount pattern.
	Pattern string
}

// Router maps resource paths to endpoint handlers. It implements
// http.Handler and can be served directly or mounted inside a larger mux.
type Router struct {
	mux     chi.Router
	entries []Entry
	mounted map[string]bool
}

// New creates an empty router.
func New() *Router {
	return &Router{
		mux:     chi.NewRouter(),
		mounted: make(map[string]bool),
	}
}

// ServeHTTP implements http.Handler.
func (r *Router) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	r.mux.ServeHTTP(w, req)
}

// Register mounts a handler under /<path>. Every call appends to the route
// table; re-registering a path keeps the first mount, since chi forbids
// remounting a pattern.
func (r *Router) Register(path string, handler http.Handler) {
	path = strings.Trim(path, "/")
	pattern := "/" + path

	r.entries = append(r.entries, Entry{Path: path, Pattern: pattern})
	if r.mounted[pattern] {
		return
	}
	r.mounted[pattern] = true
	r.mux.Mount(pattern, handler)
}

// Routes returns the registered resources in registration order,
// duplicates included.
func (r *Router) Routes() []Entry {
	out := make([]Entry, len(r.entries))
	copy(out, r.entries)
	return out
}

// Use appends chi middleware to the router. Must be called before the
// first Register.
func (r *Router) Use(middlewares ...func(http.Handler) http.Handler) {
	r.mux.Use(middlewares...)
}
