package web

import (
	"net/http"
	"slices"
	"strings"
)

// Router wraps http.ServeMux with a fallback for paths no route matches.
// A path registered under another method still gets the mux's 405.
type Router struct {
	mux      *http.ServeMux
	methods  []string
	fallback http.HandlerFunc
}

// NewRouter creates a Router with default ServeMux behavior.
func NewRouter() *Router {
	return &Router{mux: http.NewServeMux()}
}

// SetFallback sets the handler for unmatched paths, typically a not-found page.
func (r *Router) SetFallback(handler http.HandlerFunc) {
	r.fallback = handler
}

// Handle registers a handler for the given pattern.
func (r *Router) Handle(pattern string, handler http.Handler) {
	r.track(pattern)
	r.mux.Handle(pattern, handler)
}

// HandleFunc registers a handler function for the given pattern.
func (r *Router) HandleFunc(pattern string, handler http.HandlerFunc) {
	r.track(pattern)
	r.mux.HandleFunc(pattern, handler)
}

func (r *Router) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	if r.fallback != nil && !r.known(req) {
		r.fallback.ServeHTTP(w, req)
		return
	}
	r.mux.ServeHTTP(w, req)
}

func (r *Router) track(pattern string) {
	method, _, ok := strings.Cut(pattern, " ")
	if ok && !slices.Contains(r.methods, method) {
		r.methods = append(r.methods, method)
	}
}

// known reports whether any registered method matches req's path.
func (r *Router) known(req *http.Request) bool {
	if _, pattern := r.mux.Handler(req); pattern != "" {
		return true
	}
	alt := req.Clone(req.Context())
	for _, m := range r.methods {
		if m == req.Method {
			continue
		}
		alt.Method = m
		if _, pattern := r.mux.Handler(alt); pattern != "" {
			return true
		}
	}
	return false
}
