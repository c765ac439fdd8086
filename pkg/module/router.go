package module

import (
	"fmt"
	"maps"
	"net/http"
	"slices"
	"strings"
)

// ErrDuplicatePrefix is returned by Mount when a prefix is already taken.
var ErrDuplicatePrefix = fmt.Errorf("%w: already mounted", ErrInvalidPrefix)

// Router sends each request to the module named by its first path segment.
// Paths no module claims go to a plain ServeMux (health checks, redirects,
// static assets).
type Router struct {
	mounted  map[string]*Module
	fallback *http.ServeMux
}

// NewRouter returns an empty Router.
func NewRouter() *Router {
	return &Router{
		mounted:  make(map[string]*Module),
		fallback: http.NewServeMux(),
	}
}

// Handle registers handler for pattern on the fallback mux.
func (r *Router) Handle(pattern string, handler http.Handler) {
	r.fallback.Handle(pattern, handler)
}

// HandleNative registers fn for pattern on the fallback mux.
func (r *Router) HandleNative(pattern string, fn http.HandlerFunc) {
	r.Handle(pattern, fn)
}

// Mount claims each module's prefix. Nothing is mounted if any prefix is
// taken, including by an earlier module in the same call.
func (r *Router) Mount(mods ...*Module) error {
	seen := make(map[string]bool, len(mods))
	for _, m := range mods {
		if _, taken := r.mounted[m.prefix]; taken || seen[m.prefix] {
			return fmt.Errorf("%w: %s", ErrDuplicatePrefix, m.prefix)
		}
		seen[m.prefix] = true
	}
	for _, m := range mods {
		r.mounted[m.prefix] = m
	}
	return nil
}

// Modules returns the mounted prefixes, sorted.
func (r *Router) Modules() []string {
	return slices.Sorted(maps.Keys(r.mounted))
}

// Lookup returns the module that owns path, if any.
func (r *Router) Lookup(path string) (*Module, bool) {
	segment, _, _ := strings.Cut(strings.TrimPrefix(path, "/"), "/")
	if segment == "" {
		return nil, false
	}
	m, ok := r.mounted["/"+segment]
	return m, ok
}

// ServeHTTP drops a single trailing slash from the path, then dispatches.
func (r *Router) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	req = trimTrailingSlash(req)

	if m, ok := r.Lookup(req.URL.Path); ok {
		m.Serve(w, req)
		return
	}
	r.fallback.ServeHTTP(w, req)
}

// trimTrailingSlash returns req unchanged or a shallow copy whose URL path has
// no trailing slash. The root path is left alone.
func trimTrailingSlash(req *http.Request) *http.Request {
	path := req.URL.Path
	if len(path) <= 1 || !strings.HasSuffix(path, "/") {
		return req
	}

	out := req.WithContext(req.Context())
	u := *req.URL
	u.Path = strings.TrimSuffix(path, "/")
	u.RawPath = ""
	out.URL = &u
	return out
}
