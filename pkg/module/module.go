// Package module mounts self-contained HTTP handlers under single-segment
// prefixes such as /api and /app.
package module

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"sync"

	"github.com/JaimeStill/whiskers/pkg/middleware"
)

// ErrInvalidPrefix is returned by New for empty, relative, or nested prefixes.
var ErrInvalidPrefix = errors.New("invalid module prefix")

type prefixKey struct{}

// Module strips its prefix and hands requests to an inner router wrapped in the
// module's own middleware.
type Module struct {
	prefix     string
	router     http.Handler
	middleware middleware.System

	once    sync.Once
	handler http.Handler
}

// New creates a Module mounted at prefix ("/api", "/app").
func New(prefix string, router http.Handler) (*Module, error) {
	if err := validatePrefix(prefix); err != nil {
		return nil, err
	}
	return &Module{
		prefix:     prefix,
		router:     router,
		middleware: middleware.New(),
	}, nil
}

// Use appends middleware. Calls after the first request have no effect.
func (m *Module) Use(mw ...func(http.Handler) http.Handler) {
	for _, fn := range mw {
		m.middleware.Use(fn)
	}
}

// Handler returns the router wrapped in the module's middleware.
func (m *Module) Handler() http.Handler {
	m.once.Do(func() {
		m.handler = m.middleware.Apply(m.router)
	})
	return m.handler
}

// Prefix returns the mount prefix.
func (m *Module) Prefix() string {
	return m.prefix
}

// Serve dispatches req with the prefix removed from its path. The prefix stays
// available to handlers through PrefixFrom.
func (m *Module) Serve(w http.ResponseWriter, req *http.Request) {
	m.Handler().ServeHTTP(w, m.strip(req))
}

// PrefixFrom returns the prefix of the module serving ctx's request, or "".
func PrefixFrom(ctx context.Context) string {
	prefix, _ := ctx.Value(prefixKey{}).(string)
	return prefix
}

func (m *Module) strip(req *http.Request) *http.Request {
	path := strings.TrimPrefix(req.URL.Path, m.prefix)
	if path == "" {
		path = "/"
	}

	out := req.WithContext(context.WithValue(req.Context(), prefixKey{}, m.prefix))
	u := *req.URL
	u.Path = path
	u.RawPath = ""
	out.URL = &url.URL{}
	*out.URL = u
	return out
}

func validatePrefix(prefix string) error {
	switch {
	case prefix == "":
		return fmt.Errorf("%w: empty", ErrInvalidPrefix)
	case !strings.HasPrefix(prefix, "/"):
		return fmt.Errorf("%w: %q must start with /", ErrInvalidPrefix, prefix)
	case strings.Count(prefix, "/") != 1 || len(prefix) == 1:
		return fmt.Errorf("%w: %q must be a single path segment", ErrInvalidPrefix, prefix)
	}
	return nil
}
