// Package routes declares HTTP route groups once and uses them both to register
// handlers on a ServeMux and to describe the API in an OpenAPI document.
package routes

import (
	"net/http"
	"strings"

	"github.com/JaimeStill/whiskers/pkg/openapi"
)

// Route binds an HTTP method and pattern to a handler. OpenAPI is optional and
// only used when describing the route.
type Route struct {
	Method  string
	Pattern string
	Handler http.HandlerFunc
	OpenAPI *openapi.Operation
}

// Group organizes routes under a common prefix. Tags apply to every described
// operation in the group and its children.
type Group struct {
	Prefix      string
	Tags        []string
	Description string
	Routes      []Route
	Children    []Group
}

// Register adds all routes from the given groups to the mux.
func Register(mux *http.ServeMux, groups ...Group) {
	for _, group := range groups {
		walk("", nil, group, func(path string, _ []string, route Route) {
			mux.HandleFunc(route.Method+" "+path, route.Handler)
		})
	}
}

// Describe adds every route that carries an OpenAPI operation to spec, with
// paths prefixed by basePath.
func Describe(spec *openapi.Spec, basePath string, groups ...Group) {
	for _, group := range groups {
		if group.Description != "" && len(group.Tags) > 0 {
			spec.AddTag(group.Tags[0], group.Description)
		}
		walk(basePath, nil, group, func(path string, tags []string, route Route) {
			if route.OpenAPI == nil {
				return
			}
			op := *route.OpenAPI
			if len(op.Tags) == 0 {
				op.Tags = tags
			}
			spec.AddOperation(route.Method, specPath(path), &op)
		})
	}
}

func walk(parent string, parentTags []string, group Group, fn func(path string, tags []string, route Route)) {
	prefix := parent + group.Prefix
	tags := parentTags
	if len(group.Tags) > 0 {
		tags = group.Tags
	}
	for _, route := range group.Routes {
		fn(prefix+route.Pattern, tags, route)
	}
	for _, child := range group.Children {
		walk(prefix, tags, child, fn)
	}
}

// specPath converts ServeMux wildcards ({key...}, {$}) to OpenAPI path templates.
func specPath(path string) string {
	path = strings.ReplaceAll(path, "...}", "}")
	path = strings.TrimSuffix(path, "{$}")
	if path == "" {
		return "/"
	}
	return path
}
