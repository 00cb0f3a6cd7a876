// Package routes declares HTTP routes together with their OpenAPI operations
// and registers both in one pass.
package routes

import (
	"net/http"

	"github.com/JaimeStill/elp-audit/pkg/openapi"
)

// Route is one method and pattern relative to its group prefix.
type Route struct {
	Method  string
	Pattern string
	Handler http.HandlerFunc
	OpenAPI *openapi.Operation
}

// Group collects routes under a common prefix. Children extend the prefix
// and inherit Tags unless they declare their own.
type Group struct {
	Prefix      string
	Tags        []string
	Description string
	Routes      []Route
	Children    []Group
}

// Register adds every route of groups to mux, relative to the module root,
// and documents each under basePath in spec.
func Register(mux *http.ServeMux, basePath string, spec *openapi.Spec, groups ...Group) {
	for _, g := range groups {
		g.register(mux, "")
		if spec != nil {
			g.AddToSpec(basePath, spec)
		}
	}
}

// AddToSpec documents the group's operations under basePath.
func (g Group) AddToSpec(basePath string, spec *openapi.Spec) {
	g.walk("", nil, func(prefix string, tags []string, r Route) {
		if r.OpenAPI == nil {
			return
		}
		op := *r.OpenAPI
		if len(op.Tags) == 0 {
			op.Tags = tags
		}
		spec.AddOperation(basePath+prefix+r.Pattern, r.Method, &op)
	})
}

func (g Group) register(mux *http.ServeMux, parent string) {
	g.walk(parent, nil, func(prefix string, _ []string, r Route) {
		mux.HandleFunc(r.Method+" "+prefix+r.Pattern, r.Handler)
	})
}

func (g Group) walk(parent string, inherited []string, fn func(prefix string, tags []string, r Route)) {
	prefix := parent + g.Prefix
	tags := g.Tags
	if len(tags) == 0 {
		tags = inherited
	}

	for _, r := range g.Routes {
		fn(prefix, tags, r)
	}
	for _, child := range g.Children {
		child.walk(prefix, tags, fn)
	}
}
