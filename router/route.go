// Copyright 2025 The Rivaas Authors
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package router

import (
	"sort"
	"sync"
)

// Checker is a compiled validation predicate produced by Schema.Compile.
// It must be safe to call repeatedly from concurrent requests.
type Checker func(value any) bool

// Schema is the opaque, schema-language-agnostic contract a route's
// sub-schemas satisfy (spec.md §4.6). The core never inspects a Schema's
// internals; it calls Compile once per route and caches the resulting
// Checker on that route. Routes sharing one Schema value each call Compile.
type Schema interface {
	Compile() (Checker, error)
}

// SchemaConfig holds the optional per-field sub-schemas for a route, per
// spec.md §3's "Schema Config". Response is informational only and is
// never enforced at request time; the Route Registry (registry.go) does not
// expose it, RouteInfo reports only whether a SchemaConfig is set.
type SchemaConfig struct {
	Body    Schema
	Query   Schema
	Params  Schema
	Headers Schema
	Cookies Schema

	// Response is informational only; it documents the expected shape but
	// is never validated.
	Response Schema
}

// RouteNode is a node in the nested route tree described by spec.md §3.
// A single type represents both shapes the spec names:
//
//   - a leaf carries Method/Handler/Schema and no Children;
//   - a group carries a path prefix and shared Middleware and is
//     distinguished by a non-nil Children slice (even if currently empty,
//     once constructed via NewGroup).
//
// RouteNode is normally built through the Router/Group fluent builder
// (builder.go), but can also be constructed directly — e.g. for tests of
// the Flatten algorithm itself — via NewLeaf and NewGroup.
type RouteNode struct {
	isGroup bool

	// Path is the local path segment this node contributes to its parent's
	// prefix; for the synthesized root group it is "".
	Path string

	// Method, Handler, Schema, Name and Metadata are populated for leaves.
	Method   string
	Handler  HandlerFunc
	Schema   *SchemaConfig
	Name     string
	Metadata map[string]any

	// Middleware is the node's own contribution to the composed chain: for
	// a group, middleware shared by every descendant; for a leaf,
	// middleware local to that single route.
	Middleware []Middleware

	// Children holds nested nodes; nil (not just empty) marks a leaf.
	Children []*RouteNode

	maxBodySize int64 // leaf-only override, see WithLeafMaxBodySize

	order int // registration order, used for stable specificity tie-breaks
}

// NewGroup constructs a group RouteNode with the given path prefix and
// shared middleware. Children are appended with AddChild.
func NewGroup(path string, middleware ...Middleware) *RouteNode {
	return &RouteNode{isGroup: true, Path: path, Middleware: middleware, Children: []*RouteNode{}}
}

// NewLeaf constructs a leaf RouteNode for a single (method, path) mapping.
func NewLeaf(method, path string, handler HandlerFunc, opts ...LeafOption) *RouteNode {
	leaf := &RouteNode{Method: method, Path: path, Handler: handler}
	for _, opt := range opts {
		opt(leaf)
	}
	return leaf
}

// LeafOption configures an individual leaf built via NewLeaf.
type LeafOption func(*RouteNode)

// WithLeafMiddleware attaches route-local middleware to a leaf.
func WithLeafMiddleware(mw ...Middleware) LeafOption {
	return func(n *RouteNode) { n.Middleware = append(n.Middleware, mw...) }
}

// WithSchema attaches a validation SchemaConfig to a leaf.
func WithSchema(s *SchemaConfig) LeafOption {
	return func(n *RouteNode) { n.Schema = s }
}

// WithMetadata attaches arbitrary user metadata to a leaf, surfaced via the
// Route Registry (registry.go).
func WithMetadata(meta map[string]any) LeafOption {
	return func(n *RouteNode) { n.Metadata = meta }
}

// WithName assigns a route name, used for introspection and named lookup.
func WithName(name string) LeafOption {
	return func(n *RouteNode) { n.Name = name }
}

// WithLeafMaxBodySize overrides the router's default maximum request body
// size for this single route.
func WithLeafMaxBodySize(bytes int64) LeafOption {
	return func(n *RouteNode) { n.maxBodySize = bytes }
}

// AddChild appends a child node (leaf or group) under a group node.
func (n *RouteNode) AddChild(child *RouteNode) *RouteNode {
	n.Children = append(n.Children, child)
	return n
}

// FlatRoute is the dispatch-ready form produced by Flatten: spec.md §3's
// "Flattened Route". Every leaf in an input tree produces exactly one
// FlatRoute; groups produce none.
type FlatRoute struct {
	Method      string
	Path        string // full, normalized path
	Pattern     *Pattern
	Middleware  []Middleware // composed chain: ancestor groups' middleware ++ leaf's own, outermost first
	Handler     HandlerFunc
	Schema      *SchemaConfig
	Name        string
	Metadata    map[string]any
	Specificity int

	// maxBodySize overrides the router default when positive; set via
	// WithLeafMaxBodySize.
	maxBodySize int64

	order int

	compileOnce sync.Once
	compiled    *compiledRoute
	compileErr  error
}

// compiledSchemas returns the route's compiled sub-schemas, compiling them
// on the first call and caching the result (and any error) for every
// subsequent request — Schema.Compile runs at most once per route,
// regardless of request volume.
func (fr *FlatRoute) compiledSchemas() (*compiledRoute, error) {
	fr.compileOnce.Do(func() {
		fr.compiled, fr.compileErr = compileRoute(fr.Schema)
	})
	return fr.compiled, fr.compileErr
}

// Flatten performs the depth-first traversal described in spec.md §4.2: it
// accumulates (prefix, middleware) state as it descends, concatenating each
// node's local path onto the inherited prefix and appending its middleware
// to the inherited chain. Leaves emit a FlatRoute; groups recurse. Source
// order is preserved in the returned slice (sorting by specificity happens
// separately, see sortBySpecificity).
func Flatten(root *RouteNode) []*FlatRoute {
	var out []*FlatRoute
	var walk func(node *RouteNode, prefix string, inherited []Middleware)
	walk = func(node *RouteNode, prefix string, inherited []Middleware) {
		fullPath := joinPath(prefix, node.Path)

		if node.Children != nil {
			// Group: concatenate prefix + middleware, recurse into children.
			chain := make([]Middleware, 0, len(inherited)+len(node.Middleware))
			chain = append(chain, inherited...)
			chain = append(chain, node.Middleware...)
			for _, child := range node.Children {
				walk(child, fullPath, chain)
			}
			return
		}

		// Leaf: emit exactly one FlatRoute.
		chain := make([]Middleware, 0, len(inherited)+len(node.Middleware))
		chain = append(chain, inherited...)
		chain = append(chain, node.Middleware...)

		pattern := CompilePattern(fullPath)
		out = append(out, &FlatRoute{
			Method:      node.Method,
			Path:        fullPath,
			Pattern:     pattern,
			Middleware:  chain,
			Handler:     node.Handler,
			Schema:      node.Schema,
			Name:        node.Name,
			Metadata:    node.Metadata,
			Specificity: pattern.specificity,
			maxBodySize: node.maxBodySize,
			order:       node.order,
		})
	}
	walk(root, "", nil)
	return out
}

// sortBySpecificity orders flattened routes by the §3 priority function:
// higher specificity sorts earlier, ties resolved by registration order.
func sortBySpecificity(routes []*FlatRoute) {
	sort.SliceStable(routes, func(i, j int) bool {
		if routes[i].Specificity != routes[j].Specificity {
			return routes[i].Specificity > routes[j].Specificity
		}
		return routes[i].order < routes[j].order
	})
}
