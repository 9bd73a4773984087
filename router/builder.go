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

import "net/http"

// Group is the fluent builder counterpart of a group RouteNode (spec.md
// §3). It incrementally constructs the same tree Flatten walks; Router
// itself is the implicit root Group, so every method here is also
// available directly on a *Router.
//
// Example:
//
//	r := router.MustNew()
//	api := r.Group("/api/v1", AuthMiddleware)
//	api.GET("/users/:id", getUser, router.WithSchema(userSchema))
type Group struct {
	router *Router
	node   *RouteNode
}

// Group creates a nested group under g with the given local path prefix
// and middleware appended after any the parent group already carries.
func (g *Group) Group(prefix string, mw ...Middleware) *Group {
	child := NewGroup(prefix, mw...)
	g.node.AddChild(child)
	return &Group{router: g.router, node: child}
}

// Use appends middleware to this group, applying to every route registered
// under it (including ones added earlier in source order, since Flatten
// resolves the chain lazily at Warmup time).
func (g *Group) Use(mw ...Middleware) *Group {
	g.node.Middleware = append(g.node.Middleware, mw...)
	g.router.invalidate()
	return g
}

// Handle registers a leaf route for an arbitrary method under this group.
func (g *Group) Handle(method, path string, handler HandlerFunc, opts ...LeafOption) *Group {
	leaf := NewLeaf(method, path, handler, opts...)
	leaf.order = g.router.nextOrder()
	g.node.AddChild(leaf)
	g.router.invalidate()
	return g
}

func (g *Group) GET(path string, handler HandlerFunc, opts ...LeafOption) *Group {
	return g.Handle(http.MethodGet, path, handler, opts...)
}

func (g *Group) POST(path string, handler HandlerFunc, opts ...LeafOption) *Group {
	return g.Handle(http.MethodPost, path, handler, opts...)
}

func (g *Group) PUT(path string, handler HandlerFunc, opts ...LeafOption) *Group {
	return g.Handle(http.MethodPut, path, handler, opts...)
}

func (g *Group) PATCH(path string, handler HandlerFunc, opts ...LeafOption) *Group {
	return g.Handle(http.MethodPatch, path, handler, opts...)
}

func (g *Group) DELETE(path string, handler HandlerFunc, opts ...LeafOption) *Group {
	return g.Handle(http.MethodDelete, path, handler, opts...)
}

func (g *Group) OPTIONS(path string, handler HandlerFunc, opts ...LeafOption) *Group {
	return g.Handle(http.MethodOptions, path, handler, opts...)
}

func (g *Group) HEAD(path string, handler HandlerFunc, opts ...LeafOption) *Group {
	return g.Handle(http.MethodHead, path, handler, opts...)
}
