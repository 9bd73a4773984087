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

// Package router is a request-dispatching core: a nested route tree that
// flattens to a priority-ordered dispatch table, a fold-right middleware
// composer, a schema-driven handler factory, and a response mapper that
// normalizes arbitrary handler return values into HTTP responses.
//
// # Registration
//
// Routes are registered through a fluent builder — Router itself is the
// implicit root Group:
//
//	r := router.MustNew()
//	api := r.Group("/api/v1", middleware.RequestID())
//	api.GET("/users/:id", getUser, router.WithSchema(userParamsSchema))
//
// Registration builds a RouteNode tree; Warmup (called automatically on
// first ServeHTTP, or explicitly ahead of time) flattens it via Flatten
// into a read-only, specificity-sorted table so concurrent requests never
// race with in-progress registration.
//
// # Middleware
//
// A Middleware receives the request and a Next it may or may not call;
// code after a Next call runs only once everything downstream has
// returned, giving a natural before/after shape:
//
//	func Logger(logger *slog.Logger) router.Middleware {
//	    return func(req *router.InboundRequest, next router.Next) (*router.Response, error) {
//	        start := time.Now()
//	        resp, err := next(nil)
//	        logger.Info("request", "path", req.Raw.URL.Path, "elapsed", time.Since(start))
//	        return resp, err
//	    }
//	}
//
// # Schemas
//
// SchemaConfig attaches an opaque, schema-language-agnostic Schema to a
// route's body/query/params/headers/cookies; each route compiles its
// schemas once (during Warmup) and caches the resulting Checkers.
// See the validation package for a tag- and JSON-Schema-based
// implementation of Schema.
//
// # Errors
//
// A handler may return a *httperror.Error to control its response's exact
// status and whether its message is exposed to the client. Any error not
// handled by an error-handling middleware such as middleware.Recovery is
// rendered by httperror.Wire: an error implementing httperror.ErrorType
// keeps its HTTPStatus, and any other error becomes an opaque 500.
package router
