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
	"context"
	"net/http"
)

// InboundRequest is the value every Middleware stage sees. It wraps the
// underlying *http.Request together with the route matched for this
// request and the locals scratchpad accumulated so far. Middleware runs
// only for a matched route, so Route is always set; automatic OPTIONS
// replies and 404/405 failures are written without running middleware.
//
// InboundRequest itself is not safe for concurrent use; each request gets
// its own instance, pulled from and returned to the Router's sync.Pool
// (dispatch.go) to keep per-request allocation off the hot path.
type InboundRequest struct {
	Raw    *http.Request
	Route  *FlatRoute
	Params map[string]string

	locals map[string]any
}

// Context returns the request's context.Context, convenience for
// req.Raw.Context().
func (r *InboundRequest) Context() context.Context {
	return r.Raw.Context()
}

// Local reads a value previously injected into the scratchpad by an
// upstream middleware via Next's locals argument.
func (r *InboundRequest) Local(key string) (any, bool) {
	if r.locals == nil {
		return nil, false
	}
	v, ok := r.locals[key]
	return v, ok
}

// mergeLocals copies src into the request's scratchpad, overwriting any
// existing keys. A nil src is a no-op allocation-wise.
func (r *InboundRequest) mergeLocals(src map[string]any) {
	if len(src) == 0 {
		return
	}
	if r.locals == nil {
		r.locals = make(map[string]any, len(src))
	}
	for k, v := range src {
		r.locals[k] = v
	}
}

func (r *InboundRequest) reset() {
	r.Raw = nil
	r.Route = nil
	r.Params = nil
	r.locals = nil
}

// HandlerContext is the object a HandlerFunc receives. It is the terminal,
// read-mostly view the request scratchpad is collapsed into right before
// the handler runs (spec.md §3/§4.7): every middleware has already had its
// chance to inspect and rewrite the request and inject locals, so by the
// time a handler sees a HandlerContext, Body/Query/Params/Headers/Cookies
// have already passed validation against the route's SchemaConfig (if any).
type HandlerContext struct {
	Req     *http.Request
	Body    any
	Query   map[string]any
	Params  map[string]string
	Headers http.Header
	Cookies map[string]string
	Locals  map[string]any
}

// Local reads a value from the handler-visible locals snapshot.
func (hc *HandlerContext) Local(key string) (any, bool) {
	v, ok := hc.Locals[key]
	return v, ok
}
