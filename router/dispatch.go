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
	"encoding/json"
	"net/http"
	"sort"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/vafast/vafast/httperror"
	"golang.org/x/net/http2"
	"golang.org/x/net/http2/h2c"
)

// Option configures a Router at construction time.
type Option func(*Router)

type serverTimeouts struct {
	readHeader time.Duration
	read       time.Duration
	write      time.Duration
	idle       time.Duration
}

// Router is the top-level dispatcher (spec.md §4.3). It is also the root
// Group of the fluent registration API (builder.go): GET/POST/Group/Use
// called directly on a *Router register under the implicit root node.
//
// A Router must be warmed up (explicitly via Warmup, or implicitly on the
// first ServeHTTP call) before it serves traffic; warmup flattens the
// registered tree into a priority-sorted, read-only route table stored in
// an atomic.Pointer so concurrent requests never race with registration
// that happens to still be in flight (registration itself is not
// goroutine-safe and is expected to complete before Serve is called).
type Router struct {
	root *RouteNode

	routes    atomic.Pointer[[]*FlatRoute]
	orderSeq  atomic.Int64
	dirty     atomic.Bool
	warmMutex sync.Mutex

	maxBodySize       int64
	checkCancellation bool
	diagnostics       DiagnosticHandler
	enableH2C         bool
	serverTimeouts    *serverTimeouts

	pool sync.Pool
}

// New constructs a Router, applying the given Options.
func New(opts ...Option) (*Router, error) {
	r := &Router{
		root:              NewGroup(""),
		maxBodySize:       defaultMaxBodySize,
		checkCancellation: true,
	}
	r.pool.New = func() any { return &InboundRequest{} }
	for _, opt := range opts {
		opt(r)
	}
	if r.serverTimeouts == nil {
		r.serverTimeouts = defaultServerTimeouts()
	}
	if r.maxBodySize <= 0 {
		return nil, ErrMaxBodySizeNonPositive
	}
	if r.enableH2C {
		r.emitDiagnostic(DiagnosticEvent{Kind: DiagH2CEnabled, Message: "h2c enabled"})
	}
	return r, nil
}

// MustNew is like New but panics on error, for package-level initialization.
func MustNew(opts ...Option) *Router {
	r, err := New(opts...)
	if err != nil {
		panic(err)
	}
	return r
}

func (r *Router) nextOrder() int { return int(r.orderSeq.Add(1)) }

func (r *Router) invalidate() { r.dirty.Store(true) }

func (r *Router) emitDiagnostic(e DiagnosticEvent) {
	if r.diagnostics != nil {
		r.diagnostics.OnDiagnostic(e)
	}
}

// Group creates a top-level group under the router's implicit root.
func (r *Router) Group(prefix string, mw ...Middleware) *Group {
	child := NewGroup(prefix, mw...)
	r.root.AddChild(child)
	r.invalidate()
	return &Group{router: r, node: child}
}

// Use appends global middleware, applied to every route.
func (r *Router) Use(mw ...Middleware) *Router {
	r.root.Middleware = append(r.root.Middleware, mw...)
	r.invalidate()
	return r
}

func (r *Router) Handle(method, path string, handler HandlerFunc, opts ...LeafOption) *Router {
	leaf := NewLeaf(method, path, handler, opts...)
	leaf.order = r.nextOrder()
	r.root.AddChild(leaf)
	r.invalidate()
	return r
}

func (r *Router) GET(path string, handler HandlerFunc, opts ...LeafOption) *Router {
	return r.Handle(http.MethodGet, path, handler, opts...)
}
func (r *Router) POST(path string, handler HandlerFunc, opts ...LeafOption) *Router {
	return r.Handle(http.MethodPost, path, handler, opts...)
}
func (r *Router) PUT(path string, handler HandlerFunc, opts ...LeafOption) *Router {
	return r.Handle(http.MethodPut, path, handler, opts...)
}
func (r *Router) PATCH(path string, handler HandlerFunc, opts ...LeafOption) *Router {
	return r.Handle(http.MethodPatch, path, handler, opts...)
}
func (r *Router) DELETE(path string, handler HandlerFunc, opts ...LeafOption) *Router {
	return r.Handle(http.MethodDelete, path, handler, opts...)
}
func (r *Router) OPTIONS(path string, handler HandlerFunc, opts ...LeafOption) *Router {
	return r.Handle(http.MethodOptions, path, handler, opts...)
}
func (r *Router) HEAD(path string, handler HandlerFunc, opts ...LeafOption) *Router {
	return r.Handle(http.MethodHead, path, handler, opts...)
}

// Warmup flattens the registered route tree and builds the sorted,
// dispatch-ready route table. It is idempotent and safe to call more than
// once (e.g. after registering more routes); it is also called implicitly,
// guarded by warmMutex, the first time ServeHTTP observes a dirty or
// unbuilt table.
func (r *Router) Warmup() {
	r.warmMutex.Lock()
	defer r.warmMutex.Unlock()
	r.doWarmup()
}

func (r *Router) doWarmup() {
	flat := Flatten(r.root)
	for _, fr := range flat {
		if fr.maxBodySize <= 0 {
			fr.maxBodySize = r.maxBodySize
		}
		// Compile every route's schemas now, so no request pays for
		// Schema.Compile; a compile error is cached and returned on dispatch.
		_, _ = fr.compiledSchemas()
	}
	r.detectOverlaps(flat)
	sortBySpecificity(flat)
	r.routes.Store(&flat)
	r.dirty.Store(false)
}

// detectOverlaps emits diagnostics for two classes of registration-time
// anomaly: exact (method, path) duplicates, and a dynamic (parameterized)
// route that shares a method and specificity-equal prefix with a wildcard
// route, where either could plausibly match the same incoming path.
// Neither anomaly is fatal; routes still register and dispatch uses
// priority order to resolve any actual request deterministically.
func (r *Router) detectOverlaps(routes []*FlatRoute) {
	seen := make(map[string]*FlatRoute, len(routes))
	for _, rt := range routes {
		if rt.Handler == nil {
			r.emitDiagnostic(DiagnosticEvent{
				Kind:    DiagNilHandler,
				Message: ErrNilHandler.Error() + ": " + rt.Method + " " + rt.Path,
				Fields:  map[string]any{"method": rt.Method, "path": rt.Path},
			})
		}
		if rt.Method == "" {
			r.emitDiagnostic(DiagnosticEvent{
				Kind:    DiagEmptyMethod,
				Message: ErrEmptyMethod.Error() + ": " + rt.Path,
				Fields:  map[string]any{"path": rt.Path},
			})
		}

		key := rt.Method + " " + rt.Path
		if prior, ok := seen[key]; ok {
			r.emitDiagnostic(DiagnosticEvent{
				Kind:    DiagDuplicateRoute,
				Message: "duplicate route registration: " + key,
				Fields:  map[string]any{"method": rt.Method, "path": rt.Path, "first_order": prior.order, "second_order": rt.order},
			})
			continue
		}
		seen[key] = rt

		if rt.Pattern.leadingWildcard() {
			r.emitDiagnostic(DiagnosticEvent{
				Kind:    DiagLeadingWildcard,
				Message: ErrWildcardNotTrailing.Error() + ": " + rt.Path,
				Fields:  map[string]any{"method": rt.Method, "path": rt.Path},
			})
		}
	}

	for _, a := range routes {
		if !a.Pattern.hasWildcard {
			continue
		}
		for _, b := range routes {
			if b.Method != a.Method || b.Pattern.hasWildcard {
				continue
			}
			dynamic := false
			for _, seg := range b.Pattern.segments {
				if seg.kind == segParam {
					dynamic = true
				}
			}
			if !dynamic {
				continue
			}
			if len(b.Pattern.segments) < len(a.Pattern.segments)-1 {
				continue
			}
			if sharesPrefix(a.Pattern, b.Pattern) {
				r.emitDiagnostic(DiagnosticEvent{
					Kind:    DiagOverlappingPattern,
					Message: "wildcard route may shadow or be shadowed by a dynamic route",
					Fields:  map[string]any{"method": a.Method, "wildcard_path": a.Path, "dynamic_path": b.Path},
				})
			}
		}
	}
}

// sharesPrefix reports whether two patterns agree on every segment before
// wildcard's position (static segments equal, or either side being a
// parameter), a heuristic for "could match the same request path".
func sharesPrefix(wildcard, other *Pattern) bool {
	n := len(wildcard.segments) - 1 // exclude the trailing wildcard segment
	if n > len(other.segments) {
		return false
	}
	for i := 0; i < n; i++ {
		a, b := wildcard.segments[i], other.segments[i]
		if a.kind == segStatic && b.kind == segStatic && a.literal != b.literal {
			return false
		}
	}
	return true
}

func (r *Router) ensureWarm() []*FlatRoute {
	if !r.dirty.Load() {
		if p := r.routes.Load(); p != nil {
			return *p
		}
	}
	r.Warmup()
	return *r.routes.Load()
}

// ServeHTTP implements spec.md §4.3's dispatch algorithm: parse the
// request's method and path, scan the priority-sorted route table for the
// first matching pattern (tracking the set of methods that matched the
// path alone), then run the composed chain for a match, or produce a 405
// (path matched, method didn't) or 404 (nothing matched).
func (r *Router) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	routes := r.ensureWarm()
	path := NormalizePath(req.URL.Path)

	var matched *FlatRoute
	var params map[string]string
	allowed := map[string]struct{}{}

	for _, route := range routes {
		result := route.Pattern.Match(path)
		if !result.Matched {
			continue
		}
		allowed[route.Method] = struct{}{}
		if route.Method == req.Method {
			matched = route
			params = result.Params
			break
		}
	}

	if req.Method == http.MethodOptions && matched == nil && len(allowed) > 0 {
		r.writePreflight(w, allowed)
		return
	}

	if matched == nil {
		if len(allowed) > 0 {
			r.writeFailure(w, req, httperror.MethodNotAllowed(req.Method, sortedMethods(allowed)), sortedMethods(allowed))
			return
		}
		r.writeFailure(w, req, httperror.NotFound(), nil)
		return
	}

	ir := r.pool.Get().(*InboundRequest)
	ir.reset()
	ir.Raw = req
	ir.Route = matched
	ir.Params = params
	defer r.pool.Put(ir)

	terminal := func(req *InboundRequest, _ Next) (*Response, error) {
		return runHandler(req, matched)
	}

	resp, err := composeFor(matched.Middleware, terminal, r.checkCancellation, ir)
	if err != nil {
		r.writeErr(w, req, err)
		return
	}
	if resp == nil {
		resp = newResponse(http.StatusNoContent)
	}
	_ = resp.writeTo(w)
}

func (r *Router) writePreflight(w http.ResponseWriter, allowed map[string]struct{}) {
	methods := sortedMethods(allowed)
	w.Header().Set("Allow", strings.Join(methods, ", "))
	w.WriteHeader(http.StatusNoContent)
}

func (r *Router) writeFailure(w http.ResponseWriter, req *http.Request, rendered httperror.Response, allow []string) {
	if len(allow) > 0 {
		w.Header().Set("Allow", strings.Join(allow, ", "))
	}
	resp := responseFromFormatted(rendered)
	_ = resp.writeTo(w)
}

func (r *Router) writeErr(w http.ResponseWriter, req *http.Request, err error) {
	rendered := httperror.NewWire().Format(req, err)
	resp := responseFromFormatted(rendered)
	_ = resp.writeTo(w)
}

func responseFromFormatted(rendered httperror.Response) *Response {
	resp := newResponse(rendered.Status)
	for k, v := range rendered.Headers {
		resp.Headers[k] = v
	}
	if rendered.ContentType != "" {
		resp.Headers.Set("Content-Type", rendered.ContentType)
	}
	if rendered.Body != nil {
		if body, err := marshalJSON(rendered.Body); err == nil {
			resp.Body = body
		}
	}
	return resp
}

func sortedMethods(set map[string]struct{}) []string {
	out := make([]string, 0, len(set))
	for m := range set {
		out = append(out, m)
	}
	sort.Strings(out)
	return out
}

// Serve starts an HTTP server on addr, applying the router's configured
// timeouts. If H2C was enabled via WithH2C, cleartext HTTP/2 is accepted.
func (r *Router) Serve(addr string) error {
	srv := r.newServer(addr)
	return srv.ListenAndServe()
}

// ServeTLS starts a TLS-terminated HTTP server on addr.
func (r *Router) ServeTLS(addr, certFile, keyFile string) error {
	srv := r.newServer(addr)
	return srv.ListenAndServeTLS(certFile, keyFile)
}

func (r *Router) newServer(addr string) *http.Server {
	r.Warmup()
	var handler http.Handler = r
	if r.enableH2C {
		handler = h2c.NewHandler(r, &http2.Server{})
	}
	return &http.Server{
		Addr:              addr,
		Handler:           handler,
		ReadHeaderTimeout: r.serverTimeouts.readHeader,
		ReadTimeout:       r.serverTimeouts.read,
		WriteTimeout:      r.serverTimeouts.write,
		IdleTimeout:       r.serverTimeouts.idle,
	}
}

func marshalJSON(v any) ([]byte, error) {
	return json.Marshal(v)
}
