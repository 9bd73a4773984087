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
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/vafast/vafast/httperror"
)

func TestNew_RejectsNonPositiveMaxBodySize(t *testing.T) {
	t.Parallel()
	_, err := New(WithMaxBodySize(0))
	if err != ErrMaxBodySizeNonPositive {
		t.Fatalf("err = %v, want ErrMaxBodySizeNonPositive", err)
	}
}

func TestMustNew_PanicsOnError(t *testing.T) {
	t.Parallel()
	defer func() {
		if recover() == nil {
			t.Fatal("expected MustNew to panic on invalid options")
		}
	}()
	MustNew(WithMaxBodySize(-1))
}

func TestRouter_ServeHTTP_MatchesRoute(t *testing.T) {
	t.Parallel()
	r := MustNew()
	r.GET("/users/:id", func(hc *HandlerContext) (any, error) {
		return map[string]any{"id": hc.Params["id"]}, nil
	})

	req := httptest.NewRequest(http.MethodGet, "/users/42", nil)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("Code = %d, want 200", rec.Code)
	}
	var body map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("json.Unmarshal error = %v", err)
	}
	if body["id"] != "42" {
		t.Errorf("id = %v, want 42", body["id"])
	}
}

func TestRouter_ServeHTTP_NotFound(t *testing.T) {
	t.Parallel()
	r := MustNew()
	r.GET("/users", func(hc *HandlerContext) (any, error) { return nil, nil })

	req := httptest.NewRequest(http.MethodGet, "/missing", nil)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	if rec.Code != http.StatusNotFound {
		t.Fatalf("Code = %d, want 404", rec.Code)
	}
}

func TestRouter_ServeHTTP_MethodNotAllowed(t *testing.T) {
	t.Parallel()
	r := MustNew()
	r.GET("/users", func(hc *HandlerContext) (any, error) { return nil, nil })

	req := httptest.NewRequest(http.MethodPost, "/users", nil)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	if rec.Code != http.StatusMethodNotAllowed {
		t.Fatalf("Code = %d, want 405", rec.Code)
	}
	if rec.Header().Get("Allow") != http.MethodGet {
		t.Errorf("Allow = %q, want GET", rec.Header().Get("Allow"))
	}
}

func TestRouter_ServeHTTP_OptionsPreflight(t *testing.T) {
	t.Parallel()
	r := MustNew()
	r.GET("/users", func(hc *HandlerContext) (any, error) { return nil, nil })
	r.POST("/users", func(hc *HandlerContext) (any, error) { return nil, nil })

	req := httptest.NewRequest(http.MethodOptions, "/users", nil)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	if rec.Code != http.StatusNoContent {
		t.Fatalf("Code = %d, want 204", rec.Code)
	}
	allow := rec.Header().Get("Allow")
	if allow != "GET, POST" {
		t.Errorf("Allow = %q, want GET, POST", allow)
	}
}

func TestRouter_ServeHTTP_HandlerErrorRendersHTTPError(t *testing.T) {
	t.Parallel()
	r := MustNew()
	r.GET("/boom", func(hc *HandlerContext) (any, error) {
		return nil, httperror.New(http.StatusConflict, "Conflict", "already exists")
	})

	req := httptest.NewRequest(http.MethodGet, "/boom", nil)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	if rec.Code != http.StatusConflict {
		t.Fatalf("Code = %d, want 409", rec.Code)
	}
}

func TestRouter_ServeHTTP_PanicRecoveredAsOpaque500(t *testing.T) {
	t.Parallel()
	r := MustNew()
	r.GET("/panics", func(hc *HandlerContext) (any, error) {
		panic("boom")
	})

	req := httptest.NewRequest(http.MethodGet, "/panics", nil)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("Code = %d, want 500", rec.Code)
	}
}

func TestRouter_ServeHTTP_SchemaValidationFailureIs400(t *testing.T) {
	t.Parallel()
	r := MustNew()
	r.POST("/items", func(hc *HandlerContext) (any, error) {
		return nil, nil
	}, WithSchema(&SchemaConfig{Body: schemaFunc(func() (Checker, error) {
		return func(any) bool { return false }, nil
	})}))

	req := httptest.NewRequest(http.MethodPost, "/items", strings.NewReader(`{"x":1}`))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("Code = %d, want 400", rec.Code)
	}
}

func TestRouter_Group_InheritsMiddlewareAndPrefix(t *testing.T) {
	t.Parallel()
	var seen []string
	r := MustNew()
	r.Use(recordingMiddleware(&seen, "global"))
	api := r.Group("/api", recordingMiddleware(&seen, "api"))
	api.GET("/ping", func(hc *HandlerContext) (any, error) { return "pong", nil })

	req := httptest.NewRequest(http.MethodGet, "/api/ping", nil)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("Code = %d, want 200", rec.Code)
	}
	if len(seen) != 2 || seen[0] != "global" || seen[1] != "api" {
		t.Fatalf("seen = %v, want [global api]", seen)
	}
}

func TestRouter_Warmup_DetectsDuplicateRoute(t *testing.T) {
	t.Parallel()
	var events []DiagnosticEvent
	r := MustNew(WithDiagnostics(DiagnosticHandlerFunc(func(e DiagnosticEvent) {
		events = append(events, e)
	})))
	r.GET("/dup", func(hc *HandlerContext) (any, error) { return nil, nil })
	r.GET("/dup", func(hc *HandlerContext) (any, error) { return nil, nil })
	r.Warmup()

	if !hasDiagnostic(events, DiagDuplicateRoute) {
		t.Fatalf("expected a DiagDuplicateRoute event, got %v", events)
	}
}

func TestRouter_Warmup_DetectsLeadingWildcard(t *testing.T) {
	t.Parallel()
	var events []DiagnosticEvent
	r := MustNew(WithDiagnostics(DiagnosticHandlerFunc(func(e DiagnosticEvent) {
		events = append(events, e)
	})))
	r.GET("/files/*rest/meta", func(hc *HandlerContext) (any, error) { return nil, nil })
	r.Warmup()

	if !hasDiagnostic(events, DiagLeadingWildcard) {
		t.Fatalf("expected a DiagLeadingWildcard event, got %v", events)
	}
}

func TestRouter_Warmup_DetectsNilHandler(t *testing.T) {
	t.Parallel()
	var events []DiagnosticEvent
	r := MustNew(WithDiagnostics(DiagnosticHandlerFunc(func(e DiagnosticEvent) {
		events = append(events, e)
	})))
	r.GET("/nil-handler", nil)
	r.Warmup()

	if !hasDiagnostic(events, DiagNilHandler) {
		t.Fatalf("expected a DiagNilHandler event, got %v", events)
	}
}

func TestRouter_Warmup_DetectsOverlappingPattern(t *testing.T) {
	t.Parallel()
	var events []DiagnosticEvent
	r := MustNew(WithDiagnostics(DiagnosticHandlerFunc(func(e DiagnosticEvent) {
		events = append(events, e)
	})))
	r.GET("/assets/*path", func(hc *HandlerContext) (any, error) { return nil, nil })
	r.GET("/assets/:name", func(hc *HandlerContext) (any, error) { return nil, nil })
	r.Warmup()

	if !hasDiagnostic(events, DiagOverlappingPattern) {
		t.Fatalf("expected a DiagOverlappingPattern event, got %v", events)
	}
}

func TestRouter_WithH2C_EmitsDiagnostic(t *testing.T) {
	t.Parallel()
	var events []DiagnosticEvent
	MustNew(
		WithDiagnostics(DiagnosticHandlerFunc(func(e DiagnosticEvent) { events = append(events, e) })),
		WithH2C(true),
	)
	if !hasDiagnostic(events, DiagH2CEnabled) {
		t.Fatalf("expected a DiagH2CEnabled event, got %v", events)
	}
}

func TestRouter_MaxBodySize_AppliesAsDefaultToRoutes(t *testing.T) {
	t.Parallel()
	r := MustNew(WithMaxBodySize(16))
	r.POST("/upload", func(hc *HandlerContext) (any, error) { return nil, nil })

	req := httptest.NewRequest(http.MethodPost, "/upload", strings.NewReader(`{"padding":"aaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaa"}`))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("Code = %d, want 400 (body exceeds router-level max size)", rec.Code)
	}
}

func TestRouter_Routes_SortedBySpecificity(t *testing.T) {
	t.Parallel()
	r := MustNew()
	r.GET("/a/*rest", func(hc *HandlerContext) (any, error) { return nil, nil })
	r.GET("/a/b", func(hc *HandlerContext) (any, error) { return nil, nil }, WithName("static"))

	routes := r.Routes()
	if len(routes) != 2 {
		t.Fatalf("len(routes) = %d, want 2", len(routes))
	}
	if routes[0].Name != "static" {
		t.Errorf("routes[0].Name = %q, want static (higher specificity first)", routes[0].Name)
	}
}

func TestRouter_RouteByName(t *testing.T) {
	t.Parallel()
	r := MustNew()
	r.GET("/users/:id", func(hc *HandlerContext) (any, error) { return nil, nil }, WithName("get-user"))

	info, ok := r.RouteByName("get-user")
	if !ok {
		t.Fatal("expected to find route by name")
	}
	if info.Path != "/users/:id" {
		t.Errorf("Path = %q, want /users/:id", info.Path)
	}

	if _, ok := r.RouteByName("missing"); ok {
		t.Fatal("expected ok=false for unregistered name")
	}
	if _, ok := r.RouteByName(""); ok {
		t.Fatal("expected ok=false for empty name")
	}
}

func hasDiagnostic(events []DiagnosticEvent, kind DiagnosticKind) bool {
	for _, e := range events {
		if e.Kind == kind {
			return true
		}
	}
	return false
}

func recordingMiddleware(seen *[]string, label string) Middleware {
	return func(req *InboundRequest, next Next) (*Response, error) {
		*seen = append(*seen, label)
		return next(nil)
	}
}
