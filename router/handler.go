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
	"fmt"
	"net/http"

	"github.com/vafast/vafast/httperror"
)

// compiledSchema caches a Schema's Checker. Each route compiles its own
// schemas once, when Warmup builds the route table; routes that share one
// Schema value each compile it separately.
type compiledSchema struct {
	schema  Schema
	checker Checker
}

func compile(s Schema) (*compiledSchema, error) {
	if s == nil {
		return nil, nil
	}
	checker, err := s.Compile()
	if err != nil {
		return nil, err
	}
	return &compiledSchema{schema: s, checker: checker}, nil
}

// compiledRoute is the runtime-ready form of a FlatRoute's SchemaConfig:
// every configured sub-schema has already been compiled once.
type compiledRoute struct {
	body, query, params, headers, cookies *compiledSchema
}

func compileRoute(cfg *SchemaConfig) (*compiledRoute, error) {
	if cfg == nil {
		return &compiledRoute{}, nil
	}
	var cr compiledRoute
	var err error
	if cr.body, err = compile(cfg.Body); err != nil {
		return nil, fmt.Errorf("compiling body schema: %w", err)
	}
	if cr.query, err = compile(cfg.Query); err != nil {
		return nil, fmt.Errorf("compiling query schema: %w", err)
	}
	if cr.params, err = compile(cfg.Params); err != nil {
		return nil, fmt.Errorf("compiling params schema: %w", err)
	}
	if cr.headers, err = compile(cfg.Headers); err != nil {
		return nil, fmt.Errorf("compiling headers schema: %w", err)
	}
	if cr.cookies, err = compile(cfg.Cookies); err != nil {
		return nil, fmt.Errorf("compiling cookies schema: %w", err)
	}
	return &cr, nil
}

// runHandler is the terminal stage of the composed chain for a matched
// route (spec.md §4.7's Handler Factory): it parses the request into a
// HandlerContext, validates every configured sub-schema in turn (400 on
// the first failure), merges scratchpad locals, invokes the user function,
// and maps its return value to a canonical Response.
//
// Route-level schemas are compiled during Warmup and cached on the
// FlatRoute (see FlatRoute.compiledSchemas), so requests only pay for
// Checker invocation, never Schema.Compile.
func runHandler(req *InboundRequest, route *FlatRoute) (resp *Response, err error) {
	compiled, compileErr := route.compiledSchemas()
	if compileErr != nil {
		return nil, compileErr
	}

	body, err := parseBody(req.Raw, bodySizeLimit(route))
	if err != nil {
		return responseFromValidation(err.Error()), nil
	}
	query := parseQuery(req.Raw.URL.RawQuery)
	headers := parseHeaders(req.Raw.Header)
	cookies := parseCookies(req.Raw)

	if compiled.body != nil && !compiled.body.checker(body) {
		return responseFromValidation("request body failed validation"), nil
	}
	if compiled.query != nil && !compiled.query.checker(query) {
		return responseFromValidation("query parameters failed validation"), nil
	}
	if compiled.params != nil && !compiled.params.checker(req.Params) {
		return responseFromValidation("path parameters failed validation"), nil
	}
	if compiled.headers != nil && !compiled.headers.checker(headers) {
		return responseFromValidation("headers failed validation"), nil
	}
	if compiled.cookies != nil && !compiled.cookies.checker(cookies) {
		return responseFromValidation("cookies failed validation"), nil
	}

	hc := &HandlerContext{
		Req:     req.Raw,
		Body:    body,
		Query:   query,
		Params:  req.Params,
		Headers: headers,
		Cookies: cookies,
		Locals:  req.locals,
	}

	defer func() {
		if r := recover(); r != nil {
			resp = nil
			err = httperror.NewHidden(http.StatusInternalServerError, "Internal", fmt.Sprintf("panic: %v", r))
		}
	}()

	value, herr := route.Handler(hc)
	if herr != nil {
		return nil, herr
	}
	return MapResponse(value)
}

func bodySizeLimit(route *FlatRoute) int64 {
	if route.maxBodySize > 0 {
		return route.maxBodySize
	}
	return defaultMaxBodySize
}

func responseFromValidation(detail string) *Response {
	rendered := httperror.ValidationError(detail)
	return responseFromFormatted(rendered)
}
