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

// HandlerFunc is the typed contract user code implements. It receives a
// HandlerContext built for the matched route and returns an arbitrary
// value (mapped to a response by the Response Mapper, see response.go) and
// an error.
//
// A non-nil error propagates to the outermost error-handling middleware
// (conventionally Recovery), or else to the dispatcher, which renders it
// with httperror.Wire: a *httperror.Error at its own status, an
// httperror.ErrorType at its HTTPStatus, any other error as an opaque 500.
type HandlerFunc func(hc *HandlerContext) (any, error)

// Next is handed to a Middleware by the Composer. Calling it invokes the
// remainder of the chain and returns its response. Passing a non-nil locals
// map merges it into the request scratchpad before the downstream stage
// runs, which is how a middleware injects typed values (e.g. an auth
// middleware supplying {"user": u}) for later middlewares and the handler
// to read back out of the scratchpad.
type Next func(locals map[string]any) (*Response, error)

// Middleware is a single stage in a request pipeline. It may:
//   - short-circuit by returning a response without calling next,
//   - call next, then inspect or rewrite the returned response,
//   - wrap the call in error handling (recover from panics, translate
//     errors).
//
// Code written after a call to next only runs once every downstream stage
// has completed, mirroring a classic "before/after" middleware shape.
type Middleware func(req *InboundRequest, next Next) (*Response, error)
