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

// Package httperror provides the framework-defined HTTP error carried by
// user code, plus the Formatter abstraction used to render it onto the
// wire, and the builders (NotFound, MethodNotAllowed, ValidationError) of
// the dispatcher's own failure bodies.
//
// Domain errors can implement the optional ErrorType, ErrorDetails and
// ErrorCode interfaces to control status codes and expose structured
// detail without depending on this package's concrete Error type.
//
// # Quick start
//
//	err := httperror.New(http.StatusConflict, "DuplicateEmail", "an account with this email already exists")
//	return nil, err
//
// The outermost error-handling middleware (conventionally Recovery, see the
// middleware package) is expected to use a Formatter such as Wire to turn
// any error reaching it into a response.
package httperror
