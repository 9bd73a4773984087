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

import "errors"

// Static errors for better error handling and testing.
// These should be wrapped with fmt.Errorf and %w when context is needed.
var (
	// Router configuration errors
	ErrMaxBodySizeNonPositive = errors.New("max body size must be positive")

	// Route registration errors. Registration never fails a leaf's
	// chained GET/POST/etc. call (it has no error return), so these
	// surface as DiagnosticEvent messages at Warmup time instead of
	// being returned directly; see detectOverlaps in dispatch.go.
	ErrNilHandler          = errors.New("route handler must not be nil")
	ErrEmptyMethod         = errors.New("route method must not be empty")
	ErrWildcardNotTrailing = errors.New("wildcard segment must be the last segment in a path pattern")

	// Request parsing errors
	ErrBodyTooLarge = errors.New("request body exceeds maximum size")
)
