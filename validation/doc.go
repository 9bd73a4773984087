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

// Package validation supplies concrete [router.Schema] implementations for
// vafast routes: [StructSchema] validates decoded request data (a
// map[string]any or a concrete struct) against go-playground/validator
// struct tags, and [JSONSchema] validates it against a JSON Schema document
// compiled with santhosh-tekuri/jsonschema/v6.
//
// Neither type inspects the value it's given beyond what it needs to run
// its own check; the router never imports this package, only the Schema
// interface it implements, so a route can swap in any other Schema without
// touching router code.
//
//	type CreateUserBody struct {
//		Email string `json:"email" validate:"required,email"`
//		Age   int    `json:"age" validate:"min=18"`
//	}
//
//	router.WithSchema(&router.SchemaConfig{
//		Body: validation.StructSchema[CreateUserBody]{},
//	})
//
// A [Validator] backs both Schema types; use [New] or [MustNew] to
// configure one (custom tags, per-tag messages, schema cache size) instead
// of the lazily-built default instance.
//
// [Validator] and its package-level entry points are safe for concurrent
// use.
package validation
