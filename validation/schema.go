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

package validation

import (
	"context"
	"encoding/json"

	"github.com/vafast/vafast/router"
)

// JSONSchema adapts a JSON Schema document to [router.Schema], letting a
// route's body/query/params/headers/cookies sub-schemas reuse this
// package's JSON Schema engine and its [Validator]'s schema cache. The value
// handed to the resulting Checker is already decoded JSON (map[string]any,
// []any, or a scalar) — it is validated directly, without a struct
// round-trip.
//
// Example:
//
//	userBody := validation.JSONSchema{
//	    ID:     "user-create",
//	    Schema: `{"type":"object","required":["email"],"properties":{"email":{"type":"string","format":"email"}}}`,
//	}
//	api.POST("/users", createUser, router.WithSchema(&router.SchemaConfig{Body: userBody}))
type JSONSchema struct {
	ID     string
	Schema string

	// Validator is the instance whose schema cache and options back this
	// schema; nil uses the package's default instance.
	Validator *Validator
}

// Compile compiles the schema document (or reuses the Validator's cached
// copy for the same ID) and returns a Checker that validates decoded JSON
// values against it; a malformed document makes Compile return an error.
func (s JSONSchema) Compile() (router.Checker, error) {
	v := s.Validator
	if v == nil {
		v = defaultValidator()
	}

	schema, err := v.getOrCompileSchema(s.ID, s.Schema)
	if err != nil {
		return nil, err
	}

	return func(value any) bool {
		return schema.Validate(value) == nil
	}, nil
}

// StructSchema adapts struct-tag validation (go-playground/validator, via
// [Validator.Validate]) to [router.Schema] for a concrete request type T. The
// Checker accepts either a T, a *T, or decoded JSON (map[string]any/[]any)
// that round-trips into a T through encoding/json — the shape parseBody and
// parseQuery hand to a Checker.
//
// Example:
//
//	type CreateUserBody struct {
//	    Email string `json:"email" validate:"required,email"`
//	}
//	api.POST("/users", createUser, router.WithSchema(&router.SchemaConfig{
//	    Body: validation.StructSchema[CreateUserBody]{},
//	}))
type StructSchema[T any] struct {
	// Validator is the instance used to run tag validation; nil uses the
	// package's default instance.
	Validator *Validator

	// Options are extra per-schema validation options (e.g. WithMaxErrors),
	// layered on top of the Validator's own construction-time options.
	Options []Option
}

// Compile returns a Checker that coerces the dispatched value into a T and
// validates it against T's struct tags.
func (s StructSchema[T]) Compile() (router.Checker, error) {
	v := s.Validator
	if v == nil {
		v = defaultValidator()
	}

	return func(value any) bool {
		target, ok := coerceToStruct[T](value)
		if !ok {
			return false
		}
		return v.Validate(context.Background(), target, s.Options...) == nil
	}, nil
}

// coerceToStruct adapts a Checker's generic value into *T: a *T or T passes
// through directly, anything else round-trips through encoding/json so
// decoded request bodies (map[string]any, []any, ...) can be validated
// against a concrete Go struct's tags.
func coerceToStruct[T any](value any) (*T, bool) {
	switch v := value.(type) {
	case *T:
		return v, true
	case T:
		return &v, true
	}

	raw, err := json.Marshal(value)
	if err != nil {
		return nil, false
	}

	var target T
	if err := json.Unmarshal(raw, &target); err != nil {
		return nil, false
	}

	return &target, true
}
