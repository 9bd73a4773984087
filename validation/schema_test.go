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

//go:build !integration

package validation

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestJSONSchema_Compile(t *testing.T) {
	t.Parallel()

	schema := JSONSchema{
		ID:     "schema-compile-user",
		Schema: `{"type":"object","required":["email"],"properties":{"email":{"type":"string","format":"email"}}}`,
	}

	checker, err := schema.Compile()
	require.NoError(t, err)
	require.NotNil(t, checker)

	assert.True(t, checker(map[string]any{"email": "john@example.com"}))
	assert.False(t, checker(map[string]any{}))
	assert.False(t, checker(map[string]any{"email": 123}))
}

func TestJSONSchema_Compile_InvalidSchema(t *testing.T) {
	t.Parallel()

	schema := JSONSchema{ID: "schema-compile-invalid", Schema: `not json`}
	_, err := schema.Compile()
	require.Error(t, err)
}

func TestJSONSchema_Compile_ReusesCache(t *testing.T) {
	t.Parallel()

	v := MustNew()
	schema := JSONSchema{ID: "schema-compile-reuse", Schema: `{"type":"object"}`, Validator: v}

	checkerA, err := schema.Compile()
	require.NoError(t, err)
	checkerB, err := schema.Compile()
	require.NoError(t, err)

	assert.True(t, checkerA(map[string]any{}))
	assert.True(t, checkerB(map[string]any{}))
}

func TestStructSchema_Compile(t *testing.T) {
	t.Parallel()

	type CreateUserBody struct {
		Email string `json:"email" validate:"required,email"`
		Age   int    `json:"age" validate:"min=0"`
	}

	checker, err := (StructSchema[CreateUserBody]{}).Compile()
	require.NoError(t, err)
	require.NotNil(t, checker)

	t.Run("decoded JSON map satisfies tags", func(t *testing.T) {
		t.Parallel()
		assert.True(t, checker(map[string]any{"email": "john@example.com", "age": float64(30)}))
	})

	t.Run("decoded JSON map fails required tag", func(t *testing.T) {
		t.Parallel()
		assert.False(t, checker(map[string]any{"age": float64(30)}))
	})

	t.Run("concrete struct value passes through directly", func(t *testing.T) {
		t.Parallel()
		assert.True(t, checker(CreateUserBody{Email: "john@example.com"}))
	})

	t.Run("concrete struct pointer passes through directly", func(t *testing.T) {
		t.Parallel()
		assert.True(t, checker(&CreateUserBody{Email: "john@example.com"}))
	})

	t.Run("value that cannot marshal fails closed", func(t *testing.T) {
		t.Parallel()
		assert.False(t, checker(make(chan int)))
	})
}

func TestStructSchema_Compile_WithOptions(t *testing.T) {
	t.Parallel()

	type Item struct {
		Name string `json:"name" validate:"required"`
	}

	checker, err := (StructSchema[Item]{
		Options: []Option{WithMessages(map[string]string{"required": "cannot be empty"})},
	}).Compile()
	require.NoError(t, err)

	assert.True(t, checker(map[string]any{"name": "widget"}))
	assert.False(t, checker(map[string]any{}))
}
