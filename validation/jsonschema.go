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
	"encoding/json"
	"fmt"

	"github.com/santhosh-tekuri/jsonschema/v6"
)

// defaultMaxCachedSchemas is the default size of a Validator's compiled
// JSON Schema cache. Override with [WithMaxCachedSchemas].
const defaultMaxCachedSchemas = 1024

// jsonschemaSchema aliases the compiled schema type from
// santhosh-tekuri/jsonschema/v6, kept private so callers only ever see it
// through [JSONSchema.Compile]'s router.Checker return value.
type jsonschemaSchema = jsonschema.Schema

// compileSchema parses and compiles a JSON Schema document. id, when
// non-empty, becomes the resource URL the compiler registers the schema
// under; an empty id uses a synthetic "schema.json".
func compileSchema(id, schemaJSON string) (*jsonschemaSchema, error) {
	compiler := jsonschema.NewCompiler()
	compiler.AssertFormat()
	compiler.AssertContent()

	var schemaDoc any
	if err := json.Unmarshal([]byte(schemaJSON), &schemaDoc); err != nil {
		return nil, fmt.Errorf("invalid schema JSON: %w", err)
	}

	schemaURL := id
	if schemaURL == "" {
		schemaURL = "schema.json"
	}
	if err := compiler.AddResource(schemaURL, schemaDoc); err != nil {
		return nil, fmt.Errorf("add schema resource: %w", err)
	}

	schema, err := compiler.Compile(schemaURL)
	if err != nil {
		return nil, fmt.Errorf("compile schema: %w", err)
	}
	return schema, nil
}
