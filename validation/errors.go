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
	"errors"
	"fmt"
	"strings"
)

// ErrValidation is a sentinel error for validation failures; use
// errors.Is(err, ErrValidation) to check whether an error originated here.
var ErrValidation = errors.New("validation")

// ErrCannotRegisterValidators is returned by RegisterTag once the target
// validator has already run its first validation; registration is only
// safe before that point.
var ErrCannotRegisterValidators = errors.New("validation: cannot register tags after first use")

// FieldError is a single failed field, one entry of an [Error].
type FieldError struct {
	Path    string         `json:"path"`
	Code    string         `json:"code"`
	Message string         `json:"message"`
	Meta    map[string]any `json:"meta,omitempty"`
}

// Error implements the error interface as "path: message".
func (e FieldError) Error() string {
	if e.Path == "" {
		return e.Message
	}
	return fmt.Sprintf("%s: %s", e.Path, e.Message)
}

// Unwrap lets errors.Is(err, ErrValidation) see through a FieldError.
func (e FieldError) Unwrap() error {
	return ErrValidation
}

// Error collects every FieldError a single Validate call produced.
//
//nolint:recvcheck // Error uses a value receiver for the error interface; Add mutates via pointer
type Error struct {
	Fields    []FieldError `json:"errors"`
	Truncated bool         `json:"truncated,omitempty"`
}

// Error implements the error interface.
func (v Error) Error() string {
	if len(v.Fields) == 0 {
		return ""
	}
	if len(v.Fields) == 1 {
		return v.Fields[0].Error()
	}

	msgs := make([]string, len(v.Fields))
	for i, f := range v.Fields {
		msgs[i] = f.Error()
	}

	suffix := ""
	if v.Truncated {
		suffix = " (truncated)"
	}
	return fmt.Sprintf("%d validation errors: %s%s", len(v.Fields), strings.Join(msgs, "; "), suffix)
}

// Unwrap lets errors.Is(err, ErrValidation) see through an *Error.
func (v *Error) Unwrap() error {
	return ErrValidation
}

// HasErrors reports whether any field failed.
func (v *Error) HasErrors() bool {
	return len(v.Fields) > 0
}

// Add appends a field error built from its parts.
func (v *Error) Add(path, code, message string, meta map[string]any) {
	v.Fields = append(v.Fields, FieldError{Path: path, Code: code, Message: message, Meta: meta})
}
