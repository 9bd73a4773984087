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
	"fmt"
	"reflect"

	"github.com/go-playground/validator/v10"
)

// MessageFunc computes a tag error message from the tag's parameter (e.g.
// "3" for validate:"min=3") and the failing field's kind.
type MessageFunc func(param string, kind reflect.Kind) string

// customTag pairs a tag name with its validator.Func, registered on a
// Validator instance at construction via WithCustomTag.
type customTag struct {
	name string
	fn   validator.Func
}

// config holds construction-time Validator settings.
type config struct {
	maxErrors        int
	maxCachedSchemas int
	customTags       []customTag
	messages         map[string]string
	messageFuncs     map[string]MessageFunc
}

// Option is a functional option for [New] and [MustNew].
type Option func(*config)

// WithCustomTag registers an additional go-playground/validator tag on the
// Validator instance being constructed.
func WithCustomTag(name string, fn validator.Func) Option {
	return func(c *config) {
		c.customTags = append(c.customTags, customTag{name: name, fn: fn})
	}
}

// WithMessages overrides the default message for one or more validator tags
// (e.g. "required", "email") with a static string.
func WithMessages(messages map[string]string) Option {
	return func(c *config) {
		if c.messages == nil {
			c.messages = make(map[string]string, len(messages))
		}
		for tag, msg := range messages {
			c.messages[tag] = msg
		}
	}
}

// WithMessageFunc overrides the message for a single tag with a function of
// its parameter and the field's kind; takes precedence over [WithMessages]
// for the same tag.
func WithMessageFunc(tag string, fn MessageFunc) Option {
	return func(c *config) {
		if c.messageFuncs == nil {
			c.messageFuncs = make(map[string]MessageFunc)
		}
		c.messageFuncs[tag] = fn
	}
}

// WithMaxErrors limits the number of FieldErrors a single Validate call
// returns. Zero (the default) means unlimited.
func WithMaxErrors(maxErrors int) Option {
	return func(c *config) {
		c.maxErrors = maxErrors
	}
}

// WithMaxCachedSchemas sets the maximum number of compiled JSON Schemas an
// instance keeps in its identity-keyed cache. Zero means the default (1024).
func WithMaxCachedSchemas(maxCachedSchemas int) Option {
	return func(c *config) {
		c.maxCachedSchemas = maxCachedSchemas
	}
}

func newConfig(opts ...Option) *config {
	cfg := &config{}
	for _, opt := range opts {
		opt(cfg)
	}
	return cfg
}

func (c *config) validate() error {
	if c.maxErrors < 0 {
		return fmt.Errorf("validation: maxErrors must be non-negative, got %d", c.maxErrors)
	}
	if c.maxCachedSchemas < 0 {
		return fmt.Errorf("validation: maxCachedSchemas must be non-negative, got %d", c.maxCachedSchemas)
	}
	return nil
}
