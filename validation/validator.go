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
	"fmt"
	"reflect"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/go-playground/validator/v10"
)

// Validator backs both [StructSchema] (struct-tag validation) and
// [JSONSchema] (JSON-Schema validation). It owns one go-playground/validator
// instance and one compiled-schema cache, both safe for concurrent use.
type Validator struct {
	cfg *config

	tagValidator     *validator.Validate
	tagValidatorOnce sync.Once
	tagValidatorErr  error
	tagsFrozen       atomic.Bool
	registerMu       sync.Mutex

	schemaCache   map[string]*schemaCacheEntry
	schemaCacheMu sync.RWMutex
}

var (
	defaultValidatorInstance *Validator
	defaultValidatorOnce     sync.Once
)

// defaultValidator is the zero-configuration Validator used when a Schema
// value (e.g. StructSchema{}) is built without an explicit Validator.
func defaultValidator() *Validator {
	defaultValidatorOnce.Do(func() {
		defaultValidatorInstance = MustNew()
	})
	return defaultValidatorInstance
}

// New creates a Validator with the given options. It returns an error if
// the configuration is invalid (e.g. a negative maxErrors).
func New(opts ...Option) (*Validator, error) {
	cfg := newConfig(opts...)
	if err := cfg.validate(); err != nil {
		return nil, err
	}

	v := &Validator{
		cfg:         cfg,
		schemaCache: make(map[string]*schemaCacheEntry),
	}
	if err := v.initTagValidator(); err != nil {
		return nil, fmt.Errorf("initialize tag validator: %w", err)
	}
	return v, nil
}

// MustNew is [New], panicking on error. Use in init() or package-level var
// initialization where a bad configuration should fail fast.
func MustNew(opts ...Option) *Validator {
	v, err := New(opts...)
	if err != nil {
		panic(fmt.Sprintf("validation.MustNew: %v", err))
	}
	return v
}

func (v *Validator) initTagValidator() error {
	v.tagValidatorOnce.Do(func() {
		v.tagValidator = validator.New(validator.WithRequiredStructEnabled())
		v.tagValidator.RegisterTagNameFunc(func(fld reflect.StructField) string {
			name := fld.Tag.Get("json")
			if name == "-" {
				return ""
			}
			if idx := strings.Index(name, ","); idx != -1 {
				name = name[:idx]
			}
			if name == "" {
				return fld.Name
			}
			return name
		})

		if err := v.registerBuiltinValidators(); err != nil {
			v.tagValidatorErr = fmt.Errorf("register built-in validators: %w", err)
			return
		}
		for _, ct := range v.cfg.customTags {
			if err := v.tagValidator.RegisterValidation(ct.name, ct.fn); err != nil {
				v.tagValidatorErr = fmt.Errorf("register custom tag %q: %w", ct.name, err)
				return
			}
		}
	})
	return v.tagValidatorErr
}

// RegisterTag adds a custom go-playground/validator tag to this instance.
// It must run before the instance's first Validate call; once the tag
// validator has initialized, registration is frozen and RegisterTag returns
// [ErrCannotRegisterValidators].
func (v *Validator) RegisterTag(name string, fn validator.Func) error {
	v.registerMu.Lock()
	defer v.registerMu.Unlock()

	if v.tagsFrozen.Load() {
		return ErrCannotRegisterValidators
	}
	if err := v.initTagValidator(); err != nil {
		return err
	}
	return v.tagValidator.RegisterValidation(name, fn)
}

// Validate runs struct-tag validation (go-playground/validator) against
// val, which may be a struct, a struct pointer, or anything JSON-shaped
// (map[string]any) that [StructSchema]'s coercion has already produced.
//
// Validate returns nil when val passes, or an *Error listing every failed
// field when it doesn't.
func (v *Validator) Validate(_ context.Context, val any, opts ...Option) error {
	v.tagsFrozen.Store(true)
	if err := v.initTagValidator(); err != nil {
		return &Error{Fields: []FieldError{{Code: "tag_validator_init_error", Message: err.Error()}}}
	}

	cfg := v.cfg
	if len(opts) > 0 {
		merged := *v.cfg
		for _, opt := range opts {
			opt(&merged)
		}
		cfg = &merged
	}

	rv := reflect.ValueOf(val)
	for rv.Kind() == reflect.Ptr {
		if rv.IsNil() {
			return nil
		}
		rv = rv.Elem()
	}
	if rv.Kind() != reflect.Struct {
		return nil
	}

	err := v.tagValidator.Struct(rv.Interface())
	if err == nil {
		return nil
	}

	if verrs, ok := err.(validator.ValidationErrors); ok {
		return formatTagErrors(verrs, rv.Interface(), cfg)
	}
	return &Error{Fields: []FieldError{{Code: "tag_error", Message: err.Error()}}}
}

// getOrCompileSchema returns a cached JSON Schema by id, compiling and
// caching a new one on a miss. An empty id bypasses the cache entirely
// (every call recompiles), matching the teacher's behavior for anonymous
// inline schemas.
func (v *Validator) getOrCompileSchema(id, schemaJSON string) (*jsonschemaSchema, error) {
	now := time.Now()

	if id != "" {
		v.schemaCacheMu.RLock()
		if entry, ok := v.schemaCache[id]; ok {
			schema := entry.schema
			v.schemaCacheMu.RUnlock()
			entry.lastAccess.Store(now.UnixNano())
			return schema, nil
		}
		v.schemaCacheMu.RUnlock()
	}

	schema, err := compileSchema(id, schemaJSON)
	if err != nil {
		return nil, err
	}
	if id == "" {
		return schema, nil
	}

	v.schemaCacheMu.Lock()
	defer v.schemaCacheMu.Unlock()

	maxCache := v.cfg.maxCachedSchemas
	if maxCache == 0 {
		maxCache = defaultMaxCachedSchemas
	}
	if len(v.schemaCache) >= maxCache {
		v.evictOldestLocked()
	}

	entry := &schemaCacheEntry{schema: schema}
	entry.lastAccess.Store(now.UnixNano())
	v.schemaCache[id] = entry
	return schema, nil
}

// evictOldestLocked drops the least-recently-accessed cache entry.
// Callers must hold schemaCacheMu for writing.
func (v *Validator) evictOldestLocked() {
	var oldestID string
	var oldestNano int64
	found := false
	for id, entry := range v.schemaCache {
		nano := entry.lastAccess.Load()
		if !found || nano < oldestNano {
			oldestID, oldestNano, found = id, nano, true
		}
	}
	if found {
		delete(v.schemaCache, oldestID)
	}
}

type schemaCacheEntry struct {
	schema     *jsonschemaSchema
	lastAccess atomic.Int64
}

// RegisterTag registers a custom validation tag on the shared default
// Validator backing every [StructSchema] built without an explicit
// Validator. Must run before the default Validator's first Validate call,
// which happens the first time such a Schema's Checker runs.
func RegisterTag(name string, fn validator.Func) error {
	return defaultValidator().RegisterTag(name, fn)
}
