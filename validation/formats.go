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
	"reflect"
	"regexp"
	"strconv"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"
)

// Formats spec.md §4.6 names that go-playground/validator has no built-in
// tag for. email/uuid/url/ipv4/ipv6/cidr/hostname/datetime/base64/
// base64url/jwt/hexcolor/rgb/credit_card all map directly onto the
// library's own tags and need no registration here.
var (
	reUsername = regexp.MustCompile(`^[a-zA-Z0-9_]{3,20}$`)
	reSlug     = regexp.MustCompile(`^[a-z0-9]+(?:-[a-z0-9]+)*$`)
	reCUID     = regexp.MustCompile(`^c[a-z0-9]{24}$`)
	reCUID2    = regexp.MustCompile(`^[a-z][a-z0-9]{7,31}$`)
	reULID     = regexp.MustCompile(`^[0-7][0-9A-HJKMNP-TV-Z]{25}$`)
	reNanoID   = regexp.MustCompile(`^[A-Za-z0-9_-]{21}$`)
	reSemver     = regexp.MustCompile(`^v?(0|[1-9]\d*)\.(0|[1-9]\d*)\.(0|[1-9]\d*)(?:-[0-9A-Za-z.-]+)?(?:\+[0-9A-Za-z.-]+)?$`)
	reISODur     = regexp.MustCompile(`^P(?:\d+Y)?(?:\d+M)?(?:\d+W)?(?:\d+D)?(?:T(?:\d+H)?(?:\d+M)?(?:\d+(?:\.\d+)?S)?)?$`)
	rePhoneE164  = regexp.MustCompile(`^\+[1-9]\d{1,14}$`)
	rePhoneLoose = regexp.MustCompile(`^\(?\d{3}\)?[-.\s]?\d{3}[-.\s]?\d{4}$`)

	pathCache     sync.Map // reflect.Type -> *sync.Map[string]string, namespace -> JSON path
	fieldMapCache sync.Map // reflect.Type -> map[string]int, JSON field name -> field index
)

// registerBuiltinValidators registers the custom format tags spec.md §4.6
// asks for that go-playground/validator doesn't ship natively.
func (v *Validator) registerBuiltinValidators() error {
	checks := []struct {
		tag string
		fn  validator.Func
	}{
		{"username", regexCheck(reUsername)},
		{"slug", regexCheck(reSlug)},
		{"cuid", regexCheck(reCUID)},
		{"cuid2", regexCheck(reCUID2)},
		{"ulid", regexCheck(reULID)},
		{"nanoid", regexCheck(reNanoID)},
		{"semver", regexCheck(reSemver)},
		{"duration", durationCheck},
		{"phone", phoneCheck},
		{"strong_password", func(fl validator.FieldLevel) bool {
			return len(fl.Field().String()) >= 8
		}},
	}
	for _, c := range checks {
		if err := v.tagValidator.RegisterValidation(c.tag, c.fn); err != nil {
			return err
		}
	}
	return nil
}

func regexCheck(re *regexp.Regexp) validator.Func {
	return func(fl validator.FieldLevel) bool {
		return re.MatchString(fl.Field().String())
	}
}

// durationCheck accepts either an ISO 8601 duration ("PT30M") or Go's
// time.ParseDuration syntax ("30m", "1h30m").
func durationCheck(fl validator.FieldLevel) bool {
	s := fl.Field().String()
	if s == "" {
		return false
	}
	if reISODur.MatchString(s) && s != "P" {
		return true
	}
	return isGoDuration(s)
}

func isGoDuration(s string) bool {
	i := 0
	if i < len(s) && (s[i] == '+' || s[i] == '-') {
		i++
	}
	saw := false
	for i < len(s) {
		start := i
		for i < len(s) && (s[i] >= '0' && s[i] <= '9' || s[i] == '.') {
			i++
		}
		if i == start {
			return false
		}
		unitStart := i
		for i < len(s) && !(s[i] >= '0' && s[i] <= '9') && s[i] != '.' {
			i++
		}
		unit := s[unitStart:i]
		switch unit {
		case "ns", "us", "µs", "ms", "s", "m", "h":
			saw = true
		default:
			return false
		}
	}
	return saw
}

// phoneCheck accepts E.164 ("+14155552671") or a loose regional format
// ("415-555-2671", "(415) 555-2671").
func phoneCheck(fl validator.FieldLevel) bool {
	s := fl.Field().String()
	return rePhoneE164.MatchString(s) || rePhoneLoose.MatchString(s)
}

// getJSONFieldName returns the JSON tag name for a struct field, falling
// back to the Go field name.
func getJSONFieldName(field reflect.StructField) string {
	jsonTag := field.Tag.Get("json")
	if jsonTag == "" || jsonTag == "-" {
		return field.Name
	}
	if idx := strings.Index(jsonTag, ","); idx != -1 {
		return jsonTag[:idx]
	}
	return jsonTag
}

func getFieldMap(structType reflect.Type) map[string]int {
	if cached, ok := fieldMapCache.Load(structType); ok {
		return cached.(map[string]int)
	}
	fieldMap := make(map[string]int, structType.NumField())
	for i := range structType.NumField() {
		field := structType.Field(i)
		if name := getJSONFieldName(field); name != "" && name != "-" {
			fieldMap[name] = i
		}
	}
	actual, _ := fieldMapCache.LoadOrStore(structType, fieldMap)
	return actual.(map[string]int)
}

// getCachedJSONPath converts a go-playground/validator namespace
// ("CreateUserBody.Address.City") into a JSON field path ("address.city"),
// caching per struct type since the mapping never changes for a given type.
func getCachedJSONPath(ns string, structType reflect.Type) string {
	cacheVal, _ := pathCache.LoadOrStore(structType, &sync.Map{})
	typeCache := cacheVal.(*sync.Map)

	if cached, ok := typeCache.Load(ns); ok {
		return cached.(string)
	}
	jsonPath := namespaceToJSONPath(ns, structType)
	actual, _ := typeCache.LoadOrStore(ns, jsonPath)
	return actual.(string)
}

func namespaceToJSONPath(ns string, structType reflect.Type) string {
	parts := strings.Split(ns, ".")
	result := make([]string, 0, len(parts))

	currentType := structType
	for _, part := range parts {
		if idx, err := strconv.Atoi(part); err == nil {
			result = append(result, strconv.Itoa(idx))
			if currentType.Kind() == reflect.Slice || currentType.Kind() == reflect.Array {
				currentType = currentType.Elem()
			}
			continue
		}

		if currentType.Kind() == reflect.Struct {
			if field, found := currentType.FieldByName(part); found {
				result = append(result, getJSONFieldName(field))
				currentType = field.Type
				if currentType.Kind() == reflect.Ptr {
					currentType = currentType.Elem()
				}
				continue
			}
		}

		result = append(result, strings.ToLower(part))
	}

	return strings.Join(result, ".")
}

// formatTagErrors converts go-playground/validator's error slice into an
// *Error with stable codes and JSON-path field names.
func formatTagErrors(errs validator.ValidationErrors, structValue any, cfg *config) error {
	var result Error
	structType := reflect.TypeOf(structValue)
	for structType.Kind() == reflect.Ptr {
		structType = structType.Elem()
	}

	for _, e := range errs {
		ns := e.Namespace()
		if idx := strings.Index(ns, "."); idx != -1 {
			ns = ns[idx+1:]
		}
		path := getCachedJSONPath(ns, structType)

		result.Add(path, "tag."+e.Tag(), tagErrorMessage(e, cfg), map[string]any{
			"tag":   e.Tag(),
			"param": e.Param(),
		})

		if cfg.maxErrors > 0 && len(result.Fields) >= cfg.maxErrors {
			result.Truncated = true
			break
		}
	}

	return &result
}

func tagErrorMessage(e validator.FieldError, cfg *config) string {
	if cfg != nil {
		if fn, ok := cfg.messageFuncs[e.Tag()]; ok {
			return fn(e.Param(), e.Type().Kind())
		}
		if msg, ok := cfg.messages[e.Tag()]; ok {
			return msg
		}
	}

	switch e.Tag() {
	case "required":
		return "is required"
	case "email":
		return "must be a valid email address"
	case "url":
		return "must be a valid URL"
	case "min":
		if e.Type().Kind() == reflect.String {
			return "must be at least " + e.Param() + " characters"
		}
		return "must be at least " + e.Param()
	case "max":
		if e.Type().Kind() == reflect.String {
			return "must be at most " + e.Param() + " characters"
		}
		return "must be at most " + e.Param()
	case "oneof":
		return "must be one of [" + e.Param() + "]"
	case "username":
		return "must be 3-20 alphanumeric characters or underscore"
	case "slug":
		return "must contain only lowercase letters, numbers, and hyphens"
	case "strong_password":
		return "must be at least 8 characters"
	case "phone":
		return "must be a valid phone number"
	case "semver":
		return "must be a valid semantic version"
	case "duration":
		return "must be a valid duration"
	default:
		return "failed validation (" + e.Tag() + ")"
	}
}
