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

import (
	"encoding/json"
	"io"
	"mime"
	"net/http"
	"net/url"
	"strings"
)

const defaultMaxBodySize int64 = 10 << 20 // 10 MiB, spec.md §4.5

// parseQuery implements spec.md §4.5's query parsing: flat keys map to a
// string (or, when repeated, the last occurrence — callers who need every
// value can still reach http.Request.URL.RawQuery), and bracket-nested keys
// ("a[b]=c") build nested maps.
func parseQuery(raw string) map[string]any {
	values, err := url.ParseQuery(raw)
	if err != nil || len(values) == 0 {
		return map[string]any{}
	}
	out := map[string]any{}
	for key, vals := range values {
		if len(vals) == 0 {
			continue
		}
		setNestedQueryValue(out, key, vals[len(vals)-1])
	}
	return out
}

// setNestedQueryValue decodes a single "a[b][c]=v" style key into nested
// maps within out.
func setNestedQueryValue(out map[string]any, key, value string) {
	name, path := splitBracketPath(key)
	if len(path) == 0 {
		out[name] = value
		return
	}
	cursor := out
	node, ok := cursor[name].(map[string]any)
	if !ok {
		node = map[string]any{}
		cursor[name] = node
	}
	for i, seg := range path {
		if i == len(path)-1 {
			node[seg] = value
			return
		}
		next, ok := node[seg].(map[string]any)
		if !ok {
			next = map[string]any{}
			node[seg] = next
		}
		node = next
	}
}

// splitBracketPath splits "a[b][c]" into ("a", ["b", "c"]).
func splitBracketPath(key string) (string, []string) {
	open := strings.IndexByte(key, '[')
	if open < 0 {
		return key, nil
	}
	name := key[:open]
	rest := key[open:]
	var path []string
	for len(rest) > 0 {
		if rest[0] != '[' {
			break
		}
		close := strings.IndexByte(rest, ']')
		if close < 0 {
			break
		}
		path = append(path, rest[1:close])
		rest = rest[close+1:]
	}
	return name, path
}

// parseHeaders returns a lower-cased copy of the request's headers, per
// spec.md §4.5; http.Header already canonicalizes keys, so this mainly
// normalizes them to the lower-case keys the spec's handler context uses.
func parseHeaders(h http.Header) http.Header {
	out := make(http.Header, len(h))
	for k, v := range h {
		out[strings.ToLower(k)] = v
	}
	return out
}

// parseCookies tolerates malformed cookie pairs (spec.md §4.5): a segment
// with no "=" or an empty name is skipped rather than aborting the whole
// header.
func parseCookies(req *http.Request) map[string]string {
	out := map[string]string{}
	for _, c := range req.Cookies() {
		if c.Name == "" {
			continue
		}
		out[c.Name] = c.Value
	}
	return out
}

// parseBody implements spec.md §4.5's content-type dispatch. GET and HEAD
// requests never have their body read, per the method's defensive rule.
// maxBodySize bounds the number of bytes read; exceeding it yields
// ErrBodyTooLarge.
func parseBody(req *http.Request, maxBodySize int64) (any, error) {
	if req.Method == http.MethodGet || req.Method == http.MethodHead {
		return nil, nil
	}
	if req.Body == nil {
		return nil, nil
	}
	if maxBodySize <= 0 {
		maxBodySize = defaultMaxBodySize
	}

	limited := http.MaxBytesReader(nil, req.Body, maxBodySize)
	defer limited.Close()

	contentType := req.Header.Get("Content-Type")
	mediaType, params, _ := mime.ParseMediaType(contentType)

	switch {
	case mediaType == "application/json":
		data, err := io.ReadAll(limited)
		if err != nil {
			return nil, wrapBodyReadErr(err)
		}
		if len(data) == 0 {
			return nil, nil
		}
		var v any
		if err := json.Unmarshal(data, &v); err != nil {
			return nil, err
		}
		return v, nil

	case mediaType == "application/x-www-form-urlencoded":
		data, err := io.ReadAll(limited)
		if err != nil {
			return nil, wrapBodyReadErr(err)
		}
		values, err := url.ParseQuery(string(data))
		if err != nil {
			return nil, err
		}
		out := map[string]any{}
		for k, vals := range values {
			if len(vals) > 0 {
				out[k] = vals[len(vals)-1]
			}
		}
		return out, nil

	case mediaType == "multipart/form-data":
		boundary := params["boundary"]
		return parseMultipart(limited, boundary, maxBodySize)

	case strings.HasPrefix(mediaType, "text/"):
		data, err := io.ReadAll(limited)
		if err != nil {
			return nil, wrapBodyReadErr(err)
		}
		return string(data), nil

	case mediaType == "application/octet-stream":
		data, err := io.ReadAll(limited)
		if err != nil {
			return nil, wrapBodyReadErr(err)
		}
		return data, nil

	default:
		// Anything else: text fallback (spec.md §4.5).
		data, err := io.ReadAll(limited)
		if err != nil {
			return nil, wrapBodyReadErr(err)
		}
		return string(data), nil
	}
}

func wrapBodyReadErr(err error) error {
	if err != nil && strings.Contains(err.Error(), "http: request body too large") {
		return ErrBodyTooLarge
	}
	return err
}
