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
	"fmt"
	"io"
	"net/http"
	"strconv"
)

// Response is the canonical, transport-agnostic result of handling a
// request, per spec.md §3's "Response" type. Middleware and the terminal
// handler both ultimately produce one of these; ServeHTTP is the only
// place that writes it onto the wire.
type Response struct {
	Status  int
	Headers http.Header
	Body    []byte
	Stream  io.Reader // when set, takes precedence over Body; Status/Headers still apply
}

func newResponse(status int) *Response {
	return &Response{Status: status, Headers: make(http.Header)}
}

// writeTo writes the response onto w. It is the single place the headers,
// status line and body are written; Content-Length is left to net/http.
func (resp *Response) writeTo(w http.ResponseWriter) error {
	header := w.Header()
	for k, values := range resp.Headers {
		for _, v := range values {
			header.Add(k, v)
		}
	}
	status := resp.Status
	if status == 0 {
		status = http.StatusOK
	}
	w.WriteHeader(status)

	if resp.Stream != nil {
		_, err := io.Copy(w, resp.Stream)
		return err
	}
	if len(resp.Body) > 0 {
		_, err := w.Write(resp.Body)
		return err
	}
	return nil
}

// mappedValue is the shape a handler may return to control status/headers
// explicitly alongside its data, per spec.md §4.8's unwrap rule.
type mappedValue struct {
	Data    any
	Status  int
	Headers map[string]string
}

// ResponseLike lets a handler return an already-built *Response (or a type
// implementing this interface) and have the mapper pass it through
// unchanged — e.g. for streaming bodies that don't fit the JSON rule.
type ResponseLike interface {
	ToResponse() *Response
}

// MapResponse implements spec.md §4.8's Response Mapper: it normalizes an
// arbitrary value returned by a HandlerFunc into a canonical *Response.
// Rules are applied in order; the first match wins.
//
//  1. *Response or ResponseLike: passed through (or unwrapped) unchanged.
//  2. nil: 204 No Content, empty body.
//  3. string: 200, Content-Type text/plain, body is the string's bytes.
//  4. bool/numeric: 200, Content-Type text/plain, body is its %v form.
//  5. a value shaped like {Data, Status, Headers} (via mappedValue or an
//     equivalent map[string]any carrying a "data" key AND a "status" or
//     "headers" key): unwrap Data, apply Status/Headers if given; a 200
//     status with an empty Data collapses to 204 No Content, mirroring
//     rule 2. A bare map[string]any{"data": ...} with no "status" or
//     "headers" key does not match this rule and falls through to rule 6,
//     serialized whole (the "data" key included).
//  6. any other value: 200, Content-Type application/json, JSON-encoded
//     body.
func MapResponse(value any) (*Response, error) {
	switch v := value.(type) {
	case *Response:
		return v, nil
	case ResponseLike:
		return v.ToResponse(), nil
	case nil:
		return newResponse(http.StatusNoContent), nil
	case string:
		return textResponse(http.StatusOK, v), nil
	case bool:
		return textResponse(http.StatusOK, strconv.FormatBool(v)), nil
	case int:
		return textResponse(http.StatusOK, strconv.Itoa(v)), nil
	case int64:
		return textResponse(http.StatusOK, strconv.FormatInt(v, 10)), nil
	case float64:
		return textResponse(http.StatusOK, strconv.FormatFloat(v, 'g', -1, 64)), nil
	case int8, int16, int32, uint, uint8, uint16, uint32, uint64, float32:
		return textResponse(http.StatusOK, fmt.Sprint(v)), nil
	case mappedValue:
		return mapShapedValue(v.Data, v.Status, v.Headers)
	case map[string]any:
		_, hasStatus := v["status"]
		_, hasHeaders := v["headers"]
		if data, ok := v["data"]; ok && (hasStatus || hasHeaders) {
			status, _ := v["status"].(int)
			headers, _ := v["headers"].(map[string]string)
			return mapShapedValue(data, status, headers)
		}
		return jsonResponse(http.StatusOK, v)
	default:
		return jsonResponse(http.StatusOK, v)
	}
}

func mapShapedValue(data any, status int, headers map[string]string) (*Response, error) {
	if status == 0 {
		status = http.StatusOK
	}
	if status == http.StatusOK && data == nil {
		resp := newResponse(http.StatusNoContent)
		applyHeaders(resp, headers)
		return resp, nil
	}
	resp, err := jsonResponse(status, data)
	if err != nil {
		return nil, err
	}
	applyHeaders(resp, headers)
	return resp, nil
}

func applyHeaders(resp *Response, headers map[string]string) {
	for k, v := range headers {
		resp.Headers.Set(k, v)
	}
}

func textResponse(status int, body string) *Response {
	resp := newResponse(status)
	resp.Headers.Set("Content-Type", "text/plain; charset=utf-8")
	resp.Body = []byte(body)
	return resp
}

func jsonResponse(status int, data any) (*Response, error) {
	body, err := json.Marshal(data)
	if err != nil {
		return nil, fmt.Errorf("encoding JSON response: %w", err)
	}
	resp := newResponse(status)
	resp.Headers.Set("Content-Type", "application/json; charset=utf-8")
	resp.Body = body
	return resp, nil
}

// Data wraps a value together with an explicit status and/or headers, for
// handlers that need control beyond the plain-value mapping rules (spec.md
// §4.8 rule 5).
func Data(data any, status int, headers map[string]string) any {
	return mappedValue{Data: data, Status: status, Headers: headers}
}
