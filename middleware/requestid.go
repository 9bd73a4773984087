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

package middleware

import (
	"github.com/google/uuid"

	"github.com/vafast/vafast/router"
)

// RequestIDConfig configures RequestID.
type RequestIDConfig struct {
	HeaderName    string
	Generator     func() string
	AllowClientID bool
}

// RequestIDOption configures a RequestIDConfig.
type RequestIDOption func(*RequestIDConfig)

// WithHeader sets the header RequestID reads/writes the ID on. Default
// "X-Request-ID".
func WithHeader(name string) RequestIDOption {
	return func(c *RequestIDConfig) { c.HeaderName = name }
}

// WithGenerator overrides the ID generator. Default is UUID v7 (time-ordered,
// lexicographically sortable, RFC 9562).
func WithGenerator(gen func() string) RequestIDOption {
	return func(c *RequestIDConfig) { c.Generator = gen }
}

// WithAllowClientID controls whether an incoming request's own header value
// is honored. Default true.
func WithAllowClientID(allow bool) RequestIDOption {
	return func(c *RequestIDConfig) { c.AllowClientID = allow }
}

// RequestID injects a unique ID per request into both the scratchpad
// (under the "requestID" local, readable from HandlerContext.Locals) and
// the configured response header, for distributed tracing and log
// correlation.
func RequestID(opts ...RequestIDOption) router.Middleware {
	cfg := RequestIDConfig{
		HeaderName:    "X-Request-ID",
		Generator:     generateUUIDv7,
		AllowClientID: true,
	}
	for _, opt := range opts {
		opt(&cfg)
	}

	return func(req *router.InboundRequest, next router.Next) (*router.Response, error) {
		var id string
		if cfg.AllowClientID {
			id = req.Raw.Header.Get(cfg.HeaderName)
		}
		if id == "" {
			id = cfg.Generator()
		}

		resp, err := next(map[string]any{"requestID": id})
		if resp != nil {
			if resp.Headers == nil {
				resp.Headers = make(map[string][]string)
			}
			resp.Headers.Set(cfg.HeaderName, id)
		}
		return resp, err
	}
}

func generateUUIDv7() string {
	return uuid.Must(uuid.NewV7()).String()
}
