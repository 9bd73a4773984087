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

// Package middleware provides a small set of builtin Middleware
// implementations — recovery, request ID injection — built on the
// router.Middleware contract. They are ordinary middleware, not privileged
// in any way; applications are free to write their own instead.
package middleware

import (
	"fmt"
	"log/slog"
	"net/http"
	"runtime/debug"

	"github.com/vafast/vafast/httperror"
	"github.com/vafast/vafast/router"
)

// RecoveryConfig configures Recovery.
type RecoveryConfig struct {
	Logger     *slog.Logger // nil disables logging
	StackTrace bool
	Formatter  httperror.Formatter // nil defaults to httperror.NewWire()
}

// RecoveryOption configures a RecoveryConfig.
type RecoveryOption func(*RecoveryConfig)

// WithoutLogging disables panic logging.
func WithoutLogging() RecoveryOption {
	return func(c *RecoveryConfig) { c.Logger = nil }
}

// WithLogger sets the logger Recovery uses to record panics and errors.
func WithLogger(logger *slog.Logger) RecoveryOption {
	return func(c *RecoveryConfig) { c.Logger = logger }
}

// WithStackTrace enables/disables stack trace capture on panic. Default true.
func WithStackTrace(enabled bool) RecoveryOption {
	return func(c *RecoveryConfig) { c.StackTrace = enabled }
}

// WithFormatter sets the Formatter used to render errors and recovered
// panics into a response.
func WithFormatter(f httperror.Formatter) RecoveryOption {
	return func(c *RecoveryConfig) { c.Formatter = f }
}

// Recovery is the conventional outermost error-handling middleware (spec.md
// §7's propagation policy): it recovers from panics in downstream
// middleware/handlers and converts both panics and returned errors into a
// response via a Formatter (httperror.Wire unless WithFormatter is given).
//
// With the default formatter, a *httperror.Error reaching here renders at
// its declared status, an error implementing httperror.ErrorType at its
// HTTPStatus, and any other error or panic as 500.
func Recovery(opts ...RecoveryOption) router.Middleware {
	cfg := RecoveryConfig{Logger: slog.Default(), StackTrace: true}
	for _, opt := range opts {
		opt(&cfg)
	}
	formatter := cfg.Formatter
	if formatter == nil {
		formatter = httperror.NewWire()
	}

	return func(req *router.InboundRequest, next router.Next) (resp *router.Response, err error) {
		defer func() {
			if r := recover(); r != nil {
				if cfg.Logger != nil {
					attrs := []any{"panic", r}
					if cfg.StackTrace {
						attrs = append(attrs, "stack", string(debug.Stack()))
					}
					cfg.Logger.Error("recovered from panic", attrs...)
				}
				resp, err = renderError(formatter, req, fmt.Errorf("panic: %v", r))
			}
		}()

		resp, err = next(nil)
		if err != nil {
			if cfg.Logger != nil {
				cfg.Logger.Error("handler error", "error", err)
			}
			return renderError(formatter, req, err)
		}
		return resp, nil
	}
}

func renderError(formatter httperror.Formatter, req *router.InboundRequest, err error) (*router.Response, error) {
	rendered := formatter.Format(req.Raw, err)
	headers := make(http.Header, len(rendered.Headers)+1)
	for k, v := range rendered.Headers {
		headers[k] = v
	}
	if rendered.ContentType != "" {
		headers.Set("Content-Type", rendered.ContentType)
	}
	body, marshalErr := marshalBody(rendered.Body)
	if marshalErr != nil {
		return nil, marshalErr
	}
	return &router.Response{Status: rendered.Status, Headers: headers, Body: body}, nil
}
