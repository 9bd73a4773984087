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

import "time"

// WithDiagnostics sets a diagnostic handler for the router.
//
// Diagnostic events are optional informational events raised during route
// registration (duplicate routes, overlapping dynamic/wildcard patterns).
// The router functions correctly whether diagnostics are collected or not.
//
// Example:
//
//	handler := router.DiagnosticHandlerFunc(func(e router.DiagnosticEvent) {
//	    slog.Warn(e.Message, "kind", e.Kind, "fields", e.Fields)
//	})
//	r := router.MustNew(router.WithDiagnostics(handler))
func WithDiagnostics(handler DiagnosticHandler) Option {
	return func(r *Router) {
		r.diagnostics = handler
	}
}

// WithH2C enables HTTP/2 Cleartext support for Router.Serve.
//
// Only use in development or behind a trusted load balancer that terminates
// TLS; do not enable on public-facing servers without TLS.
func WithH2C(enable bool) Option {
	return func(r *Router) {
		r.enableH2C = enable
	}
}

// WithServerTimeouts configures HTTP server timeouts used by Router.Serve
// and Router.ServeTLS. These guard against slowloris-style resource
// exhaustion.
//
// Defaults (if not set): ReadHeaderTimeout 5s, ReadTimeout 15s,
// WriteTimeout 30s, IdleTimeout 60s.
func WithServerTimeouts(readHeader, read, write, idle time.Duration) Option {
	return func(r *Router) {
		r.serverTimeouts = &serverTimeouts{
			readHeader: readHeader,
			read:       read,
			write:      write,
			idle:       idle,
		}
	}
}

func defaultServerTimeouts() *serverTimeouts {
	return &serverTimeouts{
		readHeader: 5 * time.Second,
		read:       15 * time.Second,
		write:      30 * time.Second,
		idle:       60 * time.Second,
	}
}

// WithMaxBodySize sets the default maximum request body size the Request
// Parser will read before failing with a BodyParse error. Individual routes
// may override this via the WithLeafMaxBodySize LeafOption.
//
// Default: 10 MiB, matching spec.md §4.5.
func WithMaxBodySize(bytes int64) Option {
	return func(r *Router) {
		r.maxBodySize = bytes
	}
}

// WithCancellationCheck enables/disables context cancellation checks between
// middleware stages. When enabled, the composer checks ctx.Err() before
// invoking each stage, skipping wasted work on a request whose caller has
// already gone away.
//
// Default: true.
func WithCancellationCheck(enabled bool) Option {
	return func(r *Router) {
		r.checkCancellation = enabled
	}
}
