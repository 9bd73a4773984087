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

// Package observability is a non-intrusive monitor that wraps a
// router.Middleware chain and records per-request metrics into a bounded
// ring buffer: a Metric Record per observed request, percentile latencies
// computed on demand, and incrementally maintained per-path aggregates.
//
// A Monitor is itself a router.Middleware, so it installs the same way any
// other middleware does:
//
//	mon := observability.New(observability.WithSlowThreshold(500 * time.Millisecond))
//	r.Use(mon.Middleware())
//	r.GET("/internal/monitor", func(hc *router.HandlerContext) (any, error) {
//	    return mon.Status(), nil
//	})
//
// Status, Metrics, PathStats and Reset are safe for concurrent use with the
// middleware itself; a single mutex guards the ring buffer and the
// per-path aggregate table, favoring a correctness-by-construction design
// over a lock-free structure (the contract only requires no torn reads or
// lost updates under concurrency, not a particular mechanism).
//
// The optional PrometheusExporter renders the same observed requests as
// Prometheus counters and a histogram, registered on a private registry
// rather than the global default one.
package observability
