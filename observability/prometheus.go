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

package observability

import (
	"net/http"
	"strconv"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// PrometheusExporter renders observed requests as Prometheus series on a
// private registry, rather than registering against the global default
// one: a Monitor and its exporter should be independently constructible
// without colliding with anything else a process happens to register.
type PrometheusExporter struct {
	registry *prometheus.Registry
	requests *prometheus.CounterVec
	duration *prometheus.HistogramVec
	errors   *prometheus.CounterVec
}

// NewPrometheusExporter builds an exporter with tags applied as constant
// labels on every series.
func NewPrometheusExporter(tags map[string]string) *PrometheusExporter {
	constLabels := make(prometheus.Labels, len(tags))
	for k, v := range tags {
		constLabels[k] = v
	}

	requests := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name:        "vafast_requests_total",
		Help:        "Total requests observed by the monitor, by path and status.",
		ConstLabels: constLabels,
	}, []string{"path", "status"})

	duration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:        "vafast_request_duration_milliseconds",
		Help:        "Request latency in milliseconds, by path.",
		ConstLabels: constLabels,
		Buckets:     prometheus.DefBuckets,
	}, []string{"path"})

	errors := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name:        "vafast_request_errors_total",
		Help:        "Requests observed with a 4xx/5xx status, by path.",
		ConstLabels: constLabels,
	}, []string{"path"})

	registry := prometheus.NewRegistry()
	registry.MustRegister(requests, duration, errors)

	return &PrometheusExporter{registry: registry, requests: requests, duration: duration, errors: errors}
}

// Observe records one MetricRecord. Pass it as a Monitor's OnRequest
// callback (WithOnRequest(exporter.Observe)) to wire the two together.
func (e *PrometheusExporter) Observe(rec MetricRecord) {
	status := strconv.Itoa(rec.Status)
	e.requests.WithLabelValues(rec.Path, status).Inc()
	e.duration.WithLabelValues(rec.Path).Observe(rec.ElapsedMS)
	if rec.Status >= 400 {
		e.errors.WithLabelValues(rec.Path).Inc()
	}
}

// Handler serves the exporter's registry in the Prometheus text exposition
// format, for mounting at e.g. /metrics.
func (e *PrometheusExporter) Handler() http.Handler {
	return promhttp.HandlerFor(e.registry, promhttp.HandlerOpts{})
}
