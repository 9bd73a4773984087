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
	"net/http/httptest"
	"strings"
	"testing"
)

func TestPrometheusExporter_ObserveAndScrape(t *testing.T) {
	t.Parallel()
	exporter := NewPrometheusExporter(map[string]string{"service": "vafast"})
	exporter.Observe(MetricRecord{Path: "/ping", Status: 200, ElapsedMS: 12.5})
	exporter.Observe(MetricRecord{Path: "/ping", Status: 500, ElapsedMS: 40})

	req := httptest.NewRequest("GET", "/metrics", nil)
	rec := httptest.NewRecorder()
	exporter.Handler().ServeHTTP(rec, req)

	body := rec.Body.String()
	if !strings.Contains(body, "vafast_requests_total") {
		t.Fatalf("scrape output missing vafast_requests_total, got:\n%s", body)
	}
	if !strings.Contains(body, "vafast_request_errors_total") {
		t.Fatalf("scrape output missing vafast_request_errors_total, got:\n%s", body)
	}
	if !strings.Contains(body, `service="vafast"`) {
		t.Fatalf("scrape output missing constant label, got:\n%s", body)
	}
}

func TestPrometheusExporter_WiredToMonitor(t *testing.T) {
	t.Parallel()
	exporter := NewPrometheusExporter(nil)
	mon := New(WithOnRequest(exporter.Observe))
	mon.record(MetricRecord{Path: "/a", Status: 200, ElapsedMS: 1})

	req := httptest.NewRequest("GET", "/metrics", nil)
	rec := httptest.NewRecorder()
	exporter.Handler().ServeHTTP(rec, req)

	if !strings.Contains(rec.Body.String(), `path="/a"`) {
		t.Fatalf("expected scrape to include the observed path, got:\n%s", rec.Body.String())
	}
}
