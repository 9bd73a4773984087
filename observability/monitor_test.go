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
	"math"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/vafast/vafast/httperror"
	"github.com/vafast/vafast/middleware"
	"github.com/vafast/vafast/router"
)

func TestMonitor_RecordsSuccessfulRequest(t *testing.T) {
	t.Parallel()
	mon := New()
	r := router.MustNew()
	r.Use(mon.Middleware())
	r.GET("/ping", func(hc *router.HandlerContext) (any, error) { return "pong", nil })

	req := httptest.NewRequest(http.MethodGet, "/ping", nil)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	status := mon.Status()
	if status.TotalRequests != 1 || status.SuccessfulRequests != 1 || status.FailedRequests != 0 {
		t.Fatalf("status = %+v, want 1 total/1 success/0 failed", status)
	}
	path, ok := mon.PathStats("/ping")
	if !ok || path.Count != 1 {
		t.Fatalf("PathStats(/ping) = %+v, ok=%v, want count 1", path, ok)
	}
}

func TestMonitor_RecordsErrorStatus(t *testing.T) {
	t.Parallel()
	mon := New()
	r := router.MustNew()
	r.Use(mon.Middleware())
	r.GET("/missing-thing", func(hc *router.HandlerContext) (any, error) {
		return nil, httperror.New(http.StatusNotFound, "Not Found", "no such thing")
	})

	req := httptest.NewRequest(http.MethodGet, "/missing-thing", nil)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	status := mon.Status()
	if status.FailedRequests != 1 || status.ErrorRate != 1 {
		t.Fatalf("status = %+v, want 1 failed, errorRate 1", status)
	}
	path, _ := mon.PathStats("/missing-thing")
	if path.ErrorCount != 1 {
		t.Errorf("ErrorCount = %d, want 1", path.ErrorCount)
	}
}

func TestMonitor_ExcludedPathIsNeverRecorded(t *testing.T) {
	t.Parallel()
	mon := New(WithExcludedPaths("/health"))
	r := router.MustNew()
	r.Use(mon.Middleware())
	r.GET("/health", func(hc *router.HandlerContext) (any, error) { return "ok", nil })

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	if mon.Status().TotalRequests != 0 {
		t.Fatalf("TotalRequests = %d, want 0 for an excluded path", mon.Status().TotalRequests)
	}
}

func TestMonitor_SamplingRateZeroNeverRecords(t *testing.T) {
	t.Parallel()
	mon := New(WithSamplingRate(0))
	r := router.MustNew()
	r.Use(mon.Middleware())
	r.GET("/x", func(hc *router.HandlerContext) (any, error) { return "ok", nil })

	req := httptest.NewRequest(http.MethodGet, "/x", nil)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	if mon.Status().TotalRequests != 0 {
		t.Fatalf("TotalRequests = %d, want 0 with sampling rate 0", mon.Status().TotalRequests)
	}
}

func TestMonitor_SlowRequestFiresHook(t *testing.T) {
	t.Parallel()
	var fired MetricRecord
	mon := New(WithSlowThreshold(0), WithOnSlowRequest(func(r MetricRecord) { fired = r }))
	r := router.MustNew()
	r.Use(mon.Middleware())
	r.GET("/slow", func(hc *router.HandlerContext) (any, error) {
		time.Sleep(time.Millisecond)
		return "ok", nil
	})

	req := httptest.NewRequest(http.MethodGet, "/slow", nil)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	if fired.Path != "/slow" {
		t.Fatalf("OnSlowRequest did not fire with the expected record, got %+v", fired)
	}
}

func TestMonitor_RequestIDReusesUpstreamMiddleware(t *testing.T) {
	t.Parallel()
	var fired MetricRecord
	mon := New(WithOnRequest(func(r MetricRecord) { fired = r }))
	r := router.MustNew()
	r.Use(middleware.RequestID(), mon.Middleware())
	r.GET("/id", func(hc *router.HandlerContext) (any, error) { return "ok", nil })

	req := httptest.NewRequest(http.MethodGet, "/id", nil)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	headerID := rec.Header().Get("X-Request-ID")
	if headerID == "" {
		t.Fatal("expected middleware.RequestID to set a response header")
	}
	if fired.RequestID != headerID {
		t.Fatalf("fired.RequestID = %q, want %q (the same id middleware.RequestID generated)", fired.RequestID, headerID)
	}
}

// TestMonitor_PercentileScenario is the concrete scenario from spec.md §8:
// 9 records at 10ms and 1 at 100ms into a monitor with capacity >= 10
// yields P50=10, P95=100, P99=100, avg ~= 19.
func TestMonitor_PercentileScenario(t *testing.T) {
	t.Parallel()
	mon := New(WithMaxRecords(10))
	for i := 0; i < 9; i++ {
		mon.record(MetricRecord{Path: "/p", Status: 200, ElapsedMS: 10, Timestamp: time.Now()})
	}
	mon.record(MetricRecord{Path: "/p", Status: 200, ElapsedMS: 100, Timestamp: time.Now()})

	status := mon.Status()
	if status.P50 != 10 {
		t.Errorf("P50 = %v, want 10", status.P50)
	}
	if status.P95 != 100 {
		t.Errorf("P95 = %v, want 100", status.P95)
	}
	if status.P99 != 100 {
		t.Errorf("P99 = %v, want 100", status.P99)
	}
	if math.Abs(status.AvgResponseTime-19) > 0.5 {
		t.Errorf("AvgResponseTime = %v, want ~= 19", status.AvgResponseTime)
	}
}

func TestMonitor_RingBufferCapacityAfterOverflow(t *testing.T) {
	t.Parallel()
	mon := New(WithMaxRecords(3))
	for i := 0; i < 5; i++ {
		mon.record(MetricRecord{Path: "/p", Status: 200, ElapsedMS: float64(i)})
	}
	records := mon.Metrics()
	if len(records) != 3 {
		t.Fatalf("len(Metrics()) = %d, want 3 (ring buffer capacity)", len(records))
	}
	if records[0].ElapsedMS != 2 || records[2].ElapsedMS != 4 {
		t.Fatalf("records = %v, want the most recent 3 in chronological order", records)
	}
}

func TestMonitor_PathStats_MissingPath(t *testing.T) {
	t.Parallel()
	mon := New()
	if _, ok := mon.PathStats("/nope"); ok {
		t.Fatal("expected ok=false for a path never observed")
	}
}

func TestMonitor_Reset(t *testing.T) {
	t.Parallel()
	mon := New()
	mon.record(MetricRecord{Path: "/p", Status: 200, ElapsedMS: 5})
	mon.Reset()

	status := mon.Status()
	if status.TotalRequests != 0 || len(status.ByPath) != 0 || len(status.RecentRequests) != 0 {
		t.Fatalf("status = %+v, want a clean slate after Reset", status)
	}
}

func TestMonitor_DisabledNeverRecords(t *testing.T) {
	t.Parallel()
	mon := New(WithEnabled(false))
	r := router.MustNew()
	r.Use(mon.Middleware())
	r.GET("/x", func(hc *router.HandlerContext) (any, error) { return "ok", nil })

	req := httptest.NewRequest(http.MethodGet, "/x", nil)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	if mon.Status().TotalRequests != 0 {
		t.Fatalf("TotalRequests = %d, want 0 when disabled", mon.Status().TotalRequests)
	}
}
