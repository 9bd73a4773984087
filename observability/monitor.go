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
	"fmt"
	"math"
	"math/rand"
	"net/http"
	"runtime"
	"sort"
	"sync"
	"time"

	"github.com/vafast/vafast/router"
)

// Monitor wraps a request pipeline with metric recording (spec.md §4.9): a
// bounded ring buffer of MetricRecord, percentile latencies computed on
// demand, and per-path aggregates maintained incrementally. A single mutex
// guards the buffer and aggregate table together, so readers never observe
// a torn update between the two.
type Monitor struct {
	cfg Config

	mu       sync.Mutex
	buf      *ring
	byPath   map[string]*pathAggregate
	total    int64
	success  int64
	failed   int64
	minTime  float64
	maxTime  float64
	totalSum float64
}

// New builds a Monitor from the given Options.
func New(opts ...Option) *Monitor {
	cfg := defaultConfig()
	for _, opt := range opts {
		opt(&cfg)
	}
	if cfg.MaxRecords <= 0 {
		cfg.MaxRecords = defaultMaxRecords
	}
	return &Monitor{
		cfg:    cfg,
		buf:    newRing(cfg.MaxRecords),
		byPath: make(map[string]*pathAggregate),
	}
}

// Middleware returns the router.Middleware that observes every request
// passing through it. Install it early in the chain (typically just inside
// middleware.Recovery) so it wraps everything downstream.
func (m *Monitor) Middleware() router.Middleware {
	return func(req *router.InboundRequest, next router.Next) (*router.Response, error) {
		if !m.cfg.Enabled || m.cfg.excluded(req.Raw.URL.Path) || !m.shouldSample() {
			return next(nil)
		}

		requestID := m.requestIDFor(req)
		start := time.Now()
		resp, err := next(nil)
		elapsed := time.Since(start)

		status := statusOf(resp, err)
		rec := MetricRecord{
			RequestID: requestID,
			Method:    req.Raw.Method,
			Path:      req.Raw.URL.Path,
			Status:    status,
			ElapsedMS: float64(elapsed) / float64(time.Millisecond),
			Timestamp: start,
			HeapUsed:  heapAlloc(),
		}
		m.record(rec)
		return resp, err
	}
}

func statusOf(resp *router.Response, err error) int {
	if resp != nil && resp.Status != 0 {
		return resp.Status
	}
	if err != nil {
		return http.StatusInternalServerError
	}
	return http.StatusOK
}

func heapAlloc() uint64 {
	var ms runtime.MemStats
	runtime.ReadMemStats(&ms)
	return ms.HeapAlloc
}

func (m *Monitor) shouldSample() bool {
	if m.cfg.SamplingRate >= 1 {
		return true
	}
	if m.cfg.SamplingRate <= 0 {
		return false
	}
	return rand.Float64() < m.cfg.SamplingRate
}

func (m *Monitor) requestIDFor(req *router.InboundRequest) string {
	if v, ok := req.Local("requestID"); ok {
		if id, ok := v.(string); ok && id != "" {
			return id
		}
	}
	return m.cfg.IDGenerator()
}

// record is the one place that mutates shared state: it pushes the record,
// updates running totals, and updates the per-path aggregate, all under a
// single critical section so Status() and Metrics() never observe a
// partial update (spec.md §5's shared-state discipline).
func (m *Monitor) record(rec MetricRecord) {
	isError := rec.Status >= 400

	m.mu.Lock()
	m.buf.push(rec)

	m.total++
	if isError {
		m.failed++
	} else {
		m.success++
	}
	m.totalSum += rec.ElapsedMS
	if m.total == 1 || rec.ElapsedMS < m.minTime {
		m.minTime = rec.ElapsedMS
	}
	if rec.ElapsedMS > m.maxTime {
		m.maxTime = rec.ElapsedMS
	}

	agg, ok := m.byPath[rec.Path]
	if !ok {
		agg = &pathAggregate{}
		m.byPath[rec.Path] = agg
	}
	agg.observe(rec.ElapsedMS, isError)
	m.mu.Unlock()

	if m.cfg.Console && m.cfg.Logger != nil {
		m.cfg.Logger.Info("request", "id", rec.RequestID, "method", rec.Method,
			"path", rec.Path, "status", rec.Status, "elapsedMs", rec.ElapsedMS)
	}
	if m.cfg.OnRequest != nil {
		m.cfg.OnRequest(rec)
	}
	if rec.ElapsedMS > float64(m.cfg.SlowThreshold)/float64(time.Millisecond) {
		if m.cfg.Console && m.cfg.Logger != nil {
			m.cfg.Logger.Warn("slow request", "id", rec.RequestID, "path", rec.Path, "elapsedMs", rec.ElapsedMS)
		}
		if m.cfg.OnSlowRequest != nil {
			m.cfg.OnSlowRequest(rec)
		}
	}
}

// Status is the JSON-shaped snapshot from spec.md §6's "Monitoring
// status": totals, percentile latencies computed by sorting a snapshot of
// the ring buffer, per-path table, and a heap memory snapshot.
type Status struct {
	Enabled            bool                 `json:"enabled"`
	TotalRequests      int64                `json:"totalRequests"`
	SuccessfulRequests int64                `json:"successfulRequests"`
	FailedRequests     int64                `json:"failedRequests"`
	ErrorRate          float64              `json:"errorRate"`
	AvgResponseTime    float64              `json:"avgResponseTime"`
	P50                float64              `json:"p50"`
	P95                float64              `json:"p95"`
	P99                float64              `json:"p99"`
	MinTime            float64              `json:"minTime"`
	MaxTime            float64              `json:"maxTime"`
	ByPath             map[string]PathStats `json:"byPath"`
	MemoryUsage        MemoryUsage          `json:"memoryUsage"`
	RecentRequests     []MetricRecord       `json:"recentRequests"`
}

// MemoryUsage reports heap figures formatted the way spec.md §6 requires:
// a "<X>MB" string rather than a raw byte count.
type MemoryUsage struct {
	HeapUsed  string `json:"heapUsed"`
	HeapTotal string `json:"heapTotal"`
}

// Status computes the full snapshot, including percentiles over the
// current ring buffer contents.
func (m *Monitor) Status() Status {
	m.mu.Lock()
	records := m.buf.toSlice()
	total, success, failed := m.total, m.success, m.failed
	totalSum, minTime, maxTime := m.totalSum, m.minTime, m.maxTime
	byPath := make(map[string]PathStats, len(m.byPath))
	for path, agg := range m.byPath {
		byPath[path] = agg.snapshot()
	}
	m.mu.Unlock()

	elapsed := make([]float64, len(records))
	for i, r := range records {
		elapsed[i] = r.ElapsedMS
	}
	sort.Float64s(elapsed)

	var avg float64
	if total > 0 {
		avg = totalSum / float64(total)
	}
	var errorRate float64
	if total > 0 {
		errorRate = float64(failed) / float64(total)
	}

	var ms runtime.MemStats
	runtime.ReadMemStats(&ms)

	return Status{
		Enabled:            m.cfg.Enabled,
		TotalRequests:      total,
		SuccessfulRequests: success,
		FailedRequests:     failed,
		ErrorRate:          errorRate,
		AvgResponseTime:    avg,
		P50:                percentile(elapsed, 50),
		P95:                percentile(elapsed, 95),
		P99:                percentile(elapsed, 99),
		MinTime:            minTime,
		MaxTime:            maxTime,
		ByPath:             byPath,
		MemoryUsage: MemoryUsage{
			HeapUsed:  formatMB(ms.HeapAlloc),
			HeapTotal: formatMB(ms.HeapSys),
		},
		RecentRequests: records,
	}
}

// percentile indexes a sorted slice per spec.md §4.9: ceil(p/100 * n) - 1,
// zero-clamped.
func percentile(sorted []float64, p float64) float64 {
	n := len(sorted)
	if n == 0 {
		return 0
	}
	idx := int(math.Ceil(p/100*float64(n))) - 1
	if idx < 0 {
		idx = 0
	}
	if idx >= n {
		idx = n - 1
	}
	return sorted[idx]
}

func formatMB(bytes uint64) string {
	return fmt.Sprintf("%.2fMB", float64(bytes)/(1024*1024))
}

// Metrics returns the full ring buffer contents in chronological order.
func (m *Monitor) Metrics() []MetricRecord {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.buf.toSlice()
}

// PathStats returns the aggregate for a single path, or ok=false if the
// path has never been observed.
func (m *Monitor) PathStats(path string) (PathStats, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	agg, ok := m.byPath[path]
	if !ok {
		return PathStats{}, false
	}
	return agg.snapshot(), true
}

// Reset clears the ring buffer, per-path aggregates, and running totals.
func (m *Monitor) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.buf.reset()
	m.byPath = make(map[string]*pathAggregate)
	m.total, m.success, m.failed = 0, 0, 0
	m.totalSum, m.minTime, m.maxTime = 0, 0, 0
}
