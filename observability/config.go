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
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
)

const (
	defaultSlowThreshold = time.Second
	defaultMaxRecords    = 1000
	defaultSamplingRate  = 1.0
)

// Config collects every Monitor tunable. Use New with Options rather than
// constructing a Config directly.
type Config struct {
	Enabled       bool
	Console       bool
	SlowThreshold time.Duration
	MaxRecords    int
	SamplingRate  float64
	ExcludedPaths []string
	Tags          map[string]string
	OnRequest     func(MetricRecord)
	OnSlowRequest func(MetricRecord)
	IDGenerator   func() string
	Logger        *slog.Logger
}

// Option configures a Monitor at construction time.
type Option func(*Config)

// WithEnabled toggles recording entirely. Default true.
func WithEnabled(enabled bool) Option {
	return func(c *Config) { c.Enabled = enabled }
}

// WithConsole enables logging each observed request (and, separately, each
// slow request) through Logger as it is recorded.
func WithConsole(enabled bool) Option {
	return func(c *Config) { c.Console = enabled }
}

// WithSlowThreshold sets the elapsed-time threshold above which
// OnSlowRequest fires. Default 1 second.
func WithSlowThreshold(d time.Duration) Option {
	return func(c *Config) { c.SlowThreshold = d }
}

// WithMaxRecords sets the ring buffer capacity. Default 1000.
func WithMaxRecords(n int) Option {
	return func(c *Config) { c.MaxRecords = n }
}

// WithSamplingRate sets the fraction of requests recorded, in [0,1].
// Default 1 (record everything).
func WithSamplingRate(rate float64) Option {
	return func(c *Config) {
		if rate < 0 {
			rate = 0
		}
		if rate > 1 {
			rate = 1
		}
		c.SamplingRate = rate
	}
}

// WithExcludedPaths sets path prefixes (or the literal wildcard "*" to
// exclude every path) the Monitor never records.
func WithExcludedPaths(paths ...string) Option {
	return func(c *Config) { c.ExcludedPaths = paths }
}

// WithTags stores static labels in Config.Tags. Neither the Monitor nor
// PrometheusExporter reads them; they are not added to records or metrics.
func WithTags(tags map[string]string) Option {
	return func(c *Config) { c.Tags = tags }
}

// WithOnRequest registers a callback fired after every recorded request.
func WithOnRequest(fn func(MetricRecord)) Option {
	return func(c *Config) { c.OnRequest = fn }
}

// WithOnSlowRequest registers a callback fired when a recorded request's
// elapsed time exceeds SlowThreshold.
func WithOnSlowRequest(fn func(MetricRecord)) Option {
	return func(c *Config) { c.OnSlowRequest = fn }
}

// WithIDGenerator overrides how a Metric Record's request id is produced
// when the inbound request carries none of its own (e.g. no preceding
// middleware.RequestID). Default is UUID v7.
func WithIDGenerator(fn func() string) Option {
	return func(c *Config) { c.IDGenerator = fn }
}

// WithLogger sets the logger used when Console is enabled. Default
// slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(c *Config) { c.Logger = logger }
}

func defaultConfig() Config {
	return Config{
		Enabled:       true,
		SlowThreshold: defaultSlowThreshold,
		MaxRecords:    defaultMaxRecords,
		SamplingRate:  defaultSamplingRate,
		IDGenerator:   generateRequestID,
		Logger:        slog.Default(),
	}
}

func generateRequestID() string {
	return uuid.Must(uuid.NewV7()).String()
}

// excluded reports whether path is covered by one of the configured
// ExcludedPaths: an exact wildcard "*" excludes everything, anything else
// is matched as a prefix.
func (c Config) excluded(path string) bool {
	for _, p := range c.ExcludedPaths {
		if p == "*" {
			return true
		}
		if strings.HasPrefix(path, p) {
			return true
		}
	}
	return false
}
