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

import "strings"

// segmentKind classifies a single path pattern segment.
type segmentKind uint8

const (
	segStatic segmentKind = iota
	segParam
	segWildcard
)

// specificity scores used for the §3 priority function: static = 3,
// parameter = 2, wildcard = 1.
const (
	scoreStatic   = 3
	scoreParam    = 2
	scoreWildcard = 1
)

// segment is one "/"-delimited unit of a compiled Pattern.
type segment struct {
	kind    segmentKind
	literal string // set when kind == segStatic
	name    string // parameter or wildcard binding name ("*" default for unnamed wildcard)
}

// Pattern is a path pattern compiled from its wire syntax ("/users/:id",
// "/static/*path") into matchable segments, per spec.md §3/§4.1.
type Pattern struct {
	raw         string
	segments    []segment
	hasWildcard bool
	specificity int // sum(segment scores)*10 + segment_count, per §3
}

// splitSegments splits a path on "/" and discards empty leading/trailing
// segments, per spec.md §4.1: "empty path is represented as zero segments".
func splitSegments(path string) []string {
	trimmed := strings.Trim(path, "/")
	if trimmed == "" {
		return nil
	}
	return strings.Split(trimmed, "/")
}

// NormalizePath collapses duplicate slashes and strips a trailing slash,
// except for the root path, per spec.md §3's Path Pattern invariants.
func NormalizePath(path string) string {
	if path == "" {
		return "/"
	}
	var b strings.Builder
	b.Grow(len(path))
	lastWasSlash := false
	for i := 0; i < len(path); i++ {
		c := path[i]
		if c == '/' {
			if lastWasSlash {
				continue
			}
			lastWasSlash = true
		} else {
			lastWasSlash = false
		}
		b.WriteByte(c)
	}
	out := b.String()
	if len(out) > 1 && strings.HasSuffix(out, "/") {
		out = out[:len(out)-1]
	}
	if out == "" {
		out = "/"
	}
	return out
}

// joinPath concatenates a prefix and a local path segment, normalizing the
// duplicate-slash seam between them. This resolves spec.md §9's open
// question on root-level nested routes uniformly: joining "/" with "/"
// always yields "/", never "//".
func joinPath(prefix, local string) string {
	if prefix == "" {
		return NormalizePath(local)
	}
	if local == "" {
		return NormalizePath(prefix)
	}
	return NormalizePath(prefix + "/" + local)
}

// CompilePattern parses a normalized path pattern into a Pattern, computing
// its specificity score per spec.md §3.
func CompilePattern(raw string) *Pattern {
	normalized := NormalizePath(raw)
	parts := splitSegments(normalized)

	p := &Pattern{raw: normalized}
	score := 0
	for i, part := range parts {
		switch {
		case strings.HasPrefix(part, "*"):
			name := strings.TrimPrefix(part, "*")
			if name == "" {
				name = "*"
			}
			p.segments = append(p.segments, segment{kind: segWildcard, name: name})
			p.hasWildcard = true
			score += scoreWildcard
			// A wildcard must be the last segment; Warmup's detectOverlaps
			// surfaces a non-tail wildcard via leadingWildcard/DiagLeadingWildcard.
			_ = i
		case strings.HasPrefix(part, ":"):
			name := strings.TrimPrefix(part, ":")
			p.segments = append(p.segments, segment{kind: segParam, name: name})
			score += scoreParam
		default:
			p.segments = append(p.segments, segment{kind: segStatic, literal: part})
			score += scoreStatic
		}
	}
	p.specificity = score*10 + len(p.segments)
	return p
}

// leadingWildcard reports whether a wildcard segment appears anywhere but
// last, which violates the "a wildcard may appear only at the tail"
// invariant. Such a pattern still compiles and matches — Match binds the
// wildcard at its segment position regardless — but segments after it can
// never be reached, so Warmup surfaces it as [DiagLeadingWildcard] rather
// than rejecting registration outright.
func (p *Pattern) leadingWildcard() bool {
	for i, seg := range p.segments {
		if seg.kind == segWildcard && i != len(p.segments)-1 {
			return true
		}
	}
	return false
}

// MatchResult is the outcome of matching a Pattern against a request path.
type MatchResult struct {
	Matched bool
	Params  map[string]string
}

// Match implements spec.md §4.1: match(pattern, path) -> {matched, params}.
//
// Static segments require byte-exact equality. A parameter segment binds
// the corresponding path segment; a missing path segment fails the match.
// A wildcard segment consumes all remaining path segments (joined by "/"),
// whether zero or many. Without a wildcard, segment counts must match
// exactly.
func (p *Pattern) Match(path string) MatchResult {
	pathSegs := splitSegments(path)

	var params map[string]string
	for i, seg := range p.segments {
		switch seg.kind {
		case segWildcard:
			var rest string
			if i < len(pathSegs) {
				rest = strings.Join(pathSegs[i:], "/")
			}
			if params == nil {
				params = make(map[string]string, len(p.segments))
			}
			params[seg.name] = rest
			return MatchResult{Matched: true, Params: params}
		default:
			if i >= len(pathSegs) {
				return MatchResult{Matched: false}
			}
			switch seg.kind {
			case segStatic:
				if pathSegs[i] != seg.literal {
					return MatchResult{Matched: false}
				}
			case segParam:
				if pathSegs[i] == "" {
					return MatchResult{Matched: false}
				}
				if params == nil {
					params = make(map[string]string, len(p.segments))
				}
				params[seg.name] = pathSegs[i]
			}
		}
	}

	// No wildcard consumed the tail: segment counts must match exactly.
	if len(pathSegs) != len(p.segments) {
		return MatchResult{Matched: false}
	}
	return MatchResult{Matched: true, Params: params}
}
