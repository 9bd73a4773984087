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

// RouteInfo is a read-only snapshot of one registered route, for
// introspection, API-spec generation, and tooling (spec.md §2's Route
// Registry, "maintain route metadata for introspection").
type RouteInfo struct {
	Method      string
	Path        string
	Name        string
	Metadata    map[string]any
	HasSchema   bool
	Specificity int
}

// Routes returns a snapshot of every registered route, sorted in dispatch
// priority order (highest specificity first). It triggers Warmup if the
// route table is stale or has never been built.
func (r *Router) Routes() []RouteInfo {
	flat := r.ensureWarm()
	out := make([]RouteInfo, len(flat))
	for i, rt := range flat {
		out[i] = RouteInfo{
			Method:      rt.Method,
			Path:        rt.Path,
			Name:        rt.Name,
			Metadata:    rt.Metadata,
			HasSchema:   rt.Schema != nil,
			Specificity: rt.Specificity,
		}
	}
	return out
}

// RouteByName looks up a single route registered with WithName, returning
// ok=false if no route carries that name.
func (r *Router) RouteByName(name string) (RouteInfo, bool) {
	if name == "" {
		return RouteInfo{}, false
	}
	for _, info := range r.Routes() {
		if info.Name == name {
			return info, true
		}
	}
	return RouteInfo{}, false
}
