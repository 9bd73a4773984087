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

// compose builds a single callable out of a middleware chain and a
// terminal stage, per spec.md §4.4's fold-right composition:
//
//	compose([m1, m2, m3], terminal) == m1(req, next1)
//	  where next1 merges locals then calls m2(req, next2)
//	  where next2 merges locals then calls m3(req, next3)
//	  where next3 merges locals then calls terminal(req, nil)
//
// Each stage decides independently whether to call next at all (allowing
// short-circuit responses), and any code following a next() call only
// executes after every downstream stage — including the terminal handler —
// has returned, giving middleware a natural "before/after" shape around the
// rest of the pipeline. checkCancellation, when enabled, aborts the chain
// early if the request's context has already been cancelled.
func compose(chain []Middleware, terminal Middleware, checkCancellation bool) func(req *InboundRequest) (*Response, error) {
	return func(req *InboundRequest) (*Response, error) {
		return composeFor(chain, terminal, checkCancellation, req)
	}
}

// composeFor is the per-request entry point: it rebuilds the Next closures
// bound to req, since Next itself only takes a locals map.
func composeFor(chain []Middleware, terminal Middleware, checkCancellation bool, req *InboundRequest) (*Response, error) {
	var invoke func(i int) Next
	invoke = func(i int) Next {
		return func(locals map[string]any) (*Response, error) {
			req.mergeLocals(locals)

			if checkCancellation {
				if err := req.Context().Err(); err != nil {
					return nil, err
				}
			}

			if i == len(chain) {
				return terminal(req, nil)
			}
			return chain[i](req, invoke(i+1))
		}
	}
	return invoke(0)(nil)
}
