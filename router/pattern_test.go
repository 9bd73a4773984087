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

import "testing"

func TestNormalizePath(t *testing.T) {
	t.Parallel()
	cases := map[string]string{
		"":              "/",
		"/":             "/",
		"//":            "/",
		"/users":        "/users",
		"/users/":       "/users",
		"/users//42":    "/users/42",
		"users":         "users",
		"/a///b//c/":    "/a/b/c",
	}
	for in, want := range cases {
		if got := NormalizePath(in); got != want {
			t.Errorf("NormalizePath(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestJoinPath(t *testing.T) {
	t.Parallel()
	cases := []struct{ prefix, local, want string }{
		{"", "/users", "/users"},
		{"/", "/", "/"},
		{"/api", "", "/api"},
		{"/api", "/v1", "/api/v1"},
		{"/api/", "/v1/", "/api/v1"},
	}
	for _, c := range cases {
		if got := joinPath(c.prefix, c.local); got != c.want {
			t.Errorf("joinPath(%q, %q) = %q, want %q", c.prefix, c.local, got, c.want)
		}
	}
}

func TestCompilePattern_Specificity(t *testing.T) {
	t.Parallel()
	static := CompilePattern("/users/list")
	param := CompilePattern("/users/:id")
	wildcard := CompilePattern("/users/*rest")

	if static.specificity <= param.specificity {
		t.Errorf("static specificity %d should exceed param specificity %d", static.specificity, param.specificity)
	}
	if param.specificity <= wildcard.specificity {
		t.Errorf("param specificity %d should exceed wildcard specificity %d", param.specificity, wildcard.specificity)
	}
}

func TestPattern_Match_Static(t *testing.T) {
	t.Parallel()
	p := CompilePattern("/users/list")

	if res := p.Match("/users/list"); !res.Matched {
		t.Fatal("expected exact static match")
	}
	if res := p.Match("/users/other"); res.Matched {
		t.Fatal("expected no match for different static segment")
	}
	if res := p.Match("/users/list/extra"); res.Matched {
		t.Fatal("expected no match for extra trailing segment")
	}
}

func TestPattern_Match_Param(t *testing.T) {
	t.Parallel()
	p := CompilePattern("/users/:id")

	res := p.Match("/users/42")
	if !res.Matched {
		t.Fatal("expected match")
	}
	if res.Params["id"] != "42" {
		t.Errorf("params[id] = %q, want 42", res.Params["id"])
	}

	if res := p.Match("/users/"); res.Matched {
		t.Fatal("expected empty param segment to fail match")
	}
}

func TestPattern_Match_Wildcard(t *testing.T) {
	t.Parallel()
	p := CompilePattern("/static/*path")

	res := p.Match("/static/css/app.css")
	if !res.Matched {
		t.Fatal("expected match")
	}
	if res.Params["path"] != "css/app.css" {
		t.Errorf("params[path] = %q, want css/app.css", res.Params["path"])
	}

	res = p.Match("/static")
	if !res.Matched {
		t.Fatal("expected match with zero remaining segments")
	}
	if res.Params["path"] != "" {
		t.Errorf("params[path] = %q, want empty", res.Params["path"])
	}
}

func TestPattern_Match_UnnamedWildcard(t *testing.T) {
	t.Parallel()
	p := CompilePattern("/files/*")

	res := p.Match("/files/a/b")
	if !res.Matched {
		t.Fatal("expected match")
	}
	if res.Params["*"] != "a/b" {
		t.Errorf("params[*] = %q, want a/b", res.Params["*"])
	}
}

func TestPattern_LeadingWildcard(t *testing.T) {
	t.Parallel()

	trailing := CompilePattern("/files/*rest")
	if trailing.leadingWildcard() {
		t.Error("a trailing wildcard must not be reported as leading")
	}

	leading := CompilePattern("/files/*rest/meta")
	if !leading.leadingWildcard() {
		t.Error("a wildcard followed by another segment must be reported as leading")
	}

	noWildcard := CompilePattern("/files/:id")
	if noWildcard.leadingWildcard() {
		t.Error("a pattern without a wildcard must never report leadingWildcard")
	}
}
