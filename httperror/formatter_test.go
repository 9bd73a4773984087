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

package httperror

import (
	"errors"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWithStatus_WrapsError(t *testing.T) {
	t.Parallel()
	base := errors.New("record missing")
	wrapped := WithStatus(base, http.StatusNotFound)

	assert.Equal(t, "record missing", wrapped.Error())

	var typed ErrorType
	require.ErrorAs(t, wrapped, &typed)
	assert.Equal(t, http.StatusNotFound, typed.HTTPStatus())

	assert.ErrorIs(t, wrapped, base, "WithStatus must preserve the wrapped error for errors.Is/As")
}

func TestWithStatus_NilError(t *testing.T) {
	t.Parallel()
	wrapped := WithStatus(nil, http.StatusTeapot)
	assert.Equal(t, http.StatusText(http.StatusTeapot), wrapped.Error())

	var typed ErrorType
	require.ErrorAs(t, wrapped, &typed)
	assert.Equal(t, http.StatusTeapot, typed.HTTPStatus())
}

func TestWithStatus_Unwrap(t *testing.T) {
	t.Parallel()
	base := errors.New("underlying")
	wrapped := WithStatus(base, http.StatusBadGateway)

	assert.Equal(t, base, errors.Unwrap(wrapped))
}

func TestWithStatus_InWireFormat(t *testing.T) {
	t.Parallel()
	req, _ := http.NewRequest(http.MethodGet, "/", nil)
	w := NewWire()

	resp := w.Format(req, WithStatus(errors.New("upstream service unavailable"), http.StatusBadGateway))

	assert.Equal(t, http.StatusBadGateway, resp.Status)
	body := resp.Body.(map[string]any)
	assert.Equal(t, "upstream service unavailable", body["message"])
}
