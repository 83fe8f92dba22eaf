package server

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/adfharrison1/go-baas/pkg/api"
	"github.com/adfharrison1/go-baas/pkg/config"
	"github.com/adfharrison1/go-baas/pkg/platform"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestServer(t *testing.T) *Server {
	t.Helper()
	cfg := config.FromViper(config.New())
	cfg.DocStore.DataFile = ""

	p, err := platform.Open(context.Background(), cfg)
	require.NoError(t, err)
	t.Cleanup(func() { p.Close(context.Background()) })

	return NewServer(p)
}

func TestServer_Routes(t *testing.T) {
	srv := newTestServer(t)

	req := httptest.NewRequest("PUT", "/collections/users/documents/u1", strings.NewReader(`{"name":"Alice"}`))
	w := httptest.NewRecorder()
	srv.Router().ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code)

	w = httptest.NewRecorder()
	srv.Router().ServeHTTP(w, httptest.NewRequest("GET", "/users", nil))
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `[{"id":"u1","name":"Alice"}]`, w.Body.String())

	w = httptest.NewRecorder()
	srv.Router().ServeHTTP(w, httptest.NewRequest("GET", "/health", nil))
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestServer_NotFound(t *testing.T) {
	srv := newTestServer(t)

	w := httptest.NewRecorder()
	srv.Router().ServeHTTP(w, httptest.NewRequest("GET", "/nowhere", nil))

	assert.Equal(t, http.StatusNotFound, w.Code)
	var resp api.ErrorResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, http.StatusNotFound, resp.Code)
}
