package llm

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testRouter(c *Client) *chi.Mux {
	r := chi.NewRouter()
	RegisterRoutes(r, NewHandler(c))
	return r
}

func postTest(t *testing.T, r http.Handler, body string) map[string]any {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, "/llm/test", strings.NewReader(body))
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code)

	var out map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out))
	return out
}

func TestTestConnectionSuccess(t *testing.T) {
	stub := newStubProvider(t, http.StatusOK, completionBody("ok"))
	r := testRouter(NewClient(fastPolicy(0)))

	out := postTest(t, r, `{"provider":"dmxapi","apiKey":"abcdefghijkl","host":"`+stub.srv.URL+`"}`)
	assert.Equal(t, true, out["ok"])
	assert.Contains(t, out, "latency_ms")
}

func TestTestConnectionKeyFormatFailure(t *testing.T) {
	stub := newStubProvider(t, http.StatusOK, completionBody("unused"))
	r := testRouter(NewClient(fastPolicy(0)))

	out := postTest(t, r, `{"provider":"openai","apiKey":"short","host":"`+stub.srv.URL+`"}`)
	assert.Equal(t, false, out["ok"])
	assert.Contains(t, out["message"], "sk-")
	assert.Equal(t, int32(0), stub.calls.Load())
}

func TestTestConnectionMissingKey(t *testing.T) {
	r := testRouter(NewClient(fastPolicy(0)))

	out := postTest(t, r, `{"provider":"dmxapi"}`)
	assert.Equal(t, false, out["ok"])
	assert.NotEmpty(t, out["message"])
}

func TestListProviders(t *testing.T) {
	r := testRouter(NewClient(fastPolicy(0)))

	req := httptest.NewRequest(http.MethodGet, "/llm/providers", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code)

	var out struct {
		Providers []struct {
			ID            string   `json:"id"`
			DefaultModels []string `json:"default_models"`
		} `json:"providers"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out))
	require.Len(t, out.Providers, 7)
	assert.Equal(t, "openai", out.Providers[0].ID)
	assert.NotEmpty(t, out.Providers[0].DefaultModels)
}
