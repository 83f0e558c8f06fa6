package auth

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMiddlewareExtractsBearer(t *testing.T) {
	var got Identity
	var present bool
	h := Middleware(http.HandlerFunc(func(_ http.ResponseWriter, r *http.Request) {
		got, present = FromContext(r.Context())
	}))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer tok-123")
	req.Header.Set("X-User-Id", "u-1")
	h.ServeHTTP(httptest.NewRecorder(), req)

	require.True(t, present)
	assert.Equal(t, "tok-123", got.Token)
	assert.Equal(t, "u-1", got.UserID)
}

func TestMiddlewareAnonymousPassthrough(t *testing.T) {
	var present bool
	h := Middleware(http.HandlerFunc(func(_ http.ResponseWriter, r *http.Request) {
		_, present = FromContext(r.Context())
	}))

	for _, header := range []string{"", "Basic dXNlcg==", "Bearer ", "Bearer    "} {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		if header != "" {
			req.Header.Set("Authorization", header)
		}
		h.ServeHTTP(httptest.NewRecorder(), req)
		assert.False(t, present, "header %q", header)
	}
}
