package llm

import (
	"bytes"
	"errors"
	"io"
	"net/http"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// scriptedTransport replays one canned outcome per attempt.
type scriptedTransport struct {
	calls  atomic.Int32
	script []func() (*http.Response, error)
}

func (s *scriptedTransport) RoundTrip(*http.Request) (*http.Response, error) {
	n := int(s.calls.Add(1)) - 1
	if n >= len(s.script) {
		n = len(s.script) - 1
	}
	return s.script[n]()
}

func respond(status int, body string) func() (*http.Response, error) {
	return func() (*http.Response, error) {
		return &http.Response{
			StatusCode: status,
			Status:     http.StatusText(status),
			Body:       io.NopCloser(strings.NewReader(body)),
			Header:     http.Header{},
		}, nil
	}
}

func fail(err error) func() (*http.Response, error) {
	return func() (*http.Response, error) { return nil, err }
}

func fastPolicy(maxRetries uint64) RetryPolicy {
	return RetryPolicy{
		MaxRetries:     maxRetries,
		AttemptTimeout: time.Second,
		InitialDelay:   time.Millisecond,
		MaxDelay:       2 * time.Millisecond,
	}
}

func newRequest(t *testing.T) *http.Request {
	t.Helper()
	req, err := http.NewRequest(http.MethodPost, "http://provider.test/v1/chat/completions",
		bytes.NewReader([]byte(`{"model":"m"}`)))
	require.NoError(t, err)
	return req
}

func TestRetryFailTwiceThenSucceed(t *testing.T) {
	stub := &scriptedTransport{script: []func() (*http.Response, error){
		fail(errors.New("connection reset")),
		fail(errors.New("connection reset")),
		respond(http.StatusOK, `{"choices":[]}`),
	}}
	rt := &retryTransport{base: stub, policy: fastPolicy(2)}

	resp, err := rt.RoundTrip(newRequest(t))
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, int32(3), stub.calls.Load())
}

func TestRetryClientErrorNotRetried(t *testing.T) {
	stub := &scriptedTransport{script: []func() (*http.Response, error){
		respond(http.StatusBadRequest, `{"error":{"message":"bad request"}}`),
	}}
	rt := &retryTransport{base: stub, policy: fastPolicy(2)}

	resp, err := rt.RoundTrip(newRequest(t))
	require.NoError(t, err)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, int32(1), stub.calls.Load())

	// The buffered body is still readable by the caller.
	b, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.Contains(t, string(b), "bad request")
}

func TestRetryServerErrorsExhaust(t *testing.T) {
	stub := &scriptedTransport{script: []func() (*http.Response, error){
		respond(http.StatusInternalServerError, "boom"),
	}}
	rt := &retryTransport{base: stub, policy: fastPolicy(2)}

	_, err := rt.RoundTrip(newRequest(t))
	require.Error(t, err)
	assert.Equal(t, int32(3), stub.calls.Load())
}

func TestRetryTooManyRequestsIsRetried(t *testing.T) {
	stub := &scriptedTransport{script: []func() (*http.Response, error){
		respond(http.StatusTooManyRequests, "slow down"),
		respond(http.StatusOK, "ok"),
	}}
	rt := &retryTransport{base: stub, policy: fastPolicy(2)}

	resp, err := rt.RoundTrip(newRequest(t))
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, int32(2), stub.calls.Load())
}

func TestRetryZeroRetriesSingleAttempt(t *testing.T) {
	stub := &scriptedTransport{script: []func() (*http.Response, error){
		respond(http.StatusInternalServerError, "boom"),
	}}
	rt := &retryTransport{base: stub, policy: fastPolicy(0)}

	_, err := rt.RoundTrip(newRequest(t))
	require.Error(t, err)
	assert.Equal(t, int32(1), stub.calls.Load())
}
