package llm

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	backoff "github.com/cenkalti/backoff/v4"
)

// RetryPolicy bounds one logical request. MaxRetries counts additional
// attempts after the first; AttemptTimeout is an absolute cap per attempt.
type RetryPolicy struct {
	MaxRetries     uint64
	AttemptTimeout time.Duration
	InitialDelay   time.Duration
	MaxDelay       time.Duration
}

func DefaultRetryPolicy() RetryPolicy {
	return RetryPolicy{
		MaxRetries:     2,
		AttemptTimeout: 20 * time.Second,
		InitialDelay:   500 * time.Millisecond,
		MaxDelay:       8 * time.Second,
	}
}

// NewHTTPClient returns an http.Client whose transport retries transient
// failures (network error, attempt timeout, 429, 5xx) with exponential
// backoff and jitter. Any other status passes through untouched, so a 4xx
// rejection costs exactly one attempt.
func NewHTTPClient(policy RetryPolicy) *http.Client {
	return &http.Client{
		Transport: &retryTransport{base: http.DefaultTransport, policy: policy},
	}
}

type retryTransport struct {
	base   http.RoundTripper
	policy RetryPolicy
}

func (t *retryTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	// A body we cannot rewind can only be sent once.
	if req.Body != nil && req.GetBody == nil {
		return t.base.RoundTrip(req)
	}

	var resp *http.Response
	attempt := func() error {
		r := req
		cancel := func() {}
		if t.policy.AttemptTimeout > 0 {
			var ctx context.Context
			ctx, cancel = context.WithTimeout(req.Context(), t.policy.AttemptTimeout)
			r = req.Clone(ctx)
		}
		if req.GetBody != nil {
			body, err := req.GetBody()
			if err != nil {
				cancel()
				return backoff.Permanent(err)
			}
			r.Body = body
		}

		res, err := t.base.RoundTrip(r)
		if err != nil {
			cancel()
			return err
		}

		// Buffer the body so the per-attempt context can be released
		// before the caller reads it.
		b, err := io.ReadAll(res.Body)
		res.Body.Close()
		cancel()
		if err != nil {
			return err
		}
		res.Body = io.NopCloser(bytes.NewReader(b))

		if res.StatusCode >= http.StatusInternalServerError ||
			res.StatusCode == http.StatusTooManyRequests {
			resp = nil
			return fmt.Errorf("server error: %s", res.Status)
		}
		resp = res
		return nil
	}

	expo := backoff.NewExponentialBackOff()
	expo.InitialInterval = t.policy.InitialDelay
	expo.MaxInterval = t.policy.MaxDelay
	expo.Multiplier = 2

	bo := backoff.WithContext(backoff.WithMaxRetries(expo, t.policy.MaxRetries), req.Context())
	if err := backoff.Retry(attempt, bo); err != nil {
		return nil, err
	}
	return resp, nil
}
