package interceptor

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"time"

	"github.com/hashicorp/go-retryablehttp"

	"github.com/saturnines/storefront-graphql/pkg/errors"
)

const (
	// DefaultMaxRetries is the number of attempts made when none is configured.
	DefaultMaxRetries = 3

	// DefaultBackoffBase is scaled by 2^attempt between attempts.
	DefaultBackoffBase = 100 * time.Millisecond

	// maxBackoffShift keeps the exponential backoff from overflowing.
	maxBackoffShift = 30
)

// RetryOption configures the Retry interceptor.
type RetryOption func(*retryablehttp.Client)

// WithRetryLogger logs attempts and backoffs through logger.
func WithRetryLogger(logger *slog.Logger) RetryOption {
	return func(c *retryablehttp.Client) {
		if logger != nil {
			c.Logger = logger
		}
	}
}

// WithBackoffBase changes the unit the exponential backoff is scaled from.
func WithBackoffBase(base time.Duration) RetryOption {
	return func(c *retryablehttp.Client) {
		c.Backoff = ExponentialBackoff(base)
	}
}

// Retry makes up to maxAttempts attempts of each request.
//
// 2xx and 4xx responses are returned at once; a 4xx is not transient and is
// left for the caller to interpret. 5xx responses and transport errors are
// retried after sleeping base*2^n, where n is the number of attempts made so
// far. Once attempts run out the last failure is returned: an
// *errors.HTTPError for a 5xx, the transport error otherwise. Other statuses
// (1xx, 3xx) are returned as they are. A canceled context stops the backoff.
func Retry(maxAttempts int, opts ...RetryOption) Interceptor {
	if maxAttempts < 1 {
		maxAttempts = 1
	}
	return func(next http.RoundTripper) http.RoundTripper {
		c := retryablehttp.NewClient()
		c.HTTPClient = &http.Client{
			Transport: next,
			// Redirects are left to the outer client.
			CheckRedirect: func(*http.Request, []*http.Request) error {
				return http.ErrUseLastResponse
			},
		}
		c.RetryMax = maxAttempts - 1
		c.CheckRetry = retryPolicy
		c.Backoff = ExponentialBackoff(DefaultBackoffBase)
		c.ErrorHandler = lastFailure
		// Silent unless a logger is configured.
		c.Logger = nil
		for _, opt := range opts {
			opt(c)
		}
		return &retryablehttp.RoundTripper{Client: c}
	}
}

// ExponentialBackoff returns a retryablehttp.Backoff that waits base*2^n
// before attempt n+1: 200ms, 400ms, 800ms... for a 100ms base.
func ExponentialBackoff(base time.Duration) retryablehttp.Backoff {
	return func(_, _ time.Duration, attemptNum int, _ *http.Response) time.Duration {
		// attemptNum counts from zero after the first attempt
		shift := attemptNum + 1
		if shift > maxBackoffShift {
			shift = maxBackoffShift
		}
		return base * time.Duration(1<<shift)
	}
}

func retryPolicy(ctx context.Context, resp *http.Response, err error) (bool, error) {
	if ctxErr := ctx.Err(); ctxErr != nil {
		return false, ctxErr
	}
	if err != nil {
		// Transport level failures are transient
		return true, nil
	}
	return resp.StatusCode >= 500 && resp.StatusCode <= 599, nil
}

// lastFailure runs once retrying stops without an acceptable response.
func lastFailure(resp *http.Response, err error, numTries int) (*http.Response, error) {
	if resp != nil {
		// Drain so the connection can be reused.
		_, _ = io.Copy(io.Discard, resp.Body)
		resp.Body.Close()
	}
	if err == nil && resp != nil {
		err = &errors.HTTPError{StatusCode: resp.StatusCode, Status: resp.Status}
	}
	if urlErr, ok := err.(*url.Error); ok {
		// The outer client adds its own method and URL
		err = urlErr.Err
	}
	return nil, fmt.Errorf("giving up after %d attempt(s): %w", numTries, err)
}
