package interceptor

import (
	"context"
	stderrors "errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/saturnines/storefront-graphql/pkg/auth"
	"github.com/saturnines/storefront-graphql/pkg/errors"
)

func TestChain_Order(t *testing.T) {
	var order []string
	record := func(name string) Interceptor {
		return func(next http.RoundTripper) http.RoundTripper {
			return RoundTripperFunc(func(req *http.Request) (*http.Response, error) {
				order = append(order, name)
				return next.RoundTrip(req)
			})
		}
	}
	base := RoundTripperFunc(func(*http.Request) (*http.Response, error) {
		order = append(order, "base")
		return &http.Response{StatusCode: http.StatusOK, Body: http.NoBody}, nil
	})

	rt := Chain(base, record("first"), record("second"))
	req := httptest.NewRequest(http.MethodGet, "http://example.com", nil)
	_, err := rt.RoundTrip(req)
	require.NoError(t, err)

	assert.Equal(t, []string{"first", "second", "base"}, order)
}

func TestChain_NilBase(t *testing.T) {
	assert.Equal(t, http.DefaultTransport, Chain(nil))
}

// storefrontServer answers with statuses in order, repeating the last one.
func storefrontServer(t *testing.T, statuses ...int) (*httptest.Server, *requestLog) {
	t.Helper()
	log := &requestLog{}
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		n := log.add(r.Header.Clone(), string(body))
		status := statuses[len(statuses)-1]
		if n <= len(statuses) {
			status = statuses[n-1]
		}
		w.WriteHeader(status)
		io.WriteString(w, `{"data":{}}`)
	}))
	return server, log
}

type requestLog struct {
	mu      sync.Mutex
	headers []http.Header
	bodies  []string
}

func (l *requestLog) add(h http.Header, body string) int {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.headers = append(l.headers, h)
	l.bodies = append(l.bodies, body)
	return len(l.bodies)
}

func (l *requestLog) count() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.bodies)
}

func newStorefrontClient(maxAttempts int, token string) *http.Client {
	return &http.Client{Transport: Chain(http.DefaultTransport,
		Retry(maxAttempts, WithBackoffBase(time.Millisecond)),
		Auth(auth.NewStorefrontAuth("go", token)),
	)}
}

func post(t *testing.T, c *http.Client, url, body string) (*http.Response, error) {
	t.Helper()
	req, err := http.NewRequest(http.MethodPost, url, strings.NewReader(body))
	require.NoError(t, err)
	return c.Do(req)
}

func TestRetry_SucceedsAfterTransientFailures(t *testing.T) {
	server, log := storefrontServer(t, 500, 502, 200)
	defer server.Close()

	resp, err := post(t, newStorefrontClient(3, "secret"), server.URL, `{"query":"q"}`)
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, 3, log.count())
}

func TestRetry_GivesUpAfterMaxAttempts(t *testing.T) {
	server, log := storefrontServer(t, 500, 500, 500, 200)
	defer server.Close()

	_, err := post(t, newStorefrontClient(3, "secret"), server.URL, `{"query":"q"}`)
	require.Error(t, err)
	assert.Equal(t, 3, log.count())

	var httpErr *errors.HTTPError
	require.True(t, errors.As(err, &httpErr), "expected HTTPError, got %v", err)
	assert.Equal(t, http.StatusInternalServerError, httpErr.StatusCode)
}

func TestRetry_SingleAttempt(t *testing.T) {
	server, log := storefrontServer(t, 503)
	defer server.Close()

	_, err := post(t, newStorefrontClient(1, "secret"), server.URL, `{}`)
	require.Error(t, err)
	assert.Equal(t, 1, log.count())
}

func TestRetry_ClientErrorsNotRetried(t *testing.T) {
	for _, status := range []int{400, 401, 404, 429} {
		server, log := storefrontServer(t, status)

		resp, err := post(t, newStorefrontClient(3, "secret"), server.URL, `{}`)
		require.NoError(t, err)
		resp.Body.Close()

		assert.Equal(t, status, resp.StatusCode)
		assert.Equal(t, 1, log.count(), "status %d retried", status)
		server.Close()
	}
}

func TestRetry_RedirectReturnedToCaller(t *testing.T) {
	server, log := storefrontServer(t, http.StatusNotModified)
	defer server.Close()

	resp, err := post(t, newStorefrontClient(3, "secret"), server.URL, `{}`)
	require.NoError(t, err)
	resp.Body.Close()

	assert.Equal(t, http.StatusNotModified, resp.StatusCode)
	assert.Equal(t, 1, log.count())
}

func TestRetry_HeadersAndBodyOnEveryAttempt(t *testing.T) {
	server, log := storefrontServer(t, 500, 500, 200)
	defer server.Close()

	body := `{"query":"{ shop { name } }","variables":{}}`
	resp, err := post(t, newStorefrontClient(3, "secret-token"), server.URL, body)
	require.NoError(t, err)
	resp.Body.Close()

	require.Equal(t, 3, log.count())
	for i := 0; i < 3; i++ {
		assert.Equal(t, "secret-token", log.headers[i].Get(auth.AccessTokenHeader), "attempt %d", i+1)
		assert.Equal(t, "go", log.headers[i].Get(auth.SDKVariantHeader), "attempt %d", i+1)
		assert.Equal(t, body, log.bodies[i], "attempt %d", i+1)
	}
}

func TestRetry_TransportErrors(t *testing.T) {
	var attempts atomic.Int32
	failing := RoundTripperFunc(func(*http.Request) (*http.Response, error) {
		attempts.Add(1)
		return nil, stderrors.New("connection refused")
	})

	rt := Chain(failing, Retry(3, WithBackoffBase(time.Millisecond)))
	req, err := http.NewRequest(http.MethodPost, "http://shop.example/api/graphql", strings.NewReader("{}"))
	require.NoError(t, err)

	_, err = rt.RoundTrip(req)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "connection refused")
	assert.Equal(t, int32(3), attempts.Load())
}

func TestRetry_ContextCanceledDuringBackoff(t *testing.T) {
	server, log := storefrontServer(t, 500)
	defer server.Close()

	client := &http.Client{Transport: Chain(http.DefaultTransport,
		Retry(5, WithBackoffBase(time.Second)),
	)}

	ctx, cancel := context.WithTimeout(context.Background(), 100*time.Millisecond)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, server.URL, strings.NewReader("{}"))
	require.NoError(t, err)

	start := time.Now()
	_, err = client.Do(req)
	require.Error(t, err)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
	assert.Less(t, time.Since(start), time.Second)
	assert.Equal(t, 1, log.count())
}

func TestExponentialBackoff(t *testing.T) {
	backoff := ExponentialBackoff(DefaultBackoffBase)
	want := []time.Duration{200 * time.Millisecond, 400 * time.Millisecond, 800 * time.Millisecond, 1600 * time.Millisecond}
	for i, w := range want {
		assert.Equal(t, w, backoff(0, 0, i, nil), "attempt %d", i)
	}
	assert.Positive(t, backoff(0, 0, 1000, nil))
}

func TestAuth_MissingToken(t *testing.T) {
	var called atomic.Bool
	base := RoundTripperFunc(func(*http.Request) (*http.Response, error) {
		called.Store(true)
		return &http.Response{StatusCode: http.StatusOK, Body: http.NoBody}, nil
	})

	rt := Chain(base, Auth(auth.NewStorefrontAuth("go", "")))
	req := httptest.NewRequest(http.MethodPost, "http://shop.example/api/graphql", nil)
	_, err := rt.RoundTrip(req)

	assert.ErrorIs(t, err, errors.ErrConfiguration)
	assert.False(t, called.Load())
}

func TestAuth_DoesNotMutateRequest(t *testing.T) {
	base := RoundTripperFunc(func(req *http.Request) (*http.Response, error) {
		assert.Equal(t, "tok", req.Header.Get(auth.AccessTokenHeader))
		return &http.Response{StatusCode: http.StatusOK, Body: http.NoBody}, nil
	})

	rt := Chain(base, Auth(auth.NewStorefrontAuth("go", "tok")))
	req := httptest.NewRequest(http.MethodPost, "http://shop.example/api/graphql", nil)
	_, err := rt.RoundTrip(req)
	require.NoError(t, err)

	assert.Empty(t, req.Header.Get(auth.AccessTokenHeader))
}
