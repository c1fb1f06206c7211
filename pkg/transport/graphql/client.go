package graphql

import (
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/saturnines/storefront-graphql/pkg/errors"
	"github.com/saturnines/storefront-graphql/pkg/jsonvalue"
)

// HTTPDoer is the minimal interface the client needs from *http.Client.
type HTTPDoer interface {
	Do(*http.Request) (*http.Response, error)
}

// Client executes GraphQL operations.
type Client struct {
	doer   HTTPDoer
	logger *slog.Logger
}

// NewClient wraps an HTTPDoer (e.g. an *http.Client whose transport carries
// the retry and auth interceptors).
func NewClient(doer HTTPDoer, opts ...ClientOption) *Client {
	c := &Client{
		doer:   doer,
		logger: discardLogger,
	}
	c.ApplyOptions(opts...)
	return c
}

// Execute sends a built request and decodes a successful response body as a
// JSON object. The response body is always consumed and closed.
func (c *Client) Execute(req *http.Request) (jsonvalue.Object, error) {
	ctx := req.Context()
	start := time.Now()
	c.logger.DebugContext(ctx, "sending graphql request", "method", req.Method, "url", req.URL.Redacted())

	resp, err := c.doer.Do(req)
	if err != nil {
		c.logger.DebugContext(ctx, "graphql request failed", "error", err, "elapsed", time.Since(start))
		return nil, errors.WrapError(err, errors.ErrHTTPRequest, "send request")
	}
	defer resp.Body.Close()

	c.logger.DebugContext(ctx, "graphql response received", "status", resp.StatusCode, "elapsed", time.Since(start))
	return handleResponse(resp)
}

func handleResponse(resp *http.Response) (jsonvalue.Object, error) {
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		// Drain so the connection can be reused.
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil, errors.WrapError(
			&errors.HTTPError{StatusCode: resp.StatusCode, Status: resp.Status},
			errors.ErrHTTPResponse,
			"unexpected response",
		)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, errors.WrapError(err, errors.ErrHTTPRequest, "read response body")
	}

	obj, err := jsonvalue.ParseObject(body)
	if err != nil {
		return nil, errors.WrapError(err, errors.ErrMalformedResponse, "decode response body")
	}
	return obj, nil
}

var discardLogger = slog.New(slog.NewTextHandler(io.Discard, nil))
