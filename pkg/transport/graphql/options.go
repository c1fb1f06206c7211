package graphql

import (
	"log/slog"
	"time"

	"github.com/saturnines/storefront-graphql/pkg/jsonvalue"
)

// BuilderOption configures the Builder.
type BuilderOption func(*Builder)

// WithHeader adds a header to every GraphQL request.
func WithHeader(key, value string) BuilderOption {
	return func(b *Builder) {
		if b.Headers == nil {
			b.Headers = make(map[string]string)
		}
		b.Headers[key] = value
	}
}

// WithHeaders adds multiple headers to every GraphQL request.
func WithHeaders(headers map[string]string) BuilderOption {
	return func(b *Builder) {
		if b.Headers == nil {
			b.Headers = make(map[string]string)
		}
		for k, v := range headers {
			b.Headers[k] = v
		}
	}
}

// WithEndpoint overrides the default endpoint.
func WithEndpoint(url string) BuilderOption {
	return func(b *Builder) {
		b.Endpoint = url
	}
}

// WithQuery overrides the default query.
func WithQuery(query string) BuilderOption {
	return func(b *Builder) {
		b.Query = query
	}
}

// WithVariable sets a single variable. The value is converted with
// jsonvalue.FromAny.
func WithVariable(key string, value any) BuilderOption {
	return func(b *Builder) {
		b.Variables.Set(key, jsonvalue.FromAny(value))
	}
}

// WithVariables sets multiple variables, in sorted key order.
func WithVariables(variables map[string]any) BuilderOption {
	return func(b *Builder) {
		for _, m := range jsonvalue.ObjectFromMap(variables) {
			b.Variables.Set(m.Key, m.Value)
		}
	}
}

// WithMaxAge sets the Cache-Control max-age requested from the transport's
// cache. Zero or less omits the header.
func WithMaxAge(maxAge time.Duration) BuilderOption {
	return func(b *Builder) {
		b.MaxAge = maxAge
	}
}

// ApplyOptions applies BuilderOption functions in order.
func (b *Builder) ApplyOptions(opts ...BuilderOption) {
	for _, opt := range opts {
		opt(b)
	}
}

// ClientOption configures the Client.
type ClientOption func(*Client)

// WithHTTPDoer swaps the underlying HTTPDoer.
func WithHTTPDoer(doer HTTPDoer) ClientOption {
	return func(c *Client) {
		c.doer = doer
	}
}

// WithLogger sets the logger used for request tracing. A nil logger is
// ignored.
func WithLogger(logger *slog.Logger) ClientOption {
	return func(c *Client) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// ApplyOptions applies ClientOption functions in order.
func (c *Client) ApplyOptions(opts ...ClientOption) {
	for _, opt := range opts {
		opt(c)
	}
}
