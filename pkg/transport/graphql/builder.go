package graphql

import (
	"bytes"
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/saturnines/storefront-graphql/pkg/jsonvalue"
)

// DefaultMaxAge is the cache lifetime requested for every GraphQL POST.
const DefaultMaxAge = time.Hour

// Builder constructs GraphQL requests.
type Builder struct {
	Endpoint  string
	Query     string
	Variables jsonvalue.Object
	Headers   map[string]string
	MaxAge    time.Duration
}

// NewBuilder sets up a GraphQL Builder.
// Endpoint is the full URL of your GraphQL endpoint.
func NewBuilder(endpoint, query string, variables map[string]any, opts ...BuilderOption) *Builder {
	b := &Builder{
		Endpoint:  endpoint,
		Query:     query,
		Variables: jsonvalue.ObjectFromMap(variables),
		MaxAge:    DefaultMaxAge,
	}
	b.ApplyOptions(opts...)
	return b
}

// Payload returns the JSON body the builder sends.
func (b *Builder) Payload() []byte {
	return buildPayload(b.Query, b.Variables)
}

// Build creates the *http.Request with JSON body.
func (b *Builder) Build(ctx context.Context) (*http.Request, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, b.Endpoint, bytes.NewReader(b.Payload()))
	if err != nil {
		return nil, err
	}
	for k, v := range b.Headers {
		req.Header.Set(k, v)
	}
	req.Header.Set("Content-Type", "application/json")
	if b.MaxAge > 0 {
		req.Header.Set("Cache-Control", cacheControl(b.MaxAge))
	}
	return req, nil
}

// Clone returns a copy whose variables and headers can be changed without
// touching b.
func (b *Builder) Clone() *Builder {
	c := *b
	c.Variables = append(jsonvalue.Object(nil), b.Variables...)
	if b.Headers != nil {
		c.Headers = make(map[string]string, len(b.Headers))
		for k, v := range b.Headers {
			c.Headers[k] = v
		}
	}
	return &c
}

func cacheControl(maxAge time.Duration) string {
	return "max-age=" + strconv.FormatInt(int64(maxAge/time.Second), 10)
}
