// Package storefront is a client for a shop's storefront GraphQL API.
//
// A Client is built once and is safe for concurrent use:
//
//	client, err := storefront.NewBuilder("my-shop.myshopify.com", token, "2024-01").Build()
//	if err != nil {
//		return err
//	}
//	data, err := client.ExecuteQuery(ctx, `{ shop { name } }`, nil)
//
// Requests are retried on server errors and transport failures, and the
// storefront access headers are applied to every attempt.
package storefront

import (
	"context"
	"log/slog"
	"time"

	"github.com/saturnines/storefront-graphql/pkg/errors"
	"github.com/saturnines/storefront-graphql/pkg/jsonvalue"
	"github.com/saturnines/storefront-graphql/pkg/transport/graphql"
)

// Client executes GraphQL operations against one storefront endpoint.
type Client struct {
	cfg    Config
	gql    *graphql.Client
	logger *slog.Logger
}

// Config returns a copy of the client's configuration. HTTPClient is a
// copy as well; changing it does not affect the Client.
func (c *Client) Config() Config {
	cfg := c.cfg
	httpClient := *c.cfg.HTTPClient
	cfg.HTTPClient = &httpClient
	return cfg
}

// ExecuteQuery posts query and variables to the storefront endpoint and
// returns the decoded response object. Variables of unsupported types are
// sent as null.
//
// A non-2xx response fails with an error wrapping errors.ErrHTTPResponse and
// an *errors.HTTPError; a body that is not a JSON object fails with
// errors.ErrMalformedResponse. GraphQL level errors inside a 200 response
// are returned as data; see ResponseErrors.
func (c *Client) ExecuteQuery(ctx context.Context, query string, variables map[string]any) (jsonvalue.Object, error) {
	req, err := c.newRequest(query, variables).Build(ctx)
	if err != nil {
		return nil, errors.WrapError(err, errors.ErrHTTPRequest, "build request")
	}

	start := time.Now()
	obj, err := c.gql.Execute(req)
	if err != nil {
		c.logger.DebugContext(ctx, "storefront query failed", "error", err, "elapsed", time.Since(start))
		return nil, err
	}
	c.logger.DebugContext(ctx, "storefront query completed", "elapsed", time.Since(start))
	return obj, nil
}

// NewPager pages through a connection with cursor variable cursorVar. The
// paths locate pageInfo.endCursor and pageInfo.hasNextPage in the response,
// e.g. "data.products.pageInfo.endCursor".
func (c *Client) NewPager(query string, variables map[string]any, cursorVar, endCursorPath, hasNextPath string) (*graphql.Pager, error) {
	return graphql.NewPager(c.newRequest(query, variables), c.gql, cursorVar, endCursorPath, hasNextPath)
}

func (c *Client) newRequest(query string, variables map[string]any) *graphql.Builder {
	return graphql.NewBuilder(c.cfg.Endpoint, query, variables)
}
