package graphql

import (
	"context"
	stderrors "errors"
	"fmt"
	"sync"

	"github.com/saturnines/storefront-graphql/pkg/errors"
	"github.com/saturnines/storefront-graphql/pkg/jsonvalue"
)

// ErrNoMorePages is returned by Pager.Next once the last page was fetched.
var ErrNoMorePages = stderrors.New("no more pages")

// Pager drives cursor paging over a GraphQL connection with thread safety.
type Pager struct {
	// Immutable configuration
	builder       *Builder
	client        *Client
	cursorVar     string
	endCursorPath string
	hasNextPath   string

	// Mutable state (protected by mutex)
	mu      sync.RWMutex
	cursor  string
	hasNext bool
	first   bool
}

// NewPager returns a Pager that feeds the connection's end cursor into the
// cursorVar variable of each following request. Paths are dotted, e.g.
// "data.products.pageInfo.endCursor".
// Does NOT execute any requests during creation.
func NewPager(builder *Builder, client *Client, cursorVar, endCursorPath, hasNextPath string) (*Pager, error) {
	// Validate inputs
	if builder == nil {
		return nil, paginationError("builder cannot be nil")
	}
	if client == nil {
		return nil, paginationError("client cannot be nil")
	}
	if cursorVar == "" {
		return nil, paginationError("cursor variable cannot be empty")
	}
	if endCursorPath == "" {
		return nil, paginationError("end cursor path cannot be empty")
	}
	if hasNextPath == "" {
		return nil, paginationError("has next path cannot be empty")
	}

	return &Pager{
		builder:       builder.Clone(),
		client:        client,
		cursorVar:     cursorVar,
		endCursorPath: endCursorPath,
		hasNextPath:   hasNextPath,
		hasNext:       true,
		first:         true,
	}, nil
}

// Next fetches the next page. It returns ErrNoMorePages when the previous
// page reported no further pages. A failed fetch leaves the state untouched
// so Next can be called again.
func (p *Pager) Next(ctx context.Context) (jsonvalue.Object, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if !p.first && !p.hasNext {
		return nil, ErrNoMorePages
	}

	// Work on a copy so the template keeps the caller's variables
	b := p.builder.Clone()
	if !p.first {
		b.Variables.Set(p.cursorVar, jsonvalue.String(p.cursor))
	}

	req, err := b.Build(ctx)
	if err != nil {
		return nil, errors.WrapError(err, errors.ErrHTTPRequest, "build page request")
	}
	page, err := p.client.Execute(req)
	if err != nil {
		return nil, err
	}

	hasNext := false
	if v, ok := page.Lookup(p.hasNextPath); ok {
		// If we can't determine hasNext, assume no more pages
		hasNext, _ = v.AsBool()
	}

	cursor := ""
	if v, ok := page.Lookup(p.endCursorPath); ok {
		cursor, _ = v.AsString()
	}
	if hasNext && cursor == "" {
		return nil, paginationError(fmt.Sprintf("next page reported but no cursor at %q", p.endCursorPath))
	}

	p.first = false
	p.hasNext = hasNext
	p.cursor = cursor
	return page, nil
}

// HasMore returns whether more pages are available (thread-safe).
func (p *Pager) HasMore() bool {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.first || p.hasNext
}

// Reset resets pagination to start from the beginning.
func (p *Pager) Reset() {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.hasNext = true
	p.first = true
	p.cursor = ""
}

func paginationError(msg string) error {
	return errors.WrapError(stderrors.New(msg), errors.ErrPagination, "graphql pager")
}
