package storefront

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/saturnines/storefront-graphql/pkg/errors"
	"github.com/saturnines/storefront-graphql/pkg/jsonvalue"
)

// GraphQLError is one entry of a response's "errors" array.
type GraphQLError struct {
	Message   string                 `json:"message"`
	Path      []any                  `json:"path,omitempty"`
	Locations []GraphQLErrorLocation `json:"locations,omitempty"`
}

type GraphQLErrorLocation struct {
	Line   int `json:"line"`
	Column int `json:"column"`
}

func (e GraphQLError) Error() string {
	if len(e.Path) == 0 {
		return e.Message
	}
	parts := make([]string, len(e.Path))
	for i, p := range e.Path {
		parts[i] = fmt.Sprint(p)
	}
	return fmt.Sprintf("%s (path: %s)", e.Message, strings.Join(parts, "."))
}

// ResponseErrors returns the GraphQL errors reported in a response, or nil
// when there are none. A 200 response can carry both data and errors.
func ResponseErrors(obj jsonvalue.Object) ([]GraphQLError, error) {
	v, ok := obj.Get("errors")
	if !ok || v.IsNull() {
		return nil, nil
	}
	raw, _ := v.MarshalJSON()

	var gqlErrs []GraphQLError
	if err := json.Unmarshal(raw, &gqlErrs); err != nil {
		return nil, errors.WrapError(err, errors.ErrMalformedResponse, "decode graphql errors")
	}
	return gqlErrs, nil
}
