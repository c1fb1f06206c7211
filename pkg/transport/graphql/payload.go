package graphql

import (
	"github.com/saturnines/storefront-graphql/pkg/jsonvalue"
)

// BuildPayload encodes a GraphQL request body of the form
// {"query":...,"variables":{...}}.
//
// The query is sent verbatim. Variables are converted with
// jsonvalue.FromAny, so values of unsupported types become null rather than
// failing; a nil map is sent as an empty object.
func BuildPayload(query string, variables map[string]any) []byte {
	return buildPayload(query, jsonvalue.ObjectFromMap(variables))
}

func buildPayload(query string, variables jsonvalue.Object) []byte {
	payload := jsonvalue.Object{
		{Key: "query", Value: jsonvalue.String(query)},
		{Key: "variables", Value: jsonvalue.ObjectValue(variables)},
	}
	// MarshalJSON on an Object never fails.
	out, _ := payload.MarshalJSON()
	return out
}
