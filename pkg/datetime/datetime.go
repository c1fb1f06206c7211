// Package datetime parses the ISO-8601 timestamps storefront responses use
// (createdAt, updatedAt, publishedAt and so on).
package datetime

import (
	"fmt"
	"time"

	"github.com/saturnines/storefront-graphql/pkg/errors"
	"github.com/saturnines/storefront-graphql/pkg/jsonvalue"
)

// ParseUTCDateTime parses an RFC 3339 timestamp with a "Z" or numeric UTC
// offset, e.g. "2024-01-01T00:00:00Z" or "2024-01-01T09:30:00.5+09:00".
// The result is in UTC. Unparseable input fails with errors.ErrInvalidFormat.
func ParseUTCDateTime(s string) (time.Time, error) {
	t, err := time.Parse(time.RFC3339Nano, s)
	if err != nil {
		return time.Time{}, errors.WrapError(err, errors.ErrInvalidFormat, "invalid UTC date format")
	}
	return t.UTC(), nil
}

// FromValue parses a timestamp held in a response field.
func FromValue(v jsonvalue.Value) (time.Time, error) {
	s, ok := v.AsString()
	if !ok {
		return time.Time{}, errors.WrapError(
			fmt.Errorf("expected a string, got %s", v.Kind()),
			errors.ErrInvalidFormat,
			"invalid UTC date format",
		)
	}
	return ParseUTCDateTime(s)
}
