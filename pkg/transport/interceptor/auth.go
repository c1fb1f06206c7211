package interceptor

import (
	"fmt"
	"net/http"

	"github.com/saturnines/storefront-graphql/pkg/auth"
)

// Auth applies handler to a clone of every request passing through, so the
// headers are set again on each retry attempt.
func Auth(handler auth.Handler) Interceptor {
	return func(next http.RoundTripper) http.RoundTripper {
		return RoundTripperFunc(func(req *http.Request) (*http.Response, error) {
			clone := req.Clone(req.Context())
			if err := handler.ApplyAuth(clone); err != nil {
				if req.Body != nil {
					req.Body.Close()
				}
				return nil, fmt.Errorf("apply auth: %w", err)
			}
			return next.RoundTrip(clone)
		})
	}
}
