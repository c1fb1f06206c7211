// Package interceptor composes request interceptors around an
// http.RoundTripper. Interceptors run in the order they are listed: the first
// one is outermost and sees every request before the others.
package interceptor

import "net/http"

// Interceptor wraps the next RoundTripper in the chain.
type Interceptor func(next http.RoundTripper) http.RoundTripper

// RoundTripperFunc adapts an ordinary function to http.RoundTripper.
type RoundTripperFunc func(*http.Request) (*http.Response, error)

// RoundTrip calls f(req).
func (f RoundTripperFunc) RoundTrip(req *http.Request) (*http.Response, error) {
	return f(req)
}

// Chain layers interceptors over base, first interceptor outermost. A nil
// base uses http.DefaultTransport.
func Chain(base http.RoundTripper, interceptors ...Interceptor) http.RoundTripper {
	if base == nil {
		base = http.DefaultTransport
	}
	rt := base
	for i := len(interceptors) - 1; i >= 0; i-- {
		rt = interceptors[i](rt)
	}
	return rt
}
