package auth

import (
	"fmt"
	"net/http"

	"github.com/saturnines/storefront-graphql/pkg/errors"
)

const (
	// SDKVariantHeader identifies the client platform to the storefront.
	SDKVariantHeader = "X-SDK-Variant"
	// AccessTokenHeader carries the storefront access token.
	AccessTokenHeader = "X-Shopify-Storefront-Access-Token"

	// DefaultSDKVariant is sent when no variant is configured.
	DefaultSDKVariant = "go"
)

// Handler defines the interface for auth handlers
type Handler interface {
	ApplyAuth(req *http.Request) error
}

// StorefrontAuth implements the Handler interface for storefront access
// token authentication.
type StorefrontAuth struct {
	SDKVariant  string // Value of the X-SDK-Variant header
	AccessToken string // The storefront access token
}

// NewStorefrontAuth creates a new storefront authentication handler.
// An empty variant falls back to DefaultSDKVariant.
func NewStorefrontAuth(sdkVariant, accessToken string) *StorefrontAuth {
	if sdkVariant == "" {
		sdkVariant = DefaultSDKVariant
	}
	return &StorefrontAuth{
		SDKVariant:  sdkVariant,
		AccessToken: accessToken,
	}
}

// ApplyAuth sets the SDK variant and access token headers, replacing any
// values already present on the request.
func (a *StorefrontAuth) ApplyAuth(req *http.Request) error {
	if a.AccessToken == "" {
		return errors.WrapError(
			fmt.Errorf("access token is required"),
			errors.ErrConfiguration,
			"apply storefront auth",
		)
	}

	req.Header.Set(SDKVariantHeader, a.SDKVariant)
	req.Header.Set(AccessTokenHeader, a.AccessToken)

	return nil
}

// String returns a string representation of this auth method
func (a *StorefrontAuth) String() string {
	// The token itself stays out of logs
	return fmt.Sprintf("StorefrontAuth(variant: %s, token: [REDACTED])", a.SDKVariant)
}
