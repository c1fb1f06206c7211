package storefront

import (
	stderrors "errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"

	"github.com/saturnines/storefront-graphql/pkg/auth"
	"github.com/saturnines/storefront-graphql/pkg/config"
	"github.com/saturnines/storefront-graphql/pkg/errors"
	"github.com/saturnines/storefront-graphql/pkg/transport/graphql"
	"github.com/saturnines/storefront-graphql/pkg/transport/interceptor"
)

// Config is the resolved, read-only configuration of a Client.
type Config struct {
	Endpoint    string
	AccessToken string
	MaxRetries  int
	SDKVariant  string
	// HTTPClient is the client requests are sent through, interceptors
	// included.
	HTTPClient *http.Client
}

// Builder collects client settings. The zero value is not usable; start
// from NewBuilder or NewBuilderFromConfig.
type Builder struct {
	shopDomain  string
	accessToken string
	apiVersion  string
	cacheDir    string
	httpClient  *http.Client
	maxRetries  int
	sdkVariant  string
	logger      *slog.Logger
}

// NewBuilder starts a client for the storefront API of shopDomain
// (e.g. "my-shop.myshopify.com").
func NewBuilder(shopDomain, accessToken, apiVersion string) *Builder {
	return &Builder{
		shopDomain:  shopDomain,
		accessToken: accessToken,
		apiVersion:  apiVersion,
		maxRetries:  interceptor.DefaultMaxRetries,
		sdkVariant:  auth.DefaultSDKVariant,
	}
}

// NewBuilderFromConfig starts a client from a loaded configuration file.
func NewBuilderFromConfig(cfg *config.Storefront) *Builder {
	b := NewBuilder(cfg.ShopDomain, cfg.AccessToken, cfg.APIVersion)
	b.cacheDir = cfg.CacheDir
	if cfg.MaxRetries != 0 {
		b.maxRetries = cfg.MaxRetries
	}
	if cfg.SDKVariant != "" {
		b.sdkVariant = cfg.SDKVariant
	}
	return b
}

// WithCacheDir enables the on-disk response cache of the default transport.
// Ignored when a custom HTTP client is supplied.
func (b *Builder) WithCacheDir(dir string) *Builder {
	b.cacheDir = dir
	return b
}

// WithHTTPClient sends requests through a copy of client. The retry and
// auth interceptors are layered over its transport; client itself is left
// unchanged.
func (b *Builder) WithHTTPClient(client *http.Client) *Builder {
	b.httpClient = client
	return b
}

// WithMaxRetries sets the maximum number of attempts per query.
func (b *Builder) WithMaxRetries(n int) *Builder {
	b.maxRetries = n
	return b
}

// WithSDKVariant overrides the X-SDK-Variant header value.
func (b *Builder) WithSDKVariant(variant string) *Builder {
	b.sdkVariant = variant
	return b
}

// WithLogger logs request tracing and retry attempts at debug level. A nil
// logger keeps the default, which discards everything.
func (b *Builder) WithLogger(logger *slog.Logger) *Builder {
	b.logger = logger
	return b
}

// Build validates the settings and returns an immutable Client. It makes no
// network calls.
func (b *Builder) Build() (*Client, error) {
	if err := b.validate(); err != nil {
		return nil, err
	}

	logger := b.logger
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}

	var httpClient http.Client
	if b.httpClient != nil {
		httpClient = *b.httpClient
	} else {
		httpClient = *DefaultHTTPClient(b.cacheDir)
	}
	httpClient.Transport = interceptor.Chain(httpClient.Transport,
		interceptor.Retry(b.maxRetries, interceptor.WithRetryLogger(b.logger)),
		interceptor.Auth(auth.NewStorefrontAuth(b.sdkVariant, b.accessToken)),
	)

	cfg := Config{
		Endpoint:    endpointURL(b.shopDomain, b.apiVersion),
		AccessToken: b.accessToken,
		MaxRetries:  b.maxRetries,
		SDKVariant:  b.sdkVariant,
		HTTPClient:  &httpClient,
	}
	logger.Debug("storefront client built", "endpoint", cfg.Endpoint, "max_retries", cfg.MaxRetries)

	return &Client{
		cfg:    cfg,
		gql:    graphql.NewClient(cfg.HTTPClient, graphql.WithLogger(logger)),
		logger: logger,
	}, nil
}

func (b *Builder) validate() error {
	required := []struct {
		field, value string
	}{
		{"shop domain", b.shopDomain},
		{"access token", b.accessToken},
		{"API version", b.apiVersion},
	}
	for _, r := range required {
		if strings.TrimSpace(r.value) == "" {
			return configError(r.field + " must not be blank")
		}
	}
	if b.maxRetries < 1 {
		return configError(fmt.Sprintf("max retries must be at least 1, got %d", b.maxRetries))
	}
	if strings.TrimSpace(b.sdkVariant) == "" {
		return configError("SDK variant must not be blank")
	}
	return nil
}

// endpointURL returns https://{shopDomain}/api/{apiVersion}/graphql.
func endpointURL(shopDomain, apiVersion string) string {
	u := url.URL{
		Scheme: "https",
		Host:   shopDomain,
		Path:   "/api/" + apiVersion + "/graphql",
	}
	return u.String()
}

func configError(msg string) error {
	return errors.WrapError(stderrors.New(msg), errors.ErrConfiguration, "storefront client")
}
