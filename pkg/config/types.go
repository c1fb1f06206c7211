package config

import (
	"github.com/saturnines/storefront-graphql/pkg/auth"
	"github.com/saturnines/storefront-graphql/pkg/transport/interceptor"
)

// Storefront represents the full config for one storefront client
type Storefront struct {
	ShopDomain  string  `yaml:"shop_domain"`           // Required: e.g. my-shop.myshopify.com
	AccessToken string  `yaml:"access_token"`          // Required storefront access token
	APIVersion  string  `yaml:"api_version"`           // Required: e.g. 2024-01
	CacheDir    string  `yaml:"cache_dir,omitempty"`   // Optional on-disk response cache
	MaxRetries  int     `yaml:"max_retries,omitempty"` // Attempts per query (default 3)
	SDKVariant  string  `yaml:"sdk_variant,omitempty"` // X-SDK-Variant header (default go)
	Logging     Logging `yaml:"logging,omitempty"`
}

// Logging configures the client's structured logger
type Logging struct {
	Level  LogLevel  `yaml:"level,omitempty"`  // debug, info, warn or error
	Format LogFormat `yaml:"format,omitempty"` // text or json
}

// LogLevel names a slog level
type LogLevel string

const (
	LogLevelDebug LogLevel = "debug"
	LogLevelInfo  LogLevel = "info"
	LogLevelWarn  LogLevel = "warn"
	LogLevelError LogLevel = "error"
)

// LogFormat selects the slog handler
type LogFormat string

const (
	LogFormatText LogFormat = "text"
	LogFormatJSON LogFormat = "json"
)

const (
	DefaultMaxRetries = interceptor.DefaultMaxRetries
	DefaultSDKVariant = auth.DefaultSDKVariant
)
