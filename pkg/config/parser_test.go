package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/saturnines/storefront-graphql/pkg/auth"
	"github.com/saturnines/storefront-graphql/pkg/errors"
	"github.com/saturnines/storefront-graphql/pkg/transport/interceptor"
)

func TestStorefrontLoader_ValidMinimalConfig(t *testing.T) {
	// minimal valid config
	yamlContent := `
shop_domain: my-shop.myshopify.com
access_token: abc123
api_version: 2024-01
`

	cfg, err := NewDefaultLoader().Parse([]byte(yamlContent))
	if err != nil {
		t.Fatalf("Failed to parse valid config: %v", err)
	}

	if cfg.ShopDomain != "my-shop.myshopify.com" {
		t.Errorf("Expected shop domain 'my-shop.myshopify.com', got '%s'", cfg.ShopDomain)
	}
	if cfg.APIVersion != "2024-01" {
		t.Errorf("Expected api version '2024-01', got '%s'", cfg.APIVersion)
	}

	// defaults
	if cfg.MaxRetries != DefaultMaxRetries {
		t.Errorf("Expected default max retries %d, got %d", DefaultMaxRetries, cfg.MaxRetries)
	}
	if cfg.SDKVariant != "go" {
		t.Errorf("Expected default sdk variant 'go', got '%s'", cfg.SDKVariant)
	}
	if cfg.Logging.Level != LogLevelInfo || cfg.Logging.Format != LogFormatText {
		t.Errorf("Expected info/text logging, got %s/%s", cfg.Logging.Level, cfg.Logging.Format)
	}
}

func TestStorefrontLoader_EnvExpansion(t *testing.T) {
	t.Setenv("STOREFRONT_TOKEN", "from-env")

	yamlContent := `
shop_domain: my-shop.myshopify.com
access_token: ${STOREFRONT_TOKEN}
api_version: 2024-01
cache_dir: /tmp/storefront-cache
max_retries: 5
logging:
  level: debug
  format: json
`

	cfg, err := NewDefaultLoader().Parse([]byte(yamlContent))
	require.NoError(t, err)

	assert.Equal(t, "from-env", cfg.AccessToken)
	assert.Equal(t, "/tmp/storefront-cache", cfg.CacheDir)
	assert.Equal(t, 5, cfg.MaxRetries)
	assert.Equal(t, LogLevelDebug, cfg.Logging.Level)
	assert.Equal(t, LogFormatJSON, cfg.Logging.Format)
}

func TestStorefrontLoader_ValidationErrors(t *testing.T) {
	tests := []struct {
		name   string
		yaml   string
		fields []string
	}{
		{
			name:   "missing everything",
			yaml:   `cache_dir: /tmp`,
			fields: []string{"shop_domain", "access_token", "api_version"},
		},
		{
			name: "blank token",
			yaml: `
shop_domain: my-shop.myshopify.com
access_token: "   "
api_version: 2024-01
`,
			fields: []string{"access_token"},
		},
		{
			name: "url instead of host",
			yaml: `
shop_domain: https://my-shop.myshopify.com
access_token: abc
api_version: 2024-01
`,
			fields: []string{"shop_domain"},
		},
		{
			name: "negative retries",
			yaml: `
shop_domain: my-shop.myshopify.com
access_token: abc
api_version: 2024-01
max_retries: -1
`,
			fields: []string{"max_retries"},
		},
		{
			name: "unknown logging",
			yaml: `
shop_domain: my-shop.myshopify.com
access_token: abc
api_version: 2024-01
logging:
  level: verbose
  format: xml
`,
			fields: []string{"logging.level", "logging.format"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewDefaultLoader().Parse([]byte(tt.yaml))
			require.Error(t, err)
			assert.ErrorIs(t, err, errors.ErrConfiguration)
			assert.ErrorIs(t, err, errors.ErrValidation)

			var verrs ValidationErrors
			require.True(t, errors.As(err, &verrs))

			var got []string
			for _, ve := range verrs {
				got = append(got, ve.Field)
			}
			assert.Equal(t, tt.fields, got)
		})
	}
}

func TestStorefrontLoader_InvalidYAML(t *testing.T) {
	_, err := NewDefaultLoader().Parse([]byte("shop_domain: [unclosed"))
	assert.ErrorIs(t, err, errors.ErrConfiguration)
	assert.NotErrorIs(t, err, errors.ErrValidation)
}

func TestDefaultsMatchClient(t *testing.T) {
	assert.Equal(t, interceptor.DefaultMaxRetries, DefaultMaxRetries)
	assert.Equal(t, auth.DefaultSDKVariant, DefaultSDKVariant)
}

func TestStorefrontLoader_Load(t *testing.T) {
	path := filepath.Join(t.TempDir(), "storefront.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
shop_domain: my-shop.myshopify.com
access_token: abc
api_version: 2024-04
`), 0o600))

	cfg, err := NewDefaultLoader().Load(path)
	require.NoError(t, err)
	assert.Equal(t, "2024-04", cfg.APIVersion)

	_, err = NewDefaultLoader().Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.ErrorIs(t, err, errors.ErrConfiguration)
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestStorefrontLoader_NoDefaults(t *testing.T) {
	loader := NewStorefrontLoader(nil, nil, &RequiredFieldValidator{})
	cfg, err := loader.Parse([]byte(`
shop_domain: my-shop.myshopify.com
access_token: $TOKEN
api_version: 2024-01
`))
	require.NoError(t, err)

	// no expander: the reference is kept verbatim
	assert.Equal(t, "$TOKEN", cfg.AccessToken)
	assert.Zero(t, cfg.MaxRetries)
}
