package config

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/saturnines/storefront-graphql/pkg/errors"
)

// ConfigLoader defines the interface for loading configs
type ConfigLoader interface {
	Load(path string) (*Storefront, error)
	Parse(data []byte) (*Storefront, error)
}

type ValidationError struct {
	Field   string
	Message string
}

type Validator interface {
	Validate(config *Storefront) []ValidationError
}

// Returns the string representation of validation error
func (e ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// ValidationErrors collects every problem found in one config
type ValidationErrors []ValidationError

func (e ValidationErrors) Error() string {
	msgs := make([]string, len(e))
	for i, ve := range e {
		msgs[i] = ve.Error()
	}
	return strings.Join(msgs, "; ")
}

// DefaultValueSetter Handles the interface for setting default values
type DefaultValueSetter interface {
	SetDefaults(config *Storefront)
}

// VariableExpander defines the interface for expanding variables
type VariableExpander interface {
	Expand(data []byte) []byte
}

// EnvExpander implements VariableExpander using environment variables
type EnvExpander struct{}

// Expand expands environment variables with the given data
func (e *EnvExpander) Expand(data []byte) []byte {
	expanded := os.Expand(string(data), os.Getenv)
	return []byte(expanded)
}

// StorefrontLoader reads storefront client configs from YAML
type StorefrontLoader struct {
	expander      VariableExpander
	validators    []Validator
	defaultSetter DefaultValueSetter
}

// NewStorefrontLoader creates a new StorefrontLoader with the given components
func NewStorefrontLoader(
	expander VariableExpander,
	defaultSetter DefaultValueSetter,
	validators ...Validator,
) *StorefrontLoader {
	return &StorefrontLoader{
		expander:      expander,
		validators:    validators,
		defaultSetter: defaultSetter,
	}
}

// NewDefaultLoader expands ${VAR} references, applies Defaults and runs
// every validator in this package.
func NewDefaultLoader() *StorefrontLoader {
	return NewStorefrontLoader(
		&EnvExpander{},
		&Defaults{},
		&RequiredFieldValidator{},
		&RetryValidator{},
		&LoggingValidator{},
	)
}

// Load a new storefront config from YAML file
func (l *StorefrontLoader) Load(path string) (*Storefront, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.WrapError(err, errors.ErrConfiguration, "failed to read file")
	}

	return l.Parse(data)
}

// Parse parses a yaml config
func (l *StorefrontLoader) Parse(data []byte) (*Storefront, error) {
	// Expand variables if an expander is configured
	if l.expander != nil {
		data = l.expander.Expand(data)
	}

	var cfg Storefront
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, errors.WrapError(err, errors.ErrConfiguration, "failed to parse YAML")
	}

	// Set default values if a default setter is configured
	if l.defaultSetter != nil {
		l.defaultSetter.SetDefaults(&cfg)
	}

	var allErrors ValidationErrors
	for _, validator := range l.validators {
		allErrors = append(allErrors, validator.Validate(&cfg)...)
	}

	// Return any validation errors if there are any
	if len(allErrors) > 0 {
		return nil, errors.WrapError(
			fmt.Errorf("%w: %w", errors.ErrValidation, allErrors),
			errors.ErrConfiguration,
			"invalid storefront config",
		)
	}

	return &cfg, nil
}

// Defaults implements DefaultValueSetter for Storefront
type Defaults struct{}

// SetDefaults fills in optional settings left empty
func (d *Defaults) SetDefaults(cfg *Storefront) {
	if cfg.MaxRetries == 0 {
		cfg.MaxRetries = DefaultMaxRetries
	}
	if cfg.SDKVariant == "" {
		cfg.SDKVariant = DefaultSDKVariant
	}
	if cfg.Logging.Level == "" {
		cfg.Logging.Level = LogLevelInfo
	}
	if cfg.Logging.Format == "" {
		cfg.Logging.Format = LogFormatText
	}
}

// RequiredFieldValidator validates required fields for the API
type RequiredFieldValidator struct{}

// Validate checks that every required field is present and not blank
func (v *RequiredFieldValidator) Validate(cfg *Storefront) []ValidationError {
	var errs []ValidationError

	if strings.TrimSpace(cfg.ShopDomain) == "" {
		errs = append(errs, ValidationError{Field: "shop_domain", Message: "is required"})
	} else if strings.Contains(cfg.ShopDomain, "://") || strings.Contains(cfg.ShopDomain, "/") {
		errs = append(errs, ValidationError{Field: "shop_domain", Message: "must be a host name, not a URL"})
	}

	if strings.TrimSpace(cfg.AccessToken) == "" {
		errs = append(errs, ValidationError{Field: "access_token", Message: "is required"})
	}

	if strings.TrimSpace(cfg.APIVersion) == "" {
		errs = append(errs, ValidationError{Field: "api_version", Message: "is required"})
	}

	return errs
}

// RetryValidator validates retry configuration
type RetryValidator struct{}

func (v *RetryValidator) Validate(cfg *Storefront) []ValidationError {
	if cfg.MaxRetries < 1 {
		return []ValidationError{{Field: "max_retries", Message: fmt.Sprintf("must be at least 1, got %d", cfg.MaxRetries)}}
	}
	return nil
}

// LoggingValidator rejects unknown log levels and formats
type LoggingValidator struct{}

func (v *LoggingValidator) Validate(cfg *Storefront) []ValidationError {
	var errs []ValidationError

	switch cfg.Logging.Level {
	case LogLevelDebug, LogLevelInfo, LogLevelWarn, LogLevelError:
	default:
		errs = append(errs, ValidationError{Field: "logging.level", Message: fmt.Sprintf("unknown log level: %s", cfg.Logging.Level)})
	}

	switch cfg.Logging.Format {
	case LogFormatText, LogFormatJSON:
	default:
		errs = append(errs, ValidationError{Field: "logging.format", Message: fmt.Sprintf("unknown log format: %s", cfg.Logging.Format)})
	}

	return errs
}
