// Package config defines the immutable configuration for the ordersweep job.
// Configuration is loaded once at process initialization (Lambda cold start or
// CLI startup) and never modified afterwards; components receive only the
// subsets they need.
//
// Values are resolved via a priority chain:
//
//	OS Environment (Highest) -> Dotenv File -> AWS SSM Parameter Store (Lowest)
//
// Any missing required value or invalid format fails the run immediately on
// startup.
package config

import (
	"time"

	"ordersweep/internal/types"
)

// SecretString is an alias for types.SecretString, the redacted secret type
// used for credentials to prevent accidental logging of sensitive values.
type SecretString = types.SecretString

// Config is the top-level configuration struct for the resender job.
type Config struct {
	// System metadata.
	Environment string `envconfig:"APP_ENV" default:"local" validate:"oneof=local dev staging prod"`
	LogLevel    string `envconfig:"LOG_LEVEL" default:"info"`

	// Domain configurations.
	Magento  MagentoConfig
	Resend   ResendConfig
	Webhooks WebhookConfig
	TimeAPI  TimeAPIConfig
	Metrics  MetricsConfig
}

// MagentoConfig holds the order backend base URL, endpoint paths, and the
// header-based credentials the backend expects on every call.
type MagentoConfig struct {
	BaseURL    string `envconfig:"MAGENTO_BASE_URL" validate:"required,url"`
	SearchPath string `envconfig:"MAGENTO_ORDERS_SEARCH_PATH" validate:"required"`
	OrderPath  string `envconfig:"MAGENTO_ORDER_PATH" validate:"required"`

	// AuthToken is sent as the Authorization header value.
	AuthToken SecretString `envconfig:"MAGENTO_AUTH_TOKEN" validate:"required"`
	// A second secret header the storefront's edge requires, name and value
	// both deployment-specific.
	SecretHeaderName  string       `envconfig:"MAGENTO_SECRET_HEADER_NAME" validate:"required"`
	SecretHeaderValue SecretString `envconfig:"MAGENTO_SECRET_HEADER_VALUE" validate:"required"`

	// HTTPTimeout bounds every outbound call to the backend and the webhooks.
	HTTPTimeout time.Duration `envconfig:"HTTP_TIMEOUT" default:"30s"`
}

// ResendConfig holds the reconciliation policy knobs.
type ResendConfig struct {
	// MaxAttempts is the resend budget; at or beyond it an order escalates.
	MaxAttempts int `envconfig:"MAX_EMAIL_ATTEMPTS" validate:"required,min=1"`
	// CommentPrefix marks history comments that record a prior resend attempt.
	CommentPrefix string `envconfig:"COMMENT_PREFIX" validate:"required"`
	// OrderAgeMins sets the polling window: orders created in the last
	// OrderAgeMins minutes are considered.
	OrderAgeMins int `envconfig:"ORDER_AGE_MINS" validate:"required,min=1"`
	// CommentField is the key on the full order detail holding the customer's
	// order comment, forwarded during escalation.
	CommentField string `envconfig:"ORDER_COMMENT_FIELD" validate:"required"`
}

// WebhookConfig holds the outbound webhook destinations used on escalation.
type WebhookConfig struct {
	AlertURL  string `envconfig:"ALERT_WEBHOOK_URL" validate:"required,url"`
	EmailURL  string `envconfig:"EMAIL_WEBHOOK_URL" validate:"required,url"`
	UserAgent string `envconfig:"WEBHOOK_USER_AGENT" default:"OrderSweep/1.0"`
}

// TimeAPIConfig holds the daylight-saving oracle settings. The reference
// timezone is the storefront's business timezone; the backend's created_at
// filtering drifts by one hour while DST is active there.
type TimeAPIConfig struct {
	BaseURL  string `envconfig:"TIME_API_BASE_URL" default:"https://timeapi.io" validate:"url"`
	Timezone string `envconfig:"REFERENCE_TIMEZONE" default:"Europe/London" validate:"required"`
}

// MetricsConfig holds CloudWatch run-summary metric settings.
type MetricsConfig struct {
	Enabled   bool   `envconfig:"METRICS_ENABLED" default:"false"`
	Namespace string `envconfig:"METRIC_NAMESPACE" default:"OrderSweep"`
	Region    string `envconfig:"AWS_REGION" default:"eu-west-2"`
}

// ConfigErrorType categorizes configuration loading failures to aid debugging.
type ConfigErrorType string

const (
	// ErrSSMResolution indicates a failure when fetching secrets from AWS SSM.
	ErrSSMResolution ConfigErrorType = "SSM_FAILURE"
	// ErrValidation indicates the configuration failed struct validation rules.
	ErrValidation ConfigErrorType = "VALIDATION_FAILED"
	// ErrParsing indicates a failure when parsing environment variable values
	// into their target types.
	ErrParsing ConfigErrorType = "PARSING_FAILED"
)
