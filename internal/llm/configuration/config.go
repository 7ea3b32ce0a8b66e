// Package configuration holds client configuration for the model
// invocation layer: provider endpoints and credentials, HTTP timeouts,
// and observability options.
package configuration

import (
	"net/http"
	"os"
	"time"
)

// Config holds configuration for the model invocation client.
type Config struct {
	// HTTPTimeout bounds each provider round trip when the request
	// itself carries no tighter timeout.
	HTTPTimeout time.Duration `json:"http_timeout"`

	// HTTPClient overrides the default client, mainly for tests.
	HTTPClient *http.Client `json:"-"`

	// Providers maps provider family name to its configuration.
	Providers map[string]ProviderConfig `json:"providers"`

	// Observability controls request/response logging.
	Observability ObservabilityConfig `json:"observability"`
}

// ProviderConfig holds provider-specific configuration and authentication.
type ProviderConfig struct {
	Endpoint  string            `json:"endpoint"`
	APIKey    string            `json:"-"` // Sensitive, not serialized
	APIKeyEnv string            `json:"api_key_env"`
	Headers   map[string]string `json:"headers"`
}

// ObservabilityConfig controls structured logging of model traffic.
type ObservabilityConfig struct {
	// LogPrompts enables logging of prompt text. Off by default:
	// contract text is customer data.
	LogPrompts bool `json:"log_prompts"`
}

// DefaultConfig returns a configuration with production endpoints and
// API keys resolved from conventional environment variables.
func DefaultConfig() *Config {
	return &Config{
		HTTPTimeout: 120 * time.Second,
		Providers: map[string]ProviderConfig{
			"anthropic": {APIKey: os.Getenv("ANTHROPIC_API_KEY")},
			"openai":    {APIKey: os.Getenv("OPENAI_API_KEY")},
			"google":    {APIKey: os.Getenv("GOOGLE_API_KEY")},
		},
	}
}
