// Package providers implements model-family-specific HTTP adapters for
// the normalized transport layer. The set of families is closed:
// supporting a new one means adding an adapter and a match clause, not
// a subclass.
package providers

import (
	"fmt"
	"strings"

	"github.com/clausehq/go-clauserisk/internal/llm/configuration"
	"github.com/clausehq/go-clauserisk/internal/llm/llmerrors"
	"github.com/clausehq/go-clauserisk/internal/llm/transport"
)

// Supported provider family identifiers. These constants must match the
// provider names used in configuration.
const (
	ProviderAnthropic = "anthropic" // Anthropic Claude models
	ProviderOpenAI    = "openai"    // OpenAI GPT models
	ProviderGoogle    = "google"    // Google Gemini models
)

// FamilyOf derives the provider family from a model identifier by pure
// string matching. Returns "" when no family matches.
func FamilyOf(model string) string {
	m := strings.ToLower(model)
	switch {
	case strings.Contains(m, "claude"):
		return ProviderAnthropic
	case strings.Contains(m, "gpt") || strings.HasPrefix(m, "o1") || strings.HasPrefix(m, "o3"):
		return ProviderOpenAI
	case strings.Contains(m, "gemini"):
		return ProviderGoogle
	default:
		return ""
	}
}

// NewRouter creates a transport.Router with one adapter per configured
// provider family. Unknown family names in the configuration are an error.
func NewRouter(configs map[string]configuration.ProviderConfig) (transport.Router, error) {
	adapters := make(map[string]transport.ProviderAdapter, len(configs))

	for name, cfg := range configs {
		var adapter transport.ProviderAdapter
		switch name {
		case ProviderAnthropic:
			adapter = NewAnthropicAdapter(cfg)
		case ProviderOpenAI:
			adapter = NewOpenAIAdapter(cfg)
		case ProviderGoogle:
			adapter = NewGoogleAdapter(cfg)
		default:
			return nil, fmt.Errorf("%w: %s", llmerrors.ErrUnknownProvider, name)
		}
		adapters[name] = adapter
	}

	return &router{adapters: adapters}, nil
}

// router resolves adapters by string-matching the model identifier.
type router struct {
	adapters map[string]transport.ProviderAdapter
}

// Pick selects the adapter whose family matches the model identifier.
// Returns an error when the model matches no family or the matched
// family is not configured.
func (r *router) Pick(model string) (transport.ProviderAdapter, error) {
	family := FamilyOf(model)
	if family == "" {
		return nil, fmt.Errorf("%w: %s", llmerrors.ErrUnknownProvider, model)
	}
	adapter, ok := r.adapters[family]
	if !ok {
		return nil, fmt.Errorf("%w: %s not configured", llmerrors.ErrUnknownProvider, family)
	}
	return adapter, nil
}
