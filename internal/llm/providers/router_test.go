package providers

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/clausehq/go-clauserisk/internal/llm/configuration"
	"github.com/clausehq/go-clauserisk/internal/llm/llmerrors"
)

func TestFamilyOf(t *testing.T) {
	cases := []struct {
		model string
		want  string
	}{
		{"claude-3-5-sonnet-20241022", ProviderAnthropic},
		{"claude-opus-4", ProviderAnthropic},
		{"gpt-4o-mini", ProviderOpenAI},
		{"o1-preview", ProviderOpenAI},
		{"o3-mini", ProviderOpenAI},
		{"gemini-1.5-pro", ProviderGoogle},
		{"GEMINI-2.0-FLASH", ProviderGoogle},
		{"llama-3-70b", ""},
		{"", ""},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, FamilyOf(tc.model), "model %q", tc.model)
	}
}

func TestNewRouter_UnknownFamilyFails(t *testing.T) {
	_, err := NewRouter(map[string]configuration.ProviderConfig{
		"mystery": {},
	})

	require.Error(t, err)
	assert.ErrorIs(t, err, llmerrors.ErrUnknownProvider)
}

func TestRouterPick(t *testing.T) {
	r, err := NewRouter(map[string]configuration.ProviderConfig{
		ProviderAnthropic: {APIKey: "test-key"},
	})
	require.NoError(t, err)

	t.Run("configured family", func(t *testing.T) {
		adapter, err := r.Pick("claude-3-5-sonnet-20241022")
		require.NoError(t, err)
		assert.Equal(t, ProviderAnthropic, adapter.Name())
	})

	t.Run("unconfigured family", func(t *testing.T) {
		_, err := r.Pick("gpt-4o")
		assert.ErrorIs(t, err, llmerrors.ErrUnknownProvider)
	})

	t.Run("unknown model", func(t *testing.T) {
		_, err := r.Pick("mystery-model")
		assert.ErrorIs(t, err, llmerrors.ErrUnknownProvider)
	})
}
