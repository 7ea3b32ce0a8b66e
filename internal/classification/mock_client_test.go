package classification

import (
	"context"
	"sync"

	"github.com/clausehq/go-clauserisk/internal/llm"
	"github.com/clausehq/go-clauserisk/internal/llm/transport"
)

// mockLLMClient provides scripted model behavior for classifier tests.
// Responses are selected by inspecting the prompt, which keeps tests
// deterministic even though group requests run concurrently.
type mockLLMClient struct {
	mu      sync.Mutex
	calls   int
	prompts []string

	// respond produces the response for one invocation. The prompt is
	// the request's user prompt.
	respond func(prompt string, req *llm.Request) (*llm.Response, error)
}

func (m *mockLLMClient) Invoke(_ context.Context, req *llm.Request) (*llm.Response, error) {
	m.mu.Lock()
	m.calls++
	m.prompts = append(m.prompts, req.Prompt)
	m.mu.Unlock()
	return m.respond(req.Prompt, req)
}

func (m *mockLLMClient) callCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.calls
}

// completeResponse is a model response that stopped cleanly.
func completeResponse(content string) *llm.Response {
	return &llm.Response{Content: content, StopReason: transport.StopEndTurn}
}

// truncatedResponse is a model response cut off at the token budget.
func truncatedResponse(content string) *llm.Response {
	return &llm.Response{Content: content, StopReason: transport.StopMaxTokens}
}
