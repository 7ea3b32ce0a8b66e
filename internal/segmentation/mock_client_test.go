package segmentation

import (
	"context"
	"sync"

	"github.com/clausehq/go-clauserisk/internal/llm"
	"github.com/clausehq/go-clauserisk/internal/llm/transport"
)

// mockLLMClient replays a scripted sequence of extraction pass
// responses and records the requests for anchor assertions.
type mockLLMClient struct {
	mu        sync.Mutex
	calls     int
	requests  []*llm.Request
	responses []*llm.Response
	err       error
}

func (m *mockLLMClient) Invoke(_ context.Context, req *llm.Request) (*llm.Response, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.requests = append(m.requests, req)
	call := m.calls
	m.calls++

	if m.err != nil {
		return nil, m.err
	}
	if call >= len(m.responses) {
		return &llm.Response{Content: "<answer></answer>", StopReason: transport.StopEndTurn}, nil
	}
	return m.responses[call], nil
}

// completeResponse is an extraction pass that reached the document end.
func completeResponse(clauses ...string) *llm.Response {
	return &llm.Response{
		Content:    renderAnswer(clauses, true),
		StopReason: transport.StopEndTurn,
	}
}

// truncatedResponse is an extraction pass cut off at the token budget,
// losing the closing answer marker.
func truncatedResponse(clauses ...string) *llm.Response {
	return &llm.Response{
		Content:    renderAnswer(clauses, false),
		StopReason: transport.StopMaxTokens,
	}
}

func renderAnswer(clauses []string, closed bool) string {
	out := "<answer>\n"
	for _, c := range clauses {
		out += "<clause>" + c + "</clause>\n"
	}
	if closed {
		out += "</answer>"
	}
	return out
}
