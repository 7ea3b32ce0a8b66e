package providers

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"github.com/clausehq/go-clauserisk/internal/domain"
	"github.com/clausehq/go-clauserisk/internal/llm/configuration"
	"github.com/clausehq/go-clauserisk/internal/llm/llmerrors"
	"github.com/clausehq/go-clauserisk/internal/llm/transport"
)

// GoogleAdapter implements transport.ProviderAdapter for Google Gemini
// models using the generateContent API, with inline_data parts for the
// document-aware variant.
type GoogleAdapter struct {
	config configuration.ProviderConfig
}

// NewGoogleAdapter creates a Google provider adapter with default endpoint.
func NewGoogleAdapter(cfg configuration.ProviderConfig) *GoogleAdapter {
	if cfg.Endpoint == "" {
		cfg.Endpoint = "https://generativelanguage.googleapis.com/v1beta"
	}
	return &GoogleAdapter{config: cfg}
}

// Name returns the provider family name.
func (a *GoogleAdapter) Name() string { return ProviderGoogle }

// Build constructs a generateContent request from a normalized
// invocation request.
func (a *GoogleAdapter) Build(ctx context.Context, req *transport.Request) (*http.Request, error) {
	endpoint := fmt.Sprintf("%s/models/%s:generateContent?key=%s",
		a.config.Endpoint, req.Model, a.config.APIKey)

	parts := []map[string]any{}
	if req.Document != nil {
		part, err := googleDocumentPart(req.Document)
		if err != nil {
			return nil, err
		}
		parts = append(parts, part)
	}
	parts = append(parts, map[string]any{"text": req.Prompt})

	generationConfig := map[string]any{
		"temperature":     req.Temperature,
		"maxOutputTokens": req.MaxTokens,
	}
	if req.TopP != nil {
		generationConfig["topP"] = *req.TopP
	}
	if req.TopK != nil {
		generationConfig["topK"] = *req.TopK
	}

	body := map[string]any{
		"contents": []map[string]any{
			{"parts": parts},
		},
		"generationConfig": generationConfig,
	}
	if req.SystemPrompt != "" {
		body["systemInstruction"] = map[string]any{
			"parts": []map[string]any{
				{"text": req.SystemPrompt},
			},
		}
	}

	jsonBody, err := json.Marshal(body)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, "POST", endpoint, bytes.NewReader(jsonBody))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	httpReq.Header.Set("Content-Type", "application/json")
	for k, v := range a.config.Headers {
		httpReq.Header.Set(k, v)
	}

	return httpReq, nil
}

// googleDocumentPart shapes a document blob into an inline_data part.
func googleDocumentPart(doc *transport.Document) (map[string]any, error) {
	var mimeType string
	switch doc.Format {
	case domain.DocumentFormatPDF:
		mimeType = "application/pdf"
	case domain.DocumentFormatText:
		return map[string]any{"text": string(doc.Data)}, nil
	default:
		return nil, fmt.Errorf("%w: %s documents for %s",
			llmerrors.ErrDocumentUnsupported, doc.Format, ProviderGoogle)
	}
	return map[string]any{
		"inline_data": map[string]any{
			"mime_type": mimeType,
			"data":      base64.StdEncoding.EncodeToString(doc.Data),
		},
	}, nil
}

// Parse extracts normalized data from a generateContent response.
func (a *GoogleAdapter) Parse(httpResp *http.Response) (*transport.Response, error) {
	body, err := io.ReadAll(httpResp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	if httpResp.StatusCode != http.StatusOK {
		return nil, parseGoogleError(httpResp.StatusCode, body)
	}

	var resp struct {
		Candidates []struct {
			Content struct {
				Parts []struct {
					Text string `json:"text"`
				} `json:"parts"`
			} `json:"content"`
			FinishReason string `json:"finishReason"`
		} `json:"candidates"`
		UsageMetadata struct {
			PromptTokenCount     int `json:"promptTokenCount"`
			CandidatesTokenCount int `json:"candidatesTokenCount"`
		} `json:"usageMetadata"`
	}
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, fmt.Errorf("failed to parse response: %w", err)
	}

	var content string
	stopReason := transport.StopEndTurn
	if len(resp.Candidates) > 0 {
		for _, part := range resp.Candidates[0].Content.Parts {
			content += part.Text
		}
		stopReason = mapGoogleFinishReason(resp.Candidates[0].FinishReason)
	}

	return &transport.Response{
		Content:    content,
		StopReason: stopReason,
		Usage: transport.Usage{
			InputTokens:  int64(resp.UsageMetadata.PromptTokenCount),
			OutputTokens: int64(resp.UsageMetadata.CandidatesTokenCount),
		},
		Headers: httpResp.Header,
		RawBody: body,
	}, nil
}

// mapGoogleFinishReason converts Gemini finishReason values to
// normalized transport stop reasons.
func mapGoogleFinishReason(reason string) transport.StopReason {
	switch reason {
	case "STOP":
		return transport.StopEndTurn
	case "MAX_TOKENS":
		return transport.StopMaxTokens
	default:
		return transport.StopEndTurn
	}
}

// parseGoogleError converts Gemini error responses to ProviderError.
func parseGoogleError(statusCode int, body []byte) error {
	var errResp struct {
		Error struct {
			Message string `json:"message"`
			Status  string `json:"status"`
		} `json:"error"`
	}

	if err := json.Unmarshal(body, &errResp); err == nil && errResp.Error.Message != "" {
		return &llmerrors.ProviderError{
			Provider:   ProviderGoogle,
			StatusCode: statusCode,
			Message:    errResp.Error.Message,
			Code:       errResp.Error.Status,
			Type:       classifyErrorType(statusCode, errResp.Error.Status),
		}
	}

	return &llmerrors.ProviderError{
		Provider:   ProviderGoogle,
		StatusCode: statusCode,
		Message:    string(body),
		Type:       classifyErrorType(statusCode, ""),
	}
}
