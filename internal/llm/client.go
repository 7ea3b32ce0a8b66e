// Package llm provides the unified model-invocation client used by
// every pipeline stage. It composes the transport HTTP core with
// provider routing and observability middleware, exposing a single
// Invoke method over normalized request/response types.
package llm

import (
	"context"
	"fmt"
	"net/http"

	"github.com/clausehq/go-clauserisk/internal/llm/configuration"
	"github.com/clausehq/go-clauserisk/internal/llm/providers"
	"github.com/clausehq/go-clauserisk/internal/llm/transport"
)

// Request is the normalized model invocation request.
type Request = transport.Request

// Response is the normalized model output.
type Response = transport.Response

// Document is the optional blob for document-aware invocations.
type Document = transport.Document

// Client invokes text-generation models through a normalized interface.
// Implementations must be safe for concurrent use: classification fans
// a single clause out across taxonomy partitions in parallel.
type Client interface {
	// Invoke submits one model call and returns the normalized
	// response. Truncation surfaces as Response.StopReason, never as an
	// error. The document-aware variant is selected by setting
	// Request.Document.
	Invoke(ctx context.Context, req *Request) (*Response, error)
}

// client wires the middleware pipeline around the HTTP transport core.
type client struct {
	handler transport.Handler
}

// NewClient creates a model client from configuration: provider router,
// HTTP core, and logging middleware.
func NewClient(cfg *configuration.Config) (Client, error) {
	if cfg == nil {
		cfg = configuration.DefaultConfig()
	}

	router, err := providers.NewRouter(cfg.Providers)
	if err != nil {
		return nil, fmt.Errorf("failed to build provider router: %w", err)
	}

	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: cfg.HTTPTimeout}
	}

	core := transport.NewHTTPHandler(httpClient, router)
	handler := transport.Chain(core, NewLoggingMiddleware(cfg.Observability, nil))

	return &client{handler: handler}, nil
}

// Invoke implements Client by running the request through the pipeline.
func (c *client) Invoke(ctx context.Context, req *Request) (*Response, error) {
	return c.handler.Handle(ctx, req)
}
