// Package worker provides initialization and setup utilities for Temporal workers.
// This package contains initialization logic that should be executed during
// worker startup, keeping activity packages focused on pure activity logic.
package worker

import (
	"fmt"

	"github.com/redis/go-redis/v9"

	"github.com/clausehq/go-clauserisk/internal/llm"
	"github.com/clausehq/go-clauserisk/internal/llm/configuration"
	"github.com/clausehq/go-clauserisk/internal/store"
)

// InitializeLLMClient creates an LLM client with comprehensive configuration.
// Returns the client for dependency injection rather than setting global state.
// Must be called during worker startup to establish the client with its
// middleware pipeline and provider routing.
func InitializeLLMClient(cfg *configuration.Config) (llm.Client, error) {
	if cfg == nil {
		cfg = configuration.DefaultConfig()
	}

	client, err := llm.NewClient(cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize LLM client: %w", err)
	}

	return client, nil
}

// InitializeRedisStores builds the pipeline store set on one Redis client.
func InitializeRedisStores(client redis.UniversalClient) Stores {
	return Stores{
		Clauses:    store.NewRedisClauseStore(client),
		Guidelines: store.NewRedisGuidelineStore(client),
		Documents:  store.NewRedisDocumentStore(client),
		Jobs:       store.NewRedisJobStore(client),
	}
}

// InitializeMemoryStores builds the in-memory store set for local
// development and tests.
func InitializeMemoryStores() Stores {
	return Stores{
		Clauses:    store.NewMemoryClauseStore(),
		Guidelines: store.NewMemoryGuidelineStore(),
		Documents:  store.NewMemoryDocumentStore(),
		Jobs:       store.NewMemoryJobStore(),
	}
}
