// Command worker runs a Temporal worker hosting the contract analysis
// workflow and its pipeline activities.
//
// Configuration comes from the environment:
//
//	TEMPORAL_HOST_PORT  Temporal frontend address (default 127.0.0.1:7233)
//	TEMPORAL_NAMESPACE  Temporal namespace (default "default")
//	REDIS_ADDR          Redis address for the pipeline stores; when
//	                    unset the worker falls back to in-memory stores,
//	                    which is only useful for local development
//	ANTHROPIC_API_KEY / OPENAI_API_KEY / GOOGLE_API_KEY
//	                    provider credentials, picked up by the LLM
//	                    client configuration
package main

import (
	"log/slog"
	"os"

	"github.com/redis/go-redis/v9"
	"go.temporal.io/sdk/client"
	tlog "go.temporal.io/sdk/log"
	sdkworker "go.temporal.io/sdk/worker"

	"github.com/clausehq/go-clauserisk/internal/worker"
	"github.com/clausehq/go-clauserisk/internal/workflow"
)

func main() {
	logger := slog.New(slog.NewJSONHandler(os.Stderr, nil))
	slog.SetDefault(logger)

	hostPort := envOr("TEMPORAL_HOST_PORT", "127.0.0.1:7233")
	namespace := envOr("TEMPORAL_NAMESPACE", "default")

	llmClient, err := worker.InitializeLLMClient(nil)
	if err != nil {
		logger.Error("LLM client initialization failed", "error", err)
		os.Exit(1)
	}

	stores := worker.InitializeMemoryStores()
	if redisAddr := os.Getenv("REDIS_ADDR"); redisAddr != "" {
		stores = worker.InitializeRedisStores(redis.NewClient(&redis.Options{Addr: redisAddr}))
		logger.Info("Using Redis-backed stores", "addr", redisAddr)
	} else {
		logger.Warn("REDIS_ADDR not set; using in-memory stores")
	}

	temporalClient, err := client.Dial(client.Options{
		HostPort:  hostPort,
		Namespace: namespace,
		Logger:    tlog.NewStructuredLogger(logger),
	})
	if err != nil {
		logger.Error("Temporal client connection failed",
			"host_port", hostPort, "error", err)
		os.Exit(1)
	}
	defer temporalClient.Close()

	w := sdkworker.New(temporalClient, workflow.TaskQueue, sdkworker.Options{})
	worker.RegisterAll(w, llmClient, stores)

	logger.Info("Worker starting",
		"task_queue", workflow.TaskQueue,
		"namespace", namespace)
	if err := w.Run(sdkworker.InterruptCh()); err != nil {
		logger.Error("Worker stopped with error", "error", err)
		os.Exit(1)
	}
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
